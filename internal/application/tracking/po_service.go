package tracking

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hongquyngo/inbound-logistic-dashboard/internal/domain/shared"
	"github.com/hongquyngo/inbound-logistic-dashboard/internal/domain/tracking"
)

// FilterOptionsCache caches the derived filter options between dataset changes
type FilterOptionsCache interface {
	Get(ctx context.Context) (*tracking.FilterOptions, error)
	Set(ctx context.Context, opts tracking.FilterOptions) error
	Invalidate(ctx context.Context) error
}

// POTrackingService exposes the purchase order tracking use cases: deriving
// filter options, querying the dataset through a filter selection, and
// adjusting line schedules.
type POTrackingService struct {
	repo  tracking.PurchaseOrderRepository
	cache FilterOptionsCache
	log   *zap.Logger
	now   func() time.Time
}

// NewPOTrackingService creates a new POTrackingService
func NewPOTrackingService(repo tracking.PurchaseOrderRepository, cache FilterOptionsCache, log *zap.Logger) *POTrackingService {
	return &POTrackingService{
		repo:  repo,
		cache: cache,
		log:   log,
		now:   time.Now,
	}
}

// SetClock overrides the service clock, used by tests
func (s *POTrackingService) SetClock(now func() time.Time) {
	s.now = now
}

// GetFilterOptions returns the selectable filter domains for the current
// dataset, served from cache when available.
func (s *POTrackingService) GetFilterOptions(ctx context.Context) (*tracking.FilterOptions, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx); err == nil && cached != nil {
			return cached, nil
		} else if err != nil {
			s.log.Warn("filter options cache read failed", zap.Error(err))
		}
	}

	lines, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	opts := tracking.ComputeFilterOptions(lines, s.now())

	if s.cache != nil {
		if err := s.cache.Set(ctx, opts); err != nil {
			s.log.Warn("filter options cache write failed", zap.Error(err))
		}
	}
	return &opts, nil
}

// QueryResult couples a filtered dataset with the options it was validated
// against, so clients can refresh stale controls in one round trip.
type QueryResult struct {
	Result  *tracking.FilteredResult `json:"result"`
	Options tracking.FilterOptions   `json:"options"`
}

// QueryPurchaseOrders loads the dataset snapshot and applies the selection.
// Options are recomputed from the same snapshot so stale-selection detection
// never races a concurrent dataset change.
func (s *POTrackingService) QueryPurchaseOrders(ctx context.Context, sel tracking.FilterSelection) (*QueryResult, error) {
	lines, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	opts := tracking.ComputeFilterOptions(lines, now)
	result, err := tracking.Apply(sel, opts, lines, now)
	if err != nil {
		return nil, err
	}

	s.log.Debug("purchase order query",
		zap.Int("dataset", len(lines)),
		zap.Int("matched", result.Count),
		zap.Int("warnings", len(result.Warnings)))

	return &QueryResult{Result: result, Options: opts}, nil
}

// UpdateScheduleCommand adjusts the ETD and/or ETA of one line. Zero times
// leave the corresponding date unchanged.
type UpdateScheduleCommand struct {
	LineID    int64
	ETD       time.Time
	ETA       time.Time
	UpdatedBy string
}

// UpdateLineSchedule applies a schedule adjustment and invalidates the cached
// filter options, since date bounds may have shifted.
func (s *POTrackingService) UpdateLineSchedule(ctx context.Context, cmd UpdateScheduleCommand) error {
	if cmd.ETD.IsZero() && cmd.ETA.IsZero() {
		return shared.NewDomainError("NO_SCHEDULE_CHANGE", "At least one of etd or eta must be provided")
	}
	if cmd.UpdatedBy == "" {
		return shared.NewDomainError("MISSING_UPDATED_BY", "Schedule changes must identify the updating user")
	}

	if err := s.repo.UpdateSchedule(ctx, cmd.LineID, cmd.ETD, cmd.ETA, cmd.UpdatedBy); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.log.Warn("filter options cache invalidation failed", zap.Error(err))
		}
	}

	s.log.Info("line schedule updated",
		zap.Int64("line_id", cmd.LineID),
		zap.String("updated_by", cmd.UpdatedBy))
	return nil
}
