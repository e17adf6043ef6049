package tracking

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hongquyngo/inbound-logistic-dashboard/internal/domain/tracking"
)

// DashboardResponse aggregates everything the dashboard screen renders for
// one filter selection.
type DashboardResponse struct {
	KPIs                tracking.KPISummary            `json:"kpis"`
	StatusDistribution  []tracking.StatusCount         `json:"status_distribution"`
	StatusByVendorType  []tracking.StatusVendorCount   `json:"status_by_vendor_type"`
	ArrivalTimeline     []tracking.ArrivalBucket       `json:"arrival_timeline"`
	TopVendors          []tracking.VendorOutstanding   `json:"top_vendors"`
	LocationPerformance []tracking.LocationPerformance `json:"location_performance"`
	CurrencyExposure    []tracking.CurrencyExposure    `json:"currency_exposure"`
	PaymentTerms        []tracking.PaymentTermExposure `json:"payment_terms"`
	Warnings            []tracking.Warning             `json:"warnings,omitempty"`
	MatchedLines        int                            `json:"matched_lines"`
}

// DashboardService computes dashboard aggregations over a filtered dataset
type DashboardService struct {
	repo               tracking.PurchaseOrderRepository
	log                *zap.Logger
	arrivalHorizonDays int
	topVendors         int
	now                func() time.Time
}

// NewDashboardService creates a new DashboardService. Non-positive horizon or
// top-vendor limits fall back to the domain defaults.
func NewDashboardService(repo tracking.PurchaseOrderRepository, log *zap.Logger, arrivalHorizonDays, topVendors int) *DashboardService {
	if arrivalHorizonDays <= 0 {
		arrivalHorizonDays = tracking.ArrivalHorizonDays
	}
	if topVendors <= 0 {
		topVendors = 10
	}
	return &DashboardService{
		repo:               repo,
		log:                log,
		arrivalHorizonDays: arrivalHorizonDays,
		topVendors:         topVendors,
		now:                time.Now,
	}
}

// SetClock overrides the service clock, used by tests
func (s *DashboardService) SetClock(now func() time.Time) {
	s.now = now
}

// GetDashboard filters the dataset through the selection and aggregates the
// dashboard views over the matching lines.
func (s *DashboardService) GetDashboard(ctx context.Context, sel tracking.FilterSelection) (*DashboardResponse, error) {
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

	return &DashboardResponse{
		KPIs:                tracking.Summarize(result.Lines, now),
		StatusDistribution:  tracking.StatusDistribution(result.Lines),
		StatusByVendorType:  tracking.StatusByVendorType(result.Lines),
		ArrivalTimeline:     tracking.ArrivalTimeline(result.Lines, now, s.arrivalHorizonDays),
		TopVendors:          tracking.TopVendorsByOutstanding(result.Lines, s.topVendors),
		LocationPerformance: tracking.PerformanceByLocation(result.Lines),
		CurrencyExposure:    tracking.CurrencyExposureByVendorType(result.Lines),
		PaymentTerms:        tracking.PaymentTermsBreakdown(result.Lines, tracking.PaymentTermRows),
		Warnings:            result.Warnings,
		MatchedLines:        result.Count,
	}, nil
}
