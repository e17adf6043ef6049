package tracking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hongquyngo/inbound-logistic-dashboard/internal/domain/shared"
	"github.com/hongquyngo/inbound-logistic-dashboard/internal/domain/tracking"
)

type MockPurchaseOrderRepository struct {
	mock.Mock
}

func (m *MockPurchaseOrderRepository) LoadAll(ctx context.Context) ([]tracking.PurchaseOrderLine, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tracking.PurchaseOrderLine), args.Error(1)
}

func (m *MockPurchaseOrderRepository) UpdateSchedule(ctx context.Context, lineID int64, etd, eta time.Time, updatedBy string) error {
	args := m.Called(ctx, lineID, etd, eta, updatedBy)
	return args.Error(0)
}

type MockFilterOptionsCache struct {
	mock.Mock
}

func (m *MockFilterOptionsCache) Get(ctx context.Context) (*tracking.FilterOptions, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tracking.FilterOptions), args.Error(1)
}

func (m *MockFilterOptionsCache) Set(ctx context.Context, opts tracking.FilterOptions) error {
	args := m.Called(ctx, opts)
	return args.Error(0)
}

func (m *MockFilterOptionsCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var serviceNow = time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return serviceNow }

func serviceLines() []tracking.PurchaseOrderLine {
	return []tracking.PurchaseOrderLine{
		{
			LineID: 1, PONumber: "PO-3001",
			ETD:        time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			VendorCode: "ACME", VendorName: "Acme Corp", Brand: "BrandX",
			OrderedQty: decimal.NewFromInt(10),
			Status:     tracking.StatusPending,
		},
		{
			LineID: 2, PONumber: "PO-3002",
			ETD:        time.Date(2026, 4, 5, 0, 0, 0, 0, time.UTC),
			VendorCode: "GLOB", VendorName: "Globex", Brand: "BrandY",
			OrderedQty: decimal.NewFromInt(20),
			Status:     tracking.StatusCompleted,
		},
	}
}

func newService(repo *MockPurchaseOrderRepository, cache *MockFilterOptionsCache) *POTrackingService {
	var c FilterOptionsCache
	if cache != nil {
		c = cache
	}
	svc := NewPOTrackingService(repo, c, zap.NewNop())
	svc.SetClock(fixedClock)
	return svc
}

func TestGetFilterOptionsCacheMiss(t *testing.T) {
	repo := new(MockPurchaseOrderRepository)
	cache := new(MockFilterOptionsCache)
	repo.On("LoadAll", mock.Anything).Return(serviceLines(), nil)
	cache.On("Get", mock.Anything).Return(nil, nil)
	cache.On("Set", mock.Anything, mock.AnythingOfType("tracking.FilterOptions")).Return(nil)

	svc := newService(repo, cache)
	opts, err := svc.GetFilterOptions(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"ACME - Acme Corp", "GLOB - Globex"}, opts.Vendors)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestGetFilterOptionsCacheHit(t *testing.T) {
	repo := new(MockPurchaseOrderRepository)
	cache := new(MockFilterOptionsCache)
	cached := &tracking.FilterOptions{Brands: []string{"BrandZ"}}
	cache.On("Get", mock.Anything).Return(cached, nil)

	svc := newService(repo, cache)
	opts, err := svc.GetFilterOptions(context.Background())

	require.NoError(t, err)
	assert.Equal(t, cached, opts)
	repo.AssertNotCalled(t, "LoadAll", mock.Anything)
}

func TestGetFilterOptionsCacheFailureFallsThrough(t *testing.T) {
	repo := new(MockPurchaseOrderRepository)
	cache := new(MockFilterOptionsCache)
	repo.On("LoadAll", mock.Anything).Return(serviceLines(), nil)
	cache.On("Get", mock.Anything).Return(nil, errors.New("redis down"))
	cache.On("Set", mock.Anything, mock.Anything).Return(errors.New("redis down"))

	svc := newService(repo, cache)
	opts, err := svc.GetFilterOptions(context.Background())

	require.NoError(t, err, "cache failures degrade to recomputation")
	assert.NotEmpty(t, opts.Vendors)
}

func TestGetFilterOptionsWithoutCache(t *testing.T) {
	repo := new(MockPurchaseOrderRepository)
	repo.On("LoadAll", mock.Anything).Return(serviceLines(), nil)

	svc := newService(repo, nil)
	opts, err := svc.GetFilterOptions(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"BrandX", "BrandY"}, opts.Brands)
}

func TestQueryPurchaseOrders(t *testing.T) {
	repo := new(MockPurchaseOrderRepository)
	repo.On("LoadAll", mock.Anything).Return(serviceLines(), nil)

	svc := newService(repo, nil)
	sel := tracking.FilterSelection{Statuses: tracking.OneOf("PENDING")}
	res, err := svc.QueryPurchaseOrders(context.Background(), sel)

	require.NoError(t, err)
	require.Equal(t, 1, res.Result.Count)
	assert.Equal(t, int64(1), res.Result.Lines[0].LineID)
	assert.Equal(t, []string{"PENDING", "COMPLETED"}, res.Options.Statuses)
}

func TestQueryPurchaseOrdersInvalidRange(t *testing.T) {
	repo := new(MockPurchaseOrderRepository)
	repo.On("LoadAll", mock.Anything).Return(serviceLines(), nil)

	svc := newService(repo, nil)
	sel := tracking.FilterSelection{
		DateRange: &tracking.DateRange{
			From: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	res, err := svc.QueryPurchaseOrders(context.Background(), sel)

	assert.Nil(t, res)
	assert.ErrorIs(t, err, shared.ErrInvalidDateRange)
}

func TestQueryPurchaseOrdersRepoError(t *testing.T) {
	repo := new(MockPurchaseOrderRepository)
	repo.On("LoadAll", mock.Anything).Return(nil, errors.New("db down"))

	svc := newService(repo, nil)
	res, err := svc.QueryPurchaseOrders(context.Background(), tracking.FilterSelection{})

	assert.Nil(t, res)
	assert.EqualError(t, err, "db down")
}

func TestUpdateLineSchedule(t *testing.T) {
	repo := new(MockPurchaseOrderRepository)
	cache := new(MockFilterOptionsCache)
	etd := time.Date(2026, 4, 20, 0, 0, 0, 0, time.UTC)
	repo.On("UpdateSchedule", mock.Anything, int64(7), etd, time.Time{}, "alice").Return(nil)
	cache.On("Invalidate", mock.Anything).Return(nil)

	svc := newService(repo, cache)
	err := svc.UpdateLineSchedule(context.Background(), UpdateScheduleCommand{
		LineID: 7, ETD: etd, UpdatedBy: "alice",
	})

	require.NoError(t, err)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestUpdateLineScheduleValidation(t *testing.T) {
	svc := newService(new(MockPurchaseOrderRepository), nil)

	err := svc.UpdateLineSchedule(context.Background(), UpdateScheduleCommand{LineID: 7, UpdatedBy: "alice"})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NO_SCHEDULE_CHANGE", domainErr.Code)

	err = svc.UpdateLineSchedule(context.Background(), UpdateScheduleCommand{
		LineID: 7, ETD: time.Date(2026, 4, 20, 0, 0, 0, 0, time.UTC),
	})
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "MISSING_UPDATED_BY", domainErr.Code)
}

func TestUpdateLineScheduleNotFound(t *testing.T) {
	repo := new(MockPurchaseOrderRepository)
	eta := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)
	repo.On("UpdateSchedule", mock.Anything, int64(99), time.Time{}, eta, "bob").Return(shared.ErrNotFound)

	svc := newService(repo, nil)
	err := svc.UpdateLineSchedule(context.Background(), UpdateScheduleCommand{
		LineID: 99, ETA: eta, UpdatedBy: "bob",
	})

	assert.ErrorIs(t, err, shared.ErrNotFound)
}
