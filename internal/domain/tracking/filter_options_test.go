package tracking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeFilterOptions(t *testing.T) {
	opts := ComputeFilterOptions(sampleLines(), testNow)

	assert.Equal(t, []string{"PENDING", "COMPLETED", "OVER_DELIVERED"}, opts.Statuses,
		"statuses follow fulfillment rank order, not alphabetical")
	assert.Equal(t, []string{"ACME - Acme Corp", "GLOB - Globex"}, opts.Vendors)
	assert.Equal(t, []string{"LE1 - Prostech VN", "LE2 - Prostech TH"}, opts.LegalEntities)
	assert.Equal(t, []string{"External", "Internal"}, opts.VendorTypes)
	assert.Equal(t, []string{"BrandX", "BrandY"}, opts.Brands)
	assert.Equal(t, []string{"NET30", "NET60"}, opts.PaymentTerms)
	assert.Equal(t, []string{"alice", "bob"}, opts.Creators)

	etd := opts.BoundsFor(DateTypeETD)
	assert.Equal(t, date(2026, 2, 1), etd.Min)
	assert.Equal(t, date(2026, 4, 10), etd.Max)
}

func TestComputeFilterOptionsSkipsBlanks(t *testing.T) {
	lines := sampleLines()
	lines = append(lines, PurchaseOrderLine{LineID: 9, PONumber: "PO-1009", Status: StatusPending})

	opts := ComputeFilterOptions(lines, testNow)

	assert.NotContains(t, opts.Brands, "")
	assert.NotContains(t, opts.Vendors, "")
	assert.NotContains(t, opts.Creators, "")
	assert.Contains(t, opts.PONumbers, "PO-1009")
}

func TestComputeFilterOptionsEmptyDataset(t *testing.T) {
	opts := ComputeFilterOptions(nil, testNow)

	assert.Empty(t, opts.Statuses)
	assert.Empty(t, opts.Vendors)
	assert.Empty(t, opts.Brands)

	today := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	for _, dt := range []DateType{DateTypePODate, DateTypeETD, DateTypeETA} {
		bounds := opts.BoundsFor(dt)
		assert.Equal(t, today.AddDate(0, 0, -FallbackWindowDays), bounds.Min)
		assert.Equal(t, today.AddDate(0, 0, FallbackWindowDays), bounds.Max)
	}
}

func TestComputeFilterOptionsSkipsZeroDates(t *testing.T) {
	lines := []PurchaseOrderLine{
		{LineID: 1, PONumber: "PO-1", ETD: date(2026, 5, 1), Status: StatusPending},
		{LineID: 2, PONumber: "PO-2", Status: StatusPending},
	}

	opts := ComputeFilterOptions(lines, testNow)

	etd := opts.BoundsFor(DateTypeETD)
	assert.Equal(t, date(2026, 5, 1), etd.Min)
	assert.Equal(t, date(2026, 5, 1), etd.Max)
}

func TestBoundsForUnknownDateType(t *testing.T) {
	opts := ComputeFilterOptions(sampleLines(), testNow)

	assert.Equal(t, opts.BoundsFor(DateTypeETD), opts.BoundsFor(DateType("bogus")))
}
