package tracking

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPOStatus(t *testing.T) {
	assert.True(t, StatusPending.IsValid())
	assert.False(t, POStatus("SHIPPED").IsValid())

	assert.True(t, StatusCompleted.IsTerminal())
	assert.False(t, StatusOverDelivered.IsTerminal())

	assert.True(t, StatusPending.IsPendingFulfillment())
	assert.True(t, StatusInProcess.IsPendingFulfillment())
	assert.False(t, StatusPendingReceipt.IsPendingFulfillment())

	assert.Less(t, StatusPending.Rank(), StatusCompleted.Rank())
	assert.Less(t, StatusCompleted.Rank(), StatusOverDelivered.Rank())
}

func TestDateFor(t *testing.T) {
	l := PurchaseOrderLine{
		PODate: date(2026, 1, 1),
		ETD:    date(2026, 2, 1),
		ETA:    date(2026, 3, 1),
	}

	assert.Equal(t, l.PODate, l.DateFor(DateTypePODate))
	assert.Equal(t, l.ETD, l.DateFor(DateTypeETD))
	assert.Equal(t, l.ETA, l.DateFor(DateTypeETA))
	assert.Equal(t, l.ETD, l.DateFor(DateType("???")), "unknown date types fall back to etd")
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2026, 3, 15, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		etd    time.Time
		status POStatus
		want   bool
	}{
		{"etd passed and open", date(2026, 3, 10), StatusPending, true},
		{"etd today is not overdue", date(2026, 3, 15), StatusPending, false},
		{"etd in the future", date(2026, 4, 1), StatusPending, false},
		{"completed lines never go overdue", date(2026, 3, 10), StatusCompleted, false},
		{"missing etd", time.Time{}, StatusPending, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := PurchaseOrderLine{ETD: tt.etd, Status: tt.status}
			assert.Equal(t, tt.want, l.IsOverdue(now))
		})
	}
}

func TestQuantityDerivations(t *testing.T) {
	l := PurchaseOrderLine{
		OrderedQty:   decimal.NewFromInt(100),
		DeliveredQty: decimal.NewFromInt(110),
		InvoicedQty:  decimal.NewFromInt(90),
	}

	assert.True(t, l.IsOverDelivered())
	assert.False(t, l.IsOverInvoiced())
	assert.True(t, l.RemainingQty().IsZero(), "remaining never goes negative")

	overInvoiced := PurchaseOrderLine{
		OrderedQty:   decimal.NewFromInt(100),
		DeliveredQty: decimal.NewFromInt(100),
		InvoicedQty:  decimal.NewFromInt(120),
	}
	assert.True(t, overInvoiced.IsOverInvoiced(), "invoiced beyond the ordered quantity")

	// Billed ahead of deliveries but still within the ordered quantity.
	billedAhead := PurchaseOrderLine{
		OrderedQty:   decimal.NewFromInt(100),
		DeliveredQty: decimal.NewFromInt(80),
		InvoicedQty:  decimal.NewFromInt(90),
	}
	assert.False(t, billedAhead.IsOverInvoiced(), "over-invoiced compares against ordered, not delivered")

	partial := PurchaseOrderLine{
		OrderedQty:   decimal.NewFromInt(100),
		DeliveredQty: decimal.NewFromInt(25),
	}
	assert.Equal(t, "75", partial.RemainingQty().String())
	assert.Equal(t, "25", partial.ArrivalCompletionPercent().String())
}

func TestDisplayForms(t *testing.T) {
	l := PurchaseOrderLine{
		VendorCode: "ACME", VendorName: "Acme Corp",
		LegalEntityCode: "LE1", LegalEntity: "Prostech VN",
	}
	assert.Equal(t, "ACME - Acme Corp", l.VendorDisplay())
	assert.Equal(t, "LE1 - Prostech VN", l.LegalEntityDisplay())

	noCode := PurchaseOrderLine{VendorName: "Acme Corp", LegalEntity: "Prostech VN"}
	assert.Equal(t, "Acme Corp", noCode.VendorDisplay())
	assert.Equal(t, "Prostech VN", noCode.LegalEntityDisplay())
}
