package tracking

import (
	"time"

	"github.com/shopspring/decimal"
)

// POStatus represents the fulfillment status of a purchase order line
type POStatus string

const (
	StatusPending          POStatus = "PENDING"
	StatusInProcess        POStatus = "IN_PROCESS"
	StatusPendingInvoicing POStatus = "PENDING_INVOICING"
	StatusPendingReceipt   POStatus = "PENDING_RECEIPT"
	StatusCompleted        POStatus = "COMPLETED"
	StatusOverDelivered    POStatus = "OVER_DELIVERED"
)

// statusRank defines the display ordering used across filter options and
// dashboard breakdowns. Unknown statuses sort after the known ones.
var statusRank = map[POStatus]int{
	StatusPending:          1,
	StatusInProcess:        2,
	StatusPendingInvoicing: 3,
	StatusPendingReceipt:   4,
	StatusCompleted:        5,
	StatusOverDelivered:    6,
}

// IsValid checks if the status is a known POStatus
func (s POStatus) IsValid() bool {
	_, ok := statusRank[s]
	return ok
}

// String returns the string representation of POStatus
func (s POStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the line needs no further follow-up
func (s POStatus) IsTerminal() bool {
	return s == StatusCompleted
}

// Rank returns the display ordering position of the status
func (s POStatus) Rank() int {
	if r, ok := statusRank[s]; ok {
		return r
	}
	return len(statusRank) + 1
}

// IsPendingFulfillment returns true for lines the dashboard counts as pending
func (s POStatus) IsPendingFulfillment() bool {
	return s == StatusPending || s == StatusInProcess
}

// VendorType distinguishes vendors within the parent organization from
// third-party vendors
type VendorType string

const (
	VendorInternal VendorType = "Internal"
	VendorExternal VendorType = "External"
)

// VendorLocation distinguishes vendors by country relative to the purchasing
// organization
type VendorLocation string

const (
	VendorDomestic      VendorLocation = "Domestic"
	VendorInternational VendorLocation = "International"
)

// DateType selects which date column of a line the date-range filter applies to
type DateType string

const (
	DateTypePODate DateType = "po_date"
	DateTypeETD    DateType = "etd"
	DateTypeETA    DateType = "eta"
)

// IsValid checks if the date type is one of the allowed date columns
func (d DateType) IsValid() bool {
	switch d {
	case DateTypePODate, DateTypeETD, DateTypeETA:
		return true
	}
	return false
}

// PurchaseOrderLine is a read model row of the PO tracking view. Lines are
// immutable for the duration of a filtering pass; the repository owns them.
type PurchaseOrderLine struct {
	LineID   int64     `json:"line_id"`
	PONumber string    `json:"po_number"`
	PODate   time.Time `json:"po_date"`
	ETD      time.Time `json:"etd"`
	ETA      time.Time `json:"eta"`

	VendorCode     string         `json:"vendor_code"`
	VendorName     string         `json:"vendor_name"`
	VendorType     VendorType     `json:"vendor_type"`
	VendorLocation VendorLocation `json:"vendor_location"`
	VendorCountry  string         `json:"vendor_country,omitempty"`

	LegalEntityCode string `json:"legal_entity_code"`
	LegalEntity     string `json:"legal_entity"`

	ProductName string `json:"product_name"`
	PTCode      string `json:"pt_code"`
	Brand       string `json:"brand,omitempty"`
	PackageSize string `json:"package_size,omitempty"`

	OrderedQty   decimal.Decimal `json:"ordered_qty"`
	DeliveredQty decimal.Decimal `json:"delivered_qty"`
	InvoicedQty  decimal.Decimal `json:"invoiced_qty"`

	Currency              string          `json:"currency,omitempty"`
	UnitCostUSD           decimal.Decimal `json:"unit_cost_usd"`
	TotalAmountUSD        decimal.Decimal `json:"total_amount_usd"`
	OutstandingArrivalUSD decimal.Decimal `json:"outstanding_arrival_usd"`
	OutstandingInvoiceUSD decimal.Decimal `json:"outstanding_invoice_usd"`

	PaymentTerm string   `json:"payment_term,omitempty"`
	CreatedBy   string   `json:"created_by,omitempty"`
	Status      POStatus `json:"status"`
	Critical    bool     `json:"critical"`
}

// DateFor returns the date column selected by the given date type.
// Unknown date types fall back to ETD, the panel's default.
func (l *PurchaseOrderLine) DateFor(dt DateType) time.Time {
	switch dt {
	case DateTypePODate:
		return l.PODate
	case DateTypeETA:
		return l.ETA
	default:
		return l.ETD
	}
}

// IsOverdue returns true when the line's ETD date has passed without the line
// reaching a terminal status. A line departing today is not overdue.
func (l *PurchaseOrderLine) IsOverdue(now time.Time) bool {
	if l.ETD.IsZero() || l.Status.IsTerminal() {
		return false
	}
	return l.ETD.Before(dayStart(now))
}

// IsOverDelivered returns true when more was delivered than ordered
func (l *PurchaseOrderLine) IsOverDelivered() bool {
	return l.DeliveredQty.GreaterThan(l.OrderedQty)
}

// IsOverInvoiced returns true when more was invoiced than ordered
func (l *PurchaseOrderLine) IsOverInvoiced() bool {
	return l.InvoicedQty.GreaterThan(l.OrderedQty)
}

// RemainingQty returns the quantity still to arrive, never negative
func (l *PurchaseOrderLine) RemainingQty() decimal.Decimal {
	remaining := l.OrderedQty.Sub(l.DeliveredQty)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// ArrivalCompletionPercent returns delivered/ordered as a percentage (0-100+)
func (l *PurchaseOrderLine) ArrivalCompletionPercent() decimal.Decimal {
	if l.OrderedQty.IsZero() {
		return decimal.Zero
	}
	return l.DeliveredQty.Div(l.OrderedQty).Mul(decimal.NewFromInt(100)).Round(2)
}

// VendorDisplay returns the "CODE - NAME" form used in filter option lists
func (l *PurchaseOrderLine) VendorDisplay() string {
	if l.VendorCode == "" {
		return l.VendorName
	}
	return l.VendorCode + " - " + l.VendorName
}

// LegalEntityDisplay returns the "CODE - NAME" form used in filter option lists
func (l *PurchaseOrderLine) LegalEntityDisplay() string {
	if l.LegalEntityCode == "" {
		return l.LegalEntity
	}
	return l.LegalEntityCode + " - " + l.LegalEntity
}

// dayStart truncates a timestamp to midnight in its own location
func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
