package tracking

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ArrivalHorizonDays is the default forward window of the arrival timeline
const ArrivalHorizonDays = 30

// KPISummary holds the headline numbers of the tracking dashboard
type KPISummary struct {
	TotalLines         int             `json:"total_lines"`
	PendingLines       int             `json:"pending_lines"`
	OverdueLines       int             `json:"overdue_lines"`
	OverDeliveredLines int             `json:"over_delivered_lines"`
	ThisWeekETDs       int             `json:"this_week_etds"`
	InTransitValueUSD  decimal.Decimal `json:"in_transit_value_usd"`
}

// Summarize computes the dashboard KPI cards over a dataset snapshot.
// Pending counts PENDING and IN_PROCESS lines; overdue counts lines whose ETD
// passed without completion; this-week counts ETDs inside the Monday-based
// week containing now; in-transit value sums outstanding arrival USD amounts.
func Summarize(lines []PurchaseOrderLine, now time.Time) KPISummary {
	weekStart := mondayOf(now)
	weekEnd := weekStart.AddDate(0, 0, 6)

	summary := KPISummary{
		TotalLines:        len(lines),
		InTransitValueUSD: decimal.Zero,
	}
	for i := range lines {
		l := &lines[i]
		if l.Status.IsPendingFulfillment() {
			summary.PendingLines++
		}
		if l.IsOverdue(now) {
			summary.OverdueLines++
		}
		if l.IsOverDelivered() {
			summary.OverDeliveredLines++
		}
		if !l.ETD.IsZero() {
			etd := dayStart(l.ETD)
			if !etd.Before(weekStart) && !etd.After(weekEnd) {
				summary.ThisWeekETDs++
			}
		}
		summary.InTransitValueUSD = summary.InTransitValueUSD.Add(l.OutstandingArrivalUSD)
	}
	return summary
}

// StatusCount is one bar of the status distribution chart
type StatusCount struct {
	Status POStatus `json:"status"`
	Lines  int      `json:"lines"`
}

// StatusDistribution counts lines per status, ordered by status rank.
// Only statuses present in the dataset appear.
func StatusDistribution(lines []PurchaseOrderLine) []StatusCount {
	counts := make(map[POStatus]int)
	for i := range lines {
		counts[lines[i].Status]++
	}
	out := make([]StatusCount, 0, len(counts))
	for s, n := range counts {
		out = append(out, StatusCount{Status: s, Lines: n})
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := out[i].Status.Rank(), out[j].Status.Rank()
		if ri != rj {
			return ri < rj
		}
		return out[i].Status < out[j].Status
	})
	return out
}

// ArrivalBucket is one weekly bucket of the upcoming-arrivals timeline
type ArrivalBucket struct {
	WeekStart time.Time       `json:"week_start"`
	Lines     int             `json:"lines"`
	AmountUSD decimal.Decimal `json:"amount_usd"`
}

// ArrivalTimeline groups lines with an ETD in [today, today+horizonDays] into
// Monday-based weekly buckets, ordered by week. A non-positive horizon uses
// the default.
func ArrivalTimeline(lines []PurchaseOrderLine, now time.Time, horizonDays int) []ArrivalBucket {
	if horizonDays <= 0 {
		horizonDays = ArrivalHorizonDays
	}
	today := dayStart(now)
	horizon := today.AddDate(0, 0, horizonDays)

	buckets := make(map[time.Time]*ArrivalBucket)
	for i := range lines {
		l := &lines[i]
		if l.ETD.IsZero() {
			continue
		}
		etd := dayStart(l.ETD)
		if etd.Before(today) || etd.After(horizon) {
			continue
		}
		week := mondayOf(etd)
		b, ok := buckets[week]
		if !ok {
			b = &ArrivalBucket{WeekStart: week, AmountUSD: decimal.Zero}
			buckets[week] = b
		}
		b.Lines++
		b.AmountUSD = b.AmountUSD.Add(l.TotalAmountUSD)
	}

	out := make([]ArrivalBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekStart.Before(out[j].WeekStart) })
	return out
}

// VendorOutstanding is one row of the top-vendors-by-open-value table
type VendorOutstanding struct {
	VendorName     string          `json:"vendor_name"`
	VendorType     VendorType      `json:"vendor_type"`
	VendorLocation VendorLocation  `json:"vendor_location"`
	OpenLines      int             `json:"open_lines"`
	OutstandingUSD decimal.Decimal `json:"outstanding_usd"`
	OverDeliveries int             `json:"over_deliveries"`
}

// TopVendorsByOutstanding ranks vendors by outstanding arrival value among
// non-completed lines and returns the top n. Ties break on vendor name so the
// ordering is deterministic.
func TopVendorsByOutstanding(lines []PurchaseOrderLine, n int) []VendorOutstanding {
	agg := make(map[string]*VendorOutstanding)
	for i := range lines {
		l := &lines[i]
		if l.Status.IsTerminal() || l.VendorName == "" {
			continue
		}
		v, ok := agg[l.VendorName]
		if !ok {
			v = &VendorOutstanding{
				VendorName:     l.VendorName,
				VendorType:     l.VendorType,
				VendorLocation: l.VendorLocation,
				OutstandingUSD: decimal.Zero,
			}
			agg[l.VendorName] = v
		}
		v.OpenLines++
		v.OutstandingUSD = v.OutstandingUSD.Add(l.OutstandingArrivalUSD)
		if l.IsOverDelivered() {
			v.OverDeliveries++
		}
	}

	out := make([]VendorOutstanding, 0, len(agg))
	for _, v := range agg {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OutstandingUSD.Equal(out[j].OutstandingUSD) {
			return out[i].OutstandingUSD.GreaterThan(out[j].OutstandingUSD)
		}
		return out[i].VendorName < out[j].VendorName
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// StatusVendorCount is one segment of the status-by-vendor-type chart
type StatusVendorCount struct {
	Status     POStatus   `json:"status"`
	VendorType VendorType `json:"vendor_type"`
	Lines      int        `json:"lines"`
}

// StatusByVendorType counts lines per (status, vendor type) pair, ordered by
// status rank then vendor type.
func StatusByVendorType(lines []PurchaseOrderLine) []StatusVendorCount {
	type key struct {
		status POStatus
		vt     VendorType
	}
	counts := make(map[key]int)
	for i := range lines {
		counts[key{lines[i].Status, lines[i].VendorType}]++
	}
	out := make([]StatusVendorCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, StatusVendorCount{Status: k.status, VendorType: k.vt, Lines: n})
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := out[i].Status.Rank(), out[j].Status.Rank()
		if ri != rj {
			return ri < rj
		}
		if out[i].Status != out[j].Status {
			return out[i].Status < out[j].Status
		}
		return out[i].VendorType < out[j].VendorType
	})
	return out
}

// LocationPerformance is one row of the performance-by-vendor-location view
type LocationPerformance struct {
	VendorLocation       VendorLocation  `json:"vendor_location"`
	POCount              int             `json:"po_count"`
	AvgCompletionPercent decimal.Decimal `json:"avg_completion_percent"`
}

// PerformanceByLocation reports the distinct PO count and mean arrival
// completion percentage per vendor location, ordered by location.
func PerformanceByLocation(lines []PurchaseOrderLine) []LocationPerformance {
	type acc struct {
		pos   map[string]struct{}
		total decimal.Decimal
		n     int64
	}
	byLoc := make(map[VendorLocation]*acc)
	for i := range lines {
		l := &lines[i]
		a, ok := byLoc[l.VendorLocation]
		if !ok {
			a = &acc{pos: make(map[string]struct{}), total: decimal.Zero}
			byLoc[l.VendorLocation] = a
		}
		a.pos[l.PONumber] = struct{}{}
		a.total = a.total.Add(l.ArrivalCompletionPercent())
		a.n++
	}
	out := make([]LocationPerformance, 0, len(byLoc))
	for loc, a := range byLoc {
		avg := decimal.Zero
		if a.n > 0 {
			avg = a.total.Div(decimal.NewFromInt(a.n)).Round(2)
		}
		out = append(out, LocationPerformance{
			VendorLocation:       loc,
			POCount:              len(a.pos),
			AvgCompletionPercent: avg,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VendorLocation < out[j].VendorLocation })
	return out
}

// CurrencyExposure is one segment of the currency exposure chart
type CurrencyExposure struct {
	Currency   string          `json:"currency"`
	VendorType VendorType      `json:"vendor_type"`
	AmountUSD  decimal.Decimal `json:"amount_usd"`
	POCount    int             `json:"po_count"`
}

// CurrencyExposureByVendorType sums USD order value per (currency, vendor
// type), ordered by currency then vendor type. Lines without a currency are
// skipped.
func CurrencyExposureByVendorType(lines []PurchaseOrderLine) []CurrencyExposure {
	type key struct {
		currency string
		vt       VendorType
	}
	type acc struct {
		amount decimal.Decimal
		pos    map[string]struct{}
	}
	agg := make(map[key]*acc)
	for i := range lines {
		l := &lines[i]
		if l.Currency == "" {
			continue
		}
		k := key{l.Currency, l.VendorType}
		a, ok := agg[k]
		if !ok {
			a = &acc{amount: decimal.Zero, pos: make(map[string]struct{})}
			agg[k] = a
		}
		a.amount = a.amount.Add(l.TotalAmountUSD)
		a.pos[l.PONumber] = struct{}{}
	}
	out := make([]CurrencyExposure, 0, len(agg))
	for k, a := range agg {
		out = append(out, CurrencyExposure{
			Currency:   k.currency,
			VendorType: k.vt,
			AmountUSD:  a.amount,
			POCount:    len(a.pos),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Currency != out[j].Currency {
			return out[i].Currency < out[j].Currency
		}
		return out[i].VendorType < out[j].VendorType
	})
	return out
}

// PaymentTermRows is the default number of rows in the payment-terms breakdown
const PaymentTermRows = 10

// PaymentTermExposure is one row of the payment-terms breakdown
type PaymentTermExposure struct {
	PaymentTerm           string          `json:"payment_term"`
	VendorLocation        VendorLocation  `json:"vendor_location"`
	OutstandingInvoiceUSD decimal.Decimal `json:"outstanding_invoice_usd"`
	POCount               int             `json:"po_count"`
}

// PaymentTermsBreakdown sums outstanding invoice value per (payment term,
// vendor location), ranked by value descending, keeping the top n rows. Lines
// without a payment term are skipped; ties break on term then location.
func PaymentTermsBreakdown(lines []PurchaseOrderLine, n int) []PaymentTermExposure {
	type key struct {
		term string
		loc  VendorLocation
	}
	type acc struct {
		outstanding decimal.Decimal
		pos         map[string]struct{}
	}
	agg := make(map[key]*acc)
	for i := range lines {
		l := &lines[i]
		if l.PaymentTerm == "" {
			continue
		}
		k := key{l.PaymentTerm, l.VendorLocation}
		a, ok := agg[k]
		if !ok {
			a = &acc{outstanding: decimal.Zero, pos: make(map[string]struct{})}
			agg[k] = a
		}
		a.outstanding = a.outstanding.Add(l.OutstandingInvoiceUSD)
		a.pos[l.PONumber] = struct{}{}
	}
	out := make([]PaymentTermExposure, 0, len(agg))
	for k, a := range agg {
		out = append(out, PaymentTermExposure{
			PaymentTerm:           k.term,
			VendorLocation:        k.loc,
			OutstandingInvoiceUSD: a.outstanding,
			POCount:               len(a.pos),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OutstandingInvoiceUSD.Equal(out[j].OutstandingInvoiceUSD) {
			return out[i].OutstandingInvoiceUSD.GreaterThan(out[j].OutstandingInvoiceUSD)
		}
		if out[i].PaymentTerm != out[j].PaymentTerm {
			return out[i].PaymentTerm < out[j].PaymentTerm
		}
		return out[i].VendorLocation < out[j].VendorLocation
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// mondayOf returns the Monday starting the week containing t
func mondayOf(t time.Time) time.Time {
	d := dayStart(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}
