package tracking

import (
	"sort"
	"time"
)

// FallbackWindowDays is the half-width of the date window offered when the
// dataset yields no observable bounds for a date column. It matches the
// filter panel's own fallback so the two stay consistent.
const FallbackWindowDays = 365

// DateBounds is the observed [Min, Max] interval of one date column
type DateBounds struct {
	Min time.Time `json:"min"`
	Max time.Time `json:"max"`
}

// FilterOptions is a snapshot of the valid filter domains computed from the
// current dataset. It has no lifecycle of its own: it is recomputed whenever
// the underlying dataset changes.
type FilterOptions struct {
	Statuses        []string `json:"statuses"`
	VendorTypes     []string `json:"vendor_types"`
	VendorLocations []string `json:"vendor_locations"`
	Vendors         []string `json:"vendors"`
	LegalEntities   []string `json:"legal_entities"`
	PONumbers       []string `json:"po_numbers"`
	Brands          []string `json:"brands"`
	PaymentTerms    []string `json:"payment_terms"`
	Creators        []string `json:"creators"`

	DateBounds map[DateType]DateBounds `json:"date_bounds"`
}

// BoundsFor returns the bounds of the given date column, falling back to ETD
// for unknown date types
func (o FilterOptions) BoundsFor(dt DateType) DateBounds {
	if !dt.IsValid() {
		dt = DateTypeETD
	}
	return o.DateBounds[dt]
}

// ComputeFilterOptions derives the selectable filter domains from a dataset
// snapshot. It is a pure function: an empty dataset is a valid non-error state
// producing empty set domains and the fallback date window around now.
func ComputeFilterOptions(lines []PurchaseOrderLine, now time.Time) FilterOptions {
	opts := FilterOptions{
		Statuses:        distinctStatuses(lines),
		VendorTypes:     distinct(lines, func(l *PurchaseOrderLine) string { return string(l.VendorType) }),
		VendorLocations: distinct(lines, func(l *PurchaseOrderLine) string { return string(l.VendorLocation) }),
		Vendors:         distinct(lines, (*PurchaseOrderLine).VendorDisplay),
		LegalEntities:   distinct(lines, (*PurchaseOrderLine).LegalEntityDisplay),
		PONumbers:       distinct(lines, func(l *PurchaseOrderLine) string { return l.PONumber }),
		Brands:          distinct(lines, func(l *PurchaseOrderLine) string { return l.Brand }),
		PaymentTerms:    distinct(lines, func(l *PurchaseOrderLine) string { return l.PaymentTerm }),
		Creators:        distinct(lines, func(l *PurchaseOrderLine) string { return l.CreatedBy }),
		DateBounds:      make(map[DateType]DateBounds, 3),
	}

	for _, dt := range []DateType{DateTypePODate, DateTypeETD, DateTypeETA} {
		opts.DateBounds[dt] = observedBounds(lines, dt, now)
	}

	return opts
}

// distinct collects the sorted set of non-blank values of one column
func distinct(lines []PurchaseOrderLine, get func(*PurchaseOrderLine) string) []string {
	seen := make(map[string]struct{})
	for i := range lines {
		if v := get(&lines[i]); v != "" {
			seen[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// distinctStatuses collects observed statuses in their display rank order
func distinctStatuses(lines []PurchaseOrderLine) []string {
	seen := make(map[POStatus]struct{})
	for i := range lines {
		if lines[i].Status != "" {
			seen[lines[i].Status] = struct{}{}
		}
	}
	statuses := make([]POStatus, 0, len(seen))
	for s := range seen {
		statuses = append(statuses, s)
	}
	sort.Slice(statuses, func(i, j int) bool {
		ri, rj := statuses[i].Rank(), statuses[j].Rank()
		if ri != rj {
			return ri < rj
		}
		return statuses[i] < statuses[j]
	})
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = s.String()
	}
	return out
}

// observedBounds returns the min/max of one date column across the dataset,
// skipping zero dates. With nothing observed it returns the fallback window
// now-365d .. now+365d.
func observedBounds(lines []PurchaseOrderLine, dt DateType, now time.Time) DateBounds {
	var minDate, maxDate time.Time
	for i := range lines {
		d := lines[i].DateFor(dt)
		if d.IsZero() {
			continue
		}
		if minDate.IsZero() || d.Before(minDate) {
			minDate = d
		}
		if maxDate.IsZero() || d.After(maxDate) {
			maxDate = d
		}
	}
	if minDate.IsZero() {
		today := dayStart(now)
		return DateBounds{
			Min: today.AddDate(0, 0, -FallbackWindowDays),
			Max: today.AddDate(0, 0, FallbackWindowDays),
		}
	}
	return DateBounds{Min: minDate, Max: maxDate}
}
