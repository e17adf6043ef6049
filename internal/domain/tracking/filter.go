package tracking

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hongquyngo/inbound-logistic-dashboard/internal/domain/shared"
)

// selectionMode distinguishes "no constraint" from an include or exclude set.
// An explicit mode avoids the ambiguity between "no selection" and
// "selection of nothing": an empty set always means unconstrained.
type selectionMode int

const (
	selectAll selectionMode = iota
	selectInclude
	selectExclude
)

// Selection is a multi-select filter dimension: either unconstrained, a set of
// values to include, or a set of values to exclude. The zero value is
// unconstrained.
type Selection struct {
	mode   selectionMode
	values map[string]struct{}
}

// Unconstrained returns a selection that matches every value
func Unconstrained() Selection {
	return Selection{}
}

// OneOf returns a selection matching only the given values.
// With no values it degrades to unconstrained, matching the panel semantics
// where an empty multiselect means "all".
func OneOf(values ...string) Selection {
	return newSelection(selectInclude, values)
}

// NoneOf returns a selection matching everything except the given values
func NoneOf(values ...string) Selection {
	return newSelection(selectExclude, values)
}

func newSelection(mode selectionMode, values []string) Selection {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			set[v] = struct{}{}
		}
	}
	if len(set) == 0 {
		return Selection{}
	}
	return Selection{mode: mode, values: set}
}

// IsConstrained returns false when the selection matches all values
func (s Selection) IsConstrained() bool {
	return s.mode != selectAll
}

// IsExclusion returns true for NoneOf selections
func (s Selection) IsExclusion() bool {
	return s.mode == selectExclude
}

// Matches reports whether a single value satisfies the selection
func (s Selection) Matches(value string) bool {
	switch s.mode {
	case selectInclude:
		_, ok := s.values[value]
		return ok
	case selectExclude:
		_, ok := s.values[value]
		return !ok
	default:
		return true
	}
}

// MatchesAny reports whether any of the candidate values satisfies an include
// selection, or none of them hits an exclude selection. Used for dimensions
// where a record has several identifying values (vendor code, name, display).
func (s Selection) MatchesAny(candidates ...string) bool {
	switch s.mode {
	case selectInclude:
		for _, c := range candidates {
			if _, ok := s.values[c]; ok {
				return true
			}
		}
		return false
	case selectExclude:
		for _, c := range candidates {
			if _, ok := s.values[c]; ok {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Values returns the selected values in sorted order
func (s Selection) Values() []string {
	out := make([]string, 0, len(s.values))
	for v := range s.values {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// DateRange is an inclusive [From, To] date interval
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Validate rejects ranges whose lower bound exceeds the upper bound.
// From == To is a valid single-day range. The caller is expected to surface
// the error for correction rather than swap the bounds.
func (r DateRange) Validate() error {
	if r.From.After(r.To) {
		return shared.ErrInvalidDateRange
	}
	return nil
}

// Contains reports whether t falls within the range, bounds included
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && !t.After(r.To)
}

// SpecialFilter is a named toggle from the panel's fixed special-filter catalog
type SpecialFilter string

const (
	SpecialOverdueOnly       SpecialFilter = "overdue_only"
	SpecialOverDeliveredOnly SpecialFilter = "over_delivered_only"
	SpecialOverInvoicedOnly  SpecialFilter = "over_invoiced_only"
	SpecialCriticalOnly      SpecialFilter = "critical_only"
)

// IsValid checks if the flag belongs to the special-filter catalog
func (f SpecialFilter) IsValid() bool {
	switch f {
	case SpecialOverdueOnly, SpecialOverDeliveredOnly, SpecialOverInvoicedOnly, SpecialCriticalOnly:
		return true
	}
	return false
}

// FilterSelection captures everything the user picked on the filter panel.
// Every dimension defaults to unconstrained; the zero value matches all lines.
type FilterSelection struct {
	DateType  DateType
	DateRange *DateRange

	Statuses        Selection
	VendorTypes     Selection
	VendorLocations Selection
	Vendors         Selection
	LegalEntities   Selection
	PONumbers       Selection
	Brands          Selection
	PaymentTerms    Selection
	Creators        Selection

	Special []SpecialFilter
}

// hasSpecial reports whether the given special filter is toggled on
func (s FilterSelection) hasSpecial(f SpecialFilter) bool {
	for _, sf := range s.Special {
		if sf == f {
			return true
		}
	}
	return false
}

// matches applies every active dimension conjunctively to one line
func (s FilterSelection) matches(l *PurchaseOrderLine, dt DateType, now time.Time) bool {
	if s.DateRange != nil {
		d := l.DateFor(dt)
		if d.IsZero() || !s.DateRange.Contains(d) {
			return false
		}
	}
	if !s.Statuses.Matches(l.Status.String()) {
		return false
	}
	if !s.VendorTypes.Matches(string(l.VendorType)) {
		return false
	}
	if !s.VendorLocations.Matches(string(l.VendorLocation)) {
		return false
	}
	if !s.Vendors.MatchesAny(l.VendorDisplay(), l.VendorName, l.VendorCode) {
		return false
	}
	if !s.LegalEntities.MatchesAny(l.LegalEntityDisplay(), l.LegalEntity, l.LegalEntityCode) {
		return false
	}
	if !s.PONumbers.Matches(l.PONumber) {
		return false
	}
	if !s.Brands.Matches(l.Brand) {
		return false
	}
	if !s.PaymentTerms.Matches(l.PaymentTerm) {
		return false
	}
	if !s.Creators.Matches(l.CreatedBy) {
		return false
	}
	if s.hasSpecial(SpecialOverdueOnly) && !l.IsOverdue(now) {
		return false
	}
	if s.hasSpecial(SpecialOverDeliveredOnly) && !l.IsOverDelivered() {
		return false
	}
	if s.hasSpecial(SpecialOverInvoicedOnly) && !l.IsOverInvoiced() {
		return false
	}
	if s.hasSpecial(SpecialCriticalOnly) && !l.Critical {
		return false
	}
	return true
}

// WarningCode identifies a non-fatal diagnostic on a filter result
type WarningCode string

const (
	// WarnEmptyDataset signals the input snapshot itself held no lines
	WarnEmptyDataset WarningCode = "EMPTY_DATASET"
	// WarnEmptyResult signals the filters matched no line of a non-empty snapshot
	WarnEmptyResult WarningCode = "EMPTY_RESULT"
	// WarnStaleSelection signals selected values absent from the current options
	WarnStaleSelection WarningCode = "STALE_SELECTION"
)

// Warning is a non-fatal diagnostic the caller can render alongside the result
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}

// FilteredResult is the ordered subset of lines satisfying a selection,
// plus counts and diagnostics for UI feedback
type FilteredResult struct {
	Lines    []PurchaseOrderLine `json:"lines"`
	Count    int                 `json:"count"`
	Warnings []Warning           `json:"warnings,omitempty"`
}

// IsEmpty returns true when no line matched
func (r *FilteredResult) IsEmpty() bool {
	return r.Count == 0
}

func (r *FilteredResult) warn(code WarningCode, message string) {
	r.Warnings = append(r.Warnings, Warning{Code: code, Message: message})
}

// Apply filters the dataset snapshot through the selection and returns the
// matching lines in their input order. It is a pure function of its inputs:
// the snapshot is never mutated and the current time comes in as a parameter.
//
// Selected values no longer present in opts are tolerated: they match nothing
// and surface as a STALE_SELECTION warning, since the dataset may legitimately
// have changed between option computation and filter application.
func Apply(sel FilterSelection, opts FilterOptions, lines []PurchaseOrderLine, now time.Time) (*FilteredResult, error) {
	if sel.DateRange != nil {
		if err := sel.DateRange.Validate(); err != nil {
			return nil, err
		}
	}

	dt := sel.DateType
	if !dt.IsValid() {
		dt = DateTypeETD
	}

	result := &FilteredResult{Lines: make([]PurchaseOrderLine, 0, len(lines))}
	for i := range lines {
		if sel.matches(&lines[i], dt, now) {
			result.Lines = append(result.Lines, lines[i])
		}
	}
	result.Count = len(result.Lines)

	if len(lines) == 0 {
		result.warn(WarnEmptyDataset, "no purchase order lines in the current dataset")
	} else if result.Count == 0 {
		result.warn(WarnEmptyResult, "no purchase order lines match the selected filters")
	}
	for _, stale := range staleSelections(sel, opts) {
		result.warn(WarnStaleSelection, stale)
	}

	return result, nil
}

// staleSelections lists include-mode selection values absent from the current
// filter options. Exclusions are skipped: excluding a vanished value is a no-op.
func staleSelections(sel FilterSelection, opts FilterOptions) []string {
	dims := []struct {
		name      string
		selection Selection
		domain    []string
	}{
		{"status", sel.Statuses, opts.Statuses},
		{"vendor type", sel.VendorTypes, opts.VendorTypes},
		{"vendor location", sel.VendorLocations, opts.VendorLocations},
		{"vendor", sel.Vendors, opts.Vendors},
		{"legal entity", sel.LegalEntities, opts.LegalEntities},
		{"po number", sel.PONumbers, opts.PONumbers},
		{"brand", sel.Brands, opts.Brands},
		{"payment term", sel.PaymentTerms, opts.PaymentTerms},
		{"creator", sel.Creators, opts.Creators},
	}

	var out []string
	for _, dim := range dims {
		if !dim.selection.IsConstrained() || dim.selection.IsExclusion() {
			continue
		}
		domain := make(map[string]struct{}, len(dim.domain))
		for _, v := range dim.domain {
			domain[v] = struct{}{}
		}
		for _, v := range dim.selection.Values() {
			if _, ok := domain[v]; !ok {
				out = append(out, fmt.Sprintf("%s %q is not present in the current dataset", dim.name, v))
			}
		}
	}
	return out
}
