package domain

import (
	"strings"
	"time"
)

// Padded dates are tried first; "2025-1-7" is accepted as well.
var dateLayouts = []string{"2006-01-02", "2006-1-2"}

// SearchCriteria selects catalog entries. Every field is optional; supplied
// filters are combined with AND.
type SearchCriteria struct {
	Type        string
	Source      string
	Destination string
	// Date is kept raw: a value that does not parse as YYYY-MM-DD (month and
	// day may be unpadded) disables
	// the date filter instead of failing the search.
	Date     string
	MinPrice *Money
	MaxPrice *Money
}

// HasFilters reports whether any filter was supplied, which selects the
// search path over the plain listing. A zero price bound on its own does not
// count; once on the search path it still applies.
func (c SearchCriteria) HasFilters() bool {
	return c.Type != "" || c.Source != "" || c.Destination != "" || c.Date != "" ||
		nonZero(c.MinPrice) || nonZero(c.MaxPrice)
}

func nonZero(m *Money) bool {
	return m != nil && *m != 0
}

// DayBounds returns the UTC [start, end) range of the requested departure day.
func (c SearchCriteria) DayBounds() (time.Time, time.Time, bool) {
	if c.Date == "" {
		return time.Time{}, time.Time{}, false
	}
	raw := strings.TrimSpace(c.Date)
	for _, layout := range dateLayouts {
		if day, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return day, day.AddDate(0, 0, 1), true
		}
	}
	return time.Time{}, time.Time{}, false
}

// Matches applies the criteria to a single option. Sold-out options never match.
func (c SearchCriteria) Matches(o TravelOption) bool {
	if o.AvailableSeats <= 0 {
		return false
	}
	if c.Type != "" && !containsFold(string(o.Type), c.Type) {
		return false
	}
	if c.Source != "" && !containsFold(o.Source, c.Source) {
		return false
	}
	if c.Destination != "" && !containsFold(o.Destination, c.Destination) {
		return false
	}
	if start, end, ok := c.DayBounds(); ok {
		dep := o.DepartureTime.UTC()
		if dep.Before(start) || !dep.Before(end) {
			return false
		}
	}
	if c.MinPrice != nil && o.PricePerSeat < *c.MinPrice {
		return false
	}
	if c.MaxPrice != nil && o.PricePerSeat > *c.MaxPrice {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// Page is an offset/limit window over id-ordered results.
type Page struct {
	Skip  int
	Limit int
}
