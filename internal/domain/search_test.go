package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func money(t *testing.T, s string) *Money {
	t.Helper()
	m, err := ParseMoney(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return &m
}

func TestSearchCriteria_PriceRange(t *testing.T) {
	options := []TravelOption{
		{ID: 1, PricePerSeat: 40000, AvailableSeats: 10},
		{ID: 2, PricePerSeat: 75000, AvailableSeats: 10},
		{ID: 3, PricePerSeat: 120000, AvailableSeats: 10},
	}
	criteria := SearchCriteria{MinPrice: money(t, "500"), MaxPrice: money(t, "1000")}

	var matched []int64
	for _, o := range options {
		if criteria.Matches(o) {
			matched = append(matched, o.ID)
		}
	}
	assert.Equal(t, []int64{2}, matched)
}

func TestSearchCriteria_PriceBoundsInclusive(t *testing.T) {
	criteria := SearchCriteria{MinPrice: money(t, "500"), MaxPrice: money(t, "1000")}
	assert.True(t, criteria.Matches(TravelOption{PricePerSeat: 50000, AvailableSeats: 1}))
	assert.True(t, criteria.Matches(TravelOption{PricePerSeat: 100000, AvailableSeats: 1}))
}

func TestSearchCriteria_DateIgnoresTimeOfDay(t *testing.T) {
	criteria := SearchCriteria{Date: "2025-01-01"}

	assert.True(t, criteria.Matches(TravelOption{
		DepartureTime: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), AvailableSeats: 1,
	}))
	assert.True(t, criteria.Matches(TravelOption{
		DepartureTime: time.Date(2025, 1, 1, 23, 59, 59, 0, time.UTC), AvailableSeats: 1,
	}))
	assert.False(t, criteria.Matches(TravelOption{
		DepartureTime: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), AvailableSeats: 1,
	}))
	assert.False(t, criteria.Matches(TravelOption{
		DepartureTime: time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC), AvailableSeats: 1,
	}))
}

func TestSearchCriteria_MalformedDateIsIgnored(t *testing.T) {
	criteria := SearchCriteria{Date: "01/01/2025"}

	_, _, ok := criteria.DayBounds()
	assert.False(t, ok)
	assert.True(t, criteria.HasFilters())
	assert.True(t, criteria.Matches(TravelOption{
		DepartureTime: time.Date(2030, 6, 1, 10, 0, 0, 0, time.UTC), AvailableSeats: 1,
	}))
}

func TestSearchCriteria_TextFiltersAreCaseInsensitiveSubstrings(t *testing.T) {
	option := TravelOption{Type: TravelTypeFlight, Source: "Mumbai", Destination: "New Delhi", AvailableSeats: 3}

	assert.True(t, SearchCriteria{Type: "fli"}.Matches(option))
	assert.True(t, SearchCriteria{Source: "MUM", Destination: "delhi"}.Matches(option))
	assert.False(t, SearchCriteria{Source: "Pune"}.Matches(option))
	assert.False(t, SearchCriteria{Type: "train", Source: "mumbai"}.Matches(option))
}

func TestSearchCriteria_ExcludesSoldOut(t *testing.T) {
	assert.False(t, SearchCriteria{Source: "Mumbai"}.Matches(TravelOption{Source: "Mumbai", AvailableSeats: 0}))
}

func TestSearchCriteria_HasFilters(t *testing.T) {
	assert.False(t, SearchCriteria{}.HasFilters())
	assert.False(t, SearchCriteria{MaxPrice: money(t, "0")}.HasFilters())
	assert.False(t, SearchCriteria{MinPrice: money(t, "0"), MaxPrice: money(t, "0.00")}.HasFilters())
	assert.True(t, SearchCriteria{MaxPrice: money(t, "0.01")}.HasFilters())
	assert.True(t, SearchCriteria{Date: "2025-01-01"}.HasFilters())
}

func TestSearchCriteria_ZeroMaxPriceStillAppliesWithOtherFilters(t *testing.T) {
	criteria := SearchCriteria{Source: "Mumbai", MaxPrice: money(t, "0")}

	assert.True(t, criteria.HasFilters())
	assert.True(t, criteria.Matches(TravelOption{Source: "Mumbai", PricePerSeat: 0, AvailableSeats: 1}))
	assert.False(t, criteria.Matches(TravelOption{Source: "Mumbai", PricePerSeat: 1, AvailableSeats: 1}))
}

func TestSearchCriteria_DateWithoutPadding(t *testing.T) {
	for _, raw := range []string{"2025-1-7", "2025-01-7", "2025-1-07", " 2025-01-07 "} {
		start, end, ok := SearchCriteria{Date: raw}.DayBounds()
		require.True(t, ok, raw)
		assert.Equal(t, time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC), start, raw)
		assert.Equal(t, time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC), end, raw)
	}

	criteria := SearchCriteria{Date: "2025-1-7"}
	assert.True(t, criteria.Matches(TravelOption{
		DepartureTime: time.Date(2025, 1, 7, 18, 0, 0, 0, time.UTC), AvailableSeats: 1,
	}))
	assert.False(t, criteria.Matches(TravelOption{
		DepartureTime: time.Date(2025, 1, 17, 18, 0, 0, 0, time.UTC), AvailableSeats: 1,
	}))
}
