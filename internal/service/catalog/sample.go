package catalog

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
)

type sampleOption struct {
	title       string
	kind        domain.TravelType
	source      string
	destination string
	departIn    time.Duration
	duration    time.Duration
	price       domain.Money
	seats       int
}

const day = 24 * time.Hour

var sampleOptions = []sampleOption{
	{"SpiceJet Flight SG-123", domain.TravelTypeFlight, "Mumbai", "Delhi", day + 8*time.Hour, 2 * time.Hour, 550000, 120},
	{"IndiGo Flight 6E-456", domain.TravelTypeFlight, "Delhi", "Bangalore", 2*day + 14*time.Hour, 3 * time.Hour, 620000, 150},
	{"Air India Flight AI-789", domain.TravelTypeFlight, "Mumbai", "Chennai", 3*day + 11*time.Hour, 2*time.Hour + 30*time.Minute, 580000, 100},
	{"Rajdhani Express", domain.TravelTypeTrain, "Delhi", "Mumbai", day + 16*time.Hour, 16 * time.Hour, 250000, 200},
	{"Shatabdi Express", domain.TravelTypeTrain, "Delhi", "Chandigarh", 2*day + 7*time.Hour, 3*time.Hour + 30*time.Minute, 80000, 300},
	{"Gatimaan Express", domain.TravelTypeTrain, "Delhi", "Agra", 4*day + 8*time.Hour, 2 * time.Hour, 75000, 180},
	{"Volvo AC Bus", domain.TravelTypeBus, "Delhi", "Manali", 5*day + 22*time.Hour, 14 * time.Hour, 120000, 45},
	{"RedBus Sleeper", domain.TravelTypeBus, "Mumbai", "Pune", day + 23*time.Hour, 4 * time.Hour, 40000, 32},
	{"Luxury Coach", domain.TravelTypeBus, "Bangalore", "Mysore", 3*day + 9*time.Hour, 3 * time.Hour, 35000, 40},
}

// SampleCatalog returns the demo flights, trains and buses with departures
// relative to now.
func SampleCatalog(now time.Time) []domain.CreateTravelOptionInput {
	now = now.UTC().Truncate(time.Minute)
	out := make([]domain.CreateTravelOptionInput, 0, len(sampleOptions))
	for _, s := range sampleOptions {
		dep := now.Add(s.departIn)
		out = append(out, domain.CreateTravelOptionInput{
			Title:          s.title,
			Type:           s.kind,
			Source:         s.source,
			Destination:    s.destination,
			DepartureTime:  dep,
			ArrivalTime:    dep.Add(s.duration),
			PricePerSeat:   s.price,
			AvailableSeats: s.seats,
		})
	}
	return out
}

// SeedSampleCatalog loads the sample catalog into an empty store. It returns
// the number of options created, zero when the catalog already has data.
func (s *CatalogService) SeedSampleCatalog(ctx context.Context, now time.Time) (int, error) {
	existing, err := s.repo.List(ctx, domain.Page{Limit: 1})
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		log.Printf("catalog already has data, skipping seed")
		return 0, nil
	}

	created := 0
	for _, in := range SampleCatalog(now) {
		if _, err := s.CreateOption(ctx, in); err != nil {
			return created, fmt.Errorf("seed %q: %w", in.Title, err)
		}
		created++
	}
	return created, nil
}
