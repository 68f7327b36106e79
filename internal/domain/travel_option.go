package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Column widths of the travel_options table.
const (
	MaxTitleLength = 100
	MaxPlaceLength = 100
)

type TravelType string

const (
	TravelTypeFlight TravelType = "Flight"
	TravelTypeTrain  TravelType = "Train"
	TravelTypeBus    TravelType = "Bus"
)

// ParseTravelType accepts any casing of the known travel types.
func ParseTravelType(s string) (TravelType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "flight":
		return TravelTypeFlight, nil
	case "train":
		return TravelTypeTrain, nil
	case "bus":
		return TravelTypeBus, nil
	default:
		return "", InvalidArgumentf("unknown travel type %q", s)
	}
}

type TravelOption struct {
	ID             int64      `json:"option_id"`
	Title          string     `json:"title"`
	Type           TravelType `json:"type"`
	Source         string     `json:"source"`
	Destination    string     `json:"destination"`
	DepartureTime  time.Time  `json:"departure_time"`
	ArrivalTime    time.Time  `json:"arrival_time"`
	PricePerSeat   Money      `json:"price_per_seat"`
	TotalSeats     int        `json:"total_seats"`
	AvailableSeats int        `json:"available_seats"`
	Version        int64      `json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type CreateTravelOptionInput struct {
	Title          string
	Type           TravelType
	Source         string
	Destination    string
	DepartureTime  time.Time
	ArrivalTime    time.Time
	PricePerSeat   Money
	AvailableSeats int
}

// Validate checks an option before it enters the catalog. Capacity is fixed
// to the initial seat count.
func (in CreateTravelOptionInput) Validate() error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return InvalidArgumentf("title is required")
	case strings.TrimSpace(in.Source) == "":
		return InvalidArgumentf("source is required")
	case strings.TrimSpace(in.Destination) == "":
		return InvalidArgumentf("destination is required")
	case in.PricePerSeat < 0:
		return InvalidArgumentf("price per seat must not be negative")
	case in.PricePerSeat > MaxPricePerSeat:
		return InvalidArgumentf("price per seat must not exceed %s", MaxPricePerSeat)
	case utf8.RuneCountInString(in.Title) > MaxTitleLength:
		return InvalidArgumentf("title must be at most %d characters", MaxTitleLength)
	case utf8.RuneCountInString(in.Source) > MaxPlaceLength:
		return InvalidArgumentf("source must be at most %d characters", MaxPlaceLength)
	case utf8.RuneCountInString(in.Destination) > MaxPlaceLength:
		return InvalidArgumentf("destination must be at most %d characters", MaxPlaceLength)
	case in.AvailableSeats < 0:
		return InvalidArgumentf("available seats must not be negative")
	case !in.ArrivalTime.After(in.DepartureTime):
		return InvalidArgumentf("arrival time must be after departure time")
	}
	if _, err := ParseTravelType(string(in.Type)); err != nil {
		return err
	}
	return nil
}

func (in CreateTravelOptionInput) ToOption() TravelOption {
	return TravelOption{
		Title:          strings.TrimSpace(in.Title),
		Type:           in.Type,
		Source:         strings.TrimSpace(in.Source),
		Destination:    strings.TrimSpace(in.Destination),
		DepartureTime:  in.DepartureTime,
		ArrivalTime:    in.ArrivalTime,
		PricePerSeat:   in.PricePerSeat,
		TotalSeats:     in.AvailableSeats,
		AvailableSeats: in.AvailableSeats,
	}
}

// InventoryLevel compares an option's seat counter with the ledger.
type InventoryLevel struct {
	OptionID       int64
	TotalSeats     int
	AvailableSeats int
	ConfirmedSeats int
}

// Consistent reports whether the counter agrees with the confirmed bookings
// and stays within capacity.
func (l InventoryLevel) Consistent() bool {
	return l.AvailableSeats >= 0 &&
		l.AvailableSeats <= l.TotalSeats &&
		l.TotalSeats-l.AvailableSeats == l.ConfirmedSeats
}
