package domain

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "Confirmed"
	BookingStatusCancelled BookingStatus = "Cancelled"
)

type Booking struct {
	ID          int64         `json:"booking_id"`
	Reference   string        `json:"reference"`
	UserID      int64         `json:"user_id"`
	OptionID    int64         `json:"option_id"`
	NumSeats    int           `json:"num_seats"`
	TotalPrice  Money         `json:"total_price"`
	Status      BookingStatus `json:"status"`
	BookingDate time.Time     `json:"booking_date"`
	CancelledAt *time.Time    `json:"cancelled_at,omitempty"`

	// Option is the referenced option as currently stored, filled on reads.
	Option *TravelOption `json:"travel_option,omitempty"`
}

func (b *Booking) IsCancellable() bool {
	return b.Status == BookingStatusConfirmed
}
