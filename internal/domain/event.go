package domain

import "time"

const (
	EventBookingCreated   = "booking_created"
	EventBookingCancelled = "booking_cancelled"
)

type BookingEvent struct {
	Type       string    `json:"type"`
	Reference  string    `json:"reference"`
	BookingID  int64     `json:"booking_id"`
	OptionID   int64     `json:"option_id"`
	UserID     int64     `json:"user_id"`
	NumSeats   int       `json:"num_seats"`
	TotalPrice Money     `json:"total_price"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewBookingEvent(eventType string, b *Booking, at time.Time) BookingEvent {
	return BookingEvent{
		Type:       eventType,
		Reference:  b.Reference,
		BookingID:  b.ID,
		OptionID:   b.OptionID,
		UserID:     b.UserID,
		NumSeats:   b.NumSeats,
		TotalPrice: b.TotalPrice,
		Status:     string(b.Status),
		OccurredAt: at,
	}
}
