package repository

import (
	"context"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EventRepository keeps the audit trail of booking events.
type EventRepository interface {
	Append(ctx context.Context, event domain.BookingEvent) error
}

type PGEventRepository struct {
	db *pgxpool.Pool
}

func NewEventRepository(db *pgxpool.Pool) EventRepository {
	return &PGEventRepository{db: db}
}

// Append ignores an event that was already stored, so redelivery is harmless.
func (r *PGEventRepository) Append(ctx context.Context, e domain.BookingEvent) error {
	_, err := r.db.Exec(ctx, `INSERT INTO booking_events (type, reference, booking_id, option_id, user_id, num_seats, status, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (reference, type) DO NOTHING`,
		e.Type, e.Reference, e.BookingID, e.OptionID, e.UserID, e.NumSeats, e.Status, e.OccurredAt)
	if err != nil {
		return mapPGError(err, "booking event")
	}
	return nil
}

var _ EventRepository = (*PGEventRepository)(nil)
