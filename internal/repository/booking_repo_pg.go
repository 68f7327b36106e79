package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	// Reserve takes the seats from the option and records the booking in one
	// transaction. It fails with ErrStaleOption unless the option still has
	// expectedVersion and enough seats.
	Reserve(ctx context.Context, booking *domain.Booking, expectedVersion int64) error
	// Cancel flips a confirmed booking of userID to cancelled and gives its
	// seats back in one transaction.
	Cancel(ctx context.Context, bookingID, userID int64) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByUserAndID(ctx context.Context, userID, bookingID int64) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, reference, user_id, option_id, num_seats, total_price_cents, status, booking_date, cancelled_at`

const bookingWithOptionQuery = `SELECT b.id, b.reference, b.user_id, b.option_id, b.num_seats, b.total_price_cents, b.status, b.booking_date, b.cancelled_at,
	o.id, o.title, o.type, o.source, o.destination, o.departure_time, o.arrival_time, o.price_cents, o.total_seats, o.available_seats, o.version, o.created_at, o.updated_at
	FROM bookings b JOIN travel_options o ON o.id = b.option_id`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.Reference, &b.UserID, &b.OptionID, &b.NumSeats, &b.TotalPrice, &b.Status, &b.BookingDate, &b.CancelledAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func scanBookingWithOption(row pgx.Row) (*domain.Booking, error) {
	var (
		b domain.Booking
		o domain.TravelOption
	)
	if err := row.Scan(&b.ID, &b.Reference, &b.UserID, &b.OptionID, &b.NumSeats, &b.TotalPrice, &b.Status, &b.BookingDate, &b.CancelledAt,
		&o.ID, &o.Title, &o.Type, &o.Source, &o.Destination, &o.DepartureTime, &o.ArrivalTime, &o.PricePerSeat,
		&o.TotalSeats, &o.AvailableSeats, &o.Version, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	b.Option = &o
	return &b, nil
}

func (r *PGBookingRepository) Reserve(ctx context.Context, booking *domain.Booking, expectedVersion int64) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	res, err := tx.Exec(ctx, `UPDATE travel_options
		SET available_seats = available_seats - $1, version = version + 1, updated_at = now()
		WHERE id = $2 AND version = $3 AND available_seats >= $1`,
		booking.NumSeats, booking.OptionID, expectedVersion)
	if err != nil {
		return mapPGError(err, "travel option")
	}
	if res.RowsAffected() == 0 {
		return ErrStaleOption
	}

	booking.Status = domain.BookingStatusConfirmed
	if err := tx.QueryRow(ctx, `INSERT INTO bookings (reference, user_id, option_id, num_seats, total_price_cents, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, booking_date`,
		booking.Reference, booking.UserID, booking.OptionID, booking.NumSeats, booking.TotalPrice.Cents(), string(booking.Status)).
		Scan(&booking.ID, &booking.BookingDate); err != nil {
		return mapPGError(err, "booking")
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) Cancel(ctx context.Context, bookingID, userID int64) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// The conditional update locks the booking row, so a concurrent second
	// cancel waits here and then matches nothing.
	b, err := scanBooking(tx.QueryRow(ctx, `UPDATE bookings
		SET status = $1, cancelled_at = now()
		WHERE id = $2 AND user_id = $3 AND status = $4
		RETURNING `+bookingColumns,
		string(domain.BookingStatusCancelled), bookingID, userID, string(domain.BookingStatusConfirmed)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotCancellable
	}
	if err != nil {
		return nil, mapPGError(err, "booking")
	}

	res, err := tx.Exec(ctx, `UPDATE travel_options
		SET available_seats = available_seats + $1, version = version + 1, updated_at = now()
		WHERE id = $2 AND available_seats + $1 <= total_seats`,
		b.NumSeats, b.OptionID)
	if err != nil {
		return nil, mapPGError(err, "travel option")
	}
	if res.RowsAffected() == 0 {
		return nil, fmt.Errorf("option %d: %w", b.OptionID, ErrSeatOverflow)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := scanBookingWithOption(r.db.QueryRow(ctx, bookingWithOptionQuery+` WHERE b.id=$1`, id))
	if err != nil {
		return nil, mapPGError(err, "booking")
	}
	return b, nil
}

func (r *PGBookingRepository) GetByUserAndID(ctx context.Context, userID, bookingID int64) (*domain.Booking, error) {
	b, err := scanBookingWithOption(r.db.QueryRow(ctx, bookingWithOptionQuery+` WHERE b.id=$1 AND b.user_id=$2`, bookingID, userID))
	if err != nil {
		return nil, mapPGError(err, "booking")
	}
	return b, nil
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, bookingWithOptionQuery+` WHERE b.user_id=$1 ORDER BY b.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBookingWithOption(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
