package repository

import (
	"errors"
	"fmt"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrStaleOption means the option changed between read and write; the
	// caller should re-read and decide again.
	ErrStaleOption = errors.New("travel option was modified concurrently")
	// ErrNotCancellable covers a missing booking, a booking of another user and
	// an already cancelled one alike.
	ErrNotCancellable = domain.Conflictf("Booking not found or cannot be cancelled")
	// ErrSeatOverflow means restoring seats would exceed the option capacity.
	ErrSeatOverflow = errors.New("seat restore exceeds option capacity")
)

const (
	pgUniqueViolation   = "23505"
	pgCheckViolation    = "23514"
	pgStringDataTooLong = "22001"
)

func mapPGError(err error, entity string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NotFoundf("%s not found", entity)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return domain.Conflictf("%s already exists (%s)", entity, pgErr.ConstraintName)
		case pgCheckViolation:
			return domain.Conflictf("%s violates %s", entity, pgErr.ConstraintName)
		case pgStringDataTooLong:
			return domain.InvalidArgumentf("%s has a value that is too long", entity)
		}
	}
	return fmt.Errorf("%s: %w", entity, err)
}
