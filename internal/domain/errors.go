package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrConflict        = errors.New("conflict")
)

// kindError carries a caller-facing message and classifies it under one of
// the sentinel errors above.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func NotFoundf(format string, args ...any) error {
	return &kindError{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

func InvalidArgumentf(format string, args ...any) error {
	return &kindError{kind: ErrInvalidArgument, msg: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...any) error {
	return &kindError{kind: ErrConflict, msg: fmt.Sprintf(format, args...)}
}

// InsufficientSeatsError reports seat exhaustion together with what is left.
type InsufficientSeatsError struct {
	Requested int
	Remaining int
}

func (e *InsufficientSeatsError) Error() string {
	return fmt.Sprintf("Not enough seats available. Only %d seats left.", e.Remaining)
}

func (e *InsufficientSeatsError) Is(target error) bool {
	return target == ErrConflict
}
