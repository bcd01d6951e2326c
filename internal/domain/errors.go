package domain

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

// ConflictError means the candidate window would double-book the target
// resource. The engine never swallows these; callers decide the
// user-visible message and may retry with another resource or window.
type ConflictError struct {
	Kind                ResourceKind
	ResourceID          int64
	ConflictingFlightID int64
}

func (e *ConflictError) Error() string {
	if e.ConflictingFlightID == 0 {
		return fmt.Sprintf("%s %d is held by a concurrent assignment", e.Kind, e.ResourceID)
	}
	return fmt.Sprintf("%s %d is already booked by flight %d for an overlapping window", e.Kind, e.ResourceID, e.ConflictingFlightID)
}

// SeatTakenError is the seat-reservation variant of ConflictError.
type SeatTakenError struct {
	FlightID   int64
	SeatNumber int
}

func (e *SeatTakenError) Error() string {
	return fmt.Sprintf("seat %d on flight %d is already reserved", e.SeatNumber, e.FlightID)
}

// InvariantViolationError indicates the store holds two overlapping active
// bookings for one resource. It should never occur when assignments are
// serialized; if it does, it is a concurrency-control bug and must be
// logged loudly, never silently repaired.
type InvariantViolationError struct {
	Kind       ResourceKind
	ResourceID int64
	FlightA    int64
	FlightB    int64
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violation: %s %d double-booked by flights %d and %d", e.Kind, e.ResourceID, e.FlightA, e.FlightB)
}
