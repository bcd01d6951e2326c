package domain

import (
	"fmt"
	"time"
)

// FlightStatus mirrors the flight lifecycle. A booking blocks other
// assignments while its flight is in a blocking status; it stops blocking
// (without being deleted) once the flight is cancelled or done.
type FlightStatus string

const (
	FlightStatusScheduled FlightStatus = "SCHEDULED"
	FlightStatusBoarding  FlightStatus = "BOARDING"
	FlightStatusDelayed   FlightStatus = "DELAYED"
	FlightStatusCancelled FlightStatus = "CANCELLED"
	FlightStatusArrived   FlightStatus = "ARRIVED"
	FlightStatusCompleted FlightStatus = "COMPLETED"
)

func ParseFlightStatus(s string) (FlightStatus, error) {
	switch FlightStatus(s) {
	case FlightStatusScheduled, FlightStatusBoarding, FlightStatusDelayed,
		FlightStatusCancelled, FlightStatusArrived, FlightStatusCompleted:
		return FlightStatus(s), nil
	}
	return "", fmt.Errorf("unknown flight status %q", s)
}

// IsBlocking is the single source of truth for which statuses conflict
// checks must respect.
func (s FlightStatus) IsBlocking() bool {
	switch s {
	case FlightStatusScheduled, FlightStatusBoarding, FlightStatusDelayed:
		return true
	}
	return false
}

// BlockingStatuses is the blocking set as SQL-friendly strings, so queries
// take it as a parameter instead of repeating the literal list.
func BlockingStatuses() []string {
	return []string{
		string(FlightStatusScheduled),
		string(FlightStatusBoarding),
		string(FlightStatusDelayed),
	}
}

// ResourceBooking is one flight's hold on one resource for a window.
type ResourceBooking struct {
	ID         int64
	Kind       ResourceKind
	ResourceID int64
	FlightID   int64
	Window     TimeWindow
	Status     FlightStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Blocks reports whether this booking must be respected when checking the
// candidate window for a conflict on the same resource.
func (b ResourceBooking) Blocks(candidate TimeWindow) bool {
	return b.Status.IsBlocking() && Overlaps(b.Kind, b.Window, candidate)
}
