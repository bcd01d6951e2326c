package domain

import "time"

type ReservationStatus string

const (
	ReservationStatusActive    ReservationStatus = "ACTIVE"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
)

// Reservation holds one seat on one flight for one passenger. At most one
// active reservation may exist per (flight, seat).
type Reservation struct {
	ID         int64
	FlightID   int64
	SeatNumber int
	UserID     int64
	Token      string
	Status     ReservationStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
