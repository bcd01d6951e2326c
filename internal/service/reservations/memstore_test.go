package reservations

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/abdeldjalilBenchabane/aero-nexus-control-sub000/internal/domain"
	"github.com/abdeldjalilBenchabane/aero-nexus-control-sub000/internal/repository"
)

// memReservationStore is an in-memory ReservationRepository used as a
// test double. A single mutex stands in for the database row lock that
// serializes racing seat attempts, so the at-most-one-active-holder
// check runs for real in tests.
type memReservationStore struct {
	mu           sync.Mutex
	nextID       int64
	reservations []domain.Reservation
}

func newMemReservationStore() *memReservationStore {
	return &memReservationStore{}
}

func (s *memReservationStore) CreateActive(_ context.Context, reservation *domain.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, held := range s.reservations {
		if held.FlightID == reservation.FlightID && held.SeatNumber == reservation.SeatNumber && held.Status == domain.ReservationStatusActive {
			return &domain.SeatTakenError{FlightID: reservation.FlightID, SeatNumber: reservation.SeatNumber}
		}
	}

	s.nextID++
	reservation.ID = s.nextID
	reservation.Status = domain.ReservationStatusActive
	now := time.Now()
	reservation.CreatedAt = now
	reservation.UpdatedAt = now
	s.reservations = append(s.reservations, *reservation)
	return nil
}

func (s *memReservationStore) GetByToken(_ context.Context, token string) (*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, res := range s.reservations {
		if res.Token == token {
			out := res
			return &out, nil
		}
	}
	return nil, fmt.Errorf("reservation %s: %w", token, domain.ErrNotFound)
}

func (s *memReservationStore) UpdateStatus(_ context.Context, token string, status domain.ReservationStatus) (*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.reservations {
		res := &s.reservations[i]
		if res.Token == token {
			res.Status = status
			res.UpdatedAt = time.Now()
			out := *res
			return &out, nil
		}
	}
	return nil, fmt.Errorf("reservation %s: %w", token, domain.ErrNotFound)
}

func (s *memReservationStore) ListByFlight(_ context.Context, flightID int64) ([]domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Reservation
	for _, res := range s.reservations {
		if res.FlightID == flightID {
			out = append(out, res)
		}
	}
	return out, nil
}

func (s *memReservationStore) activeCount(flightID int64, seat int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, res := range s.reservations {
		if res.FlightID == flightID && res.SeatNumber == seat && res.Status == domain.ReservationStatusActive {
			count++
		}
	}
	return count
}

var _ repository.ReservationRepository = (*memReservationStore)(nil)
