package scheduling

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/abdeldjalilBenchabane/aero-nexus-control-sub000/internal/domain"
	"github.com/abdeldjalilBenchabane/aero-nexus-control-sub000/internal/repository"
)

// memBookingStore is an in-memory BookingRepository used as a test
// double. A single mutex stands in for the database row lock, which is
// enough to exercise the engine's concurrency contract.
type memBookingStore struct {
	mu       sync.Mutex
	nextID   int64
	bookings []domain.ResourceBooking
}

func newMemBookingStore() *memBookingStore {
	return &memBookingStore{}
}

func (s *memBookingStore) ActiveForResource(_ context.Context, kind domain.ResourceKind, resourceID, excludeFlightID int64) ([]domain.ResourceBooking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var active []domain.ResourceBooking
	for _, b := range s.bookings {
		if b.Kind == kind && b.ResourceID == resourceID && b.FlightID != excludeFlightID && b.Status.IsBlocking() {
			active = append(active, b)
		}
	}
	return active, nil
}

func (s *memBookingStore) ActiveByKind(_ context.Context, kind domain.ResourceKind, excludeFlightID int64) (map[int64][]domain.ResourceBooking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byResource := make(map[int64][]domain.ResourceBooking)
	for _, b := range s.bookings {
		if b.Kind == kind && b.FlightID != excludeFlightID && b.Status.IsBlocking() {
			byResource[b.ResourceID] = append(byResource[b.ResourceID], b)
		}
	}
	return byResource, nil
}

func (s *memBookingStore) ActiveForFlight(_ context.Context, flightID int64) ([]domain.ResourceBooking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var active []domain.ResourceBooking
	for _, b := range s.bookings {
		if b.FlightID == flightID && b.Status.IsBlocking() {
			active = append(active, b)
		}
	}
	return active, nil
}

func (s *memBookingStore) AssignActive(_ context.Context, booking *domain.ResourceBooking) (*domain.ResourceBooking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, held := range s.bookings {
		if held.Kind != booking.Kind || held.ResourceID != booking.ResourceID || held.FlightID == booking.FlightID {
			continue
		}
		if held.Blocks(booking.Window) {
			return nil, &domain.ConflictError{
				Kind:                booking.Kind,
				ResourceID:          booking.ResourceID,
				ConflictingFlightID: held.FlightID,
			}
		}
	}

	now := time.Now()
	for i := range s.bookings {
		held := &s.bookings[i]
		if held.Kind == booking.Kind && held.ResourceID == booking.ResourceID && held.FlightID == booking.FlightID {
			held.Window = booking.Window
			held.Status = booking.Status
			held.UpdatedAt = now
			out := *held
			return &out, nil
		}
	}

	s.nextID++
	created := *booking
	created.ID = s.nextID
	created.CreatedAt = now
	created.UpdatedAt = now
	s.bookings = append(s.bookings, created)
	out := created
	return &out, nil
}

func (s *memBookingStore) Release(_ context.Context, kind domain.ResourceKind, resourceID, flightID int64, status domain.FlightStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.bookings {
		b := &s.bookings[i]
		if b.Kind == kind && b.ResourceID == resourceID && b.FlightID == flightID && b.Status.IsBlocking() {
			b.Status = status
			b.UpdatedAt = time.Now()
		}
	}
	return nil
}

func (s *memBookingStore) UpdateStatusForFlight(_ context.Context, flightID int64, status domain.FlightStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.bookings {
		b := &s.bookings[i]
		if b.FlightID == flightID && b.Status.IsBlocking() {
			b.Status = status
			b.UpdatedAt = time.Now()
		}
	}
	return nil
}

func (s *memBookingStore) activeCount(kind domain.ResourceKind, resourceID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, b := range s.bookings {
		if b.Kind == kind && b.ResourceID == resourceID && b.Status.IsBlocking() {
			count++
		}
	}
	return count
}

// memResourceStore serves a fixed resource list in insertion order.
type memResourceStore struct {
	resources []domain.Resource
}

func (s *memResourceStore) ListByKind(_ context.Context, kind domain.ResourceKind) ([]domain.Resource, error) {
	var out []domain.Resource
	for _, res := range s.resources {
		if res.Kind == kind {
			out = append(out, res)
		}
	}
	return out, nil
}

func (s *memResourceStore) GetByID(_ context.Context, kind domain.ResourceKind, id int64) (*domain.Resource, error) {
	for _, res := range s.resources {
		if res.Kind == kind && res.ID == id {
			out := res
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%s %d: %w", kind, id, domain.ErrNotFound)
}

// memFlightStore holds flights keyed by id so tests can observe the
// assignment pointers the engine maintains.
type memFlightStore struct {
	mu      sync.Mutex
	flights map[int64]*domain.Flight
}

func newMemFlightStore(flights ...*domain.Flight) *memFlightStore {
	s := &memFlightStore{flights: make(map[int64]*domain.Flight)}
	for _, f := range flights {
		s.flights[f.ID] = f
	}
	return s
}

func (s *memFlightStore) List(_ context.Context) ([]domain.Flight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Flight, 0, len(s.flights))
	for _, f := range s.flights {
		out = append(out, *f)
	}
	return out, nil
}

func (s *memFlightStore) GetByID(_ context.Context, id int64) (*domain.Flight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.flights[id]
	if !ok {
		return nil, fmt.Errorf("flight %d: %w", id, domain.ErrNotFound)
	}
	out := *f
	return &out, nil
}

func (s *memFlightStore) Create(_ context.Context, flight *domain.Flight) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := *flight
	s.flights[f.ID] = &f
	return nil
}

func (s *memFlightStore) UpdateStatus(_ context.Context, id int64, status domain.FlightStatus) (*domain.Flight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.flights[id]
	if !ok {
		return nil, fmt.Errorf("flight %d: %w", id, domain.ErrNotFound)
	}
	f.Status = status
	out := *f
	return &out, nil
}

func (s *memFlightStore) SetResource(_ context.Context, id int64, kind domain.ResourceKind, resourceID *int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.flights[id]
	if !ok {
		return fmt.Errorf("flight %d: %w", id, domain.ErrNotFound)
	}
	switch kind {
	case domain.ResourceKindGate:
		f.GateID = resourceID
	case domain.ResourceKindRunway:
		f.RunwayID = resourceID
	case domain.ResourceKindAirplane:
		f.AirplaneID = resourceID
	default:
		return fmt.Errorf("unknown resource kind %q", kind)
	}
	return nil
}

func (s *memFlightStore) CompleteArrivedBefore(_ context.Context, deadline time.Time) ([]domain.Flight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var completed []domain.Flight
	for _, f := range s.flights {
		if f.Status.IsBlocking() && !f.ArrivalTime.After(deadline) {
			f.Status = domain.FlightStatusCompleted
			completed = append(completed, *f)
		}
	}
	return completed, nil
}

var (
	_ repository.BookingRepository  = (*memBookingStore)(nil)
	_ repository.ResourceRepository = (*memResourceStore)(nil)
	_ repository.FlightRepository   = (*memFlightStore)(nil)
)
