package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abdeldjalilBenchabane/aero-nexus-control-sub000/internal/domain"
	"github.com/abdeldjalilBenchabane/aero-nexus-control-sub000/internal/kafka"
	"github.com/abdeldjalilBenchabane/aero-nexus-control-sub000/internal/repository"
	"github.com/google/uuid"
)

// ReservationUseCase is the seat variant of resource assignment: at most
// one active holder per (flight, seat), atomic check-then-write, cancel
// frees the seat.
type ReservationUseCase interface {
	Create(ctx context.Context, input CreateReservationInput) (*domain.Reservation, error)
	Cancel(ctx context.Context, token string) (*domain.Reservation, error)
	GetByToken(ctx context.Context, token string) (*domain.Reservation, error)
	ListByFlight(ctx context.Context, flightID int64) ([]domain.Reservation, error)
}

type Cache interface {
	AcquireSeatLock(ctx context.Context, flightID int64, seatNumber int, ttl time.Duration) (bool, error)
	ReleaseSeatLock(ctx context.Context, flightID int64, seatNumber int) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type CreateReservationInput struct {
	FlightID   int64 `json:"flight_id"`
	SeatNumber int   `json:"seat_number"`
	UserID     int64 `json:"user_id"`
}

type ReservationService struct {
	reservations repository.ReservationRepository
	flights      repository.FlightRepository
	cache        Cache
	producer     Producer
	topic        string
	lockTTL      time.Duration
}

func NewReservationService(
	reservations repository.ReservationRepository,
	flights repository.FlightRepository,
	cache Cache,
	producer Producer,
	topic string,
	lockTTL time.Duration,
) *ReservationService {
	return &ReservationService{
		reservations: reservations,
		flights:      flights,
		cache:        cache,
		producer:     producer,
		topic:        topic,
		lockTTL:      lockTTL,
	}
}

func (s *ReservationService) Create(ctx context.Context, input CreateReservationInput) (*domain.Reservation, error) {
	if input.SeatNumber <= 0 {
		return nil, errors.New("seat number must be positive")
	}
	if input.UserID <= 0 {
		return nil, errors.New("user id is required")
	}

	flight, err := s.flights.GetByID(ctx, input.FlightID)
	if err != nil {
		return nil, err
	}
	if !flight.Status.IsBlocking() {
		return nil, fmt.Errorf("flight %d is not open for reservations", flight.ID)
	}
	if input.SeatNumber > flight.TotalSeats {
		return nil, fmt.Errorf("seat %d does not exist on flight %d", input.SeatNumber, flight.ID)
	}

	locked := false
	if s.cache != nil {
		ok, err := s.cache.AcquireSeatLock(ctx, input.FlightID, input.SeatNumber, s.lockTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &domain.SeatTakenError{FlightID: input.FlightID, SeatNumber: input.SeatNumber}
		}
		locked = true
	}

	reservation := &domain.Reservation{
		FlightID:   input.FlightID,
		SeatNumber: input.SeatNumber,
		UserID:     input.UserID,
		Token:      uuid.NewString(),
	}

	if err := s.reservations.CreateActive(ctx, reservation); err != nil {
		if locked {
			_ = s.cache.ReleaseSeatLock(ctx, input.FlightID, input.SeatNumber)
		}
		return nil, err
	}

	if locked {
		_ = s.cache.ReleaseSeatLock(ctx, input.FlightID, input.SeatNumber)
	}
	_ = s.publish(ctx, "reservation_created", reservation)
	return reservation, nil
}

// Cancel flips the reservation to cancelled; the seat becomes available
// again. Cancelling an already-cancelled reservation returns it unchanged.
func (s *ReservationService) Cancel(ctx context.Context, token string) (*domain.Reservation, error) {
	current, err := s.reservations.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if current.Status == domain.ReservationStatusCancelled {
		return current, nil
	}

	updated, err := s.reservations.UpdateStatus(ctx, token, domain.ReservationStatusCancelled)
	if err != nil {
		return nil, err
	}

	_ = s.publish(ctx, "reservation_cancelled", updated)
	return updated, nil
}

func (s *ReservationService) GetByToken(ctx context.Context, token string) (*domain.Reservation, error) {
	return s.reservations.GetByToken(ctx, token)
}

func (s *ReservationService) ListByFlight(ctx context.Context, flightID int64) ([]domain.Reservation, error) {
	return s.reservations.ListByFlight(ctx, flightID)
}

func (s *ReservationService) publish(ctx context.Context, eventType string, reservation *domain.Reservation) error {
	if s.producer == nil || s.topic == "" {
		return nil
	}
	event := kafka.ReservationEvent{
		Type:       eventType,
		Token:      reservation.Token,
		FlightID:   reservation.FlightID,
		SeatNumber: reservation.SeatNumber,
		UserID:     reservation.UserID,
		Status:     string(reservation.Status),
	}
	return s.producer.Publish(ctx, s.topic, reservation.Token, event)
}

var _ ReservationUseCase = (*ReservationService)(nil)
