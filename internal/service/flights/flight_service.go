package flights

import (
	"context"
	"errors"
	"time"

	"github.com/abdeldjalilBenchabane/aero-nexus-control-sub000/internal/domain"
	"github.com/abdeldjalilBenchabane/aero-nexus-control-sub000/internal/kafka"
	"github.com/abdeldjalilBenchabane/aero-nexus-control-sub000/internal/repository"
)

type FlightUseCase interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Create(ctx context.Context, input CreateFlightInput) (*domain.Flight, error)
	UpdateStatus(ctx context.Context, id int64, status domain.FlightStatus) (*domain.Flight, error)
	Cancel(ctx context.Context, id int64) (*domain.Flight, error)
	CompleteArrivedFlights(ctx context.Context) ([]domain.Flight, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type CreateFlightInput struct {
	Number        string    `json:"number"`
	FromAirport   string    `json:"from_airport"`
	ToAirport     string    `json:"to_airport"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	TotalSeats    int       `json:"total_seats"`
}

type FlightService struct {
	flights            repository.FlightRepository
	bookings           repository.BookingRepository
	producer           Producer
	flightTopic        string
	notificationsTopic string
}

type FlightServiceOption func(*FlightService)

func WithNotificationsTopic(topic string) FlightServiceOption {
	return func(s *FlightService) {
		s.notificationsTopic = topic
	}
}

func NewFlightService(
	flights repository.FlightRepository,
	bookings repository.BookingRepository,
	producer Producer,
	flightTopic string,
	opts ...FlightServiceOption,
) *FlightService {
	service := &FlightService{
		flights:     flights,
		bookings:    bookings,
		producer:    producer,
		flightTopic: flightTopic,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	return s.flights.List(ctx)
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	return s.flights.GetByID(ctx, id)
}

func (s *FlightService) Create(ctx context.Context, input CreateFlightInput) (*domain.Flight, error) {
	if input.Number == "" {
		return nil, errors.New("flight number is required")
	}
	w := domain.TimeWindow{Start: input.DepartureTime, End: input.ArrivalTime}
	if err := w.Validate(); err != nil {
		return nil, err
	}

	flight := &domain.Flight{
		Number:        input.Number,
		FromAirport:   input.FromAirport,
		ToAirport:     input.ToAirport,
		DepartureTime: input.DepartureTime,
		ArrivalTime:   input.ArrivalTime,
		TotalSeats:    input.TotalSeats,
	}
	if err := s.flights.Create(ctx, flight); err != nil {
		return nil, err
	}

	_ = s.publish(ctx, "flight_created", flight)
	return flight, nil
}

// UpdateStatus changes the flight status and mirrors it into the flight's
// resource bookings, so a cancelled or completed flight stops blocking its
// gate, runway and airplane without losing booking history.
func (s *FlightService) UpdateStatus(ctx context.Context, id int64, status domain.FlightStatus) (*domain.Flight, error) {
	flight, err := s.flights.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	if err := s.bookings.UpdateStatusForFlight(ctx, id, status); err != nil {
		return nil, err
	}

	_ = s.publish(ctx, "flight_status_changed", flight)
	return flight, nil
}

// Cancel releases everything the flight holds: its bookings stop
// blocking, its gate/runway/airplane pointers are cleared, and a
// cancellation event goes out. Cancelling twice is a no-op.
func (s *FlightService) Cancel(ctx context.Context, id int64) (*domain.Flight, error) {
	current, err := s.flights.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == domain.FlightStatusCancelled {
		return current, nil
	}

	// snapshot before UpdateStatus flips the bookings to non-blocking
	held, err := s.bookings.ActiveForFlight(ctx, id)
	if err != nil {
		return nil, err
	}

	flight, err := s.UpdateStatus(ctx, id, domain.FlightStatusCancelled)
	if err != nil {
		return nil, err
	}

	for _, booking := range held {
		_ = s.flights.SetResource(ctx, id, booking.Kind, nil)
	}

	_ = s.publish(ctx, "flight_cancelled", flight)
	return flight, nil
}

// CompleteArrivedFlights is the worker sweep: flights whose arrival time
// has passed get flipped to COMPLETED along with their bookings.
func (s *FlightService) CompleteArrivedFlights(ctx context.Context) ([]domain.Flight, error) {
	completed, err := s.flights.CompleteArrivedBefore(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	for i := range completed {
		f := &completed[i]
		_ = s.bookings.UpdateStatusForFlight(ctx, f.ID, domain.FlightStatusCompleted)
		_ = s.publish(ctx, "flight_completed", f)
	}
	return completed, nil
}

func (s *FlightService) publish(ctx context.Context, eventType string, flight *domain.Flight) error {
	if s.producer == nil || s.flightTopic == "" {
		return nil
	}
	event := kafka.FlightEvent{
		Type:          eventType,
		FlightID:      flight.ID,
		Number:        flight.Number,
		Status:        string(flight.Status),
		DepartureTime: flight.DepartureTime,
		ArrivalTime:   flight.ArrivalTime,
	}
	if err := s.producer.Publish(ctx, s.flightTopic, flight.Number, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, flight.Number, event)
	}
	return nil
}

var _ FlightUseCase = (*FlightService)(nil)
