package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abdeldjalilBenchabane/aero-nexus-control-sub000/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightRepository interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Create(ctx context.Context, flight *domain.Flight) error
	UpdateStatus(ctx context.Context, id int64, status domain.FlightStatus) (*domain.Flight, error)
	SetResource(ctx context.Context, id int64, kind domain.ResourceKind, resourceID *int64) error
	CompleteArrivedBefore(ctx context.Context, deadline time.Time) ([]domain.Flight, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `id, number, from_airport, to_airport, departure_time, arrival_time, status, airplane_id, gate_id, runway_id, total_seats, created_at, updated_at`

func scanFlight(row pgx.Row) (*domain.Flight, error) {
	var f domain.Flight
	if err := row.Scan(&f.ID, &f.Number, &f.FromAirport, &f.ToAirport, &f.DepartureTime, &f.ArrivalTime, &f.Status, &f.AirplaneID, &f.GateID, &f.RunwayID, &f.TotalSeats, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights ORDER BY departure_time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id)
	f, err := scanFlight(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("flight %d: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return f, nil
}

func (r *PGFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	flight.Status = domain.FlightStatusScheduled
	return r.db.QueryRow(ctx, `INSERT INTO flights (number, from_airport, to_airport, departure_time, arrival_time, status, total_seats)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		flight.Number, flight.FromAirport, flight.ToAirport, flight.DepartureTime, flight.ArrivalTime, flight.Status, flight.TotalSeats).
		Scan(&flight.ID, &flight.CreatedAt, &flight.UpdatedAt)
}

func (r *PGFlightRepository) UpdateStatus(ctx context.Context, id int64, status domain.FlightStatus) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `UPDATE flights SET status=$1, updated_at=now() WHERE id=$2 RETURNING `+flightColumns, status, id)
	f, err := scanFlight(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("flight %d: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return f, nil
}

func (r *PGFlightRepository) SetResource(ctx context.Context, id int64, kind domain.ResourceKind, resourceID *int64) error {
	var column string
	switch kind {
	case domain.ResourceKindGate:
		column = "gate_id"
	case domain.ResourceKindRunway:
		column = "runway_id"
	case domain.ResourceKindAirplane:
		column = "airplane_id"
	default:
		return fmt.Errorf("unknown resource kind %q", kind)
	}

	cmd, err := r.db.Exec(ctx, fmt.Sprintf(`UPDATE flights SET %s=$1, updated_at=now() WHERE id=$2`, column), resourceID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("flight %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// CompleteArrivedBefore flips still-blocking flights whose arrival time has
// passed to COMPLETED, returning the affected flights so the caller can
// release their bookings.
func (r *PGFlightRepository) CompleteArrivedBefore(ctx context.Context, deadline time.Time) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `UPDATE flights SET status=$1, updated_at=now()
		WHERE status = ANY($2) AND arrival_time <= $3
		RETURNING `+flightColumns,
		domain.FlightStatusCompleted, domain.BlockingStatuses(), deadline)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var completed []domain.Flight
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		completed = append(completed, *f)
	}
	return completed, rows.Err()
}

var _ FlightRepository = (*PGFlightRepository)(nil)
