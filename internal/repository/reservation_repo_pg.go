package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/abdeldjalilBenchabane/aero-nexus-control-sub000/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReservationRepository interface {
	CreateActive(ctx context.Context, reservation *domain.Reservation) error
	GetByToken(ctx context.Context, token string) (*domain.Reservation, error)
	UpdateStatus(ctx context.Context, token string, status domain.ReservationStatus) (*domain.Reservation, error)
	ListByFlight(ctx context.Context, flightID int64) ([]domain.Reservation, error)
}

type PGReservationRepository struct {
	db *pgxpool.Pool
}

func NewReservationRepository(db *pgxpool.Pool) ReservationRepository {
	return &PGReservationRepository{db: db}
}

const reservationColumns = `id, flight_id, seat_number, user_id, token, status, created_at, updated_at`

func scanReservation(row pgx.Row) (*domain.Reservation, error) {
	var res domain.Reservation
	if err := row.Scan(&res.ID, &res.FlightID, &res.SeatNumber, &res.UserID, &res.Token, &res.Status, &res.CreatedAt, &res.UpdatedAt); err != nil {
		return nil, err
	}
	return &res, nil
}

// CreateActive inserts the reservation only if no active one exists for
// (flight, seat). The flight row lock serializes racing attempts on the
// same seat.
func (r *PGReservationRepository) CreateActive(ctx context.Context, reservation *domain.Reservation) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var flightID int64
	if err := tx.QueryRow(ctx, `SELECT id FROM flights WHERE id=$1 FOR UPDATE`, reservation.FlightID).Scan(&flightID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("flight %d: %w", reservation.FlightID, domain.ErrNotFound)
		}
		return err
	}

	var holder int64
	err = tx.QueryRow(ctx, `SELECT user_id FROM reservations WHERE flight_id=$1 AND seat_number=$2 AND status=$3`,
		reservation.FlightID, reservation.SeatNumber, domain.ReservationStatusActive).Scan(&holder)
	if err == nil {
		return &domain.SeatTakenError{FlightID: reservation.FlightID, SeatNumber: reservation.SeatNumber}
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	reservation.Status = domain.ReservationStatusActive
	if err := tx.QueryRow(ctx, `INSERT INTO reservations (flight_id, seat_number, user_id, token, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		reservation.FlightID, reservation.SeatNumber, reservation.UserID, reservation.Token, reservation.Status).
		Scan(&reservation.ID, &reservation.CreatedAt, &reservation.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGReservationRepository) GetByToken(ctx context.Context, token string) (*domain.Reservation, error) {
	row := r.db.QueryRow(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE token=$1`, token)
	res, err := scanReservation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("reservation %s: %w", token, domain.ErrNotFound)
		}
		return nil, err
	}
	return res, nil
}

func (r *PGReservationRepository) UpdateStatus(ctx context.Context, token string, status domain.ReservationStatus) (*domain.Reservation, error) {
	row := r.db.QueryRow(ctx, `UPDATE reservations SET status=$1, updated_at=now() WHERE token=$2 RETURNING `+reservationColumns, status, token)
	res, err := scanReservation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("reservation %s: %w", token, domain.ErrNotFound)
		}
		return nil, err
	}
	return res, nil
}

func (r *PGReservationRepository) ListByFlight(ctx context.Context, flightID int64) ([]domain.Reservation, error) {
	rows, err := r.db.Query(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE flight_id=$1 ORDER BY seat_number`, flightID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reservations := make([]domain.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, *res)
	}
	return reservations, rows.Err()
}

var _ ReservationRepository = (*PGReservationRepository)(nil)
