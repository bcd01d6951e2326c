package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/abdeldjalilBenchabane/aero-nexus-control-sub000/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BookingRepository is the interval store: per resource, the set of time
// windows held by flights. AssignActive is the only call allowed to
// violate the no-double-booking invariant and therefore runs the whole
// check-then-write inside one transaction.
type BookingRepository interface {
	ActiveForResource(ctx context.Context, kind domain.ResourceKind, resourceID, excludeFlightID int64) ([]domain.ResourceBooking, error)
	ActiveByKind(ctx context.Context, kind domain.ResourceKind, excludeFlightID int64) (map[int64][]domain.ResourceBooking, error)
	ActiveForFlight(ctx context.Context, flightID int64) ([]domain.ResourceBooking, error)
	AssignActive(ctx context.Context, booking *domain.ResourceBooking) (*domain.ResourceBooking, error)
	Release(ctx context.Context, kind domain.ResourceKind, resourceID, flightID int64, status domain.FlightStatus) error
	UpdateStatusForFlight(ctx context.Context, flightID int64, status domain.FlightStatus) error
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, kind, resource_id, flight_id, window_start, window_end, status, created_at, updated_at`

func scanBooking(row pgx.Row) (*domain.ResourceBooking, error) {
	var b domain.ResourceBooking
	if err := row.Scan(&b.ID, &b.Kind, &b.ResourceID, &b.FlightID, &b.Window.Start, &b.Window.End, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) ActiveForResource(ctx context.Context, kind domain.ResourceKind, resourceID, excludeFlightID int64) ([]domain.ResourceBooking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM resource_bookings
		WHERE kind=$1 AND resource_id=$2 AND flight_id <> $3 AND status = ANY($4)`,
		kind, resourceID, excludeFlightID, domain.BlockingStatuses())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

func (r *PGBookingRepository) ActiveByKind(ctx context.Context, kind domain.ResourceKind, excludeFlightID int64) (map[int64][]domain.ResourceBooking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM resource_bookings
		WHERE kind=$1 AND flight_id <> $2 AND status = ANY($3)`,
		kind, excludeFlightID, domain.BlockingStatuses())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings, err := collectBookings(rows)
	if err != nil {
		return nil, err
	}

	byResource := make(map[int64][]domain.ResourceBooking)
	for _, b := range bookings {
		byResource[b.ResourceID] = append(byResource[b.ResourceID], b)
	}
	return byResource, nil
}

func (r *PGBookingRepository) ActiveForFlight(ctx context.Context, flightID int64) ([]domain.ResourceBooking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM resource_bookings
		WHERE flight_id=$1 AND status = ANY($2)`,
		flightID, domain.BlockingStatuses())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

// AssignActive locks the resource row, re-checks the overlap predicate
// against current active bookings, and upserts the booking for
// (kind, resource, flight). Two racing assigns serialize on the row lock,
// so exactly one of an overlapping pair commits.
func (r *PGBookingRepository) AssignActive(ctx context.Context, booking *domain.ResourceBooking) (*domain.ResourceBooking, error) {
	table, err := tableFor(booking.Kind)
	if err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var resourceID int64
	if err := tx.QueryRow(ctx, fmt.Sprintf(`SELECT id FROM %s WHERE id=$1 FOR UPDATE`, table), booking.ResourceID).Scan(&resourceID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s %d: %w", booking.Kind, booking.ResourceID, domain.ErrNotFound)
		}
		return nil, err
	}

	rows, err := tx.Query(ctx, `SELECT `+bookingColumns+` FROM resource_bookings
		WHERE kind=$1 AND resource_id=$2 AND flight_id <> $3 AND status = ANY($4)`,
		booking.Kind, booking.ResourceID, booking.FlightID, domain.BlockingStatuses())
	if err != nil {
		return nil, err
	}
	existing, err := collectBookings(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}

	for _, held := range existing {
		if held.Blocks(booking.Window) {
			return nil, &domain.ConflictError{
				Kind:                booking.Kind,
				ResourceID:          booking.ResourceID,
				ConflictingFlightID: held.FlightID,
			}
		}
	}

	row := tx.QueryRow(ctx, `INSERT INTO resource_bookings (kind, resource_id, flight_id, window_start, window_end, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (kind, resource_id, flight_id)
		DO UPDATE SET window_start=EXCLUDED.window_start, window_end=EXCLUDED.window_end, status=EXCLUDED.status, updated_at=now()
		RETURNING `+bookingColumns,
		booking.Kind, booking.ResourceID, booking.FlightID, booking.Window.Start, booking.Window.End, booking.Status)
	created, err := scanBooking(row)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// Release flips the booking to a non-blocking status. History is kept;
// nothing is deleted. Releasing a booking that does not exist or is
// already non-blocking affects zero rows and is not an error.
func (r *PGBookingRepository) Release(ctx context.Context, kind domain.ResourceKind, resourceID, flightID int64, status domain.FlightStatus) error {
	_, err := r.db.Exec(ctx, `UPDATE resource_bookings SET status=$1, updated_at=now()
		WHERE kind=$2 AND resource_id=$3 AND flight_id=$4 AND status = ANY($5)`,
		status, kind, resourceID, flightID, domain.BlockingStatuses())
	return err
}

func (r *PGBookingRepository) UpdateStatusForFlight(ctx context.Context, flightID int64, status domain.FlightStatus) error {
	_, err := r.db.Exec(ctx, `UPDATE resource_bookings SET status=$1, updated_at=now()
		WHERE flight_id=$2 AND status = ANY($3)`,
		status, flightID, domain.BlockingStatuses())
	return err
}

func collectBookings(rows pgx.Rows) ([]domain.ResourceBooking, error) {
	bookings := make([]domain.ResourceBooking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
