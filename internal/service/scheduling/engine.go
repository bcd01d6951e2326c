package scheduling

import (
	"context"
	"log"
	"time"

	"github.com/abdeldjalilBenchabane/aero-nexus-control-sub000/internal/domain"
	"github.com/abdeldjalilBenchabane/aero-nexus-control-sub000/internal/repository"
)

// SchedulingUseCase decides whether a gate, runway or airplane is free for
// a flight's window and hands resources out without double-booking them.
type SchedulingUseCase interface {
	QueryAvailable(ctx context.Context, kind domain.ResourceKind, window domain.TimeWindow, excludeFlightID int64) ([]domain.Resource, error)
	Assign(ctx context.Context, kind domain.ResourceKind, resourceID, flightID int64, window domain.TimeWindow) (*domain.ResourceBooking, error)
	Release(ctx context.Context, kind domain.ResourceKind, resourceID, flightID int64) error
	Reassign(ctx context.Context, kind domain.ResourceKind, flightID, oldResourceID, newResourceID int64, window domain.TimeWindow) (*domain.ResourceBooking, error)
}

type Cache interface {
	AcquireResourceLock(ctx context.Context, kind domain.ResourceKind, resourceID int64, ttl time.Duration) (bool, error)
	ReleaseResourceLock(ctx context.Context, kind domain.ResourceKind, resourceID int64) error
	GetResources(ctx context.Context, kind domain.ResourceKind) ([]domain.Resource, error)
	SetResources(ctx context.Context, kind domain.ResourceKind, resources []domain.Resource) error
}

type Engine struct {
	resources repository.ResourceRepository
	bookings  repository.BookingRepository
	flights   repository.FlightRepository
	cache     Cache
	lockTTL   time.Duration
}

type EngineOption func(*Engine)

func WithCache(cache Cache, lockTTL time.Duration) EngineOption {
	return func(e *Engine) {
		e.cache = cache
		e.lockTTL = lockTTL
	}
}

// WithFlightDirectory keeps the flight rows' gate/runway/airplane pointers
// in step with committed bookings.
func WithFlightDirectory(flights repository.FlightRepository) EngineOption {
	return func(e *Engine) {
		e.flights = flights
	}
}

func NewEngine(resources repository.ResourceRepository, bookings repository.BookingRepository, opts ...EngineOption) *Engine {
	engine := &Engine{
		resources: resources,
		bookings:  bookings,
		lockTTL:   10 * time.Second,
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// bookingWindow is the window a booking of this kind actually holds. Gates
// and airplanes hold the flight's full [departure, arrival]; runways hold
// the derived window around the departure instant only.
func bookingWindow(kind domain.ResourceKind, candidate domain.TimeWindow) domain.TimeWindow {
	if kind == domain.ResourceKindRunway {
		return domain.RunwayWindow(candidate.Start)
	}
	return candidate
}

// QueryAvailable returns the resources of kind with no active booking
// overlapping the candidate window. The result is advisory: another
// assign may commit right after it returns, so callers still handle a
// conflict from Assign. Bookings held by excludeFlightID are ignored,
// which lets a flight's own current resource show up when its window is
// re-evaluated.
func (e *Engine) QueryAvailable(ctx context.Context, kind domain.ResourceKind, window domain.TimeWindow, excludeFlightID int64) ([]domain.Resource, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}

	resources, err := e.listResources(ctx, kind)
	if err != nil {
		return nil, err
	}

	held, err := e.bookings.ActiveByKind(ctx, kind, excludeFlightID)
	if err != nil {
		return nil, err
	}

	candidate := bookingWindow(kind, window)
	available := make([]domain.Resource, 0, len(resources))
	for _, res := range resources {
		if hasConflict(held[res.ID], candidate) {
			continue
		}
		available = append(available, res)
	}
	return available, nil
}

// Assign books one specific resource for the flight. The check-then-write
// runs as a single store transaction; two racing assigns for overlapping
// windows end with exactly one booking and one conflict. A losing call
// fails fast, it never waits for the winner's window to free up.
func (e *Engine) Assign(ctx context.Context, kind domain.ResourceKind, resourceID, flightID int64, window domain.TimeWindow) (*domain.ResourceBooking, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}

	if e.cache != nil {
		ok, err := e.cache.AcquireResourceLock(ctx, kind, resourceID, e.lockTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &domain.ConflictError{Kind: kind, ResourceID: resourceID}
		}
		defer func() {
			_ = e.cache.ReleaseResourceLock(ctx, kind, resourceID)
		}()
	}

	booking := &domain.ResourceBooking{
		Kind:       kind,
		ResourceID: resourceID,
		FlightID:   flightID,
		Window:     bookingWindow(kind, window),
		Status:     domain.FlightStatusScheduled,
	}

	created, err := e.bookings.AssignActive(ctx, booking)
	if err != nil {
		return nil, err
	}

	if e.flights != nil {
		if err := e.flights.SetResource(ctx, flightID, kind, &resourceID); err != nil {
			return created, err
		}
	}

	e.verifyNoDoubleBooking(ctx, kind, resourceID)
	return created, nil
}

// Release marks the booking for (resource, flight) non-blocking. The
// booking row stays for history. Releasing a missing or already released
// booking is a no-op. The flight's assignment pointer is cleared when it
// still points at the released resource.
func (e *Engine) Release(ctx context.Context, kind domain.ResourceKind, resourceID, flightID int64) error {
	if err := e.bookings.Release(ctx, kind, resourceID, flightID, domain.FlightStatusCancelled); err != nil {
		return err
	}
	e.clearFlightPointer(ctx, kind, resourceID, flightID)
	return nil
}

// Reassign moves the flight to newResourceID. The new booking is taken
// first; the old one is only released once the new one committed, so an
// unavailable new resource leaves the old booking untouched. A failed
// release of the old booking does not undo the reassign: the new booking
// stands, the failure is logged, and release is idempotent so it can be
// retried.
func (e *Engine) Reassign(ctx context.Context, kind domain.ResourceKind, flightID, oldResourceID, newResourceID int64, window domain.TimeWindow) (*domain.ResourceBooking, error) {
	created, err := e.Assign(ctx, kind, newResourceID, flightID, window)
	if err != nil {
		return nil, err
	}

	if oldResourceID != 0 && oldResourceID != newResourceID {
		if err := e.Release(ctx, kind, oldResourceID, flightID); err != nil {
			log.Printf("reassign: release of %s %d for flight %d failed: %v", kind, oldResourceID, flightID, err)
		}
	}
	return created, nil
}

// clearFlightPointer resets the flight's assignment pointer after a
// release, but only when it still points at the released resource, so a
// reassign that already moved the pointer is left alone.
func (e *Engine) clearFlightPointer(ctx context.Context, kind domain.ResourceKind, resourceID, flightID int64) {
	if e.flights == nil {
		return
	}
	flight, err := e.flights.GetByID(ctx, flightID)
	if err != nil {
		return
	}
	if current := flight.ResourceID(kind); current != nil && *current == resourceID {
		_ = e.flights.SetResource(ctx, flightID, kind, nil)
	}
}

// verifyNoDoubleBooking re-reads the resource's active bookings after a
// commit. Finding an overlapping pair means the serialization guard
// failed somewhere; that gets logged loudly and is never auto-corrected,
// since cancelling either booking could kill a legitimate one.
func (e *Engine) verifyNoDoubleBooking(ctx context.Context, kind domain.ResourceKind, resourceID int64) {
	active, err := e.bookings.ActiveForResource(ctx, kind, resourceID, 0)
	if err != nil {
		return
	}
	for i := range active {
		for j := i + 1; j < len(active); j++ {
			if domain.Overlaps(kind, active[i].Window, active[j].Window) {
				violation := &domain.InvariantViolationError{
					Kind:       kind,
					ResourceID: resourceID,
					FlightA:    active[i].FlightID,
					FlightB:    active[j].FlightID,
				}
				log.Printf("INVARIANT VIOLATION: %v", violation)
			}
		}
	}
}

// listResources goes through the cache first; resource sets change rarely
// compared to how often availability is queried.
func (e *Engine) listResources(ctx context.Context, kind domain.ResourceKind) ([]domain.Resource, error) {
	if e.cache != nil {
		if cached, err := e.cache.GetResources(ctx, kind); err == nil && cached != nil {
			return cached, nil
		}
	}

	resources, err := e.resources.ListByKind(ctx, kind)
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		_ = e.cache.SetResources(ctx, kind, resources)
	}
	return resources, nil
}

func hasConflict(held []domain.ResourceBooking, candidate domain.TimeWindow) bool {
	for _, booking := range held {
		if booking.Blocks(candidate) {
			return true
		}
	}
	return false
}

var _ SchedulingUseCase = (*Engine)(nil)
