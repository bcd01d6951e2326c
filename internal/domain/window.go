package domain

import (
	"errors"
	"time"
)

// RunwayProximity is how close two departures may get before they compete
// for the same runway. A runway is held only around the takeoff instant,
// not for the whole flight duration.
const RunwayProximity = 30 * time.Minute

type TimeWindow struct {
	Start time.Time
	End   time.Time
}

func (w TimeWindow) Validate() error {
	if w.Start.IsZero() || w.End.IsZero() {
		return errors.New("window start and end are required")
	}
	if !w.Start.Before(w.End) {
		return errors.New("window start must be before end")
	}
	return nil
}

// RunwayWindow derives the booking window a runway holds for a flight
// departing at dep.
func RunwayWindow(dep time.Time) TimeWindow {
	return TimeWindow{Start: dep.Add(-RunwayProximity), End: dep.Add(RunwayProximity)}
}

// Overlaps reports whether two windows conflict under the given resource
// kind's rule.
//
// Gates and airplanes are occupied for the full ground time of a flight,
// so the test is standard half-open interval intersection. Windows that
// merely touch at an endpoint do not conflict.
//
// Runways compare departure instants only: two bookings conflict when
// their departures are within RunwayProximity of each other, boundary
// inclusive. Runway windows are stored as [dep-30m, dep+30m], so the
// departure instant is the window midpoint.
func Overlaps(kind ResourceKind, existing, candidate TimeWindow) bool {
	if kind == ResourceKindRunway {
		a := departureOf(existing)
		b := departureOf(candidate)
		d := a.Sub(b)
		if d < 0 {
			d = -d
		}
		return d <= RunwayProximity
	}
	return existing.Start.Before(candidate.End) && existing.End.After(candidate.Start)
}

func departureOf(w TimeWindow) time.Time {
	return w.Start.Add(w.End.Sub(w.Start) / 2)
}
