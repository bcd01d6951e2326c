package domain

import "time"

type Flight struct {
	ID            int64
	Number        string
	FromAirport   string
	ToAirport     string
	DepartureTime time.Time
	ArrivalTime   time.Time
	Status        FlightStatus
	AirplaneID    *int64
	GateID        *int64
	RunwayID      *int64
	TotalSeats    int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Window is the flight's full ground-time window, the one gates and
// airplanes are held for.
func (f Flight) Window() TimeWindow {
	return TimeWindow{Start: f.DepartureTime, End: f.ArrivalTime}
}

// ResourceID returns the flight's current assignment pointer for the
// given resource kind, nil when nothing is assigned.
func (f Flight) ResourceID(kind ResourceKind) *int64 {
	switch kind {
	case ResourceKindGate:
		return f.GateID
	case ResourceKindRunway:
		return f.RunwayID
	case ResourceKindAirplane:
		return f.AirplaneID
	}
	return nil
}
