package repository

import (
	"testing"

	"github.com/abdeldjalilBenchabane/aero-nexus-control-sub000/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

func TestNewRepositories(t *testing.T) {
	pool := &pgxpool.Pool{}
	assert.NotNil(t, NewResourceRepository(pool))
	assert.NotNil(t, NewBookingRepository(pool))
	assert.NotNil(t, NewFlightRepository(pool))
	assert.NotNil(t, NewReservationRepository(pool))
}

func TestTableFor(t *testing.T) {
	testCases := []struct {
		kind  domain.ResourceKind
		table string
	}{
		{domain.ResourceKindGate, "gates"},
		{domain.ResourceKindRunway, "runways"},
		{domain.ResourceKindAirplane, "airplanes"},
	}

	for _, tc := range testCases {
		table, err := tableFor(tc.kind)
		assert.NoError(t, err)
		assert.Equal(t, tc.table, table)
	}

	_, err := tableFor(domain.ResourceKind("terminal"))
	assert.Error(t, err)
}
