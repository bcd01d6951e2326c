package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/abdeldjalilBenchabane/aero-nexus-control-sub000/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ResourceRepository interface {
	ListByKind(ctx context.Context, kind domain.ResourceKind) ([]domain.Resource, error)
	GetByID(ctx context.Context, kind domain.ResourceKind, id int64) (*domain.Resource, error)
}

// Each resource kind keeps its own table, matching the operational schema
// (gates, runways, airplanes).
func tableFor(kind domain.ResourceKind) (string, error) {
	switch kind {
	case domain.ResourceKindGate:
		return "gates", nil
	case domain.ResourceKindRunway:
		return "runways", nil
	case domain.ResourceKindAirplane:
		return "airplanes", nil
	}
	return "", fmt.Errorf("unknown resource kind %q", kind)
}

type PGResourceRepository struct {
	db *pgxpool.Pool
}

func NewResourceRepository(db *pgxpool.Pool) ResourceRepository {
	return &PGResourceRepository{db: db}
}

func (r *PGResourceRepository) ListByKind(ctx context.Context, kind domain.ResourceKind) ([]domain.Resource, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, fmt.Sprintf(`SELECT id, name FROM %s ORDER BY id`, table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	resources := make([]domain.Resource, 0)
	for rows.Next() {
		res := domain.Resource{Kind: kind}
		if err := rows.Scan(&res.ID, &res.Name); err != nil {
			return nil, err
		}
		resources = append(resources, res)
	}
	return resources, rows.Err()
}

func (r *PGResourceRepository) GetByID(ctx context.Context, kind domain.ResourceKind, id int64) (*domain.Resource, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	row := r.db.QueryRow(ctx, fmt.Sprintf(`SELECT id, name FROM %s WHERE id=$1`, table), id)
	res := domain.Resource{Kind: kind}
	if err := row.Scan(&res.ID, &res.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s %d: %w", kind, id, domain.ErrNotFound)
		}
		return nil, err
	}
	return &res, nil
}

var _ ResourceRepository = (*PGResourceRepository)(nil)
