package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/noah-isme/backend-kanopi/internal/pricing"
)

// Zones provides read access to location-based pricing modifiers.
type Zones struct {
	Pool *pgxpool.Pool
}

// Get returns a single zone by id.
func (r Zones) Get(ctx context.Context, id uuid.UUID) (pricing.Zone, error) {
	var z pricing.Zone
	err := r.Pool.QueryRow(ctx,
		`SELECT id, name, markup_percent, flat_fee FROM zones WHERE id = $1`, id).
		Scan(&z.ID, &z.Name, &z.MarkupPercent, &z.FlatFee)
	if errors.Is(err, pgx.ErrNoRows) {
		return pricing.Zone{}, fmt.Errorf("%w: zone %s", ErrNotFound, id)
	}
	return z, err
}

// List returns every zone ordered by name. The zone table is tiny.
func (r Zones) List(ctx context.Context) ([]pricing.Zone, error) {
	rows, err := r.Pool.Query(ctx, `SELECT id, name, markup_percent, flat_fee FROM zones ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []pricing.Zone
	for rows.Next() {
		var z pricing.Zone
		if err := rows.Scan(&z.ID, &z.Name, &z.MarkupPercent, &z.FlatFee); err != nil {
			return nil, err
		}
		out = append(out, z)
	}
	return out, rows.Err()
}
