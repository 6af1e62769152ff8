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

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("repo: not found")

// Materials provides read access to the material reference data.
type Materials struct {
	Pool *pgxpool.Pool
}

const materialColumns = `id, name, category, unit, base_price, length_per_unit, is_laser_cut_sheet, requires_sealant`

func scanMaterial(row pgx.Row) (pricing.Material, error) {
	var m pricing.Material
	var category, unit string
	err := row.Scan(&m.ID, &m.Name, &category, &unit, &m.BasePrice, &m.LengthPerUnit, &m.LaserCutSheet, &m.RequiresSealant)
	if err != nil {
		return pricing.Material{}, err
	}
	m.Category = pricing.Category(category)
	m.Unit = pricing.Unit(unit)
	// absent stock length defaults to discrete
	if m.LengthPerUnit <= 0 {
		m.LengthPerUnit = 1
	}
	return m, nil
}

// Get returns a single material by id.
func (r Materials) Get(ctx context.Context, id uuid.UUID) (pricing.Material, error) {
	row := r.Pool.QueryRow(ctx, `SELECT `+materialColumns+` FROM materials WHERE id = $1`, id)
	m, err := scanMaterial(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return pricing.Material{}, fmt.Errorf("%w: material %s", ErrNotFound, id)
	}
	return m, err
}

// List returns a page of materials ordered by name.
func (r Materials) List(ctx context.Context, limit, offset int) ([]pricing.Material, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT `+materialColumns+` FROM materials ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []pricing.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Count returns the total number of materials.
func (r Materials) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.Pool.QueryRow(ctx, `SELECT count(*) FROM materials`).Scan(&n)
	return n, err
}

// Set loads every material into the engine's read-only lookup. The reference
// catalog is small enough that snapshots carry the full set; it also feeds the
// advisory estimates.
func (r Materials) Set(ctx context.Context) (pricing.MaterialSet, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+materialColumns+` FROM materials`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := pricing.MaterialSet{}
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		set[m.ID] = m
	}
	return set, rows.Err()
}
