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

// Catalogs provides read access to sellable catalog definitions.
type Catalogs struct {
	Pool *pgxpool.Pool
}

const catalogColumns = `id, name, basis_price, basis_unit, margin_percent, labor_cost, transport_cost,
	yield_mode, standard_yield, roof_material_id, frame_material_id, finishing_material_id, infill_material_id`

func scanCatalog(row pgx.Row) (pricing.Catalog, error) {
	var c pricing.Catalog
	var basis, yield string
	err := row.Scan(&c.ID, &c.Name, &c.BasisPrice, &basis, &c.MarginPercent, &c.LaborCost, &c.TransportCost,
		&yield, &c.StandardYield, &c.Slots.Roof, &c.Slots.Frame, &c.Slots.Finishing, &c.Slots.Infill)
	if err != nil {
		return pricing.Catalog{}, err
	}
	c.BasisUnit = pricing.BasisUnit(basis)
	c.Yield = pricing.YieldMode(yield)
	return c, nil
}

// Get returns a catalog with its components and addons fully resolved.
func (r Catalogs) Get(ctx context.Context, id uuid.UUID) (pricing.Catalog, error) {
	row := r.Pool.QueryRow(ctx, `SELECT `+catalogColumns+` FROM catalogs WHERE id = $1`, id)
	c, err := scanCatalog(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return pricing.Catalog{}, fmt.Errorf("%w: catalog %s", ErrNotFound, id)
	}
	if err != nil {
		return pricing.Catalog{}, err
	}

	if c.Components, err = r.components(ctx, id); err != nil {
		return pricing.Catalog{}, err
	}
	if c.Addons, err = r.addons(ctx, id); err != nil {
		return pricing.Catalog{}, err
	}
	return c, nil
}

// List returns a page of catalogs ordered by name, without components.
func (r Catalogs) List(ctx context.Context, limit, offset int) ([]pricing.Catalog, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT `+catalogColumns+` FROM catalogs ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []pricing.Catalog
	for rows.Next() {
		c, err := scanCatalog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Count returns the total number of catalogs.
func (r Catalogs) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.Pool.QueryRow(ctx, `SELECT count(*) FROM catalogs`).Scan(&n)
	return n, err
}

func (r Catalogs) components(ctx context.Context, catalogID uuid.UUID) ([]pricing.Component, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT material_id, quantity, section FROM catalog_components WHERE catalog_id = $1 ORDER BY section, material_id`,
		catalogID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []pricing.Component
	for rows.Next() {
		var c pricing.Component
		if err := rows.Scan(&c.MaterialID, &c.Quantity, &c.Section); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r Catalogs) addons(ctx context.Context, catalogID uuid.UUID) ([]pricing.Addon, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT material_id, basis, qty_per_basis, optional FROM catalog_addons WHERE catalog_id = $1 ORDER BY material_id`,
		catalogID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []pricing.Addon
	for rows.Next() {
		var a pricing.Addon
		var basis string
		if err := rows.Scan(&a.MaterialID, &basis, &a.QtyPerBasis, &a.Optional); err != nil {
			return nil, err
		}
		a.Basis = pricing.BasisUnit(basis)
		out = append(out, a)
	}
	return out, rows.Err()
}
