package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/noah-isme/backend-kanopi/internal/pricing"
)

// ErrDuplicate is returned when an insert violates a uniqueness constraint.
var ErrDuplicate = errors.New("repo: duplicate")

// Quotation statuses.
const (
	QuoteStatusDraft   = "draft"
	QuoteStatusIssued  = "issued"
	QuoteStatusExpired = "expired"
)

// Quotation is a stored document header.
type Quotation struct {
	ID           uuid.UUID
	Number       string
	CustomerName string
	ZoneID       *uuid.UUID
	Status       string
	Total        pricing.Money
	ValidUntil   time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Lines        []QuotationLine
}

// QuotationLine is one stored line together with its immutable pricing snapshot.
type QuotationLine struct {
	ID         uuid.UUID
	LineIndex  int
	Kind       string
	CatalogID  *uuid.UUID
	MaterialID *uuid.UUID
	Length     float64
	Width      float64
	UnitQty    float64
	Result     pricing.Result
}

// Quotes persists quotation documents and their pricing snapshots.
type Quotes struct {
	Pool *pgxpool.Pool
}

// Insert stores a quotation and all its lines in one transaction. The caller
// has already validated every line against the pricing floor; this method only
// writes, it never recomputes.
func (r Quotes) Insert(ctx context.Context, q *Quotation) error {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO quotations (id, number, customer_name, zone_id, status, total, valid_until)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		q.ID, q.Number, q.CustomerName, q.ZoneID, q.Status, q.Total, q.ValidUntil,
	).Scan(&q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return mapPgError(err)
	}

	for i := range q.Lines {
		line := &q.Lines[i]
		snapshot, err := json.Marshal(line.Result)
		if err != nil {
			return fmt.Errorf("marshal pricing snapshot: %w", err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO quotation_lines
				(id, quotation_id, line_index, kind, catalog_id, material_id, length_m, width_m, unit_qty, result)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			line.ID, q.ID, line.LineIndex, line.Kind, line.CatalogID, line.MaterialID,
			line.Length, line.Width, line.UnitQty, snapshot)
		if err != nil {
			return mapPgError(err)
		}
	}

	return tx.Commit(ctx)
}

// Get returns a quotation with its lines and stored snapshots.
func (r Quotes) Get(ctx context.Context, id uuid.UUID) (Quotation, error) {
	var q Quotation
	err := r.Pool.QueryRow(ctx, `
		SELECT id, number, customer_name, zone_id, status, total, valid_until, created_at, updated_at
		FROM quotations WHERE id = $1`, id).
		Scan(&q.ID, &q.Number, &q.CustomerName, &q.ZoneID, &q.Status, &q.Total, &q.ValidUntil, &q.CreatedAt, &q.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Quotation{}, fmt.Errorf("%w: quotation %s", ErrNotFound, id)
	}
	if err != nil {
		return Quotation{}, err
	}

	rows, err := r.Pool.Query(ctx, `
		SELECT id, line_index, kind, catalog_id, material_id, length_m, width_m, unit_qty, result
		FROM quotation_lines WHERE quotation_id = $1 ORDER BY line_index`, id)
	if err != nil {
		return Quotation{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var line QuotationLine
		var snapshot []byte
		err := rows.Scan(&line.ID, &line.LineIndex, &line.Kind, &line.CatalogID, &line.MaterialID,
			&line.Length, &line.Width, &line.UnitQty, &snapshot)
		if err != nil {
			return Quotation{}, err
		}
		if err := json.Unmarshal(snapshot, &line.Result); err != nil {
			return Quotation{}, fmt.Errorf("unmarshal pricing snapshot: %w", err)
		}
		q.Lines = append(q.Lines, line)
	}
	return q, rows.Err()
}

// List returns a page of quotation headers, newest first.
func (r Quotes) List(ctx context.Context, limit, offset int) ([]Quotation, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT id, number, customer_name, zone_id, status, total, valid_until, created_at, updated_at
		FROM quotations ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Quotation
	for rows.Next() {
		var q Quotation
		err := rows.Scan(&q.ID, &q.Number, &q.CustomerName, &q.ZoneID, &q.Status, &q.Total, &q.ValidUntil, &q.CreatedAt, &q.UpdatedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// Count returns the total number of quotations.
func (r Quotes) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.Pool.QueryRow(ctx, `SELECT count(*) FROM quotations`).Scan(&n)
	return n, err
}

// ExpireStale marks draft quotations past their validity window as expired and
// reports how many rows changed.
func (r Quotes) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE quotations SET status = $1, updated_at = now()
		WHERE status = $2 AND valid_until < $3`,
		QuoteStatusExpired, QuoteStatusDraft, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}
