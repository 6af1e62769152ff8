package quote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/noah-isme/backend-kanopi/internal/common"
	"github.com/noah-isme/backend-kanopi/internal/obs"
	"github.com/noah-isme/backend-kanopi/internal/pricing"
	"github.com/noah-isme/backend-kanopi/internal/repo"
)

// Line kinds accepted from callers. The closed set keeps catalog lines,
// manual material lines and custom lines from collapsing into one loosely
// typed blob.
const (
	LineKindCatalog  = "catalog"
	LineKindMaterial = "material"
	LineKindCustom   = "custom"
)

type snapshotLoader interface {
	LoadSnapshot(ctx context.Context, catalogID, zoneID *uuid.UUID) (pricing.Snapshot, error)
}

type quoteStore interface {
	Insert(ctx context.Context, q *repo.Quotation) error
	Get(ctx context.Context, id uuid.UUID) (repo.Quotation, error)
	List(ctx context.Context, limit, offset int) ([]repo.Quotation, error)
	Count(ctx context.Context) (int64, error)
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
}

// Service assembles quotation documents. Every line is priced by the engine
// against a snapshot loaded up front; the minimum-price guard runs strictly
// before anything is written (validate-then-commit, never the reverse).
type Service struct {
	Snapshots snapshotLoader
	Store     quoteStore
	Validate  *validator.Validate
	Validity  time.Duration
	// Now is injectable for tests; the engine itself never reads a clock.
	Now func() time.Time
}

// LineInput is one requested document line.
type LineInput struct {
	Kind              string     `json:"kind" validate:"required,oneof=catalog material custom"`
	CatalogID         *uuid.UUID `json:"catalog_id,omitempty" validate:"required_if=Kind catalog"`
	MaterialID        *uuid.UUID `json:"material_id,omitempty" validate:"required_if=Kind material"`
	Length            float64    `json:"length_m" validate:"gte=0"`
	Width             float64    `json:"width_m" validate:"gte=0"`
	UnitQty           float64    `json:"unit_qty" validate:"gte=0"`
	UnitPriceOverride *float64   `json:"unit_price_override,omitempty" validate:"omitempty,gt=0"`
}

// CreateInput is the full document request.
type CreateInput struct {
	CustomerName     string      `json:"customer_name" validate:"required,min=2"`
	ZoneID           *uuid.UUID  `json:"zone_id,omitempty"`
	AllowMissingZone bool        `json:"allow_missing_zone,omitempty"`
	Lines            []LineInput `json:"lines" validate:"required,min=1,dive"`
}

// PricedLine pairs an input line with its engine result.
type PricedLine struct {
	Input  LineInput      `json:"input"`
	Result pricing.Result `json:"result"`
}

// Preview prices every line without persisting anything.
func (s *Service) Preview(ctx context.Context, input CreateInput) ([]PricedLine, pricing.Money, error) {
	if err := s.validateInput(input); err != nil {
		return nil, 0, err
	}
	return s.evaluate(ctx, input)
}

// Create prices, guards and persists a quotation in one pass. The stored
// per-line snapshots are immutable copies: later reference-data edits never
// change an issued document.
func (s *Service) Create(ctx context.Context, input CreateInput) (repo.Quotation, error) {
	if err := s.validateInput(input); err != nil {
		return repo.Quotation{}, err
	}
	priced, total, err := s.evaluate(ctx, input)
	if err != nil {
		return repo.Quotation{}, err
	}

	now := s.now()
	q := repo.Quotation{
		ID:           uuid.New(),
		Number:       quoteNumber(now),
		CustomerName: input.CustomerName,
		ZoneID:       input.ZoneID,
		Status:       repo.QuoteStatusDraft,
		Total:        total,
		ValidUntil:   now.Add(s.validity()),
	}
	for i, line := range priced {
		q.Lines = append(q.Lines, repo.QuotationLine{
			ID:         uuid.New(),
			LineIndex:  i,
			Kind:       line.Input.Kind,
			CatalogID:  line.Input.CatalogID,
			MaterialID: line.Input.MaterialID,
			Length:     line.Input.Length,
			Width:      line.Input.Width,
			UnitQty:    line.Input.UnitQty,
			Result:     line.Result,
		})
	}

	if err := s.Store.Insert(ctx, &q); err != nil {
		obs.QuoteCreatedTotal.WithLabelValues("error").Inc()
		if errors.Is(err, repo.ErrDuplicate) {
			return repo.Quotation{}, common.NewAppError("CONFLICT", "quotation number already exists", http.StatusConflict, err)
		}
		return repo.Quotation{}, err
	}
	obs.QuoteCreatedTotal.WithLabelValues("ok").Inc()
	return q, nil
}

// Get returns a stored quotation with its snapshots.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (repo.Quotation, error) {
	q, err := s.Store.Get(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return repo.Quotation{}, common.NewAppError("NOT_FOUND", "quotation not found", http.StatusNotFound, err)
	}
	return q, err
}

// List returns a page of quotation headers plus the total count.
func (s *Service) List(ctx context.Context, page, limit int) ([]repo.Quotation, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	items, err := s.Store.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Store.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// evaluate prices every line in document order. The zone flat fee attaches to
// the first line that actually goes through the pricing pipeline: custom
// lines are skipped when counting, otherwise an all-zero custom first line
// would swallow the fee.
func (s *Service) evaluate(ctx context.Context, input CreateInput) ([]PricedLine, pricing.Money, error) {
	priced := make([]PricedLine, 0, len(input.Lines))
	var total pricing.Money
	standardSeen := 0

	for i, line := range input.Lines {
		req := pricing.Request{
			Kind:              pricing.KindStandard,
			Length:            line.Length,
			Width:             line.Width,
			UnitQty:           line.UnitQty,
			ZoneID:            input.ZoneID,
			AllowMissingZone:  input.AllowMissingZone,
			UnitPriceOverride: line.UnitPriceOverride,
			LineIndex:         standardSeen,
		}
		switch line.Kind {
		case LineKindCustom:
			req.Kind = pricing.KindCustom
		case LineKindCatalog:
			req.CatalogID = line.CatalogID
		case LineKindMaterial:
			req.MaterialID = line.MaterialID
		}

		var snap pricing.Snapshot
		if req.Kind != pricing.KindCustom {
			var err error
			snap, err = s.Snapshots.LoadSnapshot(ctx, req.CatalogID, input.ZoneID)
			if err != nil {
				return nil, 0, fmt.Errorf("line %d: %w", i, err)
			}
		}

		res, err := pricing.Evaluate(req, snap)
		if err != nil {
			obs.PricingEvalTotal.WithLabelValues(string(req.Kind), "error").Inc()
			return nil, 0, wrapEngineError(i, err)
		}
		obs.PricingEvalTotal.WithLabelValues(string(req.Kind), "ok").Inc()

		if req.Kind != pricing.KindCustom {
			standardSeen++
		}
		total += res.SellPriceTotal
		priced = append(priced, PricedLine{Input: line, Result: res})
	}
	return priced, total, nil
}

func (s *Service) validateInput(input CreateInput) error {
	if s.Validate == nil {
		return nil
	}
	if err := s.Validate.Struct(input); err != nil {
		return common.NewAppError("VALIDATION", "invalid quotation payload", http.StatusBadRequest, err)
	}
	return nil
}

// wrapEngineError maps engine sentinels onto the canonical API error shape.
func wrapEngineError(lineIndex int, err error) error {
	details := map[string]any{"line": lineIndex}

	var fe *pricing.FloorError
	if errors.As(err, &fe) {
		obs.PricingFloorRejectedTotal.Inc()
		details["minimum_unit_price"] = fe.Minimum
		details["offered_unit_price"] = fe.Offered
		return common.NewAppError("BELOW_MINIMUM_PRICE", "unit price below the allowed minimum", http.StatusUnprocessableEntity, err).WithDetails(details)
	}

	switch {
	case errors.Is(err, pricing.ErrInvalidQuantity):
		return common.NewAppError("INVALID_QUANTITY", "dimensions or quantities are invalid", http.StatusBadRequest, err).WithDetails(details)
	case errors.Is(err, pricing.ErrMissingMaterial):
		return common.NewAppError("MISSING_MATERIAL", "a referenced material does not exist", http.StatusUnprocessableEntity, err).WithDetails(details)
	case errors.Is(err, pricing.ErrCatalogUnresolved):
		return common.NewAppError("CATALOG_UNRESOLVED", "the referenced catalog could not be resolved", http.StatusUnprocessableEntity, err).WithDetails(details)
	case errors.Is(err, pricing.ErrZoneUnresolved):
		return common.NewAppError("ZONE_UNRESOLVED", "the referenced zone could not be resolved", http.StatusUnprocessableEntity, err).WithDetails(details)
	case errors.Is(err, pricing.ErrUnpriceable):
		return common.NewAppError("VALIDATION", "line references neither catalog nor material", http.StatusBadRequest, err).WithDetails(details)
	default:
		return err
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) validity() time.Duration {
	if s.Validity > 0 {
		return s.Validity
	}
	return 30 * 24 * time.Hour
}

func quoteNumber(now time.Time) string {
	return fmt.Sprintf("QTN-%s-%s", now.Format("20060102"), uuid.NewString()[:8])
}
