package pricing

import (
	"fmt"
	"math"
)

// Evaluate prices a single request against an immutable snapshot. It is a
// pure function: identical inputs always produce identical results, which is
// what lets quotation, contract and invoice share the same stored numbers.
//
// The custom escape hatch is checked before anything else so a malformed or
// missing catalog reference never fails a custom request.
func Evaluate(req Request, snap Snapshot) (Result, error) {
	if req.Kind == KindCustom {
		return customResult(req), nil
	}

	if err := validateDimensions(req); err != nil {
		return Result{}, err
	}

	zone, err := resolveZone(req, snap)
	if err != nil {
		return Result{}, err
	}

	switch {
	case req.CatalogID != nil:
		return evaluateCatalog(req, snap, zone)
	case req.MaterialID != nil:
		return evaluateMaterial(req, snap, zone)
	default:
		return Result{}, ErrUnpriceable
	}
}

// customResult returns the zeroed, flagged result for the escape hatch. Every
// cost and price field is exactly zero and the breakdown is empty.
func customResult(req Request) Result {
	area := req.Length * req.Width
	qty := req.UnitQty
	if area > 0 {
		qty = area
	}
	return Result{
		Area:      area,
		Quantity:  qty,
		Breakdown: []BreakdownLine{},
		IsCustom:  true,
	}
}

func validateDimensions(req Request) error {
	for _, v := range []float64{req.Length, req.Width, req.UnitQty} {
		if math.IsNaN(v) || v < 0 {
			return ErrInvalidQuantity
		}
	}
	return nil
}

// resolveZone matches the requested zone against the snapshot. A missing zone
// is only downgraded to zoneless pricing when the request opts in.
func resolveZone(req Request, snap Snapshot) (*Zone, error) {
	if req.ZoneID == nil {
		return nil, nil
	}
	if snap.Zone != nil && snap.Zone.ID == *req.ZoneID {
		return snap.Zone, nil
	}
	if req.AllowMissingZone {
		return nil, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrZoneUnresolved, *req.ZoneID)
}

func evaluateCatalog(req Request, snap Snapshot, zone *Zone) (Result, error) {
	if snap.Catalog == nil || snap.Catalog.ID != *req.CatalogID {
		return Result{}, fmt.Errorf("%w: %s", ErrCatalogUnresolved, *req.CatalogID)
	}
	cat := snap.Catalog

	area := req.Length * req.Width
	var qty float64
	switch cat.BasisUnit {
	case BasisArea:
		qty = area
	case BasisLinear:
		qty = req.Length
	default:
		qty = req.UnitQty
		if qty == 0 {
			qty = 1
		}
	}
	if qty <= 0 {
		return Result{}, ErrInvalidQuantity
	}

	basis, err := BuildCostBasis(*cat, cat.Components, snap.Materials)
	if err != nil {
		return Result{}, err
	}

	stack := ApplyPricing(basis.PerUnit, cat.MarginPercent, zone, qty, req.LineIndex == 0)

	chosen := cat.BasisPrice
	if req.UnitPriceOverride != nil {
		chosen = *req.UnitPriceOverride
	}
	total, err := GuardUnitPrice(chosen, stack.MinimumUnitPrice, qty)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Area:                 area,
		Quantity:             qty,
		CostBasisTotal:       basis.Total,
		CostBasisPerUnit:     basis.PerUnit,
		PriceAfterMarginUnit: stack.PriceAfterMargin,
		MarkupPercentApplied: stack.MarkupPercent,
		FlatFeeApplied:       stack.FlatFeeApplied,
		UnitPriceCharged:     chosen,
		SellPriceTotal:       total,
		MinimumUnitPrice:     stack.MinimumUnitPrice,
		Breakdown:            basis.Lines,
	}
	res.Warnings, res.Suggestions = Advise(req, snap, coverMaterial(*cat, snap.Materials))
	return res, nil
}

func evaluateMaterial(req Request, snap Snapshot, zone *Zone) (Result, error) {
	m, ok := snap.Materials.Lookup(*req.MaterialID)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrMissingMaterial, *req.MaterialID)
	}

	area := req.Length * req.Width
	var needed float64
	switch m.Unit {
	case UnitBar, UnitLinearMeter:
		needed = req.Length
	case UnitSheet, UnitAreaMeter:
		needed = area
	default:
		needed = req.UnitQty
		if needed == 0 {
			needed = 1
		}
	}
	if m.LaserCutSheet {
		needed = area
	}
	if needed <= 0 {
		return Result{}, ErrInvalidQuantity
	}

	cost, err := ResolveMaterialCost(m, needed)
	if err != nil {
		return Result{}, err
	}
	perUnit := cost.Subtotal / needed

	// Raw material requests carry no catalog margin; the floor is cost plus
	// zone modifiers only.
	stack := ApplyPricing(perUnit, 0, zone, needed, req.LineIndex == 0)

	chosen := float64(stack.MinimumUnitPrice)
	if req.UnitPriceOverride != nil {
		chosen = *req.UnitPriceOverride
	}
	total, err := GuardUnitPrice(chosen, stack.MinimumUnitPrice, needed)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Area:                 area,
		Quantity:             needed,
		CostBasisTotal:       cost.Subtotal,
		CostBasisPerUnit:     perUnit,
		PriceAfterMarginUnit: stack.PriceAfterMargin,
		MarkupPercentApplied: stack.MarkupPercent,
		FlatFeeApplied:       stack.FlatFeeApplied,
		UnitPriceCharged:     chosen,
		SellPriceTotal:       total,
		MinimumUnitPrice:     stack.MinimumUnitPrice,
		Breakdown: []BreakdownLine{{
			Name:            m.Name,
			QuantityNeeded:  needed,
			QuantityCharged: cost.QuantityCharged,
			Unit:            m.Unit,
			UnitPrice:       m.BasePrice,
			Subtotal:        cost.Subtotal,
			Waste:           cost.Waste,
		}},
	}
	res.Warnings, res.Suggestions = Advise(req, snap, &m)
	return res, nil
}

// coverMaterial resolves the catalog's roof slot for the advisory pass.
func coverMaterial(cat Catalog, mats MaterialSet) *Material {
	if cat.Slots.Roof == nil {
		return nil
	}
	if m, ok := mats.Lookup(*cat.Slots.Roof); ok {
		return &m
	}
	return nil
}
