package pricing

import (
	"fmt"

	"github.com/google/uuid"
)

// CostBasis is the aggregated HPP for a catalog, before margin and markup.
type CostBasis struct {
	Total   float64
	PerUnit float64
	Lines   []BreakdownLine
}

// BuildCostBasis sums a catalog's declared component materials plus its slot
// materials into a total cost basis, folds in labor and transport, and
// normalizes to a per-unit figure according to the catalog's yield regime.
//
// Declared components go through ResolveMaterialCost so bar/sheet stock gets
// its waste ceiling applied per component. A slot material that is not already
// itemized among the declared components contributes exactly one implicit unit
// at its base price; when it is itemized with a real quantity the implicit
// unit is skipped to avoid double-counting.
func BuildCostBasis(cat Catalog, components []Component, mats MaterialSet) (CostBasis, error) {
	basis := CostBasis{Lines: make([]BreakdownLine, 0, len(components)+6)}
	declared := make(map[uuid.UUID]bool, len(components))

	for _, c := range components {
		m, ok := mats.Lookup(c.MaterialID)
		if !ok {
			return CostBasis{}, fmt.Errorf("%w: component %s", ErrMissingMaterial, c.MaterialID)
		}
		declared[c.MaterialID] = true

		cost, err := ResolveMaterialCost(m, c.Quantity)
		if err != nil {
			return CostBasis{}, fmt.Errorf("component %s: %w", m.Name, err)
		}
		basis.Total += cost.Subtotal
		basis.Lines = append(basis.Lines, BreakdownLine{
			Name:            m.Name,
			QuantityNeeded:  c.Quantity,
			QuantityCharged: cost.QuantityCharged,
			Unit:            m.Unit,
			UnitPrice:       m.BasePrice,
			Subtotal:        cost.Subtotal,
			Waste:           cost.Waste,
			Section:         c.Section,
		})
	}

	for _, slot := range []struct {
		id      *uuid.UUID
		section string
	}{
		{cat.Slots.Roof, "roof"},
		{cat.Slots.Frame, "frame"},
		{cat.Slots.Finishing, "finishing"},
		{cat.Slots.Infill, "infill"},
	} {
		if slot.id == nil || declared[*slot.id] {
			continue
		}
		m, ok := mats.Lookup(*slot.id)
		if !ok {
			return CostBasis{}, fmt.Errorf("%w: %s slot %s", ErrMissingMaterial, slot.section, *slot.id)
		}
		basis.Total += m.BasePrice
		basis.Lines = append(basis.Lines, BreakdownLine{
			Name:            m.Name,
			QuantityNeeded:  1,
			QuantityCharged: 1,
			Unit:            m.Unit,
			UnitPrice:       m.BasePrice,
			Subtotal:        m.BasePrice,
			Section:         slot.section,
		})
	}

	if cat.LaborCost > 0 {
		basis.Total += cat.LaborCost
		basis.Lines = append(basis.Lines, BreakdownLine{
			Name:            "Biaya tukang",
			QuantityNeeded:  1,
			QuantityCharged: 1,
			Unit:            UnitPiece,
			UnitPrice:       cat.LaborCost,
			Subtotal:        cat.LaborCost,
			Section:         "labor",
		})
	}
	if cat.TransportCost > 0 {
		basis.Total += cat.TransportCost
		basis.Lines = append(basis.Lines, BreakdownLine{
			Name:            "Transportasi",
			QuantityNeeded:  1,
			QuantityCharged: 1,
			Unit:            UnitPiece,
			UnitPrice:       cat.TransportCost,
			Subtotal:        cat.TransportCost,
			Section:         "transport",
		})
	}

	basis.PerUnit = basis.Total
	if cat.Yield == YieldNormalized && cat.StandardYield > 0 {
		basis.PerUnit = basis.Total / cat.StandardYield
	}
	return basis, nil
}
