package pricing

import (
	"math"
	"testing"

	"github.com/google/uuid"
)

func TestResolveMaterialCostBarStock(t *testing.T) {
	m := Material{Name: "Hollow 4x4", Unit: UnitBar, BasePrice: 25_000, LengthPerUnit: 6}
	cost, err := ResolveMaterialCost(m, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cost.QuantityCharged != 18 {
		t.Fatalf("expected 18 m charged, got %v", cost.QuantityCharged)
	}
	if cost.Subtotal != 18*25_000 {
		t.Fatalf("expected subtotal 450000, got %v", cost.Subtotal)
	}
	if cost.Waste != 4 {
		t.Fatalf("expected 4 m waste, got %v", cost.Waste)
	}
}

func TestResolveMaterialCostDiscreteNoRounding(t *testing.T) {
	m := Material{Name: "Dynabolt", Unit: UnitPiece, BasePrice: 2_000, LengthPerUnit: 1}
	cost, err := ResolveMaterialCost(m, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cost.QuantityCharged != 12 || cost.Waste != 0 {
		t.Fatalf("expected 12 charged with no waste, got %v / %v", cost.QuantityCharged, cost.Waste)
	}
}

func TestResolveMaterialCostAbsentStockLengthDefaultsDiscrete(t *testing.T) {
	m := Material{Name: "Engsel", Unit: UnitPiece, BasePrice: 15_000}
	cost, err := ResolveMaterialCost(m, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cost.QuantityCharged != 3 {
		t.Fatalf("expected 3 charged, got %v", cost.QuantityCharged)
	}
}

func TestResolveMaterialCostLaserCutSheet(t *testing.T) {
	m := Material{
		ID:            uuid.New(),
		Name:          "Plat laser cut",
		Unit:          UnitSheet,
		BasePrice:     1_200_000,
		LaserCutSheet: true,
	}
	cost, err := ResolveMaterialCost(m, 4.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cost.QuantityCharged != 2 {
		t.Fatalf("expected 2 sheets charged, got %v", cost.QuantityCharged)
	}
	if cost.Subtotal != 2_400_000 {
		t.Fatalf("expected subtotal 2400000, got %v", cost.Subtotal)
	}
	if math.Abs(cost.Waste-1.9536) > 1e-6 {
		t.Fatalf("expected waste area 1.9536, got %v", cost.Waste)
	}
}
