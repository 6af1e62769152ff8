package pricing

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func fixtureMaterials() (MaterialSet, Material, Material, Material) {
	hollow := Material{ID: uuid.New(), Name: "Hollow galvanis 4x4", Category: CategoryFrame, Unit: UnitBar, BasePrice: 25_000, LengthPerUnit: 6}
	roof := Material{ID: uuid.New(), Name: "Atap spandek", Category: CategoryRoof, Unit: UnitAreaMeter, BasePrice: 95_000, LengthPerUnit: 1}
	paint := Material{ID: uuid.New(), Name: "Cat finishing", Category: CategoryFinishing, Unit: UnitPiece, BasePrice: 60_000}
	set := MaterialSet{hollow.ID: hollow, roof.ID: roof, paint.ID: paint}
	return set, hollow, roof, paint
}

func TestBuildCostBasisComponentsGetWasteRounding(t *testing.T) {
	mats, hollow, _, _ := fixtureMaterials()
	cat := Catalog{Yield: YieldRaw}
	components := []Component{{MaterialID: hollow.ID, Quantity: 14, Section: "rangka"}}

	basis, err := BuildCostBasis(cat, components, mats)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 14 m of 6 m bars charges 18 m
	if basis.Total != 18*25_000 {
		t.Fatalf("expected total 450000, got %v", basis.Total)
	}
	if len(basis.Lines) != 1 || basis.Lines[0].QuantityCharged != 18 {
		t.Fatalf("expected one audited line charged 18, got %+v", basis.Lines)
	}
}

func TestBuildCostBasisImplicitSlotUnit(t *testing.T) {
	mats, hollow, roof, _ := fixtureMaterials()
	cat := Catalog{
		Yield: YieldRaw,
		Slots: Slots{Roof: &roof.ID},
	}
	components := []Component{{MaterialID: hollow.ID, Quantity: 6}}

	basis, err := BuildCostBasis(cat, components, mats)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 6 m of bar (one stock length) plus one implicit roof unit
	if basis.Total != 6*25_000+95_000 {
		t.Fatalf("expected 245000, got %v", basis.Total)
	}
}

func TestBuildCostBasisItemizedSlotSkipsImplicitUnit(t *testing.T) {
	mats, _, roof, _ := fixtureMaterials()
	cat := Catalog{
		Yield: YieldRaw,
		Slots: Slots{Roof: &roof.ID},
	}
	// the roof material is explicitly itemized with a real quantity, so no
	// implicit unit must be added on top
	components := []Component{{MaterialID: roof.ID, Quantity: 6, Section: "atap"}}

	basis, err := BuildCostBasis(cat, components, mats)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if basis.Total != 6*95_000 {
		t.Fatalf("expected 570000 with no double-counted slot, got %v", basis.Total)
	}
	if len(basis.Lines) != 1 {
		t.Fatalf("expected a single line, got %d", len(basis.Lines))
	}
}

func TestBuildCostBasisLaborAndTransportFoldedIn(t *testing.T) {
	mats, hollow, _, _ := fixtureMaterials()
	cat := Catalog{Yield: YieldRaw, LaborCost: 500_000, TransportCost: 150_000}
	components := []Component{{MaterialID: hollow.ID, Quantity: 6}}

	basis, err := BuildCostBasis(cat, components, mats)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if basis.Total != 150_000+500_000+150_000 {
		t.Fatalf("expected 800000, got %v", basis.Total)
	}
}

func TestBuildCostBasisYieldNormalized(t *testing.T) {
	mats, hollow, _, _ := fixtureMaterials()
	cat := Catalog{Yield: YieldNormalized, StandardYield: 10}
	components := []Component{{MaterialID: hollow.ID, Quantity: 12}}

	basis, err := BuildCostBasis(cat, components, mats)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if basis.Total != 300_000 {
		t.Fatalf("expected total 300000, got %v", basis.Total)
	}
	if basis.PerUnit != 30_000 {
		t.Fatalf("expected per-unit 30000, got %v", basis.PerUnit)
	}
}

func TestBuildCostBasisYieldRawKeepsTotal(t *testing.T) {
	mats, hollow, _, _ := fixtureMaterials()
	cat := Catalog{Yield: YieldRaw, StandardYield: 10}
	components := []Component{{MaterialID: hollow.ID, Quantity: 12}}

	basis, err := BuildCostBasis(cat, components, mats)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if basis.PerUnit != basis.Total {
		t.Fatalf("raw regime must not divide by yield, got %v vs %v", basis.PerUnit, basis.Total)
	}
}

func TestBuildCostBasisMissingMaterialFailsLoudly(t *testing.T) {
	mats, _, _, _ := fixtureMaterials()
	cat := Catalog{Yield: YieldRaw}
	components := []Component{{MaterialID: uuid.New(), Quantity: 3}}

	_, err := BuildCostBasis(cat, components, mats)
	if !errors.Is(err, ErrMissingMaterial) {
		t.Fatalf("expected ErrMissingMaterial, got %v", err)
	}
}

func TestBuildCostBasisMissingSlotMaterialFailsLoudly(t *testing.T) {
	mats, hollow, _, _ := fixtureMaterials()
	ghost := uuid.New()
	cat := Catalog{Yield: YieldRaw, Slots: Slots{Infill: &ghost}}
	components := []Component{{MaterialID: hollow.ID, Quantity: 6}}

	_, err := BuildCostBasis(cat, components, mats)
	if !errors.Is(err, ErrMissingMaterial) {
		t.Fatalf("expected ErrMissingMaterial for slot, got %v", err)
	}
}
