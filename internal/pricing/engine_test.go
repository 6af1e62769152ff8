package pricing

import (
	"errors"
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func fixtureSnapshot() (Snapshot, Catalog, Zone) {
	hollow := Material{ID: uuid.New(), Name: "Hollow galvanis 4x4", Category: CategoryFrame, Unit: UnitBar, BasePrice: 25_000, LengthPerUnit: 6}
	roof := Material{ID: uuid.New(), Name: "Atap alderon", Category: CategoryRoof, Unit: UnitAreaMeter, BasePrice: 95_000, LengthPerUnit: 1}

	cat := Catalog{
		ID:            uuid.New(),
		Name:          "Kanopi baja ringan",
		BasisPrice:    450_000,
		BasisUnit:     BasisArea,
		MarginPercent: 20,
		LaborCost:     300_000,
		Yield:         YieldNormalized,
		StandardYield: 12,
		Slots:         Slots{Roof: &roof.ID, Frame: &hollow.ID},
		Components:    []Component{{MaterialID: hollow.ID, Quantity: 14, Section: "rangka"}},
	}
	zone := Zone{ID: uuid.New(), Name: "Jabodetabek", MarkupPercent: 10, FlatFee: 50_000}
	snap := Snapshot{
		Materials: MaterialSet{hollow.ID: hollow, roof.ID: roof},
		Catalog:   &cat,
		Zone:      &zone,
	}
	return snap, cat, zone
}

func TestEvaluateCustomSkipsEverything(t *testing.T) {
	ghost := uuid.New()
	req := Request{
		Kind:      KindCustom,
		Length:    3,
		Width:     4,
		CatalogID: &ghost, // dangling reference must not matter
	}
	res, err := Evaluate(req, Snapshot{})
	if err != nil {
		t.Fatalf("custom path must never fail on lookups: %v", err)
	}
	if !res.IsCustom {
		t.Fatalf("expected custom flag")
	}
	if res.Area != 12 {
		t.Fatalf("expected area 12, got %v", res.Area)
	}
	if res.CostBasisTotal != 0 || res.SellPriceTotal != 0 || res.MinimumUnitPrice != 0 || res.FlatFeeApplied != 0 {
		t.Fatalf("expected all-zero prices, got %+v", res)
	}
	if len(res.Breakdown) != 0 {
		t.Fatalf("expected empty breakdown, got %d lines", len(res.Breakdown))
	}
}

func TestEvaluateCatalogDeterministic(t *testing.T) {
	snap, cat, zone := fixtureSnapshot()
	req := Request{
		Kind:      KindStandard,
		Length:    3,
		Width:     4,
		CatalogID: &cat.ID,
		ZoneID:    &zone.ID,
	}
	first, err := Evaluate(req, snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Evaluate(req, snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical inputs must produce identical results:\n%+v\n%+v", first, second)
	}
}

func TestEvaluateCatalogNumbers(t *testing.T) {
	snap, cat, zone := fixtureSnapshot()
	req := Request{
		Kind:      KindStandard,
		Length:    3,
		Width:     4,
		CatalogID: &cat.ID,
		ZoneID:    &zone.ID,
	}
	res, err := Evaluate(req, snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// components: 14 m of 6 m bars -> 18 bars-m * 25000 = 450000
	// implicit roof slot: 95000; labor 300000 -> total 845000
	if res.CostBasisTotal != 845_000 {
		t.Fatalf("expected HPP total 845000, got %v", res.CostBasisTotal)
	}
	// yield normalized: 845000 / 12
	if res.CostBasisPerUnit != 845_000.0/12 {
		t.Fatalf("expected per-unit HPP, got %v", res.CostBasisPerUnit)
	}
	if res.Quantity != 12 {
		t.Fatalf("expected quantity 12 m2, got %v", res.Quantity)
	}
	if res.FlatFeeApplied != 50_000 {
		t.Fatalf("expected flat fee on first line, got %v", res.FlatFeeApplied)
	}
	// published 450000/m2 over 12 m2
	if res.SellPriceTotal != 5_400_000 {
		t.Fatalf("expected sell total 5400000, got %v", res.SellPriceTotal)
	}
}

func TestEvaluateFlatFeeExclusivityAcrossLines(t *testing.T) {
	snap, cat, zone := fixtureSnapshot()
	var applied float64
	for line := 0; line < 3; line++ {
		req := Request{
			Kind:      KindStandard,
			Length:    3,
			Width:     4,
			CatalogID: &cat.ID,
			ZoneID:    &zone.ID,
			LineIndex: line,
		}
		res, err := Evaluate(req, snap)
		if err != nil {
			t.Fatalf("line %d: %v", line, err)
		}
		applied += res.FlatFeeApplied
	}
	if applied != zone.FlatFee {
		t.Fatalf("flat fee must be charged exactly once per document, got %v", applied)
	}
}

func TestEvaluateBelowMinimumOverrideRejected(t *testing.T) {
	snap, cat, zone := fixtureSnapshot()
	low := 1.0
	req := Request{
		Kind:              KindStandard,
		Length:            3,
		Width:             4,
		CatalogID:         &cat.ID,
		ZoneID:            &zone.ID,
		UnitPriceOverride: &low,
	}
	_, err := Evaluate(req, snap)
	if !errors.Is(err, ErrBelowMinimumPrice) {
		t.Fatalf("expected ErrBelowMinimumPrice, got %v", err)
	}
	var fe *FloorError
	if !errors.As(err, &fe) || fe.Minimum <= 0 {
		t.Fatalf("expected computed floor in the error, got %v", err)
	}
}

func TestEvaluateOverrideAtomicFloorAccepted(t *testing.T) {
	snap, cat, zone := fixtureSnapshot()
	probe := Request{Kind: KindStandard, Length: 3, Width: 4, CatalogID: &cat.ID, ZoneID: &zone.ID}
	base, err := Evaluate(probe, snap)
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	exact := float64(base.MinimumUnitPrice)
	probe.UnitPriceOverride = &exact
	res, err := Evaluate(probe, snap)
	if err != nil {
		t.Fatalf("price exactly at the floor must pass: %v", err)
	}
	if res.UnitPriceCharged != exact {
		t.Fatalf("expected override charged, got %v", res.UnitPriceCharged)
	}
}

func TestEvaluateZoneUnresolvedFailsLoudly(t *testing.T) {
	snap, cat, _ := fixtureSnapshot()
	ghost := uuid.New()
	req := Request{Kind: KindStandard, Length: 3, Width: 4, CatalogID: &cat.ID, ZoneID: &ghost}
	_, err := Evaluate(req, snap)
	if !errors.Is(err, ErrZoneUnresolved) {
		t.Fatalf("expected ErrZoneUnresolved, got %v", err)
	}

	req.AllowMissingZone = true
	res, err := Evaluate(req, snap)
	if err != nil {
		t.Fatalf("opt-in zoneless pricing must pass: %v", err)
	}
	if res.MarkupPercentApplied != 0 || res.FlatFeeApplied != 0 {
		t.Fatalf("expected zoneless result, got %+v", res)
	}
}

func TestEvaluateRawMaterialLine(t *testing.T) {
	hollow := Material{ID: uuid.New(), Name: "Hollow galvanis 4x4", Category: CategoryFrame, Unit: UnitBar, BasePrice: 25_000, LengthPerUnit: 6}
	snap := Snapshot{Materials: MaterialSet{hollow.ID: hollow}}
	req := Request{Kind: KindStandard, Length: 14, MaterialID: &hollow.ID}

	res, err := Evaluate(req, snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.CostBasisTotal != 450_000 {
		t.Fatalf("expected material HPP 450000, got %v", res.CostBasisTotal)
	}
	if len(res.Breakdown) != 1 || res.Breakdown[0].QuantityCharged != 18 {
		t.Fatalf("expected single audited line charged 18, got %+v", res.Breakdown)
	}
}

func TestEvaluateNegativeDimensionRejected(t *testing.T) {
	snap, cat, _ := fixtureSnapshot()
	req := Request{Kind: KindStandard, Length: -3, Width: 4, CatalogID: &cat.ID}
	if _, err := Evaluate(req, snap); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
}

func TestEvaluateNeitherReferenceRejected(t *testing.T) {
	req := Request{Kind: KindStandard, Length: 3, Width: 4}
	if _, err := Evaluate(req, Snapshot{}); !errors.Is(err, ErrUnpriceable) {
		t.Fatalf("expected ErrUnpriceable, got %v", err)
	}
}
