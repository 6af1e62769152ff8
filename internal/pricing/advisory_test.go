package pricing

import (
	"testing"

	"github.com/google/uuid"
)

func advisoryMaterials() MaterialSet {
	frame := Material{ID: uuid.New(), Name: "Hollow galvanis 4x4", Category: CategoryFrame, Unit: UnitBar, BasePrice: 25_000, LengthPerUnit: 6}
	sealant := Material{ID: uuid.New(), Name: "Sealant netral 300ml", Category: CategoryAccessory, Unit: UnitPiece, BasePrice: 45_000}
	return MaterialSet{frame.ID: frame, sealant.ID: sealant}
}

func TestAdviseWideSpanSuggestsReinforcement(t *testing.T) {
	warnings, suggestions := Advise(Request{Width: 5}, Snapshot{Materials: advisoryMaterials()}, nil)
	if len(warnings) != 1 {
		t.Fatalf("expected one warning, got %v", warnings)
	}
	if len(suggestions) != 2 {
		t.Fatalf("expected center post and frame upgrade suggestions, got %+v", suggestions)
	}
	if suggestions[0].EstimatedCost != 25_000 {
		t.Fatalf("expected estimate from frame material price, got %v", suggestions[0].EstimatedCost)
	}
}

func TestAdviseSpanAtThresholdSilent(t *testing.T) {
	warnings, suggestions := Advise(Request{Width: 4.5}, Snapshot{Materials: advisoryMaterials()}, nil)
	if len(warnings) != 0 || len(suggestions) != 0 {
		t.Fatalf("4.5 m is still within the safe span, got %v / %+v", warnings, suggestions)
	}
}

func TestAdviseSealantFromFlag(t *testing.T) {
	cover := Material{Name: "Kaca 10mm", Category: CategoryRoof, RequiresSealant: true}
	warnings, suggestions := Advise(Request{Width: 2}, Snapshot{Materials: advisoryMaterials()}, &cover)
	if len(warnings) != 1 {
		t.Fatalf("expected sealant warning, got %v", warnings)
	}
	if len(suggestions) != 1 || suggestions[0].Quantity != 2 {
		t.Fatalf("expected two sealant tubes suggested, got %+v", suggestions)
	}
	if suggestions[0].EstimatedCost != 90_000 {
		t.Fatalf("expected estimate 2x45000, got %v", suggestions[0].EstimatedCost)
	}
}

func TestAdviseSealantNameFallback(t *testing.T) {
	cover := Material{Name: "Kaca Tempered 12mm", Category: CategoryRoof}
	warnings, _ := Advise(Request{Width: 2}, Snapshot{Materials: advisoryMaterials()}, &cover)
	if len(warnings) != 1 {
		t.Fatalf("expected name heuristic to trigger, got %v", warnings)
	}
}

func TestAdviseOrdinaryCoverSilent(t *testing.T) {
	cover := Material{Name: "Atap spandek", Category: CategoryRoof}
	warnings, suggestions := Advise(Request{Width: 3}, Snapshot{Materials: advisoryMaterials()}, &cover)
	if len(warnings) != 0 || len(suggestions) != 0 {
		t.Fatalf("expected no advisories, got %v / %+v", warnings, suggestions)
	}
}
