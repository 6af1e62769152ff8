package pricing

import "github.com/google/uuid"

// Money represents a whole-rupiah amount. Intermediate figures stay float64;
// only guarded outputs are ceiled into Money.
type Money = int64

// Category groups materials by their role in a build.
type Category string

// Material categories.
const (
	CategoryRoof      Category = "roof"
	CategoryFrame     Category = "frame"
	CategoryFinishing Category = "finishing"
	CategoryInfill    Category = "infill"
	CategoryAccessory Category = "accessory"
	CategoryOther     Category = "other"
)

// Unit is the stock unit a material is purchased and billed in.
type Unit string

// Material units.
const (
	UnitBar         Unit = "bar"
	UnitSheet       Unit = "sheet"
	UnitLinearMeter Unit = "linear_meter"
	UnitAreaMeter   Unit = "area_meter"
	UnitPiece       Unit = "unit"
)

// Material is an immutable reference record supplied by the caller.
type Material struct {
	ID              uuid.UUID
	Name            string
	Category        Category
	Unit            Unit
	BasePrice       float64
	LengthPerUnit   float64
	LaserCutSheet   bool
	RequiresSealant bool
}

// Component is one declared ingredient of a catalog's cost recipe.
type Component struct {
	MaterialID uuid.UUID
	Quantity   float64
	Section    string
}

// BasisUnit is the dimension a catalog's price is quoted per.
type BasisUnit string

// Catalog pricing bases.
const (
	BasisArea     BasisUnit = "area"
	BasisLinear   BasisUnit = "linear"
	BasisDiscrete BasisUnit = "unit"
)

// YieldMode selects how the aggregated cost basis is normalized. The two
// regimes are deliberately impossible to conflate: YieldRaw means the total is
// already expressed per the catalog's base unit, YieldNormalized divides by
// the catalog's standard yield.
type YieldMode string

// Yield regimes.
const (
	YieldRaw        YieldMode = "raw"
	YieldNormalized YieldMode = "normalized"
)

// Slots holds the catalog's four named mandatory ingredient references. A nil
// entry means the catalog has no material in that role.
type Slots struct {
	Roof      *uuid.UUID
	Frame     *uuid.UUID
	Finishing *uuid.UUID
	Infill    *uuid.UUID
}

// Addon is an optional extra priced separately from the cost basis. Addons are
// never folded into the guarded minimum price.
type Addon struct {
	MaterialID  uuid.UUID
	Basis       BasisUnit
	QtyPerBasis float64
	Optional    bool
}

// Catalog is an immutable reference record describing a sellable product.
type Catalog struct {
	ID            uuid.UUID
	Name          string
	BasisPrice    float64
	BasisUnit     BasisUnit
	MarginPercent float64
	LaborCost     float64
	TransportCost float64
	Yield         YieldMode
	StandardYield float64
	Slots         Slots
	Components    []Component
	Addons        []Addon
}

// Zone is a location-based pricing modifier. Zones are always supplied by the
// caller, never computed.
type Zone struct {
	ID            uuid.UUID
	Name          string
	MarkupPercent float64
	FlatFee       float64
}

// MaterialSet is the read-only material lookup handed to the aggregator. It
// replaces the mutable per-request price caches of the old implementation.
type MaterialSet map[uuid.UUID]Material

// Lookup returns the material for id, reporting whether it exists.
func (s MaterialSet) Lookup(id uuid.UUID) (Material, bool) {
	m, ok := s[id]
	return m, ok
}

// Snapshot is the fully-resolved, immutable input the engine evaluates
// against. The engine never loads anything lazily below this boundary.
type Snapshot struct {
	Materials MaterialSet
	Catalog   *Catalog
	Zone      *Zone
}

// Kind discriminates standard requests from fully custom ones.
type Kind string

// Request kinds.
const (
	KindStandard Kind = "standard"
	KindCustom   Kind = "custom"
)

// Request describes a single line to be priced.
type Request struct {
	Kind       Kind
	Length     float64
	Width      float64
	UnitQty    float64
	CatalogID  *uuid.UUID
	MaterialID *uuid.UUID
	ZoneID     *uuid.UUID
	// LineIndex is the position within the owning document. Only index 0 may
	// carry the zone flat fee.
	LineIndex int
	// UnitPriceOverride replaces the published unit price when set. It is
	// rejected below the computed floor.
	UnitPriceOverride *float64
	// AllowMissingZone downgrades an unresolved zone reference to zoneless
	// pricing instead of failing.
	AllowMissingZone bool
}

// BreakdownLine is one audited contribution to the cost basis.
type BreakdownLine struct {
	Name            string  `json:"name"`
	QuantityNeeded  float64 `json:"quantity_needed"`
	QuantityCharged float64 `json:"quantity_charged"`
	Unit            Unit    `json:"unit"`
	UnitPrice       float64 `json:"unit_price"`
	Subtotal        float64 `json:"subtotal"`
	Waste           float64 `json:"waste"`
	Section         string  `json:"section,omitempty"`
}

// Suggestion is an advisory, non-priced-in recommendation.
type Suggestion struct {
	Name          string  `json:"name"`
	Quantity      float64 `json:"quantity"`
	EstimatedCost float64 `json:"estimated_cost"`
	Reason        string  `json:"reason"`
}

// Result is the engine output. It is produced fresh on every call and must be
// persisted as a snapshot by the document layer; it is never mutated in place.
type Result struct {
	Area                 float64         `json:"area"`
	Quantity             float64         `json:"quantity"`
	CostBasisTotal       float64         `json:"cost_basis_total"`
	CostBasisPerUnit     float64         `json:"cost_basis_per_unit"`
	PriceAfterMarginUnit float64         `json:"price_after_margin_per_unit"`
	MarkupPercentApplied float64         `json:"markup_percentage_applied"`
	FlatFeeApplied       float64         `json:"flat_fee_applied"`
	UnitPriceCharged     float64         `json:"unit_price_charged"`
	SellPriceTotal       Money           `json:"sell_price_total"`
	MinimumUnitPrice     Money           `json:"minimum_allowed_unit_price"`
	Breakdown            []BreakdownLine `json:"line_breakdown"`
	IsCustom             bool            `json:"is_custom"`
	Warnings             []string        `json:"warnings,omitempty"`
	Suggestions          []Suggestion    `json:"suggested_items,omitempty"`
}
