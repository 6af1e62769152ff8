package pricing

import "math"

// PriceStack is the outcome of applying margin and zone modifiers to a
// per-unit cost basis.
type PriceStack struct {
	PriceAfterMargin float64
	MarkupPercent    float64
	FlatFeeApplied   float64
	MinimumUnitPrice Money
}

// ApplyPricing applies margin, then zone markup percentage, then the zone flat
// fee. The order is fixed. The flat fee attaches only to the first line of a
// document and is normalized per unit across the line's quantity; the minimum
// unit price is the ceiling of the margin price plus the nominal markup, so
// the seller is never worse off than the computed floor.
func ApplyPricing(perUnitCost, marginPercent float64, zone *Zone, quantity float64, firstLine bool) PriceStack {
	s := PriceStack{
		PriceAfterMargin: perUnitCost * (1 + marginPercent/100),
	}
	var markup float64
	if zone != nil {
		s.MarkupPercent = zone.MarkupPercent
		markup = s.PriceAfterMargin * (zone.MarkupPercent / 100)
		if firstLine && zone.FlatFee > 0 {
			s.FlatFeeApplied = zone.FlatFee
			markup += zone.FlatFee / math.Max(quantity, 1)
		}
	}
	s.MinimumUnitPrice = Money(math.Ceil(s.PriceAfterMargin + markup))
	return s
}

// GuardUnitPrice validates an operator-chosen unit price against the floor and
// returns the ceiled sell total. A price even one rupiah below the floor is
// rejected with the computed floor attached; exactly at the floor passes.
func GuardUnitPrice(chosen float64, minimum Money, quantity float64) (Money, error) {
	if math.IsNaN(chosen) || chosen < 0 {
		return 0, ErrInvalidQuantity
	}
	if chosen < float64(minimum) {
		return 0, &FloorError{Offered: chosen, Minimum: minimum}
	}
	return Money(math.Ceil(chosen * quantity)), nil
}

// CalculateCatalogPrice computes the published price for the requested
// dimensions. An explicit quantity override wins; otherwise area basis charges
// length × width, linear basis charges length, and discrete basis charges a
// single unit.
func CalculateCatalogPrice(basisPrice float64, basis BasisUnit, length, width float64, quantityOverride *float64) float64 {
	if quantityOverride != nil {
		return basisPrice * *quantityOverride
	}
	switch basis {
	case BasisArea:
		return basisPrice * length * width
	case BasisLinear:
		return basisPrice * length
	default:
		return basisPrice
	}
}

// ApplyZoneMarkup is the single-pass variant used for quick previews where no
// per-unit minimum guard is needed.
func ApplyZoneMarkup(basePrice, markupPercent, flatFee float64) float64 {
	return basePrice*(1+markupPercent/100) + flatFee
}
