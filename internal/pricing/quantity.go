package pricing

import "math"

// Standard laser-cut sheet stock dimensions in meters.
const (
	SheetWidthM  = 1.22
	SheetLengthM = 2.44
	// SheetAreaM2 is the usable area of one standard sheet.
	SheetAreaM2 = SheetWidthM * SheetLengthM
)

// WasteCeiling rounds a needed quantity up to the next whole multiple of the
// material's stock length so the customer is billed for whole units of stock.
// A stock length of zero or one marks a discrete item and returns needed
// unchanged. The ceiling is strict: ceil(14/6)=3 even when the remainder is
// tiny, so the seller never under-bills for consumed stock.
func WasteCeiling(needed, stockLength float64) (float64, error) {
	if math.IsNaN(needed) || needed < 0 {
		return 0, ErrInvalidQuantity
	}
	if stockLength <= 0 || stockLength == 1 {
		return needed, nil
	}
	if needed == 0 {
		return 0, nil
	}
	return math.Ceil(needed/stockLength) * stockLength, nil
}

// SheetYield converts a needed area into whole sheets of standard stock plus
// the leftover area. Any positive remainder rounds up to at least one sheet;
// only an exactly-zero area yields zero sheets. The waste is reported in area
// units because sheet counts and leftover area are not comparable downstream.
func SheetYield(areaNeeded float64) (sheets, wasteArea float64, err error) {
	if math.IsNaN(areaNeeded) || areaNeeded < 0 {
		return 0, 0, ErrInvalidQuantity
	}
	if areaNeeded == 0 {
		return 0, 0, nil
	}
	sheets = math.Ceil(areaNeeded / SheetAreaM2)
	wasteArea = sheets*SheetAreaM2 - areaNeeded
	return sheets, wasteArea, nil
}
