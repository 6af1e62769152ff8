package pricing

// LineCost is the outcome of charging one material for a needed quantity.
type LineCost struct {
	QuantityCharged float64
	Subtotal        float64
	// Waste is expressed in stock units for bar/sheet materials and in area
	// units for laser-cut sheets.
	Waste float64
}

// ResolveMaterialCost turns one (material, quantity needed) pair into a
// charged quantity and subtotal. For laser-cut sheets the needed quantity is
// interpreted as an area and charged in whole sheets; everything else is
// charged at the waste ceiling of the material's stock length.
func ResolveMaterialCost(m Material, needed float64) (LineCost, error) {
	if m.LaserCutSheet {
		sheets, waste, err := SheetYield(needed)
		if err != nil {
			return LineCost{}, err
		}
		return LineCost{
			QuantityCharged: sheets,
			Subtotal:        sheets * m.BasePrice,
			Waste:           waste,
		}, nil
	}

	stock := m.LengthPerUnit
	if stock <= 0 {
		stock = 1
	}
	charged, err := WasteCeiling(needed, stock)
	if err != nil {
		return LineCost{}, err
	}
	return LineCost{
		QuantityCharged: charged,
		Subtotal:        charged * m.BasePrice,
		Waste:           charged - needed,
	}, nil
}
