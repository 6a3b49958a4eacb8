package enums

import "fmt"

// ProductUnit is the unit of measure a product is counted in.
type ProductUnit string

const (
	ProductUnitPiece ProductUnit = "piece"
	ProductUnitBox   ProductUnit = "box"
	ProductUnitKg    ProductUnit = "kg"
	ProductUnitLiter ProductUnit = "liter"
	ProductUnitMeter ProductUnit = "meter"
)

var validProductUnits = []ProductUnit{
	ProductUnitPiece,
	ProductUnitBox,
	ProductUnitKg,
	ProductUnitLiter,
	ProductUnitMeter,
}

// IsValid reports whether the value is a canonical product unit.
func (u ProductUnit) IsValid() bool {
	for _, candidate := range validProductUnits {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseProductUnit converts raw input into ProductUnit.
func ParseProductUnit(value string) (ProductUnit, error) {
	for _, candidate := range validProductUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product unit %q", value)
}
