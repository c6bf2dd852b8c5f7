package paper

// Unit conversions to points, the document model's native unit.
const (
	UnitPt = 1.0
	UnitMM = 72.0 / 25.4
	UnitCM = 72.0 / 2.54
	UnitIn = 72.0
)

// Pt converts a value in the given unit (one of UnitPt/UnitMM/UnitCM/UnitIn)
// to points.
func Pt(value float64, unit float64) float64 {
	return value * unit
}
