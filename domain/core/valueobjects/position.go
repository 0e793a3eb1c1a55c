package valueobjects

import "math"

// Position is a point in the 3D scene
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HorizontalDistance is the distance from the vertical axis through the origin
func (p Position) HorizontalDistance() float64 {
	return math.Hypot(p.X, p.Z)
}

// Azimuth is the orbit angle of the position around the vertical axis
func (p Position) Azimuth() float64 {
	return math.Atan2(p.X, p.Z)
}
