package core

import "math"

// Color is an RGB triple. The renderer reuses Vec3 for colors exactly the
// way the teacher repo does, rather than introducing a parallel type with
// identical arithmetic.
type Color = Vec3

// NewColor creates a new Color.
func NewColor(r, g, b float64) Color {
	return Color{X: r, Y: g, Z: b}
}

// Gray returns a color with equal components.
func Gray(v float64) Color {
	return Color{X: v, Y: v, Z: v}
}

// Black is the zero color, also used as the invalid-sample sentinel.
var Black = Color{}

// Mean returns the arithmetic mean of the three channels.
func (v Color) Mean() float64 {
	return (v.X + v.Y + v.Z) / 3
}

// Luminance returns the perceptual luminance of an RGB color using the
// standard Rec. 601 weights.
func (v Color) Luminance() float64 {
	return 0.299*v.X + 0.587*v.Y + 0.114*v.Z
}

// GammaCorrect raises each channel to 1/gamma, the display-referred
// tonemap the teacher applies before quantizing a linear radiance value
// down to 8-bit PNG output.
func (v Color) GammaCorrect(gamma float64) Color {
	invGamma := 1.0 / gamma
	return Color{
		X: math.Pow(math.Max(v.X, 0), invGamma),
		Y: math.Pow(math.Max(v.Y, 0), invGamma),
		Z: math.Pow(math.Max(v.Z, 0), invGamma),
	}
}

// IsInvalid reports whether this color is the Black sentinel used to signal
// an invalid BSDF/light sample (see §7 of the design: invalid samples are
// expected, per-path outcomes, not errors).
func (v Color) IsInvalid() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}
