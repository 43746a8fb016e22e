// Package texture evaluates spatially-varying color and scalar signals
// (albedo, roughness, metallic, alpha) at a surface's texture coordinates.
package texture

import (
	"math"

	"github.com/df07/go-progressive-raytracer/pkg/core"
)

// Texture provides spatially-varying values sampled at a UV coordinate.
// Evaluate returns a color; Scalar returns a single channel in [0,1], used
// for roughness/metallic/alpha maps that only need one number.
type Texture interface {
	Evaluate(uv core.Vec2) core.Color
	Scalar(uv core.Vec2) float64
}

// Constant returns the same color everywhere.
type Constant struct {
	Color core.Color
}

// NewConstant creates a constant texture.
func NewConstant(color core.Color) *Constant {
	return &Constant{Color: color}
}

// NewConstantScalar creates a constant texture from a gray value, for
// roughness/metallic/alpha inputs that are specified as a single number.
func NewConstantScalar(v float64) *Constant {
	return &Constant{Color: core.Gray(v)}
}

// Evaluate returns the stored color regardless of uv.
func (c *Constant) Evaluate(uv core.Vec2) core.Color { return c.Color }

// Scalar returns the mean of the stored color's channels.
func (c *Constant) Scalar(uv core.Vec2) float64 { return c.Color.Mean() }

// Checkerboard alternates between two colors on a (sx, sy)-scaled grid.
type Checkerboard struct {
	Color0, Color1 core.Color
	ScaleU, ScaleV float64
}

// NewCheckerboard creates a checkerboard texture with the given tile scale.
func NewCheckerboard(color0, color1 core.Color, scaleU, scaleV float64) *Checkerboard {
	return &Checkerboard{Color0: color0, Color1: color1, ScaleU: scaleU, ScaleV: scaleV}
}

func (c *Checkerboard) cellColor(uv core.Vec2) core.Color {
	gx := int(math.Floor(uv.X * c.ScaleU))
	gy := int(math.Floor(uv.Y * c.ScaleV))
	if (gx+gy)%2 == 0 {
		return c.Color0
	}
	return c.Color1
}

// Evaluate returns color0 or color1 depending on which grid cell uv falls in.
func (c *Checkerboard) Evaluate(uv core.Vec2) core.Color {
	return c.cellColor(uv)
}

// Scalar returns the mean of whichever cell color uv falls in.
func (c *Checkerboard) Scalar(uv core.Vec2) float64 {
	return c.cellColor(uv).Mean()
}

// BorderMode controls how out-of-range texel indices are resolved.
type BorderMode int

const (
	BorderClamp BorderMode = iota
	BorderRepeat
)

// FilterMode selects the reconstruction filter used when sampling an Image.
type FilterMode int

const (
	FilterNearest FilterMode = iota
	FilterBilinear
)

// Image samples color (and optionally alpha) from a 2D pixel buffer, with a
// choice of nearest/bilinear filtering and clamp/repeat border handling, per
// the exposure-scaled equirectangular/albedo texture contract (§4.9).
type Image struct {
	Width, Height int
	Pixels        []core.Color // row-major, Pixels[y*Width+x]
	Alpha         []float64    // optional; nil means fully opaque
	Border        BorderMode
	Filter        FilterMode
	Exposure      float64
}

// NewImage creates an image texture. Exposure defaults to 1 when zero is
// passed, so callers that don't care about exposure can omit it.
func NewImage(width, height int, pixels []core.Color, alpha []float64, border BorderMode, filter FilterMode, exposure float64) *Image {
	if exposure == 0 {
		exposure = 1
	}
	return &Image{
		Width: width, Height: height,
		Pixels: pixels, Alpha: alpha,
		Border: border, Filter: filter,
		Exposure: exposure,
	}
}

func (img *Image) resolveIndex(i, n int) (int, bool) {
	switch img.Border {
	case BorderRepeat:
		i = ((i % n) + n) % n
		return i, true
	default: // BorderClamp
		if i < 0 {
			i = 0
		}
		if i >= n {
			i = n - 1
		}
		return i, true
	}
}

func (img *Image) texel(x, y int) core.Color {
	xi, ok := img.resolveIndex(x, img.Width)
	if !ok {
		return core.Black
	}
	yi, ok := img.resolveIndex(y, img.Height)
	if !ok {
		return core.Black
	}
	return img.Pixels[yi*img.Width+xi]
}

func (img *Image) texelAlpha(x, y int) float64 {
	if img.Alpha == nil {
		return 1
	}
	xi, _ := img.resolveIndex(x, img.Width)
	yi, _ := img.resolveIndex(y, img.Height)
	return img.Alpha[yi*img.Width+xi]
}

// pixelCoords converts a uv coordinate to continuous pixel space, flipping v
// so that v=0 is the bottom of the image (the source image row 0 is its
// top).
func (img *Image) pixelCoords(uv core.Vec2) (float64, float64) {
	px := uv.X*float64(img.Width) - 0.5
	py := (1-uv.Y)*float64(img.Height) - 0.5
	return px, py
}

// Evaluate samples the color channel at uv, applying the configured filter
// and border mode, then the exposure multiplier.
func (img *Image) Evaluate(uv core.Vec2) core.Color {
	return img.sampleColor(uv).Multiply(img.Exposure)
}

// Scalar samples the alpha channel at uv, bilinearly interpolated and
// clamped to [0,1].
func (img *Image) Scalar(uv core.Vec2) float64 {
	px, py := img.pixelCoords(uv)

	var v float64
	if img.Filter == FilterNearest {
		x := int(math.Round(px))
		y := int(math.Round(py))
		v = img.texelAlpha(x, y)
	} else {
		x0 := int(math.Floor(px))
		y0 := int(math.Floor(py))
		fx := px - float64(x0)
		fy := py - float64(y0)

		a00 := img.texelAlpha(x0, y0)
		a10 := img.texelAlpha(x0+1, y0)
		a01 := img.texelAlpha(x0, y0+1)
		a11 := img.texelAlpha(x0+1, y0+1)

		top := a00*(1-fx) + a10*fx
		bottom := a01*(1-fx) + a11*fx
		v = top*(1-fy) + bottom*fy
	}

	return math.Max(0, math.Min(1, v))
}

func (img *Image) sampleColor(uv core.Vec2) core.Color {
	px, py := img.pixelCoords(uv)

	if img.Filter == FilterNearest {
		x := int(math.Round(px))
		y := int(math.Round(py))
		return img.texel(x, y)
	}

	x0 := int(math.Floor(px))
	y0 := int(math.Floor(py))
	fx := px - float64(x0)
	fy := py - float64(y0)

	c00 := img.texel(x0, y0)
	c10 := img.texel(x0+1, y0)
	c01 := img.texel(x0, y0+1)
	c11 := img.texel(x0+1, y0+1)

	top := c00.Multiply(1 - fx).Add(c10.Multiply(fx))
	bottom := c01.Multiply(1 - fx).Add(c11.Multiply(fx))
	return top.Multiply(1 - fy).Add(bottom.Multiply(fy))
}
