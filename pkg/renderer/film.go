package renderer

import "github.com/df07/go-progressive-raytracer/pkg/core"

// Film is the output image buffer a render pass writes into. Tiles write
// disjoint sub-rectangles of it concurrently, so Film itself holds no
// lock — the partitioning, not a mutex, is what makes concurrent writes
// safe (§5: "the image buffer is partitioned, not locked").
type Film struct {
	Width, Height int
	pixels        []core.Color
}

// NewFilm allocates a black width x height film.
func NewFilm(width, height int) *Film {
	return &Film{Width: width, Height: height, pixels: make([]core.Color, width*height)}
}

// Set writes the color at pixel (x,y). Callers must only touch pixels
// inside their own tile's bounds.
func (f *Film) Set(x, y int, c core.Color) {
	f.pixels[y*f.Width+x] = c
}

// At returns the color at pixel (x,y).
func (f *Film) At(x, y int) core.Color {
	return f.pixels[y*f.Width+x]
}

// Pixels returns the film's backing row-major pixel slice, for handoff to
// pkg/imageio.
func (f *Film) Pixels() []core.Color {
	return f.pixels
}
