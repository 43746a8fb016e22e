package renderer

import "math/rand"

// Tile is a rectangular pixel region assigned to exactly one worker for
// the duration of a render pass (§4.11's Tile glossary entry). Its Random
// generator is seeded deterministically from the tile ID, the same trick
// the teacher's NewTile uses so reruns of the same scene at the same tile
// size reproduce identical noise.
type Tile struct {
	ID                 int
	X0, Y0, X1, Y1 int // pixel bounds, half-open: [X0,X1) x [Y0,Y1)
	Random             *rand.Rand
}

// NewTile creates a tile with a tile-ID-derived deterministic RNG seeded
// with id+42.
func NewTile(id, x0, y0, x1, y1 int) *Tile {
	return &Tile{
		ID: id, X0: x0, Y0: y0, X1: x1, Y1: y1,
		Random: rand.New(rand.NewSource(int64(id + 42))),
	}
}

// NewTileGrid partitions a width x height image into tileSize x tileSize
// tiles (the last row/column may be smaller), in row-major order.
func NewTileGrid(width, height, tileSize int) []*Tile {
	var tiles []*Tile
	id := 0
	for y0 := 0; y0 < height; y0 += tileSize {
		for x0 := 0; x0 < width; x0 += tileSize {
			x1 := min(x0+tileSize, width)
			y1 := min(y0+tileSize, height)
			tiles = append(tiles, NewTile(id, x0, y0, x1, y1))
			id++
		}
	}
	return tiles
}
