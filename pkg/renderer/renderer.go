// Package renderer implements the §5/§4.11 concurrency model: a
// TileScheduler (NewTileGrid + Renderer.Render) partitions the film into
// tiles, a WorkerPool of goroutines renders them concurrently, and each
// worker owns exactly one core.Sampler and writes only into its own
// tile's disjoint Film region.
package renderer

import (
	"fmt"
	"runtime"
	"time"

	"github.com/df07/go-progressive-raytracer/pkg/core"
	"github.com/df07/go-progressive-raytracer/pkg/integrator"
	"github.com/df07/go-progressive-raytracer/pkg/scene"
)

// RenderStats summarizes one completed render pass.
type RenderStats struct {
	Width, Height   int
	SamplesPerPixel int
	Elapsed         time.Duration
}

// Renderer drives one scene/integrator pair to a Film over a fixed number
// of samples per pixel, using a tiled worker pool.
type Renderer struct {
	Scene           *scene.Scene
	Integrator      integrator.Integrator
	Width, Height   int
	TileSize        int
	SamplesPerPixel int
	NumWorkers      int // <= 0 means runtime.NumCPU()
}

// NewRenderer creates a renderer with the teacher's long-standing default
// tile size of 64x64 pixels.
func NewRenderer(s *scene.Scene, integ integrator.Integrator, width, height, samplesPerPixel int) *Renderer {
	return &Renderer{
		Scene:           s,
		Integrator:      integ,
		Width:           width,
		Height:          height,
		TileSize:        64,
		SamplesPerPixel: samplesPerPixel,
	}
}

// Render runs the full tiled, parallel render pass and returns the
// completed film.
func (r *Renderer) Render() (*Film, RenderStats, error) {
	start := time.Now()

	numWorkers := r.NumWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	tiles := NewTileGrid(r.Width, r.Height, r.TileSize)
	film := NewFilm(r.Width, r.Height)

	pool := NewWorkerPool(numWorkers, len(tiles))
	pool.Start(func(task TileTask) error {
		return r.renderTile(task.Tile, film, task.SamplesPerPixel)
	})

	for _, tile := range tiles {
		pool.Submit(TileTask{Tile: tile, SamplesPerPixel: r.SamplesPerPixel})
	}
	pool.CloseTasks()
	go pool.Wait()

	for i := 0; i < len(tiles); i++ {
		result, ok := pool.Result()
		if !ok {
			return nil, RenderStats{}, fmt.Errorf("renderer: worker pool closed before all tiles completed")
		}
		if result.Err != nil {
			return nil, RenderStats{}, fmt.Errorf("renderer: tile %d: %w", result.TileID, result.Err)
		}
	}

	stats := RenderStats{
		Width:           r.Width,
		Height:          r.Height,
		SamplesPerPixel: r.SamplesPerPixel,
		Elapsed:         time.Since(start),
	}
	return film, stats, nil
}

// renderTile renders every pixel in tile at spp samples each, using one
// core.Sampler owned by this call for the tile's entire lifetime, and
// writes the averaged colors directly into film — safe without locking
// because tile bounds never overlap.
func (r *Renderer) renderTile(tile *Tile, film *Film, spp int) error {
	sampler := core.NewRandomSampler(tile.Random)

	for y := tile.Y0; y < tile.Y1; y++ {
		for x := tile.X0; x < tile.X1; x++ {
			var accum core.Color
			for s := 0; s < spp; s++ {
				px := float64(x) + sampler.Get1D()
				py := float64(y) + sampler.Get1D()
				ray := r.Scene.Camera.GenerateRayForPixel(px, py, r.Width, r.Height)
				accum = accum.Add(r.Integrator.Li(ray, r.Scene, sampler))
			}
			if spp > 0 {
				accum = accum.Multiply(1 / float64(spp))
			}
			film.Set(x, y, accum)
		}
	}
	return nil
}
