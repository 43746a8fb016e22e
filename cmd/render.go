package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli"

	"github.com/df07/go-progressive-raytracer/pkg/imageio"
	"github.com/df07/go-progressive-raytracer/pkg/integrator"
	"github.com/df07/go-progressive-raytracer/pkg/renderer"
	"github.com/df07/go-progressive-raytracer/pkg/scene"
)

// Render renders the built-in demo scene to an EXR and a tonemapped PNG.
func Render(ctx *cli.Context) error {
	setupLogging(ctx)

	width := ctx.Int("width")
	height := ctx.Int("height")
	spp := ctx.Int("spp")
	out := ctx.String("out")

	if width <= 0 || height <= 0 {
		return errors.New("render: width and height must be positive")
	}

	integ, err := resolveIntegrator(ctx)
	if err != nil {
		return err
	}

	desc := scene.Demo(width, height)
	built, err := scene.Build(desc)
	if err != nil {
		return fmt.Errorf("render: building scene: %w", err)
	}

	r := renderer.NewRenderer(built, integ, width, height, spp)
	if n := ctx.Int("workers"); n > 0 {
		r.NumWorkers = n
	}

	logger.Noticef("rendering %dx%d at %d spp with %s", width, height, spp, ctx.String("integrator"))
	start := time.Now()
	film, stats, err := r.Render()
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	logger.Noticef("rendered %d samples/pixel in %s", stats.SamplesPerPixel, time.Since(start))

	exrPath := out + ".exr"
	pngPath := out + ".png"

	attrs := map[string]string{
		"integrator":      ctx.String("integrator"),
		"samplesPerPixel": fmt.Sprintf("%d", stats.SamplesPerPixel),
	}
	if err := imageio.WriteEXR(exrPath, width, height, film.Pixels(), attrs); err != nil {
		return fmt.Errorf("render: writing EXR: %w", err)
	}
	logger.Noticef("wrote %s", exrPath)

	if err := imageio.WritePNG(pngPath, width, height, film.Pixels()); err != nil {
		return fmt.Errorf("render: writing PNG: %w", err)
	}
	logger.Noticef("wrote %s", pngPath)

	return nil
}

// resolveIntegrator maps the --integrator flag to a concrete integrator.Integrator.
func resolveIntegrator(ctx *cli.Context) (integrator.Integrator, error) {
	switch name := strings.ToLower(ctx.String("integrator")); name {
	case "path":
		return integrator.NewPathTracer(ctx.Int("depth"), !ctx.Bool("no-nee")), nil
	case "direct":
		return integrator.NewDirect(), nil
	case "normals":
		return integrator.NewAOV(integrator.AOVNormals), nil
	case "bvh":
		return integrator.NewAOV(integrator.AOVBVH), nil
	default:
		return nil, fmt.Errorf("render: unknown integrator %q (want path, direct, normals, or bvh)", name)
	}
}
