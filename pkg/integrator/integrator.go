// Package integrator implements the C8 light-transport estimators: a
// debug AOV visualizer, a one-bounce direct-lighting estimator, and the
// main unbiased next-event-estimation path tracer.
package integrator

import (
	"github.com/df07/go-progressive-raytracer/pkg/core"
	"github.com/df07/go-progressive-raytracer/pkg/scene"
)

// Integrator consumes a primary ray and a per-pixel sampler and returns a
// Color estimate of incident radiance along that ray.
type Integrator interface {
	Li(ray core.Ray, s *scene.Scene, sampler core.Sampler) core.Color
}
