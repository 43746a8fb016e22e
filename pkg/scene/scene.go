// Package scene aggregates instances and lights into the top-level object
// an integrator traces against (C6): nearest-hit intersection over every
// instance's own alpha/transform handling, a product-of-transmittances
// shadow query for NEE, and uniform light selection for next-event
// estimation.
package scene

import (
	"math"

	"github.com/df07/go-progressive-raytracer/pkg/camera"
	"github.com/df07/go-progressive-raytracer/pkg/core"
	"github.com/df07/go-progressive-raytracer/pkg/instance"
	"github.com/df07/go-progressive-raytracer/pkg/light"
	"github.com/df07/go-progressive-raytracer/pkg/logging"
	"github.com/df07/go-progressive-raytracer/pkg/surface"
)

var log = logging.New("scene")

// Scene is an immutable aggregate of instances and lights, with a BVH over
// instance bounds for ray traversal. Background holds the environment map
// that misses fall back to; it is deliberately excluded from Lights, since
// §4.6 has it contribute only to missed rays, never to NEE's light pick.
type Scene struct {
	Instances  []*instance.Instance
	Lights     []light.Light
	Background *light.EnvironmentLight // nil means a black background
	Camera     *camera.Camera

	bvh *core.BVH
}

// New builds a scene from its instances, NEE-sampleable lights (point,
// directional, and any area lights wrapping emissive instances), an
// optional background environment, and the camera. Every emissive
// instance should already have a corresponding areaLight appended to
// lights by the caller (see Build), so New itself does no inference.
func New(instances []*instance.Instance, lights []light.Light, background *light.EnvironmentLight, cam *camera.Camera) *Scene {
	bounds := make([]core.AABB, len(instances))
	for i, inst := range instances {
		bounds[i] = inst.BoundingBox()
	}
	return &Scene{
		Instances:  instances,
		Lights:     lights,
		Background: background,
		Camera:     cam,
		bvh:        core.NewBVH(bounds),
	}
}

// Intersect finds the nearest hit along ray among every instance, honoring
// each instance's own alpha-rejection loop, and stamps the winning
// instance's index into the result — the one place in the module that
// knows the mapping from a hit back to "which instance", since surface
// and instance both stay ignorant of scene-level indexing (§4.0 layering).
func (s *Scene) Intersect(ray core.Ray, sampler core.Sampler) surface.Intersection {
	its := surface.New()
	hitIdx := -1

	s.bvh.Intersect(ray, core.Epsilon, its.T, func(i int, tMax float64) (float64, bool) {
		its.T = tMax
		if s.Instances[i].Intersect(ray, &its, sampler) {
			hitIdx = i
			return its.T, true
		}
		return tMax, false
	})

	if !its.Valid() {
		return its
	}
	its.InstanceIndex = hitIdx

	if !validHit(its) {
		log.Errorf("discarding malformed intersection: instance=%d t=%v normal=%v", hitIdx, its.T, its.Normal)
		return surface.New()
	}
	return its
}

// validHit rejects an intersection with a non-finite distance or a
// degenerate shading normal — a malformed hit from a shape/mesh bug should
// never propagate into shading and corrupt a pixel (§7 kind 2).
func validHit(its surface.Intersection) bool {
	if math.IsNaN(its.T) || math.IsInf(its.T, 0) || its.T < core.Epsilon {
		return false
	}
	lenSq := its.Normal.LengthSquared()
	return lenSq > 0.5 && lenSq < 2.0
}

// Transmittance returns the product, over every instance whose bounds the
// segment [0,tMax] along ray could reach, of that instance's own
// Transmittance — 1 for a fully unoccluded shadow ray, 0 as soon as any
// instance opaquely blocks it, and something in between once a
// participating-medium volume or alpha mask is involved.
func (s *Scene) Transmittance(ray core.Ray, tMax float64, sampler core.Sampler) float64 {
	t := 1.0
	s.bvh.AllHits(ray, core.Epsilon, tMax, func(i int) {
		if t <= 0 {
			return
		}
		t *= s.Instances[i].Transmittance(ray, tMax, sampler)
	})
	return t
}

// TraversalCount counts how many instance bounds the ray's leaf traversal
// actually visits, for the "bvh" debug AOV (§4.8) — a proxy for BVH
// traversal cost, not a precise node-visit counter.
func (s *Scene) TraversalCount(ray core.Ray) int {
	count := 0
	s.bvh.AllHits(ray, core.Epsilon, core.Infinity, func(int) { count++ })
	return count
}

// BackgroundEmission evaluates the environment map (if any) in the
// direction a ray travels after it misses every instance.
func (s *Scene) BackgroundEmission(direction core.Vec3) core.Color {
	if s.Background == nil {
		return core.Black
	}
	return s.Background.Emit(direction)
}

// HasLights reports whether NEE has anything to sample.
func (s *Scene) HasLights() bool {
	return len(s.Lights) > 0
}

// SampleLight picks uniformly among the scene's NEE-eligible lights,
// returning the chosen light and the uniform selection probability 1/N, or
// (nil, 0) if the scene has none (§4.6).
func (s *Scene) SampleLight(sampler core.Sampler) (light.Light, float64) {
	n := len(s.Lights)
	if n == 0 {
		return nil, 0
	}
	idx := int(sampler.Get1D() * float64(n))
	if idx >= n {
		idx = n - 1
	}
	return s.Lights[idx], 1.0 / float64(n)
}

// areaLight adapts an emissive Instance into a Light usable by NEE: it
// samples a point on the instance's world-space surface and converts the
// shape's area pdf to a solid-angle pdf via the standard dω = dA·cosθ/r²
// Jacobian, the same conversion a BSDF-sampled ray's pdf would need to be
// compared against if MIS were in scope (it is not, per §4.8).
type areaLight struct {
	inst *instance.Instance
}

func newAreaLight(inst *instance.Instance) *areaLight {
	return &areaLight{inst: inst}
}

// SampleDirect draws a point on the instance's surface and evaluates its
// emission toward point, folding the area-to-solid-angle Jacobian and the
// shape's area pdf into weight.
func (a *areaLight) SampleDirect(point core.Vec3, sampler core.Sampler) light.DirectLightSample {
	s := a.inst.SampleArea(sampler)
	if s.PDF <= 0 {
		return light.DirectLightSample{}
	}

	toLight := s.Point.Subtract(point)
	distSq := toLight.LengthSquared()
	if distSq < core.Epsilon*core.Epsilon {
		return light.DirectLightSample{}
	}
	distance := math.Sqrt(distSq)
	wi := toLight.Multiply(1 / distance)

	cosLight := s.Normal.Dot(wi.Negate())
	if cosLight <= 0 {
		return light.DirectLightSample{}
	}

	frame := core.NewFrame(s.Normal)
	woLocal := frame.ToLocal(wi.Negate())
	le := a.inst.Emission.Le(core.Vec2{}, woLocal)
	if le.IsInvalid() {
		return light.DirectLightSample{}
	}

	pdfSolidAngle := s.PDF * distSq / cosLight
	weight := le.Multiply(1 / pdfSolidAngle)
	return light.DirectLightSample{Wi: wi, Weight: weight, Distance: distance}
}

// CanBeIntersected is true: a BSDF-sampled bounce ray that happens to land
// on the emissive instance discovers its emission directly through
// Intersection.Emission, independent of this Light wrapper.
func (a *areaLight) CanBeIntersected() bool { return true }
