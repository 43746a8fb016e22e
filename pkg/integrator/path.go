package integrator

import (
	"github.com/df07/go-progressive-raytracer/pkg/core"
	"github.com/df07/go-progressive-raytracer/pkg/scene"
	"github.com/df07/go-progressive-raytracer/pkg/surface"
)

// PathTracer is the main unbiased next-event-estimation path tracer
// (§4.8): accumulates radiance along a bounce chain up to maxDepth
// segments, optionally sampling a light directly at every bounce. There
// is no MIS between the NEE and BSDF-sampled contributions — a known
// variance cost on glossy surfaces lit by area lights, accepted as a
// deliberate simplification.
type PathTracer struct {
	MaxDepth int  // maximum number of bounce segments, >= 1
	NEE      bool // enable next-event estimation at every bounce
}

// NewPathTracer creates a path tracer with the given bounce budget and NEE
// toggle.
func NewPathTracer(maxDepth int, nee bool) *PathTracer {
	return &PathTracer{MaxDepth: maxDepth, NEE: nee}
}

// Li runs the path-tracing loop described in §4.8.
func (p *PathTracer) Li(ray core.Ray, s *scene.Scene, sampler core.Sampler) core.Color {
	l := core.Black
	throughput := core.Gray(1)
	current := ray

	neeActive := p.NEE && s.HasLights()

	for bounce := 0; bounce < p.MaxDepth; bounce++ {
		its := s.Intersect(current, sampler)
		if !its.Valid() {
			l = l.Add(throughput.MultiplyVec(s.BackgroundEmission(current.Direction)))
			break
		}

		frame := its.Frame()
		wo := frame.ToLocal(current.Direction.Negate())

		l = l.Add(throughput.MultiplyVec(its.Emission.Le(its.UV, wo)))

		if bounce == p.MaxDepth-1 {
			break
		}

		if its.Bsdf == nil {
			break
		}

		if neeActive {
			l = l.Add(throughput.MultiplyVec(p.sampleDirect(its, frame, wo, s, sampler)))
		}

		bs := its.Bsdf.Sample(its.UV, wo, sampler)
		if !bs.Valid() {
			break
		}

		throughput = throughput.MultiplyVec(bs.Weight)
		direction := frame.ToWorld(bs.Wi)
		current = core.NewRay(its.Point, direction)
	}

	return l
}

// sampleDirect evaluates one NEE shadow ray against a uniformly chosen
// light, returning the unweighted-by-throughput contribution for this
// bounce (step 4 of §4.8's path-tracer loop).
func (p *PathTracer) sampleDirect(its surface.Intersection, frame core.Frame, wo core.Vec3, s *scene.Scene, sampler core.Sampler) core.Color {
	light, pLight := s.SampleLight(sampler)
	if light == nil {
		return core.Black
	}

	sample := light.SampleDirect(its.Point, sampler)
	if !sample.Valid() {
		return core.Black
	}

	wi := frame.ToLocal(sample.Wi)
	eval := its.Bsdf.Evaluate(its.UV, wo, wi)
	if !eval.Valid() {
		return core.Black
	}

	shadowRay := core.NewRay(its.Point, sample.Wi)
	tr := s.Transmittance(shadowRay, sample.Distance, sampler)
	if tr <= 0 {
		return core.Black
	}

	return eval.Value.MultiplyVec(sample.Weight).Multiply(tr / pLight)
}
