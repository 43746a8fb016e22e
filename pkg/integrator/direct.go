package integrator

import (
	"github.com/df07/go-progressive-raytracer/pkg/core"
	"github.com/df07/go-progressive-raytracer/pkg/scene"
)

// Direct is the one-bounce estimator (§4.8): surface emission, one NEE
// shadow ray toward a uniformly chosen light, and one BSDF-sampled bounce
// whose emission (surface hit or background) is added without any further
// recursion.
type Direct struct{}

// NewDirect creates the one-bounce direct-lighting integrator.
func NewDirect() *Direct {
	return &Direct{}
}

// Li implements the four-step §4.8 algorithm.
func (d *Direct) Li(ray core.Ray, s *scene.Scene, sampler core.Sampler) core.Color {
	its := s.Intersect(ray, sampler)
	if !its.Valid() {
		return s.BackgroundEmission(ray.Direction)
	}

	frame := its.Frame()
	wo := frame.ToLocal(ray.Direction.Negate())

	l := its.Emission.Le(its.UV, wo)

	if its.Bsdf != nil && s.HasLights() {
		if light, pLight := s.SampleLight(sampler); light != nil {
			sample := light.SampleDirect(its.Point, sampler)
			if sample.Valid() {
				wi := frame.ToLocal(sample.Wi)
				eval := its.Bsdf.Evaluate(its.UV, wo, wi)
				if eval.Valid() {
					shadowRay := core.NewRay(its.Point, sample.Wi)
					tr := s.Transmittance(shadowRay, sample.Distance, sampler)
					if tr > 0 {
						contribution := eval.Value.MultiplyVec(sample.Weight).Multiply(tr / pLight)
						l = l.Add(contribution)
					}
				}
			}
		}
	}

	if its.Bsdf != nil {
		bs := its.Bsdf.Sample(its.UV, wo, sampler)
		if bs.Valid() {
			bounceDir := frame.ToWorld(bs.Wi)
			bounceRay := core.NewRay(its.Point, bounceDir)
			bounceIts := s.Intersect(bounceRay, sampler)

			var bounceEmission core.Color
			if bounceIts.Valid() {
				bounceFrame := bounceIts.Frame()
				bounceWo := bounceFrame.ToLocal(bounceRay.Direction.Negate())
				bounceEmission = bounceIts.Emission.Le(bounceIts.UV, bounceWo)
			} else {
				bounceEmission = s.BackgroundEmission(bounceRay.Direction)
			}
			l = l.Add(bs.Weight.MultiplyVec(bounceEmission))
		}
	}

	return l
}
