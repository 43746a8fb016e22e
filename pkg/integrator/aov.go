package integrator

import (
	"github.com/df07/go-progressive-raytracer/pkg/core"
	"github.com/df07/go-progressive-raytracer/pkg/scene"
)

// AOVVariable selects what AOV visualizes; it carries no light transport.
type AOVVariable int

const (
	// AOVNormals remaps the shading normal from [-1,1]³ to [0,1]³.
	AOVNormals AOVVariable = iota
	// AOVBVH visualizes the BVH traversal count, divided by bvhCountScale.
	AOVBVH
)

// bvhCountScale normalizes the raw per-ray traversal count into roughly
// [0,1] for display; tuned for scenes with a few hundred instances, not a
// physically meaningful constant.
const bvhCountScale = 32.0

// AOV is a debug integrator: no light transport, just a direct
// visualization of an intermediate quantity.
type AOV struct {
	Variable AOVVariable
}

// NewAOV creates a debug AOV integrator for the given variable.
func NewAOV(variable AOVVariable) *AOV {
	return &AOV{Variable: variable}
}

// Li computes the selected debug variable for one primary ray.
func (a *AOV) Li(ray core.Ray, s *scene.Scene, sampler core.Sampler) core.Color {
	switch a.Variable {
	case AOVBVH:
		count := float64(s.TraversalCount(ray))
		return core.Gray(count / bvhCountScale)

	default: // AOVNormals
		its := s.Intersect(ray, sampler)
		if !its.Valid() {
			return core.Black
		}
		n := its.Normal
		return core.NewColor((n.X+1)*0.5, (n.Y+1)*0.5, (n.Z+1)*0.5)
	}
}
