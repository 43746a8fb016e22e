// Package surface defines the shared hit record produced by the shape
// oracle and consumed by the instance, scene, and integrator layers. It
// depends only on core, bsdf, and light so that shape and instance can
// both produce/consume an Intersection without a package import cycle
// between them.
package surface

import (
	"github.com/df07/go-progressive-raytracer/pkg/bsdf"
	"github.com/df07/go-progressive-raytracer/pkg/core"
	"github.com/df07/go-progressive-raytracer/pkg/light"
)

// Intersection is the geometric and shading record produced by a ray query.
// T is initialized to +Infinity before a query and decreases monotonically
// as closer hits are found; a query that finds nothing leaves Hit false.
type Intersection struct {
	Hit bool

	T        float64   // distance along the ray
	Point    core.Vec3 // world-space hit position
	GeoNormal core.Vec3 // geometric normal, from the primitive
	Normal   core.Vec3 // shading normal (interpolated, or equal to GeoNormal)
	Tangent  core.Vec3 // orthonormal tangent completing the shading frame
	UV       core.Vec2

	PDF float64 // used for area sampling (sampleArea / light emission)

	// InstanceIndex is a non-owning back-reference into the owning
	// scene's instance array, never a pointer: surface must not import
	// instance or scene, or the shape<->instance package pair would cycle.
	InstanceIndex int

	Bsdf     bsdf.Bsdf
	Emission light.Emission
}

// New returns a fresh Intersection with no hit yet and T initialized to the
// maximum search distance, ready to be passed into a shape's intersect
// call.
func New() Intersection {
	return Intersection{T: core.Infinity, InstanceIndex: -1}
}

// Valid reports whether this intersection holds a real hit. Invariants
// when true: T >= core.Epsilon, Normal/GeoNormal/Tangent are unit vectors,
// and (Tangent, Tangent×Normal, Normal) is orthonormal.
func (its Intersection) Valid() bool {
	return its.Hit && its.T >= core.Epsilon
}

// Frame builds the local shading frame used by this intersection's BSDF,
// with Normal as the local z axis.
func (its Intersection) Frame() core.Frame {
	return core.Frame{S: its.Tangent, T: its.Normal.Cross(its.Tangent), N: its.Normal}
}
