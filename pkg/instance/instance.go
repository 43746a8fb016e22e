// Package instance wraps a Shape with an optional world transform, a
// material, an emission term, and an optional stochastic alpha mask (C5).
// It is the only layer that knows about both the Shape oracle and the
// Bsdf/Emission handles a Scene attaches to a hit.
package instance

import (
	"github.com/df07/go-progressive-raytracer/pkg/bsdf"
	"github.com/df07/go-progressive-raytracer/pkg/core"
	"github.com/df07/go-progressive-raytracer/pkg/light"
	"github.com/df07/go-progressive-raytracer/pkg/shape"
	"github.com/df07/go-progressive-raytracer/pkg/surface"
	"github.com/df07/go-progressive-raytracer/pkg/texture"
)

// maxAlphaRejections bounds the alpha-rejection continuation loop so a
// pathological alpha mask (e.g. one that is never fully opaque) cannot
// diverge into unbounded recursion; see §4.5.
const maxAlphaRejections = 256

// Instance is an immutable, shareable placement of a Shape in the scene:
// the shape's own geometry stays in local space, Transform places it in
// world space, and Bsdf/Emission/Alpha attach its shading behavior.
type Instance struct {
	Shape     shape.Shape
	Transform *core.Transform // nil means identity (no local/world distinction)
	Bsdf      bsdf.Bsdf
	Emission  light.Emission
	Alpha     texture.Texture // nil means fully opaque
}

// New creates an instance. transform may be nil for an un-transformed
// shape; alpha may be nil for an opaque surface.
func New(s shape.Shape, transform *core.Transform, material bsdf.Bsdf, emission light.Emission, alpha texture.Texture) *Instance {
	return &Instance{Shape: s, Transform: transform, Bsdf: material, Emission: emission, Alpha: alpha}
}

// toLocal converts a world ray into the instance's local space, returning
// the scale factor applied to the (renormalized) direction so callers can
// convert a local distance budget back to world units.
func (inst *Instance) toLocal(worldRay core.Ray) (core.Ray, float64) {
	if inst.Transform == nil {
		return worldRay, 1
	}
	local := inst.Transform.Inverse().Ray(worldRay)
	scale := local.Direction.Length()
	local.Direction = local.Direction.Multiply(1 / scale)
	return local, scale
}

// Intersect implements the §4.5 alpha-rejection loop: it repeatedly asks
// the shape for the next hit along the (possibly transformed) ray,
// stochastically accepts or rejects it based on the alpha texture, and on
// rejection advances the ray origin past the rejected surface and tries
// again, up to maxAlphaRejections times. A miss or rejection-exhaustion
// leaves its exactly as it was on entry (the snapshot discipline §4.5
// calls out as a BVH traversal invariant).
func (inst *Instance) Intersect(worldRay core.Ray, its *surface.Intersection, sampler core.Sampler) bool {
	snapshot := *its
	tMaxWorld := its.T

	localRay, dirScale := inst.toLocal(worldRay)
	remaining := tMaxWorld * dirScale
	origin := localRay.Origin
	traveled := 0.0

	for iter := 0; iter < maxAlphaRejections; iter++ {
		ray := core.NewRay(origin, localRay.Direction)

		var local surface.Intersection
		local.T = remaining
		local.InstanceIndex = -1

		if !inst.Shape.Intersect(ray, &local, sampler) {
			*its = snapshot
			return false
		}

		accepted := true
		if inst.Alpha != nil {
			a := clamp01(inst.Alpha.Scalar(local.UV))
			accepted = sampler.Get1D() < a
		}

		if accepted {
			worldT := (traveled + local.T) / dirScale
			if worldT >= tMaxWorld {
				*its = snapshot
				return false
			}
			inst.commit(its, &local, worldT)
			return true
		}

		advance := local.T + core.Epsilon
		origin = ray.At(advance)
		traveled += advance
		remaining -= advance
		if remaining <= 0 {
			*its = snapshot
			return false
		}
	}

	*its = snapshot
	return false
}

// commit transforms a locally-computed hit back into world space and
// writes it into its, attaching this instance's material handles.
func (inst *Instance) commit(its *surface.Intersection, local *surface.Intersection, worldT float64) {
	point, normal, geoNormal, tangent := local.Point, local.Normal, local.GeoNormal, local.Tangent
	if inst.Transform != nil {
		point = inst.Transform.Point(local.Point)
		normal = inst.Transform.Normal(local.Normal).Normalize()
		geoNormal = inst.Transform.Normal(local.GeoNormal).Normalize()
		tangent = inst.Transform.Vector(local.Tangent)
		// Orthonormalize: the normal-transform rule (inverse transpose) and
		// the vector-transform rule diverge under non-uniform scale, so the
		// tangent is no longer guaranteed perpendicular to the normal.
		tangent = tangent.Subtract(normal.Multiply(tangent.Dot(normal)))
		if tangent.LengthSquared() < 1e-12 {
			tangent = core.NewFrame(normal).S
		} else {
			tangent = tangent.Normalize()
		}
	}

	its.Hit = true
	its.T = worldT
	its.Point = point
	its.Normal = normal
	its.GeoNormal = geoNormal
	its.Tangent = tangent
	its.UV = local.UV
	its.PDF = local.PDF
	its.Bsdf = inst.Bsdf
	its.Emission = inst.Emission
}

// Transmittance returns 1 if the segment [0,tMax] along worldRay is
// unoccluded, 0 if opaquely blocked, or a value in (0,1) for a
// participating-medium shape. An alpha-masked instance delegates to
// Intersect so stochastic transparency is accounted for (§4.5).
func (inst *Instance) Transmittance(worldRay core.Ray, tMax float64, sampler core.Sampler) float64 {
	if inst.Alpha != nil {
		var its surface.Intersection
		its.T = tMax
		its.InstanceIndex = -1
		if inst.Intersect(worldRay, &its, sampler) {
			return 0
		}
		return 1
	}

	localRay, dirScale := inst.toLocal(worldRay)
	return inst.Shape.Transmittance(localRay, tMax*dirScale, sampler)
}

// BoundingBox returns the instance's world-space bounds: the shape's
// local bounds placed by Transform, or untransformed if there is none.
func (inst *Instance) BoundingBox() core.AABB {
	box := inst.Shape.BoundingBox()
	if inst.Transform == nil {
		return box
	}
	corners := make([]core.Vec3, 0, 8)
	for _, x := range []float64{box.Min.X, box.Max.X} {
		for _, y := range []float64{box.Min.Y, box.Max.Y} {
			for _, z := range []float64{box.Min.Z, box.Max.Z} {
				corners = append(corners, inst.Transform.Point(core.NewVec3(x, y, z)))
			}
		}
	}
	return core.NewAABBFromPoints(corners...)
}

// Centroid returns the instance's world-space centroid.
func (inst *Instance) Centroid() core.Vec3 {
	c := inst.Shape.Centroid()
	if inst.Transform == nil {
		return c
	}
	return inst.Transform.Point(c)
}

// SampleArea draws a world-space point on the instance's surface, used by
// area-light NEE sampling of emissive instances.
func (inst *Instance) SampleArea(sampler core.Sampler) shape.AreaSample {
	s := inst.Shape.SampleArea(sampler)
	if inst.Transform == nil {
		return s
	}
	return shape.AreaSample{
		Point:  inst.Transform.Point(s.Point),
		Normal: inst.Transform.Normal(s.Normal).Normalize(),
		PDF:    s.PDF,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
