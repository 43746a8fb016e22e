// Package shape implements the primitive ray/geometry oracle: sphere,
// triangle mesh, and participating-medium volume. Shapes work in their own
// local space at unit scale; the instance layer applies a world transform
// around them.
package shape

import (
	"math"
	"sort"

	"github.com/df07/go-progressive-raytracer/pkg/core"
	"github.com/df07/go-progressive-raytracer/pkg/surface"
)

// AreaSample is a point drawn uniformly (by area) on a shape's surface,
// used by area lights to importance-sample emission.
type AreaSample struct {
	Point  core.Vec3
	Normal core.Vec3
	PDF    float64 // with respect to area
}

// Shape is the primitive ray/geometry oracle every intersectable object
// implements.
type Shape interface {
	// Intersect updates its only if it finds a hit closer than its.T
	// (and at least core.Epsilon away), leaving its untouched otherwise.
	// Returns whether a closer hit was found.
	Intersect(ray core.Ray, its *surface.Intersection, sampler core.Sampler) bool

	// Transmittance returns 1 if the ray is unoccluded up to tMax, 0 if
	// fully blocked, or a value in (0,1) for participating media.
	Transmittance(ray core.Ray, tMax float64, sampler core.Sampler) float64

	BoundingBox() core.AABB
	Centroid() core.Vec3
	SampleArea(sampler core.Sampler) AreaSample
}

// Sphere is a unit sphere centered at the local origin; Instance transforms
// place and scale it in world space.
type Sphere struct{}

// NewSphere creates a unit sphere.
func NewSphere() *Sphere { return &Sphere{} }

// Intersect solves the unit-sphere quadratic t²+2(o·d)t+(|o|²-1)=0 and
// populates the shading frame via equirectangular surface parameterization.
func (s *Sphere) Intersect(ray core.Ray, its *surface.Intersection, sampler core.Sampler) bool {
	o := ray.Origin
	d := ray.Direction

	b := o.Dot(d)
	c := o.Dot(o) - 1
	discriminant := b*b - c
	if discriminant < 0 {
		return false
	}
	sqrtD := math.Sqrt(discriminant)

	root := -b - sqrtD
	if root < core.Epsilon || root > its.T {
		root = -b + sqrtD
		if root < core.Epsilon || root > its.T {
			return false
		}
	}

	point := ray.At(root)
	normal := point.Normalize()

	its.Hit = true
	its.T = root
	its.Point = point
	its.GeoNormal = normal
	its.Normal = normal
	its.Tangent = sphereTangent(normal)
	its.UV = sphereUV(normal)
	return true
}

func sphereTangent(n core.Vec3) core.Vec3 {
	t := core.NewVec3(-n.Z, 0, n.X)
	if t.LengthSquared() < 1e-12 {
		return core.NewVec3(1, 0, 0)
	}
	return t.Normalize()
}

func sphereUV(n core.Vec3) core.Vec2 {
	phi := math.Atan2(-n.Z, n.X) + math.Pi
	theta := math.Atan2(math.Sqrt(n.X*n.X+n.Z*n.Z), n.Y)
	return core.NewVec2(phi/(2*math.Pi), theta/math.Pi)
}

// Transmittance is 0 if the (opaque) sphere occludes the segment, else 1;
// alpha-masked transparency is handled one layer up, by Instance.
func (s *Sphere) Transmittance(ray core.Ray, tMax float64, sampler core.Sampler) float64 {
	its := surface.New()
	its.T = tMax
	if s.Intersect(ray, &its, sampler) {
		return 0
	}
	return 1
}

// BoundingBox returns the [-1,1]^3 box around the unit sphere.
func (s *Sphere) BoundingBox() core.AABB {
	return core.NewAABB(core.NewVec3(-1, -1, -1), core.NewVec3(1, 1, 1))
}

// Centroid is the sphere's local-space center, the origin.
func (s *Sphere) Centroid() core.Vec3 { return core.Vec3{} }

// SampleArea draws a uniform point on the unit sphere.
func (s *Sphere) SampleArea(sampler core.Sampler) AreaSample {
	n := core.SquareToUniformSphere(sampler.Get2D())
	return AreaSample{Point: n, Normal: n, PDF: 1.0 / (4 * math.Pi)}
}

// Bounder is implemented by shapes that can report the two ray-parameter
// roots where a ray enters and exits their boundary. Volume uses this to
// turn an arbitrary closed shape into a free-flight boundary without the
// Shape interface itself needing to expose entry/exit pairs.
type Bounder interface {
	RayInterval(ray core.Ray) (tNear, tFar float64, ok bool)
}

// RayInterval solves the same quadratic as Intersect but returns both
// roots unclamped, so Volume can use a unit sphere as a free-flight
// boundary.
func (s *Sphere) RayInterval(ray core.Ray) (float64, float64, bool) {
	o := ray.Origin
	d := ray.Direction
	b := o.Dot(d)
	c := o.Dot(o) - 1
	discriminant := b*b - c
	if discriminant < 0 {
		return 0, 0, false
	}
	sqrtD := math.Sqrt(discriminant)
	return -b - sqrtD, -b + sqrtD, true
}

// Vertex is one vertex of a triangle mesh: position, shading normal, and
// texture coordinate.
type Vertex struct {
	Position core.Vec3
	Normal   core.Vec3
	UV       core.Vec2
}

// TriangleMesh is a Möller-Trumbore-intersected indexed triangle soup, with
// its own internal BVH over triangles (the "black-box primitive oracle"
// §1 treats triangle acceleration as, here implemented rather than stubbed
// since the spec's C4 contract requires a working Shape).
type TriangleMesh struct {
	Vertices []Vertex
	Indices  []int // triangle i uses Indices[3*i:3*i+3]
	Smooth   bool  // interpolate vertex normals, vs. flat geometric normals

	bvh       *core.BVH
	totalArea float64
	cumArea   []float64 // cumulative per-triangle area, for SampleArea
}

// NewTriangleMesh builds the per-triangle BVH and area table for a mesh.
func NewTriangleMesh(vertices []Vertex, indices []int, smooth bool) *TriangleMesh {
	triCount := len(indices) / 3
	bounds := make([]core.AABB, triCount)
	m := &TriangleMesh{Vertices: vertices, Indices: indices, Smooth: smooth}
	m.cumArea = make([]float64, triCount)

	for i := 0; i < triCount; i++ {
		v0, v1, v2 := m.triangleVertices(i)
		bounds[i] = core.NewAABBFromPoints(v0.Position, v1.Position, v2.Position)

		area := 0.5 * v1.Position.Subtract(v0.Position).Cross(v2.Position.Subtract(v0.Position)).Length()
		m.totalArea += area
		m.cumArea[i] = m.totalArea
	}

	m.bvh = core.NewBVH(bounds)
	return m
}

func (m *TriangleMesh) triangleVertices(tri int) (Vertex, Vertex, Vertex) {
	i0 := m.Indices[3*tri]
	i1 := m.Indices[3*tri+1]
	i2 := m.Indices[3*tri+2]
	return m.Vertices[i0], m.Vertices[i1], m.Vertices[i2]
}

// intersectTriangle performs the standard Möller-Trumbore test for a
// single triangle, populating its into the hit record if it is closer than
// tMax and returning the new tMax budget.
func (m *TriangleMesh) intersectTriangle(tri int, ray core.Ray, its *surface.Intersection, tMax float64) (float64, bool) {
	v0, v1, v2 := m.triangleVertices(tri)
	e1 := v1.Position.Subtract(v0.Position)
	e2 := v2.Position.Subtract(v0.Position)

	h := ray.Direction.Cross(e2)
	a := e1.Dot(h)
	if math.Abs(a) < 1e-10 {
		return tMax, false
	}
	f := 1 / a

	s := ray.Origin.Subtract(v0.Position)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return tMax, false
	}

	q := s.Cross(e1)
	v := f * ray.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return tMax, false
	}

	t := f * e2.Dot(q)
	if t < core.Epsilon || t > tMax {
		return tMax, false
	}

	w := 1 - u - v
	geoNormal := e1.Cross(e2).Normalize()
	var normal core.Vec3
	if m.Smooth {
		normal = v0.Normal.Multiply(w).Add(v1.Normal.Multiply(u)).Add(v2.Normal.Multiply(v)).Normalize()
	} else {
		normal = geoNormal
	}
	uv := v0.UV.Multiply(w).Add(v1.UV.Multiply(u)).Add(v2.UV.Multiply(v))
	tangent := triangleTangent(e1, e2, v0.UV, v1.UV, v2.UV, normal)

	its.Hit = true
	its.T = t
	its.Point = ray.At(t)
	its.GeoNormal = geoNormal
	its.Normal = normal
	its.Tangent = tangent
	its.UV = uv
	return t, true
}

// triangleTangent derives the tangent from the UV parameterization's
// ∂p/∂u, falling back to an arbitrary perpendicular when the UV
// parameterization is degenerate (determinant below 1e-10, per §4.4).
func triangleTangent(e1, e2 core.Vec3, uv0, uv1, uv2 core.Vec2, normal core.Vec3) core.Vec3 {
	duv1 := uv1.Subtract(uv0)
	duv2 := uv2.Subtract(uv0)
	det := duv1.X*duv2.Y - duv2.X*duv1.Y

	var tangent core.Vec3
	if math.Abs(det) > 1e-10 {
		invDet := 1 / det
		tangent = e1.Multiply(duv2.Y * invDet).Subtract(e2.Multiply(duv1.Y * invDet))
	} else {
		tangent = sphereTangent(normal)
	}

	tangent = tangent.Subtract(normal.Multiply(tangent.Dot(normal)))
	if tangent.LengthSquared() < 1e-12 {
		return sphereTangent(normal)
	}
	return tangent.Normalize()
}

// Intersect walks the mesh's internal BVH, testing every triangle in a
// reached leaf with Möller-Trumbore.
func (m *TriangleMesh) Intersect(ray core.Ray, its *surface.Intersection, sampler core.Sampler) bool {
	return m.bvh.Intersect(ray, core.Epsilon, its.T, func(tri int, tMax float64) (float64, bool) {
		return m.intersectTriangle(tri, ray, its, tMax)
	})
}

// Transmittance is 0 if the (opaque) mesh occludes the segment, else 1.
func (m *TriangleMesh) Transmittance(ray core.Ray, tMax float64, sampler core.Sampler) float64 {
	blocked := m.bvh.AnyHit(ray, core.Epsilon, tMax, func(tri int) bool {
		var its surface.Intersection
		its.T = tMax
		_, hit := m.intersectTriangle(tri, ray, &its, tMax)
		return hit
	})
	if blocked {
		return 0
	}
	return 1
}

// BoundingBox returns the union of all triangle bounds.
func (m *TriangleMesh) BoundingBox() core.AABB {
	var box core.AABB
	for i := range m.Vertices {
		if i == 0 {
			box = core.NewAABBFromPoints(m.Vertices[i].Position)
		} else {
			box = box.Union(core.NewAABBFromPoints(m.Vertices[i].Position))
		}
	}
	return box
}

// Centroid returns the mean of all vertex positions.
func (m *TriangleMesh) Centroid() core.Vec3 {
	var sum core.Vec3
	for _, v := range m.Vertices {
		sum = sum.Add(v.Position)
	}
	if len(m.Vertices) == 0 {
		return sum
	}
	return sum.Multiply(1 / float64(len(m.Vertices)))
}

// SampleArea picks a triangle proportional to its area, then a uniform
// point within it via the standard sqrt-barycentric construction.
func (m *TriangleMesh) SampleArea(sampler core.Sampler) AreaSample {
	triCount := len(m.cumArea)
	if triCount == 0 || m.totalArea <= 0 {
		return AreaSample{}
	}

	target := sampler.Get1D() * m.totalArea
	tri := sort.Search(triCount, func(i int) bool { return m.cumArea[i] >= target })
	if tri >= triCount {
		tri = triCount - 1
	}

	v0, v1, v2 := m.triangleVertices(tri)
	b := sampler.Get2D()
	su := math.Sqrt(b.X)
	bu := 1 - su
	bv := b.Y * su
	bw := 1 - bu - bv

	point := v0.Position.Multiply(bu).Add(v1.Position.Multiply(bv)).Add(v2.Position.Multiply(bw))
	var normal core.Vec3
	if m.Smooth {
		normal = v0.Normal.Multiply(bu).Add(v1.Normal.Multiply(bv)).Add(v2.Normal.Multiply(bw)).Normalize()
	} else {
		normal = v1.Position.Subtract(v0.Position).Cross(v2.Position.Subtract(v0.Position)).Normalize()
	}

	return AreaSample{Point: point, Normal: normal, PDF: 1 / m.totalArea}
}

// Volume is a homogeneous participating medium with extinction σ_t,
// optionally bounded by another shape (e.g. a unit Sphere); an unbounded
// volume fills the ray's full [0,∞) domain.
type Volume struct {
	SigmaT   float64
	Boundary Shape // nil means unbounded
}

// NewVolume creates a homogeneous volume with the given extinction
// coefficient and optional boundary shape.
func NewVolume(sigmaT float64, boundary Shape) *Volume {
	return &Volume{SigmaT: sigmaT, Boundary: boundary}
}

// interval returns the ray's [tEntry, tExit] overlap with the volume's
// boundary, or [0, +∞) if unbounded or the boundary doesn't implement
// Bounder.
func (v *Volume) interval(ray core.Ray) (tEntry, tExit float64, ok bool) {
	if v.Boundary == nil {
		return 0, core.Infinity, true
	}
	b, isBounder := v.Boundary.(Bounder)
	if !isBounder {
		return 0, core.Infinity, true
	}
	tNear, tFar, hit := b.RayInterval(ray)
	if !hit || tFar < 0 {
		return 0, 0, false
	}
	return math.Max(0, tNear), tFar, true
}

// Intersect draws a free-flight distance from the exponential distribution
// exp(-σ_t·d) and accepts it as a scattering event if it lands inside the
// boundary and within the current hit budget.
func (v *Volume) Intersect(ray core.Ray, its *surface.Intersection, sampler core.Sampler) bool {
	tEntry, tExit, ok := v.interval(ray)
	if !ok || tExit <= tEntry {
		return false
	}

	u := math.Min(sampler.Get1D(), 1-1e-12) // clamp away from 1 so d stays finite
	d := -math.Log(1-u) / math.Max(1e-8, v.SigmaT)
	tHit := tEntry + d

	if tHit < core.Epsilon || tHit >= tExit || tHit > its.T {
		return false
	}

	its.Hit = true
	its.T = tHit
	its.Point = ray.At(tHit)
	its.Normal = ray.Direction.Negate()
	its.GeoNormal = its.Normal
	its.Tangent = sphereTangent(its.Normal)
	its.UV = core.Vec2{}
	return true
}

// Transmittance integrates exp(-σ_t·length) over the overlap of
// [0,tMax] with the volume's boundary interval.
func (v *Volume) Transmittance(ray core.Ray, tMax float64, sampler core.Sampler) float64 {
	tEntry, tExit, ok := v.interval(ray)
	if !ok {
		return 1
	}
	lo := math.Max(tEntry, 0)
	hi := math.Min(tExit, tMax)
	if hi <= lo {
		return 1
	}
	return math.Exp(-v.SigmaT * (hi - lo))
}

// BoundingBox delegates to the boundary shape, or returns a very large box
// for an unbounded volume (the BVH above it still needs finite bounds).
func (v *Volume) BoundingBox() core.AABB {
	if v.Boundary != nil {
		return v.Boundary.BoundingBox()
	}
	const big = 1e6
	return core.NewAABB(core.NewVec3(-big, -big, -big), core.NewVec3(big, big, big))
}

// Centroid delegates to the boundary shape, or the origin if unbounded.
func (v *Volume) Centroid() core.Vec3 {
	if v.Boundary != nil {
		return v.Boundary.Centroid()
	}
	return core.Vec3{}
}

// SampleArea is not meaningful for a volume (it has no surface to emit
// from as an area light); it returns a zero-probability sample so the
// interface is satisfiable without a volume ever being picked as a light.
func (v *Volume) SampleArea(sampler core.Sampler) AreaSample {
	return AreaSample{}
}
