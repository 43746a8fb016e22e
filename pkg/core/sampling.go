package core

import (
	"math"
	"math/rand"
)

// Sampler provides random numbers for rendering algorithms. It can be
// swapped out for deterministic testing or a different sampling pattern;
// each rendering worker owns exactly one and never shares it across
// goroutines (§5).
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
}

// RandomSampler wraps a standard Go random generator.
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator.
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// Get1D returns a random float64 in [0, 1).
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)².
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// SquareToCosineHemisphere warps two uniform samples in [0,1)² to a unit
// vector in local shading-frame coordinates (z is the surface normal),
// distributed with pdf cos(theta)/pi. Maps the square onto the unit disk
// in polar form (r=sqrt(u), phi=2*pi*v), then lifts to the hemisphere.
func SquareToCosineHemisphere(sample Vec2) Vec3 {
	a := 2.0 * math.Pi * sample.X
	z := sample.Y
	r := math.Sqrt(z)

	x := r * math.Cos(a)
	y := r * math.Sin(a)
	zCoord := math.Sqrt(math.Max(0, 1.0-z))

	return NewVec3(x, y, zCoord)
}

// CosineHemispherePdf returns the pdf of a local direction sampled by
// SquareToCosineHemisphere.
func CosineHemispherePdf(v Vec3) float64 {
	return math.Max(0, CosTheta(v)) / math.Pi
}

// SquareToUniformSphere warps two uniform samples in [0,1)² to a direction
// uniformly distributed over the full sphere, pdf 1/(4*pi).
func SquareToUniformSphere(sample Vec2) Vec3 {
	z := 1.0 - 2.0*sample.X
	r := math.Sqrt(math.Max(0, 1.0-z*z))
	phi := 2.0 * math.Pi * sample.Y
	return NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

// UniformSpherePdf is the constant pdf of SquareToUniformSphere.
const UniformSpherePdf = 1.0 / (4.0 * math.Pi)

// SampleGGXVNDF draws a half-vector h in local shading-frame coordinates
// from the distribution of visible normals for a GGX microfacet
// distribution with roughness alpha, given the outgoing direction wo.
// This is Heitz's "Sampling the GGX Distribution of Visible Normals"
// construction: stretch, sample a disk, unstretch.
func SampleGGXVNDF(alpha float64, wo Vec3, sample Vec2) Vec3 {
	// Stretch the view vector into the hemisphere configuration.
	vh := NewVec3(alpha*wo.X, alpha*wo.Y, wo.Z).Normalize()

	// Build an orthonormal basis around vh.
	lensq := vh.X*vh.X + vh.Y*vh.Y
	var t1 Vec3
	if lensq > 0 {
		t1 = NewVec3(-vh.Y, vh.X, 0).Multiply(1.0 / math.Sqrt(lensq))
	} else {
		t1 = NewVec3(1, 0, 0)
	}
	t2 := vh.Cross(t1)

	// Sample a disk, warping the upper half to account for the visible
	// hemisphere projection.
	r := math.Sqrt(sample.X)
	phi := 2.0 * math.Pi * sample.Y
	p1 := r * math.Cos(phi)
	p2 := r * math.Sin(phi)
	s := 0.5 * (1.0 + vh.Z)
	p2 = (1-s)*math.Sqrt(math.Max(0, 1-p1*p1)) + s*p2

	nh := t1.Multiply(p1).Add(t2.Multiply(p2)).Add(vh.Multiply(math.Sqrt(math.Max(0, 1.0-p1*p1-p2*p2))))

	// Unstretch back to the ellipsoid configuration.
	return NewVec3(alpha*nh.X, alpha*nh.Y, math.Max(1e-6, nh.Z)).Normalize()
}

// SampleHG draws a local direction from the Henyey-Greenstein phase
// function's inverse CDF, with cosTheta measured relative to +z. Callers
// rotate the result into a frame aligned with the forward-scattering
// direction (-wo).
func SampleHG(g float64, sample Vec2) Vec3 {
	var cosTheta float64
	if math.Abs(g) < 1e-3 {
		cosTheta = 1 - 2*sample.X
	} else {
		sqrTerm := (1 - g*g) / (1 + g - 2*g*sample.X)
		cosTheta = (1 + g*g - sqrTerm*sqrTerm) / (2 * g)
	}
	cosTheta = math.Max(-1, math.Min(1, cosTheta))

	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	phi := 2.0 * math.Pi * sample.Y

	return NewVec3(sinTheta*math.Cos(phi), sinTheta*math.Sin(phi), cosTheta)
}

// HGPhase evaluates the Henyey-Greenstein phase function for the angle
// between two directions given by cosTheta.
func HGPhase(g, cosTheta float64) float64 {
	denom := 1 + g*g + 2*g*cosTheta
	denom = math.Max(1e-9, denom)
	return (1 - g*g) / (4 * math.Pi * math.Pow(denom, 1.5))
}

// SampleCosineHemisphere generates a cosine-weighted random direction in
// world space, in the hemisphere around normal. Used by area-sampling code
// (e.g. sampling a point on an emissive shape) that works directly in world
// space rather than behind a Frame.
func SampleCosineHemisphere(normal Vec3, sample Vec2) Vec3 {
	local := SquareToCosineHemisphere(sample)
	return NewFrame(normal).ToWorld(local)
}

// SampleOnUnitSphere generates a uniform random direction on the unit
// sphere in world space; identical distribution to SquareToUniformSphere,
// kept as a named convenience for area-sampling call sites.
func SampleOnUnitSphere(sample Vec2) Vec3 {
	return SquareToUniformSphere(sample)
}

// SamplePointInUnitDisk generates a random point in a unit disk using
// concentric mapping, for camera lens/aperture sampling.
func SamplePointInUnitDisk(sample Vec2) Vec3 {
	uOffset := NewVec2(2*sample.X-1, 2*sample.Y-1)
	if uOffset.X == 0 && uOffset.Y == 0 {
		return NewVec3(0, 0, 0)
	}

	var theta, r float64
	if math.Abs(uOffset.X) > math.Abs(uOffset.Y) {
		r = uOffset.X
		theta = math.Pi / 4 * (uOffset.Y / uOffset.X)
	} else {
		r = uOffset.Y
		theta = math.Pi/2 - math.Pi/4*(uOffset.X/uOffset.Y)
	}

	return NewVec3(r*math.Cos(theta), r*math.Sin(theta), 0)
}

// PowerHeuristic computes the two-sample MIS power heuristic weight for nf
// samples with density fPdf against ng samples with density gPdf. None of
// the integrators call it (§4.8 deliberately omits MIS); only the tests
// exercise it.
func PowerHeuristic(nf int, fPdf float64, ng int, gPdf float64) float64 {
	f := float64(nf) * fPdf
	g := float64(ng) * gPdf
	if f*f+g*g == 0 {
		return 0
	}
	return (f * f) / (f*f + g*g)
}
