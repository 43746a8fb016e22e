// Package light implements emitters usable for next-event estimation:
// area emission attached to a shape instance, and the free-standing point,
// directional, and environment-map lights.
package light

import (
	"math"

	"github.com/df07/go-progressive-raytracer/pkg/core"
	"github.com/df07/go-progressive-raytracer/pkg/texture"
)

// DirectLightSample is the result of sampling a light for next-event
// estimation: a direction from the shading point toward the light, with the
// geometric and emission terms already folded into weight.
type DirectLightSample struct {
	Wi       core.Vec3  // unit world-space direction toward the light
	Weight   core.Color // Le * G / pdf_direction, already folded
	Distance float64    // possibly +Infinity
}

// Valid reports whether this sample carries any contribution.
func (s DirectLightSample) Valid() bool {
	return !s.Weight.IsInvalid()
}

// Light is a source of direct illumination sampled by NEE.
type Light interface {
	// SampleDirect returns a direction/weight/distance sample toward the
	// light as seen from point. sampler supplies as many random numbers as
	// the light needs (an area light backed by a triangle mesh needs a
	// triangle-selection draw in addition to the barycentric Vec2).
	SampleDirect(point core.Vec3, sampler core.Sampler) DirectLightSample

	// CanBeIntersected reports whether this light is also discoverable by
	// a ray that happens to hit its geometry (area lights) or miss
	// everything (environment lights), as opposed to being purely a NEE
	// construct (point/directional lights, which have zero solid angle or
	// are not geometric at all).
	CanBeIntersected() bool
}

// Emission is the emissive behavior attached to a shape instance: constant
// Lambertian emission over the front face, modulated by a texture.
type Emission struct {
	Radiance texture.Texture
}

// NewEmission creates an area-light emission term from a texture.
func NewEmission(radiance texture.Texture) Emission {
	return Emission{Radiance: radiance}
}

// IsEmissive reports whether this emission term is attached at all (the
// zero value, with a nil texture, means "no emission").
func (e Emission) IsEmissive() bool {
	return e.Radiance != nil
}

// Le evaluates emitted radiance at uv for an outgoing direction wo measured
// in local shading-frame coordinates; emission is one-sided (front-face
// only).
func (e Emission) Le(uv core.Vec2, wo core.Vec3) core.Color {
	if !e.IsEmissive() || core.CosTheta(wo) <= 0 {
		return core.Black
	}
	return e.Radiance.Evaluate(uv)
}

// PointLight emits power Φ equally in all directions from a fixed position.
type PointLight struct {
	Position core.Vec3
	Power    core.Color
}

// NewPointLight creates a point light with the given position and power.
func NewPointLight(position core.Vec3, power core.Color) *PointLight {
	return &PointLight{Position: position, Power: power}
}

// SampleDirect returns the (deterministic) direction and falloff-weighted
// intensity toward the point light; sampler is unused since point lights
// have no area to sample.
func (p *PointLight) SampleDirect(point core.Vec3, sampler core.Sampler) DirectLightSample {
	toLight := p.Position.Subtract(point)
	distance := toLight.Length()
	if distance < core.Epsilon {
		return DirectLightSample{}
	}
	wi := toLight.Multiply(1 / distance)
	weight := p.Power.Multiply(1 / (4 * math.Pi * distance * distance))
	return DirectLightSample{Wi: wi, Weight: weight, Distance: distance}
}

// CanBeIntersected is false: a point light has zero solid angle and is
// never discovered by a BSDF-sampled ray.
func (p *PointLight) CanBeIntersected() bool { return false }

// DirectionalLight emits constant intensity from an infinitely distant
// direction, like sunlight.
type DirectionalLight struct {
	Direction core.Vec3 // world direction the light travels (surface-to-light is its negation... see SampleDirect)
	Intensity core.Color
}

// NewDirectionalLight creates a directional light. direction points FROM the
// light TOWARD the scene (matching how a sun's rays travel); SampleDirect
// returns the reverse, the direction a surface point should look to find
// the light.
func NewDirectionalLight(direction core.Vec3, intensity core.Color) *DirectionalLight {
	return &DirectionalLight{Direction: direction.Normalize(), Intensity: intensity}
}

// SampleDirect always returns the same direction and intensity; sampler is
// unused.
func (d *DirectionalLight) SampleDirect(point core.Vec3, sampler core.Sampler) DirectLightSample {
	return DirectLightSample{
		Wi:       d.Direction.Negate(),
		Weight:   d.Intensity,
		Distance: math.Inf(1),
	}
}

// CanBeIntersected is false: directional lights have no geometry a ray can
// hit.
func (d *DirectionalLight) CanBeIntersected() bool { return false }

// EnvironmentLight maps an equirectangular texture onto the sphere at
// infinity, optionally reoriented by a world-from-light transform.
type EnvironmentLight struct {
	Radiance  texture.Texture
	Transform *core.Transform // nil means identity
}

// NewEnvironmentLight creates an environment map light. transform may be
// nil for the identity orientation.
func NewEnvironmentLight(radiance texture.Texture, transform *core.Transform) *EnvironmentLight {
	return &EnvironmentLight{Radiance: radiance, Transform: transform}
}

// equirectangularUV maps a world-space direction to the environment
// texture's uv coordinates, per the φ=atan2(-z,x)+π, θ=atan2(√(x²+z²),y)
// convention.
func (e *EnvironmentLight) equirectangularUV(d core.Vec3) core.Vec2 {
	if e.Transform != nil {
		d = e.Transform.Inverse().Vector(d).Normalize()
	}
	phi := math.Atan2(-d.Z, d.X) + math.Pi
	if phi < 0 {
		phi += 2 * math.Pi
	}
	theta := math.Atan2(math.Sqrt(d.X*d.X+d.Z*d.Z), d.Y)
	return core.NewVec2(phi/(2*math.Pi), theta/math.Pi)
}

// Emit evaluates the environment radiance in the direction the ray travels;
// used when a primary or bounce ray escapes the scene without hitting
// anything.
func (e *EnvironmentLight) Emit(direction core.Vec3) core.Color {
	uv := e.equirectangularUV(direction.Normalize())
	return e.Radiance.Evaluate(uv)
}

// SampleDirect draws a uniform direction on the sphere and evaluates the
// environment there; the uniform-sphere pdf of 1/(4π) cancels against the
// evaluated radiance to give weight = Le*4π.
func (e *EnvironmentLight) SampleDirect(point core.Vec3, sampler core.Sampler) DirectLightSample {
	wi := core.SquareToUniformSphere(sampler.Get2D())
	le := e.Emit(wi)
	weight := le.Multiply(4 * math.Pi)
	return DirectLightSample{Wi: wi, Weight: weight, Distance: math.Inf(1)}
}

// CanBeIntersected is true: the environment is discovered by rays that miss
// all scene geometry, not sampled via NEE alone.
func (e *EnvironmentLight) CanBeIntersected() bool { return true }
