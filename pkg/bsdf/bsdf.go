// Package bsdf implements the bidirectional scattering distribution
// functions evaluated at a shading point: diffuse, rough conductor
// (GGX+Smith), smooth dielectric, a two-lobe principled material, and the
// Henyey-Greenstein phase function used inside participating media. Every
// BSDF operates entirely in local shading-frame coordinates (z is the
// surface normal); Instance/Scene code is responsible for transforming
// directions to and from world space at the frame boundary.
package bsdf

import (
	"math"

	"github.com/df07/go-progressive-raytracer/pkg/core"
	"github.com/df07/go-progressive-raytracer/pkg/texture"
)

// BsdfEval is the result of evaluating f(wo,wi) with the cosine term
// already folded in. The zero value (Value == core.Black) is the invalid
// sentinel returned for unphysical or delta-only configurations.
type BsdfEval struct {
	Value core.Color
}

// Valid reports whether this evaluation carries any contribution.
func (e BsdfEval) Valid() bool { return !e.Value.IsInvalid() }

var invalidEval = BsdfEval{Value: core.Black}

// BsdfSample is the result of importance-sampling a BSDF: an outgoing
// local-space direction wi together with the Monte Carlo estimator weight
// f*|cosθ|/pdf. An invalid sample (zero Weight) signals path termination.
type BsdfSample struct {
	Wi     core.Vec3
	Weight core.Color
	PDF    float64
	Delta  bool // true for delta lobes (smooth dielectric), where PDF is meaningless
}

// Valid reports whether this sample carries any contribution.
func (s BsdfSample) Valid() bool { return !s.Weight.IsInvalid() }

var invalidSample = BsdfSample{Weight: core.Black}

// Bsdf is the shared contract every material implements: evaluate the
// scattering function for a given pair of directions, or importance-sample
// an outgoing direction given only wo.
type Bsdf interface {
	// Evaluate returns f(wo,wi)*|cosθ_wi|, or the invalid sentinel if the
	// pair is unphysical (wrong hemisphere, below surface) or this BSDF is
	// a delta distribution.
	Evaluate(uv core.Vec2, wo, wi core.Vec3) BsdfEval

	// Sample draws an outgoing direction wi and its Monte Carlo weight.
	Sample(uv core.Vec2, wo core.Vec3, sampler core.Sampler) BsdfSample
}

// schlick computes the Schlick Fresnel approximation given the base
// reflectance f0 and the cosine of the incidence angle.
func schlick(f0, cosTheta float64) float64 {
	m := math.Max(0, 1-cosTheta)
	return f0 + (1-f0)*m*m*m*m*m
}

// Diffuse is a perfectly Lambertian BSDF, f = albedo/π.
type Diffuse struct {
	Albedo texture.Texture
}

// NewDiffuse creates a Lambertian BSDF backed by an albedo texture.
func NewDiffuse(albedo texture.Texture) *Diffuse {
	return &Diffuse{Albedo: albedo}
}

// Evaluate returns (albedo/π)*|cosθ_wi| for wi, wo in the same hemisphere.
func (d *Diffuse) Evaluate(uv core.Vec2, wo, wi core.Vec3) BsdfEval {
	if !core.SameHemisphere(wo, wi) {
		return invalidEval
	}
	albedo := d.Albedo.Evaluate(uv)
	value := albedo.Multiply(core.AbsCosTheta(wi) / math.Pi)
	return BsdfEval{Value: value}
}

// Sample draws a cosine-weighted direction in the hemisphere of wo,
// mirroring wi into wo's hemisphere when wo itself is below the surface
// (the consistent variant selected over clamping to zero).
func (d *Diffuse) Sample(uv core.Vec2, wo core.Vec3, sampler core.Sampler) BsdfSample {
	wi := core.SquareToCosineHemisphere(sampler.Get2D())
	if core.CosTheta(wo) < 0 {
		wi.Z = -wi.Z
	}
	pdf := core.CosineHemispherePdf(core.NewVec3(wi.X, wi.Y, math.Abs(wi.Z)))
	if pdf <= 0 {
		return invalidSample
	}
	albedo := d.Albedo.Evaluate(uv)
	return BsdfSample{Wi: wi, Weight: albedo, PDF: pdf}
}

// RoughConductor is a GGX+Smith microfacet BRDF.
type RoughConductor struct {
	Reflectance texture.Texture
	Roughness   texture.Texture // scalar channel used, mapped to alpha = max(1e-3, roughness^2)
}

// NewRoughConductor creates a rough conductor BSDF.
func NewRoughConductor(reflectance, roughness texture.Texture) *RoughConductor {
	return &RoughConductor{Reflectance: reflectance, Roughness: roughness}
}

func alphaFromRoughness(roughness float64) float64 {
	return math.Max(1e-3, roughness*roughness)
}

// ggxD evaluates the GGX normal distribution function for a half-vector h
// in local coordinates with roughness alpha.
func ggxD(h core.Vec3, alpha float64) float64 {
	cosTheta := core.CosTheta(h)
	if cosTheta <= 0 {
		return 0
	}
	a2 := alpha * alpha
	cos2 := cosTheta * cosTheta
	denom := cos2*(a2-1) + 1
	return a2 / (math.Pi * denom * denom)
}

// smithG1 evaluates the Smith masking/shadowing term for a single direction
// v against the half-vector h.
func smithG1(v, h core.Vec3, alpha float64) float64 {
	cosV := core.CosTheta(v)
	if v.Dot(h)*cosV <= 0 {
		return 0
	}
	a2 := alpha * alpha
	cos2 := cosV * cosV
	tan2 := math.Max(0, 1-cos2) / math.Max(cos2, 1e-12)
	return 2.0 / (1.0 + math.Sqrt(1.0+a2*tan2))
}

// Evaluate returns ρ*D*G/(4|cosθ_wo|)*|cosθ_wi| for reflection directions
// sharing a hemisphere with a valid half-vector.
func (r *RoughConductor) Evaluate(uv core.Vec2, wo, wi core.Vec3) BsdfEval {
	if !core.SameHemisphere(wo, wi) {
		return invalidEval
	}
	cosWo := core.AbsCosTheta(wo)
	cosWi := core.AbsCosTheta(wi)
	if cosWo < 1e-4 || cosWi < 1e-4 {
		return invalidEval
	}

	h := wo.Add(wi).Normalize()
	if core.CosTheta(h) <= 0 {
		return invalidEval
	}

	alpha := alphaFromRoughness(r.Roughness.Scalar(uv))
	d := ggxD(h, alpha)
	g := smithG1(wo, h, alpha) * smithG1(wi, h, alpha)

	rho := r.Reflectance.Evaluate(uv)
	value := rho.Multiply(d * g / (4 * cosWo)).Multiply(cosWi)
	return BsdfEval{Value: value}
}

// Sample draws a half-vector from the GGX visible-normal distribution,
// reflects wo about it, and applies the standard VNDF weight
// simplification ρ*G1(wi,h).
func (r *RoughConductor) Sample(uv core.Vec2, wo core.Vec3, sampler core.Sampler) BsdfSample {
	alpha := alphaFromRoughness(r.Roughness.Scalar(uv))

	// sampleGGXVNDF assumes wo lies in the canonical upper hemisphere;
	// mirror both wo and the resulting half-vector when shading the back
	// face so the distribution stays centered on the local normal.
	flip := core.CosTheta(wo) < 0
	woForSample := wo
	if flip {
		woForSample = core.NewVec3(wo.X, wo.Y, -wo.Z)
	}

	h := core.SampleGGXVNDF(alpha, woForSample, sampler.Get2D())
	if flip {
		h = core.NewVec3(h.X, h.Y, -h.Z)
	}

	wi := reflect(wo, h)
	if !core.SameHemisphere(wo, wi) {
		return invalidSample
	}

	g1wi := smithG1(wi, h, alpha)
	rho := r.Reflectance.Evaluate(uv)
	weight := rho.Multiply(g1wi)
	return BsdfSample{Wi: wi, Weight: weight, PDF: 1, Delta: false}
}

// reflect mirrors v about h (both local-space vectors, h need not be +z).
func reflect(v, h core.Vec3) core.Vec3 {
	return h.Multiply(2 * v.Dot(h)).Subtract(v)
}

// Dielectric is a smooth (delta) dielectric interface: perfect specular
// reflection or refraction chosen by Russian roulette on the Fresnel
// reflectance.
type Dielectric struct {
	Eta           float64 // index of refraction of the medium behind the surface
	Reflectance   texture.Texture
	Transmittance texture.Texture
}

// NewDielectric creates a smooth dielectric BSDF with the given relative
// index of refraction; reflectance/transmittance tint the respective
// lobes (pass a white constant texture for ordinary clear glass).
func NewDielectric(eta float64, reflectance, transmittance texture.Texture) *Dielectric {
	return &Dielectric{Eta: eta, Reflectance: reflectance, Transmittance: transmittance}
}

// Evaluate always returns the invalid sentinel: a delta BSDF has zero
// probability of the sampled direction matching any specific wi.
func (d *Dielectric) Evaluate(uv core.Vec2, wo, wi core.Vec3) BsdfEval {
	return invalidEval
}

// Sample chooses between reflection and refraction via Fresnel-weighted
// Russian roulette, returning the appropriate delta lobe.
func (d *Dielectric) Sample(uv core.Vec2, wo core.Vec3, sampler core.Sampler) BsdfSample {
	cosWo := core.CosTheta(wo)
	entering := cosWo > 0
	etaRel := d.Eta
	if entering {
		etaRel = 1 / d.Eta
	}

	cosWoAbs := math.Abs(cosWo)
	sin2ThetaT := etaRel * etaRel * math.Max(0, 1-cosWoAbs*cosWoAbs)

	if sin2ThetaT >= 1 {
		// Total internal reflection.
		wi := core.NewVec3(-wo.X, -wo.Y, wo.Z)
		weight := d.Reflectance.Evaluate(uv)
		return BsdfSample{Wi: wi, Weight: weight, Delta: true}
	}

	cosThetaT := math.Sqrt(1 - sin2ThetaT)
	fr := fresnelDielectric(cosWoAbs, cosThetaT, etaRel)

	if sampler.Get1D() < fr {
		wi := core.NewVec3(-wo.X, -wo.Y, wo.Z)
		weight := d.Reflectance.Evaluate(uv)
		return BsdfSample{Wi: wi, Weight: weight, Delta: true}
	}

	sign := 1.0
	if !entering {
		sign = -1.0
	}
	wi := core.NewVec3(-etaRel*wo.X, -etaRel*wo.Y, -sign*cosThetaT)
	weight := d.Transmittance.Evaluate(uv).Multiply(etaRel * etaRel)
	return BsdfSample{Wi: wi, Weight: weight, Delta: true}
}

// fresnelDielectric computes the unpolarized Fresnel reflectance as the
// mean of the parallel and perpendicular power reflectances.
func fresnelDielectric(cosThetaI, cosThetaT, etaRel float64) float64 {
	rParl := (etaRel*cosThetaI - cosThetaT) / (etaRel*cosThetaI + cosThetaT)
	rPerp := (cosThetaI - etaRel*cosThetaT) / (cosThetaI + etaRel*cosThetaT)
	return 0.5 * (rParl*rParl + rPerp*rPerp)
}

// Principled is a two-lobe material combining a diffuse base with a
// specular/metallic microfacet lobe, selected stochastically by the
// relative brightness of each lobe's color.
type Principled struct {
	BaseColor texture.Texture
	Roughness texture.Texture
	Metallic  texture.Texture
	Specular  texture.Texture
}

// NewPrincipled creates a principled BSDF from its four texture inputs.
func NewPrincipled(baseColor, roughness, metallic, specular texture.Texture) *Principled {
	return &Principled{BaseColor: baseColor, Roughness: roughness, Metallic: metallic, Specular: specular}
}

// lobes computes the diffuse/metallic lobe colors and selection
// probability shared by Evaluate and Sample.
func (p *Principled) lobes(uv core.Vec2, wo core.Vec3) (diffuseColor, metallicColor core.Color, alpha, pDiffuse float64) {
	base := p.BaseColor.Evaluate(uv)
	metallic := p.Metallic.Scalar(uv)
	specular := p.Specular.Scalar(uv)
	roughness := p.Roughness.Scalar(uv)

	f := specular * schlick(0.08*(1-metallic), core.AbsCosTheta(wo))

	diffuseColor = base.Multiply((1 - f) * (1 - metallic))
	metallicColor = base.Multiply((1 - f) * metallic).Add(core.Gray(f))

	dMean := diffuseColor.Mean()
	mMean := metallicColor.Mean()
	if dMean+mMean <= 0 {
		pDiffuse = 1
	} else {
		pDiffuse = dMean / (dMean + mMean)
	}

	alpha = alphaFromRoughness(roughness)
	return
}

// Evaluate sums the diffuse and rough-conductor lobe evaluations.
func (p *Principled) Evaluate(uv core.Vec2, wo, wi core.Vec3) BsdfEval {
	diffuseColor, metallicColor, alpha, _ := p.lobes(uv, wo)

	if !core.SameHemisphere(wo, wi) {
		return invalidEval
	}

	var total core.Color

	if !diffuseColor.IsInvalid() {
		total = total.Add(diffuseColor.Multiply(core.AbsCosTheta(wi) / math.Pi))
	}

	cosWo := core.AbsCosTheta(wo)
	cosWi := core.AbsCosTheta(wi)
	if cosWo >= 1e-4 && cosWi >= 1e-4 && !metallicColor.IsInvalid() {
		h := wo.Add(wi).Normalize()
		if core.CosTheta(h) > 0 {
			d := ggxD(h, alpha)
			g := smithG1(wo, h, alpha) * smithG1(wi, h, alpha)
			total = total.Add(metallicColor.Multiply(d * g / (4 * cosWo)).Multiply(cosWi))
		}
	}

	if total.IsInvalid() {
		return invalidEval
	}
	return BsdfEval{Value: total}
}

// Sample picks the diffuse or metallic lobe by pDiffuse, samples it, and
// divides the result by the selection probability.
func (p *Principled) Sample(uv core.Vec2, wo core.Vec3, sampler core.Sampler) BsdfSample {
	diffuseColor, metallicColor, alpha, pDiffuse := p.lobes(uv, wo)

	if sampler.Get1D() < pDiffuse {
		wi := core.SquareToCosineHemisphere(sampler.Get2D())
		if core.CosTheta(wo) < 0 {
			wi.Z = -wi.Z
		}
		if pDiffuse <= 0 {
			return invalidSample
		}
		weight := diffuseColor.Multiply(1 / pDiffuse)
		return BsdfSample{Wi: wi, Weight: weight, PDF: pDiffuse}
	}

	flip := core.CosTheta(wo) < 0
	woForSample := wo
	if flip {
		woForSample = core.NewVec3(wo.X, wo.Y, -wo.Z)
	}
	h := core.SampleGGXVNDF(alpha, woForSample, sampler.Get2D())
	if flip {
		h = core.NewVec3(h.X, h.Y, -h.Z)
	}
	wi := reflect(wo, h)
	if !core.SameHemisphere(wo, wi) {
		return invalidSample
	}

	g1wi := smithG1(wi, h, alpha)
	pMetallic := 1 - pDiffuse
	if pMetallic <= 0 {
		return invalidSample
	}
	weight := metallicColor.Multiply(g1wi / pMetallic)
	return BsdfSample{Wi: wi, Weight: weight, PDF: pMetallic}
}

// PhaseHG is the Henyey-Greenstein phase function used as the "BSDF" for
// scattering events inside a participating medium.
type PhaseHG struct {
	G      float64
	Albedo core.Color
}

// NewPhaseHG creates a Henyey-Greenstein phase BSDF with asymmetry g and
// single-scattering albedo.
func NewPhaseHG(g float64, albedo core.Color) *PhaseHG {
	return &PhaseHG{G: g, Albedo: albedo}
}

// Evaluate returns albedo*p(θ) where θ is the angle between wo and wi.
func (ph *PhaseHG) Evaluate(uv core.Vec2, wo, wi core.Vec3) BsdfEval {
	cosTheta := wo.Dot(wi)
	p := core.HGPhase(ph.G, cosTheta)
	return BsdfEval{Value: ph.Albedo.Multiply(p)}
}

// Sample draws a direction via the HG inverse CDF, rotated into a frame
// aligned with -wo (forward scattering). The sample is a perfect
// importance sample, so weight is exactly the albedo.
func (ph *PhaseHG) Sample(uv core.Vec2, wo core.Vec3, sampler core.Sampler) BsdfSample {
	local := core.SampleHG(ph.G, sampler.Get2D())
	frame := core.NewFrame(wo.Negate())
	wi := frame.ToWorld(local)
	return BsdfSample{Wi: wi, Weight: ph.Albedo, PDF: core.HGPhase(ph.G, -local.Z)}
}
