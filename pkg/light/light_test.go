package light

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-progressive-raytracer/pkg/core"
	"github.com/df07/go-progressive-raytracer/pkg/texture"
)

func testSampler() core.Sampler {
	return core.NewRandomSampler(rand.New(rand.NewSource(42)))
}

func TestPointLightSampleDirect(t *testing.T) {
	position := core.NewVec3(0, 5, 0)
	power := core.Gray(4 * math.Pi) // chosen so the falloff at distance 1 is exactly 1
	pl := NewPointLight(position, power)

	point := core.NewVec3(0, 4, 0) // distance 1 below the light
	sample := pl.SampleDirect(point, testSampler())

	if !sample.Valid() {
		t.Fatal("expected a valid sample")
	}
	wantWi := core.NewVec3(0, 1, 0)
	if sample.Wi.Subtract(wantWi).Length() > 1e-9 {
		t.Errorf("Wi = %v, want %v", sample.Wi, wantWi)
	}
	if math.Abs(sample.Distance-1) > 1e-9 {
		t.Errorf("Distance = %v, want 1", sample.Distance)
	}
	if math.Abs(sample.Weight.Mean()-1) > 1e-9 {
		t.Errorf("Weight mean = %v, want ~1", sample.Weight.Mean())
	}
	if pl.CanBeIntersected() {
		t.Error("a point light should never be intersectable")
	}
}

func TestPointLightCoincidentPointIsInvalid(t *testing.T) {
	pl := NewPointLight(core.NewVec3(1, 1, 1), core.Gray(10))
	sample := pl.SampleDirect(core.NewVec3(1, 1, 1), testSampler())
	if sample.Valid() {
		t.Error("expected an invalid sample when the point coincides with the light")
	}
}

func TestDirectionalLightSampleDirectPointsOppositeTravelDirection(t *testing.T) {
	dl := NewDirectionalLight(core.NewVec3(0, -1, 0), core.Gray(2))
	sample := dl.SampleDirect(core.NewVec3(5, 5, 5), testSampler())

	wantWi := core.NewVec3(0, 1, 0)
	if sample.Wi.Subtract(wantWi).Length() > 1e-9 {
		t.Errorf("Wi = %v, want %v", sample.Wi, wantWi)
	}
	if !math.IsInf(sample.Distance, 1) {
		t.Errorf("Distance = %v, want +Inf", sample.Distance)
	}
	if dl.CanBeIntersected() {
		t.Error("a directional light should never be intersectable")
	}
}

func TestEnvironmentLightEmitMatchesConstantRadiance(t *testing.T) {
	radiance := core.NewColor(0.2, 0.3, 0.4)
	env := NewEnvironmentLight(texture.NewConstant(radiance), nil)

	got := env.Emit(core.NewVec3(1, 0, 0))
	if got != radiance {
		t.Errorf("Emit = %v, want %v (constant texture ignores direction)", got, radiance)
	}
	if !env.CanBeIntersected() {
		t.Error("the environment should be intersectable via missed rays")
	}
}

func TestEnvironmentLightSampleDirectUsesSampler(t *testing.T) {
	env := NewEnvironmentLight(texture.NewConstant(core.Gray(1)), nil)
	sample := env.SampleDirect(core.NewVec3(0, 0, 0), testSampler())

	if !sample.Valid() {
		t.Fatal("expected a valid sample for a uniformly-emitting environment")
	}
	if math.Abs(sample.Wi.Length()-1) > 1e-9 {
		t.Errorf("Wi should be unit length, got length %v", sample.Wi.Length())
	}
}

func TestEmissionIsOneSided(t *testing.T) {
	e := NewEmission(texture.NewConstant(core.Gray(5)))

	front := e.Le(core.Vec2{}, core.NewVec3(0, 0, 1))
	if front.IsInvalid() {
		t.Error("expected emission on the front face (positive cosTheta)")
	}

	back := e.Le(core.Vec2{}, core.NewVec3(0, 0, -1))
	if !back.IsInvalid() {
		t.Error("expected no emission on the back face")
	}
}

func TestEmissionZeroValueIsNotEmissive(t *testing.T) {
	var e Emission
	if e.IsEmissive() {
		t.Error("zero-value Emission should not be emissive")
	}
}
