package instance

import (
	"math/rand"
	"testing"

	"github.com/df07/go-progressive-raytracer/pkg/core"
	"github.com/df07/go-progressive-raytracer/pkg/light"
	"github.com/df07/go-progressive-raytracer/pkg/shape"
	"github.com/df07/go-progressive-raytracer/pkg/surface"
	"github.com/df07/go-progressive-raytracer/pkg/texture"
)

func TestIntersectMissLeavesIntersectionUntouched(t *testing.T) {
	inst := New(shape.NewSphere(), nil, nil, light.Emission{}, nil)
	its := surface.New()
	its.T = 5
	its.UV = core.NewVec2(0.25, 0.75)
	snapshot := its

	ray := core.NewRay(core.NewVec3(10, 10, 10), core.NewVec3(0, 0, 1))
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(1)))

	if inst.Intersect(ray, &its, sampler) {
		t.Fatal("expected miss")
	}
	if its != snapshot {
		t.Errorf("miss mutated intersection: got %+v, want %+v", its, snapshot)
	}
}

func TestIntersectHitsSphere(t *testing.T) {
	inst := New(shape.NewSphere(), nil, nil, light.Emission{}, nil)
	its := surface.New()
	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(1)))

	if !inst.Intersect(ray, &its, sampler) {
		t.Fatal("expected hit")
	}
	if its.T != 4 {
		t.Errorf("T = %v, want 4", its.T)
	}
}

func TestIntersectWithTransform(t *testing.T) {
	xf := core.Translate(core.NewVec3(0, 0, 10))
	inst := New(shape.NewSphere(), &xf, nil, light.Emission{}, nil)
	its := surface.New()
	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(1)))

	if !inst.Intersect(ray, &its, sampler) {
		t.Fatal("expected hit on translated sphere")
	}
	if its.T < 1 || its.T > 30 {
		t.Errorf("T = %v outside plausible range", its.T)
	}
	if its.Point.Subtract(core.NewVec3(0, 0, 9)).Length() > 1e-6 {
		t.Errorf("Point = %v, want ~(0,0,9)", its.Point)
	}
}

func TestHalfTransparentAlphaHitProbability(t *testing.T) {
	inst := New(shape.NewSphere(), nil, nil, light.Emission{}, texture.NewConstantScalar(0.5))
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(7)))

	const n = 20000
	hits := 0
	for i := 0; i < n; i++ {
		its := surface.New()
		// From the center the ray crosses exactly one surface of the sphere.
		ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))
		if inst.Intersect(ray, &its, sampler) {
			hits++
		}
	}

	p := float64(hits) / n
	if p < 0.45 || p > 0.55 {
		t.Errorf("hit probability = %v, want ~0.5", p)
	}
}

func TestFullyTransparentAlphaNeverHits(t *testing.T) {
	inst := New(shape.NewSphere(), nil, nil, light.Emission{}, texture.NewConstantScalar(0))
	its := surface.New()
	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(1)))

	if inst.Intersect(ray, &its, sampler) {
		t.Error("fully transparent alpha should never report a hit")
	}
}
