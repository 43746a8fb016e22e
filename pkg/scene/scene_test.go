package scene

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-progressive-raytracer/pkg/bsdf"
	"github.com/df07/go-progressive-raytracer/pkg/camera"
	"github.com/df07/go-progressive-raytracer/pkg/core"
	"github.com/df07/go-progressive-raytracer/pkg/instance"
	"github.com/df07/go-progressive-raytracer/pkg/light"
	"github.com/df07/go-progressive-raytracer/pkg/shape"
	"github.com/df07/go-progressive-raytracer/pkg/texture"
)

func testSampler() core.Sampler {
	return core.NewRandomSampler(rand.New(rand.NewSource(1)))
}

func TestIntersectFindsNearestInstance(t *testing.T) {
	near := instance.New(shape.NewSphere(), nil, bsdf.NewDiffuse(texture.NewConstantScalar(0.5)), light.Emission{}, nil)
	farXf := core.Translate(core.NewVec3(0, 0, 10))
	far := instance.New(shape.NewSphere(), &farXf, bsdf.NewDiffuse(texture.NewConstantScalar(0.5)), light.Emission{}, nil)

	s := New([]*instance.Instance{far, near}, nil, nil, camera.NewPerspective(45, camera.FovAxisY, 100, 100, core.Identity()))

	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))
	its := s.Intersect(ray, testSampler())
	if !its.Hit {
		t.Fatal("expected a hit")
	}
	if its.InstanceIndex != 1 {
		t.Errorf("InstanceIndex = %d, want 1 (the nearer instance)", its.InstanceIndex)
	}
	if its.T != 4 {
		t.Errorf("T = %v, want 4", its.T)
	}
}

func TestIntersectMissReturnsInvalid(t *testing.T) {
	inst := instance.New(shape.NewSphere(), nil, nil, light.Emission{}, nil)
	s := New([]*instance.Instance{inst}, nil, nil, nil)

	ray := core.NewRay(core.NewVec3(10, 10, 10), core.NewVec3(0, 0, 1))
	its := s.Intersect(ray, testSampler())
	if its.Valid() {
		t.Error("expected no hit")
	}
}

func TestTransmittanceBlockedByOpaqueInstance(t *testing.T) {
	inst := instance.New(shape.NewSphere(), nil, bsdf.NewDiffuse(texture.NewConstantScalar(0.5)), light.Emission{}, nil)
	s := New([]*instance.Instance{inst}, nil, nil, nil)

	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))
	if tr := s.Transmittance(ray, 100, testSampler()); tr != 0 {
		t.Errorf("Transmittance = %v, want 0 (blocked)", tr)
	}
}

func TestTransmittanceUnoccluded(t *testing.T) {
	xf := core.Translate(core.NewVec3(100, 100, 100))
	inst := instance.New(shape.NewSphere(), &xf, bsdf.NewDiffuse(texture.NewConstantScalar(0.5)), light.Emission{}, nil)
	s := New([]*instance.Instance{inst}, nil, nil, nil)

	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))
	if tr := s.Transmittance(ray, 100, testSampler()); tr != 1 {
		t.Errorf("Transmittance = %v, want 1 (unoccluded)", tr)
	}
}

func TestSampleLightUniformOverNonEmpty(t *testing.T) {
	lights := []light.Light{
		light.NewPointLight(core.NewVec3(0, 5, 0), core.Gray(10)),
		light.NewPointLight(core.NewVec3(5, 0, 0), core.Gray(10)),
	}
	s := New(nil, lights, nil, nil)

	l, pdf := s.SampleLight(testSampler())
	if l == nil {
		t.Fatal("expected a light")
	}
	if pdf != 0.5 {
		t.Errorf("pdf = %v, want 0.5", pdf)
	}
}

func TestSampleLightEmptyReturnsNil(t *testing.T) {
	s := New(nil, nil, nil, nil)
	l, pdf := s.SampleLight(testSampler())
	if l != nil || pdf != 0 {
		t.Errorf("got (%v, %v), want (nil, 0)", l, pdf)
	}
}

func TestAreaLightSampleDirectFacesEmitter(t *testing.T) {
	emission := light.NewEmission(texture.NewConstant(core.Gray(5)))
	inst := instance.New(shape.NewSphere(), nil, nil, emission, nil)
	s := New([]*instance.Instance{inst}, nil, nil, nil)
	if !s.Instances[0].Emission.IsEmissive() {
		t.Fatal("expected instance to be emissive")
	}

	al := newAreaLight(inst)
	point := core.NewVec3(0, 0, -10)

	sampler := testSampler()
	found := false
	checked := 0
	for i := 0; i < 200 && checked < 20; i++ {
		sample := al.SampleDirect(point, sampler)
		if !sample.Valid() {
			continue
		}
		found = true
		checked++

		// Unit sphere centered at the origin: a point on its surface is its
		// own outward normal, so the hit point recovers cosLight directly.
		hitPoint := point.Add(sample.Wi.Multiply(sample.Distance))
		cosLight := hitPoint.Dot(sample.Wi.Negate())
		distSq := sample.Distance * sample.Distance
		wantWeight := 5 * cosLight / (distSq * (1 / (4 * math.Pi)))
		if math.Abs(sample.Weight.Mean()-wantWeight) > 1e-9 {
			t.Errorf("sample %d: Weight mean = %v, want %v (cosLight=%v, distSq=%v)", i, sample.Weight.Mean(), wantWeight, cosLight, distSq)
		}
	}
	if !found {
		t.Error("expected at least one valid area-light sample toward the emitter's visible hemisphere")
	}
}

func TestBackgroundEmissionNilIsBlack(t *testing.T) {
	s := New(nil, nil, nil, nil)
	c := s.BackgroundEmission(core.NewVec3(0, 0, 1))
	if c != core.Black {
		t.Errorf("BackgroundEmission with no background = %v, want Black", c)
	}
}
