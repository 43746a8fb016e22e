package integrator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-progressive-raytracer/pkg/bsdf"
	"github.com/df07/go-progressive-raytracer/pkg/core"
	"github.com/df07/go-progressive-raytracer/pkg/instance"
	"github.com/df07/go-progressive-raytracer/pkg/light"
	"github.com/df07/go-progressive-raytracer/pkg/scene"
	"github.com/df07/go-progressive-raytracer/pkg/shape"
	"github.com/df07/go-progressive-raytracer/pkg/texture"
)

func sampler(seed int64) core.Sampler {
	return core.NewRandomSampler(rand.New(rand.NewSource(seed)))
}

func TestAOVNormalsMissIsBlack(t *testing.T) {
	s := scene.New(nil, nil, nil, nil)
	aov := NewAOV(AOVNormals)
	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))
	c := aov.Li(ray, s, sampler(1))
	if c != core.Black {
		t.Errorf("AOVNormals on a miss = %v, want Black", c)
	}
}

func TestAOVNormalsHitIsInUnitCube(t *testing.T) {
	inst := instance.New(shape.NewSphere(), nil, bsdf.NewDiffuse(texture.NewConstantScalar(0.5)), light.Emission{}, nil)
	s := scene.New([]*instance.Instance{inst}, nil, nil, nil)
	aov := NewAOV(AOVNormals)
	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))
	c := aov.Li(ray, s, sampler(1))
	for _, v := range []float64{c.X, c.Y, c.Z} {
		if v < 0 || v > 1 {
			t.Errorf("remapped normal component = %v, want in [0,1]", v)
		}
	}
}

func TestDirectAddsSurfaceEmission(t *testing.T) {
	emission := light.NewEmission(texture.NewConstant(core.Gray(3)))
	inst := instance.New(shape.NewSphere(), nil, nil, emission, nil)
	s := scene.New([]*instance.Instance{inst}, nil, nil, nil)

	d := NewDirect()
	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))
	c := d.Li(ray, s, sampler(1))
	if c.X < 2.9 || c.X > 3.1 {
		t.Errorf("Li.X = %v, want ~3 (surface emission)", c.X)
	}
}

func TestDirectMissReturnsBackground(t *testing.T) {
	bg := light.NewEnvironmentLight(texture.NewConstant(core.Gray(2)), nil)
	s := scene.New(nil, nil, bg, nil)
	d := NewDirect()
	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))
	c := d.Li(ray, s, sampler(1))
	if c != core.Gray(2) {
		t.Errorf("Li on a miss = %v, want background Gray(2)", c)
	}
}

func TestPathTracerTerminatesAtMaxDepth(t *testing.T) {
	// A diffuse sphere surrounding the camera from every direction cannot
	// terminate via a miss; maxDepth alone must bound the loop.
	inst := instance.New(shape.NewSphere(), nil, bsdf.NewDiffuse(texture.NewConstantScalar(0.9)), light.Emission{}, nil)
	s := scene.New([]*instance.Instance{inst}, nil, nil, nil)

	pt := NewPathTracer(5, false)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))
	c := pt.Li(ray, s, sampler(1))
	if math.IsNaN(c.X) || math.IsInf(c.X, 0) {
		t.Errorf("Li = %v, want a finite value", c)
	}
}

func TestPathTracerNoLightsNoEmissionIsBlack(t *testing.T) {
	inst := instance.New(shape.NewSphere(), nil, bsdf.NewDiffuse(texture.NewConstantScalar(0.9)), light.Emission{}, nil)
	s := scene.New([]*instance.Instance{inst}, nil, nil, nil)

	pt := NewPathTracer(8, true)
	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))
	c := pt.Li(ray, s, sampler(1))
	if c != core.Black {
		t.Errorf("Li with no lights or emission = %v, want Black", c)
	}
}

func TestPathTracerAddsEmissiveInstanceDirectly(t *testing.T) {
	emission := light.NewEmission(texture.NewConstant(core.Gray(4)))
	inst := instance.New(shape.NewSphere(), nil, nil, emission, nil)
	s := scene.New([]*instance.Instance{inst}, nil, nil, nil)

	pt := NewPathTracer(4, true)
	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))
	c := pt.Li(ray, s, sampler(1))
	if c.X < 3.9 || c.X > 4.1 {
		t.Errorf("Li.X = %v, want ~4 (direct hit on emitter)", c.X)
	}
}
