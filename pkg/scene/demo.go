package scene

import (
	"github.com/df07/go-progressive-raytracer/pkg/core"
)

// Demo builds the same kind of small showcase scene the teacher's own
// NewDefaultScene wires together by hand — a few differently-shaded
// spheres, a large sphere standing in for ground, one emissive sphere
// lighting the set, and a constant-radiance background — but
// expressed as a Description and resolved through Build rather than
// constructed directly against bsdf/shape/light types.
func Demo(width, height int) Description {
	groundTransform := core.Translate(core.NewVec3(0, -1000.5, -1)).Mul(core.Scale(1000, 1000, 1000))
	centerTransform := core.Translate(core.NewVec3(0, 0, -1))
	leftTransform := core.Translate(core.NewVec3(-1.1, 0, -1))
	rightTransform := core.Translate(core.NewVec3(1.1, 0, -1))
	lightTransform := core.Translate(core.NewVec3(0, 2.5, -1)).Mul(core.Scale(0.5, 0.5, 0.5))

	return Description{
		Width:  width,
		Height: height,
		Camera: core.Properties{
			"position": core.NewVec3(0, 0.75, 2),
			"look_at":  core.NewVec3(0, 0.25, -1),
			"up":       core.NewVec3(0, 1, 0),
			"fov":      40.0,
		},
		Instances: []InstanceDescription{
			{
				Shape:     core.Properties{"type": "sphere"},
				Transform: &groundTransform,
				Material:  core.Properties{"type": "diffuse", "albedo": core.NewColor(0.5, 0.5, 0.5)},
			},
			{
				Shape:     core.Properties{"type": "sphere"},
				Transform: &centerTransform,
				Material:  core.Properties{"type": "dielectric", "eta": 1.5},
			},
			{
				Shape:     core.Properties{"type": "sphere"},
				Transform: &leftTransform,
				Material:  core.Properties{"type": "diffuse", "albedo": core.NewColor(0.1, 0.2, 0.5)},
			},
			{
				Shape:     core.Properties{"type": "sphere"},
				Transform: &rightTransform,
				Material:  core.Properties{"type": "conductor", "reflectance": core.NewColor(0.8, 0.6, 0.2), "roughness": 0.1},
			},
			{
				Shape:     core.Properties{"type": "sphere"},
				Transform: &lightTransform,
				Emission:  core.Properties{"radiance": core.NewColor(8, 7.5, 7)},
			},
		},
		Background: &core.Properties{
			"radiance": core.NewColor(0.05, 0.08, 0.12),
		},
	}
}
