package scene

import (
	"fmt"

	"github.com/df07/go-progressive-raytracer/pkg/bsdf"
	"github.com/df07/go-progressive-raytracer/pkg/camera"
	"github.com/df07/go-progressive-raytracer/pkg/core"
	"github.com/df07/go-progressive-raytracer/pkg/instance"
	"github.com/df07/go-progressive-raytracer/pkg/light"
	"github.com/df07/go-progressive-raytracer/pkg/loaders"
	"github.com/df07/go-progressive-raytracer/pkg/shape"
	"github.com/df07/go-progressive-raytracer/pkg/texture"
)

// InstanceDescription configures one Instance: its shape, optional world
// transform, material, and optional emission/alpha-mask properties. Every
// nested field is a Properties bag rather than a concrete type, so a scene
// file format (JSON, a PBRT-like DSL, whatever a future loader produces)
// only has to produce maps, not construct domain objects itself.
type InstanceDescription struct {
	Shape     core.Properties
	Transform *core.Transform // nil means identity
	Material  core.Properties
	Emission  core.Properties // nil means not emissive
	Alpha     core.Properties // nil means opaque
}

// Description is the full object graph Build consumes to construct a
// Scene: every shape, material, light, and the camera, described
// declaratively so a loader never has to import bsdf/texture/shape/light
// itself (§4.10 — Build is the one place that does).
type Description struct {
	Width, Height int
	Camera        core.Properties
	Instances     []InstanceDescription
	Lights        []core.Properties
	Background    *core.Properties
}

// Build constructs a Scene from a Description, resolving nested shape,
// material, texture, and light properties into the concrete types those
// packages expose. It returns an error rather than panicking on any
// missing or mistyped required property, since a hand-authored or
// generated scene file is exactly the kind of input that gets it wrong.
func Build(desc Description) (*Scene, error) {
	cam, err := buildCamera(desc.Camera, desc.Width, desc.Height)
	if err != nil {
		return nil, fmt.Errorf("camera: %w", err)
	}

	instances := make([]*instance.Instance, 0, len(desc.Instances))
	var lights []light.Light

	for i, id := range desc.Instances {
		inst, err := buildInstance(id)
		if err != nil {
			return nil, fmt.Errorf("instance[%d]: %w", i, err)
		}
		instances = append(instances, inst)
		if inst.Emission.IsEmissive() {
			lights = append(lights, newAreaLight(inst))
		}
	}

	for i, lp := range desc.Lights {
		l, err := buildLight(lp)
		if err != nil {
			return nil, fmt.Errorf("light[%d]: %w", i, err)
		}
		lights = append(lights, l)
	}

	var background *light.EnvironmentLight
	if desc.Background != nil {
		background, err = buildEnvironment(*desc.Background)
		if err != nil {
			return nil, fmt.Errorf("background: %w", err)
		}
	}

	return New(instances, lights, background, cam), nil
}

func buildCamera(p core.Properties, width, height int) (*camera.Camera, error) {
	fov := p.Float("fov", 45)
	axis := camera.FovAxisY
	if p.String("fov_axis", "y") == "x" {
		axis = camera.FovAxisX
	}

	eye := p.Vec3("position", core.Vec3{})
	target := p.Vec3("look_at", core.NewVec3(0, 0, 1))
	up := p.Vec3("up", core.NewVec3(0, 1, 0))

	xf := core.LookAt(eye, target, up)
	return camera.NewPerspective(fov, axis, width, height, xf), nil
}

func buildInstance(id InstanceDescription) (*instance.Instance, error) {
	s, err := buildShape(id.Shape)
	if err != nil {
		return nil, fmt.Errorf("shape: %w", err)
	}

	var mat bsdf.Bsdf
	if id.Material != nil {
		mat, err = buildMaterial(id.Material)
		if err != nil {
			return nil, fmt.Errorf("material: %w", err)
		}
	}

	var emission light.Emission
	if id.Emission != nil {
		radiance, err := buildTextureProperty(id.Emission, "radiance")
		if err != nil {
			return nil, fmt.Errorf("emission: %w", err)
		}
		emission = light.NewEmission(radiance)
	}

	var alpha texture.Texture
	if id.Alpha != nil {
		alpha, err = buildTexture(id.Alpha)
		if err != nil {
			return nil, fmt.Errorf("alpha: %w", err)
		}
	}

	return instance.New(s, id.Transform, mat, emission, alpha), nil
}

func buildShape(p core.Properties) (shape.Shape, error) {
	switch kind := p.String("type", "sphere"); kind {
	case "sphere":
		return shape.NewSphere(), nil

	case "mesh":
		path, err := p.RequireString("file")
		if err != nil {
			return nil, err
		}
		data, err := loaders.LoadPLY(path)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		return meshFromPLY(data, p.Bool("smooth", len(data.Normals) > 0)), nil

	case "volume":
		sigmaT := p.Float("sigma_t", 1)
		var boundary shape.Shape
		if bp, ok := p["boundary"].(core.Properties); ok {
			boundary, err := buildShape(bp)
			if err != nil {
				return nil, fmt.Errorf("boundary: %w", err)
			}
			return shape.NewVolume(sigmaT, boundary), nil
		}
		return shape.NewVolume(sigmaT, boundary), nil

	default:
		return nil, fmt.Errorf("unknown shape type %q", kind)
	}
}

// meshFromPLY converts the loader's flat vertex/index arrays into the
// shape package's Vertex-indexed representation, defaulting texture
// coordinates to zero when the PLY carried none.
func meshFromPLY(data *loaders.PLYData, smooth bool) *shape.TriangleMesh {
	vertices := make([]shape.Vertex, len(data.Vertices))
	for i, p := range data.Vertices {
		v := shape.Vertex{Position: p}
		if i < len(data.Normals) {
			v.Normal = data.Normals[i]
		}
		if i < len(data.TexCoords) {
			v.UV = data.TexCoords[i]
		}
		vertices[i] = v
	}
	return shape.NewTriangleMesh(vertices, data.Faces, smooth && len(data.Normals) > 0)
}

func buildMaterial(p core.Properties) (bsdf.Bsdf, error) {
	switch kind := p.String("type", "diffuse"); kind {
	case "diffuse":
		albedo, err := buildTextureProperty(p, "albedo")
		if err != nil {
			return nil, err
		}
		return bsdf.NewDiffuse(albedo), nil

	case "conductor":
		reflectance, err := buildTextureProperty(p, "reflectance")
		if err != nil {
			return nil, err
		}
		roughness, err := buildTextureProperty(p, "roughness")
		if err != nil {
			return nil, err
		}
		return bsdf.NewRoughConductor(reflectance, roughness), nil

	case "dielectric":
		eta := p.Float("eta", 1.5)
		reflectance, err := buildTextureProperty(p, "reflectance")
		if err != nil {
			return nil, err
		}
		transmittance, err := buildTextureProperty(p, "transmittance")
		if err != nil {
			return nil, err
		}
		return bsdf.NewDielectric(eta, reflectance, transmittance), nil

	case "principled":
		baseColor, err := buildTextureProperty(p, "base_color")
		if err != nil {
			return nil, err
		}
		roughness, err := buildTextureProperty(p, "roughness")
		if err != nil {
			return nil, err
		}
		metallic, err := buildTextureProperty(p, "metallic")
		if err != nil {
			return nil, err
		}
		specular, err := buildTextureProperty(p, "specular")
		if err != nil {
			return nil, err
		}
		return bsdf.NewPrincipled(baseColor, roughness, metallic, specular), nil

	default:
		return nil, fmt.Errorf("unknown material type %q", kind)
	}
}

// buildTextureProperty resolves a nested texture under key name, defaulting
// to a mid-gray constant if the key is absent so a material never ends up
// with a nil texture handle.
func buildTextureProperty(p core.Properties, name string) (texture.Texture, error) {
	v, ok := p[name]
	if !ok {
		return texture.NewConstantScalar(0.5), nil
	}
	switch t := v.(type) {
	case core.Properties:
		return buildTexture(t)
	case core.Color:
		return texture.NewConstant(t), nil
	case float64:
		return texture.NewConstantScalar(t), nil
	default:
		return nil, fmt.Errorf("property %q has unsupported texture value type %T", name, v)
	}
}

func buildTexture(p core.Properties) (texture.Texture, error) {
	switch kind := p.String("type", "constant"); kind {
	case "constant":
		if v, ok := p["value"].(core.Color); ok {
			return texture.NewConstant(v), nil
		}
		return texture.NewConstantScalar(p.Float("value", 0.5)), nil

	case "checkerboard":
		c0 := p.Color("color0", core.Black)
		c1 := p.Color("color1", core.Gray(1))
		return texture.NewCheckerboard(c0, c1, p.Float("scale_u", 1), p.Float("scale_v", 1)), nil

	case "image":
		path, err := p.RequireString("file")
		if err != nil {
			return nil, err
		}
		img, err := loaders.LoadImage(path)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		border := texture.BorderRepeat
		if p.String("border", "repeat") == "clamp" {
			border = texture.BorderClamp
		}
		filter := texture.FilterBilinear
		if p.String("filter", "bilinear") == "nearest" {
			filter = texture.FilterNearest
		}
		return texture.NewImage(img.Width, img.Height, img.Pixels, img.Alpha, border, filter, p.Float("exposure", 1)), nil

	default:
		return nil, fmt.Errorf("unknown texture type %q", kind)
	}
}

func buildLight(p core.Properties) (light.Light, error) {
	switch kind := p.String("type", "point"); kind {
	case "point":
		return light.NewPointLight(p.Vec3("position", core.Vec3{}), p.Color("power", core.Gray(1))), nil
	case "directional":
		return light.NewDirectionalLight(p.Vec3("direction", core.NewVec3(0, -1, 0)), p.Color("intensity", core.Gray(1))), nil
	default:
		return nil, fmt.Errorf("unknown light type %q (environment lights go under background)", kind)
	}
}

func buildEnvironment(p core.Properties) (*light.EnvironmentLight, error) {
	radiance, err := buildTextureProperty(p, "radiance")
	if err != nil {
		return nil, err
	}
	var xf *core.Transform
	if t, ok := p["transform"].(core.Transform); ok {
		xf = &t
	}
	return light.NewEnvironmentLight(radiance, xf), nil
}
