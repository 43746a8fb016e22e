// Package camera generates primary rays from normalized image coordinates
// (C7): a perspective projection placed in the scene by a world-from-camera
// transform.
package camera

import (
	"math"

	"github.com/df07/go-progressive-raytracer/pkg/core"
)

// FovAxis selects which image axis the configured field of view applies
// to; the other axis is derived from the image's aspect ratio.
type FovAxis int

const (
	FovAxisX FovAxis = iota
	FovAxisY
)

// Camera is a perspective camera: rays originate at the camera-space
// origin and are bent by a precomputed per-axis scale before being placed
// in world space by CameraToWorld.
type Camera struct {
	CameraToWorld core.Transform
	scaleX        float64 // tan(fov/2), scaled by aspect ratio per axis
	scaleY        float64
}

// NewPerspective builds a perspective camera for the given field of view
// (degrees), the axis it is measured against, the target image resolution
// (for aspect ratio), and the world-from-camera placement transform.
func NewPerspective(fovDegrees float64, fovAxis FovAxis, width, height int, cameraToWorld core.Transform) *Camera {
	aspect := float64(width) / float64(height)
	s := math.Tan(fovDegrees * math.Pi / 360)

	c := &Camera{CameraToWorld: cameraToWorld}
	switch fovAxis {
	case FovAxisX:
		c.scaleX = s
		c.scaleY = s / aspect
	default:
		c.scaleY = s
		c.scaleX = s * aspect
	}
	return c
}

// GenerateRay builds a world-space ray through normalized image coordinate
// n ∈ [-1,1]², per §4.7: local direction (n.x*sx, n.y*sy, 1), placed by the
// camera-to-world transform and renormalized.
func (c *Camera) GenerateRay(n core.Vec2) core.Ray {
	localDir := core.NewVec3(n.X*c.scaleX, n.Y*c.scaleY, 1)
	origin := c.CameraToWorld.Point(core.Vec3{})
	direction := c.CameraToWorld.Vector(localDir).Normalize()
	return core.NewRay(origin, direction)
}

// GenerateRayForPixel converts a continuous pixel-space coordinate (as
// produced by a sampler jittering within pixel (x,y)) into the normalized
// image coordinates GenerateRay expects, flipping y so that row 0 is the
// top of the image.
func (c *Camera) GenerateRayForPixel(px, py float64, width, height int) core.Ray {
	nx := 2*px/float64(width) - 1
	ny := 1 - 2*py/float64(height)
	return c.GenerateRay(core.NewVec2(nx, ny))
}
