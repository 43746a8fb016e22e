package core

import "math"

// Transform carries a point/vector/normal from local object space into
// world space, along with the inverse for the reverse direction. Shapes and
// instances store a Transform rather than baking world coordinates into
// their geometry, so one mesh or sphere definition can be instanced
// multiple times with different placements (§4.5).
//
// No example in the corpus wires in a dedicated matrix/linear-algebra
// library as a real dependency, so this is a small hand-rolled 4x4
// row-major affine transform, matching how the teacher repo keeps its
// vector math self-contained in pkg/core rather than reaching for an
// external package.
type Transform struct {
	m, mInv [4][4]float64
}

// Identity returns the identity transform.
func Identity() Transform {
	var t Transform
	for i := 0; i < 4; i++ {
		t.m[i][i] = 1
		t.mInv[i][i] = 1
	}
	return t
}

// Translate returns a transform that translates by v.
func Translate(v Vec3) Transform {
	t := Identity()
	t.m[0][3], t.m[1][3], t.m[2][3] = v.X, v.Y, v.Z
	t.mInv[0][3], t.mInv[1][3], t.mInv[2][3] = -v.X, -v.Y, -v.Z
	return t
}

// Scale returns a transform that scales each axis independently.
func Scale(x, y, z float64) Transform {
	t := Identity()
	t.m[0][0], t.m[1][1], t.m[2][2] = x, y, z
	t.mInv[0][0], t.mInv[1][1], t.mInv[2][2] = 1/x, 1/y, 1/z
	return t
}

// RotateY returns a transform that rotates by theta radians about the Y
// axis, the axis the demo scenes use to orient instanced meshes.
func RotateY(theta float64) Transform {
	sin, cos := math.Sin(theta), math.Cos(theta)
	var t Transform
	t.m = [4][4]float64{
		{cos, 0, sin, 0},
		{0, 1, 0, 0},
		{-sin, 0, cos, 0},
		{0, 0, 0, 1},
	}
	t.mInv = [4][4]float64{
		{cos, 0, -sin, 0},
		{0, 1, 0, 0},
		{sin, 0, cos, 0},
		{0, 0, 0, 1},
	}
	return t
}

// LookAt builds a world-from-camera transform that places the camera at
// eye, oriented so camera-space +Z points toward target, per the classic
// lookfrom/lookat/vup basis construction (the same one behind the
// teacher's viewport/lowerLeftCorner camera vocabulary, generalized to an
// arbitrary placement instead of a fixed one).
func LookAt(eye, target, up Vec3) Transform {
	forward := target.Subtract(eye).Normalize()
	right := up.Cross(forward).Normalize()
	trueUp := forward.Cross(right)

	var t Transform
	t.m = [4][4]float64{
		{right.X, trueUp.X, forward.X, eye.X},
		{right.Y, trueUp.Y, forward.Y, eye.Y},
		{right.Z, trueUp.Z, forward.Z, eye.Z},
		{0, 0, 0, 1},
	}
	t.mInv = affineInverse(t.m)
	return t
}

// affineInverse inverts a 4x4 matrix whose bottom row is [0,0,0,1] by
// transposing its rotation block and solving for the translation, which
// is exact (no general Gauss-Jordan needed) for every Transform this
// package constructs.
func affineInverse(m [4][4]float64) [4][4]float64 {
	var inv [4][4]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			inv[i][j] = m[j][i]
		}
	}
	for i := 0; i < 3; i++ {
		var t float64
		for j := 0; j < 3; j++ {
			t += inv[i][j] * m[j][3]
		}
		inv[i][3] = -t
	}
	inv[3][3] = 1
	return inv
}

// Mul composes two transforms so that (a.Mul(b)).Point(p) == a.Point(b.Point(p)).
func (a Transform) Mul(b Transform) Transform {
	var out Transform
	out.m = matMul(a.m, b.m)
	out.mInv = matMul(b.mInv, a.mInv)
	return out
}

func matMul(a, b [4][4]float64) [4][4]float64 {
	var r [4][4]float64
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += a[i][k] * b[k][j]
			}
			r[i][j] = sum
		}
	}
	return r
}

// Inverse returns a transform with the forward and inverse matrices
// swapped.
func (t Transform) Inverse() Transform {
	return Transform{m: t.mInv, mInv: t.m}
}

// Point transforms a point (implicit w=1) into the target space.
func (t Transform) Point(p Vec3) Vec3 {
	x := t.m[0][0]*p.X + t.m[0][1]*p.Y + t.m[0][2]*p.Z + t.m[0][3]
	y := t.m[1][0]*p.X + t.m[1][1]*p.Y + t.m[1][2]*p.Z + t.m[1][3]
	z := t.m[2][0]*p.X + t.m[2][1]*p.Y + t.m[2][2]*p.Z + t.m[2][3]
	w := t.m[3][0]*p.X + t.m[3][1]*p.Y + t.m[3][2]*p.Z + t.m[3][3]
	if w == 1 {
		return NewVec3(x, y, z)
	}
	return NewVec3(x/w, y/w, z/w)
}

// Vector transforms a direction (implicit w=0, so translation has no
// effect).
func (t Transform) Vector(v Vec3) Vec3 {
	x := t.m[0][0]*v.X + t.m[0][1]*v.Y + t.m[0][2]*v.Z
	y := t.m[1][0]*v.X + t.m[1][1]*v.Y + t.m[1][2]*v.Z
	z := t.m[2][0]*v.X + t.m[2][1]*v.Y + t.m[2][2]*v.Z
	return NewVec3(x, y, z)
}

// Normal transforms a surface normal using the inverse transpose, which
// keeps normals perpendicular to their surface under non-uniform scale.
func (t Transform) Normal(n Vec3) Vec3 {
	x := t.mInv[0][0]*n.X + t.mInv[1][0]*n.Y + t.mInv[2][0]*n.Z
	y := t.mInv[0][1]*n.X + t.mInv[1][1]*n.Y + t.mInv[2][1]*n.Z
	z := t.mInv[0][2]*n.X + t.mInv[1][2]*n.Y + t.mInv[2][2]*n.Z
	return NewVec3(x, y, z)
}

// Ray transforms a ray's origin and direction into the target space. The
// direction is not renormalized; callers that need unit length (most
// intersection code) must call Normalize explicitly.
func (t Transform) Ray(r Ray) Ray {
	return NewRay(t.Point(r.Origin), t.Vector(r.Direction))
}
