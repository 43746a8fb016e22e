package core

import "testing"

func boxAt(x float64) AABB {
	return NewAABB(NewVec3(x-0.1, -0.1, -0.1), NewVec3(x+0.1, 0.1, 0.1))
}

func TestBVHIntersectFindsClosest(t *testing.T) {
	bounds := []AABB{boxAt(0), boxAt(5), boxAt(10)}
	bvh := NewBVH(bounds)

	ray := NewRay(NewVec3(-100, 0, 0), NewVec3(1, 0, 0))

	var hitIndex int
	found := bvh.Intersect(ray, Epsilon, Infinity, func(primitive int, tMax float64) (float64, bool) {
		b := bounds[primitive]
		center := b.Center().X
		if center+100 < tMax { // distance from the ray origin at x=-100
			hitIndex = primitive
			return center + 100, true
		}
		return tMax, false
	})

	if !found {
		t.Fatal("expected to find a primitive")
	}
	if hitIndex != 0 {
		t.Errorf("expected closest primitive 0, got %d", hitIndex)
	}
}

func TestBVHAnyHitShortCircuits(t *testing.T) {
	bounds := []AABB{boxAt(0), boxAt(5)}
	bvh := NewBVH(bounds)
	ray := NewRay(NewVec3(-100, 0, 0), NewVec3(1, 0, 0))

	calls := 0
	found := bvh.AnyHit(ray, Epsilon, Infinity, func(primitive int) bool {
		calls++
		return true
	})
	if !found {
		t.Fatal("expected a hit")
	}
	if calls == 0 {
		t.Error("expected at least one test call")
	}
}

func TestBVHEmpty(t *testing.T) {
	bvh := NewBVH(nil)
	ray := NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, 1))
	if bvh.Intersect(ray, Epsilon, Infinity, func(int, float64) (float64, bool) { return 0, true }) {
		t.Error("empty BVH should never report a hit")
	}
}
