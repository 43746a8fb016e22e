package core

import "sort"

// BVH is a bounding volume hierarchy over an arbitrary set of primitives
// identified only by index; it knows nothing about what a primitive is, so
// it can back both a triangle mesh's internal acceleration structure and a
// scene's instance aggregate. Callers supply a per-leaf test closure.
type BVH struct {
	nodes []bvhNode
	order []int // permutation of primitive indices, grouped by leaf
}

type bvhNode struct {
	bounds      AABB
	left, right int // child node indices into nodes; -1 marks a leaf
	start, count int // leaf range into order
}

const bvhLeafThreshold = 4

// NewBVH builds a BVH over n primitives given their bounding boxes.
func NewBVH(bounds []AABB) *BVH {
	n := len(bounds)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}

	b := &BVH{order: order}
	if n > 0 {
		b.build(bounds, 0, n)
	}
	return b
}

// build recursively partitions order[start:end] by a median split along the
// longest axis of the primitives' combined bounds, the same simple
// median-split strategy (no SAH) the teacher's BVH uses for regular scenes.
func (b *BVH) build(bounds []AABB, start, end int) int {
	var box AABB
	for i := start; i < end; i++ {
		if i == start {
			box = bounds[b.order[i]]
		} else {
			box = box.Union(bounds[b.order[i]])
		}
	}

	nodeIndex := len(b.nodes)
	b.nodes = append(b.nodes, bvhNode{bounds: box, left: -1, right: -1})

	if end-start <= bvhLeafThreshold {
		b.nodes[nodeIndex].start = start
		b.nodes[nodeIndex].count = end - start
		return nodeIndex
	}

	axis := box.LongestAxis()
	slice := b.order[start:end]
	sort.Slice(slice, func(i, j int) bool {
		ci := bounds[slice[i]].Center()
		cj := bounds[slice[j]].Center()
		switch axis {
		case 0:
			return ci.X < cj.X
		case 1:
			return ci.Y < cj.Y
		default:
			return ci.Z < cj.Z
		}
	})

	mid := start + (end-start)/2
	left := b.build(bounds, start, mid)
	right := b.build(bounds, mid, end)
	b.nodes[nodeIndex].left = left
	b.nodes[nodeIndex].right = right
	return nodeIndex
}

// Intersect walks the hierarchy in tMin..tMax, calling test for every
// primitive in a leaf whose bounds the ray could still reach, tightening
// tMax as test reports closer hits. It returns true if any call to test
// returned true.
func (b *BVH) Intersect(ray Ray, tMin, tMax float64, test func(primitive int, tMax float64) (newTMax float64, hit bool)) bool {
	if len(b.nodes) == 0 {
		return false
	}
	found := false
	b.intersectNode(0, ray, tMin, &tMax, test, &found)
	return found
}

func (b *BVH) intersectNode(nodeIndex int, ray Ray, tMin float64, tMax *float64, test func(int, float64) (float64, bool), found *bool) {
	node := &b.nodes[nodeIndex]
	if !node.bounds.Hit(ray, tMin, *tMax) {
		return
	}

	if node.left == -1 {
		for i := node.start; i < node.start+node.count; i++ {
			idx := b.order[i]
			if newTMax, hit := test(idx, *tMax); hit {
				*tMax = newTMax
				*found = true
			}
		}
		return
	}

	b.intersectNode(node.left, ray, tMin, tMax, test, found)
	b.intersectNode(node.right, ray, tMin, tMax, test, found)
}

// AllHits visits every primitive in a leaf the ray's bounds could reach
// within tMin..tMax, without short-circuiting on the first or closest
// result; used by transmittance queries that need the product of every
// instance's occlusion along the ray, not just the nearest or any hit.
func (b *BVH) AllHits(ray Ray, tMin, tMax float64, visit func(primitive int)) {
	if len(b.nodes) == 0 {
		return
	}
	b.allHitsNode(0, ray, tMin, tMax, visit)
}

func (b *BVH) allHitsNode(nodeIndex int, ray Ray, tMin, tMax float64, visit func(int)) {
	node := &b.nodes[nodeIndex]
	if !node.bounds.Hit(ray, tMin, tMax) {
		return
	}

	if node.left == -1 {
		for i := node.start; i < node.start+node.count; i++ {
			visit(b.order[i])
		}
		return
	}

	b.allHitsNode(node.left, ray, tMin, tMax, visit)
	b.allHitsNode(node.right, ray, tMin, tMax, visit)
}

// AnyHit walks the hierarchy looking for any primitive whose test returns
// true within tMin..tMax, short-circuiting as soon as one is found; used
// for occlusion/transmittance queries that don't need the closest hit.
func (b *BVH) AnyHit(ray Ray, tMin, tMax float64, test func(primitive int) bool) bool {
	if len(b.nodes) == 0 {
		return false
	}
	return b.anyHitNode(0, ray, tMin, tMax, test)
}

func (b *BVH) anyHitNode(nodeIndex int, ray Ray, tMin, tMax float64, test func(int) bool) bool {
	node := &b.nodes[nodeIndex]
	if !node.bounds.Hit(ray, tMin, tMax) {
		return false
	}

	if node.left == -1 {
		for i := node.start; i < node.start+node.count; i++ {
			if test(b.order[i]) {
				return true
			}
		}
		return false
	}

	return b.anyHitNode(node.left, ray, tMin, tMax, test) || b.anyHitNode(node.right, ray, tMin, tMax, test)
}
