package core

import "testing"

func TestAABBHit(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))

	tests := []struct {
		name string
		ray  Ray
		want bool
	}{
		{"through center", NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, 1)), true},
		{"miss to the side", NewRay(NewVec3(5, 5, -5), NewVec3(0, 0, 1)), false},
		{"parallel inside", NewRay(NewVec3(0, 0, 0), NewVec3(1, 0, 0)), true},
		{"parallel outside", NewRay(NewVec3(5, 5, 5), NewVec3(1, 0, 0)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := box.Hit(tt.ray, Epsilon, Infinity); got != tt.want {
				t.Errorf("Hit() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAABBUnion(t *testing.T) {
	a := NewAABB(NewVec3(0, 0, 0), NewVec3(1, 1, 1))
	b := NewAABB(NewVec3(-1, -1, -1), NewVec3(0.5, 0.5, 0.5))

	got := a.Union(b)
	want := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))
	if got != want {
		t.Errorf("Union() = %v, want %v", got, want)
	}
}

func TestAABBLongestAxis(t *testing.T) {
	box := NewAABB(NewVec3(0, 0, 0), NewVec3(1, 5, 2))
	if got := box.LongestAxis(); got != 1 {
		t.Errorf("LongestAxis() = %v, want 1", got)
	}
}

func TestAABBIsValid(t *testing.T) {
	valid := NewAABB(NewVec3(0, 0, 0), NewVec3(1, 1, 1))
	if !valid.IsValid() {
		t.Error("expected valid AABB")
	}
	invalid := NewAABB(NewVec3(1, 0, 0), NewVec3(0, 1, 1))
	if invalid.IsValid() {
		t.Error("expected invalid AABB")
	}
}
