package math

import "testing"

func TestAABB_AddPoint(t *testing.T) {
	var box AABB
	if !box.IsEmpty() {
		t.Fatal("zero AABB should be empty")
	}

	box.AddPoint(Vec3{1, 2, 3})
	if box.Min != (Vec3{1, 2, 3}) || box.Max != (Vec3{1, 2, 3}) {
		t.Errorf("first point should set both corners, got min=%v max=%v", box.Min, box.Max)
	}

	box.AddPoint(Vec3{-1, 5, 0})
	if box.Min != (Vec3{-1, 2, 0}) {
		t.Errorf("min = %v, expected {-1 2 0}", box.Min)
	}
	if box.Max != (Vec3{1, 5, 3}) {
		t.Errorf("max = %v, expected {1 5 3}", box.Max)
	}
}

func TestAABB_Merge(t *testing.T) {
	a := NewAABB(Vec3{0, 0, 0}, Vec3{1, 1, 1})
	b := NewAABB(Vec3{-2, 0, 0}, Vec3{0, 3, 0})

	a.Merge(b)
	if a.Min != (Vec3{-2, 0, 0}) || a.Max != (Vec3{1, 3, 1}) {
		t.Errorf("merged box = min %v max %v", a.Min, a.Max)
	}

	// Merging an empty box changes nothing
	before := a
	a.Merge(AABB{})
	if a != before {
		t.Error("merging an empty box should not change the target")
	}
}

func TestNewAABB_SwapsCorners(t *testing.T) {
	box := NewAABB(Vec3{1, -1, 5}, Vec3{-1, 1, 0})
	if box.Min != (Vec3{-1, -1, 0}) || box.Max != (Vec3{1, 1, 5}) {
		t.Errorf("corners not normalized: min %v max %v", box.Min, box.Max)
	}
}

func TestSphere_IntersectsRay(t *testing.T) {
	s := Sphere{Origin: Vec3{0, 0, 10}, Radius: 1}

	tests := []struct {
		name string
		ray  Ray
		hit  bool
	}{
		{"through center", Ray{Vec3{0, 0, 0}, Vec3{0, 0, 1}}, true},
		{"misses", Ray{Vec3{0, 5, 0}, Vec3{0, 0, 1}}, false},
		{"behind origin", Ray{Vec3{0, 0, 20}, Vec3{0, 0, 1}}, false},
		{"starts inside", Ray{Vec3{0, 0, 10}, Vec3{0, 0, 1}}, true},
	}

	for _, tc := range tests {
		if got := s.IntersectsRay(tc.ray); got != tc.hit {
			t.Errorf("%s: got %v, expected %v", tc.name, got, tc.hit)
		}
	}
}

func TestRay_IntersectTriangle(t *testing.T) {
	v0 := Vec3{-1, -1, 5}
	v1 := Vec3{1, -1, 5}
	v2 := Vec3{0, 1, 5}

	ray := Ray{Origin: Vec3{0, 0, 0}, Direction: Vec3{0, 0, 1}}
	dist, hit := ray.IntersectTriangle(v0, v1, v2)
	if !hit {
		t.Fatal("expected hit through triangle center")
	}
	if !almostEqual(dist, 5) {
		t.Errorf("distance = %f, expected 5", dist)
	}

	miss := Ray{Origin: Vec3{5, 5, 0}, Direction: Vec3{0, 0, 1}}
	if _, hit := miss.IntersectTriangle(v0, v1, v2); hit {
		t.Error("expected miss outside the triangle")
	}

	behind := Ray{Origin: Vec3{0, 0, 10}, Direction: Vec3{0, 0, 1}}
	if _, hit := behind.IntersectTriangle(v0, v1, v2); hit {
		t.Error("triangle behind the ray origin should not hit")
	}
}

func TestPlaneFromPoints(t *testing.T) {
	p := PlaneFromPoints(Vec3{0, 0, 0}, Vec3{1, 0, 0}, Vec3{0, 1, 0})
	if !vecAlmostEqual(p.Normal, UnitZ) {
		t.Errorf("normal = %v, expected %v", p.Normal, UnitZ)
	}
	if !almostEqual(p.DistanceTo(Vec3{0, 0, 3}), 3) {
		t.Errorf("distance = %f, expected 3", p.DistanceTo(Vec3{0, 0, 3}))
	}
}

func TestColor_RGBA8(t *testing.T) {
	tests := []struct {
		color    Color
		expected uint32
	}{
		{ColorWhite, 0xffffffff},
		{Color{0, 0, 0, 0}, 0},
		{ColorRed, 0xff0000ff},
		{Color{2, -1, 0, 1}, 0xff0000ff}, // components clamp
	}

	for _, tc := range tests {
		if got := tc.color.RGBA8(); got != tc.expected {
			t.Errorf("%v.RGBA8() = %#x, expected %#x", tc.color, got, tc.expected)
		}
	}
}
