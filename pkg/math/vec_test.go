package math

import (
	gomath "math"
	"testing"
)

const epsilon = 1e-5

func almostEqual(a, b float32) bool {
	return gomath.Abs(float64(a-b)) < epsilon
}

func vecAlmostEqual(a, b Vec3) bool {
	return almostEqual(a.X, b.X) && almostEqual(a.Y, b.Y) && almostEqual(a.Z, b.Z)
}

func TestVec3_Cross(t *testing.T) {
	got := UnitX.Cross(UnitY)
	if !vecAlmostEqual(got, UnitZ) {
		t.Errorf("UnitX x UnitY = %v, expected %v", got, UnitZ)
	}
}

func TestVec3_Normalize(t *testing.T) {
	v := Vec3{3, 0, 4}
	n := v.Normalize()
	if !almostEqual(n.Length(), 1) {
		t.Errorf("normalized length = %f, expected 1", n.Length())
	}

	// Zero vector stays zero rather than producing NaN
	z := Vec3{}.Normalize()
	if z != (Vec3{}) {
		t.Errorf("Vec3{}.Normalize() = %v, expected zero vector", z)
	}
}

func TestVec3_Lerp(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{2, 4, 6}

	mid := a.Lerp(b, 0.5)
	if !vecAlmostEqual(mid, Vec3{1, 2, 3}) {
		t.Errorf("lerp(0.5) = %v, expected {1 2 3}", mid)
	}
	if !vecAlmostEqual(a.Lerp(b, 0), a) {
		t.Error("lerp(0) should return the first vector")
	}
	if !vecAlmostEqual(a.Lerp(b, 1), b) {
		t.Error("lerp(1) should return the second vector")
	}
}

func TestVec3_IsFinite(t *testing.T) {
	tests := []struct {
		v        Vec3
		expected bool
	}{
		{Vec3{1, 2, 3}, true},
		{Vec3{float32(gomath.NaN()), 0, 0}, false},
		{Vec3{0, float32(gomath.Inf(1)), 0}, false},
	}

	for _, tc := range tests {
		if tc.v.IsFinite() != tc.expected {
			t.Errorf("%v.IsFinite() = %v, expected %v", tc.v, tc.v.IsFinite(), tc.expected)
		}
	}
}

func TestQuat_Rotate(t *testing.T) {
	// 90 degrees around Z maps X onto Y
	q := QuatFromAxisAngle(UnitZ, gomath.Pi/2)
	got := q.Rotate(UnitX)
	if !vecAlmostEqual(got, UnitY) {
		t.Errorf("rotated vector = %v, expected %v", got, UnitY)
	}
}

func TestMat4_TransformPoint(t *testing.T) {
	m := Mat4Translate(Vec3{1, 2, 3})
	got := m.TransformPoint(Vec3{10, 0, 0})
	if !vecAlmostEqual(got, Vec3{11, 2, 3}) {
		t.Errorf("translated point = %v, expected {11 2 3}", got)
	}

	s := Mat4Scale(Vec3{2, 2, 2})
	got = s.TransformPoint(Vec3{1, 2, 3})
	if !vecAlmostEqual(got, Vec3{2, 4, 6}) {
		t.Errorf("scaled point = %v, expected {2 4 6}", got)
	}
}

func TestMat4_MulIdentity(t *testing.T) {
	m := Mat4Translate(Vec3{5, 6, 7}).Mul(Mat4Identity())
	got := m.TransformPoint(Vec3{})
	if !vecAlmostEqual(got, Vec3{5, 6, 7}) {
		t.Errorf("m * identity transform = %v, expected {5 6 7}", got)
	}
}

func TestSimpleTransform_Apply(t *testing.T) {
	tr := NewTransform(Vec3{0, 0, 5}, QuatFromAxisAngle(UnitZ, gomath.Pi/2))
	got := tr.Apply(UnitX)
	if !vecAlmostEqual(got, Vec3{0, 1, 5}) {
		t.Errorf("transformed point = %v, expected {0 1 5}", got)
	}
}
