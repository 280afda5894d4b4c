package math

import "testing"

func TestMat4_Inverse(t *testing.T) {
	m := Mat4Translate(Vec3{3, -2, 7}).Mul(Mat4Scale(Vec3{2, 4, 0.5}))

	inv, ok := m.Inverse()
	if !ok {
		t.Fatal("Inverse() reported singular for an invertible matrix")
	}

	points := []Vec3{{0, 0, 0}, {1, 2, 3}, {-5, 0.5, 12}}
	for _, p := range points {
		back := inv.TransformPoint(m.TransformPoint(p))
		if !vecAlmostEqual(back, p) {
			t.Errorf("inverse round trip of %v = %v", p, back)
		}
	}
}

func TestMat4_InverseSingular(t *testing.T) {
	m := Mat4Scale(Vec3{1, 0, 1}) // Collapses the Y axis

	if _, ok := m.Inverse(); ok {
		t.Error("Inverse() of a singular matrix reported ok")
	}
}

func TestMat4_MulVec4(t *testing.T) {
	m := Mat4Translate(Vec3{1, 2, 3})

	got := m.MulVec4([4]float32{5, 6, 7, 1})
	want := [4]float32{6, 8, 10, 1}
	for i := range want {
		if !almostEqual(got[i], want[i]) {
			t.Fatalf("MulVec4 = %v, expected %v", got, want)
		}
	}

	// Directions (w=0) ignore translation
	got = m.MulVec4([4]float32{5, 6, 7, 0})
	want = [4]float32{5, 6, 7, 0}
	for i := range want {
		if !almostEqual(got[i], want[i]) {
			t.Fatalf("MulVec4 direction = %v, expected %v", got, want)
		}
	}
}
