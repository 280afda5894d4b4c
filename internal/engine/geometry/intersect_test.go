package geometry

import (
	"testing"

	kmath "github.com/kilnworks/kiln/pkg/math"
)

func TestIntersect(t *testing.T) {
	// One triangle in the z=0 plane plus a second one further away.
	c := newPositionChunk(t, [][3]float32{
		{-1, -1, 0}, {1, -1, 0}, {0, 1, 0},
		{-1, -1, 5}, {1, -1, 5}, {0, 1, 5},
	})
	if err := c.SetupIndexData([]DrawItem{NewDrawItem(TriangleList, 6, 0)}, []uint32{0, 1, 2, 3, 4, 5}); err != nil {
		t.Fatalf("setting up index data: %v", err)
	}

	ray := kmath.Ray{
		Origin:    kmath.Vec3{X: 0, Y: 0, Z: -2},
		Direction: kmath.Vec3{Z: 1},
	}

	hits := c.Intersect(ray)
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}

	// Hits are unordered; collect distances.
	distances := map[float32]bool{}
	for _, h := range hits {
		distances[h.Distance] = true
		if h.Normal.X != 0 || h.Normal.Y != 0 {
			t.Errorf("expected normal along z, got %+v", h.Normal)
		}
	}
	if !distances[2] || !distances[7] {
		t.Errorf("expected hit distances 2 and 7, got %v", distances)
	}
}

func TestIntersectMiss(t *testing.T) {
	c := newPositionChunk(t, [][3]float32{{-1, -1, 0}, {1, -1, 0}, {0, 1, 0}})
	if err := c.SetupIndexData([]DrawItem{NewDrawItem(TriangleList, 3, 0)}, []uint32{0, 1, 2}); err != nil {
		t.Fatalf("setting up index data: %v", err)
	}

	// Parallel to the triangle plane, far away.
	ray := kmath.Ray{
		Origin:    kmath.Vec3{X: 100, Y: 100, Z: -2},
		Direction: kmath.Vec3{X: 1},
	}
	if hits := c.Intersect(ray); len(hits) != 0 {
		t.Errorf("expected no hits, got %d", len(hits))
	}

	// Pointing away from the triangle.
	ray = kmath.Ray{
		Origin:    kmath.Vec3{X: 0, Y: 0, Z: -2},
		Direction: kmath.Vec3{Z: -1},
	}
	if hits := c.Intersect(ray); len(hits) != 0 {
		t.Errorf("expected no hits behind the ray, got %d", len(hits))
	}
}

func TestIntersectStrip(t *testing.T) {
	// A quad as a strip; a ray through each half hits exactly once.
	c := newPositionChunk(t, [][3]float32{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0},
	})
	if err := c.SetupIndexData([]DrawItem{NewDrawItem(TriangleStrip, 4, 0)}, []uint32{0, 1, 2, 3}); err != nil {
		t.Fatalf("setting up index data: %v", err)
	}

	ray := kmath.Ray{
		Origin:    kmath.Vec3{X: 0.25, Y: 0.25, Z: -1},
		Direction: kmath.Vec3{Z: 1},
	}
	hits := c.Intersect(ray)
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit in lower triangle, got %d", len(hits))
	}
	if hits[0].Distance != 1 {
		t.Errorf("expected hit distance 1, got %g", hits[0].Distance)
	}

	ray.Origin = kmath.Vec3{X: 0.75, Y: 0.75, Z: -1}
	if hits := c.Intersect(ray); len(hits) != 1 {
		t.Errorf("expected 1 hit in upper triangle, got %d", len(hits))
	}
}

func TestIntersectNoPositionStream(t *testing.T) {
	c := NewChunk()
	if err := c.AddVertexStream(NewVertexStream(ColorStream, 4, TypeUint8)); err != nil {
		t.Fatalf("adding color stream: %v", err)
	}
	ray := kmath.Ray{Origin: kmath.Vec3{}, Direction: kmath.Vec3{Z: 1}}
	if hits := c.Intersect(ray); hits != nil {
		t.Errorf("expected nil hits without positions, got %v", hits)
	}
}
