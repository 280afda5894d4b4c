package geometry

import (
	kmath "github.com/kilnworks/kiln/pkg/math"
)

// IntersectionResult is one ray/triangle hit against a chunk.
type IntersectionResult struct {
	Distance float32
	Normal   kmath.Vec3
}

// Intersect tests the ray against every triangle of every draw item and
// returns all hits. Results are unordered; callers wanting the nearest hit
// sort by distance. A bounding-sphere pre-test rejects rays that cannot hit
// the chunk at all.
func (c *Chunk) Intersect(ray kmath.Ray) []IntersectionResult {
	s := c.positionStream()
	if s == nil || c.vertexCount == 0 {
		return nil
	}

	sphere := c.BoundingSphere()
	if sphere.IsWellFormed() && !sphere.IntersectsRay(ray) {
		return nil
	}

	var results []IntersectionResult
	for _, tri := range c.Triangles() {
		p0 := c.position(int(tri[0]), s.Offset)
		p1 := c.position(int(tri[1]), s.Offset)
		p2 := c.position(int(tri[2]), s.Offset)

		if t, ok := ray.IntersectTriangle(p0, p1, p2); ok {
			results = append(results, IntersectionResult{
				Distance: t,
				Normal:   kmath.NormalFromPoints(p0, p1, p2),
			})
		}
	}
	return results
}
