// Package picking provides ray casting and chunk picking utilities.
package picking

import (
	"sort"

	"github.com/kilnworks/kiln/internal/engine/geometry"
	kmath "github.com/kilnworks/kiln/pkg/math"
)

// ScreenToRay converts screen coordinates to a world-space ray.
// screenX, screenY are pixel coordinates, viewportW/H are viewport
// dimensions. view and projection are the camera matrices of the frame.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, view, projection kmath.Mat4) (kmath.Ray, bool) {
	invViewProj, ok := projection.Mul(view).Inverse()
	if !ok {
		return kmath.Ray{}, false
	}

	// Normalized device coords (-1 to 1), Y flipped
	ndcX := 2.0*screenX/viewportW - 1.0
	ndcY := 1.0 - 2.0*screenY/viewportH

	nearWorld := invViewProj.MulVec4([4]float32{ndcX, ndcY, -1, 1})
	farWorld := invViewProj.MulVec4([4]float32{ndcX, ndcY, 1, 1})

	if nearWorld[3] == 0 || farWorld[3] == 0 {
		return kmath.Ray{}, false
	}

	origin := kmath.Vec3{
		X: nearWorld[0] / nearWorld[3],
		Y: nearWorld[1] / nearWorld[3],
		Z: nearWorld[2] / nearWorld[3],
	}
	far := kmath.Vec3{
		X: farWorld[0] / farWorld[3],
		Y: farWorld[1] / farWorld[3],
		Z: farWorld[2] / farWorld[3],
	}

	dir := far.Sub(origin)
	if dir.Length() == 0 {
		return kmath.Ray{}, false
	}

	return kmath.Ray{Origin: origin, Direction: dir.Normalize()}, true
}

// Hit is one ray/chunk intersection in world space.
type Hit struct {
	Chunk    *geometry.Chunk
	Distance float32
	Point    kmath.Vec3
	Normal   kmath.Vec3
}

// PickChunk intersects a world-space ray with a chunk placed at the given
// transform and returns hits sorted nearest first.
func PickChunk(ray kmath.Ray, c *geometry.Chunk, transform kmath.SimpleTransform, scale kmath.Vec3) []Hit {
	world := transform.Matrix(scale)
	invWorld, ok := world.Inverse()
	if !ok {
		return nil
	}

	// Intersect in chunk-local space. Distances along a scaled local ray
	// do not match world units, so hit points are mapped back through the
	// world matrix before measuring.
	localOrigin := invWorld.TransformPoint(ray.Origin)
	localDir := invWorld.TransformDirection(ray.Direction)
	if localDir.Length() == 0 {
		return nil
	}
	localRay := kmath.Ray{Origin: localOrigin, Direction: localDir.Normalize()}

	results := c.Intersect(localRay)
	if len(results) == 0 {
		return nil
	}

	hits := make([]Hit, 0, len(results))
	for _, res := range results {
		localPoint := localRay.Origin.Add(localRay.Direction.Scale(res.Distance))
		point := world.TransformPoint(localPoint)
		hits = append(hits, Hit{
			Chunk:    c,
			Distance: point.Distance(ray.Origin),
			Point:    point,
			Normal:   world.TransformDirection(res.Normal).Normalize(),
		})
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits
}
