package math

// Plane is an infinite plane in normal-distance form: Normal.Dot(p) + D == 0
// for all points p on the plane.
type Plane struct {
	Normal Vec3
	D      float32
}

// NewPlane creates a plane passing through point with the given normal.
func NewPlane(point, normal Vec3) Plane {
	n := normal.Normalize()
	return Plane{Normal: n, D: -n.Dot(point)}
}

// PlaneFromPoints creates a plane through three points, with the normal
// following counter-clockwise winding.
func PlaneFromPoints(a, b, c Vec3) Plane {
	return NewPlane(a, NormalFromPoints(a, b, c))
}

// NormalFromPoints returns the unit normal of the triangle a, b, c.
func NormalFromPoints(a, b, c Vec3) Vec3 {
	return b.Sub(a).Cross(c.Sub(a)).Normalize()
}

// DistanceTo returns the signed distance from p to the plane.
func (pl Plane) DistanceTo(p Vec3) float32 {
	return pl.Normal.Dot(p) + pl.D
}
