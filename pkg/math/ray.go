package math

// Ray is a ray in 3D space with a normalized direction.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

const rayEpsilon = 1e-7

// IntersectTriangle tests the ray against the triangle v0, v1, v2 using the
// Moller-Trumbore algorithm. Returns the distance along the ray and whether
// an intersection in front of the origin was found. Backfacing triangles are
// reported as hits.
func (r Ray) IntersectTriangle(v0, v1, v2 Vec3) (t float32, hit bool) {
	e1 := v1.Sub(v0)
	e2 := v2.Sub(v0)

	p := r.Direction.Cross(e2)
	det := e1.Dot(p)
	if det > -rayEpsilon && det < rayEpsilon {
		return 0, false // Ray parallel to triangle plane
	}
	invDet := 1 / det

	tv := r.Origin.Sub(v0)
	u := tv.Dot(p) * invDet
	if u < 0 || u > 1 {
		return 0, false
	}

	q := tv.Cross(e1)
	v := r.Direction.Dot(q) * invDet
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t = e2.Dot(q) * invDet
	if t < 0 {
		return 0, false // Intersection behind ray origin
	}
	return t, true
}
