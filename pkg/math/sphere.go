package math

// Sphere is a bounding sphere.
type Sphere struct {
	Origin Vec3
	Radius float32
}

// IsWellFormed reports whether the sphere has a finite, non-negative radius
// and a finite origin.
func (s Sphere) IsWellFormed() bool {
	return s.Origin.IsFinite() && s.Radius >= 0 && Vec3{X: s.Radius}.IsFinite()
}

// Contains reports whether p lies inside or on the sphere.
func (s Sphere) Contains(p Vec3) bool {
	return s.Origin.Distance(p) <= s.Radius
}

// IntersectsRay reports whether the ray passes through the sphere.
func (s Sphere) IntersectsRay(r Ray) bool {
	oc := s.Origin.Sub(r.Origin)
	proj := oc.Dot(r.Direction)

	// Closest approach is behind the origin and the origin is outside.
	if proj < 0 && oc.Length() > s.Radius {
		return false
	}

	closest := r.Origin.Add(r.Direction.Scale(proj))
	return s.Origin.Distance(closest) <= s.Radius
}
