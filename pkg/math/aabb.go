package math

// AABB is an axis-aligned bounding box. The zero value is an empty box that
// contains no points; adding the first point initializes both corners.
type AABB struct {
	Min, Max Vec3

	initialized bool
}

// NewAABB creates a box from min and max corners, swapping components where
// needed so that Min <= Max on every axis.
func NewAABB(min, max Vec3) AABB {
	if min.X > max.X {
		min.X, max.X = max.X, min.X
	}
	if min.Y > max.Y {
		min.Y, max.Y = max.Y, min.Y
	}
	if min.Z > max.Z {
		min.Z, max.Z = max.Z, min.Z
	}
	return AABB{Min: min, Max: max, initialized: true}
}

// IsEmpty reports whether no points have been added to this box.
func (b *AABB) IsEmpty() bool {
	return !b.initialized
}

// AddPoint grows the box to contain p.
func (b *AABB) AddPoint(p Vec3) {
	if !b.initialized {
		b.Min = p
		b.Max = p
		b.initialized = true
		return
	}

	if p.X < b.Min.X {
		b.Min.X = p.X
	}
	if p.Y < b.Min.Y {
		b.Min.Y = p.Y
	}
	if p.Z < b.Min.Z {
		b.Min.Z = p.Z
	}
	if p.X > b.Max.X {
		b.Max.X = p.X
	}
	if p.Y > b.Max.Y {
		b.Max.Y = p.Y
	}
	if p.Z > b.Max.Z {
		b.Max.Z = p.Z
	}
}

// Merge grows the box to contain other.
func (b *AABB) Merge(other AABB) {
	if other.IsEmpty() {
		return
	}
	b.AddPoint(other.Min)
	b.AddPoint(other.Max)
}

// Center returns the midpoint of the box.
func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Contains reports whether p lies inside or on the box.
func (b AABB) Contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}
