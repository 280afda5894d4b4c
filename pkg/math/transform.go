package math

// SimpleTransform is a rigid transform: a world-space position and an
// orientation. Scale is carried separately by callers that need it.
type SimpleTransform struct {
	Position    Vec3
	Orientation Quat
}

// TransformIdentity is the identity transform.
var TransformIdentity = SimpleTransform{Orientation: QuatIdentity}

// NewTransform creates a transform from a position and orientation.
func NewTransform(position Vec3, orientation Quat) SimpleTransform {
	return SimpleTransform{Position: position, Orientation: orientation}
}

// Apply transforms a point by the rotation then the translation.
func (t SimpleTransform) Apply(p Vec3) Vec3 {
	return t.Orientation.Rotate(p).Add(t.Position)
}

// Matrix returns the equivalent 4x4 matrix with the given per-axis scale.
func (t SimpleTransform) Matrix(scale Vec3) Mat4 {
	return Mat4Translate(t.Position).Mul(Mat4FromQuat(t.Orientation)).Mul(Mat4Scale(scale))
}
