package core

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Rotation is a unit-quaternion rotation of 3-vectors.
type Rotation struct {
	q quat.Number
}

// IdentityRotation leaves vectors unchanged.
var IdentityRotation = Rotation{q: quat.Number{Real: 1}}

// NewAxisAngleRotation builds the rotation of vectors by angle (radians,
// right-handed) about the given axis.
func NewAxisAngleRotation(axis r3.Vector, angle float64) Rotation {
	u := axis.Normalize()
	s, c := math.Sincos(angle / 2)
	return Rotation{q: quat.Number{Real: c, Imag: u.X * s, Jmag: u.Y * s, Kmag: u.Z * s}}
}

// newFrameRotation builds the coordinate transform corresponding to rotating
// the frame by angle about axis: vector coordinates rotate the opposite way.
func newFrameRotation(axis r3.Vector, angle float64) Rotation {
	return NewAxisAngleRotation(axis, -angle)
}

// Apply rotates v.
func (r Rotation) Apply(v r3.Vector) r3.Vector {
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	res := quat.Mul(quat.Mul(r.q, p), quat.Conj(r.q))
	return r3.Vector{X: res.Imag, Y: res.Jmag, Z: res.Kmag}
}

// Compose returns the rotation applying o first, then r.
func (r Rotation) Compose(o Rotation) Rotation {
	return Rotation{q: quat.Mul(r.q, o.q)}
}

// Inverse returns the reverse rotation.
func (r Rotation) Inverse() Rotation {
	return Rotation{q: quat.Conj(r.q)}
}

// Angle returns the rotation angle in [0, pi].
func (r Rotation) Angle() float64 {
	v := math.Sqrt(r.q.Imag*r.q.Imag + r.q.Jmag*r.q.Jmag + r.q.Kmag*r.q.Kmag)
	return 2 * math.Atan2(v, math.Abs(r.q.Real))
}
