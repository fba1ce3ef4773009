package core

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
)

func vecsClose(a, b r3.Vector, tol float64) bool {
	return a.Sub(b).Norm() <= tol
}

func TestRotation_AxisAngle(t *testing.T) {
	// Quarter turn about +Z takes +X to +Y.
	r := NewAxisAngleRotation(r3.Vector{Z: 1}, math.Pi/2)
	got := r.Apply(r3.Vector{X: 1})
	if !vecsClose(got, r3.Vector{Y: 1}, 1e-12) {
		t.Errorf("Apply = %v, want +Y", got)
	}
}

func TestRotation_IdentityAndInverse(t *testing.T) {
	v := r3.Vector{X: 1, Y: -2, Z: 3}

	if got := IdentityRotation.Apply(v); !vecsClose(got, v, 0) {
		t.Errorf("identity moved %v to %v", v, got)
	}

	r := NewAxisAngleRotation(r3.Vector{X: 1, Y: 1, Z: 0}, 0.7)
	back := r.Inverse().Apply(r.Apply(v))
	if !vecsClose(back, v, 1e-12) {
		t.Errorf("inverse round trip %v -> %v", v, back)
	}
}

func TestRotation_Compose(t *testing.T) {
	// r2 after r1: half turn about Z in two quarter turns.
	r1 := NewAxisAngleRotation(r3.Vector{Z: 1}, math.Pi/2)
	r2 := NewAxisAngleRotation(r3.Vector{Z: 1}, math.Pi/2)
	got := r2.Compose(r1).Apply(r3.Vector{X: 1})
	if !vecsClose(got, r3.Vector{X: -1}, 1e-12) {
		t.Errorf("composed rotation gives %v, want -X", got)
	}
}

func TestRotation_ComposeOrder(t *testing.T) {
	// Rotations about different axes do not commute; Compose applies its
	// argument first.
	rz := NewAxisAngleRotation(r3.Vector{Z: 1}, math.Pi/2)
	rx := NewAxisAngleRotation(r3.Vector{X: 1}, math.Pi/2)

	// X --rz--> Y --rx--> Z
	got := rx.Compose(rz).Apply(r3.Vector{X: 1})
	if !vecsClose(got, r3.Vector{Z: 1}, 1e-12) {
		t.Errorf("rx∘rz(X) = %v, want +Z", got)
	}
}

func TestRotation_Angle(t *testing.T) {
	for _, a := range []float64{0, 0.3, math.Pi / 2, 3} {
		r := NewAxisAngleRotation(r3.Vector{X: 2, Y: -1, Z: 5}, a)
		if got := r.Angle(); math.Abs(got-a) > 1e-12 {
			t.Errorf("Angle = %v, want %v", got, a)
		}
	}
}

func TestFrameRotation_OppositeOfVectorRotation(t *testing.T) {
	// Rotating the frame by +90° about Z leaves a physical +X vector with
	// coordinates along -Y in the new frame.
	r := newFrameRotation(r3.Vector{Z: 1}, math.Pi/2)
	got := r.Apply(r3.Vector{X: 1})
	if !vecsClose(got, r3.Vector{Y: -1}, 1e-12) {
		t.Errorf("frame rotation gives %v, want -Y", got)
	}
}

func TestRotation_PreservesNorm(t *testing.T) {
	r := NewAxisAngleRotation(r3.Vector{X: 1, Y: 2, Z: 3}, 1.234)
	v := r3.Vector{X: -4, Y: 0.5, Z: 9}
	if got, want := r.Apply(v).Norm(), v.Norm(); math.Abs(got-want) > 1e-12 {
		t.Errorf("norm changed: %v -> %v", want, got)
	}
}
