package core

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// FieldOfView is the angular acceptance region of a sensor. Directions are
// expressed in the same frame as the boresight used to build the shape.
type FieldOfView interface {
	// IsInTheField reports whether the direction falls inside the field.
	IsInTheField(dir r3.Vector) bool
	// AngularDistance returns the signed angular distance (radians) to the
	// field boundary: positive inside, negative outside, zero on the edge.
	AngularDistance(dir r3.Vector) float64
}

// CircularFieldOfView is a cone of the given half aperture about a boresight.
type CircularFieldOfView struct {
	Boresight    r3.Vector
	HalfAperture float64
}

// NewCircularFieldOfView normalizes the boresight.
func NewCircularFieldOfView(boresight r3.Vector, halfAperture float64) (CircularFieldOfView, error) {
	if boresight.Norm() == 0 {
		return CircularFieldOfView{}, fmt.Errorf("NewCircularFieldOfView: zero boresight")
	}
	if halfAperture <= 0 || halfAperture >= math.Pi {
		return CircularFieldOfView{}, fmt.Errorf("NewCircularFieldOfView: half aperture %g out of (0, pi)", halfAperture)
	}
	return CircularFieldOfView{Boresight: boresight.Normalize(), HalfAperture: halfAperture}, nil
}

func (f CircularFieldOfView) AngularDistance(dir r3.Vector) float64 {
	return f.HalfAperture - float64(dir.Angle(f.Boresight))
}

func (f CircularFieldOfView) IsInTheField(dir r3.Vector) bool {
	return f.AngularDistance(dir) >= 0
}

// PyramidalFieldOfView is the intersection of the half-spaces bounded by the
// planes through the origin and two consecutive corner directions.
type PyramidalFieldOfView struct {
	normals []r3.Vector
}

// NewPyramidalFieldOfView builds a pyramid from corner directions ordered
// around the boresight; the side-plane normals are oriented inward (towards
// the boresight).
func NewPyramidalFieldOfView(boresight r3.Vector, corners ...r3.Vector) (PyramidalFieldOfView, error) {
	if len(corners) < 3 {
		return PyramidalFieldOfView{}, fmt.Errorf("NewPyramidalFieldOfView: need at least 3 corners, got %d", len(corners))
	}
	bs := boresight.Normalize()
	normals := make([]r3.Vector, 0, len(corners))
	for i := range corners {
		a := corners[i]
		b := corners[(i+1)%len(corners)]
		n := a.Cross(b)
		if n.Norm() == 0 {
			return PyramidalFieldOfView{}, fmt.Errorf("NewPyramidalFieldOfView: corners %d and %d are colinear", i, (i+1)%len(corners))
		}
		n = n.Normalize()
		if n.Dot(bs) < 0 {
			n = n.Mul(-1)
		}
		normals = append(normals, n)
	}
	return PyramidalFieldOfView{normals: normals}, nil
}

func (f PyramidalFieldOfView) AngularDistance(dir r3.Vector) float64 {
	u := dir.Normalize()
	d := math.Inf(1)
	for _, n := range f.normals {
		// Signed angular height of u above the side plane.
		if a := math.Asin(clamp(u.Dot(n), -1, 1)); a < d {
			d = a
		}
	}
	return d
}

func (f PyramidalFieldOfView) IsInTheField(dir r3.Vector) bool {
	return f.AngularDistance(dir) >= 0
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
