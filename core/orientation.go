package core

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/signalsfoundry/bodygeom/epoch"
	"github.com/signalsfoundry/bodygeom/model"
)

// OrientationModelType selects the coefficient variant of an orientation
// model when several are defined. TrueOfDate is the default variant.
type OrientationModelType int

const (
	TrueOfDate OrientationModelType = iota
	MeanOfDate
)

// Transformation names the rotations an orientation model exposes.
type Transformation int

const (
	// ICRFToInertial aligns the ICRF axes with the body equator and node.
	ICRFToInertial Transformation = iota
	// InertialToRotating spins the inertial body frame by the prime meridian
	// angle.
	InertialToRotating
	// ICRFToRotating is the composition of the two.
	ICRFToRotating
)

// userDefinedLabel is the fixed String() label of models built from caller
// supplied coefficients.
const userDefinedLabel = "User-defined coefficients"

// IAUOrientation evaluates a body's pole direction and prime meridian angle,
// with time derivatives, from immutable IAU coefficient series. It is
// stateless beyond holding the coefficient variants; concurrent queries are
// safe.
type IAUOrientation struct {
	name        string
	userDefined bool
	variants    map[OrientationModelType]model.IAUPoleCoefficients
}

// NewIAUOrientation builds an evaluator with a single coefficient variant
// served for every model type.
func NewIAUOrientation(name string, c model.IAUPoleCoefficients) *IAUOrientation {
	return &IAUOrientation{
		name: name,
		variants: map[OrientationModelType]model.IAUPoleCoefficients{
			TrueOfDate: c,
			MeanOfDate: c,
		},
	}
}

// NewIAUOrientationWithVariants builds an evaluator distinguishing true-of-
// date and mean-of-date coefficient sets.
func NewIAUOrientationWithVariants(name string, variants map[OrientationModelType]model.IAUPoleCoefficients) *IAUOrientation {
	vs := make(map[OrientationModelType]model.IAUPoleCoefficients, len(variants))
	for k, v := range variants {
		vs[k] = v
	}
	if _, ok := vs[TrueOfDate]; !ok {
		vs[TrueOfDate] = vs[MeanOfDate]
	}
	if _, ok := vs[MeanOfDate]; !ok {
		vs[MeanOfDate] = vs[TrueOfDate]
	}
	return &IAUOrientation{name: name, variants: vs}
}

// NewUserDefinedIAUOrientation builds an evaluator from caller-supplied
// coefficients. Nil or empty series are valid and evaluate to an identity
// orientation with zero rates.
func NewUserDefinedIAUOrientation(c model.IAUPoleCoefficients) *IAUOrientation {
	o := NewIAUOrientation(userDefinedLabel, c)
	o.userDefined = true
	return o
}

func (o *IAUOrientation) String() string {
	if o.userDefined {
		return userDefinedLabel
	}
	return o.name
}

// evaluate1D sums a term series and its analytic derivative at a date. The
// derivative is chained through the days-or-centuries basis of each term, so
// the returned rate is in radians per second. Nil and empty series evaluate
// to exactly (0, 0).
func evaluate1D(c model.IAUPoleCoefficients1D, e epoch.Epoch) (angle, rate float64) {
	days := e.DaysPastJ2000()
	centuries := e.CenturiesPastJ2000()
	for _, f := range c {
		t := days
		scale := epoch.SecondsPerDay
		if f.Dependency == model.DependencyCenturies {
			t = centuries
			scale = epoch.SecondsPerDay * epoch.DaysPerCentury
		}
		angle += f.Value(t)
		rate += f.Derivative(t) / scale
	}
	return angle, rate
}

// Alpha0 returns the pole right ascension and its rate (rad, rad/s).
func (o *IAUOrientation) Alpha0(e epoch.Epoch) (float64, float64) {
	return evaluate1D(o.variants[TrueOfDate].Alpha0, e)
}

// Delta0 returns the pole declination and its rate (rad, rad/s).
func (o *IAUOrientation) Delta0(e epoch.Epoch) (float64, float64) {
	return evaluate1D(o.variants[TrueOfDate].Delta0, e)
}

// PrimeMeridianAngle returns the rotation angle W (rad).
func (o *IAUOrientation) PrimeMeridianAngle(e epoch.Epoch) float64 {
	w, _ := evaluate1D(o.variants[TrueOfDate].W, e)
	return w
}

// PrimeMeridianRate returns the analytic time derivative of W (rad/s).
func (o *IAUOrientation) PrimeMeridianRate(e epoch.Epoch) float64 {
	_, rate := evaluate1D(o.variants[TrueOfDate].W, e)
	return rate
}

// Pole returns the pole unit vector in ICRF for the default variant.
func (o *IAUOrientation) Pole(e epoch.Epoch) r3.Vector {
	return o.PoleFor(e, TrueOfDate)
}

// PoleFor returns the pole unit vector in ICRF for an explicit variant.
func (o *IAUOrientation) PoleFor(e epoch.Epoch, m OrientationModelType) r3.Vector {
	alpha, _ := evaluate1D(o.variants[m].Alpha0, e)
	delta, _ := evaluate1D(o.variants[m].Delta0, e)
	sinA, cosA := math.Sincos(alpha)
	sinD, cosD := math.Sincos(delta)
	return r3.Vector{X: cosD * cosA, Y: cosD * sinA, Z: sinD}
}

// PoleDerivative returns the analytic time derivative of the pole unit vector
// in ICRF (1/s).
func (o *IAUOrientation) PoleDerivative(e epoch.Epoch) r3.Vector {
	c := o.variants[TrueOfDate]
	alpha, dAlpha := evaluate1D(c.Alpha0, e)
	delta, dDelta := evaluate1D(c.Delta0, e)
	sinA, cosA := math.Sincos(alpha)
	sinD, cosD := math.Sincos(delta)
	return r3.Vector{
		X: -sinD*cosA*dDelta - cosD*sinA*dAlpha,
		Y: -sinD*sinA*dDelta + cosD*cosA*dAlpha,
		Z: cosD * dDelta,
	}
}

// AngularCoordinates returns the default rotation and spin: the ICRF-to-
// rotating transformation of the default variant. It is the same call as
// AngularCoordinatesFor(e, ICRFToRotating, TrueOfDate).
func (o *IAUOrientation) AngularCoordinates(e epoch.Epoch) (Rotation, r3.Vector) {
	return o.AngularCoordinatesFor(e, ICRFToRotating, TrueOfDate)
}

// AngularCoordinatesFor returns the coordinate rotation of the named
// transformation and the angular velocity of the target frame with respect to
// ICRF, expressed in the target frame (rad/s).
func (o *IAUOrientation) AngularCoordinatesFor(e epoch.Epoch, tr Transformation, m OrientationModelType) (Rotation, r3.Vector) {
	c := o.variants[m]
	alpha, dAlpha := evaluate1D(c.Alpha0, e)
	delta, dDelta := evaluate1D(c.Delta0, e)
	w, dW := evaluate1D(c.W, e)

	zAxis := r3.Vector{Z: 1}
	xAxis := r3.Vector{X: 1}

	icrfToInertial := newFrameRotation(xAxis, math.Pi/2-delta).
		Compose(newFrameRotation(zAxis, math.Pi/2+alpha))

	switch tr {
	case ICRFToInertial:
		// The inertial body frame moves only through the slow pole drift.
		omega := omegaICRF(alpha, dAlpha, dDelta, 0, o.PoleFor(e, m))
		return icrfToInertial, icrfToInertial.Apply(omega)
	case InertialToRotating:
		spin := newFrameRotation(zAxis, w)
		return spin, r3.Vector{Z: dW}
	default:
		rot := newFrameRotation(zAxis, w).Compose(icrfToInertial)
		omega := omegaICRF(alpha, dAlpha, dDelta, dW, o.PoleFor(e, m))
		return rot, rot.Apply(omega)
	}
}

// TransformProvider adapts the orientation model into a frame-tree provider
// for the ICRF-to-rotating transform of the default variant.
func (o *IAUOrientation) TransformProvider() TransformProvider {
	return orientationProvider{o: o}
}

type orientationProvider struct {
	o *IAUOrientation
}

func (p orientationProvider) TransformAt(e epoch.Epoch) (Transform, error) {
	rot, _ := p.o.AngularCoordinates(e)
	return Transform{Rotation: rot}, nil
}

// omegaICRF assembles the instantaneous rotation vector of the body frame in
// ICRF: right-ascension drift about the ICRF pole, declination drift about
// the descending node axis, and the prime meridian spin about the body pole.
func omegaICRF(alpha, dAlpha, dDelta, dW float64, pole r3.Vector) r3.Vector {
	sinA, cosA := math.Sincos(alpha)
	node := r3.Vector{X: -sinA, Y: cosA}
	return r3.Vector{Z: dAlpha}.Sub(node.Mul(dDelta)).Add(pole.Mul(dW))
}
