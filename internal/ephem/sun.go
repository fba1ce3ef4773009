package ephem

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/soniakeys/meeus/v3/solar"

	"github.com/signalsfoundry/bodygeom/core"
	"github.com/signalsfoundry/bodygeom/epoch"
)

// AUKilometers is the astronomical unit in kilometres.
const AUKilometers = 149597870.7

// AnalyticSun is a kernel-free sun position provider built on the apparent
// solar coordinates of the Meeus series: direction good to ~0.01 degrees,
// distance fixed at one AU. Sufficient for eclipse and illumination-angle
// geometry; use a JPLProvider when kernel accuracy is needed.
type AnalyticSun struct {
	icrf *core.Frame
}

// NewAnalyticSun builds a provider expressing its states in the given
// ICRF-aligned root frame.
func NewAnalyticSun(icrf *core.Frame) *AnalyticSun {
	return &AnalyticSun{icrf: icrf}
}

// PVCoordinates returns the geocentric sun position (km) and velocity (km/s)
// in the requested frame. The velocity is a central finite difference over
// one minute, plenty for the phase-angle uses this provider serves.
func (s *AnalyticSun) PVCoordinates(e epoch.Epoch, frame *core.Frame) (r3.Vector, r3.Vector, error) {
	pos := sunPosition(e)
	const half = 30.0
	before := sunPosition(e.ShiftedBy(-half))
	after := sunPosition(e.ShiftedBy(half))
	vel := after.Sub(before).Mul(1 / (2 * half))

	if frame == nil || frame == s.icrf {
		return pos, vel, nil
	}
	tf, err := s.icrf.TransformTo(frame, e)
	if err != nil {
		return r3.Vector{}, r3.Vector{}, err
	}
	return tf.TransformPosition(pos), tf.TransformVector(vel), nil
}

func sunPosition(e epoch.Epoch) r3.Vector {
	ra, dec := solar.ApparentEquatorial(e.JulianDate())
	sinRA, cosRA := math.Sincos(ra.Rad())
	sinDec, cosDec := math.Sincos(dec.Rad())
	return r3.Vector{
		X: cosDec * cosRA,
		Y: cosDec * sinRA,
		Z: sinDec,
	}.Mul(AUKilometers)
}
