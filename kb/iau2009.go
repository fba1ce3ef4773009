package kb

import (
	"fmt"
	"math"

	"github.com/signalsfoundry/bodygeom/core"
	"github.com/signalsfoundry/bodygeom/model"
)

// Coefficient sets from the IAU/IAG Working Group on Cartographic Coordinates
// and Rotational Elements, 2009 report. Published values are degrees and
// degrees per day/century; everything is converted to radians here, once.

const deg = math.Pi / 180

func poly(dep model.TimeDependency, degCoeffs ...float64) model.IAUPoleFunction {
	rad := make([]float64, len(degCoeffs))
	for i, c := range degCoeffs {
		rad[i] = c * deg
	}
	return model.PolynomialFunction(dep, rad...)
}

func sine(amplitudeDeg, phaseDeg, phaseRateDegPerDay float64) model.IAUPoleFunction {
	return model.SineFunction(model.DependencyDays, amplitudeDeg*deg, phaseDeg*deg, phaseRateDegPerDay*deg)
}

func cosine(amplitudeDeg, phaseDeg, phaseRateDegPerDay float64) model.IAUPoleFunction {
	return model.CosineFunction(model.DependencyDays, amplitudeDeg*deg, phaseDeg*deg, phaseRateDegPerDay*deg)
}

// MercuryCoefficients returns the IAU 2009 orientation series for Mercury,
// including the five librational terms of the prime meridian.
func MercuryCoefficients() model.IAUPoleCoefficients {
	return model.IAUPoleCoefficients{
		Alpha0: model.IAUPoleCoefficients1D{
			poly(model.DependencyCenturies, 281.0097, -0.0328),
		},
		Delta0: model.IAUPoleCoefficients1D{
			poly(model.DependencyCenturies, 61.4143, -0.0049),
		},
		W: model.IAUPoleCoefficients1D{
			poly(model.DependencyDays, 329.5469, 6.1385025),
			sine(0.00993822, 174.791086, 4.092335),
			sine(-0.00104581, 349.582171, 8.184670),
			sine(-0.00010280, 164.373257, 12.277005),
			sine(-0.00002364, 339.164343, 16.369340),
			sine(-0.00000532, 363.955455, 20.461675),
		},
	}
}

// VenusCoefficients returns the IAU 2009 orientation series for Venus
// (retrograde rotation).
func VenusCoefficients() model.IAUPoleCoefficients {
	return model.IAUPoleCoefficients{
		Alpha0: model.IAUPoleCoefficients1D{poly(model.DependencyCenturies, 272.76)},
		Delta0: model.IAUPoleCoefficients1D{poly(model.DependencyCenturies, 67.16)},
		W:      model.IAUPoleCoefficients1D{poly(model.DependencyDays, 160.20, -1.4813688)},
	}
}

// EarthCoefficients returns the IAU 2009 orientation series for Earth.
func EarthCoefficients() model.IAUPoleCoefficients {
	return model.IAUPoleCoefficients{
		Alpha0: model.IAUPoleCoefficients1D{poly(model.DependencyCenturies, 0.00, -0.641)},
		Delta0: model.IAUPoleCoefficients1D{poly(model.DependencyCenturies, 90.00, -0.557)},
		W:      model.IAUPoleCoefficients1D{poly(model.DependencyDays, 190.147, 360.9856235)},
	}
}

// MarsCoefficients returns the IAU 2009 orientation series for Mars.
func MarsCoefficients() model.IAUPoleCoefficients {
	return model.IAUPoleCoefficients{
		Alpha0: model.IAUPoleCoefficients1D{poly(model.DependencyCenturies, 317.68143, -0.1061)},
		Delta0: model.IAUPoleCoefficients1D{poly(model.DependencyCenturies, 52.88650, -0.0609)},
		W:      model.IAUPoleCoefficients1D{poly(model.DependencyDays, 176.630, 350.89198226)},
	}
}

// MoonCoefficients returns the IAU 2009 orientation series for the Moon,
// with the thirteen nutation/libration arguments E1..E13.
func MoonCoefficients() model.IAUPoleCoefficients {
	// Arguments Ei: phase (deg) and rate (deg/day).
	e := [13][2]float64{
		{125.045, -0.0529921}, {250.089, -0.1059842}, {260.008, 13.0120009},
		{176.625, 13.3407154}, {357.529, 0.9856003}, {311.589, 26.4057084},
		{134.963, 13.0649930}, {276.617, 0.3287146}, {34.226, 1.7484877},
		{15.134, -0.1589763}, {119.743, 0.0036096}, {239.961, 0.1643573},
		{25.053, 12.9590088},
	}
	sinE := func(amp float64, i int) model.IAUPoleFunction { return sine(amp, e[i-1][0], e[i-1][1]) }
	cosE := func(amp float64, i int) model.IAUPoleFunction { return cosine(amp, e[i-1][0], e[i-1][1]) }

	return model.IAUPoleCoefficients{
		Alpha0: model.IAUPoleCoefficients1D{
			poly(model.DependencyCenturies, 269.9949, 0.0031),
			sinE(-3.8787, 1), sinE(-0.1204, 2), sinE(0.0700, 3), sinE(-0.0172, 4),
			sinE(0.0072, 6), sinE(-0.0052, 10), sinE(0.0043, 13),
		},
		Delta0: model.IAUPoleCoefficients1D{
			poly(model.DependencyCenturies, 66.5392, 0.0130),
			cosE(1.5419, 1), cosE(0.0239, 2), cosE(-0.0278, 3), cosE(0.0068, 4),
			cosE(-0.0029, 6), cosE(0.0009, 7), cosE(0.0008, 10), cosE(-0.0009, 13),
		},
		W: model.IAUPoleCoefficients1D{
			poly(model.DependencyDays, 38.3213, 13.17635815, -1.4e-12),
			sinE(3.5610, 1), sinE(0.1208, 2), sinE(-0.0642, 3), sinE(0.0158, 4),
			sinE(0.0252, 5), sinE(-0.0066, 6), sinE(-0.0047, 7), sinE(-0.0046, 8),
			sinE(0.0028, 9), sinE(0.0052, 10), sinE(0.0040, 11), sinE(0.0019, 12),
			sinE(-0.0044, 13),
		},
	}
}

// WithIAU2009Bodies registers orientation models for the bodies the 2009
// report covers here: Mercury, Venus, Earth, Mars and the Moon.
func WithIAU2009Bodies(r *Registry) error {
	bodies := []struct {
		name string
		c    model.IAUPoleCoefficients
	}{
		{"Mercury", MercuryCoefficients()},
		{"Venus", VenusCoefficients()},
		{"Earth", EarthCoefficients()},
		{"Mars", MarsCoefficients()},
		{"Moon", MoonCoefficients()},
	}
	for _, b := range bodies {
		def := &BodyDefinition{
			Name:        b.name,
			Orientation: core.NewIAUOrientation(b.name, b.c),
		}
		if err := r.AddBody(def); err != nil {
			return fmt.Errorf("WithIAU2009Bodies: %w", err)
		}
	}
	return nil
}
