package model

import "math"

// TimeDependency declares the basis variable of one IAU pole term: elapsed
// days or elapsed Julian centuries since the reference epoch. Both are
// derived from the same elapsed-seconds value by fixed conversion factors.
type TimeDependency int

const (
	DependencyDays TimeDependency = iota
	DependencyCenturies
)

// FunctionForm is the functional form of one IAU pole term. Constants are
// polynomials of degree zero.
type FunctionForm int

const (
	FormPolynomial FunctionForm = iota
	FormSine
	FormCosine
)

// IAUPoleFunction is one term of an IAU orientation series: either a
// polynomial in the basis variable, or a harmonic with a linearly
// time-dependent phase. All angles in radians, rates in radians per basis
// unit.
type IAUPoleFunction struct {
	Dependency TimeDependency
	Form       FunctionForm

	// Poly holds polynomial coefficients, constant term first.
	Poly []float64

	// Amplitude, Phase and PhaseRate define harmonic terms:
	// Amplitude * sin(Phase + PhaseRate*t) (or cos).
	Amplitude float64
	Phase     float64
	PhaseRate float64
}

// PolynomialFunction builds a polynomial term, constant coefficient first.
func PolynomialFunction(dep TimeDependency, coeffs ...float64) IAUPoleFunction {
	return IAUPoleFunction{Dependency: dep, Form: FormPolynomial, Poly: coeffs}
}

// SineFunction builds an amplitude*sin(phase + phaseRate*t) term.
func SineFunction(dep TimeDependency, amplitude, phase, phaseRate float64) IAUPoleFunction {
	return IAUPoleFunction{Dependency: dep, Form: FormSine, Amplitude: amplitude, Phase: phase, PhaseRate: phaseRate}
}

// CosineFunction builds an amplitude*cos(phase + phaseRate*t) term.
func CosineFunction(dep TimeDependency, amplitude, phase, phaseRate float64) IAUPoleFunction {
	return IAUPoleFunction{Dependency: dep, Form: FormCosine, Amplitude: amplitude, Phase: phase, PhaseRate: phaseRate}
}

// Value evaluates the term at basis variable t.
func (f IAUPoleFunction) Value(t float64) float64 {
	switch f.Form {
	case FormSine:
		return f.Amplitude * math.Sin(f.Phase+f.PhaseRate*t)
	case FormCosine:
		return f.Amplitude * math.Cos(f.Phase+f.PhaseRate*t)
	default:
		v := 0.0
		for i := len(f.Poly) - 1; i >= 0; i-- {
			v = v*t + f.Poly[i]
		}
		return v
	}
}

// Derivative evaluates the analytic derivative with respect to the basis
// variable at t.
func (f IAUPoleFunction) Derivative(t float64) float64 {
	switch f.Form {
	case FormSine:
		return f.Amplitude * f.PhaseRate * math.Cos(f.Phase+f.PhaseRate*t)
	case FormCosine:
		return -f.Amplitude * f.PhaseRate * math.Sin(f.Phase+f.PhaseRate*t)
	default:
		v := 0.0
		for i := len(f.Poly) - 1; i >= 1; i-- {
			v = v*t + float64(i)*f.Poly[i]
		}
		return v
	}
}

// IAUPoleCoefficients1D is the ordered term list of one orientation angle.
// A nil or empty list evaluates to angle 0 and derivative 0 exactly.
type IAUPoleCoefficients1D []IAUPoleFunction

// IAUPoleCoefficients fully defines a body orientation model: the right
// ascension, declination and prime meridian series.
type IAUPoleCoefficients struct {
	Alpha0 IAUPoleCoefficients1D
	Delta0 IAUPoleCoefficients1D
	W      IAUPoleCoefficients1D
}
