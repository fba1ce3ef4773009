// Package epoch provides the continuous time scale the geometry and
// orientation engines evaluate on: seconds past the J2000 reference epoch,
// with the derived days/centuries bases used by IAU coefficient series.
package epoch

import (
	"fmt"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

const (
	// SecondsPerDay is the number of SI seconds in a Julian day.
	SecondsPerDay = 86400.0
	// DaysPerCentury is the number of days in a Julian century.
	DaysPerCentury = 36525.0
	// J2000JulianDate is the Julian date of the J2000 reference epoch.
	J2000JulianDate = 2451545.0
)

// Epoch is an instant on the dynamical time scale, stored as seconds past
// J2000. The zero value is J2000 itself.
type Epoch struct {
	sec float64
}

// J2000 is the reference epoch (2000-01-01T12:00:00 TDB).
var J2000 = Epoch{}

// FromSecondsPastJ2000 builds an epoch from elapsed seconds since J2000.
func FromSecondsPastJ2000(s float64) Epoch {
	return Epoch{sec: s}
}

// FromJulianDate builds an epoch from a Julian date.
func FromJulianDate(jd float64) Epoch {
	return Epoch{sec: (jd - J2000JulianDate) * SecondsPerDay}
}

// FromTime converts a wall-clock instant. The conversion goes through the
// Julian day of the UTC instant and ignores the UTC-to-dynamical-time offset
// (about 69 s); callers needing that accuracy should build epochs from
// seconds directly.
func FromTime(t time.Time) Epoch {
	return FromJulianDate(julian.TimeToJD(t.UTC()))
}

// ShiftedBy returns the epoch offset by the given number of seconds.
func (e Epoch) ShiftedBy(seconds float64) Epoch {
	return Epoch{sec: e.sec + seconds}
}

// DurationFrom returns the elapsed seconds from other to e.
func (e Epoch) DurationFrom(other Epoch) float64 {
	return e.sec - other.sec
}

// SecondsPastJ2000 returns the elapsed seconds since J2000.
func (e Epoch) SecondsPastJ2000() float64 { return e.sec }

// JulianDate returns the Julian date of the epoch.
func (e Epoch) JulianDate() float64 {
	return J2000JulianDate + e.sec/SecondsPerDay
}

// DaysPastJ2000 returns the elapsed days since J2000.
func (e Epoch) DaysPastJ2000() float64 {
	return e.sec / SecondsPerDay
}

// CenturiesPastJ2000 returns the elapsed Julian centuries since J2000.
func (e Epoch) CenturiesPastJ2000() float64 {
	return e.sec / (SecondsPerDay * DaysPerCentury)
}

// Time converts back to a wall-clock instant with the same caveat as
// FromTime.
func (e Epoch) Time() time.Time {
	y, m, d := julian.JDToCalendar(e.JulianDate())
	day, frac := int(d), d-float64(int(d))
	t := time.Date(y, time.Month(m), day, 0, 0, 0, 0, time.UTC)
	return t.Add(time.Duration(frac * 24 * float64(time.Hour)))
}

func (e Epoch) String() string {
	return fmt.Sprintf("JD %.6f", e.JulianDate())
}
