package ephem

import (
	"fmt"
	"time"

	"github.com/golang/geo/r3"
	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/signalsfoundry/bodygeom/core"
	"github.com/signalsfoundry/bodygeom/epoch"
)

// SampleViewpointStates propagates a TLE with SGP4 and returns nadir-pointing
// viewpoint states in the Earth-fixed frame, one per step. go-satellite works
// in kilometres, which is also the unit of the geometry layer.
func SampleViewpointStates(line1, line2 string, start time.Time, step time.Duration, count int) ([]core.ViewpointState, error) {
	if line1 == "" || line2 == "" {
		return nil, fmt.Errorf("SampleViewpointStates: empty TLE")
	}
	if count <= 0 || step <= 0 {
		return nil, fmt.Errorf("SampleViewpointStates: need positive step and count")
	}

	sat := satellite.TLEToSat(line1, line2, satellite.GravityWGS72)

	states := make([]core.ViewpointState, 0, count)
	for i := 0; i < count; i++ {
		t := start.Add(time.Duration(i) * step).UTC()
		year, month, day := t.Date()
		hour, min, sec := t.Clock()

		posECI, _ := satellite.Propagate(sat, year, int(month), day, hour, min, sec)
		jd := satellite.JDay(year, int(month), day, hour, min, sec)
		gmst := satellite.ThetaG_JD(jd)
		posECEF := satellite.ECIToECEF(posECI, gmst)

		pos := r3.Vector{X: posECEF.X, Y: posECEF.Y, Z: posECEF.Z}
		states = append(states, core.ViewpointState{
			Epoch:    epoch.FromTime(t),
			Position: pos,
			LOS:      pos.Mul(-1).Normalize(),
		})
	}
	return states, nil
}
