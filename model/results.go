package model

import (
	"github.com/golang/geo/r3"

	"github.com/signalsfoundry/bodygeom/epoch"
)

// Intersection is the result of a ray/body query: the facet that was hit and
// the hit point in the body-fixed frame. A nil *Intersection means the ray
// missed the body entirely; a miss is a normal outcome, not an error.
type Intersection struct {
	Triangle *Triangle
	Point    r3.Vector
}

// FieldData gathers the outcome of a field-of-view visibility query: the
// facets simultaneously lit, in-field and unmasked, the summed visible
// surface, and the ordered contour where the visible region meets the
// field-of-view boundary.
type FieldData struct {
	VisibleTriangles []*Triangle
	VisibleSurface   float64
	Contour          []r3.Vector
}

// SurfacePointedData bundles the line-of-sight products of a single boresight
// cast. Angles in radians, distances in kilometres. PhaseAngle is NaN when
// the sun is below the local horizon at the hit point.
type SurfacePointedData struct {
	Epoch          epoch.Epoch
	Intersection   Intersection
	Distance       float64
	Incidence      float64
	SolarIncidence float64
	PhaseAngle     float64
	Resolution     float64
}
