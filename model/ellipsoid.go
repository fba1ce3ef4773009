package model

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// ShapeKind selects one of the alternate shape representations attached to a
// faceted body.
type ShapeKind int

const (
	// ShapeFittedEllipsoid is the best-fit ellipsoid of the faceted surface.
	ShapeFittedEllipsoid ShapeKind = iota
	// ShapeInscribedSphere is the largest sphere contained in the surface.
	ShapeInscribedSphere
	// ShapeFaceted tags the triangle mesh itself.
	ShapeFaceted
)

// GeodeticPoint locates a surface point relative to a reference ellipsoid.
// Angles in radians, altitude in kilometres.
type GeodeticPoint struct {
	Latitude  float64
	Longitude float64
	Altitude  float64
}

// OneAxisEllipsoid is an immutable rotation ellipsoid used as a companion
// shape for altitude and statistics computations. Radii in kilometres.
type OneAxisEllipsoid struct {
	EquatorialRadius float64
	Flattening       float64
}

// NewOneAxisEllipsoid builds an ellipsoid from its equatorial radius and
// flattening. A zero flattening yields a sphere.
func NewOneAxisEllipsoid(equatorialRadius, flattening float64) (OneAxisEllipsoid, error) {
	if equatorialRadius <= 0 {
		return OneAxisEllipsoid{}, fmt.Errorf("NewOneAxisEllipsoid: equatorial radius %v must be positive", equatorialRadius)
	}
	if flattening < 0 || flattening >= 1 {
		return OneAxisEllipsoid{}, fmt.Errorf("NewOneAxisEllipsoid: flattening %v outside [0, 1)", flattening)
	}
	return OneAxisEllipsoid{EquatorialRadius: equatorialRadius, Flattening: flattening}, nil
}

// PolarRadius returns the semi-minor axis.
func (e OneAxisEllipsoid) PolarRadius() float64 {
	return e.EquatorialRadius * (1 - e.Flattening)
}

// RadiusInDirection returns the distance from the ellipsoid center to its
// surface along the given (not necessarily unit) direction.
func (e OneAxisEllipsoid) RadiusInDirection(dir r3.Vector) float64 {
	u := dir.Normalize()
	a := e.EquatorialRadius
	b := e.PolarRadius()
	den := (u.X*u.X+u.Y*u.Y)/(a*a) + (u.Z*u.Z)/(b*b)
	return 1 / math.Sqrt(den)
}

// Transform converts a body-frame cartesian point to geodetic coordinates
// using Bowring's method with one refinement of the parametric angle. Exact
// for zero flattening; for planetary flattenings the error stays well below
// a millimetre from the surface out to geostationary altitude.
func (e OneAxisEllipsoid) Transform(p r3.Vector) GeodeticPoint {
	a := e.EquatorialRadius
	b := e.PolarRadius()
	e2 := e.Flattening * (2 - e.Flattening)

	rho := math.Hypot(p.X, p.Y)
	lon := math.Atan2(p.Y, p.X)

	if rho == 0 {
		// On the polar axis.
		lat := math.Pi / 2
		if p.Z < 0 {
			lat = -lat
		}
		return GeodeticPoint{Latitude: lat, Longitude: lon, Altitude: math.Abs(p.Z) - b}
	}

	if e2 == 0 {
		r := p.Norm()
		return GeodeticPoint{
			Latitude:  math.Asin(p.Z / r),
			Longitude: lon,
			Altitude:  r - a,
		}
	}

	ep2 := (a*a - b*b) / (b * b)
	latFromParametric := func(theta float64) float64 {
		sinT, cosT := math.Sincos(theta)
		return math.Atan2(p.Z+ep2*b*sinT*sinT*sinT, rho-e2*a*cosT*cosT*cosT)
	}

	lat := latFromParametric(math.Atan2(p.Z*a, rho*b))
	// The first estimate drifts a few nanoradians per thousand kilometres of
	// altitude; one refinement pins it down.
	sinLat, cosLat := math.Sincos(lat)
	lat = latFromParametric(math.Atan2((1-e.Flattening)*sinLat, cosLat))

	sinLat, cosLat = math.Sincos(lat)
	alt := rho*cosLat + p.Z*sinLat - a*math.Sqrt(1-e2*sinLat*sinLat)
	return GeodeticPoint{Latitude: lat, Longitude: lon, Altitude: alt}
}

// Altitude returns the signed geodetic altitude of a body-frame point.
func (e OneAxisEllipsoid) Altitude(p r3.Vector) float64 {
	return e.Transform(p).Altitude
}

// CartesianFromGeodetic converts geodetic coordinates back to a body-frame
// cartesian point.
func (e OneAxisEllipsoid) CartesianFromGeodetic(gp GeodeticPoint) r3.Vector {
	e2 := e.Flattening * (2 - e.Flattening)
	sinLat, cosLat := math.Sincos(gp.Latitude)
	sinLon, cosLon := math.Sincos(gp.Longitude)
	n := e.EquatorialRadius / math.Sqrt(1-e2*sinLat*sinLat)
	return r3.Vector{
		X: (n + gp.Altitude) * cosLat * cosLon,
		Y: (n + gp.Altitude) * cosLat * sinLon,
		Z: (n*(1-e2) + gp.Altitude) * sinLat,
	}
}
