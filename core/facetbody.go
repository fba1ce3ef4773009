package core

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"

	"github.com/signalsfoundry/bodygeom/epoch"
	"github.com/signalsfoundry/bodygeom/model"
)

// PVProvider supplies position and velocity of a body (km, km/s) expressed in
// the requested frame at the requested date. Implementations may fail when
// the date is outside their data range; such failures propagate to callers
// unmodified.
type PVProvider interface {
	PVCoordinates(e epoch.Epoch, frame *Frame) (pos, vel r3.Vector, err error)
}

// ViewpointState is one sampled sensor state, expressed in the body-fixed
// frame of the shape being queried: sensor position and unit boresight
// direction at a date.
type ViewpointState struct {
	Epoch    epoch.Epoch
	Position r3.Vector
	LOS      r3.Vector
}

// FacetBodyShape is an immutable triangle mesh approximating a closed body
// surface, attached to a body-fixed frame, together with optional companion
// ellipsoids keyed by shape kind. All queries are read-only and safe for
// concurrent use once the shape is built.
type FacetBodyShape struct {
	name      string
	bodyFrame *Frame
	vertices  []*model.Vertex
	triangles []*model.Triangle

	minRadius float64
	maxRadius float64

	ellipsoids map[model.ShapeKind]model.OneAxisEllipsoid
}

// NewFacetBodyShape builds a shape over an already-consistent vertex/triangle
// set (as produced by LoadMesh) and precomputes the bounding radii.
func NewFacetBodyShape(name string, bodyFrame *Frame, vertices []*model.Vertex, triangles []*model.Triangle) (*FacetBodyShape, error) {
	if bodyFrame == nil {
		return nil, fmt.Errorf("NewFacetBodyShape: body %q has no body-fixed frame", name)
	}
	if len(triangles) == 0 {
		return nil, fmt.Errorf("NewFacetBodyShape: body %q has no triangles", name)
	}

	minR, maxR := math.Inf(1), math.Inf(-1)
	for _, v := range vertices {
		r := v.Position.Norm()
		if r < minR {
			minR = r
		}
		if r > maxR {
			maxR = r
		}
	}

	return &FacetBodyShape{
		name:       name,
		bodyFrame:  bodyFrame,
		vertices:   vertices,
		triangles:  triangles,
		minRadius:  minR,
		maxRadius:  maxR,
		ellipsoids: make(map[model.ShapeKind]model.OneAxisEllipsoid),
	}, nil
}

// Name returns the body name.
func (b *FacetBodyShape) Name() string { return b.name }

// Frame returns the body-fixed frame.
func (b *FacetBodyShape) Frame() *Frame { return b.bodyFrame }

// Triangles returns the facets in mesh order.
func (b *FacetBodyShape) Triangles() []*model.Triangle { return b.triangles }

// Vertices returns the shared vertex set.
func (b *FacetBodyShape) Vertices() []*model.Vertex { return b.vertices }

// MinRadius returns the smallest vertex-to-center distance.
func (b *FacetBodyShape) MinRadius() float64 { return b.minRadius }

// MaxRadius returns the largest vertex-to-center distance.
func (b *FacetBodyShape) MaxRadius() float64 { return b.maxRadius }

// AttachEllipsoid registers a companion ellipsoid under the given kind.
// Attachment happens during construction, before concurrent querying starts.
func (b *FacetBodyShape) AttachEllipsoid(kind model.ShapeKind, e model.OneAxisEllipsoid) {
	b.ellipsoids[kind] = e
}

// Ellipsoid returns the companion ellipsoid registered under kind.
func (b *FacetBodyShape) Ellipsoid(kind model.ShapeKind) (model.OneAxisEllipsoid, bool) {
	e, ok := b.ellipsoids[kind]
	return e, ok
}

// Intersection transforms the line from the given frame into the body-fixed
// frame at the given date and returns the forward intersection nearest to the
// line origin, or nil when the ray misses every facet.
func (b *FacetBodyShape) Intersection(l model.Line, frame *Frame, e epoch.Epoch) (*model.Intersection, error) {
	bodyLine, err := b.toBodyFrame(l, frame, e)
	if err != nil {
		return nil, err
	}
	return b.intersectionBody(bodyLine), nil
}

// intersectionBody runs the intersection scan on a line already expressed in
// the body-fixed frame.
func (b *FacetBodyShape) intersectionBody(l model.Line) *model.Intersection {
	best := math.Inf(1)
	var hit *model.Intersection
	for _, t := range b.triangles {
		p, ok := t.IntersectionWith(l)
		if !ok {
			continue
		}
		s := l.Abscissa(p)
		if s < 0 || s >= best {
			continue
		}
		best = s
		hit = &model.Intersection{Triangle: t, Point: p}
	}
	return hit
}

// DistanceTo returns 0 when the line crosses the body, otherwise the minimum
// over all facets of the facet-local distance. For concave regions this is a
// lower-bound heuristic, not an exact surface distance.
func (b *FacetBodyShape) DistanceTo(l model.Line, frame *Frame, e epoch.Epoch) (float64, error) {
	bodyLine, err := b.toBodyFrame(l, frame, e)
	if err != nil {
		return 0, err
	}
	if b.intersectionBody(bodyLine) != nil {
		return 0, nil
	}
	d := math.Inf(1)
	for _, t := range b.triangles {
		if td := t.DistanceTo(bodyLine); td < d {
			d = td
		}
	}
	return d, nil
}

// Neighbors returns exactly the facets whose center lies within maxDistance
// of the given facet's center (the origin facet included, its center being at
// distance zero). The scan is linear over the mesh; results are in mesh
// order.
func (b *FacetBodyShape) Neighbors(t *model.Triangle, maxDistance float64) []*model.Triangle {
	return b.NeighborsOfPoint(t.Center(), maxDistance)
}

// NeighborsOfPoint returns exactly the facets whose center lies within
// maxDistance of the given body-frame point.
func (b *FacetBodyShape) NeighborsOfPoint(p r3.Vector, maxDistance float64) []*model.Triangle {
	var res []*model.Triangle
	for _, t := range b.triangles {
		if t.Center().Sub(p).Norm() <= maxDistance {
			res = append(res, t)
		}
	}
	return res
}

// NeighborsOfGeodetic resolves a geodetic origin against the companion
// ellipsoid registered under kind, then searches facet centers around the
// resulting body-frame point.
func (b *FacetBodyShape) NeighborsOfGeodetic(gp model.GeodeticPoint, kind model.ShapeKind, maxDistance float64) ([]*model.Triangle, error) {
	ell, ok := b.ellipsoids[kind]
	if !ok {
		return nil, fmt.Errorf("NeighborsOfGeodetic: body %q has no ellipsoid of kind %d", b.name, kind)
	}
	return b.NeighborsOfPoint(ell.CartesianFromGeodetic(gp), maxDistance), nil
}

// IsInEclipse reports whether the body occludes the sun as seen from
// position: the position-to-sun segment intersects the mesh and the hit point
// lies strictly between the two (dot-product sign ordering).
func (b *FacetBodyShape) IsInEclipse(e epoch.Epoch, position r3.Vector, frame *Frame, sun PVProvider) (bool, error) {
	tf, err := frame.TransformTo(b.bodyFrame, e)
	if err != nil {
		return false, err
	}
	pos := tf.TransformPosition(position)

	sunPos, _, err := sun.PVCoordinates(e, b.bodyFrame)
	if err != nil {
		return false, err
	}

	l, err := model.NewLineFromPoints(pos, sunPos)
	if err != nil {
		return false, err
	}
	hit := b.intersectionBody(l)
	if hit == nil {
		return false, nil
	}
	// Strictly between: positive going one way, negative the other.
	toSun := sunPos.Sub(pos)
	fromPos := hit.Point.Sub(pos).Dot(toSun)
	fromSun := hit.Point.Sub(sunPos).Dot(toSun)
	return fromPos > 0 && fromSun < 0, nil
}

// LocalAltitude returns the distance from a body-frame point down to the
// faceted surface along the direction to the body center. It fails when the
// nadir ray misses the mesh, which only happens for points inside the
// bounding cavity of a pathological mesh.
func (b *FacetBodyShape) LocalAltitude(p r3.Vector) (float64, error) {
	l, err := model.NewLine(p, p.Mul(-1))
	if err != nil {
		return 0, fmt.Errorf("LocalAltitude: point at body center")
	}
	hit := b.intersectionBody(l)
	if hit == nil {
		return 0, fmt.Errorf("LocalAltitude: nadir ray from (%g, %g, %g) misses body %q", p.X, p.Y, p.Z, b.name)
	}
	return hit.Point.Sub(p).Norm(), nil
}

// SurfacePointedDataEphemeris casts the boresight of every viewpoint state at
// the mesh and derives the line-of-sight products. It fails on the first
// state whose boresight misses the body rather than returning partial or
// defaulted data.
func (b *FacetBodyShape) SurfacePointedDataEphemeris(states []ViewpointState, sun PVProvider, pixelFOV float64) ([]model.SurfacePointedData, error) {
	res := make([]model.SurfacePointedData, 0, len(states))
	for i, st := range states {
		l, err := model.NewLine(st.Position, st.LOS)
		if err != nil {
			return nil, fmt.Errorf("SurfacePointedDataEphemeris: state %d: %w", i, err)
		}
		hit := b.intersectionBody(l)
		if hit == nil {
			return nil, fmt.Errorf("SurfacePointedDataEphemeris: state %d at %s: boresight does not intersect body %q", i, st.Epoch, b.name)
		}

		sunPos, _, err := sun.PVCoordinates(st.Epoch, b.bodyFrame)
		if err != nil {
			return nil, err
		}

		n := hit.Triangle.Normal()
		toView := st.Position.Sub(hit.Point)
		toSun := sunPos.Sub(hit.Point)
		distance := toView.Norm()

		incidence := float64(n.Angle(toView))
		solarIncidence := float64(n.Angle(toSun))
		phase := math.NaN()
		if solarIncidence < math.Pi/2 {
			phase = float64(toView.Angle(toSun))
		}

		res = append(res, model.SurfacePointedData{
			Epoch:          st.Epoch,
			Intersection:   *hit,
			Distance:       distance,
			Incidence:      incidence,
			SolarIncidence: solarIncidence,
			PhaseAngle:     phase,
			Resolution:     distance * pixelFOV / math.Cos(incidence),
		})
	}
	return res, nil
}

// StatisticsForRadialDistance accumulates, over all facet centers, the signed
// difference between the center's distance from the body origin and the
// companion ellipsoid's radius along the same direction.
func (b *FacetBodyShape) StatisticsForRadialDistance(kind model.ShapeKind) (*SummaryStatistics, error) {
	ell, ok := b.ellipsoids[kind]
	if !ok {
		return nil, fmt.Errorf("StatisticsForRadialDistance: body %q has no ellipsoid of kind %d", b.name, kind)
	}
	stats := &SummaryStatistics{}
	for _, t := range b.triangles {
		c := t.Center()
		stats.Add(c.Norm() - ell.RadiusInDirection(c))
	}
	return stats, nil
}

// StatisticsForAltitude accumulates the signed geodetic altitude of every
// facet center above the companion ellipsoid. For a spherical mesh evaluated
// against a concentric zero-flattening ellipsoid this coincides exactly with
// the radial-distance statistic.
func (b *FacetBodyShape) StatisticsForAltitude(kind model.ShapeKind) (*SummaryStatistics, error) {
	ell, ok := b.ellipsoids[kind]
	if !ok {
		return nil, fmt.Errorf("StatisticsForAltitude: body %q has no ellipsoid of kind %d", b.name, kind)
	}
	stats := &SummaryStatistics{}
	for _, t := range b.triangles {
		stats.Add(ell.Altitude(t.Center()))
	}
	return stats, nil
}

func (b *FacetBodyShape) toBodyFrame(l model.Line, frame *Frame, e epoch.Epoch) (model.Line, error) {
	if frame == nil || frame == b.bodyFrame {
		return l, nil
	}
	tf, err := frame.TransformTo(b.bodyFrame, e)
	if err != nil {
		return model.Line{}, err
	}
	return tf.TransformLine(l), nil
}
