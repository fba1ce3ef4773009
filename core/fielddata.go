package core

import (
	"fmt"
	"math"
	"sort"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/floats"

	"github.com/signalsfoundry/bodygeom/model"
)

// FieldStrategy selects how the field-of-view visibility scan walks the mesh.
type FieldStrategy int

const (
	// StandardFieldScan tests every facet of the mesh.
	StandardFieldScan FieldStrategy = iota
	// FastFieldScan propagates outward from the facet hit by the boresight,
	// following vertex-sharing neighbors. For fields approaching or exceeding
	// a hemisphere it tends to miss facets of disjoint visible regions; this
	// divergence from the standard scan is a documented limitation of the
	// strategy, kept as such.
	FastFieldScan
)

// maskTolerance is the relative slack of the self-masking abscissa test.
const maskTolerance = 1e-6

// FieldData determines the facets simultaneously facing the viewpoint, fully
// inside the field of view, and not masked by another part of the body. The
// viewpoint state and the field of view are both expressed in the body-fixed
// frame. Visible surface is the sum of visible facet areas; the contour holds
// boundary points lying on the field-of-view angular edge, ordered around the
// boresight.
func (b *FacetBodyShape) FieldData(view ViewpointState, fov FieldOfView, strategy FieldStrategy) (*model.FieldData, error) {
	if fov == nil {
		return nil, fmt.Errorf("FieldData: nil field of view")
	}

	var visible []*model.Triangle
	switch strategy {
	case StandardFieldScan:
		for _, t := range b.triangles {
			if b.triangleVisible(t, view, fov) {
				visible = append(visible, t)
			}
		}
	case FastFieldScan:
		visible = b.fastFieldScan(view, fov)
	default:
		return nil, fmt.Errorf("FieldData: unknown strategy %d", strategy)
	}

	areas := make([]float64, len(visible))
	for i, t := range visible {
		areas[i] = t.Area()
	}

	return &model.FieldData{
		VisibleTriangles: visible,
		VisibleSurface:   floats.Sum(areas),
		Contour:          b.fieldContour(visible, view, fov),
	}, nil
}

// triangleVisible applies the three-way test: facet facing the viewpoint, all
// three vertices inside the field, no vertex masked by the body itself.
func (b *FacetBodyShape) triangleVisible(t *model.Triangle, view ViewpointState, fov FieldOfView) bool {
	if !t.FacesViewpoint(view.Position) {
		return false
	}
	for _, v := range t.Vertices() {
		if !fov.IsInTheField(v.Position.Sub(view.Position)) {
			return false
		}
	}
	for _, v := range t.Vertices() {
		if b.vertexMasked(view.Position, v.Position) {
			return false
		}
	}
	return true
}

// vertexMasked casts an auxiliary ray from the viewpoint to the vertex and
// reports whether some other part of the body is hit strictly before it.
func (b *FacetBodyShape) vertexMasked(viewpoint, vertex r3.Vector) bool {
	l, err := model.NewLineFromPoints(viewpoint, vertex)
	if err != nil {
		return true
	}
	hit := b.intersectionBody(l)
	if hit == nil {
		return false
	}
	sVertex := l.Abscissa(vertex)
	sHit := l.Abscissa(hit.Point)
	return sHit < sVertex*(1-maskTolerance)
}

// fastFieldScan grows the visible set from the facet hit by the boresight.
// The propagation front crosses any facet with at least one vertex in the
// field, so the scan covers the full connected in-field region without
// walking the whole mesh.
func (b *FacetBodyShape) fastFieldScan(view ViewpointState, fov FieldOfView) []*model.Triangle {
	l, err := model.NewLine(view.Position, view.LOS)
	if err != nil {
		return nil
	}
	seed := b.intersectionBody(l)
	if seed == nil {
		return nil
	}

	var visible []*model.Triangle
	queue := []*model.Triangle{seed.Triangle}
	enqueued := map[int]bool{seed.Triangle.ID: true}
	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]

		if b.triangleVisible(t, view, fov) {
			visible = append(visible, t)
		} else if t != seed.Triangle && !b.anyVertexInField(t, view, fov) {
			continue
		}
		for _, n := range t.Neighbors() {
			if !enqueued[n.ID] {
				enqueued[n.ID] = true
				queue = append(queue, n)
			}
		}
	}

	// Restore mesh order so both strategies report identical sets.
	sort.Slice(visible, func(i, j int) bool { return visible[i].ID < visible[j].ID })
	return visible
}

func (b *FacetBodyShape) anyVertexInField(t *model.Triangle, view ViewpointState, fov FieldOfView) bool {
	for _, v := range t.Vertices() {
		if fov.IsInTheField(v.Position.Sub(view.Position)) {
			return true
		}
	}
	return false
}

// fieldContour locates, on every mesh edge leaving the visible region, the
// point whose direction from the viewpoint lies on the field-of-view edge,
// and orders the points by azimuth around the boresight. Visible facets have
// all three vertices inside the field, so the sign change sits on the edges
// running from their vertices outward to out-of-field neighbor vertices.
func (b *FacetBodyShape) fieldContour(visible []*model.Triangle, view ViewpointState, fov FieldOfView) []r3.Vector {
	type edgeKey struct{ a, b int }
	seen := make(map[edgeKey]bool)
	var points []r3.Vector

	for _, t := range visible {
		for _, va := range t.Vertices() {
			for _, adj := range va.Triangles() {
				for _, vb := range adj.Vertices() {
					if vb.ID == va.ID {
						continue
					}
					key := edgeKey{a: va.ID, b: vb.ID}
					if va.ID > vb.ID {
						key = edgeKey{a: vb.ID, b: va.ID}
					}
					if seen[key] {
						continue
					}
					seen[key] = true

					if p, ok := crossingOnEdge(va.Position, vb.Position, view, fov); ok {
						points = append(points, p)
					}
				}
			}
		}
	}

	sortByAzimuth(points, view)
	return points
}

// crossingOnEdge bisects the edge [pa, pb] for the point whose angular
// distance to the field boundary vanishes. Edges entirely inside the field
// (boundaries caused by facing or masking, not by the field itself) report no
// crossing.
func crossingOnEdge(pa, pb r3.Vector, view ViewpointState, fov FieldOfView) (r3.Vector, bool) {
	da := fov.AngularDistance(pa.Sub(view.Position))
	db := fov.AngularDistance(pb.Sub(view.Position))
	if da >= 0 && db >= 0 {
		return r3.Vector{}, false
	}
	if da < 0 && db < 0 {
		return r3.Vector{}, false
	}

	lo, hi := 0.0, 1.0
	if da < 0 {
		lo, hi = 1.0, 0.0
	}
	// 60 halvings put the point at the angular boundary to full double
	// precision.
	for i := 0; i < 60; i++ {
		mid := (lo + hi) / 2
		p := pa.Add(pb.Sub(pa).Mul(mid))
		if fov.AngularDistance(p.Sub(view.Position)) >= 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	s := (lo + hi) / 2
	return pa.Add(pb.Sub(pa).Mul(s)), true
}

func sortByAzimuth(points []r3.Vector, view ViewpointState) {
	los := view.LOS.Normalize()
	u := los.Ortho()
	v := los.Cross(u)
	sort.Slice(points, func(i, j int) bool {
		return contourAzimuth(points[i], view.Position, u, v) < contourAzimuth(points[j], view.Position, u, v)
	})
}

func contourAzimuth(p, viewpoint r3.Vector, u, v r3.Vector) float64 {
	d := p.Sub(viewpoint)
	return math.Atan2(d.Dot(v), d.Dot(u))
}
