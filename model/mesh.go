package model

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// insideEps is the normalized tolerance of the point-in-triangle sign test.
const insideEps = 1e-9

// parallelEps rejects line/plane intersections that are numerically parallel.
const parallelEps = 1e-14

// Vertex is an identified 3D point of a faceted body surface. It is immutable
// once the mesh is built; the back-references to its owning triangles are
// filled in during triangle construction and never change afterwards.
type Vertex struct {
	ID       int
	Position r3.Vector

	triangles []*Triangle
}

// NewVertex constructs a vertex at the given body-frame position (km).
func NewVertex(id int, position r3.Vector) *Vertex {
	return &Vertex{ID: id, Position: position}
}

// Triangles returns the triangles this vertex belongs to. The slice is a
// copy; the mesh back-references cannot be modified through it.
func (v *Vertex) Triangles() []*Triangle {
	return append([]*Triangle(nil), v.triangles...)
}

// Triangle is one planar facet of a body surface. Normal, center and area are
// derived once at construction; the normal follows the vertex winding order
// and has unit length.
type Triangle struct {
	ID int

	v      [3]*Vertex
	normal r3.Vector
	center r3.Vector
	area   float64
}

// NewTriangle builds a triangle over three vertices and registers itself on
// each of them. Degenerate (zero-area) triangles are rejected.
func NewTriangle(id int, a, b, c *Vertex) (*Triangle, error) {
	cross := b.Position.Sub(a.Position).Cross(c.Position.Sub(a.Position))
	n := cross.Norm()
	if n == 0 {
		return nil, fmt.Errorf("NewTriangle: triangle %d is degenerate", id)
	}

	t := &Triangle{
		ID:     id,
		v:      [3]*Vertex{a, b, c},
		normal: cross.Mul(1 / n),
		center: a.Position.Add(b.Position).Add(c.Position).Mul(1.0 / 3.0),
		area:   n / 2,
	}
	a.triangles = append(a.triangles, t)
	b.triangles = append(b.triangles, t)
	c.triangles = append(c.triangles, t)
	return t, nil
}

// Vertices returns the three vertices in winding order.
func (t *Triangle) Vertices() [3]*Vertex { return t.v }

// Normal returns the unit normal consistent with the winding order.
func (t *Triangle) Normal() r3.Vector { return t.normal }

// Center returns the centroid of the triangle.
func (t *Triangle) Center() r3.Vector { return t.center }

// Area returns the surface area of the triangle.
func (t *Triangle) Area() float64 { return t.area }

// PointInside reports whether p, assumed to lie on the triangle's supporting
// plane, falls within the triangle bounds. The same-side test tolerates tiny
// negative excursions so that shared edges belong to both facets.
func (t *Triangle) PointInside(p r3.Vector) bool {
	for i := 0; i < 3; i++ {
		a := t.v[i].Position
		b := t.v[(i+1)%3].Position
		edge := b.Sub(a)
		ap := p.Sub(a)
		side := edge.Cross(ap).Dot(t.normal)
		scale := edge.Norm()*ap.Norm() + math.SmallestNonzeroFloat64
		if side/scale < -insideEps {
			return false
		}
	}
	return true
}

// IntersectionWith returns the point where the infinite line crosses the
// triangle, if any. Forward/backward filtering is left to the caller via
// Line.Abscissa.
func (t *Triangle) IntersectionWith(l Line) (r3.Vector, bool) {
	dn := l.Direction.Dot(t.normal)
	if math.Abs(dn) < parallelEps {
		return r3.Vector{}, false
	}
	s := t.v[0].Position.Sub(l.Origin).Dot(t.normal) / dn
	p := l.PointAt(s)
	if !t.PointInside(p) {
		return r3.Vector{}, false
	}
	return p, true
}

// DistanceTo returns the minimum Euclidean distance between the infinite line
// and the triangle, zero when the line crosses it.
func (t *Triangle) DistanceTo(l Line) float64 {
	if _, ok := t.IntersectionWith(l); ok {
		return 0
	}

	d := math.Inf(1)
	for i := 0; i < 3; i++ {
		if e := lineSegmentDistance(l, t.v[i].Position, t.v[(i+1)%3].Position); e < d {
			d = e
		}
	}

	// A line flying nearly parallel over the facet interior can be closer to
	// the interior than to any edge.
	if math.Abs(l.Direction.Dot(t.normal)) < 1e-9 {
		q := l.PointAt(t.center.Sub(l.Origin).Dot(l.Direction))
		h := q.Sub(t.v[0].Position).Dot(t.normal)
		if t.PointInside(q.Sub(t.normal.Mul(h))) && math.Abs(h) < d {
			d = math.Abs(h)
		}
	}
	return d
}

// FacesViewpoint reports whether the viewpoint lies on the outward side of the
// triangle's supporting plane.
func (t *Triangle) FacesViewpoint(viewpoint r3.Vector) bool {
	return viewpoint.Sub(t.center).Dot(t.normal) > 0
}

// Neighbors returns the triangles sharing at least one vertex with t,
// excluding t itself. Order follows vertex registration order.
func (t *Triangle) Neighbors() []*Triangle {
	seen := map[int]bool{t.ID: true}
	var res []*Triangle
	for _, v := range t.v {
		for _, o := range v.triangles {
			if !seen[o.ID] {
				seen[o.ID] = true
				res = append(res, o)
			}
		}
	}
	return res
}

// Line is an infinite oriented line, defined by an origin and a unit
// direction.
type Line struct {
	Origin    r3.Vector
	Direction r3.Vector
}

// NewLine normalizes the direction and rejects zero directions.
func NewLine(origin, direction r3.Vector) (Line, error) {
	n := direction.Norm()
	if n == 0 {
		return Line{}, fmt.Errorf("NewLine: zero direction")
	}
	return Line{Origin: origin, Direction: direction.Mul(1 / n)}, nil
}

// NewLineFromPoints builds the line through p oriented towards q.
func NewLineFromPoints(p, q r3.Vector) (Line, error) {
	l, err := NewLine(p, q.Sub(p))
	if err != nil {
		return Line{}, fmt.Errorf("NewLineFromPoints: coincident points")
	}
	return l, nil
}

// PointAt returns origin + s * direction.
func (l Line) PointAt(s float64) r3.Vector {
	return l.Origin.Add(l.Direction.Mul(s))
}

// Abscissa returns the signed position of p's projection along the line.
func (l Line) Abscissa(p r3.Vector) float64 {
	return p.Sub(l.Origin).Dot(l.Direction)
}

// DistanceToPoint returns the distance from p to the infinite line.
func (l Line) DistanceToPoint(p r3.Vector) float64 {
	return p.Sub(l.PointAt(l.Abscissa(p))).Norm()
}

// lineSegmentDistance returns the minimum distance between the infinite line l
// and the segment [p, q] (Eberly's clamped closest-point formulation).
func lineSegmentDistance(l Line, p, q r3.Vector) float64 {
	u := l.Direction
	v := q.Sub(p)
	w0 := l.Origin.Sub(p)

	a := 1.0
	b := u.Dot(v)
	c := v.Dot(v)
	d := u.Dot(w0)
	e := v.Dot(w0)

	den := a*c - b*b
	var tc float64
	if den > 1e-15 {
		tc = (a*e - b*d) / den
	}
	if tc < 0 {
		tc = 0
	} else if tc > 1 {
		tc = 1
	}
	sc := (b*tc - d) / a

	return w0.Add(u.Mul(sc)).Sub(v.Mul(tc)).Norm()
}
