// Package tessellate triangulates planar polygons with holes.
package tessellate

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"github.com/tliron/commonlog"

	"github.com/beetlebugorg/citygml/internal/model"
)

// ErrDegenerate is returned for polygons without area.
var ErrDegenerate = errors.New("degenerate polygon")

// EarClipper triangulates a polygon by projecting it onto the coordinate
// plane its normal is closest to, joining holes to the exterior ring with
// bridge edges and clipping ears. It implements model.Tessellator and is
// safe for concurrent use.
type EarClipper struct {
	log commonlog.Logger
}

// New creates an ear clipper.
func New() *EarClipper {
	return &EarClipper{log: commonlog.GetLogger("citygml.tessellate")}
}

var _ model.Tessellator = (*EarClipper)(nil)

type vertex struct {
	x, y float64
	idx  int
}

// Tessellate returns triangle indices into the concatenation of rings.
// Triangles keep the winding of the exterior ring. Holes with fewer than
// three vertices are ignored.
func (e *EarClipper) Tessellate(rings [][]model.Vec3) ([]int, error) {
	if len(rings) == 0 || len(rings[0]) < 3 {
		return nil, ErrDegenerate
	}
	u, v, ok := projectionAxes(rings[0])
	if !ok {
		return nil, ErrDegenerate
	}

	offset := 0
	var outer []vertex
	var holes [][]vertex
	for i, r := range rings {
		ring := make([]vertex, len(r))
		for j, p := range r {
			ring[j] = vertex{x: p[u], y: p[v], idx: offset + j}
		}
		offset += len(r)
		if i == 0 {
			outer = ring
			continue
		}
		if len(ring) < 3 {
			e.log.Debugf("ignoring hole with %d vertices", len(ring))
			continue
		}
		holes = append(holes, ring)
	}

	reversed := false
	if signedArea(outer) < 0 {
		reverse(outer)
		reversed = true
	}
	for _, h := range holes {
		if signedArea(h) > 0 {
			reverse(h)
		}
	}

	poly := outer
	sort.Slice(holes, func(i, j int) bool { return maxX(holes[i]) > maxX(holes[j]) })
	for i, h := range holes {
		poly = bridge(poly, h, holes[i+1:])
	}

	eps := epsilonFor(poly)
	indices, err := clip(poly, eps)
	if err != nil {
		return indices, err
	}
	if len(indices) == 0 {
		return nil, ErrDegenerate
	}
	if reversed {
		for i := 0; i+2 < len(indices); i += 3 {
			indices[i+1], indices[i+2] = indices[i+2], indices[i+1]
		}
	}
	return indices, nil
}

// projectionAxes picks the two coordinates that span the plane best.
func projectionAxes(ring []model.Vec3) (int, int, bool) {
	r := model.LinearRing{Vertices: ring}
	n := r.Normal()
	ax, ay, az := math.Abs(n[0]), math.Abs(n[1]), math.Abs(n[2])
	switch {
	case ax == 0 && ay == 0 && az == 0:
		return 0, 0, false
	case az >= ax && az >= ay:
		return 0, 1, true
	case ax >= ay:
		return 1, 2, true
	default:
		return 2, 0, true
	}
}

func signedArea(ring []vertex) float64 {
	a := 0.0
	for i := range ring {
		p, q := ring[i], ring[(i+1)%len(ring)]
		a += p.x*q.y - q.x*p.y
	}
	return a / 2
}

func reverse(ring []vertex) {
	for i, j := 0, len(ring)-1; i < j; i, j = i+1, j-1 {
		ring[i], ring[j] = ring[j], ring[i]
	}
}

func maxX(ring []vertex) float64 {
	m := math.Inf(-1)
	for _, p := range ring {
		m = math.Max(m, p.x)
	}
	return m
}

func epsilonFor(poly []vertex) float64 {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range poly {
		minX, maxX = math.Min(minX, p.x), math.Max(maxX, p.x)
		minY, maxY = math.Min(minY, p.y), math.Max(maxY, p.y)
	}
	extent := math.Max(maxX-minX, maxY-minY)
	return extent * extent * 1e-12
}

func cross(a, b, c vertex) float64 {
	return (b.x-a.x)*(c.y-a.y) - (b.y-a.y)*(c.x-a.x)
}

func samePosition(a, b vertex) bool {
	return a.x == b.x && a.y == b.y
}

// bridge splices hole into poly through the closest poly vertex that can
// see the hole's rightmost vertex.
func bridge(poly, hole []vertex, pending [][]vertex) []vertex {
	m := 0
	for i, p := range hole {
		if p.x > hole[m].x {
			m = i
		}
	}
	hm := hole[m]

	order := make([]int, len(poly))
	for i := range order {
		order[i] = i
	}
	dist := func(p vertex) float64 { return (p.x-hm.x)*(p.x-hm.x) + (p.y-hm.y)*(p.y-hm.y) }
	sort.SliceStable(order, func(i, j int) bool { return dist(poly[order[i]]) < dist(poly[order[j]]) })

	target := order[0]
	for _, i := range order {
		if visible(hm, poly[i], poly, hole, pending) {
			target = i
			break
		}
	}

	out := make([]vertex, 0, len(poly)+len(hole)+2)
	out = append(out, poly[:target+1]...)
	out = append(out, hole[m:]...)
	out = append(out, hole[:m+1]...)
	out = append(out, poly[target:]...)
	return out
}

// visible reports whether segment a-b crosses no edge of the given rings.
func visible(a, b vertex, poly, hole []vertex, pending [][]vertex) bool {
	rings := append([][]vertex{poly, hole}, pending...)
	for _, r := range rings {
		for i := range r {
			p, q := r[i], r[(i+1)%len(r)]
			if samePosition(p, a) || samePosition(p, b) || samePosition(q, a) || samePosition(q, b) {
				continue
			}
			if segmentsCross(a, b, p, q) {
				return false
			}
		}
	}
	return true
}

func segmentsCross(a, b, c, d vertex) bool {
	d1 := cross(a, b, c)
	d2 := cross(a, b, d)
	d3 := cross(c, d, a)
	d4 := cross(c, d, b)
	return ((d1 > 0) != (d2 > 0)) && ((d3 > 0) != (d4 > 0)) && d1 != 0 && d2 != 0 && d3 != 0 && d4 != 0
}

// clip removes ears from a counter-clockwise polygon until a triangle is
// left. Vertices without area (collinear or repeated) are dropped.
func clip(poly []vertex, eps float64) ([]int, error) {
	out := make([]int, 0, 3*len(poly))
	poly = append([]vertex(nil), poly...)

	for len(poly) > 3 {
		n := len(poly)
		clipped := false
		for i := 0; i < n; i++ {
			a, b, c := poly[(i+n-1)%n], poly[i], poly[(i+1)%n]
			area := cross(a, b, c)
			if math.Abs(area) <= eps {
				poly = append(poly[:i], poly[i+1:]...)
				clipped = true
				break
			}
			if area < 0 || blocked(poly, a, b, c) {
				continue
			}
			out = append(out, a.idx, b.idx, c.idx)
			poly = append(poly[:i], poly[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			return out, errors.Errorf("no ear among %d remaining vertices", n)
		}
	}
	if len(poly) == 3 && cross(poly[0], poly[1], poly[2]) > eps {
		out = append(out, poly[0].idx, poly[1].idx, poly[2].idx)
	}
	return out, nil
}

// blocked reports whether a vertex of poly lies inside triangle a-b-c.
func blocked(poly []vertex, a, b, c vertex) bool {
	for _, p := range poly {
		if samePosition(p, a) || samePosition(p, b) || samePosition(p, c) {
			continue
		}
		if cross(a, b, p) >= 0 && cross(b, c, p) >= 0 && cross(c, a, p) >= 0 {
			return true
		}
	}
	return false
}
