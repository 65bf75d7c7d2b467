package model

import "math"

// Vec3 is a 3-D position.
type Vec3 [3]float64

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

// SqrLength returns the squared euclidean length.
func (v Vec3) SqrLength() float64 {
	return v[0]*v[0] + v[1]*v[1] + v[2]*v[2]
}

// Vec2 is a 2-D texture coordinate.
type Vec2 [2]float64

// dedupEpsilon is the squared distance under which two consecutive vertices
// are considered the same point.
const dedupEpsilon = 2.220446049250313e-16 // math.Nextafter(1, 2) - 1

// TextureCoordinates is a per-vertex coordinate list of one texture target.
// It belongs to the ring named by Ring and must stay index-aligned with the
// ring's vertices.
type TextureCoordinates struct {
	ID     string
	Ring   string
	Theme  string
	Coords []Vec2
}

// LinearRing is a closed sequence of vertices bounding a polygon.
type LinearRing struct {
	ID       string
	Exterior bool
	Vertices []Vec3

	// Textures are the dependent per-vertex arrays attached to this ring,
	// one per texture target that references it.
	Textures []*TextureCoordinates
}

// NewLinearRing creates an empty ring.
func NewLinearRing(id string, exterior bool) *LinearRing {
	return &LinearRing{ID: id, Exterior: exterior}
}

// AddVertex appends a vertex.
func (r *LinearRing) AddVertex(v Vec3) {
	r.Vertices = append(r.Vertices, v)
}

// Len returns the vertex count.
func (r *LinearRing) Len() int {
	return len(r.Vertices)
}

// ForgetVertices drops the raw vertices once they have been copied into a
// mesh. Texture coordinates are dropped with them.
func (r *LinearRing) ForgetVertices() {
	r.Vertices = nil
	for _, t := range r.Textures {
		t.Coords = nil
	}
}

// Normal computes the ring's plane normal with Newell's method. It returns
// the zero vector for degenerate rings.
func (r *LinearRing) Normal() Vec3 {
	n := Vec3{}
	l := len(r.Vertices)
	if l < 3 {
		return n
	}
	for i := 0; i < l; i++ {
		cur := r.Vertices[i]
		next := r.Vertices[(i+1)%l]
		n[0] += (cur[1] - next[1]) * (cur[2] + next[2])
		n[1] += (cur[2] - next[2]) * (cur[0] + next[0])
		n[2] += (cur[0] - next[0]) * (cur[1] + next[1])
	}
	length := math.Sqrt(n.SqrLength())
	if length == 0 {
		return Vec3{}
	}
	return Vec3{n[0] / length, n[1] / length, n[2] / length}
}

// DedupReport describes one run of RemoveDuplicateVertices.
type DedupReport struct {
	// Removed is the number of vertices dropped.
	Removed int
	// Mismatched lists dependent arrays whose length already differed from
	// the ring's before de-duplication.
	Mismatched []*TextureCoordinates
	// Broken lists dependent arrays whose length differs from the ring's
	// after de-duplication although it matched before. Non-empty means a
	// logic error.
	Broken []*TextureCoordinates
}

// RemoveDuplicateVertices removes every vertex that lies within epsilon of
// its cyclic successor, dropping the same index from each texture
// coordinate list so both stay aligned.
//
// After a removal the same index is compared against its new successor. The
// loop stops once fewer than three vertices remain.
func (r *LinearRing) RemoveDuplicateVertices() DedupReport {
	var report DedupReport

	verified := make([]*TextureCoordinates, 0, len(r.Textures))
	for _, tc := range r.Textures {
		if len(tc.Coords) != len(r.Vertices) {
			report.Mismatched = append(report.Mismatched, tc)
			continue
		}
		verified = append(verified, tc)
	}

	i := 0
	for i < len(r.Vertices) && len(r.Vertices) > 2 {
		next := (i + 1) % len(r.Vertices)
		if r.Vertices[i].Sub(r.Vertices[next]).SqrLength() <= dedupEpsilon {
			r.Vertices = append(r.Vertices[:i], r.Vertices[i+1:]...)
			for _, tc := range r.Textures {
				if i < len(tc.Coords) {
					tc.Coords = append(tc.Coords[:i], tc.Coords[i+1:]...)
				}
			}
			report.Removed++
			continue
		}
		i++
	}

	if integrityChecks {
		for _, tc := range verified {
			if len(tc.Coords) != len(r.Vertices) {
				report.Broken = append(report.Broken, tc)
			}
		}
	}
	return report
}
