package model

import "github.com/pkg/errors"

// Tessellator triangulates a polygon. rings[0] is the exterior ring, the
// rest are holes; the returned indices address the concatenation of all
// rings' vertices, three per triangle.
type Tessellator interface {
	Tessellate(rings [][]Vec3) ([]int, error)
}

// Mesh is the triangulated form of a polygon.
type Mesh struct {
	Vertices []Vec3
	Indices  []int
	// TexCoords holds one per-vertex list for each appearance theme,
	// aligned with Vertices.
	TexCoords map[string][]Vec2
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	if m == nil {
		return 0
	}
	return len(m.Indices) / 3
}

// Polygon is a planar surface bounded by one exterior ring and optional
// interior rings.
type Polygon struct {
	ID        string
	Exterior  *LinearRing
	Interiors []*LinearRing
	Mesh      *Mesh
}

// NewPolygon creates an empty polygon.
func NewPolygon(id string) *Polygon {
	return &Polygon{ID: id}
}

// AddRing attaches a ring as exterior or interior according to its flag. A
// second exterior ring replaces the first.
func (p *Polygon) AddRing(r *LinearRing) {
	if r.Exterior {
		p.Exterior = r
		return
	}
	p.Interiors = append(p.Interiors, r)
}

// Rings returns the exterior ring (if any) followed by the interiors.
func (p *Polygon) Rings() []*LinearRing {
	rings := make([]*LinearRing, 0, len(p.Interiors)+1)
	if p.Exterior != nil {
		rings = append(rings, p.Exterior)
	}
	return append(rings, p.Interiors...)
}

// RemoveDuplicateVertices de-duplicates every ring of the polygon.
func (p *Polygon) RemoveDuplicateVertices() []RingDedup {
	var out []RingDedup
	for _, r := range p.Rings() {
		out = append(out, RingDedup{Ring: r, Report: r.RemoveDuplicateVertices()})
	}
	return out
}

// RingDedup pairs a ring with its de-duplication report.
type RingDedup struct {
	Ring   *LinearRing
	Report DedupReport
}

// FinishOptions controls Polygon.Finish.
type FinishOptions struct {
	Tessellator  Tessellator
	Optimize     bool
	KeepVertices bool
}

// Triangulate builds the polygon's mesh. On tessellation failure the mesh is
// left empty and the error is returned for the caller to report.
func (p *Polygon) Triangulate(opts FinishOptions) error {
	if p.Exterior == nil || p.Exterior.Len() < 3 {
		p.Mesh = &Mesh{}
		return errors.Errorf("polygon %q has no usable exterior ring", p.ID)
	}
	if opts.Tessellator == nil {
		p.Mesh = &Mesh{}
		return errors.New("no tessellator configured")
	}

	rings := p.Rings()
	input := make([][]Vec3, 0, len(rings))
	mesh := &Mesh{TexCoords: map[string][]Vec2{}}
	for _, r := range rings {
		input = append(input, r.Vertices)
		mesh.Vertices = append(mesh.Vertices, r.Vertices...)
	}
	themes := map[string]bool{}
	for _, r := range rings {
		for _, tc := range r.Textures {
			themes[tc.Theme] = true
		}
	}
	for theme := range themes {
		coords := make([]Vec2, 0, len(mesh.Vertices))
		for _, r := range rings {
			coords = append(coords, ringTexCoords(r, theme)...)
		}
		mesh.TexCoords[theme] = coords
	}

	indices, err := opts.Tessellator.Tessellate(input)
	if err != nil {
		p.Mesh = &Mesh{}
		return errors.Wrapf(err, "tessellate polygon %q", p.ID)
	}
	mesh.Indices = indices
	if opts.Optimize {
		mesh.weld()
	}
	p.Mesh = mesh

	if !opts.KeepVertices {
		for _, r := range rings {
			r.ForgetVertices()
		}
	}
	return nil
}

// ringTexCoords returns the ring's coordinates for theme padded with zeros
// to the ring's vertex count.
func ringTexCoords(r *LinearRing, theme string) []Vec2 {
	out := make([]Vec2, len(r.Vertices))
	for _, tc := range r.Textures {
		if tc.Theme != theme {
			continue
		}
		copy(out, tc.Coords)
		break
	}
	return out
}

type weldKey struct {
	pos Vec3
	tex string
}

// weld merges vertices that are identical in position and in every theme's
// texture coordinate, rewriting the indices.
func (m *Mesh) weld() {
	themes := make([]string, 0, len(m.TexCoords))
	for t := range m.TexCoords {
		themes = append(themes, t)
	}
	seen := make(map[weldKey]int, len(m.Vertices))
	remap := make([]int, len(m.Vertices))
	vertices := make([]Vec3, 0, len(m.Vertices))
	tex := make(map[string][]Vec2, len(themes))

	for i, v := range m.Vertices {
		key := weldKey{pos: v}
		for _, t := range themes {
			c := m.TexCoords[t][i]
			key.tex += t + ":" + formatVec2(c) + ";"
		}
		if idx, ok := seen[key]; ok {
			remap[i] = idx
			continue
		}
		idx := len(vertices)
		seen[key] = idx
		remap[i] = idx
		vertices = append(vertices, v)
		for _, t := range themes {
			tex[t] = append(tex[t], m.TexCoords[t][i])
		}
	}
	for i, idx := range m.Indices {
		m.Indices[i] = remap[idx]
	}
	m.Vertices = vertices
	m.TexCoords = tex
}
