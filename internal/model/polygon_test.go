package model

import (
	"errors"
	"testing"
)

// fanTessellator triangulates the exterior ring as a fan.
type fanTessellator struct{}

func (fanTessellator) Tessellate(rings [][]Vec3) ([]int, error) {
	var idx []int
	for i := 1; i+1 < len(rings[0]); i++ {
		idx = append(idx, 0, i, i+1)
	}
	return idx, nil
}

type failingTessellator struct{}

func (failingTessellator) Tessellate([][]Vec3) ([]int, error) {
	return nil, errors.New("boom")
}

func squarePolygon() (*Polygon, *LinearRing) {
	p := NewPolygon("P")
	r := NewLinearRing("R", true)
	for _, v := range []Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}} {
		r.AddVertex(v)
	}
	r.Textures = append(r.Textures, &TextureCoordinates{Ring: "R", Theme: "rgb",
		Coords: []Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}})
	p.AddRing(r)
	return p, r
}

func TestTriangulate(t *testing.T) {
	p, r := squarePolygon()

	if err := p.Triangulate(FinishOptions{Tessellator: fanTessellator{}}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := p.Mesh.TriangleCount(); got != 2 {
		t.Errorf("Expected 2 triangles, got %d", got)
	}
	if got := len(p.Mesh.TexCoords["rgb"]); got != 4 {
		t.Errorf("Expected 4 texture coordinates, got %d", got)
	}
	if r.Len() != 0 {
		t.Errorf("Expected ring vertices to be released, got %d", r.Len())
	}
}

func TestTriangulateKeepVertices(t *testing.T) {
	p, r := squarePolygon()
	if err := p.Triangulate(FinishOptions{Tessellator: fanTessellator{}, KeepVertices: true}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if r.Len() != 4 {
		t.Errorf("Expected 4 retained vertices, got %d", r.Len())
	}
}

func TestTriangulateFailureLeavesEmptyMesh(t *testing.T) {
	p, _ := squarePolygon()
	if err := p.Triangulate(FinishOptions{Tessellator: failingTessellator{}}); err == nil {
		t.Fatal("Expected tessellation error")
	}
	if p.Mesh == nil || p.Mesh.TriangleCount() != 0 {
		t.Errorf("Expected empty mesh, got %+v", p.Mesh)
	}
}

func TestMeshWeld(t *testing.T) {
	m := &Mesh{
		Vertices:  []Vec3{{0, 0, 0}, {1, 0, 0}, {0, 0, 0}, {1, 0, 0}},
		Indices:   []int{0, 1, 2, 2, 3, 1},
		TexCoords: map[string][]Vec2{"t": {{0, 0}, {1, 0}, {0, 0}, {0.5, 0}}},
	}
	m.weld()

	// Vertex 3 differs from vertex 1 by its texture coordinate only.
	if len(m.Vertices) != 3 {
		t.Fatalf("Expected 3 vertices after weld, got %d", len(m.Vertices))
	}
	want := []int{0, 1, 0, 0, 2, 1}
	for i := range want {
		if m.Indices[i] != want[i] {
			t.Errorf("Expected indices %v, got %v", want, m.Indices)
			break
		}
	}
}
