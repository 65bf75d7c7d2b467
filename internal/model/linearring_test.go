package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func ringWithTexture(points []Vec3, coords []Vec2) (*LinearRing, *TextureCoordinates) {
	r := NewLinearRing("R1", true)
	for _, p := range points {
		r.AddVertex(p)
	}
	tc := &TextureCoordinates{Ring: "R1", Theme: "rgb", Coords: coords}
	r.Textures = append(r.Textures, tc)
	return r, tc
}

func TestRemoveDuplicateVerticesKeepsTexturesAligned(t *testing.T) {
	r, tc := ringWithTexture(
		[]Vec3{{0, 0, 0}, {1, 0, 0}, {1, 0, 0}, {1, 1, 0}},
		[]Vec2{{0, 0}, {1, 0}, {1, 0}, {1, 1}},
	)

	report := r.RemoveDuplicateVertices()

	if report.Removed != 1 {
		t.Errorf("Expected 1 removed vertex, got %d", report.Removed)
	}
	if r.Len() != 3 {
		t.Fatalf("Expected ring length 3, got %d", r.Len())
	}
	if len(tc.Coords) != 3 {
		t.Fatalf("Expected texture length 3, got %d", len(tc.Coords))
	}
	if r.Vertices[1] != (Vec3{1, 0, 0}) {
		t.Errorf("Expected surviving vertex (1,0,0) at index 1, got %v", r.Vertices[1])
	}
	if tc.Coords[1] != (Vec2{1, 0}) {
		t.Errorf("Expected texture coordinate (1,0) at index 1, got %v", tc.Coords[1])
	}
	if len(report.Broken) != 0 || len(report.Mismatched) != 0 {
		t.Errorf("Expected clean report, got %+v", report)
	}
}

func TestRemoveDuplicateVerticesWrapAround(t *testing.T) {
	// Closing point repeats the first one.
	r, tc := ringWithTexture(
		[]Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 0, 0}},
		[]Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 0}},
	)
	r.RemoveDuplicateVertices()

	want := []Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}}
	if diff := cmp.Diff(want, r.Vertices); diff != "" {
		t.Errorf("vertices mismatch (-want +got):\n%s", diff)
	}
	if len(tc.Coords) != 3 {
		t.Errorf("Expected texture length 3, got %d", len(tc.Coords))
	}
}

func TestRemoveDuplicateVerticesWithinEpsilon(t *testing.T) {
	r := NewLinearRing("R", true)
	r.AddVertex(Vec3{0, 0, 0})
	r.AddVertex(Vec3{1, 0, 0})
	r.AddVertex(Vec3{1 + 1e-9, 0, 0})
	r.AddVertex(Vec3{1, 1, 0})

	if got := r.RemoveDuplicateVertices().Removed; got != 1 {
		t.Errorf("Expected 1 removed vertex, got %d", got)
	}
}

func TestRemoveDuplicateVerticesStopsAtTwo(t *testing.T) {
	r := NewLinearRing("R", true)
	for i := 0; i < 5; i++ {
		r.AddVertex(Vec3{2, 2, 2})
	}
	r.RemoveDuplicateVertices()
	if r.Len() != 2 {
		t.Errorf("Expected 2 vertices left, got %d", r.Len())
	}
}

func TestRemoveDuplicateVerticesIdempotent(t *testing.T) {
	tests := []struct {
		name   string
		points []Vec3
	}{
		{"no duplicates", []Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}},
		{"runs of duplicates", []Vec3{{0, 0, 0}, {0, 0, 0}, {1, 0, 0}, {1, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 0, 0}}},
		{"all equal", []Vec3{{3, 3, 3}, {3, 3, 3}, {3, 3, 3}, {3, 3, 3}}},
		{"triangle", []Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coords := make([]Vec2, len(tt.points))
			for i, p := range tt.points {
				coords[i] = Vec2{p[0], p[1]}
			}
			r, tc := ringWithTexture(append([]Vec3(nil), tt.points...), coords)

			r.RemoveDuplicateVertices()
			once := append([]Vec3(nil), r.Vertices...)
			onceTex := append([]Vec2(nil), tc.Coords...)

			report := r.RemoveDuplicateVertices()
			if report.Removed != 0 {
				t.Errorf("Expected second pass to remove nothing, removed %d", report.Removed)
			}
			if diff := cmp.Diff(once, r.Vertices); diff != "" {
				t.Errorf("vertices changed on second pass (-once +twice):\n%s", diff)
			}
			if diff := cmp.Diff(onceTex, tc.Coords); diff != "" {
				t.Errorf("texture changed on second pass (-once +twice):\n%s", diff)
			}
		})
	}
}

func TestRemoveDuplicateVerticesReportsMismatchedInput(t *testing.T) {
	r, tc := ringWithTexture(
		[]Vec3{{0, 0, 0}, {1, 0, 0}, {1, 0, 0}, {1, 1, 0}},
		[]Vec2{{0, 0}, {1, 0}},
	)

	report := r.RemoveDuplicateVertices()

	if len(report.Mismatched) != 1 || report.Mismatched[0] != tc {
		t.Errorf("Expected the short texture list to be reported as mismatched, got %+v", report.Mismatched)
	}
	if len(report.Broken) != 0 {
		t.Errorf("Expected no broken lists, got %d", len(report.Broken))
	}
}

func TestLinearRingNormal(t *testing.T) {
	r := NewLinearRing("R", true)
	r.AddVertex(Vec3{0, 0, 0})
	r.AddVertex(Vec3{1, 0, 0})
	r.AddVertex(Vec3{1, 1, 0})
	r.AddVertex(Vec3{0, 1, 0})

	if n := r.Normal(); n != (Vec3{0, 0, 1}) {
		t.Errorf("Expected normal (0,0,1), got %v", n)
	}

	degenerate := NewLinearRing("D", true)
	degenerate.AddVertex(Vec3{0, 0, 0})
	if n := degenerate.Normal(); n != (Vec3{}) {
		t.Errorf("Expected zero normal for degenerate ring, got %v", n)
	}
}
