package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func buildModel() *CityModel {
	arena := NewArena()
	m := NewCityModel("M", arena)

	b1 := arena.New("B1", KindBuilding)
	wall := arena.New("W1", KindWallSurface)
	roof := arena.New("R1", KindRoofSurface)
	b1.AddChild(wall)
	b1.AddChild(roof)
	part := arena.New("BP1", KindBuildingPart)
	b1.AddChild(part)
	m.AddRoot(b1)

	b2 := arena.New("B2", KindBuilding)
	m.AddRoot(b2)

	dup := arena.New("B2", KindCityFurniture)
	m.AddRoot(dup)

	group := arena.New("G1", KindCityObjectGroup)
	group.AddShared(b2)
	m.AddRoot(group)
	return m
}

func TestCityModelLookups(t *testing.T) {
	m := buildModel()
	m.Finalize()

	tests := []struct {
		kind Kind
		want int
	}{
		{KindBuilding, 2},
		{KindWallSurface, 1},
		{KindBuildingPart, 1},
		{KindCityObjectGroup, 1},
		{KindRoad, 0},
	}
	for _, tt := range tests {
		if got := len(m.ObjectsByKind(tt.kind)); got != tt.want {
			t.Errorf("Expected %d objects of kind %v, got %d", tt.want, tt.kind, got)
		}
	}

	if got := len(m.ObjectsByID("B2")); got != 2 {
		t.Errorf("Expected 2 objects with id B2, got %d", got)
	}
	if got := len(m.AllObjects()); got != 7 {
		t.Errorf("Expected 7 owned objects, got %d", got)
	}
}

func TestSharedMembersAreNotOwned(t *testing.T) {
	m := buildModel()
	m.Finalize()

	// Shared member B2 is reachable from the group but still appears once.
	if got := len(m.ObjectsByKind(KindBuilding)); got != 2 {
		t.Errorf("Expected 2 buildings, got %d", got)
	}
	group := m.ObjectsByID("G1")[0]
	shared := group.SharedChildren()
	if len(shared) != 1 || shared[0].ID != "B2" {
		t.Errorf("Expected shared member B2, got %v", shared)
	}
	if shared[0].Parent() != nil {
		t.Errorf("Expected shared member to keep its own (nil) parent, got %v", shared[0].Parent())
	}
	if len(group.Children()) != 0 {
		t.Errorf("Expected group to own no children, got %d", len(group.Children()))
	}
}

func TestCityModelThemes(t *testing.T) {
	m := NewCityModel("", nil)
	m.AddAppearance(&Appearance{Theme: "summer"})
	m.AddAppearance(&Appearance{Theme: "rgbTexture"})
	m.AddAppearance(&Appearance{Theme: "summer"})
	m.AddAppearance(&Appearance{})

	if diff := cmp.Diff([]string{"rgbTexture", "summer"}, m.Themes()); diff != "" {
		t.Errorf("themes mismatch (-want +got):\n%s", diff)
	}
	if len(m.Appearances()) != 4 {
		t.Errorf("Expected 4 appearances, got %d", len(m.Appearances()))
	}
}

func TestComputeEnvelope(t *testing.T) {
	arena := NewArena()
	b := arena.New("B", KindBuilding)
	wall := arena.New("W", KindWallSurface)
	b.AddChild(wall)

	g := NewGeometry("G", GeometryTypeFor(wall.Kind), 2)
	p := NewPolygon("P")
	r := NewLinearRing("R", true)
	for _, v := range []Vec3{{0, 0, 0}, {4, 0, 0}, {4, 0, 3}, {0, 0, 3}} {
		r.AddVertex(v)
	}
	p.AddRing(r)
	g.AddPolygon(p)
	wall.AddGeometry(g)

	env := b.ComputeEnvelope()
	if !env.Valid() {
		t.Fatal("Expected a valid envelope")
	}
	if env.Lower != (Vec3{0, 0, 0}) || env.Upper != (Vec3{4, 0, 3}) {
		t.Errorf("Expected (0,0,0)-(4,0,3), got %v-%v", env.Lower, env.Upper)
	}
}

func TestTransformVertices(t *testing.T) {
	arena := NewArena()
	m := NewCityModel("M", arena)
	b := arena.New("B", KindBuilding)
	g := NewGeometry("G", GeometryGeneric, 1)
	p := NewPolygon("P")
	r := NewLinearRing("R", true)
	r.AddVertex(Vec3{1, 2, 3})
	p.AddRing(r)
	g.AddPolygon(p)
	b.AddGeometry(g)
	b.Envelope = NewEnvelope("EPSG:4326", Vec3{0, 0, 0}, Vec3{1, 1, 1})
	m.AddRoot(b)

	err := m.TransformVertices(func(vs []Vec3) error {
		for i := range vs {
			vs[i][0] += 10
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if r.Vertices[0] != (Vec3{11, 2, 3}) {
		t.Errorf("Expected (11,2,3), got %v", r.Vertices[0])
	}
	if b.Envelope.Upper != (Vec3{11, 1, 1}) {
		t.Errorf("Expected envelope upper (11,1,1), got %v", b.Envelope.Upper)
	}
}
