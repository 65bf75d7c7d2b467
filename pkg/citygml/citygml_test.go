package citygml

import (
	"errors"
	"math"
	"strings"
	"testing"
)

const testDataDir = "../../testdata"

const blockA = testDataDir + "/tokyo/block_a.gml"

// TestPublicAPI tests the public parser API
func TestPublicAPI(t *testing.T) {
	parser := NewParser()
	if parser == nil {
		t.Fatal("NewParser returned nil")
	}

	opts := DefaultParseOptions()
	if !opts.Tesselate {
		t.Error("Default Tesselate should be true")
	}
	if opts.Optimize || opts.KeepVertices || opts.IgnoreGeometries {
		t.Error("Default Optimize, KeepVertices and IgnoreGeometries should be false")
	}
	if opts.DestSRS != "" {
		t.Errorf("Expected no default reprojection, got %q", opts.DestSRS)
	}
}

func TestParseDocument(t *testing.T) {
	m, err := NewParser().Parse(blockA)
	if err != nil {
		t.Fatalf("Failed to parse document: %v", err)
	}

	buildings := m.ObjectsByKind(KindBuilding)
	if len(buildings) != 2 {
		t.Fatalf("Expected 2 buildings, got %d", len(buildings))
	}
	if m.SRSName != "http://www.opengis.net/def/crs/EPSG/0/6697" {
		t.Errorf("Expected the envelope's reference system, got %q", m.SRSName)
	}
	if !strings.HasSuffix(m.Path, "block_a.gml") {
		t.Errorf("Expected the document path, got %q", m.Path)
	}

	tower := m.ObjectsByID("BLD_A1")
	if len(tower) != 1 {
		t.Fatalf("Expected BLD_A1 once, got %d", len(tower))
	}
	if v, _ := tower[0].Attribute("usage"); v != "commercial" {
		t.Errorf("Expected usage resolved through the code list, got %q", v)
	}
	if n, err := tower[0].Attributes["storeysAboveGround"].Int(); err != nil || n != 8 {
		t.Errorf("Expected 8 storeys, got %d (%v)", n, err)
	}

	triangles := 0
	m.Polygons(func(_ *CityObject, p *Polygon) {
		triangles += p.Mesh.TriangleCount()
		if p.Exterior.Len() != 0 {
			t.Errorf("Expected ring vertices to be released, got %d", p.Exterior.Len())
		}
	})
	if triangles != 6 {
		t.Errorf("Expected 6 triangles, got %d", triangles)
	}
	if m.Diagnostics.Len() != 0 {
		t.Errorf("Expected no issues, got %v", m.Diagnostics.Issues())
	}
}

func TestParseWithReprojection(t *testing.T) {
	opts := DefaultParseOptions()
	opts.DestSRS = "EPSG:3857"
	m, err := NewParser().ParseWithOptions(blockA, opts)
	if err != nil {
		t.Fatalf("Failed to parse document: %v", err)
	}
	if m.SRSName != "EPSG:3857" {
		t.Errorf("Expected EPSG:3857, got %q", m.SRSName)
	}
	// 139°E in web mercator.
	if x := m.Envelope.Lower[0]; math.Abs(x-15473409.3) > 1 {
		t.Errorf("Expected x near 15473409, got %f", x)
	}
	if z := m.Envelope.Upper[2]; z != 30 {
		t.Errorf("Expected heights to pass through, got %f", z)
	}
}

func TestParseWithPlaneRectangularReprojection(t *testing.T) {
	opts := DefaultParseOptions()
	opts.DestSRS = "EPSG:6677"
	m, err := NewParser().ParseWithOptions(blockA, opts)
	if err != nil {
		t.Fatalf("Failed to parse document: %v", err)
	}
	if m.SRSName != "EPSG:6677" {
		t.Errorf("Expected EPSG:6677, got %q", m.SRSName)
	}
	// 139°E is west of zone IX's origin at 139°50'E, 35°N south of 36°N.
	if lo := m.Envelope.Lower; lo[0] > -70000 || lo[0] < -80000 || lo[1] > -100000 || lo[1] < -120000 {
		t.Errorf("Expected the envelope about 75 km west and 110 km south of the origin, got %v", lo)
	}
}

func TestParseWithUnsupportedReprojection(t *testing.T) {
	opts := DefaultParseOptions()
	opts.DestSRS = "EPSG:1"
	_, err := NewParser().ParseWithOptions(blockA, opts)
	var target *ErrExternalService
	if !errors.As(err, &target) {
		t.Errorf("Expected ErrExternalService, got %v", err)
	}
}

func TestParseReader(t *testing.T) {
	doc := `<core:CityModel xmlns:core="http://www.opengis.net/citygml/2.0"
		xmlns:bldg="http://www.opengis.net/citygml/building/2.0"
		xmlns:gml="http://www.opengis.net/gml">
	<core:cityObjectMember>
		<bldg:Building gml:id="B1">
			<bldg:usage codeSpace="missing/Building_usage.xml">402</bldg:usage>
		</bldg:Building>
	</core:cityObjectMember>
</core:CityModel>`

	m, err := NewParser().ParseReader(strings.NewReader(doc), DefaultParseOptions())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	b := m.ObjectsByID("B1")
	if len(b) != 1 {
		t.Fatalf("Expected B1, got %d objects", len(b))
	}
	if v, _ := b[0].Attribute("usage"); v != "402" {
		t.Errorf("Expected the raw key without a code list, got %q", v)
	}
}

func TestParseErrors(t *testing.T) {
	parser := NewParser()
	if _, err := parser.Parse(testDataDir + "/missing.gml"); err == nil {
		t.Error("Expected an error for a missing file")
	}
	if _, err := parser.Parse(testDataDir + "/broken/truncated.gml"); err == nil {
		t.Error("Expected an error for a truncated document")
	}

	_, err := parser.ParseReader(strings.NewReader(`<bldg:Building xmlns:bldg="http://www.opengis.net/citygml/building/2.0"/>`), DefaultParseOptions())
	var target *ErrStructural
	if !errors.As(err, &target) {
		t.Errorf("Expected ErrStructural for a foreign root, got %v", err)
	}
}
