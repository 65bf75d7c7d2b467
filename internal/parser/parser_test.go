package parser

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/beetlebugorg/citygml/internal/model"
)

const documentHeader = `<?xml version="1.0" encoding="UTF-8"?>
<core:CityModel xmlns:core="http://www.opengis.net/citygml/2.0"
	xmlns:bldg="http://www.opengis.net/citygml/building/2.0"
	xmlns:gen="http://www.opengis.net/citygml/generics/2.0"
	xmlns:grp="http://www.opengis.net/citygml/cityobjectgroup/2.0"
	xmlns:app="http://www.opengis.net/citygml/appearance/2.0"
	xmlns:uro="https://www.geospatial.jp/iur/uro/2.0"
	xmlns:gml="http://www.opengis.net/gml"
	xmlns:xlink="http://www.w3.org/1999/xlink"
	xmlns:xAL="urn:oasis:names:tc:ciq:xsdschema:xAL:2.0"
	xmlns:ext="http://example.com/ade/1.0"
	gml:id="model">
`

const documentFooter = `</core:CityModel>`

// document wraps city object members in a CityModel.
func document(body string) string {
	return documentHeader + body + documentFooter
}

// fanTessellator triangulates the exterior ring as a fan.
type fanTessellator struct{}

func (fanTessellator) Tessellate(rings [][]model.Vec3) ([]int, error) {
	var idx []int
	for i := 1; i+1 < len(rings[0]); i++ {
		idx = append(idx, 0, i, i+1)
	}
	return idx, nil
}

type failingTessellator struct{}

func (failingTessellator) Tessellate([][]model.Vec3) ([]int, error) {
	return nil, errors.New("degenerate input")
}

// shiftTransformer moves every point by dx along x.
type shiftTransformer struct {
	dx    float64
	calls int
}

func (s *shiftTransformer) Transform(points []model.Vec3, src, dst string) error {
	s.calls++
	for i := range points {
		points[i][0] += s.dx
	}
	return nil
}

type failingTransformer struct{}

func (failingTransformer) Transform([]model.Vec3, string, string) error {
	return errors.New("unknown reference system")
}

// mapCodeLists resolves "codeSpace|key" pairs from a map.
type mapCodeLists map[string]string

func (m mapCodeLists) Resolve(codeSpace, _, key string) string {
	if v, ok := m[codeSpace+"|"+key]; ok {
		return v
	}
	return key
}

func testOptions() ParseOptions {
	opts := DefaultParseOptions()
	opts.Tessellator = fanTessellator{}
	return opts
}

func parseString(t *testing.T, doc string, opts ParseOptions) *model.CityModel {
	t.Helper()
	m, err := NewParser().ParseReader(strings.NewReader(doc), opts)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return m
}

func onlyObject(t *testing.T, m *model.CityModel, kind model.Kind) *model.CityObject {
	t.Helper()
	objs := m.ObjectsByKind(kind)
	if len(objs) != 1 {
		t.Fatalf("Expected 1 object of kind %s, got %d", kind, len(objs))
	}
	return objs[0]
}

const texturedBuilding = `
<core:cityObjectMember>
	<bldg:Building gml:id="B1">
		<bldg:lod2MultiSurface>
			<gml:MultiSurface srsName="EPSG:25832">
				<gml:surfaceMember>
					<gml:Polygon gml:id="P1">
						<gml:exterior>
							<gml:LinearRing gml:id="R1">
								<gml:posList srsDimension="3">0 0 0 1 0 0 1 1 0 0 1 0 0 0 0</gml:posList>
							</gml:LinearRing>
						</gml:exterior>
					</gml:Polygon>
				</gml:surfaceMember>
			</gml:MultiSurface>
		</bldg:lod2MultiSurface>
	</bldg:Building>
</core:cityObjectMember>
<app:appearanceMember>
	<app:Appearance gml:id="A1">
		<app:theme>rgb</app:theme>
		<app:surfaceDataMember>
			<app:ParameterizedTexture gml:id="T1">
				<app:imageURI>tex/facade.jpg</app:imageURI>
				<app:mimeType>image/jpeg</app:mimeType>
				<app:target uri="#P1">
					<app:TexCoordList>
						<app:textureCoordinates ring="#R1">0 0 1 0 1 1 0 1 0 0</app:textureCoordinates>
					</app:TexCoordList>
				</app:target>
			</app:ParameterizedTexture>
		</app:surfaceDataMember>
		<app:surfaceDataMember>
			<app:X3DMaterial gml:id="M1">
				<app:diffuseColor>0.5 0.25 1</app:diffuseColor>
				<app:transparency>0.5</app:transparency>
				<app:target>#P1</app:target>
			</app:X3DMaterial>
		</app:surfaceDataMember>
	</app:Appearance>
</app:appearanceMember>
`

func TestParseTexturedBuilding(t *testing.T) {
	m := parseString(t, document(texturedBuilding), testOptions())

	b := onlyObject(t, m, model.KindBuilding)
	geoms := b.GeometriesForLOD(2)
	if len(geoms) != 1 {
		t.Fatalf("Expected 1 lod2 geometry, got %d", len(geoms))
	}
	if geoms[0].SRSName != "EPSG:25832" {
		t.Errorf("Expected srsName EPSG:25832, got %q", geoms[0].SRSName)
	}
	if got := geoms[0].PolygonCount(); got != 1 {
		t.Fatalf("Expected 1 polygon, got %d", got)
	}

	p := geoms[0].Polygons[0]
	if p.Mesh == nil || p.Mesh.TriangleCount() != 2 {
		t.Fatalf("Expected a 2 triangle mesh, got %+v", p.Mesh)
	}
	if got := len(p.Mesh.Vertices); got != 4 {
		t.Errorf("Expected 4 mesh vertices after removing the closing vertex, got %d", got)
	}
	if got := len(p.Mesh.TexCoords["rgb"]); got != 4 {
		t.Errorf("Expected 4 texture coordinates, got %d", got)
	}
	if p.Exterior.Len() != 0 {
		t.Errorf("Expected ring vertices to be released, got %d", p.Exterior.Len())
	}

	if got := m.Themes(); len(got) != 1 || got[0] != "rgb" {
		t.Errorf("Expected themes [rgb], got %v", got)
	}
	apps := m.Appearances()
	if len(apps) != 1 {
		t.Fatalf("Expected 1 appearance, got %d", len(apps))
	}
	if len(apps[0].Textures) != 1 || apps[0].Textures[0].ImageURI != "tex/facade.jpg" {
		t.Errorf("Expected texture tex/facade.jpg, got %+v", apps[0].Textures)
	}
	if len(apps[0].Materials) != 1 {
		t.Fatalf("Expected 1 material, got %d", len(apps[0].Materials))
	}
	mat := apps[0].Materials[0]
	if mat.Diffuse != (model.Vec3{0.5, 0.25, 1}) || mat.Transparency != 0.5 {
		t.Errorf("Expected diffuse (0.5 0.25 1) and transparency 0.5, got %v %v", mat.Diffuse, mat.Transparency)
	}
	if len(mat.Targets) != 1 || mat.Targets[0] != "P1" {
		t.Errorf("Expected material target P1, got %v", mat.Targets)
	}

	if !b.Envelope.Valid() {
		t.Fatal("Expected a derived envelope")
	}
	if b.Envelope.Upper != (model.Vec3{1, 1, 0}) {
		t.Errorf("Expected upper corner (1 1 0), got %v", b.Envelope.Upper)
	}
	if m.Diagnostics.Len() != 0 {
		t.Errorf("Expected no issues, got %v", m.Diagnostics.Issues())
	}
}

func TestKeepVertices(t *testing.T) {
	opts := testOptions()
	opts.KeepVertices = true
	m := parseString(t, document(texturedBuilding), opts)

	m.Rings(func(_ *model.CityObject, _ *model.Polygon, r *model.LinearRing) {
		if r.Len() != 4 {
			t.Errorf("Expected 4 retained vertices, got %d", r.Len())
		}
		for _, tc := range r.Textures {
			if len(tc.Coords) != r.Len() {
				t.Errorf("Expected texture coordinates aligned with %d vertices, got %d", r.Len(), len(tc.Coords))
			}
		}
	})
}

func TestWithoutTessellation(t *testing.T) {
	opts := testOptions()
	opts.Tesselate = false
	m := parseString(t, document(texturedBuilding), opts)

	count := 0
	m.Rings(func(_ *model.CityObject, p *model.Polygon, r *model.LinearRing) {
		count++
		if p.Mesh != nil {
			t.Errorf("Expected no mesh, got %+v", p.Mesh)
		}
		if r.Len() != 4 {
			t.Errorf("Expected the de-duplicated ring to keep 4 vertices, got %d", r.Len())
		}
		if len(r.Textures) != 1 || len(r.Textures[0].Coords) != 4 {
			t.Errorf("Expected 4 aligned texture coordinates, got %+v", r.Textures)
		}
	})
	if count != 1 {
		t.Errorf("Expected 1 ring, got %d", count)
	}
}

func TestTessellationFailureDegrades(t *testing.T) {
	opts := testOptions()
	opts.Tessellator = failingTessellator{}
	m := parseString(t, document(texturedBuilding), opts)

	m.Polygons(func(_ *model.CityObject, p *model.Polygon) {
		if p.Mesh == nil || p.Mesh.TriangleCount() != 0 {
			t.Errorf("Expected an empty mesh, got %+v", p.Mesh)
		}
	})
	if got := m.Diagnostics.Count(model.IssueExternalService); got != 1 {
		t.Errorf("Expected 1 external service issue, got %d", got)
	}
}

func TestMissingTessellatorWarnsOnce(t *testing.T) {
	opts := DefaultParseOptions()
	m := parseString(t, document(texturedBuilding+texturedBuilding), opts)
	if got := m.Diagnostics.Count(model.IssueExternalService); got != 1 {
		t.Errorf("Expected 1 external service issue, got %d", got)
	}
}

func TestTextureCoordinatesForUnknownRing(t *testing.T) {
	doc := strings.Replace(texturedBuilding, `ring="#R1"`, `ring="#R9"`, 1)
	m := parseString(t, document(doc), testOptions())
	if got := m.Diagnostics.Count(model.IssueReferenceMiss); got != 1 {
		t.Errorf("Expected 1 reference miss, got %d", got)
	}
}

func TestMismatchedTextureCoordinates(t *testing.T) {
	doc := strings.Replace(texturedBuilding, `0 0 1 0 1 1 0 1 0 0</app:textureCoordinates>`, `0 0 1 0 1 1</app:textureCoordinates>`, 1)
	opts := testOptions()
	opts.Tesselate = false
	m := parseString(t, document(doc), opts)
	if got := m.Diagnostics.Count(model.IssueDataQuality); got != 1 {
		t.Errorf("Expected 1 data quality issue, got %d: %v", got, m.Diagnostics.Issues())
	}
}

func TestIgnoreGeometries(t *testing.T) {
	opts := testOptions()
	opts.IgnoreGeometries = true
	m := parseString(t, document(texturedBuilding), opts)

	b := onlyObject(t, m, model.KindBuilding)
	if got := len(b.Geometries()); got != 0 {
		t.Errorf("Expected no geometries, got %d", got)
	}
	if got := len(m.Appearances()); got != 0 {
		t.Errorf("Expected no appearances, got %d", got)
	}
}

func TestReprojection(t *testing.T) {
	tr := &shiftTransformer{dx: 10}
	opts := testOptions()
	opts.KeepVertices = true
	opts.DestSRS = "EPSG:3857"
	opts.SrcSRS = "EPSG:4326"
	opts.Transformer = tr

	m := parseString(t, document(texturedBuilding), opts)
	if m.SRSName != "EPSG:3857" {
		t.Errorf("Expected model srsName EPSG:3857, got %q", m.SRSName)
	}
	if tr.calls == 0 {
		t.Fatal("Expected the transformer to be called")
	}
	m.Polygons(func(_ *model.CityObject, p *model.Polygon) {
		if p.Exterior.Vertices[0][0] != 10 {
			t.Errorf("Expected x shifted to 10, got %v", p.Exterior.Vertices[0][0])
		}
		if p.Mesh.Vertices[0][0] != 10 {
			t.Errorf("Expected mesh x shifted to 10, got %v", p.Mesh.Vertices[0][0])
		}
	})
	b := onlyObject(t, m, model.KindBuilding)
	if b.Envelope.SRSName != "EPSG:3857" {
		t.Errorf("Expected envelope srsName EPSG:3857, got %q", b.Envelope.SRSName)
	}
	if b.Envelope.Lower[0] != 10 {
		t.Errorf("Expected envelope lower x 10, got %v", b.Envelope.Lower[0])
	}
}

func TestReprojectionFailures(t *testing.T) {
	tests := []struct {
		name        string
		src         string
		transformer Transformer
	}{
		{"no transformer", "EPSG:4326", nil},
		{"no source system", "", &shiftTransformer{}},
		{"transformer fails", "EPSG:4326", failingTransformer{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			opts.DestSRS = "EPSG:3857"
			opts.SrcSRS = tt.src
			opts.Transformer = tt.transformer

			_, err := NewParser().ParseReader(strings.NewReader(document(texturedBuilding)), opts)
			var target *ErrExternalService
			if !errors.As(err, &target) {
				t.Fatalf("Expected ErrExternalService, got %v", err)
			}
		})
	}
}

func TestSourceSRSOverride(t *testing.T) {
	doc := document(`
<gml:boundedBy>
	<gml:Envelope srsName="EPSG:6697">
		<gml:lowerCorner>0 0 0</gml:lowerCorner>
		<gml:upperCorner>5 5 5</gml:upperCorner>
	</gml:Envelope>
</gml:boundedBy>
<core:cityObjectMember>
	<bldg:Building gml:id="B1">
		<gml:boundedBy>
			<gml:Envelope srsName="EPSG:6697">
				<gml:lowerCorner>1 1 1</gml:lowerCorner>
				<gml:upperCorner>2 2 2</gml:upperCorner>
			</gml:Envelope>
		</gml:boundedBy>
	</bldg:Building>
</core:cityObjectMember>`)

	m := parseString(t, doc, testOptions())
	if m.SRSName != "EPSG:6697" {
		t.Errorf("Expected model srsName EPSG:6697, got %q", m.SRSName)
	}

	opts := testOptions()
	opts.SrcSRS = "EPSG:4326"
	m = parseString(t, doc, opts)
	if m.SRSName != "EPSG:4326" || m.Envelope.SRSName != "EPSG:4326" {
		t.Errorf("Expected overridden srsName EPSG:4326, got %q and %q", m.SRSName, m.Envelope.SRSName)
	}
	b := onlyObject(t, m, model.KindBuilding)
	if b.Envelope.SRSName != "EPSG:4326" {
		t.Errorf("Expected object envelope srsName EPSG:4326, got %q", b.Envelope.SRSName)
	}
	if b.Envelope.Lower != (model.Vec3{1, 1, 1}) {
		t.Errorf("Expected lower corner (1 1 1), got %v", b.Envelope.Lower)
	}
}

func TestCoordinateValidation(t *testing.T) {
	doc := document(`
<gml:boundedBy>
	<gml:Envelope srsName="EPSG:6697">
		<gml:lowerCorner>35 139 0</gml:lowerCorner>
		<gml:upperCorner>135 140 10</gml:upperCorner>
	</gml:Envelope>
</gml:boundedBy>
<core:cityObjectMember>
	<bldg:Building gml:id="B1">
		<bldg:lod2MultiSurface>
			<gml:MultiSurface>
				<gml:surfaceMember>
					<gml:Polygon>
						<gml:exterior><gml:LinearRing>
							<gml:posList>35 139 0 135 139 0 135 140 0 35 140 0 35 139 0</gml:posList>
						</gml:LinearRing></gml:exterior>
					</gml:Polygon>
				</gml:surfaceMember>
			</gml:MultiSurface>
		</bldg:lod2MultiSurface>
	</bldg:Building>
</core:cityObjectMember>`)

	tests := []struct {
		name     string
		validate bool
		want     int
	}{
		{"enabled", true, 1},
		{"disabled", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			opts.ValidateGeometry = tt.validate
			m := parseString(t, doc, opts)
			if got := m.Diagnostics.Count(model.IssueDataQuality); got != tt.want {
				t.Errorf("Expected %d data quality issues, got %d: %v", tt.want, got, m.Diagnostics.Issues())
			}
			b := onlyObject(t, m, model.KindBuilding)
			if len(b.Geometries()) != 1 {
				t.Errorf("Expected the invalid geometry to be kept, got %d", len(b.Geometries()))
			}
		})
	}
}

func TestMalformedXML(t *testing.T) {
	_, err := NewParser().ParseReader(strings.NewReader(documentHeader+"<core:cityObjectMember>"), testOptions())
	if err == nil {
		t.Fatal("Expected an error for a truncated document")
	}
}

func TestParseFile(t *testing.T) {
	path := t.TempDir() + "/model.gml"
	if err := os.WriteFile(path, []byte(document(texturedBuilding)), 0o644); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	m, err := NewParser().ParseWithOptions(path, testOptions())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if m.Path != path {
		t.Errorf("Expected path %q, got %q", path, m.Path)
	}

	if _, err := NewParser().Parse(path + ".missing"); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

// BenchmarkParse measures a document with many small buildings.
func BenchmarkParse(b *testing.B) {
	var body strings.Builder
	for i := 0; i < 500; i++ {
		body.WriteString(strings.ReplaceAll(texturedBuilding, `"B1"`, fmt.Sprintf(`"B%d"`, i)))
	}
	doc := document(body.String())
	opts := testOptions()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := NewParser().ParseReader(strings.NewReader(doc), opts); err != nil {
			b.Fatalf("parse failed: %v", err)
		}
	}
}
