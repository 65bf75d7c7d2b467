package parser

import (
	"testing"

	"github.com/beetlebugorg/citygml/internal/model"
)

func TestExtensionContentIsFlattened(t *testing.T) {
	doc := document(`
<core:cityObjectMember>
	<bldg:Building gml:id="B1">
		<ext:Foo><ext:Bar>42</ext:Bar></ext:Foo>
	</bldg:Building>
</core:cityObjectMember>`)

	m := parseString(t, doc, testOptions())
	b := onlyObject(t, m, model.KindBuilding)

	v, ok := b.Attributes["Bar"]
	if !ok {
		t.Fatalf("Expected attribute Bar, got %v", b.Attributes.Keys())
	}
	if v.String() != "42" || v.Type() != model.AttributeInteger {
		t.Errorf("Expected Bar=42 as integer, got %q (%s)", v.String(), v.Type())
	}
	if _, ok := b.Attributes["Foo"]; ok {
		t.Error("Expected the wrapper element to leave no attribute")
	}
	if got := m.Diagnostics.Count(model.IssueSchemaDeviation); got != 1 {
		t.Errorf("Expected 1 schema deviation, got %d", got)
	}
}

func TestNestedExtensionContentBecomesSets(t *testing.T) {
	doc := document(`
<core:cityObjectMember>
	<bldg:Building gml:id="B1">
		<ext:survey>
			<ext:result>
				<ext:score>0.5</ext:score>
				<ext:grade>good</ext:grade>
			</ext:result>
			<ext:result>
				<ext:score>0.9</ext:score>
			</ext:result>
		</ext:survey>
	</bldg:Building>
</core:cityObjectMember>`)

	m := parseString(t, doc, testOptions())
	b := onlyObject(t, m, model.KindBuilding)

	first, ok := b.Attributes["result"]
	if !ok || !first.IsSet() {
		t.Fatalf("Expected set result, got %v", b.Attributes.Keys())
	}
	if got := first.Set()["grade"].String(); got != "good" {
		t.Errorf("Expected grade good, got %q", got)
	}
	second, ok := b.Attributes["result2"]
	if !ok || !second.IsSet() {
		t.Fatalf("Expected a second set stored as result2, got %v", b.Attributes.Keys())
	}
	if score, err := second.Set()["score"].Float(); err != nil || score != 0.9 {
		t.Errorf("Expected score 0.9, got %v (%v)", score, err)
	}
}

func TestCodeSpaceElementIsExtensionContent(t *testing.T) {
	doc := document(`
<core:cityObjectMember>
	<bldg:Building gml:id="B1">
		<ext:material codeSpace="materials.xml">7</ext:material>
	</bldg:Building>
</core:cityObjectMember>`)

	opts := testOptions()
	opts.CodeLists = mapCodeLists{"materials.xml|7": "brick"}
	m := parseString(t, doc, opts)
	b := onlyObject(t, m, model.KindBuilding)

	if v, _ := b.Attribute("material"); v != "brick" {
		t.Errorf("Expected material brick, got %q", v)
	}
	if got := m.Diagnostics.Count(model.IssueSchemaDeviation); got != 0 {
		t.Errorf("Expected no schema deviation, got %d", got)
	}
}

func TestUnknownElementWithGeometry(t *testing.T) {
	doc := document(`
<core:cityObjectMember>
	<bldg:Building gml:id="B1">
		<ext:lod3Thing gml:id="g1">
			<gml:MultiSurface>
				<gml:surfaceMember>
					<gml:Polygon>
						<gml:exterior><gml:LinearRing><gml:posList>0 0 0 1 0 0 1 1 0 0 0 0</gml:posList></gml:LinearRing></gml:exterior>
					</gml:Polygon>
				</gml:surfaceMember>
			</gml:MultiSurface>
		</ext:lod3Thing>
		<ext:otherThing gml:id="g2">
			<gml:MultiSurface/>
		</ext:otherThing>
	</bldg:Building>
</core:cityObjectMember>`)

	m := parseString(t, doc, testOptions())
	b := onlyObject(t, m, model.KindBuilding)

	lod3 := b.GeometriesForLOD(3)
	if len(lod3) != 1 {
		t.Fatalf("Expected 1 lod3 geometry, got %d", len(lod3))
	}
	if lod3[0].ID != "g1" {
		t.Errorf("Expected geometry g1, got %q", lod3[0].ID)
	}
	if got := lod3[0].PolygonCount(); got != 1 {
		t.Errorf("Expected 1 polygon, got %d", got)
	}

	def := b.GeometriesForLOD(defaultUnknownLOD)
	if len(def) != 1 || def[0].ID != "g2" {
		t.Errorf("Expected g2 at the default lod, got %v", def)
	}
	if got := len(b.Children()); got != 0 {
		t.Errorf("Expected no nested objects, got %d", got)
	}
}

func TestUnknownElementWithGeometryIgnored(t *testing.T) {
	doc := document(`
<core:cityObjectMember>
	<bldg:Building gml:id="B1">
		<ext:lod3Thing gml:id="g1"><gml:MultiSurface/></ext:lod3Thing>
		<gml:name>after</gml:name>
	</bldg:Building>
</core:cityObjectMember>`)

	opts := testOptions()
	opts.IgnoreGeometries = true
	m := parseString(t, doc, opts)
	b := onlyObject(t, m, model.KindBuilding)
	if got := len(b.Geometries()); got != 0 {
		t.Errorf("Expected no geometries, got %d", got)
	}
	if v, _ := b.Attribute("name"); v != "after" {
		t.Errorf("Expected parsing to continue, got name %q", v)
	}
}

func TestUnknownElementWithObject(t *testing.T) {
	doc := document(`
<core:cityObjectMember>
	<bldg:Building gml:id="B1">
		<ext:Shed gml:id="S1">
			<ext:height>3</ext:height>
			<bldg:measuredHeight>2.5</bldg:measuredHeight>
		</ext:Shed>
	</bldg:Building>
</core:cityObjectMember>`)

	m := parseString(t, doc, testOptions())
	b := onlyObject(t, m, model.KindBuilding)

	if len(b.Children()) != 1 {
		t.Fatalf("Expected 1 nested object, got %d", len(b.Children()))
	}
	shed := b.Children()[0]
	if shed.Kind != model.KindUnknown || shed.ID != "S1" {
		t.Errorf("Expected Unknown(id=S1), got %s", shed)
	}
	if v, _ := shed.Attribute("extensionElement"); v != "ext:Shed" {
		t.Errorf("Expected extensionElement ext:Shed, got %q", v)
	}
	if v, _ := shed.Attribute("height"); v != "3" {
		t.Errorf("Expected height 3, got %q", v)
	}
	if v := shed.Attributes["measuredHeight"]; v.Type() != model.AttributeDouble {
		t.Errorf("Expected measuredHeight to stay typed, got %s", v.Type())
	}
	if got := len(m.ObjectsByKind(model.KindUnknown)); got != 1 {
		t.Errorf("Expected the shed to be indexed by kind, got %d", got)
	}
}

func TestUnknownLeafElement(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		key   string
		value string
		typ   model.AttributeType
	}{
		{"text", `<ext:note>hello</ext:note>`, "note", "hello", model.AttributeString},
		{"number", `<ext:rating>4.5</ext:rating>`, "rating", "4.5", model.AttributeDouble},
		{"empty", `<ext:flag/>`, "flag", "", model.AttributeString},
		{"with id", `<ext:code gml:id="c1">X</ext:code>`, "code", "X", model.AttributeString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := document(`<core:cityObjectMember><bldg:Building gml:id="B1">` + tt.body + `</bldg:Building></core:cityObjectMember>`)
			m := parseString(t, doc, testOptions())
			b := onlyObject(t, m, model.KindBuilding)

			v, ok := b.Attributes[tt.key]
			if !ok {
				t.Fatalf("Expected attribute %s, got %v", tt.key, b.Attributes.Keys())
			}
			if v.String() != tt.value || v.Type() != tt.typ {
				t.Errorf("Expected %q (%s), got %q (%s)", tt.value, tt.typ, v.String(), v.Type())
			}
			if got := m.Diagnostics.Count(model.IssueSchemaDeviation); got != 1 {
				t.Errorf("Expected 1 schema deviation, got %d", got)
			}
		})
	}
}

func TestInferLOD(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"lod0Network", 0},
		{"lod3Thing", 3},
		{"myLod4Solid", defaultUnknownLOD},
		{"extLod", defaultUnknownLOD},
		{"lod9Geometry", defaultUnknownLOD},
		{"xlod1", 1},
	}
	for _, tt := range tests {
		if got := inferLOD(tt.name); got != tt.want {
			t.Errorf("inferLOD(%q): Expected %d, got %d", tt.name, tt.want, got)
		}
	}
}
