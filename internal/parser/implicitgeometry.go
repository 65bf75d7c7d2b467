package parser

import (
	"github.com/beetlebugorg/citygml/internal/model"
)

// implicitGeometryParser reads a core:ImplicitGeometry: a prototype
// geometry placed by a transformation matrix at a reference point.
type implicitGeometryParser struct {
	element
	typ     model.GeometryType
	lod     int
	deliver func(*model.ImplicitGeometry)

	ig  *model.ImplicitGeometry
	pos positionReader
}

func newImplicitGeometryParser(doc *DocumentParser, typ model.GeometryType, lod int, deliver func(*model.ImplicitGeometry)) *implicitGeometryParser {
	p := &implicitGeometryParser{typ: typ, lod: lod, deliver: deliver}
	p.init(doc, p)
	return p
}

func (p *implicitGeometryParser) Name() string { return "implicit geometry" }

func (p *implicitGeometryParser) Handles(n Node) bool { return n.Is("core:ImplicitGeometry") }

func (p *implicitGeometryParser) startBound(n Node, attrs *Attributes) (bool, error) {
	if !p.Handles(n) {
		return false, nil
	}
	p.ig = &model.ImplicitGeometry{
		ID:        attrs.IDOrEmpty(),
		LOD:       p.lod,
		Transform: model.IdentityTransform,
	}
	return true, nil
}

func (p *implicitGeometryParser) endBound(Node, string) error {
	p.deliver(p.ig)
	return nil
}

func (p *implicitGeometryParser) startChild(n Node, attrs *Attributes) (bool, error) {
	switch n.QualifiedName() {
	case "core:mimeType", "core:transformationMatrix", "core:libraryObject", "core:referencePoint":
		return true, nil
	case "core:relativeGMLGeometry":
		if attrs.HasXLink() {
			p.ig.RelativeGeometryRef = attrs.XLinkValue()
			return true, nil
		}
		p.pushNext(geometryChoice(p.doc, p.typ, p.lod, func(g *model.Geometry) {
			p.ig.Geometries = append(p.ig.Geometries, g)
		}))
		return true, nil
	case "gml:Point":
		if srs := attrs.Value("srsName"); srs != "" {
			p.ig.SRSName = srs
		}
		return true, nil
	}
	if p.pos.start(n, attrs) {
		if srs := attrs.Value("srsName"); srs != "" {
			p.ig.SRSName = srs
		}
		return true, nil
	}
	return false, nil
}

func (p *implicitGeometryParser) endChild(n Node, text string) (bool, error) {
	switch n.QualifiedName() {
	case "core:mimeType":
		p.ig.MimeType = text
		return true, nil
	case "core:libraryObject":
		p.ig.LibraryObject = text
		return true, nil
	case "core:transformationMatrix":
		values, err := parseFloats(text)
		if err != nil || len(values) != 16 {
			p.doc.builder.warn(model.IssueDataQuality, n.QualifiedName(), "implicit geometry %q: expected 16 matrix values, got %q", p.ig.ID, text)
			return true, nil
		}
		copy(p.ig.Transform[:], values)
		return true, nil
	case "core:relativeGMLGeometry", "gml:Point":
		return true, nil
	case "core:referencePoint":
		if k := len(p.pos.vertices); k > 0 {
			p.ig.ReferencePoint = p.pos.vertices[k-1]
		}
		return true, nil
	}
	ok, err := p.pos.end(n, text)
	if err != nil {
		p.doc.builder.warn(model.IssueDataQuality, n.QualifiedName(), "implicit geometry %q: %v", p.ig.ID, err)
		return true, nil
	}
	return ok, nil
}
