package parser

import (
	"github.com/beetlebugorg/citygml/internal/model"
)

// Properties whose content is a nested city object owned by the enclosing
// one, or a reference to one.
var nestedObjectProperties = []string{
	"bldg:boundedBy", "bldg:outerBuildingInstallation", "bldg:interiorBuildingInstallation",
	"bldg:interiorFurniture", "bldg:roomInstallation", "bldg:interiorRoom", "bldg:opening",
	"bldg:consistsOfBuildingPart", "tran:trafficArea", "tran:auxiliaryTrafficArea", "wtr:boundedBy",
	"dem:reliefComponent", "core:generalizesTo", "brid:boundedBy", "brid:consistsOfBridgePart",
	"brid:outerBridgeConstructionElement", "brid:outerBridgeInstallation", "tun:boundedBy",
}

// Property elements that only wrap content handled elsewhere.
var passThroughProperties = []string{
	"app:appearanceMember", "app:appearance", "grp:groupMember", "grp:parent", "bldg:address",
	"core:address", "uro:extendedAttribute", "uro:KeyValuePair", "uro:KeyValuePairAttribute", "dem:grid",
}

// Content that is skipped as a whole.
var unsupportedContent = []string{
	"gml:MultiPoint", "grp:geometry", "tran:lod0Network", "gml:RectifiedGridCoverage",
}

// cityObjectParser reads one city object: its attributes, geometry,
// appearance and nested objects.
type cityObjectParser struct {
	element
	gmlObject
	deliver func(*model.CityObject)

	obj *model.CityObject
	// unknownObject is set when an unregistered element was found to
	// contain a city object; its unexpected content is kept as attributes.
	unknownObject bool

	// Generic attributes: the pending name and type, and the open
	// gen:genericAttributeSet elements.
	genericName string
	genericType model.AttributeType
	genericSets []model.AttributeSet
	codeSpace   string

	// i-UR key/value pairs.
	keyCodeSpace   string
	valueCodeSpace string
	key            string
}

func newCityObjectParser(doc *DocumentParser, deliver func(*model.CityObject)) *cityObjectParser {
	p := &cityObjectParser{deliver: deliver}
	p.init(doc, p)
	p.gmlObject = gmlObject{
		b:           doc.builder,
		attrs:       func() model.AttributeSet { return p.obj.Attributes },
		setEnvelope: func(env *model.Envelope) { p.obj.Envelope = env },
	}
	return p
}

func (p *cityObjectParser) Name() string { return "city object" }

func (p *cityObjectParser) Handles(n Node) bool {
	_, ok := KindFor(n)
	return ok
}

// startBound accepts any element. Elements outside the kind table become
// objects of kind Unknown.
func (p *cityObjectParser) startBound(n Node, attrs *Attributes) (bool, error) {
	kind, ok := KindFor(n)
	if !ok && !p.unknownObject {
		p.doc.log.Debugf("<%s> is not a known city object, reading it as %s", n, model.KindUnknown)
	}
	p.obj = p.doc.builder.newCityObject(attrs.IDOrEmpty(), kind)
	if p.unknownObject {
		p.obj.SetAttribute("extensionElement", model.NewAttributeValue(n.QualifiedName(), model.AttributeString))
	}
	return true, nil
}

func (p *cityObjectParser) endBound(Node, string) error {
	if p.doc.opts.SrcSRS != "" {
		p.obj.Envelope = p.overrideSRS(p.obj.Envelope)
	}
	p.deliver(p.obj)
	return nil
}

func (p *cityObjectParser) startChild(n Node, attrs *Attributes) (bool, error) {
	if p.inExtension() {
		p.startExtension(n, attrs)
		return true, nil
	}

	qname := n.QualifiedName()
	if t, ok := genericAttributeTypes[qname]; ok {
		p.genericName = attrs.Value("name")
		p.genericType = t
		return true, nil
	}
	if qname == "gen:genericAttributeSet" {
		set := model.AttributeSet{}
		p.genericTarget()[attrs.Value("name")] = model.NewAttributeSetValue(set)
		p.genericSets = append(p.genericSets, set)
		return true, nil
	}
	if qname == "gen:value" {
		return true, nil
	}
	if _, ok := AttributeTypeFor(n); ok {
		p.codeSpace = attrs.Value("codeSpace")
		return true, nil
	}

	switch {
	case isOneOf(n, unsupportedContent):
		p.doc.builder.unsupported(qname, "skipping unsupported content of %s", p.obj)
		p.doc.Push(newBoundSkipParser(p.doc, n))
		return true, nil
	case qname == "grp:groupMember":
		if attrs.HasXLink() {
			p.doc.builder.deferred.requestEdge(p.obj, attrs.XLinkValue())
		} else {
			p.pushNext(newCityObjectParser(p.doc, p.obj.AddChild))
		}
		return true, nil
	case qname == "grp:parent":
		if attrs.HasXLink() {
			p.obj.SetAttribute("parent", model.NewAttributeValue(attrs.XLinkValue(), model.AttributeString))
		}
		return true, nil
	case isOneOf(n, nestedObjectProperties):
		if attrs.HasXLink() {
			p.doc.builder.deferred.requestEdge(p.obj, attrs.XLinkValue())
		} else {
			p.pushNext(newCityObjectParser(p.doc, p.obj.AddChild))
		}
		return true, nil
	case qname == "app:appearanceMember" || qname == "app:appearance":
		if p.doc.opts.IgnoreGeometries {
			p.pushNext(newSkipParser(p.doc))
		} else {
			p.pushNext(newAppearanceParser(p.doc))
		}
		return true, nil
	case qname == "app:Appearance":
		if p.doc.opts.IgnoreGeometries {
			return p.delegate(newSkipParser(p.doc), n, attrs)
		}
		return p.delegate(newAppearanceParser(p.doc), n, attrs)
	case qname == "core:externalReference":
		return p.delegate(newExternalReferenceParser(p.doc, func(r *model.ExternalReference) {
			p.obj.ExternalReference = r
		}), n, attrs)
	case qname == "bldg:address" || qname == "core:address":
		p.pushNext(newAddressParser(p.doc, p.setAddress))
		return true, nil
	case qname == "core:Address":
		return p.delegate(newAddressParser(p.doc, p.setAddress), n, attrs)
	case qname == "uro:extendedAttribute" || qname == "uro:KeyValuePair" || qname == "uro:KeyValuePairAttribute":
		return true, nil
	case qname == "uro:key":
		p.keyCodeSpace = attrs.Value("codeSpace")
		return true, nil
	case qname == "uro:codeValue":
		p.valueCodeSpace = attrs.Value("codeSpace")
		return true, nil
	case qname == "dem:grid":
		return true, nil
	}

	if prop, ok := geometryPropertyFor(n); ok {
		p.startGeometryProperty(n, attrs, prop)
		return true, nil
	}

	if !n.Valid() {
		if attrs.Value("codeSpace") != "" {
			p.startExtension(n, attrs)
			return true, nil
		}
		p.doc.Push(newElementResolver(p.doc, p, n, attrs))
		return true, nil
	}

	if p.startGML(n, attrs) {
		return true, nil
	}
	if p.unknownObject {
		p.startExtension(n, attrs)
		return true, nil
	}
	return false, nil
}

// startGeometryProperty installs the parser for a geometry property's
// content.
func (p *cityObjectParser) startGeometryProperty(n Node, attrs *Attributes, prop geometryProperty) {
	if p.doc.opts.IgnoreGeometries {
		p.pushNext(newSkipParser(p.doc))
		return
	}
	if attrs.HasXLink() {
		p.doc.log.Infof("%s: <%s> refers to geometry %q, shared geometry is not resolved", p.obj, n, attrs.XLinkValue())
		return
	}

	kind := p.obj.Kind
	if prop.Kind != model.KindUnknown {
		kind = prop.Kind
	}
	typ := model.GeometryTypeFor(kind)

	switch prop.Mode {
	case modeImplicit:
		p.pushNext(newImplicitGeometryParser(p.doc, typ, prop.LOD, p.obj.AddImplicitGeometry))
	case modeRelief:
		p.pushNext(geometryChoice(p.doc, typ, p.reliefLOD(n), p.obj.AddGeometry))
	default:
		p.pushNext(geometryChoice(p.doc, typ, prop.LOD, p.obj.AddGeometry))
	}
}

// reliefLOD returns the level of detail declared by the relief's dem:lod.
func (p *cityObjectParser) reliefLOD(n Node) int {
	v, ok := p.obj.Attributes["lod"]
	if !ok {
		p.doc.builder.warn(model.IssueDataQuality, n.QualifiedName(), "%s has no lod, assuming 0", p.obj)
		return 0
	}
	lod, err := v.Int()
	if err != nil || lod < 0 || lod > 4 {
		p.doc.builder.warn(model.IssueDataQuality, n.QualifiedName(), "%s has invalid lod %q, assuming 0", p.obj, v.String())
		return 0
	}
	return int(lod)
}

func (p *cityObjectParser) setAddress(a *model.Address) {
	p.obj.Address = a
}

// genericTarget is the set generic attributes are currently added to.
func (p *cityObjectParser) genericTarget() model.AttributeSet {
	if n := len(p.genericSets); n > 0 {
		return p.genericSets[n-1]
	}
	return p.obj.Attributes
}

func (p *cityObjectParser) endChild(n Node, text string) (bool, error) {
	if len(p.hierarchy) > 0 {
		p.endExtension(n, text)
		return true, nil
	}

	qname := n.QualifiedName()
	if _, ok := genericAttributeTypes[qname]; ok {
		p.genericName = ""
		p.genericType = model.AttributeString
		return true, nil
	}
	switch qname {
	case "gen:genericAttributeSet":
		if k := len(p.genericSets); k > 0 {
			p.genericSets = p.genericSets[:k-1]
		}
		return true, nil
	case "gen:value":
		if p.genericName == "" {
			p.doc.builder.warn(model.IssueDataQuality, qname, "value outside a generic attribute of %s", p.obj)
			return true, nil
		}
		p.genericTarget()[p.genericName] = model.NewAttributeValue(text, p.genericType)
		return true, nil
	case "uro:key":
		p.key = p.doc.builder.codeValue(p.keyCodeSpace, text)
		return true, nil
	case "uro:codeValue":
		if p.key == "" {
			p.doc.builder.warn(model.IssueDataQuality, qname, "code value without a key in %s", p.obj)
			return true, nil
		}
		value := p.doc.builder.codeValue(p.valueCodeSpace, text)
		p.obj.SetAttribute(p.key, model.NewAttributeValue(value, model.AttributeString))
		p.key = ""
		return true, nil
	}

	if t, ok := AttributeTypeFor(n); ok {
		if text == "" {
			return true, nil
		}
		if t == model.AttributeCodeList {
			text = p.doc.builder.codeValue(p.codeSpace, text)
		}
		p.obj.SetAttribute(n.Name, model.NewAttributeValue(text, t))
		p.codeSpace = ""
		return true, nil
	}

	if isOneOf(n, nestedObjectProperties) || isOneOf(n, passThroughProperties) {
		return true, nil
	}
	if _, ok := geometryPropertyFor(n); ok {
		return true, nil
	}
	return p.endGML(n, text), nil
}
