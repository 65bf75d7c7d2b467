package parser

import (
	"github.com/beetlebugorg/citygml/internal/model"
)

// cityModelParser reads the core:CityModel root element.
type cityModelParser struct {
	element
	gmlObject
	deliver func(*model.CityModel)

	model *model.CityModel
}

func newCityModelParser(doc *DocumentParser, deliver func(*model.CityModel)) *cityModelParser {
	p := &cityModelParser{deliver: deliver}
	p.init(doc, p)
	p.gmlObject = gmlObject{
		b:     doc.builder,
		attrs: func() model.AttributeSet { return p.model.Attributes },
		setEnvelope: func(env *model.Envelope) {
			p.model.Envelope = env
			if env.SRSName != "" {
				p.model.SRSName = env.SRSName
			}
		},
	}
	return p
}

func (p *cityModelParser) Name() string { return "city model" }

func (p *cityModelParser) Handles(n Node) bool { return n.Is("core:CityModel") }

func (p *cityModelParser) startBound(n Node, attrs *Attributes) (bool, error) {
	if !p.Handles(n) {
		p.doc.log.Errorf("expected <core:CityModel>, got <%s>", n)
		return false, structuralError(n, "document root is not a city model")
	}
	p.model = p.doc.builder.newCityModel(attrs.IDOrEmpty())
	return true, nil
}

func (p *cityModelParser) endBound(Node, string) error {
	if src := p.doc.opts.SrcSRS; src != "" {
		p.model.Envelope = p.overrideSRS(p.model.Envelope)
		p.model.SRSName = src
	}
	p.deliver(p.model)
	return nil
}

func (p *cityModelParser) startChild(n Node, attrs *Attributes) (bool, error) {
	if p.inExtension() {
		p.startExtension(n, attrs)
		return true, nil
	}
	switch n.QualifiedName() {
	case "core:cityObjectMember", "gml:featureMember":
		p.pushNext(newCityObjectParser(p.doc, p.model.AddRoot))
		return true, nil
	case "app:appearanceMember", "app:appearance":
		if p.doc.opts.IgnoreGeometries {
			p.pushNext(newSkipParser(p.doc))
		} else {
			p.pushNext(newAppearanceParser(p.doc))
		}
		return true, nil
	}
	if p.startGML(n, attrs) {
		return true, nil
	}
	if !n.Valid() {
		p.startExtension(n, attrs)
		return true, nil
	}
	return false, nil
}

func (p *cityModelParser) endChild(n Node, text string) (bool, error) {
	if len(p.hierarchy) > 0 {
		p.endExtension(n, text)
		return true, nil
	}
	switch n.QualifiedName() {
	case "core:cityObjectMember", "gml:featureMember", "app:appearanceMember", "app:appearance":
		return true, nil
	}
	return p.endGML(n, text), nil
}
