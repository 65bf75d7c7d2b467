package parser

import (
	"github.com/beetlebugorg/citygml/internal/model"
)

// addressParser reads a core:Address with its xAL details. xAL is a large
// schema; elements we do not map are read over without a warning.
type addressParser struct {
	element
	deliver func(*model.Address)

	addr *model.Address
	pos  positionReader
}

func newAddressParser(doc *DocumentParser, deliver func(*model.Address)) *addressParser {
	p := &addressParser{deliver: deliver}
	p.init(doc, p)
	return p
}

func (p *addressParser) Name() string { return "address" }

func (p *addressParser) Handles(n Node) bool { return n.Is("core:Address") }

func (p *addressParser) startBound(n Node, attrs *Attributes) (bool, error) {
	if !p.Handles(n) {
		return false, nil
	}
	p.addr = &model.Address{ID: attrs.IDOrEmpty()}
	return true, nil
}

func (p *addressParser) endBound(n Node, _ string) error {
	if k := len(p.pos.vertices); k > 0 {
		v := p.pos.vertices[k-1]
		p.addr.Position = &v
	}
	if p.addr.Empty() {
		p.doc.builder.warn(model.IssueDataQuality, n.QualifiedName(), "address %q has no content", p.addr.ID)
	}
	p.deliver(p.addr)
	return nil
}

func (p *addressParser) startChild(n Node, attrs *Attributes) (bool, error) {
	p.pos.start(n, attrs)
	return true, nil
}

func (p *addressParser) endChild(n Node, text string) (bool, error) {
	switch n.QualifiedName() {
	case "xAL:CountryName":
		p.addr.Country = text
	case "xAL:LocalityName":
		p.addr.Locality = text
	case "xAL:ThoroughfareName":
		p.addr.ThoroughfareName = text
	case "xAL:ThoroughfareNumber":
		p.addr.ThoroughfareNo = text
	case "xAL:PostalCodeNumber":
		p.addr.PostalCode = text
	default:
		if _, err := p.pos.end(n, text); err != nil {
			p.doc.builder.warn(model.IssueDataQuality, n.QualifiedName(), "address %q: %v", p.addr.ID, err)
		}
	}
	return true, nil
}
