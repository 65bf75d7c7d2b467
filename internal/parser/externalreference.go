package parser

import (
	"github.com/beetlebugorg/citygml/internal/model"
)

// externalReferenceParser reads a core:externalReference.
type externalReferenceParser struct {
	element
	deliver func(*model.ExternalReference)
	ref     *model.ExternalReference
}

func newExternalReferenceParser(doc *DocumentParser, deliver func(*model.ExternalReference)) *externalReferenceParser {
	p := &externalReferenceParser{deliver: deliver}
	p.init(doc, p)
	return p
}

func (p *externalReferenceParser) Name() string { return "external reference" }

func (p *externalReferenceParser) Handles(n Node) bool { return n.Is("core:externalReference") }

func (p *externalReferenceParser) startBound(n Node, _ *Attributes) (bool, error) {
	if !p.Handles(n) {
		return false, nil
	}
	p.ref = &model.ExternalReference{}
	return true, nil
}

func (p *externalReferenceParser) endBound(Node, string) error {
	p.deliver(p.ref)
	return nil
}

func (p *externalReferenceParser) startChild(n Node, _ *Attributes) (bool, error) {
	switch n.QualifiedName() {
	case "core:informationSystem", "core:externalObject", "core:name", "core:uri":
		return true, nil
	}
	return false, nil
}

func (p *externalReferenceParser) endChild(n Node, text string) (bool, error) {
	switch n.QualifiedName() {
	case "core:informationSystem":
		p.ref.InformationSystem = text
	case "core:name":
		p.ref.Name = text
	case "core:uri":
		p.ref.URI = text
	case "core:externalObject":
	default:
		return false, nil
	}
	return true, nil
}
