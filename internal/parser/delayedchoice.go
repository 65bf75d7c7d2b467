package parser

import (
	"strings"

	"github.com/beetlebugorg/citygml/internal/model"
)

// delayedChoice waits for the first child of a property element and hands
// it to the first candidate parser that handles it.
type delayedChoice struct {
	doc     *DocumentParser
	choices []ElementParser
}

func newDelayedChoice(doc *DocumentParser, choices ...ElementParser) *delayedChoice {
	return &delayedChoice{doc: doc, choices: choices}
}

func (c *delayedChoice) Name() string {
	names := make([]string, len(c.choices))
	for i, p := range c.choices {
		names[i] = p.Name()
	}
	return "choice(" + strings.Join(names, "|") + ")"
}

func (c *delayedChoice) Handles(n Node) bool {
	for _, p := range c.choices {
		if p.Handles(n) {
			return true
		}
	}
	return false
}

func (c *delayedChoice) StartElement(n Node, attrs *Attributes) (bool, error) {
	c.doc.Pop(c)
	for _, p := range c.choices {
		if p.Handles(n) {
			c.doc.Push(p)
			return p.StartElement(n, attrs)
		}
	}
	c.doc.builder.warn(model.IssueSchemaDeviation, n.QualifiedName(), "none of %s can read this element", c.Name())
	return false, nil
}

// EndElement means the property element was empty.
func (c *delayedChoice) EndElement(n Node, text string) (bool, error) {
	c.doc.Pop(c)
	return c.doc.forwardEnd(n, text)
}

// geometryChoice builds the choice between a bare polygon, a bare line
// string and any geometry aggregate. Every alternative delivers a Geometry.
func geometryChoice(doc *DocumentParser, typ model.GeometryType, lod int, deliver func(*model.Geometry)) *delayedChoice {
	polygon := newPolygonParser(doc, func(p *model.Polygon) {
		g := model.NewGeometry(p.ID, typ, lod)
		g.AddPolygon(p)
		deliver(g)
	})
	line := newLineStringParser(doc, func(l *model.LineString) {
		g := model.NewGeometry(l.ID, typ, lod)
		g.AddLineString(l)
		deliver(g)
	})
	return newDelayedChoice(doc, polygon, line, newGeometryParser(doc, typ, lod, deliver))
}
