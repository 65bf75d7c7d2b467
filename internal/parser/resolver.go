package parser

import (
	"regexp"
	"strconv"

	"github.com/beetlebugorg/citygml/internal/model"
)

// lodPattern finds a level of detail in an element name such as
// "lod3Geometry".
var lodPattern = regexp.MustCompile(`lod([0-4])`)

// defaultUnknownLOD is used for geometry found under an element whose name
// carries no level of detail.
const defaultUnknownLOD = 2

// elementResolver decides what an unregistered child of a city object is.
// It holds the unregistered element until the next event shows whether the
// element has content, and what that content is:
//
//   - an element without gml:id is extension content of the owner,
//   - an element with gml:id whose first child is geometry is geometry,
//   - any other element with gml:id is a nested city object,
//   - an element that closes without children is a plain attribute.
//
// The held element and the new event are then both replayed into the
// chosen parser, which must accept them.
type elementResolver struct {
	doc        *DocumentParser
	owner      *cityObjectParser
	stock      Node
	stockAttrs *Attributes
}

func newElementResolver(doc *DocumentParser, owner *cityObjectParser, stock Node, attrs *Attributes) *elementResolver {
	return &elementResolver{doc: doc, owner: owner, stock: stock, stockAttrs: attrs}
}

func (r *elementResolver) Name() string {
	return "resolver(geometry|city object|attribute)"
}

func (r *elementResolver) Handles(Node) bool { return true }

func (r *elementResolver) StartElement(n Node, attrs *Attributes) (bool, error) {
	r.doc.Pop(r)

	var (
		target ElementParser
		as     string
	)
	id, hasID := r.stockAttrs.ID()
	probe := &geometryParser{}
	switch {
	case !hasID:
		as = "extension attribute"
		r.owner.extensionIncoming = true
		target = r.owner
	case probe.Handles(n):
		lod := inferLOD(r.stock.Name)
		as = "geometry at lod " + strconv.Itoa(lod)
		if r.doc.opts.IgnoreGeometries {
			target = newSkipParser(r.doc)
		} else {
			gp := newGeometryParser(r.doc, model.GeometryTypeFor(r.owner.obj.Kind), lod, r.owner.obj.AddGeometry)
			gp.unknownBound = true
			target = gp
		}
		r.doc.Push(target)
	default:
		as = "city object"
		op := newCityObjectParser(r.doc, r.owner.obj.AddChild)
		op.unknownObject = true
		target = op
		r.doc.Push(target)
	}
	r.doc.builder.warn(model.IssueSchemaDeviation, r.stock.QualifiedName(), "unknown element %q read as %s", id, as)

	if err := r.replay(target, r.stock, r.stockAttrs); err != nil {
		return false, err
	}
	if err := r.replay(target, n, attrs); err != nil {
		return false, err
	}
	return true, nil
}

func (r *elementResolver) replay(target ElementParser, n Node, attrs *Attributes) error {
	ok, err := target.StartElement(n, attrs)
	if err != nil {
		return err
	}
	if !ok {
		r.doc.log.Errorf("%s rejected <%s> after it was chosen for <%s>", target.Name(), n, r.stock)
		return structuralError(n, "%s rejected the element it was chosen for", target.Name())
	}
	return nil
}

// EndElement means the held element had no children.
func (r *elementResolver) EndElement(n Node, text string) (bool, error) {
	r.doc.Pop(r)
	r.owner.addExtensionLeaf(r.stock, text)
	r.doc.builder.warn(model.IssueSchemaDeviation, r.stock.QualifiedName(), "unknown element read as attribute of %s", r.owner.obj)
	return true, nil
}

// inferLOD reads the level of detail from an element name, falling back to
// defaultUnknownLOD.
func inferLOD(name string) int {
	m := lodPattern.FindStringSubmatch(name)
	if m == nil {
		return defaultUnknownLOD
	}
	lod, _ := strconv.Atoi(m[1])
	return lod
}
