package parser

// ElementParser reads one region of the document. The document parser
// forwards every event to the parser on top of its stack.
//
// The first start event a parser receives binds it to that element; every
// later event up to the bound element's end belongs to its content, unless
// the parser pushed another parser in the meantime.
type ElementParser interface {
	Name() string
	// Handles reports whether the parser can bind to n.
	Handles(n Node) bool
	// StartElement returns false when the element is not accepted; the
	// document parser then skips the element's subtree.
	StartElement(n Node, attrs *Attributes) (bool, error)
	EndElement(n Node, text string) (bool, error)
}

// elementHooks are the per-parser callbacks driven by element.
type elementHooks interface {
	startBound(n Node, attrs *Attributes) (bool, error)
	// endBound runs after the parser was removed from the stack, so it may
	// hand its result to the parser below.
	endBound(n Node, text string) error
	startChild(n Node, attrs *Attributes) (bool, error)
	endChild(n Node, text string) (bool, error)
}

type boundParser interface {
	ElementParser
	elementHooks
}

// element implements the bind/child dispatch shared by all parsers that
// read exactly one element.
type element struct {
	doc   *DocumentParser
	self  boundParser
	bound Node
	bnd   bool
	// depth counts open elements with the bound element's name inside the
	// bound element, so a nested namesake does not end the parser early.
	depth int
}

func (e *element) init(doc *DocumentParser, self boundParser) {
	e.doc = doc
	e.self = self
}

func (e *element) isBound() bool {
	return e.bnd
}

// StartElement binds the parser or dispatches child content.
func (e *element) StartElement(n Node, attrs *Attributes) (bool, error) {
	if !e.bnd {
		ok, err := e.self.startBound(n, attrs)
		if err != nil {
			return false, err
		}
		if !ok {
			// An unbound parser that rejects its element has nothing left
			// to read.
			e.doc.Pop(e.self)
			return false, nil
		}
		e.bound, e.bnd = n, true
		return true, nil
	}

	top := e.doc.Top()
	ok, err := e.self.startChild(n, attrs)
	if ok && err == nil && e.doc.Top() == top && n.QualifiedName() == e.bound.QualifiedName() {
		e.depth++
	}
	return ok, err
}

// EndElement finishes the parser on the bound element's end tag.
func (e *element) EndElement(n Node, text string) (bool, error) {
	if !e.bnd {
		// The property element that pushed this parser was empty.
		e.doc.Pop(e.self)
		return e.doc.forwardEnd(n, text)
	}
	if n.QualifiedName() == e.bound.QualifiedName() {
		if e.depth == 0 {
			e.doc.Pop(e.self)
			return true, e.self.endBound(n, text)
		}
		e.depth--
	}
	return e.self.endChild(n, text)
}

// pushNext installs p to receive the next start event.
func (e *element) pushNext(p ElementParser) {
	e.doc.Push(p)
}

// delegate installs p and hands it the current start event.
func (e *element) delegate(p ElementParser, n Node, attrs *Attributes) (bool, error) {
	e.doc.Push(p)
	return p.StartElement(n, attrs)
}
