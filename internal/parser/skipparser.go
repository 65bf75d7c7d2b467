package parser

// skipParser consumes one element and everything inside it.
type skipParser struct {
	element
}

func newSkipParser(doc *DocumentParser) *skipParser {
	p := &skipParser{}
	p.init(doc, p)
	return p
}

// newBoundSkipParser returns a skip parser already bound to n, for content
// whose start event has been consumed.
func newBoundSkipParser(doc *DocumentParser, n Node) *skipParser {
	p := newSkipParser(doc)
	p.bound, p.bnd = n, true
	return p
}

func (p *skipParser) Name() string { return "skip" }

func (p *skipParser) Handles(Node) bool { return true }

func (p *skipParser) startBound(n Node, _ *Attributes) (bool, error) {
	p.doc.log.Debugf("skipping <%s>", n)
	return true, nil
}

func (p *skipParser) endBound(Node, string) error { return nil }

func (p *skipParser) startChild(Node, *Attributes) (bool, error) { return true, nil }

func (p *skipParser) endChild(Node, string) (bool, error) { return true, nil }
