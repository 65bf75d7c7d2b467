package parser

import (
	"github.com/pkg/errors"
	"github.com/tliron/commonlog"

	"github.com/beetlebugorg/citygml/internal/model"
)

// EventStats counts the events seen by a DocumentParser. Every event is
// either forwarded to a parser or absorbed while skipping, so
// Events == Forwarded + Skipped.
type EventStats struct {
	Events    int
	Forwarded int
	Skipped   int
	// MaxSkipDepth is the deepest nesting of same-named elements met while
	// skipping.
	MaxSkipDepth int
}

type skipState struct {
	active bool
	name   string
	depth  int
}

// DocumentParser turns a stream of start/end events into a City Model
// using a stack of element parsers. One DocumentParser reads one document
// and is not safe for concurrent use.
type DocumentParser struct {
	opts    ParseOptions
	builder *builder
	log     commonlog.Logger

	stack []ElementParser
	skip  skipState
	stats EventStats

	model  *model.CityModel
	closed bool
}

// NewDocumentParser creates a parser for one document.
func NewDocumentParser(opts ParseOptions) *DocumentParser {
	log := commonlog.GetLogger("citygml.parser")
	diag := &model.Diagnostics{}
	return &DocumentParser{
		opts:    opts,
		log:     log,
		builder: newBuilder(opts, log, diag),
	}
}

// Stats returns the event counters.
func (d *DocumentParser) Stats() EventStats {
	return d.stats
}

// Diagnostics returns the issues recorded so far.
func (d *DocumentParser) Diagnostics() *model.Diagnostics {
	return d.builder.diag
}

// StartDocument marks the beginning of the event stream.
func (d *DocumentParser) StartDocument() {
	d.log.Infof("start parsing citygml document %q", d.opts.DocumentPath)
}

// StartElement handles an element start tag.
func (d *DocumentParser) StartElement(name string, attrs *Attributes) error {
	d.stats.Events++
	if d.skip.active {
		d.stats.Skipped++
		if name == d.skip.name {
			d.skip.depth++
			if d.skip.depth > d.stats.MaxSkipDepth {
				d.stats.MaxSkipDepth = d.skip.depth
			}
		}
		d.log.Debugf("skipping element <%s>", name)
		return nil
	}

	node := Lookup(name)
	if len(d.stack) == 0 {
		if d.closed {
			return structuralError(node, "content after the city model ended")
		}
		d.Push(newCityModelParser(d, func(m *model.CityModel) {
			d.model = m
			d.closed = true
		}))
	}

	top := d.Top()
	d.stats.Forwarded++
	ok, err := top.StartElement(node, attrs)
	if err != nil {
		d.log.Errorf("%s failed on <%s>: %v", top.Name(), name, err)
		return err
	}
	if !ok {
		d.builder.warn(model.IssueSchemaDeviation, name, "skipping unexpected element (active parser %s)", top.Name())
		d.skip = skipState{active: true, name: name}
	}
	return nil
}

// EndElement handles an element end tag with the element's accumulated
// character data.
func (d *DocumentParser) EndElement(name, text string) error {
	d.stats.Events++
	if d.skip.active {
		d.stats.Skipped++
		if name == d.skip.name {
			if d.skip.depth == 0 {
				d.skip = skipState{}
			} else {
				d.skip.depth--
			}
		}
		d.log.Debugf("skipped element <%s>", name)
		return nil
	}

	node := Lookup(name)
	if len(d.stack) == 0 {
		d.log.Errorf("end tag <%s> with an empty parser stack", name)
		return structuralError(node, "unexpected element end")
	}
	d.stats.Forwarded++
	top := d.Top()
	ok, err := top.EndElement(node, text)
	if err != nil {
		d.log.Errorf("%s failed on </%s>: %v", top.Name(), name, err)
		return err
	}
	if !ok {
		d.log.Errorf("%s reports end tag <%s> as unknown although its start tag was accepted", top.Name(), name)
	}
	return nil
}

// EndDocument runs the postprocessing pipeline and returns the model.
func (d *DocumentParser) EndDocument() (*model.CityModel, error) {
	if d.skip.active {
		d.builder.warn(model.IssueStructuralError, d.skip.name, "document ended while skipping")
	}
	if len(d.stack) > 0 {
		d.builder.warn(model.IssueStructuralError, "", "document ended with %d open parsers", len(d.stack))
	}
	d.log.Infof("finished parsing citygml document %q", d.opts.DocumentPath)

	if d.model == nil {
		return nil, errors.WithStack(&ErrStructural{Reason: "document contains no city model"})
	}
	if err := d.postprocess(d.model); err != nil {
		return nil, err
	}
	return d.model, nil
}

// Push makes p the active parser.
func (d *DocumentParser) Push(p ElementParser) {
	d.stack = append(d.stack, p)
}

// Pop removes caller from the stack. Only the active parser may remove
// itself; anything else is a programming error and panics with
// ErrForeignRemoval.
func (d *DocumentParser) Pop(caller ElementParser) {
	if len(d.stack) == 0 || d.stack[len(d.stack)-1] != caller {
		panic(ErrForeignRemoval)
	}
	d.stack[len(d.stack)-1] = nil
	d.stack = d.stack[:len(d.stack)-1]
}

// Top returns the active parser, or nil.
func (d *DocumentParser) Top() ElementParser {
	if len(d.stack) == 0 {
		return nil
	}
	return d.stack[len(d.stack)-1]
}

// Depth returns the stack height.
func (d *DocumentParser) Depth() int {
	return len(d.stack)
}

// forwardEnd hands an end event to the active parser.
func (d *DocumentParser) forwardEnd(n Node, text string) (bool, error) {
	top := d.Top()
	if top == nil {
		return false, structuralError(n, "unexpected element end")
	}
	return top.EndElement(n, text)
}
