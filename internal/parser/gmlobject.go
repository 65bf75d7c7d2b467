package parser

import (
	"strconv"

	"github.com/beetlebugorg/citygml/internal/model"
)

// attrFrame is one open element of extension content.
type attrFrame struct {
	name      string
	codeSpace string
	set       model.AttributeSet
	// transparent frames hand their children to the level below instead of
	// wrapping them in a set.
	transparent bool
}

// gmlObject holds the state shared by parsers of GML features: the bounding
// envelope, name and description, and extension content stored as nested
// attribute sets.
type gmlObject struct {
	b     *builder
	attrs func() model.AttributeSet

	setEnvelope func(*model.Envelope)
	envelope    *model.Envelope
	corners     positionReader

	// extensionIncoming marks the next child as extension content whose
	// wrapper element is transparent.
	extensionIncoming bool
	hierarchy         []attrFrame
}

func (g *gmlObject) inExtension() bool {
	return g.extensionIncoming || len(g.hierarchy) > 0
}

// startGML handles the GML feature properties. It reports whether n was
// one of them.
func (g *gmlObject) startGML(n Node, attrs *Attributes) bool {
	switch n.QualifiedName() {
	case "gml:name", "gml:description", "gml:identifier", "gml:descriptionReference", "gml:metaDataProperty":
		return true
	case "gml:boundedBy":
		return true
	case "gml:Envelope":
		g.envelope = &model.Envelope{SRSName: attrs.Value("srsName")}
		return true
	case "gml:lowerCorner", "gml:upperCorner":
		g.corners = positionReader{}
		g.corners.start(Lookup("gml:pos"), attrs)
		return true
	}
	return false
}

// endGML is the counterpart of startGML.
func (g *gmlObject) endGML(n Node, text string) bool {
	switch n.QualifiedName() {
	case "gml:name", "gml:description":
		if text != "" {
			g.attrs()[n.Name] = model.NewAttributeValue(text, model.AttributeString)
		}
		return true
	case "gml:identifier", "gml:descriptionReference", "gml:metaDataProperty", "gml:boundedBy":
		return true
	case "gml:lowerCorner", "gml:upperCorner":
		g.readCorner(n, text)
		return true
	case "gml:Envelope":
		if g.envelope != nil && g.setEnvelope != nil {
			g.setEnvelope(g.envelope)
		}
		g.envelope = nil
		return true
	}
	return false
}

func (g *gmlObject) readCorner(n Node, text string) {
	if g.envelope == nil {
		return
	}
	vs, err := parsePositions(text, g.corners.dim)
	if err != nil || len(vs) != 1 {
		g.b.warn(model.IssueDataQuality, n.QualifiedName(), "invalid envelope corner %q", text)
		return
	}
	if n.Name == "lowerCorner" {
		g.envelope.SetLower(vs[0])
	} else {
		g.envelope.SetUpper(vs[0])
	}
}

// startExtension opens a level of extension content.
func (g *gmlObject) startExtension(n Node, attrs *Attributes) {
	g.hierarchy = append(g.hierarchy, attrFrame{
		name:        n.Name,
		codeSpace:   attrs.Value("codeSpace"),
		set:         model.AttributeSet{},
		transparent: g.extensionIncoming && len(g.hierarchy) == 0,
	})
	g.extensionIncoming = false
}

// endExtension closes the innermost level. Leaves become typed values,
// levels with children become nested sets.
func (g *gmlObject) endExtension(n Node, text string) {
	last := len(g.hierarchy) - 1
	frame := g.hierarchy[last]
	g.hierarchy = g.hierarchy[:last]

	if len(frame.set) == 0 {
		value := text
		if frame.codeSpace != "" {
			value = g.b.codeValue(frame.codeSpace, text)
		}
		g.store(frame.name, model.NewAttributeValue(value, model.DetectAttributeType(value)))
		return
	}
	if frame.transparent && len(g.hierarchy) == 0 {
		for _, k := range frame.set.Keys() {
			g.store(k, frame.set[k])
		}
		return
	}
	g.store(frame.name, model.NewAttributeSetValue(frame.set))
}

// addExtensionLeaf records an element that closed without children.
func (g *gmlObject) addExtensionLeaf(n Node, text string) {
	g.store(n.Name, model.NewAttributeValue(text, model.DetectAttributeType(text)))
}

// store puts v under key in the innermost open set, or on the object. A
// set stored under a key that already holds a non-empty set gets a numbered
// key (key2, key3, ...).
func (g *gmlObject) store(key string, v model.AttributeValue) {
	target := g.attrs()
	if n := len(g.hierarchy); n > 0 {
		target = g.hierarchy[n-1].set
	}
	if v.IsSet() {
		key = freeSetKey(target, key)
	}
	target[key] = v
}

func freeSetKey(set model.AttributeSet, key string) string {
	if existing, ok := set[key]; !ok || !existing.IsSet() || len(existing.Set()) == 0 {
		return key
	}
	for i := 2; ; i++ {
		candidate := key + strconv.Itoa(i)
		if existing, ok := set[candidate]; !ok || !existing.IsSet() || len(existing.Set()) == 0 {
			return candidate
		}
	}
}

// overrideSRS applies the configured source reference system to env.
func (g *gmlObject) overrideSRS(env *model.Envelope) *model.Envelope {
	src := g.b.opts.SrcSRS
	if src == "" {
		return env
	}
	if env == nil {
		return &model.Envelope{SRSName: src}
	}
	out := *env
	out.SRSName = src
	return &out
}
