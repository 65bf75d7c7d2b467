package parser

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// namespacePrefixes maps well-known namespace URIs (any version) onto the
// registry's canonical prefixes.
var namespacePrefixes = []struct {
	uriPrefix string
	prefix    string
}{
	{"http://www.opengis.net/citygml/generics/", prefixGen},
	{"http://www.opengis.net/citygml/cityobjectgroup/", prefixGrp},
	{"http://www.opengis.net/citygml/appearance/", prefixApp},
	{"http://www.opengis.net/citygml/building/", prefixBldg},
	{"http://www.opengis.net/citygml/cityfurniture/", prefixFrn},
	{"http://www.opengis.net/citygml/vegetation/", prefixVeg},
	{"http://www.opengis.net/citygml/transportation/", prefixTran},
	{"http://www.opengis.net/citygml/landuse/", prefixLuse},
	{"http://www.opengis.net/citygml/relief/", prefixDem},
	{"http://www.opengis.net/citygml/waterbody/", prefixWtr},
	{"http://www.opengis.net/citygml/tunnel/", prefixTun},
	{"http://www.opengis.net/citygml/bridge/", prefixBrid},
	{"http://www.opengis.net/citygml/", prefixCore},
	{"http://www.opengis.net/gml", prefixGML},
	{"urn:oasis:names:tc:ciq:xsdschema:xAL", prefixXAL},
	{"http://www.w3.org/1999/xlink", prefixXLink},
	{"https://www.geospatial.jp/iur/uro", prefixURO},
	{"http://www.kantei.go.jp/jp/singi/tiiki/toshisaisei/itoshisaisei/iur/uro", prefixURO},
}

// EventHandler receives the events of one document.
type EventHandler interface {
	StartDocument()
	StartElement(name string, attrs *Attributes) error
	EndElement(name, text string) error
}

// xmlSource converts encoding/xml tokens into handler events with
// canonical qualified names.
type xmlSource struct {
	// declared maps namespace URIs to the prefix the document declared for
	// them, for namespaces the registry does not know.
	declared map[string]string
	text     []*strings.Builder
}

// Feed tokenizes r and drives h. Character data is accumulated per element
// and delivered, trimmed, with the element's end event.
func Feed(r io.Reader, h EventHandler) error {
	dec := xml.NewDecoder(r)
	src := &xmlSource{declared: make(map[string]string)}

	h.StartDocument()
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "read xml")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			src.declare(t.Attr)
			attrs := &Attributes{}
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
					continue
				}
				attrs.Add(src.qualify(a.Name), a.Value)
			}
			src.text = append(src.text, &strings.Builder{})
			if err := h.StartElement(src.qualify(t.Name), attrs); err != nil {
				return err
			}

		case xml.EndElement:
			text := ""
			if n := len(src.text); n > 0 {
				text = strings.TrimSpace(src.text[n-1].String())
				src.text = src.text[:n-1]
			}
			if err := h.EndElement(src.qualify(t.Name), text); err != nil {
				return err
			}

		case xml.CharData:
			if n := len(src.text); n > 0 {
				src.text[n-1].Write(t)
			}
		}
	}
}

func (s *xmlSource) declare(attrs []xml.Attr) {
	for _, a := range attrs {
		if a.Name.Space == "xmlns" {
			if _, ok := s.declared[a.Value]; !ok {
				s.declared[a.Value] = a.Name.Local
			}
		}
	}
}

// qualify returns "prefix:local" for a resolved xml.Name.
func (s *xmlSource) qualify(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	if p := prefixForNamespace(n.Space); p != "" {
		return p + ":" + n.Local
	}
	if p, ok := s.declared[n.Space]; ok {
		return p + ":" + n.Local
	}
	// A prefix that was never declared is passed through as the namespace.
	return n.Space + ":" + n.Local
}

func prefixForNamespace(uri string) string {
	for _, ns := range namespacePrefixes {
		if strings.HasPrefix(uri, ns.uriPrefix) {
			return ns.prefix
		}
	}
	return ""
}
