package parser

import "strings"

// Attr is one XML attribute of an element, with its prefix canonicalized.
type Attr struct {
	Name  string
	Value string
}

// Attributes is the ordered attribute list of one start tag.
type Attributes struct {
	list []Attr
}

// NewAttributes builds an attribute list from name/value pairs.
func NewAttributes(pairs ...string) *Attributes {
	a := &Attributes{}
	for i := 0; i+1 < len(pairs); i += 2 {
		a.Add(pairs[i], pairs[i+1])
	}
	return a
}

// Add appends an attribute.
func (a *Attributes) Add(name, value string) {
	a.list = append(a.list, Attr{Name: name, Value: value})
}

// Get returns the value of the named attribute. A bare name also matches a
// prefixed attribute with the same local name.
func (a *Attributes) Get(name string) (string, bool) {
	if a == nil {
		return "", false
	}
	for _, attr := range a.list {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	if strings.Contains(name, ":") {
		return "", false
	}
	for _, attr := range a.list {
		if _, local, ok := strings.Cut(attr.Name, ":"); ok && local == name {
			return attr.Value, true
		}
	}
	return "", false
}

// Value returns the named attribute or "" when absent.
func (a *Attributes) Value(name string) string {
	v, _ := a.Get(name)
	return v
}

// ID returns the element's gml:id.
func (a *Attributes) ID() (string, bool) {
	if a == nil {
		return "", false
	}
	for _, attr := range a.list {
		if attr.Name == "gml:id" {
			return attr.Value, attr.Value != ""
		}
	}
	return "", false
}

// IDOrEmpty returns the gml:id or "".
func (a *Attributes) IDOrEmpty() string {
	id, _ := a.ID()
	return id
}

// HasXLink reports whether the element carries an xlink:href.
func (a *Attributes) HasXLink() bool {
	v, ok := a.Get("xlink:href")
	return ok && v != ""
}

// XLinkValue returns the xlink:href target with a leading '#' removed.
func (a *Attributes) XLinkValue() string {
	v, _ := a.Get("xlink:href")
	return strings.TrimPrefix(strings.TrimSpace(v), "#")
}

// Len returns the number of attributes.
func (a *Attributes) Len() int {
	if a == nil {
		return 0
	}
	return len(a.list)
}

// All returns a copy of the attribute list.
func (a *Attributes) All() []Attr {
	if a == nil {
		return nil
	}
	return append([]Attr(nil), a.list...)
}
