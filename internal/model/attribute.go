package model

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// AttributeType is the tag of an AttributeValue. It is fixed once the value
// is created.
type AttributeType int

const (
	AttributeString AttributeType = iota
	AttributeInteger
	AttributeDouble
	AttributeDate
	AttributeUri
	AttributeMeasure
	AttributeCodeList
	AttributeBoolean
	AttributeSetType
)

func (t AttributeType) String() string {
	switch t {
	case AttributeString:
		return "String"
	case AttributeInteger:
		return "Integer"
	case AttributeDouble:
		return "Double"
	case AttributeDate:
		return "Date"
	case AttributeUri:
		return "Uri"
	case AttributeMeasure:
		return "Measure"
	case AttributeCodeList:
		return "CodeList"
	case AttributeBoolean:
		return "Boolean"
	case AttributeSetType:
		return "AttributeSet"
	default:
		return "Unknown"
	}
}

// ParseAttributeType maps a type name (as used in the attribute table) to
// its AttributeType.
func ParseAttributeType(name string) (AttributeType, bool) {
	for t := AttributeString; t <= AttributeSetType; t++ {
		if strings.EqualFold(t.String(), name) {
			return t, true
		}
	}
	return AttributeString, false
}

// AttributeSet is a name/value map; values may themselves be sets, nested to
// any depth.
type AttributeSet map[string]AttributeValue

// Keys returns the set's keys in sorted order.
func (s AttributeSet) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AttributeValue is a tagged union of the attribute kinds a city object can
// carry. The zero value is an empty String.
type AttributeValue struct {
	typ  AttributeType
	text string
	set  AttributeSet
}

// NewAttributeValue creates a scalar value. Passing AttributeSetType yields
// an empty set.
func NewAttributeValue(text string, typ AttributeType) AttributeValue {
	if typ == AttributeSetType {
		return AttributeValue{typ: AttributeSetType, set: AttributeSet{}}
	}
	return AttributeValue{typ: typ, text: text}
}

// NewAttributeSetValue wraps a nested set.
func NewAttributeSetValue(set AttributeSet) AttributeValue {
	if set == nil {
		set = AttributeSet{}
	}
	return AttributeValue{typ: AttributeSetType, set: set}
}

// Type returns the value's tag.
func (v AttributeValue) Type() AttributeType {
	return v.typ
}

// IsSet reports whether the value is a nested attribute set.
func (v AttributeValue) IsSet() bool {
	return v.typ == AttributeSetType
}

// Set returns the nested set, or nil for scalar values.
func (v AttributeValue) Set() AttributeSet {
	return v.set
}

// String returns the raw text of a scalar value. Sets render as
// "{k=v, ...}" with sorted keys.
func (v AttributeValue) String() string {
	if v.typ != AttributeSetType {
		return v.text
	}
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range v.set.Keys() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(v.set[k].String())
	}
	b.WriteByte('}')
	return b.String()
}

// Int parses an Integer value.
func (v AttributeValue) Int() (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(v.text), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "attribute %q is not an integer", v.text)
	}
	return n, nil
}

// Float parses a Double, Measure or Integer value.
func (v AttributeValue) Float() (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v.text), 64)
	if err != nil {
		return 0, errors.Wrapf(err, "attribute %q is not a number", v.text)
	}
	return f, nil
}

// Bool parses a Boolean value.
func (v AttributeValue) Bool() (bool, error) {
	b, err := strconv.ParseBool(strings.TrimSpace(v.text))
	if err != nil {
		return false, errors.Wrapf(err, "attribute %q is not a boolean", v.text)
	}
	return b, nil
}

// Date parses a Date value (xs:date or xs:gYear).
func (v AttributeValue) Date() (time.Time, error) {
	s := strings.TrimSpace(v.text)
	for _, layout := range []string{"2006-01-02", "2006-01-02Z07:00", time.RFC3339, "2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("attribute %q is not a date", v.text)
}

// Native converts the value to a plain Go value: float64 for numeric types,
// bool for Boolean, map[string]any for sets and string otherwise. Values that
// fail to parse fall back to their text.
func (v AttributeValue) Native() any {
	switch v.typ {
	case AttributeInteger, AttributeDouble, AttributeMeasure:
		if f, err := v.Float(); err == nil {
			return f
		}
	case AttributeBoolean:
		if b, err := v.Bool(); err == nil {
			return b
		}
	case AttributeSetType:
		m := make(map[string]any, len(v.set))
		for k, nested := range v.set {
			m[k] = nested.Native()
		}
		return m
	}
	return v.text
}

var (
	intPattern    = regexp.MustCompile(`^[0-9]+$`)
	doublePattern = regexp.MustCompile(`^[0-9]+\.[0-9]*$`)
	datePattern   = regexp.MustCompile(`^\d{4}-\d\d-\d\d$`)
	uriPattern    = regexp.MustCompile(`^http.*$`)
)

// DetectAttributeType guesses the type of untyped extension content from
// its text.
func DetectAttributeType(text string) AttributeType {
	switch {
	case text == "true" || text == "false":
		return AttributeBoolean
	case intPattern.MatchString(text):
		return AttributeInteger
	case doublePattern.MatchString(text):
		return AttributeDouble
	case datePattern.MatchString(text):
		return AttributeDate
	case uriPattern.MatchString(text):
		return AttributeUri
	default:
		return AttributeString
	}
}
