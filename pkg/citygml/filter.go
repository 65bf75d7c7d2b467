package citygml

import (
	"strings"

	"github.com/casbin/govaluate"
	"github.com/pkg/errors"
)

// Filter selects city objects with an expression over their attributes.
//
// Attribute names are used as variables; names that are not valid
// identifiers, and paths into generic attribute sets, are written in
// brackets:
//
//	kind == 'Building' && measuredHeight > 20
//	[usage.floor] >= 3 || contains(name, 'Station')
//
// The variables id, kind and parent hold the object's identifier, kind name
// and parent identifier. Attributes the object does not carry evaluate to
// nil; exists(x) tests for them.
type Filter struct {
	source string
	expr   *govaluate.EvaluableExpression
}

var filterFunctions = map[string]govaluate.ExpressionFunction{
	// govaluate calls a function without arguments when its single
	// argument is nil.
	"exists": func(args ...interface{}) (interface{}, error) {
		if len(args) > 1 {
			return nil, errors.New("exists takes one argument")
		}
		return len(args) == 1 && args[0] != nil, nil
	},
	"contains": func(args ...interface{}) (interface{}, error) {
		if len(args) != 2 {
			return nil, errors.New("contains takes two arguments")
		}
		s, _ := args[0].(string)
		sub, _ := args[1].(string)
		return strings.Contains(s, sub), nil
	},
	"lower": func(args ...interface{}) (interface{}, error) {
		if len(args) > 1 {
			return nil, errors.New("lower takes one argument")
		}
		if len(args) == 0 {
			return "", nil
		}
		s, _ := args[0].(string)
		return strings.ToLower(s), nil
	},
}

// NewFilter compiles an expression.
func NewFilter(expression string) (*Filter, error) {
	expr, err := govaluate.NewEvaluableExpressionWithFunctions(expression, filterFunctions)
	if err != nil {
		return nil, errors.Wrapf(err, "compile filter %q", expression)
	}
	return &Filter{source: expression, expr: expr}, nil
}

func (f *Filter) String() string {
	return f.source
}

// Match evaluates the filter against obj. An expression that does not
// produce a boolean is an error.
func (f *Filter) Match(obj *CityObject) (bool, error) {
	result, err := f.expr.Eval(objectParameters{obj})
	if err != nil {
		return false, errors.Wrapf(err, "evaluate filter on %s", obj)
	}
	b, ok := result.(bool)
	if !ok {
		return false, errors.Errorf("filter %q returned %T, not a boolean", f.source, result)
	}
	return b, nil
}

// objectParameters exposes a city object to govaluate.
type objectParameters struct {
	obj *CityObject
}

func (p objectParameters) Get(name string) (interface{}, error) {
	switch name {
	case "id":
		return p.obj.ID, nil
	case "kind":
		return p.obj.Kind.String(), nil
	case "parent":
		if parent := p.obj.Parent(); parent != nil {
			return parent.ID, nil
		}
		return "", nil
	}

	path := strings.Split(name, ".")
	v, ok := p.obj.Attributes[path[0]]
	for _, key := range path[1:] {
		if !ok || !v.IsSet() {
			return nil, nil
		}
		v, ok = v.Set()[key]
	}
	if !ok {
		return nil, nil
	}
	return v.Native(), nil
}
