package parser

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/beetlebugorg/citygml/internal/model"
)

// parseFloats reads whitespace separated numbers.
func parseFloats(text string) ([]float64, error) {
	fields := strings.Fields(text)
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid number %q", f)
		}
		out = append(out, v)
	}
	return out, nil
}

// parsePositions reads a gml:posList or gml:pos value. dim is the
// srsDimension (2 or 3); two-dimensional positions get z = 0.
func parsePositions(text string, dim int) ([]model.Vec3, error) {
	if dim != 2 {
		dim = 3
	}
	values, err := parseFloats(text)
	if err != nil {
		return nil, err
	}
	if len(values)%dim != 0 {
		return nil, errors.Errorf("%d values do not form %d-dimensional positions", len(values), dim)
	}
	out := make([]model.Vec3, 0, len(values)/dim)
	for i := 0; i < len(values); i += dim {
		v := model.Vec3{values[i], values[i+1]}
		if dim == 3 {
			v[2] = values[i+2]
		}
		out = append(out, v)
	}
	return out, nil
}

// parseCoordinates reads the legacy gml:coordinates form, tuples separated
// by ts with components separated by cs.
func parseCoordinates(text, cs, ts string) ([]model.Vec3, error) {
	if cs == "" {
		cs = ","
	}
	var tuples []string
	if ts == "" || strings.TrimSpace(ts) == "" {
		tuples = strings.Fields(text)
	} else {
		tuples = strings.Split(text, ts)
	}
	out := make([]model.Vec3, 0, len(tuples))
	for _, t := range tuples {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		parts := strings.Split(t, cs)
		if len(parts) < 2 || len(parts) > 3 {
			return nil, errors.Errorf("invalid coordinate tuple %q", t)
		}
		var v model.Vec3
		for i, p := range parts {
			f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid coordinate tuple %q", t)
			}
			v[i] = f
		}
		out = append(out, v)
	}
	return out, nil
}

// srsDimension reads the srsDimension attribute, defaulting to 3.
func srsDimension(attrs *Attributes) int {
	if v, ok := attrs.Get("srsDimension"); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return 3
}

// positionReader collects the vertices of any of the GML position forms
// found inside one element.
type positionReader struct {
	dim      int
	cs, ts   string
	coord    model.Vec3
	coordN   int
	vertices []model.Vec3
}

// start notes the attributes of a position element. It reports whether n
// is one.
func (r *positionReader) start(n Node, attrs *Attributes) bool {
	switch n.QualifiedName() {
	case "gml:posList", "gml:pos":
		r.dim = srsDimension(attrs)
	case "gml:coordinates":
		r.cs, r.ts = attrs.Value("cs"), attrs.Value("ts")
	case "gml:coord":
		r.coord, r.coordN = model.Vec3{}, 0
	case "gml:X", "gml:Y", "gml:Z":
	default:
		return false
	}
	return true
}

// end consumes the text of a position element.
func (r *positionReader) end(n Node, text string) (bool, error) {
	var (
		vs  []model.Vec3
		err error
	)
	switch n.QualifiedName() {
	case "gml:posList", "gml:pos":
		vs, err = parsePositions(text, r.dim)
	case "gml:coordinates":
		vs, err = parseCoordinates(text, r.cs, r.ts)
	case "gml:X", "gml:Y", "gml:Z":
		f, perr := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if perr != nil {
			return true, errors.Wrapf(perr, "invalid %s", n)
		}
		r.coord[strings.Index("XYZ", n.Name)] = f
		r.coordN++
		return true, nil
	case "gml:coord":
		if r.coordN > 0 {
			r.vertices = append(r.vertices, r.coord)
		}
		return true, nil
	default:
		return false, nil
	}
	if err != nil {
		return true, err
	}
	r.vertices = append(r.vertices, vs...)
	return true, nil
}
