package model

import "sort"

// CityModel is the root of a parsed document. It owns the arena and the
// list of root objects; the lookup maps are derived by Finalize.
type CityModel struct {
	ID         string
	SRSName    string
	Path       string
	Envelope   *Envelope
	Attributes AttributeSet

	Diagnostics *Diagnostics

	arena       *Arena
	roots       []Ref
	appearances []*Appearance
	themes      []string

	byKind map[Kind][]*CityObject
	byID   map[string][]*CityObject
}

// NewCityModel creates an empty model backed by arena.
func NewCityModel(id string, arena *Arena) *CityModel {
	if arena == nil {
		arena = NewArena()
	}
	return &CityModel{
		ID:          id,
		Attributes:  AttributeSet{},
		Diagnostics: &Diagnostics{},
		arena:       arena,
	}
}

// Arena returns the object store.
func (m *CityModel) Arena() *Arena {
	return m.arena
}

// AddRoot appends a top-level object.
func (m *CityModel) AddRoot(obj *CityObject) {
	m.roots = append(m.roots, obj.ref)
}

// Roots returns the top-level objects in document order.
func (m *CityModel) Roots() []*CityObject {
	out := make([]*CityObject, 0, len(m.roots))
	for _, r := range m.roots {
		out = append(out, m.arena.Get(r))
	}
	return out
}

// AddAppearance registers an appearance and its theme.
func (m *CityModel) AddAppearance(a *Appearance) {
	m.appearances = append(m.appearances, a)
	if a.Theme == "" {
		return
	}
	for _, t := range m.themes {
		if t == a.Theme {
			return
		}
	}
	m.themes = append(m.themes, a.Theme)
}

// Appearances returns every appearance read from the document.
func (m *CityModel) Appearances() []*Appearance {
	return m.appearances
}

// Themes returns the discovered appearance theme names in sorted order.
func (m *CityModel) Themes() []string {
	out := append([]string(nil), m.themes...)
	sort.Strings(out)
	return out
}

// Finalize builds the lookup maps with one recursive traversal over the
// owned object tree.
func (m *CityModel) Finalize() {
	m.byKind = make(map[Kind][]*CityObject)
	m.byID = make(map[string][]*CityObject)
	var visit func(o *CityObject)
	visit = func(o *CityObject) {
		m.byKind[o.Kind] = append(m.byKind[o.Kind], o)
		if o.ID != "" {
			m.byID[o.ID] = append(m.byID[o.ID], o)
		}
		for _, c := range o.Children() {
			visit(c)
		}
	}
	for _, r := range m.Roots() {
		visit(r)
	}
}

// ObjectsByKind returns every object of kind k, roots and descendants.
func (m *CityModel) ObjectsByKind(k Kind) []*CityObject {
	if m.byKind == nil {
		m.Finalize()
	}
	return m.byKind[k]
}

// ObjectsByID returns every object carrying id. Identifiers are expected to
// be unique, but documents in the wild repeat them.
func (m *CityModel) ObjectsByID(id string) []*CityObject {
	if m.byID == nil {
		m.Finalize()
	}
	return m.byID[id]
}

// AllObjects returns every owned object in depth-first document order.
func (m *CityModel) AllObjects() []*CityObject {
	var out []*CityObject
	var visit func(o *CityObject)
	visit = func(o *CityObject) {
		out = append(out, o)
		for _, c := range o.Children() {
			visit(c)
		}
	}
	for _, r := range m.Roots() {
		visit(r)
	}
	return out
}

// Rings calls fn for every linear ring of every polygon in the model,
// including those inside implicit geometries.
func (m *CityModel) Rings(fn func(obj *CityObject, p *Polygon, r *LinearRing)) {
	m.Polygons(func(obj *CityObject, p *Polygon) {
		for _, r := range p.Rings() {
			fn(obj, p, r)
		}
	})
}

// Polygons calls fn for every polygon in the model.
func (m *CityModel) Polygons(fn func(obj *CityObject, p *Polygon)) {
	walk := func(obj *CityObject, g *Geometry) {
		g.Walk(func(geom *Geometry) {
			for _, p := range geom.Polygons {
				fn(obj, p)
			}
		})
	}
	for _, obj := range m.AllObjects() {
		for _, g := range obj.Geometries() {
			walk(obj, g)
		}
		for _, ig := range obj.ImplicitGeometries() {
			for _, g := range ig.Geometries {
				walk(obj, g)
			}
		}
	}
}

// TransformVertices applies fn to every stored position: ring vertices,
// mesh vertices, line strings, implicit reference points and envelopes.
// The first error aborts the walk.
func (m *CityModel) TransformVertices(fn func([]Vec3) error) error {
	var err error
	apply := func(vs []Vec3) {
		if err != nil || len(vs) == 0 {
			return
		}
		err = fn(vs)
	}
	applyEnv := func(e *Envelope) {
		if !e.Valid() {
			return
		}
		corners := []Vec3{e.Lower, e.Upper}
		apply(corners)
		if err == nil {
			e.Lower, e.Upper = corners[0], corners[1]
		}
	}
	applyGeom := func(g *Geometry) {
		g.Walk(func(geom *Geometry) {
			for _, p := range geom.Polygons {
				for _, r := range p.Rings() {
					apply(r.Vertices)
				}
				if p.Mesh != nil {
					apply(p.Mesh.Vertices)
				}
			}
			for _, l := range geom.LineStrings {
				apply(l.Vertices)
			}
		})
	}

	for _, obj := range m.AllObjects() {
		for _, g := range obj.Geometries() {
			applyGeom(g)
		}
		for _, ig := range obj.ImplicitGeometries() {
			ref := []Vec3{ig.ReferencePoint}
			apply(ref)
			if err == nil {
				ig.ReferencePoint = ref[0]
			}
		}
		if obj.Address != nil && obj.Address.Position != nil {
			pos := []Vec3{*obj.Address.Position}
			apply(pos)
			if err == nil {
				*obj.Address.Position = pos[0]
			}
		}
		applyEnv(obj.Envelope)
	}
	applyEnv(m.Envelope)
	return err
}
