package citygml

import (
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/pkg/errors"
	"github.com/tliron/commonlog"

	"github.com/beetlebugorg/citygml/internal/metrics"
	"github.com/beetlebugorg/citygml/internal/model"
)

// boundsPad widens index rectangles so flat envelopes (a ground surface
// has no height) still intersect. Query results are checked against the
// exact envelopes afterwards.
const boundsPad = 1e-7

// ObjectIndex provides spatial queries over the city objects of one or more
// models.
//
// Every object with an envelope, declared or derived from its geometry, is
// stored in a 3-D R-tree. Queries return entries in the order the models
// were added and the objects appear in their documents.
//
// Example:
//
//	idx := citygml.BuildIndex(models...)
//	hits := idx.Query(citygml.NewEnvelope(lower, upper), citygml.QueryOptions{
//	    Kinds: []citygml.Kind{citygml.KindBuilding},
//	})
type ObjectIndex struct {
	entries []*ObjectEntry
	rtree   *rtreego.Rtree
	srsName string
	log     commonlog.Logger
}

// ObjectEntry is one indexed city object.
type ObjectEntry struct {
	Object   *CityObject
	Path     string // document the object was read from
	Envelope Envelope

	order int
}

// Bounds implements rtreego.Spatial.
func (e *ObjectEntry) Bounds() rtreego.Rect {
	return envelopeRect(&e.Envelope)
}

func envelopeRect(env *Envelope) rtreego.Rect {
	lower := rtreego.Point{env.Lower[0] - boundsPad, env.Lower[1] - boundsPad, env.Lower[2] - boundsPad}
	upper := rtreego.Point{env.Upper[0] + boundsPad, env.Upper[1] + boundsPad, env.Upper[2] + boundsPad}
	rect, _ := rtreego.NewRectFromPoints(lower, upper)
	return rect
}

// NewEnvelope creates an envelope from two corners.
func NewEnvelope(lower, upper Vec3) *Envelope {
	return model.NewEnvelope("", lower, upper)
}

// QueryOptions controls spatial query behavior.
type QueryOptions struct {
	// Kinds restricts results to these kinds. Empty means every kind.
	Kinds []Kind

	// RootsOnly skips objects that have a parent.
	RootsOnly bool

	// Filter further restricts results. Objects the filter cannot be
	// evaluated on are left out.
	Filter *Filter
}

// BuildIndex creates an index over every object of the given models.
func BuildIndex(models ...*CityModel) *ObjectIndex {
	idx := &ObjectIndex{
		rtree: rtreego.NewTree(3, 25, 50),
		log:   commonlog.GetLogger("citygml.index"),
	}
	for _, m := range models {
		idx.Add(m)
	}
	return idx
}

// BuildIndexFromDir parses every document below root and indexes the
// result. Documents that fail to load are reported in the returned error
// slice; the error is non-nil only when nothing could be indexed.
func BuildIndexFromDir(root string, parser Parser, opts LoadOptions) (*ObjectIndex, []error, error) {
	paths, err := FindDocuments(root)
	if err != nil {
		return nil, nil, err
	}
	if len(paths) == 0 {
		return nil, nil, errors.Errorf("no documents found in %s", root)
	}

	models, errs := LoadModelsParallel(paths, parser, opts)
	if len(models) == 0 {
		return nil, errs, errors.Errorf("no documents could be loaded (%d errors)", len(errs))
	}
	return BuildIndex(models...), errs, nil
}

// Add indexes the objects of m. Objects without a usable envelope are
// skipped.
func (idx *ObjectIndex) Add(m *CityModel) {
	if idx.srsName == "" {
		idx.srsName = m.SRSName
	} else if m.SRSName != "" && m.SRSName != idx.srsName {
		idx.log.Warningf("%s uses %s, index holds %s; reproject before indexing", m.Path, m.SRSName, idx.srsName)
	}

	skipped := 0
	for _, obj := range m.AllObjects() {
		env := obj.ComputeEnvelope()
		if !env.Valid() {
			skipped++
			continue
		}
		entry := &ObjectEntry{Object: obj, Path: m.Path, Envelope: *env, order: len(idx.entries)}
		idx.entries = append(idx.entries, entry)
		idx.rtree.Insert(entry)
	}
	if skipped > 0 {
		idx.log.Debugf("%s: %d objects without envelope not indexed", m.Path, skipped)
	}
	metrics.IndexedObjects.Set(float64(len(idx.entries)))
}

// Query returns the entries whose envelope intersects bounds (touching
// counts). A nil bounds matches every entry.
func (idx *ObjectIndex) Query(bounds *Envelope, opts QueryOptions) []*ObjectEntry {
	var candidates []*ObjectEntry
	if bounds == nil {
		candidates = idx.entries
	} else {
		for _, s := range idx.rtree.SearchIntersect(envelopeRect(bounds)) {
			entry := s.(*ObjectEntry)
			if entry.Envelope.Intersects(bounds) {
				candidates = append(candidates, entry)
			}
		}
		sortEntries(candidates)
	}

	kinds := make(map[Kind]bool, len(opts.Kinds))
	for _, k := range opts.Kinds {
		kinds[k] = true
	}

	var result []*ObjectEntry
	for _, entry := range candidates {
		if len(kinds) > 0 && !kinds[entry.Object.Kind] {
			continue
		}
		if opts.RootsOnly && entry.Object.Parent() != nil {
			continue
		}
		if opts.Filter != nil {
			ok, err := opts.Filter.Match(entry.Object)
			if err != nil {
				idx.log.Debugf("%s", err)
				continue
			}
			if !ok {
				continue
			}
		}
		result = append(result, entry)
	}
	return result
}

func sortEntries(entries []*ObjectEntry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].order < entries[j].order })
}

// Count returns the number of indexed objects.
func (idx *ObjectIndex) Count() int {
	return len(idx.entries)
}

// SRSName returns the reference system of the first model added.
func (idx *ObjectIndex) SRSName() string {
	return idx.srsName
}

// Bounds returns the union of all indexed envelopes.
func (idx *ObjectIndex) Bounds() *Envelope {
	env := &Envelope{SRSName: idx.srsName}
	for _, e := range idx.entries {
		env.Expand(e.Envelope.Lower)
		env.Expand(e.Envelope.Upper)
	}
	return env
}

// All returns every indexed entry.
func (idx *ObjectIndex) All() []*ObjectEntry {
	return idx.entries
}
