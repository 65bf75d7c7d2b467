package parser

import (
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/beetlebugorg/citygml/internal/model"
)

// builder creates the objects of one document and keeps the cross-document
// bookkeeping: the arena, rings by id for texture attachment, appearances
// and the deferred-resolution registry.
type builder struct {
	opts  ParseOptions
	log   commonlog.Logger
	diag  *model.Diagnostics
	arena *model.Arena

	deferred    *deferredRegistry
	rings       map[string]*model.LinearRing
	texCoords   []*model.TextureCoordinates
	appearances []*model.Appearance
}

func newBuilder(opts ParseOptions, log commonlog.Logger, diag *model.Diagnostics) *builder {
	b := &builder{
		opts:  opts,
		log:   log,
		diag:  diag,
		arena: model.NewArena(),
		rings: make(map[string]*model.LinearRing),
	}
	b.deferred = newDeferredRegistry(b)
	return b
}

func (b *builder) newCityModel(id string) *model.CityModel {
	m := model.NewCityModel(id, b.arena)
	m.Diagnostics = b.diag
	m.Path = b.opts.DocumentPath
	return m
}

// newCityObject allocates an object and registers it as a target for
// cross-references.
func (b *builder) newCityObject(id string, kind model.Kind) *model.CityObject {
	obj := b.arena.New(id, kind)
	if id != "" {
		b.deferred.registerProvider(id, obj)
	}
	return obj
}

func (b *builder) newLinearRing(id string, exterior bool) *model.LinearRing {
	r := model.NewLinearRing(id, exterior)
	if id != "" {
		b.rings[id] = r
	}
	return r
}

func (b *builder) addTextureCoordinates(tc *model.TextureCoordinates) {
	b.texCoords = append(b.texCoords, tc)
}

func (b *builder) addAppearance(a *model.Appearance) {
	b.appearances = append(b.appearances, a)
}

// codeValue resolves key through the code list named by codeSpace. Without
// a codeSpace or resolver the key is returned unchanged.
func (b *builder) codeValue(codeSpace, key string) string {
	if codeSpace == "" || b.opts.CodeLists == nil {
		return key
	}
	return b.opts.CodeLists.Resolve(codeSpace, b.opts.DocumentPath, key)
}

// close attaches texture coordinates to their rings and hands appearances
// to the model. It runs once, after the last element.
func (b *builder) close(m *model.CityModel) {
	for _, tc := range b.texCoords {
		r, ok := b.rings[tc.Ring]
		if !ok {
			b.warn(model.IssueReferenceMiss, "app:textureCoordinates", "texture coordinates reference unknown ring %q", tc.Ring)
			continue
		}
		r.Textures = append(r.Textures, tc)
	}
	for _, a := range b.appearances {
		m.AddAppearance(a)
	}
	b.texCoords = nil
	b.appearances = nil
	b.rings = nil
}

// warn logs a warning and records it in the diagnostics report.
func (b *builder) warn(kind model.IssueKind, element, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if element != "" {
		b.log.Warningf("%s: <%s> %s", kind, element, msg)
	} else {
		b.log.Warningf("%s: %s", kind, msg)
	}
	b.diag.Add(kind, element, "%s", msg)
}

// unsupported records content that is read over on purpose. It is logged at
// info level since the document is not at fault.
func (b *builder) unsupported(element, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	b.log.Infof("<%s> %s", element, msg)
	b.diag.Add(model.IssueSchemaDeviation, element, "%s", msg)
}
