package parser

import (
	"github.com/beetlebugorg/citygml/internal/model"
)

type edgeRequest struct {
	requester *model.CityObject
	targetID  string
}

// deferredRegistry collects cross-references that can only be resolved
// once the whole document has been read.
type deferredRegistry struct {
	b         *builder
	providers map[string]*model.CityObject
	requests  []edgeRequest
}

func newDeferredRegistry(b *builder) *deferredRegistry {
	return &deferredRegistry{b: b, providers: make(map[string]*model.CityObject)}
}

// registerProvider records obj as the target for id. A second object with
// the same id replaces the first.
func (r *deferredRegistry) registerProvider(id string, obj *model.CityObject) {
	if prev, ok := r.providers[id]; ok && prev != obj {
		r.b.warn(model.IssueDataQuality, "", "duplicate definition of city object %q, overwriting %s", id, prev)
	}
	r.providers[id] = obj
}

// requestEdge records that requester refers to the object with id.
func (r *deferredRegistry) requestEdge(requester *model.CityObject, id string) {
	r.requests = append(r.requests, edgeRequest{requester: requester, targetID: id})
}

// resolveAll attaches every resolvable request as a shared member of its
// requester and reports the rest. The registry is empty afterwards.
func (r *deferredRegistry) resolveAll() (resolved, missed int) {
	r.b.log.Infof("resolving %d cross-references", len(r.requests))
	for _, req := range r.requests {
		target, ok := r.providers[req.targetID]
		if !ok {
			r.b.warn(model.IssueReferenceMiss, "", "%s references city object %q but no such object exists",
				req.requester, req.targetID)
			missed++
			continue
		}
		req.requester.AddShared(target)
		resolved++
	}
	r.providers = make(map[string]*model.CityObject)
	r.requests = nil
	return resolved, missed
}

// pending returns the number of unresolved requests.
func (r *deferredRegistry) pending() int {
	return len(r.requests)
}
