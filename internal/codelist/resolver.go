package codelist

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
)

// DefaultCacheSize is the memory limit of a resolver's cache.
const DefaultCacheSize = 32 * 1024 * 1024

// Resolver maps codes to labels using the code list a codeSpace names. A
// relative codeSpace is resolved against the directory of the document
// that uses it. Lists that cannot be loaded resolve every code to itself;
// the failure is logged once per list.
//
// A Resolver is safe for concurrent use and may be shared between parses.
type Resolver struct {
	cache *Cache
	log   commonlog.Logger

	mu     sync.Mutex
	failed map[string]bool
}

// NewResolver creates a resolver backed by cache. A nil cache gets one of
// DefaultCacheSize.
func NewResolver(cache *Cache) *Resolver {
	if cache == nil {
		cache = NewCache(DefaultCacheSize)
	}
	return &Resolver{
		cache:  cache,
		log:    commonlog.GetLogger("citygml.codelist"),
		failed: make(map[string]bool),
	}
}

// Resolve returns the label for key, or key itself when there is none.
func (r *Resolver) Resolve(codeSpace, documentPath, key string) string {
	path, ok := r.locate(codeSpace, documentPath)
	if !ok {
		return key
	}
	list, ok := r.load(path)
	if !ok {
		return key
	}
	label, ok := list[key]
	if !ok {
		r.log.Debugf("code %q is not defined in %s", key, path)
		return key
	}
	return label
}

// locate turns a codeSpace into a file path.
func (r *Resolver) locate(codeSpace, documentPath string) (string, bool) {
	codeSpace = strings.TrimSpace(codeSpace)
	if codeSpace == "" {
		return "", false
	}
	if strings.Contains(codeSpace, "://") {
		r.warnOnce(codeSpace, "remote code list %s is not retrieved", codeSpace)
		return "", false
	}
	if filepath.IsAbs(codeSpace) || documentPath == "" {
		return filepath.Clean(codeSpace), true
	}
	return filepath.Join(filepath.Dir(documentPath), codeSpace), true
}

func (r *Resolver) load(path string) (List, bool) {
	r.mu.Lock()
	failed := r.failed[path]
	r.mu.Unlock()
	if failed {
		return nil, false
	}

	list, err := r.cache.Get(path, func() (List, error) {
		r.log.Infof("loading code list %s", path)
		return LoadDictionary(path)
	})
	if err != nil {
		r.warnOnce(path, "code list unavailable, using raw codes: %v", err)
		return nil, false
	}
	return list, true
}

func (r *Resolver) warnOnce(key, format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failed[key] {
		return
	}
	r.failed[key] = true
	r.log.Warningf(format, args...)
}

// Failed returns the code lists that could not be used, sorted.
func (r *Resolver) Failed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.failed))
	for k := range r.failed {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
