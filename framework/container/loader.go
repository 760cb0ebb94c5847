package container

import (
	"errors"
	"sort"
	"sync"
)

// errNotRegistered is the loader-level cause when a Catalog has no entry.
var errNotRegistered = errors.New("no constructible registered under this name")

// Loader locates a constructible by its external name. It is consulted for
// every External concrete and for every abstract that has no binding.
//
// Loaders are called synchronously and their failures are never cached: a
// later Make of the same name calls Load again.
type Loader interface {
	Load(name string) (*Constructor, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(name string) (*Constructor, error)

// Load calls f(name).
func (f LoaderFunc) Load(name string) (*Constructor, error) { return f(name) }

// Catalog is an in-memory Loader: a set of named constructibles registered up
// front (typically from package init functions) and looked up on demand.
//
//	var Types = container.NewCatalog()
//
//	func init() {
//	    Types.Register("RedisCache", container.Func(cache.NewRedis, "config"))
//	}
type Catalog struct {
	mu    sync.RWMutex
	items map[string]*Constructor
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{items: make(map[string]*Constructor)}
}

// Register adds or replaces the constructible stored under name and returns the
// catalog for chaining.
func (cat *Catalog) Register(name string, ctor *Constructor) *Catalog {
	cat.mu.Lock()
	defer cat.mu.Unlock()
	cat.items[name] = ctor
	return cat
}

// Load implements Loader.
func (cat *Catalog) Load(name string) (*Constructor, error) {
	cat.mu.RLock()
	defer cat.mu.RUnlock()
	ctor, ok := cat.items[name]
	if !ok || ctor == nil {
		return nil, errNotRegistered
	}
	return ctor, nil
}

// Names returns the registered names in sorted order.
func (cat *Catalog) Names() []string {
	cat.mu.RLock()
	defer cat.mu.RUnlock()
	out := make([]string, 0, len(cat.items))
	for name := range cat.items {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
