package container

import (
	"fmt"
	"reflect"
	"slices"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// SelfAbstract is the name under which a new container registers itself.
const SelfAbstract = "container"

// DefaultMaxDepth bounds the length of a single resolution chain.
const DefaultMaxDepth = 100

// ── Binding types ─────────────────────────────────────────────────────────────

// binding holds a registered concrete and whether its result is shared.
type binding struct {
	concrete Concrete
	shared   bool
}

// Extender decorates a freshly built instance before it is cached or returned.
type Extender func(instance any, c *Container) (any, error)

// methodKey identifies a method on a receiver type.
type methodKey struct {
	typ    reflect.Type
	method string
}

// ── Container ─────────────────────────────────────────────────────────────────

// Container is a string-keyed IoC container modelled on Laravel's
// Illuminate\Container\Container.
//
// It supports:
//   - Bind / Singleton / BindIf / SingletonIf / Instance / Alias
//   - Make / MakeWith / Resolve (generic) with name-driven auto-injection
//   - Call / CallClass ("Class@method" dispatch)
//   - Tags, Extend, contextual binding (When / Needs / Give)
//   - Rebound and after-resolving callbacks
//
// Map access is guarded by a mutex, but the lock is never held while user
// code (factories, loaders, extenders, callbacks) runs.
type Container struct {
	mu sync.RWMutex

	// abstract → binding
	bindings map[string]*binding

	// abstract → shared or explicitly registered instance
	instances map[string]any

	// alias → abstract (one level)
	aliases map[string]string

	// abstract → resolved at least once
	resolved map[string]bool

	// abstract → extenders, in registration order
	extenders map[string][]Extender

	// tag → []abstract
	tags map[string][]string

	// contextual: when[abstract][parameter] = concrete
	contextual map[string]map[string]Concrete

	// declared method parameter names
	methods map[methodKey][]string

	// rebound callbacks: abstract → []func(any)
	reboundCallbacks map[string][]func(any)

	// resolved callbacks: []func(abstract, instance)
	afterResolving []func(string, any)

	loader   Loader
	logger   *zap.Logger
	maxDepth int
}

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Container) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithLoader sets the Loader used for unbound names and External concretes.
// The default is an empty Catalog, so unbound names fail with a NotFoundError.
func WithLoader(l Loader) Option {
	return func(c *Container) {
		if l != nil {
			c.loader = l
		}
	}
}

// WithMaxDepth bounds the depth of a single resolution chain.
// Values below 1 keep DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(c *Container) {
		if n > 0 {
			c.maxDepth = n
		}
	}
}

// New creates an empty container that holds itself under SelfAbstract.
func New(opts ...Option) *Container {
	c := &Container{
		loader:   NewCatalog(),
		logger:   zap.NewNop(),
		maxDepth: DefaultMaxDepth,
	}
	c.reset()
	for _, opt := range opts {
		opt(c)
	}
	// Bind the container to itself — like Laravel's $app->instance()
	c.Instance(SelfAbstract, c)
	return c
}

func (c *Container) reset() {
	c.bindings = make(map[string]*binding)
	c.instances = make(map[string]any)
	c.aliases = make(map[string]string)
	c.resolved = make(map[string]bool)
	c.extenders = make(map[string][]Extender)
	c.tags = make(map[string][]string)
	c.contextual = make(map[string]map[string]Concrete)
	c.methods = make(map[methodKey][]string)
	c.reboundCallbacks = make(map[string][]func(any))
	c.afterResolving = nil
}

// Logger returns the container's logger.
func (c *Container) Logger() *zap.Logger { return c.logger }

// Loader returns the container's loader.
func (c *Container) Loader() Loader { return c.loader }

// ── Registration ──────────────────────────────────────────────────────────────

// Bind registers a transient binding: every Make builds a new value.
// A nil concrete binds the abstract to itself (loaded through the Loader).
//
//	// Laravel: $app->bind(UserRepository::class, EloquentUserRepository::class)
//	c.Bind("UserRepository", container.Func(NewEloquentUserRepository, "db"))
func (c *Container) Bind(abstract string, concrete Concrete) {
	c.bind(abstract, concrete, false)
}

// Singleton registers a shared binding whose result is cached after the first
// resolution.
//
//	// Laravel: $app->singleton(Cache::class, fn($app) => new RedisCache($app))
//	c.Singleton("cache", container.Func(cache.NewRedis, "config"))
func (c *Container) Singleton(abstract string, concrete Concrete) {
	c.bind(abstract, concrete, true)
}

// BindIf binds only if the abstract is not already bound. It reports whether
// the binding was stored.
func (c *Container) BindIf(abstract string, concrete Concrete) bool {
	return c.bindIf(abstract, concrete, false)
}

// SingletonIf is the shared form of BindIf.
func (c *Container) SingletonIf(abstract string, concrete Concrete) bool {
	return c.bindIf(abstract, concrete, true)
}

func (c *Container) bindIf(abstract string, concrete Concrete, shared bool) bool {
	c.mu.Lock()
	if c.boundLocked(abstract) {
		c.mu.Unlock()
		return false
	}
	c.storeLocked(abstract, concrete, shared)
	c.mu.Unlock()
	c.logger.Debug("container: bound", zap.String("abstract", abstract), zap.Bool("shared", shared))
	return true
}

// bind stores the binding and evicts any stale instance, then fires rebound
// callbacks if the abstract had already been resolved.
func (c *Container) bind(abstract string, concrete Concrete, shared bool) {
	c.mu.Lock()
	c.storeLocked(abstract, concrete, shared)
	rebound := c.resolved[abstract] && len(c.reboundCallbacks[abstract]) > 0
	c.mu.Unlock()

	c.logger.Debug("container: bound", zap.String("abstract", abstract), zap.Bool("shared", shared))

	if rebound {
		instance, err := c.Make(abstract)
		if err != nil {
			c.logger.Debug("container: rebound resolution failed",
				zap.String("abstract", abstract), zap.Error(err))
			return
		}
		c.fireRebound(abstract, instance)
	}
}

func (c *Container) storeLocked(abstract string, concrete Concrete, shared bool) {
	// Drop the stale instance so the next Make uses the new binding
	delete(c.instances, abstract)
	c.bindings[abstract] = &binding{concrete: concrete, shared: shared}
}

// Instance registers a pre-built value. Any alias with the same name is
// removed; subsequent Make calls return exactly this value.
//
//	// Laravel: $app->instance(Config::class, $config)
//	c.Instance("config", myConfig)
func (c *Container) Instance(abstract string, instance any) {
	c.mu.Lock()
	delete(c.aliases, abstract)
	wasBound := c.boundLocked(abstract)
	c.instances[abstract] = instance
	c.mu.Unlock()

	c.logger.Debug("container: instance registered", zap.String("abstract", abstract))

	if wasBound {
		c.fireRebound(abstract, instance)
	}
}

// Alias registers an alternative name for an abstract. Aliases are one level
// deep and a later alias with the same name replaces an earlier one.
//
//	// Laravel: $app->alias(Cache::class, 'cache')
//	c.Alias("cache", "cacheManager")
func (c *Container) Alias(abstract, alias string) error {
	if abstract == alias {
		return &InvalidArgumentError{Reason: fmt.Sprintf("[%s] is aliased to itself", abstract)}
	}
	c.mu.Lock()
	c.aliases[alias] = abstract
	c.mu.Unlock()
	c.logger.Debug("container: aliased", zap.String("abstract", abstract), zap.String("alias", alias))
	return nil
}

// ── Extend ────────────────────────────────────────────────────────────────────

// Extend decorates the resolved instance of an abstract. If a shared instance
// is already cached it is decorated immediately.
//
//	// Laravel: $app->extend(Logger::class, fn($logger, $app) => new TimestampLogger($logger))
//	c.Extend("logger", func(instance any, c *container.Container) (any, error) {
//	    return logging.NewTimestampWrapper(instance.(*Logger)), nil
//	})
func (c *Container) Extend(abstract string, fn Extender) error {
	key := c.GetAlias(abstract)

	c.mu.Lock()
	c.extenders[key] = append(c.extenders[key], fn)
	inst, cached := c.instances[key]
	c.mu.Unlock()

	if !cached {
		return nil
	}

	extended, err := fn(inst, c)
	if err != nil {
		return &ConstructorError{Name: key, Cause: err}
	}
	c.mu.Lock()
	c.instances[key] = extended
	c.mu.Unlock()
	c.fireRebound(key, extended)
	return nil
}

func (c *Container) applyExtenders(key string, instance any) (any, error) {
	c.mu.RLock()
	exts := append([]Extender(nil), c.extenders[key]...)
	c.mu.RUnlock()

	var err error
	for _, ext := range exts {
		if instance, err = ext(instance, c); err != nil {
			return nil, &ConstructorError{Name: key, Cause: err}
		}
	}
	return instance, nil
}

// ── Tags ──────────────────────────────────────────────────────────────────────

// Tag associates multiple abstracts under a named group.
//
//	// Laravel: $app->tag([CpuReport::class, MemoryReport::class], 'reports')
//	c.Tag([]string{"CpuReport", "MemoryReport"}, "reports")
func (c *Container) Tag(abstracts []string, tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tags[tag] = append(c.tags[tag], abstracts...)
}

// Tagged resolves all abstracts registered under a tag, in tag order. The first
// failure aborts the whole call.
//
//	// Laravel: $app->tagged('reports')
//	reports, err := c.Tagged("reports")
func (c *Container) Tagged(tag string) ([]any, error) {
	c.mu.RLock()
	abstracts := append([]string(nil), c.tags[tag]...)
	c.mu.RUnlock()

	result := make([]any, 0, len(abstracts))
	for _, abs := range abstracts {
		inst, err := c.Make(abs)
		if err != nil {
			return nil, err
		}
		result = append(result, inst)
	}
	return result, nil
}

// ── Queries ───────────────────────────────────────────────────────────────────

// Bound reports whether the name has a binding, an instance, or is an alias.
//
//	// Laravel: $app->bound(UserRepository::class)
func (c *Container) Bound(abstract string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.boundLocked(abstract)
}

func (c *Container) boundLocked(abstract string) bool {
	_, hasBinding := c.bindings[abstract]
	_, hasInstance := c.instances[abstract]
	_, isAlias := c.aliases[abstract]
	return hasBinding || hasInstance || isAlias
}

// IsAlias reports whether the name is a registered alias.
func (c *Container) IsAlias(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.aliases[name]
	return ok
}

// GetAlias returns the abstract an alias points to, or name itself.
// It follows exactly one level.
func (c *Container) GetAlias(name string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if target, ok := c.aliases[name]; ok {
		return target
	}
	return name
}

// IsShared reports whether resolutions of the abstract are cached: either an
// instance is already stored or the binding is a singleton.
func (c *Container) IsShared(abstract string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isSharedLocked(abstract)
}

func (c *Container) isSharedLocked(abstract string) bool {
	if _, ok := c.instances[abstract]; ok {
		return true
	}
	b, ok := c.bindings[abstract]
	return ok && b.shared
}

// Resolved reports whether the abstract has been resolved at least once.
//
//	// Laravel: $app->resolved(Cache::class)
func (c *Container) Resolved(abstract string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resolved[c.aliasLocked(abstract)]
}

func (c *Container) aliasLocked(name string) string {
	if target, ok := c.aliases[name]; ok {
		return target
	}
	return name
}

// Bindings returns the sorted names that have a binding or an instance.
func (c *Container) Bindings() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.bindings)+len(c.instances))
	for k := range c.bindings {
		out = append(out, k)
	}
	for k := range c.instances {
		if _, already := c.bindings[k]; !already {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// ── Removal ───────────────────────────────────────────────────────────────────

// Forget removes the binding, cached instance and alias stored under name.
// A later Make behaves as if the name had never been registered.
//
//	// Laravel: $app->forgetInstance(Cache::class)
func (c *Container) Forget(abstract string) {
	c.mu.Lock()
	delete(c.bindings, abstract)
	delete(c.instances, abstract)
	delete(c.aliases, abstract)
	c.mu.Unlock()
	c.logger.Debug("container: forgot", zap.String("abstract", abstract))
}

// Flush resets the entire container: bindings, instances, aliases, resolved
// markers and every auxiliary table. The self registration is dropped too,
// and so are Rebinding and AfterResolving callbacks: observers such as a
// metrics collector must register again after a Flush.
func (c *Container) Flush() {
	c.mu.Lock()
	c.reset()
	c.mu.Unlock()
	c.logger.Debug("container: flushed")
}

// ── Callbacks ─────────────────────────────────────────────────────────────────

// Rebinding registers a callback fired when an already resolved abstract is
// bound again or receives a new instance.
//
//	// Laravel: $app->rebinding(UserRepository::class, fn($app, $repo) => ...)
func (c *Container) Rebinding(abstract string, cb func(any)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reboundCallbacks[abstract] = append(c.reboundCallbacks[abstract], cb)
}

// AfterResolving registers a callback fired after every successful Make.
//
//	// Laravel: $app->afterResolving(fn($object, $app) => ...)
func (c *Container) AfterResolving(cb func(abstract string, instance any)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.afterResolving = append(c.afterResolving, cb)
}

func (c *Container) fireRebound(abstract string, instance any) {
	c.mu.RLock()
	cbs := slices.Clone(c.reboundCallbacks[abstract])
	c.mu.RUnlock()
	for _, cb := range cbs {
		cb(instance)
	}
}

func (c *Container) fireAfterResolving(abstract string, instance any) {
	c.mu.RLock()
	cbs := slices.Clone(c.afterResolving)
	c.mu.RUnlock()
	for _, cb := range cbs {
		cb(abstract, instance)
	}
}

// ── Reflect helpers ───────────────────────────────────────────────────────────

// TypeKey returns the package-qualified type name of v, useful as a stable
// abstract key when working with interfaces.
//
//	key := container.TypeKey((*UserRepository)(nil))  // "main.UserRepository"
//	c.Singleton(key, container.Func(NewUserRepository))
//	repo, err := container.Resolve[UserRepository](c, key)
//
// TypeKey(nil) returns "".
func TypeKey(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return ""
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.PkgPath() + "." + t.Name()
}
