package container

import (
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"
)

// ── Resolution ────────────────────────────────────────────────────────────────

// resolution carries the stack of abstracts being built by one top-level Make
// or Call. It implements Resolver so Closure factories stay on the same stack.
type resolution struct {
	c     *Container
	stack []string
}

var _ Resolver = (*resolution)(nil)

// Make resolves an abstract from the container.
//
//	// Laravel: $app->make(UserRepository::class)
//	repo, err := c.Make("UserRepository")
func (c *Container) Make(abstract string) (any, error) {
	return c.MakeWith(abstract, nil)
}

// MakeWith resolves an abstract, using params as overrides for the declared
// parameters of whatever gets built. Overrides are matched by exact name and
// do not propagate to nested dependencies.
//
//	// Laravel: $app->makeWith(Report::class, ['period' => 'monthly'])
//	report, err := c.MakeWith("Report", container.Parameters{"period": "monthly"})
func (c *Container) MakeWith(abstract string, params Parameters) (any, error) {
	r := &resolution{c: c}
	return r.make(abstract, params)
}

// MustMake is like Make but panics on failure.
func (c *Container) MustMake(abstract string) any {
	instance, err := c.Make(abstract)
	if err != nil {
		panic(err)
	}
	return instance
}

func (r *resolution) Make(abstract string) (any, error) {
	return r.make(abstract, nil)
}

func (r *resolution) MakeWith(abstract string, params Parameters) (any, error) {
	return r.make(abstract, params)
}

func (r *resolution) make(abstract string, params Parameters) (any, error) {
	c := r.c
	key := c.GetAlias(abstract)

	// Check the instance cache
	if inst, ok := c.cached(key); ok {
		return inst, nil
	}

	if slices.Contains(r.stack, key) {
		return nil, &CircularDependencyError{Path: append(slices.Clone(r.stack), key)}
	}
	if len(r.stack) >= c.maxDepth {
		return nil, &DepthExceededError{Depth: c.maxDepth, Path: append(slices.Clone(r.stack), key)}
	}
	r.stack = append(r.stack, key)
	defer func() { r.stack = r.stack[:len(r.stack)-1] }()

	start := time.Now()
	concrete := c.concreteFor(key)

	var (
		instance any
		err      error
	)
	if ref, ok := concrete.(Reference); ok && string(ref) != key {
		instance, err = r.make(string(ref), params)
	} else {
		instance, err = r.build(key, concrete, params)
	}
	if err == nil {
		instance, err = c.applyExtenders(key, instance)
	}
	if err != nil {
		c.logger.Debug("container: resolution failed", zap.String("abstract", key), zap.Error(err))
		return nil, &ResolutionError{Abstract: key, Cause: err}
	}

	// Concurrent first builds of a shared abstract race here; the first one
	// stored is handed to every caller and the others are discarded.
	c.mu.Lock()
	shared := c.isSharedLocked(key)
	if shared {
		if winner, ok := c.instances[key]; ok {
			instance = winner
		} else {
			c.instances[key] = instance
		}
	}
	c.resolved[key] = true
	c.mu.Unlock()

	c.logger.Debug("container: resolved",
		zap.String("abstract", key),
		zap.Bool("shared", shared),
		zap.Duration("took", time.Since(start)))

	c.fireAfterResolving(key, instance)
	return instance, nil
}

// build constructs a buildable concrete for abstract.
func (r *resolution) build(abstract string, concrete Concrete, params Parameters) (any, error) {
	ctor, err := r.c.constructorFor(abstract, concrete)
	if err != nil {
		return nil, err
	}

	args, err := r.arguments(abstract, ctor.params, params)
	if err != nil {
		return nil, err
	}

	instance, err := ctor.invoke(r, args)
	if err != nil {
		return nil, &ConstructorError{Name: ctor.name, Cause: err}
	}
	return instance, nil
}

// arguments resolves each parameter name in order: caller override first, then
// a contextual binding for owner, then the container itself.
func (r *resolution) arguments(owner string, names []string, params Parameters) ([]any, error) {
	args := make([]any, len(names))
	for i, name := range names {
		if v, ok := params[name]; ok {
			args[i] = v
			continue
		}

		var (
			v   any
			err error
		)
		if given, ok := r.c.contextualFor(owner, name); ok {
			v, err = r.give(name, given)
		} else {
			v, err = r.make(name, nil)
		}
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

// give resolves a contextual concrete supplied for parameter name.
func (r *resolution) give(name string, concrete Concrete) (any, error) {
	if ref, ok := concrete.(Reference); ok {
		return r.make(string(ref), nil)
	}
	instance, err := r.build(name, concrete, nil)
	if err != nil {
		return nil, &ResolutionError{Abstract: name, Cause: err}
	}
	return instance, nil
}

// ── Lookups ───────────────────────────────────────────────────────────────────

func (c *Container) cached(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	inst, ok := c.instances[key]
	return inst, ok
}

// concreteFor returns the bound concrete, or an External load of the name
// itself when nothing is bound.
func (c *Container) concreteFor(key string) Concrete {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if b, ok := c.bindings[key]; ok {
		return b.concrete
	}
	return External(key)
}

// constructorFor turns a buildable concrete into a Constructor, asking the
// Loader for anything that is not one already.
func (c *Container) constructorFor(abstract string, concrete Concrete) (*Constructor, error) {
	switch cc := concrete.(type) {
	case *Constructor:
		if cc == nil {
			return c.load(abstract)
		}
		return cc, nil
	case External:
		return c.load(string(cc))
	case Reference:
		return c.load(string(cc))
	case nil:
		return c.load(abstract)
	default:
		return nil, &InvalidArgumentError{Reason: fmt.Sprintf("unsupported concrete %T for [%s]", concrete, abstract)}
	}
}

func (c *Container) load(name string) (*Constructor, error) {
	ctor, err := c.loader.Load(name)
	if err == nil && ctor == nil {
		err = errNotRegistered
	}
	if err != nil {
		c.logger.Debug("container: load failed", zap.String("name", name), zap.Error(err))
		return nil, &NotFoundError{Name: name, Cause: err}
	}
	c.logger.Debug("container: loaded", zap.String("name", name), zap.String("constructor", ctor.name))
	return ctor, nil
}

// ── Generics helper ───────────────────────────────────────────────────────────

// Resolve is a generic helper that calls Make and type-asserts the result.
//
//	// Instead of: v, err := c.Make("db"); db := v.(*sql.DB)
//	// Write:      db, err := container.Resolve[*sql.DB](c, "db")
func Resolve[T any](c *Container, abstract string) (T, error) {
	var zero T
	instance, err := c.Make(abstract)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, &TypeMismatchError{
			Name:     abstract,
			Expected: fmt.Sprintf("%T", &zero)[1:],
			Actual:   fmt.Sprintf("%T", instance),
		}
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on failure.
func MustResolve[T any](c *Container, abstract string) T {
	typed, err := Resolve[T](c, abstract)
	if err != nil {
		panic(err)
	}
	return typed
}
