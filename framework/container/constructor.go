package container

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

// ExternalPrefix marks a configuration string as an external load target,
// e.g. "load:RedisCache". See ParseConcrete.
const ExternalPrefix = "load:"

var errType = reflect.TypeOf((*error)(nil)).Elem()

// Concrete is what an abstract is bound to. The set is closed:
//
//   - *Constructor: built directly from its declared parameters
//   - Reference:    resolved through another abstract
//   - External:     obtained from the container's Loader
//
// A nil Concrete binds the abstract to itself, which is built as an External
// load of the abstract's own name.
type Concrete interface {
	concrete()
}

// Reference points an abstract at another abstract. Resolving it runs a full
// Make cycle for the target.
type Reference string

func (Reference) concrete() {}

// External asks the Loader for a constructible by name.
type External string

func (External) concrete() {}

// ParseConcrete turns the string form used in configuration files into a
// Concrete. Strings carrying ExternalPrefix become External, everything else
// is a Reference.
//
//	ParseConcrete("load:RedisCache") // External("RedisCache")
//	ParseConcrete("cache")           // Reference("cache")
func ParseConcrete(s string) Concrete {
	if name, ok := strings.CutPrefix(s, ExternalPrefix); ok {
		return External(name)
	}
	return Reference(s)
}

// Resolver is the part of the container visible to Closure factories.
// Calls made through it take part in the resolution that invoked the closure,
// so cycles through closures are still detected.
type Resolver interface {
	Make(abstract string) (any, error)
	MakeWith(abstract string, params Parameters) (any, error)
}

// Parameters are caller-supplied overrides keyed by parameter name.
type Parameters map[string]any

// Constructor is a directly constructible Concrete: a factory plus the ordered
// names of the dependencies it needs. Parameter names are abstracts; each one
// is satisfied from caller overrides or by resolving it in the container.
type Constructor struct {
	name   string
	params []string
	invoke func(r Resolver, args []any) (any, error)
}

func (*Constructor) concrete()   {}
func (*Constructor) callTarget() {}

// Name returns a diagnostic name for the factory.
func (c *Constructor) Name() string { return c.name }

// Params returns the declared parameter names in call order.
func (c *Constructor) Params() []string {
	out := make([]string, len(c.params))
	copy(out, c.params)
	return out
}

// Func wraps an ordinary Go function. params names each of fn's parameters in
// order; fn may return T, (T, error), error, or nothing.
//
//	container.Func(NewStar, "config", "logger")
//
// Func panics if fn is not a function, the number of names does not match
// its arity, or it returns anything else.
func Func(fn any, params ...string) *Constructor {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		panic(fmt.Sprintf("container: Func expects a function, got %T", fn))
	}
	t := v.Type()
	if t.IsVariadic() {
		panic(fmt.Sprintf("container: Func does not support variadic function %s", t))
	}
	if t.NumIn() != len(params) {
		panic(fmt.Sprintf("container: %s takes %d parameters, %d names declared",
			funcName(v), t.NumIn(), len(params)))
	}
	if err := checkResults(t); err != nil {
		panic(fmt.Sprintf("container: %s %v", funcName(v), err))
	}
	names := append([]string(nil), params...)
	return &Constructor{
		name:   funcName(v),
		params: names,
		invoke: func(_ Resolver, args []any) (any, error) {
			return callValue(v, names, args)
		},
	}
}

// Factory wraps an untyped factory. args arrive in the order of params.
func Factory(fn func(args []any) (any, error), params ...string) *Constructor {
	return &Constructor{
		name:   funcName(reflect.ValueOf(fn)),
		params: append([]string(nil), params...),
		invoke: func(_ Resolver, args []any) (any, error) { return fn(args) },
	}
}

// Closure wraps a factory that pulls its own dependencies, like a Laravel
// closure binding receiving $app.
//
//	c.Singleton("cache", container.Closure(func(r container.Resolver) (any, error) {
//	    cfg, err := r.Make("config")
//	    ...
//	}))
func Closure(fn func(r Resolver) (any, error)) *Constructor {
	return &Constructor{
		name:   funcName(reflect.ValueOf(fn)),
		invoke: func(r Resolver, _ []any) (any, error) { return fn(r) },
	}
}

// Value is a parameterless constructor that always yields v.
func Value(v any) *Constructor {
	return &Constructor{
		name:   fmt.Sprintf("value(%T)", v),
		invoke: func(Resolver, []any) (any, error) { return v, nil },
	}
}

// checkResults accepts the result shapes callValue understands: none, T,
// error, and (T, error).
func checkResults(t reflect.Type) error {
	switch n := t.NumOut(); {
	case n <= 1:
		return nil
	case n == 2 && t.Out(1) == errType:
		return nil
	default:
		return fmt.Errorf("returns %d values; want T, (T, error), error or nothing", n)
	}
}

// callValue invokes fn with args converted to its parameter types and folds the
// results into (value, error). A trailing error result is returned as-is.
func callValue(fn reflect.Value, params []string, args []any) (any, error) {
	t := fn.Type()
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		pt := t.In(i)
		if arg == nil {
			in[i] = reflect.Zero(pt)
			continue
		}
		av := reflect.ValueOf(arg)
		if !av.Type().AssignableTo(pt) {
			return nil, &TypeMismatchError{Name: params[i], Expected: pt.String(), Actual: av.Type().String()}
		}
		in[i] = av
	}

	out := fn.Call(in)
	if n := len(out); n > 0 && t.Out(n-1) == errType {
		if err, _ := out[n-1].Interface().(error); err != nil {
			return nil, err
		}
		out = out[:n-1]
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0].Interface(), nil
}

func funcName(v reflect.Value) string {
	if v.Kind() != reflect.Func || v.IsNil() {
		return "<nil>"
	}
	if f := runtime.FuncForPC(v.Pointer()); f != nil {
		return f.Name()
	}
	return v.Type().String()
}
