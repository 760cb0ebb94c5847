package container

import (
	"fmt"
	"strings"
)

// CallTarget is something Call can invoke. The set is closed:
//
//   - *Constructor: a function with declared parameter names
//   - BoundMethod:  a method on an existing value
//   - ClassMethod:  "Class@method", built from the container then invoked
type CallTarget interface {
	callTarget()
}

// BoundMethod is a method of an existing instance.
type BoundMethod struct {
	Instance any
	Method   string
}

func (BoundMethod) callTarget() {}

// MethodOf builds a BoundMethod target.
func MethodOf(instance any, method string) BoundMethod {
	return BoundMethod{Instance: instance, Method: method}
}

// ClassMethod names an abstract to build and a method to invoke on the result.
type ClassMethod struct {
	Class  string
	Method string
}

func (ClassMethod) callTarget() {}

// String renders the target in "Class@method" form.
func (t ClassMethod) String() string {
	if t.Method == "" {
		return t.Class
	}
	return t.Class + "@" + t.Method
}

// ParseTarget splits a "Class@method" string. A target without "@" yields an
// empty Method.
func ParseTarget(s string) ClassMethod {
	class, method, _ := strings.Cut(s, "@")
	return ClassMethod{Class: class, Method: method}
}

// ── Invocation ────────────────────────────────────────────────────────────────

// Call invokes target, resolving each of its declared parameters from params
// or from the container.
//
//	// Laravel: $app->call([$greeter, 'sayHello'], ['id' => 42])
//	out, err := c.Call(container.MethodOf(greeter, "SayHello"), container.Parameters{"id": 42})
func (c *Container) Call(target CallTarget, params Parameters) (any, error) {
	r := &resolution{c: c}
	return r.call(target, params)
}

// CallClass dispatches a "Class@method" string. When the string carries no
// method, defaultMethod is used; if both are empty the call fails with an
// InvalidArgumentError.
//
// The class is built with MakeWith(class, params) and the method is then
// called with the same params: constructor and method parameters are resolved
// in two independent passes against one override map.
//
//	// Laravel: $app->call('Greeter@sayHello', ['id' => 'x', 'title' => 't'])
//	out, err := c.CallClass("Greeter@sayHello", container.Parameters{"id": "x", "title": "t"}, "")
func (c *Container) CallClass(target string, params Parameters, defaultMethod string) (any, error) {
	t := ParseTarget(target)
	if t.Method == "" {
		t.Method = defaultMethod
	}
	return c.Call(t, params)
}

func (r *resolution) call(target CallTarget, params Parameters) (any, error) {
	switch t := target.(type) {
	case ClassMethod:
		if t.Method == "" {
			return nil, &InvalidArgumentError{Reason: fmt.Sprintf("method not provided for [%s]", t.Class)}
		}
		instance, err := r.make(t.Class, params)
		if err != nil {
			return nil, err
		}
		return r.call(MethodOf(instance, t.Method), params)

	case BoundMethod:
		fn, names, err := r.c.methodFor(t)
		if err != nil {
			return nil, err
		}
		args, err := r.arguments("", names, params)
		if err != nil {
			return nil, err
		}
		out, err := callValue(fn, names, args)
		if err != nil {
			return nil, &ConstructorError{Name: fmt.Sprintf("%T.%s", t.Instance, t.Method), Cause: err}
		}
		return out, nil

	case *Constructor:
		if t == nil {
			return nil, &InvalidArgumentError{Reason: "nil constructor"}
		}
		args, err := r.arguments("", t.params, params)
		if err != nil {
			return nil, err
		}
		out, err := t.invoke(r, args)
		if err != nil {
			return nil, &ConstructorError{Name: t.name, Cause: err}
		}
		return out, nil

	default:
		return nil, &InvalidArgumentError{Reason: fmt.Sprintf("unsupported call target %T", target)}
	}
}
