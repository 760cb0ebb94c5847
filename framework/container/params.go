package container

import (
	"fmt"
	"reflect"
	"unicode"
	"unicode/utf8"
)

// ParamDeclarer is implemented by values that describe the parameter names of
// their own methods. InjectParams returns nil for methods it does not know.
//
//	func (g *Greeter) InjectParams(method string) []string {
//	    if method == "SayHello" {
//	        return []string{"id"}
//	    }
//	    return nil
//	}
type ParamDeclarer interface {
	InjectParams(method string) []string
}

// DeclareMethod records the parameter names of method on receiver's dynamic
// type, so the method can be invoked through Call and CallClass.
//
//	c.DeclareMethod((*Greeter)(nil), "SayHello", "id")
func (c *Container) DeclareMethod(receiver any, method string, params ...string) {
	key := methodKey{typ: reflect.TypeOf(receiver), method: method}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.methods[key] = append([]string(nil), params...)
}

// ParamsOf returns the ordered parameter names the invoker would resolve for
// target. ClassMethod targets are introspected after their class is built, so
// they are not accepted here.
func (c *Container) ParamsOf(target CallTarget) ([]string, error) {
	switch t := target.(type) {
	case *Constructor:
		if t == nil {
			return nil, &InvalidArgumentError{Reason: "nil constructor"}
		}
		return t.Params(), nil
	case BoundMethod:
		_, names, err := c.methodFor(t)
		if err != nil {
			return nil, err
		}
		return append([]string(nil), names...), nil
	default:
		return nil, &InvalidArgumentError{Reason: fmt.Sprintf("cannot introspect %T", target)}
	}
}

// methodFor looks up the method value and its declared parameter names.
// "sayHello" also matches an exported "SayHello".
func (c *Container) methodFor(m BoundMethod) (reflect.Value, []string, error) {
	if m.Instance == nil {
		return reflect.Value{}, nil, &InvalidArgumentError{Reason: "method " + m.Method + " called on nil instance"}
	}

	recv := reflect.ValueOf(m.Instance)
	name := m.Method
	fn := recv.MethodByName(name)
	if !fn.IsValid() {
		name = exported(name)
		fn = recv.MethodByName(name)
	}
	if !fn.IsValid() {
		return reflect.Value{}, nil, &InvalidArgumentError{
			Reason: fmt.Sprintf("%T has no method %q", m.Instance, m.Method),
		}
	}

	t := fn.Type()
	if t.IsVariadic() {
		return reflect.Value{}, nil, &InvalidArgumentError{
			Reason: fmt.Sprintf("%T.%s is variadic", m.Instance, name),
		}
	}

	if err := checkResults(t); err != nil {
		return reflect.Value{}, nil, &InvalidArgumentError{
			Reason: fmt.Sprintf("%T.%s %v", m.Instance, name, err),
		}
	}

	names, declared := c.declaredParams(m.Instance, name)
	if !declared && t.NumIn() > 0 {
		return reflect.Value{}, nil, &InvalidArgumentError{
			Reason: fmt.Sprintf("parameters of %T.%s are not declared", m.Instance, name),
		}
	}
	if len(names) != t.NumIn() {
		return reflect.Value{}, nil, &InvalidArgumentError{
			Reason: fmt.Sprintf("%T.%s takes %d parameters, %d names declared", m.Instance, name, t.NumIn(), len(names)),
		}
	}
	return fn, names, nil
}

func (c *Container) declaredParams(instance any, method string) ([]string, bool) {
	if d, ok := instance.(ParamDeclarer); ok {
		if names := d.InjectParams(method); names != nil {
			return names, true
		}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	names, ok := c.methods[methodKey{typ: reflect.TypeOf(instance), method: method}]
	return names, ok
}

func exported(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}
