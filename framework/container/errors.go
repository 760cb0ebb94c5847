package container

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels for errors.Is. Typed errors below unwrap to (or match) them.
var (
	ErrConstructibleNotFound = errors.New("container: constructible not found")
	ErrInvalidArgument       = errors.New("container: invalid argument")
	ErrCircularDependency    = errors.New("container: circular dependency")
	ErrTypeMismatch          = errors.New("container: type mismatch")
)

var (
	_ error = (*NotFoundError)(nil)
	_ error = (*InvalidArgumentError)(nil)
	_ error = (*ResolutionError)(nil)
	_ error = (*CircularDependencyError)(nil)
	_ error = (*DepthExceededError)(nil)
	_ error = (*TypeMismatchError)(nil)
	_ error = (*ConstructorError)(nil)
)

// NotFoundError reports that the loader could not produce a constructible
// for an unbound name.
type NotFoundError struct {
	Name  string
	Cause error
}

func (e *NotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("container: constructible [%s] not found: %v", e.Name, e.Cause)
	}
	return fmt.Sprintf("container: constructible [%s] not found", e.Name)
}

func (e *NotFoundError) Unwrap() error { return e.Cause }

func (e *NotFoundError) Is(target error) bool { return target == ErrConstructibleNotFound }

// InvalidArgumentError is returned for malformed calls, e.g. a "Class@method"
// target with no method and no default.
type InvalidArgumentError struct {
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return "container: invalid argument: " + e.Reason
}

func (e *InvalidArgumentError) Is(target error) bool { return target == ErrInvalidArgument }

// ResolutionError wraps any failure raised while resolving Abstract.
// Nested failures produce nested ResolutionErrors, one per level.
type ResolutionError struct {
	Abstract string
	Cause    error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("container: resolving [%s]: %v", e.Abstract, e.Cause)
}

func (e *ResolutionError) Unwrap() error { return e.Cause }

// CircularDependencyError reports a name that was requested again while it
// was still being resolved.
type CircularDependencyError struct {
	Path []string
}

func (e *CircularDependencyError) Error() string {
	return "container: circular dependency: " + strings.Join(e.Path, " -> ")
}

func (e *CircularDependencyError) Is(target error) bool { return target == ErrCircularDependency }

// DepthExceededError reports a resolution chain longer than the container's
// configured maximum depth.
type DepthExceededError struct {
	Depth int
	Path  []string
}

func (e *DepthExceededError) Error() string {
	return fmt.Sprintf("container: maximum resolution depth %d exceeded: %s",
		e.Depth, strings.Join(e.Path, " -> "))
}

func (e *DepthExceededError) Is(target error) bool { return target == ErrCircularDependency }

// TypeMismatchError reports a value that cannot be used where a Go type is expected.
type TypeMismatchError struct {
	Name     string
	Expected string
	Actual   string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("container: [%s] expected %s, got %s", e.Name, e.Expected, e.Actual)
}

func (e *TypeMismatchError) Is(target error) bool { return target == ErrTypeMismatch }

// ConstructorError wraps an error returned by a factory, method or extender.
type ConstructorError struct {
	Name  string
	Cause error
}

func (e *ConstructorError) Error() string {
	return fmt.Sprintf("container: [%s] failed: %v", e.Name, e.Cause)
}

func (e *ConstructorError) Unwrap() error { return e.Cause }

// IsNotFound reports whether err was caused by a missing constructible.
func IsNotFound(err error) bool { return errors.Is(err, ErrConstructibleNotFound) }

// IsCircular reports whether err was caused by a resolution cycle or depth overflow.
func IsCircular(err error) bool { return errors.Is(err, ErrCircularDependency) }
