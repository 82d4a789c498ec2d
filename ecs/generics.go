package ecs

import (
	"fmt"

	"github.com/swift2d/swift/ecs/component"
)

// Get returns the entity's component for tag as the concrete type T.
// The second return is false when the component is absent or not a T.
func Get[T component.Component](e *Entity, tag string) (T, bool) {
	var zero T
	c := e.Get(tag)
	if c == nil {
		return zero, false
	}
	cast, ok := c.(T)
	if !ok {
		return zero, false
	}
	return cast, true
}

// MustGet is Get for callers that have established presence via Has.
// Calling it on an absent or mistyped component is a programming error
// and panics.
func MustGet[T component.Component](e *Entity, tag string) T {
	c, ok := Get[T](e, tag)
	if !ok {
		panic(fmt.Sprintf("ecs: entity has no %q component", tag))
	}
	return c
}
