package ecs

import (
	"log"

	"github.com/swift2d/swift/ecs/component"
)

// Entity owns at most one component per type tag.
type Entity struct {
	components map[string]component.Component
}

// NewEntity creates an entity with no components.
func NewEntity() *Entity {
	return &Entity{components: map[string]component.Component{}}
}

// Add constructs and attaches a fresh component of the type named by
// tag. It returns false without changing the entity when the tag is
// unknown or a component with that tag is already attached.
func (e *Entity) Add(tag string) bool {
	if e == nil {
		return false
	}
	if _, ok := e.components[tag]; ok {
		return false
	}
	c, ok := component.New(tag)
	if !ok {
		log.Printf("entity: unknown component type %q", tag)
		return false
	}
	e.components[tag] = c
	return true
}

// Remove detaches the component with the given tag if present.
func (e *Entity) Remove(tag string) bool {
	if e == nil {
		return false
	}
	if _, ok := e.components[tag]; !ok {
		return false
	}
	delete(e.components, tag)
	return true
}

// Has reports whether the entity holds a component for every given tag.
func (e *Entity) Has(tags ...string) bool {
	if e == nil {
		return false
	}
	for _, tag := range tags {
		if _, ok := e.components[tag]; !ok {
			return false
		}
	}
	return true
}

// Get returns the component with the given tag, or nil when absent.
func (e *Entity) Get(tag string) component.Component {
	if e == nil {
		return nil
	}
	return e.components[tag]
}

// Components returns the tag to component mapping. The map is the
// entity's own storage; callers must not add or remove entries.
func (e *Entity) Components() map[string]component.Component {
	if e == nil {
		return nil
	}
	return e.components
}
