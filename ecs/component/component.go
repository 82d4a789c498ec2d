package component

import "sort"

// Component is a typed, serializable data record attached to an entity.
// TypeTag is the stable identifier used as the entity lookup key and as
// the serialization discriminator, so it must never change across saves.
type Component interface {
	TypeTag() string
	Serialize() map[string]string
	Unserialize(map[string]string)
}

var factories = map[string]func() Component{}

// Register binds a component factory to a type tag. Component types call
// this from init; a later registration for the same tag wins.
func Register(tag string, factory func() Component) {
	if tag == "" || factory == nil {
		return
	}
	factories[tag] = factory
}

// New constructs a fresh component of the type named by tag. The second
// return is false when the tag is unknown.
func New(tag string) (Component, bool) {
	factory, ok := factories[tag]
	if !ok {
		return nil, false
	}
	return factory(), true
}

// Known reports whether a component type is registered for tag.
func Known(tag string) bool {
	_, ok := factories[tag]
	return ok
}

// Tags returns all registered type tags in sorted order.
func Tags() []string {
	tags := make([]string, 0, len(factories))
	for tag := range factories {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
