package component

// TagName is the type tag of the Name component.
const TagName = "Name"

// Name is a human-readable label for an entity.
type Name struct {
	Value string
}

func init() {
	Register(TagName, func() Component { return &Name{} })
}

func (n *Name) TypeTag() string {
	return TagName
}

func (n *Name) Serialize() map[string]string {
	variables := map[string]string{}
	if n.Value != "" {
		variables["name"] = n.Value
	}
	return variables
}

func (n *Name) Unserialize(variables map[string]string) {
	if value, ok := variables["name"]; ok && value != "" {
		n.Value = value
	}
}
