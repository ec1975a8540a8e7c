package vdom

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement  Kind = iota // <div>, <button>, etc.
	KindText                 // Plain text node
	KindComment              // Comment node preserved in output
	KindFragment             // Grouping without wrapper
	KindHost                 // Component instance root
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindComment:
		return "Comment"
	case KindFragment:
		return "Fragment"
	case KindHost:
		return "Host"
	default:
		return "Unknown"
	}
}

// Encapsulation is a host's content encapsulation mode.
type Encapsulation uint8

const (
	EncapsulationNone   Encapsulation = iota // no isolation, slots resolved in place
	EncapsulationScoped                      // emulated scoping, slots resolved in place
	EncapsulationShadow                      // real shadow root restored on the client
)

// String returns the string representation of the Encapsulation.
func (e Encapsulation) String() string {
	switch e {
	case EncapsulationNone:
		return "none"
	case EncapsulationScoped:
		return "scoped"
	case EncapsulationShadow:
		return "shadow"
	default:
		return "unknown"
	}
}

// ParseEncapsulation parses the textual form used in config files.
func ParseEncapsulation(s string) (Encapsulation, bool) {
	switch s {
	case "none", "":
		return EncapsulationNone, true
	case "scoped":
		return EncapsulationScoped, true
	case "shadow":
		return EncapsulationShadow, true
	default:
		return EncapsulationNone, false
	}
}

// VNode is one node of a fully rendered tree.
type VNode struct {
	Kind     Kind     // Node type
	Tag      string   // Element/host tag name (e.g., "div", "cmp-b")
	Props    Props    // Attributes already present on the node
	Children []*VNode // Child nodes; for hosts this is the light DOM
	Text     string   // For KindText and KindComment

	// Host-only fields.
	Encapsulation Encapsulation // Content encapsulation mode
	Rendered      []*VNode      // The host's own template output
}

// Props holds element attributes. Values are stringified at
// serialization time with deterministic key ordering.
type Props map[string]any

// IsHost reports whether the node is a component host.
func (v *VNode) IsHost() bool {
	return v != nil && v.Kind == KindHost
}

// IsSlot reports whether the node is a slot placeholder in a host's
// rendered output. Slot children are the fallback content.
func (v *VNode) IsSlot() bool {
	return v != nil && v.Kind == KindElement && v.Tag == "slot"
}

// SlotName returns the slot's name attribute, or "" for the default
// slot. Only meaningful when IsSlot is true.
func (v *VNode) SlotName() string {
	if v == nil || v.Props == nil {
		return ""
	}
	if name, ok := v.Props["name"].(string); ok {
		return name
	}
	return ""
}

// AssignedSlot returns the slot name a light-DOM node targets: the
// node's "slot" attribute for elements, "" (default slot) otherwise.
func (v *VNode) AssignedSlot() string {
	if v == nil || v.Kind != KindElement || v.Props == nil {
		return ""
	}
	if name, ok := v.Props["slot"].(string); ok {
		return name
	}
	return ""
}
