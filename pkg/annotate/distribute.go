package annotate

import (
	"strings"

	"github.com/rekindle-dev/rekindle/pkg/vdom"
)

// lightAssignment is one light-DOM node together with its logical path
// in the owning (parent) host's render tree. owned is false when the
// host has no owning host, in which case the node cannot carry markers.
type lightAssignment struct {
	node  *vdom.VNode
	path  vdom.Path
	owned bool
}

// distribution is the result of resolving a host's light DOM against
// the slots of its rendered template.
type distribution struct {
	// assigned maps each slot node of the template to the light nodes
	// distributed into it, in original light-DOM order.
	assigned map[*vdom.VNode][]lightAssignment

	// leftovers is light content no slot accepted, serialized after the
	// rendered output in original order.
	leftovers []lightAssignment
}

// distribute resolves slot assignment for one host. Elements target the
// slot named by their "slot" attribute, non-whitespace text targets the
// default slot, comments and whitespace-only text are never assigned.
// The first slot with a given name in template order wins.
func distribute(host *vdom.VNode, light []lightAssignment) distribution {
	slots := make(map[string]*vdom.VNode)
	collectSlots(host.Rendered, slots)

	d := distribution{
		assigned: make(map[*vdom.VNode][]lightAssignment),
	}
	for _, la := range light {
		slot, ok := slotFor(la.node, slots)
		if !ok {
			d.leftovers = append(d.leftovers, la)
			continue
		}
		d.assigned[slot] = append(d.assigned[slot], la)
	}
	return d
}

// collectSlots finds the template's slot nodes in document order. The
// walk descends through elements, fragments, and the light DOM of
// nested hosts, but never into a nested host's own rendered output:
// those slots belong to the nested host.
func collectSlots(nodes []*vdom.VNode, slots map[string]*vdom.VNode) {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if n.IsSlot() {
			name := n.SlotName()
			if _, taken := slots[name]; !taken {
				slots[name] = n
			}
			continue
		}
		collectSlots(n.Children, slots)
	}
}

// slotFor returns the slot a light node is assigned to, if any.
func slotFor(n *vdom.VNode, slots map[string]*vdom.VNode) (*vdom.VNode, bool) {
	switch n.Kind {
	case vdom.KindComment:
		return nil, false
	case vdom.KindText:
		if strings.TrimSpace(n.Text) == "" {
			return nil, false
		}
		slot, ok := slots[""]
		return slot, ok
	case vdom.KindElement, vdom.KindHost:
		slot, ok := slots[n.AssignedSlot()]
		return slot, ok
	default:
		return nil, false
	}
}
