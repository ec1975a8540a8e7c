package vdom

import "fmt"

// El creates an element node. Arguments can be Props, *VNode children,
// []*VNode, strings (shorthand for text children), or nil.
func El(tag string, args ...any) *VNode {
	node := &VNode{
		Kind: KindElement,
		Tag:  tag,
	}
	applyArgs(node, args)
	return node
}

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{
		Kind: KindText,
		Text: content,
	}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Comment creates a comment node that is preserved as a real, visible
// comment in the output.
func Comment(content string) *VNode {
	return &VNode{
		Kind: KindComment,
		Text: content,
	}
}

// Fragment groups children without a wrapper element. Children take
// consecutive sibling indices at the parent's level.
func Fragment(children ...*VNode) *VNode {
	node := &VNode{
		Kind: KindFragment,
	}
	for _, child := range children {
		if child != nil {
			node.Children = append(node.Children, child)
		}
	}
	return node
}

// Host creates a component host node. Arguments become attributes and
// light-DOM children; the host's own template output is attached with
// Renders.
func Host(tag string, mode Encapsulation, args ...any) *VNode {
	node := &VNode{
		Kind:          KindHost,
		Tag:           tag,
		Encapsulation: mode,
	}
	applyArgs(node, args)
	return node
}

// Renders attaches the host's own template output and returns the node
// for chaining.
func (v *VNode) Renders(children ...*VNode) *VNode {
	for _, child := range children {
		if child != nil {
			v.Rendered = append(v.Rendered, child)
		}
	}
	return v
}

// Slot creates a slot placeholder. name "" is the default slot;
// fallback children render only when no light content is assigned.
func Slot(name string, fallback ...*VNode) *VNode {
	node := &VNode{
		Kind: KindElement,
		Tag:  "slot",
	}
	if name != "" {
		node.Props = Props{"name": name}
	}
	for _, child := range fallback {
		if child != nil {
			node.Children = append(node.Children, child)
		}
	}
	return node
}

// applyArgs folds constructor arguments into the node.
func applyArgs(node *VNode, args []any) {
	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue
		case Props:
			if node.Props == nil {
				node.Props = make(Props, len(v))
			}
			for key, value := range v {
				node.Props[key] = value
			}
		case *VNode:
			if v != nil {
				node.Children = append(node.Children, v)
			}
		case []*VNode:
			for _, child := range v {
				if child != nil {
					node.Children = append(node.Children, child)
				}
			}
		case string:
			node.Children = append(node.Children, Text(v))
		default:
			panic(fmt.Sprintf("vdom: unsupported argument type %T", arg))
		}
	}
}
