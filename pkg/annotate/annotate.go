// Package annotate implements the server-side annotator: a single
// synchronous depth-first walk over a fully rendered vdom tree that
// serializes it to markup with the hydration annotations interleaved.
//
// Host elements receive s-id and the hydrated class, rendered elements
// receive c-id, and text/comment nodes, which cannot carry attributes,
// are preceded by t./c. comment markers. Slot distribution is resolved
// during the same walk: light content is serialized at its slot
// position behind o. markers recording its pre-relocation path, and
// unsatisfied slots with fallback content serialize a slot-fb
// placeholder for the client to convert back into a real slot.
package annotate

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/rekindle-dev/rekindle/pkg/marker"
	"github.com/rekindle-dev/rekindle/pkg/vdom"
)

const tracerName = "github.com/rekindle-dev/rekindle/pkg/annotate"

// Options configures an Annotator.
type Options struct {
	// Logger receives debug output. Defaults to slog.Default().
	Logger *slog.Logger

	// Pretty indents the annotated output for human inspection.
	// Binding markers stay glued to the node they describe, so pretty
	// output still reconciles, at the cost of formatting whitespace
	// left behind in host light DOM.
	Pretty bool

	// Indent is the string written per indentation level in pretty
	// mode. Defaults to two spaces.
	Indent string
}

// Annotator serializes rendered trees with hydration annotations. It
// is immutable configuration: one Annotator may serve concurrent
// Annotate calls on independent trees, each call threads its own host
// id allocator.
type Annotator struct {
	logger *slog.Logger
	pretty bool
	indent string
}

// New creates an Annotator.
func New(opts Options) *Annotator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	indent := opts.Indent
	if indent == "" {
		indent = "  "
	}
	return &Annotator{logger: logger, pretty: opts.Pretty, indent: indent}
}

// Annotate serializes the tree to w with annotations.
func (a *Annotator) Annotate(ctx context.Context, w io.Writer, root *vdom.VNode) error {
	_, span := otel.Tracer(tracerName).Start(ctx, "annotate.document")
	defer span.End()

	wk := &walker{
		mw:       &markupWriter{w: w, pretty: a.pretty, indent: a.indent},
		hostIDs:  vdom.NewHostIDAllocator(),
		annotate: true,
	}
	if err := wk.walkChildren([]*vdom.VNode{root}, vdom.Path{}, false, nil); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetAttributes(attribute.Int("rekindle.hosts", wk.hostIDs.Count()))
	a.logger.Debug("annotated document", "hosts", wk.hostIDs.Count())
	return nil
}

// AnnotateToString serializes the tree to an annotated markup string.
func (a *Annotator) AnnotateToString(ctx context.Context, root *vdom.VNode) (string, error) {
	var buf bytes.Buffer
	if err := a.Annotate(ctx, &buf, root); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderPlain serializes the tree without any annotations, producing
// the markup a fresh client-side render would show: slot distribution
// applied, fallback content inlined, no markers or bookkeeping
// attributes.
func RenderPlain(w io.Writer, root *vdom.VNode) error {
	wk := &walker{
		mw:      &markupWriter{w: w},
		hostIDs: vdom.NewHostIDAllocator(),
	}
	return wk.walkChildren([]*vdom.VNode{root}, vdom.Path{}, false, nil)
}

// RenderPlainToString is RenderPlain into a string.
func RenderPlainToString(root *vdom.VNode) (string, error) {
	var buf bytes.Buffer
	if err := RenderPlain(&buf, root); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// hostScope is the per-host walk context: the host's id and its
// resolved slot distribution. It is explicit state passed down the
// recursion, never ambient.
type hostScope struct {
	id   int
	dist distribution
}

// walker is the per-run walk state.
type walker struct {
	mw       *markupWriter
	hostIDs  *vdom.HostIDAllocator
	annotate bool
}

// walkChildren serializes a sibling run. Fragments are transparent:
// their children take consecutive indices at this level, exactly as a
// fresh client render would number them.
func (wk *walker) walkChildren(nodes []*vdom.VNode, parent vdom.Path, owned bool, scope *hostScope) error {
	for i, n := range flatten(nodes) {
		if err := wk.walkNode(n, parent.Child(i), owned, scope); err != nil {
			return err
		}
	}
	return nil
}

// walkNode serializes one node at its render-tree path. owned is false
// for nodes outside any host, which receive no annotations.
func (wk *walker) walkNode(n *vdom.VNode, path vdom.Path, owned bool, scope *hostScope) error {
	switch n.Kind {
	case vdom.KindText:
		return wk.walkText(n, path, owned)
	case vdom.KindComment:
		return wk.walkComment(n, path, owned)
	case vdom.KindHost:
		return wk.walkHost(n, path, owned)
	case vdom.KindElement:
		if n.IsSlot() && scope != nil && owned && path.HostID == scope.id {
			return wk.walkSlot(n, path, scope)
		}
		return wk.walkElement(n, path, owned, scope)
	default:
		return fmt.Errorf("annotate: unknown node kind %d", n.Kind)
	}
}

func (wk *walker) walkText(n *vdom.VNode, path vdom.Path, owned bool) error {
	if owned && wk.annotate {
		if n.Text == "" {
			// A parser never materializes an empty text node, so the
			// terminal form stands in for the node itself.
			return wk.mw.writeMarker(marker.Text(path, true))
		}
		if err := wk.mw.writeMarker(marker.Text(path, false)); err != nil {
			return err
		}
	}
	if n.Text == "" {
		return nil
	}
	return wk.mw.writeText(n.Text)
}

func (wk *walker) walkComment(n *vdom.VNode, path vdom.Path, owned bool) error {
	if owned && wk.annotate {
		if err := wk.mw.writeMarker(marker.Comment(path)); err != nil {
			return err
		}
	}
	return wk.mw.writeComment(n.Text)
}

func (wk *walker) walkElement(n *vdom.VNode, path vdom.Path, owned bool, scope *hostScope) error {
	var book []bookAttr
	if owned && wk.annotate {
		book = append(book, bookAttr{marker.AttrContentID, vdom.ContentID(path)})
	}
	if err := wk.mw.writeOpenTag(n.Tag, n.Props, false, book...); err != nil {
		return err
	}
	if isVoidElement(n.Tag) {
		return nil
	}
	if err := wk.walkChildren(n.Children, path, owned, scope); err != nil {
		return err
	}
	return wk.mw.writeCloseTag(n.Tag)
}

// walkHost serializes a component host: the host element with its
// bookkeeping attributes, the r. root marker, the host's rendered
// output with slots resolved, and finally any light content no slot
// accepted, preserved in original order.
func (wk *walker) walkHost(h *vdom.VNode, path vdom.Path, owned bool) error {
	id := wk.hostIDs.Next()

	lightNodes := flatten(h.Children)
	light := make([]lightAssignment, 0, len(lightNodes))
	for i, c := range lightNodes {
		light = append(light, lightAssignment{node: c, path: path.Child(i), owned: owned})
	}
	dist := distribute(h, light)

	if wk.annotate {
		book := []bookAttr{{marker.AttrHostID, strconv.Itoa(id)}}
		if owned {
			book = append(book, bookAttr{marker.AttrContentID, vdom.ContentID(path)})
		}
		if err := wk.mw.writeOpenTag(h.Tag, h.Props, true, book...); err != nil {
			return err
		}
		if err := wk.mw.writeMarker(marker.Root(id)); err != nil {
			return err
		}
	} else {
		if err := wk.mw.writeOpenTag(h.Tag, h.Props, false); err != nil {
			return err
		}
	}

	scope := &hostScope{id: id, dist: dist}
	if err := wk.walkChildren(h.Rendered, vdom.RootPath(id), true, scope); err != nil {
		return err
	}

	for _, la := range dist.leftovers {
		if err := wk.walkNode(la.node, la.path, la.owned, nil); err != nil {
			return err
		}
	}

	return wk.mw.writeCloseTag(h.Tag)
}

// walkSlot serializes a slot position of the current host: the s.
// marker, then either the distributed light content behind o. markers
// or, when nothing was assigned, the fallback wrapped in a slot-fb
// placeholder.
func (wk *walker) walkSlot(n *vdom.VNode, path vdom.Path, scope *hostScope) error {
	if wk.annotate {
		if err := wk.mw.writeMarker(marker.Slot(path)); err != nil {
			return err
		}
	}

	assigned := scope.dist.assigned[n]
	if len(assigned) > 0 {
		for _, la := range assigned {
			if wk.annotate && la.owned {
				if err := wk.mw.writeMarker(marker.Original(la.path)); err != nil {
					return err
				}
			}
			if err := wk.walkRelocated(la); err != nil {
				return err
			}
		}
		return nil
	}

	if len(n.Children) == 0 {
		return nil
	}

	if !wk.annotate {
		// A fresh client render shows fallback content in place.
		return wk.walkChildren(n.Children, path, false, nil)
	}

	var props vdom.Props
	if name := n.SlotName(); name != "" {
		props = vdom.Props{"name": name}
	}
	book := []bookAttr{{marker.AttrContentID, vdom.ContentID(path)}}
	if err := wk.mw.writeOpenTag(marker.TagSlotFallback, props, false, book...); err != nil {
		return err
	}
	if err := wk.walkChildren(n.Children, path, true, scope); err != nil {
		return err
	}
	return wk.mw.writeCloseTag(marker.TagSlotFallback)
}

// walkRelocated serializes one distributed light node at its slot
// position. Relocated text and comments carry no t./c. marker: the o.
// marker preceding them already names their original path.
func (wk *walker) walkRelocated(la lightAssignment) error {
	switch la.node.Kind {
	case vdom.KindText:
		return wk.mw.writeText(la.node.Text)
	case vdom.KindComment:
		return wk.mw.writeComment(la.node.Text)
	default:
		return wk.walkNode(la.node, la.path, la.owned, nil)
	}
}

// flatten expands fragments into their children so sibling indices
// match what a fresh client render would produce.
func flatten(nodes []*vdom.VNode) []*vdom.VNode {
	flat := make([]*vdom.VNode, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if n.Kind == vdom.KindFragment {
			flat = append(flat, flatten(n.Children)...)
			continue
		}
		flat = append(flat, n)
	}
	return flat
}
