package hydrate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	rekerr "github.com/rekindle-dev/rekindle/internal/errors"
	"github.com/rekindle-dev/rekindle/pkg/component"
	"github.com/rekindle-dev/rekindle/pkg/marker"
	"github.com/rekindle-dev/rekindle/pkg/vdom"
)

// RootMarkerPolicy controls whether r. root markers survive
// reconciliation. Observed source behavior differs between shadow and
// non-shadow hosts, so retention is configuration, not protocol.
type RootMarkerPolicy int

const (
	// RootMarkersRetainShadow keeps root markers on shadow hosts and
	// strips them elsewhere. This is the default.
	RootMarkersRetainShadow RootMarkerPolicy = iota

	// RootMarkersRetainAll keeps every root marker as permanently
	// informational.
	RootMarkersRetainAll

	// RootMarkersStripAll removes every root marker.
	RootMarkersStripAll
)

// ParseRootMarkerPolicy maps a configuration string to a policy.
func ParseRootMarkerPolicy(s string) (RootMarkerPolicy, bool) {
	switch s {
	case "retain-shadow", "":
		return RootMarkersRetainShadow, true
	case "retain-all":
		return RootMarkersRetainAll, true
	case "strip-all":
		return RootMarkersStripAll, true
	default:
		return RootMarkersRetainShadow, false
	}
}

// Options configures a reconciliation run.
type Options struct {
	// RootMarkers is the root marker retention policy.
	RootMarkers RootMarkerPolicy

	// Logger receives mismatch warnings. Defaults to slog.Default().
	Logger *slog.Logger

	// Metrics, when set, receives the run's diagnostics.
	Metrics *Metrics
}

// Host is one reactivated component instance.
type Host struct {
	ID            int
	Tag           string
	Element       *html.Node
	Encapsulation vdom.Encapsulation

	// ShadowRoot is the restored shadow content for shadow hosts.
	ShadowRoot *html.Node

	// Fallback is true when a mismatch in this host's subtree dropped
	// node reuse; the subtree is left for a fresh client render.
	Fallback bool

	sawRoot bool
}

// SlotRelocation records that a node's original logical path differs
// from its DOM position because it was distributed into a slot.
type SlotRelocation struct {
	OriginalPath vdom.Path
	Node         *html.Node
	Parent       *html.Node // DOM parent at reconcile time
	SlotPath     vdom.Path
	Slot         *html.Node
}

// Result is the output of one reconciliation run.
type Result struct {
	Registry    *Registry
	Hosts       []*Host // document order
	Relocations []SlotRelocation
	Diagnostics Diagnostics
}

// HostByID returns a reconciled host by id.
func (r *Result) HostByID(id int) (*Host, bool) {
	for _, h := range r.Hosts {
		if h.ID == id {
			return h, true
		}
	}
	return nil, false
}

const tracerName = "github.com/rekindle-dev/rekindle/pkg/hydrate"

var slotAtom = atom.Lookup([]byte("slot"))

// hostFrame is the explicit "current host" context carried through the
// walk. slot is the most recent slot position seen in this host, the
// distribution point for following o. markers.
type hostFrame struct {
	host   *Host
	parent *hostFrame
	slot   *slotFrame
}

type slotFrame struct {
	path vdom.Path
	node *html.Node
}

type reconciler struct {
	doc  *Document
	defs *component.Registry
	opts Options

	reg         *Registry
	hosts       []*Host
	hostsByID   map[int]*Host
	relocations []SlotRelocation
	bindings    map[*html.Node]vdom.Path
	skip        map[*html.Node]struct{}
	diag        Diagnostics
}

// Reconcile walks a parsed document once in document order, consuming
// markers and rebuilding the node registry. Mismatches degrade the
// affected host subtree to a fresh client render; they never propagate
// as errors. The returned error covers only invalid input or an
// internal panic, never markup content.
func Reconcile(ctx context.Context, doc *Document, defs *component.Registry, opts Options) (res *Result, err error) {
	_, span := otel.Tracer(tracerName).Start(ctx, "hydrate.reconcile")
	defer span.End()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	if doc == nil || doc.Root == nil {
		return nil, rekerr.Newf(rekerr.CategoryHydrate, "nil document")
	}
	if defs == nil {
		defs = component.NewRegistry()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// Nothing in the markup may abort the whole page.
	defer func() {
		if r := recover(); r != nil {
			err = rekerr.Newf(rekerr.CategoryHydrate, "reconciliation panic: %v", r)
		}
	}()

	rc := &reconciler{
		doc:       doc,
		defs:      defs,
		opts:      opts,
		reg:       NewRegistry(),
		hostsByID: make(map[int]*Host),
		bindings:  make(map[*html.Node]vdom.Path),
		skip:      make(map[*html.Node]struct{}),
	}

	rc.walkChildren(doc.Root, nil)

	for _, h := range rc.hosts {
		if h.Fallback {
			dropped := rc.reg.Purge(h.ID)
			rc.diag.FallbackHosts = append(rc.diag.FallbackHosts, h.ID)
			logger.Warn("hydration fallback",
				"host", h.ID,
				"tag", h.Tag,
				"dropped_bindings", dropped)
		}
	}
	rc.diag.NodesReused = rc.reg.Len()

	span.SetAttributes(
		attribute.Int("rekindle.hosts", rc.diag.HostsSeen),
		attribute.Int("rekindle.markers", rc.diag.MarkersRead),
		attribute.Int("rekindle.mismatches", len(rc.diag.Mismatches)),
		attribute.Int("rekindle.fallbacks", len(rc.diag.FallbackHosts)),
	)
	opts.Metrics.observe(&rc.diag)
	logger.Debug("reconciled document",
		"hosts", rc.diag.HostsSeen,
		"reused", rc.diag.NodesReused,
		"mismatches", len(rc.diag.Mismatches))

	return &Result{
		Registry:    rc.reg,
		Hosts:       rc.hosts,
		Relocations: rc.relocations,
		Diagnostics: rc.diag,
	}, nil
}

// walkChildren processes one sibling run. Mutation (marker removal,
// slot creation) happens behind the iteration cursor, so the next
// pointer is captured before handling each node.
func (rc *reconciler) walkChildren(parent *html.Node, frame *hostFrame) {
	for c := parent.FirstChild; c != nil; {
		next := c.NextSibling
		switch c.Type {
		case html.CommentNode:
			rc.handleComment(parent, c, frame)
		case html.ElementNode:
			rc.handleElement(c, frame)
		}
		c = next
	}
}

func (rc *reconciler) handleComment(parent *html.Node, c *html.Node, frame *hostFrame) {
	if _, consumed := rc.skip[c]; consumed {
		return
	}
	m, err := marker.Parse(c.Data)
	if errors.Is(err, marker.ErrNotMarker) {
		return
	}
	if err != nil {
		rc.diag.record(MismatchMalformedMarker, "", err.Error())
		rc.fallback(frame, -1)
		return
	}
	rc.diag.MarkersRead++

	switch m.Kind {
	case marker.KindRoot:
		rc.handleRootMarker(parent, c, m, frame)
	case marker.KindText:
		rc.handleTextMarker(parent, c, m, frame)
	case marker.KindComment:
		rc.handleCommentMarker(c, m, frame)
	case marker.KindSlot:
		rc.handleSlotMarker(parent, c, m, frame)
	case marker.KindOriginal:
		rc.handleOriginalMarker(parent, c, m, frame)
	}
}

func (rc *reconciler) handleRootMarker(parent *html.Node, c *html.Node, m marker.Marker, frame *hostFrame) {
	if frame == nil || frame.host.Element != parent || frame.host.ID != m.Path.HostID {
		rc.diag.record(MismatchStructural, m.Path.String(), "root marker outside its host element")
		rc.fallback(frame, m.Path.HostID)
		return
	}
	frame.host.sawRoot = true

	strip := false
	switch rc.opts.RootMarkers {
	case RootMarkersStripAll:
		strip = true
	case RootMarkersRetainShadow:
		strip = frame.host.Encapsulation != vdom.EncapsulationShadow
	}
	if strip {
		detach(c)
	}
}

func (rc *reconciler) handleTextMarker(parent *html.Node, c *html.Node, m marker.Marker, frame *hostFrame) {
	if m.Terminal {
		// Terminal form: the parser never materialized the empty text
		// node, so create it in place.
		textNode := &html.Node{Type: html.TextNode}
		parent.InsertBefore(textNode, c)
		rc.bind(m.Path, textNode)
		detach(c)
		return
	}
	next := c.NextSibling
	if next == nil || next.Type != html.TextNode {
		rc.diag.record(MismatchStructural, m.Path.String(), "text marker with no following text node")
		rc.fallback(frame, m.Path.HostID)
		return
	}
	rc.bind(m.Path, next)
	detach(c)
}

func (rc *reconciler) handleCommentMarker(c *html.Node, m marker.Marker, frame *hostFrame) {
	next := c.NextSibling
	if next == nil || next.Type != html.CommentNode {
		rc.diag.record(MismatchStructural, m.Path.String(), "comment marker with no following comment node")
		rc.fallback(frame, m.Path.HostID)
		return
	}
	rc.bind(m.Path, next)
	// The described comment is content, not protocol.
	rc.skip[next] = struct{}{}
	detach(c)
}

func (rc *reconciler) handleSlotMarker(parent *html.Node, c *html.Node, m marker.Marker, frame *hostFrame) {
	if frame == nil || frame.host.ID != m.Path.HostID {
		rc.diag.record(MismatchStructural, m.Path.String(), "slot marker outside its host")
		rc.fallback(frame, m.Path.HostID)
		return
	}

	var slotEl *html.Node
	next := c.NextSibling
	if next != nil && next.Type == html.ElementNode && next.Data == marker.TagSlotFallback {
		// Convert the fallback placeholder into a functioning slot;
		// its children become the slot's fallback content.
		next.Data = "slot"
		next.DataAtom = slotAtom
		slotEl = next
	} else {
		slotEl = &html.Node{Type: html.ElementNode, Data: "slot", DataAtom: slotAtom}
		parent.InsertBefore(slotEl, c)
	}

	rc.bind(m.Path, slotEl)
	frame.slot = &slotFrame{path: m.Path, node: slotEl}
	detach(c)
}

func (rc *reconciler) handleOriginalMarker(parent *html.Node, c *html.Node, m marker.Marker, frame *hostFrame) {
	next := c.NextSibling
	if next == nil {
		rc.diag.record(MismatchUnresolvedRelocation, m.Path.String(), "original-location marker with no following node")
		rc.fallback(frame, m.Path.HostID)
		return
	}
	if frame == nil || frame.slot == nil {
		rc.diag.record(MismatchUnresolvedRelocation, m.Path.String(), "no slot position precedes relocated content")
		rc.fallback(frame, m.Path.HostID)
		return
	}

	rc.bind(m.Path, next)
	if next.Type == html.CommentNode {
		rc.skip[next] = struct{}{}
	}
	rc.relocations = append(rc.relocations, SlotRelocation{
		OriginalPath: m.Path,
		Node:         next,
		Parent:       parent,
		SlotPath:     frame.slot.path,
		Slot:         frame.slot.node,
	})
	detach(c)
}

func (rc *reconciler) handleElement(el *html.Node, frame *hostFrame) {
	if sid, ok := getAttr(el, marker.AttrHostID); ok {
		rc.handleHost(el, sid, frame)
		return
	}

	if el.Data == marker.TagSlotFallback {
		rc.diag.record(MismatchStructural, "", "slot fallback placeholder without a slot marker")
		rc.fallback(frame, -1)
	}

	if cid, ok := getAttr(el, marker.AttrContentID); ok {
		if p, err := vdom.ParsePath(cid); err == nil {
			rc.bind(p, el)
		} else {
			rc.diag.record(MismatchStructural, cid, "malformed c-id attribute")
			rc.fallback(frame, -1)
		}
	}

	rc.walkChildren(el, frame)
}

// handleHost pushes a new host context. Host identity comes from the
// s-id attribute already on the markup, never from re-counting.
func (rc *reconciler) handleHost(el *html.Node, sid string, frame *hostFrame) {
	id, err := strconv.Atoi(sid)
	if err != nil || id < 0 {
		rc.diag.record(MismatchStructural, sid, "malformed s-id attribute")
		rc.fallback(frame, -1)
		rc.walkChildren(el, frame)
		return
	}

	h := &Host{ID: id, Tag: el.Data, Element: el}
	if def, ok := rc.defs.Lookup(el.Data); ok {
		h.Encapsulation = def.Encapsulation
	} else {
		rc.diag.record(MismatchUnknownHost, strconv.Itoa(id), fmt.Sprintf("tag %q not in definition registry", el.Data))
		h.Fallback = true
	}
	rc.hosts = append(rc.hosts, h)
	rc.hostsByID[id] = h
	rc.diag.HostsSeen++

	rc.bind(vdom.RootPath(id), el)
	if cid, ok := getAttr(el, marker.AttrContentID); ok {
		// The host element is also a rendered node of its owner.
		if p, perr := vdom.ParsePath(cid); perr == nil {
			rc.bind(p, el)
		}
	}

	hf := &hostFrame{host: h, parent: frame}
	rc.walkChildren(el, hf)

	if !h.sawRoot {
		rc.diag.record(MismatchStructural, strconv.Itoa(id), "host element without root marker")
		h.Fallback = true
	}

	if h.Encapsulation == vdom.EncapsulationShadow && !h.Fallback {
		rc.restoreShadow(h)
	}
}

// restoreShadow attaches a shadow root and moves the host's own
// rendered children into it. Light content, bound to an ancestor host
// or to nothing at all, stays behind in the host element.
func (rc *reconciler) restoreShadow(h *Host) {
	root := rc.doc.attachShadow(h.Element)
	h.ShadowRoot = root
	for c := h.Element.FirstChild; c != nil; {
		next := c.NextSibling
		if p, ok := rc.bindings[c]; ok && p.HostID == h.ID {
			h.Element.RemoveChild(c)
			root.AppendChild(c)
		}
		c = next
	}
}

// bind records a node at its path in the registry and remembers the
// binding for shadow restoration decisions.
func (rc *reconciler) bind(p vdom.Path, n *html.Node) {
	rc.reg.Bind(p, n)
	rc.bindings[n] = p
}

// fallback drops node reuse for the host owning a mismatch. When the
// owner is unknown the enclosing frame's host degrades instead; outside
// any host there is nothing to degrade.
func (rc *reconciler) fallback(frame *hostFrame, hostID int) {
	if h, ok := rc.hostsByID[hostID]; ok {
		h.Fallback = true
		return
	}
	if frame != nil {
		frame.host.Fallback = true
	}
}
