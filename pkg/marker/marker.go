// Package marker defines the comment-marker grammar shared by the
// server annotator and the client reconciler.
//
// Structural metadata rides in comment nodes because comments can be
// interleaved between sibling text nodes, which have no attribute slot.
// A marker comment's text is
//
//	{kind}.{path}[.]
//
// where path is the dotted render-order address from pkg/vdom and a
// trailing "." marks a terminal marker, one that terminates a run and
// carries no following content of its own.
package marker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rekindle-dev/rekindle/pkg/vdom"
)

// Kind identifies a marker in the closed annotation vocabulary.
type Kind byte

const (
	KindRoot     Kind = 'r' // host root, precedes a host's rendered content
	KindText     Kind = 't' // the next sibling text node belongs at path
	KindComment  Kind = 'c' // the next sibling comment is a real rendered comment
	KindSlot     Kind = 's' // slot position; always terminal
	KindOriginal Kind = 'o' // pre-relocation position of a distributed node; always terminal
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "Root"
	case KindText:
		return "Text"
	case KindComment:
		return "Comment"
	case KindSlot:
		return "Slot"
	case KindOriginal:
		return "OriginalLocation"
	default:
		return "Unknown"
	}
}

// Bookkeeping attribute vocabulary written by the annotator and
// consumed by the reconciler. Elements carry these instead of comment
// markers since attributes are invisible in markup.
const (
	// AttrHostID is set on host elements to the host's run-unique id.
	AttrHostID = "s-id"

	// AttrContentID is set on rendered descendant elements to the
	// element's own path string.
	AttrContentID = "c-id"

	// ClassHydrated is added to every host element's class list.
	ClassHydrated = "hydrated"

	// TagSlotFallback is the placeholder element wrapping slot fallback
	// content server-side. The reconciler converts it to a real <slot>.
	TagSlotFallback = "slot-fb"
)

// ErrNotMarker is returned by Parse for comment text that is not part
// of the annotation vocabulary. Ordinary comments in hydrated markup
// are expected; callers treat this error as "leave the node alone".
var ErrNotMarker = errors.New("marker: not an annotation marker")

// Marker is one decoded annotation.
type Marker struct {
	Kind     Kind
	Path     vdom.Path
	Terminal bool
}

// Root returns the host root marker r.{hostId}.
func Root(hostID int) Marker {
	return Marker{Kind: KindRoot, Path: vdom.RootPath(hostID)}
}

// Text returns the marker preceding a rendered text node. terminal
// marks an empty text node, which a markup parser would otherwise not
// materialize at all.
func Text(p vdom.Path, terminal bool) Marker {
	return Marker{Kind: KindText, Path: p, Terminal: terminal}
}

// Comment returns the marker preceding a rendered comment node.
func Comment(p vdom.Path) Marker {
	return Marker{Kind: KindComment, Path: p}
}

// Slot returns the marker for a slot position. Slot markers are always
// terminal.
func Slot(p vdom.Path) Marker {
	return Marker{Kind: KindSlot, Path: p, Terminal: true}
}

// Original returns the marker left at a relocated node's pre-relocation
// logical position. Original markers are always terminal.
func Original(p vdom.Path) Marker {
	return Marker{Kind: KindOriginal, Path: p, Terminal: true}
}

// String returns the comment text encoding of the marker.
func (m Marker) String() string {
	var b strings.Builder
	b.WriteByte(byte(m.Kind))
	b.WriteByte('.')
	b.WriteString(m.Path.String())
	if m.Terminal {
		b.WriteByte('.')
	}
	return b.String()
}

// Parse decodes comment text into a Marker. Comment text that does not
// look like a marker at all yields ErrNotMarker; text that looks like a
// marker but violates the grammar yields a descriptive error so the
// reconciler can report a structural mismatch.
func Parse(text string) (Marker, error) {
	if len(text) < 3 || text[1] != '.' {
		return Marker{}, ErrNotMarker
	}
	kind := Kind(text[0])
	switch kind {
	case KindRoot, KindText, KindComment, KindSlot, KindOriginal:
	default:
		return Marker{}, ErrNotMarker
	}

	rest := text[2:]
	terminal := false
	if strings.HasSuffix(rest, ".") {
		terminal = true
		rest = rest[:len(rest)-1]
	}

	path, err := vdom.ParsePath(rest)
	if err != nil {
		return Marker{}, fmt.Errorf("marker: malformed path in %q: %w", text, err)
	}

	switch kind {
	case KindRoot:
		if !path.IsRoot() {
			return Marker{}, fmt.Errorf("marker: root marker %q must carry a bare host id", text)
		}
	case KindSlot, KindOriginal:
		if !terminal {
			return Marker{}, fmt.Errorf("marker: %s marker %q must be terminal", kind, text)
		}
	}

	return Marker{Kind: kind, Path: path, Terminal: terminal}, nil
}

// IsMarker reports whether comment text is a well-formed annotation.
func IsMarker(text string) bool {
	_, err := Parse(text)
	return err == nil
}
