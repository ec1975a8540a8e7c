package annotate

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/rekindle-dev/rekindle/pkg/marker"
	"github.com/rekindle-dev/rekindle/pkg/vdom"
)

// bookAttr is a bookkeeping attribute appended after author attributes.
type bookAttr struct {
	key   string
	value string
}

// markupWriter streams elements, text, and comment markers to an
// io.Writer with deterministic attribute ordering. In pretty mode each
// tag and marker starts an indented line, except that a marker binding
// the node after it stays glued to that node: the client resolves t.,
// c., s., and o. markers against their next sibling, so no formatting
// whitespace may come between them.
type markupWriter struct {
	w      io.Writer
	pretty bool
	indent string

	depth int
	glue  bool
	wrote bool
	broke []bool
}

// lineStart begins a new indented line in pretty mode. A pending glue
// from a binding marker suppresses the break so the bound node stays
// adjacent.
func (mw *markupWriter) lineStart() error {
	if !mw.pretty {
		return nil
	}
	if mw.glue {
		mw.glue = false
		return nil
	}
	if mw.wrote {
		if _, err := io.WriteString(mw.w, "\n"); err != nil {
			return err
		}
	}
	for i := 0; i < mw.depth; i++ {
		if _, err := io.WriteString(mw.w, mw.indent); err != nil {
			return err
		}
	}
	if len(mw.broke) > 0 {
		mw.broke[len(mw.broke)-1] = true
	}
	return nil
}

// writeMarker writes an annotation comment.
func (mw *markupWriter) writeMarker(m marker.Marker) error {
	if err := mw.lineStart(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(mw.w, "<!--%s-->", m.String()); err != nil {
		return err
	}
	mw.wrote = true
	mw.glue = markerGlues(m)
	return nil
}

// markerGlues reports whether a marker describes its next sibling and
// therefore must stay directly adjacent to it.
func markerGlues(m marker.Marker) bool {
	switch m.Kind {
	case marker.KindText:
		return !m.Terminal
	case marker.KindComment, marker.KindSlot, marker.KindOriginal:
		return true
	}
	return false
}

// writeText writes an escaped text node. Text never starts a fresh
// line: indentation whitespace would become part of the node.
func (mw *markupWriter) writeText(text string) error {
	mw.glue = false
	if _, err := io.WriteString(mw.w, escapeHTML(text)); err != nil {
		return err
	}
	mw.wrote = true
	return nil
}

// writeComment writes a real, visible comment node.
func (mw *markupWriter) writeComment(text string) error {
	if err := mw.lineStart(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(mw.w, "<!--%s-->", escapeComment(text)); err != nil {
		return err
	}
	mw.wrote = true
	return nil
}

// writeOpenTag writes an opening tag with author attributes in sorted
// order followed by bookkeeping attributes. hydrated appends the
// hydrated class, merging with an author-supplied class list.
func (mw *markupWriter) writeOpenTag(tag string, props vdom.Props, hydrated bool, book ...bookAttr) error {
	if err := mw.lineStart(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(mw.w, "<%s", tag); err != nil {
		return err
	}

	keys := make([]string, 0, len(props))
	for key := range props {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	class := ""
	classSeen := false
	for _, key := range keys {
		value := props[key]

		// Skip internal props
		if strings.HasPrefix(key, "_") {
			continue
		}

		switch key {
		case "className":
			key = "class"
		case "htmlFor":
			key = "for"
		}

		if key == "class" {
			classSeen = true
			class = attrToString(value)
			continue
		}

		if isBooleanAttr(key) {
			if boolValue, ok := value.(bool); ok {
				if boolValue {
					if _, err := fmt.Fprintf(mw.w, " %s", key); err != nil {
						return err
					}
				}
				continue
			}
		}

		strValue := attrToString(value)
		if strValue != "" {
			if _, err := fmt.Fprintf(mw.w, ` %s="%s"`, key, escapeAttr(strValue)); err != nil {
				return err
			}
		}
	}

	if hydrated {
		if class != "" {
			class += " " + marker.ClassHydrated
		} else {
			class = marker.ClassHydrated
		}
		classSeen = true
	}
	if classSeen && class != "" {
		if _, err := fmt.Fprintf(mw.w, ` class="%s"`, escapeAttr(class)); err != nil {
			return err
		}
	}

	for _, attr := range book {
		if _, err := fmt.Fprintf(mw.w, ` %s="%s"`, attr.key, escapeAttr(attr.value)); err != nil {
			return err
		}
	}

	if _, err := io.WriteString(mw.w, ">"); err != nil {
		return err
	}
	mw.wrote = true
	if mw.pretty && !isVoidElement(tag) {
		mw.broke = append(mw.broke, false)
		mw.depth++
	}
	return nil
}

// writeCloseTag writes a closing tag. Void elements have none. In
// pretty mode the closing tag drops to its own line only when a child
// already broke the line, so text-only elements stay on one line.
func (mw *markupWriter) writeCloseTag(tag string) error {
	if isVoidElement(tag) {
		return nil
	}
	if mw.pretty {
		mw.depth--
		multiline := mw.broke[len(mw.broke)-1]
		mw.broke = mw.broke[:len(mw.broke)-1]
		if multiline {
			if _, err := io.WriteString(mw.w, "\n"); err != nil {
				return err
			}
			for i := 0; i < mw.depth; i++ {
				if _, err := io.WriteString(mw.w, mw.indent); err != nil {
					return err
				}
			}
		}
	}
	_, err := fmt.Fprintf(mw.w, "</%s>", tag)
	return err
}

// attrToString converts an attribute value to a string.
func attrToString(value any) string {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	case int:
		return fmt.Sprintf("%d", v)
	case int64:
		return fmt.Sprintf("%d", v)
	case float64:
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
