package vdom

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxPathDepth bounds the number of segments accepted when parsing a
// path from untrusted markup.
const MaxPathDepth = 256

// Path addresses a rendered node relative to its owning host: the host
// id followed by the node's sibling index at each render-tree level.
// Paths are stable identifiers of logical rendered position even if the
// node is later moved in the DOM by slot distribution.
type Path struct {
	HostID int
	Segs   []int
}

// RootPath returns the path of a host's own root, the bare host id.
func RootPath(hostID int) Path {
	return Path{HostID: hostID}
}

// Child returns the path of the child at sibling index i.
func (p Path) Child(i int) Path {
	segs := make([]int, len(p.Segs), len(p.Segs)+1)
	copy(segs, p.Segs)
	return Path{HostID: p.HostID, Segs: append(segs, i)}
}

// Parent returns the path one level up. The parent of a root path is
// the root path itself.
func (p Path) Parent() Path {
	if len(p.Segs) == 0 {
		return p
	}
	segs := make([]int, len(p.Segs)-1)
	copy(segs, p.Segs)
	return Path{HostID: p.HostID, Segs: segs}
}

// IsRoot reports whether the path addresses the host root itself.
func (p Path) IsRoot() bool {
	return len(p.Segs) == 0
}

// Depth returns the number of levels below the host root.
func (p Path) Depth() int {
	return len(p.Segs)
}

// Equal reports whether two paths address the same logical position.
func (p Path) Equal(o Path) bool {
	if p.HostID != o.HostID || len(p.Segs) != len(o.Segs) {
		return false
	}
	for i := range p.Segs {
		if p.Segs[i] != o.Segs[i] {
			return false
		}
	}
	return true
}

// String returns the dotted form, e.g. "3.0.2". A host root is the
// bare host id, e.g. "3".
func (p Path) String() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(p.HostID))
	for _, seg := range p.Segs {
		b.WriteByte('.')
		b.WriteString(strconv.Itoa(seg))
	}
	return b.String()
}

// ParsePath parses the dotted form back into a Path.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return Path{}, fmt.Errorf("empty path")
	}
	parts := strings.Split(s, ".")
	if len(parts) > MaxPathDepth {
		return Path{}, fmt.Errorf("path exceeds %d segments", MaxPathDepth)
	}
	hostID, err := strconv.Atoi(parts[0])
	if err != nil || hostID < 0 {
		return Path{}, fmt.Errorf("invalid host id %q", parts[0])
	}
	p := Path{HostID: hostID}
	for _, part := range parts[1:] {
		seg, err := strconv.Atoi(part)
		if err != nil || seg < 0 {
			return Path{}, fmt.Errorf("invalid path segment %q", part)
		}
		p.Segs = append(p.Segs, seg)
	}
	return p, nil
}
