package hydrate

// MismatchKind classifies a hydration mismatch.
type MismatchKind int

const (
	// MismatchStructural is a marker referencing a path with no
	// corresponding node, usually server/client tree disagreement.
	MismatchStructural MismatchKind = iota

	// MismatchUnresolvedRelocation is an o./s. pair that could not be
	// matched.
	MismatchUnresolvedRelocation

	// MismatchUnknownHost is a host element whose tag is missing from
	// the component definition registry.
	MismatchUnknownHost

	// MismatchMalformedMarker is comment text in the marker namespace
	// that violates the grammar.
	MismatchMalformedMarker
)

// String returns the string representation of the MismatchKind.
func (k MismatchKind) String() string {
	switch k {
	case MismatchStructural:
		return "structural"
	case MismatchUnresolvedRelocation:
		return "unresolved-relocation"
	case MismatchUnknownHost:
		return "unknown-host"
	case MismatchMalformedMarker:
		return "malformed-marker"
	default:
		return "unknown"
	}
}

// Code returns the registered error code for the mismatch kind, for
// tooling that formats diagnostics as full error reports.
func (k MismatchKind) Code() string {
	switch k {
	case MismatchStructural:
		return "E101"
	case MismatchUnresolvedRelocation:
		return "E102"
	case MismatchUnknownHost:
		return "E103"
	case MismatchMalformedMarker:
		return "E201"
	default:
		return ""
	}
}

// Mismatch is one recovered hydration failure.
type Mismatch struct {
	Kind   MismatchKind
	Path   string // the path the marker referenced, "" when unparseable
	Detail string
}

// Diagnostics aggregates what a reconciliation run recovered from.
// Failures degrade performance (lost node reuse), never the visible
// output, so everything here is reporting, not control flow.
type Diagnostics struct {
	Mismatches    []Mismatch
	FallbackHosts []int // host ids whose subtrees lost node reuse
	HostsSeen     int
	NodesReused   int
	MarkersRead   int
}

// Clean reports whether the run completed without any mismatch.
func (d *Diagnostics) Clean() bool {
	return len(d.Mismatches) == 0
}

func (d *Diagnostics) record(kind MismatchKind, path, detail string) {
	d.Mismatches = append(d.Mismatches, Mismatch{Kind: kind, Path: path, Detail: detail})
}
