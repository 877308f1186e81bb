package hbond

import (
	"fmt"
	"strings"
)

// DiagnosticKind classifies a recoverable condition met during a run.
type DiagnosticKind string

const (
	KindNonAlphaSkipped   DiagnosticKind = "non_alpha_skipped"
	KindUnknownHelixClass DiagnosticKind = "unknown_helix_class"
	KindProlineInHelix    DiagnosticKind = "proline_in_helix"
	KindDuplicateAtom     DiagnosticKind = "duplicate_atom"
	KindUnknownSense      DiagnosticKind = "unknown_sense"
	KindAnchorNotFound    DiagnosticKind = "anchor_not_found"
	KindNoBonds           DiagnosticKind = "no_bonds"
	KindOutlier           DiagnosticKind = "outlier"
)

// AllKinds lists every DiagnosticKind, for metrics pre-registration.
var AllKinds = []DiagnosticKind{
	KindNonAlphaSkipped, KindUnknownHelixClass, KindProlineInHelix,
	KindDuplicateAtom, KindUnknownSense, KindAnchorNotFound, KindNoBonds,
	KindOutlier,
}

// Diagnostic records one recoverable condition.  Selections and Counts name
// the offending element so the caller can locate the defect.
type Diagnostic struct {
	Kind       DiagnosticKind `json:"kind"`
	Message    string         `json:"message"`
	Selections []string       `json:"selections,omitempty"`
	Counts     []int          `json:"counts,omitempty"`
	Atoms      []int          `json:"atoms,omitempty"`
	Labels     []string       `json:"labels,omitempty"`
}

func (d Diagnostic) String() string {
	var sb strings.Builder
	sb.WriteString(d.Message)
	for _, s := range d.Selections {
		fmt.Fprintf(&sb, "\n  %s", s)
	}
	if len(d.Counts) > 0 {
		fmt.Fprintf(&sb, "\n  counts: %v", d.Counts)
	}
	for _, l := range d.Labels {
		fmt.Fprintf(&sb, "\n  %s", l)
	}
	return sb.String()
}

// CountByKind tallies diagnostics per kind.
func CountByKind(diags []Diagnostic) map[DiagnosticKind]int {
	out := make(map[DiagnosticKind]int, len(diags))
	for _, d := range diags {
		out[d.Kind]++
	}
	return out
}
