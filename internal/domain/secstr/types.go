// Package secstr models annotated protein secondary structure: helices,
// sheets and their strands, each addressed by an atom selection.  It covers
// consumption of annotations (PDB HELIX/SHEET records, configuration, API
// payloads) and never classifies structure from coordinates.
package secstr

import (
	"fmt"
	"strings"

	"github.com/turtacn/hbond-restraints/pkg/errors"
)

// HelixClass identifies the hydrogen-bonding pattern of a helix.
type HelixClass string

const (
	HelixAlpha    HelixClass = "alpha"
	HelixPi       HelixClass = "pi"
	HelixThreeTen HelixClass = "3_10"
	HelixUnknown  HelixClass = "unknown"
)

// pdbHelixClasses maps PDB HELIX class codes to classes.  Codes missing from
// the map (2, 4, 6..10) are unknown.
var pdbHelixClasses = map[int]HelixClass{
	1: HelixAlpha,
	3: HelixPi,
	5: HelixThreeTen,
}

// HelixClassFromPDB converts a PDB HELIX class code (columns 39-40).
func HelixClassFromPDB(code int) HelixClass {
	if c, ok := pdbHelixClasses[code]; ok {
		return c
	}
	return HelixUnknown
}

// Normalize returns the canonical form of c.  An empty class is alpha, the
// default; unrecognised values become HelixUnknown.
func (c HelixClass) Normalize() HelixClass {
	switch HelixClass(strings.ToLower(strings.TrimSpace(string(c)))) {
	case HelixAlpha, "":
		return HelixAlpha
	case HelixPi:
		return HelixPi
	case HelixThreeTen, "3-10", "310":
		return HelixThreeTen
	default:
		return HelixUnknown
	}
}

// ParseHelixClass parses a class name.  Unlike Normalize it rejects names
// that are not one of alpha, pi, 3_10 or unknown.
func ParseHelixClass(s string) (HelixClass, error) {
	c := HelixClass(s).Normalize()
	if c == HelixUnknown && !strings.EqualFold(strings.TrimSpace(s), string(HelixUnknown)) {
		return HelixUnknown, errors.Newf(errors.CodeInvalidAnnotation, "unknown helix class %q", s)
	}
	return c, nil
}

func (c HelixClass) String() string { return string(c.Normalize()) }

// Sense is the relative direction of a strand and its predecessor.
type Sense string

const (
	SenseParallel     Sense = "parallel"
	SenseAntiparallel Sense = "antiparallel"
	SenseUnknown      Sense = "unknown"
)

// SenseFromPDB converts the PDB SHEET sense field (columns 39-40):
// 0 unknown (first strand), 1 parallel, -1 antiparallel.
func SenseFromPDB(code int) (Sense, error) {
	switch code {
	case 0:
		return SenseUnknown, nil
	case 1:
		return SenseParallel, nil
	case -1:
		return SenseAntiparallel, nil
	}
	return SenseUnknown, errors.Newf(errors.CodeInvalidAnnotation, "sense must be 0, 1, or -1; got %d", code)
}

// Normalize returns the canonical form of s.  An empty sense is unknown.
func (s Sense) Normalize() Sense {
	switch Sense(strings.ToLower(strings.TrimSpace(string(s)))) {
	case SenseParallel:
		return SenseParallel
	case SenseAntiparallel, "anti-parallel":
		return SenseAntiparallel
	default:
		return SenseUnknown
	}
}

// ParseSense parses a sense name.
func ParseSense(s string) (Sense, error) {
	n := Sense(s).Normalize()
	if n == SenseUnknown && !strings.EqualFold(strings.TrimSpace(s), string(SenseUnknown)) && strings.TrimSpace(s) != "" {
		return SenseUnknown, errors.Newf(errors.CodeInvalidAnnotation, "unknown strand sense %q", s)
	}
	return n, nil
}

func (s Sense) String() string { return string(s.Normalize()) }

// formatWeight renders an optional sigma or slack for diagnostics.
func formatWeight(v *float64) string {
	if v == nil {
		return "none"
	}
	return fmt.Sprintf("%.3f", *v)
}
