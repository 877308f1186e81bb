package secstr

import (
	"fmt"
	"strings"

	"github.com/turtacn/hbond-restraints/pkg/errors"
)

// Helix is one helical element.  Sigma and Slack override the global
// restraint weight when set.
type Helix struct {
	Selection string     `mapstructure:"selection" json:"selection" yaml:"selection"`
	Class     HelixClass `mapstructure:"helix_class" json:"helix_class" yaml:"helix_class"`
	Sigma     *float64   `mapstructure:"restraint_sigma" json:"restraint_sigma,omitempty" yaml:"restraint_sigma,omitempty"`
	Slack     *float64   `mapstructure:"restraint_slack" json:"restraint_slack,omitempty" yaml:"restraint_slack,omitempty"`
}

// Validate checks that the helix names a selection.
func (h Helix) Validate() error {
	if strings.TrimSpace(h.Selection) == "" {
		return errors.New(errors.CodeInvalidAnnotation, "helix must have a valid atom selection")
	}
	return nil
}

func (h Helix) String() string {
	return fmt.Sprintf("helix %q (%s, sigma=%s, slack=%s)",
		h.Selection, h.Class, formatWeight(h.Sigma), formatWeight(h.Slack))
}

// Strand is one strand of a sheet after the first.  BondStartCurrent selects
// the residue on this strand whose carbonyl O starts the ladder;
// BondStartPrevious selects the residue on the preceding strand whose amide
// donor pairs with it.
type Strand struct {
	Selection         string `mapstructure:"selection" json:"selection" yaml:"selection"`
	Sense             Sense  `mapstructure:"sense" json:"sense" yaml:"sense"`
	BondStartCurrent  string `mapstructure:"bond_start_current" json:"bond_start_current" yaml:"bond_start_current"`
	BondStartPrevious string `mapstructure:"bond_start_previous" json:"bond_start_previous" yaml:"bond_start_previous"`
}

// Validate checks that the strand and both registration anchors are set.
func (s Strand) Validate() error {
	switch {
	case strings.TrimSpace(s.Selection) == "":
		return errors.New(errors.CodeInvalidAnnotation, "all strands must have a valid atom selection")
	case strings.TrimSpace(s.BondStartCurrent) == "":
		return errors.Newf(errors.CodeInvalidAnnotation, "missing start of bonding for strand %q", s.Selection)
	case strings.TrimSpace(s.BondStartPrevious) == "":
		return errors.Newf(errors.CodeInvalidAnnotation, "missing start of bonding for strand previous to %q", s.Selection)
	}
	return nil
}

// Sheet is an ordered run of strands.  Strands[0] pairs with FirstStrand,
// Strands[k] with Strands[k-1].
type Sheet struct {
	FirstStrand string   `mapstructure:"first_strand" json:"first_strand" yaml:"first_strand"`
	Strands     []Strand `mapstructure:"strand" json:"strand" yaml:"strand"`
	Sigma       *float64 `mapstructure:"restraint_sigma" json:"restraint_sigma,omitempty" yaml:"restraint_sigma,omitempty"`
	Slack       *float64 `mapstructure:"restraint_slack" json:"restraint_slack,omitempty" yaml:"restraint_slack,omitempty"`
}

// Validate checks the first strand and every subsequent strand.
func (s Sheet) Validate() error {
	if strings.TrimSpace(s.FirstStrand) == "" {
		return errors.New(errors.CodeInvalidAnnotation, "first strand must be a valid atom selection")
	}
	for _, st := range s.Strands {
		if err := st.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Selections returns the strand selections in pairing order, starting with
// the first strand.
func (s Sheet) Selections() []string {
	out := make([]string, 0, len(s.Strands)+1)
	out = append(out, s.FirstStrand)
	for _, st := range s.Strands {
		out = append(out, st.Selection)
	}
	return out
}

// Annotation is the ordered set of elements restrained in one run.
type Annotation struct {
	Helices []Helix `mapstructure:"helix" json:"helices" yaml:"helix"`
	Sheets  []Sheet `mapstructure:"sheet" json:"sheets" yaml:"sheet"`
}

// Empty reports whether the annotation names no elements.
func (a Annotation) Empty() bool {
	return len(a.Helices) == 0 && len(a.Sheets) == 0
}

// Validate checks every element and reports the first failure with its
// position.
func (a Annotation) Validate() error {
	for i, h := range a.Helices {
		if err := h.Validate(); err != nil {
			return errors.Wrap(err, errors.CodeUnknown, fmt.Sprintf("helix #%d", i))
		}
	}
	for i, s := range a.Sheets {
		if err := s.Validate(); err != nil {
			return errors.Wrap(err, errors.CodeUnknown, fmt.Sprintf("sheet #%d", i))
		}
	}
	return nil
}

// Normalize returns a copy with canonical helix classes and strand senses.
func (a Annotation) Normalize() Annotation {
	out := Annotation{
		Helices: make([]Helix, len(a.Helices)),
		Sheets:  make([]Sheet, len(a.Sheets)),
	}
	for i, h := range a.Helices {
		h.Class = h.Class.Normalize()
		out.Helices[i] = h
	}
	for i, s := range a.Sheets {
		strands := make([]Strand, len(s.Strands))
		for k, st := range s.Strands {
			st.Sense = st.Sense.Normalize()
			strands[k] = st
		}
		s.Strands = strands
		out.Sheets[i] = s
	}
	return out
}

// Merge appends b's elements after a's.
func (a Annotation) Merge(b Annotation) Annotation {
	out := Annotation{
		Helices: make([]Helix, 0, len(a.Helices)+len(b.Helices)),
		Sheets:  make([]Sheet, 0, len(a.Sheets)+len(b.Sheets)),
	}
	out.Helices = append(append(out.Helices, a.Helices...), b.Helices...)
	out.Sheets = append(append(out.Sheets, a.Sheets...), b.Sheets...)
	return out
}
