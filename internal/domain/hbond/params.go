// Package hbond synthesizes hydrogen-bond distance restraints for annotated
// helices and sheets.  It consumes atom selections through Selector and
// coordinates through Coordinates, and produces an ordered Table of
// donor/acceptor pairs plus Diagnostics.  Nothing here reads files.
package hbond

import (
	"fmt"

	"github.com/turtacn/hbond-restraints/pkg/errors"
)

// Default restraint geometry, in Ångström.
const (
	DefaultSigma              = 0.05
	DefaultSlack              = 0.00
	DefaultIdealDistanceH     = 1.975
	DefaultMaxDistanceH       = 2.5
	DefaultIdealDistanceHeavy = 3.0
	DefaultMaxDistanceHeavy   = 3.5
)

// Donor and acceptor atom names.
const (
	DonorHydrogen = "H"
	DonorNitrogen = "N"
	AcceptorName  = "O"
)

// Params holds the options of one synthesis run.
type Params struct {
	RestrainHelices bool
	RestrainSheets  bool
	AlphaOnly       bool

	// SubstituteHeavy selects the backbone N as donor, with heavy-atom
	// distances, instead of the amide H.  Nil means undecided: callers
	// resolve it from the model with ResolveSubstitute.
	SubstituteHeavy *bool

	// Sigma and Slack are the global restraint weight and tolerance.  Nil
	// means no global default; every element must then carry an override.
	Sigma *float64
	Slack *float64

	IdealDistanceH     float64
	MaxDistanceH       float64
	IdealDistanceHeavy float64
	MaxDistanceHeavy   float64

	RemoveOutliers bool

	// Verbose names both atoms of every excluded outlier.
	Verbose bool
}

// Float returns a pointer to v, for optional Params and element fields.
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// DefaultParams returns the default options.  SubstituteHeavy is left nil.
func DefaultParams() Params {
	return Params{
		RestrainHelices:    true,
		RestrainSheets:     true,
		Sigma:              Float(DefaultSigma),
		Slack:              Float(DefaultSlack),
		IdealDistanceH:     DefaultIdealDistanceH,
		MaxDistanceH:       DefaultMaxDistanceH,
		IdealDistanceHeavy: DefaultIdealDistanceHeavy,
		MaxDistanceHeavy:   DefaultMaxDistanceHeavy,
		RemoveOutliers:     true,
	}
}

// Heavy reports whether heavy-atom substitution is on.  An unresolved
// SubstituteHeavy counts as off.
func (p Params) Heavy() bool {
	return p.SubstituteHeavy != nil && *p.SubstituteHeavy
}

// DonorName is the atom name selected as donor.
func (p Params) DonorName() string {
	if p.Heavy() {
		return DonorNitrogen
	}
	return DonorHydrogen
}

// IdealDistance is the target donor-acceptor distance of every bond.
func (p Params) IdealDistance() float64 {
	if p.Heavy() {
		return p.IdealDistanceHeavy
	}
	return p.IdealDistanceH
}

// MaxDistance is the outlier cutoff.
func (p Params) MaxDistance() float64 {
	if p.Heavy() {
		return p.MaxDistanceHeavy
	}
	return p.MaxDistanceH
}

// ResolveSubstitute returns a copy of p with SubstituteHeavy decided.  An
// explicit setting wins; otherwise substitution is on when the model carries
// no hydrogen or deuterium atoms.
func (p Params) ResolveSubstitute(hasHydrogens bool) Params {
	if p.SubstituteHeavy == nil {
		p.SubstituteHeavy = Bool(!hasHydrogens)
	}
	return p
}

// Validate checks the distances and weights for values no run can use.
func (p Params) Validate() error {
	check := func(name string, v float64) error {
		if v <= 0 {
			return errors.Newf(errors.CodeValidation, "%s must be positive, got %g", name, v)
		}
		return nil
	}
	for _, c := range []struct {
		name string
		v    float64
	}{
		{"ideal_distance_h", p.IdealDistanceH},
		{"max_distance_h", p.MaxDistanceH},
		{"ideal_distance_heavy", p.IdealDistanceHeavy},
		{"max_distance_heavy", p.MaxDistanceHeavy},
	} {
		if err := check(c.name, c.v); err != nil {
			return err
		}
	}
	if p.Sigma != nil && *p.Sigma <= 0 {
		return errors.Newf(errors.CodeValidation, "sigma must be positive, got %g", *p.Sigma)
	}
	if p.Slack != nil && *p.Slack < 0 {
		return errors.Newf(errors.CodeValidation, "slack must not be negative, got %g", *p.Slack)
	}
	return nil
}

func (p Params) String() string {
	sub := "auto"
	if p.SubstituteHeavy != nil {
		sub = fmt.Sprintf("%t", *p.SubstituteHeavy)
	}
	return fmt.Sprintf("helices=%t sheets=%t alpha_only=%t substitute=%s ideal=%.3f max=%.3f remove_outliers=%t",
		p.RestrainHelices, p.RestrainSheets, p.AlphaOnly, sub, p.IdealDistance(), p.MaxDistance(), p.RemoveOutliers)
}
