package hbond

import (
	"fmt"

	"github.com/turtacn/hbond-restraints/internal/domain/secstr"
)

// helixStride is the residue offset from acceptor to donor per helix class.
var helixStride = map[secstr.HelixClass]int{
	secstr.HelixAlpha:    4,
	secstr.HelixPi:       5,
	secstr.HelixThreeTen: 3,
}

// Stride returns the bonding stride of class c.  Unknown classes report
// false.
func Stride(c secstr.HelixClass) (int, bool) {
	j, ok := helixStride[c.Normalize()]
	return j, ok
}

// helixPairs pairs acceptors[n] with donors[n+stride] along one aligned
// helix.  Sentinel donors are skipped silently; proline donors are skipped
// and returned so the caller can report them.
func helixPairs(donors, acceptors []int, stride, sentinel int, isProline func(int) bool) (pairs []pair, prolines []int) {
	for n := 0; n < len(acceptors) && n+stride < len(donors); n++ {
		d := donors[n+stride]
		switch {
		case d == sentinel:
			continue
		case isProline(d):
			prolines = append(prolines, d)
			continue
		}
		pairs = append(pairs, pair{donor: d, acceptor: acceptors[n]})
	}
	return pairs, prolines
}

// helix enumerates the bonds of one helix into the run.
func (r *run) helix(h secstr.Helix) error {
	class := h.Class.Normalize()
	if r.params.AlphaOnly && class != secstr.HelixAlpha {
		r.report(Diagnostic{
			Kind:       KindNonAlphaSkipped,
			Message:    fmt.Sprintf("Skipping non-alpha helix (class %s)", class),
			Selections: []string{h.Selection},
		})
		return nil
	}
	stride, ok := Stride(class)
	if !ok {
		r.report(Diagnostic{
			Kind:       KindUnknownHelixClass,
			Message:    fmt.Sprintf("Don't know bonding for helix class %s", class),
			Selections: []string{h.Selection},
		})
		return nil
	}
	if err := h.Validate(); err != nil {
		return err
	}

	el, err := resolveElement(r.model, h.Selection, r.params.DonorName())
	if err != nil {
		return err
	}
	sigma, slack, err := r.weights(h.Sigma, h.Slack, fmt.Sprintf("helix '%s'", h.Selection))
	if err != nil {
		return err
	}

	pairs, prolines := helixPairs(el.donors, el.acceptors, stride, r.sentinel, r.isProline)
	for _, p := range prolines {
		r.report(Diagnostic{
			Kind:       KindProlineInHelix,
			Message:    "Skipping proline residue in middle of helix",
			Selections: []string{h.Selection},
			Atoms:      []int{p},
			Labels:     r.labelsFor(p),
		})
	}
	r.addAll(pairs, sigma, slack, el.selection)
	return nil
}
