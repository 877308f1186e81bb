package hbond

import (
	"fmt"

	"github.com/turtacn/hbond-restraints/internal/domain/secstr"
)

// indexOf returns the position of v in xs, or -1.
func indexOf(xs []int, v int) int {
	for k, x := range xs {
		if x == v {
			return k
		}
	}
	return -1
}

// walkStrandPair generates the hydrogen-bond ladder between a strand and its
// predecessor, starting from prev position i and curr position j.  Pairs
// whose donor is not usable are dropped.  The walk ends at whichever strand
// runs out first.
func walkStrandPair(prev, curr *element, i, j int, sense secstr.Sense, usable func(donor int) bool) []pair {
	var pairs []pair
	emit := func(d, a int) {
		if usable(d) {
			pairs = append(pairs, pair{donor: d, acceptor: a})
		}
	}

	switch sense.Normalize() {
	case secstr.SenseAntiparallel:
		for i < len(prev.donors) && j >= 0 {
			emit(prev.donors[i], curr.acceptors[j])
			emit(curr.donors[j], prev.acceptors[i])
			i += 2
			j -= 2
		}
	case secstr.SenseParallel:
		for i < len(prev.donors) && j < len(curr.donors) {
			emit(prev.donors[i], curr.acceptors[j])
			if j+2 >= len(curr.donors) {
				break
			}
			emit(curr.donors[j+2], prev.acceptors[i])
			i += 2
			j += 2
		}
	case secstr.SenseUnknown:
		return nil
	}
	return pairs
}

// usableDonor rejects the sentinel and proline amides.
func (r *run) usableDonor(d int) bool {
	return d != r.sentinel && !r.isProline(d)
}

// sheet enumerates the bonds of one sheet into the run.  A strand pair that
// cannot be registered is reported and skipped; the rest of the sheet is
// still restrained.
func (r *run) sheet(index int, sh secstr.Sheet) error {
	if err := sh.Validate(); err != nil {
		return err
	}

	var pairs []pair
	prevSel := sh.FirstStrand
	for _, st := range sh.Strands {
		got, err := r.strandPair(prevSel, st)
		if err != nil {
			return err
		}
		pairs = append(pairs, got...)
		prevSel = st.Selection
	}

	sigma, slack, err := r.weights(sh.Sigma, sh.Slack,
		fmt.Sprintf("sheet #%d (first strand '%s')", index, sh.FirstStrand))
	if err != nil {
		return err
	}
	r.addAll(pairs, sigma, slack, sh.FirstStrand)
	return nil
}

func (r *run) strandPair(prevSel string, st secstr.Strand) ([]pair, error) {
	if st.Sense.Normalize() == secstr.SenseUnknown {
		r.report(Diagnostic{
			Kind:       KindUnknownSense,
			Message:    "Skipping strand of unknown sense",
			Selections: []string{st.Selection},
		})
		return nil, nil
	}

	donorName := r.params.DonorName()
	curr, err := resolveElement(r.model, st.Selection, donorName)
	if err != nil {
		return nil, err
	}
	prev, err := resolveElement(r.model, prevSel, donorName)
	if err != nil {
		return nil, err
	}
	currStart, err := resolveAnchor(r.model, st.BondStartCurrent, donorName)
	if err != nil {
		return nil, err
	}
	prevStart, err := resolveAnchor(r.model, st.BondStartPrevious, donorName)
	if err != nil {
		return nil, err
	}

	i := indexOf(prev.donors, prevStart.donor)
	if prevStart.donor == r.sentinel {
		// every proline aligns to the sentinel; place by the acceptor
		i = indexOf(prev.acceptors, prevStart.acceptor)
	}
	j := indexOf(curr.acceptors, currStart.acceptor)
	if i < 0 || j < 0 {
		r.report(Diagnostic{
			Kind:       KindAnchorNotFound,
			Message:    "Can't determine start of bonding for strand pair",
			Selections: []string{prevSel, st.Selection, st.BondStartPrevious, st.BondStartCurrent},
			Counts:     []int{len(prev.donors), len(curr.acceptors)},
		})
		return nil, nil
	}

	pairs := walkStrandPair(prev, curr, i, j, st.Sense, r.usableDonor)
	if len(pairs) == 0 {
		r.report(Diagnostic{
			Kind:       KindNoBonds,
			Message:    "No bonds found for strand pair",
			Selections: []string{prevSel, st.Selection},
			Counts:     []int{len(prev.donors), len(curr.donors)},
		})
	}
	return pairs, nil
}
