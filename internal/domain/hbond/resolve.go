package hbond

import (
	"fmt"

	"github.com/turtacn/hbond-restraints/pkg/errors"
)

// primaryAltLoc restricts a selection to the first alternate conformation.
const primaryAltLoc = "(altloc 'A' or altloc ' ')"

// AtomQuery restricts sel to the primary conformation and one atom name.
func AtomQuery(sel, name string) string {
	return fmt.Sprintf("(%s) and %s and name %s", sel, primaryAltLoc, name)
}

// element is the aligned donor and acceptor sequences of one selection.
type element struct {
	selection string
	donorQ    string
	acceptorQ string
	donors    []int
	acceptors []int
}

// resolveElement selects the donors and acceptors of sel and aligns them.
// Zero acceptors is fatal; a donor shortfall is handed to Align.
func resolveElement(m Model, sel, donorName string) (*element, error) {
	el := &element{
		selection: sel,
		donorQ:    AtomQuery(sel, donorName),
		acceptorQ: AtomQuery(sel, AcceptorName),
	}

	acceptors, err := m.Select(el.acceptorQ)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "evaluating acceptor selection")
	}
	if len(acceptors) == 0 {
		return nil, errors.New(errors.CodeEmptySelection, "no atoms for selection").
			WithDetailf("%q => 0 atoms", el.acceptorQ)
	}
	donors, err := m.Select(el.donorQ)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "evaluating donor selection")
	}

	el.donors, err = Align(donors, acceptors, func(i int) bool { return isProline(m, i) },
		Sentinel(m.NumAtoms()), el.donorQ, el.acceptorQ)
	if err != nil {
		return nil, err
	}
	el.acceptors = acceptors
	return el, nil
}

// anchor is the aligned donor and acceptor of a single-residue bonding
// start.  donor is the sentinel when the residue is a proline.
type anchor struct {
	donor    int
	acceptor int
}

// resolveAnchor resolves sel through the same alignment as a strand, so a
// proline anchor yields the sentinel donor.  The selection must cover
// exactly one residue.
func resolveAnchor(m Model, sel, donorName string) (anchor, error) {
	el, err := resolveElement(m, sel, donorName)
	if err != nil && !errors.IsCode(err, errors.CodeEmptySelection) {
		return anchor{}, err
	}
	if el == nil || len(el.acceptors) != 1 {
		n := 0
		if el != nil {
			n = len(el.acceptors)
		}
		return anchor{}, errors.New(errors.CodeAmbiguousAnchor, "bonding anchor must select exactly one atom").
			WithDetailf("%q => %d atoms", AtomQuery(sel, AcceptorName), n)
	}
	return anchor{donor: el.donors[0], acceptor: el.acceptors[0]}, nil
}
