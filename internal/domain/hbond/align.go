package hbond

import (
	"github.com/turtacn/hbond-restraints/pkg/errors"
)

// Align pairs donors with acceptors position by position.  Equal-length
// sequences are returned unchanged.  Otherwise the sentinel is inserted into
// the donors at the position of every proline acceptor, walking acceptors in
// order; a remaining length mismatch means non-proline residues lack atoms
// and is fatal.  The returned donors never alias the input.
func Align(donors, acceptors []int, isProline func(int) bool, sentinel int, donorQuery, acceptorQuery string) ([]int, error) {
	out := make([]int, len(donors), max(len(donors), len(acceptors)))
	copy(out, donors)
	if len(out) == len(acceptors) {
		return out, nil
	}

	for k, a := range acceptors {
		if !isProline(a) {
			continue
		}
		if k >= len(out) {
			out = append(out, sentinel)
			continue
		}
		out = append(out, 0)
		copy(out[k+1:], out[k:])
		out[k] = sentinel
	}

	if len(out) != len(acceptors) {
		return nil, errors.New(errors.CodeIncompleteResidueSet, "incomplete non-PRO residues").
			WithDetailf("%q => %d donors; %q => %d acceptors",
				donorQuery, len(donors), acceptorQuery, len(acceptors))
	}
	return out, nil
}
