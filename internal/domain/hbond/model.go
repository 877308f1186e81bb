package hbond

import (
	"fmt"
	"strings"
)

// Selector evaluates an atom selection and returns matching atom indices in
// model order.
type Selector interface {
	Select(query string) ([]int, error)
}

// Topology exposes the per-atom facts the enumerators need.
type Topology interface {
	NumAtoms() int
	ResName(i int) string
}

// Coordinates maps an atom index to its Cartesian position.
type Coordinates interface {
	Position(i int) [3]float64
}

// Model is everything a synthesis run consumes from a structure.
type Model interface {
	Selector
	Topology
	Coordinates
}

// Labels exposes atom labels for diagnostics and export formats.  Models
// that implement it get atom-level detail in verbose diagnostics.
type Labels interface {
	AtomLabel(i int) AtomLabel
}

// AtomLabel identifies one atom by its PDB labels.
type AtomLabel struct {
	Name    string `json:"name"`
	AltLoc  string `json:"altloc,omitempty"`
	ResName string `json:"resname"`
	ChainID string `json:"chain_id"`
	ResSeq  int    `json:"resseq"`
	ICode   string `json:"icode,omitempty"`
}

// IDString renders the label the way PDB-aware tools quote an atom, e.g.
// `pdb="N    ALA A  12 "`.
func (l AtomLabel) IDString() string {
	return fmt.Sprintf("pdb=\"%-4s%1s%3s %1s%4d%1s\"",
		l.Name, l.AltLoc, l.ResName, l.ChainID, l.ResSeq, l.ICode)
}

// Resid renders the sequence number with its insertion code.
func (l AtomLabel) Resid() string {
	return fmt.Sprintf("%d%s", l.ResSeq, strings.TrimSpace(l.ICode))
}

// Sentinel is the index meaning "no physical atom": one past the last valid
// atom index.  It is never dereferenced.
func Sentinel(nAtoms int) int { return nAtoms }

// proline is the residue without a backbone amide donor.
const proline = "PRO"

func isProline(t Topology, i int) bool {
	return strings.TrimSpace(t.ResName(i)) == proline
}
