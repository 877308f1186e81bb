package hbond

import (
	"fmt"
	"strings"
)

// fakeAtom is one atom of a fakeModel.
type fakeAtom struct {
	name    string
	resname string
	chain   string
	resseq  int
	pos     [3]float64
}

// fakeModel implements Model and Labels over a flat atom list.  Selections
// are named residue sets; Select understands the queries built by AtomQuery.
type fakeModel struct {
	atoms     []fakeAtom
	sets      map[string][]int
	hydrogens bool
	queries   []string
}

func newFakeModel() *fakeModel {
	return &fakeModel{sets: map[string][]int{}, hydrogens: true}
}

// addResidue appends N, H (omitted for PRO or when noH) and O atoms.
func (m *fakeModel) addResidue(resseq int, resname string, noH bool) {
	x := float64(resseq) * 1.5
	m.atoms = append(m.atoms, fakeAtom{"N", resname, "A", resseq, [3]float64{x, 0, 0}})
	if resname != "PRO" && !noH {
		m.atoms = append(m.atoms, fakeAtom{"H", resname, "A", resseq, [3]float64{x, 1, 0}})
	}
	m.atoms = append(m.atoms, fakeAtom{"O", resname, "A", resseq, [3]float64{x, 0, 1}})
}

// addRun appends residues first..last of one residue name and registers the
// set under sel.
func (m *fakeModel) addRun(sel string, first, last int, resname string) {
	var set []int
	for r := first; r <= last; r++ {
		m.addResidue(r, resname, false)
		set = append(set, r)
	}
	m.sets[sel] = set
}

func (m *fakeModel) define(sel string, residues ...int) { m.sets[sel] = residues }

func (m *fakeModel) Select(query string) ([]int, error) {
	m.queries = append(m.queries, query)
	cut := strings.LastIndex(query, " and name ")
	if cut < 0 {
		return nil, fmt.Errorf("unsupported query %q", query)
	}
	name := query[cut+len(" and name "):]
	head := strings.TrimSuffix(query[:cut], " and "+primaryAltLoc)
	sel := strings.TrimSuffix(strings.TrimPrefix(head, "("), ")")

	inSet := func(int) bool { return true }
	if sel != "all" {
		residues, ok := m.sets[sel]
		if !ok {
			return nil, nil
		}
		want := make(map[int]bool, len(residues))
		for _, r := range residues {
			want[r] = true
		}
		inSet = func(r int) bool { return want[r] }
	}

	var out []int
	for i, a := range m.atoms {
		if a.name == name && inSet(a.resseq) {
			out = append(out, i)
		}
	}
	return out, nil
}

func (m *fakeModel) NumAtoms() int             { return len(m.atoms) }
func (m *fakeModel) ResName(i int) string      { return m.atoms[i].resname }
func (m *fakeModel) Position(i int) [3]float64 { return m.atoms[i].pos }
func (m *fakeModel) HasHydrogens() bool        { return m.hydrogens }

func (m *fakeModel) AtomLabel(i int) AtomLabel {
	a := m.atoms[i]
	return AtomLabel{Name: a.name, ResName: a.resname, ChainID: a.chain, ResSeq: a.resseq}
}

// resseqOf returns the residue number of atom i.
func (m *fakeModel) resseqOf(i int) int { return m.atoms[i].resseq }

// fixedCoords places every atom at its own position in a map.
type fixedCoords map[int][3]float64

func (c fixedCoords) Position(i int) [3]float64 { return c[i] }
