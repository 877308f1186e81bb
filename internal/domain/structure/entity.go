// Package structure provides the in-memory atomic model that restraint
// synthesis runs against, together with the atom selection language used to
// address it.  Model satisfies the hbond Selector, Topology, Coordinates and
// Labels contracts.
package structure

import (
	"strings"
	"sync"
	"unicode"

	"github.com/turtacn/hbond-restraints/internal/domain/hbond"
	"github.com/turtacn/hbond-restraints/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Atom
// ─────────────────────────────────────────────────────────────────────────────

// Atom is one coordinate record.  String labels are stored trimmed; a blank
// alternate location is the empty string.
type Atom struct {
	Serial    int        `json:"serial"`
	Name      string     `json:"name"`
	AltLoc    string     `json:"altloc,omitempty"`
	ResName   string     `json:"resname"`
	ChainID   string     `json:"chain_id"`
	ResSeq    int        `json:"resseq"`
	ICode     string     `json:"icode,omitempty"`
	Element   string     `json:"element"`
	Coords    [3]float64 `json:"coords"`
	Occupancy float64    `json:"occupancy"`
	BFactor   float64    `json:"b_factor"`
	Hetero    bool       `json:"hetero,omitempty"`
}

// Label returns the atom's identifying labels.
func (a Atom) Label() hbond.AtomLabel {
	return hbond.AtomLabel{
		Name:    a.Name,
		AltLoc:  a.AltLoc,
		ResName: a.ResName,
		ChainID: a.ChainID,
		ResSeq:  a.ResSeq,
		ICode:   a.ICode,
	}
}

// IsHydrogen reports whether the atom is a hydrogen or deuterium.
func (a Atom) IsHydrogen() bool {
	switch strings.ToUpper(a.Element) {
	case "H", "D":
		return true
	}
	return false
}

// GuessElement infers the element symbol from a four-column PDB atom name
// when the element columns are blank.
func GuessElement(name string) string {
	if len(name) == 4 && name[0] != ' ' && !unicode.IsDigit(rune(name[0])) {
		// two-letter symbols start in the first column; so do long H names
		if name[0] == 'H' {
			return "H"
		}
		return strings.ToUpper(strings.TrimSpace(name[:2]))
	}
	s := strings.TrimLeft(name, " 0123456789")
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1])
}

// ─────────────────────────────────────────────────────────────────────────────
// Model
// ─────────────────────────────────────────────────────────────────────────────

// Model is an ordered, immutable atom list.  Atom indices are positions in
// file order.  A Model is safe for concurrent use.
type Model struct {
	atoms []Atom

	mu    sync.RWMutex
	cache map[string][]int
}

// NewModel wraps atoms, which the Model then owns.  An empty list is
// rejected.
func NewModel(atoms []Atom) (*Model, error) {
	if len(atoms) == 0 {
		return nil, errors.New(errors.CodeStructureEmpty, "structure contains no atoms")
	}
	return &Model{atoms: atoms, cache: make(map[string][]int)}, nil
}

// Atoms returns the atom list.  Callers must not modify it.
func (m *Model) Atoms() []Atom { return m.atoms }

// Atom returns atom i.
func (m *Model) Atom(i int) Atom { return m.atoms[i] }

// NumAtoms is the number of atoms.
func (m *Model) NumAtoms() int { return len(m.atoms) }

// ResName is the residue name of atom i.
func (m *Model) ResName(i int) string { return m.atoms[i].ResName }

// Position is the Cartesian position of atom i.
func (m *Model) Position(i int) [3]float64 { return m.atoms[i].Coords }

// AtomLabel returns the labels of atom i.
func (m *Model) AtomLabel(i int) hbond.AtomLabel { return m.atoms[i].Label() }

// HasHydrogens reports whether any atom is a hydrogen or deuterium.
func (m *Model) HasHydrogens() bool {
	for _, a := range m.atoms {
		if a.IsHydrogen() {
			return true
		}
	}
	return false
}

// Chains lists chain IDs in order of first appearance.
func (m *Model) Chains() []string {
	seen := make(map[string]bool)
	var out []string
	for _, a := range m.atoms {
		if !seen[a.ChainID] {
			seen[a.ChainID] = true
			out = append(out, a.ChainID)
		}
	}
	return out
}

// Select compiles query and returns the matching atom indices in file
// order.  Results are cached per query string; the returned slice is shared
// and must not be modified.
func (m *Model) Select(query string) ([]int, error) {
	m.mu.RLock()
	idx, ok := m.cache[query]
	m.mu.RUnlock()
	if ok {
		return idx, nil
	}

	sel, err := Compile(query)
	if err != nil {
		return nil, err
	}
	idx, err = sel.Evaluate(m)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.cache[query] = idx
	m.mu.Unlock()
	return idx, nil
}

var (
	_ hbond.Model            = (*Model)(nil)
	_ hbond.Labels           = (*Model)(nil)
	_ hbond.HydrogenDetector = (*Model)(nil)
)
