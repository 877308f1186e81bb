package hbond

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/hbond-restraints/internal/domain/secstr"
)

func TestStructureContent(t *testing.T) {
	m := newFakeModel()
	m.addRun("h", 1, 4, "ALA")
	m.addRun("s1", 5, 7, "VAL")
	m.addRun("s2", 8, 10, "ILE")
	m.addResidue(11, "GLY", false)
	m.addResidue(12, "GLY", false)

	ann := secstr.Annotation{
		Helices: []secstr.Helix{{Selection: "h"}, {Selection: "h"}},
		Sheets:  []secstr.Sheet{{FirstStrand: "s1", Strands: []secstr.Strand{{Selection: "s2"}}}},
	}
	c, err := StructureContent(m, ann)
	require.NoError(t, err)
	assert.Equal(t, 12, c.Amides)
	assert.Equal(t, 2, c.Helices)
	assert.Equal(t, 1, c.Sheets)
	assert.InDelta(t, 4.0/12, c.Alpha, 1e-12)
	assert.InDelta(t, 6.0/12, c.Beta, 1e-12)
}

func TestStructureContent_NoAmides(t *testing.T) {
	c, err := StructureContent(newFakeModel(), secstr.Annotation{Helices: []secstr.Helix{{Selection: "h"}}})
	require.NoError(t, err)
	assert.Zero(t, c.Amides)
	assert.Zero(t, c.Alpha)
}

func TestStructureContent_SelectionError(t *testing.T) {
	_, err := StructureContent(failingSelector{}, secstr.Annotation{})
	assert.Error(t, err)
}

type failingSelector struct{}

func (failingSelector) Select(string) ([]int, error) { return nil, assert.AnError }
