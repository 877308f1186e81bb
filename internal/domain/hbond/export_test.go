package hbond

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type labelMap map[int]AtomLabel

func (l labelMap) AtomLabel(i int) AtomLabel { return l[i] }

func exportFixture() (*Table, labelMap) {
	labels := labelMap{
		0: {Name: "H", ResName: "ALA", ChainID: "A", ResSeq: 12},
		1: {Name: "O", ResName: "GLY", ChainID: "A", ResSeq: 8},
		2: {Name: "H", ResName: "SER", ChainID: "B", ResSeq: 40, ICode: "A"},
		3: {Name: "O", ResName: "THR", ChainID: "B", ResSeq: 33},
	}
	tbl := NewTable([]Bond{
		{Donor: 0, Acceptor: 1, Distance: 1.975, Sigma: 0.05},
		{Donor: 2, Acceptor: 3, Distance: 1.975, Sigma: 0.05},
	}, fixedCoords{0: {0, 0, 0}, 1: {2, 0, 0}, 2: {0, 0, 0}, 3: {4, 0, 0}})
	tbl.FlagOutliers(2.5)
	return tbl, labels
}

func TestWritePyMOL(t *testing.T) {
	tbl, labels := exportFixture()

	var buf bytes.Buffer
	require.NoError(t, WritePyMOL(&buf, tbl, labels, false))
	assert.Equal(t,
		"dist chain \"A\" and resi 12 and name H, chain \"A\" and resi 8 and name O\n"+
			"dist chain \"B\" and resi 40A and name H, chain \"B\" and resi 33 and name O\n",
		buf.String())

	buf.Reset()
	require.NoError(t, WritePyMOL(&buf, tbl, labels, true))
	assert.Equal(t, "dist chain \"A\" and resi 12 and name H, chain \"A\" and resi 8 and name O\n", buf.String())
}

func TestWritePhenix(t *testing.T) {
	tbl, labels := exportFixture()

	var buf bytes.Buffer
	require.NoError(t, WritePhenix(&buf, tbl, labels, true))
	assert.Equal(t, `geometry_restraints.edits {
  bond {
    action = *add
    atom_selection_1 = "chain 'A' and resid 12 and name H"
    atom_selection_2 = "chain 'A' and resid 8 and name O"
    distance_ideal = 1.975
    sigma = 0.050
    slack = 0.000
  }
}
`, buf.String())

	buf.Reset()
	require.NoError(t, WritePhenix(&buf, NewTable(nil, nil), labels, true))
	assert.Equal(t, "geometry_restraints.edits {\n}\n", buf.String())
}

func TestWriteREFMAC(t *testing.T) {
	tbl, labels := exportFixture()

	var buf bytes.Buffer
	require.NoError(t, WriteREFMAC(&buf, tbl, labels, true))
	assert.Equal(t,
		"exte dist first chain A residue 12 atom H second chain A residue 8 atom O value 1.975 sigma 0.05\n",
		buf.String())
}

func TestAtomLabel(t *testing.T) {
	l := AtomLabel{Name: "N", ResName: "ALA", ChainID: "A", ResSeq: 12}
	assert.Equal(t, `pdb="N    ALA A  12 "`, l.IDString())
	assert.Equal(t, "12", l.Resid())

	l.ICode = "B"
	assert.Equal(t, "12B", l.Resid())
}
