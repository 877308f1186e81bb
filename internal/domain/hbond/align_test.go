package hbond

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/hbond-restraints/pkg/errors"
)

func TestAlign(t *testing.T) {
	const sentinel = 100
	prolines := map[int]bool{21: true, 24: true}
	isPro := func(i int) bool { return prolines[i] }

	tests := []struct {
		name      string
		donors    []int
		acceptors []int
		want      []int
		wantCode  errors.ErrorCode
	}{
		{
			name:      "equal lengths unchanged",
			donors:    []int{1, 2, 3},
			acceptors: []int{20, 21, 22},
			want:      []int{1, 2, 3},
		},
		{
			name:      "proline in the middle",
			donors:    []int{1, 3, 4},
			acceptors: []int{20, 21, 22, 23},
			want:      []int{1, sentinel, 3, 4},
		},
		{
			name:      "proline at the end",
			donors:    []int{1, 2, 3, 4},
			acceptors: []int{20, 25, 26, 27, 24},
			want:      []int{1, 2, 3, 4, sentinel},
		},
		{
			name:      "two prolines",
			donors:    []int{1, 3, 4},
			acceptors: []int{20, 21, 22, 23, 24},
			want:      []int{1, sentinel, 3, 4, sentinel},
		},
		{
			name:      "missing non-proline donor",
			donors:    []int{1, 2},
			acceptors: []int{20, 22, 23},
			wantCode:  errors.CodeIncompleteResidueSet,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Align(tt.donors, tt.acceptors, isPro, sentinel, "donor-q", "acceptor-q")
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, tt.wantCode))
				assert.Contains(t, err.Error(), `"donor-q" => 2 donors`)
				assert.Contains(t, err.Error(), `"acceptor-q" => 3 acceptors`)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, len(tt.acceptors))
		})
	}
}

func TestAlign_DoesNotAliasInput(t *testing.T) {
	donors := []int{1, 2, 3}
	got, err := Align(donors, []int{7, 8, 9}, func(int) bool { return false }, 99, "d", "a")
	require.NoError(t, err)
	got[0] = 42
	assert.Equal(t, 1, donors[0])
}

func TestResolveElement_EmptyAcceptors(t *testing.T) {
	m := newFakeModel()
	m.addRun("h", 1, 5, "ALA")

	_, err := resolveElement(m, "missing", DonorHydrogen)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeEmptySelection))
	assert.Contains(t, err.Error(), AtomQuery("missing", AcceptorName))
}

func TestResolveAnchor_ExactlyOne(t *testing.T) {
	m := newFakeModel()
	m.addRun("s", 1, 5, "ALA")
	m.define("r3", 3)

	a, err := resolveAnchor(m, "r3", DonorHydrogen)
	require.NoError(t, err)
	assert.Equal(t, 3, m.resseqOf(a.donor))
	assert.Equal(t, "H", m.atoms[a.donor].name)
	assert.Equal(t, 3, m.resseqOf(a.acceptor))
	assert.Equal(t, AcceptorName, m.atoms[a.acceptor].name)

	_, err = resolveAnchor(m, "s", DonorHydrogen)
	assert.True(t, errors.IsCode(err, errors.CodeAmbiguousAnchor))

	_, err = resolveAnchor(m, "nothing", DonorHydrogen)
	assert.True(t, errors.IsCode(err, errors.CodeAmbiguousAnchor))
	assert.Contains(t, err.Error(), "=> 0 atoms")
}

func TestResolveAnchor_ProlineGivesSentinel(t *testing.T) {
	m := newFakeModel()
	m.addResidue(1, "VAL", false)
	m.addResidue(2, "PRO", false)
	m.define("r2", 2)

	a, err := resolveAnchor(m, "r2", DonorHydrogen)
	require.NoError(t, err)
	assert.Equal(t, Sentinel(m.NumAtoms()), a.donor)
	assert.Equal(t, 2, m.resseqOf(a.acceptor))

	// heavy-atom donors keep the proline N
	a, err = resolveAnchor(m, "r2", DonorNitrogen)
	require.NoError(t, err)
	assert.Equal(t, "N", m.atoms[a.donor].name)
}

func TestResolveAnchor_MissingAmideIsIncomplete(t *testing.T) {
	m := newFakeModel()
	m.addResidue(1, "VAL", true)
	m.define("r1", 1)

	_, err := resolveAnchor(m, "r1", DonorHydrogen)
	assert.True(t, errors.IsCode(err, errors.CodeIncompleteResidueSet))
}

func TestAtomQuery(t *testing.T) {
	assert.Equal(t,
		"(chain 'A' and resseq 5:12) and (altloc 'A' or altloc ' ') and name O",
		AtomQuery("chain 'A' and resseq 5:12", AcceptorName))
}
