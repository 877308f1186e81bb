package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/hbond-restraints/internal/domain/hbond"
	"github.com/turtacn/hbond-restraints/pkg/errors"
)

func TestSelect(t *testing.T) {
	m := newTestModel(t)
	tests := []struct {
		query string
		want  []int
	}{
		{"all", []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}},
		{"none", nil},
		{"name N", []int{0, 4, 7, 9, 13, 14, 15}},
		{"chain A and name O", []int{3, 6, 8, 12, 16}},
		{"chain 'A' and resseq 2:3", []int{4, 5, 6, 7, 8}},
		{"resname PRO", []int{7, 8}},
		{"resname pro", []int{7, 8}},
		{"chain a", nil},
		{"altloc ' ' and name CA", []int{2}},
		{"(altloc 'A' or altloc ' ') and name CA", []int{2, 10}},
		{"not hetero and name O", []int{3, 6, 8, 12}},
		{"hetero", []int{16}},
		{"resid 10", []int{13}},
		{"resid 10A", []int{14}},
		{"chain B and resid 10 through 11", []int{13, 14, 15}},
		{"resid 2 through 3", []int{4, 5, 6, 7, 8}},
		{"element H", []int{1, 5}},
		{"name C*", []int{2, 10, 11}},
		{"resseq :2 and name N", []int{0, 4}},
		{"chain A and resseq 4:", []int{9, 10, 11, 12, 16}},
		{"resseq 3", []int{7, 8}},
		{"name N or name O and chain B", []int{0, 4, 7, 9, 13, 14, 15}},
		{"(name N or name O) and chain B", []int{13, 14, 15}},
		{"not not resname GLY", []int{4, 5, 6}},
		{"NAME n AND CHAIN B", []int{13, 14, 15}},
		{`chain "B" and resid 11`, []int{15}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := m.Select(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelect_AtomQueries(t *testing.T) {
	m := newTestModel(t)

	got, err := m.Select(hbond.AtomQuery("chain A and resseq 1:4", hbond.AcceptorName))
	require.NoError(t, err)
	assert.Equal(t, []int{3, 6, 8, 12}, got)

	got, err = m.Select(hbond.AtomQuery("chain A and resseq 1:4", hbond.DonorHydrogen))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 5}, got)
}

func TestSelect_Cached(t *testing.T) {
	m := newTestModel(t)
	first, err := m.Select("name N")
	require.NoError(t, err)
	second, err := m.Select("name N")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, m.cache, 1)

	_, err = m.Select("name")
	require.Error(t, err)
	assert.Len(t, m.cache, 1)
}

func TestCompile_SyntaxErrors(t *testing.T) {
	for _, q := range []string{
		"",
		"   ",
		"chain",
		"resseq x:3",
		"resseq 1:y",
		"resseq :",
		"foo",
		"(all",
		"all)",
		"name 'N",
		"resid 12AB",
		"resid A12",
		"and",
		"name N and",
		"resid 1 through",
		"chain A chain B",
	} {
		t.Run(q, func(t *testing.T) {
			_, err := Compile(q)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.CodeSelectionSyntax), "got %v", err)
		})
	}
}

func TestCompile_ErrorNamesQuery(t *testing.T) {
	_, err := Compile("chain A and bogus B")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown keyword "bogus" (column 13)`)
	assert.Contains(t, err.Error(), `"chain A and bogus B"`)
}

func TestCompile_String(t *testing.T) {
	tests := map[string]string{
		"name N or not chain B and resseq 1:3": "(name 'N' or ((not chain 'B') and resseq 1:3))",
		"resseq 5":                             "resseq 5",
		"resseq :5":                            "resseq :5",
		"resid 10a through 12":                 "resid 10A through 12",
		"(all)":                                "all",
		"none or hetero":                       "(none or hetero)",
		"altloc ' '":                           "altloc ''",
	}
	for q, want := range tests {
		assert.Equal(t, want, MustCompile(q).String(), q)
	}
}

func TestMustCompile_Panics(t *testing.T) {
	assert.Panics(t, func() { MustCompile("(") })
	assert.Equal(t, "all", MustCompile("all").Query())
}

func TestEvaluate_ReversedRange(t *testing.T) {
	m := newTestModel(t)
	_, err := m.Select("chain B and resid 11 through 10")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeSelectionEval))
}
