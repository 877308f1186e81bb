package structure

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestModel returns a small two-chain model:
//
//	0-3   A   1  ALA  N H CA O
//	4-6   A   2  GLY  N H O
//	7-8   A   3  PRO  N O
//	9-12  A   4  SER  N CA(A) CA(B) O
//	13-15 B  10  LEU  N ; 10A N ; 11 N
//	16    A 100  HOH  O (hetero)
func newTestModel(t *testing.T) *Model {
	t.Helper()
	at := func(chain string, seq int, icode, res, name, alt, elem string) Atom {
		return Atom{ChainID: chain, ResSeq: seq, ICode: icode, ResName: res, Name: name, AltLoc: alt, Element: elem}
	}
	atoms := []Atom{
		at("A", 1, "", "ALA", "N", "", "N"),
		at("A", 1, "", "ALA", "H", "", "H"),
		at("A", 1, "", "ALA", "CA", "", "C"),
		at("A", 1, "", "ALA", "O", "", "O"),
		at("A", 2, "", "GLY", "N", "", "N"),
		at("A", 2, "", "GLY", "H", "", "H"),
		at("A", 2, "", "GLY", "O", "", "O"),
		at("A", 3, "", "PRO", "N", "", "N"),
		at("A", 3, "", "PRO", "O", "", "O"),
		at("A", 4, "", "SER", "N", "", "N"),
		at("A", 4, "", "SER", "CA", "A", "C"),
		at("A", 4, "", "SER", "CA", "B", "C"),
		at("A", 4, "", "SER", "O", "", "O"),
		at("B", 10, "", "LEU", "N", "", "N"),
		at("B", 10, "A", "LEU", "N", "", "N"),
		at("B", 11, "", "LEU", "N", "", "N"),
		at("A", 100, "", "HOH", "O", "", "O"),
	}
	for i := range atoms {
		atoms[i].Serial = i + 1
		atoms[i].Coords = [3]float64{float64(i), 0, 0}
	}
	atoms[16].Hetero = true

	m, err := NewModel(atoms)
	require.NoError(t, err)
	return m
}
