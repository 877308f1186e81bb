package testutil

import "strings"

// HelixSheetPDB is a small synthetic structure with hydrogens:
//
//   - chain A residues 1-10, an alpha helix (HELIX H1) whose six i→i-4
//     bonds all measure 1.98 Å
//   - chain B strands 20-24 and 30-34, an antiparallel sheet (SHEET S1)
//     registered at O 32 / N 22, giving bonds of 1.95, 1.97, 2.00 and
//     2.90 Å
//   - one water (HETATM)
//
// Atoms 0-39 are chain A, 40-69 chain B, 70 the water.
const HelixSheetPDB = `HEADER    DE NOVO PROTEIN                         19-OCT-26   1HBR              
HELIX    1  H1 ALA A    1  ALA A   10  1                                  10
SHEET    1  S1 2 VAL B  20  VAL B  24  0
SHEET    2  S1 2 ILE B  30  ILE B  34 -1  O  ILE B  32   N  VAL B  22 
ATOM      1  N   ALA A   1      -0.399   2.265   1.500  1.00 20.00           N
ATOM      2  H   ALA A   1      -0.099   2.565   0.600  1.00 20.00           H
ATOM      3  CA  ALA A   1       0.401   3.065   1.700  1.00 20.00           C
ATOM      4  O   ALA A   1      -0.399   2.265   2.400  1.00 20.00           O
ATOM      5  N   ALA A   2      -2.161  -0.787   3.000  1.00 20.00           N
ATOM      6  H   ALA A   2      -1.861  -0.487   2.100  1.00 20.00           H
ATOM      7  CA  ALA A   2      -1.361   0.013   3.200  1.00 20.00           C
ATOM      8  O   ALA A   2      -2.161  -0.787   3.900  1.00 20.00           O
ATOM      9  N   ALA A   3       1.150  -1.992   4.500  1.00 20.00           N
ATOM     10  H   ALA A   3       1.450  -1.692   3.600  1.00 20.00           H
ATOM     11  CA  ALA A   3       1.950  -1.192   4.700  1.00 20.00           C
ATOM     12  O   ALA A   3       1.150  -1.992   5.400  1.00 20.00           O
ATOM     13  N   ALA A   4       1.762   1.478   6.000  1.00 20.00           N
ATOM     14  H   ALA A   4       2.062   1.778   5.100  1.00 20.00           H
ATOM     15  CA  ALA A   4       2.562   2.278   6.200  1.00 20.00           C
ATOM     16  O   ALA A   4       1.762   1.478   6.900  1.00 20.00           O
ATOM     17  N   ALA A   5      -1.762   1.478   7.500  1.00 20.00           N
ATOM     18  H   ALA A   5      -0.399   2.265   0.420  1.00 20.00           H
ATOM     19  CA  ALA A   5      -0.962   2.278   7.700  1.00 20.00           C
ATOM     20  O   ALA A   5      -1.762   1.478   8.400  1.00 20.00           O
ATOM     21  N   ALA A   6      -1.150  -1.992   9.000  1.00 20.00           N
ATOM     22  H   ALA A   6      -2.161  -0.787   1.920  1.00 20.00           H
ATOM     23  CA  ALA A   6      -0.350  -1.192   9.200  1.00 20.00           C
ATOM     24  O   ALA A   6      -1.150  -1.992   9.900  1.00 20.00           O
ATOM     25  N   ALA A   7       2.161  -0.787  10.500  1.00 20.00           N
ATOM     26  H   ALA A   7       1.150  -1.992   3.420  1.00 20.00           H
ATOM     27  CA  ALA A   7       2.961   0.013  10.700  1.00 20.00           C
ATOM     28  O   ALA A   7       2.161  -0.787  11.400  1.00 20.00           O
ATOM     29  N   ALA A   8       0.399   2.265  12.000  1.00 20.00           N
ATOM     30  H   ALA A   8       1.762   1.478   4.920  1.00 20.00           H
ATOM     31  CA  ALA A   8       1.199   3.065  12.200  1.00 20.00           C
ATOM     32  O   ALA A   8       0.399   2.265  12.900  1.00 20.00           O
ATOM     33  N   ALA A   9      -2.300   0.000  13.500  1.00 20.00           N
ATOM     34  H   ALA A   9      -1.762   1.478   6.420  1.00 20.00           H
ATOM     35  CA  ALA A   9      -1.500   0.800  13.700  1.00 20.00           C
ATOM     36  O   ALA A   9      -2.300   0.000  14.400  1.00 20.00           O
ATOM     37  N   ALA A  10       0.399  -2.265  15.000  1.00 20.00           N
ATOM     38  H   ALA A  10      -1.150  -1.992   7.920  1.00 20.00           H
ATOM     39  CA  ALA A  10       1.199  -1.465  15.200  1.00 20.00           C
ATOM     40  O   ALA A  10       0.399  -2.265  15.900  1.00 20.00           O
ATOM     41  N   VAL B  20       0.000   0.000  10.000  1.00 20.00           N
ATOM     42  H   VAL B  20       0.000   0.000   9.000  1.00 20.00           H
ATOM     43  O   VAL B  20       0.600   0.500  10.000  1.00 20.00           O
ATOM     44  N   VAL B  21       0.000   3.400  10.000  1.00 20.00           N
ATOM     45  H   VAL B  21       0.000   3.400   9.000  1.00 20.00           H
ATOM     46  O   VAL B  21       0.600   3.900  10.000  1.00 20.00           O
ATOM     47  N   VAL B  22       0.000   6.800  10.000  1.00 20.00           N
ATOM     48  H   VAL B  22       4.200   7.300  11.950  1.00 20.00           H
ATOM     49  O   VAL B  22       0.600   7.300  10.000  1.00 20.00           O
ATOM     50  N   VAL B  23       0.000  10.200  10.000  1.00 20.00           N
ATOM     51  H   VAL B  23       0.000  10.200   9.000  1.00 20.00           H
ATOM     52  O   VAL B  23       0.600  10.700  10.000  1.00 20.00           O
ATOM     53  N   VAL B  24       0.000  13.600  10.000  1.00 20.00           N
ATOM     54  H   VAL B  24       4.200  14.100  12.000  1.00 20.00           H
ATOM     55  O   VAL B  24       0.600  14.100  10.000  1.00 20.00           O
ATOM     56  N   ILE B  30       4.800  13.600  10.000  1.00 20.00           N
ATOM     57  H   ILE B  30       0.600  14.100  12.900  1.00 20.00           H
ATOM     58  O   ILE B  30       4.200  14.100  10.000  1.00 20.00           O
ATOM     59  N   ILE B  31       4.800  10.200  10.000  1.00 20.00           N
ATOM     60  H   ILE B  31       4.800  10.200   9.000  1.00 20.00           H
ATOM     61  O   ILE B  31       4.200  10.700  10.000  1.00 20.00           O
ATOM     62  N   ILE B  32       4.800   6.800  10.000  1.00 20.00           N
ATOM     63  H   ILE B  32       0.600   7.300  11.970  1.00 20.00           H
ATOM     64  O   ILE B  32       4.200   7.300  10.000  1.00 20.00           O
ATOM     65  N   ILE B  33       4.800   3.400  10.000  1.00 20.00           N
ATOM     66  H   ILE B  33       4.800   3.400   9.000  1.00 20.00           H
ATOM     67  O   ILE B  33       4.200   3.900  10.000  1.00 20.00           O
ATOM     68  N   ILE B  34       4.800   0.000  10.000  1.00 20.00           N
ATOM     69  H   ILE B  34       4.800   0.000   9.000  1.00 20.00           H
ATOM     70  O   ILE B  34       4.200   0.500  10.000  1.00 20.00           O
HETATM   71  O   HOH A 101      20.000  20.000  20.000  1.00 20.00           O
END
`

// Expected properties of HelixSheetPDB.
const (
	HelixSheetAtoms    = 71
	HelixSheetBonds    = 10
	HelixSheetOutliers = 1
)

// HeavyAtomPDB is HelixSheetPDB with every hydrogen removed.
var HeavyAtomPDB = stripHydrogens(HelixSheetPDB)

// MultiModelPDB holds two models of one atom each.
const MultiModelPDB = `MODEL        1
ATOM      1  N   ALA A   1       0.000   0.000   0.000  1.00 20.00           N
ENDMDL
MODEL        2
ATOM      1  N   ALA A   1       1.000   0.000   0.000  1.00 20.00           N
ENDMDL
END
`

func stripHydrogens(pdb string) string {
	var sb strings.Builder
	for _, line := range strings.SplitAfter(pdb, "\n") {
		if strings.HasPrefix(line, "ATOM") && len(line) >= 78 && strings.TrimSpace(line[76:78]) == "H" {
			continue
		}
		sb.WriteString(line)
	}
	return sb.String()
}
