package secstr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() *Records {
	r := &Records{
		Helices: []HelixRecord{
			{Serial: 1, ID: "H1", Start: ResidueID{"ALA", "A", 5, ""}, End: ResidueID{"LEU", "A", 12, ""}, Class: 1, Length: 8},
			{Serial: 2, ID: "H2", Start: ResidueID{"GLY", "A", 20, ""}, End: ResidueID{"GLY", "B", 30, ""}, Class: 1},
			{Serial: 3, ID: "H3", Start: ResidueID{"SER", "B", 40, ""}, End: ResidueID{"SER", "B", 46, "A"}, Class: 5},
		},
	}
	r.AddStrand("S1", 2, StrandRecord{StrandID: 1, Start: ResidueID{"VAL", "A", 60, ""}, End: ResidueID{"VAL", "A", 65, ""}})
	r.AddStrand("S1", 2, StrandRecord{
		StrandID: 2,
		Start:    ResidueID{"ILE", "A", 70, ""},
		End:      ResidueID{"ILE", "A", 75, ""},
		Sense:    -1,
		Registration: &Registration{
			CurAtom:  "N",
			Cur:      ResidueID{"ILE", "A", 72, ""},
			PrevAtom: "O",
			Prev:     ResidueID{"VAL", "A", 63, ""},
		},
	})
	return r
}

func TestRecords_AddStrandGroupsBySheet(t *testing.T) {
	r := sampleRecords()
	r.AddStrand("S2", 1, StrandRecord{StrandID: 1})
	require.Len(t, r.Sheets, 2)
	assert.Len(t, r.Sheets[0].Strands, 2)
	assert.Equal(t, "S2", r.Sheets[1].ID)
	assert.False(t, r.Empty())
}

func TestRecords_Annotation(t *testing.T) {
	ann, skipped, err := sampleRecords().Annotation(ConvertOptions{})
	require.NoError(t, err)

	require.Len(t, ann.Helices, 2)
	assert.Equal(t, "chain 'A' and resseq 5:12", ann.Helices[0].Selection)
	assert.Equal(t, HelixAlpha, ann.Helices[0].Class)
	assert.Equal(t, HelixThreeTen, ann.Helices[1].Class)

	require.Len(t, skipped, 1)
	assert.Contains(t, skipped[0].Reason, "starts in A, ends in B")

	require.Len(t, ann.Sheets, 1)
	sheet := ann.Sheets[0]
	assert.Equal(t, "chain 'A' and resseq 60:65", sheet.FirstStrand)
	require.Len(t, sheet.Strands, 1)
	assert.Equal(t, SenseAntiparallel, sheet.Strands[0].Sense)
	assert.Equal(t, "chain 'A' and resseq 72", sheet.Strands[0].BondStartCurrent)
	assert.Equal(t, "chain 'A' and resseq 63", sheet.Strands[0].BondStartPrevious)
}

func TestRecords_AnnotationResidueIDs(t *testing.T) {
	ann, _, err := sampleRecords().Annotation(ConvertOptions{ResidueIDs: true})
	require.NoError(t, err)
	assert.Equal(t, "chain 'B' and resid 40 through 46A", ann.Helices[1].Selection)
	assert.Equal(t, "chain 'A' and resid 72", ann.Sheets[0].Strands[0].BondStartCurrent)
}

func TestRecords_AnnotationBadSense(t *testing.T) {
	r := sampleRecords()
	r.Sheets[0].Strands[1].Sense = 3
	_, _, err := r.Annotation(ConvertOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHEET S1 strand 2")
}

func TestAnnotation_RestraintGroups(t *testing.T) {
	ann, _, err := sampleRecords().Annotation(ConvertOptions{})
	require.NoError(t, err)

	text := ann.RestraintGroups("refinement.secondary_structure")
	assert.Contains(t, text, "refinement.secondary_structure.helix {\n  selection = \"chain 'A' and resseq 5:12\"\n  helix_class = alpha\n}")
	assert.Contains(t, text, "refinement.secondary_structure.sheet {\n  first_strand = \"chain 'A' and resseq 60:65\"\n")
	assert.Contains(t, text, "    sense = antiparallel\n    bond_start_current = \"chain 'A' and resseq 72\"\n")

	sigma := 0.1
	ann.Helices[0].Sigma = &sigma
	assert.Contains(t, ann.RestraintGroups(""), "  restraint_sigma = 0.1\n")
}
