package restraints

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/hbond-restraints/internal/domain/hbond"
	"github.com/turtacn/hbond-restraints/internal/domain/secstr"
	"github.com/turtacn/hbond-restraints/internal/testutil"
	"github.com/turtacn/hbond-restraints/pkg/errors"
	types "github.com/turtacn/hbond-restraints/pkg/types/restraints"
)

func runFixture(t *testing.T) *Result {
	t.Helper()
	svc, _ := newTestService(t)
	res, err := svc.Run(context.Background(), &Request{Name: "fixture", PDB: testutil.HelixSheetPDB})
	require.NoError(t, err)
	return res
}

func TestResult_DTO(t *testing.T) {
	res := runFixture(t)
	dto := res.DTO()

	assert.Equal(t, res.RunID, dto.RunID)
	assert.Equal(t, "1HBR", dto.IDCode)
	assert.Equal(t, "H", dto.Donor)
	assert.Equal(t, types.Summary{Total: 10, Kept: 9, Excluded: 1, HelixBonds: 6, SheetBonds: 4}, dto.Summary)
	require.Len(t, dto.Bonds, 10)
	assert.Len(t, dto.HistogramBefore, hbond.HistogramSlots)
	assert.Len(t, dto.HistogramAfter, hbond.HistogramSlots)

	first := dto.Bonds[0]
	assert.Equal(t, "H", first.Donor.Name)
	assert.Equal(t, "O", first.Acceptor.Name)
	assert.Equal(t, "A", first.Donor.ChainID)
	assert.Equal(t, first.Donor.ResSeq-4, first.Acceptor.ResSeq)
	assert.Equal(t, hbond.DefaultIdealDistanceH, first.DistanceIdeal)

	kept := 0
	for _, b := range dto.Bonds {
		if b.Keep {
			kept++
		} else {
			assert.Greater(t, b.Length, hbond.DefaultMaxDistanceH)
		}
	}
	assert.Equal(t, 9, kept)
}

func TestRender(t *testing.T) {
	res := runFixture(t)

	out, err := RenderString(res, types.FormatPyMOL, true)
	require.NoError(t, err)
	assert.Equal(t, 9, strings.Count(out, "dist "))

	out, err = RenderString(res, "REFMAC", false)
	require.NoError(t, err)
	assert.Equal(t, 10, strings.Count(out, "exte dist"))

	out, err = RenderString(res, types.FormatPhenix, true)
	require.NoError(t, err)
	assert.Equal(t, 9, strings.Count(out, "bond {"))

	_, err = RenderString(res, "cns", true)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
}

func TestRequestFromDTO(t *testing.T) {
	sigma := 0.1
	in := &types.Request{
		PDB:     testutil.HelixSheetPDB,
		Helices: []types.Helix{{Selection: "chain 'A'", Class: "pi", Sigma: &sigma}},
		Sheets: []types.Sheet{{
			FirstStrand: "chain 'B' and resseq 20:24",
			Strands: []types.Strand{{
				Selection:         "chain 'B' and resseq 30:34",
				Sense:             "antiparallel",
				BondStartCurrent:  "chain 'B' and resseq 32",
				BondStartPrevious: "chain 'B' and resseq 22",
			}},
		}},
		Params: &types.Params{AlphaOnly: hbond.Bool(true), Slack: hbond.Float(0.2)},
	}

	req, err := RequestFromDTO(in, hbond.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, "request", req.Name)
	require.Len(t, req.Annotation.Helices, 1)
	assert.Equal(t, secstr.HelixPi, req.Annotation.Helices[0].Class)
	assert.Equal(t, 0.1, *req.Annotation.Helices[0].Sigma)
	require.Len(t, req.Annotation.Sheets, 1)
	assert.Equal(t, secstr.SenseAntiparallel, req.Annotation.Sheets[0].Strands[0].Sense)

	require.NotNil(t, req.Params)
	assert.True(t, req.Params.AlphaOnly)
	assert.True(t, req.Params.RestrainSheets)
	assert.Equal(t, 0.2, *req.Params.Slack)
	assert.Equal(t, hbond.DefaultSigma, *req.Params.Sigma)
}

func TestRequestFromDTO_Errors(t *testing.T) {
	_, err := RequestFromDTO(&types.Request{PDB: "  "}, hbond.DefaultParams())
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))

	_, err = RequestFromDTO(&types.Request{
		PDB:     "ATOM",
		Helices: []types.Helix{{Selection: "all", Class: "beta"}},
	}, hbond.DefaultParams())
	assert.True(t, errors.IsCode(err, errors.CodeInvalidAnnotation))

	_, err = RequestFromDTO(&types.Request{
		PDB:    "ATOM",
		Sheets: []types.Sheet{{FirstStrand: "all", Strands: []types.Strand{{Sense: "sideways"}}}},
	}, hbond.DefaultParams())
	assert.True(t, errors.IsCode(err, errors.CodeInvalidAnnotation))
}

func TestContentResult_DTO(t *testing.T) {
	c := &ContentResult{Name: "x", Content: hbond.Content{Amides: 4, Alpha: 0.5, Helices: 1}}
	assert.Equal(t, &types.Content{Name: "x", Amides: 4, Alpha: 0.5, Helices: 1}, c.DTO())
}

func TestCheckFormat(t *testing.T) {
	for _, f := range []string{"phenix", "PyMOL", "refmac"} {
		assert.NoError(t, CheckFormat(f), f)
	}
	err := CheckFormat("json")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
	assert.Contains(t, err.Error(), "phenix, pymol, refmac")
}

func TestInput_GroupsDTO(t *testing.T) {
	svc, _ := newTestService(t)
	in, err := svc.Load(context.Background(), &Request{Name: "fixture", PDB: testutil.HelixSheetPDB})
	require.NoError(t, err)

	g := in.GroupsDTO("refinement.secondary_structure")
	assert.Equal(t, "fixture", g.Name)
	assert.Equal(t, 1, g.Helices)
	assert.Equal(t, 1, g.Sheets)
	assert.Contains(t, g.Text, "refinement.secondary_structure.helix {\n")
	assert.Contains(t, g.Text, "refinement.secondary_structure.sheet {\n")
	assert.Empty(t, g.Skipped)
}
