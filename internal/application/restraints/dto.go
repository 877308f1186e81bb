package restraints

import (
	"bytes"
	"io"
	"strings"

	"github.com/turtacn/hbond-restraints/internal/domain/hbond"
	"github.com/turtacn/hbond-restraints/internal/domain/secstr"
	"github.com/turtacn/hbond-restraints/pkg/errors"
	types "github.com/turtacn/hbond-restraints/pkg/types/restraints"
)

// Formats lists the restraint text formats understood by Render.
var Formats = []string{types.FormatPhenix, types.FormatPyMOL, types.FormatREFMAC}

// CheckFormat reports whether format names a restraint text format.
func CheckFormat(format string) error {
	f := strings.ToLower(format)
	for _, known := range Formats {
		if f == known {
			return nil
		}
	}
	return errors.Newf(errors.CodeInvalidParam, "unknown restraint format %q", format).
		WithDetailf("expected one of %s", strings.Join(Formats, ", "))
}

// Render writes the bonds of res in one of the restraint text formats.
// With filter set, outliers are left out.
func Render(w io.Writer, res *Result, format string, filter bool) error {
	if err := CheckFormat(format); err != nil {
		return err
	}
	t := res.Synthesis.Table
	switch strings.ToLower(format) {
	case types.FormatPyMOL:
		return hbond.WritePyMOL(w, t, res.Model, filter)
	case types.FormatREFMAC:
		return hbond.WriteREFMAC(w, t, res.Model, filter)
	}
	return hbond.WritePhenix(w, t, res.Model, filter)
}

// DTO converts res into its API representation.
func (r *Result) DTO() *types.Result {
	synth := r.Synthesis
	sum := synth.Summary()
	out := &types.Result{
		RunID:      r.RunID,
		Name:       r.Name,
		IDCode:     r.IDCode,
		DurationMS: r.Duration.Milliseconds(),
		Donor:      synth.Params.DonorName(),
		Summary: types.Summary{
			Total:      sum.Total,
			Kept:       sum.Kept,
			Excluded:   sum.Excluded,
			HelixBonds: synth.HelixBonds,
			SheetBonds: synth.SheetBonds,
		},
		Bonds:           make([]types.Bond, 0, sum.Total),
		HistogramBefore: slotsDTO(synth.Analysis.Before),
	}
	if synth.Analysis.Filtered {
		out.HistogramAfter = slotsDTO(synth.Analysis.After)
	}
	for _, row := range synth.Table.Rows(false) {
		out.Bonds = append(out.Bonds, types.Bond{
			Donor:         r.atomDTO(row.Donor),
			Acceptor:      r.atomDTO(row.Acceptor),
			DistanceIdeal: row.Distance,
			Sigma:         row.Sigma,
			Slack:         row.Slack,
			Length:        row.Length,
			Keep:          row.Keep,
		})
	}
	for _, d := range synth.Diagnostics {
		out.Diagnostics = append(out.Diagnostics, types.Diagnostic{
			Kind:       string(d.Kind),
			Message:    d.Message,
			Selections: d.Selections,
			Counts:     d.Counts,
			Atoms:      d.Labels,
		})
	}
	for _, sk := range r.Skipped {
		out.Skipped = append(out.Skipped, sk.String())
	}
	return out
}

func (r *Result) atomDTO(i int) types.Atom {
	l := r.Model.AtomLabel(i)
	return types.Atom{
		Index:   i,
		Name:    l.Name,
		AltLoc:  l.AltLoc,
		ResName: l.ResName,
		ChainID: l.ChainID,
		ResSeq:  l.ResSeq,
		ICode:   l.ICode,
	}
}

func slotsDTO(h hbond.Histogram) []types.HistogramSlot {
	slots := h.Slots()
	out := make([]types.HistogramSlot, len(slots))
	for i, s := range slots {
		out[i] = types.HistogramSlot{Low: s.Low, High: s.High, Count: s.Count}
	}
	return out
}

// DTO converts c into its API representation.
func (c *ContentResult) DTO() *types.Content {
	return &types.Content{
		Name:    c.Name,
		IDCode:  c.IDCode,
		Amides:  c.Content.Amides,
		Alpha:   c.Content.Alpha,
		Beta:    c.Content.Beta,
		Helices: c.Content.Helices,
		Sheets:  c.Content.Sheets,
	}
}

// GroupsDTO renders the restraint groups of a loaded input.
func (in *Input) GroupsDTO(prefixScope string) *types.Groups {
	out := &types.Groups{
		Name:    in.Name,
		IDCode:  in.IDCode,
		Helices: len(in.Annotation.Helices),
		Sheets:  len(in.Annotation.Sheets),
		Text:    in.Annotation.RestraintGroups(prefixScope),
	}
	for _, sk := range in.Skipped {
		out.Skipped = append(out.Skipped, sk.String())
	}
	return out
}

// RequestFromDTO builds a service request from an API body.  Parameter
// overrides are laid over base.
func RequestFromDTO(in *types.Request, base hbond.Params) (*Request, error) {
	if strings.TrimSpace(in.PDB) == "" {
		return nil, errors.InvalidParam("pdb is required")
	}
	req := &Request{Name: in.Name, PDB: in.PDB, UseRecords: in.UseRecords}
	if req.Name == "" {
		req.Name = "request"
	}

	for _, h := range in.Helices {
		class, err := secstr.ParseHelixClass(h.Class)
		if err != nil {
			return nil, err
		}
		req.Annotation.Helices = append(req.Annotation.Helices, secstr.Helix{
			Selection: h.Selection, Class: class, Sigma: h.Sigma, Slack: h.Slack,
		})
	}
	for _, s := range in.Sheets {
		sheet := secstr.Sheet{FirstStrand: s.FirstStrand, Sigma: s.Sigma, Slack: s.Slack}
		for _, st := range s.Strands {
			sense, err := secstr.ParseSense(st.Sense)
			if err != nil {
				return nil, err
			}
			sheet.Strands = append(sheet.Strands, secstr.Strand{
				Selection:         st.Selection,
				Sense:             sense,
				BondStartCurrent:  st.BondStartCurrent,
				BondStartPrevious: st.BondStartPrevious,
			})
		}
		req.Annotation.Sheets = append(req.Annotation.Sheets, sheet)
	}

	if in.Params != nil {
		p := applyParams(base, in.Params)
		req.Params = &p
	}
	return req, nil
}

func applyParams(p hbond.Params, o *types.Params) hbond.Params {
	setBool := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	setBool(&p.RestrainHelices, o.RestrainHelices)
	setBool(&p.RestrainSheets, o.RestrainSheets)
	setBool(&p.AlphaOnly, o.AlphaOnly)
	setBool(&p.RemoveOutliers, o.RemoveOutliers)
	setBool(&p.Verbose, o.Verbose)
	if o.SubstituteHeavyForHydrogen != nil {
		p.SubstituteHeavy = hbond.Bool(*o.SubstituteHeavyForHydrogen)
	}
	if o.Sigma != nil {
		p.Sigma = hbond.Float(*o.Sigma)
	}
	if o.Slack != nil {
		p.Slack = hbond.Float(*o.Slack)
	}
	return p
}

// RenderString is Render into a string.
func RenderString(res *Result, format string, filter bool) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, res, format, filter); err != nil {
		return "", err
	}
	return buf.String(), nil
}
