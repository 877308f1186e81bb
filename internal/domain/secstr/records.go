package secstr

import (
	"fmt"
	"strings"

	"github.com/turtacn/hbond-restraints/pkg/errors"
)

// ResidueID locates one residue by chain, sequence number and insertion
// code.
type ResidueID struct {
	ResName string `json:"resname"`
	ChainID string `json:"chain_id"`
	ResSeq  int    `json:"resseq"`
	ICode   string `json:"icode,omitempty"`
}

// Resid renders the sequence number with its insertion code, e.g. "52A".
func (r ResidueID) Resid() string {
	return fmt.Sprintf("%d%s", r.ResSeq, strings.TrimSpace(r.ICode))
}

// HelixRecord is one PDB HELIX record.
type HelixRecord struct {
	Serial  int       `json:"serial"`
	ID      string    `json:"id"`
	Start   ResidueID `json:"start"`
	End     ResidueID `json:"end"`
	Class   int       `json:"class"`
	Comment string    `json:"comment,omitempty"`
	Length  int       `json:"length"`
}

// Registration is the hydrogen-bond register between a strand and its
// predecessor, as carried in columns 42-70 of a PDB SHEET record.
type Registration struct {
	CurAtom  string    `json:"cur_atom"`
	Cur      ResidueID `json:"cur"`
	PrevAtom string    `json:"prev_atom"`
	Prev     ResidueID `json:"prev"`
}

// StrandRecord is one PDB SHEET record.  Registration is nil for the first
// strand of a sheet and for records that omit it.
type StrandRecord struct {
	StrandID     int           `json:"strand_id"`
	Start        ResidueID     `json:"start"`
	End          ResidueID     `json:"end"`
	Sense        int           `json:"sense"`
	Registration *Registration `json:"registration,omitempty"`
}

// SheetRecord groups the SHEET records sharing one sheet identifier.
type SheetRecord struct {
	ID         string         `json:"id"`
	NumStrands int            `json:"num_strands"`
	Strands    []StrandRecord `json:"strands"`
}

// Records holds the HELIX and SHEET records of one file in file order.
type Records struct {
	Helices []HelixRecord `json:"helices"`
	Sheets  []SheetRecord `json:"sheets"`
}

// Empty reports whether no HELIX or SHEET record was read.
func (r *Records) Empty() bool {
	return len(r.Helices) == 0 && len(r.Sheets) == 0
}

// AddStrand appends a SHEET record to the sheet with the given identifier,
// creating the sheet on first sight.
func (r *Records) AddStrand(sheetID string, numStrands int, strand StrandRecord) {
	for i := range r.Sheets {
		if r.Sheets[i].ID == sheetID {
			r.Sheets[i].Strands = append(r.Sheets[i].Strands, strand)
			return
		}
	}
	r.Sheets = append(r.Sheets, SheetRecord{
		ID:         sheetID,
		NumStrands: numStrands,
		Strands:    []StrandRecord{strand},
	})
}

// ConvertOptions controls how records become selections.
type ConvertOptions struct {
	// ResidueIDs selects ranges with "resid a through b", which honours
	// insertion codes, instead of "resseq a:b".
	ResidueIDs bool
}

// Skipped names a record that could not be converted into an element.
type Skipped struct {
	Record string
	Reason string
}

func (s Skipped) String() string { return s.Record + ": " + s.Reason }

func rangeSelection(start, end ResidueID, opts ConvertOptions) string {
	if opts.ResidueIDs {
		return fmt.Sprintf("chain '%s' and resid %s through %s", start.ChainID, start.Resid(), end.Resid())
	}
	return fmt.Sprintf("chain '%s' and resseq %d:%d", start.ChainID, start.ResSeq, end.ResSeq)
}

func residueSelection(r ResidueID, opts ConvertOptions) string {
	if opts.ResidueIDs {
		return fmt.Sprintf("chain '%s' and resid %s", r.ChainID, r.Resid())
	}
	return fmt.Sprintf("chain '%s' and resseq %d", r.ChainID, r.ResSeq)
}

// Annotation converts the records into restraint elements.  Helices whose
// start and end chains differ and sheets without strands are reported as
// skipped.  A sense code outside {-1, 0, 1} is an error.
func (r *Records) Annotation(opts ConvertOptions) (Annotation, []Skipped, error) {
	var (
		ann     Annotation
		skipped []Skipped
	)
	for _, h := range r.Helices {
		if h.Start.ChainID != h.End.ChainID {
			skipped = append(skipped, Skipped{
				Record: fmt.Sprintf("HELIX %d %s", h.Serial, strings.TrimSpace(h.ID)),
				Reason: fmt.Sprintf("helix chain ID mismatch: starts in %s, ends in %s", h.Start.ChainID, h.End.ChainID),
			})
			continue
		}
		ann.Helices = append(ann.Helices, Helix{
			Selection: rangeSelection(h.Start, h.End, opts),
			Class:     HelixClassFromPDB(h.Class),
		})
	}

	for _, sh := range r.Sheets {
		if len(sh.Strands) == 0 {
			skipped = append(skipped, Skipped{Record: "SHEET " + sh.ID, Reason: "sheet has no strands"})
			continue
		}
		sheet := Sheet{FirstStrand: rangeSelection(sh.Strands[0].Start, sh.Strands[0].End, opts)}
		for _, st := range sh.Strands[1:] {
			sense, err := SenseFromPDB(st.Sense)
			if err != nil {
				return Annotation{}, skipped, errors.Wrap(err, errors.CodeUnknown,
					fmt.Sprintf("SHEET %s strand %d", sh.ID, st.StrandID))
			}
			strand := Strand{
				Selection: rangeSelection(st.Start, st.End, opts),
				Sense:     sense,
			}
			if st.Registration != nil {
				strand.BondStartCurrent = residueSelection(st.Registration.Cur, opts)
				strand.BondStartPrevious = residueSelection(st.Registration.Prev, opts)
			}
			sheet.Strands = append(sheet.Strands, strand)
		}
		ann.Sheets = append(ann.Sheets, sheet)
	}
	return ann, skipped, nil
}
