package hbond

import (
	"github.com/turtacn/hbond-restraints/internal/domain/secstr"
	"github.com/turtacn/hbond-restraints/pkg/errors"
)

// Content is the fraction of backbone amide N atoms, in the primary
// conformation, covered by helices and by sheets.
type Content struct {
	Alpha   float64 `json:"alpha"`
	Beta    float64 `json:"beta"`
	Amides  int     `json:"amides"`
	Helices int     `json:"helices"`
	Sheets  int     `json:"sheets"`
}

// StructureContent measures how much of the model the annotation covers.
// A model without amide N atoms has zero content.
func StructureContent(sel Selector, ann secstr.Annotation) (Content, error) {
	c := Content{Helices: len(ann.Helices), Sheets: len(ann.Sheets)}

	all, err := sel.Select(AtomQuery("all", DonorNitrogen))
	if err != nil {
		return c, errors.Wrap(err, errors.CodeUnknown, "selecting amide nitrogens")
	}
	c.Amides = len(all)
	if c.Amides == 0 {
		return c, nil
	}

	var helixSels, sheetSels []string
	for _, h := range ann.Helices {
		if h.Selection != "" {
			helixSels = append(helixSels, h.Selection)
		}
	}
	for _, s := range ann.Sheets {
		for _, strand := range s.Selections() {
			if strand != "" {
				sheetSels = append(sheetSels, strand)
			}
		}
	}

	nAlpha, err := countUnion(sel, helixSels)
	if err != nil {
		return c, err
	}
	nBeta, err := countUnion(sel, sheetSels)
	if err != nil {
		return c, err
	}
	c.Alpha = float64(nAlpha) / float64(c.Amides)
	c.Beta = float64(nBeta) / float64(c.Amides)
	return c, nil
}

func countUnion(sel Selector, selections []string) (int, error) {
	seen := make(map[int]struct{})
	for _, s := range selections {
		idx, err := sel.Select(AtomQuery(s, DonorNitrogen))
		if err != nil {
			return 0, errors.Wrap(err, errors.CodeUnknown, "selecting "+s)
		}
		for _, i := range idx {
			seen[i] = struct{}{}
		}
	}
	return len(seen), nil
}
