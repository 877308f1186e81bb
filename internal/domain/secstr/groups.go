package secstr

import (
	"fmt"
	"strings"
)

// RestraintGroups renders the annotation as helix and sheet parameter
// blocks, one block per element.  A non-empty prefixScope is prepended to
// every top-level block name.
func (a Annotation) RestraintGroups(prefixScope string) string {
	if prefixScope != "" && !strings.HasSuffix(prefixScope, ".") {
		prefixScope += "."
	}
	var blocks []string
	for _, h := range a.Helices {
		blocks = append(blocks, helixGroup(h, prefixScope))
	}
	for _, s := range a.Sheets {
		blocks = append(blocks, sheetGroup(s, prefixScope))
	}
	return strings.Join(blocks, "\n")
}

func helixGroup(h Helix, prefix string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%shelix {\n", prefix)
	fmt.Fprintf(&sb, "  selection = %q\n", h.Selection)
	fmt.Fprintf(&sb, "  helix_class = %s\n", h.Class)
	writeWeights(&sb, "  ", h.Sigma, h.Slack)
	sb.WriteString("}")
	return sb.String()
}

func sheetGroup(s Sheet, prefix string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%ssheet {\n", prefix)
	fmt.Fprintf(&sb, "  first_strand = %q\n", s.FirstStrand)
	for _, st := range s.Strands {
		sb.WriteString("  strand {\n")
		fmt.Fprintf(&sb, "    selection = %q\n", st.Selection)
		fmt.Fprintf(&sb, "    sense = %s\n", st.Sense)
		if st.BondStartCurrent != "" {
			fmt.Fprintf(&sb, "    bond_start_current = %q\n", st.BondStartCurrent)
		}
		if st.BondStartPrevious != "" {
			fmt.Fprintf(&sb, "    bond_start_previous = %q\n", st.BondStartPrevious)
		}
		sb.WriteString("  }\n")
	}
	writeWeights(&sb, "  ", s.Sigma, s.Slack)
	sb.WriteString("}")
	return sb.String()
}

func writeWeights(sb *strings.Builder, indent string, sigma, slack *float64) {
	if sigma != nil {
		fmt.Fprintf(sb, "%srestraint_sigma = %g\n", indent, *sigma)
	}
	if slack != nil {
		fmt.Fprintf(sb, "%srestraint_slack = %g\n", indent, *slack)
	}
}
