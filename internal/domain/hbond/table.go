package hbond

import "math"

// Bond is one restrained donor-acceptor pair.
type Bond struct {
	Donor    int     `json:"donor"`
	Acceptor int     `json:"acceptor"`
	Distance float64 `json:"distance_ideal"`
	Sigma    float64 `json:"sigma"`
	Slack    float64 `json:"slack"`
}

// Row is a bond together with its measured length and outlier flag.
type Row struct {
	Bond
	Length float64 `json:"length"`
	Keep   bool    `json:"keep"`
}

// Summary counts the rows of a table.
type Summary struct {
	Total    int `json:"total"`
	Kept     int `json:"kept"`
	Excluded int `json:"excluded"`
}

// Table is the ordered bond set of one run.  Bonds, Lengths and Keep are
// parallel; flagging never removes a row.
type Table struct {
	Bonds   []Bond
	Lengths []float64
	Keep    []bool
}

// Distance is the Euclidean distance between two positions.
func Distance(a, b [3]float64) float64 {
	dx, dy, dz := b[0]-a[0], b[1]-a[1], b[2]-a[2]
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// NewTable measures every bond against coords.  All rows start kept.
func NewTable(bonds []Bond, coords Coordinates) *Table {
	t := &Table{
		Bonds:   bonds,
		Lengths: make([]float64, len(bonds)),
		Keep:    make([]bool, len(bonds)),
	}
	for k, b := range bonds {
		t.Lengths[k] = Distance(coords.Position(b.Donor), coords.Position(b.Acceptor))
		t.Keep[k] = true
	}
	return t
}

// Len is the number of rows, kept or not.
func (t *Table) Len() int { return len(t.Bonds) }

// FlagOutliers marks every row longer than cutoff as excluded and returns the
// newly flagged row positions.
func (t *Table) FlagOutliers(cutoff float64) []int {
	var flagged []int
	for k, l := range t.Lengths {
		if l > cutoff && t.Keep[k] {
			t.Keep[k] = false
			flagged = append(flagged, k)
		}
	}
	return flagged
}

// Rows returns the table rows in order.  With filter set only kept rows are
// returned.
func (t *Table) Rows(filter bool) []Row {
	out := make([]Row, 0, len(t.Bonds))
	for k, b := range t.Bonds {
		if filter && !t.Keep[k] {
			continue
		}
		out = append(out, Row{Bond: b, Length: t.Lengths[k], Keep: t.Keep[k]})
	}
	return out
}

// Kept returns the bonds that survived filtering, in order.
func (t *Table) Kept() []Bond {
	out := make([]Bond, 0, len(t.Bonds))
	for k, b := range t.Bonds {
		if t.Keep[k] {
			out = append(out, b)
		}
	}
	return out
}

// KeptLengths returns the measured lengths of the kept rows.
func (t *Table) KeptLengths() []float64 {
	out := make([]float64, 0, len(t.Lengths))
	for k, l := range t.Lengths {
		if t.Keep[k] {
			out = append(out, l)
		}
	}
	return out
}

// Summary counts total, kept and excluded rows.
func (t *Table) Summary() Summary {
	s := Summary{Total: len(t.Bonds)}
	for _, keep := range t.Keep {
		if keep {
			s.Kept++
		}
	}
	s.Excluded = s.Total - s.Kept
	return s
}
