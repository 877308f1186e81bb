package hbond

import (
	"fmt"

	"github.com/turtacn/hbond-restraints/internal/domain/secstr"
	"github.com/turtacn/hbond-restraints/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/hbond-restraints/pkg/errors"
)

// HydrogenDetector is implemented by models that know whether they carry
// hydrogen or deuterium atoms.
type HydrogenDetector interface {
	HasHydrogens() bool
}

// Analysis is the outcome of the outlier pass over a table.
type Analysis struct {
	Before   Histogram `json:"before"`
	After    Histogram `json:"after"`
	Filtered bool      `json:"filtered"`
	Excluded []int     `json:"excluded,omitempty"`
}

// Result is everything one synthesis run produces.
type Result struct {
	Params      Params       `json:"-"`
	Table       *Table       `json:"-"`
	Analysis    Analysis     `json:"analysis"`
	Diagnostics []Diagnostic `json:"diagnostics"`

	// HelixBonds and SheetBonds split the table rows by element type.
	// Helix rows come first.
	HelixBonds int `json:"helix_bonds"`
	SheetBonds int `json:"sheet_bonds"`
}

// Summary counts the rows of the result table.
func (r *Result) Summary() Summary { return r.Table.Summary() }

// Synthesizer turns annotated elements into a bond table.  It holds no
// per-run state and is safe for concurrent use.
type Synthesizer struct {
	params Params
	logger logging.Logger
}

// NewSynthesizer returns a Synthesizer for params.  A nil logger discards
// output.
func NewSynthesizer(params Params, logger logging.Logger) *Synthesizer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Synthesizer{params: params, logger: logger}
}

// Params returns the options the Synthesizer was built with.
func (s *Synthesizer) Params() Params { return s.params }

// ParamsFor resolves the options for model m: an undecided SubstituteHeavy
// follows the model's hydrogen content when m can report it.
func (s *Synthesizer) ParamsFor(m Model) Params {
	p := s.params
	if p.SubstituteHeavy != nil {
		return p
	}
	if hd, ok := m.(HydrogenDetector); ok {
		return p.ResolveSubstitute(hd.HasHydrogens())
	}
	return p.ResolveSubstitute(true)
}

// Synthesize enumerates helix bonds, then sheet bonds, in declared order,
// measures them against m and runs the outlier pass.  Fatal conditions
// return an *errors.AppError; recoverable ones are recorded in
// Result.Diagnostics.  Identical inputs give identical tables.
func (s *Synthesizer) Synthesize(m Model, ann secstr.Annotation) (*Result, error) {
	p := s.ParamsFor(m)
	r := newRun(p, m, s.logger)
	if err := r.enumerate(ann); err != nil {
		return nil, err
	}

	table := NewTable(r.bonds, m)
	s.logger.Info("hydrogen bonds defined",
		logging.Int("bonds", table.Len()),
		logging.String("donor", p.DonorName()))

	analysis, diags := Analyze(table, p, r.labels)
	for _, d := range diags {
		r.report(d)
	}
	if analysis.Filtered {
		s.logger.Info("after filtering",
			logging.Int("kept", table.Summary().Kept),
			logging.Float64("max_distance", p.MaxDistance()))
	}
	return &Result{
		Params:      p,
		Table:       table,
		Analysis:    analysis,
		Diagnostics: r.diags,
		HelixBonds:  r.helixBonds,
		SheetBonds:  table.Len() - r.helixBonds,
	}, nil
}

// Analyze bins the bond lengths, flags outliers when p.RemoveOutliers is
// set and bins the kept lengths again.  With p.Verbose every excluded row
// yields a diagnostic naming both atoms.
func Analyze(t *Table, p Params, labels Labels) (Analysis, []Diagnostic) {
	a := Analysis{Before: NewHistogram(t.Lengths, HistogramSlots)}
	var diags []Diagnostic
	if p.RemoveOutliers {
		a.Filtered = true
		a.Excluded = t.FlagOutliers(p.MaxDistance())
		if p.Verbose {
			for _, k := range a.Excluded {
				b := t.Bonds[k]
				d := Diagnostic{
					Kind:    KindOutlier,
					Message: fmt.Sprintf("Excluding H-bond with length %.3fA", t.Lengths[k]),
					Atoms:   []int{b.Donor, b.Acceptor},
				}
				if labels != nil {
					d.Labels = []string{labels.AtomLabel(b.Donor).IDString(), labels.AtomLabel(b.Acceptor).IDString()}
				}
				diags = append(diags, d)
			}
		}
	}
	a.After = NewHistogram(t.KeptLengths(), HistogramSlots)
	return a, diags
}

// pair is a donor-acceptor candidate before weights are attached.
type pair struct {
	donor, acceptor int
}

// run is the state of one synthesis call.  used is the has-bond set: it is
// threaded through every element so no atom is bonded twice.
type run struct {
	params   Params
	model    Model
	labels   Labels
	logger   logging.Logger
	sentinel int
	used     []bool
	bonds    []Bond
	diags    []Diagnostic

	helixBonds int
}

func newRun(p Params, m Model, logger logging.Logger) *run {
	r := &run{
		params:   p,
		model:    m,
		logger:   logger,
		sentinel: Sentinel(m.NumAtoms()),
		used:     make([]bool, m.NumAtoms()+1),
	}
	if l, ok := m.(Labels); ok {
		r.labels = l
	}
	return r
}

func (r *run) enumerate(ann secstr.Annotation) error {
	if r.params.RestrainHelices {
		for i, h := range ann.Helices {
			if err := r.helix(h); err != nil {
				return errors.Wrap(err, errors.CodeUnknown, fmt.Sprintf("helix #%d", i))
			}
		}
	}
	r.helixBonds = len(r.bonds)
	if r.params.RestrainSheets {
		for i, sh := range ann.Sheets {
			if err := r.sheet(i, sh); err != nil {
				return errors.Wrap(err, errors.CodeUnknown, fmt.Sprintf("sheet #%d", i))
			}
		}
	}
	return nil
}

func (r *run) isProline(i int) bool { return isProline(r.model, i) }

// weights resolves sigma and slack: element override, else global default.
func (r *run) weights(sigma, slack *float64, what string) (float64, float64, error) {
	if sigma == nil {
		sigma = r.params.Sigma
	}
	if sigma == nil {
		return 0, 0, errors.New(errors.CodeMissingRestraintWeight,
			"please either set the global sigma for hydrogen bond restraints, or set the sigma for "+what)
	}
	if slack == nil {
		slack = r.params.Slack
	}
	if slack == nil {
		return 0, 0, errors.New(errors.CodeMissingRestraintWeight,
			"please either set the global slack for hydrogen bond restraints, or set the slack for "+what)
	}
	return *sigma, *slack, nil
}

// addAll appends pairs that touch no already-bonded atom and claims their
// atoms.  Rejected pairs are reported against selection.
func (r *run) addAll(pairs []pair, sigma, slack float64, selection string) {
	ideal := r.params.IdealDistance()
	for _, p := range pairs {
		if r.used[p.donor] || r.used[p.acceptor] {
			r.report(Diagnostic{
				Kind:       KindDuplicateAtom,
				Message:    "One or more atoms already bonded",
				Selections: []string{selection},
				Atoms:      []int{p.donor, p.acceptor},
				Labels:     r.labelsFor(p.donor, p.acceptor),
			})
			continue
		}
		r.used[p.donor] = true
		r.used[p.acceptor] = true
		r.bonds = append(r.bonds, Bond{
			Donor:    p.donor,
			Acceptor: p.acceptor,
			Distance: ideal,
			Sigma:    sigma,
			Slack:    slack,
		})
	}
}

func (r *run) labelsFor(atoms ...int) []string {
	if r.labels == nil {
		return nil
	}
	out := make([]string, len(atoms))
	for k, a := range atoms {
		out[k] = r.labels.AtomLabel(a).IDString()
	}
	return out
}

func (r *run) report(d Diagnostic) {
	r.diags = append(r.diags, d)
	fields := []logging.Field{logging.String(logging.FieldKind, string(d.Kind))}
	if len(d.Selections) > 0 {
		fields = append(fields, logging.Strings(logging.FieldSelections, d.Selections))
	}
	if len(d.Counts) > 0 {
		fields = append(fields, logging.Ints(logging.FieldCounts, d.Counts))
	}
	if len(d.Labels) > 0 {
		fields = append(fields, logging.Strings("atoms", d.Labels))
	}
	if d.Kind == KindOutlier {
		r.logger.Debug(d.Message, fields...)
		return
	}
	r.logger.Warn(d.Message, fields...)
}
