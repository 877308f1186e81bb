package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/hbond-restraints/internal/domain/hbond"
	"github.com/turtacn/hbond-restraints/pkg/errors"
)

// paramFlags are the synthesis overrides shared by restraints and batch.
type paramFlags struct {
	alphaOnly    bool
	noHelices    bool
	noSheets     bool
	keepOutliers bool
	verbose      bool
	sigma        float64
	slack        float64
	heavy        string
}

func (f *paramFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.BoolVar(&f.alphaOnly, "alpha-only", false, "treat every helix as alpha")
	fs.BoolVar(&f.noHelices, "no-helices", false, "skip helix bonds")
	fs.BoolVar(&f.noSheets, "no-sheets", false, "skip sheet bonds")
	fs.BoolVar(&f.keepOutliers, "keep-outliers", false, "do not flag bonds longer than the cutoff")
	fs.BoolVar(&f.verbose, "verbose", false, "report each outlier and alignment problem")
	fs.Float64Var(&f.sigma, "sigma", hbond.DefaultSigma, "global restraint sigma")
	fs.Float64Var(&f.slack, "slack", hbond.DefaultSlack, "global restraint slack")
	fs.StringVar(&f.heavy, "substitute-heavy", "auto", "use N as donor: auto, yes or no")
}

// apply lays the flags the user set over base.  It returns nil when no
// flag was given so the configured parameters stay in charge.
func (f *paramFlags) apply(cmd *cobra.Command, base hbond.Params) (*hbond.Params, error) {
	fs := cmd.Flags()
	changed := false
	set := func(name string, fn func()) {
		if fs.Changed(name) {
			fn()
			changed = true
		}
	}

	p := base
	set("alpha-only", func() { p.AlphaOnly = f.alphaOnly })
	set("no-helices", func() { p.RestrainHelices = !f.noHelices })
	set("no-sheets", func() { p.RestrainSheets = !f.noSheets })
	set("keep-outliers", func() { p.RemoveOutliers = !f.keepOutliers })
	set("verbose", func() { p.Verbose = f.verbose })
	set("sigma", func() { p.Sigma = hbond.Float(f.sigma) })
	set("slack", func() { p.Slack = hbond.Float(f.slack) })

	var heavyErr error
	set("substitute-heavy", func() { p.SubstituteHeavy, heavyErr = parseTristate(f.heavy) })
	if heavyErr != nil {
		return nil, heavyErr
	}

	if !changed {
		return nil, nil
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// parseTristate maps auto/yes/no to nil/true/false.
func parseTristate(s string) (*bool, error) {
	switch strings.ToLower(s) {
	case "auto", "":
		return nil, nil
	case "yes", "true", "on":
		return hbond.Bool(true), nil
	case "no", "false", "off":
		return hbond.Bool(false), nil
	}
	return nil, errors.Newf(errors.CodeInvalidParam, "invalid value %q for --substitute-heavy", s).
		WithDetail("expected auto, yes or no")
}
