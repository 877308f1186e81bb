package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/hbond-restraints/internal/application/restraints"
	"github.com/turtacn/hbond-restraints/internal/domain/hbond"
	"github.com/turtacn/hbond-restraints/pkg/errors"
	types "github.com/turtacn/hbond-restraints/pkg/types/restraints"
)

type restraintsOptions struct {
	format     string
	filter     bool
	histograms bool
	out        string
	params     paramFlags
}

func newRestraintsCmd() *cobra.Command {
	opts := &restraintsOptions{}

	cmd := &cobra.Command{
		Use:   "restraints <model.pdb>",
		Short: "Generate hydrogen-bond restraints for one structure",
		Long: "Reads a PDB file (optionally gzip compressed), restrains the helices and\n" +
			"sheets of its HELIX/SHEET records and configured elements, and writes the\n" +
			"bonds as phenix, pymol or refmac text.  With --format json, yaml or table\n" +
			"the full result is printed instead.",
		Example: `  hbondgen restraints model.pdb
  hbondgen restraints model.pdb --format pymol > bonds.pml
  hbondgen restraints model.pdb --format table --filter=false --histograms`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRestraints(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "phenix, pymol, refmac, json, yaml or table (default phenix)")
	cmd.Flags().BoolVar(&opts.filter, "filter", true, "leave outliers out of restraint text")
	cmd.Flags().BoolVar(&opts.histograms, "histograms", false, "print bond length histograms to stderr")
	cmd.Flags().StringVar(&opts.out, "out", "", "write restraint text to this file instead of stdout")
	opts.params.register(cmd)
	return cmd
}

// resolveFormat picks the --format value, falling back to --output for the
// structured formats and to phenix otherwise.
func resolveFormat(format, output string) string {
	if format != "" {
		return format
	}
	if output != OutputText {
		return output
	}
	return types.FormatPhenix
}

func isStructured(format string) bool {
	switch format {
	case OutputJSON, OutputYAML, OutputTable:
		return true
	}
	return false
}

func runRestraints(cmd *cobra.Command, path string, opts *restraintsOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}

	format := resolveFormat(opts.format, cliCtx.OutputFormat)
	if !isStructured(format) {
		if err := restraints.CheckFormat(format); err != nil {
			return err
		}
	}

	params, err := opts.params.apply(cmd, cliCtx.Service.Params())
	if err != nil {
		return err
	}

	res, err := cliCtx.Service.Run(cmd.Context(), &restraints.Request{Path: path, Params: params})
	if err != nil {
		return err
	}

	if opts.histograms {
		if err := showHistograms(cmd.ErrOrStderr(), res.Synthesis); err != nil {
			return err
		}
	}

	if isStructured(format) {
		if format == OutputTable {
			return printAs(cmd, format, bondTable{res: res})
		}
		return printAs(cmd, format, res.DTO())
	}

	render := func(w io.Writer) error { return restraints.Render(w, res, format, opts.filter) }
	if opts.out != "" {
		return writeOutput(opts.out, render)
	}
	return render(cmd.OutOrStdout())
}

// writeOutput renders into the file at path through a buffer.  Flush and
// close failures are returned.
func writeOutput(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "creating output file").WithDetail(path)
	}
	bw := bufio.NewWriter(f)
	if err := render(bw); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return errors.Wrap(err, errors.CodeInternal, "writing output file").WithDetail(path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "writing output file").WithDetail(path)
	}
	return nil
}

// showHistograms writes the bond length distribution before and, when
// outliers were removed, after filtering.
func showHistograms(w io.Writer, synth *hbond.Result) error {
	a := synth.Analysis
	fmt.Fprintf(w, "Bond length distribution (%d bonds):\n", a.Before.N())
	if err := a.Before.Show(w, "  ", "%.4f"); err != nil {
		return err
	}
	if !a.Filtered {
		return nil
	}
	fmt.Fprintf(w, "Bond length distribution after filtering (%d bonds):\n", a.After.N())
	return a.After.Show(w, "  ", "%.4f")
}

// bondTable renders every bond of a result, outliers included.
type bondTable struct {
	res *restraints.Result
}

func (t bondTable) TableHeaders() []string {
	return []string{"#", "DONOR", "ACCEPTOR", "IDEAL", "SIGMA", "SLACK", "LENGTH", "KEEP"}
}

func (t bondTable) TableRows() [][]string {
	rows := t.res.Synthesis.Table.Rows(false)
	out := make([][]string, 0, len(rows))
	for i, r := range rows {
		out = append(out, []string{
			strconv.Itoa(i + 1),
			t.res.Model.AtomLabel(r.Donor).IDString(),
			t.res.Model.AtomLabel(r.Acceptor).IDString(),
			fmt.Sprintf("%.3f", r.Distance),
			fmt.Sprintf("%.3f", r.Sigma),
			fmt.Sprintf("%.3f", r.Slack),
			fmt.Sprintf("%.3f", r.Length),
			strconv.FormatBool(r.Keep),
		})
	}
	return out
}
