package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/turtacn/hbond-restraints/internal/application/restraints"
	"github.com/turtacn/hbond-restraints/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/hbond-restraints/pkg/errors"
	types "github.com/turtacn/hbond-restraints/pkg/types/restraints"
)

// Batch row status values.
const (
	batchStatusOK    = "ok"
	batchStatusError = "error"
)

// formatExt is the file extension for each restraint format.
var formatExt = map[string]string{
	types.FormatPhenix: ".eff",
	types.FormatPyMOL:  ".pml",
	types.FormatREFMAC: ".txt",
}

type batchOptions struct {
	format string
	filter bool
	outDir string
	params paramFlags
}

func newBatchCmd() *cobra.Command {
	opts := &batchOptions{}

	cmd := &cobra.Command{
		Use:   "batch <model.pdb>...",
		Short: "Generate restraints for many structures concurrently",
		Long: "Runs every structure through the synthesis, batch.concurrency at a time,\n" +
			"and prints one summary row per structure.  With --out-dir the restraint\n" +
			"text of each successful run is written next to the others.  A failing\n" +
			"structure does not stop the rest; the command exits non-zero if any failed.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", types.FormatPhenix, "restraint format for --out-dir files (phenix, pymol, refmac)")
	cmd.Flags().BoolVar(&opts.filter, "filter", true, "leave outliers out of restraint text")
	cmd.Flags().StringVar(&opts.outDir, "out-dir", "", "directory for per-structure restraint files")
	opts.params.register(cmd)
	return cmd
}

func runBatch(cmd *cobra.Command, paths []string, opts *batchOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	if err := restraints.CheckFormat(opts.format); err != nil {
		return err
	}
	format := strings.ToLower(opts.format)
	params, err := opts.params.apply(cmd, cliCtx.Service.Params())
	if err != nil {
		return err
	}
	if opts.outDir != "" {
		if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
			return errors.Wrap(err, errors.CodeInternal, "creating output directory").WithDetail(opts.outDir)
		}
	}

	reqs := make([]*restraints.Request, len(paths))
	for i, p := range paths {
		reqs[i] = &restraints.Request{Path: p, Params: params}
	}
	results, runErr := cliCtx.Service.Batch(cmd.Context(), reqs)

	// failures come back in request order
	failures := multierr.Errors(runErr)
	report := make(batchReport, 0, len(paths))
	for i, res := range results {
		row := batchRow{Name: paths[i]}
		if res == nil {
			row.Status = batchStatusError
			if len(failures) > 0 {
				row.Error = failures[0].Error()
				failures = failures[1:]
			}
			report = append(report, row)
			continue
		}

		sum := res.DTO().Summary
		row.Status = batchStatusOK
		row.Summary = &sum
		if opts.outDir != "" {
			out, err := writeRestraintFile(opts.outDir, paths[i], res, format, opts.filter)
			if err != nil {
				row.Status = batchStatusError
				row.Error = err.Error()
				runErr = multierr.Append(runErr, err)
			}
			row.Output = out
		}
		report = append(report, row)
	}

	if err := PrintResult(cmd, report); err != nil {
		return err
	}
	if runErr != nil {
		n := len(multierr.Errors(runErr))
		cliCtx.Logger.Error("batch incomplete", logging.Int("failed", n), logging.Int("total", len(paths)))
		return errors.Wrap(runErr, errors.CodeUnknown, fmt.Sprintf("%d of %d structures failed", n, len(paths)))
	}
	return nil
}

// writeRestraintFile renders res into outDir, named after the input file.
func writeRestraintFile(outDir, input string, res *restraints.Result, format string, filter bool) (string, error) {
	base := strings.TrimSuffix(filepath.Base(input), ".gz")
	base = strings.TrimSuffix(base, filepath.Ext(base))
	out := filepath.Join(outDir, base+formatExt[format])

	if err := writeOutput(out, func(w io.Writer) error {
		return restraints.Render(w, res, format, filter)
	}); err != nil {
		return "", err
	}
	return out, nil
}

type batchRow struct {
	Name    string         `json:"name" yaml:"name"`
	Status  string         `json:"status" yaml:"status"`
	Summary *types.Summary `json:"summary,omitempty" yaml:"summary,omitempty"`
	Output  string         `json:"output,omitempty" yaml:"output,omitempty"`
	Error   string         `json:"error,omitempty" yaml:"error,omitempty"`
}

type batchReport []batchRow

func (r batchReport) String() string {
	return FormatTable(r.TableHeaders(), r.TableRows())
}

func (r batchReport) TableHeaders() []string {
	return []string{"NAME", "STATUS", "BONDS", "KEPT", "HELIX", "SHEET", "OUTPUT"}
}

func (r batchReport) TableRows() [][]string {
	rows := make([][]string, 0, len(r))
	for _, row := range r {
		if row.Summary == nil {
			rows = append(rows, []string{row.Name, row.Status, "-", "-", "-", "-", row.Error})
			continue
		}
		rows = append(rows, []string{
			row.Name,
			row.Status,
			strconv.Itoa(row.Summary.Total),
			strconv.Itoa(row.Summary.Kept),
			strconv.Itoa(row.Summary.HelixBonds),
			strconv.Itoa(row.Summary.SheetBonds),
			row.Output,
		})
	}
	return rows
}
