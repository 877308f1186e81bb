package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/hbond-restraints/internal/application/restraints"
	types "github.com/turtacn/hbond-restraints/pkg/types/restraints"
)

func newContentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "content <model.pdb>...",
		Short: "Report the alpha and beta content of structures",
		Long: "Counts the amide nitrogens of each structure and the share of them inside\n" +
			"helices and sheets.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			report := make(contentReport, 0, len(args))
			for _, path := range args {
				c, err := cliCtx.Service.Content(cmd.Context(), &restraints.Request{Path: path})
				if err != nil {
					return err
				}
				report = append(report, c.DTO())
			}
			return PrintResult(cmd, report)
		},
	}
}

type contentReport []*types.Content

func (r contentReport) String() string {
	var sb strings.Builder
	for _, c := range r {
		fmt.Fprintf(&sb, "%s: alpha %.3f beta %.3f (%d amides, %d helices, %d sheets)\n",
			c.Name, c.Alpha, c.Beta, c.Amides, c.Helices, c.Sheets)
	}
	return sb.String()
}

func (r contentReport) TableHeaders() []string {
	return []string{"NAME", "AMIDES", "ALPHA", "BETA", "HELICES", "SHEETS"}
}

func (r contentReport) TableRows() [][]string {
	rows := make([][]string, 0, len(r))
	for _, c := range r {
		rows = append(rows, []string{
			c.Name,
			strconv.Itoa(c.Amides),
			fmt.Sprintf("%.3f", c.Alpha),
			fmt.Sprintf("%.3f", c.Beta),
			strconv.Itoa(c.Helices),
			strconv.Itoa(c.Sheets),
		})
	}
	return rows
}
