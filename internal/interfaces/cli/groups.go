package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/hbond-restraints/internal/application/restraints"
	types "github.com/turtacn/hbond-restraints/pkg/types/restraints"
)

// DefaultGroupsPrefix scopes the blocks printed by groups.
const DefaultGroupsPrefix = "refinement.secondary_structure"

func newGroupsCmd() *cobra.Command {
	var prefix string

	cmd := &cobra.Command{
		Use:   "groups <model.pdb>",
		Short: "Print the secondary structure of a model as restraint groups",
		Long: "Prints one helix block per helix and one sheet block per sheet, taken from\n" +
			"the HELIX/SHEET records and the configured elements, in the parameter\n" +
			"syntax refinement programs read.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			in, err := cliCtx.Service.Load(cmd.Context(), &restraints.Request{Path: args[0]})
			if err != nil {
				return err
			}
			return PrintResult(cmd, (*groupsView)(in.GroupsDTO(prefix)))
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", DefaultGroupsPrefix, "scope of the printed blocks; empty for none")
	return cmd
}

// groupsView prints the group text in text mode and a summary row in
// table mode.
type groupsView types.Groups

func (g *groupsView) String() string {
	return g.Text + "\n"
}

func (g *groupsView) TableHeaders() []string {
	return []string{"NAME", "HELICES", "SHEETS", "SKIPPED"}
}

func (g *groupsView) TableRows() [][]string {
	return [][]string{{
		g.Name,
		strconv.Itoa(g.Helices),
		strconv.Itoa(g.Sheets),
		strings.Join(g.Skipped, "; "),
	}}
}
