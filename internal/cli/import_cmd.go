package cli

import (
	"fmt"

	"github.com/alexanderramin/plancore/internal/cli/formatter"
	"github.com/alexanderramin/plancore/internal/service"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	var allowCycles bool
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a project, its tasks and dependencies from a YAML file",
		Long: `Imports a project graph in one transaction. Dependency cycles are rejected
unless --allow-cycles is given; a cyclic project can then be inspected with
"plancore cpm PROJECT --check".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []service.ImportOption
			if allowCycles {
				opts = append(opts, service.AllowCycles())
			}
			result, err := app.Import.ImportProject(cmd.Context(), args[0], app.OrgID, app.ActorID, opts...)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatImportResult(result))
			return nil
		},
	}
	cmd.Flags().BoolVar(&allowCycles, "allow-cycles", false, "store cyclic dependencies instead of rejecting the file")
	return cmd
}
