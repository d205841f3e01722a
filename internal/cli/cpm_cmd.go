package cli

import (
	"fmt"

	"github.com/alexanderramin/plancore/internal/app"
	"github.com/alexanderramin/plancore/internal/cli/formatter"
	"github.com/alexanderramin/plancore/internal/scheduler"
	"github.com/spf13/cobra"
)

func newCPMCmd(a *App) *cobra.Command {
	var mode string
	var check bool

	cmd := &cobra.Command{
		Use:   "cpm PROJECT",
		Short: "Compute the critical path of a project",
		Long: `Runs the critical path method over the project's tasks and dependencies.

With --check only the dependency graph integrity is reported; a cycle is a
finding, not a failure.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := a.Projects.Resolve(ctx, a.OrgID, args[0])
			if err != nil {
				return err
			}

			req := app.NewCriticalPathRequest(a.OrgID, projectID)
			req.Mode = scheduler.ScheduleMode(mode)
			result, err := a.Schedule.ComputeCriticalPath(ctx, req)
			if err != nil {
				return err
			}
			titles, err := taskTitles(ctx, a, projectID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if check {
				fmt.Fprint(out, formatter.FormatGraphFindings(result, titles))
				return nil
			}
			fmt.Fprint(out, formatter.FormatCriticalPath(result, titles))
			if result.HasCycle() {
				return fmt.Errorf("computing critical path: %w", scheduler.ErrCycleDetected)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(scheduler.ModePlanned), "date source: planned|actual")
	cmd.Flags().BoolVar(&check, "check", false, "only report dependency graph integrity findings")
	return cmd
}
