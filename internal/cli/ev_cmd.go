package cli

import (
	"fmt"

	"github.com/alexanderramin/plancore/internal/app"
	"github.com/alexanderramin/plancore/internal/cli/formatter"
	"github.com/alexanderramin/plancore/internal/domain"
	"github.com/spf13/cobra"
)

func newEVCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ev",
		Short: "Earned value metrics",
	}
	cmd.AddCommand(
		newEVComputeCmd(a, "compute", "Compute earned value without storing it", false),
		newEVComputeCmd(a, "snapshot", "Compute earned value and store it as the day's snapshot", true),
		newEVHistoryCmd(a),
	)
	return cmd
}

func newEVComputeCmd(a *App, use, short string, store bool) *cobra.Command {
	var baselineID string
	cmd := &cobra.Command{
		Use:   use + " PROJECT",
		Short: short,
		Args:  cobra.ExactArgs(1),
	}
	asOf := timeVar(cmd.Flags(), "as-of", "evaluation instant (default now)")
	cmd.Flags().StringVar(&baselineID, "baseline", "", "baseline id (default: the active baseline)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		projectID, err := a.Projects.Resolve(ctx, a.OrgID, args[0])
		if err != nil {
			return err
		}
		req := app.EarnedValueRequest{
			OrganizationID: a.OrgID,
			ProjectID:      projectID,
			AsOf:           a.now(),
			BaselineID:     baselineID,
			ActorID:        a.ActorID,
		}
		if t := asOf.Value(); t != nil {
			req.AsOf = *t
		}
		var snap *domain.EarnedValueSnapshot
		if store {
			snap, err = a.EarnedValue.CreateEarnedValueSnapshot(ctx, req)
		} else {
			snap, err = a.EarnedValue.ComputeEarnedValue(ctx, req)
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatEarnedValue(snap))
		return nil
	}
	return cmd
}

func newEVHistoryCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history PROJECT",
		Short: "List stored earned value snapshots",
		Args:  cobra.ExactArgs(1),
	}
	from := timeVar(cmd.Flags(), "from", "first day to include")
	to := timeVar(cmd.Flags(), "to", "last day to include")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		projectID, err := a.Projects.Resolve(ctx, a.OrgID, args[0])
		if err != nil {
			return err
		}
		snaps, err := a.EarnedValue.GetEarnedValueHistory(ctx, a.OrgID, projectID, from.Value(), to.Value())
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEarnedValueHistory(snaps))
		return nil
	}
	return cmd
}
