package cli

import (
	"fmt"

	"github.com/alexanderramin/plancore/internal/app"
	"github.com/alexanderramin/plancore/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newBaselineCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Capture, activate and compare schedule baselines",
	}
	cmd.AddCommand(
		newBaselineCreateCmd(a),
		newBaselineActivateCmd(a),
		newBaselineCompareCmd(a),
		newBaselineListCmd(a),
		newBaselineShowCmd(a),
		newBaselineDeleteCmd(a),
	)
	return cmd
}

func newBaselineCreateCmd(a *App) *cobra.Command {
	var name string
	var activate bool

	cmd := &cobra.Command{
		Use:   "create PROJECT",
		Short: "Capture the current planned schedule as a locked baseline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := a.Projects.Resolve(ctx, a.OrgID, args[0])
			if err != nil {
				return err
			}
			b, err := a.Baselines.CreateBaseline(ctx, app.CreateBaselineRequest{
				OrganizationID: a.OrgID,
				ProjectID:      projectID,
				Name:           name,
				ActorID:        a.ActorID,
				Activate:       activate,
			})
			if err != nil {
				return err
			}
			titles, err := taskTitles(ctx, a, projectID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBaseline(b, titles))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "baseline name (required)")
	cmd.Flags().BoolVar(&activate, "activate", false, "make this the project's active baseline")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newBaselineActivateCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "activate BASELINE",
		Short: "Make a baseline the project's active one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.Baselines.ActivateBaseline(cmd.Context(), a.OrgID, args[0], a.ActorID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Activated baseline %s [%s]\n", formatter.Bold(b.Name), b.ID)
			return nil
		},
	}
}

func newBaselineCompareCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "compare BASELINE",
		Short: "Show how the live schedule drifted from a baseline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := a.Baselines.CompareBaseline(cmd.Context(), a.OrgID, args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatVarianceReport(report))
			return nil
		},
	}
}

func newBaselineListCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list PROJECT",
		Short: "List a project's baselines, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := a.Projects.Resolve(ctx, a.OrgID, args[0])
			if err != nil {
				return err
			}
			baselines, err := a.Baselines.ListBaselines(ctx, a.OrgID, projectID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBaselineList(baselines))
			return nil
		},
	}
}

func newBaselineShowCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show BASELINE",
		Short: "Show a baseline and its captured items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			b, err := a.Baselines.GetBaseline(ctx, a.OrgID, args[0])
			if err != nil {
				return err
			}
			titles, err := taskTitles(ctx, a, b.ProjectID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBaseline(b, titles))
			return nil
		},
	}
}

func newBaselineDeleteCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete BASELINE",
		Short: "Delete a baseline (locked baselines are refused)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Baselines.DeleteBaseline(cmd.Context(), a.OrgID, args[0])
		},
	}
}
