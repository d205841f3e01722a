package cli

import (
	"fmt"

	"github.com/alexanderramin/plancore/internal/app"
	"github.com/alexanderramin/plancore/internal/cli/formatter"
	"github.com/alexanderramin/plancore/internal/importer"
	"github.com/spf13/cobra"
)

func newLevelCmd(a *App) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "level PROJECT",
		Short: "Recommend task shifts for overallocated days",
		Long: `Reads overallocated (user, day) entries from a YAML file and proposes one
task shift per entry. Nothing is modified; apply a recommendation with
"plancore reschedule".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := a.Projects.Resolve(ctx, a.OrgID, args[0])
			if err != nil {
				return err
			}
			entries, err := importer.LoadOverallocations(file)
			if err != nil {
				return err
			}
			recs, err := a.Leveling.RecommendLeveling(ctx, app.LevelingRequest{
				OrganizationID: a.OrgID,
				ProjectID:      projectID,
				Entries:        entries,
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatLevelingRecommendations(recs))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "overallocation YAML file (required)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
