package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/plancore/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Inspect imported projects",
	}
	cmd.AddCommand(
		newProjectListCmd(app),
		newProjectTasksCmd(app),
	)
	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.List(cmd.Context(), app.OrgID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectList(projects))
			return nil
		},
	}
}

func newProjectTasksCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tasks PROJECT",
		Short: "List a project's tasks with ids and versions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := app.Projects.Resolve(ctx, app.OrgID, args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.GetByID(ctx, app.OrgID, projectID)
			if err != nil {
				return err
			}
			tasks, err := app.Projects.ListTasks(ctx, app.OrgID, projectID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTaskList(p, tasks))
			return nil
		},
	}
}

// taskTitles maps every task id of a project to its title.
func taskTitles(ctx context.Context, app *App, projectID string) (map[string]string, error) {
	tasks, err := app.Projects.ListTasks(ctx, app.OrgID, projectID)
	if err != nil {
		return nil, err
	}
	titles := make(map[string]string, len(tasks))
	for _, t := range tasks {
		titles[t.ID] = t.Title
	}
	return titles, nil
}
