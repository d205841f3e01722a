package cli

import (
	"time"

	"github.com/alexanderramin/plancore/internal/service"
	"github.com/spf13/cobra"
)

// App holds the services used by CLI commands and the identity they act as.
type App struct {
	Projects    service.ProjectService
	Schedule    service.ScheduleService
	Baselines   service.BaselineService
	EarnedValue service.EarnedValueService
	Leveling    service.LevelingService
	Reschedule  service.RescheduleService
	Import      service.ImportService

	OrgID   string
	ActorID string

	// Now supplies the default as-of instant. Nil means time.Now.
	Now func() time.Time

	// Confirm gates forward cascades. Nil applies them without asking.
	Confirm ConfirmFunc
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// NewRootCmd creates the top-level "plancore" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "plancore",
		Short:         "Critical path, baselines, earned value and leveling for project schedules",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&app.OrgID, "org", app.OrgID, "organization id")
	root.PersistentFlags().StringVar(&app.ActorID, "actor", app.ActorID, "actor recorded in the audit log")

	root.AddCommand(
		newImportCmd(app),
		newProjectCmd(app),
		newCPMCmd(app),
		newBaselineCmd(app),
		newEVCmd(app),
		newLevelCmd(app),
		newRescheduleCmd(app),
	)
	return root
}
