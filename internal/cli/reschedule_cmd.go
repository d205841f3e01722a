package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/plancore/internal/app"
	"github.com/alexanderramin/plancore/internal/cli/formatter"
	"github.com/alexanderramin/plancore/internal/domain"
	"github.com/spf13/cobra"
)

func newRescheduleCmd(a *App) *cobra.Command {
	var (
		percent         int
		milestone       bool
		constraint      string
		cascade         string
		expectedVersion int
		yes             bool
	)

	cmd := &cobra.Command{
		Use:   "reschedule TASK",
		Short: "Change a task's dates or progress, checking its successors",
		Long: `Applies the given changes to one task in a single transaction.

If a direct successor would start before its dependency allows, the change is
refused unless --cascade forward is given, in which case those successors are
shifted forward by the shortfall. On a terminal the shift is confirmed first
unless --yes is given.`,
		Args: cobra.ExactArgs(1),
	}
	flags := cmd.Flags()
	start := timeVar(flags, "start", "new planned start")
	end := timeVar(flags, "end", "new planned end")
	actualStart := timeVar(flags, "actual-start", "actual start")
	actualEnd := timeVar(flags, "actual-end", "actual end")
	constraintDate := timeVar(flags, "constraint-date", "constraint date")
	flags.IntVar(&percent, "percent", 0, "percent complete (0-100)")
	flags.BoolVar(&milestone, "milestone", false, "mark or unmark the task as a milestone")
	flags.StringVar(&constraint, "constraint", "", "constraint type: none|must_start_on|must_finish_on|as_soon_as_possible")
	flags.StringVar(&cascade, "cascade", string(domain.CascadeNone), "successor handling: none|forward")
	flags.IntVar(&expectedVersion, "expected-version", 0, "fail with a conflict unless the task is at this version")
	flags.BoolVarP(&yes, "yes", "y", false, "cascade without asking for confirmation")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		req := app.NewRescheduleRequest(a.OrgID, args[0])
		req.ActorID = a.ActorID
		req.Cascade = domain.CascadeMode(cascade)
		req.ExpectedVersion = expectedVersion
		req.Changes = app.TaskChanges{
			PlannedStart:   start.Value(),
			PlannedEnd:     end.Value(),
			ActualStart:    actualStart.Value(),
			ActualEnd:      actualEnd.Value(),
			ConstraintDate: constraintDate.Value(),
		}
		if flags.Changed("percent") {
			req.Changes.PercentComplete = &percent
		}
		if flags.Changed("milestone") {
			req.Changes.IsMilestone = &milestone
		}
		if flags.Changed("constraint") {
			ct := domain.ConstraintType(constraint)
			req.Changes.ConstraintType = &ct
		}

		if req.Cascade == domain.CascadeForward && a.Confirm != nil && !yes {
			res, err := confirmCascade(cmd, a, req)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRescheduleResult(res))
			return nil
		}

		res, err := a.Reschedule.ApplyReschedule(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRescheduleResult(res))
		return nil
	}
	return cmd
}

// confirmCascade first applies req without cascading. When that is blocked by
// successor violations it asks before retrying with the forward cascade; a
// declined prompt returns the original violation error and writes nothing.
func confirmCascade(cmd *cobra.Command, a *App, req app.RescheduleRequest) (*app.RescheduleResult, error) {
	plain := req
	plain.Cascade = domain.CascadeNone
	res, err := a.Reschedule.ApplyReschedule(cmd.Context(), plain)
	var blocked *domain.DependencyViolationError
	if !errors.As(err, &blocked) {
		return res, err
	}

	successors := make(map[string]bool)
	for _, v := range blocked.Violations {
		successors[v.SuccessorID] = true
	}
	ok, cerr := a.Confirm(
		fmt.Sprintf("Shift %d successor(s) forward?", len(successors)),
		fmt.Sprintf("%d dependency violation(s) would otherwise block this change.", len(blocked.Violations)),
	)
	if cerr != nil {
		return nil, fmt.Errorf("confirming cascade: %w", cerr)
	}
	if !ok {
		return nil, err
	}
	return a.Reschedule.ApplyReschedule(cmd.Context(), req)
}
