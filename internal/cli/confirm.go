package cli

import (
	"errors"

	"github.com/charmbracelet/huh"
)

// ConfirmFunc asks the user a yes/no question. Returning false cancels the
// pending action.
type ConfirmFunc func(title, description string) (bool, error)

// TerminalConfirm prompts on the controlling terminal. An aborted prompt
// (ctrl+c, esc) counts as a no.
func TerminalConfirm(title, description string) (bool, error) {
	ok := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Shift").
				Negative("Cancel").
				Value(&ok),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}
