package repository

import (
	"errors"
	"strings"

	"github.com/alexanderramin/plancore/internal/db"
	"github.com/alexanderramin/plancore/internal/domain"
)

// ErrNotFound is wrapped by every lookup that matches no row.
var ErrNotFound = errors.New("not found")

// lockedFromTrigger converts a baseline immutability trigger abort into a
// *domain.LockedError. Other errors pass through unchanged.
func lockedFromTrigger(err error, baselineID string) error {
	if err == nil || !strings.Contains(err.Error(), db.LockedMarker) {
		return err
	}
	return &domain.LockedError{EntityID: baselineID, Message: "baseline " + baselineID + " is locked and cannot be modified"}
}
