package cli

import (
	"errors"

	"github.com/alexanderramin/plancore/internal/domain"
	"github.com/alexanderramin/plancore/internal/repository"
)

// Process exit codes by error category.
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitInvalid   = 2
	ExitNotFound  = 3
	ExitConflict  = 4
	ExitForbidden = 5
)

type coded interface {
	Code() domain.ErrorCode
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, repository.ErrNotFound) {
		return ExitNotFound
	}
	var c coded
	if !errors.As(err, &c) {
		return ExitFailure
	}
	switch c.Code() {
	case domain.CodeValidation:
		return ExitInvalid
	case domain.CodeConflict:
		return ExitConflict
	case domain.CodeBaselineLocked, domain.CodeDependencyViolation:
		return ExitForbidden
	default:
		return ExitInvalid
	}
}
