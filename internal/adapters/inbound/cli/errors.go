package cli

import (
	"errors"

	"github.com/charmpack/charmpack/internal/application"
	"github.com/charmpack/charmpack/internal/domain"
)

// Exit codes returned by the charmpack binary.
const (
	ExitOK        = 0
	ExitError     = 1
	ExitUserError = 2
	ExitConflict  = 3
)

// reportedError marks an error whose problems were already printed, so
// Execute does not print it a second time.
type reportedError struct {
	code int
	err  error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	return &reportedError{code: classify(err), err: err}
}

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var re *reportedError
	if errors.As(err, &re) {
		return re.code
	}
	return classify(err)
}

func classify(err error) int {
	var (
		conflict *domain.ConflictError
		schema   *domain.SchemaError
		profile  *domain.UnknownProfileError
		secret   *domain.InvalidSecretReferenceError
		oversize *domain.OversizeError
	)
	switch {
	case errors.As(err, &conflict):
		return ExitConflict
	case errors.As(err, &schema),
		errors.As(err, &profile),
		errors.As(err, &secret),
		errors.As(err, &oversize),
		errors.Is(err, application.ErrDescriptorExists):
		return ExitUserError
	default:
		return ExitError
	}
}

// isProblem reports whether err carries descriptor problems worth a
// rendered report rather than a one-line message.
func isProblem(err error) bool {
	if errors.Is(err, application.ErrDescriptorExists) {
		return false
	}
	return classify(err) != ExitError
}
