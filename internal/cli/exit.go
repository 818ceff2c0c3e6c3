package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/trebuchet-org/trebcfg/internal/cli/render"
	"github.com/trebuchet-org/trebcfg/internal/domain"
)

// Exit codes
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitConfigError = 2
)

// ExitCode maps an error returned by a command to the process exit code.
// Configuration errors, including any joined into a failure report, exit 2.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case domain.KindOf(err) != "":
		return ExitConfigError
	default:
		return ExitFailure
	}
}

// ValidationFailedError reports that at least one network failed to resolve.
// The per-network errors have already been rendered.
type ValidationFailedError struct {
	Failed int
	Total  int
	Errs   []error
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("%d of %d networks failed validation", e.Failed, e.Total)
}

func (e *ValidationFailedError) Unwrap() []error {
	return e.Errs
}

// ReportError writes a failed command's error to w
func ReportError(w io.Writer, err error) {
	var failed *ValidationFailedError
	if errors.As(err, &failed) {
		fmt.Fprintln(w, render.FormatError(errors.New(failed.Error())))
		return
	}
	fmt.Fprintln(w, render.FormatError(err))
}
