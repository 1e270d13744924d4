package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/idilsaglam/podote/internal/store"
	"github.com/idilsaglam/podote/internal/ui"
)

// Exit codes: 0 ok, 1 error, 2 usage.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// usageError marks errors caused by how the command was invoked.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

// Run executes the command line and returns an exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return ExitOK
	}
	code := ExitCode(err)
	if msg := err.Error(); msg != "" {
		ui.Fail(stderr, msg)
	}
	if errors.Is(err, store.ErrIndexOutOfRange) {
		ui.Hint(stderr, "Hint: run `podote ls` to see valid indexes")
	}
	return code
}

// ExitCode maps an error returned by a command to the process exit code.
func ExitCode(err error) int {
	var ue usageError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &ue),
		errors.Is(err, store.ErrIndexOutOfRange),
		errors.Is(err, store.ErrNotFound):
		return ExitUsage
	}
	return ExitFailure
}

// parseIndex turns a 1-based index argument into a 0-based position in a
// list of n items.
func parseIndex(cmd, arg string, n int) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, usagef("%s: not a number: %s", cmd, arg)
	}
	if i < 1 || i > n {
		return 0, indexError{have: n, got: i}
	}
	return i - 1, nil
}

// indexError reports a 1-based index outside the list.
type indexError struct{ have, got int }

func (e indexError) Error() string {
	return fmt.Sprintf("index out of range: have %d, got %d", e.have, e.got)
}

func (e indexError) Unwrap() error { return store.ErrIndexOutOfRange }
