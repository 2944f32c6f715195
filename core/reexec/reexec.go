// Package reexec lets a builtin run as its own process by launching the
// interpreter's executable again with a private flag.
//
// The child sees:
//
//	<self> --run-builtin NAME ARG...
//
// and must call Parse before any other flag handling so builtin arguments
// that look like flags are passed through untouched.
package reexec

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// Flag marks an invocation as a single, non-interactive builtin run.
const Flag = "--run-builtin"

// ErrSelfExec is returned when the interpreter can't find or start its own
// executable.
var ErrSelfExec = errors.New("can't re-invoke interpreter executable")

// Bridge builds commands that re-invoke the current executable.
type Bridge struct {
	// Executable locates the binary to re-run, os.Executable if nil.
	Executable func() (string, error)
}

// Path returns the executable the bridge launches.
func (b *Bridge) Path() (string, error) {
	locate := os.Executable
	if b != nil && b.Executable != nil {
		locate = b.Executable
	}

	path, err := locate()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSelfExec, err)
	}
	if path == "" {
		return "", fmt.Errorf("%w: empty executable path", ErrSelfExec)
	}
	return path, nil
}

// Command returns an unstarted command that runs the named builtin with args.
// Callers wire its stdio like any other process.
func (b *Bridge) Command(name string, args []string) (*exec.Cmd, error) {
	return b.CommandContext(context.Background(), name, args)
}

// CommandContext is like Command but the process is killed if ctx is done
// before it exits.
func (b *Bridge) CommandContext(ctx context.Context, name string, args []string) (*exec.Cmd, error) {
	path, err := b.Path()
	if err != nil {
		return nil, err
	}

	return exec.CommandContext(ctx, path, Args(name, args)...), nil
}

// Args returns the argument list, without argv[0], for running a builtin.
func Args(name string, args []string) []string {
	out := make([]string, 0, len(args)+2)
	out = append(out, Flag, name)
	return append(out, args...)
}

// Parse checks argv (without the program name) for the protocol. If ok is
// true the process should run only the returned builtin and exit.
func Parse(argv []string) (name string, args []string, ok bool) {
	if len(argv) == 0 || argv[0] != Flag {
		return "", nil, false
	}

	if len(argv) == 1 {
		return "", nil, true
	}

	return argv[1], argv[2:], true
}
