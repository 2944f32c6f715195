package shell

import (
	"fmt"
	"io"
	"strings"
)

// Exit statuses returned by builtins.
const (
	StatusSuccess = 0
	StatusFailure = 1
	StatusUsage   = 2
)

// ExecContext holds the streams and state a builtin runs against. The same
// builtin code runs in-process, with the interpreter's own stdio, and in a
// re-executed child, with whatever stdio the OS handed the child.
type ExecContext struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	State  *State
}

// RunBuiltin runs the builtin of the given kind and returns its exit status.
func RunBuiltin(kind BuiltinKind, ec ExecContext, args []string) int {
	switch kind {
	case Echo:
		return EchoBuiltin(ec, args)
	case ChangeDirectory:
		return CdBuiltin(ec, args)
	case Exit:
		return ExitBuiltin(ec, args)
	default:
		fmt.Fprintf(ec.Stderr, "pipesh: unknown builtin: %s\n", kind)
		return StatusUsage
	}
}

// EchoBuiltin writes its arguments joined without separators, then a newline.
func EchoBuiltin(ec ExecContext, args []string) int {
	fmt.Fprintln(ec.Stdout, strings.Join(args, ""))
	return StatusSuccess
}

// CdBuiltin changes the working directory to its single argument.
func CdBuiltin(ec ExecContext, args []string) int {
	switch len(args) {
	case 0:
		fmt.Fprintln(ec.Stderr, "cd: usage: cd DIRECTORY")
		return StatusUsage
	case 1:
		// handled below
	default:
		fmt.Fprintln(ec.Stderr, "cd: too many arguments")
		return StatusUsage
	}

	if err := ec.State.Chdir(args[0]); err != nil {
		fmt.Fprintf(ec.Stderr, "cd: %v\n", err)
		return StatusFailure
	}

	resolved, err := ec.State.Getwd()
	if err != nil {
		// The change happened, only the confirmation can't be resolved.
		resolved = args[0]
	}
	fmt.Fprintf(ec.Stdout, "Changed directory to %s\n", resolved)
	return StatusSuccess
}

// ExitBuiltin flags the state for exit. It never writes output; whoever owns
// the state decides what exiting means.
func ExitBuiltin(ec ExecContext, args []string) int {
	ec.State.RequestExit()
	return StatusSuccess
}

// RunBuiltinProcess is the entry point of a re-executed child. It runs the
// named builtin against the given stdio, normally the child's own, and
// returns the status the process should exit with.
func RunBuiltinProcess(name string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	ec := ExecContext{
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
		State:  NewState(),
	}

	kind, ok := ParseBuiltinKind(name)
	if !ok {
		fmt.Fprintf(ec.Stderr, "pipesh: unknown builtin: %s\n", name)
		return StatusUsage
	}

	return RunBuiltin(kind, ec, args)
}
