package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"

	"github.com/josephlewis42/pipesh/core/reexec"
)

// SpawnError is returned when a stage's process can't be created.
type SpawnError struct {
	// Stage is the zero based index of the stage that failed.
	Stage int
	// Name is the command name of the stage.
	Name string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// Result describes a finished pipeline.
type Result struct {
	// Status is the exit status of the terminal stage.
	Status int
	// InProcess is true if a lone builtin ran inside the interpreter.
	InProcess bool
	// Processes is the number of child processes created.
	Processes int
}

// Executor runs pipelines.
//
// A pipeline consisting of a single builtin runs in-process against the
// executor's streams. Every other stage gets its own process: external
// programs directly, builtins through the re-exec bridge. Adjacent processes
// are connected with OS pipes and stderr is always shared. A Stderr that
// isn't an *os.File is fed from a single pipe so it sees one writer.
//
// If a stage can't be started, the processes already started for the
// pipeline are killed and reaped before Run returns.
type Executor struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	State  *State
	Bridge *reexec.Bridge
}

func (e *Executor) execContext() ExecContext {
	return ExecContext{
		Stdin:  e.Stdin,
		Stdout: e.Stdout,
		Stderr: e.Stderr,
		State:  e.State,
	}
}

// Run executes the pipeline and waits for every process it started.
func (e *Executor) Run(ctx context.Context, p Pipeline) (Result, error) {
	if len(p) == 0 {
		return Result{}, ErrEmptyLine
	}

	if p.IsSingleBuiltin() {
		kind, _ := p[0].Kind.Builtin()
		status := RunBuiltin(kind, e.execContext(), p[0].Args)
		return Result{Status: status, InProcess: true}, nil
	}

	stderr, drain, err := e.sharedStderr()
	if err != nil {
		return Result{}, &SpawnError{Stage: 0, Name: p[0].Kind.Name(), Err: err}
	}
	defer drain()

	chain, err := e.start(ctx, p, stderr)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Status:    chain.wait(),
		Processes: len(chain),
	}, nil
}

// sharedStderr returns the stderr handed to every stage. drain must be
// called once all stages have been started or reaped; it waits until
// everything written by the children has been copied.
func (e *Executor) sharedStderr() (stderr io.Writer, drain func(), err error) {
	switch w := e.Stderr.(type) {
	case nil:
		return nil, func() {}, nil
	case *os.File:
		return w, func() {}, nil
	}

	r, w, err := os.Pipe()
	if err != nil {
		return nil, nil, fmt.Errorf("create stderr pipe: %w", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = io.Copy(e.Stderr, r)
		_ = r.Close()
	}()

	return w, func() {
		_ = w.Close()
		<-done
	}, nil
}

func (e *Executor) command(ctx context.Context, stage PipelineStage) (*exec.Cmd, error) {
	if kind, ok := stage.Kind.Builtin(); ok {
		return e.Bridge.CommandContext(ctx, kind.String(), stage.Args)
	}

	return exec.CommandContext(ctx, stage.Kind.Program(), stage.Args...), nil
}

// start spawns every stage, left to right. The read end of each pipe moves to
// the next stage and the parent's copies are closed once that stage has
// started so EOF propagates when the writer exits.
func (e *Executor) start(ctx context.Context, p Pipeline, stderr io.Writer) (processChain, error) {
	var (
		chain processChain
		prev  *os.File
	)

	fail := func(stage int, err error) (processChain, error) {
		closeFile(prev)
		chain.abort()
		return nil, &SpawnError{Stage: stage, Name: p[stage].Kind.Name(), Err: err}
	}

	for i, stage := range p {
		hasNext := i < len(p)-1

		cmd, err := e.command(ctx, stage)
		if err != nil {
			return fail(i, err)
		}

		if prev != nil {
			cmd.Stdin = prev
		} else {
			cmd.Stdin = e.Stdin
		}
		cmd.Stderr = stderr

		var next, pipeWriter *os.File
		if hasNext {
			next, pipeWriter, err = os.Pipe()
			if err != nil {
				return fail(i, fmt.Errorf("create pipe: %w", err))
			}
			cmd.Stdout = pipeWriter
		} else {
			cmd.Stdout = e.Stdout
		}

		startErr := cmd.Start()
		closeFile(pipeWriter)
		closeFile(prev)
		prev = next

		if startErr != nil {
			if stage.Kind.IsBuiltin() {
				startErr = fmt.Errorf("%w: %v", reexec.ErrSelfExec, startErr)
			} else {
				startErr = unwrapExecError(startErr)
			}
			return fail(i, startErr)
		}

		chain = append(chain, cmd)
	}

	return chain, nil
}

// processChain holds started processes in pipeline order.
type processChain []*exec.Cmd

// wait reaps every process and returns the terminal stage's status.
func (c processChain) wait() int {
	status := StatusSuccess
	for i, cmd := range c {
		err := cmd.Wait()
		if i == len(c)-1 {
			status = exitStatus(cmd, err)
		}
	}
	return status
}

// abort kills and reaps every started process.
func (c processChain) abort() {
	for _, cmd := range c {
		_ = cmd.Process.Kill()
	}
	for _, cmd := range c {
		_ = cmd.Wait()
	}
}

func exitStatus(cmd *exec.Cmd, err error) int {
	state := cmd.ProcessState
	if state == nil {
		return StatusFailure
	}

	if code := state.ExitCode(); code >= 0 {
		return code
	}

	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}

	if err != nil {
		return StatusFailure
	}
	return StatusSuccess
}

// unwrapExecError drops exec's "exec: name:" prefix since SpawnError already
// names the stage.
func unwrapExecError(err error) error {
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return execErr.Err
	}
	return err
}

func closeFile(f *os.File) {
	if f != nil {
		_ = f.Close()
	}
}
