package shell

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"time"

	"github.com/josephlewis42/pipesh/core/logger"
	"github.com/josephlewis42/pipesh/core/reexec"
)

// StatusSpawnFailure is the status recorded when a stage can't be started.
const StatusSpawnFailure = 127

// Shell is the interactive read-eval loop.
type Shell struct {
	State    *State
	Executor *Executor
	Lines    LineReader
	Events   *logger.Logger
	Errors   *ErrorPrinter
	// Log receives internal diagnostics such as event log write failures.
	Log *log.Logger

	lastStatus int
}

// Options configures a new Shell.
type Options struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Lines defaults to an unbuffered reader over Stdin.
	Lines  LineReader
	Events *logger.Logger
	Color  string
	Bridge *reexec.Bridge
	Log    *log.Logger
}

// New creates a Shell that runs pipelines against the given streams.
func New(opts Options) *Shell {
	state := NewState()

	lines := opts.Lines
	if lines == nil {
		lines = NewByteLineReader(opts.Stdin)
	}

	events := opts.Events
	if events == nil {
		events = logger.NewNopLogger()
	}

	diag := opts.Log
	if diag == nil {
		diag = log.New(io.Discard, "", 0)
	}

	return &Shell{
		State: state,
		Executor: &Executor{
			Stdin:  opts.Stdin,
			Stdout: opts.Stdout,
			Stderr: opts.Stderr,
			State:  state,
			Bridge: opts.Bridge,
		},
		Lines:  lines,
		Events: events,
		Errors: NewErrorPrinter(opts.Stderr, opts.Color),
		Log:    diag,
	}
}

// LastStatus returns the status of the most recent pipeline.
func (s *Shell) LastStatus() int {
	return s.lastStatus
}

// Run reads and executes lines until input ends or exit is called. It only
// returns an error if the interpreter can no longer run builtins.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := s.Lines.Readline()
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}

		if _, err := s.RunLine(ctx, line); err != nil {
			return err
		}

		if s.State.ExitRequested() {
			return nil
		}
	}
}

// RunLine parses and executes a single line, waiting for every process it
// started. Invalid input and programs that can't be started are reported on
// stderr and only affect the status. The returned error is fatal.
func (s *Shell) RunLine(ctx context.Context, line string) (int, error) {
	pipeline, err := Parse(line)
	switch {
	case errors.Is(err, ErrEmptyLine):
		return s.lastStatus, nil
	case err != nil:
		s.Errors.Error(err)
		s.record(s.Events.InvalidInput(line, err))
		s.lastStatus = StatusUsage
		return s.lastStatus, nil
	}

	start := time.Now()
	result, err := s.Executor.Run(ctx, pipeline)
	if err != nil {
		s.Errors.Error(err)

		var spawnErr *SpawnError
		if errors.As(err, &spawnErr) {
			s.record(s.Events.SpawnFailure(line, spawnErr.Name, spawnErr.Err))
		}

		if errors.Is(err, reexec.ErrSelfExec) {
			s.lastStatus = StatusFailure
			return s.lastStatus, err
		}

		s.lastStatus = StatusSpawnFailure
		return s.lastStatus, nil
	}

	s.lastStatus = result.Status
	s.record(s.Events.RunPipeline(line, pipeline.Names(), result.Status, result.InProcess, time.Since(start)))
	return s.lastStatus, nil
}

func (s *Shell) record(err error) {
	if err != nil {
		s.Log.Printf("couldn't record event: %v", err)
	}
}

// JoinWords rebuilds a line from separate command line words.
func JoinWords(words []string) string {
	return strings.Join(words, " ")
}
