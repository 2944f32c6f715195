package shell

import "os"

// State is the interpreter's process wide mutable state.
//
// The working directory isn't cached, every read goes to the OS so it can't
// drift from what child processes inherit.
type State struct {
	exitRequested bool
}

// NewState creates a State for the current process.
func NewState() *State {
	return &State{}
}

// Getwd returns the OS working directory.
func (s *State) Getwd() (string, error) {
	return os.Getwd()
}

// Chdir changes the OS working directory. Processes already started keep
// the directory they were spawned with.
func (s *State) Chdir(dir string) error {
	return os.Chdir(dir)
}

// RequestExit asks the owner of the state to stop.
func (s *State) RequestExit() {
	s.exitRequested = true
}

// ExitRequested reports whether exit was called.
func (s *State) ExitRequested() bool {
	return s.exitRequested
}
