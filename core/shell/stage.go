package shell

import "fmt"

// BuiltinKind identifies a command implemented by the interpreter itself.
type BuiltinKind int

const (
	Echo BuiltinKind = iota
	ChangeDirectory
	Exit
)

// AllBuiltins lists every builtin kind in declaration order.
var AllBuiltins = []BuiltinKind{Echo, ChangeDirectory, Exit}

// String returns the name the builtin is invoked by.
func (k BuiltinKind) String() string {
	switch k {
	case Echo:
		return "echo"
	case ChangeDirectory:
		return "cd"
	case Exit:
		return "exit"
	default:
		return fmt.Sprintf("builtin(%d)", int(k))
	}
}

// ParseBuiltinKind returns the builtin invoked by name. Matching is exact and
// case sensitive.
func ParseBuiltinKind(name string) (BuiltinKind, bool) {
	switch name {
	case "echo":
		return Echo, true
	case "cd":
		return ChangeDirectory, true
	case "exit":
		return Exit, true
	default:
		return 0, false
	}
}

// StageKind is either a builtin or an external program.
type StageKind struct {
	builtin   BuiltinKind
	isBuiltin bool
	program   string
}

// BuiltinStage creates a StageKind for the given builtin.
func BuiltinStage(kind BuiltinKind) StageKind {
	return StageKind{builtin: kind, isBuiltin: true}
}

// ExternalStage creates a StageKind for an executable that will be resolved
// when the process is created.
func ExternalStage(program string) StageKind {
	return StageKind{program: program}
}

// Classify maps the first token of a stage to its kind.
func Classify(token string) StageKind {
	if kind, ok := ParseBuiltinKind(token); ok {
		return BuiltinStage(kind)
	}
	return ExternalStage(token)
}

// Builtin returns the builtin kind and true if the stage is a builtin.
func (s StageKind) Builtin() (BuiltinKind, bool) {
	return s.builtin, s.isBuiltin
}

// IsBuiltin is true for builtin stages.
func (s StageKind) IsBuiltin() bool {
	return s.isBuiltin
}

// Program is the external program name, empty for builtins.
func (s StageKind) Program() string {
	return s.program
}

// Name returns the token the stage was classified from.
func (s StageKind) Name() string {
	if s.isBuiltin {
		return s.builtin.String()
	}
	return s.program
}

func (s StageKind) String() string {
	if s.isBuiltin {
		return "builtin:" + s.builtin.String()
	}
	return "external:" + s.program
}

// PipelineStage is one pipe delimited segment of a line.
type PipelineStage struct {
	Kind StageKind
	Args []string
}

// Pipeline holds stages in left to right order.
type Pipeline []PipelineStage

// Names returns the command name of each stage.
func (p Pipeline) Names() []string {
	out := make([]string, 0, len(p))
	for _, stage := range p {
		out = append(out, stage.Kind.Name())
	}
	return out
}

// IsSingleBuiltin is true when the pipeline is one builtin with no
// neighbours, the only case run inside the interpreter's own process.
func (p Pipeline) IsSingleBuiltin() bool {
	return len(p) == 1 && p[0].Kind.IsBuiltin()
}
