package shell

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Colour modes.
const (
	ColorAlways = "always"
	ColorAuto   = "auto"
	ColorNever  = "never"
)

// ColorModes lists the accepted colour modes.
var ColorModes = []string{ColorAlways, ColorAuto, ColorNever}

// ErrorPrinter writes user facing errors prefixed with the interpreter name.
type ErrorPrinter struct {
	W    io.Writer
	Mode string
	// IsTerminal decides the auto mode, defaults to checking W.
	IsTerminal func() bool
}

// NewErrorPrinter creates a printer for w using the colour mode.
func NewErrorPrinter(w io.Writer, mode string) *ErrorPrinter {
	return &ErrorPrinter{W: w, Mode: mode}
}

// ShouldColor reports whether output gets colour codes.
func (p *ErrorPrinter) ShouldColor() bool {
	switch {
	case p.Mode == ColorNever:
		return false
	case p.Mode == ColorAlways:
		return true
	case p.IsTerminal != nil:
		return p.IsTerminal()
	default:
		return IsTerminal(p.W)
	}
}

// Printf writes one prefixed line.
func (p *ErrorPrinter) Printf(format string, a ...interface{}) {
	prefix := "pipesh:"
	if p.ShouldColor() {
		// The package level NoColor only looks at stdout.
		c := color.New(color.FgRed, color.Bold)
		c.EnableColor()
		prefix = c.Sprint(prefix)
	}
	fmt.Fprintf(p.W, "%s %s\n", prefix, fmt.Sprintf(format, a...))
}

// Error writes err as a prefixed line.
func (p *ErrorPrinter) Error(err error) {
	p.Printf("%v", err)
}
