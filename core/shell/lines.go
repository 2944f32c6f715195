package shell

import (
	"bytes"
	"io"
	"os"

	"github.com/abiosoft/readline"
	"golang.org/x/term"
)

// LineReader supplies input lines without their trailing newline. It returns
// io.EOF once input is exhausted.
type LineReader interface {
	Readline() (string, error)
}

// ByteLineReader reads one byte at a time so nothing past the current line
// is consumed. Children that inherit the same stdin see the remaining input.
type ByteLineReader struct {
	r   io.Reader
	buf bytes.Buffer
}

var _ LineReader = (*ByteLineReader)(nil)

// NewByteLineReader creates a reader over r.
func NewByteLineReader(r io.Reader) *ByteLineReader {
	return &ByteLineReader{r: r}
}

// Readline implements LineReader.
func (b *ByteLineReader) Readline() (string, error) {
	b.buf.Reset()
	var c [1]byte
	for {
		n, err := b.r.Read(c[:])
		if n == 1 {
			if c[0] == '\n' {
				return trimCR(b.buf.String()), nil
			}
			b.buf.WriteByte(c[0])
		}

		switch {
		case err == io.EOF && b.buf.Len() > 0:
			// Final line without a newline.
			return trimCR(b.buf.String()), nil
		case err != nil:
			return "", err
		}
	}
}

func trimCR(s string) string {
	if n := len(s); n > 0 && s[n-1] == '\r' {
		return s[:n-1]
	}
	return s
}

// ReadlineReader is an interactive LineReader with editing and history.
type ReadlineReader struct {
	rl     *readline.Instance
	prompt func() string
}

var _ LineReader = (*ReadlineReader)(nil)

// NewReadlineReader creates an interactive reader on the terminal. prompt is
// evaluated before every line.
func NewReadlineReader(stdout, stderr io.Writer, historyFile string, prompt func() string) (*ReadlineReader, error) {
	cfg := &readline.Config{
		Stdout:      stdout,
		Stderr:      stderr,
		HistoryFile: historyFile,
	}

	if err := cfg.Init(); err != nil {
		return nil, err
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, err
	}

	return &ReadlineReader{rl: rl, prompt: prompt}, nil
}

// Readline implements LineReader. An interrupt discards the current line.
func (r *ReadlineReader) Readline() (string, error) {
	if r.prompt != nil {
		r.rl.SetPrompt(r.prompt())
	}

	line, err := r.rl.Readline()
	switch {
	case err == readline.ErrInterrupt:
		return "", nil
	case err != nil:
		return "", err
	default:
		return line, nil
	}
}

// Close releases the terminal.
func (r *ReadlineReader) Close() error {
	return r.rl.Close()
}

// IsTerminal reports whether v is an *os.File attached to a terminal.
func IsTerminal(v interface{}) bool {
	f, ok := v.(*os.File)
	if !ok || f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
