package shell

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"

	"github.com/josephlewis42/pipesh/core/reexec"
	"github.com/stretchr/testify/require"
)

// The test binary doubles as the interpreter for re-executed builtins.
func TestMain(m *testing.M) {
	if name, args, ok := reexec.Parse(os.Args[1:]); ok {
		os.Exit(RunBuiltinProcess(name, args, os.Stdin, os.Stdout, os.Stderr))
	}

	os.Exit(m.Run())
}

// lockedBuffer is written by exec's copy goroutines.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// chdirTemp moves the test into a fresh directory and returns its resolved
// path. The previous directory is restored afterwards.
func chdirTemp(t *testing.T) string {
	t.Helper()

	orig, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(orig))
	})

	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return dir
}

func requirePrograms(t *testing.T, names ...string) {
	t.Helper()
	for _, name := range names {
		if _, err := exec.LookPath(name); err != nil {
			t.Skipf("%s not available: %v", name, err)
		}
	}
}
