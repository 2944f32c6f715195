package shell

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext() (ExecContext, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return ExecContext{
		Stdin:  &bytes.Buffer{},
		Stdout: stdout,
		Stderr: stderr,
		State:  NewState(),
	}, stdout, stderr
}

func TestEchoBuiltin(t *testing.T) {
	cases := map[string]struct {
		args []string
		want string
	}{
		"no args":    {args: nil, want: "\n"},
		"one arg":    {args: []string{"hi"}, want: "hi\n"},
		"concat":     {args: []string{"a", "b", "c"}, want: "abc\n"},
		"flags kept": {args: []string{"-n", "x"}, want: "-nx\n"},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			ec, stdout, stderr := newTestContext()
			assert.Equal(t, StatusSuccess, EchoBuiltin(ec, tc.args))
			assert.Equal(t, tc.want, stdout.String())
			assert.Empty(t, stderr.String())
		})
	}
}

func TestCdBuiltin(t *testing.T) {
	dir := chdirTemp(t)
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0700))

	t.Run("relative", func(t *testing.T) {
		ec, stdout, _ := newTestContext()
		assert.Equal(t, StatusSuccess, CdBuiltin(ec, []string{"sub"}))
		assert.Equal(t, "Changed directory to "+sub+"\n", stdout.String())

		wd, err := os.Getwd()
		require.NoError(t, err)
		assert.Equal(t, sub, wd)
	})

	t.Run("parent", func(t *testing.T) {
		ec, stdout, _ := newTestContext()
		assert.Equal(t, StatusSuccess, CdBuiltin(ec, []string{".."}))
		assert.Equal(t, "Changed directory to "+dir+"\n", stdout.String())
	})

	t.Run("missing", func(t *testing.T) {
		ec, stdout, stderr := newTestContext()
		assert.Equal(t, StatusFailure, CdBuiltin(ec, []string{"does-not-exist"}))
		assert.Empty(t, stdout.String())
		assert.Contains(t, stderr.String(), "cd: ")
		assert.Contains(t, stderr.String(), "does-not-exist")

		wd, err := os.Getwd()
		require.NoError(t, err)
		assert.Equal(t, dir, wd)
	})

	t.Run("no args", func(t *testing.T) {
		ec, _, stderr := newTestContext()
		assert.Equal(t, StatusUsage, CdBuiltin(ec, nil))
		assert.Contains(t, stderr.String(), "usage")
	})

	t.Run("too many", func(t *testing.T) {
		ec, _, stderr := newTestContext()
		assert.Equal(t, StatusUsage, CdBuiltin(ec, []string{"a", "b"}))
		assert.Equal(t, "cd: too many arguments\n", stderr.String())
	})
}

func TestExitBuiltin(t *testing.T) {
	ec, stdout, stderr := newTestContext()
	assert.False(t, ec.State.ExitRequested())
	assert.Equal(t, StatusSuccess, ExitBuiltin(ec, []string{"3"}))
	assert.True(t, ec.State.ExitRequested())
	assert.Empty(t, stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRunBuiltinProcess(t *testing.T) {
	t.Run("echo", func(t *testing.T) {
		stdout := &bytes.Buffer{}
		status := RunBuiltinProcess("echo", []string{"x", "y"}, nil, stdout, &bytes.Buffer{})
		assert.Equal(t, StatusSuccess, status)
		assert.Equal(t, "xy\n", stdout.String())
	})

	t.Run("unknown", func(t *testing.T) {
		stderr := &bytes.Buffer{}
		status := RunBuiltinProcess("pwd", nil, nil, &bytes.Buffer{}, stderr)
		assert.Equal(t, StatusUsage, status)
		assert.Equal(t, "pipesh: unknown builtin: pwd\n", stderr.String())
	})

	t.Run("missing name", func(t *testing.T) {
		status := RunBuiltinProcess("", nil, nil, &bytes.Buffer{}, &bytes.Buffer{})
		assert.Equal(t, StatusUsage, status)
	})
}
