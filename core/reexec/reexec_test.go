package reexec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := map[string]struct {
		argv     []string
		wantName string
		wantArgs []string
		wantOK   bool
	}{
		"no args":         {nil, "", nil, false},
		"interactive":     {[]string{"-c", "echo hi"}, "", nil, false},
		"flag not first":  {[]string{"x", Flag, "echo"}, "", nil, false},
		"marker only":     {[]string{Flag}, "", nil, true},
		"builtin no args": {[]string{Flag, "exit"}, "exit", []string{}, true},
		"builtin args":    {[]string{Flag, "echo", "a", "b"}, "echo", []string{"a", "b"}, true},
		"dash args":       {[]string{Flag, "echo", "-n", "--help"}, "echo", []string{"-n", "--help"}, true},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			name, args, ok := Parse(tc.argv)

			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantName, name)
			if tc.wantArgs == nil {
				assert.Empty(t, args)
			} else {
				assert.Equal(t, tc.wantArgs, args)
			}
		})
	}
}

func TestArgs_roundTrip(t *testing.T) {
	argv := Args("cd", []string{"-weird dir", "|"})

	name, args, ok := Parse(argv)
	assert.True(t, ok)
	assert.Equal(t, "cd", name)
	assert.Equal(t, []string{"-weird dir", "|"}, args)
}

func TestBridge_Command(t *testing.T) {
	b := &Bridge{Executable: func() (string, error) {
		return "/opt/pipesh", nil
	}}

	cmd, err := b.Command("echo", []string{"a", "b"})
	require.NoError(t, err)

	assert.Equal(t, "/opt/pipesh", cmd.Path)
	assert.Equal(t, []string{"/opt/pipesh", Flag, "echo", "a", "b"}, cmd.Args)
}

func TestBridge_missingExecutable(t *testing.T) {
	b := &Bridge{Executable: func() (string, error) {
		return "", errors.New("no /proc")
	}}

	_, err := b.Command("echo", nil)
	assert.True(t, errors.Is(err, ErrSelfExec), "got %v", err)

	empty := &Bridge{Executable: func() (string, error) { return "", nil }}
	_, err = empty.Path()
	assert.True(t, errors.Is(err, ErrSelfExec), "got %v", err)
}

func TestBridge_defaultExecutable(t *testing.T) {
	var b *Bridge

	path, err := b.Path()
	require.NoError(t, err)
	assert.NotEmpty(t, path)
}
