package shell

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByteLineReader(t *testing.T) {
	lr := NewByteLineReader(strings.NewReader("one\ntwo\r\n\nthree"))

	for _, want := range []string{"one", "two", "", "three"} {
		got, err := lr.Readline()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := lr.Readline()
	assert.Equal(t, io.EOF, err)
}

func TestByteLineReader_leavesRest(t *testing.T) {
	r := strings.NewReader("first\nleft for children")
	lr := NewByteLineReader(r)

	line, err := lr.Readline()
	require.NoError(t, err)
	assert.Equal(t, "first", line)

	rest, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "left for children", string(rest))
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&strings.Builder{}))
	assert.False(t, IsTerminal(nil))
}
