package dynstring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitArgs_Unquoted(t *testing.T) {
	args, err := SplitArgs("set foo bar")
	require.NoError(t, err)
	assert.Equal(t, []string{"set", "foo", "bar"}, args)
}

func TestSplitArgs_SingleQuotePreservesBytes(t *testing.T) {
	args, err := SplitArgs(`set foo 'hello\nworld'`)
	require.NoError(t, err)
	assert.Equal(t, []string{"set", "foo", `hello\nworld`}, args)
}

func TestSplitArgs_DoubleQuoteProcessesEscapes(t *testing.T) {
	args, err := SplitArgs(`set foo "hello\nworld\t!"`)
	require.NoError(t, err)
	assert.Equal(t, []string{"set", "foo", "hello\nworld\t!"}, args)
}

func TestSplitArgs_HexEscape(t *testing.T) {
	args, err := SplitArgs(`set foo "\x41\x42"`)
	require.NoError(t, err)
	assert.Equal(t, []string{"set", "foo", "AB"}, args)
}

func TestSplitArgs_UnbalancedQuote(t *testing.T) {
	_, err := SplitArgs(`set foo "unterminated`)
	require.Error(t, err)

	_, err = SplitArgs(`set foo 'unterminated`)
	require.Error(t, err)
}

func TestSplitArgs_EmptyLine(t *testing.T) {
	args, err := SplitArgs("   ")
	require.NoError(t, err)
	assert.Empty(t, args)
}

func TestSplitArgs_AdjacentQuotedSegments(t *testing.T) {
	args, err := SplitArgs(`foo'bar'"baz"`)
	require.NoError(t, err)
	assert.Equal(t, []string{"foobarbaz"}, args)
}
