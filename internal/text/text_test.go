package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLines(t *testing.T) {
	t.Parallel()

	got := Lines("first\r\n  second  \n\n   \rthird\r")
	assert.Equal(t, []string{"first", "second", "third"}, got)
	assert.Empty(t, Lines(""))
}

func TestNoPunctuationPreservesOffsets(t *testing.T) {
	t.Parallel()

	input := "a,b;c_d\ne"
	got := NoPunctuation(input)
	assert.Equal(t, "a b c d e", got)
	assert.Len(t, got, len(input))
}

func TestUnixLineSep(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a\nb\nc", UnixLineSep("a\r\nb\rc", false))
	assert.Equal(t, "a \nb\nc", UnixLineSep("a\r\nb\rc", true))
}

func TestNoLineSep(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a  b c", NoLineSep("a\r\nb\nc"))
}

func TestSafeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{input: "Hello World", want: "hello_world"},
		{input: "__init__", want: "init"},
		{input: "Café-Crème 2", want: "cafe_creme_2"},
		{input: "  --  ", want: ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, SafeName(tc.input), "SafeName(%q)", tc.input)
	}
	assert.Equal(t, "abc", FoldCase("AbC"))
}
