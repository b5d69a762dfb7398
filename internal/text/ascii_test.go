package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToASCII(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		translit bool
		want     string
	}{
		{name: "plain ascii", input: "webform.inc", want: "webform.inc"},
		{name: "latin accents", input: "ümläuts café", want: "umlauts cafe"},
		{name: "capital accent", input: "componÃnts", want: "componAnts"},
		{name: "ligature decomposes", input: "ﬁle", want: "file"},
		{name: "sharp s dropped without translit", input: "straße", want: "strae"},
		{name: "sharp s transliterated", input: "straße", translit: true, want: "strasse"},
		{name: "nordic letters", input: "Ærø", translit: true, want: "AEro"},
		{name: "unmappable dropped", input: "a中b", want: "ab"},
		{name: "unmappable underscored", input: "a中b", translit: true, want: "a_b"},
		{name: "empty", input: "", want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ToASCII(tc.input, tc.translit))
		})
	}
}

func TestAsUnicode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", AsUnicode(nil))
	assert.Equal(t, "café", AsUnicode([]byte("café")))
	assert.Equal(t, "café", AsUnicode([]byte{'c', 'a', 'f', 0xe9}))
	assert.Equal(t, "\u04aa", AsUnicode([]byte{0xd2, 0xaa}))
	assert.Equal(t, "Ò", AsUnicode([]byte{0xd2}))
}
