// Package text prepares text before indexing or fingerprinting: case
// folding, conversion of ISO-Latin and Unicode to ASCII, punctuation
// stripping and line separator conversion.
package text

import (
	"strings"
	"unicode"
)

const (
	cr       = "\r"
	lf       = "\n"
	crlf     = cr + lf
	crlfNoCR = " " + lf
)

// Lines splits s on \r\n, \n or \r and returns the stripped, non-blank lines.
func Lines(s string) []string {
	s = strings.ReplaceAll(s, crlf, lf)
	s = strings.ReplaceAll(s, cr, lf)

	out := make([]string, 0, strings.Count(s, lf)+1)
	for _, line := range strings.Split(s, lf) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// FoldCase folds text to lower case.
func FoldCase(text string) string {
	return strings.ToLower(text)
}

// NoPunctuation replaces every rune that is not a letter or a digit with a
// space. Rune offsets are preserved; line endings are dropped too.
func NoPunctuation(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, text)
}

// UnixLineSep normalizes text to \n line endings. With preserve set, a \r\n
// pair becomes " \n" so character offsets do not move.
func UnixLineSep(text string, preserve bool) string {
	repl := lf
	if preserve {
		repl = crlfNoCR
	}
	text = strings.ReplaceAll(text, crlf, repl)
	return strings.ReplaceAll(text, cr, lf)
}

// NoLineSep replaces line separators with spaces.
func NoLineSep(text string) string {
	return strings.NewReplacer(cr, " ", lf, " ").Replace(text)
}

// SafeName returns a lowercase ASCII name derived from s that is usable as an
// identifier: punctuation and whitespace become underscores, and leading or
// trailing underscores are stripped.
func SafeName(s string) string {
	s = ToASCII(s, false)
	s = FoldCase(s)
	s = NoPunctuation(s)
	s = strings.Join(strings.Fields(s), "_")
	return strings.Trim(s, "_")
}
