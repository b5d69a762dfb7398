// Package paths converts arbitrary, possibly foreign-OS styled and non-ASCII
// path strings into safe, portable and comparable relative POSIX paths.
//
// All functions are pure and safe for concurrent use. They never fail: any
// input string maps to a defined output.
package paths

import (
	"strings"
	"unicode/utf8"

	"github.com/arodd/go-commoncode/internal/text"
)

const (
	// LegalPunctuation lists the punctuation kept as-is in portable names.
	LegalPunctuation = "!#$%&()+,-.;=@[]_{}~"

	// PosixLegalPunctuation extends LegalPunctuation with characters that are
	// legal in POSIX file names but not on Windows. Path separators are never
	// legal inside a single name.
	PosixLegalPunctuation = `<:"|*^'` + "`?>" + LegalPunctuation
)

// IllegalWindowsNames are the reserved Windows device names. They cannot be
// used as a file name base, whatever the extension.
var IllegalWindowsNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {},
	"COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {},
	"LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

var (
	legalChars      = charSet(LegalPunctuation)
	posixLegalChars = charSet(PosixLegalPunctuation)
)

func charSet(punctuation string) [128]bool {
	var set [128]bool
	for c := 'a'; c <= 'z'; c++ {
		set[c] = true
	}
	for c := 'A'; c <= 'Z'; c++ {
		set[c] = true
	}
	for c := '0'; c <= '9'; c++ {
		set[c] = true
	}
	for i := 0; i < len(punctuation); i++ {
		set[punctuation[i]] = true
	}
	return set
}

// Option tunes name sanitization.
type Option func(*options)

type options struct {
	posixOnly      bool
	preserveSpaces bool
}

// PosixOnly only fixes constructs that are illegal on POSIX filesystems:
// Windows-only illegal punctuation and reserved device names are kept.
func PosixOnly() Option {
	return func(o *options) { o.posixOnly = true }
}

// PreserveSpaces keeps spaces instead of replacing them with underscores.
func PreserveSpaces() Option {
	return func(o *options) { o.preserveSpaces = true }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// PortableFilename returns a name derived from name that is safe to use as a
// single file name on POSIX and Windows. Bytes that are not valid UTF-8 are
// read as a legacy single-byte encoding before transliteration. The whole input is one segment: path
// separators are replaced, not interpreted. Use SafePath to resolve paths.
func PortableFilename(name string, opts ...Option) string {
	return portableFilename(name, buildOptions(opts))
}

func portableFilename(name string, o options) string {
	if !utf8.ValidString(name) {
		name = text.AsUnicode([]byte(name))
	}
	name = text.ToASCII(name, true)
	if name == "" {
		return "_"
	}

	legal := &legalChars
	if o.posixOnly {
		legal = &posixLegalChars
	}

	b := []byte(name)
	for i, c := range b {
		if c == ' ' && o.preserveSpaces {
			continue
		}
		if c >= 128 || !legal[c] {
			b[i] = '_'
		}
	}
	name = string(b)

	if !o.posixOnly {
		base, ext, hasDot := strings.Cut(name, ".")
		if IsIllegalWindowsName(base) {
			name = base + "_"
			if hasDot {
				name += "." + ext
			}
		}
	}

	if strings.Trim(name, ".") == "" {
		return strings.Repeat("dot", len(name))
	}
	if strings.HasPrefix(name, "..") {
		name = "__" + name[2:]
	}
	return name
}

// IsIllegalWindowsName reports whether name is a reserved Windows device name,
// ignoring case.
func IsIllegalWindowsName(name string) bool {
	_, ok := IllegalWindowsNames[strings.ToUpper(name)]
	return ok
}
