package text

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Letters and symbols that survive NFKD decomposition as a single non-ASCII
// rune but still have a conventional ASCII spelling.
var transliterations = map[rune]string{
	'ß': "ss", 'ẞ': "SS",
	'Æ': "AE", 'æ': "ae",
	'Œ': "OE", 'œ': "oe",
	'Ø': "O", 'ø': "o",
	'Đ': "D", 'đ': "d",
	'Ð': "D", 'ð': "d",
	'Ł': "L", 'ł': "l",
	'Þ': "TH", 'þ': "th",
	'Ħ': "H", 'ħ': "h",
	'ı': "i", 'ĸ': "q",
	'Ŋ': "NG", 'ŋ': "ng",
	'ƒ': "f",
	'‘': "'", '’': "'", '‚': ",", 'ʼ': "'",
	'“': `"`, '”': `"`, '„': `"`,
	'‐': "-", '‑': "-", '‒': "-", '–': "-", '—': "-", '―': "-",
	'«': "<<", '»': ">>",
	'‹': "<", '›': ">",
	'•': "*", '·': ".",
	'×': "x", '÷': "/",
	'©': "(C)", '®': "(R)",
	'€': "EUR", '£': "GBP", '¥': "JPY", '¢': "c",
	'°': "deg", '§': "S", '¶': "P",
	'¡': "!", '¿': "?",
}

// ToASCII converts s to ASCII, replacing accented characters with their
// unaccented equivalent using Unicode NFKD decomposition.
//
// With translit false, characters that have no ASCII decomposition are
// dropped. With translit true, a transliteration table is consulted first and
// anything still unmappable becomes an underscore.
func ToASCII(s string, translit bool) string {
	if s == "" {
		return ""
	}

	// Chained transformers keep internal state and must not be shared.
	folder := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	decomposed, _, err := transform.String(folder, s)
	if err != nil {
		decomposed = s
	}

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
			continue
		}
		if !translit {
			continue
		}
		if repl, ok := transliterations[r]; ok {
			b.WriteString(repl)
			continue
		}
		b.WriteByte('_')
	}
	return b.String()
}

// AsUnicode returns a string for raw bytes. Valid UTF-8 is kept as-is;
// anything else is decoded as Windows-1252, falling back to ISO-8859-1 which
// maps every byte.
func AsUnicode(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	if utf8.Valid(raw) {
		return string(raw)
	}

	decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err == nil && utf8.Valid(decoded) && !strings.ContainsRune(string(decoded), utf8.RuneError) {
		return string(decoded)
	}

	decoded, err = charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return strings.ToValidUTF8(string(raw), "_")
	}
	return string(decoded)
}
