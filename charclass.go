package bibdb

import "unicode"

// charClass is a bitset of lexical roles a character can play.
type charClass uint8

const (
	identStart charClass = 1 << iota // may begin a name (macro, type, field)
	identCont                        // may continue a name
	keyChar                          // may appear in a citation key
)

// charClassTable classifies the 128 ASCII code points. Populated once at
// startup and read-only afterwards, so concurrent parses share it freely.
var charClassTable [128]charClass

func init() {
	// Every printable character starts out legal everywhere.
	for b := 0x21; b <= 0x7e; b++ {
		charClassTable[b] = identStart | identCont | keyChar
	}
	// Names cannot begin with a digit, though they may contain them.
	for b := '0'; b <= '9'; b++ {
		charClassTable[b] &^= identStart
	}
	// Syntactic delimiters never appear inside a bare name.
	for _, b := range `"#%'()={}` {
		charClassTable[b] &^= identStart | identCont
	}
	// A citation key runs until the first comma or closing brace.
	charClassTable[','] &^= keyChar
	charClassTable['}'] &^= keyChar
}

// classify extends the ASCII table to arbitrary runes. Letter-like and
// symbolic non-ASCII text flows through names and keys; non-ASCII
// whitespace and control characters terminate them.
func classify(ch rune) charClass {
	if ch < 0x80 {
		if ch < 0 {
			return 0
		}
		return charClassTable[ch]
	}
	if unicode.IsLetter(ch) || !(unicode.IsSpace(ch) || unicode.IsControl(ch)) {
		return identStart | identCont | keyChar
	}
	return 0
}

func isIdentStart(ch rune) bool { return classify(ch)&identStart != 0 }
func isIdentCont(ch rune) bool  { return classify(ch)&identCont != 0 }
func isKeyChar(ch rune) bool    { return classify(ch)&keyChar != 0 }

func isSpace(ch rune) bool { return unicode.IsSpace(ch) }
func isDigit(ch rune) bool { return '0' <= ch && ch <= '9' }
