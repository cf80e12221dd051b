package bibdb

import "unicode/utf8"

// cursor is a mutable read position over an immutable text buffer. It is a
// plain value: copying it snapshots the position, and assigning a saved copy
// back restores it, which is how every fetch guarantees "no match, no move".
type cursor struct {
	text string
	pos  int // byte index of the current rune
	end  int // exclusive end of the readable range
	line int // 1-based, advanced by bump only
}

func newCursor(text string) cursor {
	return cursor{text: text, end: len(text), line: 1}
}

func (c *cursor) exhausted() bool { return c.pos >= c.end }

// peek returns the rune at the current position, or 0 when exhausted.
func (c *cursor) peek() rune {
	if c.exhausted() {
		return 0
	}
	ch, _ := utf8.DecodeRuneInString(c.text[c.pos:c.end])
	return ch
}

// advance moves past the current rune without line accounting. Callers
// scanning text that may hold line terminators use bump instead.
func (c *cursor) advance() {
	if ch := c.peek(); ch != 0 {
		c.pos += utf8.RuneLen(ch)
	}
}

// bump consumes and returns the current rune, counting line terminators.
// A \r\n pair is consumed whole and counted as a single terminator.
func (c *cursor) bump() rune {
	ch := c.peek()
	switch ch {
	case 0:
		return 0
	case '\n':
		c.pos++
		c.line++
	case '\r':
		c.pos++
		if c.peek() == '\n' {
			c.pos++
		}
		c.line++
	default:
		c.pos += utf8.RuneLen(ch)
	}
	return ch
}

// skipWhile consumes a maximal run of runes satisfying pred, leaving the
// cursor at the first rune that fails it or at exhaustion.
func (c *cursor) skipWhile(pred func(rune) bool) {
	for {
		ch := c.peek()
		if ch == 0 || !pred(ch) {
			return
		}
		c.bump()
	}
}

func (c *cursor) skipSpaces() { c.skipWhile(isSpace) }

// findNext consumes runes until it has consumed one equal to want, leaving
// the cursor just after the match. It reports false on exhaustion.
func (c *cursor) findNext(want rune) bool {
	for !c.exhausted() {
		if c.bump() == want {
			return true
		}
	}
	return false
}

// startsWith is a non-consuming lookahead; false when exhausted.
func (c *cursor) startsWith(ch rune) bool { return c.peek() == ch }

// fetch consumes a maximal run whose first rune satisfies first and whose
// remainder satisfies cont, returning the consumed span. On no match the
// cursor is left exactly where it was.
func (c *cursor) fetch(first, cont func(rune) bool) (string, bool) {
	ch := c.peek()
	if ch == 0 || !first(ch) {
		return "", false
	}
	start := c.pos
	c.advance()
	for {
		ch = c.peek()
		if ch == 0 || !cont(ch) {
			break
		}
		c.advance()
	}
	return c.text[start:c.pos], true
}
