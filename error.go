package bibdb

import (
	"fmt"
	"strings"
	"unicode"
)

// ParseError reports a malformed construct at a specific point in the
// source. It captures the cursor by value at the failure point; the
// snapshot is only ever read, never used to resume parsing.
type ParseError struct {
	msg string
	cur cursor
}

func parseErrorf(cur cursor, format string, args ...any) *ParseError {
	return &ParseError{msg: fmt.Sprintf(format, args...), cur: cur}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing error at line %d: %s", e.cur.line, e.msg)
}

// Line returns the 1-based source line of the failure.
func (e *ParseError) Line() int { return e.cur.line }

// excerptRadius bounds how much context Excerpt shows on each side.
const excerptRadius = 20

// Excerpt renders a two-line window around the failure point: the
// surrounding text with control characters escaped, then a dash rule whose
// caret sits under the offending position.
func (e *ParseError) Excerpt() string {
	text := e.cur.text
	pos := e.cur.pos
	if pos > len(text) {
		pos = len(text)
	}

	pre := []rune(text[:pos])
	post := []rune(text[pos:])
	preMark, postMark := "", ""
	if len(pre) > excerptRadius {
		pre = pre[len(pre)-excerptRadius:]
		preMark = "..."
	}
	if len(post) > excerptRadius {
		post = post[:excerptRadius]
		postMark = "..."
	}

	shown := preMark + escapeControl(string(pre))
	rule := strings.Repeat("-", len([]rune(shown))) + "^"
	return shown + escapeControl(string(post)) + postMark + "\n" + rule
}

// Report combines the message, line number, and excerpt for display.
func (e *ParseError) Report() string {
	return e.Error() + "\n" + e.Excerpt()
}

func escapeControl(s string) string {
	if !strings.ContainsFunc(s, unicode.IsControl) {
		return s
	}
	var sb strings.Builder
	for _, ch := range s {
		switch {
		case ch == '\n':
			sb.WriteString(`\n`)
		case ch == '\t':
			sb.WriteString(`\t`)
		case ch == '\r':
			sb.WriteString(`\r`)
		case unicode.IsControl(ch):
			fmt.Fprintf(&sb, `\u%04x`, ch)
		default:
			sb.WriteRune(ch)
		}
	}
	return sb.String()
}
