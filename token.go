package bibdb

import "strconv"

// fetchPiece recognizes one atomic value piece at the cursor: a quoted
// string, a braced string, a decimal integer, or a macro identifier. A
// false result means no piece starts here and the cursor did not move;
// a non-nil error means a piece started but is malformed.
func fetchPiece(c *cursor) (Piece, bool, error) {
	switch ch := c.peek(); {
	case ch == '"':
		raw, err := fetchQuoted(c)
		if err != nil {
			return Piece{}, false, err
		}
		return Piece{Kind: TextPiece, Raw: raw}, true, nil
	case ch == '{':
		raw, err := fetchBraced(c)
		if err != nil {
			return Piece{}, false, err
		}
		return Piece{Kind: TextPiece, Raw: raw}, true, nil
	case isDigit(ch):
		digits, _ := c.fetch(isDigit, isDigit)
		n, err := strconv.Atoi(digits)
		if err != nil {
			// Out-of-range numbers are malformed, not absent.
			return Piece{}, false, parseErrorf(*c, "integer literal %s out of range", digits)
		}
		return Piece{Kind: NumberPiece, Num: n}, true, nil
	case isIdentStart(ch):
		name, _ := c.fetch(isIdentStart, isIdentCont)
		return Piece{Kind: MacroPiece, Raw: name}, true, nil
	default:
		return Piece{}, false, nil
	}
}

// fetchQuoted scans a "..." string. Braces nest inside it and protect any
// quote characters they enclose; the string may not span lines.
func fetchQuoted(c *cursor) (string, error) {
	start := c.pos
	c.advance() // opening quote
	depth := 0
	for {
		switch ch := c.peek(); ch {
		case 0:
			return "", parseErrorf(*c, "unterminated quoted string")
		case '\n', '\r':
			return "", parseErrorf(*c, "line break inside quoted string")
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return "", parseErrorf(*c, "unbalanced braces inside quoted string")
			}
		case '"':
			if depth == 0 {
				c.advance()
				return c.text[start:c.pos], nil
			}
		}
		c.advance()
	}
}

// fetchBraced scans a {...} string with balanced nesting; line terminators
// are legal inside and counted.
func fetchBraced(c *cursor) (string, error) {
	start := c.pos
	c.advance() // opening brace
	depth := 1
	for {
		switch c.peek() {
		case 0:
			return "", parseErrorf(*c, "unterminated braced string")
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				c.advance()
				return c.text[start:c.pos], nil
			}
		}
		c.bump()
	}
}
