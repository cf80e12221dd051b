package bibdb

import (
	"fmt"
	"io"
	"strings"
)

// Parse reads a complete bibtex source from r and builds its database.
// fileName only labels the database for reports; no file is opened here
// (see Load for the file-path variant). The error, when non-nil, is a
// *ParseError positioned at the offending text.
func Parse(r io.Reader, fileName string) (*Database, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("can't read %s: %w", fileName, err)
	}
	return parseText(string(src), fileName)
}

// ParseString builds a database from bibtex source held in a string.
func ParseString(src string) (*Database, error) {
	return parseText(src, "")
}

// TryParse is the non-raising variant of ParseString: it reports only
// success or failure, discarding diagnostic detail. Use ParseString when
// the error position matters.
func TryParse(src string) (*Database, bool) {
	db, err := parseText(src, "")
	if err != nil {
		return nil, false
	}
	return db, true
}

func parseText(src, fileName string) (*Database, error) {
	p := &parser{cur: newCursor(src), db: NewDatabase(fileName)}
	if err := p.parse(); err != nil {
		return nil, err
	}
	return p.db, nil
}

type parser struct {
	cur cursor
	db  *Database
}

func (p *parser) errf(format string, args ...any) error {
	return parseErrorf(p.cur, format, args...)
}

// parse runs the top-level loop: everything outside @-entries is comment,
// as is any @ not followed by a recognizable entry-type keyword.
func (p *parser) parse() error {
	for p.cur.findNext('@') {
		p.cur.skipSpaces()
		keyword, ok := p.cur.fetch(isIdentStart, isIdentCont)
		if !ok {
			continue // stray @, treat as comment noise
		}
		keyword = strings.ToLower(keyword)
		if keyword == "comment" {
			continue
		}
		closer, err := p.openBlock(keyword)
		if err != nil {
			return err
		}
		switch keyword {
		case "preamble":
			err = p.parsePreamble(closer)
		case "string":
			err = p.parseString(closer)
		default:
			err = p.parseEntry(keyword, closer)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// openBlock consumes the block opener after an entry-type keyword and
// returns the matching closing delimiter.
func (p *parser) openBlock(keyword string) (rune, error) {
	p.cur.skipSpaces()
	var closer rune
	switch p.cur.peek() {
	case '{':
		closer = '}'
	case '(':
		closer = ')'
	default:
		return 0, p.errf("expected '{' or '(' after @%s", keyword)
	}
	p.cur.advance()
	p.cur.skipSpaces()
	return closer, nil
}

func (p *parser) closeBlock(closer rune, what string) error {
	p.cur.skipSpaces()
	if !p.cur.startsWith(closer) {
		return p.errf("expected '%c' closing %s", closer, what)
	}
	p.cur.advance()
	return nil
}

func (p *parser) parsePreamble(closer rune) error {
	v, err := fetchValue(&p.cur)
	if err != nil {
		return err
	}
	if len(v) > 0 {
		p.db.Preamble = append(p.db.Preamble, v)
	}
	return p.closeBlock(closer, "@preamble")
}

func (p *parser) parseString(closer rune) error {
	name, ok := p.cur.fetch(isIdentStart, isIdentCont)
	if !ok {
		return p.errf("macro name missing in @string")
	}
	if _, dup := p.db.Strings.Get(name); dup {
		return p.errf("duplicate definition of macro %q", name)
	}
	p.cur.skipSpaces()
	if !p.cur.startsWith('=') {
		return p.errf("expected '=' after macro name %q", name)
	}
	p.cur.advance()
	p.cur.skipSpaces()
	v, err := fetchValue(&p.cur)
	if err != nil {
		return err
	}
	if len(v) == 0 {
		return p.errf("empty value in @string definition of %q", name)
	}
	p.db.DefineString(name, v)
	return p.closeBlock(closer, "@string")
}

func (p *parser) parseEntry(typ string, closer rune) error {
	key, ok := p.cur.fetch(isKeyChar, isKeyChar)
	if !ok {
		return p.errf("citation key missing in @%s entry", typ)
	}
	entry := newEntry(typ, key, p.cur.line)
	if !p.db.AddEntry(entry) {
		return p.errf("duplicate citation key %q", key)
	}
	p.cur.skipSpaces()
	for p.cur.startsWith(',') {
		p.cur.advance()
		p.cur.skipSpaces()
		name, ok := p.cur.fetch(isIdentStart, isIdentCont)
		if !ok {
			break // trailing comma before the closing delimiter is legal
		}
		name = strings.ToLower(name)
		if _, dup := entry.Fields.Get(name); dup {
			return p.errf("duplicate field %q in entry %q", name, key)
		}
		p.cur.skipSpaces()
		if !p.cur.startsWith('=') {
			return p.errf("expected '=' after field name %q", name)
		}
		p.cur.advance()
		p.cur.skipSpaces()
		v, err := fetchValue(&p.cur)
		if err != nil {
			return err
		}
		if len(v) == 0 {
			break
		}
		entry.setField(name, v)
		p.cur.skipSpaces()
	}
	return p.closeBlock(closer, fmt.Sprintf("@%s entry %q", typ, key))
}

// fetchValue assembles pieces joined by the # operator into a Value. When
// no piece follows a #, the cursor is restored to just before that #, so
// the caller sees the value end there rather than after a half-consumed
// operator. An empty result leaves the cursor where it started.
func fetchValue(c *cursor) (Value, error) {
	var v Value
	mark := *c
	for {
		piece, ok, err := fetchPiece(c)
		if err != nil {
			return nil, err
		}
		if !ok {
			*c = mark
			return v, nil
		}
		v = append(v, piece)
		c.skipSpaces()
		if !c.startsWith('#') {
			return v, nil
		}
		mark = *c // restore point: just before the '#'
		c.advance()
		c.skipSpaces()
	}
}
