package bibdb

import (
	"fmt"
	"strconv"
	"strings"
)

// PieceKind discriminates the three atomic constituents of a field value.
type PieceKind int8

const (
	// TextPiece is a braced or quoted literal; Raw keeps its delimiters.
	TextPiece PieceKind = iota
	// MacroPiece references an @string definition by name.
	MacroPiece
	// NumberPiece is a bare non-negative decimal integer.
	NumberPiece
)

// Piece is one atom of a value. Raw holds the literal text (delimiters
// included) for TextPiece and the identifier for MacroPiece.
type Piece struct {
	Kind PieceKind
	Raw  string
	Num  int
}

// String renders the piece in its source form.
func (p Piece) String() string {
	if p.Kind == NumberPiece {
		return strconv.Itoa(p.Num)
	}
	return p.Raw
}

// Value is an ordered sequence of pieces joined in source by the #
// concatenation operator.
type Value []Piece

// String renders the value in its source form, pieces joined by " # ".
func (v Value) String() string {
	switch len(v) {
	case 0:
		return ""
	case 1:
		return v[0].String()
	}
	var sb strings.Builder
	for i, p := range v {
		if i > 0 {
			sb.WriteString(" # ")
		}
		sb.WriteString(p.String())
	}
	return sb.String()
}

// Equal reports piece-wise equality.
func (v Value) Equal(o Value) bool {
	if len(v) != len(o) {
		return false
	}
	for i := range v {
		if v[i] != o[i] {
			return false
		}
	}
	return true
}

// Resolve renders the value as plain text: literal pieces are stripped of
// their outer delimiters, macro references are substituted from the
// database's string table, and integers print in decimal. A macro may be
// defined before or after its first use; only absence is an error.
func (v Value) Resolve(db *Database) (string, error) {
	var sb strings.Builder
	if err := v.resolve(db, &sb, nil); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (v Value) resolve(db *Database, sb *strings.Builder, trail []string) error {
	for _, p := range v {
		switch p.Kind {
		case NumberPiece:
			sb.WriteString(strconv.Itoa(p.Num))
		case TextPiece:
			sb.WriteString(stripDelims(p.Raw))
		case MacroPiece:
			for _, seen := range trail {
				if seen == p.Raw {
					return fmt.Errorf("macro %q is defined in terms of itself", p.Raw)
				}
			}
			def, ok := db.Strings.Get(p.Raw)
			if !ok {
				return fmt.Errorf("undefined macro %q", p.Raw)
			}
			if err := def.resolve(db, sb, append(trail, p.Raw)); err != nil {
				return err
			}
		}
	}
	return nil
}

// stripDelims removes the enclosing braces or quotes of a literal piece.
func stripDelims(raw string) string {
	if len(raw) >= 2 {
		switch raw[0] {
		case '{', '"':
			return raw[1 : len(raw)-1]
		}
	}
	return raw
}
