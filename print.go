package bibdb

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"
)

// Delimiter selects the block delimiter style used for every block of one
// serialization call.
type Delimiter byte

const (
	Braces Delimiter = '{'
	Parens Delimiter = '('
)

func (d Delimiter) pair() (open, close byte, err error) {
	switch d {
	case Braces:
		return '{', '}', nil
	case Parens:
		return '(', ')', nil
	}
	return 0, 0, fmt.Errorf("invalid block delimiter %q", byte(d))
}

// Write serializes the database as bibtex source: an encoding comment
// line, then preamble blocks, macro definitions, and entries, each in
// insertion order and separated by blank lines. Fields within an entry are
// emitted sorted by name so output is canonical and diff-stable.
func (db *Database) Write(w io.Writer, delim Delimiter) error {
	op, cl, err := delim.pair()
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "% Encoding: UTF-8")
	for _, v := range db.Preamble {
		fmt.Fprintf(bw, "\n@preamble%c%s%c\n", op, v, cl)
	}
	for p := db.Strings.Oldest(); p != nil; p = p.Next() {
		fmt.Fprintf(bw, "\n@string%c%s = %s%c\n", op, p.Key, p.Value, cl)
	}
	for p := db.Entries.Oldest(); p != nil; p = p.Next() {
		writeEntry(bw, p.Value, op, cl)
	}
	return bw.Flush()
}

func writeEntry(w io.Writer, e *Entry, op, cl byte) {
	fmt.Fprintf(w, "\n@%s%c%s", e.Type, op, e.Key)
	names := make([]string, 0, e.Fields.Len())
	for p := e.Fields.Oldest(); p != nil; p = p.Next() {
		names = append(names, p.Key)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(w, ",\n    %s = %s", name, e.Field(name))
	}
	fmt.Fprintf(w, "\n%c\n", cl)
}

// String renders the database in the brace delimiter style.
func (db *Database) String() string {
	var sb strings.Builder
	db.Write(&sb, Braces) // cannot fail on a Builder with a valid delimiter
	return sb.String()
}
