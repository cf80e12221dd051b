package bibdb

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Entry is one bibliographic record: a lowercased type, a verbatim citation
// key, and an insertion-ordered table of lowercased field names to values.
type Entry struct {
	Type   string
	Key    string
	Fields *orderedmap.OrderedMap[string, Value]
	line   int
}

func newEntry(typ, key string, line int) *Entry {
	return &Entry{
		Type:   typ,
		Key:    key,
		Fields: orderedmap.New[string, Value](),
		line:   line,
	}
}

// Line reports the source line the entry started on, 0 if not parsed.
func (e *Entry) Line() int { return e.line }

// Field returns the value of the named field, nil if absent. Names are
// stored lowercased; lookup expects the lowercased form.
func (e *Entry) Field(name string) Value {
	v, _ := e.Fields.Get(name)
	return v
}

// setField stores a field value, reporting false if the name is taken.
func (e *Entry) setField(name string, v Value) bool {
	if _, dup := e.Fields.Get(name); dup {
		return false
	}
	e.Fields.Set(name, v)
	return true
}

// Equal compares two entries structurally. Field order is deliberately
// ignored: serialization canonicalizes it, so two entries that differ only
// in field order denote the same record.
func (e *Entry) Equal(o *Entry) bool {
	if e.Type != o.Type || e.Key != o.Key || e.Fields.Len() != o.Fields.Len() {
		return false
	}
	for p := e.Fields.Oldest(); p != nil; p = p.Next() {
		ov, ok := o.Fields.Get(p.Key)
		if !ok || !p.Value.Equal(ov) {
			return false
		}
	}
	return true
}

// Database is the root aggregate of one bibtex source: preamble blocks,
// @string macro definitions, and entries, each in source order. Macro names
// and citation keys are unique database-wide; duplicates are parse errors.
type Database struct {
	Preamble []Value
	Strings  *orderedmap.OrderedMap[string, Value]
	Entries  *orderedmap.OrderedMap[string, *Entry]
	name     string
}

// NewDatabase returns an empty database labeled with a source name
// (typically a file name; used in reports only).
func NewDatabase(name string) *Database {
	return &Database{
		Strings: orderedmap.New[string, Value](),
		Entries: orderedmap.New[string, *Entry](),
		name:    name,
	}
}

// Name returns the source label given at construction.
func (db *Database) Name() string { return db.name }

// EntryCount returns the number of bibliographic entries.
func (db *Database) EntryCount() int { return db.Entries.Len() }

// AddEntry inserts an entry under its citation key, reporting false if the
// key is already taken.
func (db *Database) AddEntry(e *Entry) bool {
	if _, dup := db.Entries.Get(e.Key); dup {
		return false
	}
	db.Entries.Set(e.Key, e)
	return true
}

// DefineString records a macro definition, reporting false on a duplicate
// name. Names are case-preserving and compared exactly.
func (db *Database) DefineString(name string, v Value) bool {
	if _, dup := db.Strings.Get(name); dup {
		return false
	}
	db.Strings.Set(name, v)
	return true
}

// FieldText resolves the named field of an entry against this database's
// macro table, returning "" when the field is absent or unresolvable.
func (db *Database) FieldText(e *Entry, name string) string {
	v := e.Field(name)
	if v == nil {
		return ""
	}
	s, err := v.Resolve(db)
	if err != nil {
		return ""
	}
	return s
}

// Equal compares two databases structurally: preamble values in order,
// macro definitions in order, entries in order (field order inside an
// entry is not significant; see Entry.Equal).
func (db *Database) Equal(o *Database) bool {
	if len(db.Preamble) != len(o.Preamble) ||
		db.Strings.Len() != o.Strings.Len() ||
		db.Entries.Len() != o.Entries.Len() {
		return false
	}
	for i := range db.Preamble {
		if !db.Preamble[i].Equal(o.Preamble[i]) {
			return false
		}
	}
	op := o.Strings.Oldest()
	for p := db.Strings.Oldest(); p != nil; p, op = p.Next(), op.Next() {
		if p.Key != op.Key || !p.Value.Equal(op.Value) {
			return false
		}
	}
	oe := o.Entries.Oldest()
	for p := db.Entries.Oldest(); p != nil; p, oe = p.Next(), oe.Next() {
		if p.Key != oe.Key || !p.Value.Equal(oe.Value) {
			return false
		}
	}
	return true
}
