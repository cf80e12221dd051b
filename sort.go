package bibdb

import (
	"fmt"
	"sort"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const (
	Missing = 1<<32 - 1
)

// Sort reorders the entry table so serialization follows the requested
// order. Only the common "type,-year" ordering (ascending entry type,
// descending publication year) is supported.
func (db *Database) Sort(flds string) error {
	if db.EntryCount() == 0 {
		return fmt.Errorf("nothing to sort")
	}
	if flds != "type,-year" {
		return fmt.Errorf("not implemented")
	}
	entries := make([]*Entry, 0, db.EntryCount())
	for p := db.Entries.Oldest(); p != nil; p = p.Next() {
		entries = append(entries, p.Value)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		ei, ej := entries[i], entries[j]
		if ei.Type != ej.Type {
			return ei.Type < ej.Type
		}
		yi, err := strconv.Atoi(db.FieldText(ei, "year"))
		if err != nil {
			yi = Missing
		}
		yj, err := strconv.Atoi(db.FieldText(ej, "year"))
		if err != nil {
			yj = Missing
		}
		return yi > yj // descending sort
	})
	sorted := orderedmap.New[string, *Entry]()
	for _, e := range entries {
		sorted.Set(e.Key, e)
	}
	db.Entries = sorted
	return nil
}
