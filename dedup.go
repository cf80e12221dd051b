package bibdb

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strings"
)

type SetActionType int8

const (
	SetNoAction SetActionType = iota
	// SetIntersect finds entries common to one or more sets and
	// returns the entry that belongs to the first set
	SetIntersect
	SetUnion
	SetConcat
)

// EntryInfo ties an entry to the database it came from, so duplicate
// reports can name the source file and line.
type EntryInfo struct {
	Entry  *Entry
	Parent *Database
}

type DedupMap = map[string][]EntryInfo

type DedupReport struct {
	DuplicateSetCount int
	DuplicateSet      DedupMap
	ResultSetCount    int
}

func (dr *DedupReport) Print(w io.Writer) (err error) {
	if dr == nil || dr.DuplicateSetCount == 0 {
		return nil
	}
	fmt.Fprintf(w, "%d duplicate sets found\n", dr.DuplicateSetCount)
	for idxTerm, infos := range dr.DuplicateSet {
		if ndup := len(infos); ndup > 1 {
			_, err = fmt.Fprintf(w, "%s\n[%s] has %d occurrences in lines \n", strings.Repeat("*", 60), idxTerm, ndup)
			for _, info := range infos {
				// write filename: line
				_, err = fmt.Fprintf(w, "%s:%d\n", info.Parent.Name(), info.Entry.Line())
				writeEntry(w, info.Entry, '{', '}')
			}
		}
	}
	if err != nil {
		fmt.Printf("%d records processed\n", dr.ResultSetCount)
	}
	return err
}

func (dr DedupReport) String() string {
	var b = new(bytes.Buffer)
	if err := dr.Print(b); err != nil {
		b.WriteString("error: " + err.Error())
	}
	return b.String()
}

// indexEntry concatenates the resolved values of the named fields into the
// term entries are deduplicated under.
func indexEntry(db *Database, e *Entry, fldNames []string, raw bool) string {
	var sb strings.Builder
	for _, fldname := range fldNames {
		sb.WriteString(db.FieldText(e, fldname))
	}
	if raw {
		return sb.String()
	}
	return onlyASCIIAlphaNumeric(sb.String())
}

// Deduplicate performs various set operations on one or more databases
// using the concatenated resolved values of field names. If no fields are
// specified, the citation key is used to deduplicate the set.
// If no error is encountered, it returns a DedupReport if action == SetNoAction
// and additionally a database of processed entries if action != SetNoAction.
func Deduplicate(dbs []*Database, fldNames []string, action SetActionType) (*Database, *DedupReport, error) {
	if len(dbs) == 0 || dbs[0].EntryCount() == 0 {
		return nil, nil, fmt.Errorf("nothing to deduplicate")
	}
	hasFields := len(fldNames) > 0
	citekey := !hasFields || slices.Contains(fldNames, "citekey")
	dupSet := make(DedupMap, dbs[0].EntryCount()*len(dbs))
	for _, db := range dbs {
		for p := db.Entries.Oldest(); p != nil; p = p.Next() {
			idx := ""
			if hasFields {
				idx = indexEntry(db, p.Value, fldNames, false)
			}
			if citekey {
				idx = idx + p.Value.Key
			}
			dupSet[idx] = append(dupSet[idx], EntryInfo{p.Value, db})
		}
	}
	duplicateSets := 0
	for _, infos := range dupSet {
		if len(infos) > 1 {
			duplicateSets++
		}
	}
	dr := &DedupReport{DuplicateSetCount: duplicateSets, DuplicateSet: dupSet}
	switch action {
	case SetNoAction:
		return nil, dr, nil
	case SetIntersect:
		if duplicateSets == 0 {
			return nil, nil, fmt.Errorf("no common records")
		}
		res := NewDatabase("intersection.bib")
		for _, infos := range dupSet {
			if len(infos) > 1 { // duplicates; keep the first in the set
				if res.AddEntry(infos[0].Entry) {
					dr.ResultSetCount++
				}
			}
		}
		return res, dr, nil
	case SetUnion:
		res := NewDatabase("union.bib")
		for _, infos := range dupSet {
			if res.AddEntry(infos[0].Entry) {
				dr.ResultSetCount++
			}
		}
		return res, dr, nil
	}
	return nil, nil, fmt.Errorf("invalid set action")
}
