package bibdb

import (
	"fmt"
	"io"
	"os"
)

// Load parses the named bibtex file.
func Load(fileName string) (*Database, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, fmt.Errorf("can't process file %s: %w", fileName, err)
	}
	defer f.Close()
	return Parse(f, fileName)
}

// Save serializes the database to the named file using the given delimiter
// style. Unless overwrite is set, an existing destination is an error.
func (db *Database) Save(fileName string, delim Delimiter, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(fileName); err == nil {
			return fmt.Errorf("%s already exists; not overwriting", fileName)
		} else if !os.IsNotExist(err) {
			return err
		}
	}
	return saveWith(fileName, func(w io.Writer) error {
		return db.Write(w, delim)
	})
}

// SaveOverwrite is Save with the overwrite guard lifted.
func (db *Database) SaveOverwrite(fileName string, delim Delimiter) error {
	return db.Save(fileName, delim, true)
}
