package bibdb

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/drgo/core/tu"
)

func TestSaveAndLoad(t *testing.T) {
	db := parseTestString(t, bib1)
	name := filepath.Join(t.TempDir(), "out.bib")

	err := db.Save(name, Braces, false)
	tu.Equal(t, err, nil, tu.FailNow)

	db2, err := Load(name)
	tu.Equal(t, err, nil, tu.FailNow)
	tu.Equal(t, db.Equal(db2), true)
	tu.Equal(t, db2.Name(), name)
}

func TestSaveOverwriteGuard(t *testing.T) {
	db := parseTestString(t, "@article{k1, year = 1999}")
	name := filepath.Join(t.TempDir(), "out.bib")
	tu.Equal(t, db.Save(name, Braces, false), nil, tu.FailNow)

	// a second save without the flag must not clobber the file
	err := db.Save(name, Braces, false)
	tu.NotNil(t, err, tu.FailNow)
	tu.Equal(t, strings.Contains(err.Error(), "already exists"), true)

	db2 := parseTestString(t, "@article{k2, year = 2000}")
	tu.Equal(t, db2.Save(name, Braces, true), nil, tu.FailNow)
	got, err := Load(name)
	tu.Equal(t, err, nil, tu.FailNow)
	tu.Equal(t, got.Equal(db2), true)
}

func TestSaveOverwrite(t *testing.T) {
	db := parseTestString(t, "@article{k1, year = 1999}")
	name := filepath.Join(t.TempDir(), "out.bib")
	tu.Equal(t, db.SaveOverwrite(name, Parens), nil, tu.FailNow)
	tu.Equal(t, db.SaveOverwrite(name, Parens), nil)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "no-such.bib"))
	tu.NotNil(t, err, tu.FailNow)
	tu.Equal(t, errors.Is(err, os.ErrNotExist), true)
	tu.Equal(t, strings.Contains(err.Error(), "no-such.bib"), true)
}
