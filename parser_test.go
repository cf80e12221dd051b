package bibdb

import (
	"strings"
	"testing"

	"github.com/drgo/core/tu"
)

const bib1 = `
@string{goossens = "Goossens, Michel"}

This line is an implicit comment.

@article{FuMetalhalideperovskite2019,
    author = "Yongping Fu and Haiming Zhu and Jie Chen and Matthew P. Hautzinger and X.-Y. Zhu and Song Jin",
    doi = {10.1038/s41578-019-0080-9},
    journal = {Nature Reviews Materials},
    month = {feb},
    number = {3},
    pages = {169-188},
    publisher = {Springer Science and Business Media {LLC}},
    title = {Metal halide perovskite nanostructures for optoelectronic applications and the study of physical properties},
    url = {https://www.nature.com/articles/s41578-019-0080-9},
    volume = {4},
    year = {2019}
}

@comment{
    This is a comment.
    Spanning over two lines.
}

@preamble{"e = mc^2"}

@inproceedings{LiuPhotocatalytichydrogenproduction2016,
    author = {Maochang Liu and Yubin Chen and Jinzhan Su and Jinwen Shi and Xixi Wang and Liejin Guo},
    doi = {10.1038/nenergy.2016.151},
    journal = {Nature Energy},
    month = {sep},
    pages = {16151},
    title = {Photocatalytic hydrogen production using twinned nanocrystals and an unanchored {NiSx} co-catalyst},
    volume = {1},
    year = {2016}
}

@string{mittelbach="Mittelbach, Franck"}

@Comment{This is another comment}
`

func parseTestString(t *testing.T, src string) *Database {
	t.Helper()
	db, err := ParseString(src)
	tu.Equal(t, err, nil, tu.FailNow)
	tu.NotNil(t, db, tu.FailNow)
	return db
}

func TestParser(t *testing.T) {
	db := parseTestString(t, bib1)
	tu.Equal(t, db.EntryCount(), 2)
	tu.Equal(t, db.Strings.Len(), 2)
	tu.Equal(t, len(db.Preamble), 1)

	first := db.Entries.Oldest()
	tu.NotNil(t, first, tu.FailNow)
	tu.Equal(t, first.Key, "FuMetalhalideperovskite2019")
	tu.Equal(t, first.Value.Type, "article")
	tu.Equal(t, first.Value.Fields.Len(), 11)
	tu.Equal(t, first.Value.Field("year").String(), "{2019}")
	// nested braces kept verbatim
	tu.Equal(t, first.Value.Field("publisher").String(),
		"{Springer Science and Business Media {LLC}}")

	mac := db.Strings.Oldest()
	tu.NotNil(t, mac, tu.FailNow)
	tu.Equal(t, mac.Key, "goossens")
	tu.Equal(t, mac.Value.String(), `"Goossens, Michel"`)
	tu.Equal(t, db.Preamble[0].String(), `"e = mc^2"`)
}

func TestParserScenario(t *testing.T) {
	src := "@string{and = \" and \"}\n@article{k1, author = {A} # and # {B}, year = 1999}"
	db := parseTestString(t, src)

	tu.Equal(t, db.Strings.Len(), 1)
	v, ok := db.Strings.Get("and")
	tu.Equal(t, ok, true, tu.FailNow)
	tu.Equal(t, v.String(), `" and "`)

	e, ok := db.Entries.Get("k1")
	tu.Equal(t, ok, true, tu.FailNow)
	tu.Equal(t, e.Type, "article")
	author := e.Field("author")
	tu.Equal(t, len(author), 3)
	tu.Equal(t, author[0], Piece{Kind: TextPiece, Raw: "{A}"})
	tu.Equal(t, author[1], Piece{Kind: MacroPiece, Raw: "and"})
	tu.Equal(t, author[2], Piece{Kind: TextPiece, Raw: "{B}"})
	year := e.Field("year")
	tu.Equal(t, len(year), 1)
	tu.Equal(t, year[0], Piece{Kind: NumberPiece, Num: 1999})

	text, err := author.Resolve(db)
	tu.Equal(t, err, nil)
	tu.Equal(t, text, "A and B")

	// serialize and reparse reproduces the same structure
	db2 := parseTestString(t, db.String())
	tu.Equal(t, db.Equal(db2), true)
}

func TestCaseNormalization(t *testing.T) {
	db := parseTestString(t, "@ARTICLE{KeY, AuThOr = {A}, YEAR = 1999}\n@STRING{JaN = \"January\"}")
	e, ok := db.Entries.Get("KeY")
	tu.Equal(t, ok, true, tu.FailNow)
	tu.Equal(t, e.Type, "article")
	tu.NotNil(t, e.Field("author"), tu.FailNow)
	tu.NotNil(t, e.Field("year"), tu.FailNow)
	// macro names preserve case exactly
	_, ok = db.Strings.Get("JaN")
	tu.Equal(t, ok, true)
	_, ok = db.Strings.Get("jan")
	tu.Equal(t, ok, false)
}

func TestDuplicateKey(t *testing.T) {
	_, err := ParseString("@article{k1, year = 1999}\n@book{k1, year = 2000}")
	tu.NotNil(t, err, tu.FailNow)
	tu.Equal(t, strings.Contains(err.Error(), `duplicate citation key "k1"`), true)
}

func TestDuplicateMacro(t *testing.T) {
	_, err := ParseString("@string{and = \" and \"}\n@string{and = \" und \"}")
	tu.NotNil(t, err, tu.FailNow)
	tu.Equal(t, strings.Contains(err.Error(), `duplicate definition of macro "and"`), true)
}

func TestDuplicateField(t *testing.T) {
	_, err := ParseString("@article{k1, year = 1999, Year = 2000}")
	tu.NotNil(t, err, tu.FailNow)
	tu.Equal(t, strings.Contains(err.Error(), `duplicate field "year"`), true)
}

func TestDuplicateFieldWithEmptyValue(t *testing.T) {
	// the duplicate name must be rejected even though its value is absent
	// and the field loop would otherwise end silently
	_, err := ParseString("@article{k1, year = 1999, year = }")
	tu.NotNil(t, err, tu.FailNow)
	tu.Equal(t, strings.Contains(err.Error(), `duplicate field "year"`), true)
}

func TestDuplicateFieldBeforeMissingEquals(t *testing.T) {
	// the duplicate check runs before the '=' check
	_, err := ParseString("@article{k1, year = 1999, year 2000}")
	tu.NotNil(t, err, tu.FailNow)
	tu.Equal(t, strings.Contains(err.Error(), `duplicate field "year"`), true)
}

func TestCommentTolerance(t *testing.T) {
	db := parseTestString(t, `
junk with no at sign
@ {stray marker with no keyword}
@comment{skipped entirely}
@article{k1, year = 1999}
trailing junk`)
	tu.Equal(t, db.EntryCount(), 1)
}

func TestNoEntries(t *testing.T) {
	db := parseTestString(t, "no entry markers at all")
	tu.Equal(t, db.EntryCount(), 0)
	tu.Equal(t, db.Strings.Len(), 0)
	tu.Equal(t, len(db.Preamble), 0)
}

func TestEmptyPreamble(t *testing.T) {
	db := parseTestString(t, "@preamble{}")
	tu.Equal(t, len(db.Preamble), 0)
}

func TestParenDelimitedEntry(t *testing.T) {
	db := parseTestString(t, "@article(k1, year = 1999)")
	e, ok := db.Entries.Get("k1")
	tu.Equal(t, ok, true, tu.FailNow)
	tu.Equal(t, e.Field("year").String(), "1999")
}

func TestTrailingComma(t *testing.T) {
	db := parseTestString(t, "@article{k1, year = 1999,}")
	tu.Equal(t, db.EntryCount(), 1)
}

// A malformed field name after a comma ends field scanning silently; the
// entry then fails only if the closing delimiter is not next. This mirrors
// long-standing bibtex reader behavior rather than reporting the bad name.
func TestMalformedFieldNameTruncatesEntry(t *testing.T) {
	db := parseTestString(t, "@article{k1, year = 1999, }")
	e, _ := db.Entries.Get("k1")
	tu.NotNil(t, e, tu.FailNow)
	tu.Equal(t, e.Fields.Len(), 1)

	_, err := ParseString("@article{k1, year = 1999, (bad}")
	tu.NotNil(t, err, tu.FailNow)
	tu.Equal(t, strings.Contains(err.Error(), "expected '}'"), true)
}

func TestMissingEquals(t *testing.T) {
	_, err := ParseString("@article{k1, year 1999}")
	tu.NotNil(t, err, tu.FailNow)
	tu.Equal(t, strings.Contains(err.Error(), `expected '=' after field name "year"`), true)
}

func TestMissingKey(t *testing.T) {
	_, err := ParseString("@article{, year = 1999}")
	tu.NotNil(t, err, tu.FailNow)
	tu.Equal(t, strings.Contains(err.Error(), "citation key missing"), true)
}

func TestMissingOpener(t *testing.T) {
	_, err := ParseString("@article k1, year = 1999")
	tu.NotNil(t, err, tu.FailNow)
	tu.Equal(t, strings.Contains(err.Error(), "expected '{' or '(' after @article"), true)
}

func TestDelimiterMismatch(t *testing.T) {
	_, err := ParseString("@article(k1, year = 1999}")
	tu.NotNil(t, err, tu.FailNow)
	tu.Equal(t, strings.Contains(err.Error(), "expected ')'"), true)
}

func TestEmptyStringValue(t *testing.T) {
	_, err := ParseString("@string{and = }")
	tu.NotNil(t, err, tu.FailNow)
	tu.Equal(t, strings.Contains(err.Error(), `empty value in @string definition of "and"`), true)
}

func TestTryParse(t *testing.T) {
	db, ok := TryParse("@article{k1, year = 1999}")
	tu.Equal(t, ok, true)
	tu.NotNil(t, db, tu.FailNow)
	db, ok = TryParse("@article{k1, year = 1999, year = 2000}")
	tu.Equal(t, ok, false)
	tu.Equal(t, db == nil, true)
}

func TestFetchValueConcat(t *testing.T) {
	c := newCursor(`{A} # mid # "B" # 3`)
	v, err := fetchValue(&c)
	tu.Equal(t, err, nil, tu.FailNow)
	tu.Equal(t, len(v), 4)
	tu.Equal(t, v.String(), `{A} # mid # "B" # 3`)
	tu.Equal(t, c.exhausted(), true)
}

func TestFetchValueRestoresBeforeDanglingHash(t *testing.T) {
	src := `{A} # , year`
	c := newCursor(src)
	v, err := fetchValue(&c)
	tu.Equal(t, err, nil, tu.FailNow)
	tu.Equal(t, len(v), 1)
	// cursor must sit on the '#', not past it
	tu.Equal(t, c.pos, strings.IndexByte(src, '#'))
}

func TestFetchValueEmptyLeavesCursor(t *testing.T) {
	c := newCursor(", next")
	v, err := fetchValue(&c)
	tu.Equal(t, err, nil, tu.FailNow)
	tu.Equal(t, len(v), 0)
	tu.Equal(t, c.pos, 0)
}
