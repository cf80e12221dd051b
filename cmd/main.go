package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/drgo/bibdb"
)

var (
	check     = flag.Bool("check", false, "parse inputs and report errors without writing output")
	output    = flag.String("o", "", "where to write the serialized database (default stdout)")
	overwrite = flag.Bool("f", false, "overwrite the output file if it exists")
	parens    = flag.Bool("p", false, "use parenthesis block delimiters instead of braces")
	dedupFlds = flag.String("dedup", "", "comma-separated field names to deduplicate multiple inputs by")
	sortFlds  = flag.String("sort", "", "entry ordering, e.g. type,-year")
	verbose   = flag.Bool("v", false, "verbose")
	version   = "devel"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: bibdb [options] [input.bib ...]\n")
	fmt.Fprintf(os.Stderr, "parses bibtex files and writes them back in canonical form\n\n")
	flag.PrintDefaults()
	os.Exit(2)
}

func verbosef(format string, v ...interface{}) {
	if !*verbose {
		return
	}
	fmt.Printf(format+"\n", v...)
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("bibdb: ")
	flag.Usage = usage
	flag.Parse()
	verbosef("version " + version)
	if err := process(flag.Args()); err != nil {
		var perr *bibdb.ParseError
		if errors.As(err, &perr) {
			log.Fatal(perr.Report())
		}
		log.Fatal(err)
	}
}

func process(inputs []string) error {
	var dbs []*bibdb.Database
	if len(inputs) == 0 {
		db, err := bibdb.Parse(os.Stdin, "stdin")
		if err != nil {
			return err
		}
		dbs = append(dbs, db)
	}
	for _, name := range inputs {
		db, err := bibdb.Load(name)
		if err != nil {
			return err
		}
		verbosef("%s: %d entries", name, db.EntryCount())
		dbs = append(dbs, db)
	}
	if *check {
		return nil
	}

	db := dbs[0]
	if *dedupFlds != "" {
		flds := strings.Split(*dedupFlds, ",")
		merged, dr, err := bibdb.Deduplicate(dbs, flds, bibdb.SetUnion)
		if err != nil {
			return err
		}
		if *verbose {
			dr.Print(os.Stderr)
		}
		db = merged
	} else if len(dbs) > 1 {
		return errors.New("multiple inputs require -dedup")
	}
	if *sortFlds != "" {
		if err := db.Sort(*sortFlds); err != nil {
			return err
		}
	}

	delim := bibdb.Braces
	if *parens {
		delim = bibdb.Parens
	}
	if *output == "" {
		return db.Write(os.Stdout, delim)
	}
	return db.Save(*output, delim, *overwrite)
}
