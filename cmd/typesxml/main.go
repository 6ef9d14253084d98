// Command typesxml parses an XML file, optionally validating it
// against its DOCTYPE's DTD, and reports well-formedness/validity
// errors on stderr.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rmraya/typesxml"
	"github.com/rmraya/typesxml/internal/charsrc"
)

func main() {
	fs := flag.NewFlagSet("typesxml", flag.ExitOnError)
	validate := fs.Bool("validate", false, "validate against the document's internal/external DTD")
	recover_ := fs.Bool("recover", false, "keep parsing past recoverable errors (DTD subset, attribute references, validity)")
	catalogPath := fs.String("catalog", "", "OASIS-catalog-like file for external identifier resolution")
	dump := fs.Bool("dump", false, "print the parsed document back out as XML")
	fs.Parse(os.Args[1:])

	args := fs.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: typesxml [-validate] [-recover] [-catalog file] [-dump] <file.xml>")
		os.Exit(2)
	}

	if err := run(args[0], *validate, *recover_, *catalogPath, *dump); err != nil {
		fmt.Fprintln(os.Stderr, "typesxml:", err)
		os.Exit(1)
	}
}

func run(path string, validate, recoverMode bool, catalogPath string, dump bool) error {
	src, err := charsrc.NewFile(path, "")
	if err != nil {
		return fmt.Errorf("cannot open %s: %w", path, err)
	}
	defer src.Close()

	var catalog *typesxml.Catalog
	if catalogPath != "" {
		catalog, err = typesxml.LoadCatalogFile(catalogPath)
		if err != nil {
			return fmt.Errorf("cannot load catalog %s: %w", catalogPath, err)
		}
	}

	var opts typesxml.ParseOption
	if validate {
		opts |= typesxml.ParseDTDValid | typesxml.ParseDTDAttr
	}
	opts |= typesxml.ParseDTDLoad
	if recoverMode {
		opts |= typesxml.ParseRecover
	}

	var warnings []*typesxml.XMLError
	cfg := &typesxml.Config{
		Options: opts,
		Catalog: catalog,
		Warn: func(e *typesxml.XMLError) {
			warnings = append(warnings, e)
		},
	}

	p := typesxml.NewParser(cfg)
	doc, err := p.ParseDocument(src)
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
	if err != nil {
		return err
	}

	if dump {
		d := &typesxml.Dumper{}
		if err := d.DumpDoc(os.Stdout, doc); err != nil {
			return fmt.Errorf("cannot serialize document: %w", err)
		}
	}
	return nil
}
