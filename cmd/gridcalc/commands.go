package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/midbel/cli"
	"github.com/midbel/gridcalc/csv"
	"github.com/midbel/gridcalc/doc"
	"github.com/midbel/gridcalc/format"
	"github.com/midbel/gridcalc/formula/eval"
	"github.com/midbel/gridcalc/grid"
	"github.com/midbel/gridcalc/layout"
	"github.com/midbel/gridcalc/oxml"
)

func openSheet(file string) (*grid.Sheet, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	store := grid.NewStore()
	if err := store.ImportJSON(data); err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	sh, err := grid.NewSheet(grid.WithStore(store), grid.WithSheetLogger(logger))
	if err != nil {
		logger.Warn("formulas not loaded", "file", file, "err", err)
	}
	return sh, nil
}

func valueFormatter(pattern string) (*format.ValueFormatter, error) {
	vf := format.FormatValue()
	if pattern == "" {
		return vf, nil
	}
	return vf, vf.Number(pattern)
}

func writeStore(store *grid.Store, file string) error {
	data, err := store.ExportJSON()
	if err != nil {
		return err
	}
	return os.WriteFile(file, data, 0o644)
}

// parseRaw converts the text given on the command line to the value stored
// in a cell.
func parseRaw(str string) any {
	if strings.HasPrefix(str, "=") {
		return str
	}
	if n, err := strconv.ParseFloat(str, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(str); err == nil {
		return b
	}
	return str
}

type SetCellCommand struct {
	OutFile string
}

func (c SetCellCommand) Run(args []string) error {
	set := cli.NewFlagSet("set")
	set.StringVar(&c.OutFile, "o", "", "write result to output file")
	if err := set.Parse(args); err != nil {
		return err
	}
	if set.NArg() != 3 {
		return fmt.Errorf("invalid number of arguments")
	}
	sh, err := openSheet(set.Arg(0))
	if err != nil {
		return err
	}
	pos, err := layout.ParsePosition(set.Arg(1))
	if err != nil {
		return err
	}
	if err := sh.SetValue(pos.Line, pos.Column, parseRaw(set.Arg(2))); err != nil {
		return err
	}
	if c.OutFile == "" {
		c.OutFile = set.Arg(0)
	}
	return writeStore(sh.Store(), c.OutFile)
}

type EvalCellCommand struct {
	Pattern string
}

func (c EvalCellCommand) Run(args []string) error {
	set := cli.NewFlagSet("eval")
	set.StringVar(&c.Pattern, "f", "", "number pattern used to print values")
	if err := set.Parse(args); err != nil {
		return err
	}
	vf, err := valueFormatter(c.Pattern)
	if err != nil {
		return err
	}
	if set.NArg() < 2 {
		return fmt.Errorf("invalid number of arguments")
	}
	sh, err := openSheet(set.Arg(0))
	if err != nil {
		return err
	}
	for _, addr := range set.Args()[1:] {
		pos, err := layout.ParsePosition(addr)
		if err != nil {
			return err
		}
		str, err := vf.Format(sh.Value(pos.Line, pos.Column))
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%s: %s", pos.Addr(), str)
		fmt.Fprintln(os.Stdout)
	}
	return nil
}

type editKind int

const (
	insertRow editKind = iota
	deleteRow
	insertCol
	deleteCol
)

type EditCommand struct {
	Kind    editKind
	OutFile string
}

func (c EditCommand) Run(args []string) error {
	set := cli.NewFlagSet("edit")
	set.StringVar(&c.OutFile, "o", "", "write result to output file")
	if err := set.Parse(args); err != nil {
		return err
	}
	if set.NArg() != 2 {
		return fmt.Errorf("invalid number of arguments")
	}
	sh, err := openSheet(set.Arg(0))
	if err != nil {
		return err
	}
	switch c.Kind {
	case insertRow, deleteRow:
		at, err := strconv.ParseInt(set.Arg(1), 10, 64)
		if err != nil || at <= 0 {
			return fmt.Errorf("%s: invalid row number", set.Arg(1))
		}
		if c.Kind == insertRow {
			err = sh.InsertLine(at - 1)
		} else {
			err = sh.DeleteLine(at - 1)
		}
		if err != nil {
			return err
		}
	case insertCol, deleteCol:
		at, err := layout.ColumnIndex(set.Arg(1))
		if err != nil {
			return err
		}
		if c.Kind == insertCol {
			err = sh.InsertColumn(at)
		} else {
			err = sh.DeleteColumn(at)
		}
		if err != nil {
			return err
		}
	}
	if c.OutFile == "" {
		c.OutFile = set.Arg(0)
	}
	return writeStore(sh.Store(), c.OutFile)
}

type StatsCommand struct{}

func (c StatsCommand) Run(args []string) error {
	set := cli.NewFlagSet("stats")
	if err := set.Parse(args); err != nil {
		return err
	}
	sh, err := openSheet(set.Arg(0))
	if err != nil {
		return err
	}
	st := sh.Store().Stats()
	fmt.Fprintln(os.Stdout, st)
	fmt.Fprintf(os.Stdout, "formulas: %d", sh.Formulas().Len())
	fmt.Fprintln(os.Stdout)
	return nil
}

type ListCellsCommand struct {
	Where string
	Raw   bool
}

func (c ListCellsCommand) Run(args []string) error {
	set := cli.NewFlagSet("cells")
	set.StringVar(&c.Where, "where", "", "only print cells matching expression")
	set.BoolVar(&c.Raw, "r", false, "print formula text instead of its value")
	if err := set.Parse(args); err != nil {
		return err
	}
	sh, err := openSheet(set.Arg(0))
	if err != nil {
		return err
	}
	keep, err := compileFilter(c.Where)
	if err != nil {
		return err
	}
	for pos, raw := range sh.Store().Cells() {
		val := sh.Value(pos.Line, pos.Column)
		ok, err := keep(pos, raw, val)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		str := val.String()
		if c.Raw {
			str = fmt.Sprint(raw)
		}
		fmt.Fprintf(os.Stdout, "%s\t%s", pos.Addr(), str)
		fmt.Fprintln(os.Stdout)
	}
	return nil
}

type TokensCommand struct {
	Native bool
}

func (c TokensCommand) Run(args []string) error {
	set := cli.NewFlagSet("tokens")
	set.BoolVar(&c.Native, "n", false, "use the formula scanner instead of the excel tokenizer")
	if err := set.Parse(args); err != nil {
		return err
	}
	str := strings.Join(set.Args(), " ")
	if c.Native {
		for _, tok := range eval.Tokenize(str) {
			fmt.Fprintln(os.Stdout, tok)
		}
		return nil
	}
	for _, tok := range eval.ExcelTokens(str) {
		fmt.Fprintf(os.Stdout, "%-12s %-12s %s", tok.Type, tok.SubType, tok.Value)
		fmt.Fprintln(os.Stdout)
	}
	return nil
}

type ParseCommand struct {
	Format bool
}

func (c ParseCommand) Run(args []string) error {
	set := cli.NewFlagSet("parse")
	set.BoolVar(&c.Format, "f", false, "print the normalized formula")
	if err := set.Parse(args); err != nil {
		return err
	}
	expr, err := eval.Parse(strings.Join(set.Args(), " "))
	if err != nil {
		return err
	}
	if c.Format {
		fmt.Fprintln(os.Stdout, "="+eval.Format(expr))
	} else {
		fmt.Fprintln(os.Stdout, eval.DumpExpr(expr))
	}
	return nil
}

type ImportCommand struct {
	OutFile string
	Sheet   string
	List    bool
}

func (c ImportCommand) Run(args []string) error {
	set := cli.NewFlagSet("import")
	set.StringVar(&c.OutFile, "o", "", "write snapshot to output file")
	set.StringVar(&c.Sheet, "s", "", "name of the sheet to import")
	set.BoolVar(&c.List, "l", false, "list the sheets of the workbook")
	if err := set.Parse(args); err != nil {
		return err
	}
	file := set.Arg(0)
	if c.List {
		names, err := oxml.Sheets(file)
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Fprintln(os.Stdout, n)
		}
		return nil
	}
	store := grid.NewStore()
	if err := doc.Load(file, c.Sheet, store); err != nil {
		return err
	}
	logger.Debug("file imported", "file", file, "cells", store.Len())
	if c.OutFile == "" {
		c.OutFile = strings.TrimSuffix(file, filepath.Ext(file)) + ".json"
	}
	return writeStore(store, c.OutFile)
}

type ExportCommand struct {
	OutFile string
	Comma   string
	Pattern string
	Raw     bool
}

func (c ExportCommand) Run(args []string) error {
	set := cli.NewFlagSet("export")
	set.StringVar(&c.OutFile, "o", "", "write csv to output file")
	set.StringVar(&c.Comma, "c", ",", "field delimiter")
	set.StringVar(&c.Pattern, "f", "", "number pattern used to print values")
	set.BoolVar(&c.Raw, "r", false, "export formula text instead of its value")
	if err := set.Parse(args); err != nil {
		return err
	}
	if len(c.Comma) != 1 {
		return fmt.Errorf("%q: delimiter should be a single character", c.Comma)
	}
	sh, err := openSheet(set.Arg(0))
	if err != nil {
		return err
	}
	vf, err := valueFormatter(c.Pattern)
	if err != nil {
		return err
	}
	options := []csv.ExportOption{
		csv.WithComma(c.Comma[0]),
		csv.WithFormatter(vf),
	}
	if c.Raw {
		options = append(options, csv.WithRaw())
	}
	var w io.Writer = os.Stdout
	if c.OutFile != "" {
		f, err := os.Create(c.OutFile)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return csv.Export(w, sh, options...)
}
