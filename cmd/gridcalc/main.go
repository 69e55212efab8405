package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/midbel/cli"
)

var (
	summary = "gridcalc"
	help    = "inspect and edit sparse spreadsheet snapshots"
)

var logger = slog.New(slog.DiscardHandler)

func main() {
	var (
		set     = cli.NewFlagSet("gridcalc")
		root    = prepare()
		verbose bool
	)
	set.BoolVar(&verbose, "v", false, "print debug messages")
	root.SetSummary(summary)
	root.SetHelp(help)
	if err := set.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			root.Help()
			os.Exit(2)
		}
	}
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	err := root.Execute(set.Args())
	if err != nil {
		if s, ok := err.(cli.SuggestionError); ok && len(s.Others) > 0 {
			fmt.Fprintln(os.Stderr, "similar command(s)")
			for _, n := range s.Others {
				fmt.Fprintln(os.Stderr, "-", n)
			}
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func prepare() *cli.CommandTrie {
	root := cli.New()
	root.Register([]string{"set"}, &setCmd)
	root.Register([]string{"eval"}, &evalCmd)
	root.Register([]string{"insert-row"}, &insertRowCmd)
	root.Register([]string{"delete-row"}, &deleteRowCmd)
	root.Register([]string{"insert-col"}, &insertColCmd)
	root.Register([]string{"delete-col"}, &deleteColCmd)
	root.Register([]string{"stats"}, &statsCmd)
	root.Register([]string{"cells"}, &cellsCmd)
	root.Register([]string{"tokens"}, &tokensCmd)
	root.Register([]string{"parse"}, &parseCmd)
	root.Register([]string{"import"}, &importCmd)
	root.Register([]string{"export"}, &exportCmd)
	return root
}

var setCmd = cli.Command{
	Name:    "set",
	Summary: "set the content of a cell",
	Usage:   "set [-o file] <snapshot> <cell> <value|=formula>",
	Handler: &SetCellCommand{},
}

var evalCmd = cli.Command{
	Name:    "eval",
	Alias:   []string{"get"},
	Summary: "print the value of cells",
	Usage:   "eval [-f pattern] <snapshot> <cell> [<cell>,...]",
	Handler: &EvalCellCommand{},
}

var insertRowCmd = cli.Command{
	Name:    "insert-row",
	Summary: "insert an empty row before the given one",
	Usage:   "insert-row [-o file] <snapshot> <row>",
	Handler: &EditCommand{Kind: insertRow},
}

var deleteRowCmd = cli.Command{
	Name:    "delete-row",
	Summary: "delete a row",
	Usage:   "delete-row [-o file] <snapshot> <row>",
	Handler: &EditCommand{Kind: deleteRow},
}

var insertColCmd = cli.Command{
	Name:    "insert-col",
	Summary: "insert an empty column before the given one",
	Usage:   "insert-col [-o file] <snapshot> <column>",
	Handler: &EditCommand{Kind: insertCol},
}

var deleteColCmd = cli.Command{
	Name:    "delete-col",
	Summary: "delete a column",
	Usage:   "delete-col [-o file] <snapshot> <column>",
	Handler: &EditCommand{Kind: deleteCol},
}

var statsCmd = cli.Command{
	Name:    "stats",
	Alias:   []string{"info"},
	Summary: "print statistics about the store of a snapshot",
	Usage:   "stats <snapshot>",
	Handler: &StatsCommand{},
}

var cellsCmd = cli.Command{
	Name:    "cells",
	Alias:   []string{"print", "dump"},
	Summary: "list the cells of a snapshot",
	Usage:   "cells [-where expr] [-r] <snapshot>",
	Handler: &ListCellsCommand{},
}

var tokensCmd = cli.Command{
	Name:    "tokens",
	Summary: "print the tokens of a formula",
	Usage:   "tokens <formula>",
	Handler: &TokensCommand{},
}

var parseCmd = cli.Command{
	Name:    "parse",
	Summary: "print the syntax tree of a formula",
	Usage:   "parse <formula>",
	Handler: &ParseCommand{},
}

var importCmd = cli.Command{
	Name:    "import",
	Summary: "create a snapshot from a xlsx, csv, sheet xml or json file",
	Usage:   "import [-o file] [-s sheet] [-l] <file>",
	Handler: &ImportCommand{},
}

var exportCmd = cli.Command{
	Name:    "export",
	Summary: "write the values of a snapshot as csv",
	Usage:   "export [-o file] [-c delimiter] [-f pattern] [-r] <snapshot>",
	Handler: &ExportCommand{},
}
