package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/rlch/hlsl/catalog"
	"github.com/rlch/hlsl/completion"
)

func catalogCommand() *cli.Command {
	return &cli.Command{
		Name:      "catalog",
		Usage:     "List built-in HLSL symbols",
		ArgsUsage: "[prefix]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "category",
				Aliases: []string{"k"},
				Usage:   "only list one category (datatype, function, semantic, numbered-semantic, keyword)",
			},
		},
		Action: runCatalog,
	}
}

func runCatalog(_ context.Context, cmd *cli.Command) error {
	tables := catalog.Tables()

	if name := cmd.String("category"); name != "" {
		table, err := tableByName(name)
		if err != nil {
			return err
		}

		tables = []*catalog.Table{table}
	}

	writeCatalog(os.Stdout, newStyles(os.Stdout), tables, cmd.Args().First())

	return nil
}

func tableByName(name string) (*catalog.Table, error) {
	for _, t := range catalog.Tables() {
		if t.Category().String() == name {
			return t, nil
		}
	}

	return nil, fmt.Errorf("unknown category %q", name)
}

// writeCatalog prints the entries of tables that start with prefix, one
// section per category.
func writeCatalog(w io.Writer, st *styles, tables []*catalog.Table, prefix string) {
	for _, t := range tables {
		var rows []catalog.Entry

		for e := range t.All() {
			if completion.Matches(prefix, e.Name) {
				rows = append(rows, e)
			}
		}

		if len(rows) == 0 {
			continue
		}

		_, _ = fmt.Fprintf(w, "%s %s\n", st.Kind(t.Category()).Render(t.Category().String()), st.Dim.Render(fmt.Sprintf("(%d)", len(rows))))

		for _, e := range rows {
			line := "  " + st.Name.Render(e.Name)
			if e.HasSignature() {
				line += st.Detail.Render(signatureOf(e))
			}

			if e.Description != "" {
				line += "  " + st.Dim.Render(e.Description)
			}

			_, _ = fmt.Fprintln(w, line)
		}
	}
}

func signatureOf(e catalog.Entry) string {
	labels := make([]string, len(e.Parameters))
	for i, p := range e.Parameters {
		labels[i] = p.Label
	}

	return "(" + strings.Join(labels, ", ") + ")"
}
