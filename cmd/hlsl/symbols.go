package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/rlch/hlsl"
)

func symbolsCommand() *cli.Command {
	return &cli.Command{
		Name:      "symbols",
		Usage:     "List functions declared in the workspace files",
		ArgsUsage: "[query]",
		Flags:     workspaceFlags(),
		Action:    runSymbols,
	}
}

func runSymbols(ctx context.Context, cmd *cli.Command) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	fns, err := s.aggregator.WorkspaceFunctions(ctx)
	if err != nil {
		return err
	}

	fns = filterFunctions(fns, cmd.Args().First())

	if cmd.Bool("json") {
		return writeFunctionsJSON(os.Stdout, s, fns)
	}

	writeFunctions(os.Stdout, newStyles(os.Stdout), s, fns)

	return nil
}

// filterFunctions keeps the functions whose name contains query, ignoring case.
func filterFunctions(fns []hlsl.Function, query string) []hlsl.Function {
	if query == "" {
		return fns
	}

	query = strings.ToLower(query)

	var out []hlsl.Function

	for _, fn := range fns {
		if strings.Contains(strings.ToLower(fn.Name), query) {
			out = append(out, fn)
		}
	}

	return out
}

type functionJSON struct {
	Name       string   `json:"name"`
	Signature  string   `json:"signature"`
	Parameters []string `json:"parameters"`
	Path       string   `json:"path"`
	Line       int      `json:"line"`
	Column     int      `json:"column"`
}

func writeFunctionsJSON(w io.Writer, s *session, fns []hlsl.Function) error {
	out := make([]functionJSON, len(fns))
	for i, fn := range fns {
		out[i] = functionJSON{
			Name:       fn.Name,
			Signature:  fn.Signature(),
			Parameters: fn.Parameters,
			Path:       s.relative(fn.Pos.Filename),
			Line:       fn.Pos.Line,
			Column:     fn.Pos.Column,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(out)
}

// writeFunctions prints "path:line:col  signature" per function.
func writeFunctions(w io.Writer, st *styles, s *session, fns []hlsl.Function) {
	locs := make([]string, len(fns))
	width := 0

	for i, fn := range fns {
		locs[i] = fmt.Sprintf("%s:%d:%d", s.relative(fn.Pos.Filename), fn.Pos.Line, fn.Pos.Column)
		width = max(width, len(locs[i]))
	}

	for i, fn := range fns {
		_, _ = fmt.Fprintf(w, "%s  %s\n",
			st.Path.Render(fmt.Sprintf("%-*s", width, locs[i])),
			st.Name.Render(fn.Signature()))
	}

	if len(fns) == 0 {
		_, _ = fmt.Fprintln(w, st.Dim.Render("no functions found"))
	}
}
