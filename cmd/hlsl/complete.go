package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/rlch/hlsl/completion"
)

var errNoFile = errors.New("no file given (use - for stdin)")

func completeCommand() *cli.Command {
	return &cli.Command{
		Name:      "complete",
		Usage:     "List completion candidates at a position in a file",
		ArgsUsage: "<file>",
		Flags: append(workspaceFlags(),
			&cli.IntFlag{
				Name:     "line",
				Aliases:  []string{"l"},
				Usage:    "1-based line of the cursor",
				Required: true,
			},
			&cli.IntFlag{
				Name:    "col",
				Aliases: []string{"c"},
				Usage:   "1-based column of the cursor in UTF-16 code units (default: end of line)",
			},
		),
		Action: runComplete,
	}
}

func runComplete(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return errNoFile
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	path := cmd.Args().First()

	text, err := readSource(path)
	if err != nil {
		return err
	}

	// The file being completed may have unsaved edits relative to what the
	// workspace scan would read.
	if path != "-" {
		abs, err := filepath.Abs(path)
		if err == nil {
			s.loader.SetOverlay(abs, text)
		}
	}

	pos, err := cursorPosition(text, cmd.Int("line"), cmd.Int("col"), cmd.IsSet("col"))
	if err != nil {
		return err
	}

	result, err := s.aggregator.Complete(ctx, text, pos)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return writeCandidatesJSON(os.Stdout, s, result.Candidates)
	}

	writeCandidates(os.Stdout, newStyles(os.Stdout), s, result.Candidates)

	return nil
}

func readSource(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}

		return string(data), nil
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// cursorPosition converts 1-based line and column flags to a completion
// position. Without a column the cursor sits at the end of the line.
func cursorPosition(text string, line, col int, colSet bool) (completion.Position, error) {
	lines := strings.Split(text, "\n")
	if line < 1 || line > len(lines) {
		return completion.Position{}, fmt.Errorf("line %d out of range (1-%d)", line, len(lines))
	}

	if colSet && col < 1 {
		return completion.Position{}, fmt.Errorf("column %d out of range", col)
	}

	pos := completion.Position{Line: uint32(line - 1)} //nolint:gosec // checked above

	if colSet {
		pos.Character = uint32(col - 1) //nolint:gosec // checked above
	} else {
		// Past the end; WordRangeAt clamps to the line length.
		pos.Character = uint32(len(lines[line-1])) //nolint:gosec // byte length bounds the UTF-16 length
	}

	return pos, nil
}

// candidateJSON is the --json form of a candidate.
type candidateJSON struct {
	Name          string   `json:"name"`
	Kind          string   `json:"kind"`
	Detail        string   `json:"detail"`
	Documentation string   `json:"documentation,omitempty"`
	Parameters    []string `json:"parameters,omitempty"`
	Path          string   `json:"path,omitempty"`
	Line          int      `json:"line,omitempty"`
}

func writeCandidatesJSON(w io.Writer, s *session, candidates []completion.Candidate) error {
	out := make([]candidateJSON, len(candidates))
	for i, c := range candidates {
		out[i] = candidateJSON{
			Name:          c.Name,
			Kind:          c.Kind.String(),
			Detail:        c.Detail,
			Documentation: c.Documentation,
			Parameters:    c.Parameters,
		}

		if c.FromWorkspace() {
			out[i].Path = s.relative(c.Path)
			out[i].Line = c.Pos.Line
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(out)
}

// writeCandidates prints one aligned row per candidate: name, kind, detail
// and, for workspace functions, where they are declared.
func writeCandidates(w io.Writer, st *styles, s *session, candidates []completion.Candidate) {
	nameWidth, kindWidth := 0, 0
	for _, c := range candidates {
		nameWidth = max(nameWidth, len(c.Name))
		kindWidth = max(kindWidth, len(c.Kind.String()))
	}

	for _, c := range candidates {
		row := st.Name.Render(fmt.Sprintf("%-*s", nameWidth, c.Name)) + "  " +
			st.Kind(c.Kind).Render(fmt.Sprintf("%-*s", kindWidth, c.Kind.String())) + "  " +
			st.Detail.Render(c.Detail)

		if c.FromWorkspace() {
			row += "  " + st.Path.Render(fmt.Sprintf("%s:%d", s.relative(c.Path), c.Pos.Line))
		}

		_, _ = fmt.Fprintln(w, strings.TrimRight(row, " "))
	}

	if len(candidates) == 0 {
		_, _ = fmt.Fprintln(w, st.Dim.Render("no candidates"))
	}
}
