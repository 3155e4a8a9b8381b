package main

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/rlch/hlsl/catalog"
)

// Color palette (Tailwind-inspired).
var (
	colorType     = lipgloss.Color("#06b6d4") // cyan-500
	colorFunction = lipgloss.Color("#3b82f6") // blue-500
	colorSemantic = lipgloss.Color("#d946ef") // fuchsia-500
	colorKeyword  = lipgloss.Color("#f59e0b") // amber-500
	colorDim      = lipgloss.Color("#6b7280") // gray-500
	colorPath     = lipgloss.Color("#10b981") // green-500
)

// styles holds the lipgloss styles for listing output.
type styles struct {
	Name   lipgloss.Style
	Detail lipgloss.Style
	Path   lipgloss.Style
	Dim    lipgloss.Style

	kinds map[catalog.Category]lipgloss.Style
}

// newStyles returns colored styles when w is a terminal and plain ones otherwise.
func newStyles(w io.Writer) *styles {
	if f, ok := w.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		return plainStyles()
	}

	return &styles{
		Name:   lipgloss.NewStyle().Bold(true),
		Detail: lipgloss.NewStyle(),
		Path:   lipgloss.NewStyle().Foreground(colorPath),
		Dim:    lipgloss.NewStyle().Foreground(colorDim),
		kinds: map[catalog.Category]lipgloss.Style{
			catalog.Datatype:         lipgloss.NewStyle().Foreground(colorType),
			catalog.Function:         lipgloss.NewStyle().Foreground(colorFunction),
			catalog.Semantic:         lipgloss.NewStyle().Foreground(colorSemantic),
			catalog.NumberedSemantic: lipgloss.NewStyle().Foreground(colorSemantic),
			catalog.Keyword:          lipgloss.NewStyle().Foreground(colorKeyword),
		},
	}
}

// plainStyles renders text unchanged, for pipes and tests.
func plainStyles() *styles {
	plain := lipgloss.NewStyle()

	return &styles{
		Name:   plain,
		Detail: plain,
		Path:   plain,
		Dim:    plain,
		kinds:  map[catalog.Category]lipgloss.Style{},
	}
}

// Kind returns the style for a category.
func (s *styles) Kind(c catalog.Category) lipgloss.Style {
	if st, ok := s.kinds[c]; ok {
		return st
	}

	return s.Dim
}
