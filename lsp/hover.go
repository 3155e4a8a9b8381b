package lsp

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/hlsl/completion"
)

// Hover handles textDocument/hover requests.
// Shows the signature and description of the built-in symbol or workspace
// function under the cursor.
func (s *Server) Hover(ctx context.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	s.logger.Debug("Hover",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Uint32("line", params.Position.Line),
		zap.Uint32("character", params.Position.Character))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil //nolint:nilnil
	}

	rng, word := completion.WordRangeAt(doc.Content, fromProtocolPosition(params.Position))
	if word == "" {
		return nil, nil //nolint:nilnil
	}

	c, found, err := s.completer.Lookup(ctx, word)
	if err != nil {
		s.logger.Debug("Hover lookup failed", zap.String("word", word), zap.Error(err))

		return nil, nil //nolint:nilnil
	}

	if !found {
		return nil, nil //nolint:nilnil
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: s.hoverContent(c),
		},
		Range: rangePtr(toProtocolRange(rng)),
	}, nil
}

// hoverContent generates hover markdown for a candidate.
func (s *Server) hoverContent(c completion.Candidate) string {
	var b strings.Builder

	b.WriteString("```hlsl\n")

	switch {
	case c.FromWorkspace():
		b.WriteString(c.Detail)
	case c.Parameters != nil:
		b.WriteString(c.Detail)
	default:
		fmt.Fprintf(&b, "(%s) %s", c.Kind.Label(), c.Name)
	}

	b.WriteString("\n```")

	if c.Documentation != "" {
		b.WriteString("\n\n")
		b.WriteString(c.Documentation)
	}

	if c.FromWorkspace() {
		fmt.Fprintf(&b, "\n\nDefined in `%s:%d`", s.relativePath(c.Path), c.Pos.Line)
	}

	return b.String()
}

// relativePath returns path relative to the workspace root when possible.
func (s *Server) relativePath(path string) string {
	root := s.fileLoader.WorkspaceRoot()
	if root == "" {
		return path
	}

	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}

	return filepath.ToSlash(rel)
}
