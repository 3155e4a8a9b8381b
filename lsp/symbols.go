package lsp

import (
	"context"
	"strings"
	"unicode/utf16"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/hlsl"
)

// DocumentSymbol handles textDocument/documentSymbol requests.
// Returns the functions declared in the document for the outline view.
func (s *Server) DocumentSymbol(_ context.Context, params *protocol.DocumentSymbolParams) ([]any, error) {
	s.logger.Debug("DocumentSymbol",
		zap.String("uri", string(params.TextDocument.URI)))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	symbols := buildDocumentSymbols(URIToPath(doc.URI), doc.Content)

	// Convert to []any for the protocol
	result := make([]any, len(symbols))
	for i, sym := range symbols {
		result[i] = sym
	}

	return result, nil
}

// buildDocumentSymbols creates one symbol per function declaration.
func buildDocumentSymbols(path, content string) []protocol.DocumentSymbol {
	lines := strings.Split(content, "\n")

	var symbols []protocol.DocumentSymbol

	for fn := range hlsl.ExtractFunctions(path, content) {
		sel := nameRange(fn.Pos, fn.Name)

		symbols = append(symbols, protocol.DocumentSymbol{
			Name:           fn.Name,
			Detail:         fn.Signature(),
			Kind:           protocol.SymbolKindFunction,
			Range:          lineRange(lines, sel.Start.Line),
			SelectionRange: sel,
		})
	}

	return symbols
}

// lineRange returns the range covering a whole line, excluding the line break.
func lineRange(lines []string, line uint32) protocol.Range {
	var width uint32
	if int(line) < len(lines) {
		for _, r := range strings.TrimSuffix(lines[line], "\r") {
			width += uint32(utf16.RuneLen(r)) //nolint:gosec // RuneLen is 1 or 2 for valid runes
		}
	}

	return protocol.Range{
		Start: protocol.Position{Line: line},
		End:   protocol.Position{Line: line, Character: width},
	}
}
