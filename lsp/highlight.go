package lsp

import (
	"context"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/hlsl"
	"github.com/rlch/hlsl/completion"
)

// DocumentHighlight handles textDocument/documentHighlight requests.
// Highlights all occurrences of the identifier under the cursor within the same document.
// The declaration of a function is marked as a write, other occurrences as reads.
func (s *Server) DocumentHighlight(_ context.Context, params *protocol.DocumentHighlightParams) ([]protocol.DocumentHighlight, error) {
	s.logger.Debug("DocumentHighlight",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Uint32("line", params.Position.Line),
		zap.Uint32("character", params.Position.Character))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	_, word := completion.WordRangeAt(doc.Content, fromProtocolPosition(params.Position))
	if word == "" {
		return nil, nil
	}

	decls := make(map[protocol.Position]bool)
	for fn := range hlsl.ExtractFunctions(URIToPath(doc.URI), doc.Content) {
		if fn.Name == word {
			decls[nameRange(fn.Pos, fn.Name).Start] = true
		}
	}

	var highlights []protocol.DocumentHighlight

	for _, rng := range occurrences(doc.Content, word) {
		kind := protocol.DocumentHighlightKindRead
		if decls[rng.Start] {
			kind = protocol.DocumentHighlightKindWrite
		}

		highlights = append(highlights, protocol.DocumentHighlight{Range: rng, Kind: kind})
	}

	return highlights, nil
}

// occurrences returns the ranges of every identifier token equal to word.
// Matches inside comments, strings and preprocessor lines are skipped.
func occurrences(content, word string) []protocol.Range {
	if word == "" {
		return nil
	}

	var ranges []protocol.Range

	for _, tok := range hlsl.Tokenize("", content) {
		if tok.Type == hlsl.TokenIdent && tok.Value == word {
			ranges = append(ranges, tokenRange(tok))
		}
	}

	return ranges
}
