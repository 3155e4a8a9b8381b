package lsp

import (
	"context"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/hlsl"
	"github.com/rlch/hlsl/completion"
)

// Definition handles textDocument/definition requests.
// Resolves the word under the cursor to a function declared in the current
// document or, failing that, in the workspace files. Built-in symbols have no
// definition.
func (s *Server) Definition(ctx context.Context, params *protocol.DefinitionParams) ([]protocol.Location, error) {
	s.logger.Debug("Definition",
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

	// 1. Declarations in the open document win over stale copies on disk.
	for fn := range hlsl.ExtractFunctions(URIToPath(doc.URI), doc.Content) {
		if fn.Name == word {
			return []protocol.Location{{URI: doc.URI, Range: nameRange(fn.Pos, fn.Name)}}, nil
		}
	}

	// 2. Workspace functions.
	fns, err := s.completer.WorkspaceFunctions(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		s.logger.Debug("Error scanning workspace for definition", zap.Error(err))

		return nil, nil
	}

	var locations []protocol.Location

	for _, fn := range fns {
		if fn.Name == word {
			locations = append(locations, protocol.Location{
				URI:   PathToURI(fn.Pos.Filename),
				Range: nameRange(fn.Pos, fn.Name),
			})
		}
	}

	return locations, nil
}
