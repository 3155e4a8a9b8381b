package lsp

import (
	"context"
	"slices"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/hlsl"
	"github.com/rlch/hlsl/completion"
)

// References handles textDocument/references requests.
// Finds all occurrences of the identifier under the cursor in the current
// document and the workspace files matched by the configured glob.
func (s *Server) References(ctx context.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	s.logger.Debug("References",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Uint32("line", params.Position.Line),
		zap.Uint32("character", params.Position.Character),
		zap.Bool("includeDeclaration", params.Context.IncludeDeclaration))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	_, word := completion.WordRangeAt(doc.Content, fromProtocolPosition(params.Position))
	if word == "" {
		return nil, nil
	}

	docPath := URIToPath(doc.URI)
	locations := fileReferences(docPath, doc.Content, word, params.Context.IncludeDeclaration)

	paths, err := s.fileLoader.FindFiles(ctx, s.currentConfig().FilePattern())
	if err != nil {
		s.logger.Debug("Error listing workspace for references", zap.Error(err))

		return locations, nil
	}

	slices.Sort(paths)

	for _, path := range paths {
		if path == docPath {
			continue
		}

		data, err := s.fileLoader.ReadFile(ctx, path)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}

			s.logger.Debug("Skipping unreadable file", zap.String("path", path), zap.Error(err))

			continue
		}

		locations = append(locations, fileReferences(path, string(data), word, params.Context.IncludeDeclaration)...)
	}

	return locations, nil
}

// fileReferences returns the occurrences of word in one file, optionally
// leaving out function declarations.
func fileReferences(path, content, word string, includeDecl bool) []protocol.Location {
	decls := make(map[protocol.Position]bool)

	if !includeDecl {
		for fn := range hlsl.ExtractFunctions(path, content) {
			if fn.Name == word {
				decls[nameRange(fn.Pos, fn.Name).Start] = true
			}
		}
	}

	uri := PathToURI(path)

	var locations []protocol.Location

	for _, rng := range occurrences(content, word) {
		if decls[rng.Start] {
			continue
		}

		locations = append(locations, protocol.Location{URI: uri, Range: rng})
	}

	return locations
}
