package lsp

import (
	"context"
	"strings"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"
)

// Symbols handles workspace/symbol requests.
// Searches the functions declared in the workspace files matched by the
// configured glob.
func (s *Server) Symbols(ctx context.Context, params *protocol.WorkspaceSymbolParams) ([]protocol.SymbolInformation, error) {
	s.logger.Debug("Symbols",
		zap.String("query", params.Query))

	if s.fileLoader.WorkspaceRoot() == "" {
		return nil, nil
	}

	fns, err := s.completer.WorkspaceFunctions(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		s.logger.Debug("Error scanning workspace for symbols", zap.Error(err))

		return nil, nil
	}

	query := strings.ToLower(params.Query)

	var symbols []protocol.SymbolInformation

	for _, fn := range fns {
		if query != "" && !strings.Contains(strings.ToLower(fn.Name), query) {
			continue
		}

		symbols = append(symbols, protocol.SymbolInformation{
			Name: fn.Name,
			Kind: protocol.SymbolKindFunction,
			Location: protocol.Location{
				URI:   PathToURI(fn.Pos.Filename),
				Range: nameRange(fn.Pos, fn.Name),
			},
			ContainerName: s.relativePath(fn.Pos.Filename),
		})
	}

	return symbols, nil
}
