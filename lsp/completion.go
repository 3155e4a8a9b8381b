package lsp

import (
	"context"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/hlsl/catalog"
	"github.com/rlch/hlsl/completion"
)

// Completion handles textDocument/completion requests.
func (s *Server) Completion(ctx context.Context, params *protocol.CompletionParams) (*protocol.CompletionList, error) {
	s.logger.Debug("Completion",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Uint32("line", params.Position.Line),
		zap.Uint32("character", params.Position.Character))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil //nolint:nilnil
	}

	result, err := s.completer.Complete(ctx, doc.Content, fromProtocolPosition(params.Position))
	if err != nil {
		return nil, err
	}

	rng := toProtocolRange(result.Range)

	items := make([]protocol.CompletionItem, 0, len(result.Candidates))
	for _, c := range result.Candidates {
		items = append(items, completionItem(c, rng))
	}

	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        items,
	}, nil
}

// completionItem converts a candidate to an LSP completion item that
// replaces rng with the candidate's name.
func completionItem(c completion.Candidate, rng protocol.Range) protocol.CompletionItem {
	item := protocol.CompletionItem{
		Label:  c.Name,
		Kind:   completionKind(c.Kind),
		Detail: c.Detail,
		TextEdit: &protocol.TextEdit{
			Range:   rng,
			NewText: c.Name,
		},
	}

	if c.Documentation != "" {
		item.Documentation = c.Documentation
	}

	return item
}

// completionKind maps catalog categories to LSP completion item kinds.
func completionKind(cat catalog.Category) protocol.CompletionItemKind {
	switch cat {
	case catalog.Datatype:
		return protocol.CompletionItemKindTypeParameter
	case catalog.Function:
		return protocol.CompletionItemKindFunction
	case catalog.Semantic, catalog.NumberedSemantic:
		return protocol.CompletionItemKindReference
	case catalog.Keyword:
		return protocol.CompletionItemKindKeyword
	default:
		return protocol.CompletionItemKindText
	}
}
