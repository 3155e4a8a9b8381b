package lsp

import (
	"context"
	"strings"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/hlsl"
)

// FoldingRanges handles textDocument/foldingRange requests.
// Returns folding ranges for brace blocks, block comments and runs of #include lines.
func (s *Server) FoldingRanges(_ context.Context, params *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	s.logger.Debug("FoldingRanges",
		zap.String("uri", string(params.TextDocument.URI)))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	return foldingRanges(doc.Content), nil
}

// foldingRanges walks the tokens of content for multi-line regions. Braces
// inside comments, strings and preprocessor lines never open a region.
func foldingRanges(content string) []protocol.FoldingRange {
	var (
		ranges       []protocol.FoldingRange
		braces       []uint32
		includeStart = -1
		includeEnd   = -1
	)

	flushIncludes := func() {
		if includeStart >= 0 && includeEnd > includeStart {
			ranges = append(ranges, protocol.FoldingRange{
				StartLine: uint32(includeStart), //nolint:gosec // G115: line numbers are small
				EndLine:   uint32(includeEnd),   //nolint:gosec // G115: line numbers are small
				Kind:      protocol.ImportsFoldingRange,
			})
		}

		includeStart, includeEnd = -1, -1
	}

	for _, tok := range hlsl.Tokenize("", content) {
		line := tok.Pos.Line - 1

		switch tok.Type {
		case hlsl.TokenWhitespace, hlsl.TokenEOF:
			continue
		case hlsl.TokenPreprocessor:
			if isInclude(tok.Value) {
				if includeEnd < 0 || line != includeEnd+1 {
					flushIncludes()
					includeStart = line
				}

				includeEnd = line

				continue
			}
		}

		flushIncludes()

		switch tok.Type {
		case hlsl.TokenComment:
			if end := hlsl.EndPos(tok).Line - 1; end > line {
				ranges = append(ranges, protocol.FoldingRange{
					StartLine: uint32(line), //nolint:gosec // G115: line numbers are small
					EndLine:   uint32(end),  //nolint:gosec // G115: line numbers are small
					Kind:      protocol.CommentFoldingRange,
				})
			}
		case hlsl.TokenLBrace:
			braces = append(braces, uint32(line)) //nolint:gosec // G115: line numbers are small
		case hlsl.TokenRBrace:
			if len(braces) == 0 {
				continue
			}

			start := braces[len(braces)-1]
			braces = braces[:len(braces)-1]

			// Fold up to the line before the closing brace so it stays visible.
			if end := uint32(line); end > start+1 { //nolint:gosec // G115: line numbers are small
				ranges = append(ranges, protocol.FoldingRange{
					StartLine: start,
					EndLine:   end - 1,
					Kind:      protocol.RegionFoldingRange,
				})
			}
		}
	}

	flushIncludes()

	return ranges
}

// isInclude reports whether a directive is an #include, allowing "# include".
func isInclude(directive string) bool {
	rest := strings.TrimSpace(strings.TrimPrefix(directive, "#"))

	return strings.HasPrefix(rest, "include")
}
