package lsp

import (
	"unicode/utf16"

	"github.com/alecthomas/participle/v2/lexer"
	"go.lsp.dev/protocol"

	"github.com/rlch/hlsl"
	"github.com/rlch/hlsl/completion"
)

// nameRange converts the position of a declared name to an LSP range
// covering the name. lexer positions are 1-based, LSP is 0-based; both
// count columns in UTF-16 code units.
func nameRange(pos lexer.Position, name string) protocol.Range {
	start := toProtocolPosition(pos)

	end := start
	for _, r := range name {
		end.Character += uint32(utf16.RuneLen(r)) //nolint:gosec // RuneLen is 1 or 2 for valid runes
	}

	return protocol.Range{Start: start, End: end}
}

// toProtocolRange converts a completion range to an LSP range.
func toProtocolRange(r completion.Range) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: r.Start.Line, Character: r.Start.Character},
		End:   protocol.Position{Line: r.End.Line, Character: r.End.Character},
	}
}

// fromProtocolPosition converts an LSP position for the completion package.
func fromProtocolPosition(p protocol.Position) completion.Position {
	return completion.Position{Line: p.Line, Character: p.Character}
}

func rangePtr(r protocol.Range) *protocol.Range {
	return &r
}

// tokenRange converts a token's extent to an LSP range.
func tokenRange(tok lexer.Token) protocol.Range {
	end := hlsl.EndPos(tok)

	return protocol.Range{
		Start: toProtocolPosition(tok.Pos),
		End:   toProtocolPosition(end),
	}
}

func toProtocolPosition(pos lexer.Position) protocol.Position {
	return protocol.Position{
		Line:      uint32(max(0, pos.Line-1)),   //nolint:gosec // G115: values are small line numbers
		Character: uint32(max(0, pos.Column-1)), //nolint:gosec // G115: values are small column numbers
	}
}
