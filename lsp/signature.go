package lsp

import (
	"context"
	"strings"
	"unicode"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/hlsl"
	"github.com/rlch/hlsl/completion"
)

// SignatureHelp handles textDocument/signatureHelp requests.
// Shows parameter hints when typing calls like lerp(a, b, t).
func (s *Server) SignatureHelp(ctx context.Context, params *protocol.SignatureHelpParams) (*protocol.SignatureHelp, error) {
	s.logger.Debug("SignatureHelp",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Uint32("line", params.Position.Line),
		zap.Uint32("character", params.Position.Character))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil //nolint:nilnil
	}

	call := parseCall(completion.LinePrefix(doc.Content, fromProtocolPosition(params.Position)))
	if call == nil {
		return nil, nil //nolint:nilnil
	}

	c, found, err := s.completer.Lookup(ctx, call.name)
	if err != nil {
		s.logger.Debug("Signature lookup failed", zap.String("name", call.name), zap.Error(err))

		return nil, nil //nolint:nilnil
	}

	if !found || c.Parameters == nil {
		return nil, nil //nolint:nilnil
	}

	sig := buildSignatureInfo(c)

	active := call.activeParam
	if n := len(sig.Parameters); n > 0 && active >= n {
		active = n - 1
	}

	return &protocol.SignatureHelp{
		Signatures:      []protocol.SignatureInformation{sig},
		ActiveSignature: 0,
		ActiveParameter: uint32(active), //nolint:gosec
	}, nil
}

// callInfo holds parsed information about a call being typed.
type callInfo struct {
	name        string
	activeParam int
}

// parseCall finds the innermost unclosed call in text, which ends at the
// cursor. Returns nil if the cursor is not inside an argument list.
func parseCall(text string) *callInfo {
	runes := []rune(text)

	depth := 0
	commas := 0

	for i := len(runes) - 1; i >= 0; i-- {
		switch runes[i] {
		case ')':
			depth++
		case '(':
			if depth > 0 {
				depth--

				continue
			}

			name := identBefore(runes[:i])
			if name == "" {
				return nil
			}

			return &callInfo{name: name, activeParam: commas}
		case ',':
			if depth == 0 {
				commas++
			}
		}
	}

	return nil
}

// identBefore returns the identifier ending at the end of runes, skipping
// trailing whitespace.
func identBefore(runes []rune) string {
	end := len(runes)
	for end > 0 && unicode.IsSpace(runes[end-1]) {
		end--
	}

	start := end
	for start > 0 && hlsl.IsIdentRune(runes[start-1]) {
		start--
	}

	if start == end || unicode.IsDigit(runes[start]) {
		return ""
	}

	return string(runes[start:end])
}

// buildSignatureInfo creates a SignatureInformation for a symbol with parameters.
func buildSignatureInfo(c completion.Candidate) protocol.SignatureInformation {
	params := make([]protocol.ParameterInformation, 0, len(c.Parameters))
	labels := make([]string, 0, len(c.Parameters))

	for _, p := range c.Parameters {
		label := strings.TrimSpace(p)
		labels = append(labels, label)
		params = append(params, protocol.ParameterInformation{Label: label})
	}

	sig := protocol.SignatureInformation{
		Label:      c.Name + "(" + strings.Join(labels, ", ") + ")",
		Parameters: params,
	}

	if c.Documentation != "" {
		sig.Documentation = protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: c.Documentation,
		}
	}

	return sig
}
