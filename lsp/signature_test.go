package lsp_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"
)

func TestServer_SignatureHelp(t *testing.T) {
	t.Parallel()

	server, root := newWorkspaceServer(t, map[string]string{"lighting.hlsl": lightingHLSL})

	tests := []struct {
		name       string
		text       string
		wantLabel  string
		wantActive uint32
		wantParams []string
	}{
		{
			name:       "first argument",
			text:       "float4 c = lerp(",
			wantLabel:  "lerp(x, y, s)",
			wantActive: 0,
			wantParams: []string{"x", "y", "s"},
		},
		{
			name:       "third argument",
			text:       "float4 c = lerp(a, b, ",
			wantLabel:  "lerp(x, y, s)",
			wantActive: 2,
			wantParams: []string{"x", "y", "s"},
		},
		{
			name:       "nested call is skipped",
			text:       "float4 c = lerp(a, dot(n, l), ",
			wantLabel:  "lerp(x, y, s)",
			wantActive: 2,
			wantParams: []string{"x", "y", "s"},
		},
		{
			name:       "innermost call",
			text:       "float4 c = lerp(a, dot(n, ",
			wantLabel:  "dot(x, y)",
			wantActive: 1,
			wantParams: []string{"x", "y"},
		},
		{
			name:       "workspace function",
			text:       "float3 c = computeLight (n, ",
			wantLabel:  "computeLight(float3 normal, float3 lightDir)",
			wantActive: 1,
			wantParams: []string{"float3 normal", "float3 lightDir"},
		},
		{
			name:       "extra arguments clamp to the last parameter",
			text:       "float x = saturate(a, b, ",
			wantLabel:  "saturate(x)",
			wantActive: 0,
			wantParams: []string{"x"},
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uri := openDoc(t, server, filepath.Join(root, "sig", string(rune('a'+i))+".hlsl"), tt.text)

			result, err := server.SignatureHelp(context.Background(), &protocol.SignatureHelpParams{
				TextDocumentPositionParams: positionParams(uri, 0, uint32(len(tt.text))), //nolint:gosec
			})
			require.NoError(t, err)
			require.NotNil(t, result)
			require.Len(t, result.Signatures, 1)

			sig := result.Signatures[0]
			assert.Equal(t, tt.wantLabel, sig.Label)
			assert.Equal(t, tt.wantActive, result.ActiveParameter)

			params := make([]string, len(sig.Parameters))
			for j, p := range sig.Parameters {
				params[j] = p.Label
			}

			assert.Equal(t, tt.wantParams, params)
		})
	}
}

func TestServer_SignatureHelp_None(t *testing.T) {
	t.Parallel()

	server, root := newWorkspaceServer(t, nil)

	tests := []struct {
		name string
		text string
	}{
		{name: "outside call", text: "float4 c = lerp(a, b, t);"},
		{name: "no parentheses", text: "float4 c = "},
		{name: "unknown function", text: "float4 c = mystery("},
		{name: "symbol without signature", text: "float4 c = float4("},
		{name: "grouping parentheses", text: "float4 c = ("},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uri := openDoc(t, server, filepath.Join(root, "none", string(rune('a'+i))+".hlsl"), tt.text)

			result, err := server.SignatureHelp(context.Background(), &protocol.SignatureHelpParams{
				TextDocumentPositionParams: positionParams(uri, 0, uint32(len(tt.text))), //nolint:gosec
			})
			require.NoError(t, err)
			assert.Nil(t, result)
		})
	}
}

func TestServer_SignatureHelp_Documentation(t *testing.T) {
	t.Parallel()

	server, root := newWorkspaceServer(t, nil)
	uri := openDoc(t, server, filepath.Join(root, "main.hlsl"), "dot(")

	result, err := server.SignatureHelp(context.Background(), &protocol.SignatureHelpParams{
		TextDocumentPositionParams: positionParams(uri, 0, 4),
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, protocol.MarkupContent{
		Kind:  protocol.Markdown,
		Value: "Returns the dot product of two vectors.",
	}, result.Signatures[0].Documentation)
}
