package lsp_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"

	"github.com/rlch/hlsl/lsp"
)

func TestServer_References(t *testing.T) {
	t.Parallel()

	server, root := newWorkspaceServer(t, map[string]string{
		"lighting.hlsl": lightingHLSL,
		"use.hlsl":      "float3 useIt(float3 n)\n{\n    return computeLight(n, n);\n}\n",
		"notes.txt":     "computeLight\n",
	})
	uri := openDoc(t, server, filepath.Join(root, "main.hlsl"), "float3 x = computeLight(a, b);")

	loc := func(uri protocol.DocumentURI, line, start, end uint32) protocol.Location {
		return protocol.Location{
			URI: uri,
			Range: protocol.Range{
				Start: protocol.Position{Line: line, Character: start},
				End:   protocol.Position{Line: line, Character: end},
			},
		}
	}

	main := loc(uri, 0, 11, 23)
	decl := loc(lsp.PathToURI(filepath.Join(root, "lighting.hlsl")), 0, 7, 19)
	call := loc(lsp.PathToURI(filepath.Join(root, "use.hlsl")), 2, 11, 23)

	tests := []struct {
		name        string
		includeDecl bool
		want        []protocol.Location
	}{
		{name: "with declaration", includeDecl: true, want: []protocol.Location{main, decl, call}},
		{name: "without declaration", includeDecl: false, want: []protocol.Location{main, call}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := server.References(context.Background(), &protocol.ReferenceParams{
				TextDocumentPositionParams: positionParams(uri, 0, 14),
				Context:                    protocol.ReferenceContext{IncludeDeclaration: tt.includeDecl},
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, result)
		})
	}
}

func TestServer_References_OpenWorkspaceFile(t *testing.T) {
	t.Parallel()

	server, root := newWorkspaceServer(t, map[string]string{"lighting.hlsl": lightingHLSL})
	uri := openDoc(t, server, filepath.Join(root, "lighting.hlsl"), lightingHLSL)

	result, err := server.References(context.Background(), &protocol.ReferenceParams{
		TextDocumentPositionParams: positionParams(uri, 2, 15),
		Context:                    protocol.ReferenceContext{IncludeDeclaration: true},
	})
	require.NoError(t, err)

	// The open document is searched once, not again as a workspace file.
	require.Len(t, result, 1)
	assert.Equal(t, uri, result[0].URI)
}
