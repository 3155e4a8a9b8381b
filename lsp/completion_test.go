package lsp_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"
)

const lightingHLSL = `float3 computeLight(float3 normal, float3 lightDir)
{
    return saturate(dot(normal, lightDir));
}

void doNothing()
{
}
`

func itemByLabel(t *testing.T, items []protocol.CompletionItem, label string) protocol.CompletionItem {
	t.Helper()

	for _, item := range items {
		if item.Label == label {
			return item
		}
	}

	t.Fatalf("no completion item %q in %v", label, labels(items))

	return protocol.CompletionItem{}
}

func TestServer_Completion_CatalogKinds(t *testing.T) {
	t.Parallel()

	server, root := newWorkspaceServer(t, nil)
	uri := openDoc(t, server, filepath.Join(root, "main.hlsl"), "")

	result := complete(t, server, uri, 0, 0)
	assert.False(t, result.IsIncomplete)

	tests := []struct {
		label  string
		kind   protocol.CompletionItemKind
		detail string
	}{
		{label: "float4", kind: protocol.CompletionItemKindTypeParameter, detail: "(void)"},
		{label: "lerp", kind: protocol.CompletionItemKindFunction, detail: "(function) lerp(x,y,s)"},
		{label: "SV_Position", kind: protocol.CompletionItemKindReference, detail: "(void)"},
		{label: "TEXCOORD", kind: protocol.CompletionItemKindReference, detail: "(void)"},
		{label: "return", kind: protocol.CompletionItemKindKeyword, detail: "(void)"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			t.Parallel()

			item := itemByLabel(t, result.Items, tt.label)
			assert.Equal(t, tt.kind, item.Kind)
			assert.Equal(t, tt.detail, item.Detail)
		})
	}
}

func TestServer_Completion_Documentation(t *testing.T) {
	t.Parallel()

	server, root := newWorkspaceServer(t, nil)
	uri := openDoc(t, server, filepath.Join(root, "main.hlsl"), "sat")

	item := itemByLabel(t, complete(t, server, uri, 0, 3).Items, "saturate")
	assert.Equal(t, "Clamps the specified value within the range of 0 to 1.", item.Documentation)

	// No word at the cursor, so every catalog entry is offered.
	blank := openDoc(t, server, filepath.Join(root, "blank.hlsl"), " ")

	item = itemByLabel(t, complete(t, server, blank, 0, 0).Items, "float3")
	assert.Nil(t, item.Documentation, "entries without a description carry no documentation")
}

func TestServer_Completion_WorkspaceFunctions(t *testing.T) {
	t.Parallel()

	server, root := newWorkspaceServer(t, map[string]string{"lighting.hlsl": lightingHLSL})
	uri := openDoc(t, server, filepath.Join(root, "main.hlsl"), "void main() {\n    comp\n}\n")

	result := complete(t, server, uri, 1, 8)

	item := itemByLabel(t, result.Items, "computeLight")
	assert.Equal(t, protocol.CompletionItemKindFunction, item.Kind)
	assert.Equal(t, "computeLight(float3 normal, float3 lightDir)", item.Detail)

	for _, label := range labels(result.Items) {
		assert.Contains(t, label, "comp", "every candidate starts with the prefix")
	}

	assert.NotContains(t, labels(result.Items), "doNothing")
}

func TestServer_Completion_VoidParameters(t *testing.T) {
	t.Parallel()

	server, root := newWorkspaceServer(t, map[string]string{"lighting.hlsl": lightingHLSL})
	uri := openDoc(t, server, filepath.Join(root, "main.hlsl"), "doN")

	item := itemByLabel(t, complete(t, server, uri, 0, 3).Items, "doNothing")
	assert.Equal(t, "doNothing(void)", item.Detail)
}

func TestServer_Completion_TextEdit(t *testing.T) {
	t.Parallel()

	server, root := newWorkspaceServer(t, nil)
	uri := openDoc(t, server, filepath.Join(root, "main.hlsl"), "float4 c = lerp(a, b, sat")

	item := itemByLabel(t, complete(t, server, uri, 0, 25).Items, "saturate")
	require.NotNil(t, item.TextEdit)
	assert.Equal(t, "saturate", item.TextEdit.NewText)
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 0, Character: 22},
		End:   protocol.Position{Line: 0, Character: 25},
	}, item.TextEdit.Range)
}

func TestServer_Completion_UniqueLabels(t *testing.T) {
	t.Parallel()

	server, root := newWorkspaceServer(t, map[string]string{
		"a.hlsl": "float4 lerp(float4 a, float4 b)\nfloat4 blend(float4 a)\n",
		"b.hlsl": "float4 blend(float4 a, float4 b)\n",
	})
	uri := openDoc(t, server, filepath.Join(root, "main.hlsl"), "")

	result := complete(t, server, uri, 0, 0)

	seen := make(map[string]bool)
	for _, item := range result.Items {
		assert.False(t, seen[item.Label], "duplicate label %q", item.Label)
		seen[item.Label] = true
	}

	// The catalog wins over a workspace redefinition, the first file over later ones.
	assert.Equal(t, "(function) lerp(x,y,s)", itemByLabel(t, result.Items, "lerp").Detail)
	assert.Equal(t, "blend(float4 a)", itemByLabel(t, result.Items, "blend").Detail)
}

func TestServer_Completion_UnsavedBuffer(t *testing.T) {
	t.Parallel()

	server, root := newWorkspaceServer(t, map[string]string{"lighting.hlsl": "float3 oldName(float3 n)\n"})

	openDoc(t, server, filepath.Join(root, "lighting.hlsl"), "float3 newName(float3 n)\n")
	uri := openDoc(t, server, filepath.Join(root, "main.hlsl"), "")

	got := labels(complete(t, server, uri, 0, 0).Items)
	assert.Contains(t, got, "newName")
	assert.NotContains(t, got, "oldName")
}

func TestServer_Completion_NoWord(t *testing.T) {
	t.Parallel()

	server, root := newWorkspaceServer(t, nil)
	uri := openDoc(t, server, filepath.Join(root, "main.hlsl"), "x + ")

	result := complete(t, server, uri, 0, 4)
	assert.Contains(t, labels(result.Items), "float4")

	item := itemByLabel(t, result.Items, "float4")
	require.NotNil(t, item.TextEdit)
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 0, Character: 4},
		End:   protocol.Position{Line: 0, Character: 4},
	}, item.TextEdit.Range)
}
