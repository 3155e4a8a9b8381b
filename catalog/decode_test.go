package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	t.Parallel()

	b, err := decode([]byte(`
functions:
  - name: zeta
    parameters: [a, b]
  - name: alpha
    parameters: []
keywords:
  - name: if
`))
	require.NoError(t, err)

	fns := b.tables[Function]
	require.Equal(t, 2, fns.Len())

	alpha, ok := fns.Lookup("alpha")
	require.True(t, ok)
	assert.NotNil(t, alpha.Parameters)
	assert.Empty(t, alpha.Parameters)

	zeta, ok := fns.Lookup("zeta")
	require.True(t, ok)
	assert.Equal(t, []Parameter{{Label: "a"}, {Label: "b"}}, zeta.Parameters)

	kw, ok := b.tables[Keyword].Lookup("if")
	require.True(t, ok)
	assert.Nil(t, kw.Parameters)

	assert.Equal(t, 0, b.tables[Datatype].Len())
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
	}{
		{name: "duplicate", yaml: "keywords:\n  - name: if\n  - name: if\n"},
		{name: "missing name", yaml: "semantics:\n  - description: nameless\n"},
		{name: "malformed", yaml: "datatypes: {"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := decode([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestEmbeddedBuiltinsDecode(t *testing.T) {
	t.Parallel()

	_, err := decode(builtinsYAML)
	require.NoError(t, err)
}
