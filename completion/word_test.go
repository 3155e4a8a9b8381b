package completion_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rlch/hlsl/completion"
)

func TestWordRangeAt(t *testing.T) {
	t.Parallel()

	pos := func(line, char uint32) completion.Position {
		return completion.Position{Line: line, Character: char}
	}

	tests := []struct {
		name      string
		text      string
		pos       completion.Position
		wantWord  string
		wantStart uint32
		wantEnd   uint32
	}{
		{name: "cursor after word", text: "    float4 c = sat", pos: pos(0, 18), wantWord: "sat", wantStart: 15, wantEnd: 18},
		{name: "cursor inside word", text: "saturate(x)", pos: pos(0, 3), wantWord: "saturate", wantStart: 0, wantEnd: 8},
		{name: "cursor before word", text: "  lerp", pos: pos(0, 2), wantWord: "lerp", wantStart: 2, wantEnd: 6},
		{name: "no word", text: "a + ", pos: pos(0, 4), wantWord: "", wantStart: 4, wantEnd: 4},
		{name: "second line", text: "float x;\nfloat3 n = norm\n", pos: pos(1, 15), wantWord: "norm", wantStart: 11, wantEnd: 15},
		{name: "crlf line ending", text: "tex2D\r\n", pos: pos(0, 5), wantWord: "tex2D", wantStart: 0, wantEnd: 5},
		{name: "line out of range", text: "abs", pos: pos(4, 0), wantWord: "", wantStart: 0, wantEnd: 0},
		{name: "character past end is clamped", text: "dot", pos: pos(0, 40), wantWord: "dot", wantStart: 0, wantEnd: 3},
		{name: "utf16 offsets", text: "// 😀 café", pos: pos(0, 10), wantWord: "café", wantStart: 6, wantEnd: 10},
		{name: "underscore and digits", text: "SV_Target0", pos: pos(0, 10), wantWord: "SV_Target0", wantStart: 0, wantEnd: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rng, word := completion.WordRangeAt(tt.text, tt.pos)

			assert.Equal(t, tt.wantWord, word)
			assert.Equal(t, tt.pos.Line, rng.Start.Line)
			assert.Equal(t, tt.wantStart, rng.Start.Character)
			assert.Equal(t, tt.wantEnd, rng.End.Character)
			assert.Equal(t, tt.wantWord == "", rng.Empty())
		})
	}
}

func TestMatches(t *testing.T) {
	t.Parallel()

	assert.True(t, completion.Matches("", "anything"))
	assert.True(t, completion.Matches("sat", "saturate"))
	assert.True(t, completion.Matches("saturate", "saturate"))
	assert.False(t, completion.Matches("Sat", "saturate"))
	assert.False(t, completion.Matches("saturated", "saturate"))
	assert.False(t, completion.Matches("x", ""))
}

func TestLinePrefix(t *testing.T) {
	t.Parallel()

	text := "float x;\r\n\tlerp(a, é\n"

	assert.Equal(t, "\tlerp(a, ", completion.LinePrefix(text, completion.Position{Line: 1, Character: 9}))
	assert.Equal(t, "\tlerp(a, é", completion.LinePrefix(text, completion.Position{Line: 1, Character: 40}))
	assert.Equal(t, "float", completion.LinePrefix(text, completion.Position{Line: 0, Character: 5}))
	assert.Empty(t, completion.LinePrefix(text, completion.Position{Line: 7, Character: 0}))
}
