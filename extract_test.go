package hlsl_test

import (
	"slices"
	"testing"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/google/go-cmp/cmp"

	"github.com/rlch/hlsl"
)

func TestExtractFunctions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []hlsl.Function
	}{
		{
			name:  "two parameters keep raw whitespace",
			input: "float computeLight(float3 normal, float3 lightDir)",
			want: []hlsl.Function{{
				Name:       "computeLight",
				Parameters: []string{"float3 normal", " float3 lightDir"},
				Pos:        lexer.Position{Filename: "a.hlsl", Offset: 6, Line: 1, Column: 7},
			}},
		},
		{
			name:  "empty parameter list yields void",
			input: "void doNothing()",
			want: []hlsl.Function{{
				Name:       "doNothing",
				Parameters: []string{"void"},
				Pos:        lexer.Position{Filename: "a.hlsl", Offset: 5, Line: 1, Column: 6},
			}},
		},
		{
			name:  "blank parameter list yields void",
			input: "void spin(   )",
			want: []hlsl.Function{{
				Name:       "spin",
				Parameters: []string{"void"},
				Pos:        lexer.Position{Filename: "a.hlsl", Offset: 5, Line: 1, Column: 6},
			}},
		},
		{
			name:  "semantics and later lines",
			input: "// header\n\nfloat4 main(float2 uv : TEXCOORD0) : SV_Target\n{\n}\n",
			want: []hlsl.Function{{
				Name:       "main",
				Parameters: []string{"float2 uv : TEXCOORD0"},
				Pos:        lexer.Position{Filename: "a.hlsl", Offset: 18, Line: 3, Column: 8},
			}},
		},
		{
			name:  "space before paren",
			input: "half3 tone (half3 c)",
			want: []hlsl.Function{{
				Name:       "tone",
				Parameters: []string{"half3 c"},
				Pos:        lexer.Position{Filename: "a.hlsl", Offset: 6, Line: 1, Column: 7},
			}},
		},
		{
			name:  "extended identifier characters",
			input: "float café(float x)",
			want: []hlsl.Function{{
				Name:       "café",
				Parameters: []string{"float x"},
				Pos:        lexer.Position{Filename: "a.hlsl", Offset: 6, Line: 1, Column: 7},
			}},
		},
		{
			name:  "offset counts bytes of multibyte runes",
			input: "// é😀\nfloat f(int a)",
			want: []hlsl.Function{{
				Name:       "f",
				Parameters: []string{"int a"},
				Pos:        lexer.Position{Filename: "a.hlsl", Offset: 16, Line: 2, Column: 7},
			}},
		},
		{
			name:  "offset counts invalid bytes once",
			input: "\xff\xfe\nfloat f(int a)",
			want: []hlsl.Function{{
				Name:       "f",
				Parameters: []string{"int a"},
				Pos:        lexer.Position{Filename: "a.hlsl", Offset: 9, Line: 2, Column: 7},
			}},
		},
		{
			name:  "indented declarations are ignored",
			input: "    float inner(float x)\n",
			want:  nil,
		},
		{
			name:  "no declarations",
			input: "#include \"common.hlsl\"\ncbuffer Globals : register(b0)\n",
			want:  nil,
		},
		{
			name:  "control flow is a known false positive",
			input: "else if (x > 0)",
			want: []hlsl.Function{{
				Name:       "if",
				Parameters: []string{"x > 0"},
				Pos:        lexer.Position{Filename: "a.hlsl", Offset: 5, Line: 1, Column: 6},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := slices.Collect(hlsl.ExtractFunctions("a.hlsl", tt.input))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ExtractFunctions() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractFunctions_MultipleDeclarations(t *testing.T) {
	t.Parallel()

	src := `float3 shade(float3 n, float3 l)
{
    return saturate(dot(n, l));
}

float4 PSMain(VSOut input) : SV_Target
{
    return float4(shade(input.n, input.l), 1);
}
`

	var names []string
	var lines []int

	for fn := range hlsl.ExtractFunctions("lit.hlsl", src) {
		names = append(names, fn.Name)
		lines = append(lines, fn.Pos.Line)
	}

	if diff := cmp.Diff([]string{"shade", "PSMain"}, names); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]int{1, 6}, lines); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractFunctions_Restartable(t *testing.T) {
	t.Parallel()

	seq := hlsl.ExtractFunctions("a.hlsl", "float a(float x)\nfloat b(float y)\n")

	first := slices.Collect(seq)
	second := slices.Collect(seq)

	if len(first) != 2 {
		t.Fatalf("expected 2 functions, got %d", len(first))
	}

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second pass differs (-first +second):\n%s", diff)
	}
}

func TestExtractFunctions_StopsEarly(t *testing.T) {
	t.Parallel()

	count := 0
	for range hlsl.ExtractFunctions("a.hlsl", "float a()\nfloat b()\nfloat c()\n") {
		count++

		break
	}

	if count != 1 {
		t.Errorf("expected iteration to stop after 1, got %d", count)
	}
}

func TestSplitParameters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want []string
	}{
		{raw: "", want: []string{"void"}},
		{raw: " \t", want: []string{"void"}},
		{raw: "float x", want: []string{"float x"}},
		{raw: "a,b", want: []string{"a", "b"}},
		{raw: "a, ,b", want: []string{"a", " ", "b"}},
	}

	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, hlsl.SplitParameters(tt.raw)); diff != "" {
			t.Errorf("SplitParameters(%q) mismatch (-want +got):\n%s", tt.raw, diff)
		}
	}
}

func TestFunction_Signature(t *testing.T) {
	t.Parallel()

	fn := hlsl.Function{Name: "computeLight", Parameters: []string{"float3 normal", " float3 lightDir"}}

	if got, want := fn.Signature(), "computeLight(float3 normal, float3 lightDir)"; got != want {
		t.Errorf("Signature() = %q, want %q", got, want)
	}

	if got, want := hlsl.FormatSignature("doNothing", []string{"void"}), "doNothing(void)"; got != want {
		t.Errorf("FormatSignature() = %q, want %q", got, want)
	}
}
