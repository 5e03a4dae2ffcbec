package latex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToLatex_Canonical(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"whitespace dropped", "x ^ 2", "x^2"},
		{"comment dropped", "a % note\nb", "ab"},
		{"bare single-glyph script", "x^2", "x^2"},
		{"braced group script kept", "x^{ab}", "x^{ab}"},
		{"singleton group script kept", "x^{2}", "x^{2}"},
		{"bare command script", `x^\alpha`, `x^\alpha`},
		{"script order normalized", "x_i^2", "x^2_i"},
		{"empty group", "{}", "{}"},
		{"fraction", `\frac{1}{2}`, `\frac{1}{2}`},
		{"bare fraction arguments", `\frac12`, `\frac12`},
		{"root with index", `\sqrt[3]{x}`, `\sqrt[3]{x}`},
		{"command word spacing", `\alpha b`, `\alpha b`},
		{"command before non-letter", `\alpha+1`, `\alpha+1`},
		{"escaped brace symbol", `\{x\}`, `\{x\}`},
		{"text block verbatim", `\text{a %b}`, `\text{a %b}`},
		{
			"matrix layout",
			`\begin{pmatrix}a&b\\c&d\end{pmatrix}`,
			"\\begin{pmatrix}\na & b \\\\\nc & d\n\\end{pmatrix}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := mustParse(t, tt.input)
			assert.Equal(t, tt.want, ToLatex(root))
		})
	}
}

func TestToLatex_Idempotent(t *testing.T) {
	inputs := []string{
		"x ^ 2 _ i",
		`\frac{a+b}{c}`,
		`\sqrt[3]{\frac{1}{2}}`,
		`\text{hello world}`,
		`\begin{pmatrix} a & b \\ c & d \end{pmatrix}`,
		`\alpha\beta\gamma`,
		"{}^2",
	}

	for _, src := range inputs {
		first := ToLatex(mustParse(t, src))
		second := ToLatex(mustParse(t, first))
		assert.Equal(t, first, second, "canonical form of %q must be a fixed point", src)
	}
}

func TestToLatex_CommandWordGuard(t *testing.T) {
	// A command symbol followed by a letter symbol must not fuse into a
	// longer command name.
	gen := NewSeqGen("s")
	seq := &Sequence{ID: gen.Next(), Children: []Node{
		&Symbol{ID: gen.Next(), Text: `\alpha`},
		&Symbol{ID: gen.Next(), Text: "b"},
	}}
	out := ToLatex(seq)
	assert.Equal(t, `\alpha b`, out)

	reparsed := mustParse(t, out)
	require.Len(t, reparsed.Children, 2)
	assert.Equal(t, `\alpha`, reparsed.Children[0].(*Symbol).Text)
}

func TestToLatex_EmptyScriptKeepsBraces(t *testing.T) {
	gen := NewSeqGen("s")
	seq := &Sequence{ID: gen.Next(), Children: []Node{
		&SupSub{
			ID:   gen.Next(),
			Base: &Symbol{ID: gen.Next(), Text: "x"},
			Sup:  &Group{ID: gen.Next()},
		},
	}}
	assert.Equal(t, "x^{}", ToLatex(seq))
}

func TestToLatex_NilIsEmpty(t *testing.T) {
	assert.Equal(t, "", ToLatex(nil))
}

func TestToLatex_RoundTripPreservesStructure(t *testing.T) {
	inputs := []string{
		"x^2+y_i",
		`\frac{\sqrt{2}}{2}`,
		`\begin{bmatrix} & x \\ y & \end{bmatrix}`,
		`\text{mixed %{}~ content}`,
		`\unknowncmd{a}`,
		`\sqrt[n+1]{x}`,
	}

	for _, src := range inputs {
		orig := mustParse(t, src)
		back := mustParse(t, ToLatex(orig))
		assert.True(t, EqualStructure(orig, back),
			"round trip of %q changed structure:\n%s\nvs\n%s", src, Outline(orig), Outline(back))
	}
}
