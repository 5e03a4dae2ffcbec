package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/MarcDevWorkspace/mathpad/internal/latex"
)

func parseTree(t *testing.T, src string) (*latex.Sequence, latex.IDGen) {
	t.Helper()
	gen := latex.NewSeqGen("z")
	root, err := latex.ParseWith(src, latex.Options{IDs: gen})
	require.NoError(t, err)
	return root, gen
}

func TestZipper_DeleteMiddleSibling(t *testing.T) {
	root, gen := parseTree(t, "{a}{b}{c}")
	z := FromAST(root, gen)

	z, ok := z.Down(1)
	require.True(t, ok)
	_, isGroup := z.Focus().(*latex.Group)
	require.True(t, isGroup)

	z = z.Delete()
	// Focus moved to the right sibling.
	assert.Equal(t, "{c}", latex.ToLatex(z.Focus()))

	assert.Equal(t, "{a}{c}", latex.ToLatex(z.ToAST()))
}

func TestZipper_DeleteFallsBackToLeftSibling(t *testing.T) {
	root, gen := parseTree(t, "{a}{b}")
	z := FromAST(root, gen)

	z, ok := z.Down(1)
	require.True(t, ok)
	z = z.Delete()
	assert.Equal(t, "{a}", latex.ToLatex(z.Focus()))
	assert.Equal(t, "{a}", latex.ToLatex(z.ToAST()))
}

func TestZipper_DeleteLastChildFocusesParent(t *testing.T) {
	root, gen := parseTree(t, "{x}")
	z := FromAST(root, gen)

	z, ok := z.Down(0) // the group
	require.True(t, ok)
	z, ok = z.Down(0) // the symbol inside
	require.True(t, ok)

	z = z.Delete()
	g, isGroup := z.Focus().(*latex.Group)
	require.True(t, isGroup, "focus should be the now-empty group")
	assert.Empty(t, g.Children)
	assert.Equal(t, "{}", latex.ToLatex(z.ToAST()))
}

func TestZipper_DeleteFixedSlotLeavesPlaceholder(t *testing.T) {
	root, gen := parseTree(t, `\frac{1}{2}`)
	z := FromAST(root, gen)

	z, ok := z.Down(0) // fraction
	require.True(t, ok)
	fracID := z.Focus().NodeID()

	z, ok = z.Down(0) // numerator
	require.True(t, ok)

	z = z.Delete()
	frac, isFrac := z.Focus().(*latex.Fraction)
	require.True(t, isFrac, "focus should be the rebuilt fraction")
	assert.Equal(t, fracID, frac.ID, "fraction identity survives the edit")

	num, isGroup := frac.Num.(*latex.Group)
	require.True(t, isGroup, "deleted slot holds a placeholder group")
	assert.Empty(t, num.Children)

	assert.Equal(t, `\frac{}{2}`, latex.ToLatex(z.ToAST()))
}

func TestZipper_DeleteRootYieldsEmptySequence(t *testing.T) {
	root, gen := parseTree(t, "abc")
	z := FromAST(root, gen).Delete()

	seq, ok := z.Focus().(*latex.Sequence)
	require.True(t, ok)
	assert.Empty(t, seq.Children)
	assert.True(t, z.AtRoot())
	assert.NotEqual(t, root.ID, seq.ID, "fresh root gets a fresh identity")
}

func TestZipper_Navigation(t *testing.T) {
	root, gen := parseTree(t, "abc")
	z := FromAST(root, gen)

	t.Run("down then up restores structure and identity", func(t *testing.T) {
		down, ok := z.Down(1)
		require.True(t, ok)
		assert.Equal(t, "b", down.Focus().(*latex.Symbol).Text)

		up, ok := down.Up()
		require.True(t, ok)
		assert.True(t, z.AtRoot() == up.AtRoot())
		assert.Equal(t, root.ID, up.Focus().NodeID())
		assert.True(t, latex.EqualStructure(root, up.Focus()))
	})

	t.Run("left and right are inverses", func(t *testing.T) {
		mid, ok := z.Down(1)
		require.True(t, ok)

		right, ok := mid.Right()
		require.True(t, ok)
		assert.Equal(t, "c", right.Focus().(*latex.Symbol).Text)

		back, ok := right.Left()
		require.True(t, ok)
		assert.Equal(t, mid.Focus().NodeID(), back.Focus().NodeID())
	})

	t.Run("edges and leaves refuse", func(t *testing.T) {
		_, ok := z.Up()
		assert.False(t, ok, "up at root")
		_, ok = z.Left()
		assert.False(t, ok, "left at root")
		_, ok = z.Down(3)
		assert.False(t, ok, "down out of range")
		_, ok = z.Down(-1)
		assert.False(t, ok, "down negative")

		leaf, ok := z.Down(0)
		require.True(t, ok)
		_, ok = leaf.Down(0)
		assert.False(t, ok, "down into a symbol")
		_, ok = leaf.Left()
		assert.False(t, ok, "left at left edge")

		last, ok := z.Down(2)
		require.True(t, ok)
		_, ok = last.Right()
		assert.False(t, ok, "right at right edge")
	})
}

func TestZipper_DownIntoFixedSlots(t *testing.T) {
	root, gen := parseTree(t, `\sqrt[3]{x}`)
	z := FromAST(root, gen)

	z, ok := z.Down(0) // root node
	require.True(t, ok)

	idx, ok := z.Down(0)
	require.True(t, ok)
	_, isSeq := idx.Focus().(*latex.Sequence)
	assert.True(t, isSeq, "first child of an indexed root is the index")

	rad, ok := z.Down(1)
	require.True(t, ok)
	_, isGroup := rad.Focus().(*latex.Group)
	assert.True(t, isGroup, "second child is the radicand")

	// Fixed-slot crumbs have no siblings.
	_, ok = rad.Left()
	assert.False(t, ok)
	_, ok = rad.InsertLeft(&latex.Symbol{ID: gen.Next(), Text: "q"})
	assert.False(t, ok)
}

func TestZipper_Replace(t *testing.T) {
	root, gen := parseTree(t, "x^2")
	z := FromAST(root, gen)

	z, ok := z.Down(0) // supsub
	require.True(t, ok)
	z, ok = z.Down(1) // superscript
	require.True(t, ok)

	z = z.Replace(&latex.Symbol{ID: gen.Next(), Text: "n"})
	assert.Equal(t, "x^n", latex.ToLatex(z.ToAST()))
}

func TestZipper_Insert(t *testing.T) {
	root, gen := parseTree(t, "ac")
	z := FromAST(root, gen)

	z, ok := z.Down(1) // "c"
	require.True(t, ok)

	z, ok = z.InsertLeft(&latex.Symbol{ID: gen.Next(), Text: "b"})
	require.True(t, ok)
	assert.Equal(t, "c", z.Focus().(*latex.Symbol).Text, "focus unchanged")

	z, ok = z.InsertRight(&latex.Symbol{ID: gen.Next(), Text: "d"})
	require.True(t, ok)

	assert.Equal(t, "abcd", latex.ToLatex(z.ToAST()))
}

func TestZipper_InsertAtRootRefuses(t *testing.T) {
	root, gen := parseTree(t, "a")
	z := FromAST(root, gen)
	_, ok := z.InsertLeft(&latex.Symbol{ID: gen.Next(), Text: "b"})
	assert.False(t, ok)
}

func TestZipper_MatrixTypeConstraints(t *testing.T) {
	root, gen := parseTree(t, `\begin{pmatrix}a&b\\c&d\end{pmatrix}`)
	z := FromAST(root, gen)

	env, ok := z.Down(0)
	require.True(t, ok)
	row, ok := env.Down(0)
	require.True(t, ok)

	// A row sibling must be a MatrixRow.
	_, ok = row.InsertRight(&latex.Symbol{ID: gen.Next(), Text: "x"})
	assert.False(t, ok, "symbol cannot be a row")

	newRow := &latex.MatrixRow{ID: gen.Next(), Cells: []*latex.Sequence{
		{ID: gen.Next(), Children: []latex.Node{&latex.Symbol{ID: gen.Next(), Text: "e"}}},
		{ID: gen.Next(), Children: []latex.Node{&latex.Symbol{ID: gen.Next(), Text: "f"}}},
	}}
	row2, ok := row.InsertRight(newRow)
	require.True(t, ok)

	out := row2.ToAST().(*latex.Sequence).Children[0].(*latex.MatrixEnv)
	require.Len(t, out.Rows, 3)
	assert.Equal(t, "e", out.Rows[1].Cells[0].Children[0].(*latex.Symbol).Text)

	// A cell sibling must be a Sequence.
	cell, ok := row.Down(0)
	require.True(t, ok)
	_, ok = cell.InsertLeft(&latex.Symbol{ID: gen.Next(), Text: "x"})
	assert.False(t, ok, "symbol cannot be a cell")
	_, ok = cell.InsertLeft(&latex.Sequence{ID: gen.Next()})
	assert.True(t, ok)
}

func TestZipper_ModifySymbolText(t *testing.T) {
	root, gen := parseTree(t, "x")
	z := FromAST(root, gen)

	z, ok := z.Down(0)
	require.True(t, ok)
	symID := z.Focus().NodeID()

	t.Run("replaces text and keeps identity", func(t *testing.T) {
		out, ok := z.ModifySymbolText("y", 1)
		require.True(t, ok)
		sym := out.Focus().(*latex.Symbol)
		assert.Equal(t, "y", sym.Text)
		assert.Equal(t, symID, sym.ID)
		assert.Equal(t, 1, out.TextCursor())
	})

	t.Run("negative cursor means end", func(t *testing.T) {
		out, ok := z.ModifySymbolText("abc", -1)
		require.True(t, ok)
		assert.Equal(t, 3, out.TextCursor())
	})

	t.Run("cursor counts utf16 units and clamps", func(t *testing.T) {
		out, ok := z.ModifySymbolText("𝑥", 99)
		require.True(t, ok)
		assert.Equal(t, 2, out.TextCursor())
		assert.Equal(t, 2, out.Focus().NodeSpan().Len())
	})

	t.Run("refuses non-symbols", func(t *testing.T) {
		rootZ := FromAST(root, gen)
		_, ok := rootZ.ModifySymbolText("y", 0)
		assert.False(t, ok)
	})
}

func TestZipper_AncestorIdentitiesSurviveEdits(t *testing.T) {
	root, gen := parseTree(t, `{a{b}}`)
	z := FromAST(root, gen)

	outer, ok := z.Down(0)
	require.True(t, ok)
	outerID := outer.Focus().NodeID()
	inner, ok := outer.Down(1)
	require.True(t, ok)
	innerID := inner.Focus().NodeID()
	leaf, ok := inner.Down(0)
	require.True(t, ok)

	edited := leaf.Replace(&latex.Symbol{ID: gen.Next(), Text: "q"})
	out := edited.ToAST()

	assert.Equal(t, root.ID, out.NodeID())
	rebuiltOuter := out.(*latex.Sequence).Children[0]
	assert.Equal(t, outerID, rebuiltOuter.NodeID())
	assert.Equal(t, innerID, latex.ChildrenOf(rebuiltOuter)[1].NodeID())
	assert.Equal(t, "{a{q}}", latex.ToLatex(out))
}

func TestZipper_RandomNavigationPreservesTree(t *testing.T) {
	sources := []string{
		`\frac{a+b}{\sqrt{c}}`,
		`x^2_i+{yz}`,
		`\begin{pmatrix}a&b\\c&d\end{pmatrix}`,
		`\text{note}+\alpha`,
	}

	rapid.Check(t, func(t *rapid.T) {
		src := rapid.SampledFrom(sources).Draw(t, "src")
		gen := latex.NewSeqGen("r")
		root, err := latex.ParseWith(src, latex.Options{IDs: gen})
		if err != nil {
			t.Fatalf("parse %q: %v", src, err)
		}

		z := FromAST(root, gen)
		steps := rapid.IntRange(0, 40).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 3).Draw(t, "move") {
			case 0:
				z, _ = z.Down(rapid.IntRange(0, 3).Draw(t, "childIndex"))
			case 1:
				z, _ = z.Up()
			case 2:
				z, _ = z.Left()
			default:
				z, _ = z.Right()
			}
		}

		// Pure navigation must never change the tree.
		if !latex.EqualStructure(root, z.ToAST()) {
			t.Fatalf("navigation changed tree for %q", src)
		}
	})
}
