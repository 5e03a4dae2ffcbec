package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarcDevWorkspace/mathpad/internal/latex"
)

func TestDocument_New(t *testing.T) {
	doc, err := NewDocument("x^2")
	require.NoError(t, err)
	assert.Equal(t, "x^2", doc.Source())
	assert.Equal(t, "x^2", doc.Serialize())
	require.Len(t, doc.Root().Children, 1)
}

func TestDocument_NewRejectsBadSource(t *testing.T) {
	_, err := NewDocument(`\frac{1}{`)
	require.Error(t, err)
	var perr *latex.ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestDocument_ApplyTextEdit(t *testing.T) {
	t.Run("insert", func(t *testing.T) {
		doc, err := NewDocument("x2")
		require.NoError(t, err)

		require.NoError(t, doc.ApplyTextEdit(1, 1, "^"))
		assert.Equal(t, "x^2", doc.Source())
		_, isScript := doc.Root().Children[0].(*latex.SupSub)
		assert.True(t, isScript)
	})

	t.Run("replace range", func(t *testing.T) {
		doc, err := NewDocument("abc")
		require.NoError(t, err)

		require.NoError(t, doc.ApplyTextEdit(1, 2, "xyz"))
		assert.Equal(t, "axyzc", doc.Source())
	})

	t.Run("delete range", func(t *testing.T) {
		doc, err := NewDocument("abc")
		require.NoError(t, err)

		require.NoError(t, doc.ApplyTextEdit(0, 2, ""))
		assert.Equal(t, "c", doc.Source())
	})

	t.Run("offsets are utf16", func(t *testing.T) {
		// 𝑥 occupies two UTF-16 units, so offset 2 is right after it.
		doc, err := NewDocument("𝑥2")
		require.NoError(t, err)

		require.NoError(t, doc.ApplyTextEdit(2, 2, "^"))
		assert.Equal(t, "𝑥^2", doc.Source())
	})

	t.Run("out of range offsets clamp", func(t *testing.T) {
		doc, err := NewDocument("ab")
		require.NoError(t, err)

		require.NoError(t, doc.ApplyTextEdit(-5, 99, "z"))
		assert.Equal(t, "z", doc.Source())
	})

	t.Run("inverted offsets swap", func(t *testing.T) {
		doc, err := NewDocument("abc")
		require.NoError(t, err)

		require.NoError(t, doc.ApplyTextEdit(2, 1, "B"))
		assert.Equal(t, "aBc", doc.Source())
	})

	t.Run("failed parse keeps previous state", func(t *testing.T) {
		doc, err := NewDocument("x^2")
		require.NoError(t, err)
		before := doc.Root()

		err = doc.ApplyTextEdit(3, 3, "^")
		require.Error(t, err)
		assert.Equal(t, "x^2", doc.Source(), "source unchanged after failed edit")
		assert.Same(t, before, doc.Root(), "tree unchanged after failed edit")
	})
}

func TestDocument_Edit(t *testing.T) {
	doc, err := NewDocumentWith("{a}{b}{c}", latex.Options{IDs: latex.NewSeqGen("d")})
	require.NoError(t, err)

	err = doc.Edit(func(z Zipper) Zipper {
		z, ok := z.Down(1)
		require.True(t, ok)
		return z.Delete()
	})
	require.NoError(t, err)
	assert.Equal(t, "{a}{c}", doc.Source())
	assert.Equal(t, "{a}{c}", doc.Serialize())
}
