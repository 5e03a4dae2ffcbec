package editor

import (
	"strings"

	"github.com/MarcDevWorkspace/mathpad/internal/latex"
)

// Document pairs a source buffer with its parsed tree and keeps the two in
// lockstep. Edits reparse the full buffer; a failed parse is reported to
// the caller and the previous good source and tree are retained, so a
// Document never exposes a half-edited state.
//
// Document is not safe for concurrent use. Callers that share one across
// goroutines serialize access themselves.
type Document struct {
	source string
	root   *latex.Sequence
	opts   latex.Options
}

// NewDocument parses source with default options.
func NewDocument(source string) (*Document, error) {
	return NewDocumentWith(source, latex.Options{})
}

// NewDocumentWith parses source with the given parse options. The options
// are retained and reused for every subsequent edit.
func NewDocumentWith(source string, opts latex.Options) (*Document, error) {
	root, err := latex.ParseWith(source, opts)
	if err != nil {
		return nil, err
	}
	return &Document{source: source, root: root, opts: opts}, nil
}

// Source returns the current source buffer.
func (d *Document) Source() string { return d.source }

// Root returns the current parse tree.
func (d *Document) Root() *latex.Sequence { return d.root }

// Serialize returns the canonical rendering of the current tree.
func (d *Document) Serialize() string { return latex.ToLatex(d.root) }

// ApplyTextEdit splices insert over the [start, end) range of the source,
// measured in UTF-16 code units, and reparses. Out-of-range or inverted
// offsets are clamped to the buffer. On parse failure the document is left
// unchanged and the parse error is returned.
func (d *Document) ApplyTextEdit(start, end int, insert string) error {
	n := latex.UTF16Len(d.source)
	start = clamp(start, 0, n)
	end = clamp(end, 0, n)
	if end < start {
		start, end = end, start
	}

	var b strings.Builder
	b.Grow(len(d.source) + len(insert))
	b.WriteString(d.source[:latex.UTF16ToByte(d.source, start)])
	b.WriteString(insert)
	b.WriteString(d.source[latex.UTF16ToByte(d.source, end):])
	next := b.String()

	root, err := latex.ParseWith(next, d.opts)
	if err != nil {
		return err
	}
	d.source = next
	d.root = root
	return nil
}

// Edit runs fn on a zipper focused at the document root and commits the
// resulting tree: the canonical serialization becomes the new source and
// is reparsed so spans and identities are consistent with it.
func (d *Document) Edit(fn func(Zipper) Zipper) error {
	gen := d.opts.IDs
	if gen == nil {
		gen = latex.NewSeqGen("d")
	}
	z := fn(FromAST(d.root, gen))
	next := latex.ToLatex(z.ToAST())
	root, err := latex.ParseWith(next, d.opts)
	if err != nil {
		return err
	}
	d.source = next
	d.root = root
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
