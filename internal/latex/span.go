package latex

import (
	"sort"
	"unicode/utf16"
)

// Span is a half-open range [Start, End) of UTF-16 code unit offsets into
// the original source buffer. Offsets are UTF-16 so that spans address the
// same positions a DOM/JS consumer of the source would compute. A
// zero-width span marks an insertion point at Start.
type Span struct {
	Start int
	End   int
}

// Len returns the width of the span in UTF-16 code units.
func (s Span) Len() int { return s.End - s.Start }

// Empty reports whether the span is zero-width.
func (s Span) Empty() bool { return s.Start == s.End }

// Union returns the smallest span covering both a and b.
func Union(a, b Span) Span {
	out := a
	if b.Start < out.Start {
		out.Start = b.Start
	}
	if b.End > out.End {
		out.End = b.End
	}
	return out
}

// Location is a 1-indexed line/column position in the source.
// Col counts UTF-16 code units from the start of the line, plus one.
type Location struct {
	Line int
	Col  int
}

// SpanLocation carries the line/column coordinates of both span endpoints.
type SpanLocation struct {
	Start Location
	End   Location
}

// LineIndex resolves UTF-16 offsets to line/column positions. It is built
// once per source string and is read-only afterwards, so it is safe to
// share between concurrent readers.
type LineIndex struct {
	starts []int // UTF-16 offset of the first code unit of each line
	length int   // total source length in UTF-16 code units
}

// NewLineIndex scans src and records the UTF-16 offset of every line start.
func NewLineIndex(src string) *LineIndex {
	ix := &LineIndex{starts: []int{0}}
	off := 0
	for _, r := range src {
		off += utf16RuneLen(r)
		if r == '\n' {
			ix.starts = append(ix.starts, off)
		}
	}
	ix.length = off
	return ix
}

// Len returns the source length in UTF-16 code units.
func (ix *LineIndex) Len() int { return ix.length }

// At resolves a UTF-16 offset to a 1-indexed line/column. Offsets outside
// the source are clamped to its bounds.
func (ix *LineIndex) At(offset int) Location {
	if offset < 0 {
		offset = 0
	}
	if offset > ix.length {
		offset = ix.length
	}
	// Index of the last line start <= offset.
	line := sort.Search(len(ix.starts), func(i int) bool { return ix.starts[i] > offset }) - 1
	return Location{Line: line + 1, Col: offset - ix.starts[line] + 1}
}

// UTF16Len returns the length of s in UTF-16 code units.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16RuneLen(r)
	}
	return n
}

// UTF16ToByte converts a UTF-16 code unit offset into a byte offset within
// s. Offsets past the end of s map to len(s). An offset that lands in the
// middle of a surrogate pair maps to the start of that rune.
func UTF16ToByte(s string, offset int) int {
	if offset <= 0 {
		return 0
	}
	units := 0
	for b, r := range s {
		if units >= offset {
			return b
		}
		units += utf16RuneLen(r)
	}
	return len(s)
}

// utf16RuneLen returns the UTF-16 width of r (1 for BMP, 2 for astral).
func utf16RuneLen(r rune) int {
	if n := utf16.RuneLen(r); n > 0 {
		return n
	}
	return 1
}
