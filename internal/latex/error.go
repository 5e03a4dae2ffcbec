package latex

import (
	"fmt"
	"strings"
)

// ParseError is a positioned parse failure. Offset is the UTF-16 offset of
// the offending token (or end-of-input); Loc is the same position as a
// 1-indexed line/column. A single malformed construct aborts the whole
// parse; there is no recovery.
type ParseError struct {
	Msg    string
	Offset int
	Loc    Location
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Loc.Line, e.Loc.Col, e.Msg)
}

// Snippet renders the error as a multi-line excerpt of src with a caret
// under the offending column, with up to one line of context on each side:
//
//	parse error at 1:9: expected '}', got end of input
//
//	   1 | \frac{1}{
//	     |         ^
//
// Output is plain text; callers style it if they want color.
func (e *ParseError) Snippet(src string) string {
	lines := strings.Split(src, "\n")
	line, col := e.Loc.Line, e.Loc.Col
	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	if col < 1 {
		col = 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", e.Error())
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
