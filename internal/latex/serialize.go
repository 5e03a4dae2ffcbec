package latex

import (
	"strings"
	"unicode/utf8"
)

// ToLatex converts an AST back to canonical LaTeX. It is a total function
// over the node variants and never fails for a well-formed tree. Output is
// minimally braced: single-glyph scripts are emitted bare, and a space is
// inserted only where a command word would otherwise fuse with a following
// letter. The result is guaranteed to re-parse.
func ToLatex(n Node) string {
	if n == nil {
		return ""
	}
	var w latexWriter
	w.node(n)
	return w.b.String()
}

// latexWriter accumulates output while tracking whether the emitted text
// ends with a command word, so "\alpha" followed by "b" becomes
// "\alpha b" rather than the differently-parsing "\alphab".
type latexWriter struct {
	b       strings.Builder
	cmdTail bool
}

// write emits s, separating it from a preceding command word when s
// starts with a letter.
func (w *latexWriter) write(s string) {
	if s == "" {
		return
	}
	if w.cmdTail && isASCIILetter(rune(s[0])) {
		w.b.WriteByte(' ')
	}
	w.b.WriteString(s)
	w.cmdTail = endsWithCommandWord(s)
}

func (w *latexWriter) node(n Node) {
	switch n := n.(type) {
	case *Sequence:
		for _, c := range n.Children {
			w.node(c)
		}
	case *Group:
		w.write("{")
		for _, c := range n.Children {
			w.node(c)
		}
		w.write("}")
	case *Fraction:
		w.write(`\frac`)
		w.node(n.Num)
		w.node(n.Den)
	case *Root:
		w.write(`\sqrt`)
		if n.Index != nil {
			w.write("[")
			w.node(n.Index)
			w.write("]")
		}
		w.node(n.Radicand)
	case *SupSub:
		w.node(n.Base)
		if n.Sup != nil {
			w.script("^", n.Sup)
		}
		if n.Sub != nil {
			w.script("_", n.Sub)
		}
	case *Symbol:
		w.write(n.Text)
	case *TextBlock:
		w.write(n.Command)
		w.write("{" + n.Raw + "}")
	case *MatrixRow:
		w.row(n)
	case *MatrixEnv:
		w.write(`\begin{` + n.Name + "}\n")
		for i, r := range n.Rows {
			if i > 0 {
				w.write(" \\\\\n")
			}
			w.row(r)
		}
		w.write("\n\\end{" + n.Name + "}")
	}
}

func (w *latexWriter) row(r *MatrixRow) {
	for i, cell := range r.Cells {
		if i > 0 {
			w.write(" & ")
		}
		w.node(cell)
	}
}

// script emits one superscript or subscript with smart bracing: an empty
// script keeps explicit braces, a single-glyph symbol or a command symbol
// is emitted bare (both re-parse to the same structure), and everything
// else is wrapped.
func (w *latexWriter) script(op string, s Node) {
	switch s := s.(type) {
	case *Group:
		w.write(op)
		w.node(s) // a Group carries its own braces; empty yields op{}
	case *Symbol:
		txt := s.Text
		switch {
		case txt == "":
			w.write(op + "{}")
		case strings.HasPrefix(txt, "\\"):
			w.write(op)
			w.write(txt)
		case utf8.RuneCountInString(txt) == 1 && txt != "{" && txt != "}":
			w.write(op)
			w.write(txt)
		default:
			w.write(op + "{")
			w.write(txt)
			w.write("}")
		}
	default:
		w.write(op + "{")
		w.node(s)
		w.write("}")
	}
}

// endsWithCommandWord reports whether s ends with an unescaped backslash
// followed by one or more letters.
func endsWithCommandWord(s string) bool {
	j := len(s) - 1
	for j >= 0 && isASCIILetter(rune(s[j])) {
		j--
	}
	if j < 0 || j == len(s)-1 || s[j] != '\\' {
		return false
	}
	// The backslash itself must not be escaped.
	n := 0
	for k := j - 1; k >= 0 && s[k] == '\\'; k-- {
		n++
	}
	return n%2 == 0
}
