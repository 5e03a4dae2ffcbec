package latex

// Node is the interface implemented by all AST node variants. The variant
// set is closed: every structural-recursion function in this package
// switches exhaustively over it. Nodes are immutable values; edits always
// produce new nodes. Every node carries a unique identity (within one AST
// generation) and a source span.
type Node interface {
	NodeID() string
	NodeSpan() Span
	node()
}

// Sequence is a concatenation of child nodes. The root of every parse is
// a Sequence.
type Sequence struct {
	ID       string
	Span     Span
	Children []Node
}

// Group is a brace-delimited {...} subexpression.
type Group struct {
	ID       string
	Span     Span
	Children []Node
}

// Fraction is \frac{num}{den}.
type Fraction struct {
	ID   string
	Span Span
	Num  Node
	Den  Node
}

// Root is \sqrt[idx]{rad}. Index is nil when the optional [idx] is absent.
type Root struct {
	ID       string
	Span     Span
	Index    Node
	Radicand Node
}

// SupSub attaches a superscript and/or subscript to a base. Either script
// may be nil, but not both: the parser only builds a SupSub when at least
// one script is present.
type SupSub struct {
	ID   string
	Span Span
	Base Node
	Sup  Node
	Sub  Node
}

// Symbol is a terminal glyph: a single letter, digit, or operator
// character, or an unrecognized command name held verbatim. An empty Text
// marks a placeholder materialized by editing operations.
type Symbol struct {
	ID   string
	Span Span
	Text string
}

// TextBlock is a verbatim-content command argument such as \text{...}.
// Raw holds the brace-delimited content exactly as written; it is not
// re-parsed as math.
type TextBlock struct {
	ID      string
	Span    Span
	Command string
	Raw     string
}

// MatrixRow is one row of a matrix-like environment. Each cell is a
// Sequence.
type MatrixRow struct {
	ID    string
	Span  Span
	Cells []*Sequence
}

// MatrixEnv is a \begin{name}...\end{name} environment with rows separated
// by \\ and cells separated by &.
type MatrixEnv struct {
	ID   string
	Span Span
	Name string
	Rows []*MatrixRow
}

func (n *Sequence) NodeID() string   { return n.ID }
func (n *Group) NodeID() string      { return n.ID }
func (n *Fraction) NodeID() string   { return n.ID }
func (n *Root) NodeID() string       { return n.ID }
func (n *SupSub) NodeID() string     { return n.ID }
func (n *Symbol) NodeID() string     { return n.ID }
func (n *TextBlock) NodeID() string  { return n.ID }
func (n *MatrixRow) NodeID() string  { return n.ID }
func (n *MatrixEnv) NodeID() string  { return n.ID }

func (n *Sequence) NodeSpan() Span  { return n.Span }
func (n *Group) NodeSpan() Span     { return n.Span }
func (n *Fraction) NodeSpan() Span  { return n.Span }
func (n *Root) NodeSpan() Span      { return n.Span }
func (n *SupSub) NodeSpan() Span    { return n.Span }
func (n *Symbol) NodeSpan() Span    { return n.Span }
func (n *TextBlock) NodeSpan() Span { return n.Span }
func (n *MatrixRow) NodeSpan() Span { return n.Span }
func (n *MatrixEnv) NodeSpan() Span { return n.Span }

func (*Sequence) node()  {}
func (*Group) node()     {}
func (*Fraction) node()  {}
func (*Root) node()      {}
func (*SupSub) node()    {}
func (*Symbol) node()    {}
func (*TextBlock) node() {}
func (*MatrixRow) node() {}
func (*MatrixEnv) node() {}

// ChildrenOf returns a node's logically ordered children for generic
// traversal. Optional slots that are absent are omitted. Leaves (Symbol)
// and TextBlock (raw text, not nodes) return nil. The returned slice is
// freshly allocated; callers may modify it.
func ChildrenOf(n Node) []Node {
	switch n := n.(type) {
	case *Sequence:
		return append([]Node(nil), n.Children...)
	case *Group:
		return append([]Node(nil), n.Children...)
	case *Fraction:
		return []Node{n.Num, n.Den}
	case *Root:
		if n.Index != nil {
			return []Node{n.Index, n.Radicand}
		}
		return []Node{n.Radicand}
	case *SupSub:
		out := []Node{n.Base}
		if n.Sup != nil {
			out = append(out, n.Sup)
		}
		if n.Sub != nil {
			out = append(out, n.Sub)
		}
		return out
	case *MatrixRow:
		out := make([]Node, len(n.Cells))
		for i, c := range n.Cells {
			out[i] = c
		}
		return out
	case *MatrixEnv:
		out := make([]Node, len(n.Rows))
		for i, r := range n.Rows {
			out[i] = r
		}
		return out
	case *Symbol, *TextBlock:
		return nil
	default:
		return nil
	}
}

// ReplaceChild returns a copy of parent with the child whose identity is
// oldID replaced by repl, recomputing the parent's span from its new child
// list. ok is false when no child matches oldID, when the parent is a
// leaf, or when repl's type does not fit the slot (matrix rows must be
// *MatrixRow, matrix cells must be *Sequence). The original parent is
// never modified.
func ReplaceChild(parent Node, oldID string, repl Node) (Node, bool) {
	switch p := parent.(type) {
	case *Sequence:
		kids, ok := replaceInList(p.Children, oldID, repl)
		if !ok {
			return parent, false
		}
		return &Sequence{ID: p.ID, Span: spanOfList(kids, p.Span), Children: kids}, true
	case *Group:
		kids, ok := replaceInList(p.Children, oldID, repl)
		if !ok {
			return parent, false
		}
		return &Group{ID: p.ID, Span: spanOfList(kids, p.Span), Children: kids}, true
	case *Fraction:
		out := &Fraction{ID: p.ID, Num: p.Num, Den: p.Den}
		switch oldID {
		case p.Num.NodeID():
			out.Num = repl
		case p.Den.NodeID():
			out.Den = repl
		default:
			return parent, false
		}
		out.Span = Union(out.Num.NodeSpan(), out.Den.NodeSpan())
		return out, true
	case *Root:
		out := &Root{ID: p.ID, Index: p.Index, Radicand: p.Radicand}
		switch {
		case p.Index != nil && oldID == p.Index.NodeID():
			out.Index = repl
		case oldID == p.Radicand.NodeID():
			out.Radicand = repl
		default:
			return parent, false
		}
		out.Span = out.Radicand.NodeSpan()
		if out.Index != nil {
			out.Span = Union(out.Index.NodeSpan(), out.Span)
		}
		return out, true
	case *SupSub:
		out := &SupSub{ID: p.ID, Base: p.Base, Sup: p.Sup, Sub: p.Sub}
		switch {
		case oldID == p.Base.NodeID():
			out.Base = repl
		case p.Sup != nil && oldID == p.Sup.NodeID():
			out.Sup = repl
		case p.Sub != nil && oldID == p.Sub.NodeID():
			out.Sub = repl
		default:
			return parent, false
		}
		out.Span = out.Base.NodeSpan()
		if out.Sup != nil {
			out.Span = Union(out.Span, out.Sup.NodeSpan())
		}
		if out.Sub != nil {
			out.Span = Union(out.Span, out.Sub.NodeSpan())
		}
		return out, true
	case *MatrixRow:
		cell, ok := repl.(*Sequence)
		if !ok {
			return parent, false
		}
		cells := append([]*Sequence(nil), p.Cells...)
		for i, c := range cells {
			if c.NodeID() == oldID {
				cells[i] = cell
				out := &MatrixRow{ID: p.ID, Cells: cells, Span: p.Span}
				out.Span = spanOfCells(cells, p.Span)
				return out, true
			}
		}
		return parent, false
	case *MatrixEnv:
		row, ok := repl.(*MatrixRow)
		if !ok {
			return parent, false
		}
		rows := append([]*MatrixRow(nil), p.Rows...)
		for i, r := range rows {
			if r.NodeID() == oldID {
				rows[i] = row
				out := &MatrixEnv{ID: p.ID, Name: p.Name, Rows: rows, Span: p.Span}
				out.Span = spanOfRows(rows, p.Span)
				return out, true
			}
		}
		return parent, false
	default:
		return parent, false
	}
}

// EqualStructure reports whether two trees have the same shape and leaf
// text, ignoring identities and spans.
func EqualStructure(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch a := a.(type) {
	case *Sequence:
		b, ok := b.(*Sequence)
		return ok && equalLists(a.Children, b.Children)
	case *Group:
		b, ok := b.(*Group)
		return ok && equalLists(a.Children, b.Children)
	case *Fraction:
		b, ok := b.(*Fraction)
		return ok && EqualStructure(a.Num, b.Num) && EqualStructure(a.Den, b.Den)
	case *Root:
		b, ok := b.(*Root)
		return ok && EqualStructure(a.Index, b.Index) && EqualStructure(a.Radicand, b.Radicand)
	case *SupSub:
		b, ok := b.(*SupSub)
		return ok && EqualStructure(a.Base, b.Base) &&
			EqualStructure(a.Sup, b.Sup) && EqualStructure(a.Sub, b.Sub)
	case *Symbol:
		b, ok := b.(*Symbol)
		return ok && a.Text == b.Text
	case *TextBlock:
		b, ok := b.(*TextBlock)
		return ok && a.Command == b.Command && a.Raw == b.Raw
	case *MatrixRow:
		b, ok := b.(*MatrixRow)
		if !ok || len(a.Cells) != len(b.Cells) {
			return false
		}
		for i := range a.Cells {
			if !EqualStructure(a.Cells[i], b.Cells[i]) {
				return false
			}
		}
		return true
	case *MatrixEnv:
		b, ok := b.(*MatrixEnv)
		if !ok || a.Name != b.Name || len(a.Rows) != len(b.Rows) {
			return false
		}
		for i := range a.Rows {
			if !EqualStructure(a.Rows[i], b.Rows[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Walk calls fn for n and every descendant in depth-first pre-order.
func Walk(n Node, fn func(Node)) {
	fn(n)
	for _, c := range ChildrenOf(n) {
		Walk(c, fn)
	}
}

func equalLists(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !EqualStructure(a[i], b[i]) {
			return false
		}
	}
	return true
}

func replaceInList(kids []Node, oldID string, repl Node) ([]Node, bool) {
	out := append([]Node(nil), kids...)
	for i, k := range out {
		if k.NodeID() == oldID {
			out[i] = repl
			return out, true
		}
	}
	return nil, false
}

// spanOfList unions the spans of kids, or returns fallback when empty.
func spanOfList(kids []Node, fallback Span) Span {
	if len(kids) == 0 {
		return fallback
	}
	sp := kids[0].NodeSpan()
	for _, k := range kids[1:] {
		sp = Union(sp, k.NodeSpan())
	}
	return sp
}

func spanOfCells(cells []*Sequence, fallback Span) Span {
	if len(cells) == 0 {
		return fallback
	}
	sp := cells[0].Span
	for _, c := range cells[1:] {
		sp = Union(sp, c.Span)
	}
	return sp
}

func spanOfRows(rows []*MatrixRow, fallback Span) Span {
	if len(rows) == 0 {
		return fallback
	}
	sp := rows[0].Span
	for _, r := range rows[1:] {
		sp = Union(sp, r.Span)
	}
	return sp
}
