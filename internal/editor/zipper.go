// Package editor provides the immutable editing layer over parsed LaTeX
// trees: a zipper cursor for localized structural edits and a document
// holder pairing a source buffer with its AST.
package editor

import (
	"fmt"

	"github.com/MarcDevWorkspace/mathpad/internal/latex"
)

// Zipper is an immutable cursor over an AST: a focused node plus a path of
// crumbs recording enough sibling context to rebuild every ancestor.
// All operations return new Zipper values; the tree the zipper was built
// from is never modified. Operations that cannot be satisfied (moving past
// an edge, descending into a leaf) return ok=false rather than an error,
// since those are ordinary outcomes rather than failures. A malformed
// crumb, which cannot occur through this package's API, panics.
type Zipper struct {
	focus      latex.Node
	path       []crumb
	gen        latex.IDGen
	textCursor int
}

type listShape int

const (
	shapeSequence listShape = iota
	shapeGroup
	shapeRowCells // cells of a MatrixRow; values must be *Sequence
	shapeEnvRows  // rows of a MatrixEnv; values must be *MatrixRow
)

type slotTag int

const (
	slotFracNum slotTag = iota
	slotFracDen
	slotRootIndex
	slotRootRad
	slotSupBase
	slotSupSup
	slotSupSub
)

// crumb is one path segment. Exactly one of the two shapes is populated:
// list-shaped parents record the focus's siblings, fixed-arity parents
// record the original parent node and the slot the focus occupies.
// Reconstruction reuses the recorded parent identity: an ancestor whose
// shape did not change keeps its id, so external correlation (renderers
// keyed by node id) survives descendant edits.
type crumb struct {
	list       bool
	shape      listShape
	left       []latex.Node
	right      []latex.Node
	parentID   string
	parentSpan latex.Span
	envName    string

	fixed latex.Node
	slot  slotTag
}

// FromAST creates a zipper focused on root. The generator mints identities
// for nodes materialized by edits (placeholders, fresh roots); pass the
// generator used to parse the tree so identities stay unique within the
// generation.
func FromAST(root latex.Node, gen latex.IDGen) Zipper {
	if gen == nil {
		gen = latex.NewSeqGen("e")
	}
	return Zipper{focus: root, gen: gen}
}

// Focus returns the currently focused node.
func (z Zipper) Focus() latex.Node { return z.focus }

// AtRoot reports whether the focus is the tree root.
func (z Zipper) AtRoot() bool { return len(z.path) == 0 }

// Depth returns the number of ancestors above the focus.
func (z Zipper) Depth() int { return len(z.path) }

// TextCursor returns the intra-symbol cursor offset maintained by
// ModifySymbolText, in UTF-16 code units.
func (z Zipper) TextCursor() int { return z.textCursor }

// Down descends into the i-th logical child of the focus (the ordering of
// latex.ChildrenOf). ok is false for leaves and out-of-range indexes.
func (z Zipper) Down(i int) (Zipper, bool) {
	kids := latex.ChildrenOf(z.focus)
	if i < 0 || i >= len(kids) {
		return z, false
	}

	c := crumb{parentID: z.focus.NodeID(), parentSpan: z.focus.NodeSpan()}
	switch n := z.focus.(type) {
	case *latex.Sequence:
		c.list, c.shape = true, shapeSequence
	case *latex.Group:
		c.list, c.shape = true, shapeGroup
	case *latex.MatrixRow:
		c.list, c.shape = true, shapeRowCells
	case *latex.MatrixEnv:
		c.list, c.shape = true, shapeEnvRows
		c.envName = n.Name
	case *latex.Fraction:
		c.fixed = n
		if i == 0 {
			c.slot = slotFracNum
		} else {
			c.slot = slotFracDen
		}
	case *latex.Root:
		c.fixed = n
		if n.Index != nil && i == 0 {
			c.slot = slotRootIndex
		} else {
			c.slot = slotRootRad
		}
	case *latex.SupSub:
		c.fixed = n
		switch {
		case i == 0:
			c.slot = slotSupBase
		case i == 1 && n.Sup != nil:
			c.slot = slotSupSup
		default:
			c.slot = slotSupSub
		}
	default:
		return z, false
	}

	if c.list {
		c.left = copyNodes(kids[:i])
		c.right = copyNodes(kids[i+1:])
	}
	return Zipper{focus: kids[i], path: pushCrumb(z.path, c), gen: z.gen}, true
}

// Up rebuilds the parent from the top crumb and focuses it. ok is false at
// the root. The rebuilt parent keeps its recorded identity; its span is
// recomputed from the new child list (or kept, if the child list is empty).
func (z Zipper) Up() (Zipper, bool) {
	if len(z.path) == 0 {
		return z, false
	}
	c := z.path[len(z.path)-1]
	return Zipper{
		focus: rebuild(c, z.focus),
		path:  popCrumbs(z.path),
		gen:   z.gen,
	}, true
}

// Left moves the focus to its left sibling. Only meaningful under a
// list-shaped crumb; ok is false at the left edge and under fixed-arity
// crumbs.
func (z Zipper) Left() (Zipper, bool) {
	if len(z.path) == 0 {
		return z, false
	}
	c := z.path[len(z.path)-1]
	if !c.list || len(c.left) == 0 {
		return z, false
	}
	nc := c
	nc.left = copyNodes(c.left[:len(c.left)-1])
	nc.right = append([]latex.Node{z.focus}, copyNodes(c.right)...)
	return Zipper{
		focus: c.left[len(c.left)-1],
		path:  append(popCrumbs(z.path), nc),
		gen:   z.gen,
	}, true
}

// Right moves the focus to its right sibling, mirroring Left.
func (z Zipper) Right() (Zipper, bool) {
	if len(z.path) == 0 {
		return z, false
	}
	c := z.path[len(z.path)-1]
	if !c.list || len(c.right) == 0 {
		return z, false
	}
	nc := c
	nc.left = append(copyNodes(c.left), z.focus)
	nc.right = copyNodes(c.right[1:])
	return Zipper{
		focus: c.right[0],
		path:  append(popCrumbs(z.path), nc),
		gen:   z.gen,
	}, true
}

// Replace substitutes the focus value without touching the path. The
// zipper enforces no arity or type constraints here; the caller keeps
// replacements grammatically sensible for the parent slot.
func (z Zipper) Replace(n latex.Node) Zipper {
	return Zipper{focus: n, path: z.path, gen: z.gen}
}

// InsertLeft inserts a sibling immediately left of the focus without
// moving the focus. Valid only under a list-shaped crumb; matrix-row and
// matrix-cell crumbs additionally require the matching node type.
func (z Zipper) InsertLeft(n latex.Node) (Zipper, bool) {
	return z.insert(n, true)
}

// InsertRight inserts a sibling immediately right of the focus without
// moving the focus.
func (z Zipper) InsertRight(n latex.Node) (Zipper, bool) {
	return z.insert(n, false)
}

func (z Zipper) insert(n latex.Node, before bool) (Zipper, bool) {
	if len(z.path) == 0 {
		return z, false
	}
	c := z.path[len(z.path)-1]
	if !c.list || !fitsShape(c.shape, n) {
		return z, false
	}
	nc := c
	if before {
		nc.left = append(copyNodes(c.left), n)
		nc.right = copyNodes(c.right)
	} else {
		nc.left = copyNodes(c.left)
		nc.right = append([]latex.Node{n}, copyNodes(c.right)...)
	}
	return Zipper{focus: z.focus, path: append(popCrumbs(z.path), nc), gen: z.gen}, true
}

// Delete removes the focus. Under a list-shaped crumb the focus moves to
// the right sibling, else the left sibling, else the now-childless parent.
// Under a fixed-arity crumb the slot cannot vanish: a placeholder empty
// Group takes its place (serializing to "{}") and the focus moves to the
// rebuilt parent. At the root, the result is a fresh empty Sequence.
func (z Zipper) Delete() Zipper {
	if len(z.path) == 0 {
		at := z.focus.NodeSpan().Start
		return Zipper{
			focus: &latex.Sequence{ID: z.gen.Next(), Span: latex.Span{Start: at, End: at}},
			gen:   z.gen,
		}
	}

	c := z.path[len(z.path)-1]
	rest := popCrumbs(z.path)

	if !c.list {
		at := z.focus.NodeSpan().Start
		placeholder := &latex.Group{ID: z.gen.Next(), Span: latex.Span{Start: at, End: at}}
		return Zipper{focus: rebuild(c, placeholder), path: rest, gen: z.gen}
	}

	switch {
	case len(c.right) > 0:
		nc := c
		nc.right = copyNodes(c.right[1:])
		return Zipper{focus: c.right[0], path: append(rest, nc), gen: z.gen}
	case len(c.left) > 0:
		nc := c
		nc.left = copyNodes(c.left[:len(c.left)-1])
		return Zipper{focus: c.left[len(c.left)-1], path: append(rest, nc), gen: z.gen}
	default:
		return Zipper{focus: buildListParent(c, nil), path: rest, gen: z.gen}
	}
}

// ModifySymbolText replaces the text of a focused Symbol, preserving its
// identity and moving the intra-symbol cursor. A negative cursor means
// "after the last character"; out-of-range cursors are clamped. ok is
// false when the focus is not a Symbol.
func (z Zipper) ModifySymbolText(text string, cursor int) (Zipper, bool) {
	sym, ok := z.focus.(*latex.Symbol)
	if !ok {
		return z, false
	}
	n := latex.UTF16Len(text)
	if cursor < 0 || cursor > n {
		cursor = n
	}
	out := &latex.Symbol{
		ID:   sym.ID,
		Span: latex.Span{Start: sym.Span.Start, End: sym.Span.Start + n},
		Text: text,
	}
	return Zipper{focus: out, path: z.path, gen: z.gen, textCursor: cursor}, true
}

// ToAST rebuilds and returns the complete tree, applying the same ancestor
// reconstruction as Up for every remaining crumb.
func (z Zipper) ToAST() latex.Node {
	focus, path := z.focus, z.path
	for len(path) > 0 {
		focus = rebuild(path[len(path)-1], focus)
		path = path[:len(path)-1]
	}
	return focus
}

// rebuild reconstructs the parent recorded in c with focus in its place.
func rebuild(c crumb, focus latex.Node) latex.Node {
	if c.list {
		kids := make([]latex.Node, 0, len(c.left)+1+len(c.right))
		kids = append(kids, c.left...)
		kids = append(kids, focus)
		kids = append(kids, c.right...)
		return buildListParent(c, kids)
	}

	switch p := c.fixed.(type) {
	case *latex.Fraction:
		num, den := p.Num, p.Den
		if c.slot == slotFracNum {
			num = focus
		} else {
			den = focus
		}
		return &latex.Fraction{
			ID:   p.ID,
			Span: latex.Union(num.NodeSpan(), den.NodeSpan()),
			Num:  num,
			Den:  den,
		}
	case *latex.Root:
		index, rad := p.Index, p.Radicand
		if c.slot == slotRootIndex {
			index = focus
		} else {
			rad = focus
		}
		sp := rad.NodeSpan()
		if index != nil {
			sp = latex.Union(index.NodeSpan(), sp)
		}
		return &latex.Root{ID: p.ID, Span: sp, Index: index, Radicand: rad}
	case *latex.SupSub:
		base, sup, sub := p.Base, p.Sup, p.Sub
		switch c.slot {
		case slotSupBase:
			base = focus
		case slotSupSup:
			sup = focus
		case slotSupSub:
			sub = focus
		}
		sp := base.NodeSpan()
		if sup != nil {
			sp = latex.Union(sp, sup.NodeSpan())
		}
		if sub != nil {
			sp = latex.Union(sp, sub.NodeSpan())
		}
		return &latex.SupSub{ID: p.ID, Span: sp, Base: base, Sup: sup, Sub: sub}
	default:
		panic(fmt.Sprintf("mathpad editor: unrecognized fixed-arity crumb %T", c.fixed))
	}
}

// buildListParent rebuilds a list-shaped parent from a full child list.
// An empty child list keeps the crumb's saved span.
func buildListParent(c crumb, kids []latex.Node) latex.Node {
	sp := c.parentSpan
	if len(kids) > 0 {
		sp = kids[0].NodeSpan()
		for _, k := range kids[1:] {
			sp = latex.Union(sp, k.NodeSpan())
		}
	}

	switch c.shape {
	case shapeSequence:
		return &latex.Sequence{ID: c.parentID, Span: sp, Children: kids}
	case shapeGroup:
		return &latex.Group{ID: c.parentID, Span: sp, Children: kids}
	case shapeRowCells:
		cells := make([]*latex.Sequence, len(kids))
		for i, k := range kids {
			cell, ok := k.(*latex.Sequence)
			if !ok {
				panic(fmt.Sprintf("mathpad editor: matrix cell must be a Sequence, got %T", k))
			}
			cells[i] = cell
		}
		return &latex.MatrixRow{ID: c.parentID, Span: sp, Cells: cells}
	case shapeEnvRows:
		rows := make([]*latex.MatrixRow, len(kids))
		for i, k := range kids {
			row, ok := k.(*latex.MatrixRow)
			if !ok {
				panic(fmt.Sprintf("mathpad editor: environment row must be a MatrixRow, got %T", k))
			}
			rows[i] = row
		}
		return &latex.MatrixEnv{ID: c.parentID, Span: sp, Name: c.envName, Rows: rows}
	default:
		panic(fmt.Sprintf("mathpad editor: unrecognized list crumb shape %d", c.shape))
	}
}

// fitsShape checks the node-type constraint for inserting into a
// list-shaped crumb.
func fitsShape(s listShape, n latex.Node) bool {
	switch s {
	case shapeRowCells:
		_, ok := n.(*latex.Sequence)
		return ok
	case shapeEnvRows:
		_, ok := n.(*latex.MatrixRow)
		return ok
	default:
		return true
	}
}

func copyNodes(ns []latex.Node) []latex.Node {
	if len(ns) == 0 {
		return nil
	}
	return append([]latex.Node(nil), ns...)
}

func pushCrumb(path []crumb, c crumb) []crumb {
	out := make([]crumb, len(path)+1)
	copy(out, path)
	out[len(path)] = c
	return out
}

func popCrumbs(path []crumb) []crumb {
	if len(path) <= 1 {
		return nil
	}
	return append([]crumb(nil), path[:len(path)-1]...)
}
