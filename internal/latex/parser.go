package latex

import (
	"fmt"
	"unicode/utf8"
)

// DefaultTextCommands are the commands whose single brace argument is
// captured verbatim as a TextBlock instead of being parsed as math.
var DefaultTextCommands = []string{`\text`, `\mathrm`}

// Options configures a parse.
type Options struct {
	// IDs mints node identities. Nil means a fresh sequential generator,
	// so identities are unique within the returned tree but carry no
	// meaning across parses.
	IDs IDGen
	// TextCommands overrides DefaultTextCommands when non-nil.
	TextCommands []string
}

// Parse parses a complete LaTeX-subset source string and returns the root
// Sequence. On failure it returns a *ParseError; the parser does not
// recover or resynchronize.
func Parse(src string) (*Sequence, error) {
	return ParseWith(src, Options{})
}

// ParseWith parses like Parse with explicit options.
func ParseWith(src string, opts Options) (*Sequence, error) {
	gen := opts.IDs
	if gen == nil {
		gen = NewSeqGen("n")
	}
	textCmds := opts.TextCommands
	if textCmds == nil {
		textCmds = DefaultTextCommands
	}
	cmds := make(map[string]bool, len(textCmds))
	for _, c := range textCmds {
		cmds[c] = true
	}

	p := &parser{lex: NewLexer(src), gen: gen, textCmds: cmds}
	p.advance()
	kids, err := p.parseNodeList(stopSet{})
	if err != nil {
		return nil, err
	}
	// The root span covers the parsed content; an empty or whitespace-only
	// document gets a zero-width span at offset 0.
	sp := Span{}
	if len(kids) > 0 {
		sp = spanOfList(kids, sp)
	}
	return &Sequence{ID: gen.Next(), Span: sp, Children: kids}, nil
}

type parser struct {
	lex      *Lexer
	tok      Token // one token of lookahead, never whitespace or comment
	gen      IDGen
	textCmds map[string]bool
}

// stopSet names the token kinds that terminate a sequence rule.
type stopSet struct {
	kinds map[TokenKind]bool
	atEnd bool // also stop at the \end command (matrix cells)
}

func (s stopSet) stops(t Token) bool {
	if s.kinds[t.Kind] {
		return true
	}
	return s.atEnd && t.Kind == TokenCommand && t.Text == `\end`
}

// advance loads the next non-trivia token into the lookahead. Whitespace
// and comments are never visible to grammar rules; raw captures bypass
// this through the lexer directly.
func (p *parser) advance() {
	for {
		p.tok = p.lex.Next()
		if !p.tok.IsTrivia() {
			return
		}
	}
}

func (p *parser) errAt(t Token, format string, args ...any) *ParseError {
	return &ParseError{
		Msg:    fmt.Sprintf(format, args...),
		Offset: t.Span.Start,
		Loc:    t.Loc.Start,
	}
}

func (p *parser) describe(t Token) string {
	if t.Kind == TokenEOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.Text)
}

// parseNodeList parses terms until a stop token or end of input. The stop
// token is left in the lookahead for the caller.
func (p *parser) parseNodeList(stop stopSet) ([]Node, error) {
	var kids []Node
	for p.tok.Kind != TokenEOF && !stop.stops(p.tok) {
		n, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		kids = append(kids, n)
	}
	return kids, nil
}

// parseSequence wraps parseNodeList in a Sequence node. An empty sequence
// gets a zero-width span at the current lookahead position.
func (p *parser) parseSequence(stop stopSet) ([]Node, Span, error) {
	at := p.tok.Span.Start
	kids, err := p.parseNodeList(stop)
	if err != nil {
		return nil, Span{}, err
	}
	return kids, spanOfList(kids, Span{Start: at, End: at}), nil
}

func (p *parser) parseTerm() (Node, error) {
	switch p.tok.Kind {
	case TokenCommand:
		switch {
		case p.tok.Text == `\frac`:
			f, err := p.parseFraction()
			if err != nil {
				return nil, err
			}
			return p.parseScripts(f)
		case p.tok.Text == `\sqrt`:
			r, err := p.parseRoot()
			if err != nil {
				return nil, err
			}
			return p.parseScripts(r)
		case p.textCmds[p.tok.Text]:
			tb, err := p.parseTextBlock()
			if err != nil {
				return nil, err
			}
			return p.parseScripts(tb)
		case p.tok.Text == `\begin`:
			env, err := p.parseEnvironment()
			if err != nil {
				return nil, err
			}
			return p.parseScripts(env)
		case p.tok.Text == `\end`:
			return nil, p.errAt(p.tok, `unexpected \end outside of an environment`)
		default:
			// Unrecognized commands are leaves, not errors, so unsupported
			// macros survive a round trip verbatim.
			sym := p.symbolFromToken(p.tok)
			p.advance()
			return p.parseScripts(sym)
		}

	case TokenBraceOpen:
		g, err := p.parseGroup()
		if err != nil {
			return nil, err
		}
		return p.parseScripts(g)

	case TokenText:
		return p.parseScripts(p.takeTextRune())

	case TokenBracketOpen, TokenBracketClose:
		// Brackets are structural only after \sqrt; elsewhere they are
		// ordinary symbols.
		sym := p.symbolFromToken(p.tok)
		p.advance()
		return p.parseScripts(sym)

	case TokenBackslash:
		// Lone trailing backslash: kept as a leaf so lexing stays total
		// end to end.
		sym := p.symbolFromToken(p.tok)
		p.advance()
		return sym, nil

	case TokenCaret:
		return nil, p.errAt(p.tok, "superscript must follow a base expression")
	case TokenUnderscore:
		return nil, p.errAt(p.tok, "subscript must follow a base expression")
	case TokenAmpersand:
		return nil, p.errAt(p.tok, "'&' is only valid inside a matrix environment")
	case TokenDoubleBackslash:
		return nil, p.errAt(p.tok, `'\\' is only valid inside a matrix environment`)
	case TokenBraceClose:
		return nil, p.errAt(p.tok, "unexpected '}'")
	default:
		return nil, p.errAt(p.tok, "unexpected %s", p.describe(p.tok))
	}
}

func (p *parser) symbolFromToken(t Token) *Symbol {
	return &Symbol{ID: p.gen.Next(), Span: t.Span, Text: t.Text}
}

// takeTextRune consumes exactly one rune from the current text-run token
// and returns it as a Symbol; the rest of the run stays in the lookahead.
// Symbols are single glyphs so that serialization (which drops whitespace
// between runs) re-parses to an equivalent tree.
func (p *parser) takeTextRune() *Symbol {
	t := p.tok
	r, size := utf8.DecodeRuneInString(t.Text)
	w := utf16RuneLen(r)
	sym := &Symbol{
		ID:   p.gen.Next(),
		Span: Span{Start: t.Span.Start, End: t.Span.Start + w},
		Text: t.Text[:size],
	}
	rest := t.Text[size:]
	if rest == "" {
		p.advance()
		return sym
	}
	sp := Span{Start: t.Span.Start + w, End: t.Span.End}
	p.tok = Token{
		Kind: TokenText,
		Text: rest,
		Span: sp,
		Loc:  SpanLocation{Start: p.lex.Lines().At(sp.Start), End: t.Loc.End},
	}
	return sym
}

// parseScripts attaches any ^/_ scripts to base, in either order. A second
// script of a kind already filled is a structural error.
func (p *parser) parseScripts(base Node) (Node, error) {
	if p.tok.Kind != TokenCaret && p.tok.Kind != TokenUnderscore {
		return base, nil
	}
	ss := &SupSub{ID: p.gen.Next(), Base: base}
	for {
		switch p.tok.Kind {
		case TokenCaret:
			if ss.Sup != nil {
				return nil, p.errAt(p.tok, "duplicate superscript")
			}
			p.advance()
			arg, err := p.parseArgument("superscript")
			if err != nil {
				return nil, err
			}
			ss.Sup = arg
		case TokenUnderscore:
			if ss.Sub != nil {
				return nil, p.errAt(p.tok, "duplicate subscript")
			}
			p.advance()
			arg, err := p.parseArgument("subscript")
			if err != nil {
				return nil, err
			}
			ss.Sub = arg
		default:
			ss.Span = base.NodeSpan()
			if ss.Sup != nil {
				ss.Span = Union(ss.Span, ss.Sup.NodeSpan())
			}
			if ss.Sub != nil {
				ss.Span = Union(ss.Span, ss.Sub.NodeSpan())
			}
			return ss, nil
		}
	}
}

// parseArgument parses one command argument: a braced group, a whole
// command token, or a single character of a text run.
func (p *parser) parseArgument(what string) (Node, error) {
	switch p.tok.Kind {
	case TokenBraceOpen:
		return p.parseGroup()
	case TokenCommand:
		sym := p.symbolFromToken(p.tok)
		p.advance()
		return sym, nil
	case TokenText:
		return p.takeTextRune(), nil
	default:
		return nil, p.errAt(p.tok, "expected %s, got %s", what, p.describe(p.tok))
	}
}

func (p *parser) parseGroup() (*Group, error) {
	open := p.tok
	p.advance()
	kids, err := p.parseNodeList(stopSet{kinds: map[TokenKind]bool{TokenBraceClose: true}})
	if err != nil {
		return nil, err
	}
	if p.tok.Kind != TokenBraceClose {
		return nil, p.errAt(p.tok, "expected '}', got %s", p.describe(p.tok))
	}
	g := &Group{
		ID:       p.gen.Next(),
		Span:     Span{Start: open.Span.Start, End: p.tok.Span.End},
		Children: kids,
	}
	p.advance()
	return g, nil
}

func (p *parser) parseFraction() (*Fraction, error) {
	cmd := p.tok
	p.advance()
	num, err := p.parseArgument(`numerator of \frac`)
	if err != nil {
		return nil, err
	}
	den, err := p.parseArgument(`denominator of \frac`)
	if err != nil {
		return nil, err
	}
	return &Fraction{
		ID:   p.gen.Next(),
		Span: Span{Start: cmd.Span.Start, End: den.NodeSpan().End},
		Num:  num,
		Den:  den,
	}, nil
}

func (p *parser) parseRoot() (*Root, error) {
	cmd := p.tok
	p.advance()
	var index Node
	if p.tok.Kind == TokenBracketOpen {
		p.advance()
		kids, sp, err := p.parseSequence(stopSet{kinds: map[TokenKind]bool{TokenBracketClose: true}})
		if err != nil {
			return nil, err
		}
		if p.tok.Kind != TokenBracketClose {
			return nil, p.errAt(p.tok, `expected ']' closing the \sqrt index, got %s`, p.describe(p.tok))
		}
		index = &Sequence{ID: p.gen.Next(), Span: sp, Children: kids}
		p.advance()
	}
	rad, err := p.parseArgument(`radicand of \sqrt`)
	if err != nil {
		return nil, err
	}
	return &Root{
		ID:       p.gen.Next(),
		Span:     Span{Start: cmd.Span.Start, End: rad.NodeSpan().End},
		Index:    index,
		Radicand: rad,
	}, nil
}

// parseTextBlock captures the brace argument of a text-mode command
// verbatim: no comment or whitespace rules apply inside, so the stored
// raw text is the exact source slice.
func (p *parser) parseTextBlock() (*TextBlock, error) {
	cmd := p.tok
	p.advance()
	if p.tok.Kind != TokenBraceOpen {
		return nil, p.errAt(p.tok, "expected '{' after %s, got %s", cmd.Text, p.describe(p.tok))
	}
	// The lexer sits just past the opening brace: exactly one token of
	// lookahead is buffered, and it is that brace.
	raw, closing, ok := p.lex.Verbatim()
	if !ok {
		return nil, p.errAt(p.tok, "unterminated %s{...} argument", cmd.Text)
	}
	tb := &TextBlock{
		ID:      p.gen.Next(),
		Span:    Span{Start: cmd.Span.Start, End: closing.Span.End},
		Command: cmd.Text,
		Raw:     raw,
	}
	p.advance()
	return tb, nil
}

func (p *parser) parseEnvironment() (*MatrixEnv, error) {
	begin := p.tok
	p.advance()
	nameTok, _, err := p.parseEnvName()
	if err != nil {
		return nil, err
	}
	name := nameTok.Text
	p.advance()

	var (
		rows         []*MatrixRow
		row          []*Sequence
		pendingBreak bool // a row break was just consumed; a trailing one yields a final empty row
	)
	cellStop := stopSet{
		kinds: map[TokenKind]bool{TokenAmpersand: true, TokenDoubleBackslash: true},
		atEnd: true,
	}
	for {
		kids, sp, err := p.parseSequence(cellStop)
		if err != nil {
			return nil, err
		}
		cell := &Sequence{ID: p.gen.Next(), Span: sp, Children: kids}

		switch {
		case p.tok.Kind == TokenAmpersand:
			row = append(row, cell)
			pendingBreak = false
			p.advance()

		case p.tok.Kind == TokenDoubleBackslash:
			row = append(row, cell)
			rows = append(rows, p.newRow(row))
			row = nil
			pendingBreak = true
			p.advance()

		case p.tok.Kind == TokenCommand && p.tok.Text == `\end`:
			if len(row) > 0 || len(kids) > 0 || pendingBreak {
				row = append(row, cell)
				rows = append(rows, p.newRow(row))
			}
			p.advance()
			closeName, closing, err := p.parseEnvName()
			if err != nil {
				return nil, err
			}
			if closeName.Text != name {
				return nil, p.errAt(closeName,
					`environment \begin{%s} closed by \end{%s}`, name, closeName.Text)
			}
			env := &MatrixEnv{
				ID:   p.gen.Next(),
				Span: Span{Start: begin.Span.Start, End: closing.Span.End},
				Name: name,
				Rows: rows,
			}
			p.advance()
			return env, nil

		default:
			return nil, p.errAt(p.tok, `unterminated environment \begin{%s}: expected \end{%s}`, name, name)
		}
	}
}

// parseEnvName parses {name} and leaves the closing brace in the
// lookahead, returning the name token and the closing brace token.
func (p *parser) parseEnvName() (Token, Token, error) {
	if p.tok.Kind != TokenBraceOpen {
		return Token{}, Token{}, p.errAt(p.tok, "expected '{' before environment name, got %s", p.describe(p.tok))
	}
	p.advance()
	if p.tok.Kind != TokenText {
		return Token{}, Token{}, p.errAt(p.tok, "expected environment name, got %s", p.describe(p.tok))
	}
	name := p.tok
	p.advance()
	if p.tok.Kind != TokenBraceClose {
		return Token{}, Token{}, p.errAt(p.tok, "expected '}' after environment name, got %s", p.describe(p.tok))
	}
	return name, p.tok, nil
}

func (p *parser) newRow(cells []*Sequence) *MatrixRow {
	return &MatrixRow{
		ID:    p.gen.Next(),
		Span:  spanOfCells(cells, Span{}),
		Cells: cells,
	}
}
