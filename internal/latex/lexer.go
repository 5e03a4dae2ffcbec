package latex

import "unicode/utf8"

// Lexer tokenizes a LaTeX-subset source string. It is total: every input
// character is classified into some token and Next never fails. Calling
// Next past end-of-input keeps returning EOF tokens.
type Lexer struct {
	src   string
	lines *LineIndex
	pos   int // byte offset of the next rune
	off   int // UTF-16 offset of the next rune
}

// NewLexer creates a lexer for the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, lines: NewLineIndex(src)}
}

// Lines returns the line index built for the source.
func (l *Lexer) Lines() *LineIndex { return l.lines }

// Next returns the next token and advances past it.
func (l *Lexer) Next() Token {
	startByte, startOff := l.pos, l.off

	r, ok := l.peek()
	if !ok {
		return l.emit(TokenEOF, startByte, startOff)
	}

	switch {
	case isSpace(r):
		for {
			r, ok = l.peek()
			if !ok || !isSpace(r) {
				break
			}
			l.advance()
		}
		return l.emit(TokenWhitespace, startByte, startOff)

	case r == '%':
		for {
			r, ok = l.peek()
			if !ok || r == '\n' {
				break
			}
			l.advance()
		}
		return l.emit(TokenComment, startByte, startOff)

	case r == '{':
		l.advance()
		return l.emit(TokenBraceOpen, startByte, startOff)
	case r == '}':
		l.advance()
		return l.emit(TokenBraceClose, startByte, startOff)
	case r == '[':
		l.advance()
		return l.emit(TokenBracketOpen, startByte, startOff)
	case r == ']':
		l.advance()
		return l.emit(TokenBracketClose, startByte, startOff)
	case r == '^':
		l.advance()
		return l.emit(TokenCaret, startByte, startOff)
	case r == '_':
		l.advance()
		return l.emit(TokenUnderscore, startByte, startOff)
	case r == '&':
		l.advance()
		return l.emit(TokenAmpersand, startByte, startOff)

	case r == '\\':
		l.advance()
		r2, ok2 := l.peek()
		switch {
		case !ok2:
			// Lone trailing backslash.
			return l.emit(TokenBackslash, startByte, startOff)
		case r2 == '\\':
			l.advance()
			return l.emit(TokenDoubleBackslash, startByte, startOff)
		case isASCIILetter(r2):
			for {
				r2, ok2 = l.peek()
				if !ok2 || !isASCIILetter(r2) {
					break
				}
				l.advance()
			}
			return l.emit(TokenCommand, startByte, startOff)
		default:
			// Escaped-symbol convention: \ plus exactly one non-letter.
			l.advance()
			return l.emit(TokenCommand, startByte, startOff)
		}

	default:
		for {
			r, ok = l.peek()
			if !ok || isSpace(r) || isSpecial(r) {
				break
			}
			l.advance()
		}
		return l.emit(TokenText, startByte, startOff)
	}
}

// Verbatim consumes raw source up to the brace matching an already-consumed
// opening brace, without applying lexical rules to the content (a % inside
// is literal text, not a comment). Brace depth is tracked and a backslash
// escapes the character after it. The closing brace is consumed and
// returned as its own token. ok is false if end-of-input is reached first;
// the lexer is then positioned at EOF.
func (l *Lexer) Verbatim() (raw string, closing Token, ok bool) {
	startByte := l.pos
	depth := 0
	for {
		r, more := l.peek()
		if !more {
			return l.src[startByte:l.pos], Token{}, false
		}
		switch r {
		case '\\':
			l.advance()
			if _, more = l.peek(); more {
				l.advance()
			}
			continue
		case '{':
			depth++
		case '}':
			if depth == 0 {
				raw = l.src[startByte:l.pos]
				closeByte, closeOff := l.pos, l.off
				l.advance()
				return raw, l.emit(TokenBraceClose, closeByte, closeOff), true
			}
			depth--
		}
		l.advance()
	}
}

func (l *Lexer) peek() (rune, bool) {
	if l.pos >= len(l.src) {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
	return r, true
}

func (l *Lexer) advance() {
	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += size
	l.off += utf16RuneLen(r)
}

// emit builds a token for the half-open range [startByte, l.pos).
func (l *Lexer) emit(kind TokenKind, startByte, startOff int) Token {
	sp := Span{Start: startOff, End: l.off}
	return Token{
		Kind: kind,
		Text: l.src[startByte:l.pos],
		Span: sp,
		Loc:  SpanLocation{Start: l.lines.At(sp.Start), End: l.lines.At(sp.End)},
	}
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isSpecial(r rune) bool {
	switch r {
	case '{', '}', '[', ']', '^', '_', '&', '\\', '%':
		return true
	}
	return false
}
