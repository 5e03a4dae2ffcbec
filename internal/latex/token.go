// Package latex implements the LaTeX-subset lexer, parser, AST, and
// canonical serializer used by the mathpad editor core.
package latex

// TokenKind classifies a lexical token.
type TokenKind int

const (
	TokenEOF TokenKind = iota

	// Single-character structural tokens
	TokenBraceOpen    // {
	TokenBraceClose   // }
	TokenBracketOpen  // [
	TokenBracketClose // ]
	TokenCaret        // ^
	TokenUnderscore   // _
	TokenAmpersand    // &

	// Backslash-initiated tokens
	TokenBackslash       // lone trailing \
	TokenCommand         // \name or \<single non-letter>
	TokenDoubleBackslash // \\

	// Runs
	TokenText       // ordinary characters, maximal munch
	TokenWhitespace // spaces, tabs, newlines
	TokenComment    // % up to (excluding) end of line
)

// String returns a human-readable name for the token kind.
func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "EOF"
	case TokenBraceOpen:
		return "{"
	case TokenBraceClose:
		return "}"
	case TokenBracketOpen:
		return "["
	case TokenBracketClose:
		return "]"
	case TokenCaret:
		return "^"
	case TokenUnderscore:
		return "_"
	case TokenAmpersand:
		return "&"
	case TokenBackslash:
		return "\\"
	case TokenCommand:
		return "COMMAND"
	case TokenDoubleBackslash:
		return `\\`
	case TokenText:
		return "TEXT"
	case TokenWhitespace:
		return "WHITESPACE"
	case TokenComment:
		return "COMMENT"
	default:
		return "UNKNOWN"
	}
}

// Token is a lexical token with its raw text, UTF-16 span, and resolved
// line/column coordinates for both span endpoints.
type Token struct {
	Kind TokenKind
	Text string
	Span Span
	Loc  SpanLocation
}

// IsTrivia reports whether the token is skipped by the parser's normal
// advance (whitespace and comments).
func (t Token) IsTrivia() bool {
	return t.Kind == TokenWhitespace || t.Kind == TokenComment
}
