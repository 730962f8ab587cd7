package syntax

import (
	"fmt"
	"io"
	"strings"
)

// Scanner performs lexical analysis on klang source code.
type Scanner struct {
	source

	tok    Token
	lit    string  // identifier name, number text or decoded string
	kind   LitKind // valid when tok == _Literal
	tokPos Pos

	litBuf strings.Builder
}

// NewScanner creates a new Scanner for the given source.
// The errh function is called for each lexical error; if nil, errors are silently ignored.
func NewScanner(filename string, src io.Reader, errh func(line, col uint32, msg string)) *Scanner {
	return &Scanner{source: *newSource(filename, src, errh)}
}

// Next advances to the next token.
func (s *Scanner) Next() {
redo:
	for isWhitespace(s.ch) {
		s.nextch()
	}

	s.tokPos = s.pos()

	switch {
	case s.ch < 0:
		s.tok = _EOF
		s.lit = ""

	case isLetter(s.ch):
		s.scanIdent()

	case isDigit(s.ch):
		s.scanNumber()

	case s.ch == '"':
		s.scanString()

	case isOperatorStart(s.ch):
		if s.scanOperator() {
			goto redo // comment
		}

	default:
		s.error(fmt.Sprintf("unexpected character %q", s.ch))
		s.nextch()
		goto redo
	}
}

// Token returns the current token type.
func (s *Scanner) Token() Token {
	return s.tok
}

// Literal returns the current token's literal value.
func (s *Scanner) Literal() string {
	return s.lit
}

// LitKind returns the current literal's kind (only valid when Token() == _Literal).
func (s *Scanner) LitKind() LitKind {
	return s.kind
}

// Pos returns the current token's start position.
func (s *Scanner) Pos() Pos {
	return s.tokPos
}

func (s *Scanner) scanIdent() {
	s.litBuf.Reset()
	for isLetter(s.ch) || isDigit(s.ch) {
		s.litBuf.WriteRune(s.ch)
		s.nextch()
	}
	s.lit = s.litBuf.String()
	s.tok = LookupKeyword(s.lit)
}

// scanNumber scans a decimal integer or a float of the form
// digits "." digits [exponent] or digits exponent.
func (s *Scanner) scanNumber() {
	s.litBuf.Reset()
	s.kind = IntLitKind
	s.digits()

	// "1.x" is not a fraction; the dot must be followed by a digit.
	if s.ch == '.' && isDigit(s.peek()) {
		s.kind = FloatLitKind
		s.litBuf.WriteRune('.')
		s.nextch()
		s.digits()
	}

	if s.ch == 'e' || s.ch == 'E' {
		s.kind = FloatLitKind
		s.litBuf.WriteRune(s.ch)
		s.nextch()
		if s.ch == '+' || s.ch == '-' {
			s.litBuf.WriteRune(s.ch)
			s.nextch()
		}
		if !isDigit(s.ch) {
			s.error("exponent has no digits")
		}
		s.digits()
	}

	if isLetter(s.ch) {
		s.error(fmt.Sprintf("invalid character %q in number literal", s.ch))
		for isLetter(s.ch) || isDigit(s.ch) {
			s.nextch()
		}
	}

	s.lit = s.litBuf.String()
	s.tok = _Literal
}

func (s *Scanner) digits() {
	for isDigit(s.ch) {
		s.litBuf.WriteRune(s.ch)
		s.nextch()
	}
}

// scanString scans a string literal. The literal value is the decoded
// content.
func (s *Scanner) scanString() {
	s.nextch() // opening "
	s.litBuf.Reset()
	s.tok = _Literal
	s.kind = StringLitKind

	for {
		switch {
		case s.ch == '"':
			s.nextch()
			s.lit = s.litBuf.String()
			return
		case s.ch == '\\':
			s.scanEscape()
		case s.ch == '\n' || s.ch < 0:
			s.error("string not terminated")
			s.lit = s.litBuf.String()
			return
		default:
			s.litBuf.WriteRune(s.ch)
			s.nextch()
		}
	}
}

var escapes = map[rune]byte{
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
	'\\': '\\',
	'"':  '"',
	'0':  0,
}

func (s *Scanner) scanEscape() {
	s.nextch() // backslash
	if s.ch < 0 {
		return
	}
	b, ok := escapes[s.ch]
	if !ok {
		s.error(fmt.Sprintf("unknown escape sequence: \\%c", s.ch))
		s.nextch()
		return
	}
	s.litBuf.WriteByte(b)
	s.nextch()
}

// scanOperator scans an operator or delimiter.
// Returns true if a comment was skipped instead.
func (s *Scanner) scanOperator() bool {
	ch := s.ch
	s.nextch()

	switch ch {
	case '+':
		s.tok = _Add
	case '-':
		if s.ch == '>' {
			s.nextch()
			s.tok = _Arrow
		} else {
			s.tok = _Sub
		}
	case '*':
		s.tok = _Mul
	case '/':
		switch s.ch {
		case '/':
			s.skipLineComment()
			return true
		case '*':
			s.skipBlockComment()
			return true
		}
		s.tok = _Div
	case '%':
		s.tok = _Rem
	case '&':
		if s.ch != '&' {
			s.error("unexpected character '&', did you mean '&&'?")
		} else {
			s.nextch()
		}
		s.tok = _AndAnd
	case '|':
		if s.ch != '|' {
			s.error("unexpected character '|', did you mean '||'?")
		} else {
			s.nextch()
		}
		s.tok = _OrOr
	case '<':
		s.tok = s.withEq(_Lss, _Leq)
	case '>':
		s.tok = s.withEq(_Gtr, _Geq)
	case '=':
		s.tok = s.withEq(_Assign, _Eql)
	case '!':
		s.tok = s.withEq(_Not, _Neq)
	case ':':
		s.tok = _Colon
	case '?':
		s.tok = _Question
	case '(':
		s.tok = _Lparen
	case ')':
		s.tok = _Rparen
	case '{':
		s.tok = _Lbrace
	case '}':
		s.tok = _Rbrace
	case ',':
		s.tok = _Comma
	case ';':
		s.tok = _Semi
	case '.':
		s.tok = _Dot
	}
	s.lit = s.tok.String()
	return false
}

// withEq returns eq and consumes '=' if it follows, otherwise plain.
func (s *Scanner) withEq(plain, eq Token) Token {
	if s.ch == '=' {
		s.nextch()
		return eq
	}
	return plain
}

// skipLineComment skips to the end of the line. The first '/' is consumed.
func (s *Scanner) skipLineComment() {
	for s.ch != '\n' && s.ch >= 0 {
		s.nextch()
	}
}

// skipBlockComment skips a /* */ comment. Block comments do not nest.
func (s *Scanner) skipBlockComment() {
	s.nextch() // '*'
	for s.ch >= 0 {
		if s.ch == '*' && s.peek() == '/' {
			s.nextch()
			s.nextch()
			return
		}
		s.nextch()
	}
	s.error("comment not terminated")
}
