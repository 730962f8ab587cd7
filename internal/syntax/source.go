package syntax

import (
	"io"
	"unicode/utf8"
)

// source is a byte-oriented reader over a whole klang file with
// line/column tracking. klang source is ASCII; other UTF-8 runes are
// accepted only inside comments and string literals.
type source struct {
	buf      []byte
	filename string

	line, col uint32 // position of ch
	ch        rune   // current character, -1 at EOF
	offs      int    // offset of the byte after ch

	errh func(line, col uint32, msg string)
}

// newSource reads src completely and positions the reader on the first
// character. errh may be nil.
func newSource(filename string, src io.Reader, errh func(line, col uint32, msg string)) *source {
	s := &source{
		filename: filename,
		line:     1,
		ch:       -1, // before first char; the first nextch moves col to 1
		errh:     errh,
	}

	buf, err := io.ReadAll(src)
	if err != nil {
		s.error("cannot read source: " + err.Error())
		return s
	}
	s.buf = buf
	s.nextch()
	return s
}

// nextch advances to the next character.
func (s *source) nextch() {
	if s.ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}

	if s.offs >= len(s.buf) {
		s.ch = -1
		return
	}

	b := s.buf[s.offs]
	if b < utf8.RuneSelf {
		s.ch = rune(b)
		s.offs++
		return
	}

	r, w := utf8.DecodeRune(s.buf[s.offs:])
	if r == utf8.RuneError && w == 1 {
		s.error("invalid UTF-8 encoding")
	}
	s.ch = r
	s.offs += w
}

// peek returns the byte following ch without consuming anything,
// or -1 at the end of input.
func (s *source) peek() rune {
	if s.offs >= len(s.buf) {
		return -1
	}
	return rune(s.buf[s.offs])
}

// pos returns the position of ch.
func (s *source) pos() Pos {
	return NewPos(s.filename, s.line, s.col)
}

func (s *source) error(msg string) {
	if s.errh != nil {
		s.errh(s.line, s.col, msg)
	}
}

func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_'
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// isWhitespace reports whether r separates tokens. klang statements are
// terminated explicitly, so newlines are plain whitespace.
func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}

// isOperatorStart reports whether r can start an operator or delimiter.
func isOperatorStart(r rune) bool {
	switch r {
	case '+', '-', '*', '/', '%', '&', '|', '<', '>', '=', '!', ':', '?',
		'(', ')', '{', '}', ',', ';', '.':
		return true
	}
	return false
}
