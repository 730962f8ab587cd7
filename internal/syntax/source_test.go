package syntax

import (
	"errors"
	"strings"
	"testing"
)

func TestSourceBasic(t *testing.T) {
	src := newSource("test.k", strings.NewReader("fn"), nil)

	if src.ch != 'f' || src.line != 1 || src.col != 1 {
		t.Errorf("got ch=%q pos=%d:%d, want 'f' at 1:1", src.ch, src.line, src.col)
	}
	src.nextch()
	if src.ch != 'n' || src.col != 2 {
		t.Errorf("got ch=%q col=%d, want 'n' at col 2", src.ch, src.col)
	}
	src.nextch()
	if src.ch != -1 {
		t.Errorf("ch = %d, want -1 (EOF)", src.ch)
	}
}

func TestSourceNewline(t *testing.T) {
	src := newSource("test.k", strings.NewReader("a\nb"), nil)

	src.nextch()
	if src.ch != '\n' || src.line != 1 || src.col != 2 {
		t.Errorf("got ch=%q pos=%d:%d, want '\\n' at 1:2", src.ch, src.line, src.col)
	}
	src.nextch()
	if src.ch != 'b' || src.line != 2 || src.col != 1 {
		t.Errorf("got ch=%q pos=%d:%d, want 'b' at 2:1", src.ch, src.line, src.col)
	}
}

func TestSourceUTF8InComment(t *testing.T) {
	src := newSource("test.k", strings.NewReader("é;"), nil)
	if src.ch != 'é' {
		t.Fatalf("ch = %q, want 'é'", src.ch)
	}
	src.nextch()
	if src.ch != ';' || src.col != 2 {
		t.Errorf("got ch=%q col=%d, want ';' at col 2", src.ch, src.col)
	}
}

func TestSourcePeek(t *testing.T) {
	src := newSource("test.k", strings.NewReader("->"), nil)
	if src.ch != '-' || src.peek() != '>' {
		t.Errorf("ch=%q peek=%q, want '-' '>'", src.ch, src.peek())
	}
	src.nextch()
	if src.peek() != -1 {
		t.Errorf("peek at last char = %q, want -1", src.peek())
	}
}

func TestSourceEmpty(t *testing.T) {
	src := newSource("test.k", strings.NewReader(""), nil)
	if src.ch != -1 {
		t.Errorf("ch = %d, want -1 (EOF)", src.ch)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestSourceReadError(t *testing.T) {
	var msgs []string
	src := newSource("test.k", failingReader{}, func(line, col uint32, msg string) {
		msgs = append(msgs, msg)
	})
	if src.ch != -1 {
		t.Errorf("ch = %d, want -1 after read error", src.ch)
	}
	if len(msgs) != 1 || !strings.Contains(msgs[0], "disk gone") {
		t.Errorf("errors = %v, want one mentioning the read failure", msgs)
	}
}

func TestSourceInvalidUTF8(t *testing.T) {
	var got []string
	newSource("test.k", strings.NewReader("\xff"), func(line, col uint32, msg string) {
		got = append(got, msg)
	})
	if len(got) != 1 || got[0] != "invalid UTF-8 encoding" {
		t.Errorf("errors = %v, want [invalid UTF-8 encoding]", got)
	}
}

func TestCharClasses(t *testing.T) {
	for _, r := range "azAZ_" {
		if !isLetter(r) {
			t.Errorf("isLetter(%q) = false", r)
		}
	}
	for _, r := range "09" {
		if !isDigit(r) || isLetter(r) {
			t.Errorf("digit %q misclassified", r)
		}
	}
	for _, r := range " \t\r\n" {
		if !isWhitespace(r) {
			t.Errorf("isWhitespace(%q) = false", r)
		}
	}
	for _, r := range "+-*/%&|<>=!:?(){},;." {
		if !isOperatorStart(r) {
			t.Errorf("isOperatorStart(%q) = false", r)
		}
	}
	for _, r := range "[]^a0\"" {
		if isOperatorStart(r) {
			t.Errorf("isOperatorStart(%q) = true", r)
		}
	}
}
