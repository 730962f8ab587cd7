package codegen

import (
	"strings"
	"testing"
)

func TestStringLitIdempotent(t *testing.T) {
	s := newRodata()
	a := s.stringLit("hello")
	b := s.stringLit("world")
	if a2 := s.stringLit("hello"); a2 != a {
		t.Errorf("stringLit(hello) = %s, then %s", a, a2)
	}
	if a != ".LC0" || b != ".LC1" {
		t.Errorf("labels = %s, %s; want .LC0, .LC1", a, b)
	}
	if n := strings.Count(s.String(), "hello"); n != 1 {
		t.Errorf("hello emitted %d times", n)
	}
}

func TestDoubleLit(t *testing.T) {
	s := newRodata()
	l := s.doubleLit(1.5)
	if l2 := s.doubleLit(1.5); l2 != l {
		t.Errorf("doubleLit(1.5) not pooled: %s, %s", l, l2)
	}
	// 1.5 = 0x3FF8000000000000, low word first
	want := "\t.align\t8\n" + l + ":\n\t.long\t0\n\t.long\t1073217536\n"
	if !strings.Contains(s.String(), want) {
		t.Errorf("section =\n%s\nwant %q", s.String(), want)
	}
	if s.doubleLit(-1.5) == l {
		t.Errorf("-1.5 shares the label of 1.5")
	}
}

func TestAlignmentIsPartOfTheKey(t *testing.T) {
	s := newRodata()
	a := s.words(8, 1, 2)
	b := s.words(16, 1, 2)
	if a == b {
		t.Errorf("same words at different alignment share label %s", a)
	}
	mask := s.signMask()
	if mask != s.signMask() {
		t.Errorf("sign mask not pooled")
	}
	want := "\t.align\t16\n" + mask + ":\n\t.long\t0\n\t.long\t-2147483648\n\t.long\t0\n\t.long\t0\n"
	if !strings.Contains(s.String(), want) {
		t.Errorf("section =\n%s\nwant %q", s.String(), want)
	}
}

func TestRodataSection(t *testing.T) {
	s := newRodata()
	if !s.empty() {
		t.Fatalf("new section not empty")
	}
	if l := s.words(8, 7); l != ".LC0" {
		t.Errorf("label = %s, want .LC0", l)
	}
	if !strings.HasPrefix(s.String(), "\t.section\t.rodata\n") {
		t.Errorf("section =\n%s", s.String())
	}
}

func TestEscapeString(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain text", "plain text"},
		{"a\"b", `a\042b`},
		{`back\slash`, `back\134slash`},
		{"tab\tnl\n", `tab\011nl\012`},
		{"\x00\x7f\xff", `\000\177\377`},
		{"%ld", "%ld"},
	}
	for _, tt := range tests {
		if got := escapeString(tt.in); got != tt.want {
			t.Errorf("escapeString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
