package syntax

import "testing"

func TestPosString(t *testing.T) {
	tests := []struct {
		name string
		pos  Pos
		want string
	}{
		{"with filename", NewPos("point.k", 10, 5), "point.k:10:5"},
		{"without filename", NewPos("", 10, 5), "10:5"},
		{"first char", NewPos("main.k", 1, 1), "main.k:1:1"},
		{"invalid", Pos{}, "-"},
		{"zero line", NewPos("main.k", 0, 3), "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pos.String(); got != tt.want {
				t.Errorf("Pos.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPosAccessors(t *testing.T) {
	p := NewPos("loop.k", 7, 12)
	if !p.IsValid() {
		t.Fatal("IsValid() = false for 7:12")
	}
	if p.Line() != 7 || p.Col() != 12 || p.Filename() != "loop.k" {
		t.Errorf("got %s:%d:%d, want loop.k:7:12", p.Filename(), p.Line(), p.Col())
	}
	if (Pos{}).IsValid() {
		t.Error("zero Pos reported valid")
	}
}

func TestPosBefore(t *testing.T) {
	tests := []struct {
		p, q Pos
		want bool
	}{
		{NewPos("a.k", 1, 1), NewPos("a.k", 1, 2), true},
		{NewPos("a.k", 1, 9), NewPos("a.k", 2, 1), true},
		{NewPos("a.k", 2, 1), NewPos("a.k", 1, 9), false},
		{NewPos("a.k", 3, 4), NewPos("a.k", 3, 4), false},
	}
	for _, tt := range tests {
		if got := tt.p.Before(tt.q); got != tt.want {
			t.Errorf("%v.Before(%v) = %v, want %v", tt.p, tt.q, got, tt.want)
		}
	}
}
