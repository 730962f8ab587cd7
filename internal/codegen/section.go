package codegen

import (
	"fmt"
	"math"
	"strings"
)

// dataSection is a literal pool. Each distinct definition is emitted once
// and identified by its directive text, alignment included.
type dataSection struct {
	directive string // section switch, e.g. ".section\t.rodata"
	prefix    string // label prefix, e.g. ".LC"
	buf       strings.Builder
	labels    map[string]string
	count     int
}

func newRodata() *dataSection {
	return &dataSection{directive: "\t.section\t.rodata", prefix: ".LC", labels: make(map[string]string)}
}

// define returns the label of def, emitting it on first use.
func (s *dataSection) define(def string) string {
	if label, ok := s.labels[def]; ok {
		return label
	}
	label := fmt.Sprintf("%s%d", s.prefix, s.count)
	s.count++
	s.labels[def] = label
	s.buf.WriteString(alignPrefix(def))
	fmt.Fprintf(&s.buf, "%s:\n%s", label, stripAlign(def))
	return label
}

// alignment directives precede the label so the label lands on the
// aligned address.
func alignPrefix(def string) string {
	if strings.HasPrefix(def, "\t.align") {
		return def[:strings.IndexByte(def, '\n')+1]
	}
	return ""
}

func stripAlign(def string) string {
	if strings.HasPrefix(def, "\t.align") {
		return def[strings.IndexByte(def, '\n')+1:]
	}
	return def
}

// stringLit pools a NUL-terminated string.
func (s *dataSection) stringLit(v string) string {
	return s.define(fmt.Sprintf("\t.string\t\"%s\"\n", escapeString(v)))
}

// doubleLit pools an f64 as two 32-bit words, low word first.
func (s *dataSection) doubleLit(v float64) string {
	bits := math.Float64bits(v)
	return s.define(fmt.Sprintf("\t.align\t8\n\t.long\t%d\n\t.long\t%d\n", int32(uint32(bits)), int32(uint32(bits>>32))))
}

// words pools 32-bit words with the given alignment.
func (s *dataSection) words(align int, ws ...uint32) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\t.align\t%d\n", align)
	for _, w := range ws {
		fmt.Fprintf(&b, "\t.long\t%d\n", int32(w))
	}
	return s.define(b.String())
}

// signMask pools the 16-byte mask that flips the sign of a double in the
// low lane of an xmm register.
func (s *dataSection) signMask() string {
	return s.words(16, 0, 0x80000000, 0, 0)
}

func (s *dataSection) empty() bool {
	return s.count == 0
}

// String returns the section text including the section directive.
func (s *dataSection) String() string {
	return s.directive + "\n" + s.buf.String()
}

// escapeString escapes s for a .string directive. Bytes outside
// printable ASCII, '"' and '\\' become three-digit octal escapes.
func escapeString(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' || c == '"' || c < 0x20 || c >= 0x7f {
			fmt.Fprintf(&b, "\\%03o", c)
		} else {
			b.WriteByte(c)
		}
	}
	return b.String()
}
