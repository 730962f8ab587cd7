package codegen

import (
	"fmt"
	"io"
	"strings"
)

// emitter wraps an io.Writer with helpers for emitting AT&T assembly text.
type emitter struct {
	w   io.Writer
	err error // first write error
}

// emit writes a formatted line to the output (no indentation).
func (e *emitter) emit(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format+"\n", args...)
}

// emitLabel writes a label definition.
func (e *emitter) emitLabel(label string) {
	e.emit("%s:", label)
}

// emitInst writes an instruction with its operands separated by commas.
func (e *emitter) emitInst(op string, operands ...string) {
	if len(operands) == 0 {
		e.emit("\t%s", op)
		return
	}
	e.emit("\t%s\t%s", op, strings.Join(operands, ", "))
}

// emitDirective writes an indented assembler directive.
func (e *emitter) emitDirective(name string, args ...string) {
	e.emitInst(name, args...)
}

// imm formats an immediate operand.
func imm(v int64) string {
	return fmt.Sprintf("$%d", v)
}

// mem formats a base-relative memory operand.
func mem(off int64, base string) string {
	return fmt.Sprintf("%d(%s)", off, base)
}

// rip formats a rip-relative reference to a label.
func rip(label string) string {
	return label + "(%rip)"
}
