// Package types2 implements type checking for the klang programming language.
package types2

import (
	"fmt"

	"github.com/you-not-fish/klang/internal/syntax"
)

// TypeError represents a type checking error.
type TypeError struct {
	Pos syntax.Pos
	Msg string
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// FatalError reports a tree the checker cannot continue on: an unknown
// node or operator, or an incompatible literal annotation.
type FatalError struct {
	Pos  syntax.Pos
	Node syntax.Node
	Msg  string
}

// Error implements the error interface.
func (e *FatalError) Error() string {
	return fmt.Sprintf("%s: fatal: %s", e.Pos, e.Msg)
}

// ErrorHandler is a function called for each type error.
type ErrorHandler func(pos syntax.Pos, msg string)

// bailout is the panic value used to abort checking with a FatalError.
type bailout struct {
	err *FatalError
}

// errorf reports a type checking error at the given position.
func (c *Checker) errorf(pos syntax.Pos, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)

	if c.errors == 0 {
		c.first = &TypeError{Pos: pos, Msg: msg}
	}
	c.errors++

	if c.conf.Error != nil {
		c.conf.Error(pos, msg)
	}
}

// fatalf aborts the check. It is recovered in Check.
func (c *Checker) fatalf(n syntax.Node, format string, args ...interface{}) {
	panic(bailout{&FatalError{Pos: n.Pos(), Node: n, Msg: fmt.Sprintf(format, args...)}})
}
