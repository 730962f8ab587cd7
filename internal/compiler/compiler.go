// Package compiler drives the klang pipeline: parse, type-check, then
// generate the assembly unit and its C header and helper source.
package compiler

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/you-not-fish/klang/internal/codegen"
	"github.com/you-not-fish/klang/internal/codegen/cgen"
	"github.com/you-not-fish/klang/internal/config"
	"github.com/you-not-fish/klang/internal/syntax"
	"github.com/you-not-fish/klang/internal/types"
	"github.com/you-not-fish/klang/internal/types2"
)

var log = commonlog.GetLogger("klang.compiler")

// ErrorHandler receives user-facing diagnostics.
type ErrorHandler func(pos syntax.Pos, msg string)

// PhaseError reports that a phase produced diagnostics. Err is the first
// one: a *syntax.SyntaxError or a *types2.TypeError.
type PhaseError struct {
	Phase string // "syntax" or "type"
	Count int
	Err   error
}

func (e *PhaseError) Error() string {
	if e.Count == 1 {
		return fmt.Sprintf("%s error: %v", e.Phase, e.Err)
	}
	return fmt.Sprintf("%d %s errors, first: %v", e.Count, e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error { return e.Err }

// Unit is the result of compiling one source file.
type Unit struct {
	File *syntax.File
	Info *types2.Info
	Pkg  *types.Package

	Asm    string // <package>.<unit>.s
	Header string // <package>.<unit>.h
	Source string // <package>.<unit>.c
}

// counting wraps errh and counts the diagnostics passed through it.
func counting(errh ErrorHandler, n *int) func(syntax.Pos, string) {
	return func(pos syntax.Pos, msg string) {
		*n++
		if errh != nil {
			errh(pos, msg)
		}
	}
}

// Parse parses src. All syntax errors are passed to errh.
func Parse(filename string, src io.Reader, errh ErrorHandler) (*syntax.File, error) {
	var n int
	file, err := syntax.ParseFile(filename, src, counting(errh, &n))
	if err != nil {
		return file, &PhaseError{Phase: "syntax", Count: n, Err: err}
	}
	log.Debugf("parsed %s: %d declarations", filename, len(file.Decls))
	return file, nil
}

// Check type-checks file. All type errors are passed to errh.
func Check(filename string, file *syntax.File, errh ErrorHandler) (*types2.Info, *types.Package, error) {
	var n int
	conf := &types2.Config{Error: counting(errh, &n)}
	info := &types2.Info{}
	pkg, err := types2.Check(filename, file, conf, info)
	if err != nil {
		var fatal *types2.FatalError
		if errors.As(err, &fatal) {
			return info, nil, err
		}
		return info, pkg, &PhaseError{Phase: "type", Count: n, Err: err}
	}
	log.Debugf("checked %s: %d structs, %d functions", filename, len(pkg.Structs()), len(pkg.Funcs()))
	return info, pkg, nil
}

// Compile runs the whole pipeline on src. Generation only starts when
// parsing and checking reported no errors.
func Compile(filename string, src io.Reader, cfg codegen.Config, errh ErrorHandler) (*Unit, error) {
	file, err := Parse(filename, src, errh)
	if err != nil {
		return nil, err
	}
	info, pkg, err := Check(filename, file, errh)
	if err != nil {
		return nil, err
	}
	u := &Unit{File: file, Info: info, Pkg: pkg}

	var asm strings.Builder
	if err := codegen.Generate(&asm, file, info, pkg, cfg); err != nil {
		return nil, err
	}
	u.Asm = asm.String()
	log.Debugf("generated %s", cfg.FileName(".s"))

	u.Header, u.Source, err = cgen.Generate(file, info, pkg, cfg)
	if err != nil {
		return nil, err
	}
	log.Debugf("generated %s and %s", cfg.FileName(".h"), cfg.FileName(".c"))
	return u, nil
}

// Write writes the unit's artifacts into the configured output
// directory and returns their paths.
func (u *Unit) Write(c *config.Config) ([]string, error) {
	if err := os.MkdirAll(c.Output.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", c.Output.Dir, err)
	}
	artifacts := []struct {
		ext  string
		text string
	}{
		{".s", u.Asm},
		{".h", u.Header},
		{".c", u.Source},
	}
	var paths []string
	for _, a := range artifacts {
		path := c.OutputPath(a.ext)
		if err := os.WriteFile(path, []byte(a.text), 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		log.Infof("wrote %s", path)
		paths = append(paths, path)
	}
	return paths, nil
}

// CompileFile compiles the source file at path with configuration c and
// writes the artifacts.
func CompileFile(path string, c *config.Config, errh ErrorHandler) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	log.Infof("compiling %s as %s", path, filepath.Join(c.Output.Dir, c.Codegen().FileName(".*")))
	u, err := Compile(path, f, c.Codegen(), errh)
	if err != nil {
		return nil, err
	}
	return u.Write(c)
}
