// Package main implements the klang compiler entry point.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/you-not-fish/klang/internal/compiler"
	"github.com/you-not-fish/klang/internal/config"
	"github.com/you-not-fish/klang/internal/syntax"
	"github.com/you-not-fish/klang/internal/types2"
)

// Compiler flags
var (
	emitTokens   = flag.Bool("emit-tokens", false, "Output token stream")
	emitAST      = flag.Bool("emit-ast", false, "Output AST")
	astFormat    = flag.String("ast-format", "text", "AST output format (text, json or cbor)")
	emitTypedAST = flag.Bool("emit-typed-ast", false, "Output typed AST")
	outputDir    = flag.String("o", "", "Output directory (overrides klang.toml)")
	pkgName      = flag.String("package", "", "Package name used in artifact names")
	unitName     = flag.String("unit", "", "Unit name used in artifact names (default: source base name)")
	configFile   = flag.String("config", "", "Path to klang.toml (default: search upward from the source)")
	verbosity    = flag.Int("v", -1, "Log verbosity (default: from klang.toml, else 0)")
	logFile      = flag.String("log", "", "Log file (default: stderr)")
	doctor       = flag.Bool("doctor", false, "Check toolchain")
	version      = flag.Bool("version", false, "Print version")
)

// Version information
const Version = "0.1.0-dev"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "klang compiler %s\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: klangc [options] <file.k>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *version {
		fmt.Printf("klangc version %s\n", Version)
		fmt.Printf("go version %s\n", runtime.Version())
		os.Exit(0)
	}

	if *doctor {
		os.Exit(runDoctor())
	}

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "error: no input file")
		fmt.Fprintln(os.Stderr, "usage: klangc [options] <file.k>")
		os.Exit(1)
	}

	filename := args[0]

	if *emitTokens {
		os.Exit(runEmitTokens(filename))
	}

	if *emitAST {
		os.Exit(runEmitAST(filename, *astFormat))
	}

	if *emitTypedAST {
		os.Exit(runEmitTypedAST(filename))
	}

	os.Exit(runCompile(filename))
}

// overrides collects the command-line values that take precedence over
// klang.toml.
func overrides() config.Overrides {
	o := config.Overrides{
		Dir:     *outputDir,
		Package: *pkgName,
		Unit:    *unitName,
		LogFile: *logFile,
	}
	if *verbosity >= 0 {
		o.Verbosity = verbosity
	}
	return o
}

// printDiag writes a diagnostic to stderr.
func printDiag(pos syntax.Pos, msg string) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", pos, msg)
}

// runCompile compiles filename and writes the .s, .h and .c artifacts.
func runCompile(filename string) int {
	c, err := config.Resolve(filename, *configFile, overrides())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	var logPath *string
	if c.Log.File != "" {
		logPath = &c.Log.File
	}
	commonlog.Configure(c.Log.Verbosity, logPath)

	if _, err := compiler.CompileFile(filename, c, printDiag); err != nil {
		var pe *compiler.PhaseError
		if errors.As(err, &pe) {
			// diagnostics were already printed
			return 1
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// runEmitAST parses the input file and outputs the AST.
func runEmitAST(filename, format string) int {
	f, err := os.Open(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer f.Close()

	var errs []string
	errh := func(pos syntax.Pos, msg string) {
		errs = append(errs, fmt.Sprintf("%s: %s", pos, msg))
	}

	ast := syntax.NewParser(filename, f, errh).Parse()

	// Print errors first
	for _, e := range errs {
		fmt.Fprintln(os.Stderr, e)
	}

	switch format {
	case "json":
		err = syntax.FprintJSON(os.Stdout, ast)
	case "cbor":
		err = syntax.FprintCBOR(os.Stdout, ast)
	case "text":
		syntax.Fprint(os.Stdout, ast)
	default:
		err = fmt.Errorf("unknown AST format %q (want text, json or cbor)", format)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	if len(errs) > 0 {
		return 1
	}
	return 0
}

// runEmitTokens scans the input file and prints all tokens with positions.
func runEmitTokens(filename string) int {
	f, err := os.Open(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer f.Close()

	var errs []string
	errh := func(line, col uint32, msg string) {
		errs = append(errs, fmt.Sprintf("%s:%d:%d: %s", filename, line, col, msg))
	}

	s := syntax.NewScanner(filename, f, errh)

	fmt.Printf("%-20s %-12s %s\n", "POSITION", "TOKEN", "LITERAL")
	fmt.Printf("%-20s %-12s %s\n", strings.Repeat("-", 20), strings.Repeat("-", 12), strings.Repeat("-", 20))

	for {
		s.Next()
		tok := s.Token()
		fmt.Printf("%-20s %-12s %s\n", s.Pos(), tok, formatLiteral(s.Literal()))
		if tok.IsEOF() {
			break
		}
	}

	if len(errs) > 0 {
		fmt.Println()
		fmt.Println("Errors:")
		for _, e := range errs {
			fmt.Printf("  %s\n", e)
		}
		return 1
	}

	return 0
}

// formatLiteral formats a literal for display, escaping special characters.
func formatLiteral(lit string) string {
	if lit == "" {
		return "\"\""
	}

	var b strings.Builder
	b.WriteRune('"')
	for _, r := range lit {
		switch r {
		case '\n':
			b.WriteString("\\n")
		case '\t':
			b.WriteString("\\t")
		case '\r':
			b.WriteString("\\r")
		case '\\':
			b.WriteString("\\\\")
		case '"':
			b.WriteString("\\\"")
		case 0:
			b.WriteString("\\0")
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune('"')
	return b.String()
}

// runEmitTypedAST parses, type-checks, and outputs the AST with the type
// of every expression.
func runEmitTypedAST(filename string) int {
	f, err := os.Open(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer f.Close()

	ast, err := compiler.Parse(filename, f, printDiag)
	if err != nil {
		return 1
	}

	info, _, err := compiler.Check(filename, ast, printDiag)
	var fatal *types2.FatalError
	if errors.As(err, &fatal) {
		fmt.Fprintln(os.Stderr, fatal)
		return 1
	}

	syntax.FprintTyped(os.Stdout, ast, func(e syntax.Expr) string {
		if t := info.TypeOf(e); t != nil {
			return t.String()
		}
		return ""
	})

	if err != nil {
		return 1
	}
	return 0
}

// runDoctor checks the toolchain and returns an exit code.
func runDoctor() int {
	fmt.Println("klang Toolchain Doctor")
	fmt.Println("======================")
	fmt.Println()

	allOk := true

	fmt.Printf("Go:   %s\n", runtime.Version())

	if runtime.GOOS != "linux" || runtime.GOARCH != "amd64" {
		fmt.Printf("host: %s/%s ✗ (generated code targets linux/amd64)\n", runtime.GOOS, runtime.GOARCH)
		allOk = false
	}

	// gcc assembles and links the generated units
	gccVersion, gccOk := checkTool("gcc", "--version")
	fmt.Printf("gcc:  %s", gccVersion)
	if gccOk {
		fmt.Println(" ✓")
	} else {
		fmt.Println(" ✗ (not found)")
		allOk = false
	}

	asVersion, asOk := checkTool("as", "--version")
	fmt.Printf("as:   %s", asVersion)
	if asOk {
		fmt.Println(" ✓")
	} else {
		fmt.Println(" ✗ (not found)")
		allOk = false
	}

	fmt.Println()
	if allOk {
		fmt.Println("All required tools available!")
		return 0
	}

	fmt.Println("Some required tools are missing.")
	return 1
}

// checkTool runs a tool with the given arguments and returns the first line of output.
func checkTool(name string, args ...string) (string, bool) {
	cmd := exec.Command(name, args...)
	out, err := cmd.Output()
	if err != nil {
		return "", false
	}

	lines := strings.Split(string(out), "\n")
	if len(lines) > 0 {
		line := strings.TrimSpace(lines[0])
		if len(line) > 60 {
			line = line[:57] + "..."
		}
		return line, true
	}
	return "", false
}
