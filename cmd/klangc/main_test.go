package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/you-not-fish/klang/internal/syntax"
)

const pointSrc = `struct Point {
	x: i64,
	y: i64,

	fn sum() -> i64 {
		return self.x + self.y;
	}
}

fn main() -> i64 {
	let p = Point{1, 2};
	print(p.to_string());
	return p.sum();
}
`

func TestRunEmitTypedASTIncludesExprTypes(t *testing.T) {
	filename := writeTempKlangFile(t, pointSrc)
	code, out, errOut := captureOutput(t, func() int {
		return runEmitTypedAST(filename)
	})

	if code != 0 {
		t.Fatalf("runEmitTypedAST exit=%d\nstderr:\n%s\nstdout:\n%s", code, errOut, out)
	}
	if errOut != "" {
		t.Fatalf("unexpected stderr:\n%s", errOut)
	}
	for _, want := range []string{
		" Point : Point\n",
		"MethodCall ",
		"to_string : string\n",
		"BinOpExpr ",
		"+ : i64\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("typed AST missing %q:\n%s", want, out)
		}
	}
}

func TestRunEmitTypedASTReportsTypeErrors(t *testing.T) {
	filename := writeTempKlangFile(t, "fn main() -> i64 { return true; }\n")
	code, _, errOut := captureOutput(t, func() int {
		return runEmitTypedAST(filename)
	})
	if code != 1 {
		t.Fatalf("exit = %d, want 1", code)
	}
	if !strings.Contains(errOut, "cannot use bool as i64") {
		t.Errorf("stderr missing type error:\n%s", errOut)
	}
}

func TestRunEmitASTFormats(t *testing.T) {
	filename := writeTempKlangFile(t, pointSrc)

	code, out, _ := captureOutput(t, func() int { return runEmitAST(filename, "text") })
	if code != 0 || !strings.Contains(out, "StructDecl ") || !strings.Contains(out, "MethodDecl ") {
		t.Errorf("text AST (exit %d):\n%s", code, out)
	}

	code, out, _ = captureOutput(t, func() int { return runEmitAST(filename, "json") })
	if code != 0 || !strings.Contains(out, `"type": "File"`) {
		t.Errorf("json AST (exit %d):\n%s", code, out)
	}

	code, out, _ = captureOutput(t, func() int { return runEmitAST(filename, "cbor") })
	if code != 0 {
		t.Fatalf("cbor AST exit = %d", code)
	}
	m, err := syntax.DecodeCBOR([]byte(out))
	if err != nil {
		t.Fatalf("DecodeCBOR: %v", err)
	}
	if m["type"] != "File" {
		t.Errorf("cbor root type = %v", m["type"])
	}

	code, _, errOut := captureOutput(t, func() int { return runEmitAST(filename, "yaml") })
	if code != 1 || !strings.Contains(errOut, "unknown AST format") {
		t.Errorf("unknown format: exit %d, stderr %q", code, errOut)
	}
}

func TestRunEmitTokens(t *testing.T) {
	filename := writeTempKlangFile(t, "fn main() { print(\"a\\tb\"); }\n")
	code, out, _ := captureOutput(t, func() int { return runEmitTokens(filename) })
	if code != 0 {
		t.Fatalf("exit = %d\n%s", code, out)
	}
	for _, want := range []string{"POSITION", `"main"`, `"a\tb"`} {
		if !strings.Contains(out, want) {
			t.Errorf("token stream missing %q:\n%s", want, out)
		}
	}
}

func TestRunCompileWritesArtifacts(t *testing.T) {
	filename := writeTempKlangFile(t, pointSrc)
	dir := t.TempDir()

	defer func(old, pkg string) { *outputDir, *pkgName = old, pkg }(*outputDir, *pkgName)
	*outputDir, *pkgName = dir, "demo"

	code, out, errOut := captureOutput(t, func() int { return runCompile(filename) })
	if code != 0 {
		t.Fatalf("runCompile exit=%d\nstderr:\n%s\nstdout:\n%s", code, errOut, out)
	}
	for _, ext := range []string{".s", ".h", ".c"} {
		path := filepath.Join(dir, "demo.input"+ext)
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing artifact: %v", err)
		}
	}
}

func TestRunCompileReportsDiagnostics(t *testing.T) {
	filename := writeTempKlangFile(t, "fn f() {}\n")
	defer func(old string) { *outputDir = old }(*outputDir)
	*outputDir = t.TempDir()

	code, _, errOut := captureOutput(t, func() int { return runCompile(filename) })
	if code != 1 {
		t.Fatalf("exit = %d, want 1", code)
	}
	if !strings.Contains(errOut, "missing function main") {
		t.Errorf("stderr missing diagnostic:\n%s", errOut)
	}
	if strings.Contains(errOut, "error: ") {
		t.Errorf("diagnostics reported twice:\n%s", errOut)
	}
}

func TestRunCompileReportsIOError(t *testing.T) {
	defer func(old string) { *outputDir = old }(*outputDir)
	*outputDir = t.TempDir()

	missing := filepath.Join(t.TempDir(), "missing.k")
	code, _, errOut := captureOutput(t, func() int { return runCompile(missing) })
	if code != 1 {
		t.Fatalf("exit = %d, want 1", code)
	}
	if !strings.Contains(errOut, "error: ") || !strings.Contains(errOut, "missing.k") {
		t.Errorf("stderr = %q, want an error line naming the file", errOut)
	}
}

func TestFormatLiteral(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", `""`},
		{"abc", `"abc"`},
		{"a\nb", `"a\nb"`},
		{"q\"\\", `"q\"\\"`},
		{"\x00", `"\0"`},
	}
	for _, tt := range tests {
		if got := formatLiteral(tt.in); got != tt.want {
			t.Errorf("formatLiteral(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func writeTempKlangFile(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	filename := filepath.Join(dir, "input.k")
	if err := os.WriteFile(filename, []byte(src), 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return filename
}

func captureOutput(t *testing.T, fn func() int) (code int, stdout string, stderr string) {
	t.Helper()

	oldStdout := os.Stdout
	oldStderr := os.Stderr

	rOut, wOut, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe stdout: %v", err)
	}
	rErr, wErr, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe stderr: %v", err)
	}

	os.Stdout = wOut
	os.Stderr = wErr

	code = fn()

	_ = wOut.Close()
	_ = wErr.Close()
	os.Stdout = oldStdout
	os.Stderr = oldStderr

	outBytes, _ := io.ReadAll(rOut)
	errBytes, _ := io.ReadAll(rErr)
	_ = rOut.Close()
	_ = rErr.Close()

	return code, string(outBytes), string(errBytes)
}
