package e2e

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"

	"github.com/you-not-fish/klang/internal/codegen"
	"github.com/you-not-fish/klang/internal/compiler"
	"github.com/you-not-fish/klang/internal/syntax"
)

var cfg = codegen.Config{Package: "e2e", Unit: "prog"}

// TestE2E runs end-to-end tests for all archives in testdata/.
// Each archive holds prog.k, the expected stdout and optionally the
// expected exit status. Each test:
//  1. Runs the pipeline in-process: parse → typecheck → asm + C helpers
//  2. Writes the .s, .h and .c files to a temp directory
//  3. Assembles and links them with gcc
//  4. Runs the binary and compares stdout and exit status
func TestE2E(t *testing.T) {
	archives, err := filepath.Glob("testdata/*.txtar")
	if err != nil {
		t.Fatal(err)
	}
	if len(archives) == 0 {
		t.Fatal("no .txtar archives found in testdata/")
	}

	if runtime.GOOS != "linux" || runtime.GOARCH != "amd64" {
		t.Skipf("generated code targets linux/amd64, host is %s/%s", runtime.GOOS, runtime.GOARCH)
	}
	if _, err := exec.LookPath("gcc"); err != nil {
		t.Skip("gcc not found, skipping E2E tests")
	}

	for _, archive := range archives {
		name := strings.TrimSuffix(filepath.Base(archive), ".txtar")
		t.Run(name, func(t *testing.T) {
			runE2ETest(t, archive)
		})
	}
}

// runE2ETest runs a single end-to-end test.
func runE2ETest(t *testing.T, archive string) {
	t.Helper()

	ar, err := txtar.ParseFile(archive)
	if err != nil {
		t.Fatalf("reading archive: %v", err)
	}
	files := make(map[string]string)
	for _, f := range ar.Files {
		files[f.Name] = string(f.Data)
	}
	src, ok := files["prog.k"]
	if !ok {
		t.Fatal("archive has no prog.k")
	}
	wantExit := 0
	if s, ok := files["exit"]; ok {
		if wantExit, err = strconv.Atoi(strings.TrimSpace(s)); err != nil {
			t.Fatalf("bad exit section: %v", err)
		}
	}

	tmpDir := t.TempDir()
	binFile := filepath.Join(tmpDir, "prog")

	// Step 1: Compile prog.k → .s/.h/.c (in-process).
	u := compile(t, src)
	asmFile := filepath.Join(tmpDir, cfg.FileName(".s"))
	hFile := filepath.Join(tmpDir, cfg.FileName(".h"))
	cFile := filepath.Join(tmpDir, cfg.FileName(".c"))
	writeFile(t, asmFile, u.Asm)
	writeFile(t, hFile, u.Header)
	writeFile(t, cFile, u.Source)

	// Step 2: Assemble and link with gcc.
	cmd := exec.Command("gcc", asmFile, cFile, "-o", binFile)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("gcc failed:\n%s\n%v\n--- asm ---\n%s", out, err, u.Asm)
	}

	// Step 3: Run binary and capture stdout.
	cmd = exec.Command(binFile)
	out, err := cmd.Output()
	gotExit := 0
	if err != nil {
		var ee *exec.ExitError
		if !errors.As(err, &ee) {
			t.Fatalf("binary execution failed: %v", err)
		}
		gotExit = ee.ExitCode()
	}

	// Step 4: Compare output. print adds no newline, the archive line does.
	want := strings.TrimSuffix(files["stdout"], "\n")
	if got := string(out); got != want {
		t.Errorf("output mismatch:\ngot:  %q\nwant: %q", got, want)
	}
	if gotExit != wantExit {
		t.Errorf("exit status = %d, want %d", gotExit, wantExit)
	}
}

func writeFile(t *testing.T, path, text string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
}

// compile runs the pipeline in-process and fails the test on any
// diagnostic.
func compile(t *testing.T, src string) *compiler.Unit {
	t.Helper()
	var diags []string
	errh := func(pos syntax.Pos, msg string) {
		diags = append(diags, pos.String()+": "+msg)
	}
	u, err := compiler.Compile("prog.k", strings.NewReader(src), cfg, errh)
	if err != nil {
		t.Fatalf("compile: %v\n%s", err, strings.Join(diags, "\n"))
	}
	return u
}

// TestDeterministicOutput compiles every archive twice and requires
// byte-identical artifacts. It needs no toolchain.
func TestDeterministicOutput(t *testing.T) {
	archives, err := filepath.Glob("testdata/*.txtar")
	if err != nil {
		t.Fatal(err)
	}
	for _, archive := range archives {
		ar, err := txtar.ParseFile(archive)
		if err != nil {
			t.Fatal(err)
		}
		for _, f := range ar.Files {
			if f.Name != "prog.k" {
				continue
			}
			a, b := compile(t, string(f.Data)), compile(t, string(f.Data))
			if a.Asm != b.Asm || a.Header != b.Header || a.Source != b.Source {
				t.Errorf("%s: two compilations differ", archive)
			}
		}
	}
}
