package compiler

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"

	"github.com/you-not-fish/klang/internal/codegen"
	"github.com/you-not-fish/klang/internal/config"
	"github.com/you-not-fish/klang/internal/syntax"
	"github.com/you-not-fish/klang/internal/types2"
)

var testCfg = codegen.Config{Package: "test", Unit: "prog"}

// section returns the named file of the archive, or "" if absent.
func section(ar *txtar.Archive, name string) (string, bool) {
	for _, f := range ar.Files {
		if f.Name == name {
			return string(f.Data), true
		}
	}
	return "", false
}

// expectLines checks that every non-empty line of want occurs in got.
// A literal \t in want stands for a tab.
func expectLines(t *testing.T, what, got, want string) {
	t.Helper()
	for _, line := range strings.Split(want, "\n") {
		if line == "" {
			continue
		}
		line = strings.ReplaceAll(line, `\t`, "\t")
		if !strings.Contains(got, line) {
			t.Errorf("%s missing %q", what, line)
		}
	}
}

func TestArchives(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no test archives")
	}
	for _, file := range files {
		t.Run(strings.TrimSuffix(filepath.Base(file), ".txtar"), func(t *testing.T) {
			ar, err := txtar.ParseFile(file)
			if err != nil {
				t.Fatal(err)
			}
			src, ok := section(ar, "prog.k")
			if !ok {
				t.Fatal("archive has no prog.k")
			}

			var diags []string
			errh := func(pos syntax.Pos, msg string) {
				diags = append(diags, pos.String()+": "+msg)
			}
			u, err := Compile("prog.k", strings.NewReader(src), testCfg, errh)

			if want, ok := section(ar, "errors"); ok {
				var pe *PhaseError
				if !errors.As(err, &pe) {
					t.Fatalf("Compile() error = %v, want *PhaseError", err)
				}
				if pe.Count != len(diags) {
					t.Errorf("PhaseError.Count = %d, reported %d", pe.Count, len(diags))
				}
				expectLines(t, "diagnostics", strings.Join(diags, "\n"), want)
				return
			}

			if err != nil {
				t.Fatalf("Compile() error = %v\n%s", err, strings.Join(diags, "\n"))
			}
			if want, ok := section(ar, "asm"); ok {
				expectLines(t, "asm", u.Asm, want)
			}
			if want, ok := section(ar, "header"); ok {
				expectLines(t, "header", u.Header, want)
			}
		})
	}
}

func TestPhaseErrors(t *testing.T) {
	_, err := Compile("x.k", strings.NewReader("fn main( {"), testCfg, nil)
	var se *syntax.SyntaxError
	if !errors.As(err, &se) {
		t.Errorf("syntax error = %v, want *syntax.SyntaxError", err)
	}

	_, err = Compile("x.k", strings.NewReader("fn main() -> i64 { return x; }"), testCfg, nil)
	var te *types2.TypeError
	if !errors.As(err, &te) {
		t.Errorf("type error = %v, want *types2.TypeError", err)
	}
	var pe *PhaseError
	if !errors.As(err, &pe) || pe.Phase != "type" {
		t.Errorf("type error = %v, want type phase", err)
	}
}

func TestCompileFileWritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "hello.k")
	if err := os.WriteFile(src, []byte("fn main() { print(\"hi\"); }\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, config.FileName), []byte("[output]\ndir = \"build\"\npackage = \"demo\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := config.Resolve(src, "", config.Overrides{})
	if err != nil {
		t.Fatal(err)
	}
	paths, err := CompileFile(src, c, nil)
	if err != nil {
		t.Fatalf("CompileFile: %v", err)
	}

	build := filepath.Join(dir, "build")
	want := []string{
		filepath.Join(build, "demo.hello.s"),
		filepath.Join(build, "demo.hello.h"),
		filepath.Join(build, "demo.hello.c"),
	}
	if strings.Join(paths, ",") != strings.Join(want, ",") {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	asm, err := os.ReadFile(want[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(asm), "\t.file\t\"demo.hello.s\"") {
		t.Errorf("unexpected asm:\n%s", asm)
	}
	c2, err := os.ReadFile(want[2])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(c2), "#include \"demo.hello.h\"") {
		t.Errorf("unexpected C source:\n%s", c2)
	}
}

func TestWriteError(t *testing.T) {
	u, err := Compile("x.k", strings.NewReader("fn main() {}"), testCfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	// a regular file where the output directory should be
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	c := &config.Config{Output: config.Output{Dir: filepath.Join(blocker, "out"), Package: "test", Unit: "prog"}}
	if _, err := u.Write(c); err == nil {
		t.Fatal("Write into a file path succeeded")
	}
}
