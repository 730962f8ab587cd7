package cgen

import (
	"regexp"
	"strings"
	"testing"

	"github.com/you-not-fish/klang/internal/codegen"
	"github.com/you-not-fish/klang/internal/syntax"
	"github.com/you-not-fish/klang/internal/types"
	"github.com/you-not-fish/klang/internal/types2"
)

var cfg = codegen.Config{Package: "demo", Unit: "shapes"}

const shapesSrc = `
struct Point {
	x: i64,
	y: i64,

	fn sum() -> i64 {
		return self.x + self.y;
	}
}

struct Shape {
	origin: Point,
	name: string,
	scale: f64,
	visible: bool,
}

struct Empty {}

fn area(s: Shape, k: f64) -> f64 {
	return s.scale * k;
}

fn main() -> i64 {
	let s = Shape{Point{1, 2}, "sq", 2.0, true};
	print(s.to_string());
	drop s;
	return 0;
}
`

func check(t *testing.T, src string) (*syntax.File, *types2.Info, *types.Package) {
	t.Helper()
	file, err := syntax.ParseFile("shapes.k", strings.NewReader(src), nil)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	info := &types2.Info{}
	pkg, err := types2.Check("shapes.k", file, &types2.Config{}, info)
	if err != nil {
		t.Fatalf("type error: %v", err)
	}
	return file, info, pkg
}

func generate(t *testing.T, src string) (string, string) {
	t.Helper()
	file, info, pkg := check(t, src)
	h, c, err := Generate(file, info, pkg, cfg)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return h, c
}

func TestHeader(t *testing.T) {
	h, _ := generate(t, shapesSrc)
	for _, want := range []string{
		"// Auto-generated C header file\n#ifndef DEMO_SHAPES_H\n#define DEMO_SHAPES_H\n",
		"#include <stdint.h>\n#include <stdbool.h>\n#include <stddef.h>\n",
		"struct Point;\nstruct Shape;\nstruct Empty;\n",
		"int64_t klang$main(void);\n",
		"double area(struct Shape* s, double k);\n",
		"struct Shape {\n  struct Point* origin;\n  char* name;\n  double scale;\n  bool visible __attribute__((aligned(8)));\n};\n",
		"struct Empty {\n  char _$dummy$_;\n};\n",
		"int64_t Point$sum(struct Point* self);\n",
		"struct Point* Point$new$(int64_t x, int64_t y);\n",
		"struct Empty* Empty$new$(void);\n",
		"void Shape$drop$(struct Shape* this);\n",
		"char* Shape$to_string(struct Shape* this);\n",
		"bool Shape$get_visible$(struct Shape* this);\n",
		"void Shape$set_scale$(struct Shape* this, double value);\n",
		"char* string$concat(char* this, char* other);\n",
		"int64_t string$len(char* this);\n",
	} {
		if !strings.Contains(h, want) {
			t.Errorf("header missing %q:\n%s", want, h)
		}
	}
	if !strings.HasSuffix(h, "#endif // DEMO_SHAPES_H\n") {
		t.Errorf("header does not end with the guard")
	}
}

func TestSource(t *testing.T) {
	_, c := generate(t, shapesSrc)
	for _, want := range []string{
		"#include \"demo.shapes.h\"\n#include <stdio.h>\n#include <stdlib.h>\n#include <string.h>\n",
		"__attribute__((weak)) struct Point* Point$new$(int64_t x, int64_t y) {\n  struct Point* this = (struct Point*)malloc(16);\n  this->x = x;\n",
		"  Point$drop$(this->origin);\n  string$drop$(this->name);\n  free(this);\n",
		"  piece = Point$to_string(this->origin);\n",
		"snprintf(buf, sizeof(buf), \"%f\", this->scale);",
		"piece = strdup(this->visible ? \"true\" : \"false\");",
		"char* acc = strdup(\"Shape(\");",
		"__attribute__((weak)) char* string$new$(char* str) {\n  return strdup(str);\n}\n",
	} {
		if !strings.Contains(c, want) {
			t.Errorf("source missing %q:\n%s", want, c)
		}
	}
	if strings.Contains(c, "Point$sum(") || strings.Contains(c, " area(") {
		t.Errorf("user functions must only be defined in assembly")
	}
}

func weakDefinitions(src, sym string) int {
	var n int
	for _, line := range strings.Split(src, "\n") {
		if strings.HasPrefix(line, "__attribute__((weak)) ") && strings.Contains(line, " "+sym+"(") {
			n++
		}
	}
	return n
}

var globl = regexp.MustCompile(`(?m)^\t\.globl\t(\S+)$`)

// Every routine the assembly emits for a struct or the stdlib has exactly
// one weak C definition and a declaration in the header.
func TestMirrorsAssemblyRoutines(t *testing.T) {
	file, info, pkg := check(t, shapesSrc)
	var asm strings.Builder
	if err := codegen.Generate(&asm, file, info, pkg, cfg); err != nil {
		t.Fatalf("codegen.Generate: %v", err)
	}
	h, c, err := Generate(file, info, pkg, cfg)
	if err != nil {
		t.Fatal(err)
	}

	user := map[string]bool{"main": true, "klang$main": true, "area": true, "Point$sum": true}
	var n int
	for _, m := range globl.FindAllStringSubmatch(asm.String(), -1) {
		sym := m[1]
		if user[sym] {
			continue
		}
		n++
		if got := weakDefinitions(c, sym); got != 1 {
			t.Errorf("%s has %d weak C definitions, want 1", sym, got)
		}
		if !strings.Contains(h, " "+sym+"(") {
			t.Errorf("%s not declared in header", sym)
		}
	}
	// Point: 3+4, Shape: 3+8, Empty: 3, string stdlib: 5
	if n != 26 {
		t.Errorf("mirrored %d routines, want 26", n)
	}
}

func TestUncheckedFile(t *testing.T) {
	file, err := syntax.ParseFile("x.k", strings.NewReader("fn main() {}"), nil)
	if err != nil {
		t.Fatal(err)
	}
	_, _, err = Generate(file, &types2.Info{}, nil, cfg)
	if _, ok := err.(*codegen.GenError); !ok {
		t.Fatalf("Generate() error = %v, want *codegen.GenError", err)
	}
}
