package types

import (
	"strings"
	"testing"

	"github.com/you-not-fish/klang/internal/syntax"
)

func TestPackageDeclarationOrder(t *testing.T) {
	pkg := NewPackage("main")
	b := NewStruct(syntax.Pos{}, "B")
	a := NewStruct(syntax.Pos{}, "A")
	pkg.AddStruct(b)
	pkg.AddStruct(a)
	f2 := NewFunc(syntax.Pos{}, "zz", nil, nil, Typ[Void])
	f1 := NewFunc(syntax.Pos{}, "aa", nil, nil, Typ[Void])
	pkg.AddFunc(f2)
	pkg.AddFunc(f1)

	if s := pkg.Structs(); len(s) != 2 || s[0] != b || s[1] != a {
		t.Errorf("Structs() not in declaration order")
	}
	if f := pkg.Funcs(); len(f) != 2 || f[0] != f2 || f[1] != f1 {
		t.Errorf("Funcs() not in declaration order")
	}
	if pkg.Struct("A") != a || pkg.Struct("zz") != nil || pkg.Struct("missing") != nil {
		t.Errorf("Struct() lookup wrong")
	}
	if pkg.Func("aa") != f1 || pkg.Func("A") != nil {
		t.Errorf("Func() lookup wrong")
	}
}

func TestPackageDuplicates(t *testing.T) {
	pkg := NewPackage("main")
	pkg.AddStruct(NewStruct(syntax.Pos{}, "P"))
	if pkg.AddStruct(NewStruct(syntax.Pos{}, "P")) == nil {
		t.Errorf("duplicate struct accepted")
	}
	if pkg.AddFunc(NewFunc(syntax.Pos{}, "P", nil, nil, Typ[Void])) == nil {
		t.Errorf("function shadowing a struct accepted")
	}
	if len(pkg.Structs()) != 1 || len(pkg.Funcs()) != 0 {
		t.Errorf("rejected declarations were recorded")
	}
}

func TestPackageComplete(t *testing.T) {
	pkg := NewPackage("main")
	s := NewStruct(syntax.Pos{}, "P")
	pkg.AddStruct(s)
	main := NewFunc(syntax.Pos{}, "main", nil, nil, Typ[Void])
	pkg.AddFunc(main)
	pkg.SetEntry(main)
	pkg.Complete()

	if !pkg.Completed() || pkg.Entry() != main {
		t.Fatalf("Complete() state wrong")
	}

	mutators := map[string]func(){
		"AddStruct": func() { pkg.AddStruct(NewStruct(syntax.Pos{}, "Q")) },
		"AddFunc":   func() { pkg.AddFunc(NewFunc(syntax.Pos{}, "f", nil, nil, Typ[Void])) },
		"SetEntry":  func() { pkg.SetEntry(nil) },
		"AddField":  func() { s.AddField(NewField(syntax.Pos{}, "x", Typ[I64])) },
		"AddMethod": func() { s.AddMethod(NewFunc(syntax.Pos{}, "m", s, nil, Typ[Void])) },
	}
	for name, fn := range mutators {
		t.Run(name, func(t *testing.T) {
			defer func() {
				r := recover()
				if r == nil {
					t.Fatalf("%s did not panic on a completed package", name)
				}
				if msg, _ := r.(string); !strings.Contains(msg, "types:") {
					t.Errorf("panic = %v", r)
				}
			}()
			fn()
		})
	}
}
