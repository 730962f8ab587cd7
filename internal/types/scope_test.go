package types

import (
	"testing"

	"github.com/you-not-fish/klang/internal/syntax"
)

func TestScopeInsertAndLookup(t *testing.T) {
	scope := NewScope(nil, "function f")

	x := NewVar(syntax.Pos{}, "x", Typ[I64])
	if existing := scope.Insert(x); existing != nil {
		t.Fatalf("Insert() returned %v for first insert", existing)
	}
	if scope.Lookup("x") != x {
		t.Errorf("Lookup() did not return inserted object")
	}
	if x.Parent() != scope {
		t.Errorf("Parent() not set by Insert")
	}

	// A second let x in the same function is rejected.
	if existing := scope.Insert(NewVar(syntax.Pos{}, "x", Typ[F64])); existing != x {
		t.Errorf("Insert() of duplicate = %v, want first object", existing)
	}
}

func TestScopeLookupParent(t *testing.T) {
	pkg := NewScope(Universe, "package main")
	fn := NewScope(pkg, "function main")

	add := NewFunc(syntax.Pos{}, "add", nil, nil, Typ[I64])
	pkg.Insert(add)
	fn.Insert(NewVar(syntax.Pos{}, "n", Typ[I64]))

	tests := []struct {
		name  string
		scope *Scope
	}{
		{"n", fn},
		{"add", pkg},
		{"i64", Universe},
		{"print", Universe},
	}
	for _, tt := range tests {
		obj, s := fn.LookupParent(tt.name)
		if obj == nil {
			t.Errorf("LookupParent(%q) = nil", tt.name)
			continue
		}
		if s != tt.scope {
			t.Errorf("LookupParent(%q) found in %q, want %q", tt.name, s.Name(), tt.scope.Name())
		}
	}
	if obj, s := fn.LookupParent("missing"); obj != nil || s != nil {
		t.Errorf("LookupParent(missing) = %v, %v", obj, s)
	}
	if fn.Lookup("add") != nil {
		t.Errorf("Lookup() must not search parent scopes")
	}
}

func TestNewPackageLeavesUniverseUnchanged(t *testing.T) {
	before := len(Universe.elems)
	for i := 0; i < 3; i++ {
		pkg := NewPackage("main")
		pkg.AddStruct(NewStruct(syntax.Pos{}, "Point"))
		if obj, s := pkg.Scope().LookupParent("i64"); obj == nil || s != Universe {
			t.Fatalf("package scope does not reach the universe")
		}
	}
	if len(Universe.elems) != before {
		t.Errorf("universe has %d objects, want %d", len(Universe.elems), before)
	}
	if Universe.Lookup("Point") != nil {
		t.Errorf("package struct leaked into the universe")
	}
}

func TestUniverse(t *testing.T) {
	for _, name := range []string{"i64", "f64", "bool", "string", "void"} {
		tn, ok := Universe.Lookup(name).(*TypeName)
		if !ok {
			t.Errorf("Universe.Lookup(%q) is not a TypeName", name)
			continue
		}
		if tn.Type().String() != name {
			t.Errorf("type %q has String() %q", name, tn.Type())
		}
		if LookupType(name) != tn.Type() {
			t.Errorf("LookupType(%q) mismatch", name)
		}
	}
	if b, ok := Universe.Lookup("print").(*Builtin); !ok || b.Kind() != BuiltinPrint {
		t.Errorf("print is not the print builtin")
	}
	if UniversePrint().Type() != Typ[Void] {
		t.Errorf("print result = %s, want void", UniversePrint().Type())
	}
	for _, name := range []string{"null", "invalid type", "Point"} {
		if LookupType(name) != nil {
			t.Errorf("LookupType(%q) should be nil", name)
		}
	}
}
