package types2

import (
	"fmt"
	"testing"
)

func TestStatementErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"redeclare", "let x = 1; let x = 2;", "variable 'x' redeclared in f"},
		{"redeclare in block", "let x = 1; if c { let x = 2; }", "variable 'x' redeclared in f"},
		{"redeclare param", "let a = 1;", "variable 'a' redeclared in f"},
		{"no type no init", "let x;", "declaration of 'x' needs a type or an initializer"},
		{"void var", "let x: void;", "variable 'x' cannot have type void"},
		{"decl mismatch", "let x: f64 = 1;", "cannot use i64 as f64 in declaration of 'x'"},
		{"infer null", "let x = null;", "cannot infer type of 'x' from null"},
		{"infer void", "let x = print(1);", "cannot infer type of 'x' from void"},
		{"assign undeclared", "y = 1;", "assignment to undeclared variable 'y'"},
		{"assign mismatch", "a = true;", "cannot use bool as i64 in assignment to 'a'"},
		{"field assign mismatch", "p.x = \"s\";", "cannot use string as i64 in assignment to field 'x'"},
		{"field assign unknown", "p.z = 1;", "struct P has no field 'z'"},
		{"if cond", "if a { }", "condition must be bool, not i64"},
		{"break outside", "break;", "break is not in a loop"},
		{"unused value", "a + 1;", "unused result of type i64"},
		{"unused call", "g();", "unused result of type i64"},
		{"drop value", "drop a;", "cannot drop 'a' of non-reference type i64"},
		{"drop undefined", "drop q;", "use of undefined variable 'q'"},
		{"drop uninitialized", "let q: P; drop q;", "use of uninitialized variable 'q'"},
		{"return value in void", "return 1;", "unexpected return value in void function f"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := fmt.Sprintf(`struct P { x: i64 }
fn g() -> i64 { return 1; }
fn f(a: i64, c: bool, p: P) {
	%s
}
fn main() {}`, tt.body)
			expectErrors(t, src, tt.want)
		})
	}
}

func TestReturnErrors(t *testing.T) {
	expectErrors(t, "fn f() -> i64 { return; } fn main() {}", "missing return value (f returns i64)")
	expectErrors(t, "fn f() -> i64 { return true; } fn main() {}", "cannot use bool as i64 in return from f")
	expectErrors(t, "struct P { fn m() -> string { return 1; } } fn main() {}", "cannot use i64 as string in return from P.m")
}

func TestStatementsAccepted(t *testing.T) {
	expectNoErrors(t, `
struct P { x: i64, name: string }
fn f(p: P) -> P {
	let q: P = null;
	let s: string;
	s = "x";
	q = p;
	p.name = null;
	if q == null { return null; }
	loop {
		loop { break; }
		if true { break; }
	}
	;
	{ let inner = 1; }
	drop s;
	drop q;
	return p;
}
fn main() -> i64 {
	print(f(P{1, "a"}).to_string());
	return 0;
}
`)
}

func TestInitializationIsFlowInsensitive(t *testing.T) {
	// A later assignment in source order counts, even inside a branch.
	expectNoErrors(t, `
fn main() {
	let x: i64;
	if true { x = 1; }
	print(x);
}
`)
}
