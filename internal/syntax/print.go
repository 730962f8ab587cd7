package syntax

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes a textual representation of the AST to w.
func Fprint(w io.Writer, node Node) {
	p := &printer{w: w}
	p.print(node)
}

// FprintTyped is like Fprint but appends ": T" to every expression line,
// where T is the result of typeOf. typeOf returns "" for untyped nodes.
func FprintTyped(w io.Writer, node Node, typeOf func(Expr) string) {
	p := &printer{w: w, typeOf: typeOf}
	p.print(node)
}

type printer struct {
	w      io.Writer
	indent int
	typeOf func(Expr) string
}

func (p *printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s%s", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}

// expr prints the header line of an expression node.
func (p *printer) expr(x Expr, format string, args ...interface{}) {
	line := fmt.Sprintf(format, args...)
	if p.typeOf != nil {
		if t := p.typeOf(x); t != "" {
			line += " : " + t
		}
	}
	p.printf("%s\n", line)
}

// child prints node one level deeper under an optional label.
func (p *printer) child(label string, node Node) {
	p.indent++
	if label != "" {
		p.printf("%s:\n", label)
		p.indent++
	}
	p.print(node)
	if label != "" {
		p.indent--
	}
	p.indent--
}

func (p *printer) list(label string, xs []Expr) {
	if len(xs) == 0 {
		return
	}
	p.indent++
	p.printf("%s:\n", label)
	p.indent++
	for _, x := range xs {
		p.print(x)
	}
	p.indent -= 2
}

func (p *printer) print(node Node) {
	if node == nil {
		return
	}

	switch n := node.(type) {
	case *File:
		p.printf("File %s\n", n.pos)
		p.indent++
		for _, d := range n.Decls {
			p.print(d)
		}
		p.indent--

	case *StructDecl:
		p.printf("StructDecl %s %s\n", n.pos, n.Name)
		p.indent++
		for _, f := range n.Fields {
			p.printf("Field %s %s\n", f.Name, typeString(f.Type))
		}
		for _, m := range n.Methods {
			p.print(m)
		}
		p.indent--

	case *FuncDecl:
		if n.IsMethod() {
			p.printf("MethodDecl %s %s.%s\n", n.pos, n.Recv, n.Name)
		} else {
			p.printf("FuncDecl %s %s\n", n.pos, n.Name)
		}
		p.indent++
		for _, f := range n.Params {
			p.printf("Param %s %s\n", f.Name, typeString(f.Type))
		}
		p.printf("Result: %s\n", typeString(n.Result))
		p.indent--
		p.child("Body", n.Body)

	case *Field:
		p.printf("Field %s %s %s\n", n.pos, n.Name, typeString(n.Type))

	case *TypeName:
		p.printf("TypeName %s %s\n", n.pos, n.Name)

	// Expressions

	case *IntLit:
		p.expr(n, "IntLit %s %d%s", n.pos, n.Value, suffixString(n.Suffix))

	case *FloatLit:
		p.expr(n, "FloatLit %s %g%s", n.pos, n.Value, suffixString(n.Suffix))

	case *BoolLit:
		p.expr(n, "BoolLit %s %t", n.pos, n.Value)

	case *StringLit:
		p.expr(n, "StringLit %s %q", n.pos, n.Value)

	case *NullLit:
		p.expr(n, "NullLit %s", n.pos)

	case *Var:
		p.expr(n, "Var %s %s", n.pos, n.Name)

	case *FunCall:
		p.expr(n, "FunCall %s %s", n.pos, n.Name)
		p.list("Args", n.Args)

	case *ConstructorCall:
		p.expr(n, "ConstructorCall %s %s", n.pos, n.Struct)
		p.list("Args", n.Args)

	case *MemberChain:
		p.expr(n, "MemberChain %s", n.pos)
		p.child("Owner", n.Owner)
		p.indent++
		for _, a := range n.Chain {
			p.print(a)
		}
		p.indent--

	case *FieldGet:
		p.expr(n, "FieldGet %s %s", n.pos, n.Name)

	case *FieldSet:
		p.expr(n, "FieldSet %s %s", n.pos, n.Name)

	case *MethodCall:
		p.expr(n, "MethodCall %s %s", n.pos, n.Name)
		p.list("Args", n.Args)

	case *BinOpExpr:
		p.expr(n, "BinOpExpr %s %s", n.pos, n.Op)
		p.child("X", n.X)
		p.child("Y", n.Y)

	case *UnaryOpExpr:
		p.expr(n, "UnaryOpExpr %s %s", n.pos, n.Op)
		p.child("", n.X)

	case *TernaryExpr:
		p.expr(n, "TernaryExpr %s", n.pos)
		p.child("Cond", n.Cond)
		p.child("Then", n.Then)
		p.child("Else", n.Else)

	case *TypeCast:
		p.expr(n, "TypeCast %s %s", n.pos, typeString(n.Type))
		p.child("", n.X)

	// Statements

	case *EmptyStmt:
		p.printf("EmptyStmt %s\n", n.pos)

	case *ExprStmt:
		p.printf("ExprStmt %s\n", n.pos)
		p.child("", n.X)

	case *VarDeclStmt:
		p.printf("VarDeclStmt %s %s %s\n", n.pos, n.Name, typeString(n.Type))
		if n.Init != nil {
			p.child("Init", n.Init)
		}

	case *AssignStmt:
		p.printf("AssignStmt %s %s\n", n.pos, n.Name)
		p.child("", n.Value)

	case *FieldAssignStmt:
		p.printf("FieldAssignStmt %s\n", n.pos)
		p.child("Target", n.Target)
		p.child("Value", n.Value)

	case *BlockStmt:
		p.printf("BlockStmt %s\n", n.pos)
		p.indent++
		for _, s := range n.Stmts {
			p.print(s)
		}
		p.indent--

	case *IfStmt:
		p.printf("IfStmt %s\n", n.pos)
		p.child("Cond", n.Cond)
		p.child("Then", n.Then)
		if n.Else != nil {
			p.child("Else", n.Else)
		}

	case *LoopStmt:
		p.printf("LoopStmt %s\n", n.pos)
		p.child("", n.Body)

	case *BreakStmt:
		p.printf("BreakStmt %s\n", n.pos)

	case *ReturnStmt:
		p.printf("ReturnStmt %s\n", n.pos)
		if n.Result != nil {
			p.child("", n.Result)
		}

	case *DropStmt:
		p.printf("DropStmt %s %s\n", n.pos, n.Name)

	default:
		p.printf("<%T>\n", node)
	}
}

// typeString returns the name of a type reference; a nil reference is void.
func typeString(t *TypeName) string {
	if t == nil {
		return "void"
	}
	return t.Name
}

func suffixString(t *TypeName) string {
	if t == nil {
		return ""
	}
	return " as " + t.Name
}
