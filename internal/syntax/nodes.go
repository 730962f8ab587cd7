// Package syntax implements lexical and syntactic analysis for the klang programming language.
package syntax

import "fmt"

// ----------------------------------------------------------------------------
// Interfaces
//
// There are 4 classes of nodes: Expressions, Statements, Declarations and
// member Accessors. All nodes implement the Node interface. The marker
// methods keep the node set closed to this package, so every type switch
// over a node class can be checked for completeness against this file.

// Node is the interface implemented by all AST nodes.
type Node interface {
	Pos() Pos // position of first character belonging to the node
	aNode()   // marker method to restrict implementations to this package
}

// Expr is the interface for all expression nodes.
type Expr interface {
	Node
	aExpr()
}

// Stmt is the interface for all statement nodes.
type Stmt interface {
	Node
	aStmt()
}

// Decl is the interface for all top-level declaration nodes.
type Decl interface {
	Node
	aDecl()
}

// Accessor is one link of a MemberChain: a FieldGet, FieldSet or MethodCall.
// Accessors are expressions whose receiver is the value of the previous link.
type Accessor interface {
	Expr
	Member() string
	anAccessor()
}

// ----------------------------------------------------------------------------
// Base node types

// node is the base struct embedded in all AST nodes.
type node struct {
	pos Pos
}

func (n *node) Pos() Pos { return n.pos }
func (n *node) aNode()   {}

// SetPos sets the node position. Used when building trees outside the parser.
func (n *node) SetPos(pos Pos) { n.pos = pos }

// expr is embedded in all expression nodes.
type expr struct{ node }

func (*expr) aExpr() {}

// stmt is embedded in all statement nodes.
type stmt struct{ node }

func (*stmt) aStmt() {}

// decl is embedded in all declaration nodes.
type decl struct{ node }

func (*decl) aDecl() {}

// accessor is embedded in FieldGet, FieldSet and MethodCall.
type accessor struct {
	expr
	Name string // target field or method name
}

func (a *accessor) Member() string { return a.Name }
func (*accessor) anAccessor()      {}

// ----------------------------------------------------------------------------
// Files and Declarations

// File represents a complete source file (the program root).
type File struct {
	node
	Decls []Decl // struct and function declarations in source order
}

// Structs returns the struct declarations of f in source order.
func (f *File) Structs() []*StructDecl {
	var out []*StructDecl
	for _, d := range f.Decls {
		if s, ok := d.(*StructDecl); ok {
			out = append(out, s)
		}
	}
	return out
}

// Funcs returns the top-level function declarations of f in source order.
func (f *File) Funcs() []*FuncDecl {
	var out []*FuncDecl
	for _, d := range f.Decls {
		if fn, ok := d.(*FuncDecl); ok {
			out = append(out, fn)
		}
	}
	return out
}

// StructDecl represents a struct declaration:
// struct Name { Fields... Methods... }
type StructDecl struct {
	decl
	Name    string
	Fields  []*Field
	Methods []*FuncDecl // Recv is set to Name
}

// FuncDecl represents a function or method declaration.
// fn Name(Params) -> Result { Body }
type FuncDecl struct {
	decl
	Recv   string     // owning struct name (empty for functions)
	Name   string     // function name
	Params []*Field   // parameter list (excluding the implicit self)
	Result *TypeName  // return type (nil for void)
	Body   *BlockStmt // function body
}

// IsMethod reports whether d is declared inside a struct.
func (d *FuncDecl) IsMethod() bool { return d.Recv != "" }

// Field represents a named, typed slot: a struct field or a parameter.
type Field struct {
	node
	Name string
	Type *TypeName
}

// TypeName represents a type reference: i64, f64, bool, string, void or a
// struct name.
type TypeName struct {
	node
	Name string
}

// ----------------------------------------------------------------------------
// Literals

// IntLit represents an integer literal. Suffix is the optional "as T"
// annotation.
type IntLit struct {
	expr
	Value  int64
	Suffix *TypeName
}

// FloatLit represents a floating point literal. Suffix is the optional
// "as T" annotation.
type FloatLit struct {
	expr
	Value  float64
	Suffix *TypeName
}

// BoolLit represents true or false.
type BoolLit struct {
	expr
	Value bool
}

// StringLit represents a string literal. Value holds the decoded bytes.
type StringLit struct {
	expr
	Value string
}

// NullLit represents the null reference.
type NullLit struct {
	expr
}

// ----------------------------------------------------------------------------
// Expressions

// Var represents a variable reference.
type Var struct {
	expr
	Name string
}

// FunCall represents a call of a free function or builtin: Name(Args...)
type FunCall struct {
	expr
	Name string
	Args []Expr
}

// ConstructorCall represents a struct construction: Name{Args...}
type ConstructorCall struct {
	expr
	Struct string
	Args   []Expr
}

// MemberChain represents Owner.a.b.m(...): a receiver expression followed
// by a chain of accessors, each applied to the result of the previous one.
type MemberChain struct {
	expr
	Owner Expr
	Chain []Accessor
}

// Last returns the final accessor of the chain.
func (m *MemberChain) Last() Accessor {
	return m.Chain[len(m.Chain)-1]
}

// FieldGet reads a field of the receiver.
type FieldGet struct {
	accessor
}

// FieldSet names the field written by a FieldAssignStmt. It only appears
// as the last link of an assignment target chain.
type FieldSet struct {
	accessor
}

// MethodCall calls a method on the receiver.
type MethodCall struct {
	accessor
	Args []Expr
}

// BinOpExpr represents a binary operation: X Op Y
type BinOpExpr struct {
	expr
	Op BinaryOp
	X  Expr
	Y  Expr
}

// UnaryOpExpr represents a unary operation: Op X
type UnaryOpExpr struct {
	expr
	Op UnaryOp
	X  Expr
}

// TernaryExpr represents Cond ? Then : Else
type TernaryExpr struct {
	expr
	Cond Expr
	Then Expr
	Else Expr
}

// TypeCast represents a numeric conversion: X as Type
type TypeCast struct {
	expr
	X    Expr
	Type *TypeName
}

// ----------------------------------------------------------------------------
// Statements

// EmptyStmt represents an empty statement (just a semicolon).
type EmptyStmt struct {
	stmt
}

// ExprStmt represents a void expression used as a statement.
type ExprStmt struct {
	stmt
	X Expr
}

// VarDeclStmt represents let Name: Type = Init; Type and Init are optional
// but not both.
type VarDeclStmt struct {
	stmt
	Name string
	Type *TypeName // explicit type (nil if inferred)
	Init Expr      // initial value (nil if none)
}

// AssignStmt represents Name = Value;
type AssignStmt struct {
	stmt
	Name  string
	Value Expr
}

// FieldAssignStmt represents Target = Value; where the last accessor of
// Target is a FieldSet.
type FieldAssignStmt struct {
	stmt
	Target *MemberChain
	Value  Expr
}

// BlockStmt represents a statement list: { Stmts... }
type BlockStmt struct {
	stmt
	Stmts  []Stmt
	Rbrace Pos // position of closing brace
}

// IfStmt represents if Cond Then [else Else]
type IfStmt struct {
	stmt
	Cond Expr
	Then *BlockStmt
	Else Stmt // nil, *IfStmt or *BlockStmt
}

// LoopStmt represents loop { Body }. It only terminates through break or
// return.
type LoopStmt struct {
	stmt
	Body *BlockStmt
}

// BreakStmt represents break;
type BreakStmt struct {
	stmt
}

// ReturnStmt represents return [Result];
type ReturnStmt struct {
	stmt
	Result Expr // nil for a bare return
}

// DropStmt represents drop Name; the explicit destruction of a reference.
type DropStmt struct {
	stmt
	Name string
}

// ----------------------------------------------------------------------------
// Operators

// BinaryOp is the operator of a BinOpExpr.
type BinaryOp uint8

const (
	Add BinaryOp = iota // +
	Sub                 // -
	Mul                 // *
	Div                 // /
	Mod                 // %
	Eq                  // ==
	Neq                 // !=
	Gt                  // >
	Gte                 // >=
	Lt                  // <
	Lte                 // <=
	And                 // &&
	Or                  // ||
)

var binaryOpNames = [...]string{
	Add: "+", Sub: "-", Mul: "*", Div: "/", Mod: "%",
	Eq: "==", Neq: "!=", Gt: ">", Gte: ">=", Lt: "<", Lte: "<=",
	And: "&&", Or: "||",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return fmt.Sprintf("BinaryOp(%d)", op)
}

// IsArithmetic reports whether op is one of + - * / %.
func (op BinaryOp) IsArithmetic() bool { return op <= Mod }

// IsEquality reports whether op is == or !=.
func (op BinaryOp) IsEquality() bool { return op == Eq || op == Neq }

// IsOrdering reports whether op is one of < <= > >=.
func (op BinaryOp) IsOrdering() bool { return op >= Gt && op <= Lte }

// IsBoolean reports whether op is && or ||.
func (op BinaryOp) IsBoolean() bool { return op == And || op == Or }

// UnaryOp is the operator of a UnaryOpExpr.
type UnaryOp uint8

const (
	Neg UnaryOp = iota // -
	Not                // !
)

func (op UnaryOp) String() string {
	switch op {
	case Neg:
		return "-"
	case Not:
		return "!"
	}
	return fmt.Sprintf("UnaryOp(%d)", op)
}
