package syntax

import "fmt"

// Token represents the type of a lexical token.
type Token uint

const (
	// Special tokens
	_EOF Token = iota // end of file

	// Literals
	_Name    // identifier: foo, Point, i64
	_Literal // literal value (used with LitKind)

	// Operators
	_Assign // =

	// Logical operators
	_OrOr   // ||
	_AndAnd // &&

	// Comparison operators
	_Eql // ==
	_Neq // !=
	_Lss // <
	_Leq // <=
	_Gtr // >
	_Geq // >=

	// Arithmetic operators
	_Add // +
	_Sub // -
	_Mul // *
	_Div // /
	_Rem // %

	// Unary operators
	_Not // !

	// Delimiters
	_Lparen   // (
	_Rparen   // )
	_Lbrace   // {
	_Rbrace   // }
	_Comma    // ,
	_Semi     // ;
	_Colon    // :
	_Dot      // .
	_Arrow    // ->
	_Question // ?

	// Keywords
	_As
	_Break
	_Drop
	_Else
	_False
	_Fn
	_If
	_Let
	_Loop
	_Null
	_Return
	_Struct
	_True

	tokenCount
)

// tokenNames maps tokens to their string representation.
var tokenNames = [...]string{
	_EOF: "EOF",

	_Name:    "NAME",
	_Literal: "LITERAL",

	_Assign: "=",

	_OrOr:   "||",
	_AndAnd: "&&",

	_Eql: "==",
	_Neq: "!=",
	_Lss: "<",
	_Leq: "<=",
	_Gtr: ">",
	_Geq: ">=",

	_Add: "+",
	_Sub: "-",
	_Mul: "*",
	_Div: "/",
	_Rem: "%",

	_Not: "!",

	_Lparen:   "(",
	_Rparen:   ")",
	_Lbrace:   "{",
	_Rbrace:   "}",
	_Comma:    ",",
	_Semi:     ";",
	_Colon:    ":",
	_Dot:      ".",
	_Arrow:    "->",
	_Question: "?",

	_As:     "as",
	_Break:  "break",
	_Drop:   "drop",
	_Else:   "else",
	_False:  "false",
	_Fn:     "fn",
	_If:     "if",
	_Let:    "let",
	_Loop:   "loop",
	_Null:   "null",
	_Return: "return",
	_Struct: "struct",
	_True:   "true",
}

// String returns the string representation of the token.
func (t Token) String() string {
	if t < tokenCount {
		return tokenNames[t]
	}
	return fmt.Sprintf("token(%d)", t)
}

// Precedence returns the operator precedence for binary operators.
// Returns 0 for non-operators.
// Precedence levels (higher = binds tighter):
//
//	1: ||
//	2: &&
//	3: == !=
//	4: < <= > >=
//	5: + -
//	6: * / %
func (t Token) Precedence() int {
	switch t {
	case _OrOr:
		return 1
	case _AndAnd:
		return 2
	case _Eql, _Neq:
		return 3
	case _Lss, _Leq, _Gtr, _Geq:
		return 4
	case _Add, _Sub:
		return 5
	case _Mul, _Div, _Rem:
		return 6
	}
	return 0
}

// IsKeyword reports whether t is a keyword token.
func (t Token) IsKeyword() bool {
	return t >= _As && t <= _True
}

// IsOperator reports whether t is an operator token.
func (t Token) IsOperator() bool {
	return t >= _Assign && t <= _Not
}

// IsEOF reports whether t is the EOF token.
func (t Token) IsEOF() bool {
	return t == _EOF
}

// binaryOps maps binary operator tokens to their AST operator.
var binaryOps = map[Token]BinaryOp{
	_OrOr:   Or,
	_AndAnd: And,
	_Eql:    Eq,
	_Neq:    Neq,
	_Lss:    Lt,
	_Leq:    Lte,
	_Gtr:    Gt,
	_Geq:    Gte,
	_Add:    Add,
	_Sub:    Sub,
	_Mul:    Mul,
	_Div:    Div,
	_Rem:    Mod,
}

// LitKind represents the kind of a literal token.
type LitKind uint8

const (
	IntLitKind    LitKind = iota // 123
	FloatLitKind                 // 3.14, 1e10, 2.5e-3
	StringLitKind                // "hello", "line\n"
)

// litKindNames maps literal kinds to their string representation.
var litKindNames = [...]string{
	IntLitKind:    "int",
	FloatLitKind:  "float",
	StringLitKind: "string",
}

// String returns the string representation of the literal kind.
func (k LitKind) String() string {
	if k <= StringLitKind {
		return litKindNames[k]
	}
	return fmt.Sprintf("LitKind(%d)", k)
}

// keywords maps keyword strings to their token type.
// Type names (i64, f64, bool, string, void) are NOT keywords; they are
// scanned as _Name and resolved by the type checker.
var keywords = map[string]Token{
	"as":     _As,
	"break":  _Break,
	"drop":   _Drop,
	"else":   _Else,
	"false":  _False,
	"fn":     _Fn,
	"if":     _If,
	"let":    _Let,
	"loop":   _Loop,
	"null":   _Null,
	"return": _Return,
	"struct": _Struct,
	"true":   _True,
}

// LookupKeyword returns the token for the given identifier string.
// If the identifier is a keyword, returns the keyword token.
// Otherwise, returns _Name.
func LookupKeyword(ident string) Token {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return _Name
}
