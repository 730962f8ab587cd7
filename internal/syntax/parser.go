package syntax

import (
	"fmt"
	"io"
	"strconv"
)

// Maximum number of errors before aborting parse.
const maxErrors = 10

// SyntaxError represents a syntax error.
type SyntaxError struct {
	Pos Pos
	Msg string
}

func (e *SyntaxError) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

// Parser performs syntax analysis on klang source code.
type Parser struct {
	scanner *Scanner

	// Current token (cached from scanner)
	tok  Token
	lit  string
	kind LitKind
	pos  Pos

	errh   func(pos Pos, msg string)
	errcnt int
	first  error
	abort  bool

	// xnest is the expression nesting level. Constructor calls NAME{...}
	// are only recognized when xnest >= 0; it is set to -1 while parsing an
	// if condition so that "if ok {" opens the block.
	xnest int
}

// NewParser creates a new Parser for the given source.
func NewParser(filename string, src io.Reader, errh func(pos Pos, msg string)) *Parser {
	p := &Parser{errh: errh}
	scanErrh := func(line, col uint32, msg string) {
		p.errorAt(NewPos(filename, line, col), msg)
	}
	p.scanner = NewScanner(filename, src, scanErrh)
	p.next()
	return p
}

// ParseFile parses the named file from src and returns the AST together
// with the first syntax error, if any.
func ParseFile(filename string, src io.Reader, errh func(pos Pos, msg string)) (*File, error) {
	p := NewParser(filename, src, errh)
	f := p.Parse()
	return f, p.FirstError()
}

// ----------------------------------------------------------------------------
// Token navigation

func (p *Parser) next() {
	if p.abort {
		p.tok = _EOF
		return
	}
	p.scanner.Next()
	p.tok = p.scanner.Token()
	p.lit = p.scanner.Literal()
	p.kind = p.scanner.LitKind()
	p.pos = p.scanner.Pos()
}

// got consumes tok if it is the current token.
func (p *Parser) got(tok Token) bool {
	if p.tok == tok {
		p.next()
		return true
	}
	return false
}

// want consumes tok or reports an error and resynchronizes.
func (p *Parser) want(tok Token) {
	if !p.got(tok) {
		p.syntaxError("expected " + tok.String())
		p.advance()
	}
}

// ----------------------------------------------------------------------------
// Error handling

func (p *Parser) syntaxError(msg string) {
	p.errorAt(p.pos, fmt.Sprintf("%s, found %s", msg, p.found()))
}

// found describes the current token for error messages.
func (p *Parser) found() string {
	switch p.tok {
	case _EOF:
		return "EOF"
	case _Name:
		return "name " + p.lit
	case _Literal:
		if p.kind == StringLitKind {
			return "literal " + strconv.Quote(p.lit)
		}
		return "literal " + p.lit
	}
	return "'" + p.tok.String() + "'"
}

func (p *Parser) errorAt(pos Pos, msg string) {
	if p.abort {
		return
	}
	if p.errcnt == 0 {
		p.first = &SyntaxError{Pos: pos, Msg: msg}
	}
	p.errcnt++
	if p.errh != nil {
		p.errh(pos, msg)
	}
	if p.errcnt >= maxErrors {
		p.abort = true
		if p.errh != nil {
			p.errh(pos, "too many errors; aborting parse")
		}
		p.tok = _EOF
	}
}

// syncTokens are the tokens advance stops at.
var syncTokens = map[Token]bool{
	_Semi:   true,
	_Rbrace: true,
	_Rparen: true,
	_Struct: true,
	_Fn:     true,
	_Let:    true,
	_If:     true,
	_Loop:   true,
	_Return: true,
	_Break:  true,
	_Drop:   true,
	_EOF:    true,
}

// advance skips tokens until a synchronization point and consumes it,
// unless it starts a declaration or statement.
func (p *Parser) advance() {
	for !syncTokens[p.tok] {
		p.next()
	}
	switch p.tok {
	case _Semi, _Rparen:
		p.next()
	}
}

// Errors returns the number of errors encountered during parsing.
func (p *Parser) Errors() int {
	return p.errcnt
}

// FirstError returns the first error encountered, or nil if none.
func (p *Parser) FirstError() error {
	return p.first
}

// ----------------------------------------------------------------------------
// Declarations

// Parse parses a complete source file and returns the AST.
func (p *Parser) Parse() *File {
	f := &File{}
	f.pos = p.pos

	for !p.abort && p.tok != _EOF {
		switch p.tok {
		case _Struct:
			f.Decls = append(f.Decls, p.structDecl())
		case _Fn:
			f.Decls = append(f.Decls, p.funcDecl(""))
		default:
			p.syntaxError("expected struct or fn declaration")
			p.next()
			p.advance()
		}
	}
	return f
}

// name parses an identifier. On error it returns "_".
func (p *Parser) name() string {
	if p.tok != _Name {
		p.syntaxError("expected name")
		return "_"
	}
	s := p.lit
	p.next()
	return s
}

// structDecl parses: struct Name { fields... methods... }
func (p *Parser) structDecl() *StructDecl {
	d := &StructDecl{}
	d.pos = p.pos
	p.want(_Struct)
	d.Name = p.name()
	p.want(_Lbrace)

	for p.tok == _Name {
		d.Fields = append(d.Fields, p.field())
		if !p.got(_Comma) {
			break
		}
	}
	for p.tok == _Fn {
		d.Methods = append(d.Methods, p.funcDecl(d.Name))
	}
	if p.tok == _Name {
		p.syntaxError("expected ',' between fields")
		p.advance()
	}

	p.want(_Rbrace)
	return d
}

// funcDecl parses: fn Name(params) [-> Result] { body }
func (p *Parser) funcDecl(recv string) *FuncDecl {
	d := &FuncDecl{Recv: recv}
	d.pos = p.pos
	p.want(_Fn)
	d.Name = p.name()

	p.want(_Lparen)
	if p.tok != _Rparen {
		for {
			d.Params = append(d.Params, p.field())
			if !p.got(_Comma) {
				break
			}
		}
	}
	p.want(_Rparen)

	if p.got(_Arrow) {
		d.Result = p.typeName()
	}
	d.Body = p.blockStmt()
	return d
}

// field parses: Name : Type
func (p *Parser) field() *Field {
	f := &Field{}
	f.pos = p.pos
	f.Name = p.name()
	p.want(_Colon)
	f.Type = p.typeName()
	return f
}

func (p *Parser) typeName() *TypeName {
	t := &TypeName{}
	t.pos = p.pos
	if p.tok != _Name {
		p.syntaxError("expected type")
		t.Name = "_"
		return t
	}
	t.Name = p.lit
	p.next()
	return t
}

// ----------------------------------------------------------------------------
// Statements

func (p *Parser) stmt() Stmt {
	switch p.tok {
	case _Lbrace:
		return p.blockStmt()
	case _Let:
		return p.varDeclStmt()
	case _If:
		return p.ifStmt()
	case _Loop:
		s := &LoopStmt{}
		s.pos = p.pos
		p.next()
		s.Body = p.blockStmt()
		return s
	case _Break:
		s := &BreakStmt{}
		s.pos = p.pos
		p.next()
		p.want(_Semi)
		return s
	case _Return:
		return p.returnStmt()
	case _Drop:
		s := &DropStmt{}
		s.pos = p.pos
		p.next()
		s.Name = p.name()
		p.want(_Semi)
		return s
	case _Semi:
		s := &EmptyStmt{}
		s.pos = p.pos
		p.next()
		return s
	}
	return p.simpleStmt()
}

// blockStmt parses { stmts... }
func (p *Parser) blockStmt() *BlockStmt {
	b := &BlockStmt{}
	b.pos = p.pos
	p.want(_Lbrace)
	for p.tok != _Rbrace && p.tok != _EOF && p.tok != _Fn && p.tok != _Struct {
		b.Stmts = append(b.Stmts, p.stmt())
	}
	b.Rbrace = p.pos
	p.want(_Rbrace)
	return b
}

// varDeclStmt parses: let Name [: Type] [= Init];
func (p *Parser) varDeclStmt() *VarDeclStmt {
	s := &VarDeclStmt{}
	s.pos = p.pos
	p.want(_Let)
	s.Name = p.name()
	if p.got(_Colon) {
		s.Type = p.typeName()
	}
	if p.got(_Assign) {
		s.Init = p.expr()
	}
	p.want(_Semi)
	return s
}

// ifStmt parses: if cond { then } [else (ifStmt | { else })]
func (p *Parser) ifStmt() *IfStmt {
	s := &IfStmt{}
	s.pos = p.pos
	p.want(_If)

	outer := p.xnest
	p.xnest = -1
	s.Cond = p.expr()
	p.xnest = outer

	s.Then = p.blockStmt()
	if p.got(_Else) {
		switch p.tok {
		case _If:
			s.Else = p.ifStmt()
		case _Lbrace:
			s.Else = p.blockStmt()
		default:
			p.syntaxError("else must be followed by if or block")
			p.advance()
		}
	}
	return s
}

func (p *Parser) returnStmt() *ReturnStmt {
	s := &ReturnStmt{}
	s.pos = p.pos
	p.want(_Return)
	if p.tok != _Semi && p.tok != _Rbrace && p.tok != _EOF {
		s.Result = p.expr()
	}
	p.want(_Semi)
	return s
}

// simpleStmt parses an assignment or an expression statement.
func (p *Parser) simpleStmt() Stmt {
	pos := p.pos
	x := p.expr()

	if p.tok != _Assign {
		s := &ExprStmt{X: x}
		s.pos = pos
		p.want(_Semi)
		return s
	}
	p.next()
	value := p.expr()
	p.want(_Semi)

	switch lhs := x.(type) {
	case *Var:
		s := &AssignStmt{Name: lhs.Name, Value: value}
		s.pos = pos
		return s
	case *MemberChain:
		if get, ok := lhs.Last().(*FieldGet); ok {
			set := &FieldSet{}
			set.pos = get.pos
			set.Name = get.Name
			lhs.Chain[len(lhs.Chain)-1] = set
			s := &FieldAssignStmt{Target: lhs, Value: value}
			s.pos = pos
			return s
		}
	}
	p.errorAt(pos, "cannot assign to expression; assignment target must be a variable or field")
	s := &ExprStmt{X: x}
	s.pos = pos
	return s
}

// ----------------------------------------------------------------------------
// Expressions

func (p *Parser) expr() Expr {
	x := p.binaryExpr(0)
	if p.tok != _Question {
		return x
	}
	t := &TernaryExpr{Cond: x}
	t.pos = x.Pos()
	p.next()
	t.Then = p.expr()
	p.want(_Colon)
	t.Else = p.expr()
	return t
}

// binaryExpr implements precedence climbing; all binary operators are
// left associative.
func (p *Parser) binaryExpr(prec int) Expr {
	x := p.unaryExpr()
	for {
		oprec := p.tok.Precedence()
		if oprec <= prec {
			return x
		}
		op := &BinOpExpr{Op: binaryOps[p.tok], X: x}
		op.pos = x.Pos()
		p.next()
		op.Y = p.binaryExpr(oprec)
		x = op
	}
}

func (p *Parser) unaryExpr() Expr {
	var op UnaryOp
	switch p.tok {
	case _Sub:
		op = Neg
	case _Not:
		op = Not
	default:
		return p.castExpr()
	}
	u := &UnaryOpExpr{Op: op}
	u.pos = p.pos
	p.next()
	u.X = p.unaryExpr()
	return u
}

// castExpr parses: postfix { as Type }
func (p *Parser) castExpr() Expr {
	x := p.postfixExpr()
	for p.tok == _As {
		c := &TypeCast{X: x}
		c.pos = x.Pos()
		p.next()
		c.Type = p.typeName()
		x = c
	}
	return x
}

// postfixExpr parses an operand followed by a member access chain.
func (p *Parser) postfixExpr() Expr {
	x := p.operand()
	if p.tok != _Dot {
		return x
	}
	m := &MemberChain{Owner: x}
	m.pos = x.Pos()
	for p.got(_Dot) {
		pos := p.pos
		name := p.name()
		if p.tok == _Lparen {
			call := &MethodCall{Args: p.args(_Lparen, _Rparen)}
			call.pos = pos
			call.Name = name
			m.Chain = append(m.Chain, call)
			continue
		}
		get := &FieldGet{}
		get.pos = pos
		get.Name = name
		m.Chain = append(m.Chain, get)
	}
	return m
}

func (p *Parser) operand() Expr {
	pos := p.pos
	switch p.tok {
	case _Literal:
		return p.literal()

	case _True, _False:
		b := &BoolLit{Value: p.tok == _True}
		b.pos = pos
		p.next()
		return b

	case _Null:
		n := &NullLit{}
		n.pos = pos
		p.next()
		return n

	case _Name:
		name := p.lit
		p.next()
		switch {
		case p.tok == _Lparen:
			c := &FunCall{Name: name, Args: p.args(_Lparen, _Rparen)}
			c.pos = pos
			return c
		case p.tok == _Lbrace && p.xnest >= 0:
			c := &ConstructorCall{Struct: name, Args: p.args(_Lbrace, _Rbrace)}
			c.pos = pos
			return c
		}
		v := &Var{Name: name}
		v.pos = pos
		return v

	case _Lparen:
		p.next()
		p.xnest++
		x := p.expr()
		p.xnest--
		p.want(_Rparen)
		return x
	}

	p.syntaxError("expected expression")
	bad := &NullLit{}
	bad.pos = pos
	p.advance()
	return bad
}

// literal parses a number or string literal together with an optional
// "as T" annotation on numbers.
func (p *Parser) literal() Expr {
	pos := p.pos
	kind, text := p.kind, p.lit
	p.next()

	var suffix *TypeName
	if kind != StringLitKind && p.got(_As) {
		suffix = p.typeName()
	}

	switch kind {
	case IntLitKind:
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			p.errorAt(pos, "integer literal "+text+" overflows i64")
		}
		lit := &IntLit{Value: v, Suffix: suffix}
		lit.pos = pos
		return lit
	case FloatLitKind:
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			p.errorAt(pos, "invalid float literal "+text)
		}
		lit := &FloatLit{Value: v, Suffix: suffix}
		lit.pos = pos
		return lit
	}
	lit := &StringLit{Value: text}
	lit.pos = pos
	return lit
}

// args parses a comma-separated expression list between open and close.
func (p *Parser) args(open, close Token) []Expr {
	p.want(open)
	p.xnest++
	defer func() { p.xnest-- }()

	var list []Expr
	for p.tok != close && p.tok != _EOF {
		list = append(list, p.expr())
		if !p.got(_Comma) {
			break
		}
	}
	p.want(close)
	return list
}
