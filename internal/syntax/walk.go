package syntax

// Visitor is called for each node during Walk.
// If it returns false, the children of the node are not visited.
type Visitor func(node Node) bool

// Walk traverses an AST in depth-first source order.
// If visitor returns false, children are not visited.
func Walk(node Node, v Visitor) {
	if node == nil || !v(node) {
		return
	}

	switch n := node.(type) {
	case *File:
		for _, d := range n.Decls {
			Walk(d, v)
		}

	case *StructDecl:
		for _, f := range n.Fields {
			Walk(f, v)
		}
		for _, m := range n.Methods {
			Walk(m, v)
		}

	case *FuncDecl:
		for _, p := range n.Params {
			Walk(p, v)
		}
		if n.Result != nil {
			Walk(n.Result, v)
		}
		if n.Body != nil {
			Walk(n.Body, v)
		}

	case *Field:
		if n.Type != nil {
			Walk(n.Type, v)
		}

	case *IntLit:
		if n.Suffix != nil {
			Walk(n.Suffix, v)
		}

	case *FloatLit:
		if n.Suffix != nil {
			Walk(n.Suffix, v)
		}

	case *FunCall:
		walkList(n.Args, v)

	case *ConstructorCall:
		walkList(n.Args, v)

	case *MemberChain:
		Walk(n.Owner, v)
		for _, a := range n.Chain {
			Walk(a, v)
		}

	case *MethodCall:
		walkList(n.Args, v)

	case *BinOpExpr:
		Walk(n.X, v)
		Walk(n.Y, v)

	case *UnaryOpExpr:
		Walk(n.X, v)

	case *TernaryExpr:
		Walk(n.Cond, v)
		Walk(n.Then, v)
		Walk(n.Else, v)

	case *TypeCast:
		Walk(n.X, v)
		Walk(n.Type, v)

	case *ExprStmt:
		Walk(n.X, v)

	case *VarDeclStmt:
		if n.Type != nil {
			Walk(n.Type, v)
		}
		if n.Init != nil {
			Walk(n.Init, v)
		}

	case *AssignStmt:
		Walk(n.Value, v)

	case *FieldAssignStmt:
		Walk(n.Target, v)
		Walk(n.Value, v)

	case *BlockStmt:
		for _, s := range n.Stmts {
			Walk(s, v)
		}

	case *IfStmt:
		Walk(n.Cond, v)
		Walk(n.Then, v)
		if n.Else != nil {
			Walk(n.Else, v)
		}

	case *LoopStmt:
		Walk(n.Body, v)

	case *ReturnStmt:
		if n.Result != nil {
			Walk(n.Result, v)
		}

	default:
		// Leaf nodes: TypeName, literals, Var, FieldGet, FieldSet,
		// EmptyStmt, BreakStmt, DropStmt.
	}
}

func walkList(list []Expr, v Visitor) {
	for _, x := range list {
		Walk(x, v)
	}
}

// Inspect traverses an AST and calls f for each node.
// Convenience wrapper around Walk.
func Inspect(node Node, f func(Node) bool) {
	Walk(node, Visitor(f))
}
