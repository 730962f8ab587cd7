package syntax

import (
	"encoding/json"
	"io"
)

// FprintJSON writes a JSON representation of the AST to w.
func FprintJSON(w io.Writer, node Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toTree(node))
}

// toTree converts node into nested maps and slices. Every node becomes a
// map with at least "type" and "pos"; JSON and CBOR dumps share it.
func toTree(node Node) interface{} {
	if node == nil {
		return nil
	}

	m := map[string]interface{}{"pos": node.Pos().String()}
	set := func(typ string, kv ...interface{}) interface{} {
		m["type"] = typ
		for i := 0; i+1 < len(kv); i += 2 {
			m[kv[i].(string)] = kv[i+1]
		}
		return m
	}

	switch n := node.(type) {
	case *File:
		return set("File", "decls", treeList(n.Decls))

	case *StructDecl:
		return set("StructDecl", "name", n.Name,
			"fields", treeList(n.Fields), "methods", treeList(n.Methods))

	case *FuncDecl:
		set("FuncDecl", "name", n.Name, "params", treeList(n.Params),
			"result", typeString(n.Result), "body", toTree(n.Body))
		if n.IsMethod() {
			m["recv"] = n.Recv
		}
		return m

	case *Field:
		return set("Field", "name", n.Name, "fieldtype", typeString(n.Type))

	case *TypeName:
		return set("TypeName", "name", n.Name)

	case *IntLit:
		set("IntLit", "value", n.Value)
		if n.Suffix != nil {
			m["suffix"] = n.Suffix.Name
		}
		return m

	case *FloatLit:
		set("FloatLit", "value", n.Value)
		if n.Suffix != nil {
			m["suffix"] = n.Suffix.Name
		}
		return m

	case *BoolLit:
		return set("BoolLit", "value", n.Value)

	case *StringLit:
		return set("StringLit", "value", n.Value)

	case *NullLit:
		return set("NullLit")

	case *Var:
		return set("Var", "name", n.Name)

	case *FunCall:
		return set("FunCall", "name", n.Name, "args", treeList(n.Args))

	case *ConstructorCall:
		return set("ConstructorCall", "struct", n.Struct, "args", treeList(n.Args))

	case *MemberChain:
		return set("MemberChain", "owner", toTree(n.Owner), "chain", treeList(n.Chain))

	case *FieldGet:
		return set("FieldGet", "name", n.Name)

	case *FieldSet:
		return set("FieldSet", "name", n.Name)

	case *MethodCall:
		return set("MethodCall", "name", n.Name, "args", treeList(n.Args))

	case *BinOpExpr:
		return set("BinOpExpr", "op", n.Op.String(), "x", toTree(n.X), "y", toTree(n.Y))

	case *UnaryOpExpr:
		return set("UnaryOpExpr", "op", n.Op.String(), "x", toTree(n.X))

	case *TernaryExpr:
		return set("TernaryExpr", "cond", toTree(n.Cond),
			"then", toTree(n.Then), "else", toTree(n.Else))

	case *TypeCast:
		return set("TypeCast", "x", toTree(n.X), "casttype", typeString(n.Type))

	case *EmptyStmt:
		return set("EmptyStmt")

	case *ExprStmt:
		return set("ExprStmt", "x", toTree(n.X))

	case *VarDeclStmt:
		set("VarDeclStmt", "name", n.Name)
		if n.Type != nil {
			m["vartype"] = n.Type.Name
		}
		if n.Init != nil {
			m["init"] = toTree(n.Init)
		}
		return m

	case *AssignStmt:
		return set("AssignStmt", "name", n.Name, "value", toTree(n.Value))

	case *FieldAssignStmt:
		return set("FieldAssignStmt", "target", toTree(n.Target), "value", toTree(n.Value))

	case *BlockStmt:
		return set("BlockStmt", "stmts", treeList(n.Stmts))

	case *IfStmt:
		set("IfStmt", "cond", toTree(n.Cond), "then", toTree(n.Then))
		if n.Else != nil {
			m["else"] = toTree(n.Else)
		}
		return m

	case *LoopStmt:
		return set("LoopStmt", "body", toTree(n.Body))

	case *BreakStmt:
		return set("BreakStmt")

	case *ReturnStmt:
		set("ReturnStmt")
		if n.Result != nil {
			m["result"] = toTree(n.Result)
		}
		return m

	case *DropStmt:
		return set("DropStmt", "name", n.Name)
	}
	return set("Unknown")
}

func treeList[T Node](s []T) []interface{} {
	out := make([]interface{}, len(s))
	for i, n := range s {
		out[i] = toTree(n)
	}
	return out
}
