package inbuilts

import (
	"github.com/sflang/sfl/internal/ast"
	"github.com/sflang/sfl/internal/token"
)

func ident(name string) token.Token {
	return token.Token{Type: token.IDENT, Lexeme: name, Literal: name}
}

// selector builds \x y. x (pickFirst) or \x y. y. The lambdas are plain
// abstractions: guarded recursion relies on the untaken branch staying
// unevaluated, so the contractum must fire on arbitrary arguments.
func selector(pickFirst bool, call *ast.Node) *ast.Store {
	s := ast.NewStore()
	x := s.AddID(ident("x"), call.Line, call.Col)
	y := s.AddID(ident("y"), call.Line, call.Col)
	var body ast.NodeID
	if pickFirst {
		body = s.AddID(ident("x"), call.Line, call.Col)
	} else {
		body = s.AddID(ident("y"), call.Line, call.Col)
	}
	inner := s.AddAbstraction(y, body, call.Line, call.Col)
	s.Root = s.AddAbstraction(x, inner, call.Line, call.Col)
	return s
}

// inbuiltIf consumes only the condition and yields the matching selector.
func inbuiltIf(call *ast.Node, args []*ast.Node) *ast.Store {
	assertLitTag(args[0], token.BOOL_LIT)
	return selector(args[0].Tok.Lexeme == "true", call)
}

func inbuiltID(call *ast.Node, args []*ast.Node) *ast.Store {
	return ast.SingleNode(*args[0])
}

func inbuiltConst1(call *ast.Node, args []*ast.Node) *ast.Store {
	return selector(true, call)
}

func inbuiltConst2(call *ast.Node, args []*ast.Node) *ast.Store {
	return selector(false, call)
}
