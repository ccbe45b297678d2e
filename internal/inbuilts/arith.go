package inbuilts

import (
	"strconv"

	"github.com/sflang/sfl/internal/ast"
	"github.com/sflang/sfl/internal/token"
	"github.com/sflang/sfl/internal/types"
)

func assertLitTag(n *ast.Node, want token.TokenType) {
	if n.Kind != ast.Literal || n.Tok.Type != want {
		panic("inbuilts: argument is not a " + string(want) + " literal; type checking must have failed")
	}
}

func parseInt(n *ast.Node) int64 {
	assertLitTag(n, token.INT_LIT)
	v, err := strconv.ParseInt(n.Tok.Lexeme, 10, 64)
	if err != nil {
		panic("inbuilts: literal tag disagrees with lexeme: " + n.Tok.Lexeme)
	}
	return v
}

func parseFloat(n *ast.Node) float64 {
	assertLitTag(n, token.FLOAT_LIT)
	v, err := strconv.ParseFloat(n.Tok.Lexeme, 64)
	if err != nil {
		panic("inbuilts: literal tag disagrees with lexeme: " + n.Tok.Lexeme)
	}
	return v
}

func litResult(tt token.TokenType, lexeme string, call *ast.Node) *ast.Store {
	s := ast.NewStore()
	s.Root = s.AddLit(token.Token{Type: tt, Lexeme: lexeme, Literal: lexeme}, call.Line, call.Col)
	return s
}

func intLit(v int64, call *ast.Node) *ast.Store {
	return litResult(token.INT_LIT, strconv.FormatInt(v, 10), call)
}

func floatLit(v float64, call *ast.Node) *ast.Store {
	lex := strconv.FormatFloat(v, 'g', -1, 64)
	return litResult(token.FLOAT_LIT, lex, call)
}

func boolLit(v bool, call *ast.Node) *ast.Store {
	return litResult(token.BOOL_LIT, strconv.FormatBool(v), call)
}

func intBinary(op func(x, y int64) int64) Reducer {
	return func(call *ast.Node, args []*ast.Node) *ast.Store {
		return intLit(op(parseInt(args[0]), parseInt(args[1])), call)
	}
}

// intDiv truncates toward zero, like the machine division it wraps.
func intDiv(call *ast.Node, args []*ast.Node) *ast.Store {
	x, y := parseInt(args[0]), parseInt(args[1])
	if y == 0 {
		reductionFailure(call, "division by zero: div %d 0", x)
	}
	return intLit(x/y, call)
}

func intNeg(call *ast.Node, args []*ast.Node) *ast.Store {
	return intLit(-parseInt(args[0]), call)
}

func intCompare(op func(x, y int64) bool) Reducer {
	return func(call *ast.Node, args []*ast.Node) *ast.Store {
		return boolLit(op(parseInt(args[0]), parseInt(args[1])), call)
	}
}

func floatBinary(op func(x, y float64) float64) Reducer {
	return func(call *ast.Node, args []*ast.Node) *ast.Store {
		return floatLit(op(parseFloat(args[0]), parseFloat(args[1])), call)
	}
}

func floatNeg(call *ast.Node, args []*ast.Node) *ast.Store {
	return floatLit(-parseFloat(args[0]), call)
}

func floatCompare(op func(x, y float64) bool) Reducer {
	return func(call *ast.Node, args []*ast.Node) *ast.Store {
		return boolLit(op(parseFloat(args[0]), parseFloat(args[1])), call)
	}
}

// LitPrim returns the primitive type a literal node carries, read from its
// token tag.
func LitPrim(n *ast.Node) types.Type {
	switch n.Tok.Type {
	case token.INT_LIT:
		return types.Int()
	case token.FLOAT_LIT:
		return types.Float()
	case token.BOOL_LIT:
		return types.Bool()
	case token.CHAR_LIT:
		return types.Char()
	default:
		panic("inbuilts: not a literal token: " + string(n.Tok.Type))
	}
}
