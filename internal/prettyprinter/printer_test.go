package prettyprinter

import (
	"testing"

	"github.com/sflang/sfl/internal/ast"
	"github.com/sflang/sfl/internal/token"
	"github.com/sflang/sfl/internal/types"
)

func id(s *ast.Store, name string) ast.NodeID {
	return s.AddID(token.Token{Type: token.IDENT, Lexeme: name, Literal: name}, 0, 0)
}

func intLit(s *ast.Store, lexeme string) ast.NodeID {
	return s.AddLit(token.Token{Type: token.INT_LIT, Lexeme: lexeme, Literal: lexeme}, 0, 0)
}

func TestSugarParenthesisation(t *testing.T) {
	s := ast.NewStore()

	// add (mul 1 2) 3: application argument that is an application gets
	// parens, the trailing literal does not.
	mul := s.AddApp(s.AddApp(id(s, "mul"), intLit(s, "1"), 0, 0, false), intLit(s, "2"), 0, 0, false)
	expr := s.AddApp(s.AddApp(id(s, "add"), mul, 0, 0, false), intLit(s, "3"), 0, 0, false)
	if got := Sugar(s, expr, false); got != "add (mul 1 2) 3" {
		t.Errorf("Sugar = %q", got)
	}

	// (\x. x) 1: abstraction in function position gets parens.
	abst := s.AddAbstraction(id(s, "x"), id(s, "x"), 0, 0)
	app := s.AddApp(abst, intLit(s, "1"), 0, 0, false)
	if got := Sugar(s, app, false); got != "(\\x. x) 1" {
		t.Errorf("Sugar = %q", got)
	}

	// Abstraction argument also gets parens.
	app2 := s.AddApp(id(s, "f"), abst, 0, 0, false)
	if got := Sugar(s, app2, false); got != "f (\\x. x)" {
		t.Errorf("Sugar = %q", got)
	}
}

func TestSugarDollar(t *testing.T) {
	s := ast.NewStore()
	inner := s.AddApp(s.AddApp(id(s, "add"), intLit(s, "1"), 0, 0, false), intLit(s, "2"), 0, 0, false)
	dollar := s.AddApp(id(s, "f"), inner, 0, 0, true)
	if got := Sugar(s, dollar, false); got != "f $ add 1 2" {
		t.Errorf("Sugar = %q", got)
	}
}

func TestSugarPair(t *testing.T) {
	s := ast.NewStore()
	p := s.AddPair(intLit(s, "1"), intLit(s, "2"), 0, 0)
	if got := Sugar(s, p, false); got != "(1, 2)" {
		t.Errorf("Sugar = %q", got)
	}
}

func TestSugarIsDeterministicKeyForIdenticalShapes(t *testing.T) {
	s := ast.NewStore()
	a := s.AddApp(s.AddApp(id(s, "mul"), intLit(s, "2"), 0, 0, false), intLit(s, "3"), 0, 0, false)
	b := s.AddApp(s.AddApp(id(s, "mul"), intLit(s, "2"), 3, 9, false), intLit(s, "3"), 4, 2, false)
	if Sugar(s, a, false) != Sugar(s, b, false) {
		t.Error("identical shapes must print identically")
	}
	if !s.ExprEq(a, b) {
		t.Error("identical prints must be structurally equal")
	}
}

func TestAssignmentWithDeclaredType(t *testing.T) {
	s := ast.NewStore()
	body := intLit(s, "5")
	name := id(s, "x")
	assign := s.AddAssignment(name, body, 0, 0, types.Int())
	if got := Sugar(s, assign, true); got != "x :: Int\nx = 5" {
		t.Errorf("Sugar with types = %q", got)
	}
	if got := Sugar(s, assign, false); got != "x = 5" {
		t.Errorf("Sugar without types = %q", got)
	}
}

func TestFancyAssignmentFoldsBinders(t *testing.T) {
	s := ast.NewStore()
	// f x = x rendered from an abstraction with the sugar flag.
	use := id(s, "x")
	binder := id(s, "x")
	abst := s.AddAbstraction(binder, use, 0, 0)
	s.SetFancyAbst(abst)
	assign := s.AddAssignment(id(s, "f"), abst, 0, 0, nil)
	if got := Sugar(s, assign, false); got != "f x = x" {
		t.Errorf("Sugar = %q", got)
	}
	if got := Desugar(s, assign); got != "f = \\x . x" {
		t.Errorf("Desugar = %q", got)
	}
}

func TestMatchPrinting(t *testing.T) {
	s := ast.NewStore()
	subj := id(s, "v")
	pat := intLit(s, "1")
	body := intLit(s, "10")
	m := s.AddMatch([]ast.NodeID{subj, pat, body}, 0, 0)
	want := "match (v) {\n  | 1 -> 10\n}"
	if got := Sugar(s, m, false); got != want {
		t.Errorf("Sugar match = %q, want %q", got, want)
	}
}
