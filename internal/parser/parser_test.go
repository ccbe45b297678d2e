package parser

import (
	"strings"
	"testing"

	"github.com/sflang/sfl/internal/ast"
	"github.com/sflang/sfl/internal/prettyprinter"
	"github.com/sflang/sfl/internal/types"
)

func mustParseBare(t *testing.T, src string) *Result {
	t.Helper()
	res, err := New(src).ParseModuleBare()
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return res
}

// sameModule reports whether two parsed modules bind the same names, in
// order, to structurally equal expressions.
func sameModule(first, second *Result) bool {
	names := first.Store.AssigneeNames(first.Store.Root)
	other := second.Store.AssigneeNames(second.Store.Root)
	if len(names) != len(other) {
		return false
	}
	merged := ast.NewStore()
	for i, name := range names {
		if other[i] != name {
			return false
		}
		a, _ := first.Store.AssignTo(first.Store.Root, name)
		b, _ := second.Store.AssignTo(second.Store.Root, name)
		x := merged.Append(first.Store, first.Store.AssignBody(a))
		y := merged.Append(second.Store, second.Store.AssignBody(b))
		if !merged.ExprEq(x, y) {
			return false
		}
	}
	return true
}

// Round trip: parse, print, parse the printed form; the two trees must be
// structurally equal.
func TestRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"simple assignment", "x = 5"},
		{"application chain", "main = sub (add 5 1) (mul 5 2)"},
		{"definition sugar", "inc i = add i 1"},
		{"multi arg sugar", "f a b = add a b"},
		{"lambda", "inc = \\i. add i 1"},
		{"two binder lambda", "k = \\x y. x"},
		{"pair", "p = (1, 2)"},
		{"dollar application", "main = id $ add 1 2"},
		{"nested parens", "main = (\\x y. x) ((\\x. 1) true) 2"},
		{"if sugar", "main = if true then 1 else 2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			first := mustParseBare(t, tc.src)
			printed := prettyprinter.Sugar(first.Store, first.Store.Root, false)
			second := mustParseBare(t, printed)
			reprinted := prettyprinter.Sugar(second.Store, second.Store.Root, false)
			if printed != reprinted {
				t.Fatalf("print not stable:\n%s\nvs\n%s", printed, reprinted)
			}

			if !sameModule(first, second) {
				t.Fatalf("round trip changed the tree:\n%s\nvs\n%s", tc.src, printed)
			}
		})
	}
}

func TestRoundTripMatch(t *testing.T) {
	src := "data List a = Cons a (List a) | Nil\nmain = match (Cons 5 Nil) { | Nil -> true | Cons _ _ -> false }"
	first := mustParseBare(t, src)
	printed := prettyprinter.Sugar(first.Store, first.Store.Root, false)
	// The printed module has no data declaration, so re-bind by hand.
	p := New(printed)
	p.bind("Cons")
	p.bind("Nil")
	second, err := p.ParseModuleBare()
	if err != nil {
		t.Fatalf("reparse failed: %v\n%s", err, printed)
	}
	if !sameModule(first, second) {
		t.Fatalf("match round trip changed the tree:\n%s", printed)
	}
}

func TestIfThenElseDesugarsToApplication(t *testing.T) {
	res := mustParseBare(t, "main = if true then 1 else 2")
	s := res.Store
	main, _ := s.AssignTo(s.Root, "main")
	body := s.AssignBody(main)

	// if true 1 2 is three nested applications with head `if`.
	if s.Get(body).Kind != ast.Application {
		t.Fatal("if/then/else should desugar to applications")
	}
	if s.Value(s.AppHead(body)) != "if" {
		t.Fatalf("application head is %s, want if", s.Value(s.AppHead(body)))
	}
	if got := prettyprinter.Sugar(s, body, false); got != "if true 1 2" {
		t.Errorf("printed desugared form = %q", got)
	}
}

func TestNestedIfSugar(t *testing.T) {
	res := mustParseBare(t, "main = if true then if false then 1 else 2 else 3")
	s := res.Store
	main, _ := s.AssignTo(s.Root, "main")
	got := prettyprinter.Sugar(s, s.AssignBody(main), false)
	if got != "if true (if false 1 2) 3" {
		t.Errorf("nested if printed as %q", got)
	}
}

func TestDefinitionSugarSetsFancyFlag(t *testing.T) {
	res := mustParseBare(t, "inc i = add i 1")
	s := res.Store
	inc, _ := s.AssignTo(s.Root, "inc")
	body := s.AssignBody(inc)
	if s.Get(body).Kind != ast.Abstraction || !s.Get(body).FancyAbst {
		t.Error("definition sugar should produce a fancy abstraction")
	}
	if got := prettyprinter.Sugar(s, inc, false); got != "inc i = add i 1" {
		t.Errorf("sugar print = %q", got)
	}
}

func TestTypeDeclarationIsAttached(t *testing.T) {
	res := mustParseBare(t, "inc :: Int -> Int\ninc = \\i. add i 1")
	s := res.Store
	inc, _ := s.AssignTo(s.Root, "inc")
	decl := s.Get(inc).TypeAssignment
	if decl == nil {
		t.Fatal("declared type missing from assignment")
	}
	if decl.String() != "Int -> Int" {
		t.Errorf("declared type = %s", decl)
	}
	if lt, ok := res.Labels.GetType("inc"); !ok || lt.String() != "Int -> Int" {
		t.Error("label table missing the declared type")
	}
}

func TestDeclaredTypeGeneralizes(t *testing.T) {
	res := mustParseBare(t, "pair :: a -> b -> (a, b)\npair x y = (x, y)")
	s := res.Store
	pr, _ := s.AssignTo(s.Root, "pair")
	decl := s.Get(pr).TypeAssignment
	if decl.String() != "∀a. ∀b. a -> b -> (a, b)" {
		t.Errorf("generalized declaration = %s", decl)
	}
}

func TestDataDeclConstructorTypes(t *testing.T) {
	res := mustParseBare(t, "data List a = Cons a (List a) | Nil\nmain = Nil")
	cons, ok := res.Labels.GetType("Cons")
	if !ok {
		t.Fatal("Cons not registered")
	}
	if cons.String() != "∀a. a -> List a -> List a" {
		t.Errorf("Cons :: %s", cons)
	}
	nil_, _ := res.Labels.GetType("Nil")
	if nil_.String() != "∀a. List a" {
		t.Errorf("Nil :: %s", nil_)
	}
	list, ok := res.Types.Get("List")
	if !ok {
		t.Fatal("List not in type map")
	}
	if types.CountForalls(list) != 1 {
		t.Errorf("List declaration should carry one binder, got %s", list)
	}
}

func TestTypeAlias(t *testing.T) {
	res := mustParseBare(t, "type MyInt = Int\nx :: MyInt\nx = 5")
	my, ok := res.Types.Get("MyInt")
	if !ok {
		t.Fatal("alias not registered")
	}
	al, ok := my.(types.Alias)
	if !ok || !types.Equal(al.Body, types.Int()) {
		t.Errorf("MyInt = %#v", my)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name    string
		src     string
		fragment string
	}{
		{"unbound identifier", "main = add x 1", "unbound identifier: x"},
		{"duplicate assignment", "x = 1\nx = 2", "already assigned"},
		{"duplicate type decl", "x :: Int\nx :: Int\nx = 1", "type already assigned"},
		{"duplicate data", "data A = B\ndata A = C", "declared more than once"},
		{"unknown type", "x :: Unknown\nx = 1", "not defined"},
		{"rebind abstraction", "f = \\x. \\x. x", "already bound"},
		{"rebind in pattern", "f x = match x { | x -> 1 }", "rebind"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.src).ParseModuleBare()
			if err == nil {
				t.Fatal("expected a parse error")
			}
			if !strings.Contains(err.Error(), tc.fragment) {
				t.Errorf("error %q does not mention %q", err.Error(), tc.fragment)
			}
		})
	}
}

func TestMainRequiredWithPrelude(t *testing.T) {
	_, err := New("x :: Int\nx = 5").ParseModule()
	if err == nil || !strings.Contains(err.Error(), "main") {
		t.Fatalf("expected missing-main error, got %v", err)
	}
}

func TestPreludeParsesAndBinds(t *testing.T) {
	res, err := New("main :: Int\nmain = length (Cons 1 Nil)").ParseModule()
	if err != nil {
		t.Fatalf("prelude module parse failed: %v", err)
	}
	if _, ok := res.Labels.GetType("foldr"); !ok {
		t.Error("prelude labels missing foldr")
	}
	if _, ok := res.Types.Get("List"); !ok {
		t.Error("prelude types missing List")
	}
}

func TestPairPatternAbstraction(t *testing.T) {
	res := mustParseBare(t, "swap = \\(a, b). (b, a)")
	s := res.Store
	swap, _ := s.AssignTo(s.Root, "swap")
	body := s.AssignBody(swap)
	if s.Get(s.AbstVar(body)).Kind != ast.Pair {
		t.Error("binder should be a pair pattern")
	}
}

func TestDollarFlagSurvives(t *testing.T) {
	res := mustParseBare(t, "main = id $ add 1 2")
	s := res.Store
	main, _ := s.AssignTo(s.Root, "main")
	if !s.Get(s.AssignBody(main)).DollarApp {
		t.Error("dollar application flag not set")
	}
}
