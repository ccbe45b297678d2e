package checker

import (
	"strings"
	"testing"

	"github.com/sflang/sfl/internal/parser"
	"github.com/sflang/sfl/internal/types"
)

func checkModuleSrc(t *testing.T, src string, opts Options) error {
	t.Helper()
	res, perr := parser.New(src).ParseModuleBare()
	if perr != nil {
		t.Fatalf("parse failed: %v", perr)
	}
	if err := CheckModule(res.Store, res.Store.Root, res.Labels, res.Types, opts); err != nil {
		return err
	}
	return nil
}

func TestWellTypedModules(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"int literal", "main :: Int\nmain = 5"},
		{"inbuilt application", "main :: Int\nmain = add 5 1"},
		{"float chain", "inc :: Float -> Float\ninc = \\i. addf i 1.0\nmain :: Float\nmain = inc 1.5"},
		{"polymorphic if", "main :: Int\nmain = if (lte 1 2) 1 2"},
		{"pair declaration", "pair :: a -> b -> (a, b)\npair x y = (x, y)\nmain :: (Int, Bool)\nmain = pair 1 true"},
		{"recursion with declared type", "fac :: Int -> Int\nfac n = if (lte n 1) 1 (mul n (fac (sub n 1)))\nmain :: Int\nmain = fac 5"},
		{"constructor saturation", "data List a = Cons a (List a) | Nil\nmain :: List Int\nmain = Cons 5 Nil"},
		{"match on union", "data List a = Cons a (List a) | Nil\nmain :: Bool\nmain = match (Cons 5 Nil) { | Nil -> true | Cons _ _ -> false }"},
		{"match with bindings", "data Maybe a = Just a | Nothing\nunwrap :: Maybe Int -> Int\nunwrap m = match m :: Maybe Int { | Just x -> x | Nothing -> 0 }\nmain :: Int\nmain = unwrap (Just 3)"},
		{"alias unfolds", "type MyInt = Int\nx :: MyInt\nx = 5\nmain :: Int\nmain = x"},
		{"ignored binder", "const_float :: Int -> Float\nconst_float = \\_. 1.5\nmain :: Float\nmain = const_float 100"},
		{"pair pattern binder", "swap :: (Int, Bool) -> (Bool, Int)\nswap = \\(a, b). (b, a)\nmain :: (Bool, Int)\nmain = swap (1, true)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := checkModuleSrc(t, tc.src, Options{}); err != nil {
				t.Errorf("expected module to check, got: %v", err)
			}
		})
	}
}

func TestIllTypedModules(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"arity mismatch against declared arrow", "main :: Int -> Int\nmain = add 2 2"},
		{"if branch type mismatch", "main :: Int\nmain = if false 2.0 3"},
		{"float passed to int op", "main :: Int\nmain = add 1.5 1"},
		{"wrong result type", "main :: Bool\nmain = add 1 2"},
		{"wrong constructor argument", "data List a = Cons a (List a) | Nil\nmain :: List Int\nmain = Cons 5 (Cons 1.5 Nil)"},
		{"distinct unions are not compatible", "data Maybe a = Just a | Nothing\ndata Optional a = Some a | None\nf :: Maybe Int -> Int\nf m = 0\nmain :: Int\nmain = f (Some 1)"},
		{"applying a non-function", "main :: Int\nmain = 1 2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := checkModuleSrc(t, tc.src, Options{}); err == nil {
				t.Error("expected a type error")
			}
		})
	}
}

func TestRequiredDeclarationMode(t *testing.T) {
	err := checkModuleSrc(t, "main = add 1 2", Options{})
	if err == nil || !strings.Contains(err.Error(), "cannot find type assignment") {
		t.Fatalf("undeclared main should be rejected in canonical mode, got %v", err)
	}
	if err := checkModuleSrc(t, "main = add 1 2", Options{AllowInference: true}); err != nil {
		t.Errorf("inference mode should accept it: %v", err)
	}
}

func TestInferenceCommitsGeneralizedType(t *testing.T) {
	res, perr := parser.New("pair = \\x y. (x, y)\nmain :: (Int, Bool)\nmain = pair 1 true").ParseModuleBare()
	if perr != nil {
		t.Fatal(perr)
	}
	if err := CheckModule(res.Store, res.Store.Root, res.Labels, res.Types, Options{AllowInference: true}); err != nil {
		t.Fatalf("check failed: %v", err)
	}
	assign, _ := res.Store.AssignTo(res.Store.Root, "pair")
	got := res.Store.Get(assign).TypeAssignment
	if got == nil {
		t.Fatal("inferred type was not committed to the tree")
	}
	if got.String() != "∀a. ∀b. a -> b -> (a, b)" {
		t.Errorf("inferred pair :: %s", got)
	}
	if lt, ok := res.Labels.GetType("pair"); !ok || lt.String() != "∀a. ∀b. a -> b -> (a, b)" {
		t.Error("inferred type missing from the label table")
	}
}

func TestInferType(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"identity", `f = \x. x`, "∀a. a -> a"},
		{"pair", `f = \x y. (x, y)`, "∀a. ∀b. a -> b -> (a, b)"},
		{"int literal", "f = 5", "Int"},
		{"inbuilt partial", "f = add 1", "Int -> Int"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, perr := parser.New(tc.src).ParseModuleBare()
			if perr != nil {
				t.Fatal(perr)
			}
			assign, _ := res.Store.AssignTo(res.Store.Root, "f")
			got, err := InferType(res.Store, res.Store.AssignBody(assign), res.Types)
			if err != nil {
				t.Fatalf("inference failed: %v", err)
			}
			if got.String() != tc.want {
				t.Errorf("inferred %s, want %s", got, tc.want)
			}
		})
	}
}

func TestSelfApplicationFailsInference(t *testing.T) {
	// The fixed-point combinator has no rank-1 type; the occurs check
	// rejects x x.
	err := checkModuleSrc(t, "y f = (\\x. f (x x)) (\\x. f (x x))\nmain :: Int\nmain = 1",
		Options{AllowInference: true})
	if err == nil {
		t.Fatal("expected inference of the Y combinator to fail")
	}
	if !strings.Contains(err.Error(), "contains itself") {
		t.Errorf("expected an occurs-check failure, got: %v", err)
	}
}

func TestRecursionWithoutDeclarationFails(t *testing.T) {
	err := checkModuleSrc(t, "fac n = if (lte n 1) 1 (mul n (fac (sub n 1)))\nmain :: Int\nmain = 1",
		Options{AllowInference: true})
	if err == nil || !strings.Contains(err.Error(), "recursive") {
		t.Fatalf("recursive use during inference should be poisoned, got %v", err)
	}
}

func TestOccursCheckInSubtype(t *testing.T) {
	c := Context{}
	ex := c.NextExistential()
	c = c.Append(existentialItem(ex))
	arrow := types.Func{From: types.Existential{ID: ex}, To: types.Int()}
	_, err := subtype(c, types.Existential{ID: ex}, arrow, types.NewTypeMap())
	if err == nil || !strings.Contains(err.Error(), "contains itself") {
		t.Fatalf("expected occurs-check error, got %v", err)
	}
}

func TestSubtypeBasics(t *testing.T) {
	tm := types.NewTypeMap()
	ok := func(a, b types.Type) {
		t.Helper()
		if _, err := subtype(Context{}, a, b, tm); err != nil {
			t.Errorf("%s <: %s should hold: %v", a, b, err)
		}
	}
	fail := func(a, b types.Type) {
		t.Helper()
		if _, err := subtype(Context{}, a, b, tm); err == nil {
			t.Errorf("%s <: %s should fail", a, b)
		}
	}

	ok(types.Int(), types.Int())
	fail(types.Int(), types.Float())
	ok(types.Fn(types.Int(), types.Bool()), types.Fn(types.Int(), types.Bool()))
	fail(types.Pr(types.Int(), types.Int()), types.Int())
	ok(types.Alias{Name: "MyInt", Body: types.Int()}, types.Int())
	ok(types.Int(), types.Alias{Name: "MyInt", Body: types.Int()})

	// ∀a. a -> a <: Int -> Int by instantiation.
	idType := types.Fa([]string{"a"}, types.Fn(types.Var{Name: "a"}, types.Var{Name: "a"}))
	ok(idType, types.Fn(types.Int(), types.Int()))

	// Unions are nominal and invariant.
	listInt := types.Union{Name: "List", Args: []types.Type{types.Int()}}
	maybeInt := types.Union{Name: "Maybe", Args: []types.Type{types.Int()}}
	ok(listInt, listInt)
	fail(listInt, maybeInt)
	fail(listInt, types.Union{Name: "List", Args: []types.Type{types.Float()}})
}

// Aliasing a union does not bridge distinct nominal unions.
func TestAliasDoesNotBridgeNominalUnions(t *testing.T) {
	tm := types.NewTypeMap()
	listInt := types.Union{Name: "List", Args: []types.Type{types.Int()}}
	aliased := types.Alias{Name: "Stack", Body: listInt}
	if _, err := subtype(Context{}, aliased, listInt, tm); err != nil {
		t.Errorf("alias of the same union should unfold: %v", err)
	}
	maybeInt := types.Union{Name: "Maybe", Args: []types.Type{types.Int()}}
	if _, err := subtype(Context{}, aliased, maybeInt, tm); err == nil {
		t.Error("alias unfolding must not cross union names")
	}
}

func TestContextTruncation(t *testing.T) {
	c := Context{}
	c = c.Append(assignItem("x", types.Int()))
	c = c.Append(typeVarItem("a"))
	c = c.Append(assignItem("y", types.Bool()))

	trunc := c.BeforeTypeVar("a")
	if _, _, ok := trunc.TypeAssignment("y"); ok {
		t.Error("truncation should drop items after the type variable")
	}
	if _, _, ok := trunc.TypeAssignment("x"); !ok {
		t.Error("truncation should keep the prefix")
	}
}

func TestContextSolvesChainedExistentials(t *testing.T) {
	c := Context{}
	c = c.Append(existentialItem(1)).Append(existentialItem(2))
	c = c.SetExistential(2, types.Existential{ID: 1})
	c = c.SetExistential(1, types.Int())
	got := c.Substitute(types.Existential{ID: 2})
	if !types.Equal(got, types.Int()) {
		t.Errorf("chained substitution = %s, want Int", got)
	}
}
