package types

import "testing"

func TestTypeToString(t *testing.T) {
	cases := []struct {
		name string
		t    Type
		want string
	}{
		{"int", Int(), "Int"},
		{"float", Float(), "Float"},
		{"arrow", Fn(Int(), Float()), "Int -> Float"},
		{"arrow right assoc", Fn(Int(), Int(), Float()), "Int -> Int -> Float"},
		{"arrow left parens", Fn(Fn(Int(), Int()), Float()), "(Int -> Int) -> Float"},
		{"existential a", Existential{ID: 0}, "Ea"},
		{"existential aa", Existential{ID: 26}, "Eaa"},
		{"existential ab", Existential{ID: 27}, "Eab"},
		{"existential ba", Existential{ID: 52}, "Eba"},
		{"union one arg", Union{Name: "List", Args: []Type{Int()}}, "List Int"},
		{"union two args", Union{Name: "Either", Args: []Type{Int(), Float()}}, "Either Int Float"},
		{"union nested parens", Union{Name: "Maybe", Args: []Type{Union{Name: "List", Args: []Type{Int()}}}}, "Maybe (List Int)"},
		{"product", Pr(Int(), Bool()), "(Int, Bool)"},
		{"forall", Fa([]string{"a"}, Fn(Var{Name: "a"}, Var{Name: "a"})), "∀a. a -> a"},
		{"unit", Unit{}, "1"},
		{"alias shows name", Alias{Name: "MyInt", Body: Int()}, "MyInt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.t.String(); got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestArity(t *testing.T) {
	if got := Arity(Fa([]string{"a"}, Fn(Var{Name: "a"}, Var{Name: "a"}))); got != 1 {
		t.Errorf("arity of forall a. a -> a = %d, want 1", got)
	}
	if got := Arity(Fn(Int(), Int(), Int())); got != 2 {
		t.Errorf("arity of Int -> Int -> Int = %d, want 2", got)
	}
	if got := Arity(Int()); got != 0 {
		t.Errorf("arity of Int = %d, want 0", got)
	}
}

func TestIsMonotype(t *testing.T) {
	if IsMonotype(Fa([]string{"a"}, Var{Name: "a"})) {
		t.Error("a forall is not a monotype")
	}
	if !IsMonotype(Fn(Int(), Existential{ID: 3})) {
		t.Error("an arrow over existentials is a monotype")
	}
}

func TestSubstituteVar(t *testing.T) {
	body := Fn(Var{Name: "a"}, Union{Name: "List", Args: []Type{Var{Name: "a"}}})
	got := SubstituteVar(body, "a", Int())
	want := Fn(Int(), Union{Name: "List", Args: []Type{Int()}})
	if !Equal(got, want) {
		t.Errorf("substitution produced %s, want %s", got, want)
	}
}

func TestContainsExistential(t *testing.T) {
	ty := Fn(Int(), Pr(Existential{ID: 4}, Bool()))
	if !ContainsExistential(ty, 4) {
		t.Error("existential 4 should be found")
	}
	if ContainsExistential(ty, 5) {
		t.Error("existential 5 should not be found")
	}
}

func TestForallIfy(t *testing.T) {
	ty := Fn(Existential{ID: 7}, Existential{ID: 9}, Existential{ID: 7})
	got := ForallIfy(ty)
	want := Fa([]string{"a", "b"}, Fn(Var{Name: "a"}, Var{Name: "b"}, Var{Name: "a"}))
	if !Equal(got, want) {
		t.Errorf("ForallIfy = %s, want %s", got, want)
	}
}

// forall_ify is idempotent: a second pass finds no existentials to bind.
func TestForallIfyIdempotent(t *testing.T) {
	ty := Fn(Existential{ID: 1}, Existential{ID: 2})
	once := ForallIfy(ty)
	twice := ForallIfy(once)
	if !Equal(once, twice) {
		t.Errorf("ForallIfy not idempotent: %s vs %s", once, twice)
	}
}

// Fresh names skip variables already present in the type.
func TestForallIfySkipsUsedNames(t *testing.T) {
	ty := Fn(Var{Name: "a"}, Existential{ID: 3})
	got := ForallIfy(ty)
	fa, ok := got.(Forall)
	if !ok {
		t.Fatalf("expected a forall, got %s", got)
	}
	if fa.Var == "a" {
		t.Error("fresh binder reused an existing variable name")
	}
	if fa.Var != "b" {
		t.Errorf("expected binder b, got %s", fa.Var)
	}
}

func TestNumName(t *testing.T) {
	cases := map[int]string{0: "a", 1: "b", 25: "z", 26: "aa", 27: "ab", 52: "ba"}
	for n, want := range cases {
		if got := NumName(n); got != want {
			t.Errorf("NumName(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestApply(t *testing.T) {
	list := Fa([]string{"a"}, Union{Name: "List", Args: []Type{Var{Name: "a"}}})
	got, err := Apply(list, Int())
	if err != nil {
		t.Fatal(err)
	}
	if !Equal(got, Union{Name: "List", Args: []Type{Int()}}) {
		t.Errorf("Apply produced %s", got)
	}
	if _, err := Apply(Int(), Bool()); err == nil {
		t.Error("applying a non-constructor should fail")
	}
}
