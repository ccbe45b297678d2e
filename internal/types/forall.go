package types

// orderedExistentials returns the ids of all existentials in t in first-
// appearance order, without duplicates.
func orderedExistentials(t Type) []int {
	var ids []int
	seen := map[int]bool{}
	var walk func(Type)
	walk = func(t Type) {
		switch tt := t.(type) {
		case Existential:
			if !seen[tt.ID] {
				seen[tt.ID] = true
				ids = append(ids, tt.ID)
			}
		case Forall:
			walk(tt.Body)
		case Func:
			walk(tt.From)
			walk(tt.To)
		case Product:
			walk(tt.First)
			walk(tt.Second)
		case Union:
			for _, a := range tt.Args {
				walk(a)
			}
		case Alias:
			walk(tt.Body)
		}
	}
	walk(t)
	return ids
}

// existToVar rewrites every existential with the given id to a rigid type
// variable of the given name.
func existToVar(t Type, ex int, name string) Type {
	switch tt := t.(type) {
	case Existential:
		if tt.ID == ex {
			return Var{Name: name}
		}
		return tt
	case Forall:
		return Forall{Var: tt.Var, Body: existToVar(tt.Body, ex, name)}
	case Func:
		return Func{From: existToVar(tt.From, ex, name), To: existToVar(tt.To, ex, name)}
	case Product:
		return Product{First: existToVar(tt.First, ex, name), Second: existToVar(tt.Second, ex, name)}
	case Union:
		args := make([]Type, len(tt.Args))
		for i, a := range tt.Args {
			args[i] = existToVar(a, ex, name)
		}
		return Union{Name: tt.Name, Args: args}
	case Alias:
		return Alias{Name: tt.Name, Body: existToVar(tt.Body, ex, name)}
	default:
		return t
	}
}

// allExistsToVars converts every leftover existential in t to a freshly
// named rigid variable (a, b, ..., skipping names already used in t) and
// returns the names in order of first appearance.
func allExistsToVars(t Type) ([]string, Type) {
	used := VarSet(t)
	var names []string
	out := t
	for index, ex := range orderedExistentials(t) {
		name := NumName(index)
		for i := 1; used[name]; i++ {
			name = NumName(index + i)
		}
		used[name] = true
		names = append(names, name)
		out = existToVar(out, ex, name)
	}
	return names, out
}

// ForallIfy generalizes t: every unsolved existential becomes a rigid
// variable bound by a prenex quantifier.
func ForallIfy(t Type) Type {
	names, out := allExistsToVars(t)
	return Fa(names, out)
}

// TvIfy is ForallIfy without the quantifier prefix; used for diagnostics.
func TvIfy(t Type) Type {
	_, out := allExistsToVars(t)
	return out
}
