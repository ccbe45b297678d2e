package types

// TypeMap maps declared type names to their declarations: the primitives,
// alias bodies, and the generalized union types introduced by data
// declarations. It is immutable after parsing.
type TypeMap struct {
	Types map[string]Type
}

func NewTypeMap() *TypeMap {
	return &TypeMap{Types: map[string]Type{
		"Int":   Int(),
		"Float": Float(),
		"Bool":  Bool(),
		"Char":  Char(),
	}}
}

func (tm *TypeMap) Get(name string) (Type, bool) {
	t, ok := tm.Types[name]
	return t, ok
}

func (tm *TypeMap) Set(name string, t Type) {
	tm.Types[name] = t
}
