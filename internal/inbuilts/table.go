// Package inbuilts holds the table of labels known to the engine: the
// fixed catalogue of primitives plus, after parsing, user definitions and
// data constructors.
package inbuilts

import (
	"fmt"

	"github.com/sflang/sfl/internal/ast"
	"github.com/sflang/sfl/internal/types"
)

// Reducer builds the contractum for a saturated inbuilt call. call is the
// identifier node being applied; args are the literal argument nodes in
// source order. Reducers are total over arguments meeting the arity and
// primitive-type preconditions; anything else is a caller bug and panics
// with a plain message. A ReductionError is panicked only for division by
// zero.
type Reducer func(call *ast.Node, args []*ast.Node) *ast.Store

// ReductionError is panicked by reducers on failures that type checking
// cannot rule out (division by zero). The engine recovers it at its
// boundary.
type ReductionError struct {
	Msg       string
	Line, Col int
}

func (e *ReductionError) Error() string {
	return fmt.Sprintf("reduction failure at [%d:%d]: %s", e.Line+1, e.Col+1, e.Msg)
}

func reductionFailure(call *ast.Node, format string, args ...any) {
	panic(&ReductionError{Msg: fmt.Sprintf(format, args...), Line: call.Line, Col: call.Col})
}

// Label is one entry of the table: the number of fully evaluated arguments
// needed to fire, the optional primitive reducer, and the declared type.
type Label struct {
	// ReductionArity is the argument count needed to reduce. For
	// inbuilts it can be smaller than the type arity: `if` consumes
	// only its Bool.
	ReductionArity int

	reducer Reducer

	Type types.Type
}

// IsInbuilt reports whether the label carries a primitive reducer.
func (l *Label) IsInbuilt() bool { return l.reducer != nil }

// CallInbuilt fires the reducer; the arity must match exactly.
func (l *Label) CallInbuilt(call *ast.Node, args []*ast.Node) *ast.Store {
	if !l.IsInbuilt() {
		panic("inbuilts: CallInbuilt on a non-inbuilt label")
	}
	if len(args) != l.ReductionArity {
		panic(fmt.Sprintf("inbuilts: arity mismatch: want %d args, got %d", l.ReductionArity, len(args)))
	}
	return l.reducer(call, args)
}

// Table maps label names to their entries. It is seeded with the inbuilt
// catalogue and grows monotonically while a module is loaded.
type Table struct {
	labels map[string]*Label
}

func NewTable() *Table {
	t := &Table{labels: map[string]*Label{}}
	t.populate()
	return t
}

func (t *Table) Get(name string) (*Label, bool) {
	l, ok := t.labels[name]
	return l, ok
}

// GetType returns the declared type of a label, if known.
func (t *Table) GetType(name string) (types.Type, bool) {
	if l, ok := t.labels[name]; ok {
		return l.Type, true
	}
	return nil, false
}

func (t *Table) addInbuilt(name string, arity int, r Reducer, ty types.Type) {
	t.labels[name] = &Label{ReductionArity: arity, reducer: r, Type: ty}
}

// Add registers a user label (an assignment or a data constructor); its
// reduction arity is the arity of its declared type.
func (t *Table) Add(name string, ty types.Type) {
	t.labels[name] = &Label{ReductionArity: types.Arity(ty), Type: ty}
}

// Remove drops a label; it reports whether the name was present.
func (t *Table) Remove(name string) bool {
	if _, ok := t.labels[name]; !ok {
		return false
	}
	delete(t.labels, name)
	return true
}

// TypeMap snapshots name -> declared type for every known label.
func (t *Table) TypeMap() map[string]types.Type {
	m := make(map[string]types.Type, len(t.labels))
	for name, l := range t.labels {
		m[name] = l.Type
	}
	return m
}

// Names lists every known label name; the starting set seeds the parser's
// bound-identifier checking.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.labels))
	for name := range t.labels {
		names = append(names, name)
	}
	return names
}

func (t *Table) populate() {
	binInt := types.Fn(types.Int(), types.Int(), types.Int())
	binIntBool := types.Fn(types.Int(), types.Int(), types.Bool())
	binFloat := types.Fn(types.Float(), types.Float(), types.Float())
	binFloatBool := types.Fn(types.Float(), types.Float(), types.Bool())
	unInt := types.Fn(types.Int(), types.Int())
	unFloat := types.Fn(types.Float(), types.Float())

	a := types.Var{Name: "a"}
	b := types.Var{Name: "b"}
	ifType := types.Fa([]string{"a"}, types.Fn(types.Bool(), a, a, a))
	idType := types.Fa([]string{"a"}, types.Fn(a, a))
	const1Type := types.Fa([]string{"a", "b"}, types.Fn(a, b, a))
	const2Type := types.Fa([]string{"a", "b"}, types.Fn(a, b, b))

	t.addInbuilt("add", 2, intBinary(func(x, y int64) int64 { return x + y }), binInt)
	t.addInbuilt("sub", 2, intBinary(func(x, y int64) int64 { return x - y }), binInt)
	t.addInbuilt("mul", 2, intBinary(func(x, y int64) int64 { return x * y }), binInt)
	t.addInbuilt("div", 2, intDiv, binInt)
	t.addInbuilt("neg", 1, intNeg, unInt)

	t.addInbuilt("eq", 2, intCompare(func(x, y int64) bool { return x == y }), binIntBool)
	t.addInbuilt("lt", 2, intCompare(func(x, y int64) bool { return x < y }), binIntBool)
	t.addInbuilt("gt", 2, intCompare(func(x, y int64) bool { return x > y }), binIntBool)
	t.addInbuilt("lte", 2, intCompare(func(x, y int64) bool { return x <= y }), binIntBool)
	t.addInbuilt("gte", 2, intCompare(func(x, y int64) bool { return x >= y }), binIntBool)

	t.addInbuilt("addf", 2, floatBinary(func(x, y float64) float64 { return x + y }), binFloat)
	t.addInbuilt("subf", 2, floatBinary(func(x, y float64) float64 { return x - y }), binFloat)
	t.addInbuilt("mulf", 2, floatBinary(func(x, y float64) float64 { return x * y }), binFloat)
	t.addInbuilt("divf", 2, floatBinary(func(x, y float64) float64 { return x / y }), binFloat)
	t.addInbuilt("negf", 1, floatNeg, unFloat)

	t.addInbuilt("eqf", 2, floatCompare(func(x, y float64) bool { return x == y }), binFloatBool)
	t.addInbuilt("ltf", 2, floatCompare(func(x, y float64) bool { return x < y }), binFloatBool)
	t.addInbuilt("gtf", 2, floatCompare(func(x, y float64) bool { return x > y }), binFloatBool)
	t.addInbuilt("ltef", 2, floatCompare(func(x, y float64) bool { return x <= y }), binFloatBool)
	t.addInbuilt("gtef", 2, floatCompare(func(x, y float64) bool { return x >= y }), binFloatBool)

	t.addInbuilt("if", 1, inbuiltIf, ifType)
	t.addInbuilt("id", 1, inbuiltID, idType)
	t.addInbuilt("const1", 0, inbuiltConst1, const1Type)
	t.addInbuilt("const2", 0, inbuiltConst2, const2Type)
}
