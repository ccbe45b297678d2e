// Package checker implements the bidirectional type engine: ordered
// contexts, subtyping with existential instantiation, checking and
// synthesis, and the whole-module driver.
package checker

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sflang/sfl/internal/ast"
	"github.com/sflang/sfl/internal/diagnostics"
	"github.com/sflang/sfl/internal/inbuilts"
	"github.com/sflang/sfl/internal/types"
)

type itemKind int

const (
	itemTypeVar itemKind = iota
	itemAssign
	itemExistential
	itemMarker
)

// item is one entry of the ordered context: a rigid type variable in
// scope, a term-variable type assignment (possibly poisoned to guard
// self-reference during inference), an existential (solved or not), or a
// scope marker.
type item struct {
	kind itemKind
	name string            // type-variable or assignment name
	t    types.Type        // assignment type, or existential solution (nil = unsolved)
	err  *diagnostics.Error // poisoned assignment: using it is the error
	ex   int               // existential / marker id
}

func typeVarItem(name string) item { return item{kind: itemTypeVar, name: name} }
func assignItem(name string, t types.Type) item {
	return item{kind: itemAssign, name: name, t: t}
}
func poisonedAssignItem(name string, err *diagnostics.Error) item {
	return item{kind: itemAssign, name: name, err: err}
}
func existentialItem(ex int) item { return item{kind: itemExistential, ex: ex} }
func markerItem(ex int) item      { return item{kind: itemMarker, ex: ex} }

// Context is an ordered typing context. It is a pure value: every rule
// consumes one and produces the next; prefixes are recovered by the
// truncate-before operations.
type Context struct {
	items           []item
	nextExID        int
	nextPlaceholder int
}

// NewContext builds a context holding a type assignment for every label in
// the table except the excluded names (a module's own assignees, which are
// appended one by one as they are checked).
func NewContext(lt *inbuilts.Table, exclude map[string]bool) Context {
	var c Context
	for name, t := range lt.TypeMap() {
		if exclude[name] {
			continue
		}
		c.items = append(c.items, assignItem(name, t))
	}
	return c
}

func (c Context) clone() Context {
	items := make([]item, len(c.items))
	copy(items, c.items)
	return Context{items: items, nextExID: c.nextExID, nextPlaceholder: c.nextPlaceholder}
}

// Append adds an item at the tail, updating the fresh-id counters.
func (c Context) Append(it item) Context {
	out := c.clone()
	switch it.kind {
	case itemAssign:
		if strings.HasPrefix(it.name, "_") {
			out.nextPlaceholder++
		}
	case itemExistential:
		if it.ex > out.nextExID {
			out.nextExID = it.ex
		}
	}
	out.items = append(out.items, it)
	return out
}

// AssignsOnly keeps just the type assignments (used after inferring one
// definition to discard its scratch existentials).
func (c Context) AssignsOnly() Context {
	out := Context{nextExID: c.nextExID, nextPlaceholder: c.nextPlaceholder}
	for _, it := range c.items {
		if it.kind == itemAssign {
			out.items = append(out.items, it)
		}
	}
	return out
}

// RemoveAssignment drops every assignment of the given name.
func (c Context) RemoveAssignment(name string) Context {
	out := Context{nextExID: c.nextExID, nextPlaceholder: c.nextPlaceholder}
	for _, it := range c.items {
		if it.kind == itemAssign && it.name == name {
			continue
		}
		out.items = append(out.items, it)
	}
	return out
}

// BeforeTypeVar truncates the context before the named type variable.
func (c Context) BeforeTypeVar(name string) Context {
	out := Context{nextExID: c.nextExID, nextPlaceholder: c.nextPlaceholder}
	for _, it := range c.items {
		if it.kind == itemTypeVar && it.name == name {
			break
		}
		out.items = append(out.items, it)
	}
	return out
}

// BeforeMarker truncates the context before the marker for ex.
func (c Context) BeforeMarker(ex int) Context {
	out := Context{nextExID: c.nextExID, nextPlaceholder: c.nextPlaceholder}
	for _, it := range c.items {
		if it.kind == itemMarker && it.ex == ex {
			break
		}
		out.items = append(out.items, it)
	}
	return out
}

// BeforeAssignment truncates the context before the named assignment.
func (c Context) BeforeAssignment(name string) Context {
	out := Context{nextExID: c.nextExID, nextPlaceholder: c.nextPlaceholder}
	for _, it := range c.items {
		if it.kind == itemAssign && it.name == name {
			break
		}
		out.items = append(out.items, it)
	}
	return out
}

// TypeAssignment looks up the type bound to a term variable. A poisoned
// assignment returns its error.
func (c Context) TypeAssignment(name string) (types.Type, *diagnostics.Error, bool) {
	for _, it := range c.items {
		if it.kind == itemAssign && it.name == name {
			return it.t, it.err, true
		}
	}
	return nil, nil, false
}

// AddBeforeExistential inserts it immediately before the (first) entry of
// the given existential.
func (c Context) AddBeforeExistential(ex int, insert item) Context {
	out := Context{nextPlaceholder: c.nextPlaceholder, nextExID: c.nextExID}
	if insert.kind == itemExistential && insert.ex > out.nextExID {
		out.nextExID = insert.ex
	}
	for _, it := range c.items {
		switch it.kind {
		case itemAssign:
			if strings.HasPrefix(it.name, "_") {
				out.nextPlaceholder++
			}
		case itemExistential:
			if it.ex == ex {
				out.items = append(out.items, insert)
			}
			if it.ex > out.nextExID {
				out.nextExID = it.ex
			}
		}
		out.items = append(out.items, it)
	}
	return out
}

// SetExistential solves ex to t. Existentials already solved to exactly
// Existential(ex) are re-pointed at t as well. A solution that would make
// an existential refer to itself is skipped, never installed.
func (c Context) SetExistential(ex int, t types.Type) Context {
	out := c.clone()
	for i, it := range out.items {
		if it.kind != itemExistential {
			continue
		}
		if sol, ok := it.t.(types.Existential); ok && sol.ID == ex {
			if st, ok := t.(types.Existential); !ok || st.ID != it.ex {
				out.items[i].t = t
			}
			continue
		}
		if it.ex == ex {
			if st, ok := t.(types.Existential); ok && st.ID == ex {
				continue
			}
			out.items[i].t = t
		}
	}
	return out
}

// Existential returns (solution, solved, present) for ex.
func (c Context) Existential(ex int) (types.Type, bool, bool) {
	for _, it := range c.items {
		if it.kind == itemExistential && it.ex == ex {
			return it.t, it.t != nil, true
		}
	}
	return nil, false, false
}

// NextExistential returns a fresh existential id; ids are committed when
// the corresponding item is appended.
func (c Context) NextExistential() int { return c.nextExID + 1 }

// NextPlaceholder names the next `_` binder distinctly.
func (c Context) NextPlaceholder() string {
	return "_" + strconv.Itoa(c.nextPlaceholder)
}

// Substitute applies the context's existential solutions throughout t.
// Solution chains are followed with cycle detection; a cycle leaves the
// existential as-is.
func (c Context) Substitute(t types.Type) types.Type {
	return c.substitute(t, nil)
}

func (c Context) substitute(t types.Type, visited map[int]bool) types.Type {
	switch tt := t.(type) {
	case types.Existential:
		if visited[tt.ID] {
			return t
		}
		if sol, solved, _ := c.Existential(tt.ID); solved {
			next := map[int]bool{tt.ID: true}
			for k := range visited {
				next[k] = true
			}
			return c.substitute(sol, next)
		}
		return t
	case types.Func:
		return types.Func{From: c.substitute(tt.From, visited), To: c.substitute(tt.To, visited)}
	case types.Product:
		return types.Product{First: c.substitute(tt.First, visited), Second: c.substitute(tt.Second, visited)}
	case types.Forall:
		return types.Forall{Var: tt.Var, Body: c.substitute(tt.Body, visited)}
	case types.Union:
		args := make([]types.Type, len(tt.Args))
		for i, a := range tt.Args {
			args[i] = c.substitute(a, visited)
		}
		return types.Union{Name: tt.Name, Args: args}
	default:
		return t
	}
}

// String renders the context for diagnostics and tests.
func (c Context) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, it := range c.items {
		if i > 0 {
			b.WriteString(", ")
		}
		switch it.kind {
		case itemTypeVar:
			b.WriteString(it.name)
		case itemAssign:
			if it.err != nil {
				b.WriteString(it.name + ":ERROR")
			} else {
				b.WriteString(it.name + ":" + it.t.String())
			}
		case itemExistential:
			b.WriteString(types.Existential{ID: it.ex}.String())
			if it.t != nil {
				b.WriteString("=" + it.t.String())
			}
		case itemMarker:
			b.WriteString("|" + types.Existential{ID: it.ex}.String() + "|")
		}
	}
	b.WriteByte(']')
	return b.String()
}

// recurseAddToContext binds an abstraction pattern (identifier or nested
// pair) against its expected type, returning the new context and the name
// of the first binding added (the truncation point once the body is
// checked). In pattern position, `_` binders get distinct placeholder
// names so several can coexist.
func (c Context) recurseAddToContext(expected types.Type, s *ast.Store, pat ast.NodeID) (Context, string, *diagnostics.Error) {
	pn := s.Get(pat)
	switch {
	case pn.Kind == ast.Identifier:
		name := s.Value(pat)
		if strings.HasPrefix(name, "_") {
			name = c.NextPlaceholder()
		}
		return c.Append(assignItem(name, expected)), name, nil

	case pn.Kind == ast.Pair:
		switch et := expected.(type) {
		case types.Product:
			c2, before, err := c.recurseAddToContext(et.First, s, s.First(pat))
			if err != nil {
				return c, "", err
			}
			c3, _, err := c2.recurseAddToContext(et.Second, s, s.Second(pat))
			if err != nil {
				return c, "", err
			}
			return c3, before, nil
		case types.Existential:
			p1 := c.NextExistential()
			p2 := c.NextExistential() + 1
			c2 := c.AddBeforeExistential(et.ID, existentialItem(p2))
			c2 = c2.AddBeforeExistential(et.ID, existentialItem(p1))
			c3, before, err := c2.recurseAddToContext(types.Existential{ID: p1}, s, s.First(pat))
			if err != nil {
				return c, "", err
			}
			c4, _, err := c3.recurseAddToContext(types.Existential{ID: p2}, s, s.Second(pat))
			if err != nil {
				return c, "", err
			}
			c5 := c4.SetExistential(et.ID, types.Pr(types.Existential{ID: p1}, types.Existential{ID: p2}))
			return c5, before, nil
		}
	}
	return c, "", typeErrorAt(s, pat, fmt.Sprintf("cannot bind pattern %s against %s", pn.Kind, expected))
}

func typeErrorAt(s *ast.Store, node ast.NodeID, msg string) *diagnostics.Error {
	n := s.Get(node)
	return diagnostics.NewErrorAt(diagnostics.ErrT001, n.Line, n.Col, msg)
}
