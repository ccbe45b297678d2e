// Package prettyprinter renders expressions back to sugared or desugared
// source form. The sugared printer is deterministic and keys identical-
// redex de-duplication, so its parenthesisation rules are part of the
// engine contract: only Application/Abstraction arguments and Abstractions
// in function position are parenthesised.
package prettyprinter

import (
	"fmt"
	"strings"

	"github.com/sflang/sfl/internal/ast"
)

// Sugar prints the subtree at node using source sugar: definition-style
// abstractions fold back into `f x y = e`, dollar applications reprint
// with `$`, abstractions print as `\v. body`.
func Sugar(s *ast.Store, node ast.NodeID, showTypes bool) string {
	n := s.Get(node)
	switch n.Kind {
	case ast.Identifier:
		if n.TypeAssignment != nil && showTypes {
			return fmt.Sprintf("%s :: %s", s.Value(node), n.TypeAssignment)
		}
		return s.Value(node)
	case ast.Literal:
		return s.Value(node)
	case ast.Application:
		f, x := s.Func(node), s.Arg(node)
		funcStr := Sugar(s, f, showTypes)
		argStr := Sugar(s, x, showTypes)
		if n.DollarApp {
			return funcStr + " $ " + argStr
		}
		if s.Get(f).Kind == ast.Abstraction {
			funcStr = "(" + funcStr + ")"
		}
		switch s.Get(x).Kind {
		case ast.Application, ast.Abstraction:
			argStr = "(" + argStr + ")"
		}
		return funcStr + " " + argStr
	case ast.Match:
		var b strings.Builder
		b.WriteString("match (")
		b.WriteString(Sugar(s, s.MatchSubject(node), false))
		b.WriteString(") {\n")
		for _, c := range s.MatchCases(node) {
			b.WriteString("  | ")
			b.WriteString(Sugar(s, c.Pattern, false))
			b.WriteString(" -> ")
			b.WriteString(Sugar(s, c.Body, showTypes))
			b.WriteByte('\n')
		}
		b.WriteByte('}')
		return b.String()
	case ast.Assignment:
		name := s.Assignee(node)
		body := s.AssignBody(node)
		exp := Sugar(s, body, showTypes)

		var fancyVars strings.Builder
		for s.Get(body).FancyAbst {
			fancyVars.WriteByte(' ')
			fancyVars.WriteString(Sugar(s, s.AbstVar(body), showTypes))
			body = s.AbstBody(body)
			exp = Sugar(s, body, showTypes)
		}

		typeStr := ""
		if showTypes && n.TypeAssignment != nil {
			typeStr = name + " :: " + n.TypeAssignment.String() + "\n"
		}
		return fmt.Sprintf("%s%s%s = %s", typeStr, name, fancyVars.String(), exp)
	case ast.Module:
		var b strings.Builder
		for _, c := range n.Children {
			b.WriteString(Sugar(s, c, showTypes))
			b.WriteByte('\n')
		}
		return strings.TrimSpace(b.String())
	case ast.Abstraction:
		return "\\" + Sugar(s, s.AbstVar(node), showTypes) + ". " + Sugar(s, s.AbstBody(node), showTypes)
	case ast.Pair:
		return fmt.Sprintf("(%s, %s)", Sugar(s, s.First(node), showTypes), Sugar(s, s.Second(node), showTypes))
	default:
		panic(fmt.Sprintf("prettyprinter: cannot print %s node", n.Kind))
	}
}

// Desugar prints the subtree at node with all sugar expanded and declared
// types shown; the CLI banner uses it.
func Desugar(s *ast.Store, node ast.NodeID) string {
	n := s.Get(node)
	switch n.Kind {
	case ast.Identifier:
		if n.TypeAssignment != nil {
			return fmt.Sprintf("%s :: %s", s.Value(node), n.TypeAssignment)
		}
		return s.Value(node)
	case ast.Literal:
		return s.Value(node)
	case ast.Application:
		f, x := s.Func(node), s.Arg(node)
		funcStr := Desugar(s, f)
		if s.Get(f).Kind == ast.Abstraction {
			funcStr = "(" + funcStr + ")"
		}
		argStr := Desugar(s, x)
		switch s.Get(x).Kind {
		case ast.Application, ast.Abstraction:
			argStr = "(" + argStr + ")"
		}
		return funcStr + " " + argStr
	case ast.Assignment:
		name := s.Assignee(node)
		exp := Desugar(s, s.AssignBody(node))
		typeStr := ""
		if n.TypeAssignment != nil {
			typeStr = name + " :: " + n.TypeAssignment.String() + "\n"
		}
		return fmt.Sprintf("%s%s = %s", typeStr, name, exp)
	case ast.Module:
		var b strings.Builder
		for _, c := range n.Children {
			b.WriteString(Desugar(s, c))
			b.WriteByte('\n')
		}
		return strings.TrimSpace(b.String())
	case ast.Match:
		var b strings.Builder
		b.WriteString("match ")
		b.WriteString(Desugar(s, s.MatchSubject(node)))
		for _, c := range s.MatchCases(node) {
			b.WriteString(" | ")
			b.WriteString(Desugar(s, c.Pattern))
			b.WriteString(" -> ")
			b.WriteString(Desugar(s, c.Body))
		}
		return b.String()
	case ast.Abstraction:
		return "\\" + Desugar(s, s.AbstVar(node)) + " . " + Desugar(s, s.AbstBody(node))
	case ast.Pair:
		return fmt.Sprintf("(%s, %s)", Desugar(s, s.First(node)), Desugar(s, s.Second(node)))
	default:
		panic(fmt.Sprintf("prettyprinter: cannot print %s node", n.Kind))
	}
}

// TypeAssigns prints every definition's declared type, one per line.
func TypeAssigns(s *ast.Store, module ast.NodeID) string {
	var b strings.Builder
	for _, c := range s.Get(module).Children {
		t := s.Get(c).TypeAssignment
		if t == nil {
			continue
		}
		b.WriteString(fmt.Sprintf("%s :: %s\n", s.Assignee(c), t))
	}
	return strings.TrimSpace(b.String())
}
