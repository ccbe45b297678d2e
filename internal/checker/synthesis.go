package checker

import (
	"fmt"

	"github.com/sflang/sfl/internal/ast"
	"github.com/sflang/sfl/internal/diagnostics"
	"github.com/sflang/sfl/internal/prettyprinter"
	"github.com/sflang/sfl/internal/types"
)

// synthesize derives a type for expr under c. In pattern mode an unbound
// lowercase identifier introduces a fresh existential and assignment (the
// bindings of a match case); in expression mode an unbound identifier is
// impossible for parser-produced trees.
func synthesize(c Context, s *ast.Store, expr ast.NodeID, tm *types.TypeMap, isPattern bool) (types.Type, Context, *diagnostics.Error) {
	node := s.Get(expr)

	switch node.Kind {
	// Var
	case ast.Identifier:
		name := s.Value(expr)
		if t, perr, ok := c.TypeAssignment(name); ok {
			if perr != nil {
				return nil, c, perr
			}
			return t, c, nil
		}
		if isPattern && name[0] >= 'a' && name[0] <= 'z' {
			ex := c.NextExistential()
			next := types.Existential{ID: ex}
			c2 := c.Append(existentialItem(ex)).Append(assignItem(name, next))
			return next, c2, nil
		}
		if name == "_" {
			ex := c.NextExistential()
			return types.Existential{ID: ex}, c.Append(existentialItem(ex)), nil
		}
		panic("checker: unbound identifier not in pattern: " + name)

	case ast.Pair:
		t1, c1, err := synthesize(c, s, s.First(expr), tm, isPattern)
		if err != nil {
			return nil, c, err
		}
		t2, c2, err := synthesize(c1, s, s.Second(expr), tm, isPattern)
		if err != nil {
			return nil, c, err
		}
		// Lift prenex quantifiers of the components to the front.
		fas1 := types.Foralls(t1)
		fas2 := types.Foralls(t2)
		prod := types.Pr(stripAll(t1), stripAll(t2))
		return types.Fa(fas1, types.Fa(fas2, prod)), c2, nil

	case ast.Literal:
		return s.LitType(expr), c, nil

	case ast.Match:
		if isPattern {
			panic("checker: match node in pattern position")
		}
		subject := s.MatchSubject(expr)

		var subjectType types.Type
		var c1 Context
		if t := s.Get(subject).TypeAssignment; t != nil {
			cc, err := check(c, t, s, subject, tm, false)
			if err != nil {
				return nil, c, err
			}
			subjectType, c1 = t, cc
		} else {
			var err *diagnostics.Error
			subjectType, c1, err = synthesize(c, s, subject, tm, false)
			if err != nil {
				return nil, c, err
			}
		}

		resultEx := c1.NextExistential()
		resultType := types.Existential{ID: resultEx}
		cc := c1.Append(existentialItem(resultEx))

		for _, cse := range s.MatchCases(expr) {
			patCtx, err := check(cc, subjectType, s, cse.Pattern, tm, true)
			if err != nil {
				return nil, c, err
			}
			bodyCtx, err := check(patCtx, resultType, s, cse.Body, tm, false)
			if err != nil {
				return nil, c, err
			}
			cc = bodyCtx
		}

		if sol, solved, _ := cc.Existential(resultEx); solved {
			return sol, cc, nil
		}
		return nil, c, typeErrorAt(s, expr, "cannot determine the type of this match")

	// ->I=>
	case ast.Abstraction:
		argEx := c.NextExistential()
		bodyEx := argEx + 1
		c1 := c.Append(existentialItem(argEx)).Append(existentialItem(bodyEx))

		if t := s.Get(s.AbstVar(expr)).TypeAssignment; t != nil {
			c1 = c1.SetExistential(argEx, t)
		}

		c2, before, perr := c1.recurseAddToContext(types.Existential{ID: argEx}, s, s.AbstVar(expr))
		if perr != nil {
			return nil, c, perr
		}

		c3, err := check(c2, types.Existential{ID: bodyEx}, s, s.AbstBody(expr), tm, false)
		if err != nil {
			return nil, c, err
		}

		abstType := types.Func{From: types.Existential{ID: argEx}, To: types.Existential{ID: bodyEx}}
		return abstType, c3.BeforeAssignment(before), nil

	// ->E
	case ast.Application:
		lhs, rhs := s.Func(expr), s.Arg(expr)
		fType, fc, err := synthesize(c, s, lhs, tm, isPattern)
		if err != nil {
			return nil, c, err
		}
		return synthesizeApp(fc, fc.Substitute(fType), s, lhs, rhs, tm, isPattern)

	default:
		panic(fmt.Sprintf("checker: cannot synthesize %s node", node.Kind))
	}
}

func stripAll(t types.Type) types.Type {
	for {
		fa, ok := t.(types.Forall)
		if !ok {
			return t
		}
		t = fa.Body
	}
}

// synthesizeApp derives the result of applying a function of the given
// type to the expression at expr.
func synthesizeApp(c Context, applied types.Type, s *ast.Store, f, expr ast.NodeID, tm *types.TypeMap, isPattern bool) (types.Type, Context, *diagnostics.Error) {
	switch at := applied.(type) {
	// ForallApp: instantiate the quantifier with a fresh existential.
	case types.Forall:
		ex := c.NextExistential()
		c2 := c.Append(existentialItem(ex))
		body := types.SubstituteVar(at.Body, at.Var, types.Existential{ID: ex})
		return synthesizeApp(c2, body, s, f, expr, tm, isPattern)

	// ->App
	case types.Func:
		pred, err := check(c, at.From, s, expr, tm, isPattern)
		if err != nil {
			return nil, c, err
		}
		return at.To, pred, nil

	// ExistentialApp: articulate the existential into an arrow.
	case types.Existential:
		a1 := c.NextExistential()
		a2 := c.NextExistential() + 1
		c2 := c.AddBeforeExistential(at.ID, existentialItem(a2))
		c2 = c2.AddBeforeExistential(at.ID, existentialItem(a1))
		a1t := types.Existential{ID: a1}
		a2t := types.Existential{ID: a2}
		c2 = c2.SetExistential(at.ID, types.Func{From: a1t, To: a2t})
		pred, err := check(c2, a1t, s, expr, tm, isPattern)
		if err != nil {
			return nil, c, err
		}
		return a2t, pred, nil

	case types.Alias:
		return synthesizeApp(c, at.Body, s, f, expr, tm, isPattern)

	case types.Product, types.Union, types.Prim:
		return nil, c, typeErrorAt(s, expr, fmt.Sprintf(
			"cannot apply %s (of type %s) to %s",
			prettyprinter.Sugar(s, f, false),
			types.TvIfy(applied),
			prettyprinter.Sugar(s, expr, false)))

	default:
		return nil, c, typeErrorAt(s, expr, fmt.Sprintf(
			"failed to understand the application of type %s to expression %s",
			applied, prettyprinter.Sugar(s, expr, false)))
	}
}
