package checker

import (
	"fmt"

	"github.com/sflang/sfl/internal/ast"
	"github.com/sflang/sfl/internal/diagnostics"
	"github.com/sflang/sfl/internal/types"
)

// check derives expr <= expected under c. Pattern mode is threaded through
// to synthesis for match-case patterns.
func check(c Context, expected types.Type, s *ast.Store, expr ast.NodeID, tm *types.TypeMap, isPattern bool) (Context, *diagnostics.Error) {
	node := s.Get(expr)

	// Unit always checks.
	if _, ok := expected.(types.Unit); ok {
		return c, nil
	}

	// Aliases unfold before any structural rule.
	if al, ok := expected.(types.Alias); ok {
		return check(c, al.Body, s, expr, tm, isPattern)
	}

	// Forall introduction.
	if fa, ok := expected.(types.Forall); ok {
		c2 := c.Append(typeVarItem(fa.Var))
		pred, err := check(c2, fa.Body, s, expr, tm, isPattern)
		if err != nil {
			return c, err
		}
		return pred.BeforeTypeVar(fa.Var), nil
	}

	// Arrow introduction.
	if fn, ok := expected.(types.Func); ok && node.Kind == ast.Abstraction {
		c2, before, perr := c.recurseAddToContext(fn.From, s, s.AbstVar(expr))
		if perr != nil {
			return c, perr
		}
		pred, err := check(c2, fn.To, s, s.AbstBody(expr), tm, isPattern)
		if err != nil {
			return c, err
		}
		return pred.BeforeAssignment(before), nil
	}

	// Product introduction.
	if pr, ok := expected.(types.Product); ok && node.Kind == ast.Pair {
		c1, err := check(c, pr.First, s, s.First(expr), tm, isPattern)
		if err != nil {
			return c, err
		}
		return check(c1, pr.Second, s, s.Second(expr), tm, isPattern)
	}

	// Sub: synthesize then subtype.
	synthT, c1, err := synthesize(c, s, expr, tm, isPattern)
	if err != nil {
		return c, err
	}
	a := c1.Substitute(synthT)
	b := c1.Substitute(expected)
	c2, serr := subtype(c1, a, b, tm)
	if serr != nil {
		return c, typeErrorAt(s, expr, fmt.Sprintf(
			"cannot figure out how %s could be subtype of %s: %s",
			types.TvIfy(a), types.TvIfy(b), serr))
	}
	return c2, nil
}
