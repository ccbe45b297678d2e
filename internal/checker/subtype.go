package checker

import (
	"fmt"

	"github.com/sflang/sfl/internal/types"
)

// subtype derives a <: b, threading the ordered context. Aliases unfold
// before any other rule fires; unions are nominal and invariant.
func subtype(c Context, a, b types.Type, tm *types.TypeMap) (Context, error) {
	if al, ok := a.(types.Alias); ok {
		return subtype(c, al.Body, b, tm)
	}
	if al, ok := b.(types.Alias); ok {
		return subtype(c, a, al.Body, tm)
	}

	// <:InstantiateL
	if ea, ok := a.(types.Existential); ok {
		if eb, ok := b.(types.Existential); ok && ea.ID == eb.ID {
			return c, nil
		}
		if types.ContainsExistential(b, ea.ID) {
			return c, fmt.Errorf("cannot instantiate %s to the type %s: the type contains itself",
				types.TvIfy(c.Substitute(b)), types.TvIfy(c.Substitute(a)))
		}
		return instantiateL(c, ea.ID, b, tm)
	}

	// <:InstantiateR
	if eb, ok := b.(types.Existential); ok {
		if types.ContainsExistential(a, eb.ID) {
			return c, fmt.Errorf("cannot instantiate %s to the type %s: the type contains itself",
				types.TvIfy(c.Substitute(b)), types.TvIfy(c.Substitute(a)))
		}
		return instantiateR(c, eb.ID, a, tm)
	}

	switch at := a.(type) {
	case types.Var:
		if bt, ok := b.(types.Var); ok {
			if at.Name == bt.Name {
				return c, nil
			}
			return c, fmt.Errorf("%s is not a subtype of %s", at.Name, bt.Name)
		}
	case types.Prim:
		if bt, ok := b.(types.Prim); ok {
			if at.P == bt.P {
				return c, nil
			}
			return c, fmt.Errorf("%s is not a subtype of %s", at.P, bt.P)
		}
	case types.Unit:
		if _, ok := b.(types.Unit); ok {
			return c, nil
		}
	}

	// <:ForallL: instantiate the left universal with a fresh marked
	// existential; the marker is dropped afterwards.
	if fa, ok := a.(types.Forall); ok {
		ex := c.NextExistential()
		c2 := c.Append(markerItem(ex)).Append(existentialItem(ex))
		body := types.SubstituteVar(fa.Body, fa.Var, types.Existential{ID: ex})
		pred, err := subtype(c2, body, b, tm)
		if err != nil {
			return c, err
		}
		return pred.BeforeMarker(ex), nil
	}

	// <:ForallR
	if fb, ok := b.(types.Forall); ok {
		c2 := c.Append(typeVarItem(fb.Var))
		pred, err := subtype(c2, a, fb.Body, tm)
		if err != nil {
			return c, err
		}
		return pred.BeforeTypeVar(fb.Var), nil
	}

	// <:->
	if af, ok := a.(types.Func); ok {
		if bf, ok := b.(types.Func); ok {
			pred1, err := subtype(c, bf.From, af.From, tm)
			if err != nil {
				return c, err
			}
			a2 := pred1.Substitute(af.To)
			b2 := pred1.Substitute(bf.To)
			return subtype(pred1, a2, b2, tm)
		}
	}

	// Products are covariant pointwise; a product never subtypes a
	// non-product.
	ap, aIsProduct := a.(types.Product)
	bp, bIsProduct := b.(types.Product)
	if aIsProduct || bIsProduct {
		if !aIsProduct || !bIsProduct {
			return c, fmt.Errorf("type %s is not a subtype of product %s",
				types.TvIfy(a), types.TvIfy(b))
		}
		pred, err := subtype(c, ap.First, bp.First, tm)
		if err != nil {
			return c, err
		}
		return subtype(pred, ap.Second, bp.Second, tm)
	}

	if au, ok := a.(types.Union); ok {
		if bu, ok := b.(types.Union); ok {
			if au.Name != bu.Name || len(au.Args) != len(bu.Args) {
				return c, fmt.Errorf("type %s is not a subtype of union %s",
					types.TvIfy(a), types.TvIfy(b))
			}
			var err error
			for i := range au.Args {
				c, err = subtype(c, au.Args[i], bu.Args[i], tm)
				if err != nil {
					return c, err
				}
			}
			return c, nil
		}
	}

	return c, fmt.Errorf("subtype failure: %s </: %s", types.TvIfy(a), types.TvIfy(b))
}

// instantiateL solves ex such that Existential(ex) <: b.
func instantiateL(c Context, ex int, b types.Type, tm *types.TypeMap) (Context, error) {
	switch bt := b.(type) {
	// InstLReach
	case types.Existential:
		return c.SetExistential(bt.ID, types.Existential{ID: ex}), nil

	// InstLArr
	case types.Func:
		a1 := c.NextExistential()
		a2 := c.NextExistential() + 1
		c2 := c.AddBeforeExistential(ex, existentialItem(a1))
		c2 = c2.AddBeforeExistential(ex, existentialItem(a2))
		c2 = c2.SetExistential(ex, types.Func{From: types.Existential{ID: a1}, To: types.Existential{ID: a2}})
		pred1, err := instantiateR(c2, a1, bt.From, tm)
		if err != nil {
			return c, err
		}
		toSubst := pred1.Substitute(bt.To)
		return instantiateL(pred1, a2, toSubst, tm)

	// InstLAllR
	case types.Forall:
		c2 := c.Append(typeVarItem(bt.Var))
		pred, err := instantiateL(c2, ex, bt.Body, tm)
		if err != nil {
			return c, err
		}
		return pred.BeforeTypeVar(bt.Var), nil

	default:
		if !types.IsMonotype(b) {
			return c, fmt.Errorf("failed substitution: %s is not a monotype", b)
		}
		if sol, solved, _ := c.Existential(ex); solved {
			if _, err := subtype(c, sol, b, tm); err != nil {
				return c, err
			}
		}
		// InstLSolve
		return c.SetExistential(ex, b), nil
	}
}

// instantiateR solves ex such that a <: Existential(ex).
func instantiateR(c Context, ex int, a types.Type, tm *types.TypeMap) (Context, error) {
	switch at := a.(type) {
	// InstRReach
	case types.Existential:
		return c.SetExistential(at.ID, types.Existential{ID: ex}), nil

	// InstRArr
	case types.Func:
		a1 := c.NextExistential()
		a2 := c.NextExistential() + 1
		c2 := c.AddBeforeExistential(ex, existentialItem(a2))
		c2 = c2.AddBeforeExistential(ex, existentialItem(a1))
		c2 = c2.SetExistential(ex, types.Func{From: types.Existential{ID: a1}, To: types.Existential{ID: a2}})
		pred1, err := instantiateL(c2, a1, at.From, tm)
		if err != nil {
			return c, err
		}
		toSubst := pred1.Substitute(at.To)
		return instantiateR(pred1, a2, toSubst, tm)

	// InstRAllL
	case types.Forall:
		next := c.NextExistential()
		c2 := c.Append(markerItem(next)).Append(existentialItem(next))
		body := types.SubstituteVar(at.Body, at.Var, types.Existential{ID: next})
		pred, err := instantiateR(c2, ex, body, tm)
		if err != nil {
			return c, err
		}
		return pred.BeforeMarker(next), nil

	default:
		if !types.IsMonotype(a) {
			return c, fmt.Errorf("failed substitution: %s is not a monotype", a)
		}
		if sol, solved, _ := c.Existential(ex); solved {
			if _, err := subtype(c, sol, a, tm); err != nil {
				return c, err
			}
		}
		// InstRSolve
		return c.SetExistential(ex, a), nil
	}
}
