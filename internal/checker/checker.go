package checker

import (
	"fmt"

	"github.com/sflang/sfl/internal/ast"
	"github.com/sflang/sfl/internal/diagnostics"
	"github.com/sflang/sfl/internal/inbuilts"
	"github.com/sflang/sfl/internal/types"
)

// Options control the module driver. The canonical mode requires a
// declared type on every top-level definition; AllowInference switches on
// the inference path instead.
type Options struct {
	AllowInference bool
}

// CheckModule typechecks every top-level definition of module in source
// order. Declared definitions are checked against their declaration;
// undeclared ones are rejected (canonical mode) or inferred, generalized
// with a prenex quantifier, and committed back onto the tree and the label
// table.
func CheckModule(s *ast.Store, module ast.NodeID, lt *inbuilts.Table, tm *types.TypeMap, opts Options) *diagnostics.Error {
	exclude := map[string]bool{}
	for _, name := range s.AssigneeNames(module) {
		exclude[name] = true
	}
	c := NewContext(lt, exclude)

	for _, name := range s.AssigneeNames(module) {
		assign, _ := s.AssignTo(module, name)
		body := s.AssignBody(assign)

		declared := s.Get(assign).TypeAssignment
		if declared != nil {
			c = c.Append(assignItem(name, declared))
			next, err := check(c, declared, s, body, tm, false)
			if err != nil {
				return err
			}
			c = next
			lt.Add(name, declared)
			continue
		}

		if !opts.AllowInference {
			n := s.Get(body)
			return diagnostics.NewErrorAt(diagnostics.ErrT002, n.Line, n.Col,
				"cannot find type assignment for: "+name)
		}

		// Self-reference during inference of a definition has no type
		// to offer; a poisoned assumption turns any recursive use into
		// this error.
		poison := typeErrorAt(s, body, fmt.Sprintf(
			"cannot infer type of expression containing recursive call; assign a type to label '%s'", name))
		poison.Code = diagnostics.ErrT003
		c = c.Append(poisonedAssignItem(name, poison))

		t, next, err := inferWithContext(c, s, body, tm)
		if err != nil {
			return err
		}
		t = types.ForallIfy(t)
		c = next.AssignsOnly().RemoveAssignment(name).Append(assignItem(name, t))
		s.SetType(assign, t)
		lt.Add(name, t)
	}
	return nil
}

func inferWithContext(c Context, s *ast.Store, expr ast.NodeID, tm *types.TypeMap) (types.Type, Context, *diagnostics.Error) {
	t, next, err := synthesize(c, s, expr, tm, false)
	if err != nil {
		return nil, c, err
	}
	return next.Substitute(t), next, nil
}

// InferType synthesizes and generalizes the type of a bare expression
// under the inbuilt labels only. Used by tests and diagnostics.
func InferType(s *ast.Store, expr ast.NodeID, tm *types.TypeMap) (types.Type, *diagnostics.Error) {
	c := NewContext(inbuilts.NewTable(), nil)
	t, _, err := inferWithContext(c, s, expr, tm)
	if err != nil {
		return nil, err
	}
	return types.ForallIfy(t), nil
}

// CheckExpr checks a bare expression against an expected type under the
// inbuilt labels only.
func CheckExpr(expected types.Type, s *ast.Store, expr ast.NodeID, tm *types.TypeMap) *diagnostics.Error {
	c := NewContext(inbuilts.NewTable(), nil)
	_, err := check(c, expected, s, expr, tm, false)
	return err
}
