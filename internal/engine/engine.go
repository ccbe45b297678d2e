// Package engine is the boundary the host (CLI, tests, embedders) drives:
// parse and typecheck a module, enumerate redex/contractum pairs, pick
// one, and print the evolving entry expression.
package engine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/sflang/sfl/internal/ast"
	"github.com/sflang/sfl/internal/checker"
	"github.com/sflang/sfl/internal/diagnostics"
	"github.com/sflang/sfl/internal/inbuilts"
	"github.com/sflang/sfl/internal/parser"
	"github.com/sflang/sfl/internal/pipeline"
	"github.com/sflang/sfl/internal/prettyprinter"
	"github.com/sflang/sfl/internal/reduce"
	"github.com/sflang/sfl/internal/types"
)

// Options configure a handle.
type Options struct {
	// Prelude loads the standard prelude ahead of the module.
	Prelude bool
	// AllowInference lets undeclared top-level definitions be inferred
	// instead of rejected.
	AllowInference bool
	// FilePath tags diagnostics.
	FilePath string
}

// Handle is an opaque evaluation session over one parsed, typechecked
// module.
type Handle struct {
	// ID tags the session (trace recording, logs).
	ID string

	store  *ast.Store
	labels *inbuilts.Table
	types  *types.TypeMap

	// The redexes of the last enumeration; selectors index filtered.
	all      []*reduce.RCPair
	filtered []*reduce.RCPair
}

// RedexView is one displayable redex→contractum choice. Selector feeds
// Pick; identical shapes have been collapsed into a single view.
type RedexView struct {
	From        string
	To          string
	Description string
	Selector    int
}

// ParseAndCheck runs the parse and typecheck stages and returns a live
// handle, or the first diagnostic.
func ParseAndCheck(src string, opts Options) (*Handle, error) {
	ctx := &pipeline.PipelineContext{
		SourceCode:     src,
		FilePath:       opts.FilePath,
		Prelude:        opts.Prelude,
		AllowInference: opts.AllowInference,
	}
	ctx = pipeline.New(&parser.Processor{}, &checker.Processor{}).Run(ctx)
	if len(ctx.Errors) > 0 {
		return nil, ctx.Errors[0]
	}
	if _, ok := ctx.Store.Main(ctx.Store.Root); !ok {
		return nil, errors.New("module has no main")
	}
	return &Handle{
		ID:     uuid.NewString(),
		store:  ctx.Store,
		labels: ctx.Labels,
		types:  ctx.Types,
	}, nil
}

// mainExpr is the expression currently assigned to main.
func (h *Handle) mainExpr() ast.NodeID {
	main, ok := h.store.Main(h.store.Root)
	if !ok {
		panic("engine: module lost its main")
	}
	return h.store.AssignBody(main)
}

// Redexes re-enumerates the redexes of the main expression and returns
// the deduplicated views.
func (h *Handle) Redexes() (views []RedexView, err error) {
	defer recoverReduction(&err)
	h.all = reduce.FindAll(h.store, h.store.Root, h.mainExpr(), h.labels)
	h.filtered = reduce.FilterIdentical(h.store, h.all)
	views = make([]RedexView, len(h.filtered))
	for i, rc := range h.filtered {
		views[i] = RedexView{
			From:        prettyprinter.Sugar(h.store, rc.From, false),
			To:          prettyprinter.Sugar(rc.To, rc.To.Root, false),
			Description: rc.MsgBefore,
			Selector:    i,
		}
	}
	return views, nil
}

// Laziest returns the selector of the normal-order outermost redex of the
// last enumeration, or false when the expression is in normal form.
func (h *Handle) Laziest() (int, bool) {
	rc := reduce.Laziest(h.store, h.mainExpr(), h.all)
	if rc == nil {
		return 0, false
	}
	for i, f := range h.filtered {
		if h.store.ExprEq(f.From, rc.From) {
			return i, true
		}
	}
	return 0, false
}

// Pick applies the selected redex and every structurally identical
// sibling, updating the store in place. Selectors are invalidated; call
// Redexes again.
func (h *Handle) Pick(selector int) (err error) {
	defer recoverReduction(&err)
	if selector < 0 || selector >= len(h.filtered) {
		return fmt.Errorf("engine: selector %d out of range", selector)
	}
	chosen := h.filtered[selector]
	reduce.ApplyWithIdentical(h.store, h.mainExpr(), chosen, h.all)
	h.all = nil
	h.filtered = nil
	return nil
}

// MainString pretty-prints the current main expression in sugared form.
func (h *Handle) MainString() string {
	return prettyprinter.Sugar(h.store, h.mainExpr(), false)
}

// ModuleString pretty-prints the whole module.
func (h *Handle) ModuleString(showTypes bool) string {
	return prettyprinter.Sugar(h.store, h.store.Root, showTypes)
}

// DesugaredString prints the module with sugar expanded and types shown.
func (h *Handle) DesugaredString() string {
	return prettyprinter.Desugar(h.store, h.store.Root)
}

// TypeAssigns lists `name :: T` for every definition.
func (h *Handle) TypeAssigns() string {
	return prettyprinter.TypeAssigns(h.store, h.store.Root)
}

// Step reduces the laziest redex once; it reports whether a step was
// taken.
func (h *Handle) Step() (bool, error) {
	if _, err := h.Redexes(); err != nil {
		return false, err
	}
	sel, ok := h.Laziest()
	if !ok {
		return false, nil
	}
	if err := h.Pick(sel); err != nil {
		return false, err
	}
	return true, nil
}

// ReduceAll steps laziest-first until normal form or the step limit
// (0 = unlimited). It returns the number of steps taken.
func (h *Handle) ReduceAll(limit int) (int, error) {
	steps := 0
	for limit <= 0 || steps < limit {
		stepped, err := h.Step()
		if err != nil {
			return steps, err
		}
		if !stepped {
			return steps, nil
		}
		steps++
	}
	return steps, fmt.Errorf("engine: stopped after %d steps without reaching normal form", steps)
}

// recoverReduction converts the ReductionError a reducer panics with
// (division by zero) into an R001 diagnostic at the engine boundary. Any
// other panic, including a reducer's precondition failure, is re-raised.
func recoverReduction(err *error) {
	if r := recover(); r != nil {
		re, ok := r.(*inbuilts.ReductionError)
		if !ok {
			panic(r)
		}
		*err = diagnostics.NewErrorAt(diagnostics.ErrR001, re.Line, re.Col, re.Msg)
	}
}
