package reduce

import (
	"strings"

	"github.com/sflang/sfl/internal/ast"
	"github.com/sflang/sfl/internal/inbuilts"
	"github.com/sflang/sfl/internal/prettyprinter"
)

// NoModule stands in for the module argument when the expression has no
// surrounding module (bare expressions in tests).
const NoModule ast.NodeID = -1

// RCPair binds a redex location in the main store to a freshly built
// contractum in its own small store, plus user-facing descriptions.
type RCPair struct {
	From      ast.NodeID
	To        *ast.Store
	MsgBefore string
	MsgAfter  string
}

func commaIfy(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}

func assignsMap(s *ast.Store, module ast.NodeID) map[string]ast.NodeID {
	if module == NoModule {
		return map[string]ast.NodeID{}
	}
	return s.AssignsMap(module)
}

// checkForValidCall inspects an Application spine for a saturated call:
// an inbuilt with all-literal arguments, a user label applied to as many
// arguments as its body has nested abstractions, or a direct abstraction
// application. It returns the redex/contractum pair if the call is ready.
func checkForValidCall(s *ast.Store, expr ast.NodeID, lt *inbuilts.Table, am map[string]ast.NodeID) *RCPair {
	f := s.Func(expr)
	x := s.Arg(expr)

	// Arguments are collected innermost-spine-first, i.e. the last
	// source argument lands at index 0; srcOrder reverses that.
	var argv []ast.NodeID
	literalsOnly := true

	for {
		argv = append(argv, x)
		if s.Get(x).Kind != ast.Literal {
			literalsOnly = false
		}

		fn := s.Get(f)
		switch fn.Kind {
		case ast.Identifier:
			name := s.Value(f)
			label, ok := lt.Get(name)
			if !ok {
				return nil
			}
			if label.IsInbuilt() {
				if label.ReductionArity != len(argv) || !literalsOnly {
					return nil
				}
				src := srcOrder(argv)
				args := make([]*ast.Node, len(src))
				for i, id := range src {
					args[i] = s.Get(id)
				}
				argsStr := commaIfy(argStrings(s, src))
				return &RCPair{
					From:      expr,
					To:        label.CallInbuilt(fn, args),
					MsgBefore: "Apply inbuilt " + name + " to " + argsStr,
					MsgAfter:  "Applied inbuilt " + name + " to " + argsStr,
				}
			}

			assign, ok := am[name]
			if !ok {
				return nil
			}
			body := s.AssignBody(assign)
			if !callReady(s, body, argv) {
				return nil
			}
			argsStr := commaIfy(argStrings(s, srcOrder(argv)))
			return &RCPair{
				From:      expr,
				To:        s.MultiAbstSubst(body, argv),
				MsgBefore: "Apply function " + name + " to " + argsStr,
				MsgAfter:  "Applied function " + name + " to " + argsStr,
			}

		case ast.Abstraction:
			if fn.WaitForArgs && !literalsOnly {
				return nil
			}
			if !callReady(s, f, argv) {
				return nil
			}
			argsStr := commaIfy(argStrings(s, srcOrder(argv)))
			return &RCPair{
				From:      expr,
				To:        s.MultiAbstSubst(f, argv),
				MsgBefore: "Apply abstraction to " + argsStr,
				MsgAfter:  "Applied abstraction to " + argsStr,
			}

		case ast.Application:
			x = s.Arg(f)
			f = s.Func(f)

		default:
			return nil
		}
	}
}

// callReady checks the abstraction at abst is exactly len(argv) deep and
// that every pair-bound position already has a Pair argument to destructure.
func callReady(s *ast.Store, abst ast.NodeID, argv []ast.NodeID) bool {
	vars := s.NAbstVars(abst, len(argv))
	if len(vars) != len(argv) {
		return false
	}
	src := srcOrder(argv)
	for i := range vars {
		if s.Get(vars[i]).Kind == ast.Pair && s.Get(src[i]).Kind != ast.Pair {
			return false
		}
	}
	return true
}

func srcOrder(argv []ast.NodeID) []ast.NodeID {
	out := make([]ast.NodeID, len(argv))
	for i, id := range argv {
		out[len(argv)-1-i] = id
	}
	return out
}

func argStrings(s *ast.Store, args []ast.NodeID) []string {
	strs := make([]string, len(args))
	for i, id := range args {
		str := prettyprinter.Sugar(s, id, false)
		switch s.Get(id).Kind {
		case ast.Application, ast.Abstraction:
			str = "(" + str + ")"
		}
		strs[i] = str
	}
	return strs
}

// FindAll returns every redex/contractum pair reachable beneath expr.
func FindAll(s *ast.Store, module, expr ast.NodeID, lt *inbuilts.Table) []*RCPair {
	am := assignsMap(s, module)
	return findAll(s, module, expr, lt, am)
}

func findAll(s *ast.Store, module, expr ast.NodeID, lt *inbuilts.Table, am map[string]ast.NodeID) []*RCPair {
	var pairs []*RCPair
	switch s.Get(expr).Kind {
	case ast.Literal, ast.Abstraction:
	case ast.Application:
		if rc := checkForValidCall(s, expr, lt, am); rc != nil {
			pairs = append(pairs, rc)
		}
		pairs = append(pairs, findAll(s, module, s.Func(expr), lt, am)...)
		pairs = append(pairs, findAll(s, module, s.Arg(expr), lt, am)...)
	case ast.Pair:
		pairs = append(pairs, findAll(s, module, s.First(expr), lt, am)...)
		pairs = append(pairs, findAll(s, module, s.Second(expr), lt, am)...)
	case ast.Match, ast.Identifier:
		if rc := FindOne(s, module, expr, lt); rc != nil {
			pairs = append(pairs, rc)
		}
	default:
		panic("reduce: expected expression node")
	}
	return pairs
}

// FindOne returns the leftmost-outermost redex under normal-order search,
// or nil when expr is in normal form.
func FindOne(s *ast.Store, module, expr ast.NodeID, lt *inbuilts.Table) *RCPair {
	am := assignsMap(s, module)
	return findOne(s, module, expr, lt, am)
}

func findOne(s *ast.Store, module, expr ast.NodeID, lt *inbuilts.Table, am map[string]ast.NodeID) *RCPair {
	switch s.Get(expr).Kind {
	case ast.Literal, ast.Abstraction:
		return nil

	case ast.Pair:
		if rc := findOne(s, module, s.First(expr), lt, am); rc != nil {
			return rc
		}
		return findOne(s, module, s.Second(expr), lt, am)

	case ast.Identifier:
		name := s.Value(expr)
		label, ok := lt.Get(name)
		if !ok {
			return nil
		}
		if label.IsInbuilt() {
			// Applied inbuilts are caught by the application case;
			// only zero-arity ones reduce standing alone.
			if label.ReductionArity != 0 {
				return nil
			}
			return &RCPair{
				From:      expr,
				To:        label.CallInbuilt(s.Get(expr), nil),
				MsgBefore: "Substitute label " + name,
				MsgAfter:  "Substituted label " + name,
			}
		}
		assign, ok := am[name]
		if !ok {
			return nil
		}
		return &RCPair{
			From:      expr,
			To:        s.CloneNode(s.AssignBody(assign)),
			MsgBefore: "Substitute label " + name,
			MsgAfter:  "Substituted label " + name,
		}

	case ast.Application:
		if rc := checkForValidCall(s, expr, lt, am); rc != nil {
			return rc
		}
		if rc := findOne(s, module, s.Func(expr), lt, am); rc != nil {
			return rc
		}
		return findOne(s, module, s.Arg(expr), lt, am)

	case ast.Match:
		subject := s.MatchSubject(expr)
		for _, c := range s.MatchCases(expr) {
			result := PatternMatch(s, subject, c.Pattern)
			switch result.Outcome {
			case Matched:
				caseStr := prettyprinter.Sugar(s, c.Pattern, false)
				body := s.CloneNode(c.Body)
				for name, replacement := range result.Bindings {
					appended := body.Append(s, replacement)
					for _, use := range body.FreeUses(body.Root, name) {
						body.RewireReferences(use, appended)
					}
				}
				return &RCPair{
					From:      expr,
					To:        body.CloneNode(body.Root),
					MsgBefore: "Match to pattern " + caseStr,
					MsgAfter:  "Matched to pattern " + caseStr,
				}
			case NeedsEval:
				return findOne(s, module, subject, lt, am)
			case Refuted:
				// Try the next case.
			}
		}
		return findOne(s, module, subject, lt, am)

	default:
		return nil
	}
}
