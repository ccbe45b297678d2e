// Package reduce discovers redex/contractum pairs, matches patterns, and
// performs the lockstep rewrites the stepper is built on.
package reduce

import (
	"github.com/sflang/sfl/internal/ast"
	"github.com/sflang/sfl/internal/types"
)

// MatchOutcome is the three-valued result of matching an expression
// against a pattern.
type MatchOutcome int

const (
	// Refuted: the expression can never match this pattern.
	Refuted MatchOutcome = iota
	// Matched: the pattern matches; Bindings maps names to subject nodes.
	Matched
	// NeedsEval: the subject is not evaluated far enough to decide.
	NeedsEval
)

// MatchResult carries the outcome and, on success, the bindings.
type MatchResult struct {
	Outcome  MatchOutcome
	Bindings map[string]ast.NodeID
}

func refute() MatchResult    { return MatchResult{Outcome: Refuted} }
func needsEval() MatchResult { return MatchResult{Outcome: NeedsEval} }
func success(b map[string]ast.NodeID) MatchResult {
	if b == nil {
		b = map[string]ast.NodeID{}
	}
	return MatchResult{Outcome: Matched, Bindings: b}
}

// combine merges two sub-results: NeedsEval wins over Refuted, which wins
// over Matched.
func combine(lhs, rhs MatchResult) MatchResult {
	if lhs.Outcome == NeedsEval || rhs.Outcome == NeedsEval {
		return needsEval()
	}
	if lhs.Outcome == Refuted || rhs.Outcome == Refuted {
		return refute()
	}
	merged := map[string]ast.NodeID{}
	for k, v := range lhs.Bindings {
		merged[k] = v
	}
	for k, v := range rhs.Bindings {
		merged[k] = v
	}
	return success(merged)
}

// PatternMatch matches the expression at expr against the pattern node.
func PatternMatch(s *ast.Store, expr, pattern ast.NodeID) MatchResult {
	en := s.Get(expr)
	pn := s.Get(pattern)

	if pn.Kind == ast.Identifier {
		name := s.Value(pattern)
		switch c := name[0]; {
		case c == '_':
			return success(nil)
		case c >= 'a' && c <= 'z':
			return success(map[string]ast.NodeID{name: expr})
		case c >= 'A' && c <= 'Z':
			switch en.Kind {
			case ast.Identifier:
				if s.IsUppercase(expr) {
					if s.Value(expr) == name {
						return success(nil)
					}
					return refute()
				}
				return needsEval()
			case ast.Application:
				// Refutable only when the head is already a
				// constructor: then the subject can never
				// evaluate to this pattern's constructor.
				if s.IsUppercase(s.AppHead(expr)) {
					return refute()
				}
				return needsEval()
			case ast.Literal, ast.Pair:
				return refute()
			case ast.Abstraction, ast.Match:
				return needsEval()
			default:
				panic("reduce: pattern subject is not an expression")
			}
		default:
			panic("reduce: bad identifier in pattern: " + name)
		}
	}

	switch {
	case en.Kind == ast.Application && pn.Kind == ast.Application:
		lhs := PatternMatch(s, s.Func(expr), s.Func(pattern))
		rhs := PatternMatch(s, s.Arg(expr), s.Arg(pattern))
		return combine(lhs, rhs)
	case pn.Kind == ast.Application:
		return needsEval()
	case en.Kind == ast.Pair && pn.Kind == ast.Pair:
		lhs := PatternMatch(s, s.First(expr), s.First(pattern))
		rhs := PatternMatch(s, s.Second(expr), s.Second(pattern))
		return combine(lhs, rhs)
	case pn.Kind == ast.Pair:
		return needsEval()
	case en.Kind == ast.Literal && pn.Kind == ast.Literal:
		if !types.Equal(s.LitType(expr), s.LitType(pattern)) {
			panic("reduce: literal tags disagree; type checking must have failed")
		}
		if s.Value(expr) == s.Value(pattern) {
			return success(nil)
		}
		return refute()
	default:
		return refute()
	}
}
