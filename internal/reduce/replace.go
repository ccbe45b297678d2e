package reduce

import (
	"github.com/sflang/sfl/internal/ast"
	"github.com/sflang/sfl/internal/prettyprinter"
)

// rcReplace rewires every occurrence of old (by id or by shape) within the
// given subtree to new. Abstraction bodies are never descended into: an
// identical-looking redex under a binder is a different term once its
// variables are captured.
func rcReplace(s *ast.Store, within, old, new ast.NodeID) {
	if within == old || s.ExprEq(within, old) {
		s.RewireReferences(within, new)
		return
	}
	switch s.Get(within).Kind {
	case ast.Application, ast.Pair:
		kids := s.Get(within).Children
		first, second := kids[0], kids[1]
		rcReplace(s, first, old, new)
		rcReplace(s, second, old, new)
	case ast.Match:
		subject := s.MatchSubject(within)
		cases := s.MatchCases(within)
		rcReplace(s, subject, old, new)
		for _, c := range cases {
			rcReplace(s, c.Body, old, new)
		}
	case ast.Abstraction, ast.Literal, ast.Identifier:
	default:
		panic("reduce: non-expression node in replacement sweep")
	}
}

// Apply grafts rc's contractum into the store and rewrites the redex at
// rc.From (and any structurally equal subtree of within) to it. It
// returns the id of the grafted contractum.
func Apply(s *ast.Store, within ast.NodeID, rc *RCPair) ast.NodeID {
	new := s.Append(rc.To, rc.To.Root)
	rcReplace(s, within, rc.From, new)
	return new
}

// ApplyWithIdentical performs the lockstep rewrite: the chosen redex and
// every discovered redex whose from-node is structurally equal to it are
// each replaced by their own contractum.
func ApplyWithIdentical(s *ast.Store, within ast.NodeID, chosen *RCPair, all []*RCPair) {
	for _, rc := range all {
		if s.ExprEq(chosen.From, rc.From) {
			Apply(s, within, rc)
		}
	}
}

// FilterIdentical de-duplicates redexes by their sugared printed form,
// keeping the first of each shape. The survivors are what the host shows;
// picking one still rewrites the whole shape class.
func FilterIdentical(s *ast.Store, rcs []*RCPair) []*RCPair {
	seen := map[string]bool{}
	var out []*RCPair
	for _, rc := range rcs {
		key := prettyprinter.Sugar(s, rc.From, false)
		if !seen[key] {
			out = append(out, rc)
			seen[key] = true
		}
	}
	return out
}

// Laziest returns the first redex of rcs encountered in a pre-order walk
// of expr that descends only into Applications, Pairs and the subject of a
// Match (never into Abstraction bodies or match cases): the normal-order
// outermost-leftmost choice. It returns nil when rcs is empty or none is
// reachable that way.
func Laziest(s *ast.Store, expr ast.NodeID, rcs []*RCPair) *RCPair {
	if len(rcs) == 0 {
		return nil
	}
	byNode := make(map[ast.NodeID]*RCPair, len(rcs))
	for _, rc := range rcs {
		if _, ok := byNode[rc.From]; !ok {
			byNode[rc.From] = rc
		}
	}
	return laziest(s, expr, byNode)
}

func laziest(s *ast.Store, expr ast.NodeID, byNode map[ast.NodeID]*RCPair) *RCPair {
	if rc, ok := byNode[expr]; ok {
		return rc
	}
	switch s.Get(expr).Kind {
	case ast.Application, ast.Pair:
		kids := s.Get(expr).Children
		if rc := laziest(s, kids[0], byNode); rc != nil {
			return rc
		}
		return laziest(s, kids[1], byNode)
	case ast.Match:
		return laziest(s, s.MatchSubject(expr), byNode)
	default:
		return nil
	}
}
