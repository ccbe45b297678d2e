package ast

import (
	"fmt"

	"github.com/sflang/sfl/internal/token"
	"github.com/sflang/sfl/internal/types"
)

// Kind enumerates the expression node kinds.
type Kind int

const (
	Identifier Kind = iota
	Literal
	Pair
	Application
	Assignment
	Abstraction
	Module
	Match
)

func (k Kind) String() string {
	switch k {
	case Identifier:
		return "Identifier"
	case Literal:
		return "Literal"
	case Pair:
		return "Pair"
	case Application:
		return "Application"
	case Assignment:
		return "Assignment"
	case Abstraction:
		return "Abstraction"
	case Module:
		return "Module"
	case Match:
		return "Match"
	default:
		return "Unknown"
	}
}

// NodeID is a stable index into a Store's arena.
type NodeID int

// Node is one expression node. Children reference other nodes in the same
// Store; the same id may be referenced from several parents (structural
// sharing). Line/Col are informational only and do not participate in
// structural equality, nor do the display flags.
type Node struct {
	Kind     Kind
	Tok      token.Token
	Children []NodeID

	Line, Col int

	// TypeAssignment is the declared type of an Assignment or the
	// annotated type of a match subject / abstraction variable.
	TypeAssignment types.Type

	// WaitForArgs inhibits reduction of an abstraction until every
	// collected argument is a literal. Honored by the redex finder;
	// nothing in this codebase currently produces it.
	WaitForArgs bool

	// FancyAbst records that the abstraction came from sugared
	// definition syntax (f x y = e). Display only.
	FancyAbst bool

	// DollarApp records that the application used f $ x. Display only.
	DollarApp bool
}

// Store is an arena of nodes. Nodes are never freed; substitution makes
// old ids unreachable but leaves them allocated.
type Store struct {
	nodes []Node
	Root  NodeID
}

func NewStore() *Store {
	return &Store{}
}

// Get returns the node for id. The pointer stays valid until the next
// allocation; callers that hold it across Add calls must re-fetch.
func (s *Store) Get(id NodeID) *Node {
	return &s.nodes[id]
}

// Len is the number of allocated nodes.
func (s *Store) Len() int { return len(s.nodes) }

// Value returns the lexeme of an Identifier or Literal node.
func (s *Store) Value(id NodeID) string {
	n := s.Get(id)
	if n.Kind != Identifier && n.Kind != Literal {
		panic(fmt.Sprintf("ast: Value called on %s node", n.Kind))
	}
	return n.Tok.Lexeme
}

// IsUppercase reports whether id is an Identifier beginning with an
// uppercase letter, i.e. a data constructor reference.
func (s *Store) IsUppercase(id NodeID) bool {
	n := s.Get(id)
	if n.Kind != Identifier {
		return false
	}
	v := n.Tok.Lexeme
	return len(v) > 0 && v[0] >= 'A' && v[0] <= 'Z'
}

// LitType returns the primitive type of a Literal node from its token tag.
func (s *Store) LitType(id NodeID) types.Type {
	n := s.Get(id)
	if n.Kind != Literal {
		panic("ast: LitType called on non-literal node")
	}
	switch n.Tok.Type {
	case token.INT_LIT:
		return types.Int()
	case token.FLOAT_LIT:
		return types.Float()
	case token.BOOL_LIT:
		return types.Bool()
	case token.CHAR_LIT:
		return types.Char()
	default:
		panic("ast: literal node with bad token " + string(n.Tok.Type))
	}
}

func (s *Store) assertKind(id NodeID, k Kind) {
	if got := s.Get(id).Kind; got != k {
		panic(fmt.Sprintf("ast: expected %s node, got %s", k, got))
	}
}

// First returns the left child of a Pair.
func (s *Store) First(p NodeID) NodeID {
	s.assertKind(p, Pair)
	return s.Get(p).Children[0]
}

// Second returns the right child of a Pair.
func (s *Store) Second(p NodeID) NodeID {
	s.assertKind(p, Pair)
	return s.Get(p).Children[1]
}

// AbstVar returns the bound pattern of an Abstraction.
func (s *Store) AbstVar(abst NodeID) NodeID {
	s.assertKind(abst, Abstraction)
	return s.Get(abst).Children[0]
}

// AbstBody returns the body of an Abstraction.
func (s *Store) AbstBody(abst NodeID) NodeID {
	s.assertKind(abst, Abstraction)
	return s.Get(abst).Children[1]
}

// Func returns the function child of an Application.
func (s *Store) Func(app NodeID) NodeID {
	s.assertKind(app, Application)
	return s.Get(app).Children[0]
}

// Arg returns the argument child of an Application.
func (s *Store) Arg(app NodeID) NodeID {
	s.assertKind(app, Application)
	return s.Get(app).Children[1]
}

// AppHead walks the function spine of an application to its head.
func (s *Store) AppHead(app NodeID) NodeID {
	n := app
	for s.Get(n).Kind == Application {
		n = s.Func(n)
	}
	return n
}

// AssignBody returns the bound expression of an Assignment.
func (s *Store) AssignBody(assign NodeID) NodeID {
	s.assertKind(assign, Assignment)
	return s.Get(assign).Children[1]
}

// Assignee returns the name an Assignment binds.
func (s *Store) Assignee(assign NodeID) string {
	s.assertKind(assign, Assignment)
	return s.Value(s.Get(assign).Children[0])
}

// AssigneeNames lists the names bound by a Module, in source order.
func (s *Store) AssigneeNames(module NodeID) []string {
	s.assertKind(module, Module)
	kids := s.Get(module).Children
	names := make([]string, 0, len(kids))
	for _, a := range kids {
		names = append(names, s.Assignee(a))
	}
	return names
}

// AssignTo finds the Assignment binding name within module, if any.
func (s *Store) AssignTo(module NodeID, name string) (NodeID, bool) {
	s.assertKind(module, Module)
	for _, a := range s.Get(module).Children {
		if s.Assignee(a) == name {
			return a, true
		}
	}
	return 0, false
}

// Main finds the module's entry assignment.
func (s *Store) Main(module NodeID) (NodeID, bool) {
	return s.AssignTo(module, "main")
}

// AssignsMap maps every assignee name of module to its Assignment node.
func (s *Store) AssignsMap(module NodeID) map[string]NodeID {
	s.assertKind(module, Module)
	m := make(map[string]NodeID)
	for _, a := range s.Get(module).Children {
		m[s.Assignee(a)] = a
	}
	return m
}

// MatchSubject returns the scrutinee of a Match node.
func (s *Store) MatchSubject(match NodeID) NodeID {
	s.assertKind(match, Match)
	kids := s.Get(match).Children
	if len(kids) < 1 {
		panic("ast: match node without subject")
	}
	return kids[0]
}

// MatchCase is one (pattern, body) case of a Match node.
type MatchCase struct {
	Pattern NodeID
	Body    NodeID
}

// MatchCases returns the cases of a Match node in source order.
func (s *Store) MatchCases(match NodeID) []MatchCase {
	s.assertKind(match, Match)
	kids := s.Get(match).Children[1:]
	if len(kids)%2 != 0 {
		panic("ast: match cases must come in pairs")
	}
	cases := make([]MatchCase, 0, len(kids)/2)
	for i := 0; i < len(kids); i += 2 {
		cases = append(cases, MatchCase{Pattern: kids[i], Body: kids[i+1]})
	}
	return cases
}

// ExprEq is structural equality on two nodes of this store: kinds must
// agree, Identifier/Literal compare lexemes, Application, Abstraction, Pair
// and Match compare children elementwise. Any other kind, including
// Assignment and Module, never compares equal. Positions and display flags
// are ignored.
func (s *Store) ExprEq(a, b NodeID) bool {
	na, nb := s.Get(a), s.Get(b)
	switch {
	case na.Kind == Identifier && nb.Kind == Identifier,
		na.Kind == Literal && nb.Kind == Literal:
		return s.Value(a) == s.Value(b)
	case na.Kind == Application && nb.Kind == Application:
		return s.ExprEq(s.Func(a), s.Func(b)) && s.ExprEq(s.Arg(a), s.Arg(b))
	case na.Kind == Abstraction && nb.Kind == Abstraction:
		return s.ExprEq(s.AbstVar(a), s.AbstVar(b)) && s.ExprEq(s.AbstBody(a), s.AbstBody(b))
	case na.Kind == Pair && nb.Kind == Pair:
		return s.ExprEq(s.First(a), s.First(b)) && s.ExprEq(s.Second(a), s.Second(b))
	case na.Kind == Match && nb.Kind == Match:
		if len(na.Children) != len(nb.Children) {
			return false
		}
		for i := range na.Children {
			if !s.ExprEq(na.Children[i], nb.Children[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
