package ast

import (
	"github.com/sflang/sfl/internal/token"
	"github.com/sflang/sfl/internal/types"
)

func (s *Store) add(n Node) NodeID {
	s.nodes = append(s.nodes, n)
	return NodeID(len(s.nodes) - 1)
}

// SingleNode builds a fresh store holding only a copy of n (without
// children) as its root.
func SingleNode(n Node) *Store {
	n.Children = nil
	s := NewStore()
	s.Root = s.add(n)
	return s
}

func (s *Store) AddID(tk token.Token, line, col int) NodeID {
	return s.add(Node{Kind: Identifier, Tok: tk, Line: line, Col: col})
}

func (s *Store) AddLit(tk token.Token, line, col int) NodeID {
	return s.add(Node{Kind: Literal, Tok: tk, Line: line, Col: col})
}

func (s *Store) AddApp(f, x NodeID, line, col int, dollar bool) NodeID {
	return s.add(Node{Kind: Application, Children: []NodeID{f, x}, Line: line, Col: col, DollarApp: dollar})
}

func (s *Store) AddPair(a, b NodeID, line, col int) NodeID {
	return s.add(Node{Kind: Pair, Children: []NodeID{a, b}, Line: line, Col: col})
}

func (s *Store) AddAbstraction(v, body NodeID, line, col int) NodeID {
	return s.add(Node{Kind: Abstraction, Children: []NodeID{v, body}, Line: line, Col: col})
}

func (s *Store) AddAssignment(id, body NodeID, line, col int, t types.Type) NodeID {
	return s.add(Node{Kind: Assignment, Children: []NodeID{id, body}, Line: line, Col: col, TypeAssignment: t})
}

func (s *Store) AddMatch(children []NodeID, line, col int) NodeID {
	return s.add(Node{Kind: Match, Children: children, Line: line, Col: col})
}

func (s *Store) AddModule(assigns []NodeID, line, col int) NodeID {
	return s.add(Node{Kind: Module, Children: assigns, Line: line, Col: col})
}

func (s *Store) AddToModule(module, assign NodeID) {
	s.assertKind(module, Module)
	s.Get(module).Children = append(s.Get(module).Children, assign)
}

// SetType assigns a declared type to a node.
func (s *Store) SetType(id NodeID, t types.Type) {
	s.Get(id).TypeAssignment = t
}

// SetWaitForArgs marks an abstraction as firing only on literal arguments.
func (s *Store) SetWaitForArgs(id NodeID) {
	s.Get(id).WaitForArgs = true
}

// SetFancyAbst marks an abstraction as coming from definition sugar.
func (s *Store) SetFancyAbst(id NodeID) {
	s.Get(id).FancyAbst = true
}
