// Package parser builds the arena tree from SFL source. It checks
// identifier boundness as it goes, collects `name :: T` declarations into
// the label table, and folds `data` and `type` declarations into the type
// map.
package parser

import (
	"fmt"

	"github.com/sflang/sfl/internal/ast"
	"github.com/sflang/sfl/internal/diagnostics"
	"github.com/sflang/sfl/internal/inbuilts"
	"github.com/sflang/sfl/internal/lexer"
	"github.com/sflang/sfl/internal/token"
	"github.com/sflang/sfl/internal/types"
)

// Result is everything parsing produces: the tree (rooted at a Module),
// the label table seeded with inbuilts plus declarations, and the type
// map.
type Result struct {
	Store  *ast.Store
	Labels *inbuilts.Table
	Types  *types.TypeMap
}

type Parser struct {
	queue           []token.Token
	lx              *lexer.Lexer
	typeAssignments map[string]types.Type
	bound           map[string]bool
}

// New builds a parser over src with the inbuilt labels pre-bound.
func New(src string) *Parser {
	p := &Parser{
		lx:              lexer.New(src),
		typeAssignments: map[string]types.Type{},
		bound:           map[string]bool{},
	}
	for _, name := range inbuilts.NewTable().Names() {
		p.bound[name] = true
	}
	return p
}

func (p *Parser) parseError(msg string) *diagnostics.Error {
	return diagnostics.NewErrorAt(diagnostics.ErrP001, p.lx.Line(), p.lx.Column(), msg)
}

func (p *Parser) peek(n int) token.Token {
	for n >= len(p.queue) {
		p.queue = append(p.queue, p.lx.NextToken())
	}
	return p.queue[n]
}

func (p *Parser) advance() {
	if len(p.queue) > 0 {
		p.queue = p.queue[1:]
	}
}

func (p *Parser) consume() token.Token {
	t := p.peek(0)
	p.advance()
	return t
}

func (p *Parser) expect(tt token.TokenType, context string) (token.Token, *diagnostics.Error) {
	t := p.consume()
	if t.Type != tt {
		return t, p.parseError(fmt.Sprintf("expected %q %s, got %s", tt, context, t))
	}
	return t, nil
}

func (p *Parser) bind(name string) {
	p.bound[name] = true
}

func (p *Parser) unbind(name string) {
	delete(p.bound, name)
}

// bindNode binds an abstraction pattern: an identifier or a nested pair
// of identifiers. Rebinding an already bound name is an error.
func (p *Parser) bindNode(s *ast.Store, node ast.NodeID) *diagnostics.Error {
	switch s.Get(node).Kind {
	case ast.Identifier:
		name := s.Value(node)
		if p.bound[name] {
			return p.parseError(fmt.Sprintf(
				"variable %s is already bound, and cannot be rebound for abstraction", name))
		}
		if name != "_" {
			p.bind(name)
		}
		return nil
	case ast.Pair:
		if err := p.bindNode(s, s.First(node)); err != nil {
			return err
		}
		return p.bindNode(s, s.Second(node))
	default:
		panic("parser: cannot bind non-pattern node")
	}
}

func (p *Parser) unbindNode(s *ast.Store, node ast.NodeID) {
	switch s.Get(node).Kind {
	case ast.Identifier:
		if name := s.Value(node); name != "_" {
			p.unbind(name)
		}
	case ast.Pair:
		p.unbindNode(s, s.First(node))
		p.unbindNode(s, s.Second(node))
	default:
		panic("parser: cannot unbind non-pattern node")
	}
}

func (p *Parser) initParser(withPrelude bool) (*inbuilts.Table, *types.TypeMap, *ast.Store, *diagnostics.Error) {
	if withPrelude {
		pp := New(Prelude)
		res, err := pp.parseModule(false)
		if err != nil {
			// The prelude is compiled into the binary; failing to
			// parse it is a build defect, not a user error.
			panic("parser: failed to parse prelude: " + err.Error())
		}
		for name := range pp.bound {
			p.bind(name)
		}
		return res.Labels, res.Types, res.Store, nil
	}
	s := ast.NewStore()
	s.Root = s.AddModule(nil, p.lx.Line(), p.lx.Column())
	return inbuilts.NewTable(), types.NewTypeMap(), s, nil
}

func (p *Parser) parseAssignment(s *ast.Store, tm *types.TypeMap) (ast.NodeID, *diagnostics.Error) {
	assTk := p.peek(0)
	if assTk.Type != token.IDENT {
		panic("parser: parseAssignment must start at an identifier")
	}
	name := assTk.Lexeme
	if p.bound[name] {
		return 0, p.parseError("variable already assigned: " + name)
	}
	p.bind(name)
	p.advance()

	var expr ast.NodeID
	switch t := p.peek(0); t.Type {
	case token.ASSIGN:
		p.advance()
		e, err := p.parseExpression(s, tm)
		if err != nil {
			return 0, err
		}
		expr = e
	case token.IDENT, token.LPAREN:
		e, absts, err := p.parseAbstraction(s, true, tm)
		if err != nil {
			return 0, err
		}
		for _, a := range absts {
			s.SetFancyAbst(a)
		}
		expr = e
	default:
		return 0, p.parseError("unexpected token in assignment: " + t.Lexeme)
	}

	id := s.AddID(assTk, assTk.Line, assTk.Column)
	declared := p.typeAssignments[name]
	return s.AddAssignment(id, expr, assTk.Line, assTk.Column, declared), nil
}

// ParseModule parses a whole module, with the prelude loaded first.
func (p *Parser) ParseModule() (*Result, *diagnostics.Error) {
	return p.parseModule(true)
}

// ParseModuleBare parses a module without the prelude; the engine uses it
// when the prelude is switched off, and the prelude bootstrap uses it too.
func (p *Parser) ParseModuleBare() (*Result, *diagnostics.Error) {
	return p.parseModule(false)
}

func (p *Parser) parseModule(withPrelude bool) (*Result, *diagnostics.Error) {
	lt, tm, s, err := p.initParser(withPrelude)
	if err != nil {
		return nil, err
	}
	module := s.Root
	mainFound := false

	for {
		t := p.peek(0)
		switch t.Type {
		case token.IDENT:
			switch next := p.peek(1); next.Type {
			case token.ASSIGN, token.IDENT, token.LPAREN:
				assign, err := p.parseAssignment(s, tm)
				if err != nil {
					return nil, err
				}
				name := s.Assignee(assign)
				if declared := s.Get(assign).TypeAssignment; declared != nil {
					lt.Add(name, declared)
				}
				if name == "main" {
					mainFound = true
				}
				s.AddToModule(module, assign)
			case token.DOUBLE_COLON:
				if err := p.parseTypeAssignment(tm); err != nil {
					return nil, err
				}
			default:
				return nil, p.parseError(fmt.Sprintf(
					"unexpected token %s; expected assignment operator =", next))
			}

		case token.KW_TYPE:
			name, decl, err := p.parseTypeAliasDecl(tm)
			if err != nil {
				return nil, err
			}
			if _, exists := tm.Get(name); exists {
				return nil, p.parseError("type " + name + " declared more than once")
			}
			tm.Set(name, types.Alias{Name: name, Body: decl})

		case token.KW_DATA:
			constructors, err := p.parseDataDecl(tm)
			if err != nil {
				return nil, err
			}
			for cname, ctype := range constructors {
				lt.Add(cname, ctype)
				p.bind(cname)
			}

		case token.NEWLINE:
			p.advance()

		case token.EOF:
			if withPrelude && !mainFound {
				return nil, p.parseError(
					"assignment to 'main' is missing; this is the program's entry point")
			}
			return &Result{Store: s, Labels: lt, Types: tm}, nil

		default:
			return nil, p.parseError("unexpected token: " + t.String())
		}
	}
}

// ParseExpressionOnly parses a single top-level expression; tests use it.
func (p *Parser) ParseExpressionOnly() (*Result, *diagnostics.Error) {
	lt, tm, s, err := p.initParser(false)
	if err != nil {
		return nil, err
	}
	e, perr := p.parseExpression(s, tm)
	if perr != nil {
		return nil, perr
	}
	s.Root = e
	return &Result{Store: s, Labels: lt, Types: tm}, nil
}
