package parser

import (
	"github.com/sflang/sfl/internal/ast"
	"github.com/sflang/sfl/internal/diagnostics"
	"github.com/sflang/sfl/internal/token"
	"github.com/sflang/sfl/internal/types"
)

// parsePattern parses a match-case pattern: constructor applications over
// sub-patterns, pairs, literals, binders. When unpack is true, lowercase
// identifiers bind fresh names (collected into boundSet); rebinding an
// outer name refutes at parse time.
func (p *Parser) parsePattern(s *ast.Store, tm *types.TypeMap, unpack bool, boundSet map[string]bool) (ast.NodeID, *diagnostics.Error) {
	left, err := p.parsePatternPrimary(s, tm, unpack, boundSet)
	if err != nil {
		return 0, err
	}

	for {
		line, col := p.lx.Line(), p.lx.Column()
		switch tk := p.peek(0); tk.Type {
		case token.LPAREN:
			p.advance()
			right, err := p.parsePattern(s, tm, unpack, boundSet)
			if err != nil {
				return 0, err
			}
			if _, err := p.expect(token.RPAREN, "to close pattern group"); err != nil {
				return 0, err
			}
			left = s.AddApp(left, right, line, col, false)

		case token.RPAREN, token.ARROW, token.LBRACE, token.EOF,
			token.DOUBLE_COLON, token.NEWLINE:
			return left, nil

		case token.COMMA:
			p.advance()
			right, err := p.parsePattern(s, tm, unpack, boundSet)
			if err != nil {
				return 0, err
			}
			left = s.AddPair(left, right, line, col)

		case token.INT_LIT, token.FLOAT_LIT, token.BOOL_LIT, token.CHAR_LIT,
			token.IDENT, token.UPPER_IDENT:
			right, err := p.parsePatternPrimary(s, tm, unpack, boundSet)
			if err != nil {
				return 0, err
			}
			left = s.AddApp(left, right, line, col, false)

		default:
			return 0, p.parseError("unexpected token in pattern: " + tk.String())
		}
	}
}

func (p *Parser) parsePatternPrimary(s *ast.Store, tm *types.TypeMap, unpack bool, boundSet map[string]bool) (ast.NodeID, *diagnostics.Error) {
	t := p.consume()
	switch t.Type {
	case token.IDENT, token.UPPER_IDENT:
		name := t.Lexeme
		switch c := name[0]; {
		case c >= 'A' && c <= 'Z':
			if !p.bound[name] {
				return 0, diagnostics.NewError(diagnostics.ErrP002, t,
					"unbound constructor identifier: "+name)
			}
			return s.AddID(t, t.Line, t.Column), nil
		case c == '_':
			return s.AddID(t, t.Line, t.Column), nil
		default:
			if unpack {
				if p.bound[name] {
					return 0, p.parseError("cannot rebind already bound identifier: " + name)
				}
				boundSet[name] = true
			} else if !p.bound[name] {
				return 0, diagnostics.NewError(diagnostics.ErrP002, t, "unbound identifier: "+name)
			}
			return s.AddID(t, t.Line, t.Column), nil
		}
	case token.INT_LIT, token.FLOAT_LIT, token.BOOL_LIT, token.CHAR_LIT:
		return s.AddLit(t, t.Line, t.Column), nil
	case token.LPAREN:
		exp, err := p.parsePattern(s, tm, unpack, boundSet)
		if err != nil {
			return 0, err
		}
		if _, err := p.expect(token.RPAREN, "to close pattern group"); err != nil {
			return 0, err
		}
		return exp, nil
	default:
		return 0, p.parseError("unexpected token in pattern: " + t.String())
	}
}

// parseMatch parses `match subject [:: T] { | pat -> expr ... }`; the
// MATCH keyword has already been consumed.
func (p *Parser) parseMatch(s *ast.Store, tm *types.TypeMap) (ast.NodeID, *diagnostics.Error) {
	subject, err := p.parseExpression(s, tm)
	if err != nil {
		return 0, err
	}

	switch t := p.consume(); t.Type {
	case token.DOUBLE_COLON:
		typ, err := p.parseTypeExpression(tm, nil)
		if err != nil {
			return 0, err
		}
		s.SetType(subject, typ)
		if _, err := p.expect(token.LBRACE, "after match subject type before cases"); err != nil {
			return 0, err
		}
	case token.LBRACE:
	default:
		return 0, p.parseError("expected type assignment of match subject, or {")
	}

	children := []ast.NodeID{subject}

	for {
		t := p.peek(0)
		switch t.Type {
		case token.RBRACE:
			p.advance()
			return s.AddMatch(children, p.lx.Line(), p.lx.Column()), nil
		case token.NEWLINE:
			p.advance()
		case token.BAR:
			p.advance()
			boundSet := map[string]bool{}
			pattern, err := p.parsePattern(s, tm, true, boundSet)
			if err != nil {
				return 0, err
			}
			if _, err := p.expect(token.ARROW, "after case pattern"); err != nil {
				return 0, err
			}
			for name := range boundSet {
				p.bind(name)
			}
			body, err := p.parseExpression(s, tm)
			for name := range boundSet {
				p.unbind(name)
			}
			if err != nil {
				return 0, err
			}
			children = append(children, pattern, body)
		default:
			return 0, p.parseError("unexpected token in match: expected |, got " + t.String())
		}
	}
}
