package parser

import (
	"github.com/sflang/sfl/internal/ast"
	"github.com/sflang/sfl/internal/diagnostics"
	"github.com/sflang/sfl/internal/token"
	"github.com/sflang/sfl/internal/types"
)

// parseAbstraction parses one or more abstraction binders followed by a
// body. For `\x y. e` the binders end at the dot; for definition sugar
// `f x y = e` they end at the equals sign. It returns the outermost
// abstraction and every abstraction node built, outermost last.
func (p *Parser) parseAbstraction(s *ast.Store, isAssign bool, tm *types.TypeMap) (ast.NodeID, []ast.NodeID, *diagnostics.Error) {
	var args []ast.NodeID

loop:
	for {
		t := p.peek(0)
		switch {
		case t.Type == token.IDENT || t.Type == token.LPAREN:
			arg, err := p.parseAbstrVar(s, tm)
			if err != nil {
				return 0, nil, err
			}
			args = append(args, arg)
		case t.Type == token.DOT && !isAssign:
			p.advance()
			break loop
		case t.Type == token.ASSIGN && isAssign:
			p.advance()
			break loop
		default:
			return 0, nil, p.parseError("unexpected token in lambda argument: " + t.Lexeme)
		}
	}

	for _, arg := range args {
		if err := p.bindNode(s, arg); err != nil {
			return 0, nil, err
		}
	}

	expr, err := p.parseExpression(s, tm)
	if err != nil {
		return 0, nil, err
	}

	var absts []ast.NodeID
	for i := len(args) - 1; i >= 0; i-- {
		expr = s.AddAbstraction(args[i], expr, p.lx.Line(), p.lx.Column())
		absts = append(absts, expr)
		p.unbindNode(s, args[i])
	}
	return expr, absts, nil
}

// parseAbstrVar parses one binder: an identifier, an optionally annotated
// identifier (`x :: Int`), or a parenthesized pair pattern.
func (p *Parser) parseAbstrVar(s *ast.Store, tm *types.TypeMap) (ast.NodeID, *diagnostics.Error) {
	left, err := p.parseAbstrVarPrimary(s, tm)
	if err != nil {
		return 0, err
	}
	switch p.peek(0).Type {
	case token.COMMA:
		p.advance()
		right, err := p.parseAbstrVar(s, tm)
		if err != nil {
			return 0, err
		}
		return s.AddPair(left, right, p.lx.Line(), p.lx.Column()), nil
	case token.DOUBLE_COLON:
		p.advance()
		t, err := p.parseTypeExpression(tm, nil)
		if err != nil {
			return 0, err
		}
		s.SetType(left, t)
		return left, nil
	case token.RPAREN:
		p.advance()
		return left, nil
	default:
		return left, nil
	}
}

func (p *Parser) parseAbstrVarPrimary(s *ast.Store, tm *types.TypeMap) (ast.NodeID, *diagnostics.Error) {
	t := p.consume()
	switch t.Type {
	case token.IDENT:
		return s.AddID(t, t.Line, t.Column), nil
	case token.LPAREN:
		return p.parseAbstrVar(s, tm)
	default:
		return 0, p.parseError("expected identifier (or '(') after lambda")
	}
}

func (p *Parser) parseExprPrimary(s *ast.Store, tm *types.TypeMap) (ast.NodeID, *diagnostics.Error) {
	t := p.consume()
	switch t.Type {
	case token.IDENT, token.UPPER_IDENT:
		if !p.bound[t.Lexeme] {
			return 0, diagnostics.NewError(diagnostics.ErrP002, t, "unbound identifier: "+t.Lexeme)
		}
		return s.AddID(t, t.Line, t.Column), nil
	case token.INT_LIT, token.FLOAT_LIT, token.BOOL_LIT, token.CHAR_LIT:
		return s.AddLit(t, t.Line, t.Column), nil
	case token.KW_MATCH:
		return p.parseMatch(s, tm)
	case token.LAMBDA:
		expr, _, err := p.parseAbstraction(s, false, tm)
		return expr, err
	case token.LPAREN:
		exp, err := p.parseExpression(s, tm)
		if err != nil {
			return 0, err
		}
		if _, err := p.expect(token.RPAREN, "after parenthesized expression"); err != nil {
			return 0, err
		}
		return exp, nil
	default:
		return 0, p.parseError("unexpected token in expression: " + t.String())
	}
}

// parseExpression parses left-associative application chains, pairs,
// dollar applications, and the if/then/else sugar (which desugars to
// plain application of the `if` inbuilt).
func (p *Parser) parseExpression(s *ast.Store, tm *types.TypeMap) (ast.NodeID, *diagnostics.Error) {
	left, err := p.parseExprPrimary(s, tm)
	if err != nil {
		return 0, err
	}

	sawThen := false
	for {
		line, col := p.lx.Line(), p.lx.Column()
		tk := p.peek(0)
		switch tk.Type {
		case token.LPAREN:
			p.advance()
			right, err := p.parseExpression(s, tm)
			if err != nil {
				return 0, err
			}
			if _, err := p.expect(token.RPAREN, "to close application argument"); err != nil {
				return 0, err
			}
			left = s.AddApp(left, right, line, col, false)

		case token.DOLLAR:
			p.advance()
			right, err := p.parseExpression(s, tm)
			if err != nil {
				return 0, err
			}
			left = s.AddApp(left, right, line, col, true)

		case token.KW_THEN:
			// `if c then a else b` desugars to `if c a b`: the
			// then-branch parse stops at `else`, which this level
			// then consumes.
			p.advance()
			sawThen = true
			right, err := p.parseExpression(s, tm)
			if err != nil {
				return 0, err
			}
			left = s.AddApp(left, right, line, col, false)

		case token.KW_ELSE:
			if !sawThen {
				return left, nil
			}
			p.advance()
			sawThen = false
			right, err := p.parseExpression(s, tm)
			if err != nil {
				return 0, err
			}
			left = s.AddApp(left, right, line, col, false)

		case token.RPAREN, token.EOF, token.NEWLINE, token.DOUBLE_COLON,
			token.LBRACE, token.RBRACE, token.BAR, token.ARROW:
			return left, nil

		case token.COMMA:
			p.advance()
			right, err := p.parseExpression(s, tm)
			if err != nil {
				return 0, err
			}
			left = s.AddPair(left, right, line, col)

		case token.KW_MATCH:
			p.advance()
			m, err := p.parseMatch(s, tm)
			if err != nil {
				return 0, err
			}
			left = s.AddApp(left, m, line, col, false)

		case token.INT_LIT, token.FLOAT_LIT, token.BOOL_LIT, token.CHAR_LIT,
			token.IDENT, token.UPPER_IDENT, token.LAMBDA:
			right, err := p.parseExprPrimary(s, tm)
			if err != nil {
				return 0, err
			}
			left = s.AddApp(left, right, line, col, false)

		default:
			return 0, p.parseError("unexpected token in expression: " + tk.String())
		}
	}
}
