package parser

import (
	"sort"

	"github.com/sflang/sfl/internal/diagnostics"
	"github.com/sflang/sfl/internal/token"
	"github.com/sflang/sfl/internal/types"
)

// parseTypeExpression parses a type: arrows (right-associative), products
// (comma), and applications of declared type names. When boundTypeVars is
// nil any lowercase name is a free type variable (declaration-site
// annotations, generalized later); otherwise only the listed variables
// are legal.
func (p *Parser) parseTypeExpression(tm *types.TypeMap, boundTypeVars map[string]bool) (types.Type, *diagnostics.Error) {
	left, err := p.parseTypeExprPrimary(tm, boundTypeVars)
	if err != nil {
		return nil, err
	}

	for {
		switch next := p.peek(0); next.Type {
		case token.ARROW:
			p.advance()
			right, err := p.parseTypeExpression(tm, boundTypeVars)
			if err != nil {
				return nil, err
			}
			return types.Func{From: left, To: right}, nil

		case token.COMMA:
			p.advance()
			right, err := p.parseTypeExpression(tm, boundTypeVars)
			if err != nil {
				return nil, err
			}
			return types.Pr(left, right), nil

		case token.UPPER_IDENT, token.IDENT, token.LPAREN:
			// Inside an annotated binder, a lowercase name followed
			// by :: starts the next binder, not a type argument.
			if next.Type == token.IDENT && p.peek(1).Type == token.DOUBLE_COLON {
				return left, nil
			}
			arg, err := p.parseTypeExprPrimary(tm, boundTypeVars)
			if err != nil {
				return nil, err
			}
			applied, aerr := types.Apply(left, arg)
			if aerr != nil {
				return nil, p.parseError(aerr.Error())
			}
			left = applied

		case token.RPAREN, token.NEWLINE, token.EOF, token.DOT, token.LBRACE:
			return left, nil

		default:
			return nil, p.parseError("unexpected token in type expression: " + next.String())
		}
	}
}

func (p *Parser) parseTypeExprPrimary(tm *types.TypeMap, boundTypeVars map[string]bool) (types.Type, *diagnostics.Error) {
	t := p.consume()
	switch t.Type {
	case token.IDENT:
		if boundTypeVars == nil {
			return types.Var{Name: t.Lexeme}, nil
		}
		if boundTypeVars[t.Lexeme] {
			return types.Var{Name: t.Lexeme}, nil
		}
		return nil, p.parseError("type variable " + t.Lexeme + " is not bound")
	case token.UPPER_IDENT:
		if decl, ok := tm.Get(t.Lexeme); ok {
			return decl, nil
		}
		return nil, p.parseError("type " + t.Lexeme + " is not defined")
	case token.LPAREN:
		inner, err := p.parseTypeExpression(tm, boundTypeVars)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN, "to close type group"); err != nil {
			return nil, err
		}
		return inner, nil
	default:
		return nil, p.parseError("unexpected token in type expression: " + t.String())
	}
}

// parseTypeAnnotation parses a declared type and generalizes its free
// variables into a prenex quantifier, binder names sorted.
func (p *Parser) parseTypeAnnotation(tm *types.TypeMap) (types.Type, *diagnostics.Error) {
	declared, err := p.parseTypeExpression(tm, nil)
	if err != nil {
		return nil, err
	}
	var tvs []string
	for name := range types.VarSet(declared) {
		tvs = append(tvs, name)
	}
	sort.Strings(tvs)
	return types.Fa(tvs, declared), nil
}

// parseTypeAssignment handles `name :: T` lines.
func (p *Parser) parseTypeAssignment(tm *types.TypeMap) *diagnostics.Error {
	name := p.peek(0).Lexeme
	if _, dup := p.typeAssignments[name]; dup {
		return p.parseError("type already assigned: " + name)
	}
	p.advance() // name
	p.advance() // ::

	declared, err := p.parseTypeAnnotation(tm)
	if err != nil {
		return err
	}
	p.typeAssignments[name] = declared
	return nil
}

// parseTypeAliasDecl handles `type Name = T`.
func (p *Parser) parseTypeAliasDecl(tm *types.TypeMap) (string, types.Type, *diagnostics.Error) {
	p.advance() // type keyword

	t := p.consume()
	switch t.Type {
	case token.UPPER_IDENT:
	case token.IDENT:
		return "", nil, p.parseError("type names must begin with a capital letter, got " + t.Lexeme)
	default:
		return "", nil, p.parseError("expected type name after type keyword, got " + t.Lexeme)
	}
	name := t.Lexeme

	if _, err := p.expect(token.ASSIGN, "after type name"); err != nil {
		return "", nil, err
	}

	body, err := p.parseTypeExpression(tm, map[string]bool{})
	if err != nil {
		return "", nil, err
	}
	return name, body, nil
}

// parseDataDecl handles `data Name a b = K1 t... | K2 t...`, registering
// the union in the type map (before the constructors, so they can recurse)
// and returning the constructor types.
func (p *Parser) parseDataDecl(tm *types.TypeMap) (map[string]types.Type, *diagnostics.Error) {
	p.advance() // data keyword

	t := p.consume()
	switch t.Type {
	case token.UPPER_IDENT:
	case token.IDENT:
		return nil, p.parseError("type names must begin with a capital letter, got " + t.Lexeme)
	default:
		return nil, p.parseError("expected type name after data keyword, got " + t.Lexeme)
	}
	name := t.Lexeme

	var params []string
	seen := map[string]bool{}
	t = p.consume()
	for t.Type == token.IDENT {
		if seen[t.Lexeme] {
			return nil, p.parseError("duplicate data parameter: " + t.Lexeme)
		}
		seen[t.Lexeme] = true
		params = append(params, t.Lexeme)
		t = p.consume()
	}
	if t.Type != token.ASSIGN {
		return nil, p.parseError("expected = in data declaration, got " + t.Lexeme)
	}

	args := make([]types.Type, len(params))
	for i, v := range params {
		args[i] = types.Var{Name: v}
	}
	unionType := types.Union{Name: name, Args: args}

	if _, exists := tm.Get(name); exists {
		return nil, p.parseError("type " + name + " declared more than once")
	}
	tm.Set(name, types.Fa(params, unionType))

	constructors, err := p.parseConstructors(tm, params, unionType)
	if err != nil {
		return nil, err
	}
	for cname := range constructors {
		if p.bound[cname] {
			return nil, p.parseError("constructor " + cname + " declared more than once")
		}
	}
	return constructors, nil
}

func (p *Parser) parseConstructors(tm *types.TypeMap, params []string, unionType types.Type) (map[string]types.Type, *diagnostics.Error) {
	constructors := map[string]types.Type{}
	boundTypeVars := map[string]bool{}
	for _, v := range params {
		boundTypeVars[v] = true
	}

	for {
		t := p.peek(0)
		switch t.Type {
		case token.UPPER_IDENT:
			cname, cparams, err := p.parseConstructor(tm, boundTypeVars)
			if err != nil {
				return nil, err
			}
			ctype := unionType
			for i := len(cparams) - 1; i >= 0; i-- {
				ctype = types.Func{From: cparams[i], To: ctype}
			}
			constructors[cname] = types.Fa(params, ctype)
		case token.BAR:
			p.advance()
		case token.NEWLINE, token.EOF:
			p.advance()
			return constructors, nil
		default:
			return nil, p.parseError("unexpected token during data declaration: " + t.Lexeme)
		}
	}
}

func (p *Parser) parseConstructor(tm *types.TypeMap, boundTypeVars map[string]bool) (string, []types.Type, *diagnostics.Error) {
	t := p.consume()
	if t.Type != token.UPPER_IDENT {
		return "", nil, p.parseError("expected variant name, got " + t.Lexeme)
	}
	cname := t.Lexeme

	var cparams []types.Type
	for {
		t := p.peek(0)
		switch t.Type {
		case token.IDENT:
			p.advance()
			if !boundTypeVars[t.Lexeme] {
				return "", nil, p.parseError("unbound type parameter: " + t.Lexeme)
			}
			cparams = append(cparams, types.Var{Name: t.Lexeme})
		case token.UPPER_IDENT:
			p.advance()
			decl, ok := tm.Get(t.Lexeme)
			if !ok {
				return "", nil, p.parseError("unbound type parameter: " + t.Lexeme)
			}
			cparams = append(cparams, decl)
		case token.LPAREN:
			p.advance()
			inner, err := p.parseTypeExpression(tm, boundTypeVars)
			if err != nil {
				return "", nil, err
			}
			if _, err := p.expect(token.RPAREN, "to close constructor parameter"); err != nil {
				return "", nil, err
			}
			cparams = append(cparams, inner)
		default:
			return cname, cparams, nil
		}
	}
}
