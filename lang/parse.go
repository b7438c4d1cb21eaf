package lang

// parser is a recursive-descent parser over the scanned token stream.
// Precedence, loosest binding first: logical (&&, ||, ^^, left-associative)
// < as < in < equality < relational. The equality and relational levels are
// non-associative: at most one operator each.
type parser struct {
	toks []Token
	pos  int
}

// parse consumes the token stream and returns the statement list and the
// master expression. A missing master expression yields nil; the resolver
// substitutes the literal true.
func parse(toks []Token) ([]*Definition, Expr, error) {
	p := &parser{toks: toks}

	var (
		defs   []*Definition
		master Expr
	)

	for {
		switch p.cur().Type {
		case TokenEOF:
			return defs, master, nil

		case TokenDefine, TokenChoice:
			if master != nil {
				return nil, nil, newParseError(p.cur(),
					"statement after master expression")
			}

			def, err := p.parseStatement()
			if err != nil {
				return nil, nil, err
			}

			defs = append(defs, def)

		default:
			if master != nil {
				return nil, nil, newParseError(p.cur(),
					"program has more than one master expression")
			}

			expr, err := p.parseExpression()
			if err != nil {
				return nil, nil, err
			}

			master = expr
		}
	}
}

func (p *parser) cur() Token { return p.toks[p.pos] }

func (p *parser) advance() Token {
	tok := p.toks[p.pos]
	if tok.Type != TokenEOF {
		p.pos++
	}

	return tok
}

func (p *parser) expect(typ TokenType) (Token, error) {
	tok := p.cur()
	if tok.Type != typ {
		return tok, newParseError(tok, "expected %s, found %s", typ, tok)
	}

	return p.advance(), nil
}

// parseStatement parses: ("define" | "choice") IDENT "=" expression ";".
func (p *parser) parseStatement() (*Definition, error) {
	kind := DefMacro
	if p.advance().Type == TokenChoice {
		kind = DefChoice
	}

	name, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenAssign); err != nil {
		return nil, err
	}

	body, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenSemi); err != nil {
		return nil, err
	}

	return &Definition{Kind: kind, Name: name.Text, Body: body}, nil
}

func (p *parser) parseExpression() (Expr, error) {
	return p.parseLogical()
}

func (p *parser) parseLogical() (Expr, error) {
	left, err := p.parseTagged()
	if err != nil {
		return nil, err
	}

	for {
		var op Op

		switch p.cur().Type {
		case TokenAnd:
			op = OpAnd
		case TokenOr:
			op = OpOr
		case TokenXor:
			op = OpXor
		default:
			return left, nil
		}

		p.advance()

		right, err := p.parseTagged()
		if err != nil {
			return nil, err
		}

		left = &Logical{Op: op, LHS: left, RHS: right}
	}
}

func (p *parser) parseTagged() (Expr, error) {
	expr, err := p.parseSet()
	if err != nil {
		return nil, err
	}

	if p.cur().Type != TokenAs {
		return expr, nil
	}

	p.advance()

	if _, err := p.expect(TokenColon); err != nil {
		return nil, err
	}

	tag, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}

	return &Tagged{Expr: expr, Tag: tag.Text}, nil
}

func (p *parser) parseSet() (Expr, error) {
	expr, err := p.parseEquality()
	if err != nil {
		return nil, err
	}

	if p.cur().Type != TokenIn {
		return expr, nil
	}

	p.advance()

	set, err := p.parseSetLiteral()
	if err != nil {
		return nil, err
	}

	return &SetMembership{Expr: expr, Set: set}, nil
}

func (p *parser) parseEquality() (Expr, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}

	var op Op

	switch p.cur().Type {
	case TokenEq:
		op = OpEq
	case TokenNe:
		op = OpNe
	default:
		return left, nil
	}

	p.advance()

	right, err := p.parseRelational()
	if err != nil {
		return nil, err
	}

	return &Equality{Op: op, LHS: left, RHS: right}, nil
}

func (p *parser) parseRelational() (Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	var op Op

	switch p.cur().Type {
	case TokenLt:
		op = OpLt
	case TokenLe:
		op = OpLe
	case TokenGt:
		op = OpGt
	case TokenGe:
		op = OpGe
	default:
		return left, nil
	}

	p.advance()

	right, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	return &Relational{Op: op, LHS: left, RHS: right}, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.cur()

	switch tok.Type {
	case TokenIdent:
		return p.parseIdent()

	case TokenString:
		p.advance()

		return &StringLit{Value: tok.Text}, nil

	case TokenVersion:
		p.advance()

		v, err := versionLit(tok)
		if err != nil {
			return nil, err
		}

		return &VersionLit{Value: v}, nil

	case TokenLBrace:
		return p.parseMacroRef()

	case TokenLParen:
		p.advance()

		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}

		return expr, nil

	default:
		return nil, newParseError(tok, "unexpected %s", tok)
	}
}

// parseMacroRef parses: "{" IDENT "}", yielding a BuiltinVar for the two
// builtin environment names and a MacroRef otherwise.
func (p *parser) parseMacroRef() (Expr, error) {
	p.advance() // the opening brace

	name, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenRBrace); err != nil {
		return nil, err
	}

	switch name.Text {
	case BuiltinOSName, BuiltinIThreads:
		return &BuiltinVar{Name: name.Text}, nil
	}

	return &MacroRef{Name: name.Text}, nil
}

// parseIdent parses a builtin probe call or a package reference with an
// optional feature list.
func (p *parser) parseIdent() (Expr, error) {
	name := p.advance()

	switch name.Text {
	case BuiltinHasInclude, BuiltinHasLib, BuiltinHasProgram:
		return p.parseBuiltinCall(name)
	}

	ref := &PackageRef{Name: name.Text}

	if p.cur().Type == TokenHash {
		p.advance()

		features, err := p.parseFeatureList()
		if err != nil {
			return nil, err
		}

		ref.Features = features
	}

	return ref, nil
}

// parseBuiltinCall parses: BUILTIN "(" STRING ("," STRING)* ")".
func (p *parser) parseBuiltinCall(name Token) (Expr, error) {
	if _, err := p.expect(TokenLParen); err != nil {
		return nil, err
	}

	var args []string

	for {
		arg, err := p.expect(TokenString)
		if err != nil {
			return nil, err
		}

		args = append(args, arg.Text)

		if p.cur().Type != TokenComma {
			break
		}

		p.advance()
	}

	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}

	return &BuiltinCall{Name: name.Text, Args: args}, nil
}

// parseFeatureList parses: "(" IDENT ("&&" IDENT)* ")". The grammar
// nominally permits other operators between feature names, but only
// conjunction has settled semantics, so anything else is rejected.
func (p *parser) parseFeatureList() ([]string, error) {
	if _, err := p.expect(TokenLParen); err != nil {
		return nil, err
	}

	var features []string

	for {
		feat, err := p.expect(TokenIdent)
		if err != nil {
			return nil, err
		}

		features = append(features, feat.Text)

		switch p.cur().Type {
		case TokenAnd:
			p.advance()

		case TokenRParen:
			p.advance()

			return features, nil

		default:
			return nil, newParseError(p.cur(),
				"feature lists permit only \"&&\", found %s", p.cur())
		}
	}
}

// parseSetLiteral parses: "[" range+ "]" where
// range := "!"? (VERSION? "-" VERSION? | VERSION).
func (p *parser) parseSetLiteral() (Set, error) {
	open, err := p.expect(TokenLBracket)
	if err != nil {
		return nil, err
	}

	var set Set

	for p.cur().Type != TokenRBracket {
		if p.cur().Type == TokenEOF {
			return nil, newParseError(p.cur(),
				"unterminated set: missing \"]\"")
		}

		r, err := p.parseRange()
		if err != nil {
			return nil, err
		}

		set = append(set, r)
	}

	p.advance()

	if len(set) == 0 {
		return nil, newParseError(open, "empty set")
	}

	return set, nil
}

func (p *parser) parseRange() (Range, error) {
	var r Range

	if p.cur().Type == TokenBang {
		r.Negated = true

		p.advance()
	}

	if p.cur().Type == TokenVersion {
		low, err := p.parseRangeVersion()
		if err != nil {
			return Range{}, err
		}

		r.Low = &low

		if p.cur().Type != TokenDash {
			// A bare version is a point range.
			r.High = &low

			return r, nil
		}
	} else if p.cur().Type != TokenDash {
		return Range{}, newParseError(p.cur(),
			"expected version or \"-\" in range, found %s", p.cur())
	}

	p.advance() // the dash

	if p.cur().Type == TokenVersion {
		high, err := p.parseRangeVersion()
		if err != nil {
			return Range{}, err
		}

		r.High = &high
	}

	return r, nil
}

func (p *parser) parseRangeVersion() (Version, error) {
	return versionLit(p.advance())
}

// versionLit validates a scanned version literal, reporting malformed text
// at the token's position.
func versionLit(tok Token) (Version, error) {
	v, err := ParseVersion(tok.Text)
	if err != nil {
		return Version{}, newParseError(tok,
			"malformed version literal %q", tok.Text)
	}

	return v, nil
}
