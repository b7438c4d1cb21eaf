package lang

import "log/slog"

// lexer scans requirement source text into a token stream.
//
// The only context-sensitive rule is the dual use of '#': immediately
// adjacent to a preceding identifier it introduces a feature list, anywhere
// else it begins a comment running to end of line.
type lexer struct {
	input   string
	pos     int // byte offset of the next unread character
	line    int
	col     int
	prev    TokenType // type of the most recently emitted token
	prevEnd int       // byte offset one past the most recent token
}

func newLexer(input string) *lexer {
	return &lexer{
		input:   input,
		line:    1,
		col:     1,
		prevEnd: -1,
	}
}

// scan tokenizes the entire input. The returned slice always ends with a
// TokenEOF token. The first malformed construct aborts the scan with a
// *LexError.
func scan(input string) ([]Token, error) {
	lx := newLexer(input)
	toks := make([]Token, 0, 64)

	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}

		toks = append(toks, tok)

		if tok.Type == TokenEOF {
			return toks, nil
		}
	}
}

func (l *lexer) next() (Token, error) {
	for l.pos < len(l.input) {
		c := l.input[l.pos]

		switch {
		case c == ' ' || c == '\t' || c == '\r':
			l.advance(1)

		case c == '\n':
			l.pos++
			l.line++
			l.col = 1

		case c == '#':
			// Adjacent to an identifier with no intervening whitespace:
			// feature-list introducer. Otherwise a comment to end of line.
			if l.prev == TokenIdent && l.prevEnd == l.pos {
				return l.emit(TokenHash, 1), nil
			}

			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.advance(1)
			}

		default:
			return l.lexToken()
		}
	}

	return l.emit(TokenEOF, 0), nil
}

func (l *lexer) lexToken() (Token, error) {
	c := l.input[l.pos]

	switch {
	case isIdentStart(c):
		return l.lexIdent(), nil

	case isDigit(c):
		return l.lexVersion(), nil

	case c == '\'' || c == '"':
		return l.lexString()
	}

	// Two-character operators first.
	if l.pos+1 < len(l.input) {
		switch l.input[l.pos : l.pos+2] {
		case "&&":
			return l.emit(TokenAnd, 2), nil
		case "||":
			return l.emit(TokenOr, 2), nil
		case "^^":
			return l.emit(TokenXor, 2), nil
		case "==":
			return l.emit(TokenEq, 2), nil
		case "!=":
			return l.emit(TokenNe, 2), nil
		case "<=":
			return l.emit(TokenLe, 2), nil
		case ">=":
			return l.emit(TokenGe, 2), nil
		}
	}

	switch c {
	case '<':
		return l.emit(TokenLt, 1), nil
	case '>':
		return l.emit(TokenGt, 1), nil
	case '=':
		return l.emit(TokenAssign, 1), nil
	case '!':
		return l.emit(TokenBang, 1), nil
	case '-':
		return l.emit(TokenDash, 1), nil
	case ':':
		return l.emit(TokenColon, 1), nil
	case ',':
		return l.emit(TokenComma, 1), nil
	case ';':
		return l.emit(TokenSemi, 1), nil
	case '{':
		return l.emit(TokenLBrace, 1), nil
	case '}':
		return l.emit(TokenRBrace, 1), nil
	case '[':
		return l.emit(TokenLBracket, 1), nil
	case ']':
		return l.emit(TokenRBracket, 1), nil
	case '(':
		return l.emit(TokenLParen, 1), nil
	case ')':
		return l.emit(TokenRParen, 1), nil
	}

	return Token{}, l.errorf("unrecognized character %q", string(c))
}

// lexIdent scans an identifier or keyword. Identifiers admit word
// characters and ':' so that package names like DBD::pg lex as one token.
func (l *lexer) lexIdent() Token {
	start := l.pos
	for l.pos < len(l.input) && isIdentPart(l.input[l.pos]) {
		l.pos++
	}

	text := l.input[start:l.pos]
	l.col += l.pos - start

	typ := TokenIdent

	switch text {
	case "define":
		typ = TokenDefine
	case "choice":
		typ = TokenChoice
	case "in":
		typ = TokenIn
	case "as":
		typ = TokenAs
	}

	return l.token(typ, start)
}

// lexVersion scans a version literal: dot-separated numeric components with
// an optional alphabetic/underscore suffix. Validation beyond the character
// class happens in ParseVersion.
func (l *lexer) lexVersion() Token {
	start := l.pos
	for l.pos < len(l.input) && isVersionPart(l.input[l.pos]) {
		l.pos++
	}

	l.col += l.pos - start

	return l.token(TokenVersion, start)
}

func (l *lexer) lexString() (Token, error) {
	quote := l.input[l.pos]
	start := l.pos
	l.pos++

	var text []byte

	for l.pos < len(l.input) {
		c := l.input[l.pos]

		switch c {
		case quote:
			l.pos++
			l.col += l.pos - start

			tok := l.token(TokenString, start)
			tok.Text = string(text)

			return tok, nil

		case '\\':
			if l.pos+1 < len(l.input) {
				text = append(text, l.input[l.pos+1])
				l.pos += 2

				continue
			}

			l.pos++

		case '\n':
			return Token{}, l.errorf("unterminated string literal")

		default:
			text = append(text, c)
			l.pos++
		}
	}

	return Token{}, l.errorf("unterminated string literal")
}

// emit produces a token of width n starting at the current position.
func (l *lexer) emit(typ TokenType, n int) Token {
	start := l.pos
	l.pos += n
	l.col += n

	return l.token(typ, start)
}

// token finalizes a token beginning at start and ending at the current
// position, recording adjacency state for '#' disambiguation.
func (l *lexer) token(typ TokenType, start int) Token {
	tok := Token{
		Type:   typ,
		Text:   l.input[start:l.pos],
		Offset: start,
		Line:   l.line,
		Column: l.col - (l.pos - start),
	}

	l.prev = typ
	l.prevEnd = l.pos

	return tok
}

func (l *lexer) advance(n int) {
	l.pos += n
	l.col += n
}

func (l *lexer) errorf(format string, args ...any) error {
	return newLexError(l.pos, l.line, l.col, format, args...)
}

func isIdentStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == ':'
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

// isVersionPart admits the permissive version literal character class:
// digits, dots, and the alphabetic/underscore suffix characters.
func isVersionPart(c byte) bool {
	return isDigit(c) || c == '.' || c == '_' ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// positionAttrs renders a token position for structured logging.
func positionAttrs(tok Token) []slog.Attr {
	return []slog.Attr{
		slog.Int("line", tok.Line),
		slog.Int("column", tok.Column),
	}
}
