package lang

import "fmt"

// TokenType identifies the lexical class of a token.
type TokenType int

const (
	// TokenEOF marks the end of the input.
	TokenEOF TokenType = iota

	// TokenIdent is an identifier, permitting "::" package separators.
	TokenIdent

	// TokenVersion is a version literal such as 0.80 or 5.8.1_01.
	TokenVersion

	// TokenString is a quoted string literal.
	TokenString

	// TokenDefine is the "define" keyword.
	TokenDefine

	// TokenChoice is the "choice" keyword.
	TokenChoice

	// TokenIn is the set-membership operator "in".
	TokenIn

	// TokenAs is the tag operator "as".
	TokenAs

	// TokenAnd is "&&".
	TokenAnd

	// TokenOr is "||".
	TokenOr

	// TokenXor is "^^".
	TokenXor

	// TokenEq is "==".
	TokenEq

	// TokenNe is "!=".
	TokenNe

	// TokenLt is "<".
	TokenLt

	// TokenLe is "<=".
	TokenLe

	// TokenGt is ">".
	TokenGt

	// TokenGe is ">=".
	TokenGe

	// TokenAssign is the statement-level "=".
	TokenAssign

	// TokenBang is "!", negating a range inside a set.
	TokenBang

	// TokenDash is "-", separating range bounds inside a set.
	TokenDash

	// TokenHash is "#" introducing a feature list. A "#" that does not
	// immediately follow an identifier begins a comment and is never
	// emitted as a token.
	TokenHash

	// TokenColon is ":".
	TokenColon

	// TokenComma is ",".
	TokenComma

	// TokenSemi is ";".
	TokenSemi

	// TokenLBrace is "{".
	TokenLBrace

	// TokenRBrace is "}".
	TokenRBrace

	// TokenLBracket is "[".
	TokenLBracket

	// TokenRBracket is "]".
	TokenRBracket

	// TokenLParen is "(".
	TokenLParen

	// TokenRParen is ")".
	TokenRParen
)

// String returns a human-readable name for the token type.
func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenIdent:
		return "identifier"
	case TokenVersion:
		return "version"
	case TokenString:
		return "string"
	case TokenDefine:
		return `"define"`
	case TokenChoice:
		return `"choice"`
	case TokenIn:
		return `"in"`
	case TokenAs:
		return `"as"`
	case TokenAnd:
		return `"&&"`
	case TokenOr:
		return `"||"`
	case TokenXor:
		return `"^^"`
	case TokenEq:
		return `"=="`
	case TokenNe:
		return `"!="`
	case TokenLt:
		return `"<"`
	case TokenLe:
		return `"<="`
	case TokenGt:
		return `">"`
	case TokenGe:
		return `">="`
	case TokenAssign:
		return `"="`
	case TokenBang:
		return `"!"`
	case TokenDash:
		return `"-"`
	case TokenHash:
		return `"#"`
	case TokenColon:
		return `":"`
	case TokenComma:
		return `","`
	case TokenSemi:
		return `";"`
	case TokenLBrace:
		return `"{"`
	case TokenRBrace:
		return `"}"`
	case TokenLBracket:
		return `"["`
	case TokenRBracket:
		return `"]"`
	case TokenLParen:
		return `"("`
	case TokenRParen:
		return `")"`
	default:
		return "unknown"
	}
}

// Token is a single lexical token with its source position.
type Token struct {
	Type   TokenType
	Text   string
	Offset int // byte offset of the first character
	Line   int // 1-based
	Column int // 1-based
}

// String returns the token rendered for error messages.
func (t Token) String() string {
	switch t.Type {
	case TokenEOF:
		return "end of input"
	case TokenIdent, TokenVersion:
		return fmt.Sprintf("%s %q", t.Type, t.Text)
	case TokenString:
		return fmt.Sprintf("string %q", t.Text)
	default:
		return t.Type.String()
	}
}
