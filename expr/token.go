// Package expr tokenizes, parses, and evaluates infix arithmetic expressions.
// It produces an ordered binary syntax tree: operand order is preserved
// exactly as written, which matters for non-commutative operators.
package expr

// TokenType identifies the lexical class of a token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIdent
	TokenNumber
	TokenPlus     // +
	TokenMinus    // -
	TokenAsterisk // *
	TokenSlash    // /
	TokenCaret    // ^
	TokenLParen   // (
	TokenRParen   // )
	TokenIllegal
)

// Token is a single lexical unit with its byte offset in the source text.
type Token struct {
	Type    TokenType
	Literal string
	Pos     int
}

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "end of input"
	case TokenIdent:
		return "identifier"
	case TokenNumber:
		return "number"
	case TokenPlus:
		return "'+'"
	case TokenMinus:
		return "'-'"
	case TokenAsterisk:
		return "'*'"
	case TokenSlash:
		return "'/'"
	case TokenCaret:
		return "'^'"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	default:
		return "illegal token"
	}
}
