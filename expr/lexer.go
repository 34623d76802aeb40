package expr

// Lexer scans an expression string into tokens.
type Lexer struct {
	input        string
	position     int
	readPosition int
	ch           byte
}

// NewLexer creates a Lexer over the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

// NextToken returns the next token in the input.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	pos := l.position

	switch l.ch {
	case '+':
		l.readChar()
		return Token{Type: TokenPlus, Literal: "+", Pos: pos}
	case '-':
		l.readChar()
		return Token{Type: TokenMinus, Literal: "-", Pos: pos}
	case '*':
		l.readChar()
		return Token{Type: TokenAsterisk, Literal: "*", Pos: pos}
	case '/':
		l.readChar()
		return Token{Type: TokenSlash, Literal: "/", Pos: pos}
	case '^':
		l.readChar()
		return Token{Type: TokenCaret, Literal: "^", Pos: pos}
	case '(':
		l.readChar()
		return Token{Type: TokenLParen, Literal: "(", Pos: pos}
	case ')':
		l.readChar()
		return Token{Type: TokenRParen, Literal: ")", Pos: pos}
	case 0:
		return Token{Type: TokenEOF, Literal: "", Pos: pos}
	default:
		if isLetter(l.ch) {
			return Token{Type: TokenIdent, Literal: l.readIdentifier(), Pos: pos}
		}
		if isDigit(l.ch) {
			return Token{Type: TokenNumber, Literal: l.readNumber(), Pos: pos}
		}
		ch := l.ch
		l.readChar()
		return Token{Type: TokenIllegal, Literal: string(ch), Pos: pos}
	}
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

func (l *Lexer) readNumber() string {
	position := l.position
	for isDigit(l.ch) || l.ch == '.' {
		l.readChar()
	}
	return l.input[position:l.position]
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
