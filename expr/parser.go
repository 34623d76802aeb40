package expr

import (
	"fmt"
	"strings"
)

// ParseError reports a malformed expression. Position is the byte offset
// of the offending token in the source text.
type ParseError struct {
	Position int
	Reason   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at position %d: %s", e.Position, e.Reason)
}

// Operator precedence levels, lowest to highest.
const (
	lowest int = iota
	sum        // + -
	product    // * /
	power      // ^
	prefix     // -x
)

var precedences = map[TokenType]int{
	TokenPlus:     sum,
	TokenMinus:    sum,
	TokenAsterisk: product,
	TokenSlash:    product,
	TokenCaret:    power,
}

// Parser builds a syntax tree from a token stream. It stops at the first
// error and never returns a partial tree.
type Parser struct {
	l         *Lexer
	curToken  Token
	peekToken Token
	err       *ParseError
}

// NewParser creates a Parser over the given lexer.
func NewParser(l *Lexer) *Parser {
	p := &Parser{l: l}
	p.nextToken()
	p.nextToken()
	return p
}

// Parse tokenizes and parses text into a syntax tree.
// It fails on empty input, unbalanced parentheses, unknown tokens,
// missing operands, and trailing input after a complete expression.
func Parse(text string) (Node, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &ParseError{Position: 0, Reason: "empty expression"}
	}

	p := NewParser(NewLexer(text))
	node := p.parseExpression(lowest)
	if p.err != nil {
		return nil, p.err
	}
	if p.peekToken.Type != TokenEOF {
		if p.peekToken.Type == TokenIllegal {
			return nil, &ParseError{
				Position: p.peekToken.Pos,
				Reason:   fmt.Sprintf("unknown token %q", p.peekToken.Literal),
			}
		}
		return nil, &ParseError{
			Position: p.peekToken.Pos,
			Reason:   fmt.Sprintf("unexpected %s after complete expression", p.peekToken.Type),
		}
	}
	return node, nil
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) fail(pos int, format string, args ...any) {
	if p.err == nil {
		p.err = &ParseError{Position: pos, Reason: fmt.Sprintf(format, args...)}
	}
}

func (p *Parser) parseExpression(precedence int) Node {
	left := p.parsePrefix()
	if p.err != nil {
		return nil
	}

	for p.peekToken.Type != TokenEOF && precedence < p.peekPrecedence() {
		p.nextToken()
		left = p.parseInfix(left)
		if p.err != nil {
			return nil
		}
	}
	return left
}

func (p *Parser) parsePrefix() Node {
	switch p.curToken.Type {
	case TokenIdent:
		return &Ident{Name: p.curToken.Literal}
	case TokenNumber:
		v, ok := ParseNumber(p.curToken.Literal)
		if !ok {
			p.fail(p.curToken.Pos, "could not parse %q as number", p.curToken.Literal)
			return nil
		}
		return &Number{Value: v, Literal: p.curToken.Literal}
	case TokenMinus:
		pos := p.curToken.Pos
		p.nextToken()
		if p.curToken.Type == TokenEOF {
			p.fail(pos, "missing operand after '-'")
			return nil
		}
		operand := p.parsePrefixOperand()
		if p.err != nil {
			return nil
		}
		return &Unary{Operator: "-", Operand: operand}
	case TokenLParen:
		open := p.curToken.Pos
		p.nextToken()
		if p.curToken.Type == TokenRParen {
			p.fail(p.curToken.Pos, "empty parentheses")
			return nil
		}
		node := p.parseExpression(lowest)
		if p.err != nil {
			return nil
		}
		if p.peekToken.Type != TokenRParen {
			p.fail(open, "missing closing parenthesis")
			return nil
		}
		p.nextToken()
		return node
	case TokenRParen:
		p.fail(p.curToken.Pos, "unexpected ')'")
		return nil
	case TokenIllegal:
		p.fail(p.curToken.Pos, "unknown token %q", p.curToken.Literal)
		return nil
	case TokenEOF:
		p.fail(p.curToken.Pos, "missing operand")
		return nil
	default:
		p.fail(p.curToken.Pos, "unexpected %s", p.curToken.Type)
		return nil
	}
}

// parsePrefixOperand parses the operand of a unary minus at prefix
// precedence, so -a * b means (-a) * b.
func (p *Parser) parsePrefixOperand() Node {
	left := p.parsePrefix()
	if p.err != nil {
		return nil
	}
	for p.peekToken.Type != TokenEOF && prefix < p.peekPrecedence() {
		p.nextToken()
		left = p.parseInfix(left)
		if p.err != nil {
			return nil
		}
	}
	return left
}

func (p *Parser) parseInfix(left Node) Node {
	op := p.curToken.Literal
	opPos := p.curToken.Pos
	precedence := p.curPrecedence()
	if p.curToken.Type == TokenCaret {
		// Right-associative: parse the right side at one level lower.
		precedence--
	}

	p.nextToken()
	if p.curToken.Type == TokenEOF {
		p.fail(opPos, "missing operand after %q", op)
		return nil
	}
	right := p.parseExpression(precedence)
	if p.err != nil {
		return nil
	}
	return &Binary{Operator: op, Left: left, Right: right}
}

func (p *Parser) peekPrecedence() int {
	if pre, ok := precedences[p.peekToken.Type]; ok {
		return pre
	}
	return lowest
}

func (p *Parser) curPrecedence() int {
	if pre, ok := precedences[p.curToken.Type]; ok {
		return pre
	}
	return lowest
}
