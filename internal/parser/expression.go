package parser

import (
	"pico/internal/fault"
	"pico/internal/token"
)

// primaryStarts lists the tokens an expression may begin with.
var primaryStarts = []token.Kind{token.Open, token.Minus, token.Identifier, token.NatNumber}

// expression ::= ( "(" expression ")" | "-" expression | identifier | natnumber )
//
//	( ("+" | "*") expression )?
//
// "+" and "*" bind the same way: the right operand is a whole expression,
// so a+b*c nests as a+(b*c) and a*b+c as a*(b+c).
func (p *Recognizer) expression() error {
	defer p.enter("expression")()

	tok, err := p.tz.Next()
	if err != nil {
		return err
	}
	switch tok.Kind {
	case token.Open:
		if err := p.expression(); err != nil {
			return err
		}
		if err := p.match(token.Close); err != nil {
			return err
		}
	case token.Minus:
		if err := p.expression(); err != nil {
			return err
		}
	case token.Identifier, token.NatNumber:
	default:
		return fault.MismatchOneOf(primaryStarts, tok)
	}

	next, err := p.tz.Peek()
	if err != nil {
		return err
	}
	if !next.Kind.IsOperator() {
		return nil
	}
	if _, err := p.tz.Next(); err != nil {
		return err
	}
	return p.expression()
}
