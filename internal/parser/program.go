package parser

import (
	"pico/internal/fault"
	"pico/internal/token"
)

// program ::= "begin" declarations "|" statements "end"
func (p *Recognizer) program() error {
	defer p.enter("program")()

	if err := p.match(token.Begin); err != nil {
		return err
	}
	if err := p.declarations(); err != nil {
		return err
	}
	if err := p.match(token.DeclarationsEnd); err != nil {
		return err
	}
	if err := p.statements(); err != nil {
		return err
	}
	return p.match(token.End)
}

// declarations ::= "declare" declaration*, stopped by "|"
func (p *Recognizer) declarations() error {
	defer p.enter("declarations")()

	if err := p.match(token.Declare); err != nil {
		return err
	}
	for {
		done, err := p.at(token.DeclarationsEnd)
		if err != nil || done {
			return err
		}
		if err := p.declaration(); err != nil {
			return err
		}
	}
}

// declaration ::= identifier ","
// The terminator is checked before the name, so "1x," reports the
// unexpected identifier rather than the number.
func (p *Recognizer) declaration() error {
	defer p.enter("declaration")()

	name, err := p.tz.Next()
	if err != nil {
		return err
	}
	if err := p.match(token.DeclarationEnd); err != nil {
		return err
	}
	if name.Kind != token.Identifier {
		return fault.Mismatch(token.Identifier, name)
	}
	return nil
}

// statements ::= statement*, stopped by "end"
func (p *Recognizer) statements() error {
	defer p.enter("statements")()

	for {
		done, err := p.at(token.End)
		if err != nil || done {
			return err
		}
		if err := p.statement(); err != nil {
			return err
		}
	}
}

// statement ::= identifier ":=" expression ";"
func (p *Recognizer) statement() error {
	defer p.enter("statement")()

	if err := p.match(token.Identifier); err != nil {
		return err
	}
	if err := p.match(token.Assign); err != nil {
		return err
	}
	if err := p.expression(); err != nil {
		return err
	}
	return p.match(token.StatementEnd)
}
