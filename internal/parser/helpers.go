package parser

import (
	"errors"

	"pico/internal/fault"
	"pico/internal/token"
	"pico/internal/trace"
)

// match consumes one token of kind k.
func (p *Recognizer) match(k token.Kind) error {
	tok, err := p.tz.Next()
	if err != nil {
		return err
	}
	if tok.Kind != k {
		return fault.Mismatch(k, tok)
	}
	return nil
}

// at peeks and reports whether the current token is k.
func (p *Recognizer) at(k token.Kind) (bool, error) {
	tok, err := p.tz.Peek()
	if err != nil {
		return false, err
	}
	return tok.Kind == k, nil
}

// exhausted checks that nothing follows the program.
func (p *Recognizer) exhausted() error {
	tok, err := p.tz.Peek()
	if errors.Is(err, fault.ErrNoSuchToken) {
		return nil
	}
	if err != nil {
		return err
	}
	return fault.TrailingInput(tok)
}

// enter opens a rule span; the returned func closes it.
func (p *Recognizer) enter(rule string) func() {
	if p.tracer == nil {
		return func() {}
	}
	span := trace.Begin(p.tracer, trace.ScopeRule, rule, p.parent)
	prev := p.parent
	p.parent = span.ID()
	return func() {
		p.parent = prev
		span.End("")
	}
}
