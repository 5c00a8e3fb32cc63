package token

import (
	"fmt"

	"pico/internal/source"
)

// Token is a classified lexeme.
type Token struct {
	Kind  Kind
	Value string
	Pos   source.Position
}

// New builds a token, refusing values the kind's rule does not accept.
func New(kind Kind, value string, pos source.Position) (Token, error) {
	r, ok := kind.Rule()
	if !ok {
		return Token{}, fmt.Errorf("token: unknown kind %d", kind)
	}
	if !r.Matches(value) {
		return Token{}, fmt.Errorf("token: %s does not accept %q", kind, value)
	}
	return Token{Kind: kind, Value: value, Pos: pos}, nil
}

// IsKeyword reports whether the token's kind is a literal keyword or punctuation.
func (t Token) IsKeyword() bool { return t.Kind.IsKeyword() }

// Equal compares kind and value; positions are ignored.
func (t Token) Equal(other Token) bool {
	return t.Kind == other.Kind && t.Value == other.Value
}

func (t Token) String() string {
	if t.Kind.IsKeyword() {
		return t.Kind.String()
	}
	return fmt.Sprintf("%s(%q)", t.Kind, t.Value)
}
