// Package fault holds the typed failures raised while recognizing a program.
// Every failure carries the data needed to render it; nothing is formatted
// until Error is called.
package fault

import (
	"errors"
	"fmt"
	"strings"

	"pico/internal/source"
	"pico/internal/token"
)

// Kind classifies a recognition failure.
type Kind uint8

const (
	// KindNoMatchingLexeme - a lexeme satisfies no catalog rule.
	KindNoMatchingLexeme Kind = iota + 1
	// KindNoSuchToken - a token was requested after the last one.
	KindNoSuchToken
	// KindMismatch - the grammar expected a different token kind.
	KindMismatch
	// KindTrailingInput - tokens remain after the closing "end".
	KindTrailingInput
)

func (k Kind) String() string {
	switch k {
	case KindNoMatchingLexeme:
		return "NoMatchingLexeme"
	case KindNoSuchToken:
		return "NoSuchToken"
	case KindMismatch:
		return "Mismatch"
	case KindTrailingInput:
		return "TrailingInput"
	default:
		return "Unknown"
	}
}

// Sentinels for errors.Is.
var (
	ErrNoMatchingLexeme = errors.New("no matching lexeme")
	ErrNoSuchToken      = errors.New("no such token")
	ErrMismatch         = errors.New("token mismatch")
	ErrTrailingInput    = errors.New("trailing input")
)

// Error is the single failure type surfaced by the lexer and the parser.
type Error struct {
	Kind     Kind
	Expected token.Kind   // KindMismatch only
	OneOf    []token.Kind // KindMismatch at a choice point; Expected is Invalid then
	Actual   token.Kind   // KindMismatch, KindTrailingInput
	Lexeme   string       // KindNoMatchingLexeme and the offending token value otherwise
	Pos      source.Position
}

// NoMatchingLexeme reports a lexeme outside the catalog.
func NoMatchingLexeme(lexeme string, pos source.Position) *Error {
	return &Error{Kind: KindNoMatchingLexeme, Lexeme: lexeme, Pos: pos}
}

// NoSuchToken reports a read past the last token; pos is the end of input.
func NoSuchToken(pos source.Position) *Error {
	return &Error{Kind: KindNoSuchToken, Pos: pos}
}

// Mismatch reports that tok was found where expected was required.
func Mismatch(expected token.Kind, tok token.Token) *Error {
	return &Error{Kind: KindMismatch, Expected: expected, Actual: tok.Kind, Lexeme: tok.Value, Pos: tok.Pos}
}

// MismatchOneOf reports that tok starts none of the alternatives.
func MismatchOneOf(alternatives []token.Kind, tok token.Token) *Error {
	return &Error{Kind: KindMismatch, OneOf: alternatives, Actual: tok.Kind, Lexeme: tok.Value, Pos: tok.Pos}
}

// TrailingInput reports a token left over after the program ended.
func TrailingInput(tok token.Token) *Error {
	return &Error{Kind: KindTrailingInput, Actual: tok.Kind, Lexeme: tok.Value, Pos: tok.Pos}
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNoMatchingLexeme:
		return fmt.Sprintf("There is no token that matches the value %q at %s", e.Lexeme, e.Pos)
	case KindNoSuchToken:
		return fmt.Sprintf("No more tokens to read at %s", e.Pos)
	case KindMismatch:
		if len(e.OneOf) > 0 {
			return fmt.Sprintf("Expected one of %s but received %s at %s", joinKinds(e.OneOf), e.Actual, e.Pos)
		}
		return fmt.Sprintf("Expected %s but received %s at %s", e.Expected, e.Actual, e.Pos)
	case KindTrailingInput:
		return fmt.Sprintf("Unexpected %s after end of program at %s", e.Actual, e.Pos)
	default:
		return fmt.Sprintf("recognition failed at %s", e.Pos)
	}
}

// Is matches the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNoMatchingLexeme:
		return e.Kind == KindNoMatchingLexeme
	case ErrNoSuchToken:
		return e.Kind == KindNoSuchToken
	case ErrMismatch:
		return e.Kind == KindMismatch
	case ErrTrailingInput:
		return e.Kind == KindTrailingInput
	}
	return false
}

// As extracts a *Error from err's chain.
func As(err error) (*Error, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

func joinKinds(kinds []token.Kind) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return strings.Join(names, ", ")
}
