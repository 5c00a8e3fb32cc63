package lexer

import (
	"pico/internal/source"
)

// Lexeme is a raw slice of input whose kind has not been resolved yet.
type Lexeme struct {
	Text string
	Pos  source.Position
}

// Scanner yields lexemes by maximal munch.
// Scan returns false once the input holds no more significant characters;
// End is then the position right after the last character of the input.
type Scanner interface {
	Scan() (Lexeme, bool)
	End() source.Position
}

// NewScanner builds the scanner for the requested engine.
func NewScanner(file *source.File, engine Engine) (Scanner, error) {
	switch engine {
	case EngineAutomaton:
		return newAutomatonScanner(file)
	default:
		return newHandScanner(file), nil
	}
}

func isLower(r rune) bool { return r >= 'a' && r <= 'z' }

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentContinue(r rune) bool { return isLower(r) || isDigit(r) }
