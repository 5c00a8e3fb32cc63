package lexer

import (
	"fmt"
	"strings"
)

// Engine selects how lexeme boundaries are found.
// Both engines produce the same lexemes for every input.
type Engine uint8

const (
	// EngineHand scans character by character over a source.CharSource.
	EngineHand Engine = iota
	// EngineAutomaton runs a DFA compiled from the token catalog.
	EngineAutomaton
)

func (e Engine) String() string {
	switch e {
	case EngineHand:
		return "hand"
	case EngineAutomaton:
		return "automaton"
	default:
		return fmt.Sprintf("engine(%d)", uint8(e))
	}
}

// ParseEngine maps a flag or manifest value to an Engine.
func ParseEngine(s string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "hand":
		return EngineHand, nil
	case "automaton", "dfa":
		return EngineAutomaton, nil
	default:
		return EngineHand, fmt.Errorf("unknown engine %q (want hand|automaton)", s)
	}
}

type Options struct {
	Engine Engine
}
