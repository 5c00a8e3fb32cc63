// Package testkit holds checks shared by tests and fuzz harnesses.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"pico/internal/source"
	"pico/internal/token"
)

// CheckTokenInvariants runs the invariants every token stream of a file must
// satisfy:
// 1) each token's value is the exact slice of content at its offset
// 2) offsets strictly increase and tokens never overlap
// 3) the recorded line and column agree with file.Position(offset)
// 4) the value matches the catalog rule of the token's kind
func CheckTokenInvariants(file *source.File, tokens []token.Token) error {
	if file == nil {
		return fmt.Errorf("nil file")
	}
	lenContent, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var prevEnd uint32
	for i, tok := range tokens {
		size, err := safecast.Conv[uint32](len(tok.Value))
		if err != nil {
			return fmt.Errorf("token %d: len value overflow: %w", i, err)
		}
		start := tok.Pos.Offset
		end := start + size
		if size == 0 {
			return fmt.Errorf("token %d (%s) is empty", i, tok.Kind)
		}
		if end > lenContent {
			return fmt.Errorf("token %d (%s) ends beyond content: %d > %d", i, tok.Kind, end, lenContent)
		}
		if got := string(file.Content[start:end]); got != tok.Value {
			return fmt.Errorf("token %d value %q differs from content %q at offset %d", i, tok.Value, got, start)
		}
		if i > 0 && start < prevEnd {
			return fmt.Errorf("token %d at offset %d overlaps previous token ending at %d", i, start, prevEnd)
		}
		if want := file.Position(start); want != tok.Pos {
			return fmt.Errorf("token %d position %s (offset %d), want %s", i, tok.Pos, start, want)
		}
		if rule, ok := tok.Kind.Rule(); !ok || !rule.Matches(tok.Value) {
			return fmt.Errorf("token %d value %q does not match %s", i, tok.Value, tok.Kind)
		}
		prevEnd = end
	}
	return nil
}
