package fault

import (
	"errors"
	"fmt"
	"testing"

	"pico/internal/source"
	"pico/internal/token"
)

func TestMessages(t *testing.T) {
	pos := source.Position{Line: 1, Column: 27, Offset: 26}
	end := token.Token{Kind: token.End, Value: "end", Pos: pos}
	num := token.Token{Kind: token.NatNumber, Value: "1", Pos: pos}

	cases := []struct {
		err  *Error
		want string
	}{
		{Mismatch(token.StatementEnd, end), "Expected STATEMENT_END but received END at 1:27"},
		{NoMatchingLexeme("#", pos), `There is no token that matches the value "#" at 1:27`},
		{NoMatchingLexeme("\xff", pos), `There is no token that matches the value "\xff" at 1:27`},
		{NoSuchToken(pos), "No more tokens to read at 1:27"},
		{
			MismatchOneOf([]token.Kind{token.Open, token.Identifier}, end),
			"Expected one of OPEN, IDENTIFIER but received END at 1:27",
		},
		{TrailingInput(num), "Unexpected NATNUMBER after end of program at 1:27"},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Errorf("got %q, want %q", got, tc.want)
		}
	}
}

func TestIsAndAs(t *testing.T) {
	err := fmt.Errorf("check a.pico: %w", NoSuchToken(source.StartPosition()))
	if !errors.Is(err, ErrNoSuchToken) {
		t.Fatalf("expected ErrNoSuchToken in chain")
	}
	if errors.Is(err, ErrMismatch) {
		t.Fatalf("NoSuchToken must not match ErrMismatch")
	}
	fe, ok := As(err)
	if !ok || fe.Kind != KindNoSuchToken {
		t.Fatalf("As failed: %v %v", fe, ok)
	}
	if _, ok := As(errors.New("plain")); ok {
		t.Fatalf("plain error must not convert")
	}
}
