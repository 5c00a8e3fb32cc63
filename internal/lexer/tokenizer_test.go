package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pico/internal/fault"
	"pico/internal/lexer"
	"pico/internal/source"
	"pico/internal/testkit"
	"pico/internal/token"
)

var engines = []lexer.Engine{lexer.EngineHand, lexer.EngineAutomaton}

func newTokenizer(t *testing.T, text string, engine lexer.Engine) *lexer.Tokenizer {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddString("test.pico", text))
	tz, err := lexer.New(file, lexer.Options{Engine: engine})
	require.NoError(t, err)
	return tz
}

// kindsAndValues drains the tokenizer and flattens the result for comparison.
func kindsAndValues(t *testing.T, text string, engine lexer.Engine) ([]string, error) {
	t.Helper()
	toks, err := lexer.Drain(newTokenizer(t, text, engine))
	out := make([]string, 0, len(toks))
	for _, tok := range toks {
		out = append(out, tok.Kind.String()+":"+tok.Value)
	}
	return out, err
}

func TestTokenizeSmallProgram(t *testing.T) {
	want := []string{
		"BEGIN:begin", "DECLARE:declare", "IDENTIFIER:x", "DECLARATION_END:,",
		"DECLARATIONS_END:|", "IDENTIFIER:x", "ASSIGN::=", "NATNUMBER:1",
		"STATEMENT_END:;", "END:end",
	}
	for _, engine := range engines {
		t.Run(engine.String(), func(t *testing.T) {
			got, err := kindsAndValues(t, "begin declare x, | x := 1; end", engine)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestMaximalMunch(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"number then ident", "1x", []string{"NATNUMBER:1", "IDENTIFIER:x"}},
		{"leading zero splits", "007", []string{"NATNUMBER:0", "NATNUMBER:0", "NATNUMBER:7"}},
		{"keyword prefix is ident", "beginend", []string{"IDENTIFIER:beginend"}},
		{"keyword then digits", "end1", []string{"IDENTIFIER:end1"}},
		{"blank splits ident", "be gin", []string{"IDENTIFIER:be", "IDENTIFIER:gin"}},
		{"assign glued", "x:=(y)", []string{"IDENTIFIER:x", "ASSIGN::=", "OPEN:(", "IDENTIFIER:y", "CLOSE:)"}},
		{"operators", "-a+b*c", []string{"MINUS:-", "IDENTIFIER:a", "ADD:+", "IDENTIFIER:b", "MULTIPLY:*", "IDENTIFIER:c"}},
		{"separators", ",|;", []string{"DECLARATION_END:,", "DECLARATIONS_END:|", "STATEMENT_END:;"}},
		{"only blanks", " \t\r\n\f\v ", []string{}},
		{"empty", "", []string{}},
	}
	for _, tc := range cases {
		for _, engine := range engines {
			t.Run(tc.name+"/"+engine.String(), func(t *testing.T) {
				got, err := kindsAndValues(t, tc.in, engine)
				require.NoError(t, err)
				assert.Equal(t, tc.want, got)
			})
		}
	}
}

func TestUnmatchedLexeme(t *testing.T) {
	cases := []struct {
		in     string
		lexeme string
		pos    string
		before int
	}{
		{"x # y", "#", "1:3", 1},
		{"a: =", ":", "1:2", 1},
		{"X", "X", "1:1", 0},
		{"ab\n é", "é", "2:2", 1},
		{"x := \xff;", "\xff", "1:6", 2},
	}
	for _, tc := range cases {
		for _, engine := range engines {
			t.Run(tc.in+"/"+engine.String(), func(t *testing.T) {
				got, err := kindsAndValues(t, tc.in, engine)
				require.ErrorIs(t, err, fault.ErrNoMatchingLexeme)
				fe, ok := fault.As(err)
				require.True(t, ok)
				assert.Equal(t, tc.lexeme, fe.Lexeme)
				assert.Equal(t, tc.pos, fe.Pos.String())
				assert.Len(t, got, tc.before)
			})
		}
	}
}

func TestPeekIsIdempotent(t *testing.T) {
	tz := newTokenizer(t, "declare x", lexer.EngineHand)
	a, err := tz.Peek()
	require.NoError(t, err)
	b, err := tz.Peek()
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, token.Declare, a.Kind)

	n, err := tz.Next()
	require.NoError(t, err)
	assert.Equal(t, a, n)

	p, err := tz.Peek()
	require.NoError(t, err)
	assert.Equal(t, token.Identifier, p.Kind)
}

func TestFailedNextKeepsBuffer(t *testing.T) {
	tz := newTokenizer(t, "? x", lexer.EngineHand)
	_, err := tz.Next()
	require.ErrorIs(t, err, fault.ErrNoMatchingLexeme)
	_, err = tz.Next()
	require.ErrorIs(t, err, fault.ErrNoMatchingLexeme)
	assert.False(t, tz.Done())
}

func TestNoSuchTokenAtEnd(t *testing.T) {
	for _, engine := range engines {
		t.Run(engine.String(), func(t *testing.T) {
			tz := newTokenizer(t, "end\n  ", engine)
			tok, err := tz.Next()
			require.NoError(t, err)
			assert.Equal(t, token.End, tok.Kind)
			assert.True(t, tz.Done())

			_, err = tz.Next()
			require.ErrorIs(t, err, fault.ErrNoSuchToken)
			fe, _ := fault.As(err)
			assert.Equal(t, "2:3", fe.Pos.String())

			_, err = tz.Peek()
			require.ErrorIs(t, err, fault.ErrNoSuchToken)
		})
	}
}

func TestPositionsAcrossLines(t *testing.T) {
	src := "begin\n  declare\tx ,\n|end"
	for _, engine := range engines {
		t.Run(engine.String(), func(t *testing.T) {
			toks, err := lexer.Drain(newTokenizer(t, src, engine))
			require.NoError(t, err)
			got := make([]string, 0, len(toks))
			for _, tok := range toks {
				got = append(got, tok.Pos.String())
			}
			assert.Equal(t, []string{"1:1", "2:3", "2:11", "2:13", "3:1", "3:2"}, got)
			assert.Equal(t, uint32(8), toks[1].Pos.Offset)
		})
	}
}

func TestEnginesAgree(t *testing.T) {
	inputs := []string{
		"begin declare a1, b2, | a1 := (b2 + 3) * -4; b2 := 0; end",
		"begin declare 1x, | end",
		"begin\r\ndeclare x,|x:=x*x*x+0;end",
		"a := := :=: ::= 10203 0x 9z",
		"ÿ€ begin",
		"end end end",
	}
	for _, in := range inputs {
		hand, herr := kindsAndValues(t, in, lexer.EngineHand)
		auto, aerr := kindsAndValues(t, in, lexer.EngineAutomaton)
		assert.Equal(t, hand, auto, in)
		assert.Equal(t, herr, aerr, in)
	}
}

func TestParseEngine(t *testing.T) {
	e, err := lexer.ParseEngine("Automaton")
	require.NoError(t, err)
	assert.Equal(t, lexer.EngineAutomaton, e)

	e, err = lexer.ParseEngine("")
	require.NoError(t, err)
	assert.Equal(t, lexer.EngineHand, e)

	_, err = lexer.ParseEngine("regex")
	require.Error(t, err)
}

func TestTokenStreamInvariants(t *testing.T) {
	text := "begin\n\tdeclare é1, x2, |\r\n  x2 := (x2+10)*-0;\nend  \n"
	fs := source.NewFileSet()
	file := fs.Get(fs.AddString("inv.pico", text))
	for _, engine := range engines {
		tz, err := lexer.New(file, lexer.Options{Engine: engine})
		require.NoError(t, err)
		toks, err := lexer.Drain(tz)
		// 'é' не входит ни в одно правило
		require.ErrorIs(t, err, fault.ErrNoMatchingLexeme)
		require.NotEmpty(t, toks)
		assert.NoError(t, testkit.CheckTokenInvariants(file, toks), engine.String())
	}
}
