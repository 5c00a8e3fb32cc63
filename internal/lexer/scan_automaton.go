package lexer

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	lex "github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"

	"pico/internal/source"
	"pico/internal/token"
)

var (
	automatonOnce sync.Once
	automaton     *lex.Lexer
	automatonErr  error
)

// compiledAutomaton builds the DFA once per process.
// Rules are added in catalog order, so on equal match length the earlier
// rule wins, mirroring token.Resolve.
func compiledAutomaton() (*lex.Lexer, error) {
	automatonOnce.Do(func() {
		l := lex.NewLexer()
		l.Add([]byte("[ \t\n\r\f\v]+"), skip)
		for _, r := range token.Catalog() {
			pat := r.Repr
			if r.Keyword {
				pat = escapeLiteral(pat)
			}
			l.Add([]byte(pat), emit(r.Kind))
		}
		if err := l.Compile(); err != nil {
			automatonErr = fmt.Errorf("compile token automaton: %w", err)
			return
		}
		automaton = l
	})
	return automaton, automatonErr
}

func skip(*lex.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

func emit(k token.Kind) lex.Action {
	return func(s *lex.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(int(k), string(m.Bytes), m), nil
	}
}

func escapeLiteral(lit string) string {
	var sb strings.Builder
	for _, r := range lit {
		if strings.ContainsRune(`\|()[]*+?.^$`, r) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

type automatonScanner struct {
	file    *source.File
	scanner *lex.Scanner
	done    bool
}

func newAutomatonScanner(file *source.File) (*automatonScanner, error) {
	l, err := compiledAutomaton()
	if err != nil {
		return nil, err
	}
	sc, err := l.Scanner(file.Content)
	if err != nil {
		return nil, fmt.Errorf("start token automaton: %w", err)
	}
	return &automatonScanner{file: file, scanner: sc}, nil
}

func (s *automatonScanner) Scan() (Lexeme, bool) {
	if s.done {
		return Lexeme{}, false
	}
	tok, err, eos := s.scanner.Next()
	if eos {
		s.done = true
		return Lexeme{}, false
	}
	if err != nil {
		var ui *machines.UnconsumedInput
		if errors.As(err, &ui) {
			return s.unmatched(ui.StartTC)
		}
		// прочие ошибки автомата: отдаём символ одной лексемой, как ручной сканер
		return s.unmatched(s.scanner.TC)
	}
	t, ok := tok.(*lex.Token)
	if !ok {
		s.done = true
		return Lexeme{}, false
	}
	return Lexeme{Text: t.Value.(string), Pos: s.position(t.TC)}, true
}

func (s *automatonScanner) End() source.Position {
	return s.file.End()
}

// unmatched emits the single character at tc and resumes right after it.
func (s *automatonScanner) unmatched(tc int) (Lexeme, bool) {
	if tc >= len(s.file.Content) {
		s.done = true
		return Lexeme{}, false
	}
	_, size := utf8.DecodeRune(s.file.Content[tc:])
	s.scanner.TC = tc + size
	return Lexeme{Text: string(s.file.Content[tc : tc+size]), Pos: s.position(tc)}, true
}

func (s *automatonScanner) position(tc int) source.Position {
	return s.file.Position(uint32(tc)) //nolint:gosec // tc < len(content), bounded by source.Add
}
