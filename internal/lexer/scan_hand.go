package lexer

import (
	"strings"

	"pico/internal/source"
)

type handScanner struct {
	src     *source.CharSource
	content []byte
}

func newHandScanner(file *source.File) *handScanner {
	return &handScanner{src: source.NewCharSource(file), content: file.Content}
}

func (s *handScanner) Scan() (Lexeme, bool) {
	first, err := s.src.Read()
	if err != nil {
		return Lexeme{}, false
	}

	var sb strings.Builder
	// исходные байты: некорректный UTF-8 не превращается в U+FFFD
	sb.Write(s.content[first.Pos.Offset : first.Pos.Offset+first.Size])
	last := first

	switch r := first.Rune; {
	case isLower(r):
		s.takeWhile(&sb, &last, isIdentContinue)
	case r >= '1' && r <= '9':
		s.takeWhile(&sb, &last, isDigit)
	case r == ':':
		// ":=" только если '=' идёт сразу за ':'
		s.takeOne(&sb, &last, '=')
	}
	// '0' и прочие одиночные символы остаются лексемой из одного символа

	return Lexeme{Text: sb.String(), Pos: first.Pos}, true
}

func (s *handScanner) End() source.Position {
	return s.src.Pos()
}

// takeWhile extends the lexeme with characters that directly follow last.
// A skipped blank ends the lexeme even if the next character would fit.
func (s *handScanner) takeWhile(sb *strings.Builder, last *source.Char, pred func(rune) bool) {
	for {
		c, err := s.src.Peek()
		if err != nil || !last.Adjacent(c) || !pred(c.Rune) {
			return
		}
		_, _ = s.src.Read()
		sb.WriteRune(c.Rune)
		*last = c
	}
}

func (s *handScanner) takeOne(sb *strings.Builder, last *source.Char, want rune) {
	s.takeWhile(sb, last, func(r rune) bool {
		if r != want {
			return false
		}
		want = -1
		return true
	})
}
