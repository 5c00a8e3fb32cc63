package source

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"
)

// ErrEndOfInput is returned by CharSource once every character was consumed.
// It is a signal, never a character value.
var ErrEndOfInput = errors.New("end of input")

// Char is one significant character together with where it was found.
type Char struct {
	Rune rune
	Pos  Position
	Size uint32 // encoded width in bytes
}

// Next returns the offset right after c.
func (c Char) Next() uint32 {
	return c.Pos.Offset + c.Size
}

// Adjacent reports whether next follows c with nothing skipped in between.
func (c Char) Adjacent(next Char) bool {
	return c.Next() == next.Pos.Offset
}

// IsBlank reports whether r is insignificant for the scanner.
func IsBlank(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

// CharSource exposes a position-tracked, blank-skipping single character
// lookahead over a file. It is owned by exactly one consumer and is not
// safe for concurrent use.
type CharSource struct {
	content []byte
	limit   uint32
	pos     Position // позиция первого ещё не прочитанного байта
}

// NewCharSource creates a source positioned at the start of f.
func NewCharSource(f *File) *CharSource {
	return newCharSource(f.Content)
}

func newCharSource(content []byte) *CharSource {
	limit, err := safecast.Conv[uint32](len(content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return &CharSource{
		content: content,
		limit:   limit,
		pos:     StartPosition(),
	}
}

// Pos returns the position of the next unread byte, blanks included.
func (s *CharSource) Pos() Position {
	return s.pos
}

// Peek returns the next significant character without consuming it.
// Repeated calls return the same Char until Read is called.
func (s *CharSource) Peek() (Char, error) {
	s.skipBlanks()
	if s.pos.Offset >= s.limit {
		return Char{}, ErrEndOfInput
	}
	r, size := s.decode()
	return Char{Rune: r, Pos: s.pos, Size: size}, nil
}

// Read consumes and returns the next significant character.
func (s *CharSource) Read() (Char, error) {
	c, err := s.Peek()
	if err != nil {
		return Char{}, err
	}
	s.pos = s.pos.advance(c.Rune, c.Size)
	return c, nil
}

func (s *CharSource) skipBlanks() {
	for s.pos.Offset < s.limit {
		r, size := s.decode()
		if !IsBlank(r) {
			return
		}
		s.pos = s.pos.advance(r, size)
	}
}

func (s *CharSource) decode() (rune, uint32) {
	b := s.content[s.pos.Offset]
	if b < utf8.RuneSelf {
		return rune(b), 1
	}
	r, size := utf8.DecodeRune(s.content[s.pos.Offset:])
	return r, uint32(size) //nolint:gosec // size <= utf8.UTFMax
}
