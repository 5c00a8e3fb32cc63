package lexer

import (
	"errors"

	"pico/internal/fault"
	"pico/internal/source"
	"pico/internal/token"
)

type slot struct {
	lex Lexeme
	ok  bool
}

// Tokenizer buffers exactly two lexemes, current and next.
// Only current is ever classified, and its kind is cached until the buffer
// shifts. A Tokenizer is not safe for concurrent use.
type Tokenizer struct {
	file    *source.File
	scanner Scanner

	current slot
	next    slot

	kind     token.Kind
	resolved bool
}

// New creates a tokenizer over file and fills both buffer slots.
func New(file *source.File, opts Options) (*Tokenizer, error) {
	sc, err := NewScanner(file, opts.Engine)
	if err != nil {
		return nil, err
	}
	return NewFromScanner(file, sc), nil
}

// NewFromScanner wraps an already constructed scanner.
func NewFromScanner(file *source.File, sc Scanner) *Tokenizer {
	tz := &Tokenizer{file: file, scanner: sc}
	tz.current = tz.scan()
	tz.next = tz.scan()
	return tz
}

func (tz *Tokenizer) scan() slot {
	l, ok := tz.scanner.Scan()
	return slot{lex: l, ok: ok}
}

// File returns the file being tokenized.
func (tz *Tokenizer) File() *source.File { return tz.file }

// Peek classifies the current lexeme without consuming it.
func (tz *Tokenizer) Peek() (token.Token, error) {
	if !tz.current.ok {
		return token.Token{}, fault.NoSuchToken(tz.scanner.End())
	}
	if !tz.resolved {
		k, ok := token.Resolve(tz.current.lex.Text)
		if !ok {
			return token.Token{}, fault.NoMatchingLexeme(tz.current.lex.Text, tz.current.lex.Pos)
		}
		tz.kind = k
		tz.resolved = true
	}
	return token.Token{Kind: tz.kind, Value: tz.current.lex.Text, Pos: tz.current.lex.Pos}, nil
}

// Next returns the current token and shifts the buffer.
// On error the buffer is left as it was.
func (tz *Tokenizer) Next() (token.Token, error) {
	tok, err := tz.Peek()
	if err != nil {
		return token.Token{}, err
	}
	tz.current = tz.next
	tz.next = tz.scan()
	tz.resolved = false
	return tok, nil
}

// Done reports whether every token was consumed.
func (tz *Tokenizer) Done() bool { return !tz.current.ok }

// Drain reads tokens until the input is exhausted or a lexeme fails to
// classify. The tokens read before the failure are returned with it.
func Drain(tz *Tokenizer) ([]token.Token, error) {
	var out []token.Token
	for {
		tok, err := tz.Next()
		if errors.Is(err, fault.ErrNoSuchToken) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, tok)
	}
}
