// Package parser recognizes Pico programs by recursive descent.
// It answers one question, whether the input conforms, and reports the first
// failure with its position. No tree is built.
package parser

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"pico/internal/lexer"
	"pico/internal/source"
	"pico/internal/trace"
)

// ErrReused is returned by a second Recognize call on the same Recognizer.
var ErrReused = errors.New("recognizer already used")

type Options struct {
	Engine lexer.Engine
	Tracer trace.Tracer // rule spans are emitted at trace.LevelDebug
	Parent uint64       // span the rule spans hang off
}

// Recognizer: состояние одной попытки распознавания
type Recognizer struct {
	tz     *lexer.Tokenizer
	tracer trace.Tracer
	parent uint64
	used   atomic.Bool
}

// New wraps an existing tokenizer. The tokenizer must not be shared.
func New(tz *lexer.Tokenizer, opts Options) *Recognizer {
	p := &Recognizer{tz: tz, parent: opts.Parent}
	if opts.Tracer != nil && opts.Tracer.Level().ShouldEmit(trace.ScopeRule) {
		p.tracer = opts.Tracer
	}
	return p
}

// FromFile recognizes an already loaded file.
func FromFile(file *source.File, opts Options) (*Recognizer, error) {
	tz, err := lexer.New(file, lexer.Options{Engine: opts.Engine})
	if err != nil {
		return nil, err
	}
	return New(tz, opts), nil
}

// FromString recognizes program text held in memory. The text goes through
// the same decoding as a byte stream.
func FromString(text string, opts Options) (*Recognizer, error) {
	return FromReader("<string>", strings.NewReader(text), opts)
}

// FromReader decodes r the same way files are decoded, so it accepts
// exactly what FromString accepts for the same characters.
func FromReader(name string, r io.Reader, opts Options) (*Recognizer, error) {
	fs := source.NewFileSet()
	id, err := fs.LoadReader(name, r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return FromFile(fs.Get(id), opts)
}

// Recognize runs the single pass. It returns nil when the whole input is a
// program, otherwise the first *fault.Error met.
func (p *Recognizer) Recognize() error {
	if !p.used.CompareAndSwap(false, true) {
		return ErrReused
	}
	if err := p.program(); err != nil {
		return err
	}
	return p.exhausted()
}
