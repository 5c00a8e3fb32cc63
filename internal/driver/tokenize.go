package driver

import (
	"context"
	"io"
	"time"

	"pico/internal/diag"
	"pico/internal/fault"
	"pico/internal/lexer"
	"pico/internal/source"
	"pico/internal/token"
	"pico/internal/trace"
)

// TokenizeResult holds the tokens of one file up to the first bad lexeme.
type TokenizeResult struct {
	FileSet *source.FileSet
	FileID  source.FileID
	Tokens  []token.Token
	Err     *fault.Error
	Bag     *diag.Bag
}

// Tokenize loads path and tokenizes it.
func Tokenize(ctx context.Context, path string, opts Options) (*TokenizeResult, error) {
	fileSet := source.NewFileSet()
	load := opts.Timer.Begin("load")
	id, err := fileSet.Load(path)
	opts.Timer.End(load, "")
	if err != nil {
		return nil, err
	}
	return tokenizeFile(ctx, fileSet, id, opts)
}

// TokenizeReader tokenizes a program read from r.
func TokenizeReader(ctx context.Context, name string, r io.Reader, opts Options) (*TokenizeResult, error) {
	fileSet := source.NewFileSet()
	id, err := fileSet.LoadReader(name, r)
	if err != nil {
		return nil, err
	}
	return tokenizeFile(ctx, fileSet, id, opts)
}

func tokenizeFile(ctx context.Context, fileSet *source.FileSet, id source.FileID, opts Options) (*TokenizeResult, error) {
	file := fileSet.Get(id)
	span := trace.Begin(trace.FromContext(ctx), trace.ScopePhase, "tokenize", trace.ParentFrom(ctx)).
		WithExtra("file", file.Path)
	defer span.End("")

	started := time.Now()
	tz, err := lexer.New(file, lexer.Options{Engine: opts.Engine})
	if err != nil {
		return nil, err
	}
	tokens, err := lexer.Drain(tz)
	opts.Timer.Record("tokenize", time.Since(started), "")

	res := &TokenizeResult{FileSet: fileSet, FileID: id, Tokens: tokens, Bag: diag.NewBag(opts.MaxDiagnostics)}
	if err != nil {
		fe, ok := fault.As(err)
		if !ok {
			return nil, err
		}
		res.Err = fe
		reportFault(&diag.BagReporter{Bag: res.Bag}, file, fe)
	}
	if opts.Timings && opts.Timer != nil {
		report := opts.Timer.Report()
		appendTimingDiagnostic(res.Bag, timingPayload{Kind: "tokenize", Files: 1, TotalMS: report.TotalMS, Phases: report.Phases})
	}
	return res, nil
}
