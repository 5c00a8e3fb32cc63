package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"pico/internal/diag"
	"pico/internal/fault"
	"pico/internal/lexer"
	"pico/internal/observ"
	"pico/internal/parser"
	"pico/internal/source"
	"pico/internal/trace"
)

// DefaultExtension is the suffix of program files picked up from directories.
const DefaultExtension = ".pico"

// Options configure a check run. The zero value checks with the hand engine,
// no cache and one worker per CPU.
type Options struct {
	Engine         lexer.Engine
	MaxDiagnostics int    // per file; 0 = unlimited
	Jobs           int    // 0 = GOMAXPROCS
	Extension      string // for directory walks
	Cache          *DiskCache
	Progress       ProgressSink
	Timer          *observ.Timer
	Timings        bool // append an OBS6001 record to the result bag
}

// FileResult is the verdict for one file.
type FileResult struct {
	Path     string
	FileID   source.FileID
	Accepted bool
	Cached   bool
	Err      *fault.Error // first failure; nil when accepted or not loaded
	LoadErr  error        // the file was never recognized
	Bag      *diag.Bag
}

// CheckResult collects the verdicts of a run in input order.
type CheckResult struct {
	FileSet *source.FileSet
	Files   []FileResult
	Bag     *diag.Bag // per-file bags merged in input order
}

// Rejected counts files that are not programs or could not be read.
func (r *CheckResult) Rejected() int {
	n := 0
	for i := range r.Files {
		if !r.Files[i].Accepted {
			n++
		}
	}
	return n
}

// OK reports whether every file was accepted.
func (r *CheckResult) OK() bool {
	return r.Rejected() == 0
}

// ListFiles returns the sorted files under dir with the given extension.
func ListFiles(dir, ext string) ([]string, error) {
	if ext == "" {
		ext = DefaultExtension
	}
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// Check checks a single file, or every program file under a directory.
func Check(ctx context.Context, path string, opts Options) (*CheckResult, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !st.IsDir() {
		return CheckPaths(ctx, []string{path}, "", opts)
	}
	files, err := ListFiles(path, opts.Extension)
	if err != nil {
		return nil, err
	}
	return CheckPaths(ctx, files, path, opts)
}

// CheckReader checks a program read from r, typically stdin.
func CheckReader(ctx context.Context, name string, r io.Reader, opts Options) (*CheckResult, error) {
	fileSet := source.NewFileSet()
	load := opts.Timer.Begin("load")
	id, err := fileSet.LoadReader(name, r)
	opts.Timer.End(load, "")
	if err != nil {
		return nil, err
	}
	res := &CheckResult{FileSet: fileSet, Files: make([]FileResult, 1)}
	res.Files[0] = checkFile(ctx, fileSet, id, name, opts)
	res.finish(opts)
	return res, nil
}

// CheckPaths checks files in parallel. baseDir only affects how paths are
// rendered; empty means the working directory. A file that cannot be read
// is rejected with an IO diagnostic and does not stop the run.
func CheckPaths(ctx context.Context, paths []string, baseDir string, opts Options) (*CheckResult, error) {
	tracer := trace.FromContext(ctx)
	runSpan := trace.Begin(tracer, trace.ScopeDriver, "check", trace.ParentFrom(ctx)).
		WithExtra("files", fmt.Sprint(len(paths))).
		WithExtra("engine", opts.Engine.String())
	defer runSpan.End("")
	ctx = trace.WithParent(ctx, runSpan)

	fileSet := source.NewFileSetWithBase(baseDir)
	res := &CheckResult{FileSet: fileSet, Files: make([]FileResult, len(paths))}
	if len(paths) == 0 {
		res.finish(opts)
		return res, nil
	}

	for _, p := range paths {
		emit(opts.Progress, Event{File: p, Stage: StageLoad, Status: StatusQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			res.Files[i] = loadAndCheck(gctx, fileSet, path, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	res.finish(opts)
	return res, nil
}

func loadAndCheck(ctx context.Context, fileSet *source.FileSet, path string, opts Options) FileResult {
	emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusWorking})
	load := opts.Timer.Begin("load")
	id, err := fileSet.Load(path)
	opts.Timer.End(load, "")
	if err != nil {
		return loadFailure(fileSet, path, err, opts)
	}
	return checkFile(ctx, fileSet, id, path, opts)
}

// loadFailure registers an empty virtual file so the IO diagnostic has a
// span that renders with the requested path.
func loadFailure(fileSet *source.FileSet, path string, err error, opts Options) FileResult {
	id := fileSet.AddVirtual(path, nil)
	bag := diag.NewBag(opts.MaxDiagnostics)
	msg := fmt.Sprintf("failed to load %s: %v", path, err)
	if errors.Is(err, fs.ErrNotExist) {
		msg = fmt.Sprintf("file not found: %s", path)
	}
	bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: id}, msg))
	emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: err})
	return FileResult{Path: path, FileID: id, LoadErr: err, Bag: bag}
}

func checkFile(ctx context.Context, fileSet *source.FileSet, id source.FileID, path string, opts Options) FileResult {
	tracer := trace.FromContext(ctx)
	file := fileSet.Get(id)
	fileSpan := trace.Begin(tracer, trace.ScopeFile, path, trace.ParentFrom(ctx))
	started := time.Now()

	result := FileResult{Path: path, FileID: id, Bag: diag.NewBag(opts.MaxDiagnostics)}
	key := VerdictKey(file.Hash, opts.Engine)

	var cached Verdict
	if hit, err := opts.Cache.Get(key, &cached); err == nil && hit {
		result.Cached = true
		result.Err = cached.Err()
		trace.Point(tracer, trace.ScopePhase, "cache", "hit", fileSpan.ID())
	} else {
		emit(opts.Progress, Event{File: path, Stage: StageRecognize, Status: StatusWorking})
		fe, err := recognize(tracer, file, fileSpan, opts)
		if err != nil {
			result.LoadErr = err
			result.Bag.Add(diag.NewError(diag.UnknownCode, source.Span{File: id}, err.Error()))
			fileSpan.End(err.Error())
			emit(opts.Progress, Event{File: path, Stage: StageRecognize, Status: StatusError, Err: err})
			return result
		}
		result.Err = fe
		if err := opts.Cache.Put(key, verdictFromError(opts.Engine, fe)); err != nil {
			trace.Point(tracer, trace.ScopePhase, "cache", "put failed: "+err.Error(), fileSpan.ID())
		}
	}

	result.Accepted = result.Err == nil
	if !result.Accepted {
		reportFault(&diag.BagReporter{Bag: result.Bag}, file, result.Err)
	}

	status := StatusAccepted
	if !result.Accepted {
		status = StatusRejected
	}
	elapsed := time.Since(started)
	fileSpan.WithExtra("status", string(status)).End("")
	emit(opts.Progress, Event{File: path, Stage: StageRecognize, Status: status, Cached: result.Cached, Err: errOrNil(result.Err), Elapsed: elapsed})
	return result
}

// recognize returns the first failure of file, or a non-nil error when the
// recognizer could not be set up at all.
func recognize(tracer trace.Tracer, file *source.File, fileSpan *trace.Span, opts Options) (*fault.Error, error) {
	phase := trace.Begin(tracer, trace.ScopePhase, "recognize", fileSpan.ID())
	started := time.Now()
	defer func() {
		opts.Timer.Record("recognize", time.Since(started), "")
	}()

	defer phase.End("")

	rec, err := parser.FromFile(file, parser.Options{Engine: opts.Engine, Tracer: tracer, Parent: phase.ID()})
	if err != nil {
		return nil, err
	}
	err = rec.Recognize()
	if err == nil {
		return nil, nil
	}
	if fe, ok := fault.As(err); ok {
		return fe, nil
	}
	return nil, err
}

// errOrNil keeps a typed nil out of the error interface.
func errOrNil(fe *fault.Error) error {
	if fe == nil {
		return nil
	}
	return fe
}

func (r *CheckResult) finish(opts Options) {
	r.Bag = diag.NewBag(0)
	for i := range r.Files {
		r.Bag.Merge(r.Files[i].Bag)
	}
	if opts.Timings && opts.Timer != nil {
		report := opts.Timer.Report()
		appendTimingDiagnostic(r.Bag, timingPayload{Files: len(r.Files), TotalMS: report.TotalMS, Phases: report.Phases})
	}
}
