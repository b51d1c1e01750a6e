package driver

import (
	"context"
	"fmt"
	"strconv"

	"sjtc/internal/emit"
	"sjtc/internal/include"
	"sjtc/internal/lexer"
	"sjtc/internal/observ"
	"sjtc/internal/source"
	"sjtc/internal/token"
	"sjtc/internal/trace"
	"sjtc/internal/validate"
)

// Result is a successful compile.
type Result struct {
	// Source is the generated render function.
	Source   string
	Expanded *include.Result
	Tokens   []token.Token
	Output   emit.Output
	Timer    *observ.Timer
}

// run carries the tracer span and timer shared by the phases of one file.
type run struct {
	opts   Options
	file   string
	tracer trace.Tracer
	span   *trace.Span
	timer  *observ.Timer
}

func newRun(ctx context.Context, name, file string, opts Options) *run {
	timer := opts.Timer
	if timer == nil {
		timer = observ.NewTimer()
	}
	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx).SpanID
	return &run{
		opts:   opts,
		file:   file,
		tracer: tracer,
		span:   trace.Begin(tracer, trace.ScopeDriver, name, parent).WithExtra("file", file),
		timer:  timer,
	}
}

// phase runs fn as one timed and traced step. fn returns a short note for
// the timing summary.
func (r *run) phase(name string, fn func(span uint64) (string, error)) error {
	r.opts.report(Event{File: r.file, Stage: Stage(name), Status: StatusWorking})
	idx := r.timer.Begin(name)
	sp := trace.Begin(r.tracer, trace.ScopePass, name, r.span.ID())
	note, err := fn(sp.ID())
	if err != nil {
		r.timer.End(idx, "failed")
		sp.End("error")
		return err
	}
	r.timer.End(idx, note)
	sp.End(note)
	return nil
}

func (r *run) finish(err error) {
	if err != nil {
		r.span.End(err.Error())
		return
	}
	r.span.End("ok")
}

func (r *run) expand(ctx context.Context, text, file string) (*include.Result, error) {
	var res *include.Result
	err := r.phase("expand", func(span uint64) (string, error) {
		var err error
		res, err = include.Expand(ctx, text, file, include.Options{Reader: r.opts.reader(), SpanID: span})
		if err != nil {
			return "", err
		}
		return strconv.Itoa(len(res.Included)) + " includes", nil
	})
	return res, err
}

func (r *run) tokenize(res *include.Result) ([]token.Token, error) {
	var toks []token.Token
	err := r.phase("tokenize", func(uint64) (string, error) {
		var err error
		toks, err = lexer.Tokenize(res, lexerOptions(r.opts.Config))
		if err != nil {
			return "", err
		}
		return strconv.Itoa(len(toks)) + " tokens", nil
	})
	return toks, err
}

// Compile turns template text into a render function. file is the identity
// of text, used to resolve includes and in diagnostics; it may be empty
// when text has no includes.
func Compile(ctx context.Context, text, file string, opts Options) (res *Result, err error) {
	if err = opts.Config.Validate(); err != nil {
		return nil, err
	}
	r := newRun(ctx, "compile", file, opts)
	defer func() { r.finish(err) }()

	res = &Result{Timer: r.timer}
	if res.Expanded, err = r.expand(ctx, text, file); err != nil {
		return nil, err
	}
	if res.Tokens, err = r.tokenize(res.Expanded); err != nil {
		return nil, err
	}
	if err = r.phase("emit", func(uint64) (string, error) {
		res.Output = emit.Emit(res.Tokens, emitOptions(opts.Config))
		return strconv.Itoa(len(res.Output.Source)) + " bytes", nil
	}); err != nil {
		return nil, err
	}
	if opts.Config.SyntaxCheck {
		if err = r.phase("validate", func(uint64) (string, error) {
			return "ok", validate.Validate(res.Output, res.Expanded, validate.Options{Context: opts.ListingContext})
		}); err != nil {
			return nil, err
		}
	}
	res.Source = res.Output.Source
	return res, nil
}

// CompileFile reads path and compiles it. With the default reader, path is
// made absolute first so includes resolve independently of the working
// directory.
func CompileFile(ctx context.Context, path string, opts Options) (*Result, error) {
	path, content, err := readRoot(path, opts)
	if err != nil {
		return nil, err
	}
	return Compile(ctx, content, path, opts)
}

// TokenizeResult is the outcome of Tokenize.
type TokenizeResult struct {
	Expanded *include.Result
	Tokens   []token.Token
	Timer    *observ.Timer
}

// Tokenize expands and tokenizes path without generating code.
func Tokenize(ctx context.Context, path string, opts Options) (out *TokenizeResult, err error) {
	path, content, err := readRoot(path, opts)
	if err != nil {
		return nil, err
	}
	r := newRun(ctx, "tokenize", path, opts)
	defer func() { r.finish(err) }()

	out = &TokenizeResult{Timer: r.timer}
	if out.Expanded, err = r.expand(ctx, content, path); err != nil {
		return nil, err
	}
	if out.Tokens, err = r.tokenize(out.Expanded); err != nil {
		return nil, err
	}
	return out, nil
}

func readRoot(path string, opts Options) (resolved, content string, err error) {
	if opts.Reader == nil {
		abs, absErr := source.AbsolutePath(path)
		if absErr != nil {
			return "", "", fmt.Errorf("failed to resolve %s: %w", path, absErr)
		}
		path = abs
	}
	data, err := opts.reader().ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return path, string(data), nil
}
