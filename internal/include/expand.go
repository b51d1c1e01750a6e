package include

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"slices"
	"strings"

	"sjtc/internal/diag"
	"sjtc/internal/source"
	"sjtc/internal/trace"
)

var directiveRe = regexp.MustCompile(`(?i)^([ \t]*)<!--#include(_once)?\s+file\s*=\s*['"](.*?)['"]\s*-->[ \t]*$`)

// Options configures Expand.
type Options struct {
	// Reader loads include targets. Defaults to source.OSReader.
	Reader source.Reader
	// SpanID is the trace span include events are attached to.
	SpanID uint64
}

type expander struct {
	ctx    context.Context
	reader source.Reader
	tracer trace.Tracer
	span   uint64
	files  *source.FileSet
	res    *Result
	line   int
	seen   map[string]bool
}

// Expand expands the include directives of text, which is the content of
// file. file may be empty when the template has no identity; any directive
// then fails with a ConfigError.
func Expand(ctx context.Context, text, file string, opts Options) (*Result, error) {
	reader := opts.Reader
	if reader == nil {
		reader = source.OSReader{}
	}
	files := source.NewFileSet()
	content, _ := source.Normalize([]byte(text))
	if file != "" {
		files.Add(file, content, 0)
	}

	e := &expander{
		ctx:    ctx,
		reader: reader,
		tracer: trace.FromContext(ctx),
		span:   opts.SpanID,
		files:  files,
		res:    &Result{Files: files},
		line:   1,
		seen:   make(map[string]bool),
	}
	out, err := e.expand(string(content), normalize(file), "", nil, 0)
	if err != nil {
		return nil, err
	}
	e.res.Text = out
	e.res.Flat = files.AddVirtual("<expanded>", []byte(out))
	return e.res, nil
}

func normalize(file string) string {
	if file == "" {
		return ""
	}
	return source.CleanPath(file)
}

// expand processes one template. parents is the ancestry of file, innermost
// first; base is the flat offset at which the output of file starts.
func (e *expander) expand(text, file, indent string, parents []string, base int) (string, error) {
	e.res.Edits = append(e.res.Edits, Edit{At: e.line, Kind: IncludeStart, File: file})

	var sb strings.Builder
	for i, ln := range strings.Split(text, "\n") {
		if i > 0 {
			sb.WriteByte('\n')
		}
		m := directiveRe.FindStringSubmatch(ln)
		if m == nil {
			sb.WriteString(indent)
			sb.WriteString(ln)
			e.line++
			continue
		}
		if err := e.ctx.Err(); err != nil {
			return "", err
		}

		here := diag.Location{File: file, Line: i + 1, Text: strings.TrimSpace(ln)}
		if file == "" {
			return "", diag.Errorf(diag.ConfigError, "an include directive needs the identity of the including template").At(here)
		}
		target := source.ResolveRef(file, m[3])
		chain := append([]string{file}, parents...)

		id, err := e.files.Read(e.reader, target)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", diag.Errorf(diag.MissingIncludeFile, "the include file %q does not exist", target).
					At(here).
					WithChain(append([]string{target}, chain...), -1)
			}
			return "", fmt.Errorf("read include %s: %w", target, err)
		}
		if idx := slices.Index(chain, target); idx >= 0 {
			return "", diag.Errorf(diag.CircularInclude, "circular reference to %q", target).
				At(here).
				WithChain(append([]string{target}, chain...), idx+1)
		}
		if m[2] != "" && e.seen[target] {
			trace.Point(e.tracer, trace.ScopeFile, "include_once", target+" (skipped)", e.span)
			e.line++
			continue
		}

		trace.Point(e.tracer, trace.ScopeFile, "include", target, e.span)
		start := e.line
		child, err := e.expand(string(e.files.Get(id).Content), target, indent+m[1], chain, base+sb.Len())
		if err != nil {
			return "", err
		}
		n := strings.Count(child, "\n") + 1
		e.line = start
		e.res.Edits = append(e.res.Edits, Edit{At: e.line, Kind: LineCountDelta, Delta: n - 1})
		e.line += n

		sb.WriteString(child)
		if !e.seen[target] {
			e.seen[target] = true
			e.res.Included = append(e.res.Included, target)
		}
	}

	out := sb.String()
	e.res.Edits = append(e.res.Edits, Edit{At: e.line - 1, Kind: IncludeEnd})
	e.res.Positions = append(e.res.Positions, Position{
		File:          file,
		Start:         base,
		End:           base + len(out),
		LeadingIndent: indent,
	})
	return out, nil
}
