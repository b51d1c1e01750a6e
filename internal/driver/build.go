package driver

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"sjtc/internal/diag"
	"sjtc/internal/observ"
)

// DefaultGlob selects templates in build mode.
const DefaultGlob = "**/*.html"

// BuildOptions configures Build.
type BuildOptions struct {
	Options
	// Glob selects templates relative to the build directory.
	Glob string
	// Exclude drops matches of any of these patterns, e.g. "**/_*.html"
	// for partials that are only ever included.
	Exclude []string
	// OutDir receives <name>.js for every template; empty writes next to
	// the template.
	OutDir string
	// Jobs bounds parallel compiles; zero or less means GOMAXPROCS.
	Jobs int
}

// BuildResult is the outcome for one template.
type BuildResult struct {
	// Path is slash-separated and relative to the build directory.
	Path   string
	Output string
	Err    error
	Timer  *observ.Timer
}

// Build compiles every template under dir matched by opts.Glob. Every file
// is compiled independently; results are sorted by Path. The returned
// error is reserved for failures outside a single template (bad pattern,
// unreadable directory, cancellation).
func Build(ctx context.Context, dir string, opts BuildOptions) ([]BuildResult, error) {
	files, err := Match(dir, opts.Glob, opts.Exclude)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	for _, rel := range files {
		opts.report(Event{File: rel, Status: StatusQueued})
	}

	results := make([]BuildResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, rel := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			fileOpts := opts.Options
			fileOpts.Timer = observ.NewTimer()
			fileOpts.progressName = rel
			start := time.Now()
			results[i] = buildOne(gctx, dir, rel, opts.OutDir, fileOpts)
			status := StatusDone
			if results[i].Err != nil {
				status = StatusError
			}
			fileOpts.report(Event{Status: status, Err: results[i].Err, Elapsed: time.Since(start)})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func buildOne(ctx context.Context, dir, rel, outDir string, opts Options) BuildResult {
	res := BuildResult{Path: rel, Timer: opts.Timer}
	src := filepath.Join(dir, filepath.FromSlash(rel))
	compiled, err := CompileFile(ctx, src, opts)
	if err != nil {
		res.Err = err
		return res
	}

	opts.report(Event{Stage: StageWrite, Status: StatusWorking})
	target := OutputPath(dir, rel, outDir)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		res.Err = fmt.Errorf("failed to create output directory: %w", err)
		return res
	}
	// #nosec G306 -- generated scripts are served to browsers
	if err := os.WriteFile(target, []byte(compiled.Source), 0o644); err != nil {
		res.Err = fmt.Errorf("failed to write %s: %w", target, err)
		return res
	}
	res.Output = target
	return res
}

// Match lists templates under dir for glob minus exclude, sorted.
func Match(dir, glob string, exclude []string) ([]string, error) {
	if glob == "" {
		glob = DefaultGlob
	}
	for _, p := range append([]string{glob}, exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, diag.Errorf(diag.ConfigError, "invalid glob pattern %q", p)
		}
	}
	matches, err := doublestar.Glob(os.DirFS(dir), glob, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	files := matches[:0]
	for _, m := range matches {
		if !excluded(m, exclude) {
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files, nil
}

func excluded(rel string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// OutputPath is where Build writes the compiled form of rel.
func OutputPath(dir, rel, outDir string) string {
	name := strings.TrimSuffix(rel, path.Ext(rel)) + ".js"
	if outDir == "" {
		outDir = dir
	}
	return filepath.Join(outDir, filepath.FromSlash(name))
}

// FirstError returns the error of the first failed template in path order.
func FirstError(results []BuildResult) (string, error) {
	for _, r := range results {
		if r.Err != nil {
			return r.Path, r.Err
		}
	}
	return "", nil
}
