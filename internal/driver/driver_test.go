package driver

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sjtc/internal/diag"
	"sjtc/internal/source"
	"sjtc/internal/trace"
)

func memOptions(files source.MapReader) Options {
	opts := DefaultOptions()
	opts.Reader = files
	return opts
}

func TestCompileConstOnly(t *testing.T) {
	res, err := Compile(context.Background(), "<p>hello</p>", "", DefaultOptions())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Source, "function (obj) {\n    var __bf = [];\n"))
	assert.Contains(t, res.Source, `__bf.push("<p>hello</p>");`)
	assert.True(t, strings.HasSuffix(res.Source, "return __bf.join(\"\");\n}"))
	assert.Len(t, res.Tokens, 1)
}

func TestCompileWithInclude(t *testing.T) {
	files := source.MapReader{
		"views/page.html": "<ul>\n<!--#include file=\"item.html\"-->\n</ul>",
		"views/item.html": "<% items.forEach(function(it){ %>\n<li><%= it.name %></li>\n<% }); %>",
	}
	opts := memOptions(files)
	opts.Config.FunctionName = "render"

	res, err := CompileFile(context.Background(), "views/page.html", opts)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Source, "function render(obj) {"))
	assert.Contains(t, res.Source, "items.forEach(function(it){")
	assert.Contains(t, res.Source, "it.name")
	assert.Equal(t, []string{"views/item.html"}, res.Expanded.Included)

	names := make([]string, 0, 4)
	for _, p := range res.Timer.Report().Phases {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"expand", "tokenize", "emit", "validate"}, names)
}

func TestCompileRecordsEmitPhase(t *testing.T) {
	res, err := Compile(context.Background(), "<p><%= a %></p>", "", DefaultOptions())
	require.NoError(t, err)
	var note string
	for _, p := range res.Timer.Report().Phases {
		if p.Name == "emit" {
			note = p.Note
		}
	}
	assert.Equal(t, strconv.Itoa(len(res.Source))+" bytes", note)
}

func TestPhaseErrorIsReturned(t *testing.T) {
	r := newRun(context.Background(), "compile", "page.html", DefaultOptions())
	boom := errors.New("boom")
	err := r.phase("emit", func(uint64) (string, error) { return "", boom })
	require.ErrorIs(t, err, boom)

	phases := r.timer.Report().Phases
	require.Len(t, phases, 1)
	assert.Equal(t, "emit", phases[0].Name)
	assert.Equal(t, "failed", phases[0].Note)
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name   string
		files  source.MapReader
		target error
	}{
		{
			name:   "unclosed tag",
			files:  source.MapReader{"page.html": "<p><%= name </p>"},
			target: diag.ErrUnclosedTag,
		},
		{
			name:   "stray closer",
			files:  source.MapReader{"page.html": "<p> %> </p>"},
			target: diag.ErrInvalidTagNesting,
		},
		{
			name:   "missing include",
			files:  source.MapReader{"page.html": "<!--#include file=\"nope.html\"-->"},
			target: diag.ErrMissingIncludeFile,
		},
		{
			name: "circular include",
			files: source.MapReader{
				"page.html": "<!--#include file=\"a.html\"-->",
				"a.html":    "<!--#include file=\"page.html\"-->",
			},
			target: diag.ErrCircularInclude,
		},
		{
			name:   "generated syntax",
			files:  source.MapReader{"page.html": "<% if (x) { %>\n<p>x</p>"},
			target: diag.ErrGeneratedSyntaxError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileFile(context.Background(), "page.html", memOptions(tt.files))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
		})
	}
}

func TestCompileSkipsSyntaxCheck(t *testing.T) {
	opts := DefaultOptions()
	opts.Config.SyntaxCheck = false
	res, err := Compile(context.Background(), "<% if (x) { %>\n<p>x</p>", "", opts)
	require.NoError(t, err)
	assert.Contains(t, res.Source, "if (x) {")
	for _, p := range res.Timer.Report().Phases {
		assert.NotEqual(t, "validate", p.Name)
	}
}

func TestCompileRejectsBadConfig(t *testing.T) {
	opts := DefaultOptions()
	opts.Config.ParamName = "not valid"
	_, err := Compile(context.Background(), "x", "", opts)
	assert.True(t, errors.Is(err, diag.ErrConfig))
}

func TestCompileMissingRoot(t *testing.T) {
	_, err := CompileFile(context.Background(), "absent.html", memOptions(source.MapReader{}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestCompileTraces(t *testing.T) {
	var buf bytes.Buffer
	tr := trace.NewStreamTracer(&buf, trace.LevelDebug, trace.FormatText)
	ctx := trace.WithTracer(context.Background(), tr)

	files := source.MapReader{
		"page.html": "<!--#include file=\"head.html\"-->\n<p><%= title %></p>",
		"head.html": "<h1>head</h1>",
	}
	_, err := CompileFile(ctx, "page.html", memOptions(files))
	require.NoError(t, err)

	out := buf.String()
	for _, name := range []string{"compile", "expand", "tokenize", "emit", "validate", "head.html"} {
		assert.Contains(t, out, name)
	}
}

func TestTokenize(t *testing.T) {
	files := source.MapReader{"page.html": "<p><%= a %></p><% if (a) { %>x<% } %>"}
	res, err := Tokenize(context.Background(), "page.html", memOptions(files))
	require.NoError(t, err)
	require.NotEmpty(t, res.Tokens)
	assert.Equal(t, "page.html", res.Expanded.Root())
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	out := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.html"), "<p><%= a %></p>\n<!--#include file=\"_part.html\"-->")
	writeFile(t, filepath.Join(dir, "_part.html"), "<span>part</span>")
	writeFile(t, filepath.Join(dir, "sub", "b.html"), "<b><%= b %></b>")
	writeFile(t, filepath.Join(dir, "bad.html"), "<p><%= oops")
	writeFile(t, filepath.Join(dir, "notes.txt"), "<% not a template")

	opts := BuildOptions{
		Options: DefaultOptions(),
		Exclude: []string{"**/_*.html"},
		OutDir:  out,
		Jobs:    2,
	}
	results, err := Build(context.Background(), dir, opts)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "a.html", results[0].Path)
	assert.Equal(t, "bad.html", results[1].Path)
	assert.Equal(t, "sub/b.html", results[2].Path)

	require.NoError(t, results[0].Err)
	data, err := os.ReadFile(filepath.Join(out, "a.js"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "<span>part</span>")

	_, err = os.Stat(filepath.Join(out, "sub", "b.js"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(out, "bad.js"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	path, firstErr := FirstError(results)
	assert.Equal(t, "bad.html", path)
	assert.True(t, errors.Is(firstErr, diag.ErrUnclosedTag))
}

func TestBuildIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"c.html", "a.html", "b.html"} {
		writeFile(t, filepath.Join(dir, name), "<p><%= "+strings.TrimSuffix(name, ".html")+" %></p>")
	}
	opts := BuildOptions{Options: DefaultOptions(), Jobs: 3}

	first, err := Build(context.Background(), dir, opts)
	require.NoError(t, err)
	second, err := Build(context.Background(), dir, opts)
	require.NoError(t, err)
	require.Len(t, first, 3)
	for i := range first {
		assert.Equal(t, first[i].Path, second[i].Path)
		assert.Equal(t, filepath.Join(dir, strings.TrimSuffix(first[i].Path, ".html")+".js"), first[i].Output)
	}
}

func TestMatchRejectsBadPattern(t *testing.T) {
	_, err := Match(t.TempDir(), "[", nil)
	assert.True(t, errors.Is(err, diag.ErrConfig))
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("dist", "views", "page.js"), OutputPath("src", "views/page.html", "dist"))
	assert.Equal(t, filepath.Join("src", "page.js"), OutputPath("src", "page.html", ""))
}

func TestBuildReportsProgress(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.html"), "<p>a</p>")
	writeFile(t, filepath.Join(dir, "b.html"), "<p><%= b")

	events := make(chan Event, 64)
	opts := BuildOptions{Options: DefaultOptions(), Jobs: 2}
	opts.Progress = ChannelSink{Ch: events}
	_, err := Build(context.Background(), dir, opts)
	require.NoError(t, err)
	close(events)

	final := map[string]Status{}
	stages := map[string][]Stage{}
	for ev := range events {
		if ev.Status == StatusWorking {
			stages[ev.File] = append(stages[ev.File], ev.Stage)
			continue
		}
		final[ev.File] = ev.Status
	}
	assert.Equal(t, map[string]Status{"a.html": StatusDone, "b.html": StatusError}, final)
	assert.Equal(t, []Stage{StageExpand, StageTokenize, StageEmit, StageValidate, StageWrite}, stages["a.html"])
	assert.Equal(t, []Stage{StageExpand, StageTokenize}, stages["b.html"])
}
