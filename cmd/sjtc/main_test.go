package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func newTestRoot() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	root := &cobra.Command{Use: "sjtc", SilenceUsage: true, SilenceErrors: true, PersistentPreRunE: setupCommand}
	addPersistentFlags(root)

	compile := &cobra.Command{Use: "compile", Args: cobra.RangeArgs(1, 2), RunE: runCompile}
	addConfigFlags(compile)
	build := &cobra.Command{Use: "build", Args: cobra.ExactArgs(1), RunE: runBuild}
	addBuildFlags(build)
	root.AddCommand(compile, build)

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	return root, &stdout, &stderr
}

func run(root *cobra.Command, args ...string) error {
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "sjtc.toml"), "[compile]\nfunction_name = \"fromFile\"\noutput_indent = 2\n")

	cmd := &cobra.Command{Use: "compile"}
	addConfigFlags(cmd)
	if err := cmd.ParseFlags([]string{"--output-indent=8", "--no-check", "--param-name", "data"}); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(cmd, dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.FunctionName != "fromFile" {
		t.Errorf("FunctionName = %q, want value from file", cfg.FunctionName)
	}
	if cfg.OutputIndent != 8 || cfg.ParamName != "data" {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if cfg.SyntaxCheck || !cfg.Escapes {
		t.Errorf("bool flags: SyntaxCheck=%v Escapes=%v", cfg.SyntaxCheck, cfg.Escapes)
	}
}

func TestCompileCommand(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "page.html")
	target := filepath.Join(dir, "out", "page.js")
	write(t, src, "<h1><%= title %></h1>\n<!--#include file=\"foot.html\"-->")
	write(t, filepath.Join(dir, "foot.html"), "<footer>bye</footer>")

	root, _, stderr := newTestRoot()
	if err := run(root, "compile", "--function-name", "page", src, target); err != nil {
		t.Fatalf("compile: %v\n%s", err, stderr.String())
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)
	if !strings.HasPrefix(got, "function page(obj) {") || !strings.Contains(got, "<footer>bye</footer>") {
		t.Errorf("generated:\n%s", got)
	}
}

func TestCompileCommandStdout(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "page.html")
	write(t, src, "<p>hi</p>")

	root, stdout, _ := newTestRoot()
	if err := run(root, "compile", src); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout.String(), `__bf.push("<p>hi</p>");`) {
		t.Errorf("stdout:\n%s", stdout.String())
	}
}

func TestCompileCommandReportsDiagnostics(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "page.html")
	write(t, src, "<p><%= title")

	root, _, stderr := newTestRoot()
	err := run(root, "compile", "--color", "off", src)
	if !errors.Is(err, errReported) {
		t.Fatalf("err = %v, want errReported", err)
	}
	if !strings.Contains(stderr.String(), "TAG1001") {
		t.Errorf("stderr:\n%s", stderr.String())
	}
}

func TestBuildCommand(t *testing.T) {
	dir := t.TempDir()
	out := t.TempDir()
	write(t, filepath.Join(dir, "a.html"), "<p><%= a %></p>")
	write(t, filepath.Join(dir, "nested", "b.html"), "<% if (b) { %><b>b</b><% } %>")

	root, stdout, stderr := newTestRoot()
	if err := run(root, "build", "--out", out, "--jobs", "2", dir); err != nil {
		t.Fatalf("build: %v\n%s", err, stderr.String())
	}
	for _, name := range []string{"a.js", filepath.Join("nested", "b.js")} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	if !strings.Contains(stdout.String(), "compiled a.html") {
		t.Errorf("stdout:\n%s", stdout.String())
	}
}

func TestBuildCommandJSONDiagnostics(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "ok.html"), "<p>ok</p>")
	write(t, filepath.Join(dir, "bad.html"), "<!--#include file=\"gone.html\"-->")

	root, _, stderr := newTestRoot()
	err := run(root, "build", "--diagnostics", "json", "--quiet", dir)
	if !errors.Is(err, errReported) {
		t.Fatalf("err = %v, want errReported", err)
	}
	if !strings.Contains(stderr.String(), `"code": "INC2001"`) {
		t.Errorf("stderr:\n%s", stderr.String())
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, " on ": uiModeOn, "off": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Errorf("readUIMode(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestProfilingFlags(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "page.html")
	mem := filepath.Join(dir, "mem.out")
	write(t, src, "<p>hi</p>")

	root, _, _ := newTestRoot()
	if err := run(root, "compile", "--mem-profile", mem, src); err != nil {
		t.Fatal(err)
	}
	profileCleanup()
	profileCleanup = func() {}
	if _, err := os.Stat(mem); err != nil {
		t.Fatalf("heap profile not written: %v", err)
	}
}
