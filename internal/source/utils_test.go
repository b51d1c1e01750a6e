package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRelativePathOutsideBaseFallsBackToAbsolute(t *testing.T) {
	tmp := t.TempDir()

	baseDir := filepath.Join(tmp, "base")
	otherDir := filepath.Join(tmp, "other")

	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		t.Fatalf("failed to create base dir: %v", err)
	}
	if err := os.MkdirAll(otherDir, 0o755); err != nil {
		t.Fatalf("failed to create other dir: %v", err)
	}

	target := filepath.Join(otherDir, "file.html")

	got, err := RelativePath(target, baseDir)
	if err != nil {
		t.Fatalf("RelativePath returned error: %v", err)
	}

	want := normalizePath(target)
	if got != want {
		t.Fatalf("expected absolute fallback %q, got %q", want, got)
	}
}

func TestRelativePathInsideBaseStaysRelative(t *testing.T) {
	tmp := t.TempDir()

	target := filepath.Join(tmp, "nested", "file.html")
	got, err := RelativePath(target, tmp)
	if err != nil {
		t.Fatalf("RelativePath returned error: %v", err)
	}

	want := normalizePath(filepath.Join("nested", "file.html"))
	if got != want {
		t.Fatalf("expected relative path %q, got %q", want, got)
	}
}

func TestResolveRef(t *testing.T) {
	tests := []struct {
		from, ref, want string
	}{
		{"/tpl/a.html", "b.html", "/tpl/b.html"},
		{"/tpl/a.html", "./inc/../b.html", "/tpl/b.html"},
		{"/tpl/sub/a.html", "../c.html", "/tpl/c.html"},
		{"/tpl/a.html", "/abs/d.html", "/abs/d.html"},
	}
	for _, tt := range tests {
		if got := ResolveRef(tt.from, tt.ref); got != tt.want {
			t.Errorf("ResolveRef(%q, %q) = %q, want %q", tt.from, tt.ref, got, tt.want)
		}
	}
}
