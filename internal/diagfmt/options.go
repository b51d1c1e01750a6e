package diagfmt

import (
	"fmt"

	"sjtc/internal/source"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto shortens long absolute paths to their base name.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

var pathModeNames = map[PathMode]string{
	PathModeAuto:     "auto",
	PathModeAbsolute: "absolute",
	PathModeRelative: "relative",
	PathModeBasename: "basename",
}

func (m PathMode) String() string {
	if s, ok := pathModeNames[m]; ok {
		return s
	}
	return "auto"
}

// ParsePathMode parses the --path-mode flag value.
func ParsePathMode(s string) (PathMode, error) {
	for m, name := range pathModeNames {
		if name == s {
			return m, nil
		}
	}
	return PathModeAuto, fmt.Errorf("unknown path mode %q (want auto, absolute, relative or basename)", s)
}

// PrettyOpts configures pretty-printing of diagnostics and token dumps.
type PrettyOpts struct {
	Color    bool
	PathMode PathMode
	// BaseDir anchors relative paths; the working directory when empty.
	BaseDir string
	// Width truncates listing and token text, 0 means unlimited.
	Width int
}

// JSONOpts configures JSON and msgpack output.
type JSONOpts struct {
	PathMode PathMode
	BaseDir  string
	// OmitListing drops generated code listings from diagnostics.
	OmitListing bool
}

// FormatPath renders path for display; an empty path stays empty.
func FormatPath(path string, mode PathMode, baseDir string) string {
	if path == "" {
		return ""
	}
	return source.FormatPath(path, mode.String(), baseDir)
}
