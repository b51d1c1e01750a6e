package source

import (
	"fmt"
	"io/fs"
	"os"
)

// Reader supplies template contents by resolved path. Implementations must
// return an error satisfying errors.Is(err, fs.ErrNotExist) for missing files.
type Reader interface {
	ReadFile(path string) ([]byte, error)
}

// OSReader reads templates from the local filesystem.
type OSReader struct{}

func (OSReader) ReadFile(path string) ([]byte, error) {
	// #nosec G304 -- path is provided by the caller
	return os.ReadFile(path)
}

// MapReader serves templates from memory; keys are slash-separated clean paths.
type MapReader map[string]string

func (m MapReader) ReadFile(path string) ([]byte, error) {
	content, ok := m[normalizePath(path)]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", path, fs.ErrNotExist)
	}
	return []byte(content), nil
}
