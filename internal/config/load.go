package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"sjtc/internal/diag"
)

// FileNames are the project file names searched for, in order of preference.
var FileNames = []string{"sjtc.toml", ".sjtc.yaml", "sjtc.yaml"}

type projectFile struct {
	Compile Config `toml:"compile" yaml:"compile"`
}

// Find walks up from startDir looking for a project file.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadFile reads the [compile] table of path over base. Keys missing from
// the file keep their base value.
func LoadFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from Find or the command line
	if err != nil {
		return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(path, data, base)
}

// Parse decodes project file content; the format follows the extension of name.
func Parse(name string, data []byte, base Config) (Config, error) {
	pf := projectFile{Compile: base}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".toml":
		meta, err := toml.Decode(string(data), &pf)
		if err != nil {
			return Config{}, diag.Errorf(diag.ConfigError, "%s: failed to parse TOML: %v", name, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return Config{}, diag.Errorf(diag.ConfigError, "%s: unknown keys: %s", name, strings.Join(keys, ", "))
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&pf); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, diag.Errorf(diag.ConfigError, "%s: failed to parse YAML: %v", name, err)
		}
	default:
		return Config{}, diag.Errorf(diag.ConfigError, "%s: unsupported config format", name)
	}
	if err := pf.Compile.Validate(); err != nil {
		var de *diag.Error
		if errors.As(err, &de) {
			de.Message = name + ": " + de.Message
		}
		return Config{}, err
	}
	return pf.Compile, nil
}
