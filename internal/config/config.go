// Package config holds compile options and loads them from project files.
package config

import (
	"regexp"

	"sjtc/internal/diag"
)

var identRe = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)

// Config is the full set of compile options.
type Config struct {
	InputIndent       int    `toml:"input_indent" yaml:"input_indent"`
	OutputIndent      int    `toml:"output_indent" yaml:"output_indent"`
	LeadingIndent     int    `toml:"extra_indent" yaml:"extra_indent"`
	FunctionName      string `toml:"function_name" yaml:"function_name"`
	ParamName         string `toml:"param_name" yaml:"param_name"`
	BufferName        string `toml:"buffer_name" yaml:"buffer_name"`
	FirstLineNoIndent bool   `toml:"first_line_no_indent" yaml:"first_line_no_indent"`
	AlwaysWrapInserts bool   `toml:"always_wrap_inserts" yaml:"always_wrap_inserts"`
	// Escapes enables <%% and %%>.
	Escapes bool `toml:"escapes" yaml:"escapes"`
	// StrictCommentNesting scans comments for tags.
	StrictCommentNesting bool `toml:"strict_comment_nesting" yaml:"strict_comment_nesting"`
	// SyntaxCheck parses the generated function before returning it.
	SyntaxCheck bool `toml:"syntax_check" yaml:"syntax_check"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		InputIndent:  4,
		OutputIndent: 4,
		ParamName:    "obj",
		BufferName:   "__bf",
		Escapes:      true,
		SyntaxCheck:  true,
	}
}

// Validate reports the first invalid option as a ConfigError.
func (c Config) Validate() error {
	switch {
	case c.InputIndent < 0:
		return diag.Errorf(diag.ConfigError, "input_indent must not be negative, got %d", c.InputIndent)
	case c.OutputIndent < 0:
		return diag.Errorf(diag.ConfigError, "output_indent must not be negative, got %d", c.OutputIndent)
	case c.LeadingIndent < 0:
		return diag.Errorf(diag.ConfigError, "extra_indent must not be negative, got %d", c.LeadingIndent)
	case c.FunctionName != "" && !identRe.MatchString(c.FunctionName):
		return diag.Errorf(diag.ConfigError, "function_name %q is not an identifier", c.FunctionName)
	case !identRe.MatchString(c.ParamName):
		return diag.Errorf(diag.ConfigError, "param_name %q is not an identifier", c.ParamName)
	case !identRe.MatchString(c.BufferName):
		return diag.Errorf(diag.ConfigError, "buffer_name %q is not an identifier", c.BufferName)
	case c.BufferName == c.ParamName:
		return diag.Errorf(diag.ConfigError, "buffer_name and param_name must differ, both are %q", c.BufferName)
	}
	return nil
}
