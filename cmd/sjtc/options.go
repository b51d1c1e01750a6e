package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"sjtc/internal/config"
	"sjtc/internal/diagfmt"
	"sjtc/internal/observ"
)

// addConfigFlags registers the options shared by compile and build. Their
// defaults mirror config.Default; only flags set on the command line
// override the project file.
func addConfigFlags(cmd *cobra.Command) {
	def := config.Default()
	flags := cmd.Flags()
	flags.String("config", "", "project file (default: nearest sjtc.toml or .sjtc.yaml)")
	flags.Int("input-indent", def.InputIndent, "spaces per tab in the template")
	flags.Int("output-indent", def.OutputIndent, "spaces per nesting level in the output")
	flags.Int("extra-indent", def.LeadingIndent, "spaces prefixed to every output line")
	flags.String("function-name", def.FunctionName, "name of the generated function")
	flags.String("param-name", def.ParamName, "name of the data parameter")
	flags.String("buffer-name", def.BufferName, "name of the output buffer variable")
	flags.Bool("first-line-no-indent", def.FirstLineNoIndent, "do not indent the function signature")
	flags.Bool("always-wrap", def.AlwaysWrapInserts, "parenthesize every interpolation")
	flags.Bool("no-escapes", false, "treat <%% and %%> as ordinary tags")
	flags.Bool("strict-comments", def.StrictCommentNesting, "track tags inside <!-- --> comments")
	flags.Bool("no-check", false, "skip the syntax check of the generated code")
}

// loadConfig resolves the configuration for templates under startDir.
func loadConfig(cmd *cobra.Command, startDir string) (config.Config, error) {
	cfg := config.Default()

	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return cfg, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path == "" {
		found, ok, findErr := config.Find(startDir)
		if findErr != nil {
			return cfg, findErr
		}
		if ok {
			path = found
		}
	}
	if path != "" {
		if cfg, err = config.LoadFile(path, cfg); err != nil {
			return cfg, err
		}
	}

	overrides := []error{
		overrideInt(cmd, "input-indent", &cfg.InputIndent),
		overrideInt(cmd, "output-indent", &cfg.OutputIndent),
		overrideInt(cmd, "extra-indent", &cfg.LeadingIndent),
		overrideString(cmd, "function-name", &cfg.FunctionName),
		overrideString(cmd, "param-name", &cfg.ParamName),
		overrideString(cmd, "buffer-name", &cfg.BufferName),
		overrideBool(cmd, "first-line-no-indent", &cfg.FirstLineNoIndent, false),
		overrideBool(cmd, "always-wrap", &cfg.AlwaysWrapInserts, false),
		overrideBool(cmd, "no-escapes", &cfg.Escapes, true),
		overrideBool(cmd, "strict-comments", &cfg.StrictCommentNesting, false),
		overrideBool(cmd, "no-check", &cfg.SyntaxCheck, true),
	}
	for _, err := range overrides {
		if err != nil {
			return cfg, err
		}
	}
	return cfg, cfg.Validate()
}

func overrideInt(cmd *cobra.Command, name string, dst *int) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetInt(name)
	if err != nil {
		return fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	*dst = v
	return nil
}

func overrideString(cmd *cobra.Command, name string, dst *string) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	*dst = v
	return nil
}

// overrideBool copies a bool flag into dst, negated for --no-* flags.
func overrideBool(cmd *cobra.Command, name string, dst *bool, negate bool) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	*dst = v != negate
	return nil
}

// useColor resolves --color for f and applies it to fatih/color globally.
func useColor(cmd *cobra.Command, f *os.File) bool {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		colorFlag = "auto"
	}
	enabled := colorFlag == "on" || (colorFlag == "auto" && isTerminal(f))
	color.NoColor = !enabled
	return enabled
}

func pathMode(cmd *cobra.Command) (diagfmt.PathMode, error) {
	s, err := cmd.Root().PersistentFlags().GetString("path-mode")
	if err != nil {
		return diagfmt.PathModeRelative, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	return diagfmt.ParsePathMode(s)
}

func isQuiet(cmd *cobra.Command) bool {
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	return err == nil && quiet
}

// reportErrors prints errs to stderr in the --diagnostics format and
// returns errReported, or nil when errs is empty.
func reportErrors(cmd *cobra.Command, errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	format, err := cmd.Root().PersistentFlags().GetString("diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get diagnostics flag: %w", err)
	}
	mode, err := pathMode(cmd)
	if err != nil {
		return err
	}
	out := cmd.ErrOrStderr()

	switch strings.ToLower(format) {
	case "json":
		if err := diagfmt.JSON(out, errs, diagfmt.JSONOpts{PathMode: mode}); err != nil {
			return err
		}
	case "pretty":
		opts := diagfmt.PrettyOpts{Color: useColor(cmd, os.Stderr), PathMode: mode}
		for _, e := range errs {
			if err := diagfmt.Pretty(out, e, opts); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unknown diagnostics format: %s", format)
	}
	return errReported
}

func printTimings(cmd *cobra.Command, out io.Writer, label string, timer *observ.Timer) {
	show, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil || !show || timer == nil {
		return
	}
	if label != "" {
		fmt.Fprintf(out, "%s ", label)
	}
	fmt.Fprint(out, timer.Summary())
}
