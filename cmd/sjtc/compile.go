package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"sjtc/internal/driver"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] <source> [target]",
	Short: "Compile one template",
	Long: `Compile expands includes in <source>, generates its render function and
writes it to [target], or to stdout when target is omitted or "-".`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runCompile,
}

func init() {
	addConfigFlags(compileCmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	src := args[0]
	target := "-"
	if len(args) == 2 {
		target = args[1]
	}

	cfg, err := loadConfig(cmd, filepath.Dir(src))
	if err != nil {
		return reportErrors(cmd, []error{err})
	}
	opts := driver.DefaultOptions()
	opts.Config = cfg

	res, err := driver.CompileFile(cmd.Context(), src, opts)
	if err != nil {
		return reportErrors(cmd, []error{err})
	}

	if target == "-" {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), res.Source); err != nil {
			return err
		}
	} else if err := writeTarget(target, res.Source); err != nil {
		return err
	}
	printTimings(cmd, cmd.ErrOrStderr(), "", res.Timer)
	return nil
}

func writeTarget(target, content string) error {
	if dir := filepath.Dir(target); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	// #nosec G306 -- generated scripts are served to browsers
	if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	return nil
}
