package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sjtc/internal/diagfmt"
	"sjtc/internal/driver"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] <dir>",
	Short: "Compile every template under a directory",
	Long: `Build compiles every template under <dir> matching --glob into <name>.js.
Files are compiled in parallel; results and diagnostics are reported in path
order and the command fails if any template fails.`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	addBuildFlags(buildCmd)
}

func addBuildFlags(cmd *cobra.Command) {
	addConfigFlags(cmd)
	cmd.Flags().String("out", "", "output directory (default: next to each template)")
	cmd.Flags().String("glob", driver.DefaultGlob, "templates to compile, relative to <dir>")
	cmd.Flags().StringSlice("exclude", nil, "patterns to skip, e.g. **/_*.html")
	cmd.Flags().Int("jobs", 0, "parallel compiles (0 = GOMAXPROCS)")
	cmd.Flags().String("ui", "off", "show a live progress view (auto|on|off)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	dir := args[0]

	cfg, err := loadConfig(cmd, dir)
	if err != nil {
		return reportErrors(cmd, []error{err})
	}
	outDir, err := cmd.Flags().GetString("out")
	if err != nil {
		return fmt.Errorf("failed to get out flag: %w", err)
	}
	glob, err := cmd.Flags().GetString("glob")
	if err != nil {
		return fmt.Errorf("failed to get glob flag: %w", err)
	}
	exclude, err := cmd.Flags().GetStringSlice("exclude")
	if err != nil {
		return fmt.Errorf("failed to get exclude flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	withUI := shouldUseTUI(mode) && !isQuiet(cmd)

	opts := driver.BuildOptions{
		Options: driver.DefaultOptions(),
		Glob:    glob,
		Exclude: exclude,
		OutDir:  outDir,
		Jobs:    jobs,
	}
	opts.Config = cfg

	var results []driver.BuildResult
	if withUI {
		results, err = runBuildWithUI(cmd.Context(), "sjtc build "+dir, dir, opts)
	} else {
		results, err = driver.Build(cmd.Context(), dir, opts)
	}
	if err != nil {
		return reportErrors(cmd, []error{err})
	}

	out := cmd.OutOrStdout()
	quiet := isQuiet(cmd) || withUI
	paths, err := pathMode(cmd)
	if err != nil {
		return err
	}
	var failed []error
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r.Err)
			continue
		}
		if !quiet {
			fmt.Fprintf(out, "compiled %s -> %s\n", r.Path, diagfmt.FormatPath(r.Output, paths, ""))
		}
		printTimings(cmd, cmd.ErrOrStderr(), r.Path, r.Timer)
	}
	if len(results) == 0 && !quiet {
		fmt.Fprintf(out, "no templates match %s\n", glob)
	}
	if len(failed) > 0 && !quiet {
		fmt.Fprintf(out, "%d of %d templates failed\n", len(failed), len(results))
	}
	return reportErrors(cmd, failed)
}
