package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"sjtc/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "sjtc",
	Short: "Compile HTML templates into JavaScript render functions",
	Long: `sjtc compiles templates with <% code %>, <%= expression %> and
<!--#include file="..."--> tags into the source of a render function.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupCommand,
}

// traceCleanup flushes the tracer installed by setupCommand.
var traceCleanup = func() {}

// profileCleanup stops the profilers started by setupCommand.
var profileCleanup = func() {}

// errReported marks failures whose diagnostics were already printed.
var errReported = errors.New("diagnostics reported")

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(versionCmd)

	addPersistentFlags(rootCmd)

	err := rootCmd.Execute()
	traceCleanup()
	profileCleanup()
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func addPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	cmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	cmd.PersistentFlags().Bool("timings", false, "show phase timings")
	cmd.PersistentFlags().String("diagnostics", "pretty", "diagnostics format (pretty|json)")
	cmd.PersistentFlags().String("path-mode", "relative", "how paths are shown (auto|absolute|relative|basename)")
	cmd.PersistentFlags().String("trace", "", "write a phase trace to a file, - for stderr")
	cmd.PersistentFlags().String("trace-level", "phase", "trace level (off|error|phase|detail|debug)")
	cmd.PersistentFlags().String("trace-format", "auto", "trace format (auto|text|ndjson)")
	cmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to file")
	cmd.PersistentFlags().String("mem-profile", "", "write a heap profile to file on exit")
	cmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to file")
}

func setupCommand(cmd *cobra.Command, _ []string) error {
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	traceCleanup = cleanup

	stop, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	profileCleanup = stop
	return nil
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
