package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"sjtc/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show sjtc build information",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().Bool("hash", false, "include git commit hash")
	versionCmd.Flags().Bool("date", false, "include build timestamp")
	versionCmd.Flags().Bool("full", false, "show all recorded build metadata")
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runVersion(cmd *cobra.Command, _ []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	full, _ := cmd.Flags().GetBool("full")
	showHash, _ := cmd.Flags().GetBool("hash")
	showDate, _ := cmd.Flags().GetBool("date")
	showHash = showHash || full
	showDate = showDate || full

	info := version.Current()
	if showHash && info.GitCommit == "" {
		info.GitCommit = "unknown"
	}
	if showDate && info.BuildDate == "" {
		info.BuildDate = "unknown"
	}
	if !showHash {
		info.GitCommit = ""
	}
	if !showDate {
		info.BuildDate = ""
	}

	out := cmd.OutOrStdout()
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	case "pretty":
		v := info.Version
		if useColor(cmd, os.Stdout) && v == version.Version {
			v = version.Colored()
		}
		fmt.Fprintf(out, "%s %s\n", info.Tool, v)
		if info.GitCommit != "" {
			fmt.Fprintf(out, "commit: %s\n", info.GitCommit)
		}
		if info.BuildDate != "" {
			fmt.Fprintf(out, "built:  %s\n", info.BuildDate)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
}
