package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sjtc/internal/config"
	"sjtc/internal/diagfmt"
	"sjtc/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] <source>",
	Short: "Print the tokens of a template",
	Long:  `Tokenize expands includes in <source> and prints the resulting const, insert and code tokens`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json|msgpack)")
	tokenizeCmd.Flags().Bool("no-escapes", false, "treat <%% and %%> as ordinary tags")
	tokenizeCmd.Flags().Bool("strict-comments", false, "track tags inside <!-- --> comments")
	tokenizeCmd.Flags().Int("width", 0, "truncate token text to this many columns (pretty only)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	width, err := cmd.Flags().GetInt("width")
	if err != nil {
		return fmt.Errorf("failed to get width flag: %w", err)
	}
	cfg := config.Default()
	if err := overrideBool(cmd, "no-escapes", &cfg.Escapes, true); err != nil {
		return err
	}
	if err := overrideBool(cmd, "strict-comments", &cfg.StrictCommentNesting, false); err != nil {
		return err
	}
	mode, err := pathMode(cmd)
	if err != nil {
		return err
	}

	opts := driver.DefaultOptions()
	opts.Config = cfg
	result, err := driver.Tokenize(cmd.Context(), args[0], opts)
	if err != nil {
		return reportErrors(cmd, []error{err})
	}

	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		err = diagfmt.FormatTokensPretty(out, result.Tokens, result.Expanded, diagfmt.PrettyOpts{
			Color:    useColor(cmd, os.Stdout),
			PathMode: mode,
			Width:    width,
		})
	case "json":
		err = diagfmt.FormatTokensJSON(out, result.Tokens, result.Expanded, diagfmt.JSONOpts{PathMode: mode})
	case "msgpack":
		err = diagfmt.FormatTokensMsgpack(out, result.Tokens, result.Expanded, diagfmt.JSONOpts{PathMode: mode})
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if err != nil {
		return err
	}
	printTimings(cmd, cmd.ErrOrStderr(), "", result.Timer)
	return nil
}
