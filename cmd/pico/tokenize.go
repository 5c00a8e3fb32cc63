package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pico/internal/diagfmt"
	"pico/internal/driver"
	"pico/internal/lexer"
	"pico/internal/observ"
)

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] <file.pico|->",
		Short: "Print the tokens of a Pico program",
		Long:  `Tokenize prints every token of a program up to the first lexeme no token matches`,
		Args:  cobra.ExactArgs(1),
		RunE:  runTokenize,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	cmd.Flags().String("engine", "hand", "lexeme boundary engine (hand|automaton)")
	return cmd
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	engineStr, err := cmd.Flags().GetString("engine")
	if err != nil {
		return fmt.Errorf("failed to get engine flag: %w", err)
	}
	engine, err := lexer.ParseEngine(engineStr)
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	opts := driver.Options{Engine: engine, MaxDiagnostics: maxDiagnostics}
	if showTimings {
		opts.Timer = observ.NewTimer()
	}

	var result *driver.TokenizeResult
	if args[0] == "-" {
		result, err = driver.TokenizeReader(cmd.Context(), "<stdin>", cmd.InOrStdin(), opts)
	} else {
		result, err = driver.Tokenize(cmd.Context(), args[0], opts)
	}
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		err = diagfmt.FormatTokensPretty(out, result.Tokens)
	case "json":
		err = diagfmt.FormatTokensJSON(out, result.Tokens)
	}
	if err != nil {
		return err
	}

	// Выводим диагностику в stderr, если есть
	if result.Bag.HasErrors() {
		color, colorErr := useColor(cmd, nil, os.Stderr)
		if colorErr != nil {
			return colorErr
		}
		if err := diagfmt.Pretty(cmd.ErrOrStderr(), result.Bag, result.FileSet, diagfmt.PrettyOpts{Color: color, Context: 2}); err != nil {
			return err
		}
	}
	if showTimings {
		fmt.Fprintln(cmd.ErrOrStderr(), opts.Timer.Summary())
	}
	if result.Err != nil {
		return errRejected
	}
	return nil
}
