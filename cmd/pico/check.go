package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"pico/internal/diag"
	"pico/internal/diagfmt"
	"pico/internal/driver"
	"pico/internal/lexer"
	"pico/internal/observ"
)

type outputFormat string

const (
	formatPretty outputFormat = "pretty"
	formatShort  outputFormat = "short"
	formatJSON   outputFormat = "json"
)

func readFormat(value string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(strings.TrimSpace(value))); f {
	case formatPretty, formatShort, formatJSON:
		return f, nil
	case "":
		return formatPretty, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected pretty|short|json)", value)
	}
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] <file.pico|directory|->...",
		Short: "Check that Pico programs are well formed",
		Long: `Check recognizes each program and reports the first error in it.
Directories are walked recursively for *.pico files, "-" reads standard input.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCheck,
	}
	cmd.Flags().String("engine", "hand", "lexeme boundary engine (hand|automaton)")
	cmd.Flags().String("format", "pretty", "output format (pretty|short|json)")
	cmd.Flags().String("ui", "auto", "show progress view (auto|on|off)")
	cmd.Flags().String("path-mode", "auto", "how file paths are shown (auto|absolute|relative|basename)")
	cmd.Flags().String("ext", driver.DefaultExtension, "program file extension for directory walks")
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	cmd.Flags().Bool("no-cache", false, "do not read or write the verdict cache")
	cmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	return cmd
}

// checkSettings is the merged view of flags and pico.toml.
type checkSettings struct {
	opts     driver.Options
	format   outputFormat
	ui       uiMode
	pathMode diagfmt.PathMode
	notes    bool
	quiet    bool
	timings  bool
	cache    bool
}

func readCheckSettings(cmd *cobra.Command, manifest *projectManifest) (checkSettings, error) {
	var s checkSettings
	flags := cmd.Flags()
	var cfg checkConfig
	var out outputConfig
	if manifest != nil {
		cfg, out = manifest.Config.Check, manifest.Config.Output
	}

	engineStr, err := flags.GetString("engine")
	if err != nil {
		return s, fmt.Errorf("failed to get engine flag: %w", err)
	}
	if !flags.Changed("engine") && cfg.Engine != "" {
		engineStr = cfg.Engine
	}
	if s.opts.Engine, err = lexer.ParseEngine(engineStr); err != nil {
		return s, err
	}

	formatStr, err := flags.GetString("format")
	if err != nil {
		return s, fmt.Errorf("failed to get format flag: %w", err)
	}
	if !flags.Changed("format") && out.Format != "" {
		formatStr = out.Format
	}
	if s.format, err = readFormat(formatStr); err != nil {
		return s, err
	}

	uiStr, err := flags.GetString("ui")
	if err != nil {
		return s, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if s.ui, err = readUIMode(uiStr); err != nil {
		return s, err
	}

	pathModeStr, err := flags.GetString("path-mode")
	if err != nil {
		return s, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	if s.pathMode, err = diagfmt.ParsePathMode(pathModeStr); err != nil {
		return s, err
	}

	if s.opts.Extension, err = flags.GetString("ext"); err != nil {
		return s, fmt.Errorf("failed to get ext flag: %w", err)
	}
	if !flags.Changed("ext") && cfg.Extension != "" {
		s.opts.Extension = cfg.Extension
	}

	if s.opts.Jobs, err = flags.GetInt("jobs"); err != nil {
		return s, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if !flags.Changed("jobs") && cfg.Jobs > 0 {
		s.opts.Jobs = cfg.Jobs
	}

	noCache, err := flags.GetBool("no-cache")
	if err != nil {
		return s, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	s.cache = !noCache && (cfg.Cache == nil || *cfg.Cache)

	if s.notes, err = flags.GetBool("with-notes"); err != nil {
		return s, fmt.Errorf("failed to get with-notes flag: %w", err)
	}

	root := cmd.Root().PersistentFlags()
	if s.opts.MaxDiagnostics, err = root.GetInt("max-diagnostics"); err != nil {
		return s, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if !root.Changed("max-diagnostics") && cfg.MaxDiagnostics != nil {
		s.opts.MaxDiagnostics = *cfg.MaxDiagnostics
	}
	if s.quiet, err = root.GetBool("quiet"); err != nil {
		return s, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.timings, err = root.GetBool("timings"); err != nil {
		return s, fmt.Errorf("failed to get timings flag: %w", err)
	}
	return s, nil
}

// runCheck executes "check" for every argument and exits non-zero when any
// program is rejected.
func runCheck(cmd *cobra.Command, args []string) error {
	manifest, _, err := loadProjectManifest(".")
	if err != nil {
		return err
	}
	s, err := readCheckSettings(cmd, manifest)
	if err != nil {
		return err
	}
	if s.timings {
		s.opts.Timer = observ.NewTimer()
		s.opts.Timings = s.format == formatJSON
	}
	if s.cache {
		cache, cacheErr := driver.OpenDiskCache("pico")
		if cacheErr != nil && !s.quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: verdict cache disabled: %v\n", cacheErr)
		}
		s.opts.Cache = cache
	}

	result, err := checkArgs(cmd, args, s)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	if err := renderCheck(cmd, result, s, manifest); err != nil {
		return err
	}
	if s.timings && s.format != formatJSON {
		fmt.Fprintln(cmd.ErrOrStderr(), s.opts.Timer.Summary())
	}
	dumpRingOnFailure(cmd, !result.OK())
	if !result.OK() {
		return errRejected
	}
	return nil
}

func checkArgs(cmd *cobra.Command, args []string, s checkSettings) (*driver.CheckResult, error) {
	ctx := cmd.Context()
	if len(args) == 1 && args[0] == "-" {
		return driver.CheckReader(ctx, "<stdin>", cmd.InOrStdin(), s.opts)
	}

	var files []string
	baseDir := ""
	for _, arg := range args {
		if arg == "-" {
			return nil, fmt.Errorf(`"-" cannot be combined with other paths`)
		}
		st, err := os.Stat(arg)
		if err != nil || !st.IsDir() {
			// отсутствующий файл станет IO-диагностикой
			files = append(files, arg)
			continue
		}
		found, err := driver.ListFiles(arg, s.opts.Extension)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
		if len(args) == 1 {
			baseDir = arg
		}
	}

	if shouldUseTUI(s.ui, len(files)) && !s.quiet {
		title := "pico check " + strings.Join(args, " ")
		return runCheckWithUI(ctx, title, files, baseDir, s.opts)
	}
	return driver.CheckPaths(ctx, files, baseDir, s.opts)
}

func renderCheck(cmd *cobra.Command, result *driver.CheckResult, s checkSettings, manifest *projectManifest) error {
	out := cmd.OutOrStdout()
	switch s.format {
	case formatPretty:
		color, err := useColor(cmd, manifest, os.Stdout)
		if err != nil {
			return err
		}
		if err := diagfmt.Pretty(out, result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:     color,
			Context:   2,
			PathMode:  s.pathMode,
			ShowNotes: s.notes,
		}); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
		if !s.quiet {
			writeSummary(out, result)
		}
	case formatShort:
		if text := diag.FormatShortDiagnostics(result.Bag.Items(), result.FileSet, s.notes); text != "" {
			fmt.Fprintln(out, text)
		}
	case formatJSON:
		doc := diagfmt.BuildDiagnosticsOutput(result.Bag, result.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         s.pathMode,
			IncludeNotes:     s.notes,
		})
		for _, f := range result.Files {
			doc.Files = append(doc.Files, diagfmt.FileVerdictJSON{File: displayPath(f.Path), Accepted: f.Accepted, Cached: f.Cached})
		}
		if err := diagfmt.WriteJSON(out, doc); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	}
	return nil
}

func writeSummary(w io.Writer, result *driver.CheckResult) {
	rejected := result.Rejected()
	accepted := len(result.Files) - rejected
	switch {
	case len(result.Files) == 1 && rejected == 0:
		fmt.Fprintf(w, "%s: ok\n", displayPath(result.Files[0].Path))
	case len(result.Files) == 1:
		// диагностика уже напечатана
	default:
		fmt.Fprintf(w, "%d file(s) checked: %d accepted, %d rejected\n", len(result.Files), accepted, rejected)
	}
}

func displayPath(p string) string {
	if strings.HasPrefix(p, "<") {
		return p
	}
	return filepath.ToSlash(p)
}
