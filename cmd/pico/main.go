package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"pico/internal/prof"
	"pico/internal/version"
)

// errRejected signals exit status 1 without printing anything further:
// the diagnostics already explain why.
var errRejected = errors.New("input rejected")

// session owns what a command run leaves open.
type session struct {
	cleanup  func()
	profiler *prof.Session
}

// close stops profilers and flushes the tracer. PersistentPostRun is skipped
// when RunE fails, so main calls this too.
func (s *session) close() {
	if err := s.profiler.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "profile: %v\n", err)
	}
	s.profiler = nil
	if s.cleanup != nil {
		s.cleanup()
		s.cleanup = nil
	}
}

// newRootCmd assembles the command tree. Tests build a fresh tree per case.
func newRootCmd() (*cobra.Command, *session) {
	sess := &session{}
	root := &cobra.Command{
		Use:           "pico",
		Short:         "Pico language recognizer",
		Long:          `pico checks whether programs conform to the Pico grammar and reports the first error`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			profiler, err := setupProfiling(cmd)
			if err != nil {
				return err
			}
			sess.profiler = profiler
			cleanup, err := setupTracing(cmd)
			sess.cleanup = cleanup
			return err
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			sess.close()
		},
	}

	// Глобальные флаги
	pf := root.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics per file (0 = unlimited)")
	pf.String("trace", "", "write trace events to this file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.Int("trace-ring-size", 4096, "events kept by the ring tracer")
	pf.Duration("trace-heartbeat", 0, "emit heartbeat events at this interval (0 = off)")
	pf.String("cpu-profile", "", "write a CPU profile to this file")
	pf.String("mem-profile", "", "write a heap profile to this file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to this file")

	root.AddCommand(newCheckCmd())
	root.AddCommand(newTokenizeCmd())
	root.AddCommand(newVersionCmd())
	root.AddCommand(newCleanCmd())
	return root, sess
}

// main runs the CLI; any error or rejected input exits with status 1.
func main() {
	root, sess := newRootCmd()
	err := root.Execute()
	sess.close()
	if err != nil {
		if !errors.Is(err, errRejected) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves --color against the manifest and the terminal.
func useColor(cmd *cobra.Command, manifest *projectManifest, f *os.File) (bool, error) {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	if !cmd.Root().PersistentFlags().Changed("color") && manifest != nil && manifest.Config.Output.Color != "" {
		mode = manifest.Config.Output.Color
	}
	switch mode {
	case "on", "always":
		return true, nil
	case "off", "never":
		return false, nil
	case "auto", "":
		return isTerminal(f), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
}
