// Package diag defines the diagnostic model shared by the checker and the CLI.
//
// A Diagnostic is plain data: severity, a stable Code, a message and the
// primary source.Span. Producers hand diagnostics to a Reporter; BagReporter
// collects them into a Bag that the CLI renders through
// internal/diagfmt. Nothing here formats for a terminal or performs IO.
//
// Codes are grouped by range and printed with a prefix:
//
//   - 1xxx LEX: lexical failures
//   - 2xxx SYN: grammar failures
//   - 4xxx IO: reading inputs
//   - 6xxx OBS: timings and other observability output
package diag
