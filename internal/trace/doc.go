// Package trace records what the checker is doing while it runs.
//
// Events form a tree of spans. Coarse scopes come first:
//
//   - ScopeDriver: one CLI invocation
//   - ScopeFile: one input file
//   - ScopePhase: load, tokenize, recognize inside a file
//   - ScopeRule: one grammar procedure call (debug only)
//
// The level decides how deep the tree goes: phase keeps driver and file
// spans, detail adds phases, debug adds rules.
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, path, trace.ParentFrom(ctx))
//	defer span.End("")
package trace
