// Package trace records compile phases to help diagnose slow or surprising
// compiles.
//
// # Usage
//
//	sjtc compile --trace=- --trace-level=phase page.html page.js
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: only failing compiles
//   - LevelPhase: driver and pass boundaries
//   - LevelDetail: per-file events (includes)
//   - LevelDebug: everything
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "tokenize", parentID)
//	defer span.End("")
package trace
