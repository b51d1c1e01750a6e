// Package diag defines the fatal error model shared by all compile phases.
//
// Every failure of the pipeline is reported as one *Error: there is no
// aggregation and no partial output. An Error carries
//
//   - Code – compact numeric identifier (see codes.go) with stable ID form
//     (TAG1001, INC2002, ...), matched by errors.Is against the package sentinels.
//   - Message – short human text.
//   - Primary – original file, 1-based line and the trimmed line content.
//   - Secondary – the opening tag of a nesting mismatch, when there is one.
//   - Chain – the include ancestry, innermost first, rendered by RenderChain.
//   - Listing – generated code around a syntax error.
//
// Package diag does not perform formatting or IO; rendering lives in
// internal/diagfmt.
package diag
