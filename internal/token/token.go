package token

import (
	"sjtc/internal/source"
)

// Token is one segment of the expanded template. Tokens are produced in
// source order and never modified afterwards.
type Token struct {
	Kind Kind
	Text string
	// Span locates the raw segment in the expanded text.
	Span source.Span
	// Depth is the brace nesting in effect before the token.
	Depth int
	// Adjust corrects Depth for code tokens such as "} else {".
	Adjust int
	// File is the template the token originates from.
	File string
}

// Offset returns the start of the token in the expanded text.
func (t Token) Offset() int { return int(t.Span.Start) }

// IsCode reports whether the token is a code token.
func (t Token) IsCode() bool { return t.Kind == Code }
