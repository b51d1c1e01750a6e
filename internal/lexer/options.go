package lexer

// Options configures Tokenize.
type Options struct {
	// Escapes enables <%% and %%> as literal <% and %>.
	Escapes bool
	// StrictCommentNesting makes tags inside <!-- --> push frames of their
	// own, so a comment containing an unbalanced tag is rejected.
	StrictCommentNesting bool
}

// DefaultOptions returns the tokenizer defaults.
func DefaultOptions() Options {
	return Options{Escapes: true}
}
