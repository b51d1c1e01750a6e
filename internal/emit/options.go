package emit

// Options shapes the generated render function.
type Options struct {
	InputIndent       int // spaces per tab in template text and code
	OutputIndent      int // spaces per nesting level
	LeadingIndent     int // spaces prefixed to every line
	FunctionName      string
	ParamName         string
	BufferName        string
	FirstLineNoIndent bool
	AlwaysWrapInserts bool
}

// DefaultOptions returns the emitter defaults.
func DefaultOptions() Options {
	return Options{
		InputIndent:  4,
		OutputIndent: 4,
		ParamName:    "obj",
		BufferName:   "__bf",
	}
}
