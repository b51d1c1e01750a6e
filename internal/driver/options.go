package driver

import (
	"sjtc/internal/config"
	"sjtc/internal/emit"
	"sjtc/internal/lexer"
	"sjtc/internal/observ"
	"sjtc/internal/source"
)

// Options configures a compile.
type Options struct {
	Config config.Config
	// Reader loads templates. Defaults to source.OSReader.
	Reader source.Reader
	// Timer collects phase timings; a fresh one is used when nil.
	Timer *observ.Timer
	// ListingContext is how many generated lines surround a syntax error in
	// its listing; negative keeps the whole function.
	ListingContext int
	// Progress receives a StatusWorking event per phase.
	Progress ProgressSink

	progressName string
}

// DefaultOptions compiles with config.Default from the local filesystem.
func DefaultOptions() Options {
	return Options{Config: config.Default(), ListingContext: -1}
}

func (o Options) reader() source.Reader {
	if o.Reader == nil {
		return source.OSReader{}
	}
	return o.Reader
}

func lexerOptions(cfg config.Config) lexer.Options {
	return lexer.Options{
		Escapes:              cfg.Escapes,
		StrictCommentNesting: cfg.StrictCommentNesting,
	}
}

func emitOptions(cfg config.Config) emit.Options {
	return emit.Options{
		InputIndent:       cfg.InputIndent,
		OutputIndent:      cfg.OutputIndent,
		LeadingIndent:     cfg.LeadingIndent,
		FunctionName:      cfg.FunctionName,
		ParamName:         cfg.ParamName,
		BufferName:        cfg.BufferName,
		FirstLineNoIndent: cfg.FirstLineNoIndent,
		AlwaysWrapInserts: cfg.AlwaysWrapInserts,
	}
}
