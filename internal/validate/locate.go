package validate

import (
	"strings"

	"sjtc/internal/diag"
	"sjtc/internal/emit"
	"sjtc/internal/include"
)

// Options configures Validate.
type Options struct {
	// Context is the number of listing lines kept around the error; a
	// negative value keeps the whole function.
	Context int
}

// Validate checks out.Raw and converts a syntax error into a
// GeneratedSyntaxError located in the originating template when the
// offending line was copied from a code tag.
func Validate(out emit.Output, res *include.Result, opts Options) error {
	syn := Check(out.Raw)
	if syn == nil {
		return nil
	}

	err := diag.Errorf(diag.GeneratedSyntaxError, "%s", syn.Message)
	err.Listing = diag.NewListing(out.Raw, syn.Line, opts.Context)
	if loc, ok := Locate(out, res, syn.Line); ok {
		err.Primary = loc
	} else {
		err.Imprecise = true
		err.Primary = diag.Location{File: res.Root()}
		err.Message += " (cannot be located precisely)"
	}
	return err
}

// Locate maps a 1-based line of out.Raw to the template line it came from.
// Only lines copied from code tags can be mapped.
func Locate(out emit.Output, res *include.Result, line int) (diag.Location, bool) {
	off, ok := lineStart(out.Raw, line)
	if !ok || res == nil {
		return diag.Location{}, false
	}
	for _, f := range out.Fragments {
		if off < f.Start || off >= f.End {
			continue
		}
		flat := res.Line(f.Token.Offset()) + sourceLine(f, strings.Count(out.Raw[f.Start:off], "\n"))
		file, orig := res.Locate(flat)
		return diag.Location{File: file, Line: orig, Text: strings.TrimSpace(res.LineText(flat))}, true
	}
	return diag.Location{}, false
}

func lineStart(s string, line int) (int, bool) {
	if line < 1 {
		return 0, false
	}
	off := 0
	for n := 1; n < line; n++ {
		i := strings.IndexByte(s[off:], '\n')
		if i < 0 {
			return 0, false
		}
		off += i + 1
	}
	return off, true
}

// sourceLine maps line n of fragment f to a line offset within its token.
func sourceLine(f emit.Fragment, n int) int {
	if len(f.Lines) == 0 {
		return min(n, strings.Count(f.Token.Text, "\n"))
	}
	return f.Lines[min(n, len(f.Lines)-1)]
}
