package include

import (
	"strings"

	"fortio.org/safecast"

	"sjtc/internal/diag"
	"sjtc/internal/source"
)

// EditKind classifies an edit log entry.
type EditKind uint8

const (
	IncludeStart EditKind = iota + 1
	LineCountDelta
	IncludeEnd
)

func (k EditKind) String() string {
	switch k {
	case IncludeStart:
		return "inc-start"
	case LineCountDelta:
		return "add"
	case IncludeEnd:
		return "inc-end"
	default:
		return "unknown"
	}
}

// Edit is one entry of the edit log. At is a 1-based line of the flat text.
type Edit struct {
	At    int
	Kind  EditKind
	File  string // IncludeStart only
	Delta int    // LineCountDelta only
}

// Position records that flat bytes [Start, End) were produced by File.
// Entries are appended innermost first.
type Position struct {
	File          string
	Start         int
	End           int
	LeadingIndent string
}

// Result is the outcome of Expand.
type Result struct {
	// Text is the flat template with every directive expanded.
	Text      string
	Positions []Position
	Edits     []Edit
	// Included lists resolved include targets in first-inclusion order.
	Included []string
	// Files holds every template read, plus the flat text as a virtual file.
	Files *source.FileSet
	Flat  source.FileID
}

// Root returns the template the expansion started from.
func (r *Result) Root() string {
	if len(r.Positions) == 0 {
		return ""
	}
	return r.Positions[len(r.Positions)-1].File
}

// FileAt returns the template owning flat offset off.
func (r *Result) FileAt(off int) string {
	for _, p := range r.Positions {
		if off >= p.Start && off < p.End {
			return p.File
		}
	}
	return r.Root()
}

// Line returns the 1-based flat line containing off.
func (r *Result) Line(off int) int {
	f := r.Files.Get(r.Flat)
	if f == nil {
		return strings.Count(r.Text[:min(max(off, 0), len(r.Text))], "\n") + 1
	}
	o, err := safecast.Conv[uint32](max(off, 0))
	if err != nil {
		return 1
	}
	return int(f.Position(o).Line)
}

// LineText returns flat line n without its terminator.
func (r *Result) LineText(n int) string {
	lines := strings.Split(r.Text, "\n")
	if n < 1 || n > len(lines) {
		return ""
	}
	return lines[n-1]
}

// Locate maps a 1-based flat line to the template and 1-based line it came
// from by replaying the edit log.
func (r *Result) Locate(flatLine int) (file string, line int) {
	type frame struct {
		base  int
		file  string
		delta int
	}
	var stack []frame
replay:
	for _, e := range r.Edits {
		if flatLine < e.At {
			break
		}
		switch e.Kind {
		case IncludeStart:
			stack = append(stack, frame{base: e.At, file: e.File})
		case LineCountDelta:
			if len(stack) > 0 {
				stack[len(stack)-1].delta += e.Delta
			}
		case IncludeEnd:
			if flatLine == e.At {
				break replay
			}
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	if len(stack) == 0 {
		return r.Root(), flatLine
	}
	top := stack[len(stack)-1]
	return top.file, 1 + flatLine - top.base - top.delta
}

// Origin resolves flat offset off to a diagnostic location.
func (r *Result) Origin(off int) diag.Location {
	flat := r.Line(off)
	file, line := r.Locate(flat)
	return diag.Location{File: file, Line: line, Text: strings.TrimSpace(r.LineText(flat))}
}
