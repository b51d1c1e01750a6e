package diag

import (
	"strings"
)

// ListingLine is one numbered line of generated code.
type ListingLine struct {
	No        int
	Text      string
	Highlight bool
}

// Listing is an excerpt of generated code with the offending line marked.
type Listing struct {
	Lines []ListingLine
}

// NewListing cuts context lines on each side of line (1-based) out of text.
// A negative context keeps the whole text.
func NewListing(text string, line, context int) *Listing {
	all := strings.Split(text, "\n")
	from, to := 1, len(all)
	if context >= 0 {
		from = max(1, line-context)
		to = min(len(all), line+context)
	}
	l := &Listing{Lines: make([]ListingLine, 0, to-from+1)}
	for no := from; no <= to; no++ {
		l.Lines = append(l.Lines, ListingLine{No: no, Text: all[no-1], Highlight: no == line})
	}
	return l
}
