package diag

import (
	"fmt"
	"strings"
)

// Location points at a line of an original template.
type Location struct {
	File string
	Line int // 1-based, 0 when unknown
	Text string
}

func (l Location) String() string {
	if l.Line == 0 {
		return l.File
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Error is the single fatal diagnostic produced by a compile.
type Error struct {
	Code    Code
	Message string
	// Primary is where the problem was detected.
	Primary Location
	// Secondary is the other tag of a nesting mismatch.
	Secondary *Location
	// Chain is the include ancestry, innermost first.
	Chain []string
	// CycleAt indexes the entry of Chain that closes a cycle, -1 otherwise.
	CycleAt int
	// Fragment is the source between two mismatched tags.
	Fragment string
	// Listing is the generated code around a syntax error.
	Listing *Listing
	// Imprecise is set when the originating template line could not be determined.
	Imprecise bool
}

// Errorf builds an Error with a formatted message and no location.
func Errorf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), CycleAt: -1}
}

// At sets the primary location.
func (e *Error) At(loc Location) *Error {
	e.Primary = loc
	return e
}

// WithChain attaches the include ancestry.
func (e *Error) WithChain(chain []string, cycleAt int) *Error {
	e.Chain = append([]string(nil), chain...)
	e.CycleAt = cycleAt
	return e
}

func (e *Error) Severity() Severity { return SevError }

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Code.ID())
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if e.Primary.File != "" {
		sb.WriteString(" (")
		sb.WriteString(e.Primary.String())
		sb.WriteString(")")
	}
	return sb.String()
}

// Is matches any *Error with the same code, so the package sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}
