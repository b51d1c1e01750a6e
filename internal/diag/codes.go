package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// tag structure
	UnclosedTag       Code = 1001
	InvalidTagNesting Code = 1002

	// include expansion
	MissingIncludeFile Code = 2001
	CircularInclude    Code = 2002

	// generated code
	GeneratedSyntaxError Code = 3001

	// configuration
	ConfigError Code = 4001
)

var codeDescription = map[Code]string{
	UnknownCode:          "Unknown error",
	UnclosedTag:          "Unclosed tag",
	InvalidTagNesting:    "Invalid tag nesting",
	MissingIncludeFile:   "Missing include file",
	CircularInclude:      "Circular include",
	GeneratedSyntaxError: "Syntax error in generated code",
	ConfigError:          "Invalid configuration",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("TAG%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("INC%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("GEN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("CFG%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// Sentinels for errors.Is; *Error matches the sentinel of its code.
var (
	ErrUnclosedTag          = &Error{Code: UnclosedTag}
	ErrInvalidTagNesting    = &Error{Code: InvalidTagNesting}
	ErrMissingIncludeFile   = &Error{Code: MissingIncludeFile}
	ErrCircularInclude      = &Error{Code: CircularInclude}
	ErrGeneratedSyntaxError = &Error{Code: GeneratedSyntaxError}
	ErrConfig               = &Error{Code: ConfigError}
)
