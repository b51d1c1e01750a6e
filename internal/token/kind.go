package token

// Kind represents the category of a template token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// Const is literal template text.
	Const
	// Insert is the expression of an interpolation tag.
	Insert
	// Code is the body of a code tag.
	Code
)

func (k Kind) String() string {
	switch k {
	case Const:
		return "const"
	case Insert:
		return "insert"
	case Code:
		return "code"
	default:
		return "invalid"
	}
}
