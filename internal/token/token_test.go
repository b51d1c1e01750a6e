package token

import (
	"testing"

	"sjtc/internal/source"
)

func TestKindString(t *testing.T) {
	tests := map[Kind]string{
		Const:   "const",
		Insert:  "insert",
		Code:    "code",
		Invalid: "invalid",
		Kind(9): "invalid",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}

func TestTokenOffset(t *testing.T) {
	tok := Token{Kind: Code, Span: source.Span{Start: 12, End: 20}}
	if tok.Offset() != 12 {
		t.Errorf("Offset() = %d, want 12", tok.Offset())
	}
	if !tok.IsCode() {
		t.Error("IsCode() = false")
	}
}
