// Package validate parses generated render functions for syntax errors and
// maps an error back to the template line that produced it.
package validate

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// wrapPrefix turns the anonymous function declaration into an expression.
const wrapPrefix = "var __sjtc = "

// SyntaxError is a parse failure in generated source.
type SyntaxError struct {
	Line    int // 1-based line of the checked source
	Column  int // 1-based
	Message string
}

// Check parses src as a JavaScript function expression. It returns nil when
// src is syntactically valid. The code is never executed.
func Check(src string) *SyntaxError {
	code := []byte(wrapPrefix + src + ";")

	parser := acquireParser()
	defer releaseParser(parser)

	tree := parser.Parse(code, nil)
	if tree == nil {
		return &SyntaxError{Line: 1, Column: 1, Message: "the generated code could not be parsed"}
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return nil
	}
	bad := firstError(root)

	pos := bad.StartPosition()
	line := int(pos.Row) + 1
	col := int(pos.Column) + 1
	if line == 1 {
		col = max(1, col-len(wrapPrefix))
	}
	return &SyntaxError{Line: line, Column: col, Message: describe(bad, code)}
}

// firstError returns the first ERROR or MISSING node in document order.
// Subtrees without errors are skipped.
func firstError(n *sitter.Node) *sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		c := n.Child(i)
		if c == nil || !(c.HasError() || c.IsMissing()) {
			continue
		}
		if e := firstError(c); e != nil {
			return e
		}
	}
	return n
}

func describe(n *sitter.Node, code []byte) string {
	if n.IsMissing() {
		return "missing " + n.Kind()
	}
	text := string(code[n.StartByte():n.EndByte()])
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "unexpected end of input"
	}
	if len(text) > 40 {
		text = text[:40] + "..."
	}
	return "unexpected " + text
}
