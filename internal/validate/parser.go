package validate

import (
	"fmt"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
)

var jsLang = sitter.NewLanguage(tree_sitter_javascript.Language())

// parserPool is a pool of reusable JS parsers
var parserPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(jsLang); err != nil {
			panic(fmt.Sprintf("failed to set JS language: %v", err))
		}
		return parser
	},
}

func acquireParser() *sitter.Parser {
	p := parserPool.Get().(*sitter.Parser)
	p.Reset()
	return p
}

func releaseParser(p *sitter.Parser) {
	if p != nil {
		parserPool.Put(p)
	}
}
