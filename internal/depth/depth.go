// Package depth measures how code fragments change the brace nesting of the
// generated function and how they should be indented.
package depth

import (
	"regexp"
	"strings"

	"sjtc/internal/scan"
)

var (
	reopenRe     = regexp.MustCompile(`(?i)^\s*\}\s*(?:else(?:\s+if\s*\(.*?\))?|catch\s*(?:\(.*?\))?|finally)\s*\{`)
	opensBlockRe = regexp.MustCompile(`\{$|case\s.*?:|default.*?:`)
	closesRe     = regexp.MustCompile(`\}[^}]*?$`)
)

// Delta returns the net number of '{' minus '}' in code, ignoring braces in
// comments, strings and regular expression literals.
func Delta(code string) int {
	zones := scan.Zones(code)
	d, z := 0, 0
	for i := 0; i < len(code); i++ {
		for z < len(zones) && zones[z].End <= i {
			z++
		}
		if z < len(zones) && zones[z].Contains(i) {
			i = zones[z].End - 1
			continue
		}
		switch code[i] {
		case '{':
			d++
		case '}':
			d--
		}
	}
	return d
}

// Adjustment returns the indentation correction for a code fragment relative
// to the depth in effect before it. "} else {" and friends render one level
// out; fragments starting with closing braces render at the depth after
// their closures.
func Adjustment(code string) int {
	code = strings.TrimSpace(code)
	if reopenRe.MatchString(code) {
		return -1
	}
	if strings.HasPrefix(code, "}") {
		return Delta(code)
	}
	return 0
}

// OpensBlock reports whether code starts a control block: it ends with '{'
// or is a case/default label.
func OpensBlock(code string) bool {
	return opensBlockRe.MatchString(strings.TrimSpace(code))
}

// ClosesBlock reports whether code closes a control block.
func ClosesBlock(code string) bool {
	return closesRe.MatchString(strings.TrimSpace(code))
}
