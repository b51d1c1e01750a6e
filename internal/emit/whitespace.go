package emit

import "strings"

// AdjustLeftSpace re-indents a code fragment: tabs become tabWidth spaces,
// the common indentation of its non-blank lines is removed and indent is
// prefixed to each of them. Blank lines are kept as they are.
func AdjustLeftSpace(code, indent string, tabWidth int) string {
	lines := strings.Split(strings.ReplaceAll(code, "\t", spaces(tabWidth)), "\n")
	minIndent := -1
	for _, l := range lines {
		body := strings.TrimLeft(l, " ")
		if strings.TrimSpace(body) == "" {
			continue
		}
		if n := len(l) - len(body); minIndent < 0 || n < minIndent {
			minIndent = n
		}
	}
	minIndent = max(minIndent, 0)
	for i, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines[i] = indent + l[minIndent:]
	}
	return strings.Join(lines, "\n")
}

// CollapseBlankLines replaces every run of blank or whitespace-only lines
// with a single empty line.
func CollapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	blank := false
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			if blank {
				continue
			}
			blank = true
			out = append(out, "")
			continue
		}
		blank = false
		out = append(out, l)
	}
	return strings.Join(out, "\n")
}
