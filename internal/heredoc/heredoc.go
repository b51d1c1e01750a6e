// Package heredoc rewrites heredoc blocks inside code tags into string
// concatenation expressions.
//
//	var html = @EOT
//	    <li class="#{cls}">#{name}</li>
//	EOT;
//
// becomes
//
//	var html = (""
//	    + "<li class=\"" + cls + "\">" + name + "</li>"
//	);
//
// A block opens with @NAME and closes at the first later line that starts,
// after optional indentation, with NAME not followed by an identifier
// character. Openers inside comments, strings and regular expressions are
// ignored.
package heredoc

import (
	"regexp"
	"strings"

	"sjtc/internal/literal"
	"sjtc/internal/scan"
)

var interpRe = regexp.MustCompile(`#\{(.*?)\}`)

// Translate rewrites every heredoc of code. Code on a single line is
// returned unchanged.
func Translate(code string, opts literal.Options) string {
	out, _ := Map(code, opts)
	return out
}

// Map is Translate that also reports, for each line of the result, the
// 0-based line of code it came from. Heredoc bodies lose their blank lines,
// so the two line counts may differ.
func Map(code string, opts literal.Options) (string, []int) {
	lines := []int{0}
	if !strings.Contains(code, "\n") {
		return code, lines
	}
	var out strings.Builder
	rest, base := code, 0
	for {
		at, name, bodyStart, closeLine, closeEnd, ok := find(rest)
		if !ok {
			out.WriteString(rest)
			return out.String(), appendSource(lines, rest, base)
		}
		out.WriteString(rest[:at])
		lines = appendSource(lines, rest[:at], base)

		opener := base + strings.Count(rest[:at], "\n")
		closeRel := strings.Count(rest[at:closeLine], "\n")
		text, rel := render(rest[bodyStart:closeLine], rest[closeLine:closeEnd-len(name)], closeRel, opts)
		out.WriteString(text)
		for _, r := range rel {
			lines = append(lines, opener+r)
		}

		base += strings.Count(rest[:closeEnd], "\n")
		rest = rest[closeEnd:]
	}
}

// appendSource extends lines for text copied verbatim from source line
// base onwards.
func appendSource(lines []int, text string, base int) []int {
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			base++
			lines = append(lines, base)
		}
	}
	return lines
}

// find locates the first heredoc of code. closeLine is the start of the
// indentation of the closing line and closeEnd the offset after NAME.
func find(code string) (at int, name string, bodyStart, closeLine, closeEnd int, ok bool) {
	zones := scan.Zones(code)
	for i := 0; i < len(code); i++ {
		if code[i] != '@' {
			continue
		}
		if _, in := scan.ZoneAt(zones, i); in {
			continue
		}
		j := i + 1
		for j < len(code) && isIdent(code[j]) {
			j++
		}
		if j == i+1 {
			continue
		}
		name = code[i+1 : j]
		if cl, ce, found := findClose(code, name, j); found {
			return i, name, j, cl, ce, true
		}
	}
	return 0, "", 0, 0, 0, false
}

func findClose(code, name string, from int) (closeLine, closeEnd int, ok bool) {
	for p := strings.IndexByte(code[from:], '\n'); p >= 0; {
		lineStart := from + p + 1
		k := lineStart
		for k < len(code) && (code[k] == ' ' || code[k] == '\t') {
			k++
		}
		if strings.HasPrefix(code[k:], name) {
			end := k + len(name)
			if end == len(code) || !isIdent(code[end]) {
				return lineStart, end, true
			}
		}
		from = lineStart
		p = strings.IndexByte(code[from:], '\n')
	}
	return 0, 0, false
}

// render returns the concatenation for a heredoc body and, for every
// newline it writes, the source line the next output line comes from,
// relative to the opening line. closeRel is the closing line.
func render(body, endSpace string, closeRel int, opts literal.Options) (string, []int) {
	var segs []literal.Segment
	last := 0
	for _, m := range interpRe.FindAllStringSubmatchIndex(body, -1) {
		if m[0] > last {
			segs = append(segs, literal.Segment{Text: body[last:m[0]]})
		}
		segs = append(segs, literal.Segment{Insert: true, Text: body[m[2]:m[3]]})
		last = m[1]
	}
	if last < len(body) {
		segs = append(segs, literal.Segment{Text: body[last:]})
	}

	blk := literal.Build(segs, opts)
	if len(blk.Lines) == 0 {
		return "", nil
	}
	indent := strings.Repeat(" ", blk.MinIndent)
	var sb strings.Builder
	sb.WriteString("(\"\"")
	for _, l := range blk.Lines {
		sb.WriteByte('\n')
		sb.WriteString(indent)
		sb.WriteString("+ ")
		sb.WriteString(blk.Dedent(l))
	}
	sb.WriteString("\n")
	sb.WriteString(endSpace)
	sb.WriteString(")")
	return sb.String(), append(blk.Src, closeRel)
}

func isIdent(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
