// Package literal turns runs of template text and interpolations into the
// lines of a JavaScript string concatenation. The emitter uses it for
// constant blocks and the heredoc translator for heredoc bodies.
package literal

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// propertyRe matches simple property reads such as a.b, a['b'] or $x[0].c.
var propertyRe = regexp.MustCompile(`^[$\w]+(?:\s*\.\s*[$\w]+\s*|\s*\[\s*['"$\w]+\s*\]\s*)*$`)

// Segment is a piece of literal text or an interpolated expression.
type Segment struct {
	Insert bool
	Text   string
}

// Options controls line building.
type Options struct {
	// InputIndent is the number of spaces a tab expands to.
	InputIndent int
	// AlwaysWrap parenthesizes every interpolation, not only complex ones.
	AlwaysWrap bool
}

// Block is the rendered form of a segment run.
type Block struct {
	// Lines keep their leading indentation; blank lines are dropped.
	Lines []string
	// MinIndent is the smallest leading indentation among Lines.
	MinIndent int
	// Src holds, for each of Lines, the 0-based input line it was built
	// from, counting every newline of the segments.
	Src []int
}

// Dedent returns line with the block's common indentation removed.
func (b Block) Dedent(line string) string {
	if len(line) < b.MinIndent {
		return strings.TrimLeft(line, " ")
	}
	return line[b.MinIndent:]
}

// Build renders segs line by line. Each line becomes its leading
// indentation followed by its parts joined with " + ": literal parts
// quoted, interpolations bare when they are property reads and wrapped in
// parentheses otherwise.
func Build(segs []Segment, opts Options) Block {
	tab := strings.Repeat(" ", max(opts.InputIndent, 0))
	var blk Block
	first := true
	lines, srcs := splitLines(segs)
	for n, line := range lines {
		line = normalizeLine(line, tab)
		if len(line) == 0 {
			continue
		}

		indent := ""
		if !line[0].Insert {
			body := strings.TrimLeft(line[0].Text, " \t")
			indent = line[0].Text[:len(line[0].Text)-len(body)]
			if body == "" {
				line = line[1:]
			} else {
				line[0].Text = body
			}
		}

		parts := make([]string, len(line))
		for i, seg := range line {
			switch {
			case seg.Insert:
				parts[i] = renderInsert(seg.Text, opts.AlwaysWrap)
			case i == len(line)-1:
				parts[i] = Quote(withTrailingSpace(seg.Text))
			default:
				parts[i] = Quote(seg.Text)
			}
		}

		blk.Lines = append(blk.Lines, indent+strings.Join(parts, " + "))
		blk.Src = append(blk.Src, srcs[n])
		if first || len(indent) < blk.MinIndent {
			blk.MinIndent = len(indent)
			first = false
		}
	}
	return blk
}

// splitLines cuts segs at the newlines of literal text and returns the
// input line each piece starts on. Newlines inside interpolations are
// folded into spaces.
func splitLines(segs []Segment) ([][]Segment, []int) {
	lines := [][]Segment{nil}
	srcs := []int{0}
	src := 0
	for _, seg := range segs {
		if seg.Insert {
			src += strings.Count(seg.Text, "\n")
			cur := &lines[len(lines)-1]
			*cur = append(*cur, Segment{Insert: true, Text: strings.ReplaceAll(seg.Text, "\n", " ")})
			continue
		}
		for i, piece := range strings.Split(seg.Text, "\n") {
			if i > 0 {
				src++
				lines = append(lines, nil)
				srcs = append(srcs, src)
			}
			if piece == "" {
				continue
			}
			cur := &lines[len(lines)-1]
			if n := len(*cur); n > 0 && !(*cur)[n-1].Insert {
				(*cur)[n-1].Text += piece
				continue
			}
			*cur = append(*cur, Segment{Text: piece})
		}
	}
	return lines, srcs
}

// normalizeLine expands tabs and trims trailing whitespace. A line without
// interpolations and with only whitespace comes back empty.
func normalizeLine(line []Segment, tab string) []Segment {
	for i := range line {
		if !line[i].Insert {
			line[i].Text = strings.ReplaceAll(line[i].Text, "\t", tab)
		}
	}
	if n := len(line); n > 0 && !line[n-1].Insert {
		line[n-1].Text = strings.TrimRight(line[n-1].Text, " \t\r\f\v")
		if line[n-1].Text == "" {
			line = line[:n-1]
		}
	}
	return line
}

func renderInsert(expr string, alwaysWrap bool) string {
	expr = strings.TrimSpace(expr)
	if !alwaysWrap && propertyRe.MatchString(expr) {
		return expr
	}
	return " ( " + expr + " ) "
}

// withTrailingSpace keeps inter-line whitespace of markup unless the text
// ends a tag or ends with a character outside Latin-1.
func withTrailingSpace(s string) string {
	r, _ := utf8.DecodeLastRuneInString(s)
	if r == '>' || r >= 0x100 {
		return s
	}
	return s + " "
}

// Quote renders s as a JavaScript double-quoted string literal. Bytes that
// are not valid UTF-8 become \xNN escapes, so each one reaches the output
// as the code unit of the same value.
func Quote(s string) string {
	const hex = "0123456789abcdef"
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			switch c {
			case '"', '\\':
				b.WriteByte('\\')
				b.WriteByte(c)
			case '\n':
				b.WriteString(`\n`)
			case '\r':
				b.WriteString(`\r`)
			case '\t':
				b.WriteString(`\t`)
			case '\b':
				b.WriteString(`\b`)
			case '\f':
				b.WriteString(`\f`)
			default:
				if c < 0x20 {
					b.WriteString(`\u00`)
					b.WriteByte(hex[c>>4])
					b.WriteByte(hex[c&0xf])
				} else {
					b.WriteByte(c)
				}
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			b.WriteString(`\x`)
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0xf])
		case r == '\u2028' || r == '\u2029':
			// line terminators inside JS string literals before ES2019
			b.WriteString(`\u202`)
			b.WriteByte(hex[r&0xf])
		default:
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	b.WriteByte('"')
	return b.String()
}
