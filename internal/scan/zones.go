// Package scan recognizes the parts of a code fragment whose characters must
// not be interpreted as structure: comments, string literals and regular
// expression literals. Brace counting and heredoc detection both consult it.
package scan

// ZoneKind classifies an exclusion zone.
type ZoneKind uint8

const (
	BlockComment ZoneKind = iota + 1
	LineComment
	String
	Regexp
)

func (k ZoneKind) String() string {
	switch k {
	case BlockComment:
		return "block-comment"
	case LineComment:
		return "line-comment"
	case String:
		return "string"
	case Regexp:
		return "regexp"
	default:
		return "unknown"
	}
}

// Zone is a half-open byte range [Start, End) of code.
type Zone struct {
	Kind  ZoneKind
	Start int
	End   int
}

// Contains reports whether off falls inside the zone.
func (z Zone) Contains(off int) bool {
	return off >= z.Start && off < z.End
}

// Zones returns the exclusion zones of code in order. Unterminated block
// comments and strings extend to the end of their line (strings) or of the
// input (block comments).
func Zones(code string) []Zone {
	var zones []Zone
	prev := byte(0) // last significant byte outside zones
	for i := 0; i < len(code); {
		c := code[i]
		switch {
		case c == '/' && i+1 < len(code) && code[i+1] == '*':
			end := indexFrom(code, "*/", i+2)
			if end < 0 {
				end = len(code)
			} else {
				end += 2
			}
			zones = append(zones, Zone{Kind: BlockComment, Start: i, End: end})
			i = end
			continue
		case c == '/' && i+1 < len(code) && code[i+1] == '/':
			end := lineEnd(code, i)
			zones = append(zones, Zone{Kind: LineComment, Start: i, End: end})
			i = end
			continue
		case c == '"' || c == '\'' || c == '`':
			end := stringEnd(code, i)
			zones = append(zones, Zone{Kind: String, Start: i, End: end})
			prev = c
			i = end
			continue
		case c == '/' && regexpAllowed(prev):
			if end, ok := regexpEnd(code, i); ok {
				zones = append(zones, Zone{Kind: Regexp, Start: i, End: end})
				prev = '/'
				i = end
				continue
			}
		}
		if !isSpace(c) {
			prev = c
		}
		i++
	}
	return zones
}

// ZoneAt returns the zone covering off, if any.
func ZoneAt(zones []Zone, off int) (Zone, bool) {
	lo, hi := 0, len(zones)
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case off < zones[mid].Start:
			hi = mid
		case off >= zones[mid].End:
			lo = mid + 1
		default:
			return zones[mid], true
		}
	}
	return Zone{}, false
}

func stringEnd(code string, start int) int {
	quote := code[start]
	for i := start + 1; i < len(code); i++ {
		switch code[i] {
		case '\\':
			i++
		case quote:
			return i + 1
		case '\n':
			if quote != '`' {
				return i
			}
		}
	}
	return len(code)
}

// regexpEnd scans a /.../flags literal on a single line.
func regexpEnd(code string, start int) (int, bool) {
	inClass := false
	for i := start + 1; i < len(code); i++ {
		switch c := code[i]; {
		case c == '\\':
			i++
		case c == '\n':
			return 0, false
		case c == '[':
			inClass = true
		case c == ']':
			inClass = false
		case c == '/' && !inClass:
			if i == start+1 {
				return 0, false
			}
			end := i + 1
			for end < len(code) && isWord(code[end]) {
				end++
			}
			return end, true
		}
	}
	return 0, false
}

// regexpAllowed reports whether a '/' after prev starts a regular expression
// rather than a division.
func regexpAllowed(prev byte) bool {
	if prev == 0 {
		return true
	}
	switch prev {
	case '(', ',', '=', ':', '[', '!', '&', '|', '?', '{', '}', ';', '+', '-', '*', '%', '<', '>', '~', '^':
		return true
	}
	return false
}

func indexFrom(s, sub string, from int) int {
	for i := from; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

func lineEnd(s string, from int) int {
	for i := from; i < len(s); i++ {
		if s[i] == '\n' {
			return i
		}
	}
	return len(s)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isWord(c byte) bool {
	return c == '_' || c == '$' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
