package diag

import (
	"strings"
)

// RenderChain draws an include ancestry as a path diagram. links[0] is the
// candidate file, the rest its ancestors innermost first. When cycleAt >= 0
// the arrow returns to links[cycleAt], the ancestor equal to the candidate.
//
//	┌- a.html
//	|  ↑
//	|  b.html
//	|  ↑
//	└→ a.html
func RenderChain(links []string, cycleAt int) string {
	if len(links) == 0 {
		return ""
	}
	if len(links) == 1 {
		return links[0]
	}
	var sb strings.Builder
	for idx, f := range links {
		switch {
		case idx == 0:
			sb.WriteString("┌- ")
		case cycleAt < 0:
			sb.WriteString("\n   ↑\n   ")
		case idx < cycleAt:
			sb.WriteString("\n|  ↑\n|  ")
		case idx == cycleAt:
			sb.WriteString("\n|  ↑\n└→ ")
		default:
			sb.WriteString("\n   ↑\n   ")
		}
		sb.WriteString(f)
	}
	return sb.String()
}
