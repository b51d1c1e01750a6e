package fuzztests

import (
	"strings"
	"testing"

	"sjtc/internal/depth"
	"sjtc/internal/heredoc"
	"sjtc/internal/literal"
	"sjtc/internal/scan"
)

func FuzzZones(f *testing.F) {
	addSeeds(f, codeSeeds)
	f.Fuzz(func(t *testing.T, input []byte) {
		code := clamp(input)
		prev := 0
		for _, z := range scan.Zones(code) {
			if z.Start < prev || z.End < z.Start || z.End > len(code) {
				t.Fatalf("zone %+v out of order or bounds (prev end %d, len %d)", z, prev, len(code))
			}
			prev = z.End
		}
		_ = depth.Delta(code)
		_ = depth.Adjustment(code)
	})
}

func FuzzHeredoc(f *testing.F) {
	addSeeds(f, codeSeeds)
	f.Fuzz(func(t *testing.T, input []byte) {
		code := clamp(input)
		out, lines := heredoc.Map(code, literal.Options{InputIndent: 4})
		if n := strings.Count(out, "\n") + 1; n != len(lines) {
			t.Fatalf("%d output lines, %d mapped", n, len(lines))
		}
		last := strings.Count(code, "\n")
		for i, l := range lines {
			if l < 0 || l > last || (i > 0 && l < lines[i-1]) {
				t.Fatalf("line map %v out of order or bounds (last %d)", lines, last)
			}
		}
	})
}
