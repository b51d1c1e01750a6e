package diagfmt

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"sjtc/internal/diag"
)

type palette struct {
	err  *color.Color
	bold *color.Color
	loc  *color.Color
	dim  *color.Color
	hl   *color.Color
	note *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:  mk(color.FgRed, color.Bold),
		bold: mk(color.Bold),
		loc:  mk(color.FgCyan),
		dim:  mk(color.Faint),
		hl:   mk(color.FgRed),
		note: mk(color.FgYellow),
	}
}

// Pretty writes err in human-readable form:
//
//	error[INC2001]: the include file "views/nav.html" does not exist
//	  --> views/page.html:3
//	   |
//	 3 | <!--#include file="nav.html"-->
//	   |
//
// followed by the include chain, the fragment between mismatched tags, or
// the generated code listing when err carries them. Errors that are not
// *diag.Error print as a single line.
func Pretty(w io.Writer, err error, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	var de *diag.Error
	if !errors.As(err, &de) {
		_, werr := fmt.Fprintf(w, "%s %s\n", p.err.Sprint("error:"), err.Error())
		return werr
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n", p.err.Sprintf("error[%s]:", de.Code.ID()), p.bold.Sprint(de.Message))
	if de.Primary.File != "" {
		writeLocation(&sb, p, de.Primary, "", opts)
	}
	if de.Secondary != nil {
		writeLocation(&sb, p, *de.Secondary, "start tag", opts)
	}
	if de.Fragment != "" {
		writeSection(&sb, p, "fragment", frame(clip(de.Fragment, opts.Width), opts.Color))
	}
	if len(de.Chain) > 1 {
		links := make([]string, len(de.Chain))
		for i, l := range de.Chain {
			links[i] = FormatPath(l, opts.PathMode, opts.BaseDir)
		}
		writeSection(&sb, p, "include chain", frame(diag.RenderChain(links, de.CycleAt), opts.Color))
	}
	if de.Listing != nil && len(de.Listing.Lines) > 0 {
		writeSection(&sb, p, "generated code", frame(renderListing(de.Listing, p, opts.Width), opts.Color))
	}
	if de.Imprecise {
		fmt.Fprintf(&sb, "%s the originating template line could not be determined\n", p.note.Sprint("note:"))
	}
	_, werr := io.WriteString(w, sb.String())
	return werr
}

func writeLocation(sb *strings.Builder, p palette, loc diag.Location, label string, opts PrettyOpts) {
	path := FormatPath(loc.File, opts.PathMode, opts.BaseDir)
	arrow := p.dim.Sprint("  -->")
	if loc.Line == 0 {
		fmt.Fprintf(sb, "%s %s\n", arrow, p.loc.Sprint(path))
		return
	}
	fmt.Fprintf(sb, "%s %s\n", arrow, p.loc.Sprintf("%s:%d", path, loc.Line))
	if loc.Text == "" {
		return
	}
	no := strconv.Itoa(loc.Line)
	gutter := strings.Repeat(" ", len(no)+1) + p.dim.Sprint("|")
	text := clip(loc.Text, opts.Width)
	if label != "" {
		text += " " + p.note.Sprintf("<- %s", label)
	}
	fmt.Fprintf(sb, "%s\n %s %s %s\n%s\n", gutter, p.dim.Sprint(no), p.dim.Sprint("|"), text, gutter)
}

func writeSection(sb *strings.Builder, p palette, title, body string) {
	sb.WriteString(p.bold.Sprint(title + ":"))
	sb.WriteByte('\n')
	sb.WriteString(body)
	sb.WriteByte('\n')
}

func frame(body string, colored bool) string {
	style := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	if colored {
		style = style.BorderForeground(lipgloss.Color("8"))
	}
	return style.Render(body)
}

func renderListing(l *diag.Listing, p palette, width int) string {
	numWidth := len(strconv.Itoa(l.Lines[len(l.Lines)-1].No))
	lines := make([]string, 0, len(l.Lines))
	for _, ln := range l.Lines {
		no := runewidth.FillLeft(strconv.Itoa(ln.No), numWidth)
		text := clip(ln.Text, width)
		if ln.Highlight {
			lines = append(lines, p.hl.Sprintf("> %s | %s", no, text))
			continue
		}
		lines = append(lines, "  "+p.dim.Sprint(no+" |")+" "+text)
	}
	return strings.Join(lines, "\n")
}

// clip truncates every line of s to width display cells.
func clip(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, ln := range lines {
		if runewidth.StringWidth(ln) > width {
			lines[i] = runewidth.Truncate(ln, width, "...")
		}
	}
	return strings.Join(lines, "\n")
}
