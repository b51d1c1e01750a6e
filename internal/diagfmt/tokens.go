package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/vmihailenco/msgpack/v5"

	"sjtc/internal/include"
	"sjtc/internal/token"
)

// TokenOutput is one token of a dump.
type TokenOutput struct {
	Kind   string `json:"kind" msgpack:"kind"`
	Text   string `json:"text" msgpack:"text"`
	File   string `json:"file" msgpack:"file"`
	Line   int    `json:"line" msgpack:"line"`
	Start  uint32 `json:"start" msgpack:"start"`
	End    uint32 `json:"end" msgpack:"end"`
	Depth  int    `json:"depth" msgpack:"depth"`
	Adjust int    `json:"adjust,omitempty" msgpack:"adjust,omitempty"`
}

// BuildTokenOutput pairs every token with the template line it came from.
func BuildTokenOutput(tokens []token.Token, res *include.Result, opts JSONOpts) []TokenOutput {
	out := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		origin := res.Origin(tok.Offset())
		out = append(out, TokenOutput{
			Kind:   tok.Kind.String(),
			Text:   tok.Text,
			File:   FormatPath(origin.File, opts.PathMode, opts.BaseDir),
			Line:   origin.Line,
			Start:  tok.Span.Start,
			End:    tok.Span.End,
			Depth:  tok.Depth,
			Adjust: tok.Adjust,
		})
	}
	return out
}

// FormatTokensPretty writes one aligned row per token.
func FormatTokensPretty(w io.Writer, tokens []token.Token, res *include.Result, opts PrettyOpts) error {
	rows := BuildTokenOutput(tokens, res, JSONOpts{PathMode: opts.PathMode, BaseDir: opts.BaseDir})
	p := newPalette(opts.Color)

	locWidth := 0
	locs := make([]string, len(rows))
	for i, r := range rows {
		locs[i] = r.File + ":" + strconv.Itoa(r.Line)
		locWidth = max(locWidth, runewidth.StringWidth(locs[i]))
	}
	numWidth := len(strconv.Itoa(len(rows)))

	for i, r := range rows {
		depth := strconv.Itoa(r.Depth)
		if r.Adjust != 0 {
			depth += fmt.Sprintf("%+d", r.Adjust)
		}
		text := strconv.Quote(r.Text)
		if opts.Width > 0 {
			text = runewidth.Truncate(text, opts.Width, "...")
		}
		_, err := fmt.Fprintf(w, "%s: %s %s %s %s\n",
			runewidth.FillLeft(strconv.Itoa(i+1), numWidth),
			kindColor(p, r.Kind).Sprint(runewidth.FillRight(r.Kind, 6)),
			p.loc.Sprint(runewidth.FillRight(locs[i], locWidth)),
			p.dim.Sprint(runewidth.FillRight("d="+depth, 5)),
			text)
		if err != nil {
			return err
		}
	}
	return nil
}

func kindColor(p palette, kind string) *color.Color {
	switch kind {
	case token.Insert.String():
		return p.note
	case token.Code.String():
		return p.err
	default:
		return p.bold
	}
}

// FormatTokensJSON writes the dump as an indented JSON array.
func FormatTokensJSON(w io.Writer, tokens []token.Token, res *include.Result, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildTokenOutput(tokens, res, opts))
}

// FormatTokensMsgpack writes the dump as a msgpack array.
func FormatTokensMsgpack(w io.Writer, tokens []token.Token, res *include.Result, opts JSONOpts) error {
	return msgpack.NewEncoder(w).Encode(BuildTokenOutput(tokens, res, opts))
}
