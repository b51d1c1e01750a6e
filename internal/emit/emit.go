// Package emit assembles template tokens into the source of a render
// function:
//
//	function name(obj) {
//	    var __bf = [];
//
//	    with(obj){
//	        "use strict";
//
//	        __bf.push("...");
//	    }
//
//	    return __bf.join("");
//	}
//
// Runs of const and insert tokens become one push statement each, code
// tokens are copied at the indentation of their nesting depth.
package emit

import (
	"strings"

	"sjtc/internal/depth"
	"sjtc/internal/heredoc"
	"sjtc/internal/literal"
	"sjtc/internal/token"
)

// Fragment maps a byte range of Output.Raw to the code token it was copied
// from.
type Fragment struct {
	Start int
	End   int
	Token token.Token
	// Lines holds, per line of the fragment, the line of Token.Text it came
	// from (0 is the line the tag opens on).
	Lines []int
}

// Output is the generated function.
type Output struct {
	// Source is Raw with consecutive blank lines collapsed.
	Source string
	// Raw is the function as assembled; Fragments index into it.
	Raw       string
	Fragments []Fragment
}

type emitter struct {
	opts    Options
	lit     literal.Options
	sp8     string
	buf     strings.Builder
	frags   []Fragment
	pending []token.Token
	prev    *token.Token
}

// Emit generates the render function for toks.
func Emit(toks []token.Token, opts Options) Output {
	extra := spaces(opts.LeadingIndent)
	first := extra
	if opts.FirstLineNoIndent {
		first = ""
	}
	sp4 := extra + spaces(opts.OutputIndent)
	e := &emitter{
		opts: opts,
		lit:  literal.Options{InputIndent: opts.InputIndent, AlwaysWrap: opts.AlwaysWrapInserts},
		sp8:  extra + spaces(opts.OutputIndent*2),
	}

	e.write(first + "function " + opts.FunctionName + "(" + opts.ParamName + ") {\n")
	e.write(sp4 + "var " + opts.BufferName + " = [];\n\n")
	e.write(sp4 + "with(" + opts.ParamName + "){\n")
	e.write(e.sp8 + "\"use strict\";\n\n")

	for i := range toks {
		t := &toks[i]
		if !t.IsCode() {
			e.pending = append(e.pending, *t)
			continue
		}

		code, lines := heredoc.Map(t.Text, e.lit)
		indent := e.sp8 + spaces(opts.OutputIndent*(t.Depth+t.Adjust))
		code = AdjustLeftSpace(code, indent, opts.InputIndent)

		hadConst := len(e.pending) > 0
		e.flush()
		if hadConst || depth.OpensBlock(t.Text) || e.prevClosed() {
			e.write("\n")
		}
		e.prev = t
		e.writeCode(code+"\n", *t, lines)
	}
	e.flush()

	e.write("\n" + sp4 + "}\n")
	e.write("\n" + sp4 + "return " + opts.BufferName + ".join(\"\");\n")
	e.write(extra + "}")

	raw := e.buf.String()
	return Output{
		Source:    CollapseBlankLines(raw),
		Raw:       raw,
		Fragments: e.frags,
	}
}

func (e *emitter) write(s string) {
	e.buf.WriteString(s)
}

func (e *emitter) writeCode(s string, t token.Token, lines []int) {
	start := e.buf.Len()
	e.buf.WriteString(s)
	e.frags = append(e.frags, Fragment{Start: start, End: e.buf.Len(), Token: t, Lines: lines})
}

func (e *emitter) prevClosed() bool {
	return e.prev != nil && depth.ClosesBlock(e.prev.Text)
}

// flush writes the pending constant block as one push statement.
func (e *emitter) flush() {
	if len(e.pending) == 0 {
		return
	}
	if e.prevClosed() {
		e.write("\n")
	}
	e.write(e.constCode(e.pending) + "\n")
	e.pending = e.pending[:0]
}

func (e *emitter) constCode(toks []token.Token) string {
	segs := make([]literal.Segment, len(toks))
	for i, t := range toks {
		segs[i] = literal.Segment{Insert: t.Kind == token.Insert, Text: t.Text}
	}
	blk := literal.Build(segs, e.lit)
	if len(blk.Lines) == 0 {
		return ""
	}

	indent := e.sp8 + spaces(e.opts.OutputIndent*toks[0].Depth)
	push := indent + e.opts.BufferName + ".push("
	if len(blk.Lines) == 1 {
		return push + strings.TrimSpace(blk.Lines[0]) + ");"
	}

	lineIndent := indent + spaces(e.opts.OutputIndent)
	var sb strings.Builder
	sb.WriteString(push + "\"\"\n")
	for _, l := range blk.Lines {
		sb.WriteString(lineIndent + "+ " + blk.Dedent(l) + "\n")
	}
	sb.WriteString(indent + ");")
	return sb.String()
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}
