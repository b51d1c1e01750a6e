// Package lexer splits an expanded template into const, insert and code
// tokens. Comments are dropped. Open tags are tracked on an explicit stack so
// that unclosed and mismatched tags are reported with their origin.
package lexer

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"sjtc/internal/depth"
	"sjtc/internal/diag"
	"sjtc/internal/include"
	"sjtc/internal/source"
	"sjtc/internal/token"
)

type Lexer struct {
	res    *include.Result
	file   *source.File
	cursor Cursor
	opts   Options

	stack  []Frame
	depth  int
	seg    strings.Builder
	segOff int
	tokens []token.Token
}

// New creates a lexer over the flat text of res.
func New(res *include.Result, opts Options) *Lexer {
	file := res.Files.Get(res.Flat)
	return &Lexer{
		res:    res,
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Tokenize is a shorthand for New(res, opts).Tokenize().
func Tokenize(res *include.Result, opts Options) ([]token.Token, error) {
	return New(res, opts).Tokenize()
}

// Tokenize consumes the whole input. The first tag error aborts it.
func (lx *Lexer) Tokenize() ([]token.Token, error) {
	for !lx.cursor.EOF() {
		off := int(lx.cursor.Off)
		tag := lx.matchTag()
		if tag == "" {
			lx.appendByte(off, lx.cursor.Bump())
			continue
		}

		lx.cursor.Advance(len(tag))

		switch tag {
		case tagEscapeOpen:
			lx.appendText(off, tagCode)
			continue
		case tagEscapeClose:
			lx.appendText(off, tagClose)
			continue
		}
		lx.flush(off)
		if err := lx.handleTag(tag, off); err != nil {
			return nil, err
		}
	}
	lx.flush(int(lx.cursor.Off))

	if len(lx.stack) > 0 {
		top := lx.top()
		return nil, diag.Errorf(diag.UnclosedTag, "exists not closed tag: %s", top.Tag).
			At(lx.res.Origin(top.Open))
	}
	return lx.tokens, nil
}

// matchTag returns the delimiter at the cursor, or "".
func (lx *Lexer) matchTag() string {
	if lx.opaqueComment() {
		if lx.cursor.HasPrefix(tagCommentClose) {
			return tagCommentClose
		}
		return ""
	}
	if lx.cursor.Peek() != '<' && lx.cursor.Peek() != '%' && lx.cursor.Peek() != '-' {
		return ""
	}
	for _, tag := range [...]string{tagInsert, tagEscapeOpen, tagCode, tagEscapeClose, tagClose, tagComment, tagCommentClose} {
		if !lx.opts.Escapes && (tag == tagEscapeOpen || tag == tagEscapeClose) {
			continue
		}
		if lx.cursor.HasPrefix(tag) {
			return tag
		}
	}
	return ""
}

func (lx *Lexer) handleTag(tag string, off int) error {
	if kind, ok := openerKind(tag); ok {
		if len(lx.stack) > 0 && lx.top().Kind != FrameComment {
			return lx.nestingError(tag, off)
		}
		lx.stack = append(lx.stack, Frame{Kind: kind, Tag: tag, Open: off})
		return nil
	}

	if len(lx.stack) == 0 {
		opener := tagCode
		if tag == tagCommentClose {
			opener = tagComment
		}
		return diag.Errorf(diag.InvalidTagNesting, "can not find the matched start tag %s for the tag %s", opener, tag).
			At(lx.res.Origin(off))
	}

	top := lx.top()
	switch tag {
	case tagCommentClose:
		if top.Kind != FrameComment {
			return lx.nestingError(tag, off)
		}
	case tagClose:
		if top.Kind != FrameInsert && top.Kind != FrameCode {
			return lx.nestingError(tag, off)
		}
	}
	lx.stack = lx.stack[:len(lx.stack)-1]
	return nil
}

func (lx *Lexer) nestingError(tag string, off int) error {
	top := lx.top()
	from := min(top.Open+len(top.Tag), off)
	secondary := lx.res.Origin(top.Open)
	err := diag.Errorf(diag.InvalidTagNesting, "invalid tag nesting %q", top.Tag+" "+tag).
		At(lx.res.Origin(off))
	err.Secondary = &secondary
	err.Fragment = top.Tag + lx.res.Text[from:off] + tag
	return err
}

func (lx *Lexer) top() Frame {
	return lx.stack[len(lx.stack)-1]
}

// opaqueComment reports whether the cursor is inside a comment whose body is
// not scanned for tags.
func (lx *Lexer) opaqueComment() bool {
	return !lx.opts.StrictCommentNesting && len(lx.stack) > 0 && lx.top().Kind == FrameComment
}

func (lx *Lexer) inComment() bool {
	for _, f := range lx.stack {
		if f.Kind == FrameComment {
			return true
		}
	}
	return false
}

func (lx *Lexer) appendByte(off int, b byte) {
	if lx.seg.Len() == 0 {
		lx.segOff = off
	}
	lx.seg.WriteByte(b)
}

func (lx *Lexer) appendText(off int, s string) {
	if lx.seg.Len() == 0 {
		lx.segOff = off
	}
	lx.seg.WriteString(s)
}

// flush turns the pending text, ending at flat offset end, into a token of
// the enclosing frame's kind.
func (lx *Lexer) flush(end int) {
	if lx.seg.Len() == 0 {
		return
	}
	text := lx.seg.String()
	lx.seg.Reset()
	if lx.inComment() {
		return
	}

	kind := token.Const
	if len(lx.stack) > 0 {
		switch lx.top().Kind {
		case FrameInsert:
			kind = token.Insert
		case FrameCode:
			kind = token.Code
		}
	}

	tok := token.Token{
		Kind:  kind,
		Text:  text,
		Span:  lx.span(lx.segOff, end),
		Depth: lx.depth,
		File:  lx.res.FileAt(lx.segOff),
	}
	switch kind {
	case token.Insert:
		tok.Text = strings.TrimSpace(text)
	case token.Code:
		lx.depth += depth.Delta(text)
		tok.Adjust = depth.Adjustment(text)
	}
	lx.tokens = append(lx.tokens, tok)
}

func (lx *Lexer) span(start, end int) source.Span {
	s, err := safecast.Conv[uint32](start)
	if err != nil {
		panic(fmt.Errorf("token offset overflow: %w", err))
	}
	e, err := safecast.Conv[uint32](end)
	if err != nil {
		panic(fmt.Errorf("token offset overflow: %w", err))
	}
	return source.Span{File: lx.file.ID, Start: s, End: e}
}
