package lexer_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"sjtc/internal/diag"
	"sjtc/internal/include"
	"sjtc/internal/lexer"
	"sjtc/internal/source"
	"sjtc/internal/token"
)

func tokenize(t *testing.T, files source.MapReader, root string, opts lexer.Options) ([]token.Token, error) {
	t.Helper()
	res, err := include.Expand(context.Background(), files[root], root, include.Options{Reader: files})
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	return lexer.Tokenize(res, opts)
}

func tokenizeString(t *testing.T, text string, opts lexer.Options) ([]token.Token, error) {
	t.Helper()
	return tokenize(t, source.MapReader{"page.html": text}, "page.html", opts)
}

type want struct {
	kind   token.Kind
	text   string
	depth  int
	adjust int
}

func check(t *testing.T, got []token.Token, expected []want) {
	t.Helper()
	if len(got) != len(expected) {
		for _, tok := range got {
			t.Logf("  %s %q depth=%d adjust=%d", tok.Kind, tok.Text, tok.Depth, tok.Adjust)
		}
		t.Fatalf("got %d tokens, want %d", len(got), len(expected))
	}
	for i, w := range expected {
		g := got[i]
		if g.Kind != w.kind || g.Text != w.text || g.Depth != w.depth || g.Adjust != w.adjust {
			t.Errorf("token %d = {%s %q %d %d}, want {%s %q %d %d}",
				i, g.Kind, g.Text, g.Depth, g.Adjust, w.kind, w.text, w.depth, w.adjust)
		}
	}
}

func TestTokenizeKinds(t *testing.T) {
	toks, err := tokenizeString(t, "a<%= b %>c<% if (x) { %>d<% } %>", lexer.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	check(t, toks, []want{
		{token.Const, "a", 0, 0},
		{token.Insert, "b", 0, 0},
		{token.Const, "c", 0, 0},
		{token.Code, " if (x) { ", 0, 0},
		{token.Const, "d", 1, 0},
		{token.Code, " } ", 1, -1},
	})
	if toks[2].Offset() != 9 || toks[2].Span.End != 10 {
		t.Errorf("const span = %v, want 9..10", toks[2].Span)
	}
	for _, tok := range toks {
		if tok.File != "page.html" {
			t.Errorf("File = %q, want page.html", tok.File)
		}
	}
}

func TestTokenizeElse(t *testing.T) {
	toks, err := tokenizeString(t, "<% if (a) { %>x<% } else { %>y<% } %>", lexer.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	check(t, toks, []want{
		{token.Code, " if (a) { ", 0, 0},
		{token.Const, "x", 1, 0},
		{token.Code, " } else { ", 1, -1},
		{token.Const, "y", 1, 0},
		{token.Code, " } ", 1, -1},
	})
}

func TestCommentsAreDropped(t *testing.T) {
	toks, err := tokenizeString(t, "a<!-- <% x %> -->b", lexer.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	check(t, toks, []want{
		{token.Const, "a", 0, 0},
		{token.Const, "b", 0, 0},
	})
}

func TestStrictCommentNesting(t *testing.T) {
	opts := lexer.DefaultOptions()
	opts.StrictCommentNesting = true

	_, err := tokenizeString(t, "a<!-- <% -->b", opts)
	if !errors.Is(err, diag.ErrInvalidTagNesting) {
		t.Fatalf("err = %v, want InvalidTagNesting", err)
	}

	toks, err := tokenizeString(t, "a<!-- <% x %> -->b", opts)
	if err != nil {
		t.Fatal(err)
	}
	check(t, toks, []want{
		{token.Const, "a", 0, 0},
		{token.Const, "b", 0, 0},
	})
}

func TestEscapes(t *testing.T) {
	toks, err := tokenizeString(t, "a<%%b%%>c", lexer.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	check(t, toks, []want{{token.Const, "a<%b%>c", 0, 0}})

	toks, err = tokenizeString(t, "<% s = '%%>'; %>", lexer.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	check(t, toks, []want{{token.Code, " s = '%>'; ", 0, 0}})

	toks, err = tokenizeString(t, "<%%b%>", lexer.Options{})
	if err != nil {
		t.Fatal(err)
	}
	check(t, toks, []want{{token.Code, "%b", 0, 0}})
}

func TestUnclosedTag(t *testing.T) {
	_, err := tokenizeString(t, "<p>\n<% if(x) {", lexer.DefaultOptions())
	var de *diag.Error
	if !errors.As(err, &de) || de.Code != diag.UnclosedTag {
		t.Fatalf("err = %v, want UnclosedTag", err)
	}
	if de.Primary.File != "page.html" || de.Primary.Line != 2 || de.Primary.Text != "<% if(x) {" {
		t.Errorf("Primary = %+v", de.Primary)
	}
}

func TestUnclosedTagInInclude(t *testing.T) {
	files := source.MapReader{
		"page.html":    "line1\n<!--#include file=\"parts/p.html\"-->\nend",
		"parts/p.html": "ok\n<% if (x) {",
	}
	_, err := tokenize(t, files, "page.html", lexer.DefaultOptions())
	var de *diag.Error
	if !errors.As(err, &de) || de.Code != diag.UnclosedTag {
		t.Fatalf("err = %v, want UnclosedTag", err)
	}
	if de.Primary.File != "parts/p.html" || de.Primary.Line != 2 {
		t.Errorf("Primary = %v, want parts/p.html:2", de.Primary)
	}
}

func TestNestedTags(t *testing.T) {
	_, err := tokenizeString(t, "<% a <%= b %> %>", lexer.DefaultOptions())
	var de *diag.Error
	if !errors.As(err, &de) || de.Code != diag.InvalidTagNesting {
		t.Fatalf("err = %v, want InvalidTagNesting", err)
	}
	if de.Fragment != "<% a <%=" {
		t.Errorf("Fragment = %q", de.Fragment)
	}
	if de.Secondary == nil || de.Secondary.File != "page.html" {
		t.Errorf("Secondary = %v", de.Secondary)
	}
}

func TestStrayClosers(t *testing.T) {
	for _, text := range []string{"a %> b", "a --> b", "<!-- x %>"} {
		opts := lexer.DefaultOptions()
		if text == "<!-- x %>" {
			opts.StrictCommentNesting = true
		}
		_, err := tokenizeString(t, text, opts)
		if !errors.Is(err, diag.ErrInvalidTagNesting) {
			t.Errorf("%q: err = %v, want InvalidTagNesting", text, err)
		}
	}
}

func TestTokenOriginFile(t *testing.T) {
	files := source.MapReader{
		"page.html": "<div>\n  <!--#include file=\"item.html\"-->\n</div>",
		"item.html": "<%= name %>",
	}
	toks, err := tokenize(t, files, "page.html", lexer.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	var found bool
	for _, tok := range toks {
		if tok.Kind == token.Insert {
			found = true
			if tok.File != "item.html" || tok.Text != "name" {
				t.Errorf("insert token = %+v", tok)
			}
		}
	}
	if !found {
		t.Fatal("no insert token")
	}
}

func repeatedRow(n int) string {
	return strings.Repeat("<div class=\"x\"><%= a.b %></div> -- text\n", n)
}

// Large inputs must tokenize in time linear in their size.
func TestTokenizeLargeInput(t *testing.T) {
	if testing.Short() {
		t.Skip("large input")
	}
	text := repeatedRow(50000) // about 2 MB
	start := time.Now()
	toks, err := tokenizeString(t, text, lexer.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Fatalf("tokenizing %d bytes took %v", len(text), elapsed)
	}
	if len(toks) != 100001 {
		t.Fatalf("got %d tokens, want 100001", len(toks))
	}
}

func BenchmarkTokenize(b *testing.B) {
	text := repeatedRow(10000)
	files := source.MapReader{"page.html": text}
	res, err := include.Expand(context.Background(), text, "page.html", include.Options{Reader: files})
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(len(text)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := lexer.Tokenize(res, lexer.DefaultOptions()); err != nil {
			b.Fatal(err)
		}
	}
}
