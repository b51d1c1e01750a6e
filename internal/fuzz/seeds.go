package fuzztests

import "testing"

const maxFuzzInput = 1 << 16 // 64 KiB

var templateSeeds = []string{
	"",
	"<p>hello</p>",
	"<ul>\n<% list.forEach(function(item){ %>\n  <li><%= item.name %></li>\n<% }); %>\n</ul>",
	"<% if (a) { %>\n<b>yes</b>\n<% } else if (b) { %>\n<i>maybe</i>\n<% } else { %>\nno\n<% } %>",
	"<% try { %>x<% } catch (e) { %>y<% } finally { %>z<% } %>",
	"<p><%= a + 1 %><%= b %></p>",
	"<!-- <% ignored %> --><p>after</p>",
	"<%% literal %%>",
	"<p><%= unterminated",
	"<p> %> stray</p>",
	"<% var s = '}'; /* { */ var r = /[{]/; %>",
	"<% var html = @HTML\n  <div class=\"x\">#{obj.name}</div>\nHTML; %>",
	"<!--#include file=\"part.html\"-->",
	"\ttabbed\t<%= x %>\n\n\n\nblank",
	"<% switch (k) { %><% case 1: %>one<% break; %><% default: %>other<% } %>",
	"<p>ünïcödé 世界 <%= name %></p>",
}

var codeSeeds = []string{
	"if (x) {",
	"} else {",
	"var s = \"{\"; // }",
	"a = b / c; d = /re{/g;",
	"`tmpl ${ {a:1}.a } {`",
	"var h = @EOT\n<p>#{x}</p>\nEOT;",
	"/* unterminated",
	"'unterminated",
}

func addSeeds(f *testing.F, seeds []string) {
	for _, s := range seeds {
		f.Add([]byte(s))
	}
}

func clamp(input []byte) string {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return string(input)
}
