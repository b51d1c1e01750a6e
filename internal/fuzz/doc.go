// Package fuzztests houses Go fuzz harnesses that push arbitrary templates
// through the compile pipeline (include expansion, tokenizer, emitter,
// syntax check) and through the code scanners used for brace counting and
// heredoc translation. They guard against panics and broken offset
// bookkeeping on inputs no unit test anticipated.
package fuzztests
