// Package include expands <!--#include file="..."--> directives into one flat
// template while recording enough bookkeeping to map any offset or line of
// the flat text back to the template it came from.
//
// Directives must occupy a whole line. The directive's indentation is
// prepended to every line of the included content, recursively. An
// include_once directive expands to an empty line when its target was already
// included anywhere in the compile.
package include
