package mdwalk

import "strings"

// escaper backslash-escapes characters that would start Markdown syntax.
// "![" is listed before "[" so the longer match wins.
var escaper = strings.NewReplacer(
	"![", `\!\[`,
	"[", `\[`,
	"#", `\#`,
	"-", `\-`,
	">", `\>`,
	"*", `\*`,
)

// escape returns the escaped text and whether anything changed.
func escape(s string) (string, bool) {
	out := escaper.Replace(s)
	return out, out != s
}

// cellEscaper protects the column separator inside table cells.
var cellEscaper = strings.NewReplacer("|", `\|`, "\n", "<br>")

// altEscaper keeps image descriptions inside their brackets.
var altEscaper = strings.NewReplacer("[", `\[`, "]", `\]`)
