// Package slug sanitizes canonical reference paths into filesystem- and
// template-safe output paths.
package slug

import (
	"net/url"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// replacement maps one reserved character to a readable word token.
type replacement struct {
	from string
	to   string
}

// The table is ordered and the substitutions are not commutative: each entry
// is applied to the full string before the next one runs.
var replacements = []replacement{
	{".", "dot"},
	{"<", "greater"},
	{">", "less"},
	{"%", "modulo"},
	{"?", "query"},
	{"&", "amp"},
	{"~", "tilde"},
	{"|", "vert"},
	{"!", "exclaim"},
	{":", "colon"},
	{"*", "asterisk"},
	{"^", "caret"},
	{"=", "equals"},
	{"+", "plus"},
	{"(", "leftparen"},
	{")", "rightparen"},
	{"[", "leftsquare"},
	{"]", "rightsquare"},
}

// Sanitize maps a canonical path to a safe output path. It is pure and
// deterministic. Injectivity is not guaranteed for arbitrary symbol names:
// distinct inputs can in principle collapse to the same output, and the
// build service reports such collisions rather than hiding them.
func Sanitize(dirty string) string {
	path := dirty
	if decoded, err := url.PathUnescape(dirty); err == nil {
		path = decoded
	}
	path = norm.NFC.String(path)

	for _, r := range replacements {
		path = strings.ReplaceAll(path, r.from, r.to)
	}

	// A doubled separator would produce an empty path segment.
	path = strings.ReplaceAll(path, "//", "/slash")

	// "/index" would collide with the generated section index filename.
	path = strings.ReplaceAll(path, "/index", "/index_page")

	// Operator-symbol pages have punctuation names; their hyphens are the
	// minus operator, not word separators.
	if strings.Contains(path, "operator") {
		path = strings.ReplaceAll(path, "-", "minus")
	}

	path = strings.ReplaceAll(path, "{", "")
	path = strings.ReplaceAll(path, "}", "")

	return path
}
