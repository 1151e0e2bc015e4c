package render

import (
	"regexp"
	"strings"
)

// TemplateMarker is the output templating engine's variable marker. Outside
// code spans it must be backslash-escaped or the engine interprets it.
const TemplateMarker = '$'

var codeTagRemnant = regexp.MustCompile(`</?(tt|code)>`)

// DecodeEntities unescapes the fixed set of named entities the export uses.
// The order mirrors the source transform: amp first, then lt, then gt.
func DecodeEntities(s string) string {
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&lt;", "<")
	return strings.ReplaceAll(s, "&gt;", ">")
}

// Escape is the final pass over an assembled page body. It decodes the fixed
// entity set, removes orphaned code-tag remnants, then escapes the template
// marker everywhere outside backtick code spans.
//
// Span tracking: a maximal run of N backticks opens a span; only a later
// maximal run of exactly N backticks closes it, so longer or shorter runs
// never falsely close a span. An opening run with no matching closing run
// leaves the remainder verbatim.
//
// Entity decoding must precede marker escaping: decoding can introduce
// characters that still need escaping.
func Escape(body string) string {
	s := DecodeEntities(body)
	s = codeTagRemnant.ReplaceAllString(s, "")

	var buf strings.Builder
	buf.Grow(len(s))

	inSpan := false
	spanLen := 0
	for i := 0; i < len(s); {
		if s[i] == '`' {
			j := i
			for j < len(s) && s[j] == '`' {
				j++
			}
			run := j - i
			if !inSpan {
				inSpan = true
				spanLen = run
			} else if run == spanLen {
				inSpan = false
			}
			buf.WriteString(s[i:j])
			i = j
			continue
		}
		if !inSpan && s[i] == TemplateMarker {
			buf.WriteByte('\\')
		}
		buf.WriteByte(s[i])
		i++
	}

	return buf.String()
}
