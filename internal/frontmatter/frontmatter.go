// Package frontmatter assembles the `+++`-delimited TOML header prefixed to
// every output document.
package frontmatter

import (
	"bytes"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// Delimiter is the front-matter fence line.
const Delimiter = "+++"

// Doc is the serialized front matter of one page.
type Doc struct {
	Title        string              `toml:"title"`
	ByondVersion string              `toml:"byond_version,omitempty"`
	Tags         []string            `toml:"tags"`
	Headers      map[string][]string `toml:"headers,omitempty"`
}

// Compose serializes the front matter and prepends it to the body.
//
// Determinism: tags are sorted and the TOML encoder writes map keys in
// sorted order, so identical input produces identical output across runs.
// The title's doubled percent signs are escaped here because the downstream
// templating engine chokes on them, but only in the title field.
func Compose(doc Doc, body string) (string, error) {
	d := doc
	d.Title = EscapeTemplateSequence(d.Title)
	if d.Tags == nil {
		d.Tags = []string{}
	} else {
		d.Tags = dedupeSorted(d.Tags)
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(d); err != nil {
		return "", err
	}

	var out strings.Builder
	out.WriteString(Delimiter)
	out.WriteString("\n")
	out.Write(buf.Bytes())
	out.WriteString(Delimiter)
	out.WriteString("\n")
	out.WriteString(body)
	return out.String(), nil
}

// EscapeTemplateSequence neutralizes a doubled percent sign.
func EscapeTemplateSequence(s string) string {
	return strings.ReplaceAll(s, "%%", `\%\%`)
}

func dedupeSorted(in []string) []string {
	sort.Strings(in)
	out := in[:0]
	var prev string
	for i, v := range in {
		if i > 0 && v == prev {
			continue
		}
		out = append(out, v)
		prev = v
	}
	return out
}
