package render

import "strings"

// CalloutKind selects the admonition marker emitted for a note paragraph.
type CalloutKind string

const (
	CalloutNote       CalloutKind = "note"
	CalloutDeprecated CalloutKind = "deprecated"
	CalloutDanger     CalloutKind = "danger"
)

// Block is one ordered unit of a page body. Implementations render
// themselves to Markdown; ordering is owned by the renderer.
type Block interface {
	Markdown() string
}

// Paragraph is resolved, markdown-rendered running text.
type Paragraph struct {
	Text string
}

func (b Paragraph) Markdown() string { return b.Text }

// Callout is a note/deprecated/danger admonition.
type Callout struct {
	Kind CalloutKind
	Text string
}

func (b Callout) Markdown() string {
	return "> [!" + string(b.Kind) + "]\n> " + b.Text
}

// Subheading is a level-3 source heading, demoted to a level-2 Markdown
// heading in the standalone page.
type Subheading struct {
	Text string
}

func (b Subheading) Markdown() string { return "## " + b.Text }

// CodeSample is a fenced code block. Lang is empty for generic preformatted
// text; Symbol, when present, becomes a fence title annotation.
type CodeSample struct {
	Lang   string
	Symbol string
	Text   string
}

func (b CodeSample) Markdown() string {
	info := b.Lang
	if b.Lang != "" && b.Symbol != "" {
		info += ` title="` + b.Symbol + `"`
	}
	return "```" + info + "\n" + b.Text + "\n```"
}

// RawList is generic list markup passed through the resolver and the
// HTML-to-Markdown engine unchanged.
type RawList struct {
	Markup string
}

func (b RawList) Markdown() string { return b.Markup }

// MetadataBlock is one definition list: a term and its rendered entries.
// Entries are already cross-reference-resolved Markdown.
type MetadataBlock struct {
	Term       string
	Entries    []string
	CodeStyled bool
}

// Markdown renders the block: a single entry becomes a quoted line, multiple
// entries become bullets. Code-styled entries are backtick-wrapped unless
// the entry is already link markup.
func (b MetadataBlock) Markdown() string {
	var out strings.Builder
	out.WriteString("### ")
	out.WriteString(b.Term)

	if len(b.Entries) > 1 {
		out.WriteString("\n")
		for _, entry := range b.Entries {
			if b.CodeStyled && !strings.HasPrefix(entry, "[") {
				out.WriteString("\n- `" + entry + "`")
			} else {
				out.WriteString("\n- " + entry)
			}
		}
		out.WriteString("\n")
	} else if len(b.Entries) == 1 {
		if b.CodeStyled {
			out.WriteString("\n> `" + b.Entries[0] + "`")
		} else {
			out.WriteString("\n> " + b.Entries[0])
		}
	}

	return out.String()
}
