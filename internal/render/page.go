// Package render implements the second pass: per-page extraction of title,
// tags, metadata blocks and body blocks, cross-reference resolution, and the
// final escaping pass. It only ever reads the completed registry snapshot.
package render

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/tmorg/refbuilder/internal/dom"
	"github.com/tmorg/refbuilder/internal/errors"
	"github.com/tmorg/refbuilder/internal/registry"
)

// Page is a fully rendered page, ready for front-matter assembly.
type Page struct {
	Path    string
	Title   string
	Version string
	Tags    []string
	Headers []MetadataBlock
	Body    string
}

// Options controls rendering behavior.
type Options struct {
	// SectionLinks makes resolved links to section pages point at the
	// section's index document.
	SectionLinks bool
}

// Renderer renders registered pages against an immutable snapshot.
type Renderer struct {
	snap     *registry.Snapshot
	resolver *Resolver
}

// New creates a Renderer over a completed snapshot.
func New(snap *registry.Snapshot, opts Options) *Renderer {
	return &Renderer{
		snap:     snap,
		resolver: NewResolver(snap, opts.SectionLinks),
	}
}

// Resolver exposes the renderer's cross-reference resolver.
func (r *Renderer) Resolver() *Resolver {
	return r.resolver
}

// RenderPage renders one registered page. A page without a title heading
// returns a parse error; the caller skips the page and continues the batch.
func (r *Renderer) RenderPage(canonical string) (*Page, error) {
	fragment, ok := r.snap.Fragment(canonical)
	if !ok {
		return nil, errors.New(errors.CategoryParse, errors.SeverityError, "page not registered").
			WithContext("path", canonical)
	}

	root, err := dom.Parse(fragment)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryParse, errors.SeverityError, "unparseable fragment").
			WithContext("path", canonical)
	}

	heading := dom.First(root, "h2")
	if heading == nil {
		return nil, errors.New(errors.CategoryParse, errors.SeverityError, "page has no title heading").
			WithContext("path", canonical)
	}

	title := DecodeEntities(strings.TrimSpace(dom.InnerHTML(heading)))
	version, _ := dom.Attr(heading, "byondver")

	page := &Page{
		Path:    canonical,
		Title:   title,
		Version: version,
		Tags:    inferTags(title),
	}
	symbol := targetSymbol(title)

	front, deferred := r.metadataBlocks(root, page)
	body := r.bodyBlocks(root, symbol)

	parts := make([]string, 0, len(front)+len(body)+len(deferred))
	for _, b := range front {
		parts = append(parts, b.Markdown())
	}
	for _, b := range body {
		parts = append(parts, b.Markdown())
	}
	for _, b := range deferred {
		parts = append(parts, b.Markdown())
	}
	page.Body = strings.Join(parts, "\n\n")

	return page, nil
}

// inferTags derives tags from the title. The leading space avoids matching
// words like "procedure".
func inferTags(title string) []string {
	var tags []string
	if strings.Contains(title, " proc") {
		tags = append(tags, "proc")
	}
	if strings.Contains(title, " var") {
		tags = append(tags, "var")
	}
	return tags
}

// targetSymbol extracts the symbol a proc/var page documents: the title
// token preceding "proc"/"var", e.g. "Del proc (datum)" yields "Del".
func targetSymbol(title string) string {
	fields := strings.Fields(title)
	for i, f := range fields {
		if i > 0 && (f == "proc" || f == "var" || f == "procs" || f == "vars") {
			return fields[i-1]
		}
	}
	return ""
}

// deferredTerm reports whether a metadata block is written after the body
// blocks regardless of its source position: "See also" plus the
// cross-linked var/proc member listings.
func deferredTerm(term string) bool {
	switch term {
	case "See also", "Vars", "Procs":
		return true
	}
	return false
}

// metadataBlocks extracts one MetadataBlock per definition list, splitting
// them into front (source order) and deferred groups. Term-derived tags are
// added to the page as a side effect.
func (r *Renderer) metadataBlocks(root *html.Node, page *Page) (front, deferred []MetadataBlock) {
	lists := dom.Select(root, func(n *html.Node) bool { return n.Data == "dl" }, nil)

	for _, dl := range lists {
		bold := dom.First(dl, "b")
		if bold == nil {
			continue
		}
		// The export sometimes nests the real term in an inner bold element.
		if inner := firstChildElement(bold, "b"); inner != nil {
			bold = inner
		}

		term := strings.TrimSpace(strings.ReplaceAll(dom.Text(bold), ":", ""))
		if term == "" {
			continue
		}
		if strings.Contains(term, "When") {
			page.Tags = append(page.Tags, "event")
		}

		codeStyled := dom.HasClass(dl, "codedd") || term == "Format"

		var entries []string
		for _, dd := range dom.Select(dl, func(n *html.Node) bool { return n.Data == "dd" }, nil) {
			entry := r.resolver.Markdown(dom.InnerHTML(dd))
			if term == "Args" {
				entry = splitArgEntry(entry)
			}
			entries = append(entries, entry)
		}

		block := MetadataBlock{Term: term, Entries: entries, CodeStyled: codeStyled}
		page.Headers = append(page.Headers, block)
		if deferredTerm(term) {
			deferred = append(deferred, block)
		} else {
			front = append(front, block)
		}
	}

	return front, deferred
}

// splitArgEntry turns "name: description" into a code span plus plain text.
// Entries without a colon pass through untouched.
func splitArgEntry(entry string) string {
	i := strings.Index(entry, ":")
	if i <= 0 {
		return entry
	}
	return "`" + strings.TrimSpace(entry[:i]) + "`: " + strings.TrimSpace(entry[i+1:])
}

// bodyBlocks walks the paragraph/heading/pre-like elements in DOM order.
// Definition lists are handled separately and their subtrees are skipped.
func (r *Renderer) bodyBlocks(root *html.Node, symbol string) []Block {
	nodes := dom.Select(root,
		func(n *html.Node) bool {
			switch n.Data {
			case "p", "h3", "xmp", "pre", "ul":
				return true
			}
			return false
		},
		func(n *html.Node) bool { return n.Data == "dl" },
	)

	var blocks []Block
	for _, n := range nodes {
		switch n.Data {
		case "p":
			if b, ok := r.paragraph(n); ok {
				blocks = append(blocks, b)
			}
		case "h3":
			if text := strings.TrimSpace(dom.Text(n)); text == "Example:" {
				// Pure visual cue in the source, redundant in Markdown.
				continue
			}
			blocks = append(blocks, Subheading{Text: r.resolver.Markdown(dom.InnerHTML(n))})
		case "xmp":
			blocks = append(blocks, CodeSample{
				Lang:   "dream-maker",
				Symbol: symbol,
				Text:   strings.TrimSpace(dom.Text(n)),
			})
		case "pre":
			blocks = append(blocks, CodeSample{Text: strings.TrimSpace(dom.Text(n))})
		case "ul":
			blocks = append(blocks, RawList{Markup: r.resolver.Markdown(dom.OuterHTML(n))})
		}
	}
	return blocks
}

// paragraph classifies one <p> element into a plain paragraph or a callout.
func (r *Renderer) paragraph(n *html.Node) (Block, bool) {
	text := r.resolver.Markdown(dom.InnerHTML(n))

	kind, isCallout := calloutKind(n)
	if !isCallout {
		if text == "" {
			return nil, false
		}
		return Paragraph{Text: text}, true
	}

	text = strings.TrimSpace(strings.TrimPrefix(text, "Note:"))
	if text == "" {
		return nil, false
	}
	return Callout{Kind: kind, Text: text}, true
}

// calloutKind is the predicate deciding whether a paragraph is an
// admonition and of which kind.
func calloutKind(n *html.Node) (CalloutKind, bool) {
	switch {
	case dom.HasClass(n, "deprecated"):
		return CalloutDeprecated, true
	case dom.HasClass(n, "security"):
		return CalloutDanger, true
	case dom.HasClass(n, "note"):
		return CalloutNote, true
	case strings.HasPrefix(strings.TrimSpace(dom.Text(n)), "Note:"):
		return CalloutNote, true
	}
	return "", false
}

func firstChildElement(n *html.Node, tag string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			return c
		}
	}
	return nil
}
