// Package htmlmd is the generic HTML-to-Markdown text engine used by the
// renderer. It handles inline formatting, anchors and lists; the bespoke
// reference-manual structures (definition lists, notes, code samples) are
// interpreted by the renderer before the engine sees them.
package htmlmd

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/tmorg/refbuilder/internal/dom"
)

// ResolveFunc rewrites one hyperlink. It receives the raw href and the
// already-converted inner Markdown and returns the full replacement markup.
type ResolveFunc func(href, inner string) string

var spaceRun = regexp.MustCompile(` {2,}`)

// Convert renders an HTML fragment to Markdown text. Anchors carrying an
// href are passed to resolve; a nil resolve falls back to plain link markup.
// Anchors with only a name attribute and no visible content are dropped.
func Convert(fragment string, resolve ResolveFunc) string {
	if resolve == nil {
		resolve = func(href, inner string) string {
			return "[" + inner + "](" + href + ")"
		}
	}

	root, err := dom.Parse(fragment)
	if err != nil {
		return fragment
	}

	var buf strings.Builder
	c := converter{resolve: resolve}
	c.children(&buf, root)

	out := spaceRun.ReplaceAllString(buf.String(), " ")
	return strings.TrimSpace(out)
}

type converter struct {
	resolve ResolveFunc
}

func (c *converter) children(buf *strings.Builder, n *html.Node) {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.node(buf, child)
	}
}

func (c *converter) node(buf *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		buf.WriteString(escapeText(n.Data))
		return
	case html.ElementNode:
	default:
		return
	}

	switch n.Data {
	case "b", "strong":
		c.wrap(buf, n, "**")
	case "i", "em":
		c.wrap(buf, n, "*")
	case "tt", "code":
		c.wrap(buf, n, "`")
	case "a":
		c.anchor(buf, n)
	case "ul":
		c.list(buf, n, false)
	case "ol":
		c.list(buf, n, true)
	case "br":
		buf.WriteString("\n")
	case "script", "style":
		// dropped
	default:
		c.children(buf, n)
	}
}

func (c *converter) wrap(buf *strings.Builder, n *html.Node, marker string) {
	inner := c.capture(n)
	if inner == "" {
		return
	}
	buf.WriteString(marker)
	buf.WriteString(inner)
	buf.WriteString(marker)
}

func (c *converter) anchor(buf *strings.Builder, n *html.Node) {
	inner := c.capture(n)
	href, hasHref := dom.Attr(n, "href")
	if !hasHref {
		// Self-reference anchor artifact: a name attribute wrapping nothing.
		if _, named := dom.Attr(n, "name"); named && strings.TrimSpace(inner) == "" {
			return
		}
		buf.WriteString(inner)
		return
	}
	buf.WriteString(c.resolve(href, strings.TrimSpace(inner)))
}

func (c *converter) list(buf *strings.Builder, n *html.Node, ordered bool) {
	buf.WriteString("\n")
	idx := 0
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode || child.Data != "li" {
			continue
		}
		idx++
		item := strings.TrimSpace(c.capture(child))
		if ordered {
			buf.WriteString(strconv.Itoa(idx))
			buf.WriteString(". ")
		} else {
			buf.WriteString("- ")
		}
		buf.WriteString(item)
		buf.WriteString("\n")
	}
}

func (c *converter) capture(n *html.Node) string {
	var buf strings.Builder
	c.children(&buf, n)
	return buf.String()
}

// escapeText flattens newlines and backslash-escapes Markdown-significant
// characters in plain text. The escaping is blind to code spans; the
// renderer's post-processing strips backslashes that land inside them.
func escapeText(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	var buf strings.Builder
	for _, r := range s {
		switch r {
		case '\\', '*', '_':
			buf.WriteByte('\\')
		}
		buf.WriteRune(r)
	}
	return buf.String()
}
