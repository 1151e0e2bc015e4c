// Package dom provides small helpers over golang.org/x/net/html for the
// fragment parsing done by the registry and renderer.
package dom

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// Parse parses a page fragment. The parser is tolerant: a fragment without
// html/body wrappers is wrapped automatically.
func Parse(fragment string) (*html.Node, error) {
	return html.Parse(strings.NewReader(fragment))
}

// Attr returns the value of the named attribute.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// HasClass reports whether the element's class attribute contains the given
// class (case-sensitive).
func HasClass(n *html.Node, class string) bool {
	v, ok := Attr(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

// Text returns the concatenated text content of the subtree.
func Text(n *html.Node) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return buf.String()
}

// InnerHTML renders the element's children back to markup.
func InnerHTML(n *html.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return ""
		}
	}
	return buf.String()
}

// OuterHTML renders the element itself back to markup.
func OuterHTML(n *html.Node) string {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}

// First returns the first element with the given tag name in depth-first
// order, or nil.
func First(root *html.Node, tag string) *html.Node {
	return FirstMatch(root, func(n *html.Node) bool { return n.Data == tag })
}

// FirstMatch returns the first element satisfying pred in depth-first order,
// or nil.
func FirstMatch(root *html.Node, pred func(*html.Node) bool) *html.Node {
	if root.Type == html.ElementNode && pred(root) {
		return root
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if m := FirstMatch(c, pred); m != nil {
			return m
		}
	}
	return nil
}

// Select collects elements satisfying pred in DOM order. Matched subtrees
// are not descended into, and subtrees satisfying skip are ignored entirely.
func Select(root *html.Node, pred func(*html.Node) bool, skip func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if skip != nil && skip(n) {
				return
			}
			if pred(n) {
				out = append(out, n)
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}
