package dom

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func parse(t *testing.T, fragment string) *html.Node {
	t.Helper()
	root, err := Parse(fragment)
	require.NoError(t, err)
	return root
}

func TestAttrAndHasClass(t *testing.T) {
	root := parse(t, `<p class="note extra" id="x">hi</p>`)
	p := First(root, "p")
	require.NotNil(t, p)

	id, ok := Attr(p, "id")
	require.True(t, ok)
	require.Equal(t, "x", id)

	_, ok = Attr(p, "missing")
	require.False(t, ok)

	require.True(t, HasClass(p, "note"))
	require.True(t, HasClass(p, "extra"))
	require.False(t, HasClass(p, "not"))
}

func TestTextAndInnerHTML(t *testing.T) {
	root := parse(t, `<p>one <b>two</b> three</p>`)
	p := First(root, "p")
	require.Equal(t, "one two three", Text(p))
	require.Equal(t, "one <b>two</b> three", InnerHTML(p))
}

func TestSelect_SkipsMatchedSubtreesAndSkippedSubtrees(t *testing.T) {
	root := parse(t, `<dl><dd><p>inside</p></dd></dl><p>outside</p><ul><li><p>nested</p></li></ul>`)

	nodes := Select(root,
		func(n *html.Node) bool { return n.Data == "p" || n.Data == "ul" },
		func(n *html.Node) bool { return n.Data == "dl" },
	)

	// The dl subtree is skipped and the ul is not descended into.
	require.Len(t, nodes, 2)
	require.Equal(t, "p", nodes[0].Data)
	require.Equal(t, "outside", Text(nodes[0]))
	require.Equal(t, "ul", nodes[1].Data)
}

func TestSelect_DocumentOrder(t *testing.T) {
	root := parse(t, `<h3>a</h3><p>b</p><h3>c</h3>`)
	nodes := Select(root, func(n *html.Node) bool {
		return n.Data == "p" || n.Data == "h3"
	}, nil)

	require.Len(t, nodes, 3)
	require.Equal(t, "h3", nodes[0].Data)
	require.Equal(t, "p", nodes[1].Data)
	require.Equal(t, "h3", nodes[2].Data)
}

func TestParse_RawTextElement(t *testing.T) {
	// xmp content is raw text: markup inside is not parsed.
	root := parse(t, `<xmp>usr << "hi"</xmp>`)
	x := First(root, "xmp")
	require.NotNil(t, x)
	require.Equal(t, `usr << "hi"`, Text(x))
}
