package render

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tmorg/refbuilder/internal/registry"
)

func testSnapshot(t *testing.T) *registry.Snapshot {
	t.Helper()
	return registry.Build([]string{
		`<a name="/DM"></a><h2>DM</h2>`,
		`<a name="/DM/vars"></a><h2>vars (DM)</h2>`,
		`<a name="/datum"></a><h2>datum</h2>`,
	})
}

func TestResolve_RegisteredTarget(t *testing.T) {
	r := NewResolver(testSnapshot(t), false)
	require.Equal(t, "[vars](/DM/vars)", r.Resolve("/DM/vars", "vars"))
}

func TestResolve_StripsTrailingFragment(t *testing.T) {
	r := NewResolver(testSnapshot(t), false)
	require.Equal(t, "[vars](/DM/vars)", r.Resolve("/DM/vars#world", "vars"))
}

func TestResolve_SectionTargetLinksToIndex(t *testing.T) {
	r := NewResolver(testSnapshot(t), true)
	require.Equal(t, "[DM](/DM/index)", r.Resolve("/DM", "DM"))
	// Leaf targets are unaffected by section awareness.
	require.Equal(t, "[vars](/DM/vars)", r.Resolve("/DM/vars", "vars"))
}

func TestResolve_BrokenLinkMarker(t *testing.T) {
	r := NewResolver(testSnapshot(t), false)
	require.Equal(t, "**BROKEN LINK: /missingdotthing**", r.Resolve("/missing.thing", "x"))
}

func TestResolve_ExternalURLPassesThrough(t *testing.T) {
	r := NewResolver(testSnapshot(t), false)
	require.Equal(t, "[site](https://example.com/a.b)", r.Resolve("https://example.com/a.b", "site"))
}

func TestResolve_PercentEncodedTarget(t *testing.T) {
	snap := registry.Build([]string{`<a name="/a%20b"></a><h2>ab</h2>`})
	r := NewResolver(snap, false)
	require.Equal(t, "[ab](/a b)", r.Resolve("/a%20b", "ab"))
}

func TestMarkdown_ResolvesInlineAnchors(t *testing.T) {
	r := NewResolver(testSnapshot(t), false)
	got := r.Markdown(`See <a href="/datum">datum</a> for details.`)
	require.Equal(t, "See [datum](/datum) for details.", got)
}

func TestMarkdown_BrokenInlineAnchor(t *testing.T) {
	r := NewResolver(testSnapshot(t), false)
	got := r.Markdown(`See <a href="/nope">nope</a>.`)
	require.Equal(t, "See **BROKEN LINK: /nope**.", got)
}

func TestMarkdown_StripsSelfReferenceAnchors(t *testing.T) {
	r := NewResolver(testSnapshot(t), false)
	require.Equal(t, "content", r.Markdown(`<a name="/self"> </a>content`))
}

func TestMarkdown_CleansBackslashesInCodeSpans(t *testing.T) {
	r := NewResolver(testSnapshot(t), false)
	// The engine escapes the underscore; inside a code span the backslash
	// must not survive.
	require.Equal(t, "`a_b`", r.Markdown("<tt>a_b</tt>"))
}

func TestMarkdown_NeutralizesDoubledPercent(t *testing.T) {
	r := NewResolver(testSnapshot(t), false)
	require.Equal(t, `100\%\%`, r.Markdown("100%%"))
}
