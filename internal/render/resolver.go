package render

import (
	"regexp"
	"strings"

	"github.com/tmorg/refbuilder/internal/htmlmd"
	"github.com/tmorg/refbuilder/internal/registry"
	"github.com/tmorg/refbuilder/internal/slug"
)

// Process-wide parsing rules, constructed once and shared read-only.
var (
	selfAnchor = regexp.MustCompile(`<a name[^>]*> *</a>`)
	codeSpan   = regexp.MustCompile("`[^`]+`")
)

// Resolver rewrites inline hyperlinks against the completed registry
// snapshot and runs fragments through the HTML-to-Markdown pipeline.
type Resolver struct {
	snap         *registry.Snapshot
	sectionLinks bool
}

// NewResolver wraps a completed snapshot. With sectionLinks enabled, targets
// that are sections link to their index document instead of a leaf.
func NewResolver(snap *registry.Snapshot, sectionLinks bool) *Resolver {
	return &Resolver{snap: snap, sectionLinks: sectionLinks}
}

// Resolve rewrites one anchor. Unregistered, non-external targets become a
// visible broken-link marker so the pipeline always completes.
func (r *Resolver) Resolve(href, inner string) string {
	target := href
	if i := strings.Index(target, "#"); i >= 0 {
		target = target[:i]
	}

	canonical := registry.CanonicalPath(target)
	if !r.snap.Has(canonical) {
		if !strings.Contains(canonical, "http") {
			return "**BROKEN LINK: " + slug.Sanitize(canonical) + "**"
		}
		return "[" + inner + "](" + href + ")"
	}

	dest := slug.Sanitize(canonical)
	if r.sectionLinks && r.snap.IsSection(canonical) {
		dest += "/index"
	}
	return "[" + inner + "](" + dest + ")"
}

// Markdown runs a fragment through the full text pipeline: self-reference
// anchor stripping, link resolution, HTML-to-Markdown conversion, and the
// engine-quirk cleanups. The ordering matters: anchors must be stripped
// before conversion, and backslash cleanup must run after it.
func (r *Resolver) Markdown(fragment string) string {
	s := selfAnchor.ReplaceAllString(fragment, "")

	md := htmlmd.Convert(s, r.Resolve)
	md = selfAnchor.ReplaceAllString(md, "")

	// The engine escapes text blindly; backslashes that land inside inline
	// code spans would corrupt the sample.
	md = codeSpan.ReplaceAllStringFunc(md, func(span string) string {
		return strings.ReplaceAll(span, `\`, "")
	})

	// A doubled percent sign is a template metacharacter downstream.
	md = strings.ReplaceAll(md, "%%", `\%\%`)

	return md
}
