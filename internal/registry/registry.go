// Package registry implements the first pass over the split fragments: it
// extracts each page's canonical path, records section membership and
// cross-page object markers, and produces an immutable snapshot. Rendering
// must not begin until the snapshot is complete, because link targets can be
// forward references.
package registry

import (
	"log/slog"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/tmorg/refbuilder/internal/dom"
	"github.com/tmorg/refbuilder/internal/logfields"
	"github.com/tmorg/refbuilder/internal/util/sets"
	"golang.org/x/net/html"
)

// objectTitle matches titles like "procs (client)" or "vars (world)": the
// page enumerates members of some object, which marks the object's own page.
var objectTitle = regexp.MustCompile(`^(?:procs|vars) \(.+\)$`)

// Snapshot is the immutable result of pass 1. It is fully populated before
// any rendering reads it and never mutated afterwards.
type Snapshot struct {
	fragments map[string]string
	order     []string
	sections  sets.Set[string]
	objects   sets.Set[string]
}

// Build parses every fragment and registers those carrying a canonical path
// anchor. Fragments without one are dropped with a debug log line.
func Build(fragments []string) *Snapshot {
	snap := &Snapshot{
		fragments: make(map[string]string, len(fragments)),
		sections:  sets.New[string](),
		objects:   sets.New[string](),
	}

	for i, fragment := range fragments {
		root, err := dom.Parse(fragment)
		if err != nil {
			slog.Debug("Dropping unparseable fragment", slog.Int("index", i), logfields.Error(err))
			continue
		}

		anchor := dom.FirstMatch(root, func(n *html.Node) bool {
			if n.Data != "a" {
				return false
			}
			_, ok := dom.Attr(n, "name")
			return ok
		})
		if anchor == nil {
			slog.Debug("Dropping fragment without canonical anchor", slog.Int("index", i))
			continue
		}

		name, _ := dom.Attr(anchor, "name")
		canonical := CanonicalPath(name)
		if canonical == "" {
			continue
		}

		if parent := path.Dir(canonical); parent != "." {
			snap.sections.Add(parent)
		}

		if title := dom.First(root, "h2"); title != nil {
			if objectTitle.MatchString(strings.TrimSpace(dom.Text(title))) {
				if parent := path.Dir(canonical); parent != "." {
					snap.objects.Add(parent)
				}
			}
		}

		if _, dup := snap.fragments[canonical]; dup {
			slog.Warn("Duplicate canonical path, keeping first", logfields.Path(canonical))
			continue
		}
		snap.fragments[canonical] = fragment
		snap.order = append(snap.order, canonical)
	}

	return snap
}

// CanonicalPath normalizes an anchor name or href target into the
// percent-decoded registry key.
func CanonicalPath(raw string) string {
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

// Paths returns the registered canonical paths in source order.
func (s *Snapshot) Paths() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Fragment returns the raw fragment registered under the canonical path.
func (s *Snapshot) Fragment(canonical string) (string, bool) {
	f, ok := s.fragments[canonical]
	return f, ok
}

// Has reports whether the canonical path is registered. This is the link
// graph read by the cross-reference resolver.
func (s *Snapshot) Has(canonical string) bool {
	_, ok := s.fragments[canonical]
	return ok
}

// IsSection reports whether the canonical path is the parent of at least one
// registered path, which makes its output an index document.
func (s *Snapshot) IsSection(canonical string) bool {
	return s.sections.Has(canonical)
}

// IsObject reports whether some other page's title marked this path as an
// object. Merged into front matter after both passes complete.
func (s *Snapshot) IsObject(canonical string) bool {
	return s.objects.Has(canonical)
}

// Len returns the number of registered pages.
func (s *Snapshot) Len() int {
	return len(s.fragments)
}
