package build

import (
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/tmorg/refbuilder/internal/util/sets"
)

// auditLinks parses an emitted Markdown body and reports root-relative link
// destinations that do not match any emitted document path. Findings are
// diagnostics, never errors: the build has already completed.
func auditLinks(page string, body []byte, emitted sets.Set[string]) []AuditFinding {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(body))

	var findings []AuditFinding
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}

		var dest string
		switch node := n.(type) {
		case *gmast.Link:
			dest = string(node.Destination)
		case *gmast.Image:
			dest = string(node.Destination)
		case *gmast.AutoLink:
			dest = string(node.URL(body))
		default:
			return gmast.WalkContinue, nil
		}

		if !internalDestination(dest) {
			return gmast.WalkContinue, nil
		}
		if !destinationEmitted(dest, emitted) {
			findings = append(findings, AuditFinding{Page: page, Destination: dest})
		}
		return gmast.WalkContinue, nil
	})

	return findings
}

func internalDestination(dest string) bool {
	return strings.HasPrefix(dest, "/") && !strings.Contains(dest, "http")
}

func destinationEmitted(dest string, emitted sets.Set[string]) bool {
	d := strings.TrimSuffix(dest, "/")
	if d == "" {
		d = "/"
	}
	if emitted.Has(d) {
		return true
	}
	// A folder link lands on the section's index document.
	return emitted.Has(strings.TrimSuffix(d, "/") + "/index")
}
