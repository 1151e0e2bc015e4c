// Package build orchestrates a conversion run: split the export, build the
// registry snapshot, render every page, assemble front matter, and write the
// output tree. Execution is single-threaded and run-to-completion; the
// two-pass structure is the only ordering primitive.
package build

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tmorg/refbuilder/internal/config"
	"github.com/tmorg/refbuilder/internal/errors"
	"github.com/tmorg/refbuilder/internal/frontmatter"
	"github.com/tmorg/refbuilder/internal/logfields"
	"github.com/tmorg/refbuilder/internal/registry"
	"github.com/tmorg/refbuilder/internal/render"
	"github.com/tmorg/refbuilder/internal/slug"
	"github.com/tmorg/refbuilder/internal/splitter"
	"github.com/tmorg/refbuilder/internal/util/sets"
)

// RootTitle is the title of the synthetic root page.
const RootTitle = "Reference"

const rootBody = "This site is generated from the BYOND reference manual. " +
	"You probably want to start [here](/DM)."

// Service runs conversions for one configuration.
type Service struct {
	cfg *config.Config
}

// NewService creates a build service.
func NewService(cfg *config.Config) *Service {
	return &Service{cfg: cfg}
}

// document is one rendered page together with its output location.
type document struct {
	page   *render.Page
	outRel string // '/'-rooted output path without extension
}

// Run executes one conversion. Run-level failures (unreadable input,
// uncreatable output root) abort with an error and no partial output
// commitment; per-page failures are isolated into the report.
func (s *Service) Run() (*Report, error) {
	start := time.Now()
	report := &Report{RunID: uuid.NewString()}

	slog.Info("Starting reference build",
		logfields.RunID(report.RunID),
		logfields.Input(s.cfg.Input),
		logfields.Output(s.cfg.Output))

	raw, err := os.ReadFile(s.cfg.Input)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal,
			fmt.Sprintf("unreadable input %s", s.cfg.Input))
	}
	if err := os.MkdirAll(s.cfg.Output, 0o755); err != nil {
		return nil, errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal,
			fmt.Sprintf("uncreatable output root %s", s.cfg.Output))
	}

	fragments := splitter.Split(string(raw))
	report.Fragments = len(fragments)

	// Pass 1 must complete for all fragments before any rendering reads the
	// snapshot: link targets can be forward references.
	snap := registry.Build(fragments)
	report.Registered = snap.Len()
	slog.Debug("Registry built",
		logfields.RunID(report.RunID),
		logfields.Fragments(report.Fragments),
		logfields.Registered(report.Registered))

	renderer := render.New(snap, render.Options{SectionLinks: s.cfg.SectionLinks})

	var docs []document
	for _, canonical := range snap.Paths() {
		page, err := renderer.RenderPage(canonical)
		if err != nil {
			report.Skipped = append(report.Skipped, SkippedPage{Path: canonical, Reason: err.Error()})
			continue
		}
		docs = append(docs, document{page: page, outRel: outputPath(snap, canonical)})
	}

	root := &render.Page{Path: "/", Title: RootTitle, Body: rootBody}
	docs = append(docs, document{page: root, outRel: "/index"})

	written := make(map[string]string, len(docs))
	emitted := sets.New[string]()
	bodies := make(map[string][]byte, len(docs))

	for _, d := range docs {
		if existing, clash := written[d.outRel]; clash {
			report.Collisions = append(report.Collisions, Collision{
				Path:     d.page.Path,
				Existing: existing,
				Output:   d.outRel,
			})
			continue
		}
		written[d.outRel] = d.page.Path

		content, err := s.compose(snap, d.page)
		if err != nil {
			report.Failures = append(report.Failures, WriteFailure{
				Path:   d.page.Path,
				Output: d.outRel,
				Reason: err.Error(),
			})
			continue
		}

		target := filepath.Join(s.cfg.Output, filepath.FromSlash(strings.TrimPrefix(d.outRel, "/"))+".md")
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			report.Failures = append(report.Failures, WriteFailure{
				Path:   d.page.Path,
				Output: target,
				Reason: err.Error(),
			})
			continue
		}
		if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
			report.Failures = append(report.Failures, WriteFailure{
				Path:   d.page.Path,
				Output: target,
				Reason: err.Error(),
			})
			continue
		}

		report.Written++
		emitted.Add(d.outRel)
		bodies[d.outRel] = []byte(render.Escape(d.page.Body))
	}

	for _, outRel := range sets.SortedStrings(emitted) {
		report.Audit = append(report.Audit, auditLinks(outRel, bodies[outRel], emitted)...)
	}

	report.Duration = time.Since(start)
	return report, nil
}

// compose assembles the final file content: escaped body behind TOML front
// matter. The object marker set is merged here, after both passes, so no
// page ever mutates another page's record.
func (s *Service) compose(snap *registry.Snapshot, page *render.Page) (string, error) {
	tags := append([]string(nil), page.Tags...)
	if snap.IsObject(page.Path) {
		tags = append(tags, "object")
	}

	headers := make(map[string][]string, len(page.Headers))
	for _, h := range page.Headers {
		headers[h.Term] = append(headers[h.Term], h.Entries...)
	}
	if len(headers) == 0 {
		headers = nil
	}

	return frontmatter.Compose(frontmatter.Doc{
		Title:        page.Title,
		ByondVersion: page.Version,
		Tags:         tags,
		Headers:      headers,
	}, render.Escape(page.Body))
}

// outputPath maps a canonical path to its '/'-rooted output document path.
// Sections become index documents inside their own directory.
func outputPath(snap *registry.Snapshot, canonical string) string {
	out := slug.Sanitize(canonical)
	if snap.IsSection(canonical) || canonical == "/" {
		out = strings.TrimSuffix(out, "/") + "/index"
	}
	return out
}
