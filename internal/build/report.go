package build

import (
	"log/slog"
	"time"

	"github.com/tmorg/refbuilder/internal/logfields"
)

// SkippedPage records one per-page failure that did not abort the batch.
type SkippedPage struct {
	Path   string
	Reason string
}

// Collision records two canonical paths collapsing to the same output path.
// The slug table's injectivity is unproven for arbitrary symbol names; the
// first writer wins and the collision is surfaced here.
type Collision struct {
	Path     string
	Existing string
	Output   string
}

// WriteFailure records one output file that could not be written.
type WriteFailure struct {
	Path   string
	Output string
	Reason string
}

// AuditFinding is an internal link in an emitted document whose destination
// does not match any emitted page.
type AuditFinding struct {
	Page        string
	Destination string
}

// Report summarizes one conversion run.
type Report struct {
	RunID      string
	Fragments  int
	Registered int
	Written    int
	Skipped    []SkippedPage
	Collisions []Collision
	Failures   []WriteFailure
	Audit      []AuditFinding
	Duration   time.Duration
}

// Log writes the report summary and its findings to the default logger.
func (r *Report) Log() {
	slog.Info("Build completed",
		logfields.RunID(r.RunID),
		logfields.Fragments(r.Fragments),
		logfields.Registered(r.Registered),
		logfields.Written(r.Written),
		logfields.Skipped(len(r.Skipped)),
		logfields.DurationMS(float64(r.Duration.Milliseconds())))

	for _, s := range r.Skipped {
		slog.Warn("Page skipped", logfields.RunID(r.RunID), logfields.Page(s.Path), logfields.Reason(s.Reason))
	}
	for _, c := range r.Collisions {
		slog.Warn("Output path collision",
			logfields.RunID(r.RunID),
			logfields.Page(c.Path),
			slog.String("existing", c.Existing),
			logfields.Output(c.Output))
	}
	for _, f := range r.Failures {
		slog.Error("Page write failed",
			logfields.RunID(r.RunID),
			logfields.Page(f.Path),
			logfields.Output(f.Output),
			logfields.Reason(f.Reason))
	}
	for _, a := range r.Audit {
		slog.Warn("Dangling internal link",
			logfields.RunID(r.RunID),
			logfields.Page(a.Page),
			slog.String("destination", a.Destination))
	}
}
