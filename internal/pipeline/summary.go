package pipeline

import (
	"time"

	"github.com/kyletbuzbee/Website-Templates-sub002/pkg/models"
)

// Stage names used in summaries and events.
const (
	StageDistribute = "distribute"
	StageOptimize   = "optimize"
	StageRewrite    = "rewrite"
	StageRun        = "run"
)

// AssetIssue records why one asset was skipped or failed.
type AssetIssue struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Summary aggregates the outcome of one stage.
type Summary struct {
	RunID      string    `json:"run_id"`
	Stage      string    `json:"stage"`
	DryRun     bool      `json:"dry_run,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Processed counts assets that ended optimized or already optimized.
	Processed        int   `json:"processed"`
	Optimized        int   `json:"optimized"`
	AlreadyOptimized int   `json:"already_optimized"`
	Skipped          int   `json:"skipped"`
	Failed           int   `json:"failed"`
	BytesSaved       int64 `json:"bytes_saved"`

	Published     int `json:"published,omitempty"`
	PublishFailed int `json:"publish_failed,omitempty"`

	TemplatesScanned   int `json:"templates_scanned,omitempty"`
	TemplatesRewritten int `json:"templates_rewritten,omitempty"`
	Replacements       int `json:"replacements,omitempty"`

	// DropZoneMissing is set when Distribute found no drop zone.
	// DropZoneCreated is set when it then created an empty one.
	DropZoneMissing bool `json:"drop_zone_missing,omitempty"`
	DropZoneCreated bool `json:"drop_zone_created,omitempty"`

	Skips    []AssetIssue            `json:"skips,omitempty"`
	Failures []AssetIssue            `json:"failures,omitempty"`
	Mappings models.ReferenceMapping `json:"mappings,omitempty"`
}

// Duration is the wall time of the stage.
func (s Summary) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// HasFailures reports whether any asset or template failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0 || s.PublishFailed > 0
}

// Merge adds the counters of o into s. Identity fields of s are kept.
func (s *Summary) Merge(o Summary) {
	s.Processed += o.Processed
	s.Optimized += o.Optimized
	s.AlreadyOptimized += o.AlreadyOptimized
	s.Skipped += o.Skipped
	s.Failed += o.Failed
	s.BytesSaved += o.BytesSaved
	s.Published += o.Published
	s.PublishFailed += o.PublishFailed
	s.TemplatesScanned += o.TemplatesScanned
	s.TemplatesRewritten += o.TemplatesRewritten
	s.Replacements += o.Replacements
	s.DropZoneMissing = s.DropZoneMissing || o.DropZoneMissing
	s.DropZoneCreated = s.DropZoneCreated || o.DropZoneCreated
	s.Skips = append(s.Skips, o.Skips...)
	s.Failures = append(s.Failures, o.Failures...)
	for _, m := range o.Mappings {
		s.Mappings.AddFor(m.Industry, m.Old, m.New)
	}
	if o.FinishedAt.After(s.FinishedAt) {
		s.FinishedAt = o.FinishedAt
	}
}
