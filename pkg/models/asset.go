package models

import "time"

// RawAsset is an image file decomposed from its
// <industry>-<section>-<description>.<ext> filename.
type RawAsset struct {
	Path     string `json:"path"`
	Industry string `json:"industry"`
	// Section is the first dash-separated token after the industry.
	Section string `json:"section"`
	// Description is everything between the industry and the extension,
	// section included.
	Description string `json:"description"`
	Extension   string `json:"extension"`
}

// TransformSpec is the static per-category output configuration.
type TransformSpec struct {
	Width   int    `json:"width" yaml:"width"`
	Height  int    `json:"height" yaml:"height"`
	Quality int    `json:"quality" yaml:"quality"`
	Format  string `json:"format" yaml:"format"`
	Suffix  string `json:"suffix" yaml:"suffix"`
	// WithoutEnlargement keeps the output at or below the source resolution.
	WithoutEnlargement bool `json:"without_enlargement" yaml:"without_enlargement"`
	// Fit is "cover" (crop to exact size, the default) or "inside".
	Fit string `json:"fit,omitempty" yaml:"fit"`
}

// ProcessStatus describes what the transformer did with an asset.
type ProcessStatus string

const (
	StatusOptimized        ProcessStatus = "optimized"
	StatusAlreadyOptimized ProcessStatus = "already_optimized"
)

// ProcessedAsset is created once per successful transform.
type ProcessedAsset struct {
	SourcePath   string        `json:"source_path"`
	OutputPath   string        `json:"output_path"`
	OriginalSize int64         `json:"original_size"`
	Size         int64         `json:"size"`
	Width        int           `json:"width"`
	Height       int           `json:"height"`
	Status       ProcessStatus `json:"status"`
	ProcessedAt  time.Time     `json:"processed_at"`
}

// BytesSaved is the before/after delta; negative when the output grew.
func (p ProcessedAsset) BytesSaved() int64 {
	return p.OriginalSize - p.Size
}

// Mapping is one old-path to new-path rewrite. Industry limits the
// mapping to that industry's templates; empty applies everywhere.
type Mapping struct {
	Industry string `json:"industry,omitempty"`
	Old      string `json:"old"`
	New      string `json:"new"`
}

// ReferenceMapping is applied in order by the rewriter.
type ReferenceMapping []Mapping

// Add appends an unscoped pair, ignoring exact duplicates and no-op pairs.
func (m *ReferenceMapping) Add(oldPath, newPath string) {
	m.AddFor("", oldPath, newPath)
}

// AddFor appends a pair scoped to industry. The first pair for an
// (industry, old path) key wins.
func (m *ReferenceMapping) AddFor(industry, oldPath, newPath string) {
	if oldPath == "" || oldPath == newPath {
		return
	}
	for _, existing := range *m {
		if existing.Industry == industry && existing.Old == oldPath {
			return
		}
	}
	*m = append(*m, Mapping{Industry: industry, Old: oldPath, New: newPath})
}

// ForIndustry returns the pairs that apply to industry's templates: the
// unscoped ones and those scoped to industry, in order.
func (m ReferenceMapping) ForIndustry(industry string) ReferenceMapping {
	var out ReferenceMapping
	for _, mapping := range m {
		if mapping.Industry == "" || mapping.Industry == industry {
			out = append(out, mapping)
		}
	}
	return out
}
