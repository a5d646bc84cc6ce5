// Package classifier assigns a semantic category and an icon/photo
// content type to an image from its filename and pixel metrics.
package classifier

import (
	"math"
	"path/filepath"
	"strings"

	"github.com/kyletbuzbee/Website-Templates-sub002/pkg/models"
)

// Category sources reported in ClassificationResult.CategorySource.
const (
	SourcePattern   = "pattern"
	SourceAllowlist = "allowlist"
	SourceDefault   = "default"
	SourceNone      = "none"
)

const (
	patternConfidence   = 0.8
	allowlistConfidence = 0.9
	defaultConfidence   = 0.5
	aspectBonus         = 0.1
	aspectTolerance     = 0.2
)

var (
	iconFormats     = []string{"svg", "png", "webp"}
	photoFormats    = []string{"webp", "avif", "jpeg"}
	fallbackFormats = []string{"jpeg", "webp", "avif"}
)

// Classifier is safe for concurrent use; it holds only read-only tables.
type Classifier struct {
	weights   Weights
	patterns  []CategoryPattern
	allowlist map[string][]string
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithWeights replaces the icon/photo scoring table.
func WithWeights(w Weights) Option {
	return func(c *Classifier) { c.weights = w }
}

// WithPatterns replaces the ordered category pattern table.
func WithPatterns(p []CategoryPattern) Option {
	return func(c *Classifier) { c.patterns = p }
}

// WithHeroAllowlist replaces the per-industry hero allowlist.
func WithHeroAllowlist(a map[string][]string) Option {
	return func(c *Classifier) { c.allowlist = a }
}

// New creates a classifier with the default tables.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		weights:   DefaultWeights(),
		patterns:  DefaultPatterns,
		allowlist: HeroAllowlist,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Weights returns the active scoring table.
func (c *Classifier) Weights() Weights {
	return c.weights
}

// Classify combines filename-based category detection with metric-based
// content-type scoring. industry may be empty when unknown.
func (c *Classifier) Classify(path, industry string, m models.ImageMetrics) models.ClassificationResult {
	category, source := c.DetectCategory(path, industry)
	contentType, score, contentConf := c.weights.ContentType(m)

	result := models.ClassificationResult{
		Category:           category,
		CategoryConfidence: categoryConfidence(category, source, m),
		CategorySource:     source,
		ContentType:        contentType,
		IconScore:          score,
		ContentConfidence:  contentConf,
		Formats:            recommendedFormats(contentType, m.Format),
	}
	return result
}

// ClassifyUndecodable is the result for an image whose pixels could not be
// read. The pipeline keeps going with these defaults.
func (c *Classifier) ClassifyUndecodable(decodeErr error) models.ClassificationResult {
	result := models.ClassificationResult{
		Category:    models.CategoryUnknown,
		ContentType: models.ContentTypePhoto,
		Formats:     append([]string(nil), fallbackFormats...),
	}
	if decodeErr != nil {
		result.DecodeError = decodeErr.Error()
	}
	return result
}

// DetectCategory evaluates the pattern table, then the industry hero
// allowlist, then the work fallback. No match yields CategoryUncategorized.
func (c *Classifier) DetectCategory(path, industry string) (models.Category, string) {
	base := filepath.Base(path)
	lower := strings.ToLower(base)

	for _, p := range c.patterns {
		if p.Pattern.MatchString(lower) {
			return p.Category, SourcePattern
		}
	}

	if industry != "" {
		for _, name := range c.allowlist[industry] {
			if name == base {
				return models.CategoryHero, SourceAllowlist
			}
		}
	}

	if strings.Contains(lower, "gallery") || strings.Contains(lower, "work") {
		return models.CategoryWork, SourceDefault
	}
	return models.CategoryUncategorized, SourceNone
}

func categoryConfidence(category models.Category, source string, m models.ImageMetrics) float64 {
	var conf float64
	switch source {
	case SourcePattern:
		conf = patternConfidence
	case SourceAllowlist:
		conf = allowlistConfidence
	case SourceDefault:
		conf = defaultConfidence
	default:
		return 0
	}

	if want, ok := expectedAspect[category]; ok && m.AspectRatio > 0 {
		if math.Abs(m.AspectRatio-want)/want <= aspectTolerance {
			conf += aspectBonus
		}
	}
	return math.Min(conf, 1)
}

func recommendedFormats(ct models.ContentType, sourceFormat string) []string {
	if ct == models.ContentTypeIcon {
		if sourceFormat == "svg" {
			return []string{"svg"}
		}
		return append([]string(nil), iconFormats...)
	}
	return append([]string(nil), photoFormats...)
}
