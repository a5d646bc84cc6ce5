package models

// ImageMetrics is a read-only snapshot of a decoded image.
// It is computed once per asset and passed by value between stages.
type ImageMetrics struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	AspectRatio float64 `json:"aspect_ratio"`
	PixelCount  int     `json:"pixel_count"`
	Grayscale   bool    `json:"grayscale"`

	// ChannelVariance holds the R, G and B variance on the 0-255 scale.
	ChannelVariance [3]float64 `json:"channel_variance"`
	// ColorVariance is the mean of ChannelVariance.
	ColorVariance float64 `json:"color_variance"`
	// Entropy is the Shannon entropy of the 256-bin luminance histogram
	// divided by 8, so it falls in [0, 1].
	Entropy float64 `json:"entropy"`

	Format string `json:"format"`
}

// Category is the semantic role of an image on a template page.
type Category string

const (
	CategoryHero     Category = "hero"
	CategoryTeam     Category = "team"
	CategoryAvatar   Category = "avatar"
	CategoryProperty Category = "property"
	CategoryWork     Category = "work"
	CategoryGallery  Category = "gallery"
	CategoryOther    Category = "other"
	// CategoryUncategorized means no filename signal matched; the asset is
	// not transformed.
	CategoryUncategorized Category = "uncategorized"
	// CategoryUnknown is reported when the image could not be decoded.
	CategoryUnknown Category = "unknown"
)

// Transformable reports whether assets of this category have a transform.
func (c Category) Transformable() bool {
	switch c {
	case CategoryHero, CategoryTeam, CategoryAvatar, CategoryProperty, CategoryWork, CategoryGallery:
		return true
	}
	return false
}

// ContentType distinguishes icon-like graphics from photographs.
type ContentType string

const (
	ContentTypeIcon  ContentType = "icon"
	ContentTypePhoto ContentType = "photo"
)

// ClassificationResult is produced by the classifier and consumed by the
// transformer.
type ClassificationResult struct {
	Category           Category    `json:"category"`
	CategoryConfidence float64     `json:"category_confidence"`
	CategorySource     string      `json:"category_source,omitempty"`
	ContentType        ContentType `json:"content_type"`
	IconScore          int         `json:"icon_score"`
	ContentConfidence  float64     `json:"content_confidence"`
	// Formats lists output formats in order of preference.
	Formats []string `json:"recommended_formats"`
	// DecodeError is set when metrics could not be computed.
	DecodeError string `json:"decode_error,omitempty"`
}

// AssetReport pairs metrics with their classification for CLI and HTTP
// output.
type AssetReport struct {
	Path           string               `json:"path"`
	Metrics        *ImageMetrics        `json:"metrics,omitempty"`
	Classification ClassificationResult `json:"classification"`
	Spec           *TransformSpec       `json:"transform_spec,omitempty"`
	Warnings       []string             `json:"warnings,omitempty"`
}
