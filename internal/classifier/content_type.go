package classifier

import (
	"github.com/kyletbuzbee/Website-Templates-sub002/pkg/models"
)

// Weights is the icon-vs-photo scoring table. Scoring is a best-effort
// heuristic; tune it here or through the config file.
type Weights struct {
	SmallImage        int `yaml:"small_image"`
	SquareAspect      int `yaml:"square_aspect"`
	SmallPNG          int `yaml:"small_png"`
	LowEntropy        int `yaml:"low_entropy"`
	HighColorVariance int `yaml:"high_color_variance"`
	Grayscale         int `yaml:"grayscale"`
	Tiny              int `yaml:"tiny"`
	Small             int `yaml:"small"`

	// Threshold is the minimum score classified as icon.
	Threshold int `yaml:"threshold"`

	SmallPixelLimit    int     `yaml:"small_pixel_limit"`
	AspectMin          float64 `yaml:"aspect_min"`
	AspectMax          float64 `yaml:"aspect_max"`
	PNGMaxSide         int     `yaml:"png_max_side"`
	EntropyLimit       float64 `yaml:"entropy_limit"`
	ColorVarianceLimit float64 `yaml:"color_variance_limit"`
	TinySide           int     `yaml:"tiny_side"`
	SmallSide          int     `yaml:"small_side"`
}

// DefaultWeights returns the stock scoring table.
func DefaultWeights() Weights {
	return Weights{
		SmallImage:        3,
		SquareAspect:      1,
		SmallPNG:          2,
		LowEntropy:        2,
		HighColorVariance: 1,
		Grayscale:         1,
		Tiny:              2,
		Small:             1,

		Threshold: 4,

		SmallPixelLimit:    100000,
		AspectMin:          0.8,
		AspectMax:          1.25,
		PNGMaxSide:         256,
		EntropyLimit:       0.7,
		ColorVarianceLimit: 1000,
		TinySide:           64,
		SmallSide:          128,
	}
}

// MaxScore is the score of an image matching every rule.
func (w Weights) MaxScore() int {
	return w.SmallImage + w.SquareAspect + w.SmallPNG + w.LowEntropy +
		w.HighColorVariance + w.Grayscale + w.Tiny + w.Small
}

// Score sums the weights of every rule m satisfies.
func (w Weights) Score(m models.ImageMetrics) int {
	score := 0
	small := m.PixelCount < w.SmallPixelLimit

	if small {
		score += w.SmallImage
	}
	if m.AspectRatio >= w.AspectMin && m.AspectRatio <= w.AspectMax {
		score += w.SquareAspect
	}
	if m.Format == "png" && (small || (m.Width <= w.PNGMaxSide && m.Height <= w.PNGMaxSide)) {
		score += w.SmallPNG
	}
	if m.Entropy < w.EntropyLimit {
		score += w.LowEntropy
	}
	if m.ColorVariance > w.ColorVarianceLimit {
		score += w.HighColorVariance
	}
	if m.Grayscale {
		score += w.Grayscale
	}
	// The size tiers stack with each other and with SmallImage.
	if m.Width <= w.TinySide && m.Height <= w.TinySide {
		score += w.Tiny
	}
	if m.Width <= w.SmallSide && m.Height <= w.SmallSide {
		score += w.Small
	}
	return score
}

// ContentType returns the content type, its score and a confidence in
// [0.5, 1]. SVG is always an icon.
func (w Weights) ContentType(m models.ImageMetrics) (models.ContentType, int, float64) {
	score := w.Score(m)
	if m.Format == "svg" {
		return models.ContentTypeIcon, score, 1
	}

	if score >= w.Threshold {
		span := w.MaxScore() - w.Threshold + 1
		return models.ContentTypeIcon, score, confidence(score-w.Threshold+1, span)
	}
	return models.ContentTypePhoto, score, confidence(w.Threshold-score, w.Threshold)
}

func confidence(margin, span int) float64 {
	if span <= 0 {
		return 1
	}
	r := float64(margin) / float64(span)
	if r > 1 {
		r = 1
	}
	return 0.5 + 0.5*r
}
