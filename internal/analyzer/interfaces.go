package analyzer

import (
	"image"

	"github.com/kyletbuzbee/Website-Templates-sub002/pkg/models"
)

// MetricsCalculator derives ImageMetrics from decoded pixel data.
type MetricsCalculator interface {
	// Calculate computes metrics for img; format is the decoder name
	// reported by image.Decode ("jpeg", "png", "webp", ...).
	Calculate(img image.Image, format string) models.ImageMetrics

	// Close releases the worker pool.
	Close()
}
