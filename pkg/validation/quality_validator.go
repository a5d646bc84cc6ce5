package validation

import (
	"fmt"
	"math"

	"github.com/kyletbuzbee/Website-Templates-sub002/pkg/models"
)

// QualityThresholds defines when a source image is flagged before it is
// transformed. None of these block processing.
type QualityThresholds struct {
	// MaxAspectDeviation is the relative difference between source and
	// target aspect ratios above which a cover crop discards a lot of the
	// picture.
	MaxAspectDeviation float64

	// MinUpscaleWarning is the scale factor above which enlarging a source
	// is reported.
	MinUpscaleWarning float64

	// MinPhotoEntropy flags near-flat photos (placeholders, blank exports).
	MinPhotoEntropy float64
}

// DefaultQualityThresholds returns the default quality thresholds
func DefaultQualityThresholds() QualityThresholds {
	return QualityThresholds{
		MaxAspectDeviation: 0.5,
		MinUpscaleWarning:  1.0,
		MinPhotoEntropy:    0.15,
	}
}

// QualityValidator inspects source metrics against the transform they are
// about to go through.
type QualityValidator struct {
	thresholds QualityThresholds
}

// NewQualityValidator creates a new quality validator with default thresholds
func NewQualityValidator() *QualityValidator {
	return &QualityValidator{
		thresholds: DefaultQualityThresholds(),
	}
}

// NewQualityValidatorWithThresholds creates a quality validator with custom thresholds
func NewQualityValidatorWithThresholds(thresholds QualityThresholds) *QualityValidator {
	return &QualityValidator{
		thresholds: thresholds,
	}
}

// QualityIssue represents a quality validation issue
type QualityIssue struct {
	Type        string  `json:"type"`
	Message     string  `json:"message"`
	Severity    string  `json:"severity"` // "warning" or "info"
	ActualValue float64 `json:"actual_value,omitempty"`
	Threshold   float64 `json:"threshold,omitempty"`
}

// ValidateSource compares a source image with the spec it will be resized
// to.
func (qv *QualityValidator) ValidateSource(m models.ImageMetrics, spec models.TransformSpec) []QualityIssue {
	var issues []QualityIssue
	if m.Width <= 0 || m.Height <= 0 || spec.Width <= 0 || spec.Height <= 0 {
		return issues
	}

	// 1. Resolution
	if m.Width < spec.Width || m.Height < spec.Height {
		scale := math.Max(float64(spec.Width)/float64(m.Width), float64(spec.Height)/float64(m.Height))
		switch {
		case spec.WithoutEnlargement:
			issues = append(issues, QualityIssue{
				Type:        "undersized",
				Message:     fmt.Sprintf("source %dx%d is smaller than %dx%d; output stays at native resolution", m.Width, m.Height, spec.Width, spec.Height),
				Severity:    "info",
				ActualValue: scale,
				Threshold:   qv.thresholds.MinUpscaleWarning,
			})
		case scale > qv.thresholds.MinUpscaleWarning:
			issues = append(issues, QualityIssue{
				Type:        "upscaled",
				Message:     fmt.Sprintf("source %dx%d will be enlarged %.1fx to %dx%d", m.Width, m.Height, scale, spec.Width, spec.Height),
				Severity:    "warning",
				ActualValue: scale,
				Threshold:   qv.thresholds.MinUpscaleWarning,
			})
		}
	}

	// 2. Aspect ratio
	target := float64(spec.Width) / float64(spec.Height)
	source := m.AspectRatio
	if source == 0 {
		source = float64(m.Width) / float64(m.Height)
	}
	if deviation := math.Abs(source-target) / target; deviation > qv.thresholds.MaxAspectDeviation {
		issues = append(issues, QualityIssue{
			Type:        "aspect_mismatch",
			Message:     fmt.Sprintf("aspect ratio %.2f differs from target %.2f; cropping will remove a large part of the image", source, target),
			Severity:    "warning",
			ActualValue: deviation,
			Threshold:   qv.thresholds.MaxAspectDeviation,
		})
	}

	// 3. Detail
	if m.PixelCount > 0 && m.Entropy < qv.thresholds.MinPhotoEntropy {
		issues = append(issues, QualityIssue{
			Type:        "low_detail",
			Message:     "image is almost uniform; it may be a placeholder",
			Severity:    "warning",
			ActualValue: m.Entropy,
			Threshold:   qv.thresholds.MinPhotoEntropy,
		})
	}

	return issues
}

// ConvertIssuesToMessages flattens issues into their messages.
func (qv *QualityValidator) ConvertIssuesToMessages(issues []QualityIssue) []string {
	var messages []string
	for _, issue := range issues {
		messages = append(messages, issue.Message)
	}
	return messages
}

// HasWarnings reports whether any issue is warning severity.
func (qv *QualityValidator) HasWarnings(issues []QualityIssue) bool {
	for _, issue := range issues {
		if issue.Severity == "warning" {
			return true
		}
	}
	return false
}
