package validation

import (
	"testing"

	"github.com/kyletbuzbee/Website-Templates-sub002/pkg/models"
)

var heroSpec = models.TransformSpec{Width: 1920, Height: 1080, Quality: 80, Format: "webp", Suffix: "_hero"}

func metricsFor(w, h int, entropy float64) models.ImageMetrics {
	return models.ImageMetrics{
		Width:       w,
		Height:      h,
		AspectRatio: float64(w) / float64(h),
		PixelCount:  w * h,
		Entropy:     entropy,
	}
}

func issueTypes(issues []QualityIssue) map[string]QualityIssue {
	out := make(map[string]QualityIssue, len(issues))
	for _, i := range issues {
		out[i.Type] = i
	}
	return out
}

func TestNewQualityValidator(t *testing.T) {
	validator := NewQualityValidator()
	if validator == nil {
		t.Fatal("Expected non-nil quality validator")
	}
	if validator.thresholds != DefaultQualityThresholds() {
		t.Errorf("Expected default thresholds, got %+v", validator.thresholds)
	}
}

func TestValidateSource_GoodPhoto(t *testing.T) {
	issues := NewQualityValidator().ValidateSource(metricsFor(3840, 2160, 0.9), heroSpec)
	if len(issues) > 0 {
		t.Errorf("Expected no issues, got %v", issues)
	}
}

func TestValidateSource_Upscaled(t *testing.T) {
	qv := NewQualityValidator()
	issues := issueTypes(qv.ValidateSource(metricsFor(960, 540, 0.9), heroSpec))

	issue, ok := issues["upscaled"]
	if !ok {
		t.Fatalf("Expected upscaled issue, got %v", issues)
	}
	if issue.Severity != "warning" {
		t.Errorf("Expected warning severity, got %s", issue.Severity)
	}
	if issue.ActualValue != 2.0 {
		t.Errorf("Expected scale 2.0, got %f", issue.ActualValue)
	}
}

func TestValidateSource_UndersizedWithoutEnlargement(t *testing.T) {
	spec := models.TransformSpec{Width: 800, Height: 600, WithoutEnlargement: true}
	qv := NewQualityValidator()
	issues := qv.ValidateSource(metricsFor(400, 300, 0.9), spec)

	found := issueTypes(issues)
	if found["undersized"].Severity != "info" {
		t.Errorf("Expected info-level undersized issue, got %v", issues)
	}
	if qv.HasWarnings(issues) {
		t.Errorf("Expected no warnings, got %v", issues)
	}
}

func TestValidateSource_AspectMismatch(t *testing.T) {
	issues := issueTypes(NewQualityValidator().ValidateSource(metricsFor(2000, 4000, 0.9), heroSpec))
	if _, ok := issues["aspect_mismatch"]; !ok {
		t.Errorf("Expected aspect_mismatch for portrait source on a landscape hero, got %v", issues)
	}
}

func TestValidateSource_LowDetail(t *testing.T) {
	issues := issueTypes(NewQualityValidator().ValidateSource(metricsFor(1920, 1080, 0.01), heroSpec))
	if _, ok := issues["low_detail"]; !ok {
		t.Errorf("Expected low_detail issue, got %v", issues)
	}
}

func TestValidateSource_ZeroDimensions(t *testing.T) {
	if issues := NewQualityValidator().ValidateSource(models.ImageMetrics{}, heroSpec); len(issues) != 0 {
		t.Errorf("Expected no issues for empty metrics, got %v", issues)
	}
}

func TestConvertIssuesToMessages(t *testing.T) {
	qv := NewQualityValidator()
	msgs := qv.ConvertIssuesToMessages([]QualityIssue{{Message: "a"}, {Message: "b"}})
	if len(msgs) != 2 || msgs[0] != "a" || msgs[1] != "b" {
		t.Errorf("Unexpected messages %v", msgs)
	}
}

func TestValidateTransformSpec(t *testing.T) {
	formats := []string{"webp", "jpeg", "jpg", "png"}

	tests := []struct {
		name    string
		spec    models.TransformSpec
		wantErr bool
	}{
		{"valid", heroSpec, false},
		{"upper case format", models.TransformSpec{Width: 1, Height: 1, Quality: 50, Format: "PNG", Suffix: "_x"}, false},
		{"inside fit", models.TransformSpec{Width: 10, Height: 10, Quality: 50, Format: "jpeg", Suffix: "_x", Fit: "inside"}, false},
		{"zero width", models.TransformSpec{Height: 10, Quality: 50, Format: "webp", Suffix: "_x"}, true},
		{"quality too high", models.TransformSpec{Width: 10, Height: 10, Quality: 101, Format: "webp", Suffix: "_x"}, true},
		{"quality zero", models.TransformSpec{Width: 10, Height: 10, Format: "webp", Suffix: "_x"}, true},
		{"avif not available", models.TransformSpec{Width: 10, Height: 10, Quality: 50, Format: "avif", Suffix: "_x"}, true},
		{"suffix without underscore", models.TransformSpec{Width: 10, Height: 10, Quality: 50, Format: "webp", Suffix: "x"}, true},
		{"bare underscore", models.TransformSpec{Width: 10, Height: 10, Quality: 50, Format: "webp", Suffix: "_"}, true},
		{"bad fit", models.TransformSpec{Width: 10, Height: 10, Quality: 50, Format: "webp", Suffix: "_x", Fit: "stretch"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTransformSpec(tt.name, tt.spec, formats)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTransformSpec() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
