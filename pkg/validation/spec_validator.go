package validation

import (
	"fmt"
	"slices"
	"strings"

	apperrors "github.com/kyletbuzbee/Website-Templates-sub002/internal/errors"
	"github.com/kyletbuzbee/Website-Templates-sub002/pkg/models"
)

// ValidateTransformSpec checks one configured transform. formats is the
// list of encoders available to the transformer.
func ValidateTransformSpec(name string, spec models.TransformSpec, formats []string) error {
	if spec.Width <= 0 || spec.Height <= 0 {
		return apperrors.NewValidationError(
			fmt.Sprintf("transform %q: width and height must be positive", name), nil)
	}
	if spec.Quality < 1 || spec.Quality > 100 {
		return apperrors.NewValidationError(
			fmt.Sprintf("transform %q: quality must be between 1 and 100", name), nil).
			WithDetails(fmt.Sprintf("got %d", spec.Quality))
	}
	if !slices.Contains(formats, strings.ToLower(spec.Format)) {
		return apperrors.NewValidationError(
			fmt.Sprintf("transform %q: unsupported output format %q", name, spec.Format), nil).
			WithDetails("supported: " + strings.Join(formats, ", "))
	}
	if !strings.HasPrefix(spec.Suffix, "_") || len(spec.Suffix) < 2 {
		return apperrors.NewValidationError(
			fmt.Sprintf("transform %q: suffix must start with '_'", name), nil)
	}
	switch spec.Fit {
	case "", "cover", "inside":
	default:
		return apperrors.NewValidationError(
			fmt.Sprintf("transform %q: fit must be cover or inside", name), nil)
	}
	return nil
}
