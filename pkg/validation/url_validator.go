package validation

import (
	"net/url"
	"path"
	"slices"
	"strings"

	apperrors "github.com/kyletbuzbee/Website-Templates-sub002/internal/errors"
)

// URLValidator checks image URLs submitted to the classify endpoint.
type URLValidator struct {
	allowedSchemes    []string
	allowedHosts      []string
	allowedExtensions []string
}

// NewURLValidator allows http and https on any host. Paths without an
// extension are accepted; the content type is checked after download.
func NewURLValidator() *URLValidator {
	return &URLValidator{
		allowedSchemes:    []string{"http", "https"},
		allowedHosts:      []string{}, // empty means all hosts allowed
		allowedExtensions: []string{"jpg", "jpeg", "png", "webp", "svg"},
	}
}

// NewURLValidatorWithOptions creates a URL validator with custom options
func NewURLValidatorWithOptions(schemes []string, hosts []string) *URLValidator {
	v := NewURLValidator()
	v.allowedSchemes = schemes
	v.allowedHosts = hosts
	return v
}

// ValidateImageURL validates if the provided URL is acceptable for image processing
func (v *URLValidator) ValidateImageURL(imageURL string) error {
	if strings.TrimSpace(imageURL) == "" {
		return apperrors.NewValidationError("URL cannot be empty", nil)
	}

	parsedURL, err := url.Parse(imageURL)
	if err != nil {
		return apperrors.NewValidationError("Invalid URL format", err)
	}

	if !slices.Contains(v.allowedSchemes, strings.ToLower(parsedURL.Scheme)) {
		return apperrors.NewValidationError("URL scheme not allowed", nil).WithDetails(parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return apperrors.NewValidationError("URL must have a valid host", nil)
	}

	if len(v.allowedHosts) > 0 && !slices.Contains(v.allowedHosts, parsedURL.Hostname()) {
		return apperrors.NewValidationError("URL host not allowed", nil).WithDetails(parsedURL.Hostname())
	}

	if ext := strings.TrimPrefix(strings.ToLower(path.Ext(parsedURL.Path)), "."); ext != "" {
		if !slices.Contains(v.allowedExtensions, ext) {
			return apperrors.NewValidationError("URL does not point to a supported image type", nil).WithDetails(ext)
		}
	}

	return nil
}
