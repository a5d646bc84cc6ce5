// Package filename decomposes drop-zone image names of the form
// <industry>-<section>-<description>.<ext>.
package filename

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arbovm/levenshtein"

	apperrors "github.com/kyletbuzbee/Website-Templates-sub002/internal/errors"
	"github.com/kyletbuzbee/Website-Templates-sub002/pkg/models"
)

// Skip reasons carried in AppError.Message.
const (
	ReasonNoIndustry           = "no industry prefix"
	ReasonNoExtension          = "no extension"
	ReasonEmptyDescription     = "empty description"
	ReasonUnsupportedExtension = "unsupported extension"
)

const maxSuggestionDistance = 2

// Parse splits the base name of path into industry, description and
// extension. Every failure is a skip-level error.
func Parse(path string) (models.RawAsset, error) {
	name := filepath.Base(path)
	lower := strings.ToLower(name)

	industry := matchIndustry(lower)
	if industry == "" {
		err := apperrors.NewSkipError(ReasonNoIndustry, nil)
		if s := Suggest(lower); s != "" {
			err = err.WithDetails(fmt.Sprintf("did you mean %q?", s))
		}
		return models.RawAsset{}, err
	}

	remainder := name[len(industry)+1:]
	dot := strings.LastIndex(remainder, ".")
	if dot < 0 {
		return models.RawAsset{}, apperrors.NewSkipError(ReasonNoExtension, nil)
	}
	if dot == 0 {
		return models.RawAsset{}, apperrors.NewSkipError(ReasonEmptyDescription, nil)
	}

	ext := strings.ToLower(remainder[dot+1:])
	if !IsSupportedExtension(ext) {
		return models.RawAsset{}, apperrors.NewSkipError(ReasonUnsupportedExtension, nil).
			WithDetails(fmt.Sprintf("extension %q", ext))
	}

	description := remainder[:dot]
	section := description
	if i := strings.Index(description, "-"); i >= 0 {
		section = description[:i]
	}

	return models.RawAsset{
		Path:        path,
		Industry:    industry,
		Section:     section,
		Description: description,
		Extension:   ext,
	}, nil
}

// matchIndustry returns the first declared slug followed by a dash.
func matchIndustry(lowerName string) string {
	for _, slug := range Known {
		if strings.HasPrefix(lowerName, slug+"-") {
			return slug
		}
	}
	return ""
}

// Suggest returns the known industry closest to the start of name, or ""
// when nothing is within a small edit distance.
func Suggest(name string) string {
	tokens := strings.Split(strings.ToLower(name), "-")
	best, bestDist := "", maxSuggestionDistance+1
	for _, slug := range Known {
		n := strings.Count(slug, "-") + 1
		if n > len(tokens) {
			continue
		}
		candidate := strings.Join(tokens[:n], "-")
		if d := levenshtein.Distance(candidate, slug); d < bestDist {
			best, bestDist = slug, d
		}
	}
	return best
}
