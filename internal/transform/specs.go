package transform

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kyletbuzbee/Website-Templates-sub002/pkg/models"
)

// Resize modes.
const (
	// FitCover scales to cover the target box and crops the overflow
	// around the center.
	FitCover = "cover"
	// FitInside scales to fit within the box without cropping.
	FitInside = "inside"
)

// Specs maps each transformable category to its output configuration.
type Specs map[models.Category]models.TransformSpec

// DefaultSpecs returns the stock per-category table.
func DefaultSpecs() Specs {
	return Specs{
		models.CategoryHero:     {Width: 1920, Height: 1080, Quality: 80, Format: "webp", Suffix: "_hero"},
		models.CategoryTeam:     {Width: 400, Height: 400, Quality: 85, Format: "webp", Suffix: "_team"},
		models.CategoryAvatar:   {Width: 150, Height: 150, Quality: 85, Format: "webp", Suffix: "_avatar"},
		models.CategoryProperty: {Width: 800, Height: 600, Quality: 80, Format: "webp", Suffix: "_property", WithoutEnlargement: true},
		models.CategoryWork:     {Width: 800, Height: 600, Quality: 80, Format: "webp", Suffix: "_work", WithoutEnlargement: true},
		models.CategoryGallery:  {Width: 600, Height: 400, Quality: 80, Format: "webp", Suffix: "_gallery", WithoutEnlargement: true},
	}
}

// DistributionSpec bounds raw drop-zone images before they are placed in
// an industry asset directory.
func DistributionSpec() models.TransformSpec {
	return models.TransformSpec{Width: 1920, Height: 1920, Quality: 85, Format: "webp", WithoutEnlargement: true, Fit: FitInside}
}

// Lookup returns the spec for category.
func (s Specs) Lookup(category models.Category) (models.TransformSpec, bool) {
	spec, ok := s[category]
	return spec, ok
}

// Merge overlays non-zero fields of overrides onto a copy of s.
func (s Specs) Merge(overrides map[string]models.TransformSpec) Specs {
	out := make(Specs, len(s))
	for k, v := range s {
		out[k] = v
	}
	for name, o := range overrides {
		cat := models.Category(strings.ToLower(name))
		spec := out[cat]
		if o.Width > 0 {
			spec.Width = o.Width
		}
		if o.Height > 0 {
			spec.Height = o.Height
		}
		if o.Quality > 0 {
			spec.Quality = o.Quality
		}
		if o.Format != "" {
			spec.Format = strings.ToLower(o.Format)
		}
		if o.Suffix != "" {
			spec.Suffix = o.Suffix
		}
		if o.WithoutEnlargement {
			spec.WithoutEnlargement = true
		}
		if o.Fit != "" {
			spec.Fit = strings.ToLower(o.Fit)
		}
		out[cat] = spec
	}
	return out
}

// VariantPath is <dir>/<basename><suffix>.<format> next to src.
func VariantPath(src string, spec models.TransformSpec) string {
	dir := filepath.Dir(src)
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	return filepath.Join(dir, base+spec.Suffix+"."+spec.Format)
}

// IsVariant reports whether name already carries one of the category
// suffixes, so optimized outputs are not fed back into the optimizer.
func (s Specs) IsVariant(name string) bool {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	for _, spec := range s {
		if spec.Suffix != "" && strings.HasSuffix(base, spec.Suffix) {
			return true
		}
	}
	return false
}

// DistributedPath is <root>/<industry>/assets/images/<industry>-<description>.<format>.
func DistributedPath(root string, asset models.RawAsset, spec models.TransformSpec) string {
	name := fmt.Sprintf("%s-%s.%s", asset.Industry, asset.Description, spec.Format)
	return filepath.Join(root, asset.Industry, "assets", "images", name)
}
