package transform

import (
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/kyletbuzbee/Website-Templates-sub002/pkg/models"
)

// TargetDimensions returns the output size for a sw x sh source.
//
// Cover specs return exactly Width x Height unless WithoutEnlargement is set
// and the source is smaller in either dimension; then the result is the
// largest box of the target aspect ratio that fits inside the source.
//
// Inside specs scale to fit the box; a zero Width or Height leaves that
// side unconstrained.
func TargetDimensions(sw, sh int, spec models.TransformSpec) (int, int) {
	if sw <= 0 || sh <= 0 {
		return 0, 0
	}
	if spec.Fit == FitInside {
		return insideDimensions(sw, sh, spec)
	}

	if !spec.WithoutEnlargement || (sw >= spec.Width && sh >= spec.Height) {
		return spec.Width, spec.Height
	}

	aspect := float64(spec.Width) / float64(spec.Height)
	var w, h int
	if float64(sw)/float64(sh) > aspect {
		h = sh
		w = int(math.Round(float64(sh) * aspect))
	} else {
		w = sw
		h = int(math.Round(float64(sw) / aspect))
	}
	return clamp(w, 1, sw), clamp(h, 1, sh)
}

func insideDimensions(sw, sh int, spec models.TransformSpec) (int, int) {
	scale := math.Inf(1)
	if spec.Width > 0 {
		scale = float64(spec.Width) / float64(sw)
	}
	if spec.Height > 0 {
		scale = math.Min(scale, float64(spec.Height)/float64(sh))
	}
	if math.IsInf(scale, 1) || (spec.WithoutEnlargement && scale > 1) {
		scale = 1
	}
	w := int(math.Round(float64(sw) * scale))
	h := int(math.Round(float64(sh) * scale))
	return max(w, 1), max(h, 1)
}

// Resize applies spec to img using Lanczos resampling.
func Resize(img image.Image, spec models.TransformSpec) image.Image {
	b := img.Bounds()
	w, h := TargetDimensions(b.Dx(), b.Dy(), spec)
	if w == 0 || h == 0 {
		return img
	}
	if w == b.Dx() && h == b.Dy() {
		return imaging.Clone(img)
	}
	if spec.Fit == FitInside {
		return imaging.Resize(img, w, h, imaging.Lanczos)
	}
	return imaging.Fill(img, w, h, imaging.Center, imaging.Lanczos)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
