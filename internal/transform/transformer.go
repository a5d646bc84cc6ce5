// Package transform resizes and re-encodes images into the per-category
// output formats.
package transform

import (
	"context"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	apperrors "github.com/kyletbuzbee/Website-Templates-sub002/internal/errors"
	"github.com/kyletbuzbee/Website-Templates-sub002/pkg/models"
)

// Transformer writes one output image per Process call.
type Transformer struct {
	now func() time.Time
}

// NewTransformer creates a Transformer.
func NewTransformer() *Transformer {
	return &Transformer{now: time.Now}
}

// Process resizes src according to spec and writes the result to dst.
//
// When dst is newer than src and already has the expected dimensions the
// existing file is kept and the result has StatusAlreadyOptimized. The
// source file is never modified or removed.
func (t *Transformer) Process(ctx context.Context, src, dst string, spec models.TransformSpec) (models.ProcessedAsset, error) {
	if err := ctx.Err(); err != nil {
		return models.ProcessedAsset{}, err
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return models.ProcessedAsset{}, apperrors.NewIOError("cannot stat source", err)
	}

	sw, sh, err := sourceDimensions(src)
	if err != nil {
		return models.ProcessedAsset{}, apperrors.NewDecodeError("cannot read image header", err)
	}
	ew, eh := TargetDimensions(sw, sh, spec)

	if dstInfo, ok := UpToDate(dst, srcInfo.ModTime(), ew, eh); ok {
		return models.ProcessedAsset{
			SourcePath:   src,
			OutputPath:   dst,
			OriginalSize: srcInfo.Size(),
			Size:         dstInfo.Size(),
			Width:        ew,
			Height:       eh,
			Status:       models.StatusAlreadyOptimized,
			ProcessedAt:  dstInfo.ModTime(),
		}, nil
	}

	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		return models.ProcessedAsset{}, apperrors.NewDecodeError("cannot decode image", err)
	}

	out := Resize(img, spec)

	size, err := writeAtomic(dst, out, spec)
	if err != nil {
		return models.ProcessedAsset{}, err
	}

	b := out.Bounds()
	return models.ProcessedAsset{
		SourcePath:   src,
		OutputPath:   dst,
		OriginalSize: srcInfo.Size(),
		Size:         size,
		Width:        b.Dx(),
		Height:       b.Dy(),
		Status:       models.StatusOptimized,
		ProcessedAt:  t.now(),
	}, nil
}

// Plan reports what Process would do without decoding pixels or writing.
func (t *Transformer) Plan(src, dst string, spec models.TransformSpec) (models.ProcessStatus, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return "", apperrors.NewIOError("cannot stat source", err)
	}
	sw, sh, err := sourceDimensions(src)
	if err != nil {
		return "", apperrors.NewDecodeError("cannot read image header", err)
	}
	ew, eh := TargetDimensions(sw, sh, spec)
	if _, ok := UpToDate(dst, srcInfo.ModTime(), ew, eh); ok {
		return models.StatusAlreadyOptimized, nil
	}
	return models.StatusOptimized, nil
}

// UpToDate reports whether dst exists, is newer than srcMod and decodes to
// exactly w x h.
func UpToDate(dst string, srcMod time.Time, w, h int) (os.FileInfo, bool) {
	info, err := os.Stat(dst)
	if err != nil || !info.ModTime().After(srcMod) {
		return nil, false
	}
	dw, dh, err := probeDimensions(dst)
	if err != nil || dw != w || dh != h {
		return nil, false
	}
	return info, true
}

func probeDimensions(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

// writeAtomic encodes into a temp file beside dst and renames it into place
// so a failed encode never leaves a truncated output.
func writeAtomic(dst string, img image.Image, spec models.TransformSpec) (int64, error) {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, apperrors.NewIOError("cannot create output directory", err)
	}

	tmp, err := os.CreateTemp(dir, ".assetpipe-*")
	if err != nil {
		return 0, apperrors.NewIOError("cannot create temp file", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := Encode(tmp, img, spec.Format, spec.Quality); err != nil {
		tmp.Close()
		return 0, apperrors.NewEncodeError("encode failed", err).WithDetails(spec.Format)
	}
	if err := tmp.Close(); err != nil {
		return 0, apperrors.NewIOError("cannot flush output", err)
	}

	info, err := os.Stat(tmpName)
	if err != nil {
		return 0, apperrors.NewIOError("cannot stat output", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return 0, apperrors.NewIOError("cannot set output permissions", err)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		return 0, apperrors.NewIOError("cannot move output into place", err)
	}
	return info.Size(), nil
}
