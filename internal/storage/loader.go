// Package storage reads source images from disk or HTTP and mirrors
// processed assets to blob storage.
package storage

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strings"

	_ "golang.org/x/image/webp"

	apperrors "github.com/kyletbuzbee/Website-Templates-sub002/internal/errors"
)

// sniffLen is how much of a payload is inspected for an SVG root element.
const sniffLen = 1024

// DecodedImage is a source image ready for metric calculation. Image is nil
// for SVG input, which is classified without rasterizing.
type DecodedImage struct {
	Image  image.Image
	Format string
	Size   int64
}

// IsVector reports whether the source was an SVG document.
func (d DecodedImage) IsVector() bool {
	return d.Format == "svg"
}

// ImageLoader reads an image from the local filesystem.
type ImageLoader interface {
	Load(path string) (DecodedImage, error)
}

type fileLoader struct {
	maxBytes int64
}

// NewFileLoader returns a loader that refuses files larger than maxBytes.
// Zero means no limit.
func NewFileLoader(maxBytes int64) ImageLoader {
	return &fileLoader{maxBytes: maxBytes}
}

func (l *fileLoader) Load(path string) (DecodedImage, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DecodedImage{}, apperrors.NewNotFoundError("image not found", err).WithDetails(path)
		}
		return DecodedImage{}, apperrors.NewIOError("cannot open image", err).WithDetails(path)
	}
	defer f.Close()

	var r io.Reader = f
	if l.maxBytes > 0 {
		r = io.LimitReader(f, l.maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return DecodedImage{}, apperrors.NewIOError("cannot read image", err).WithDetails(path)
	}
	if l.maxBytes > 0 && int64(len(data)) > l.maxBytes {
		return DecodedImage{}, apperrors.NewValidationError("image exceeds size limit", nil).WithDetails(path)
	}
	return DecodeBytes(data)
}

// DecodeBytes decodes a raster image or recognizes an SVG document.
func DecodeBytes(data []byte) (DecodedImage, error) {
	if looksLikeSVG(data) {
		return DecodedImage{Format: "svg", Size: int64(len(data))}, nil
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return DecodedImage{}, apperrors.NewDecodeError("failed to decode image", err)
	}
	return DecodedImage{Image: img, Format: format, Size: int64(len(data))}, nil
}

func looksLikeSVG(data []byte) bool {
	head := data
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	s := strings.ToLower(string(head))
	return strings.Contains(s, "<svg")
}
