package transform

import (
	"image"
	"io"
	"os"

	"github.com/rwcarlsen/goexif/exif"
)

// sourceDimensions returns the size of the image at path as displayed.
// JPEG sources with an EXIF orientation of 5 to 8 are stored rotated a
// quarter turn, so width and height are swapped to match the decode in
// Process.
func sourceDimensions(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	if format != "jpeg" {
		return cfg.Width, cfg.Height, nil
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return 0, 0, err
	}
	if o := exifOrientation(f); o >= 5 && o <= 8 {
		return cfg.Height, cfg.Width, nil
	}
	return cfg.Width, cfg.Height, nil
}

// exifOrientation reads the orientation tag, defaulting to 1 (upright)
// when the file has no usable EXIF data.
func exifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	o, err := tag.Int(0)
	if err != nil || o < 1 || o > 8 {
		return 1
	}
	return o
}
