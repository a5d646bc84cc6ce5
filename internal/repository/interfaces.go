package repository

import (
	"context"

	"github.com/kyletbuzbee/Website-Templates-sub002/internal/storage"
)

// ImageRepository defines the interface for image data access operations
type ImageRepository interface {
	// LoadFile reads and decodes an image from the local filesystem
	LoadFile(path string) (storage.DecodedImage, error)

	// FetchImage downloads and decodes an image from a URL
	FetchImage(ctx context.Context, imageURL string) (storage.DecodedImage, error)

	// DecodeUpload decodes an image received in a request body
	DecodeUpload(data []byte) (storage.DecodedImage, error)

	// ValidateImageURL validates if the provided URL is acceptable
	ValidateImageURL(imageURL string) error
}
