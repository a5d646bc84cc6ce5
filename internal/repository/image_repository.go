package repository

import (
	"context"

	"github.com/kyletbuzbee/Website-Templates-sub002/internal/storage"
	"github.com/kyletbuzbee/Website-Templates-sub002/pkg/validation"
)

// imageRepository combines the local loader, the HTTP fetcher and URL
// validation behind one interface.
type imageRepository struct {
	loader    storage.ImageLoader
	fetcher   storage.ImageFetcher
	validator *validation.URLValidator
}

// NewImageRepository creates a new image repository. fetcher may be nil
// for callers that only read local files.
func NewImageRepository(loader storage.ImageLoader, fetcher storage.ImageFetcher, validator *validation.URLValidator) ImageRepository {
	if validator == nil {
		validator = validation.NewURLValidator()
	}
	return &imageRepository{
		loader:    loader,
		fetcher:   fetcher,
		validator: validator,
	}
}

// LoadFile reads and decodes an image from the local filesystem
func (r *imageRepository) LoadFile(path string) (storage.DecodedImage, error) {
	return r.loader.Load(path)
}

// FetchImage validates imageURL and downloads it
func (r *imageRepository) FetchImage(ctx context.Context, imageURL string) (storage.DecodedImage, error) {
	if err := r.ValidateImageURL(imageURL); err != nil {
		return storage.DecodedImage{}, err
	}
	if r.fetcher == nil {
		return storage.DecodedImage{}, errNoFetcher
	}
	return r.fetcher.FetchImage(ctx, imageURL)
}

// DecodeUpload decodes an image received in a request body
func (r *imageRepository) DecodeUpload(data []byte) (storage.DecodedImage, error) {
	return storage.DecodeBytes(data)
}

// ValidateImageURL validates if the provided URL is acceptable
func (r *imageRepository) ValidateImageURL(imageURL string) error {
	return r.validator.ValidateImageURL(imageURL)
}
