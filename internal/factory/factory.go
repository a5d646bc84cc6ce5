package factory

import (
	"fmt"

	"github.com/kyletbuzbee/Website-Templates-sub002/internal/config"
	"github.com/kyletbuzbee/Website-Templates-sub002/internal/storage"
)

// PublisherType selects where processed assets are mirrored.
type PublisherType string

const (
	// NoPublisher keeps assets local only.
	NoPublisher PublisherType = "none"
	// AzurePublisher uploads to Azure Blob Storage.
	AzurePublisher PublisherType = "azure"
)

// PublisherFactory creates publishers
type PublisherFactory interface {
	CreatePublisher(publisherType PublisherType) (storage.Publisher, error)
}

type publisherFactory struct {
	azure config.AzureConfig
}

// NewPublisherFactory creates a factory backed by the given credentials.
func NewPublisherFactory(azure config.AzureConfig) PublisherFactory {
	return &publisherFactory{azure: azure}
}

// CreatePublisher creates a publisher based on the specified type
func (f *publisherFactory) CreatePublisher(publisherType PublisherType) (storage.Publisher, error) {
	switch publisherType {
	case NoPublisher:
		return storage.NewNoopPublisher(), nil
	case AzurePublisher:
		if !f.azure.Enabled() {
			return nil, fmt.Errorf("azure publisher needs account, key and container")
		}
		return storage.NewAzurePublisher(f.azure.Account, f.azure.Key, f.azure.Container)
	default:
		return nil, fmt.Errorf("unsupported publisher type: %s", publisherType)
	}
}

// PublisherTypeFor picks Azure when credentials are configured.
func PublisherTypeFor(azure config.AzureConfig) PublisherType {
	if azure.Enabled() {
		return AzurePublisher
	}
	return NoPublisher
}
