package factory

import (
	"context"
	"testing"

	"github.com/kyletbuzbee/Website-Templates-sub002/internal/config"
)

func TestPublisherTypeFor(t *testing.T) {
	if got := PublisherTypeFor(config.AzureConfig{}); got != NoPublisher {
		t.Errorf("empty credentials: got %s", got)
	}
	full := config.AzureConfig{Account: "a", Key: "k", Container: "c"}
	if got := PublisherTypeFor(full); got != AzurePublisher {
		t.Errorf("full credentials: got %s", got)
	}
}

func TestCreatePublisher(t *testing.T) {
	tests := []struct {
		name    string
		azure   config.AzureConfig
		kind    PublisherType
		wantErr bool
	}{
		{"noop", config.AzureConfig{}, NoPublisher, false},
		{"azure without credentials", config.AzureConfig{}, AzurePublisher, true},
		{"azure with bad key", config.AzureConfig{Account: "a", Key: "%%%", Container: "c"}, AzurePublisher, true},
		{"unknown", config.AzureConfig{}, PublisherType("s3"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPublisherFactory(tt.azure).CreatePublisher(tt.kind)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				if _, err := p.Publish(context.Background(), "a.webp", "a.webp"); err != nil {
					t.Errorf("noop publish: %v", err)
				}
			}
		})
	}
}
