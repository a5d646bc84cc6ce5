package storage

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"

	apperrors "github.com/kyletbuzbee/Website-Templates-sub002/internal/errors"
)

// Publisher mirrors a processed asset to remote storage and returns its
// public URL.
type Publisher interface {
	Publish(ctx context.Context, localPath, blobName string) (string, error)
}

// BlobName maps a file under root to a forward-slash blob name with prefix.
func BlobName(root, localPath, prefix string) (string, error) {
	rel, err := filepath.Rel(root, localPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", apperrors.NewValidationError("asset is outside the asset root", err).WithDetails(localPath)
	}
	name := filepath.ToSlash(rel)
	if prefix != "" {
		name = path.Join(strings.Trim(prefix, "/"), name)
	}
	return name, nil
}

type azurePublisher struct {
	client    *azblob.Client
	container string
}

// NewAzurePublisher authenticates with a shared account key.
func NewAzurePublisher(accountName, accountKey, container string) (Publisher, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid Azure storage credentials", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net/", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, apperrors.NewInternalError("cannot create Azure blob client", err)
	}

	return &azurePublisher{client: client, container: container}, nil
}

func (p *azurePublisher) Publish(ctx context.Context, localPath, blobName string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", apperrors.NewIOError("cannot open asset for upload", err).WithDetails(localPath)
	}
	defer f.Close()

	contentType := ContentTypeFor(localPath)
	_, err = p.client.UploadFile(ctx, p.container, blobName, f, &azblob.UploadFileOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", apperrors.NewTimeoutError("upload cancelled", err).WithDetails(blobName)
		}
		return "", apperrors.NewNetworkError("upload failed", err).WithDetails(blobName)
	}

	return strings.TrimSuffix(p.client.URL(), "/") + "/" + p.container + "/" + blobName, nil
}

// ContentTypeFor guesses the MIME type from the file extension.
func ContentTypeFor(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

type noopPublisher struct{}

// NewNoopPublisher returns a Publisher that uploads nothing.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, string, string) (string, error) {
	return "", nil
}
