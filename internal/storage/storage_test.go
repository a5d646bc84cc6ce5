package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/kyletbuzbee/Website-Templates-sub002/internal/errors"
)

func TestFileLoader_Load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fitness-hero-gym.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t, 8, 5), 0o644))

	decoded, err := NewFileLoader(0).Load(path)
	require.NoError(t, err)
	assert.Equal(t, "png", decoded.Format)
	assert.Equal(t, 8, decoded.Image.Bounds().Dx())
	assert.Positive(t, decoded.Size)
}

func TestFileLoader_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewFileLoader(0).Load(filepath.Join(dir, "missing.jpg"))
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))

	corrupt := filepath.Join(dir, "legal-hero-broken.jpg")
	require.NoError(t, os.WriteFile(corrupt, []byte{0xff, 0xd8, 0x00}, 0o644))
	_, err = NewFileLoader(0).Load(corrupt)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeDecode))

	big := filepath.Join(dir, "big.png")
	require.NoError(t, os.WriteFile(big, pngBytes(t, 32, 32), 0o644))
	_, err = NewFileLoader(10).Load(big)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestDecodeBytes_SVG(t *testing.T) {
	decoded, err := DecodeBytes([]byte(`<svg viewBox="0 0 10 10"><rect/></svg>`))
	require.NoError(t, err)
	assert.True(t, decoded.IsVector())
	assert.Nil(t, decoded.Image)
}

func TestBlobName(t *testing.T) {
	root := filepath.Join("site")
	local := filepath.Join("site", "fitness", "assets", "images", "fitness-hero-gym_hero.webp")

	name, err := BlobName(root, local, "")
	require.NoError(t, err)
	assert.Equal(t, "fitness/assets/images/fitness-hero-gym_hero.webp", name)

	name, err = BlobName(root, local, "/templates/")
	require.NoError(t, err)
	assert.Equal(t, "templates/fitness/assets/images/fitness-hero-gym_hero.webp", name)

	_, err = BlobName(root, filepath.Join("elsewhere", "a.webp"), "")
	assert.Error(t, err)
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "image/webp", ContentTypeFor("a_hero.webp"))
	assert.Equal(t, "image/png", ContentTypeFor("A.PNG"))
	assert.Equal(t, "image/jpeg", ContentTypeFor("a.jpg"))
	assert.Equal(t, "image/svg+xml", ContentTypeFor("icon.svg"))
	assert.Equal(t, "application/octet-stream", ContentTypeFor("blob"))
}

func TestNewAzurePublisher_InvalidKey(t *testing.T) {
	_, err := NewAzurePublisher("account", "%%% not base64 %%%", "assets")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestNoopPublisher(t *testing.T) {
	url, err := NewNoopPublisher().Publish(context.Background(), "a.webp", "a.webp")
	assert.NoError(t, err)
	assert.Empty(t, url)
}
