package utils

import (
	"context"
	"io"
	"os"
	"strings"
)

const (
	StorageProviderLocal = "local"
	StorageProviderGCS   = "gcs"
)

// ObjectStorage stores attachment objects. Keys are slash-separated paths
// scoped per user by the caller.
type ObjectStorage interface {
	Save(ctx context.Context, objectKey string, data []byte, contentType string) error
	Open(ctx context.Context, objectKey string) (io.ReadCloser, error)
	Delete(ctx context.Context, objectKey string) error
}

func GetStorageProvider() string {
	provider := strings.TrimSpace(strings.ToLower(os.Getenv("STORAGE_PROVIDER")))
	if provider == "" {
		return StorageProviderLocal
	}
	return provider
}

// GetStorage returns the configured attachment store. Local disk is the
// default; gcs is used on Cloud Run.
func GetStorage() ObjectStorage {
	if GetStorageProvider() == StorageProviderGCS {
		return &gcsStorage{}
	}
	return &localStorage{dir: uploadDir()}
}

func uploadDir() string {
	dir := strings.TrimSpace(os.Getenv("UPLOAD_DIR"))
	if dir == "" {
		dir = "uploads"
	}
	return dir
}
