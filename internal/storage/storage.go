package storage

import (
	"fmt"
	"strings"

	"abstractdesk/internal/config"
	"abstractdesk/internal/port"
	"abstractdesk/internal/storage/minio"
	"abstractdesk/internal/storage/s3"
)

// Provider names accepted by storage.provider.
const (
	ProviderS3    = "s3"
	ProviderMinio = "minio"
)

// New builds the configured object storage backend.
func New(cfg *config.StorageConfig) (port.ObjectStorage, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderS3, "":
		return s3.NewS3Client(cfg)
	case ProviderMinio:
		return minio.NewMinioClient(cfg)
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}
