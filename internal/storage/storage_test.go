package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abstractdesk/internal/config"
	"abstractdesk/internal/storage"
)

func TestNew_UnknownProvider(t *testing.T) {
	_, err := storage.New(&config.StorageConfig{Provider: "ftp"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ftp")
}

func TestNew_Minio(t *testing.T) {
	store, err := storage.New(&config.StorageConfig{Provider: "MinIO", Endpoint: "localhost:9000"})
	require.NoError(t, err)
	assert.NotNil(t, store)
}
