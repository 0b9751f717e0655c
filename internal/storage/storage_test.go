package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/01moynul/inventario-golang/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveBackend(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want Backend
	}{
		{"nothing configured", config.Config{}, BackendLocal},
		{"sheet id without credentials", config.Config{SheetID: "abc"}, BackendLocal},
		{"credentials without sheet id", config.Config{GoogleCredentialsJSON: "{}"}, BackendLocal},
		{"credentials and sheet id", config.Config{SheetID: "abc", GoogleCredentialsFile: "sa.json"}, BackendRemote},
		{"explicit csv wins", config.Config{StorageBackend: "csv", SheetID: "abc", GoogleCredentialsJSON: "{}"}, BackendLocal},
		{"explicit mysql", config.Config{StorageBackend: "mysql"}, BackendDatabase},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveBackend(tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ResolveBackend(config.Config{StorageBackend: "postgres"})
	assert.Error(t, err)
}

func TestOpen_RemoteFallsBackToLocal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventario.csv")
	cfg := config.Config{
		SheetID:               "abc",
		GoogleCredentialsJSON: "not json",
		Worksheet:             "Inventario",
		CSVPath:               path,
	}

	s, err := Open(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, BackendLocal, s.Backend())
	assert.Equal(t, path, s.(*CSVStore).Path())
}

func TestOpen_DatabaseWithoutDSNFallsBack(t *testing.T) {
	cfg := config.Config{StorageBackend: "mysql", CSVPath: filepath.Join(t.TempDir(), "inventario.csv")}

	s, err := Open(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, BackendLocal, s.Backend())
}

func TestBackendString(t *testing.T) {
	assert.Equal(t, "Google Sheets", BackendRemote.String())
	assert.Equal(t, "Archivo CSV local", BackendLocal.String())
	assert.Equal(t, "MySQL", BackendDatabase.String())
}
