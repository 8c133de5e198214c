package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"himalcli/internal/dataset"
)

func TestHealthService_AllFilesPresent(t *testing.T) {
	cfg := testDatasetConfig()
	dir := t.TempDir()
	writeTestArchive(t, dir)

	cache := dataset.NewCache(dataset.NewLoader(cfg, nil), nil)
	service := NewHealthService(cfg.Files, dir, cache)

	status := service.Check(context.Background())

	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "ok", status.Checks["dataset_files"])
	assert.Len(t, status.Dataset.Files, 5)
	for name, present := range status.Dataset.Files {
		assert.True(t, present, name)
	}
}

func TestHealthService_MissingFileDegrades(t *testing.T) {
	cfg := testDatasetConfig()
	dir := t.TempDir()
	writeTestArchive(t, dir)
	require.NoError(t, os.Remove(filepath.Join(dir, "peaks.csv")))

	service := NewHealthService(cfg.Files, dir, nil)

	status := service.Check(context.Background())

	assert.Equal(t, "degraded", status.Status)
	assert.Equal(t, "degraded", status.Checks["dataset_files"])
	assert.False(t, status.Dataset.Files["peaks.csv"])
}

func TestHealthService_ReportsCacheEntries(t *testing.T) {
	cfg := testDatasetConfig()
	dir := t.TempDir()
	writeTestArchive(t, dir)

	cache := dataset.NewCache(dataset.NewLoader(cfg, nil), nil)
	_, err := cache.Get(context.Background(), dir)
	require.NoError(t, err)

	service := NewHealthService(cfg.Files, dir, cache)
	status := service.Check(context.Background())

	require.Len(t, status.Cache, 1)
	assert.Equal(t, dir, status.Cache[0].BasePath)
}
