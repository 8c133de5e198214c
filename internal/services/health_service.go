package services

import (
	"context"
	"path/filepath"
	"time"

	"himalcli/internal/config"
	"himalcli/internal/dataset"
)

// HealthStatus is the health endpoint payload
type HealthStatus struct {
	Status    string               `json:"status"`
	Version   string               `json:"version"`
	Timestamp time.Time            `json:"timestamp"`
	Uptime    string               `json:"uptime"`
	Dataset   DatasetHealth        `json:"dataset"`
	Checks    map[string]string    `json:"checks"`
	Cache     []dataset.CacheEntry `json:"cache,omitempty"`
}

// DatasetHealth reports whether the configured dataset directory resolves
// and which files are present.
type DatasetHealth struct {
	BasePath string          `json:"base_path"`
	Files    map[string]bool `json:"files"`
}

// HealthService reports service liveness and dataset availability
type HealthService struct {
	files    config.FilesConfig
	basePath string
	cache    *dataset.Cache
	started  time.Time
}

// NewHealthService creates the health service
func NewHealthService(files config.FilesConfig, basePath string, cache *dataset.Cache) *HealthService {
	return &HealthService{
		files:    files,
		basePath: basePath,
		cache:    cache,
		started:  time.Now(),
	}
}

// Check reports the current health. The service stays "healthy" with a
// degraded dataset check when files are missing: the process itself is up
// and a reload can recover it.
func (s *HealthService) Check(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Status:    "healthy",
		Version:   config.Version,
		Timestamp: time.Now(),
		Uptime:    time.Since(s.started).Round(time.Second).String(),
		Checks:    make(map[string]string),
	}

	files := make(map[string]bool, 5)
	for _, name := range []string{
		s.files.Expeditions,
		s.files.Members,
		s.files.Peaks,
		s.files.References,
		s.files.Dictionary,
	} {
		files[name] = config.FileExists(filepath.Join(s.basePath, name))
	}
	status.Dataset = DatasetHealth{BasePath: s.basePath, Files: files}

	allPresent := true
	for _, present := range files {
		if !present {
			allPresent = false
			break
		}
	}
	if allPresent {
		status.Checks["dataset_files"] = "ok"
	} else {
		status.Checks["dataset_files"] = "degraded"
		status.Status = "degraded"
	}

	if s.cache != nil {
		status.Cache = s.cache.Entries()
		status.Checks["dataset_cache"] = "ok"
	}

	return status
}
