package http

import (
	"context"

	"himalcli/internal/dataset"
	"himalcli/internal/services"
)

// DashboardServiceInterface is what the dashboard handler needs from the
// dashboard service. Kept as an interface for handler tests.
type DashboardServiceInterface interface {
	FilterDomains(ctx context.Context) (*services.FilterDomains, error)
	Snapshot(ctx context.Context, req services.SnapshotRequest) (*services.Snapshot, error)
	Analytics(ctx context.Context) (*services.AnalyticsReport, error)
	Preview(ctx context.Context, table string, rows int) (*services.TablePreview, error)
	Reload(ctx context.Context, basePath string) (*dataset.CacheEntry, error)
	BasePath() string
}

// HealthServiceInterface is what the health handler needs
type HealthServiceInterface interface {
	Check(ctx context.Context) *services.HealthStatus
}
