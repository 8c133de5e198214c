package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"himalcli/internal/analytics"
	"himalcli/internal/config"
	"himalcli/internal/dataset"
	apperrors "himalcli/internal/errors"
	"himalcli/internal/infrastructure"
)

// ReloadNotifier is told when a dataset is reloaded so connected dashboard
// clients can refresh. The websocket hub implements it.
type ReloadNotifier interface {
	NotifyDatasetReloaded(basePath string)
}

// FilterDomains holds the selectable filter values. The default year is the
// most recent one; the default nationality is the first in sort order.
type FilterDomains struct {
	Years              []int    `json:"years"`
	Nationalities      []string `json:"nationalities"`
	DefaultYear        int      `json:"default_year,omitempty"`
	DefaultNationality string   `json:"default_nationality,omitempty"`
}

// Selection is the validated filter selection a snapshot was built for
type Selection struct {
	Year        int    `json:"year,omitempty"`
	Nationality string `json:"nationality,omitempty"`
}

// TablePreview is the head of one table as shown in the preview panes.
// Filtered previews report the pre-truncation row count of the view.
type TablePreview struct {
	Table     string     `json:"table"`
	Columns   []string   `json:"columns"`
	Rows      [][]string `json:"rows"`
	TotalRows int        `json:"total_rows"`
	Filtered  bool       `json:"filtered"`
}

// OutputError is the soft-failure record attached to a single analytical
// output. Failures never cross output boundaries.
type OutputError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// TopPeaksOutput carries the top climbed peaks ranking or its failure
type TopPeaksOutput struct {
	Peaks []analytics.PeakCount `json:"peaks,omitempty"`
	Error *OutputError          `json:"error,omitempty"`
}

// ShareOutput carries the peaks-climbed percentage or its failure
type ShareOutput struct {
	Share *analytics.ClimbedShare `json:"share,omitempty"`
	Error *OutputError            `json:"error,omitempty"`
}

// ClimberOutput carries the most successful climber or its failure
type ClimberOutput struct {
	Climber *analytics.TopClimber `json:"climber,omitempty"`
	Error   *OutputError          `json:"error,omitempty"`
}

// TrendOutput carries the long-form yearly series or its failure
type TrendOutput struct {
	Series []analytics.TrendPoint `json:"series,omitempty"`
	Error  *OutputError           `json:"error,omitempty"`
}

// EverestOutput carries the Everest successful-climber count or its failure
type EverestOutput struct {
	Count *analytics.EverestCount `json:"count,omitempty"`
	Error *OutputError            `json:"error,omitempty"`
}

// AnalyticsReport bundles the five analytical outputs
type AnalyticsReport struct {
	TopPeaks              TopPeaksOutput `json:"top_peaks"`
	PeaksClimbed          ShareOutput    `json:"peaks_climbed"`
	MostSuccessfulClimber ClimberOutput  `json:"most_successful_climber"`
	YearlyTrend           TrendOutput    `json:"yearly_trend"`
	EverestClimbers       EverestOutput  `json:"everest_climbers"`
}

// Snapshot is everything the dashboard renders for one filter selection.
// Analytical outputs and dimensions always cover the full tables; the
// selection shapes only the expedition and member previews.
type Snapshot struct {
	GeneratedAt time.Time                  `json:"generated_at"`
	BasePath    string                     `json:"base_path"`
	Filters     FilterDomains              `json:"filters"`
	Selection   Selection                  `json:"selection"`
	Previews    map[string]TablePreview    `json:"previews"`
	Dimensions  map[string]analytics.Shape `json:"dimensions"`
	Analytics   AnalyticsReport            `json:"analytics"`
}

// SnapshotRequest selects what a snapshot is built for. Nil year/nationality
// mean the domain defaults; an empty base path means the configured dataset
// directory.
type SnapshotRequest struct {
	Year        *int
	Nationality *string
	BasePath    string
}

// DashboardService builds dashboard snapshots from the cached dataset
type DashboardService struct {
	cache       *dataset.Cache
	basePath    string
	previewRows int
	topPeaks    int
	logger      *slog.Logger
	metrics     *infrastructure.DashboardMetrics
	notifier    ReloadNotifier
}

// NewDashboardService creates the dashboard service
func NewDashboardService(cfg config.DatasetConfig, basePath string, cache *dataset.Cache, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		cache:       cache,
		basePath:    basePath,
		previewRows: cfg.PreviewRows,
		topPeaks:    cfg.TopPeaks,
		logger:      logger.With(slog.String("component", "dashboard_service")),
	}
}

// SetMetrics attaches the metric instruments; nil metrics are skipped
func (s *DashboardService) SetMetrics(m *infrastructure.DashboardMetrics) {
	s.metrics = m
}

// SetReloadNotifier attaches the reload notifier
func (s *DashboardService) SetReloadNotifier(n ReloadNotifier) {
	s.notifier = n
}

// BasePath returns the configured dataset directory
func (s *DashboardService) BasePath() string {
	return s.basePath
}

// FilterDomains returns the selectable years and nationalities
func (s *DashboardService) FilterDomains(ctx context.Context) (*FilterDomains, error) {
	ds, err := s.cache.Get(ctx, s.basePath)
	if err != nil {
		return nil, err
	}
	return s.filterDomains(ctx, ds), nil
}

func (s *DashboardService) filterDomains(ctx context.Context, ds *dataset.Dataset) *FilterDomains {
	domains := &FilterDomains{}

	years, err := analytics.Years(ds)
	if err != nil {
		s.logger.WarnContext(ctx, "year domain unavailable", slog.String("error", err.Error()))
	} else {
		domains.Years = years
		if len(years) > 0 {
			domains.DefaultYear = years[0]
		}
	}

	nationalities, err := analytics.Nationalities(ds)
	if err != nil {
		s.logger.WarnContext(ctx, "nationality domain unavailable", slog.String("error", err.Error()))
	} else {
		domains.Nationalities = nationalities
		if len(nationalities) > 0 {
			domains.DefaultNationality = nationalities[0]
		}
	}

	return domains
}

// Snapshot builds the full dashboard snapshot for one filter selection.
// A failed dataset load aborts the snapshot; failures inside a single
// analytical output do not.
func (s *DashboardService) Snapshot(ctx context.Context, req SnapshotRequest) (*Snapshot, error) {
	start := time.Now()

	basePath := req.BasePath
	if basePath == "" {
		basePath = s.basePath
	}

	ds, err := s.cache.Get(ctx, basePath)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	domains := s.filterDomains(ctx, ds)

	selection, err := s.resolveSelection(req, domains)
	if err != nil {
		return nil, err
	}

	snapshot := &Snapshot{
		GeneratedAt: time.Now(),
		BasePath:    basePath,
		Filters:     *domains,
		Selection:   selection,
		Previews:    s.buildPreviews(ctx, ds, selection),
		Dimensions:  analytics.Dimensions(ds),
		Analytics:   s.buildAnalytics(ctx, ds),
	}

	if s.metrics != nil {
		s.metrics.SnapshotBuildsTotal.Add(ctx, 1)
		s.metrics.SnapshotBuildDuration.Record(ctx, time.Since(start).Seconds())
	}

	s.logger.InfoContext(ctx, "dashboard snapshot built",
		slog.Int("year", selection.Year),
		slog.String("nationality", selection.Nationality),
		slog.Duration("elapsed", time.Since(start)))

	return snapshot, nil
}

// resolveSelection validates the requested filters against the domains and
// fills in defaults. A selection outside its domain is a validation error,
// not an empty dashboard.
func (s *DashboardService) resolveSelection(req SnapshotRequest, domains *FilterDomains) (Selection, error) {
	sel := Selection{
		Year:        domains.DefaultYear,
		Nationality: domains.DefaultNationality,
	}

	if req.Year != nil {
		if !containsInt(domains.Years, *req.Year) {
			return Selection{}, apperrors.NewAppValidationError(
				"selected year is not present in the expedition table").
				WithContext("year", *req.Year)
		}
		sel.Year = *req.Year
	}

	if req.Nationality != nil {
		if !containsString(domains.Nationalities, *req.Nationality) {
			return Selection{}, apperrors.NewAppValidationError(
				"selected nationality is not present in the member table").
				WithContext("nationality", *req.Nationality)
		}
		sel.Nationality = *req.Nationality
	}

	return sel, nil
}

// buildPreviews assembles the five preview panes. Expedition and member
// previews honor the selection; the rest are unfiltered.
func (s *DashboardService) buildPreviews(ctx context.Context, ds *dataset.Dataset, sel Selection) map[string]TablePreview {
	previews := make(map[string]TablePreview, 5)

	expedView, err := analytics.ExpeditionsByYear(ds, sel.Year)
	if err != nil {
		expedView = ds.Expeditions
		s.logger.WarnContext(ctx, "expedition preview unfiltered",
			slog.String("error", err.Error()))
		previews[dataset.TableExpeditions] = makePreview(expedView, false, s.previewRows)
	} else {
		previews[dataset.TableExpeditions] = makePreview(expedView, true, s.previewRows)
	}

	memberView, err := analytics.MembersByNationality(ds, sel.Nationality)
	if err != nil {
		memberView = ds.Members
		s.logger.WarnContext(ctx, "member preview unfiltered",
			slog.String("error", err.Error()))
		previews[dataset.TableMembers] = makePreview(memberView, false, s.previewRows)
	} else {
		previews[dataset.TableMembers] = makePreview(memberView, true, s.previewRows)
	}

	previews[dataset.TablePeaks] = makePreview(ds.Peaks, false, s.previewRows)
	previews[dataset.TableReferences] = makePreview(ds.References, false, s.previewRows)
	previews[dataset.TableDictionary] = makePreview(ds.Dictionary, false, s.previewRows)

	return previews
}

// buildAnalytics runs the five operations, capturing each failure in its own
// output so the other four keep their results.
func (s *DashboardService) buildAnalytics(ctx context.Context, ds *dataset.Dataset) AnalyticsReport {
	var report AnalyticsReport

	if peaks, err := analytics.TopClimbedPeaks(ds, s.topPeaks); err != nil {
		report.TopPeaks.Error = s.outputError(ctx, "top_peaks", err)
	} else {
		report.TopPeaks.Peaks = peaks
	}

	if share, err := analytics.PeaksClimbedShare(ds); err != nil {
		report.PeaksClimbed.Error = s.outputError(ctx, "peaks_climbed", err)
	} else {
		report.PeaksClimbed.Share = share
	}

	if climber, err := analytics.MostSuccessfulClimber(ds); err != nil {
		report.MostSuccessfulClimber.Error = s.outputError(ctx, "most_successful_climber", err)
	} else {
		report.MostSuccessfulClimber.Climber = climber
	}

	if series, err := analytics.YearlyTrend(ds); err != nil {
		report.YearlyTrend.Error = s.outputError(ctx, "yearly_trend", err)
	} else {
		report.YearlyTrend.Series = series
	}

	if count, err := analytics.EverestClimbers(ds); err != nil {
		report.EverestClimbers.Error = s.outputError(ctx, "everest_climbers", err)
	} else {
		report.EverestClimbers.Count = count
	}

	return report
}

// outputError records a single-output failure and maps it onto the wire form
func (s *DashboardService) outputError(ctx context.Context, output string, err error) *OutputError {
	s.logger.WarnContext(ctx, "analytical output failed",
		slog.String("output", output),
		slog.String("error", err.Error()))

	if s.metrics != nil {
		s.metrics.AnalyticsErrors.Add(ctx, 1)
	}

	code := "INTERNAL"
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		code = string(appErr.Type)
	}
	return &OutputError{Code: code, Message: err.Error()}
}

// Analytics runs the pipeline without previews or selection handling
func (s *DashboardService) Analytics(ctx context.Context) (*AnalyticsReport, error) {
	ds, err := s.cache.Get(ctx, s.basePath)
	if err != nil {
		return nil, err
	}
	report := s.buildAnalytics(ctx, ds)
	return &report, nil
}

// Preview returns the head of one named table, unfiltered
func (s *DashboardService) Preview(ctx context.Context, table string, rows int) (*TablePreview, error) {
	ds, err := s.cache.Get(ctx, s.basePath)
	if err != nil {
		return nil, err
	}

	t := ds.Table(table)
	if t == nil {
		return nil, apperrors.NewNotFoundError("dataset table " + table)
	}

	if rows <= 0 {
		rows = s.previewRows
	}
	preview := makePreview(t, false, rows)
	return &preview, nil
}

// Reload drops the cache entry for the base path and loads it again,
// notifying connected dashboard clients on success.
func (s *DashboardService) Reload(ctx context.Context, basePath string) (*dataset.CacheEntry, error) {
	if basePath == "" {
		basePath = s.basePath
	}

	s.cache.Invalidate(basePath)

	ds, err := s.cache.Get(ctx, basePath)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyDatasetReloaded(basePath)
	}

	return &dataset.CacheEntry{
		BasePath:    basePath,
		LoadedAt:    ds.LoadedAt,
		Expeditions: ds.Expeditions.RowCount(),
		Members:     ds.Members.RowCount(),
		Peaks:       ds.Peaks.RowCount(),
	}, nil
}

// CacheEntries exposes the loader cache contents for health reporting
func (s *DashboardService) CacheEntries() []dataset.CacheEntry {
	return s.cache.Entries()
}

// makePreview copies the head rows of a table into the wire form
func makePreview(t *dataset.Table, filtered bool, rows int) TablePreview {
	head := t.Head(rows)
	copied := make([][]string, head.RowCount())
	for i := range copied {
		row := make([]string, len(head.Rows[i]))
		copy(row, head.Rows[i])
		copied[i] = row
	}
	return TablePreview{
		Table:     t.Name,
		Columns:   t.Columns,
		Rows:      copied,
		TotalRows: t.RowCount(),
		Filtered:  filtered,
	}
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func containsString(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
