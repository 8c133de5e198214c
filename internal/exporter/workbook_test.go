package exporter

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"himalcli/internal/analytics"
	"himalcli/internal/services"
)

func sampleReport() *services.AnalyticsReport {
	everest := "Mount Everest"
	return &services.AnalyticsReport{
		TopPeaks: services.TopPeaksOutput{
			Peaks: []analytics.PeakCount{
				{PeakID: "EVER", Name: &everest, Climbers: 12},
			},
		},
		PeaksClimbed: services.ShareOutput{
			Share: &analytics.ClimbedShare{
				State: analytics.StateOK, ClimbedPeaks: 3, TotalPeaks: 4, Percent: 75,
			},
		},
		MostSuccessfulClimber: services.ClimberOutput{
			Climber: &analytics.TopClimber{State: analytics.StateOK, Name: "Alice", Ascents: 2},
		},
		YearlyTrend: services.TrendOutput{
			Series: []analytics.TrendPoint{
				{Year: 2019, Metric: analytics.MetricTotalExpeditions, Count: 5},
			},
		},
		EverestClimbers: services.EverestOutput{
			Count: &analytics.EverestCount{State: analytics.StateOK, Climbers: 2, PeakIDs: []string{"EVER"}},
		},
	}
}

func TestWriteSummaryWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "summary.xlsx")

	require.NoError(t, WriteSummaryWorkbook(path, sampleReport()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, SheetOverview)
	assert.Contains(t, sheets, SheetTopPeaks)
	assert.Contains(t, sheets, SheetYearlyTrend)
	assert.NotContains(t, sheets, "Sheet1")

	rows, err := f.GetRows(SheetTopPeaks)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 2)
	assert.Equal(t, []string{"PeakID", "PeakName", "Climbers"}, rows[0])
	assert.Equal(t, "EVER", rows[1][0])
	assert.Equal(t, "Mount Everest", rows[1][1])
}

func TestWriteSummaryWorkbook_FailedOutputWritesErrorRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.xlsx")

	report := sampleReport()
	report.TopPeaks = services.TopPeaksOutput{
		Error: &services.OutputError{Code: "SCHEMA", Message: "declared column missing"},
	}

	require.NoError(t, WriteSummaryWorkbook(path, report))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetTopPeaks)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 2)
	assert.Equal(t, "error", rows[1][0])
	assert.Equal(t, "declared column missing", rows[1][1])
}

func TestWriteSummaryWorkbook_OverviewValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.xlsx")

	require.NoError(t, WriteSummaryWorkbook(path, sampleReport()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetOverview)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 4)

	assert.Equal(t, "Peaks climbed", rows[1][0])
	assert.Equal(t, "75.00%", rows[1][1])
	assert.Equal(t, "Most successful climber", rows[2][0])
	assert.Equal(t, "Alice", rows[2][1])
}
