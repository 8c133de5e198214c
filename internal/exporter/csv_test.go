package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"himalcli/internal/analytics"
)

func readBackCSV(t *testing.T, path string) [][]string {
	t.Helper()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})

	records, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteTopPeaksCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "top_peaks.csv")

	everest := "Mount Everest"
	peaks := []analytics.PeakCount{
		{PeakID: "EVER", Name: &everest, Climbers: 12},
		{PeakID: "XXXX", Name: nil, Climbers: 3},
	}

	require.NoError(t, WriteTopPeaksCSV(path, peaks))

	records := readBackCSV(t, path)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"PeakID", "PeakName", "Climbers"}, records[0])
	assert.Equal(t, []string{"EVER", "Mount Everest", "12"}, records[1])
	assert.Equal(t, []string{"XXXX", "", "3"}, records[2], "unmatched peak keeps an empty name cell")
}

func TestWriteTopPeaksCSV_HasBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "top_peaks.csv")
	require.NoError(t, WriteTopPeaksCSV(path, nil))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}))
}

func TestWriteYearlyTrendCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "yearly_trend.csv")

	series := []analytics.TrendPoint{
		{Year: 2019, Metric: analytics.MetricTotalExpeditions, Count: 5},
		{Year: 2019, Metric: analytics.MetricSuccessfulExpeditions, Count: 2},
	}

	require.NoError(t, WriteYearlyTrendCSV(path, series))

	records := readBackCSV(t, path)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Year", "Metric", "Expeditions"}, records[0])
	assert.Equal(t, []string{"2019", "total_expeditions", "5"}, records[1])
	assert.Equal(t, []string{"2019", "successful_expeditions", "2"}, records[2])
}

func TestWriteCSV_CreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "out.csv")

	err := WriteCSV(path, WriteOptions{Headers: []string{"x"}})
	require.NoError(t, err)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}
