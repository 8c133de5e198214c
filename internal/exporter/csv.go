package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"himalcli/internal/analytics"
)

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // UTF-8 BOM for Excel compatibility
}

// WriteCSV writes headers and records to path, creating parent directories
func WriteCSV(path string, options WriteOptions) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	return writer.Error()
}

// WriteTopPeaksCSV exports the top climbed peaks ranking. Peaks without a
// display name keep an empty name cell.
func WriteTopPeaksCSV(path string, peaks []analytics.PeakCount) error {
	records := make([][]string, 0, len(peaks))
	for _, p := range peaks {
		name := ""
		if p.Name != nil {
			name = *p.Name
		}
		records = append(records, []string{p.PeakID, name, strconv.Itoa(p.Climbers)})
	}
	return WriteCSV(path, WriteOptions{
		Headers:   []string{"PeakID", "PeakName", "Climbers"},
		Records:   records,
		BOMPrefix: true,
	})
}

// WriteYearlyTrendCSV exports the long-form yearly series, one row per
// (year, metric) pair in the order the pipeline produced them.
func WriteYearlyTrendCSV(path string, series []analytics.TrendPoint) error {
	records := make([][]string, 0, len(series))
	for _, p := range series {
		records = append(records, []string{
			strconv.Itoa(p.Year), p.Metric, strconv.Itoa(p.Count),
		})
	}
	return WriteCSV(path, WriteOptions{
		Headers:   []string{"Year", "Metric", "Expeditions"},
		Records:   records,
		BOMPrefix: true,
	})
}
