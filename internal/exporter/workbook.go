package exporter

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"himalcli/internal/analytics"
	"himalcli/internal/services"
)

// Sheet names of the summary workbook
const (
	SheetOverview    = "Overview"
	SheetTopPeaks    = "Top Peaks"
	SheetYearlyTrend = "Yearly Trend"
)

// WriteSummaryWorkbook writes the analytical outputs of a report into one
// xlsx workbook, a sheet per output family. Failed outputs get their error
// message written in place of data so the workbook shows what a degraded
// dashboard would.
func WriteSummaryWorkbook(path string, report *services.AnalyticsReport) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeOverviewSheet(f, report); err != nil {
		return err
	}
	if err := writeTopPeaksSheet(f, report.TopPeaks); err != nil {
		return err
	}
	if err := writeTrendSheet(f, report.YearlyTrend); err != nil {
		return err
	}

	// Drop the default sheet excelize creates
	f.DeleteSheet("Sheet1")

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeOverviewSheet(f *excelize.File, report *services.AnalyticsReport) error {
	if _, err := f.NewSheet(SheetOverview); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", SheetOverview, err)
	}

	rows := [][]interface{}{
		{"Metric", "Value", "Detail"},
	}

	if share := report.PeaksClimbed.Share; share != nil {
		detail := fmt.Sprintf("%d of %d peaks", share.ClimbedPeaks, share.TotalPeaks)
		value := share.State
		if share.State == analytics.StateOK {
			value = fmt.Sprintf("%.2f%%", share.Percent)
		}
		rows = append(rows, []interface{}{"Peaks climbed", value, detail})
	} else if report.PeaksClimbed.Error != nil {
		rows = append(rows, []interface{}{"Peaks climbed", "error", report.PeaksClimbed.Error.Message})
	}

	if climber := report.MostSuccessfulClimber.Climber; climber != nil {
		if climber.State == analytics.StateOK {
			rows = append(rows, []interface{}{"Most successful climber", climber.Name, strconv.Itoa(climber.Ascents) + " ascents"})
		} else {
			rows = append(rows, []interface{}{"Most successful climber", climber.State, climber.Reason})
		}
	} else if report.MostSuccessfulClimber.Error != nil {
		rows = append(rows, []interface{}{"Most successful climber", "error", report.MostSuccessfulClimber.Error.Message})
	}

	if count := report.EverestClimbers.Count; count != nil {
		if count.State == analytics.StateOK {
			rows = append(rows, []interface{}{"Everest climbers", count.Climbers, fmt.Sprintf("%d matching peaks", len(count.PeakIDs))})
		} else {
			rows = append(rows, []interface{}{"Everest climbers", count.State, count.Reason})
		}
	} else if report.EverestClimbers.Error != nil {
		rows = append(rows, []interface{}{"Everest climbers", "error", report.EverestClimbers.Error.Message})
	}

	return writeRows(f, SheetOverview, rows)
}

func writeTopPeaksSheet(f *excelize.File, output services.TopPeaksOutput) error {
	if _, err := f.NewSheet(SheetTopPeaks); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", SheetTopPeaks, err)
	}

	rows := [][]interface{}{
		{"PeakID", "PeakName", "Climbers"},
	}
	if output.Error != nil {
		rows = append(rows, []interface{}{"error", output.Error.Message, ""})
	}
	for _, p := range output.Peaks {
		name := ""
		if p.Name != nil {
			name = *p.Name
		}
		rows = append(rows, []interface{}{p.PeakID, name, p.Climbers})
	}

	return writeRows(f, SheetTopPeaks, rows)
}

func writeTrendSheet(f *excelize.File, output services.TrendOutput) error {
	if _, err := f.NewSheet(SheetYearlyTrend); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", SheetYearlyTrend, err)
	}

	rows := [][]interface{}{
		{"Year", "Metric", "Expeditions"},
	}
	if output.Error != nil {
		rows = append(rows, []interface{}{"error", output.Error.Message, ""})
	}
	for _, p := range output.Series {
		rows = append(rows, []interface{}{p.Year, p.Metric, p.Count})
	}

	return writeRows(f, SheetYearlyTrend, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to compute cell for row %d: %w", i, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i, sheet, err)
		}
	}
	return nil
}
