package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"himalcli/internal/analytics"
	"himalcli/internal/config"
	"himalcli/internal/dataset"
	"himalcli/internal/exporter"
	"himalcli/internal/infrastructure"
	"himalcli/internal/services"
)

func main() {
	dir := flag.String("dir", "", "dataset directory containing the expedition CSV tables (defaults to data/himalaya relative to executable)")
	out := flag.String("out", "", "output directory for report files (defaults to data/reports)")
	flag.Parse()

	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}

	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = &config.Config{
			Logging: config.LoggingConfig{
				Level:    "info",
				Format:   "json",
				Output:   "both",
				FilePath: paths.GetLogPath("report.log"),
			},
		}
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	basePath := paths.ResolveDatasetDir(cfg.Dataset.Dir)
	if *dir != "" {
		basePath = *dir
	}

	topPeaksCSV := paths.TopPeaksCSV
	yearlyTrendCSV := paths.YearlyTrendCSV
	workbook := paths.SummaryWorkbook
	if *out != "" {
		if err := os.MkdirAll(*out, 0755); err != nil {
			logger.Error("Failed to create output directory", "error", err)
			os.Exit(1)
		}
		topPeaksCSV = filepath.Join(*out, "top_peaks.csv")
		yearlyTrendCSV = filepath.Join(*out, "yearly_trend.csv")
		workbook = filepath.Join(*out, "expedition_summary.xlsx")
	}

	logger.Info("Starting report generation",
		slog.String("dataset_dir", basePath),
		slog.String("workbook", workbook))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	loader := dataset.NewLoader(cfg.Dataset, logger)
	cache := dataset.NewCache(loader, logger)

	service := services.NewDashboardService(cfg.Dataset, basePath, cache, logger)
	report, err := service.Analytics(ctx)
	if err != nil {
		logger.Error("Failed to load dataset", "error", err)
		os.Exit(1)
	}

	failed := 0

	if report.TopPeaks.Error != nil {
		logger.Warn("Top peaks output unavailable", "error", report.TopPeaks.Error.Message)
		failed++
	} else if err := exporter.WriteTopPeaksCSV(topPeaksCSV, report.TopPeaks.Peaks); err != nil {
		logger.Error("Failed to write top peaks CSV", "error", err)
		failed++
	} else {
		logger.Info("Wrote top peaks CSV",
			slog.String("path", topPeaksCSV),
			slog.Int("rows", len(report.TopPeaks.Peaks)))
	}

	if report.YearlyTrend.Error != nil {
		logger.Warn("Yearly trend output unavailable", "error", report.YearlyTrend.Error.Message)
		failed++
	} else if err := exporter.WriteYearlyTrendCSV(yearlyTrendCSV, report.YearlyTrend.Series); err != nil {
		logger.Error("Failed to write yearly trend CSV", "error", err)
		failed++
	} else {
		logger.Info("Wrote yearly trend CSV",
			slog.String("path", yearlyTrendCSV),
			slog.Int("rows", len(report.YearlyTrend.Series)))
	}

	if err := exporter.WriteSummaryWorkbook(workbook, report); err != nil {
		logger.Error("Failed to write summary workbook", "error", err)
		failed++
	} else {
		logger.Info("Wrote summary workbook", slog.String("path", workbook))
	}

	if share := report.PeaksClimbed.Share; share != nil && share.State == analytics.StateOK {
		logger.Info("Peaks climbed share",
			slog.Int("climbed", share.ClimbedPeaks),
			slog.Int("total", share.TotalPeaks),
			slog.Float64("percent", share.Percent))
	}

	if failed > 0 {
		logger.Warn("Report generation finished with failures", slog.Int("failed_outputs", failed))
		os.Exit(1)
	}

	logger.Info("Report generation complete")
}
