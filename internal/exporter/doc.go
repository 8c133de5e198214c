// Package exporter writes analytical outputs to report files: CSV exports
// of the top climbed peaks and the yearly trend series, and an xlsx summary
// workbook covering all five outputs.
package exporter
