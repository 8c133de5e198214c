package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"himalcli/internal/config"
	apperrors "himalcli/internal/errors"
)

// Dataset holds the five loaded tables plus the schema resolved against them.
// A dataset is immutable once published; filtered views are fresh tables.
type Dataset struct {
	BasePath    string
	Expeditions *Table
	Members     *Table
	Peaks       *Table
	References  *Table
	Dictionary  *Table
	Schema      *ResolvedSchema
	LoadedAt    time.Time
}

// Table returns the named table, or nil for an unknown name
func (d *Dataset) Table(name string) *Table {
	switch name {
	case TableExpeditions:
		return d.Expeditions
	case TableMembers:
		return d.Members
	case TablePeaks:
		return d.Peaks
	case TableReferences:
		return d.References
	case TableDictionary:
		return d.Dictionary
	}
	return nil
}

// Loader reads the five-table expedition archive from a base directory.
type Loader struct {
	files  config.FilesConfig
	schema config.SchemaConfig
	logger *slog.Logger
}

// NewLoader creates a loader for the configured file names and schema
func NewLoader(cfg config.DatasetConfig, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		files:  cfg.Files,
		schema: cfg.Schema,
		logger: logger.With(slog.String("component", "dataset_loader")),
	}
}

// Load reads the five tables from basePath, trims column names, resolves the
// declared schema and applies the missing-value defaults. Any unreadable or
// malformed file is a load error and no dataset is returned.
func (l *Loader) Load(ctx context.Context, basePath string) (*Dataset, error) {
	start := time.Now()
	l.logger.InfoContext(ctx, "loading expedition dataset",
		slog.String("base_path", basePath))

	exped, err := l.readTable(ctx, basePath, l.files.Expeditions, TableExpeditions, nil)
	if err != nil {
		return nil, err
	}
	members, err := l.readTable(ctx, basePath, l.files.Members, TableMembers, nil)
	if err != nil {
		return nil, err
	}
	peaks, err := l.readTable(ctx, basePath, l.files.Peaks, TablePeaks, nil)
	if err != nil {
		return nil, err
	}
	// The references file predates the archive's move to UTF-8 and is still
	// distributed in the Windows-1252 code page.
	refer, err := l.readTable(ctx, basePath, l.files.References, TableReferences, charmap.Windows1252)
	if err != nil {
		return nil, err
	}
	dict, err := l.readTable(ctx, basePath, l.files.Dictionary, TableDictionary, nil)
	if err != nil {
		return nil, err
	}

	schema := ResolveSchema(l.schema, exped, members, peaks)

	// Missing-value defaults, applied only where the declared column exists.
	exped.fillColumn(schema.ExpeditionOutcome, OutcomeUnknown)
	members.fillColumn(schema.MemberPeakID, UnknownSentinel)
	members.fillColumn(schema.MemberNationality, UnknownSentinel)
	peaks.fillColumn(schema.PeakName, UnknownSentinel)

	ds := &Dataset{
		BasePath:    basePath,
		Expeditions: exped,
		Members:     members,
		Peaks:       peaks,
		References:  refer,
		Dictionary:  dict,
		Schema:      schema,
		LoadedAt:    time.Now(),
	}

	l.logger.InfoContext(ctx, "expedition dataset loaded",
		slog.String("base_path", basePath),
		slog.Int("expeditions", exped.RowCount()),
		slog.Int("members", members.RowCount()),
		slog.Int("peaks", peaks.RowCount()),
		slog.Int("references", refer.RowCount()),
		slog.Duration("elapsed", time.Since(start)))

	return ds, nil
}

// readTable reads one CSV file into a table. A nil decoder means UTF-8.
func (l *Loader) readTable(ctx context.Context, basePath, fileName, tableName string, decoder *charmap.Charmap) (*Table, error) {
	path := filepath.Join(basePath, fileName)

	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewLoadError(
			fmt.Sprintf("cannot open %s table file", tableName), err).
			WithContext("path", path)
	}
	defer file.Close()

	var reader io.Reader = file
	if decoder != nil {
		reader = transform.NewReader(file, decoder.NewDecoder())
	}

	cr := csv.NewReader(reader)
	// The archive files carry ragged rows; length checks happen per cell.
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, apperrors.NewLoadError(
			fmt.Sprintf("malformed CSV in %s table file", tableName), err).
			WithContext("path", path)
	}

	// An empty file yields an empty table; column-name trimming must not
	// crash on it.
	if len(records) == 0 {
		return NewTable(tableName, nil, nil), nil
	}

	table := NewTable(tableName, records[0], records[1:])

	l.logger.DebugContext(ctx, "table loaded",
		slog.String("table", tableName),
		slog.Int("rows", table.RowCount()),
		slog.Int("columns", table.ColumnCount()))

	return table, nil
}
