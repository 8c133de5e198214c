package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"himalcli/internal/config"
	apperrors "himalcli/internal/errors"
)

func defaultDatasetConfig() config.DatasetConfig {
	return config.DatasetConfig{
		Dir:         "data/himalaya",
		PreviewRows: 5,
		TopPeaks:    5,
		Files: config.FilesConfig{
			Expeditions: "exped.csv",
			Members:     "members.csv",
			Peaks:       "peaks.csv",
			References:  "refer.csv",
			Dictionary:  "himalayan_data_dictionary.csv",
		},
		Schema: config.SchemaConfig{
			Expedition: config.ExpeditionSchemaConfig{
				ID: "expid", Year: "year", PeakID: "peakid", Outcome: "success1",
			},
			Member: config.MemberSchemaConfig{
				PeakID: "peakid", Nationality: "citizen", Name: "fname", Success: "msuccess",
			},
			Peak: config.PeakSchemaConfig{ID: "peakid", Name: "pkname"},
		},
	}
}

// writeArchive writes a complete five-file archive into dir. The references
// file is written in Windows-1252 with a 0xE9 byte ("é") to exercise the
// legacy decoding path.
func writeArchive(t *testing.T, dir string, overrides map[string]string) {
	t.Helper()

	files := map[string]string{
		"exped.csv": "expid,year,peakid,success1\n" +
			"E1,2019,EVER,success\n" +
			"E2,2019,AMAD,failure\n" +
			"E3,2020,EVER,\n",
		"members.csv": "fname,citizen,peakid,msuccess\n" +
			"Alice,Nepal,EVER,yes\n" +
			"Bob,France,,no\n",
		"peaks.csv": "peakid,pkname\n" +
			"EVER,Mount Everest\n" +
			"AMAD,Ama Dablam\n" +
			"NOPE,\n",
		"himalayan_data_dictionary.csv": "table,field,description\n" +
			"exped,expid,Expedition identifier\n",
	}
	for name, content := range overrides {
		files[name] = content
	}

	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}

	if _, ok := overrides["refer.csv"]; !ok {
		refer := append([]byte("refid,author\nR1,Ren"), 0xE9)
		refer = append(refer, []byte("\n")...)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "refer.csv"), refer, 0644))
	}
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	writeArchive(t, dir, nil)

	loader := NewLoader(defaultDatasetConfig(), nil)
	ds, err := loader.Load(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, dir, ds.BasePath)
	assert.Equal(t, 3, ds.Expeditions.RowCount())
	assert.Equal(t, 2, ds.Members.RowCount())
	assert.Equal(t, 3, ds.Peaks.RowCount())
	assert.Equal(t, 1, ds.References.RowCount())
	assert.Equal(t, 1, ds.Dictionary.RowCount())
	assert.False(t, ds.LoadedAt.IsZero())
}

func TestLoader_Windows1252References(t *testing.T) {
	dir := t.TempDir()
	writeArchive(t, dir, nil)

	loader := NewLoader(defaultDatasetConfig(), nil)
	ds, err := loader.Load(context.Background(), dir)
	require.NoError(t, err)

	// 0xE9 in Windows-1252 is "é"
	assert.Equal(t, "René", ds.References.Value(0, 1))
}

func TestLoader_MissingValueDefaults(t *testing.T) {
	dir := t.TempDir()
	writeArchive(t, dir, nil)

	loader := NewLoader(defaultDatasetConfig(), nil)
	ds, err := loader.Load(context.Background(), dir)
	require.NoError(t, err)

	outcomeCol, err := ds.Schema.RequireExpeditionOutcome()
	require.NoError(t, err)
	assert.Equal(t, OutcomeUnknown, ds.Expeditions.Value(2, outcomeCol))

	peakCol, err := ds.Schema.RequireMemberPeakID()
	require.NoError(t, err)
	assert.Equal(t, UnknownSentinel, ds.Members.Value(1, peakCol))

	nameCol, err := ds.Schema.RequirePeakName()
	require.NoError(t, err)
	assert.Equal(t, UnknownSentinel, ds.Peaks.Value(2, nameCol))
}

func TestLoader_MissingFileIsLoadError(t *testing.T) {
	dir := t.TempDir()
	writeArchive(t, dir, nil)
	require.NoError(t, os.Remove(filepath.Join(dir, "members.csv")))

	loader := NewLoader(defaultDatasetConfig(), nil)
	ds, err := loader.Load(context.Background(), dir)

	require.Error(t, err)
	assert.Nil(t, ds, "no partial dataset on a failed load")
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeLoad))
}

func TestLoader_EmptyFileYieldsEmptyTable(t *testing.T) {
	dir := t.TempDir()
	writeArchive(t, dir, map[string]string{"himalayan_data_dictionary.csv": ""})

	loader := NewLoader(defaultDatasetConfig(), nil)
	ds, err := loader.Load(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 0, ds.Dictionary.RowCount())
	assert.Equal(t, 0, ds.Dictionary.ColumnCount())
}

func TestLoader_ColumnNamesTrimmed(t *testing.T) {
	dir := t.TempDir()
	writeArchive(t, dir, map[string]string{
		"peaks.csv": " peakid ,pkname\nEVER,Mount Everest\n",
	})

	loader := NewLoader(defaultDatasetConfig(), nil)
	ds, err := loader.Load(context.Background(), dir)
	require.NoError(t, err)

	pos, err := ds.Schema.RequirePeakID()
	require.NoError(t, err)
	assert.Equal(t, 0, pos)
}

func TestDataset_TableLookup(t *testing.T) {
	dir := t.TempDir()
	writeArchive(t, dir, nil)

	loader := NewLoader(defaultDatasetConfig(), nil)
	ds, err := loader.Load(context.Background(), dir)
	require.NoError(t, err)

	assert.Same(t, ds.Members, ds.Table(TableMembers))
	assert.Nil(t, ds.Table("bogus"))
}
