package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"himalcli/internal/dataset"
)

// brokenSchema resolves the declared columns against empty tables so every
// role comes back absent.
func brokenSchema() *dataset.ResolvedSchema {
	empty := dataset.NewTable("empty", nil, nil)
	return dataset.ResolveSchema(testSchemaConfig(), empty, empty, empty)
}

func TestYears_DistinctDescending(t *testing.T) {
	ds := buildDataset(
		[][]string{
			{"E1", "2019", "EVER", "success"},
			{"E2", "2021", "EVER", "failure"},
			{"E3", "2019", "AMAD", "success"},
			{"E4", "bad", "AMAD", "success"},
			{"E5", "", "AMAD", "success"},
		},
		nil, nil,
	)

	years, err := Years(ds)
	require.NoError(t, err)
	assert.Equal(t, []int{2021, 2019}, years)
}

func TestNationalities_DistinctAscending(t *testing.T) {
	ds := buildDataset(
		nil,
		[][]string{
			{"Alice", "Nepal", "EVER", "yes"},
			{"Bob", "France", "EVER", "no"},
			{"Carol", "Nepal", "AMAD", "yes"},
			{"Dave", "", "AMAD", "yes"},
		},
		nil,
	)

	nationalities, err := Nationalities(ds)
	require.NoError(t, err)
	assert.Equal(t, []string{"France", "Nepal"}, nationalities)
}

func TestExpeditionsByYear(t *testing.T) {
	ds := defaultTestDataset()

	view, err := ExpeditionsByYear(ds, 2019)
	require.NoError(t, err)
	assert.Equal(t, 2, view.RowCount())
	assert.Equal(t, 4, ds.Expeditions.RowCount(), "input table untouched")
}

func TestExpeditionsByYear_AbsentYearYieldsEmptyView(t *testing.T) {
	ds := defaultTestDataset()

	view, err := ExpeditionsByYear(ds, 1950)
	require.NoError(t, err)
	assert.Equal(t, 0, view.RowCount())
}

func TestMembersByNationality(t *testing.T) {
	ds := defaultTestDataset()

	view, err := MembersByNationality(ds, "Nepal")
	require.NoError(t, err)
	assert.Equal(t, 3, view.RowCount())

	empty, err := MembersByNationality(ds, "Atlantis")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.RowCount())
}

func TestFiltersOnMissingColumns(t *testing.T) {
	ds := buildDataset(nil, nil, nil)
	// Break the schema by resolving against empty declarations
	ds.Schema = brokenSchema()

	_, err := Years(ds)
	assert.Error(t, err)

	_, err = Nationalities(ds)
	assert.Error(t, err)
}
