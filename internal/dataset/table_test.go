package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTable_TrimsColumnNames(t *testing.T) {
	table := NewTable("peaks", []string{" peakid ", "pkname\t"}, nil)

	assert.Equal(t, []string{"peakid", "pkname"}, table.Columns)

	pos, ok := table.Column("peakid")
	require.True(t, ok)
	assert.Equal(t, 0, pos)
}

func TestNewTable_FirstColumnWinsOnCollision(t *testing.T) {
	table := NewTable("members", []string{"peakid", " peakid"}, nil)

	pos, ok := table.Column("peakid")
	require.True(t, ok)
	assert.Equal(t, 0, pos)
}

func TestTable_ValueRaggedRow(t *testing.T) {
	table := NewTable("expeditions", []string{"expid", "year", "success1"}, [][]string{
		{"E1", "2019", "success"},
		{"E2"},
	})

	assert.Equal(t, "2019", table.Value(0, 1))
	assert.Equal(t, "", table.Value(1, 1), "short row reads as missing")
	assert.Equal(t, "", table.Value(5, 0), "out-of-range row reads as missing")
	assert.Equal(t, "", table.Value(0, -1))
}

func TestTable_Head(t *testing.T) {
	table := NewTable("members", []string{"fname"}, [][]string{
		{"Alice"}, {"Bob"}, {"Carol"},
	})

	head := table.Head(2)
	assert.Equal(t, 2, head.RowCount())
	assert.Equal(t, 3, table.RowCount(), "receiver unchanged")

	assert.Equal(t, 3, table.Head(10).RowCount())
	assert.Equal(t, 0, table.Head(-1).RowCount())
}

func TestTable_SelectDoesNotMutateReceiver(t *testing.T) {
	table := NewTable("members", []string{"citizen"}, [][]string{
		{"Nepal"}, {"France"}, {"Nepal"},
	})

	view := table.Select(0, func(v string) bool { return v == "Nepal" })

	assert.Equal(t, 2, view.RowCount())
	assert.Equal(t, 3, table.RowCount())

	none := table.Select(0, func(v string) bool { return v == "Japan" })
	assert.Equal(t, 0, none.RowCount(), "no match yields an empty view, not an error")
}

func TestTable_FillColumn(t *testing.T) {
	table := NewTable("members", []string{"peakid", "citizen"}, [][]string{
		{"EVER", "Nepal"},
		{"", "France"},
		{"AMAD"},
	})

	table.fillColumn(0, UnknownSentinel)
	table.fillColumn(1, UnknownSentinel)

	assert.Equal(t, "EVER", table.Value(0, 0))
	assert.Equal(t, UnknownSentinel, table.Value(1, 0))
	assert.Equal(t, UnknownSentinel, table.Value(2, 1), "short row extended before fill")
}
