package dataset

import (
	"strings"
)

// Missing-value sentinels applied at load time. After default fill no
// expedition row has an empty outcome and no member row has an empty peak id
// or nationality.
const (
	UnknownSentinel = "UNKNOWN"
	OutcomeUnknown  = "unknown"
)

// Table is an in-memory tabular view of one loaded CSV file. Cells are kept
// as strings; an empty string is the missing-value marker. Tables are treated
// as immutable after load: filter operations return copies and never touch
// the receiver.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string

	index map[string]int
}

// NewTable builds a table over the given columns and rows. Column names are
// whitespace-trimmed; the first occurrence wins when names collide after
// trimming.
func NewTable(name string, columns []string, rows [][]string) *Table {
	trimmed := make([]string, len(columns))
	index := make(map[string]int, len(columns))
	for i, col := range columns {
		trimmed[i] = strings.TrimSpace(col)
		if _, exists := index[trimmed[i]]; !exists {
			index[trimmed[i]] = i
		}
	}
	return &Table{
		Name:    name,
		Columns: trimmed,
		Rows:    rows,
		index:   index,
	}
}

// Column returns the position of the named column
func (t *Table) Column(name string) (int, bool) {
	pos, ok := t.index[name]
	return pos, ok
}

// RowCount returns the number of data rows
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColumnCount returns the number of columns
func (t *Table) ColumnCount() int {
	return len(t.Columns)
}

// Value returns the cell at (row, col), or "" when the row is short.
// CSV rows can be ragged after manual edits of the archive files.
func (t *Table) Value(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 {
		return ""
	}
	cells := t.Rows[row]
	if col >= len(cells) {
		return ""
	}
	return cells[col]
}

// Head returns a new table holding at most n leading rows. The row slices are
// shared with the receiver; callers must not mutate them.
func (t *Table) Head(n int) *Table {
	if n < 0 {
		n = 0
	}
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return &Table{
		Name:    t.Name,
		Columns: t.Columns,
		Rows:    t.Rows[:n],
		index:   t.index,
	}
}

// Select returns a new table holding the rows for which match returns true on
// the value of the given column. The receiver is not modified; an empty
// result is valid.
func (t *Table) Select(col int, match func(string) bool) *Table {
	var rows [][]string
	for i := range t.Rows {
		if match(t.Value(i, col)) {
			rows = append(rows, t.Rows[i])
		}
	}
	return &Table{
		Name:    t.Name,
		Columns: t.Columns,
		Rows:    rows,
		index:   t.index,
	}
}

// fillColumn replaces empty cells in the given column with the sentinel,
// extending short rows so the column position exists. This is the only
// mutation a table ever sees and it happens before the table is published.
func (t *Table) fillColumn(col int, sentinel string) {
	if col < 0 {
		return
	}
	for i, cells := range t.Rows {
		for len(cells) <= col {
			cells = append(cells, "")
		}
		if strings.TrimSpace(cells[col]) == "" {
			cells[col] = sentinel
		}
		t.Rows[i] = cells
	}
}
