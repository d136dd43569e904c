package model

// Table is an ordered, column-named grid of string cells. Empty cells
// represent null values. Merged tables are never mutated in place:
// filtering and reprojection build new tables.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable returns an empty table with the given column set.
func NewTable(columns []string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// ColumnIndex returns the index of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// AppendRow adds a row, padding or truncating to the table width.
func (t *Table) AppendRow(row []string) {
	switch {
	case len(row) < len(t.Columns):
		padded := make([]string, len(t.Columns))
		copy(padded, row)
		row = padded
	case len(row) > len(t.Columns):
		row = row[:len(t.Columns)]
	}
	t.Rows = append(t.Rows, row)
}

// Project returns a new table holding only the named columns, in the given
// order. Unknown column names yield empty cells.
func (t *Table) Project(columns []string) *Table {
	idx := make([]int, len(columns))
	for i, c := range columns {
		idx[i] = t.ColumnIndex(c)
	}
	out := NewTable(columns)
	for _, row := range t.Rows {
		projected := make([]string, len(columns))
		for i, j := range idx {
			if j >= 0 && j < len(row) {
				projected[i] = row[j]
			}
		}
		out.Rows = append(out.Rows, projected)
	}
	return out
}

// Column returns all cell values of the named column, or nil if absent.
func (t *Table) Column(name string) []string {
	j := t.ColumnIndex(name)
	if j < 0 {
		return nil
	}
	values := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		if j < len(row) {
			values = append(values, row[j])
		} else {
			values = append(values, "")
		}
	}
	return values
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// FileResult is the isolated outcome of processing one source file. Workers
// produce FileResults independently; the caller merges them sequentially, so
// warning and counter aggregation needs no locking.
type FileResult struct {
	Path string
	// Table is nil when the file was skipped.
	Table    *Table
	Records  int
	Warnings []string
	Skipped  bool
	// SkipReason is set when Skipped is true.
	SkipReason string
}
