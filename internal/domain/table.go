package domain

// Table is parsed tabular input. Every row has len(Columns) cells; missing
// cells are recorded in Missing.
type Table struct {
	Columns []string
	Rows    [][]string
	Missing [][]bool
}

func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Reviews returns the rows of column col whose value is present.
func (t *Table) Reviews(col int) []Review {
	out := make([]Review, 0, len(t.Rows))
	for i, row := range t.Rows {
		if col < 0 || col >= len(row) || t.Missing[i][col] {
			continue
		}
		out = append(out, Review{Row: i, Content: row[col]})
	}
	return out
}
