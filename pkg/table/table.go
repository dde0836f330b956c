package table

// Column describes one table column.
type Column struct {
	Name string
	Kind Kind
}

// Table is an ordered, column-homogenized set of rows.
type Table struct {
	columns []Column
	index   map[string]int
	rows    [][]Value
}

// FromRecords builds a Table from records. Columns are the union of field
// names in first-seen order and each column kind is inferred from its
// non-null values.
func FromRecords(records []Record) *Table {
	t := &Table{index: make(map[string]int)}

	for _, rec := range records {
		for _, f := range rec {
			pos, ok := t.index[f.Name]
			if !ok {
				pos = len(t.columns)
				t.index[f.Name] = pos
				t.columns = append(t.columns, Column{Name: f.Name, Kind: KindNull})
			}
			t.columns[pos].Kind = mergeKinds(t.columns[pos].Kind, f.Value.Kind())
		}
	}

	for i := range t.columns {
		if t.columns[i].Kind == KindNull {
			t.columns[i].Kind = KindString
		}
	}

	t.rows = make([][]Value, len(records))
	for r, rec := range records {
		row := make([]Value, len(t.columns))
		for _, f := range rec {
			pos := t.index[f.Name]
			row[pos] = f.Value.Coerce(t.columns[pos].Kind)
		}
		t.rows[r] = row
	}

	return t
}

// mergeKinds returns the kind able to hold values of both a and b.
func mergeKinds(a, b Kind) Kind {
	switch {
	case a == KindNull:
		return b
	case b == KindNull, a == b:
		return a
	case (a == KindInt && b == KindFloat) || (a == KindFloat && b == KindInt):
		return KindFloat
	default:
		return KindString
	}
}

// Columns returns a copy of the column descriptors.
func (t *Table) Columns() []Column {
	out := make([]Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// ColumnNames returns column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column.
func (t *Table) Column(name string) (Column, bool) {
	pos, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.columns[pos], true
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return len(t.rows) }

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int { return len(t.columns) }

// Row returns the values of row i in column order.
func (t *Table) Row(i int) []Value { return t.rows[i] }

// Value returns the cell at row i in the named column.
func (t *Table) Value(i int, column string) (Value, bool) {
	pos, ok := t.index[column]
	if !ok || i < 0 || i >= len(t.rows) {
		return Value{}, false
	}
	return t.rows[i][pos], true
}
