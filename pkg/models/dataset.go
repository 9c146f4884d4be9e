package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Row maps column names to dynamically-typed cell values. Cells hold
// whatever the upstream reader produced: string, float64, bool, int or nil.
type Row map[string]interface{}

// Dataset is an ordered table of rows plus the ordered header list.
// Column order is significant for canonical row serialization, and row
// order is significant because issues reference rows by index. The engine
// never mutates a dataset in place; every transform returns a new one.
type Dataset struct {
	ID      string   `json:"id,omitempty"`
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// RowCount returns the number of rows
func (d *Dataset) RowCount() int {
	return len(d.Rows)
}

// ColumnCount returns the number of columns
func (d *Dataset) ColumnCount() int {
	return len(d.Columns)
}

// HasColumn reports whether the dataset declares the named column
func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// ColumnValues returns the column's cell values in row order
func (d *Dataset) ColumnValues(name string) []interface{} {
	values := make([]interface{}, len(d.Rows))
	for i, row := range d.Rows {
		values[i] = row[name]
	}
	return values
}

// Clone returns a deep copy of the dataset. Cell values are scalars, so a
// per-row map copy is sufficient.
func (d *Dataset) Clone() *Dataset {
	clone := &Dataset{
		ID:      d.ID,
		Columns: make([]string, len(d.Columns)),
		Rows:    make([]Row, len(d.Rows)),
	}
	copy(clone.Columns, d.Columns)
	for i, row := range d.Rows {
		newRow := make(Row, len(row))
		for k, v := range row {
			newRow[k] = v
		}
		clone.Rows[i] = newRow
	}
	return clone
}

// IsMissing reports whether a cell value counts as null/empty: nil or a
// blank string. Zero numbers and false booleans are present values.
func IsMissing(v interface{}) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// AsFloat coerces a cell value to float64. Numeric strings coerce the way
// the profiling pipeline expects; NaN and unparseable values report false.
func AsFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) {
			return 0, false
		}
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// AsString renders a cell value in its canonical string form
func AsString(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	default:
		return fmt.Sprintf("%v", v)
	}
}
