package profiling

import (
	"encoding/json"

	"github.com/tablens/tablens/pkg/models"
)

// CanonicalRow serializes a row to a stable string form with attribute
// order fixed by the header order. Byte-identical rows and only
// byte-identical rows share a canonical form.
func CanonicalRow(row models.Row, columns []string) string {
	ordered := make([]interface{}, len(columns))
	for i, col := range columns {
		ordered[i] = row[col]
	}
	encoded, err := json.Marshal(ordered)
	if err != nil {
		// Cell values are scalars; marshaling cannot fail for them.
		return ""
	}
	return string(encoded)
}

// CountDuplicates returns the number of exact duplicate rows: total rows
// minus distinct canonical forms. Near-duplicates are not detected.
func CountDuplicates(ds *models.Dataset) int {
	distinct := make(map[string]struct{}, len(ds.Rows))
	for _, row := range ds.Rows {
		distinct[CanonicalRow(row, ds.Columns)] = struct{}{}
	}
	return len(ds.Rows) - len(distinct)
}

// DuplicateRowIndices returns the indices of rows whose canonical form
// already appeared earlier in the dataset, in row order.
func DuplicateRowIndices(ds *models.Dataset) []int {
	seen := make(map[string]struct{}, len(ds.Rows))
	var dupes []int
	for i, row := range ds.Rows {
		key := CanonicalRow(row, ds.Columns)
		if _, ok := seen[key]; ok {
			dupes = append(dupes, i)
		} else {
			seen[key] = struct{}{}
		}
	}
	return dupes
}
