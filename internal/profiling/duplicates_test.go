package profiling

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tablens/tablens/pkg/models"
)

func duplicatesDataset() *models.Dataset {
	return &models.Dataset{
		Columns: []string{"name", "age"},
		Rows: []models.Row{
			{"name": "alice", "age": "30"},
			{"name": "bob", "age": "25"},
			{"name": "alice", "age": "30"},
			{"name": "alice", "age": "31"},
			{"name": "bob", "age": "25"},
		},
	}
}

func TestCountDuplicates(t *testing.T) {
	assert.Equal(t, 2, CountDuplicates(duplicatesDataset()))
}

func TestCountDuplicatesNoDuplicates(t *testing.T) {
	ds := &models.Dataset{
		Columns: []string{"id"},
		Rows:    []models.Row{{"id": "1"}, {"id": "2"}},
	}
	assert.Equal(t, 0, CountDuplicates(ds))
}

func TestDuplicateRowIndices(t *testing.T) {
	// First occurrence of each row is kept; repeats are flagged in order.
	assert.Equal(t, []int{2, 4}, DuplicateRowIndices(duplicatesDataset()))
}

func TestCanonicalRowOrderInsensitiveToMapIteration(t *testing.T) {
	columns := []string{"a", "b"}
	row := models.Row{"b": "2", "a": "1"}
	assert.Equal(t, `["1","2"]`, CanonicalRow(row, columns))
}

func TestCanonicalRowDistinguishesNilFromEmpty(t *testing.T) {
	columns := []string{"a"}
	assert.NotEqual(t,
		CanonicalRow(models.Row{"a": nil}, columns),
		CanonicalRow(models.Row{"a": ""}, columns))
}
