package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablens/tablens/pkg/models"
)

func newTestStore(t *testing.T) *RuleStore {
	t.Helper()
	store, err := NewRuleStore(&Config{BasePath: t.TempDir(), CreateDirs: true}, nil)
	require.NoError(t, err)
	require.NoError(t, store.Connect(context.Background()))
	return store
}

func TestNewRuleStoreConfigValidation(t *testing.T) {
	_, err := NewRuleStore(nil, nil)
	assert.Error(t, err)

	_, err = NewRuleStore(&Config{}, nil)
	assert.Error(t, err)
}

func TestRuleStoreRulesRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rules := []*models.CustomRule{
		{
			ID:        "r1",
			Name:      "no negative ages",
			Condition: "age < 0",
			Severity:  models.SeverityHigh,
			Columns:   []string{"age"},
			Active:    true,
			CreatedAt: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
			UpdatedAt: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		},
	}
	require.NoError(t, store.SaveRules(ctx, "ds1", rules))

	loaded, err := store.LoadRules(ctx, "ds1")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, rules[0], loaded[0])
}

func TestRuleStoreUnknownDatasetYieldsEmptyList(t *testing.T) {
	store := newTestStore(t)

	rules, err := store.LoadRules(context.Background(), "never-saved")
	require.NoError(t, err)
	assert.Empty(t, rules)

	results, err := store.LoadResults(context.Background(), "never-saved")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRuleStoreResultsRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	results := []*models.ValidationResult{
		{
			ID:           "v1",
			RuleName:     "Null values in name",
			Kind:         "null_values",
			Column:       "name",
			Severity:     models.SeverityMedium,
			AffectedRows: []int{1, 4},
			CanAutoFix:   true,
			CreatedAt:    time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		},
	}
	require.NoError(t, store.SaveResults(ctx, "ds1", results))

	loaded, err := store.LoadResults(ctx, "ds1")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, results[0], loaded[0])
}

func TestRuleStoreSaveReplacesExistingSet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRules(ctx, "ds1", []*models.CustomRule{
		{ID: "r1", Name: "a", Condition: "null"},
		{ID: "r2", Name: "b", Condition: "null"},
	}))
	require.NoError(t, store.SaveRules(ctx, "ds1", []*models.CustomRule{
		{ID: "r2", Name: "b", Condition: "null"},
	}))

	loaded, err := store.LoadRules(ctx, "ds1")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "r2", loaded[0].ID)
}

func TestRuleStoreSanitizesDatasetID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRules(ctx, "../evil/../id", []*models.CustomRule{
		{ID: "r1", Name: "a", Condition: "null"},
	}))

	entries, err := os.ReadDir(store.config.BasePath)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.Equal(t, filepath.Base(entry.Name()), entry.Name())
		assert.NotContains(t, entry.Name(), "..")
	}

	loaded, err := store.LoadRules(ctx, "../evil/../id")
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}

func TestRuleStoreConnectCreatesMissingDir(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "rules")
	store, err := NewRuleStore(&Config{BasePath: base, CreateDirs: true}, nil)
	require.NoError(t, err)
	require.NoError(t, store.Connect(context.Background()))

	info, err := os.Stat(base)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
