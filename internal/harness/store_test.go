package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() *Table {
	return &Table{Records: []Record{
		{
			Function:   "MyFunc",
			Parameters: strp(`{"a":1}`),
			Mean:       3.0, Min: 1.0, Max: 5.0, Median: 3.0, Std: 1.5,
			P1: 1.0, P5: 1.0, P95: 5.0, P99: 5.0,
			EffectiveConfig: EffectiveConfig{Repeat: 5, Number: 1},
			Tags:            map[string]any{"group": "math"},
			Meta:            map[string]any{"commit": "abc123", "available_cpus": 8.0},
		},
		{
			Function:   "Other",
			Parameters: nil,
			Mean:       0.5, Min: 0.25, Max: 0.75, Median: 0.5, Std: 0.1,
			P1: 0.25, P5: 0.25, P95: 0.75, P99: 0.75,
			EffectiveConfig: EffectiveConfig{Repeat: 30, Number: 10, Warmups: 2, GarbageCollection: true},
			Meta:            map[string]any{"commit": "abc123", "available_cpus": 8.0},
		},
	}}
}

func TestStoreSavePartitionedAndLatest(t *testing.T) {
	root := filepath.Join(t.TempDir(), "results")
	store, err := NewStore(root)
	require.NoError(t, err)

	meta := map[string]any{"commit": "abc123"}
	path, err := store.Save(sampleTable(), meta, []string{"commit"})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "historical", "commit=abc123", "results.json"), path)
	assert.FileExists(t, path)
	assert.FileExists(t, filepath.Join(root, "results.json"))
}

func TestStoreNestedPartitionKeys(t *testing.T) {
	root := filepath.Join(t.TempDir(), "results")
	store, err := NewStore(root)
	require.NoError(t, err)

	meta := map[string]any{"commit": "abc123", "branch": "main"}
	path, err := store.Save(sampleTable(), meta, []string{"commit", "branch"})
	require.NoError(t, err)

	assert.Equal(t,
		filepath.Join(root, "historical", "commit=abc123", "branch=main", "results.json"),
		path)
}

func TestStoreAbsentPartitionValue(t *testing.T) {
	root := filepath.Join(t.TempDir(), "results")
	store, err := NewStore(root)
	require.NoError(t, err)

	// Not in a VCS: the commit fact is present but nil.
	meta := map[string]any{"commit": nil}
	path, err := store.Save(sampleTable(), meta, []string{"commit"})
	require.NoError(t, err)
	assert.Contains(t, path, "commit=none")
}

func TestStoreUnknownPartitionKey(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "results"))
	require.NoError(t, err)

	_, err = store.Save(sampleTable(), map[string]any{}, []string{"commit"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `partition key "commit"`)
}

func TestStoreRoundTrip(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "results"))
	require.NoError(t, err)

	original := sampleTable()
	_, err = store.Save(original, map[string]any{"commit": "abc123"}, []string{"commit"})
	require.NoError(t, err)

	loaded, err := store.LoadLatest()
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestStoreHistoricalLoad(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "results"))
	require.NoError(t, err)

	path, err := store.Save(sampleTable(), map[string]any{"commit": "abc123"}, []string{"commit"})
	require.NoError(t, err)

	loaded, err := store.Load(path)
	require.NoError(t, err)
	assert.Equal(t, sampleTable(), loaded)
}

func TestStoreLoadMissingIsEmptyTable(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "results"))
	require.NoError(t, err)

	table, err := store.LoadLatest()
	require.NoError(t, err)
	assert.Empty(t, table.Records)
}

func TestStoreCreatesMissingDirectories(t *testing.T) {
	root := filepath.Join(t.TempDir(), "deep", "nested", "results")
	_, statErr := os.Stat(root)
	require.True(t, os.IsNotExist(statErr))

	_, err := NewStore(root)
	require.NoError(t, err)
	assert.DirExists(t, root)
}
