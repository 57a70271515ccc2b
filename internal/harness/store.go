package harness

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const tableFile = "results.json"

// Store persists aggregated tables under a results root. Each run writes one
// table per combination of partition values into
// historical/<key=value>/.../results.json, then overwrites the unpartitioned
// "latest" copy at the root so downstream tools need not know the
// partitioning scheme.
type Store struct {
	root string
}

// NewStore creates a store rooted at dir, creating it if missing.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create results directory %s: %w", dir, err)
	}
	return &Store{root: dir}, nil
}

// Save writes the table to its partition directory and refreshes the latest
// copy. Partition keys are resolved against the run metadata in order; a key
// absent from the metadata is a configuration error. It returns the
// historical path written.
func (s *Store) Save(t *Table, meta map[string]any, partitionBy []string) (string, error) {
	dir := filepath.Join(s.root, "historical")
	for _, key := range partitionBy {
		val, ok := meta[key]
		if !ok {
			return "", fmt.Errorf("partition key %q not present in run metadata", key)
		}
		dir = filepath.Join(dir, fmt.Sprintf("%s=%s", key, partitionValue(val)))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create partition directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal results: %w", err)
	}

	path := filepath.Join(dir, tableFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(s.root, tableFile), data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// LoadLatest reads the unpartitioned latest copy. A missing file is treated
// as an empty table, not an error.
func (s *Store) LoadLatest() (*Table, error) {
	return loadTable(filepath.Join(s.root, tableFile))
}

// Load reads the table at an arbitrary historical path.
func (s *Store) Load(path string) (*Table, error) {
	return loadTable(path)
}

func loadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Table{}, nil
		}
		return nil, err
	}
	var t Table
	if len(data) == 0 {
		return &t, nil
	}
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to unmarshal results at %s: %w", path, err)
	}
	return &t, nil
}

// partitionValue renders one metadata value as a directory name segment.
// Absent facts (a run outside version control) render as "none".
func partitionValue(v any) string {
	if v == nil {
		return "none"
	}
	return fmt.Sprintf("%v", v)
}
