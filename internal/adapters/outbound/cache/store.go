package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmpack/charmpack/internal/domain"
)

// Store is a file-based implementation of domain.ValidationCache. Records
// live under <project>/.charmpack/cache.
type Store struct{}

// New creates a new file-based cache store.
func New() *Store {
	return &Store{}
}

// Load reads the validation record for a project. Returns (nil, nil) if
// none exists.
func (s *Store) Load(projectPath string) (*domain.ValidationRecord, error) {
	data, err := os.ReadFile(recordPath(projectPath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // no record is not an error
		}
		return nil, err
	}

	var record domain.ValidationRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("reading validation cache: %w", err)
	}
	return &record, nil
}

// Save writes a validation record, creating directories as needed.
func (s *Store) Save(record *domain.ValidationRecord) error {
	if err := os.MkdirAll(cacheDir(record.ProjectPath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(recordPath(record.ProjectPath), data, 0644)
}

// Invalidate removes the record for the given project path.
func (s *Store) Invalidate(projectPath string) error {
	if err := os.Remove(recordPath(projectPath)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func cacheDir(projectPath string) string {
	return filepath.Join(projectPath, ".charmpack", "cache")
}

func recordPath(projectPath string) string {
	return filepath.Join(cacheDir(projectPath), "validation.json")
}
