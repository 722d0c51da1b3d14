package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	m "pyrig.dev/pkg/pyrig/internal/model"
)

// RunStore persists the record of the last tox run for a work directory.
type RunStore interface {
	SaveRun(path m.Path, record m.RunRecord) error
	// LoadRun returns found=false when no record has been saved yet.
	LoadRun(path m.Path) (record m.RunRecord, found bool, err error)
}

// YAMLRunStore stores run records as YAML documents.
type YAMLRunStore struct{}

// NewRunStore constructs a YAMLRunStore.
func NewRunStore() *YAMLRunStore {
	return &YAMLRunStore{}
}

// SaveRun writes record to path, replacing any previous record.
func (s *YAMLRunStore) SaveRun(path m.Path, record m.RunRecord) error {
	data, err := yaml.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode run record: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(string(path)), defaultDirPerm); err != nil {
		return fmt.Errorf("failed to create run record directory: %w", err)
	}

	tmp := string(path) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write run record: %w", err)
	}

	if err := os.Rename(tmp, string(path)); err != nil {
		return fmt.Errorf("failed to replace run record: %w", err)
	}

	return nil
}

// LoadRun reads the record stored at path.
func (s *YAMLRunStore) LoadRun(path m.Path) (m.RunRecord, bool, error) {
	data, err := os.ReadFile(string(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return m.RunRecord{}, false, nil
		}

		return m.RunRecord{}, false, fmt.Errorf("failed to read run record: %w", err)
	}

	var record m.RunRecord
	if err := yaml.Unmarshal(data, &record); err != nil {
		return m.RunRecord{}, false, fmt.Errorf("failed to decode run record %s: %w", path, err)
	}

	return record, true, nil
}
