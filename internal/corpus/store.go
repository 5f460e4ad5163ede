package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"examnova/internal/domain"
	"examnova/internal/ports"
)

// FileStore persists the scraped corpus as a pretty-printed JSON array at a
// fixed path. Save is a full replacement; runs never merge.
type FileStore struct {
	path string
}

var _ ports.CorpusStore = (*FileStore)(nil)

// NewFileStore points the store at the corpus file location.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save overwrites the corpus file with the given records.
func (s *FileStore) Save(jobs []domain.JobRecord) error {
	if jobs == nil {
		jobs = []domain.JobRecord{}
	}

	raw, err := json.MarshalIndent(jobs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal corpus: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create corpus directory: %w", err)
		}
	}

	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write corpus: %w", err)
	}

	return nil
}

// Load reads the corpus file back. A missing or unreadable file is an error;
// the caller decides whether that means fallback or failure.
func (s *FileStore) Load() ([]domain.JobRecord, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}

	var jobs []domain.JobRecord
	if err := json.Unmarshal(raw, &jobs); err != nil {
		return nil, fmt.Errorf("parse corpus: %w", err)
	}

	return jobs, nil
}
