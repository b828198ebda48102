package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"timetable.transitboard.org/internal/models"
)

// Cache stores the last good snapshot for use when storage is unreachable.
type Cache interface {
	Load() (*models.Snapshot, bool, error)
	Save(snap *models.Snapshot) error
}

// FileCache keeps the snapshot as a JSON document on disk.
type FileCache struct {
	Path string
}

func NewFileCache(path string) *FileCache {
	return &FileCache{Path: path}
}

// Load reports ok=false when no usable snapshot is cached.
func (c *FileCache) Load() (*models.Snapshot, bool, error) {
	b, err := os.ReadFile(c.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading snapshot cache: %w", err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, false, fmt.Errorf("decoding snapshot cache: %w", err)
	}
	if snap.Empty() {
		return nil, false, nil
	}
	return &snap, true, nil
}

// Save writes to a temporary file and renames it over Path.
func (c *FileCache) Save(snap *models.Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot cache: %w", err)
	}

	dir := filepath.Dir(c.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("creating cache file: %w", err)
	}
	defer os.Remove(tmp.Name()) // nolint:errcheck

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.Path); err != nil {
		return fmt.Errorf("replacing cache file: %w", err)
	}
	return nil
}
