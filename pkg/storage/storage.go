// Package storage reads and writes the on-disk JSON artifacts the pipeline
// stages communicate through.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type Storage struct{}

// SaveJSON marshals v with indentation and writes it to path, creating
// parent directories as needed.
func (s *Storage) SaveJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshalling %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("error creating directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error saving file: %w", err)
	}
	return nil
}

// LoadJSON reads path and unmarshals it into v.
func (s *Storage) LoadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("error parsing %s: %w", path, err)
	}
	return nil
}

// HasFile reports whether path exists.
func (s *Storage) HasFile(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// FileSize returns the size of path in bytes, or 0 when it does not exist.
func (s *Storage) FileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
