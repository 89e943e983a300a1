package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

type locationGroupsFile struct {
	LocationGroups []LocationGroup `json:"location_groups"`
}

// LoadLocationGroups reads the location groups file at path. A missing file is
// not an error: the store starts from DefaultLocationGroups and creates the
// file on the first save.
func LoadLocationGroups(path string) (*LocationGroups, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	store := &LocationGroups{path: absPath}

	data, err := os.ReadFile(absPath)
	if errors.Is(err, os.ErrNotExist) {
		store.setAll(DefaultLocationGroups)
		return store, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read location groups file: %w", err)
	}

	var file locationGroupsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse location groups: %w", err)
	}

	store.setAll(file.LocationGroups)
	return store, nil
}

// save writes the groups to disk. Callers hold the write lock.
func (s *LocationGroups) save() error {
	if s.path == "" {
		return nil
	}

	data, err := json.MarshalIndent(locationGroupsFile{LocationGroups: s.groups}, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal location groups: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write location groups file: %w", err)
	}

	return nil
}
