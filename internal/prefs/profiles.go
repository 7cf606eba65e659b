package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// LegacyEntry is one record of the servers.json file written by the
// first release. Group is only present in files written by Export.
type LegacyEntry struct {
	Name     string `json:"name"`
	Server   string `json:"server"`
	User     string `json:"user"`
	Port     int    `json:"port"`
	Protocol string `json:"protocol,omitempty"`
	Password string `json:"password"`
	LastUsed string `json:"last_used"`
	Group    string `json:"group,omitempty"`
}

// SaveProfiles writes entries to path via a temp file and rename.
func SaveProfiles(path string, entries []LegacyEntry) error {
	if entries == nil {
		entries = []LegacyEntry{}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadProfiles reads a servers.json file. A missing file yields no entries.
func LoadProfiles(path string) ([]LegacyEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var entries []LegacyEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return entries, nil
}
