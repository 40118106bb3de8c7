// Package settings is the global settings store: which installations
// exist on this host and which one is currently active. It is a pure
// load/save adapter consulted only at the command boundary.
package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// InstallRecord tracks when an installation was registered and last used.
type InstallRecord struct {
	InstalledAt int64 `json:"installedAt"`
	LastUsed    int64 `json:"lastUsed"`
}

// Settings is the persisted global state.
type Settings struct {
	CurrentDataDir string                   `json:"currentDataDir,omitempty"`
	Installations  map[string]InstallRecord `json:"installations,omitempty"`
}

// Dir returns the settings directory, creating it if needed.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".config", "agentstack")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func settingsPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the settings file. A missing or unreadable file yields
// empty settings rather than an error; the store is advisory.
func Load() Settings {
	path, err := settingsPath()
	if err != nil {
		return Settings{}
	}
	return LoadFrom(path)
}

// LoadFrom reads settings from an explicit path.
func LoadFrom(path string) Settings {
	var s Settings
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}
	}
	return s
}

// Save writes the settings file.
func Save(s Settings) error {
	path, err := settingsPath()
	if err != nil {
		return err
	}
	return SaveTo(path, s)
}

// SaveTo writes settings to an explicit path.
func SaveTo(path string, s Settings) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// SetCurrent records dataDir as the active installation and refreshes
// its usage timestamps.
func (s *Settings) SetCurrent(dataDir string, now time.Time) {
	if s.Installations == nil {
		s.Installations = map[string]InstallRecord{}
	}
	rec, ok := s.Installations[dataDir]
	if !ok {
		rec = InstallRecord{InstalledAt: now.Unix()}
	}
	rec.LastUsed = now.Unix()
	s.Installations[dataDir] = rec
	s.CurrentDataDir = dataDir
}

// Paths returns all registered installation paths, sorted so that
// index-based selection is stable.
func (s Settings) Paths() []string {
	paths := make([]string, 0, len(s.Installations))
	for p := range s.Installations {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// DefaultDataDir returns the active installation's path, or the
// conventional default when none is recorded.
func DefaultDataDir() string {
	if s := Load(); s.CurrentDataDir != "" {
		return s.CurrentDataDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "agent_data"
	}
	return filepath.Join(home, "agent_data")
}
