// Package installation models one deployment, identified by its host
// data directory. Commands resolve an Installation once at the
// boundary and thread it explicitly through every operation.
package installation

import (
	"os"
	"path/filepath"
	"strings"

	"agentstack/src/compose"
	"agentstack/src/envfile"
)

// Installation is one deployment rooted at DataDir (absolute).
type Installation struct {
	DataDir string
}

// At normalizes dir (home expansion, absolute, cleaned) into an
// Installation. The directory need not exist yet.
func At(dir string) (Installation, error) {
	if strings.HasPrefix(dir, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return Installation{}, err
		}
		dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Installation{}, err
	}
	return Installation{DataDir: filepath.Clean(abs)}, nil
}

// Name is the base name of the data directory. It names the archive's
// top-level payload directory and keys the backup catalog.
func (i Installation) Name() string {
	return filepath.Base(i.DataDir)
}

// EnvPath returns the .env path when the file exists, else "".
func (i Installation) EnvPath() string {
	path := filepath.Join(i.DataDir, ".env")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// AppConfigPath is the application config file inside the data dir.
func (i Installation) AppConfigPath() string {
	return filepath.Join(i.DataDir, "configs", "agent.yaml")
}

// HasDescriptor reports whether the orchestration descriptor exists.
func (i Installation) HasDescriptor() bool {
	return compose.Exists(i.DataDir)
}

// MirrorRegistry reads the registry mirror from .env, normalized.
// Missing file or key yields "".
func (i Installation) MirrorRegistry() string {
	env, err := envfile.Load(filepath.Join(i.DataDir, ".env"))
	if err != nil {
		return ""
	}
	return compose.NormalizeMirror(env["MIRROR_REGISTRY"])
}

// Exists reports whether the data directory is present.
func (i Installation) Exists() bool {
	info, err := os.Stat(i.DataDir)
	return err == nil && info.IsDir()
}

// Empty reports whether the data directory has no entries. A missing
// directory counts as empty.
func (i Installation) Empty() bool {
	entries, err := os.ReadDir(i.DataDir)
	if err != nil {
		return true
	}
	return len(entries) == 0
}
