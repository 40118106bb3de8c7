// Package catalog lists the conventional per-installation backup
// directory so archives can be picked by index instead of path.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"agentstack/src/installation"
)

// Entry is one archive discovered in the catalog directory, derived
// purely from the filesystem listing.
type Entry struct {
	Path      string
	CreatedAt time.Time // file mtime
	Size      int64
}

const timestampLayout = "20060102_150405"

// Dir returns the catalog directory for an installation: a sibling of
// the data directory keyed by its base name.
func Dir(inst installation.Installation) string {
	return filepath.Join(filepath.Dir(inst.DataDir), inst.Name()+"_backups")
}

// ArchivePath returns the conventional archive path for a backup taken
// at the given time.
func ArchivePath(inst installation.Installation, now time.Time) string {
	name := fmt.Sprintf("%s_backup_%s.tar.gz", inst.Name(), now.Format(timestampLayout))
	return filepath.Join(Dir(inst), name)
}

// List returns the installation's archives, newest first. A missing
// catalog directory is an empty catalog.
func List(inst installation.Installation) ([]Entry, error) {
	dir := Dir(inst)
	prefix := inst.Name() + "_backup_"

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var entries []Entry
	for _, e := range dirEntries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), prefix) || !strings.HasSuffix(e.Name(), ".tar.gz") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Path:      filepath.Join(dir, e.Name()),
			CreatedAt: info.ModTime(),
			Size:      info.Size(),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		}
		return entries[i].Path < entries[j].Path
	})
	return entries, nil
}

// Select resolves an operator-supplied archive reference: a 1-based
// catalog index over the List ordering, or a literal file path.
func Select(inst installation.Installation, ref string) (string, error) {
	if idx, err := strconv.Atoi(ref); err == nil {
		entries, err := List(inst)
		if err != nil {
			return "", err
		}
		if idx < 1 || idx > len(entries) {
			return "", fmt.Errorf("backup index %d out of range (catalog has %d entries)", idx, len(entries))
		}
		return entries[idx-1].Path, nil
	}
	path, err := filepath.Abs(ref)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("backup file not found: %s", path)
	}
	return path, nil
}
