// Package archive builds and restores the portable backup archive: a
// gzip tarball holding the data directory plus one nested snapshot per
// resolved volume under volumes/.
package archive

import (
	"archive/tar"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"

	"agentstack/src/console"
	"agentstack/src/dockercli"
	"agentstack/src/installation"
	"agentstack/src/volume"
)

const (
	// WorkerImage runs the ephemeral containers that read and write
	// volume contents with standard archive tools.
	WorkerImage = "alpine:3"

	// VolumesDirName is the archive's volume-snapshot subdirectory.
	VolumesDirName = "volumes"

	// stagingDirName is the transient subfolder inside the data dir
	// where per-volume snapshots land before final archiving. It is
	// excluded from the archive to avoid self-inclusion.
	stagingDirName = ".backup_staging"
)

// Builder produces backup archives.
type Builder struct {
	Runner  dockercli.Runner
	Console *console.Console
}

// Build snapshots each resolved volume through an ephemeral worker
// container, then writes the final archive to destPath. A single
// volume failing is reported and skipped; a failure writing the
// archive itself is fatal. The staging directory is removed on every
// exit path. Returns the final archive size.
//
// Callers resolve volumes before quiescing (introspection needs the
// containers to exist) and resume services afterward themselves.
func (b Builder) Build(inst installation.Installation, resolved []volume.Resolved, destPath string) (int64, error) {
	staging := filepath.Join(inst.DataDir, stagingDirName)
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return 0, fmt.Errorf("create staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	snapshots := b.snapshotVolumes(inst, resolved, staging)

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return 0, err
	}
	if err := writeArchive(inst, staging, snapshots, destPath); err != nil {
		// A partial archive is worse than none.
		os.Remove(destPath)
		return 0, err
	}
	info, err := os.Stat(destPath)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// snapshotVolumes tars each resolved volume into the staging directory
// and returns the archive entry names that succeeded.
func (b Builder) snapshotVolumes(inst installation.Installation, resolved []volume.Resolved, staging string) []string {
	if len(resolved) == 0 {
		return nil
	}
	mirror := inst.MirrorRegistry()
	if err := b.Runner.PullImage(WorkerImage, mirror); err != nil {
		// The image may already be present locally; the run decides.
		b.Console.Warning("pulling worker image failed: %v", err)
	}

	var entries []string
	for _, rv := range resolved {
		b.Console.Info("snapshotting volume %s (service %s)...", rv.VolumeName, rv.Target.Service)
		err := b.Runner.RunEphemeral(WorkerImage,
			[]dockercli.Bind{
				{Source: rv.VolumeName, Target: "/volume", ReadOnly: true},
				{Source: staging, Target: "/backup"},
			},
			[]string{"tar", "czf", "/backup/" + rv.Target.ArchiveEntry, "-C", "/volume", "."},
		)
		if err != nil {
			b.Console.Warning("volume %s snapshot failed, skipping: %v", rv.VolumeName, err)
			continue
		}
		entries = append(entries, rv.Target.ArchiveEntry)
	}
	return entries
}

func writeArchive(inst installation.Installation, staging string, snapshots []string, destPath string) error {
	f, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)

	absDest, _ := filepath.Abs(destPath)
	skip := func(path string) bool {
		return path == staging || path == absDest
	}
	if err := addTree(tw, inst.DataDir, inst.Name(), skip); err != nil {
		return fmt.Errorf("archive data directory: %w", err)
	}
	for _, entry := range snapshots {
		src := filepath.Join(staging, entry)
		if err := addFile(tw, src, VolumesDirName+"/"+entry); err != nil {
			return fmt.Errorf("archive volume snapshot %s: %w", entry, err)
		}
	}

	if err := tw.Close(); err != nil {
		return err
	}
	if err := gz.Close(); err != nil {
		return err
	}
	return f.Close()
}
