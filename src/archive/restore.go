package archive

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"

	"agentstack/src/console"
	"agentstack/src/dockercli"
	"agentstack/src/installation"
	"agentstack/src/util/progress"
	"agentstack/src/volume"
)

// Validate checks that path is a readable, non-empty gzip tarball.
func Validate(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("not a valid backup archive: %w", err)
	}
	defer gz.Close()
	if _, err := tar.NewReader(gz).Next(); err != nil {
		if err == io.EOF {
			return fmt.Errorf("backup archive is empty")
		}
		return fmt.Errorf("not a valid backup archive: %w", err)
	}
	return nil
}

// Restorer unpacks backup archives into an installation.
type Restorer struct {
	Runner   dockercli.Runner
	Console  *console.Console
	Resolver volume.Resolver
}

// Restore extracts the archive into a temporary staging location,
// moves the payload into the data directory, and replays any volume
// snapshots. The directory-level restore and the per-volume restores
// are independent units of partial success: a volume failure does not
// undo the already-completed directory restore.
//
// Callers validate the archive, quiesce services, and gate destructive
// overwrite before calling; they resume services after.
func (r Restorer) Restore(archivePath string, inst installation.Installation) error {
	tmp, err := os.MkdirTemp("", "agentstack-restore-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmp)

	if err := extractArchive(archivePath, tmp, r.Console.Out); err != nil {
		return fmt.Errorf("extract archive: %w", err)
	}

	payload, volumesDir, err := locatePayload(tmp)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(inst.DataDir, 0o755); err != nil {
		return err
	}
	if err := movePayload(payload, inst.DataDir); err != nil {
		return fmt.Errorf("restore data directory: %w", err)
	}
	r.Console.Success("data directory restored: %s", inst.DataDir)

	if volumesDir != "" {
		r.restoreVolumes(inst, volumesDir)
	}
	return nil
}

func extractArchive(path, dest string, progressOut io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	var src io.Reader = f
	if info, err := f.Stat(); err == nil {
		src = progress.NewReader(f, info.Size(), "extract", progressOut)
	}
	gz, err := gzip.NewReader(src)
	if err != nil {
		return err
	}
	defer gz.Close()
	return extractAll(tar.NewReader(gz), dest)
}

// locatePayload finds the archive's top-level payload directory (named
// after its source data directory) and the optional volumes/ sibling.
func locatePayload(tmp string) (payload, volumesDir string, err error) {
	entries, err := os.ReadDir(tmp)
	if err != nil {
		return "", "", err
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if e.Name() == VolumesDirName {
			volumesDir = filepath.Join(tmp, e.Name())
			continue
		}
		if payload != "" {
			return "", "", fmt.Errorf("backup archive has more than one payload directory")
		}
		payload = filepath.Join(tmp, e.Name())
	}
	if payload == "" {
		return "", "", fmt.Errorf("backup archive has no payload directory")
	}
	return payload, volumesDir, nil
}

// movePayload moves the payload's contents into dataDir, replacing
// same-named entries. Directories are removed first so the move never
// merges old and new trees.
func movePayload(payload, dataDir string) error {
	entries, err := os.ReadDir(payload)
	if err != nil {
		return err
	}
	for _, e := range entries {
		src := filepath.Join(payload, e.Name())
		dest := filepath.Join(dataDir, e.Name())
		if err := os.RemoveAll(dest); err != nil {
			return err
		}
		if err := os.Rename(src, dest); err != nil {
			// Cross-device staging; fall back to a copy.
			if copyErr := copyTree(src, dest); copyErr != nil {
				return copyErr
			}
		}
	}
	return nil
}

// restoreVolumes recreates the service containers without starting
// them, re-resolves the volume targets against the restored
// descriptor, and replays each snapshot present in the archive.
func (r Restorer) restoreVolumes(inst installation.Installation, volumesDir string) {
	r.Console.Info("restoring volume snapshots...")
	if err := r.Runner.UpNoStart(inst.DataDir, inst.EnvPath()); err != nil {
		r.Console.Warning("recreating containers failed, volume restore may not resolve targets: %v", err)
	}

	mirror := inst.MirrorRegistry()
	if err := r.Runner.PullImage(WorkerImage, mirror); err != nil {
		r.Console.Warning("pulling worker image failed: %v", err)
	}

	resolved := r.Resolver.Resolve(inst, volume.Targets)
	for _, rv := range resolved {
		snapshot := filepath.Join(volumesDir, rv.Target.ArchiveEntry)
		if _, err := os.Stat(snapshot); err != nil {
			// The archive predates this service or its backup was
			// skipped; nothing to replay.
			continue
		}
		r.Console.Info("restoring volume %s (service %s)...", rv.VolumeName, rv.Target.Service)
		err := r.Runner.RunEphemeral(WorkerImage,
			[]dockercli.Bind{
				{Source: rv.VolumeName, Target: "/volume"},
				{Source: volumesDir, Target: "/backup", ReadOnly: true},
			},
			[]string{"tar", "xzf", "/backup/" + rv.Target.ArchiveEntry, "-C", "/volume"},
		)
		if err != nil {
			r.Console.Warning("volume %s restore failed: %v", rv.VolumeName, err)
			continue
		}
		r.Console.Success("volume %s restored", rv.VolumeName)
	}
}

func copyTree(src, dest string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}
	switch {
	case info.IsDir():
		if err := os.MkdirAll(dest, info.Mode().Perm()); err != nil {
			return err
		}
		entries, err := os.ReadDir(src)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if err := copyTree(filepath.Join(src, e.Name()), filepath.Join(dest, e.Name())); err != nil {
				return err
			}
		}
		return nil
	case info.Mode()&os.ModeSymlink != 0:
		link, err := os.Readlink(src)
		if err != nil {
			return err
		}
		return os.Symlink(link, dest)
	default:
		in, err := os.Open(src)
		if err != nil {
			return err
		}
		defer in.Close()
		out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
		if err != nil {
			return err
		}
		if _, err := io.Copy(out, in); err != nil {
			out.Close()
			return err
		}
		return out.Close()
	}
}
