package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"agentstack/src/dockercli"
	"agentstack/src/installation"
)

// buildArchive produces a real backup of inst for restore tests.
func buildArchive(t *testing.T, inst installation.Installation) string {
	t.Helper()
	fake := dockercli.NewFake()
	app, _ := testApp(fake)
	dest := filepath.Join(t.TempDir(), "backup.tar.gz")
	if err := runBackup(app, inst, dest, true, time.Now()); err != nil {
		t.Fatalf("building fixture archive: %v", err)
	}
	return dest
}

func TestRunRestoreIntoEmptyTarget(t *testing.T) {
	src := newDataDir(t)
	archivePath := buildArchive(t, src)

	target := installation.Installation{DataDir: filepath.Join(t.TempDir(), "agent_data")}
	fake := dockercli.NewFake()
	app, _ := testApp(fake)

	if err := runRestore(app, target, archivePath, true); err != nil {
		t.Fatalf("runRestore: %v", err)
	}
	if _, err := os.Stat(filepath.Join(target.DataDir, "configs", "agent.yaml")); err != nil {
		t.Fatalf("restored config missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(target.DataDir, ".env")); err != nil {
		t.Fatalf("restored .env missing: %v", err)
	}
}

func TestRunRestoreDeclinedOverwriteIsFatal(t *testing.T) {
	src := newDataDir(t)
	archivePath := buildArchive(t, src)

	target := newDataDir(t)
	writeTestFile(t, filepath.Join(target.DataDir, "precious.txt"), "keep me")

	fake := dockercli.NewFake()
	app, _ := testApp(fake)
	// Non-interactive console: the overwrite confirmation defaults to
	// no, which aborts the command.
	err := runRestore(app, target, archivePath, false)
	if !errors.Is(err, errRestoreCancelled) {
		t.Fatalf("runRestore = %v, want %v", err, errRestoreCancelled)
	}
	data, err := os.ReadFile(filepath.Join(target.DataDir, "precious.txt"))
	if err != nil {
		t.Fatalf("existing data was touched: %v", err)
	}
	if string(data) != "keep me" {
		t.Fatalf("existing data modified: %q", data)
	}
}

func TestRestoreCommandDeclinedOverwriteExitsNonZero(t *testing.T) {
	src := newDataDir(t)
	archivePath := buildArchive(t, src)
	target := newDataDir(t)

	app, _ := testApp(dockercli.NewFake())
	if err := execute(t, app, "--data-dir", target.DataDir, "restore", archivePath); err == nil {
		t.Fatalf("declined overwrite still exited zero")
	}
}

func TestRunRestoreOverwriteWithAssumeYes(t *testing.T) {
	src := newDataDir(t)
	writeTestFile(t, filepath.Join(src.DataDir, "configs", "agent.yaml"), "system:\n  marker: new\n")
	archivePath := buildArchive(t, src)

	target := newDataDir(t)
	writeTestFile(t, filepath.Join(target.DataDir, "configs", "agent.yaml"), "system:\n  marker: old\n")

	fake := dockercli.NewFake()
	app, _ := testApp(fake)
	app.Console.AssumeYes = true

	if err := runRestore(app, target, archivePath, true); err != nil {
		t.Fatalf("runRestore: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(target.DataDir, "configs", "agent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "system:\n  marker: new\n" {
		t.Fatalf("restored config = %q", data)
	}
}

func TestRunRestoreResumesWhenWasRunning(t *testing.T) {
	src := newDataDir(t)
	archivePath := buildArchive(t, src)

	target := installation.Installation{DataDir: filepath.Join(t.TempDir(), "agent_data")}
	fake := dockercli.NewFake()
	fake.Running = true
	app, _ := testApp(fake)

	// Quiesce is a no-op for a target without a descriptor, so seed
	// one; the restore then overwrites it from the archive.
	writeTestFile(t, filepath.Join(target.DataDir, "docker-compose.yml"), "services: {}\n")
	app.Console.AssumeYes = true

	if err := runRestore(app, target, archivePath, false); err != nil {
		t.Fatalf("runRestore: %v", err)
	}
	if !fake.Running {
		t.Fatalf("services not resumed after restore")
	}
}

func TestRunRestoreRejectsInvalidArchive(t *testing.T) {
	junk := filepath.Join(t.TempDir(), "junk.tar.gz")
	writeTestFile(t, junk, "not an archive")

	target := installation.Installation{DataDir: filepath.Join(t.TempDir(), "agent_data")}
	fake := dockercli.NewFake()
	app, _ := testApp(fake)

	if err := runRestore(app, target, junk, true); err == nil {
		t.Fatalf("runRestore accepted an invalid archive")
	}
	if _, err := os.Stat(target.DataDir); !os.IsNotExist(err) {
		t.Fatalf("invalid archive still mutated the target")
	}
}
