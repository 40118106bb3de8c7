//go:build unix

package privilege

import (
	"os"
	"os/exec"

	"golang.org/x/sys/unix"
)

// Sudo elevates by replacing the process with `sudo -E` plus the
// original argv, preserving environment-derived configuration.
type Sudo struct{}

func (Sudo) CanElevate() bool {
	if os.Geteuid() == 0 {
		return false
	}
	_, err := exec.LookPath("sudo")
	return err == nil
}

func (Sudo) Elevate() error {
	sudoPath, err := exec.LookPath("sudo")
	if err != nil {
		return err
	}
	argv := append([]string{"sudo", "-E"}, os.Args...)
	// One-way process replacement; only returns on failure.
	return unix.Exec(sudoPath, argv, os.Environ())
}
