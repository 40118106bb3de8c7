// Package privilege recovers from permission failures by re-executing
// the process with elevated rights, at most once per process lifetime.
package privilege

import (
	"errors"
	"os"
	"strings"

	"agentstack/src/console"
)

// Elevator is the capability to hand the process off to an elevated
// re-invocation. Elevate replaces the process image: on success it
// never returns, so callers must treat it as terminal.
type Elevator interface {
	CanElevate() bool
	Elevate() error
}

// IsPermission reports whether err is a permission-denied condition,
// either a wrapped os.ErrPermission or an external tool's message.
func IsPermission(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, os.ErrPermission) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "permission denied")
}

// Run executes op. On a permission failure it attempts a single
// elevation: the elevator replaces this process with an identical
// command line under elevated rights, so control does not return here.
// When elevation is unavailable, or this process already runs
// elevated (the euid check is what bounds escalation to once), the
// permission error is returned like any other.
func Run(c *console.Console, el Elevator, op func() error) error {
	err := op()
	if err == nil || !IsPermission(err) {
		return err
	}
	if !el.CanElevate() {
		return err
	}
	c.Error("operation interrupted by insufficient permissions: %v", err)
	c.Warning("re-running with elevated rights; you may be asked for your password")
	if execErr := el.Elevate(); execErr != nil {
		c.Error("elevation failed: %v", execErr)
	}
	return err
}
