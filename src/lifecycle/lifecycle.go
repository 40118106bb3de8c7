// Package lifecycle stops and restarts the service group around
// operations that need exclusive access to its state.
package lifecycle

import (
	"agentstack/src/console"
	"agentstack/src/dockercli"
	"agentstack/src/installation"
)

// Controller quiesces and resumes an installation's service group.
type Controller struct {
	Runner  dockercli.Runner
	Console *console.Console
}

// Quiesce stops the service group if there is one to stop. The return
// value means "this operation stopped something and should restart it
// afterward"; installations without a descriptor or without compose
// are valid no-ops.
func (c Controller) Quiesce(inst installation.Installation) bool {
	if !inst.HasDescriptor() || !c.Runner.ComposeAvailable() {
		return false
	}
	c.Console.Info("stopping services for a consistent snapshot...")
	if err := c.Runner.Down(inst.DataDir, inst.EnvPath()); err != nil {
		c.Console.Warning("stopping services failed: %v", err)
	}
	return true
}

// Resume restarts the service group when wasRunning says it should.
// A failed restart is a warning: the data operation that preceded it
// already completed, and its outcome stands. One attempt, no retry.
func (c Controller) Resume(inst installation.Installation, wasRunning bool) {
	if !wasRunning {
		return
	}
	c.Console.Info("restarting services...")
	if err := c.Runner.Up(inst.DataDir, inst.EnvPath()); err != nil {
		c.Console.Warning("service restart failed, start them manually: %v", err)
		return
	}
	c.Console.Success("services restarted")
}
