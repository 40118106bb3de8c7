package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"agentstack/src/archive"
	"agentstack/src/catalog"
	"agentstack/src/installation"
	"agentstack/src/lifecycle"
	"agentstack/src/privilege"
	"agentstack/src/volume"
)

func newBackupCmd(app *App) *cobra.Command {
	var output string
	var noRestart bool
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Back up the data directory and service volumes into one archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			applyAssumeYes(cmd, app)
			inst, err := resolveInstallation(cmd)
			if err != nil {
				return err
			}
			if !inst.Exists() {
				return fmt.Errorf("data directory does not exist: %s", inst.DataDir)
			}
			return privilege.Run(app.Console, app.Elevate, func() error {
				return runBackup(app, inst, output, noRestart, time.Now())
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Archive output path (default: the backup catalog)")
	cmd.Flags().BoolVar(&noRestart, "no-restart", false, "Do not restart services after the backup")
	return cmd
}

func runBackup(app *App, inst installation.Installation, output string, noRestart bool, now time.Time) error {
	dest := output
	if dest == "" {
		dest = catalog.ArchivePath(inst, now)
	} else if abs, err := filepath.Abs(dest); err == nil {
		dest = abs
	}

	// Resolve before quiescing: live introspection needs the
	// containers to exist in their last-known configuration.
	var resolved []volume.Resolved
	if inst.HasDescriptor() && app.Runner.ComposeAvailable() {
		resolver := volume.Resolver{Runner: app.Runner, Console: app.Console}
		resolved = resolver.Resolve(inst, volume.Targets)
	}

	lc := lifecycle.Controller{Runner: app.Runner, Console: app.Console}
	wasRunning := lc.Quiesce(inst)

	builder := archive.Builder{Runner: app.Runner, Console: app.Console}
	app.Console.Info("backing up to: %s", dest)
	size, err := builder.Build(inst, resolved, dest)

	// Leaving services down after a failed backup is worse than a
	// failed backup; resume before reporting.
	lc.Resume(inst, wasRunning && !noRestart)

	if err != nil {
		return err
	}
	app.Console.Success("backup complete: %s (%s)", dest, humanize.Bytes(uint64(size)))
	return nil
}
