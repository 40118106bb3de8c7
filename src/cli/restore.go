package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"agentstack/src/archive"
	"agentstack/src/catalog"
	"agentstack/src/installation"
	"agentstack/src/lifecycle"
	"agentstack/src/privilege"
	"agentstack/src/volume"
)

// errRestoreCancelled aborts the command with a non-zero exit when the
// operator declines the destructive overwrite.
var errRestoreCancelled = errors.New("restore cancelled")

func newRestoreCmd(app *App) *cobra.Command {
	var noRestart bool
	cmd := &cobra.Command{
		Use:   "restore BACKUP",
		Short: "Restore an installation from a backup archive",
		Long: `Restore an installation from a backup archive.

BACKUP is either a path to a .tar.gz backup or a 1-based index into
the installation's backup catalog (see 'agentstack backups').`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applyAssumeYes(cmd, app)
			inst, err := resolveInstallation(cmd)
			if err != nil {
				return err
			}
			archivePath, err := catalog.Select(inst, args[0])
			if err != nil {
				return err
			}
			return privilege.Run(app.Console, app.Elevate, func() error {
				return runRestore(app, inst, archivePath, noRestart)
			})
		},
	}
	cmd.Flags().BoolVar(&noRestart, "no-restart", false, "Do not start services after the restore")
	return cmd
}

func runRestore(app *App, inst installation.Installation, archivePath string, noRestart bool) error {
	// Steps up to the overwrite gate mutate nothing, so a failure or a
	// declined confirmation aborts cleanly.
	if err := archive.Validate(archivePath); err != nil {
		return err
	}

	lc := lifecycle.Controller{Runner: app.Runner, Console: app.Console}
	wasRunning := lc.Quiesce(inst)

	if inst.Exists() && !inst.Empty() {
		app.Console.Warning("target directory is not empty: %s", inst.DataDir)
		ok, err := app.Console.Confirm("overwrite existing data?", false)
		if err != nil {
			return err
		}
		if !ok {
			return errRestoreCancelled
		}
	}

	restorer := archive.Restorer{
		Runner:   app.Runner,
		Console:  app.Console,
		Resolver: volume.Resolver{Runner: app.Runner, Console: app.Console},
	}
	app.Console.Info("restoring %s into %s", archivePath, inst.DataDir)
	if err := restorer.Restore(archivePath, inst); err != nil {
		return err
	}

	start := wasRunning
	if !start && inst.HasDescriptor() && app.Runner.ComposeAvailable() {
		// A restore may bring a stopped or brand-new installation to
		// life; offer to start it.
		ok, err := app.Console.Confirm("start services now?", true)
		if err != nil {
			return err
		}
		start = ok
	}
	lc.Resume(inst, start && !noRestart)

	app.Console.Success("restore complete")
	return nil
}
