// Package cli wires the agentstack commands together.
package cli

import (
	"github.com/spf13/cobra"

	"agentstack/src/console"
	"agentstack/src/dockercli"
	"agentstack/src/privilege"
)

// App bundles the collaborators every command needs. Tests construct
// one around fakes; Execute builds the real one.
type App struct {
	Console *console.Console
	Runner  dockercli.Runner
	Elevate privilege.Elevator
}

// NewRootCmd returns the root cobra command.
func NewRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agentstack",
		Short: "Install, update, back up, and restore the agent service stack",

		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetOut(app.Console.Out)
	cmd.SetErr(app.Console.Err)

	addGlobalFlags(cmd)

	cmd.AddCommand(newInstallCmd(app))
	cmd.AddCommand(newUpdateCmd(app))
	cmd.AddCommand(newBackupCmd(app))
	cmd.AddCommand(newRestoreCmd(app))
	cmd.AddCommand(newBackupsCmd(app))
	cmd.AddCommand(newStatusCmd(app))
	cmd.AddCommand(newLogsCmd(app))
	cmd.AddCommand(newUseCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newVersionCmd(app))

	return cmd
}

// Execute runs the CLI with the process stdio and real collaborators.
func Execute() int {
	app := &App{
		Console: console.New(),
		Runner:  dockercli.NewReal(),
		Elevate: privilege.Sudo{},
	}
	root := NewRootCmd(app)
	if err := root.Execute(); err != nil {
		app.Console.Error("%v", err)
		return 1
	}
	return 0
}
