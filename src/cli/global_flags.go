package cli

import (
	"github.com/spf13/cobra"

	"agentstack/src/installation"
	"agentstack/src/settings"
)

// addGlobalFlags adds the persistent flags shared by all commands.
func addGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("data-dir", "", "Installation data directory (default: the active installation)")
	cmd.PersistentFlags().BoolP("yes", "y", false, "Assume 'yes' to prompts and run non-interactively")
}

// resolveInstallation turns the --data-dir flag (or the settings
// store's active installation) into an Installation. The settings
// store is consulted only here, at the command boundary.
func resolveInstallation(cmd *cobra.Command) (installation.Installation, error) {
	dir, _ := cmd.Root().PersistentFlags().GetString("data-dir")
	if dir == "" {
		dir = settings.DefaultDataDir()
	}
	return installation.At(dir)
}

// applyAssumeYes copies the --yes flag onto the console before any
// prompting happens.
func applyAssumeYes(cmd *cobra.Command, app *App) {
	yes, _ := cmd.Root().PersistentFlags().GetBool("yes")
	if yes {
		app.Console.AssumeYes = true
	}
}
