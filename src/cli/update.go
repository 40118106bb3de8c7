package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"agentstack/src/compose"
	"agentstack/src/envfile"
	"agentstack/src/installation"
	"agentstack/src/privilege"
)

func newUpdateCmd(app *App) *cobra.Command {
	var skipSandbox bool
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update the stack to the latest images",
		RunE: func(cmd *cobra.Command, args []string) error {
			applyAssumeYes(cmd, app)
			inst, err := resolveInstallation(cmd)
			if err != nil {
				return err
			}
			if !inst.HasDescriptor() {
				return fmt.Errorf("no installation found at %s; run 'agentstack install' first", inst.DataDir)
			}
			if inst.EnvPath() == "" {
				return fmt.Errorf("missing .env in %s", inst.DataDir)
			}
			if !app.Runner.DockerAvailable() || !app.Runner.ComposeAvailable() {
				return fmt.Errorf("docker environment is not available")
			}
			return privilege.Run(app.Console, app.Elevate, func() error {
				return runUpdate(app, inst, !skipSandbox)
			})
		},
	}
	cmd.Flags().BoolVar(&skipSandbox, "no-update-sandbox", false, "Do not update the sandbox image")
	return cmd
}

func runUpdate(app *App, inst installation.Installation, updateSandbox bool) error {
	envPath := inst.EnvPath()

	app.Console.Info("pulling latest images...")
	if err := app.Runner.Pull(inst.DataDir, envPath); err != nil {
		return fmt.Errorf("image pull failed: %w", err)
	}

	app.Console.Info("restarting services...")
	if err := app.Runner.Up(inst.DataDir, envPath); err != nil {
		return fmt.Errorf("service restart failed: %w", err)
	}

	if updateSandbox {
		app.Console.Info("updating sandbox image...")
		env, _ := envfile.Load(envPath)
		mirror := compose.NormalizeMirror(env["MIRROR_REGISTRY"])
		if err := app.Runner.PullImage(sandboxImage, mirror); err != nil {
			app.Console.Warning("sandbox image update failed, update it manually later")
		}
	}

	app.Console.Success("update complete")
	return nil
}
