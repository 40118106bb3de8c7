package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLogsCmd(app *App) *cobra.Command {
	var follow bool
	var tail int
	cmd := &cobra.Command{
		Use:   "logs [SERVICE]",
		Short: "Show logs for a service (default: agent)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service := "agent"
			if len(args) == 1 {
				service = args[0]
			}
			inst, err := resolveInstallation(cmd)
			if err != nil {
				return err
			}
			if !inst.HasDescriptor() {
				return fmt.Errorf("no installation found at %s", inst.DataDir)
			}
			if !app.Runner.ComposeAvailable() {
				return fmt.Errorf("docker compose is not available")
			}
			return app.Runner.Logs(inst.DataDir, inst.EnvPath(), service, follow, tail)
		},
	}
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Follow log output")
	cmd.Flags().IntVarP(&tail, "tail", "n", 100, "Number of trailing lines to show")
	return cmd
}
