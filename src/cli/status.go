package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/spf13/cobra"
)

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show service and host status",
		RunE: func(cmd *cobra.Command, args []string) error {
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

			app.Console.Info("data directory: %s", inst.DataDir)
			printHostSummary(app, inst.DataDir)

			out, err := app.Runner.PS(inst.DataDir, inst.EnvPath())
			if err != nil {
				return err
			}
			if out == "" {
				app.Console.Info("no services running")
				return nil
			}
			fmt.Fprint(app.Console.Out, out)
			return nil
		},
	}
}

// printHostSummary prints a one-line host resource overview; any probe
// failure just drops its field.
func printHostSummary(app *App, dataDir string) {
	var parts []string
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		parts = append(parts, fmt.Sprintf("cpu %.0f%%", percents[0]))
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		parts = append(parts, fmt.Sprintf("mem %s/%s", humanize.Bytes(vm.Used), humanize.Bytes(vm.Total)))
	}
	if du, err := disk.Usage(dataDir); err == nil {
		parts = append(parts, fmt.Sprintf("disk %s free", humanize.Bytes(du.Free)))
	}
	if len(parts) == 0 {
		return
	}
	line := parts[0]
	for _, p := range parts[1:] {
		line += ", " + p
	}
	app.Console.Info("host: %s", line)
}
