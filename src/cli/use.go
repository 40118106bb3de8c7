package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"agentstack/src/installation"
	"agentstack/src/settings"
)

func newUseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "use DATA_DIR",
		Short: "Switch the active installation",
		Long: `Switch the active installation.

DATA_DIR is a directory path or a 1-based index into 'agentstack list'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := settings.Load()

			dir := args[0]
			if idx, err := strconv.Atoi(dir); err == nil {
				paths := s.Paths()
				if idx < 1 || idx > len(paths) {
					return fmt.Errorf("installation index %d out of range (%d registered)", idx, len(paths))
				}
				dir = paths[idx-1]
			}
			inst, err := installation.At(dir)
			if err != nil {
				return err
			}
			if !inst.Exists() {
				return fmt.Errorf("directory does not exist: %s", inst.DataDir)
			}
			if !inst.HasDescriptor() {
				app.Console.Warning("%s does not look like an installed data directory", inst.DataDir)
			}

			s.SetCurrent(inst.DataDir, time.Now())
			if err := settings.Save(s); err != nil {
				return err
			}
			app.Console.Success("active installation: %s", inst.DataDir)
			app.Console.Info("subsequent commands will operate on this directory")
			return nil
		},
	}
}
