package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

func newVersionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the agentstack version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(app.Console.Out, "agentstack %s\n", Version)
			return nil
		},
	}
}
