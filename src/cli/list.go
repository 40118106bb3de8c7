package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"agentstack/src/settings"
)

func newListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered installations",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := settings.Load()
			paths := s.Paths()
			if len(paths) == 0 {
				app.Console.Info("no installations registered")
				return nil
			}

			tw := tabwriter.NewWriter(app.Console.Out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, " \tINDEX\tPATH\tLAST_USED")
			for i, path := range paths {
				marker := " "
				if path == s.CurrentDataDir {
					marker = "*"
				}
				lastUsed := "-"
				if ts := s.Installations[path].LastUsed; ts > 0 {
					lastUsed = time.Unix(ts, 0).Format("2006-01-02 15:04:05")
				}
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", marker, i+1, path, lastUsed)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if s.CurrentDataDir == "" {
				app.Console.Info("no active installation; pick one with 'agentstack use <index>'")
			}
			return nil
		},
	}
}
