package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"agentstack/src/catalog"
)

func newBackupsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "backups",
		Short: "List the installation's backup catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := resolveInstallation(cmd)
			if err != nil {
				return err
			}
			entries, err := catalog.List(inst)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				app.Console.Info("no backups found in %s", catalog.Dir(inst))
				return nil
			}
			tw := tabwriter.NewWriter(app.Console.Out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "INDEX\tCREATED\tSIZE\tPATH")
			for i, e := range entries {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n",
					i+1,
					e.CreatedAt.Format("2006-01-02 15:04:05"),
					humanize.Bytes(uint64(e.Size)),
					e.Path,
				)
			}
			return tw.Flush()
		},
	}
}
