package cli

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"agentstack/src/appconfig"
	"agentstack/src/installation"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Edit the application configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			applyAssumeYes(cmd, app)
			inst, err := resolveInstallation(cmd)
			if err != nil {
				return err
			}
			return runConfigWizard(app, inst)
		},
	}
	cmd.AddCommand(newConfigGetCmd(app))
	cmd.AddCommand(newConfigSetCmd(app))
	cmd.AddCommand(newConfigShowCmd(app))
	cmd.AddCommand(newConfigAdminCmd(app))
	return cmd
}

// runConfigWizard walks the operator through the model group and the
// admin list, then offers a service restart.
func runConfigWizard(app *App, inst installation.Installation) error {
	doc, err := appconfig.Load(inst)
	if err != nil {
		return err
	}
	if len(doc) == 0 {
		app.Console.Warning("configuration is missing or empty; install and start the stack first")
		ok, err := app.Console.Confirm("continue anyway?", false)
		if err != nil || !ok {
			return err
		}
	}

	app.Console.Info("model API configuration")
	groups := appconfig.ModelGroups(doc)
	current, _ := groups["default"].(map[string]any)
	baseURL, err := app.Console.Prompt("API base URL", strVal(current, "BASE_URL"))
	if err != nil {
		return err
	}
	apiKey, err := app.Console.Prompt("API key", strVal(current, "API_KEY"))
	if err != nil {
		return err
	}
	model, err := app.Console.Prompt("chat model", strVal(current, "CHAT_MODEL"))
	if err != nil {
		return err
	}
	appconfig.SetModelGroup(doc, "default", baseURL, apiKey, model, nil)

	users := appconfig.AdminUsers(doc)
	if len(users) > 0 {
		app.Console.Info("current admins: %s", strings.Join(users, ", "))
	}
	added, err := app.Console.Prompt("add admin IDs (comma separated, empty to skip)", "")
	if err != nil {
		return err
	}
	if added != "" {
		for _, u := range strings.Split(added, ",") {
			if u = strings.TrimSpace(u); u != "" && !contains(users, u) {
				users = append(users, u)
			}
		}
		appconfig.SetAdminUsers(doc, users)
	}

	if err := appconfig.Save(inst, doc); err != nil {
		return err
	}
	app.Console.Success("configuration saved: %s", inst.AppConfigPath())
	return offerRestart(app, inst)
}

// offerRestart prompts to restart the agent service so saved config
// changes take effect.
func offerRestart(app *App, inst installation.Installation) error {
	if !inst.HasDescriptor() || !app.Runner.ComposeAvailable() {
		app.Console.Info("changes take effect after the service restarts")
		return nil
	}
	ok, err := app.Console.Confirm("restart the agent service now?", false)
	if err != nil {
		return err
	}
	if !ok {
		app.Console.Info("changes take effect after the service restarts")
		return nil
	}
	if err := app.Runner.RestartService(inst.DataDir, inst.EnvPath(), "agent"); err != nil {
		app.Console.Warning("restart failed, restart manually: %v", err)
		return nil
	}
	app.Console.Success("service restarted")
	return nil
}

func newConfigGetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Print a configuration value by dotted path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := resolveInstallation(cmd)
			if err != nil {
				return err
			}
			doc, err := appconfig.Load(inst)
			if err != nil {
				return err
			}
			value := appconfig.Get(doc, args[0])
			if value == nil {
				// Most settings live under the system section.
				value = appconfig.Get(doc, "system."+args[0])
			}
			if value == nil {
				return fmt.Errorf("no such configuration key: %s", args[0])
			}
			fmt.Fprintf(app.Console.Out, "%s = %v\n", args[0], value)
			return nil
		},
	}
}

func newConfigSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value by dotted path",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			applyAssumeYes(cmd, app)
			inst, err := resolveInstallation(cmd)
			if err != nil {
				return err
			}
			doc, err := appconfig.Load(inst)
			if err != nil {
				return err
			}
			appconfig.Set(doc, args[0], parseScalar(args[1]))
			if err := appconfig.Save(inst, doc); err != nil {
				return err
			}
			app.Console.Success("set %s", args[0])
			return offerRestart(app, inst)
		},
	}
}

func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show a configuration summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := resolveInstallation(cmd)
			if err != nil {
				return err
			}
			doc, err := appconfig.Load(inst)
			if err != nil {
				return err
			}
			if len(doc) == 0 {
				app.Console.Warning("configuration is missing or empty")
				return nil
			}

			groups := appconfig.ModelGroups(doc)
			if len(groups) > 0 {
				app.Console.Info("model groups:")
				tw := tabwriter.NewWriter(app.Console.Out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "NAME\tMODEL\tBASE_URL")
				for name, raw := range groups {
					group, _ := raw.(map[string]any)
					fmt.Fprintf(tw, "%s\t%s\t%s\n", name, strVal(group, "CHAT_MODEL"), strVal(group, "BASE_URL"))
				}
				if err := tw.Flush(); err != nil {
					return err
				}
			}

			users := appconfig.AdminUsers(doc)
			admins := "none"
			if len(users) > 0 {
				admins = strings.Join(users, ", ")
			}
			app.Console.Info("admins: %s", admins)
			return nil
		},
	}
}

func newConfigAdminCmd(app *App) *cobra.Command {
	var addUser, removeUser string
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage the admin user list",
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := resolveInstallation(cmd)
			if err != nil {
				return err
			}
			doc, err := appconfig.Load(inst)
			if err != nil {
				return err
			}
			users := appconfig.AdminUsers(doc)

			switch {
			case addUser != "":
				if contains(users, addUser) {
					app.Console.Info("%s is already an admin", addUser)
					return nil
				}
				appconfig.SetAdminUsers(doc, append(users, addUser))
				if err := appconfig.Save(inst, doc); err != nil {
					return err
				}
				app.Console.Success("added admin: %s", addUser)
			case removeUser != "":
				if !contains(users, removeUser) {
					app.Console.Warning("%s is not an admin", removeUser)
					return nil
				}
				kept := users[:0]
				for _, u := range users {
					if u != removeUser {
						kept = append(kept, u)
					}
				}
				appconfig.SetAdminUsers(doc, kept)
				if err := appconfig.Save(inst, doc); err != nil {
					return err
				}
				app.Console.Success("removed admin: %s", removeUser)
			default:
				admins := "none"
				if len(users) > 0 {
					admins = strings.Join(users, ", ")
				}
				app.Console.Info("admins: %s", admins)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addUser, "add", "", "Admin ID to add")
	cmd.Flags().StringVar(&removeUser, "remove", "", "Admin ID to remove")
	return cmd
}

// parseScalar converts a CLI string to bool, int, or float when it
// looks like one, keeping YAML round-trips typed.
func parseScalar(s string) any {
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func strVal(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

func contains(list []string, item string) bool {
	for _, s := range list {
		if s == item {
			return true
		}
	}
	return false
}
