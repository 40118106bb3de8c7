package cli

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"agentstack/src/compose"
	"agentstack/src/envfile"
	"agentstack/src/installation"
	"agentstack/src/netfetch"
	"agentstack/src/settings"
)

// sandboxImage is the code-execution sandbox pulled alongside the
// stack; it is run directly by the agent, not by compose.
const sandboxImage = "agentstack/agent-sandbox"

func newInstallCmd(app *App) *cobra.Command {
	var withBridge bool
	var port int
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install the agent stack into a data directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			applyAssumeYes(cmd, app)

			app.Console.Info("=== agent stack installer ===")
			if !ensureDocker(app) {
				return fmt.Errorf("docker environment is not available")
			}

			dir, _ := cmd.Root().PersistentFlags().GetString("data-dir")
			var err error
			if dir == "" {
				dir, err = app.Console.Prompt("data directory", settings.DefaultDataDir())
				if err != nil {
					return err
				}
			}
			inst, err := installation.At(dir)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(inst.DataDir, 0o755); err != nil {
				return err
			}
			app.Console.Info("data directory: %s", inst.DataDir)

			if !cmd.Flags().Changed("with-bridge") {
				withBridge, err = app.Console.Confirm("also run the messaging bridge service?", true)
				if err != nil {
					return err
				}
			}

			app.Console.Info("configuring .env...")
			envPath, err := envfile.Setup(inst.DataDir, app.Console, envfile.SetupOptions{WithBridge: withBridge, Port: port})
			if err != nil {
				return err
			}

			ok, err := app.Console.Confirm("configuration written; continue with the install?", true)
			if err != nil {
				return err
			}
			if !ok {
				app.Console.Info("install cancelled; edit .env and re-run install")
				return nil
			}

			app.Console.Info("downloading %s...", compose.DescriptorFile)
			if err := compose.Download(inst.DataDir, withBridge); err != nil {
				return fmt.Errorf("download descriptor: %w", err)
			}

			env, err := envfile.Load(envPath)
			if err != nil {
				return err
			}
			mirror := compose.NormalizeMirror(env["MIRROR_REGISTRY"])
			if mirror != "" {
				app.Console.Info("applying registry mirror: %s", mirror)
				if err := compose.ApplyMirror(inst.DataDir, mirror); err != nil {
					return err
				}
			}

			app.Console.Info("pulling service images...")
			if err := app.Runner.Pull(inst.DataDir, envPath); err != nil {
				return fmt.Errorf("image pull failed: %w", err)
			}

			app.Console.Info("starting services...")
			if err := app.Runner.Up(inst.DataDir, envPath); err != nil {
				return fmt.Errorf("service start failed: %w", err)
			}

			app.Console.Info("pulling sandbox image...")
			if err := app.Runner.PullImage(sandboxImage, mirror); err != nil {
				app.Console.Warning("sandbox image pull failed, pull it later with: docker pull %s", sandboxImage)
			}

			s := settings.Load()
			s.SetCurrent(inst.DataDir, time.Now())
			if err := settings.Save(s); err != nil {
				app.Console.Warning("could not record installation in settings: %v", err)
			}

			lines := []string{
				fmt.Sprintf("data directory: %s", inst.DataDir),
				fmt.Sprintf("service port:   %s", env["AGENT_EXPOSE_PORT"]),
				fmt.Sprintf("web access:     http://127.0.0.1:%s", env["AGENT_EXPOSE_PORT"]),
				"",
				"admin account:  admin",
				fmt.Sprintf("admin password: %s", env["AGENT_ADMIN_PASSWORD"]),
				fmt.Sprintf("access token:   %s", env["AGENT_ACCESS_TOKEN"]),
			}
			if withBridge {
				lines = append(lines, fmt.Sprintf("bridge port:    %s", env["BRIDGE_EXPOSE_PORT"]))
			}
			lines = append(lines,
				"",
				"logs:   agentstack logs agent",
				"status: agentstack status",
			)
			app.Console.Panel("deployment complete", lines)
			return nil
		},
	}
	cmd.Flags().BoolVar(&withBridge, "with-bridge", false, "Include the messaging bridge service")
	cmd.Flags().IntVar(&port, "port", 0, "Service port to expose")
	return cmd
}

// ensureDocker verifies docker and compose are present, offering the
// official install script on Linux when they are not.
func ensureDocker(app *App) bool {
	if app.Runner.DockerAvailable() && app.Runner.ComposeAvailable() {
		if version, err := app.Runner.Version(); err == nil {
			app.Console.Success("docker found: %s", version)
		}
		return true
	}

	if runtime.GOOS != "linux" {
		app.Console.Error("docker is not installed; install Docker Desktop and re-run")
		return false
	}

	app.Console.Warning("docker is not installed")
	ok, err := app.Console.Confirm("install docker via the official script?", true)
	if err != nil || !ok {
		return false
	}
	if err := installDockerLinux(app); err != nil {
		app.Console.Error("docker install failed: %v", err)
		return false
	}
	app.Console.Success("docker installed; re-run 'agentstack install' to continue")
	return false
}

func installDockerLinux(app *App) error {
	script, err := os.CreateTemp("", "get-docker-*.sh")
	if err != nil {
		return err
	}
	script.Close()
	defer os.Remove(script.Name())

	if err := netfetch.URL("https://get.docker.com", script.Name()); err != nil {
		return fmt.Errorf("download install script: %w", err)
	}

	cmd := exec.Command("sh", script.Name())
	if os.Geteuid() != 0 {
		cmd = exec.Command("sudo", "sh", script.Name())
	}
	cmd.Stdout = app.Console.Out
	cmd.Stderr = app.Console.Err
	cmd.Stdin = app.Console.In
	return cmd.Run()
}
