package envfile

import (
	"fmt"
	"os"
	"path/filepath"

	"agentstack/src/console"
	"agentstack/src/netfetch"
	"agentstack/src/util/randkey"
)

const exampleFilename = ".env.example"

// SetupOptions controls .env synthesis during install.
type SetupOptions struct {
	WithBridge bool
	Port       int // 0 means prompt / default
}

// Setup creates or completes the installation's .env: downloads the
// template when absent, fills in ports and the registry mirror, and
// generates the secrets the stack expects. Returns the .env path.
func Setup(dataDir string, c *console.Console, opts SetupOptions) (string, error) {
	envPath := filepath.Join(dataDir, ".env")

	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		examplePath := filepath.Join(dataDir, exampleFilename)
		if _, err := os.Stat(examplePath); os.IsNotExist(err) {
			c.Info("downloading %s template...", exampleFilename)
			if err := netfetch.File(exampleFilename, examplePath); err != nil {
				return "", fmt.Errorf("download %s: %w", exampleFilename, err)
			}
		}
		data, err := os.ReadFile(examplePath)
		if err != nil {
			return "", err
		}
		if err := os.WriteFile(envPath, data, 0o644); err != nil {
			return "", err
		}
		c.Info("created .env: %s", envPath)
	}

	env, err := Load(envPath)
	if err != nil {
		return "", err
	}

	env["AGENT_DATA_DIR"] = dataDir

	if opts.Port > 0 {
		env["AGENT_EXPOSE_PORT"] = fmt.Sprintf("%d", opts.Port)
	} else if env["AGENT_EXPOSE_PORT"] == "" {
		port, err := c.Prompt("service port", "8021")
		if err != nil {
			return "", err
		}
		env["AGENT_EXPOSE_PORT"] = port
	}

	if opts.WithBridge && env["BRIDGE_EXPOSE_PORT"] == "" {
		port, err := c.Prompt("messaging bridge port", "6099")
		if err != nil {
			return "", err
		}
		env["BRIDGE_EXPOSE_PORT"] = port
	}

	if _, ok := env["MIRROR_REGISTRY"]; !ok {
		mirror, err := c.Prompt("registry mirror (optional, e.g. mirror.example.com)", "")
		if err != nil {
			return "", err
		}
		env["MIRROR_REGISTRY"] = mirror
	}

	generated := map[string]int{
		"AGENT_ACCESS_TOKEN":   32,
		"AGENT_ADMIN_PASSWORD": 16,
		"QDRANT_API_KEY":       32,
	}
	for key, length := range generated {
		if env[key] == "" {
			env[key] = randkey.String(length)
			c.Info("generated %s", key)
		}
	}

	defaults := map[string]string{
		"POSTGRES_USER":     "agent",
		"POSTGRES_PASSWORD": "agent",
		"POSTGRES_DATABASE": "agent",
	}
	for key, value := range defaults {
		if env[key] == "" {
			env[key] = value
		}
	}

	if err := Save(envPath, env); err != nil {
		return "", err
	}
	c.Success(".env saved: %s", envPath)
	return envPath, nil
}
