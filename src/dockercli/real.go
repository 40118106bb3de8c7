package dockercli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"agentstack/src/envfile"
)

// Real shells out to docker and docker compose.
type Real struct {
	dockerPath string
	composeCmd []string
}

// NewReal probes for docker and a compose implementation. The returned
// runner is usable even when neither is present; the availability
// methods report what was found.
func NewReal() *Real {
	r := &Real{}
	if path, err := exec.LookPath("docker"); err == nil {
		r.dockerPath = path
		// Prefer the compose V2 plugin.
		if exec.Command(path, "compose", "version").Run() == nil {
			r.composeCmd = []string{path, "compose"}
		}
	}
	if r.composeCmd == nil {
		if path, err := exec.LookPath("docker-compose"); err == nil {
			r.composeCmd = []string{path}
		}
	}
	return r
}

func (r *Real) DockerAvailable() bool  { return r.dockerPath != "" }
func (r *Real) ComposeAvailable() bool { return r.composeCmd != nil }

func (r *Real) Version() (string, error) {
	if r.dockerPath == "" {
		return "", fmt.Errorf("docker is not installed")
	}
	out, err := exec.Command(r.dockerPath, "--version").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// compose builds a compose invocation for the installation directory.
// Keys defined in the env file are removed from the child environment:
// compose gives shell variables precedence over --env-file values, and
// the file must win for the installation to be self-contained.
func (r *Real) compose(dir, envFile string, args ...string) (*exec.Cmd, error) {
	if r.composeCmd == nil {
		return nil, fmt.Errorf("docker compose is not installed")
	}
	argv := append([]string{}, r.composeCmd[1:]...)
	if envFile != "" {
		argv = append(argv, "--env-file", envFile)
	}
	argv = append(argv, args...)
	cmd := exec.Command(r.composeCmd[0], argv...)
	cmd.Dir = dir
	if envFile != "" {
		keys, err := envfile.Load(envFile)
		if err == nil && len(keys) > 0 {
			cmd.Env = environWithout(keys)
		}
	}
	return cmd, nil
}

func environWithout(keys map[string]string) []string {
	env := os.Environ()
	out := env[:0]
	for _, kv := range env {
		name, _, _ := strings.Cut(kv, "=")
		if _, drop := keys[name]; !drop {
			out = append(out, kv)
		}
	}
	return out
}

// runQuiet runs a command and folds its combined output into the error
// so callers (and the permission classifier) can see the tool's message.
func runQuiet(cmd *exec.Cmd) error {
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", cmd.Args[0], err, strings.TrimSpace(string(out)))
	}
	return nil
}

func (r *Real) composeRun(dir, envFile string, args ...string) error {
	cmd, err := r.compose(dir, envFile, args...)
	if err != nil {
		return err
	}
	return runQuiet(cmd)
}

func (r *Real) Up(dir, envFile string) error {
	return r.composeRun(dir, envFile, "up", "-d")
}

func (r *Real) UpNoStart(dir, envFile string) error {
	return r.composeRun(dir, envFile, "up", "--no-start")
}

func (r *Real) Down(dir, envFile string) error {
	return r.composeRun(dir, envFile, "down")
}

func (r *Real) Pull(dir, envFile string) error {
	return r.composeRun(dir, envFile, "pull")
}

func (r *Real) PS(dir, envFile string) (string, error) {
	cmd, err := r.compose(dir, envFile, "ps")
	if err != nil {
		return "", err
	}
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (r *Real) Logs(dir, envFile, service string, follow bool, tail int) error {
	args := []string{"logs", fmt.Sprintf("--tail=%d", tail)}
	if follow {
		args = append(args, "-f")
	}
	args = append(args, service)
	cmd, err := r.compose(dir, envFile, args...)
	if err != nil {
		return err
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	return cmd.Run()
}

func (r *Real) RestartService(dir, envFile, service string) error {
	return r.composeRun(dir, envFile, "restart", service)
}

func (r *Real) ResolvedConfig(dir, envFile string) ([]byte, error) {
	cmd, err := r.compose(dir, envFile, "config")
	if err != nil {
		return nil, err
	}
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("compose config: %w", err)
	}
	return out, nil
}

// containerMount mirrors the fields of `docker inspect` Mounts entries
// the resolver needs.
type containerMount struct {
	Type        string `json:"Type"`
	Name        string `json:"Name"`
	Destination string `json:"Destination"`
}

func (r *Real) IntrospectMount(dir, envFile, service, containerPath string) (string, error) {
	// -a includes created-but-stopped containers; introspection only
	// needs the container to have existed once.
	cmd, err := r.compose(dir, envFile, "ps", "-a", "-q", service)
	if err != nil {
		return "", err
	}
	out, err := cmd.Output()
	if err != nil {
		return "", nil // service unknown to compose: unresolved, not fatal
	}
	containerID := strings.TrimSpace(strings.SplitN(string(out), "\n", 2)[0])
	if containerID == "" {
		return "", nil
	}

	inspect := exec.Command(r.dockerPath, "inspect", "--format", "{{json .Mounts}}", containerID)
	data, err := inspect.Output()
	if err != nil {
		return "", nil
	}
	var mounts []containerMount
	if err := json.Unmarshal(data, &mounts); err != nil {
		return "", err
	}
	for _, m := range mounts {
		if m.Type == "volume" && m.Destination == containerPath {
			return m.Name, nil
		}
	}
	return "", nil
}

func (r *Real) PullImage(image, mirror string) error {
	if r.dockerPath == "" {
		return fmt.Errorf("docker is not installed")
	}
	target := image
	if mirror != "" {
		target = mirror + "/" + image
	}
	if err := runQuiet(exec.Command(r.dockerPath, "pull", target)); err != nil {
		return err
	}
	if mirror != "" {
		// Tag the mirror pull back to its canonical name so other
		// invocations find it.
		_ = exec.Command(r.dockerPath, "tag", target, image).Run()
	}
	return nil
}

func (r *Real) RunEphemeral(image string, binds []Bind, cmd []string) error {
	if r.dockerPath == "" {
		return fmt.Errorf("docker is not installed")
	}
	args := []string{"run", "--rm"}
	for _, b := range binds {
		spec := b.Source + ":" + b.Target
		if b.ReadOnly {
			spec += ":ro"
		}
		args = append(args, "-v", spec)
	}
	args = append(args, image)
	args = append(args, cmd...)
	return runQuiet(exec.Command(r.dockerPath, args...))
}
