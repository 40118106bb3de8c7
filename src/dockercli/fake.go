package dockercli

import (
	"fmt"
	"strings"
)

// Fake is an in-memory Runner for unit tests. Mount tables, resolved
// config, and ephemeral behavior are supplied by the test; every call
// is recorded in Calls.
type Fake struct {
	Docker  bool
	Compose bool

	// Mounts maps "service\x00containerPath" to a volume name for
	// IntrospectMount. Use SetMount to populate it.
	Mounts map[string]string

	// Config is returned by ResolvedConfig.
	Config []byte

	// PSOutput is returned by PS.
	PSOutput string

	// Running tracks the simulated service-group state.
	Running bool

	// EphemeralFunc, when set, implements RunEphemeral so tests can
	// materialize snapshot files. A nil func succeeds silently.
	EphemeralFunc func(image string, binds []Bind, cmd []string) error

	// Error injection per operation name ("up", "down", "pull", ...).
	Errors map[string]error

	Calls []string
}

// NewFake returns a fake with docker and compose available.
func NewFake() *Fake {
	return &Fake{Docker: true, Compose: true, Mounts: map[string]string{}, Errors: map[string]error{}}
}

// SetMount registers a live-introspection result.
func (f *Fake) SetMount(service, containerPath, volume string) {
	if f.Mounts == nil {
		f.Mounts = map[string]string{}
	}
	f.Mounts[service+"\x00"+containerPath] = volume
}

func (f *Fake) record(op string, args ...string) {
	call := op
	if len(args) > 0 {
		call += " " + strings.Join(args, " ")
	}
	f.Calls = append(f.Calls, call)
}

func (f *Fake) fail(op string) error {
	if err, ok := f.Errors[op]; ok {
		return err
	}
	return nil
}

func (f *Fake) DockerAvailable() bool  { return f.Docker }
func (f *Fake) ComposeAvailable() bool { return f.Compose }

func (f *Fake) Version() (string, error) {
	if !f.Docker {
		return "", fmt.Errorf("docker is not installed")
	}
	return "Docker version 27.0.0 (fake)", nil
}

func (f *Fake) Up(dir, envFile string) error {
	f.record("up", dir)
	if err := f.fail("up"); err != nil {
		return err
	}
	f.Running = true
	return nil
}

func (f *Fake) UpNoStart(dir, envFile string) error {
	f.record("up-no-start", dir)
	return f.fail("up-no-start")
}

func (f *Fake) Down(dir, envFile string) error {
	f.record("down", dir)
	if err := f.fail("down"); err != nil {
		return err
	}
	f.Running = false
	return nil
}

func (f *Fake) Pull(dir, envFile string) error {
	f.record("pull", dir)
	return f.fail("pull")
}

func (f *Fake) PS(dir, envFile string) (string, error) {
	f.record("ps", dir)
	return f.PSOutput, f.fail("ps")
}

func (f *Fake) Logs(dir, envFile, service string, follow bool, tail int) error {
	f.record("logs", service)
	return f.fail("logs")
}

func (f *Fake) RestartService(dir, envFile, service string) error {
	f.record("restart", service)
	return f.fail("restart")
}

func (f *Fake) ResolvedConfig(dir, envFile string) ([]byte, error) {
	f.record("config", dir)
	if err := f.fail("config"); err != nil {
		return nil, err
	}
	if f.Config == nil {
		return nil, fmt.Errorf("no resolved config")
	}
	return f.Config, nil
}

func (f *Fake) IntrospectMount(dir, envFile, service, containerPath string) (string, error) {
	f.record("introspect", service, containerPath)
	if err := f.fail("introspect"); err != nil {
		return "", err
	}
	return f.Mounts[service+"\x00"+containerPath], nil
}

func (f *Fake) PullImage(image, mirror string) error {
	f.record("pull-image", image, mirror)
	return f.fail("pull-image")
}

func (f *Fake) RunEphemeral(image string, binds []Bind, cmd []string) error {
	f.record("ephemeral", image)
	if err := f.fail("ephemeral"); err != nil {
		return err
	}
	if f.EphemeralFunc != nil {
		return f.EphemeralFunc(image, binds, cmd)
	}
	return nil
}
