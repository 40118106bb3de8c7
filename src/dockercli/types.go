// Package dockercli wraps the docker and docker compose command-line
// tools behind a narrow interface. Keep it small and focused on what
// the commands actually need so it stays fakeable in tests.
package dockercli

// Bind is a host-path or named-volume mount for an ephemeral container.
type Bind struct {
	Source   string // host path or volume name
	Target   string // container path
	ReadOnly bool
}

// Runner is the orchestration command surface. All calls are
// synchronous; failures surface as errors (carrying tool output) or as
// empty results, never as silent corruption.
type Runner interface {
	// Availability probes.
	DockerAvailable() bool
	ComposeAvailable() bool
	Version() (string, error)

	// Service group lifecycle. envFile may be "" when the
	// installation has no .env.
	Up(dir, envFile string) error
	// UpNoStart creates the service containers without starting
	// them, so volumes and mount points exist for introspection.
	UpNoStart(dir, envFile string) error
	Down(dir, envFile string) error
	Pull(dir, envFile string) error
	PS(dir, envFile string) (string, error)
	Logs(dir, envFile, service string, follow bool, tail int) error
	RestartService(dir, envFile, service string) error

	// ResolvedConfig returns the output of `compose config` for the
	// installation, with env interpolation applied.
	ResolvedConfig(dir, envFile string) ([]byte, error)

	// IntrospectMount returns the named volume backing the given
	// container path of a service, or "" when the container has
	// never been created or no volume mount matches.
	IntrospectMount(dir, envFile, service, containerPath string) (string, error)

	// PullImage pulls a single image, optionally through a registry
	// mirror, retagging mirror pulls back to the original name.
	PullImage(image, mirror string) error

	// RunEphemeral runs a disposable, auto-removing container.
	RunEphemeral(image string, binds []Bind, cmd []string) error
}
