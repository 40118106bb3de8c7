// Package volume maps the stack's data services to the named volumes
// backing their in-container data paths.
package volume

import (
	"agentstack/src/compose"
	"agentstack/src/console"
	"agentstack/src/dockercli"
	"agentstack/src/installation"
)

// Target binds a known service to its well-known data path inside the
// container and the fixed filename its snapshot uses inside a backup
// archive. ArchiveEntry is the join key between backup-time and
// restore-time resolution: concrete volume names change across
// reinstalls, archive entry names do not.
type Target struct {
	Service       string
	ContainerPath string
	ArchiveEntry  string
}

// Targets is the static table of volume-backed services. Evaluation
// order follows declaration order.
var Targets = []Target{
	{Service: "postgres", ContainerPath: "/var/lib/postgresql/data", ArchiveEntry: "postgres_data.tar.gz"},
	{Service: "qdrant", ContainerPath: "/qdrant/storage", ArchiveEntry: "qdrant_data.tar.gz"},
}

// Resolved pairs a target with the concrete volume backing it right
// now. Never persisted; recomputed for every operation.
type Resolved struct {
	Target     Target
	VolumeName string
}

// Resolver finds concrete volumes for targets, preferring live
// container introspection and falling back to the resolved compose
// configuration.
type Resolver struct {
	Runner  dockercli.Runner
	Console *console.Console
}

// Resolve returns the targets that could be bound to a concrete
// volume. Unresolvable targets are reported and omitted: an
// installation running only a subset of the optional services is
// normal, and partial backups are expected.
func (r Resolver) Resolve(inst installation.Installation, targets []Target) []Resolved {
	var cfg *compose.Config
	cfgLoaded := false

	var out []Resolved
	for _, t := range targets {
		name, err := r.Runner.IntrospectMount(inst.DataDir, inst.EnvPath(), t.Service, t.ContainerPath)
		if err != nil {
			r.Console.Warning("mount introspection for %s failed: %v", t.Service, err)
		}
		if name == "" {
			// Static fallback over the resolved configuration,
			// fetched once for all targets.
			if !cfgLoaded {
				cfgLoaded = true
				if data, err := r.Runner.ResolvedConfig(inst.DataDir, inst.EnvPath()); err == nil {
					if parsed, err := compose.ParseConfig(data); err == nil {
						cfg = parsed
					}
				}
			}
			name = cfg.VolumeSource(t.Service, t.ContainerPath)
		}
		if name == "" {
			r.Console.Info("no volume found for service %s, skipping", t.Service)
			continue
		}
		out = append(out, Resolved{Target: t, VolumeName: name})
	}
	return out
}
