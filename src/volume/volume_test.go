package volume

import (
	"io"
	"strings"
	"testing"

	"agentstack/src/console"
	"agentstack/src/dockercli"
	"agentstack/src/installation"
)

func testConsole() *console.Console {
	return &console.Console{In: strings.NewReader(""), Out: io.Discard, Err: io.Discard}
}

const resolvedConfig = `
services:
  postgres:
    image: postgres:14
    volumes:
      - type: volume
        source: agent_data_postgres
        target: /var/lib/postgresql/data
  qdrant:
    image: qdrant/qdrant:latest
    volumes:
      - type: volume
        source: agent_data_qdrant
        target: /qdrant/storage
`

func TestResolvePrefersLiveIntrospection(t *testing.T) {
	fake := dockercli.NewFake()
	fake.SetMount("postgres", "/var/lib/postgresql/data", "live_postgres")
	fake.Config = []byte(resolvedConfig)

	r := Resolver{Runner: fake, Console: testConsole()}
	got := r.Resolve(installation.Installation{DataDir: "/tmp/agent_data"}, Targets[:1])
	if len(got) != 1 {
		t.Fatalf("resolved %d targets, want 1", len(got))
	}
	if got[0].VolumeName != "live_postgres" {
		t.Fatalf("VolumeName = %q, want live introspection result", got[0].VolumeName)
	}
	for _, call := range fake.Calls {
		if strings.HasPrefix(call, "config") {
			t.Fatalf("static config consulted despite live hit: %v", fake.Calls)
		}
	}
}

func TestResolveFallsBackToStaticConfig(t *testing.T) {
	fake := dockercli.NewFake()
	fake.Config = []byte(resolvedConfig)

	r := Resolver{Runner: fake, Console: testConsole()}
	got := r.Resolve(installation.Installation{DataDir: "/tmp/agent_data"}, Targets)
	if len(got) != 2 {
		t.Fatalf("resolved %d targets, want 2", len(got))
	}
	if got[0].VolumeName != "agent_data_postgres" || got[1].VolumeName != "agent_data_qdrant" {
		t.Fatalf("unexpected volumes: %+v", got)
	}

	// The config is fetched once for the whole pass.
	fetches := 0
	for _, call := range fake.Calls {
		if strings.HasPrefix(call, "config") {
			fetches++
		}
	}
	if fetches != 1 {
		t.Fatalf("resolved config fetched %d times, want 1", fetches)
	}
}

func TestResolveSkipsUnresolvableTargets(t *testing.T) {
	fake := dockercli.NewFake()
	fake.SetMount("postgres", "/var/lib/postgresql/data", "live_postgres")
	// No qdrant mount and no usable static config.

	r := Resolver{Runner: fake, Console: testConsole()}
	got := r.Resolve(installation.Installation{DataDir: "/tmp/agent_data"}, Targets)
	if len(got) != 1 {
		t.Fatalf("resolved %d targets, want 1: %+v", len(got), got)
	}
	if got[0].Target.Service != "postgres" {
		t.Fatalf("resolved service = %q, want postgres", got[0].Target.Service)
	}
}

func TestResolveIntrospectionErrorFallsThrough(t *testing.T) {
	fake := dockercli.NewFake()
	fake.Errors["introspect"] = io.ErrUnexpectedEOF
	fake.Config = []byte(resolvedConfig)

	r := Resolver{Runner: fake, Console: testConsole()}
	got := r.Resolve(installation.Installation{DataDir: "/tmp/agent_data"}, Targets[:1])
	if len(got) != 1 || got[0].VolumeName != "agent_data_postgres" {
		t.Fatalf("introspection error did not fall back to static config: %+v", got)
	}
}

func TestArchiveEntriesAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, target := range Targets {
		if seen[target.ArchiveEntry] {
			t.Fatalf("duplicate archive entry %s", target.ArchiveEntry)
		}
		seen[target.ArchiveEntry] = true
	}
}
