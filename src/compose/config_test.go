package compose

import "testing"

const resolvedDoc = `
services:
  agent:
    image: agentstack/agent:latest
    container_name: agent
  postgres:
    image: postgres:14
    volumes:
      - type: volume
        source: agent_data_postgres
        target: /var/lib/postgresql/data
      - type: bind
        source: /etc/localtime
        target: /etc/localtime
  qdrant:
    image: qdrant/qdrant:latest
    volumes:
      - type: volume
        source: agent_data_qdrant
        target: /qdrant/storage
`

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(resolvedDoc))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if len(cfg.Services) != 3 {
		t.Fatalf("parsed %d services, want 3", len(cfg.Services))
	}
	if cfg.Services["agent"].Image != "agentstack/agent:latest" {
		t.Errorf("agent image = %q", cfg.Services["agent"].Image)
	}
	if len(cfg.Services["postgres"].Volumes) != 2 {
		t.Errorf("postgres volumes = %+v", cfg.Services["postgres"].Volumes)
	}
}

func TestVolumeSource(t *testing.T) {
	cfg, err := ParseConfig([]byte(resolvedDoc))
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.VolumeSource("postgres", "/var/lib/postgresql/data"); got != "agent_data_postgres" {
		t.Errorf("postgres source = %q", got)
	}
	if got := cfg.VolumeSource("qdrant", "/qdrant/storage"); got != "agent_data_qdrant" {
		t.Errorf("qdrant source = %q", got)
	}
	// Bind mounts are not named volumes.
	if got := cfg.VolumeSource("postgres", "/etc/localtime"); got != "" {
		t.Errorf("bind mount reported as volume: %q", got)
	}
	if got := cfg.VolumeSource("agent", "/anything"); got != "" {
		t.Errorf("service without volumes returned %q", got)
	}
	if got := cfg.VolumeSource("missing", "/path"); got != "" {
		t.Errorf("unknown service returned %q", got)
	}
}

func TestVolumeSourceNilConfig(t *testing.T) {
	var cfg *Config
	if got := cfg.VolumeSource("postgres", "/var/lib/postgresql/data"); got != "" {
		t.Fatalf("nil config returned %q", got)
	}
}

func TestParseConfigRejectsGarbage(t *testing.T) {
	if _, err := ParseConfig([]byte("services: [not a map")); err == nil {
		t.Fatalf("ParseConfig accepted malformed YAML")
	}
}
