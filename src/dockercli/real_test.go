package dockercli

import (
	"os"
	"strings"
	"testing"
)

func TestEnvironWithout(t *testing.T) {
	t.Setenv("AGENTSTACK_TEST_DROP", "shell value")
	t.Setenv("AGENTSTACK_TEST_KEEP", "kept")

	env := environWithout(map[string]string{"AGENTSTACK_TEST_DROP": "file value"})
	var keep, drop bool
	for _, kv := range env {
		if strings.HasPrefix(kv, "AGENTSTACK_TEST_KEEP=") {
			keep = true
		}
		if strings.HasPrefix(kv, "AGENTSTACK_TEST_DROP=") {
			drop = true
		}
	}
	if !keep {
		t.Fatalf("unrelated variable was dropped")
	}
	if drop {
		t.Fatalf("env-file key survived in the child environment")
	}
	if len(env) != len(os.Environ())-1 {
		t.Fatalf("environWithout removed %d entries, want 1", len(os.Environ())-len(env))
	}
}

func TestComposeUnavailable(t *testing.T) {
	r := &Real{}
	if r.ComposeAvailable() {
		t.Fatalf("empty runner reports compose available")
	}
	if err := r.Up(t.TempDir(), ""); err == nil {
		t.Fatalf("Up succeeded without compose")
	}
	if _, err := r.Version(); err == nil {
		t.Fatalf("Version succeeded without docker")
	}
	if err := r.PullImage("alpine:3", ""); err == nil {
		t.Fatalf("PullImage succeeded without docker")
	}
}
