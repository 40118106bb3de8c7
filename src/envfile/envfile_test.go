package envfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFile(t *testing.T) {
	env, err := Load(filepath.Join(t.TempDir(), ".env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(env) != 0 {
		t.Fatalf("Load = %v, want empty map", env)
	}
}

func TestLoadSkipsCommentsAndJunk(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := strings.Join([]string{
		"# deployment settings",
		"",
		"AGENT_EXPOSE_PORT=8021",
		"broken line without equals",
		"  PADDED_KEY =  padded value  ",
		"EMPTY=",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	env, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := map[string]string{
		"AGENT_EXPOSE_PORT": "8021",
		"PADDED_KEY":        "padded value",
		"EMPTY":             "",
	}
	if len(env) != len(want) {
		t.Fatalf("Load = %v, want %v", env, want)
	}
	for k, v := range want {
		if env[k] != v {
			t.Errorf("env[%s] = %q, want %q", k, env[k], v)
		}
	}
}

func TestSavePreservesCommentsAndAppendsNewKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	original := strings.Join([]string{
		"# ports",
		"AGENT_EXPOSE_PORT=8000",
		"",
		"# secrets",
		"AGENT_ACCESS_TOKEN=old",
	}, "\n")
	if err := os.WriteFile(path, []byte(original), 0o644); err != nil {
		t.Fatal(err)
	}

	err := Save(path, map[string]string{
		"AGENT_EXPOSE_PORT": "8021",
		"QDRANT_API_KEY":    "generated",
		"ADMIN_PASSWORD":    "secret",
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)
	for _, want := range []string{
		"# ports\n",
		"# secrets\n",
		"AGENT_EXPOSE_PORT=8021\n",
		"AGENT_ACCESS_TOKEN=old\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("saved file missing %q:\n%s", want, got)
		}
	}

	// Appended keys come after the original content, sorted.
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	tail := lines[len(lines)-2:]
	if tail[0] != "ADMIN_PASSWORD=secret" || tail[1] != "QDRANT_API_KEY=generated" {
		t.Fatalf("appended tail = %v", tail)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	values := map[string]string{"A": "1", "B": "two", "C": ""}
	if err := Save(path, values); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for k, v := range values {
		if got[k] != v {
			t.Errorf("round trip lost %s: got %q, want %q", k, got[k], v)
		}
	}
}
