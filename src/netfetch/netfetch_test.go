package netfetch

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func withSources(t *testing.T, urls ...string) {
	t.Helper()
	old := BaseURLs
	BaseURLs = urls
	t.Cleanup(func() { BaseURLs = old })
}

func TestFileFirstSourceWins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/deploy/.env.example" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("AGENT_EXPOSE_PORT=8021\n"))
	}))
	defer srv.Close()
	withSources(t, srv.URL+"/deploy")

	out := filepath.Join(t.TempDir(), ".env.example")
	if err := File(".env.example", out); err != nil {
		t.Fatalf("File: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "AGENT_EXPOSE_PORT=8021\n" {
		t.Fatalf("downloaded %q", data)
	}
}

func TestFileFallsBackAcrossSources(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer broken.Close()
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("services: {}\n"))
	}))
	defer good.Close()
	withSources(t, broken.URL, good.URL)

	out := filepath.Join(t.TempDir(), "docker-compose.yml")
	if err := File("docker-compose.yml", out); err != nil {
		t.Fatalf("File: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "services: {}\n" {
		t.Fatalf("downloaded %q", data)
	}
}

func TestFileAllSourcesFail(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	withSources(t, srv.URL)

	if err := File("missing.yml", filepath.Join(t.TempDir(), "out")); err == nil {
		t.Fatalf("File succeeded with no working source")
	}
}

func TestURLCreatesParentDirs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("x"))
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "nested", "deeper", "file")
	if err := URL(srv.URL+"/file", out); err != nil {
		t.Fatalf("URL: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("output missing: %v", err)
	}
}
