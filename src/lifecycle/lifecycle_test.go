package lifecycle

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"agentstack/src/compose"
	"agentstack/src/console"
	"agentstack/src/dockercli"
	"agentstack/src/installation"
)

func testConsole() *console.Console {
	return &console.Console{In: strings.NewReader(""), Out: io.Discard, Err: io.Discard}
}

func instWithDescriptor(t *testing.T) installation.Installation {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, compose.DescriptorFile), []byte("services: {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return installation.Installation{DataDir: dir}
}

func TestQuiesceWithoutDescriptorIsNoOp(t *testing.T) {
	fake := dockercli.NewFake()
	c := Controller{Runner: fake, Console: testConsole()}
	if c.Quiesce(installation.Installation{DataDir: t.TempDir()}) {
		t.Fatalf("Quiesce reported wasRunning for an installation without a descriptor")
	}
	if len(fake.Calls) != 0 {
		t.Fatalf("runner called: %v", fake.Calls)
	}
}

func TestQuiesceWithoutComposeIsNoOp(t *testing.T) {
	fake := dockercli.NewFake()
	fake.Compose = false
	c := Controller{Runner: fake, Console: testConsole()}
	if c.Quiesce(instWithDescriptor(t)) {
		t.Fatalf("Quiesce reported wasRunning without compose available")
	}
}

func TestQuiesceResumeSymmetry(t *testing.T) {
	fake := dockercli.NewFake()
	fake.Running = true
	inst := instWithDescriptor(t)
	c := Controller{Runner: fake, Console: testConsole()}

	wasRunning := c.Quiesce(inst)
	if !wasRunning {
		t.Fatalf("Quiesce = false, want true")
	}
	if fake.Running {
		t.Fatalf("services still running after quiesce")
	}

	c.Resume(inst, wasRunning)
	if !fake.Running {
		t.Fatalf("services not running after resume")
	}
}

func TestResumeSkippedWhenNotRunning(t *testing.T) {
	fake := dockercli.NewFake()
	c := Controller{Runner: fake, Console: testConsole()}
	c.Resume(instWithDescriptor(t), false)
	for _, call := range fake.Calls {
		if strings.HasPrefix(call, "up") {
			t.Fatalf("resume started services it should have left stopped: %v", fake.Calls)
		}
	}
}

func TestResumeFailureIsSingleAttempt(t *testing.T) {
	fake := dockercli.NewFake()
	fake.Errors["up"] = fmt.Errorf("compose exploded")
	c := Controller{Runner: fake, Console: testConsole()}
	c.Resume(instWithDescriptor(t), true)

	attempts := 0
	for _, call := range fake.Calls {
		if strings.HasPrefix(call, "up") {
			attempts++
		}
	}
	if attempts != 1 {
		t.Fatalf("resume attempted %d times, want 1", attempts)
	}
}
