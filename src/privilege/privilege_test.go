package privilege

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"agentstack/src/console"
)

type fakeElevator struct {
	can      bool
	attempts int
}

func (f *fakeElevator) CanElevate() bool { return f.can }
func (f *fakeElevator) Elevate() error {
	f.attempts++
	return fmt.Errorf("exec blocked in test")
}

func testConsole() *console.Console {
	var buf bytes.Buffer
	return &console.Console{In: strings.NewReader(""), Out: &buf, Err: &buf}
}

func TestIsPermission(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{os.ErrPermission, true},
		{fmt.Errorf("open /x: %w", os.ErrPermission), true},
		{errors.New("docker: Got permission denied while trying to connect to the Docker daemon socket"), true},
		{errors.New("Permission Denied"), true},
		{errors.New("no such file or directory"), false},
	}
	for _, c := range cases {
		if got := IsPermission(c.err); got != c.want {
			t.Errorf("IsPermission(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}

func TestRunSuccessNeverElevates(t *testing.T) {
	el := &fakeElevator{can: true}
	if err := Run(testConsole(), el, func() error { return nil }); err != nil {
		t.Fatalf("Run = %v", err)
	}
	if el.attempts != 0 {
		t.Fatalf("elevated %d times on success", el.attempts)
	}
}

func TestRunNonPermissionErrorPassesThrough(t *testing.T) {
	el := &fakeElevator{can: true}
	want := errors.New("disk full")
	if err := Run(testConsole(), el, func() error { return want }); err != want {
		t.Fatalf("Run = %v, want %v", err, want)
	}
	if el.attempts != 0 {
		t.Fatalf("elevated for a non-permission error")
	}
}

func TestRunElevatesAtMostOnce(t *testing.T) {
	el := &fakeElevator{can: true}
	calls := 0
	err := Run(testConsole(), el, func() error {
		calls++
		return os.ErrPermission
	})
	if !IsPermission(err) {
		t.Fatalf("Run = %v, want the original permission error", err)
	}
	if calls != 1 {
		t.Fatalf("op ran %d times, want 1", calls)
	}
	if el.attempts != 1 {
		t.Fatalf("elevated %d times, want 1", el.attempts)
	}
}

func TestRunReturnsErrorWhenElevationUnavailable(t *testing.T) {
	el := &fakeElevator{can: false}
	err := Run(testConsole(), el, func() error { return os.ErrPermission })
	if !errors.Is(err, os.ErrPermission) {
		t.Fatalf("Run = %v, want permission error", err)
	}
	if el.attempts != 0 {
		t.Fatalf("elevated despite CanElevate = false")
	}
}
