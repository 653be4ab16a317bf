package controller

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/zonesync-proto/zonesync/internal/agent"
	"github.com/zonesync-proto/zonesync/internal/bus"
)

type fixedRunner struct{ stdout string }

func (f fixedRunner) Run(_ context.Context, _ string, _ []string, _ time.Duration) (agent.Result, error) {
	return agent.Result{Stdout: f.stdout}, nil
}

func TestConsoleDrivesCommandFlow(t *testing.T) {
	b := bus.NewMemoryBus(8)
	t.Cleanup(func() { b.Close() })

	ctrl := New(b, "sensors", t.TempDir(), zerolog.Nop())
	if err := ctrl.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	ag := agent.New(b, fixedRunner{stdout: "uid 1000 sync"}, "sensors", time.Second, zerolog.Nop())
	if err := ag.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	// whoami, 1 second window, quit.
	in := strings.NewReader("4\n1\nQ\n")
	var out bytes.Buffer

	console := NewConsole(ctrl, in, &out, time.Second)
	if err := console.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out.String(), "uid 1000 sync") {
		t.Fatalf("agent reply missing from console output:\n%s", out.String())
	}
	if !strings.Contains(out.String(), ag.Identity()) {
		t.Fatalf("agent identity missing from console output:\n%s", out.String())
	}
}

func TestConsoleRejectsInvalidAction(t *testing.T) {
	b := bus.NewMemoryBus(8)
	t.Cleanup(func() { b.Close() })

	ctrl := New(b, "sensors", t.TempDir(), zerolog.Nop())

	in := strings.NewReader("9\nQ\n")
	var out bytes.Buffer

	console := NewConsole(ctrl, in, &out, time.Second)
	if err := console.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Invalid action selected.") {
		t.Fatalf("expected rejection message, got:\n%s", out.String())
	}
}

func TestConsoleRequiresPath(t *testing.T) {
	b := bus.NewMemoryBus(8)
	t.Cleanup(func() { b.Close() })

	ctrl := New(b, "sensors", t.TempDir(), zerolog.Nop())

	// list-directory with an empty path, then quit.
	in := strings.NewReader("3\n\nQ\n")
	var out bytes.Buffer

	console := NewConsole(ctrl, in, &out, time.Second)
	if err := console.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Path cannot be empty.") {
		t.Fatalf("expected empty-path message, got:\n%s", out.String())
	}
}
