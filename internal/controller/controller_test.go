package controller

import (
	"context"
	"encoding/base64"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/zonesync-proto/zonesync/internal/bus"
	"github.com/zonesync-proto/zonesync/internal/envelope"
)

func newTestController(t *testing.T) (*Controller, *bus.MemoryBus) {
	t.Helper()
	b := bus.NewMemoryBus(8)
	t.Cleanup(func() { b.Close() })

	ctrl := New(b, "sensors", t.TempDir(), zerolog.Nop())
	if err := ctrl.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	return ctrl, b
}

func publishResponse(t *testing.T, b *bus.MemoryBus, identity, message string) {
	t.Helper()
	env, err := envelope.BuildResponse(identity, message)
	if err != nil {
		t.Fatal(err)
	}
	raw, err := env.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Publish(context.Background(), "sensors", raw); err != nil {
		t.Fatal(err)
	}
}

func TestIssueCommandThenImmediateCollect(t *testing.T) {
	ctrl, _ := newTestController(t)

	if err := ctrl.IssueCommand(context.Background(), envelope.ActionWhoami, ""); err != nil {
		t.Fatal(err)
	}
	if got := ctrl.Collect(0); len(got) != 0 {
		t.Fatalf("expected empty window, got %d responses", len(got))
	}
}

func TestWindowGathersResponsesInOrder(t *testing.T) {
	ctrl, b := newTestController(t)

	if err := ctrl.IssueCommand(context.Background(), envelope.ActionWhoami, ""); err != nil {
		t.Fatal(err)
	}
	publishResponse(t, b, "dev-1", "uid=1000")
	publishResponse(t, b, "dev-2", "uid=0")

	got := ctrl.Collect(300 * time.Millisecond)
	if len(got) != 2 {
		t.Fatalf("expected 2 responses, got %d", len(got))
	}
	if got[0].Identity != "dev-1" || got[1].Identity != "dev-2" {
		t.Fatalf("arrival order lost: %+v", got)
	}
}

func TestIssueCommandClearsPreviousWindow(t *testing.T) {
	ctrl, b := newTestController(t)

	publishResponse(t, b, "stale", "old window")
	if got := ctrl.Collect(300 * time.Millisecond); len(got) != 1 {
		t.Fatalf("expected 1 response before reissue, got %d", len(got))
	}

	if err := ctrl.IssueCommand(context.Background(), envelope.ActionListPeers, ""); err != nil {
		t.Fatal(err)
	}
	if got := ctrl.Collect(0); len(got) != 0 {
		t.Fatalf("expected fresh window, got %d responses", len(got))
	}
}

func TestUnrelatedTrafficNotCollected(t *testing.T) {
	ctrl, b := newTestController(t)

	payloads := [][]byte{
		[]byte(`{"temperature": 19.2}`),
		[]byte("not json at all"),
	}
	for _, p := range payloads {
		if err := b.Publish(context.Background(), "sensors", p); err != nil {
			t.Fatal(err)
		}
	}
	// A command from another controller is not a response either.
	cmd, err := envelope.BuildCommand(envelope.ActionWhoami, "")
	if err != nil {
		t.Fatal(err)
	}
	raw, _ := cmd.Encode()
	if err := b.Publish(context.Background(), "sensors", raw); err != nil {
		t.Fatal(err)
	}

	if got := ctrl.Collect(300 * time.Millisecond); len(got) != 0 {
		t.Fatalf("noise leaked into the window: %+v", got)
	}
}

func TestSaveArtifactDecodesBase64(t *testing.T) {
	ctrl, _ := newTestController(t)

	body := base64.StdEncoding.EncodeToString([]byte("file bytes"))
	path, err := ctrl.SaveArtifact(envelope.Response{Identity: "dev-1", Message: body})
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "file bytes" {
		t.Fatalf("expected decoded body, got %q", data)
	}
}

func TestSaveArtifactKeepsRawText(t *testing.T) {
	ctrl, _ := newTestController(t)

	path, err := ctrl.SaveArtifact(envelope.Response{Identity: "dev-1", Message: "plain text!"})
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "plain text!" {
		t.Fatalf("expected raw body, got %q", data)
	}
}
