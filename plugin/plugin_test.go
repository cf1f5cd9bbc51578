package plugin

import (
	"context"
	"fmt"
	"testing"

	"github.com/frameforge/stage/event"
	"github.com/frameforge/stage/resource"
)

type fakeResolver struct {
	kind     string
	outcome  event.State
	err      error
	resolved []resource.Identity
}

func (f *fakeResolver) Handles(kind string) bool { return kind == f.kind }

func (f *fakeResolver) Resolve(_ context.Context, id resource.Identity) (event.State, error) {
	if f.err != nil {
		return event.StateFailed, f.err
	}
	f.resolved = append(f.resolved, id)
	return f.outcome, nil
}

func TestPollResolvesOwnedKinds(t *testing.T) {
	bus := event.NewBus()
	bus.NotifyMiss(resource.ID("minimap", "Minimap"))
	bus.NotifyMiss(resource.ID("chat", "ChatPanel"))

	r := &fakeResolver{kind: "Minimap", outcome: event.StateResolved}
	if err := Poll(context.Background(), bus, r, nil); err != nil {
		t.Fatalf("Poll: %v", err)
	}

	if len(r.resolved) != 1 || r.resolved[0] != resource.ID("minimap", "Minimap") {
		t.Fatalf("resolved %v", r.resolved)
	}

	// The owned event is acknowledged; the foreign one survives.
	if bus.Len() != 1 {
		t.Fatalf("bus Len = %d, want 1", bus.Len())
	}
	for e := range bus.DrainPending() {
		if e.ID.Kind != "ChatPanel" || e.State != event.StatePending {
			t.Fatalf("wrong surviving event: %+v", e)
		}
	}
}

func TestPollRecordsFailedOutcome(t *testing.T) {
	bus := event.NewBus()
	id := resource.ID("minimap", "Minimap")
	bus.NotifyMiss(id)

	r := &fakeResolver{kind: "Minimap", outcome: event.StateFailed}
	if err := Poll(context.Background(), bus, r, nil); err != nil {
		t.Fatalf("Poll: %v", err)
	}
	// Failed outcomes are still acknowledged by the handler pass.
	if bus.Len() != 0 {
		t.Fatalf("bus Len = %d, want 0", bus.Len())
	}
}

func TestPollAbortsOnGuestError(t *testing.T) {
	bus := event.NewBus()
	bus.NotifyMiss(resource.ID("minimap", "Minimap"))

	r := &fakeResolver{kind: "Minimap", err: fmt.Errorf("guest trapped")}
	if err := Poll(context.Background(), bus, r, nil); err == nil {
		t.Fatal("expected error")
	}
	// The event survives for the next pass.
	if bus.PendingCount() != 1 {
		t.Fatalf("pending = %d, want 1", bus.PendingCount())
	}
}

func TestPollSkipsNonPending(t *testing.T) {
	bus := event.NewBus()
	id := resource.ID("minimap", "Minimap")
	bus.NotifyMiss(id)
	if err := bus.Resolve(id, event.StateResolved); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	r := &fakeResolver{kind: "Minimap", outcome: event.StateResolved}
	if err := Poll(context.Background(), bus, r, nil); err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if len(r.resolved) != 0 {
		t.Fatal("resolver invoked for a non-pending event")
	}
}

func TestNewHostRejectsGarbage(t *testing.T) {
	_, err := NewHost(context.Background(), []byte("not wasm"), []string{"Minimap"})
	if err == nil {
		t.Fatal("expected compile error")
	}
}
