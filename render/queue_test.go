package render

import (
	"testing"

	"github.com/frameforge/stage/resource"
)

func gid(name string) resource.Identity {
	return resource.ID(name, "Gauge")
}

func collect(q *Queue) []resource.Identity {
	var out []resource.Identity
	for id := range q.Drain() {
		out = append(out, id)
	}
	return out
}

func TestStableLayerOrdering(t *testing.T) {
	q := NewQueue(nil)

	// layers [3,1,2,1] in insertion order
	q.Push(gid("a"), 3)
	q.Push(gid("b"), 1)
	q.Push(gid("c"), 2)
	q.Push(gid("d"), 1)
	q.Seal()

	got := collect(q)
	want := []resource.Identity{gid("b"), gid("d"), gid("c"), gid("a")}
	if len(got) != len(want) {
		t.Fatalf("drained %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: got %v, want %v", i, got[i], want[i])
		}
	}
	if q.State() != StateDrained {
		t.Fatalf("state after exhaustion = %v, want drained", q.State())
	}
}

func TestStateMachine(t *testing.T) {
	q := NewQueue(nil)
	if q.State() != StateEmpty {
		t.Fatalf("new queue state = %v", q.State())
	}

	q.Push(gid("a"), 0)
	if q.State() != StateBuilding {
		t.Fatalf("state after Push = %v", q.State())
	}

	q.Seal()
	if q.State() != StateReady {
		t.Fatalf("state after Seal = %v", q.State())
	}

	// Pushes against a sealed queue are dropped.
	q.Push(gid("late"), 0)
	if q.Remaining() != 1 {
		t.Fatalf("push accepted while Ready, remaining = %d", q.Remaining())
	}

	collect(q)
	if q.State() != StateDrained {
		t.Fatalf("state after drain = %v", q.State())
	}

	q.Reset()
	if q.State() != StateEmpty || q.Remaining() != 0 {
		t.Fatalf("Reset left state %v with %d entries", q.State(), q.Remaining())
	}
}

func TestRequestJumpMidDrain(t *testing.T) {
	q := NewQueue(nil)
	q.Push(gid("A"), 1)
	q.Push(gid("B"), 2)
	q.Push(gid("C"), 3)
	q.Seal()

	var got []resource.Identity
	for id := range q.Drain() {
		got = append(got, id)
		if id == gid("A") {
			q.RequestJump(gid("C"))
		}
	}

	want := []resource.Identity{gid("A"), gid("C"), gid("B")}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRequestJumpBeforeSealSurvivesSort(t *testing.T) {
	q := NewQueue(nil)
	q.Push(gid("a"), 1)
	q.Push(gid("b"), 2)
	q.Push(gid("c"), 9)
	q.RequestJump(gid("c"))
	q.Seal()

	got := collect(q)
	want := []resource.Identity{gid("c"), gid("a"), gid("b")}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRequestJumpUnknownIsNoop(t *testing.T) {
	q := NewQueue(nil)
	q.Push(gid("a"), 1)
	q.Seal()
	q.RequestJump(gid("ghost"))

	got := collect(q)
	if len(got) != 1 || got[0] != gid("a") {
		t.Fatalf("queue disturbed by unknown jump: %v", got)
	}
}

func TestRequestLift(t *testing.T) {
	q := NewQueue(nil)
	q.Push(gid("a"), 1)
	q.Push(gid("b"), 2)
	q.Push(gid("c"), 3)
	q.Push(gid("d"), 4)
	q.Seal()

	q.RequestLift(gid("c"), 1)
	got := collect(q)
	want := []resource.Identity{gid("a"), gid("c"), gid("b"), gid("d")}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRequestLiftClampsAtFront(t *testing.T) {
	q := NewQueue(nil)
	q.Push(gid("a"), 1)
	q.Push(gid("b"), 2)
	q.Seal()

	q.RequestLift(gid("b"), 10)
	got := collect(q)
	if got[0] != gid("b") || got[1] != gid("a") {
		t.Fatalf("lift did not clamp at front: %v", got)
	}
}

func TestDrainSkipsInvisibleButCountsThem(t *testing.T) {
	hidden := map[resource.Identity]bool{gid("b"): true}
	q := NewQueue(func(id resource.Identity) resource.DisplayInfo {
		d := resource.DefaultDisplay()
		if hidden[id] {
			d.ForceHidden = true
		}
		return d
	})

	q.Push(gid("a"), 1)
	q.Push(gid("b"), 2)
	q.Push(gid("c"), 3)
	q.Seal()

	got := collect(q)
	if len(got) != 2 || got[0] != gid("a") || got[1] != gid("c") {
		t.Fatalf("unexpected yields: %v", got)
	}
	if q.State() != StateDrained {
		t.Fatalf("hidden entry blocked exhaustion, state = %v", q.State())
	}
}

func TestIgnoreLayerDrawsLast(t *testing.T) {
	ignore := map[resource.Identity]bool{gid("overlay"): true}
	q := NewQueue(func(id resource.Identity) resource.DisplayInfo {
		d := resource.DefaultDisplay()
		d.IgnoreLayer = ignore[id]
		return d
	})

	q.Push(gid("overlay"), 0)
	q.Push(gid("a"), 5)
	q.Push(gid("b"), 1)
	q.Seal()

	got := collect(q)
	want := []resource.Identity{gid("b"), gid("a"), gid("overlay")}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDrainAutoSeals(t *testing.T) {
	q := NewQueue(nil)
	q.Push(gid("a"), 2)
	q.Push(gid("b"), 1)

	got := collect(q)
	if len(got) != 2 || got[0] != gid("b") {
		t.Fatalf("auto-seal did not order entries: %v", got)
	}
}

func TestDrainNotRestartable(t *testing.T) {
	q := NewQueue(nil)
	q.Push(gid("a"), 1)
	q.Push(gid("b"), 2)
	q.Seal()

	for id := range q.Drain() {
		if id == gid("a") {
			break
		}
	}

	got := collect(q)
	if len(got) != 1 || got[0] != gid("b") {
		t.Fatalf("second Drain restarted or lost entries: %v", got)
	}

	if more := collect(q); len(more) != 0 {
		t.Fatalf("drained queue yielded entries: %v", more)
	}
}

func TestPurge(t *testing.T) {
	q := NewQueue(nil)
	q.Push(gid("a"), 1)
	q.Push(gid("b"), 2)
	q.Push(gid("c"), 3)
	q.Seal()

	q.Purge(gid("b"))
	got := collect(q)
	if len(got) != 2 || got[0] != gid("a") || got[1] != gid("c") {
		t.Fatalf("purge failed: %v", got)
	}
}
