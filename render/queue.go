package render

import (
	"iter"
	"sort"

	"github.com/frameforge/stage/resource"
)

// State is the per-frame lifecycle of a Queue.
type State uint8

const (
	StateEmpty State = iota
	StateBuilding
	StateReady
	StateDrained
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateBuilding:
		return "building"
	case StateReady:
		return "ready"
	case StateDrained:
		return "drained"
	}
	return "unknown"
}

// Entry is one queued draw step.
type Entry struct {
	ID    resource.Identity
	Layer int
	jump  bool
}

// DisplayFunc reports the display state consulted for visibility and
// layer exemption. resource.Store.Display satisfies it.
type DisplayFunc func(resource.Identity) resource.DisplayInfo

// Queue is the deferred render queue for one frame. Entries are
// appended while Building, ordered at Seal (stable sort by layer,
// insertion order breaking ties), and leave only through Drain.
// The surrounding frame driver calls Reset to begin the next frame;
// the queue itself has no notion of frame boundaries.
type Queue struct {
	display DisplayFunc
	entries []Entry
	pos     int
	state   State
}

// NewQueue creates an empty queue. display may be nil, in which case
// every entry is treated as visible and layer-respecting.
func NewQueue(display DisplayFunc) *Queue {
	return &Queue{display: display}
}

// State returns the queue's lifecycle state.
func (q *Queue) State() State {
	return q.state
}

// Remaining returns the number of entries not yet drained.
func (q *Queue) Remaining() int {
	return len(q.entries) - q.pos
}

// Push appends an entry while the queue is Empty or Building. Pushes
// against a Ready or Drained queue are dropped; activation for a
// frame whose ordering is already finalized belongs to the next
// frame's build.
func (q *Queue) Push(id resource.Identity, layer int) {
	switch q.state {
	case StateEmpty:
		q.state = StateBuilding
	case StateBuilding:
	default:
		return
	}
	q.entries = append(q.entries, Entry{ID: id, Layer: layer})
}

// Seal finalizes ordering and moves the queue to Ready. Entries with
// a pending jump request go first, in request order. Entries whose
// display state ignores layering draw last, after every
// layer-respecting entry, in insertion order. Everything else is
// stably sorted by ascending layer.
func (q *Queue) Seal() {
	if q.state != StateEmpty && q.state != StateBuilding {
		return
	}

	var front, normal, topmost []Entry
	for _, e := range q.entries {
		switch {
		case e.jump:
			e.jump = false
			front = append(front, e)
		case q.ignoresLayer(e.ID):
			topmost = append(topmost, e)
		default:
			normal = append(normal, e)
		}
	}
	sort.SliceStable(normal, func(i, j int) bool {
		return normal[i].Layer < normal[j].Layer
	})

	ordered := make([]Entry, 0, len(q.entries))
	ordered = append(ordered, front...)
	ordered = append(ordered, normal...)
	ordered = append(ordered, topmost...)

	q.entries = ordered
	q.pos = 0
	q.state = StateReady
}

func (q *Queue) ignoresLayer(id resource.Identity) bool {
	return q.display != nil && q.display(id).IgnoreLayer
}

// RequestJump moves the entry for id ahead of every other remaining
// entry: to the front if draining has not started, immediately after
// the entry currently being drained otherwise. Best-effort: a jump
// for an identity with no remaining entry is a no-op.
func (q *Queue) RequestJump(id resource.Identity) {
	switch q.state {
	case StateBuilding:
		for i := range q.entries {
			if q.entries[i].ID == id {
				q.entries[i].jump = true
				return
			}
		}
	case StateReady:
		q.lift(id, len(q.entries))
	}
}

// RequestLift moves the entry for id up by n positions among the
// remaining entries, clamped at the front of the remaining queue.
// Same best-effort contract as RequestJump, and only meaningful once
// ordering exists, so it applies to a Ready queue.
func (q *Queue) RequestLift(id resource.Identity, n int) {
	if q.state != StateReady || n <= 0 {
		return
	}
	q.lift(id, n)
}

func (q *Queue) lift(id resource.Identity, n int) {
	idx := -1
	for i := q.pos; i < len(q.entries); i++ {
		if q.entries[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	target := idx - n
	if target < q.pos {
		target = q.pos
	}
	e := q.entries[idx]
	copy(q.entries[target+1:idx+1], q.entries[target:idx])
	q.entries[target] = e
}

// Drain returns the frame's draw sequence. Each remaining entry is
// checked against the display state as it comes up: invisible entries
// are skipped, not yielded, but still count as drained. When the
// sequence is exhausted the queue becomes Drained. A queue still
// Building is sealed on the first call; a queue in any other state
// yields nothing.
//
// The sequence is not restartable. Breaking out early leaves the
// remaining entries in place; a later Drain continues where the
// previous one stopped.
func (q *Queue) Drain() iter.Seq[resource.Identity] {
	return func(yield func(resource.Identity) bool) {
		if q.state == StateBuilding || q.state == StateEmpty {
			q.Seal()
		}
		if q.state != StateReady {
			return
		}

		for q.pos < len(q.entries) {
			e := q.entries[q.pos]
			q.pos++

			if q.display != nil && !q.display(e.ID).Visible() {
				continue
			}
			if !yield(e.ID) {
				if q.pos == len(q.entries) {
					q.state = StateDrained
				}
				return
			}
		}
		q.state = StateDrained
	}
}

// Purge drops every not-yet-drained entry for id. Called when the
// identity is removed from the store so the queue never references a
// destroyed resource.
func (q *Queue) Purge(id resource.Identity) {
	if q.pos >= len(q.entries) {
		return
	}
	kept := q.entries[:q.pos]
	for _, e := range q.entries[q.pos:] {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	q.entries = kept
}

// Reset returns the queue to Empty so the next frame can build.
func (q *Queue) Reset() {
	q.entries = q.entries[:0]
	q.pos = 0
	q.state = StateEmpty
}
