package event

import (
	"iter"

	"github.com/frameforge/stage/errors"
	"github.com/frameforge/stage/resource"
)

// Kind says why an event was raised.
type Kind uint8

const (
	// KindLookupMiss: a lookup against the store failed for an
	// identity that belongs to an external resource kind.
	KindLookupMiss Kind = iota
	// KindResolutionRequested: a caller explicitly deferred an
	// identity to an external handler.
	KindResolutionRequested
)

func (k Kind) String() string {
	switch k {
	case KindLookupMiss:
		return "lookup_miss"
	case KindResolutionRequested:
		return "resolution_requested"
	}
	return "unknown"
}

// State is the lifecycle of one event.
type State uint8

const (
	StatePending State = iota
	StateResolved
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateResolved:
		return "resolved"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Event is one deferred notification held by the Bus.
type Event struct {
	ID    resource.Identity
	Kind  Kind
	State State
}

// Bus carries notifications from the core to external handlers. It
// keeps an ordered list (raise order) plus a keyed index by identity.
// Events stay on the bus until an external handler acknowledges them,
// which decouples the core's frame cadence from the handler's
// resolution cadence.
type Bus struct {
	index  map[resource.Identity]int
	events []Event
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{index: make(map[resource.Identity]int)}
}

// NotifyMiss records a failed local resolution for id. If the
// identity already has an unacknowledged event, that event is
// re-stamped Pending in place (last write wins, original raise order
// kept); otherwise a new event is appended.
func (b *Bus) NotifyMiss(id resource.Identity) {
	b.raise(id, KindLookupMiss)
}

// RequestResolution records an explicit deferral of id to an external
// handler. Same replacement semantics as NotifyMiss.
func (b *Bus) RequestResolution(id resource.Identity) {
	b.raise(id, KindResolutionRequested)
}

func (b *Bus) raise(id resource.Identity, kind Kind) {
	if i, ok := b.index[id]; ok {
		b.events[i] = Event{ID: id, Kind: kind, State: StatePending}
		return
	}
	b.index[id] = len(b.events)
	b.events = append(b.events, Event{ID: id, Kind: kind, State: StatePending})
}

// Resolve transitions id's pending event to Resolved or Failed. Only
// external handlers call this. Fails with event_not_found if the
// identity has no pending event (never raised, already transitioned,
// or already acknowledged).
func (b *Bus) Resolve(id resource.Identity, outcome State) error {
	if outcome != StateResolved && outcome != StateFailed {
		return errors.Wrap(errors.KindEventNotFound, nil,
			"resolve outcome must be resolved or failed")
	}

	i, ok := b.index[id]
	if !ok || b.events[i].State != StatePending {
		return errors.EventNotFound(id.Name, id.Kind)
	}
	b.events[i].State = outcome
	return nil
}

// DrainPending yields every unacknowledged event in raise order,
// whatever its state. Events are not removed; handlers acknowledge
// what they have consumed.
func (b *Bus) DrainPending() iter.Seq[Event] {
	snapshot := make([]Event, len(b.events))
	copy(snapshot, b.events)

	return func(yield func(Event) bool) {
		for _, e := range snapshot {
			if !yield(e) {
				return
			}
		}
	}
}

// Acknowledge removes id's event from the bus. Fails with
// event_not_found if no event is held for the identity.
func (b *Bus) Acknowledge(id resource.Identity) error {
	i, ok := b.index[id]
	if !ok {
		return errors.EventNotFound(id.Name, id.Kind)
	}
	b.removeAt(i)
	return nil
}

// Purge drops any event for id without error. Called when the
// identity is removed from the store.
func (b *Bus) Purge(id resource.Identity) {
	if i, ok := b.index[id]; ok {
		b.removeAt(i)
	}
}

func (b *Bus) removeAt(i int) {
	delete(b.index, b.events[i].ID)
	b.events = append(b.events[:i], b.events[i+1:]...)
	for j := i; j < len(b.events); j++ {
		b.index[b.events[j].ID] = j
	}
}

// Len returns the number of unacknowledged events.
func (b *Bus) Len() int {
	return len(b.events)
}

// PendingCount returns the number of events still awaiting an outcome.
func (b *Bus) PendingCount() int {
	n := 0
	for _, e := range b.events {
		if e.State == StatePending {
			n++
		}
	}
	return n
}
