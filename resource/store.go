package resource

import (
	"sync"

	"github.com/frameforge/stage/errors"
)

// Store owns every registered resource behind a type-erased handle
// keyed by Identity. Identity-scoped metadata (display state, active
// flag, draw layer, tags) lives on the entry and survives Replace
// unless the caller asks for a reset.
type Store struct {
	entries   map[Identity]*entry
	order     []Identity
	observers []Observer
	mu        sync.RWMutex
	obsMu     sync.RWMutex
}

type entry struct {
	value         Resource
	tags          map[string]struct{}
	display       DisplayInfo
	layer         int
	borrowed      bool
	active        bool
	removePending bool
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		entries: make(map[Identity]*entry, 64),
	}
}

// Register stores r under the identity (name, r.Kind()). Fails with
// duplicate_identity if that identity is already live.
func (s *Store) Register(name string, r Resource) error {
	id := Identity{Name: name, Kind: r.Kind()}

	s.mu.Lock()
	if _, ok := s.entries[id]; ok {
		s.mu.Unlock()
		return errors.DuplicateIdentity(id.Name, id.Kind)
	}
	s.entries[id] = &entry{
		value:   r,
		display: DefaultDisplay(),
		tags:    make(map[string]struct{}),
	}
	s.order = append(s.order, id)
	s.mu.Unlock()

	s.notify(Event{Type: EventRegistered, ID: id, Value: r})
	return nil
}

// Get returns the resource live under id. Fails with not_found if the
// identity is absent.
func (s *Store) Get(id Identity) (Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, errors.NotFound(id.Name, id.Kind)
	}
	return e.value, nil
}

// GetAs returns the resource under id downcast to T. Fails with
// not_found if absent and kind_mismatch if the stored value is not a
// T, so a bad expectation never turns into a silent type error.
func GetAs[T Resource](s *Store, id Identity) (T, error) {
	var zero T

	r, err := s.Get(id)
	if err != nil {
		return zero, err
	}

	v, ok := r.(T)
	if !ok {
		return zero, errors.KindMismatch(id.Name, id.Kind, r.Kind())
	}
	return v, nil
}

// Borrow hands out the resource under id for exclusive mutation. The
// returned release function must be called exactly once. A second
// Borrow before release fails with busy; this is the only mutable
// access path, so two call sites can never mutate one handle at once.
func (s *Store) Borrow(id Identity) (Resource, func(), error) {
	s.mu.Lock()

	e, ok := s.entries[id]
	if !ok {
		s.mu.Unlock()
		return nil, nil, errors.NotFound(id.Name, id.Kind)
	}
	if e.borrowed {
		s.mu.Unlock()
		return nil, nil, errors.Busy(id.Name, id.Kind, "handle already borrowed")
	}
	e.borrowed = true
	value := e.value
	s.mu.Unlock()

	var once sync.Once
	release := func() {
		once.Do(func() { s.returnBorrow(id) })
	}
	return value, release, nil
}

func (s *Store) returnBorrow(id Identity) {
	s.mu.Lock()
	e, ok := s.entries[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	e.borrowed = false
	if !e.removePending {
		s.mu.Unlock()
		return
	}
	value := e.value
	s.deleteLocked(id)
	s.mu.Unlock()

	s.finishRemove(id, value)
}

// Replace overwrites the resource under id in place. Identity-scoped
// metadata is preserved unless resetMeta is set. Fails with not_found
// if absent, kind_mismatch if r's kind differs from id.Kind, and busy
// while the handle is borrowed.
func (s *Store) Replace(id Identity, r Resource, resetMeta bool) error {
	if r.Kind() != id.Kind {
		return errors.KindMismatch(id.Name, id.Kind, r.Kind())
	}

	s.mu.Lock()
	e, ok := s.entries[id]
	if !ok {
		s.mu.Unlock()
		return errors.NotFound(id.Name, id.Kind)
	}
	if e.borrowed {
		s.mu.Unlock()
		return errors.Busy(id.Name, id.Kind, "cannot replace a borrowed handle")
	}
	old := e.value
	e.value = r
	if resetMeta {
		e.display = DefaultDisplay()
		e.active = false
		e.layer = 0
		e.tags = make(map[string]struct{})
	}
	s.mu.Unlock()

	if c, ok := old.(Closer); ok {
		c.Close()
	}
	s.notify(Event{Type: EventReplaced, ID: id, Value: r})
	return nil
}

// Remove deletes the handle and all identity-scoped metadata and
// notifies observers so back-references (render queue, event bus) are
// purged. If the handle is currently borrowed the removal is deferred
// until the borrow is released; a second Remove during that window
// fails with busy.
func (s *Store) Remove(id Identity) error {
	s.mu.Lock()

	e, ok := s.entries[id]
	if !ok {
		s.mu.Unlock()
		return errors.NotFound(id.Name, id.Kind)
	}
	if e.removePending {
		s.mu.Unlock()
		return errors.Busy(id.Name, id.Kind, "removal already pending")
	}
	if e.borrowed {
		e.removePending = true
		s.mu.Unlock()
		return nil
	}
	value := e.value
	s.deleteLocked(id)
	s.mu.Unlock()

	s.finishRemove(id, value)
	return nil
}

func (s *Store) deleteLocked(id Identity) {
	delete(s.entries, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Store) finishRemove(id Identity, value Resource) {
	if c, ok := value.(Closer); ok {
		c.Close()
	}
	s.notify(Event{Type: EventRemoved, ID: id, Value: value})
}

// Contains reports whether id is live.
func (s *Store) Contains(id Identity) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[id]
	return ok
}

// Len returns the number of live resources.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Each iterates live resources in registration order.
func (s *Store) Each(fn func(Identity, Resource) bool) {
	s.mu.RLock()
	ids := make([]Identity, len(s.order))
	copy(ids, s.order)
	s.mu.RUnlock()

	for _, id := range ids {
		s.mu.RLock()
		e, ok := s.entries[id]
		var value Resource
		if ok {
			value = e.value
		}
		s.mu.RUnlock()
		if !ok {
			continue
		}
		if !fn(id, value) {
			return
		}
	}
}

// SetDisplay replaces the display state for id.
func (s *Store) SetDisplay(id Identity, d DisplayInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return errors.NotFound(id.Name, id.Kind)
	}
	e.display = d
	return nil
}

// Display returns the display state for id. Unknown identities report
// the default (fully visible, layer-respecting).
func (s *Store) Display(id Identity) DisplayInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e, ok := s.entries[id]; ok {
		return e.display
	}
	return DefaultDisplay()
}

// IsVisible reports whether id may be yielded by a draw pass.
func (s *Store) IsVisible(id Identity) bool {
	return s.Display(id).Visible()
}

// SetActive marks id eligible (or not) for the current frame.
func (s *Store) SetActive(id Identity, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return errors.NotFound(id.Name, id.Kind)
	}
	e.active = active
	return nil
}

// IsActive reports whether id runs this frame. Unknown identities are
// inactive.
func (s *Store) IsActive(id Identity) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e, ok := s.entries[id]; ok {
		return e.active
	}
	return false
}

// ClearActive resets every active flag. Called at frame begin so a
// resource participates only when re-marked by that frame's logic.
func (s *Store) ClearActive() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		e.active = false
	}
}

// SetLayer records the draw layer used when id is enqueued.
func (s *Store) SetLayer(id Identity, layer int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return errors.NotFound(id.Name, id.Kind)
	}
	e.layer = layer
	return nil
}

// Layer returns the configured draw layer for id (0 if unknown).
func (s *Store) Layer(id Identity) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e, ok := s.entries[id]; ok {
		return e.layer
	}
	return 0
}

// TagAdd attaches a tag to id. Tags are opaque to the core.
func (s *Store) TagAdd(id Identity, tag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return errors.NotFound(id.Name, id.Kind)
	}
	e.tags[tag] = struct{}{}
	return nil
}

// TagRemove detaches a tag from id. Removing an absent tag is a no-op.
func (s *Store) TagRemove(id Identity, tag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return errors.NotFound(id.Name, id.Kind)
	}
	delete(e.tags, tag)
	return nil
}

// TagHas reports whether id carries the tag.
func (s *Store) TagHas(id Identity, tag string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok {
		return false
	}
	_, ok = e.tags[tag]
	return ok
}

// IdentitiesByTag returns the identities carrying the tag, in
// registration order.
func (s *Store) IdentitiesByTag(tag string) []Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Identity
	for _, id := range s.order {
		if e, ok := s.entries[id]; ok {
			if _, tagged := e.tags[tag]; tagged {
				out = append(out, id)
			}
		}
	}
	return out
}

// Subscribe adds an observer for lifecycle events.
func (s *Store) Subscribe(o Observer) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	s.observers = append(s.observers, o)
}

// Unsubscribe removes an observer.
func (s *Store) Unsubscribe(o Observer) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	for i, obs := range s.observers {
		if obs == o {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}

func (s *Store) notify(e Event) {
	s.obsMu.RLock()
	defer s.obsMu.RUnlock()
	for _, o := range s.observers {
		o.OnStoreEvent(e)
	}
}
