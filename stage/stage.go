package stage

import (
	"go.uber.org/zap"

	"github.com/frameforge/stage/errors"
	"github.com/frameforge/stage/event"
	"github.com/frameforge/stage/render"
	"github.com/frameforge/stage/resource"
)

// Stage ties the store, the render queue, and the event bus into the
// per-frame control flow. The surrounding application loop drives it:
//
//	st.BeginFrame()
//	// per-frame logic: Place / Activate / mutate resources
//	st.Draw(surface)
//	st.EndFrame()
//
// The stage owns frame boundaries explicitly; nothing resets on its
// own between frames.
type Stage struct {
	store         *resource.Store
	queue         *render.Queue
	bus           *event.Bus
	log           *zap.Logger
	externalKinds map[string]struct{}
	stats         Stats
}

// Stats is a snapshot of frame bookkeeping.
type Stats struct {
	Frames        uint64
	Drawn         uint64
	SkippedHidden uint64
	MissesRaised  uint64
}

// Option configures a Stage.
type Option func(*Stage)

// WithLogger injects a logger. The default is a nop logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Stage) {
		if l != nil {
			s.log = l
		}
	}
}

// WithExternalKinds declares resource kinds owned by external
// handlers. A lookup miss for one of these raises a bus event instead
// of ending at not_found.
func WithExternalKinds(kinds ...string) Option {
	return func(s *Stage) {
		for _, k := range kinds {
			s.externalKinds[k] = struct{}{}
		}
	}
}

// New creates a Stage with an empty store, queue, and bus.
func New(opts ...Option) *Stage {
	s := &Stage{
		store:         resource.NewStore(),
		bus:           event.NewBus(),
		log:           zap.NewNop(),
		externalKinds: make(map[string]struct{}),
	}
	s.queue = render.NewQueue(s.store.Display)
	s.store.Subscribe(&purger{stage: s})

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// purger keeps back-references alive no longer than the resource:
// when an identity leaves the store, its queue entries and bus events
// go with it.
type purger struct {
	stage *Stage
}

func (p *purger) OnStoreEvent(e resource.Event) {
	if e.Type != resource.EventRemoved {
		return
	}
	p.stage.queue.Purge(e.ID)
	p.stage.bus.Purge(e.ID)
	p.stage.log.Debug("purged back-references",
		zap.String("resource", e.ID.String()))
}

// Store exposes the resource store.
func (s *Stage) Store() *resource.Store { return s.store }

// Queue exposes the render queue.
func (s *Stage) Queue() *render.Queue { return s.queue }

// Bus exposes the event bus for external handlers.
func (s *Stage) Bus() *event.Bus { return s.bus }

// Stats returns a snapshot of the frame counters.
func (s *Stage) Stats() Stats { return s.stats }

// RegisterExternalKind declares an external kind after construction.
func (s *Stage) RegisterExternalKind(kind string) {
	s.externalKinds[kind] = struct{}{}
}

func (s *Stage) isExternal(kind string) bool {
	_, ok := s.externalKinds[kind]
	return ok
}

// Lookup fetches id from the store. A not_found for an external kind
// additionally raises a lookup-miss event so the owning handler can
// resolve it; the error is still returned to the caller.
func (s *Stage) Lookup(id resource.Identity) (resource.Resource, error) {
	r, err := s.store.Get(id)
	if err != nil && errors.IsKind(err, errors.KindNotFound) && s.isExternal(id.Kind) {
		s.bus.NotifyMiss(id)
		s.stats.MissesRaised++
		s.log.Debug("lookup miss deferred to external handler",
			zap.String("resource", id.String()))
	}
	return r, err
}

// BeginFrame starts a new frame: the queue returns to Empty and every
// active flag is cleared, so each resource must be opted in again by
// this frame's logic.
func (s *Stage) BeginFrame() {
	s.queue.Reset()
	s.store.ClearActive()
	s.stats.Frames++
}

// Activate marks id eligible for this frame and enqueues it at its
// configured layer. A not_found for an external kind raises a
// lookup-miss event, same as Lookup.
func (s *Stage) Activate(id resource.Identity) error {
	if err := s.store.SetActive(id, true); err != nil {
		if errors.IsKind(err, errors.KindNotFound) && s.isExternal(id.Kind) {
			s.bus.NotifyMiss(id)
			s.stats.MissesRaised++
		}
		return err
	}
	s.queue.Push(id, s.store.Layer(id))
	return nil
}

// Deactivate withdraws id from this frame. An entry already queued
// stays in place but is skipped by Draw.
func (s *Stage) Deactivate(id resource.Identity) error {
	return s.store.SetActive(id, false)
}

// Place collapses the common "create it and show it now" pattern:
// register-or-replace r under name, record its layer, mark it active,
// and enqueue it for this frame. Replacement keeps existing
// identity-scoped metadata apart from the layer.
func (s *Stage) Place(name string, r resource.Resource, layer int) error {
	id := resource.ID(name, r.Kind())

	if s.store.Contains(id) {
		if err := s.store.Replace(id, r, false); err != nil {
			return err
		}
	} else if err := s.store.Register(name, r); err != nil {
		return err
	}

	if err := s.store.SetLayer(id, layer); err != nil {
		return err
	}
	if err := s.store.SetActive(id, true); err != nil {
		return err
	}
	s.queue.Push(id, layer)
	return nil
}

// Draw finalizes ordering if needed and drains the queue, invoking
// each drawable resource's draw step against surface. Inactive
// entries are skipped like invisible ones: drained, never drawn.
func (s *Stage) Draw(surface resource.Surface) {
	before := s.queue.Remaining()
	yielded := 0

	for id := range s.queue.Drain() {
		yielded++
		if !s.store.IsActive(id) {
			continue
		}
		r, err := s.store.Get(id)
		if err != nil {
			// Purge-on-remove makes a queued-but-missing identity a
			// programming defect, not a runtime condition.
			s.log.Warn("queued identity missing from store",
				zap.String("resource", id.String()))
			continue
		}
		if d, ok := r.(resource.Drawable); ok && surface != nil {
			d.Draw(surface)
		}
		s.stats.Drawn++
	}

	s.stats.SkippedHidden += uint64(before - yielded)
}

// EndFrame closes the frame and logs the running counters.
func (s *Stage) EndFrame() {
	s.log.Debug("frame end",
		zap.Uint64("frames", s.stats.Frames),
		zap.Uint64("drawn", s.stats.Drawn),
		zap.Uint64("skipped_hidden", s.stats.SkippedHidden),
		zap.Uint64("misses", s.stats.MissesRaised),
		zap.Int("bus_pending", s.bus.PendingCount()))
}
