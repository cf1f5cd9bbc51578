package resource

// Identity uniquely addresses one resource in a Store. Resources of
// different kinds may share a name; the (Name, Kind) pair is what must
// be unique.
type Identity struct {
	Name string
	Kind string
}

// ID builds an Identity.
func ID(name, kind string) Identity {
	return Identity{Name: name, Kind: kind}
}

func (id Identity) String() string {
	return id.Name + " (" + id.Kind + ")"
}

// Resource is implemented by every value stored in a Store. Kind
// reports the concrete kind tag used for identity derivation and for
// guarding downcasts.
type Resource interface {
	Kind() string
}

// Drawable is optionally implemented by resources that render
// themselves when their identity is drained from the render queue.
type Drawable interface {
	Draw(s Surface)
}

// Surface is the drawing target handed to each Drawable. The core
// never draws pixels itself; the surrounding application supplies a
// Surface backed by its GUI library.
type Surface interface {
	// Draw places rendered content for the given identity.
	Draw(id Identity, content string)
}

// Closer is optionally implemented by resource values that need
// cleanup when removed or replaced.
type Closer interface {
	Close()
}

// DisplayInfo controls visibility and layer participation for one
// resource. ForceHidden overrides AllowDisplay; IgnoreLayer exempts
// the resource from layer ordering (it draws regardless of its
// position in the queue).
type DisplayInfo struct {
	AllowDisplay bool
	ForceHidden  bool
	IgnoreLayer  bool
}

// DefaultDisplay is the display state of a resource that was never
// configured: fully visible, layer-respecting.
func DefaultDisplay() DisplayInfo {
	return DisplayInfo{AllowDisplay: true}
}

// Visible reports whether the resource may be yielded by a draw pass.
func (d DisplayInfo) Visible() bool {
	return d.AllowDisplay && !d.ForceHidden
}

// Event types for store lifecycle notifications.
type EventType uint8

const (
	EventRegistered EventType = iota
	EventReplaced
	EventRemoved
)

// Event describes one store lifecycle transition.
type Event struct {
	Value Resource
	ID    Identity
	Type  EventType
}

// Observer receives store lifecycle events. The render queue and the
// event bus subscribe one of these to purge entries for removed
// identities.
type Observer interface {
	OnStoreEvent(Event)
}
