// Package resource provides the identity registry and the type-erased
// resource store.
//
// A resource is any value implementing Resource; its concrete kind tag
// is recorded at registration time and forms half of its Identity.
// Storage is heterogeneous: the store holds values behind the Resource
// interface and hands back the concrete type only through GetAs, which
// checks the recorded kind before the downcast:
//
//	store := resource.NewStore()
//	if err := store.Register("hp_bar", gauge); err != nil { ... }
//
//	g, err := resource.GetAs[*Gauge](store, resource.ID("hp_bar", "Gauge"))
//
// # Exclusive mutation
//
// Borrow is the only mutable access path. It marks the handle borrowed
// until the release function runs, and a Remove issued mid-borrow is
// deferred until release, so a resource can remove itself during its
// own draw step without a use-after-free.
//
// # Identity-scoped metadata
//
// Display state, the per-frame active flag, the draw layer, and tags
// are attached to the identity, not the value: Replace swaps content
// while keeping them, unless asked to reset.
//
// # Observers
//
// Lifecycle observers see every register, replace, and remove. The
// render queue and event bus use one to purge back-references when an
// identity dies.
package resource
