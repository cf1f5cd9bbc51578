// Package event implements the notification bus between the core and
// external resource kinds.
//
// The core never imports an external kind. When a lookup misses
// locally for an identity known to belong to one, the core raises a
// lookup-miss event here; external handlers poll DrainPending (once
// per frame, or slower), Resolve each event they own, and Acknowledge
// it once consumed. Ordering is the only guarantee: a consumer sees
// events in the order they were raised. Nothing is said about when a
// pending event resolves; that may happen in the same frame or many
// frames later.
package event
