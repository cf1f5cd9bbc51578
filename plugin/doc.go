// Package plugin hosts external lookup-miss resolvers.
//
// The core defers unresolved identities to external handlers through
// the event bus; it never links against them. This package provides
// the other side of that contract: a Resolver interface for native
// handlers, a Poll loop that feeds a resolver from a bus, and Host, a
// wazero-backed Resolver that delegates to a guest WASM module. A
// guest implements two exports (alloc and resolve) and can be written
// in any language that compiles to WASM, which keeps third-party
// resource kinds fully out of the core's dependency graph.
package plugin
