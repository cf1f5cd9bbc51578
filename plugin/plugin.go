package plugin

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/frameforge/stage/event"
	"github.com/frameforge/stage/resource"
)

// Resolver is an external handler for deferred identities. Host
// implements it for WASM guests; applications may supply native
// implementations.
type Resolver interface {
	// Handles reports whether this resolver owns the resource kind.
	Handles(kind string) bool

	// Resolve attempts external resolution of id, returning the
	// outcome state (Resolved or Failed).
	Resolve(ctx context.Context, id resource.Identity) (event.State, error)
}

// Host runs a guest WASM module that implements external resolution.
//
// Guest protocol, two exports:
//
//	alloc(size: i32) -> i32        linear-memory allocation
//	resolve(ptr: i32, len: i32) -> i32   1 means resolved
//
// The host writes the identity as name NUL kind into guest memory and
// calls resolve.
type Host struct {
	runtime wazero.Runtime
	module  api.Module
	alloc   api.Function
	resolve api.Function
	kinds   map[string]struct{}
	log     *zap.Logger
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithLogger injects a logger. The default is a nop logger.
func WithLogger(l *zap.Logger) HostOption {
	return func(h *Host) {
		if l != nil {
			h.log = l
		}
	}
}

// NewHost compiles and instantiates the guest module and binds its
// exports. kinds lists the resource kinds this guest owns.
func NewHost(ctx context.Context, wasmBytes []byte, kinds []string, opts ...HostOption) (*Host, error) {
	h := &Host{
		kinds: make(map[string]struct{}, len(kinds)),
		log:   zap.NewNop(),
	}
	for _, k := range kinds {
		h.kinds[k] = struct{}{}
	}
	for _, opt := range opts {
		opt(h)
	}

	h.runtime = wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig())

	compiled, err := h.runtime.CompileModule(ctx, wasmBytes)
	if err != nil {
		h.runtime.Close(ctx)
		return nil, fmt.Errorf("compile resolver module: %w", err)
	}

	mod, err := h.runtime.InstantiateModule(ctx, compiled,
		wazero.NewModuleConfig().WithName("resolver"))
	if err != nil {
		h.runtime.Close(ctx)
		return nil, fmt.Errorf("instantiate resolver module: %w", err)
	}
	h.module = mod

	h.alloc = mod.ExportedFunction("alloc")
	h.resolve = mod.ExportedFunction("resolve")
	if h.alloc == nil || h.resolve == nil {
		h.runtime.Close(ctx)
		return nil, fmt.Errorf("resolver module must export alloc and resolve")
	}

	return h, nil
}

// Handles reports whether the guest owns kind.
func (h *Host) Handles(kind string) bool {
	_, ok := h.kinds[kind]
	return ok
}

// Resolve writes the identity into guest memory and invokes the
// guest's resolve export.
func (h *Host) Resolve(ctx context.Context, id resource.Identity) (event.State, error) {
	payload := make([]byte, 0, len(id.Name)+1+len(id.Kind))
	payload = append(payload, id.Name...)
	payload = append(payload, 0)
	payload = append(payload, id.Kind...)

	res, err := h.alloc.Call(ctx, uint64(len(payload)))
	if err != nil {
		return event.StateFailed, fmt.Errorf("guest alloc: %w", err)
	}
	ptr := uint32(res[0])

	if !h.module.Memory().Write(ptr, payload) {
		return event.StateFailed, fmt.Errorf("guest memory write at %d (%d bytes) out of range", ptr, len(payload))
	}

	res, err = h.resolve.Call(ctx, uint64(ptr), uint64(len(payload)))
	if err != nil {
		return event.StateFailed, fmt.Errorf("guest resolve: %w", err)
	}
	outcome := event.StateFailed
	if uint32(res[0]) == 1 {
		outcome = event.StateResolved
	}
	h.log.Debug("guest resolve returned",
		zap.String("resource", id.String()),
		zap.String("outcome", outcome.String()))
	return outcome, nil
}

// Close releases the guest runtime.
func (h *Host) Close(ctx context.Context) error {
	return h.runtime.Close(ctx)
}

// Poll runs one handler pass: every pending event whose kind r owns
// is resolved through r and acknowledged. Events for other kinds, and
// events already resolved or failed, are left untouched. The first
// guest failure aborts the pass so the remaining events survive for
// the next one.
func Poll(ctx context.Context, bus *event.Bus, r Resolver, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}

	for e := range bus.DrainPending() {
		if e.State != event.StatePending || !r.Handles(e.ID.Kind) {
			continue
		}

		outcome, err := r.Resolve(ctx, e.ID)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", e.ID, err)
		}
		if err := bus.Resolve(e.ID, outcome); err != nil {
			// Raised and purged within the same pass; skip it.
			log.Debug("event vanished before resolution",
				zap.String("resource", e.ID.String()))
			continue
		}
		if err := bus.Acknowledge(e.ID); err != nil {
			return fmt.Errorf("acknowledge %s: %w", e.ID, err)
		}
		log.Debug("externally resolved",
			zap.String("resource", e.ID.String()),
			zap.String("outcome", outcome.String()))
	}
	return nil
}
