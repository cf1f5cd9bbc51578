// Package stage assembles the resource store, the render queue, and
// the event bus into a frame-driven pipeline.
//
// Everything is single-threaded and cooperative: all operations run
// synchronously inside one update-then-draw pass triggered by the
// surrounding application loop. Frame boundaries are explicit calls
// (BeginFrame / EndFrame), so the pipeline is fully testable without
// a GUI loop driving it.
//
// The stage also wires the cascade contract: removing a resource from
// the store purges any queue entries and bus events referencing it,
// so neither ever holds a dangling identity.
package stage
