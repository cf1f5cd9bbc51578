// Package stage provides a resource registry and deferred render
// pipeline for immediate-mode GUI applications.
//
// Applications register named, typed visual units once; each frame's
// draw order, visibility, and cross-module notifications are resolved
// by the pipeline instead of the application re-issuing draw calls in
// the right order by hand.
//
// # Architecture Overview
//
// The module is organized into packages with distinct responsibilities:
//
//	stage/               Root package (documentation only)
//	├── stage/           Frame orchestrator: begin/draw/end, place, miss routing
//	├── resource/        Identity registry and type-erased resource store
//	├── render/          Per-frame render queue with layer ordering and jumps
//	├── event/           Notification bus toward external resource kinds
//	├── errors/          The single structured error surface
//	├── config/          Optional stage.yaml configuration
//	└── plugin/          External lookup-miss resolvers (native or WASM)
//
// # Quick Start
//
// Drive a frame:
//
//	st := stage.New()
//	st.BeginFrame()
//	st.Place("hp_bar", gauge, 5)
//	st.Draw(surface)
//	st.EndFrame()
//
// The surrounding application loop owns frame boundaries; nothing in
// the pipeline advances on its own.
package stage
