// Package render implements the per-frame deferred render queue.
//
// A Queue moves through four states each frame:
//
//	Empty -> Building -> Ready -> Drained -> (Reset) -> Empty
//
// Entries are pushed while Building as resources are activated, each
// carrying the resource's configured draw layer. Seal finalizes the
// draw order: stable sort by ascending layer, insertion order breaking
// ties. Drain yields the ordered identities lazily; visibility is
// checked per entry at yield time, and hidden entries are skipped but
// still count as drained.
//
// RequestJump is the priority escape hatch: it moves one entry ahead
// of everything not yet drained, bypassing layer order for that entry
// only. Building and Ready are deliberately distinct states because a
// jump requested before sealing survives the sort, while a jump
// requested mid-drain splices the entry in as the next yield.
package render
