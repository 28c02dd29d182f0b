// Package display implements a shared, line-oriented console surface.
//
// Any goroutine may add, mutate, or remove a line at any time; a single
// render goroutine owns the physical terminal and serializes all changes
// into tear-free repaints. Mutations take the engine's lock, update the
// in-memory line set, and signal the render goroutine, which snapshots
// every line's rendered string under the same lock, releases it, and then
// writes one consolidated update (cursor home, the joined lines, erase to
// end of screen). Painting therefore only ever happens between mutations
// and always reflects a single consistent point-in-time view.
package display
