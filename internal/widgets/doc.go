// Package widgets holds one fetch-and-render unit per dashboard data source.
//
// Each widget exposes a Cycle method that reads its source, then renders
// the result through a [view.Renderer] in a single atomic step. Widgets keep
// no state between cycles: every successful cycle fully replaces what the
// previous one rendered, and a failed read leaves the page untouched.
//
// Renderers are pure functions of their input and are exported so they can
// be exercised against a fake [view.View].
package widgets
